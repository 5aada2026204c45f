// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes kpimatrix's conversion operations as tools over stdio transport.
package mcpserver

import (
	"fmt"
	"os"
	"path/filepath"
)

// PathInfo holds the resolved location of a table file.
type PathInfo struct {
	// AbsPath is the absolute, symlink-resolved file path.
	AbsPath string
	// Dir is the directory holding config and state for the table.
	Dir string
}

// ResolvePath resolves a table file path to an absolute path. When dir is
// empty the file's own directory is used. It returns an error if the path
// does not exist or is a directory.
func ResolvePath(path, dir string) (*PathInfo, error) {
	if path == "" {
		return nil, fmt.Errorf("path is required")
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %q: %w", path, err)
	}

	absPath, err = filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %q: %w", path, err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("path %q does not exist", path)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%q is a directory, not a table file", path)
	}

	if dir == "" {
		dir = filepath.Dir(absPath)
	} else if dir, err = filepath.Abs(dir); err != nil {
		return nil, fmt.Errorf("cannot resolve dir: %w", err)
	}
	return &PathInfo{AbsPath: absPath, Dir: dir}, nil
}
