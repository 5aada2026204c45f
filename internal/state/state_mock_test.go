// Copyright 2026 The Kpimatrix Authors
// SPDX-License-Identifier: MIT

package state

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/kpimatrix/internal/testable"
)

func TestLoad_MockReadFileError(t *testing.T) {
	oldFS := FS
	defer func() { FS = oldFS }()

	FS = &testable.MockFileSystem{
		ReadFileFn: func(_ string) ([]byte, error) {
			return nil, fmt.Errorf("I/O error")
		},
	}

	s, err := Load("/fake/dir")
	assert.Error(t, err)
	assert.Nil(t, s)
	assert.Contains(t, err.Error(), "I/O error")
}

func TestLoad_MockFileNotExist(t *testing.T) {
	oldFS := FS
	defer func() { FS = oldFS }()

	FS = &testable.MockFileSystem{
		ReadFileFn: func(_ string) ([]byte, error) {
			return nil, os.ErrNotExist
		},
	}

	s, err := Load("/fake/dir")
	require.NoError(t, err)
	assert.Empty(t, s.Tables)
}

func TestSave_MockMkdirAllFailure(t *testing.T) {
	oldFS := FS
	defer func() { FS = oldFS }()

	FS = &testable.MockFileSystem{
		MkdirAllFn: func(_ string, _ os.FileMode) error {
			return fmt.Errorf("permission denied")
		},
	}

	err := Save("/fake/dir", New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create state directory")
	assert.Contains(t, err.Error(), "permission denied")
}

func TestSave_MockWriteFileFailure(t *testing.T) {
	oldFS := FS
	defer func() { FS = oldFS }()

	FS = &testable.MockFileSystem{
		MkdirAllFn: func(_ string, _ os.FileMode) error { return nil },
		WriteFileFn: func(_ string, _ []byte, _ os.FileMode) error {
			return fmt.Errorf("disk full")
		},
	}

	err := Save("/fake/dir", New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestSave_MockRenameFailureRemovesTemp(t *testing.T) {
	oldFS := FS
	defer func() { FS = oldFS }()

	var removed string
	FS = &testable.MockFileSystem{
		MkdirAllFn:  func(_ string, _ os.FileMode) error { return nil },
		WriteFileFn: func(_ string, _ []byte, _ os.FileMode) error { return nil },
		RenameFn: func(_, _ string) error {
			return fmt.Errorf("cross-device link")
		},
		RemoveFn: func(name string) error {
			removed = name
			return nil
		},
	}

	err := Save("/fake/dir", New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "replace state file")
	assert.Equal(t, Path("/fake/dir")+".tmp", removed)
}
