package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/davetashner/kpimatrix/internal/columns"
	"github.com/davetashner/kpimatrix/internal/config"
	"github.com/davetashner/kpimatrix/internal/output"
	"github.com/davetashner/kpimatrix/internal/pipeline"
)

// ConvertInput is the input schema for the convert MCP tool.
type ConvertInput struct {
	Path         string `json:"path" jsonschema:"Table file to convert (.csv, .xlsx or .json)"`
	Dir          string `json:"dir,omitempty" jsonschema:"Directory holding .kpimatrix.yaml and state (defaults to the file's directory)"`
	Format       string `json:"format,omitempty" jsonschema:"Output format: json, markdown, text (default: json)"`
	Sheet        string `json:"sheet,omitempty" jsonschema:"Worksheet of an XLSX workbook (default: first)"`
	SettingsFile string `json:"settings_file,omitempty" jsonschema:"YAML or TOML settings file"`
	ViewMode     string `json:"view_mode,omitempty" jsonschema:"view or edit; edit seeds per-series settings"`
	SaveState    bool   `json:"save_state,omitempty" jsonschema:"Persist the column mapping and series settings after converting"`
}

// ColumnsInput is the input schema for the columns MCP tool.
type ColumnsInput struct {
	Path  string `json:"path" jsonschema:"Table file to inspect (.csv, .xlsx or .json)"`
	Dir   string `json:"dir,omitempty" jsonschema:"Directory holding .kpimatrix.yaml (defaults to the file's directory)"`
	Sheet string `json:"sheet,omitempty" jsonschema:"Worksheet of an XLSX workbook (default: first)"`
}

// RolesInput is the input schema for the roles MCP tool.
type RolesInput struct{}

// boolPtr returns a pointer to a bool.
func boolPtr(b bool) *bool { return &b }

// registerTools adds all kpimatrix tools to the MCP server.
func registerTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "convert",
		Description: "Convert a role-tagged table into a hierarchical KPI matrix with current values, comparisons, variances and sparklines.",
		Annotations: &mcp.ToolAnnotations{
			ReadOnlyHint:    false,
			DestructiveHint: boolPtr(false),
			OpenWorldHint:   boolPtr(false),
		},
	}, handleConvert)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "columns",
		Description: "Show the columns of a table file, the roles bound to them and the per-metric column mapping.",
		Annotations: &mcp.ToolAnnotations{
			ReadOnlyHint:    true,
			DestructiveHint: boolPtr(false),
			OpenWorldHint:   boolPtr(false),
		},
	}, handleColumns)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "roles",
		Description: "List the column roles a table can bind, with their kind and column limits.",
		Annotations: &mcp.ToolAnnotations{
			ReadOnlyHint:    true,
			DestructiveHint: boolPtr(false),
			OpenWorldHint:   boolPtr(false),
		},
	}, handleRoles)
}

func newPipeline(dir string, run config.RunConfig) (*pipeline.Pipeline, error) {
	fileCfg, err := config.LoadEffective(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := config.Validate(fileCfg); err != nil {
		return nil, err
	}
	return pipeline.New(pipeline.Options{
		Dir:    dir,
		Config: fileCfg,
		Run:    config.Merge(fileCfg, run),
	})
}

func handleConvert(ctx context.Context, _ *mcp.CallToolRequest, input ConvertInput) (*mcp.CallToolResult, any, error) {
	pathInfo, err := ResolvePath(input.Path, input.Dir)
	if err != nil {
		return nil, nil, err
	}

	format := "json"
	if input.Format != "" {
		format = input.Format
	}
	formatter, err := output.GetFormatter(format)
	if err != nil {
		return nil, nil, fmt.Errorf("unsupported format %q", format)
	}

	switch input.ViewMode {
	case "", config.ViewModeView, config.ViewModeEdit:
	default:
		return nil, nil, fmt.Errorf("view_mode must be view or edit, got %q", input.ViewMode)
	}

	p, err := newPipeline(pathInfo.Dir, config.RunConfig{
		OutputFormat: format,
		Sheet:        input.Sheet,
		SettingsFile: input.SettingsFile,
		ViewMode:     input.ViewMode,
	})
	if err != nil {
		return nil, nil, err
	}

	res, err := p.Convert(ctx, pathInfo.AbsPath)
	if err != nil {
		return nil, nil, fmt.Errorf("convert failed: %w", err)
	}
	if input.SaveState {
		if err := p.Save(); err != nil {
			slog.Warn("failed to save state", "error", err)
		}
	}

	var buf bytes.Buffer
	if err := formatter.Format(res.Rep, &buf); err != nil {
		return nil, nil, fmt.Errorf("formatting failed: %w", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: buf.String()},
		},
	}, nil, nil
}

func handleColumns(_ context.Context, _ *mcp.CallToolRequest, input ColumnsInput) (*mcp.CallToolResult, any, error) {
	pathInfo, err := ResolvePath(input.Path, input.Dir)
	if err != nil {
		return nil, nil, err
	}

	p, err := newPipeline(pathInfo.Dir, config.RunConfig{Sheet: input.Sheet})
	if err != nil {
		return nil, nil, err
	}
	info, err := p.Describe(pathInfo.AbsPath)
	if err != nil {
		return nil, nil, fmt.Errorf("describe failed: %w", err)
	}
	return jsonResult(info)
}

// roleInfo is the JSON form of a role descriptor.
type roleInfo struct {
	Role        string `json:"role"`
	DisplayName string `json:"display_name"`
	Kind        string `json:"kind"`
	MaxColumns  int    `json:"max_columns,omitempty"`
}

func handleRoles(_ context.Context, _ *mcp.CallToolRequest, _ RolesInput) (*mcp.CallToolResult, any, error) {
	descs := columns.Descriptors()
	out := make([]roleInfo, 0, len(descs))
	for _, d := range descs {
		kind := "grouping"
		if d.Kind == columns.Measure {
			kind = "measure"
		}
		out = append(out, roleInfo{
			Role:        string(d.Role),
			DisplayName: d.DisplayName,
			Kind:        kind,
			MaxColumns:  d.MaxColumns,
		})
	}
	return jsonResult(out)
}

func jsonResult(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("marshal result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}, nil, nil
}
