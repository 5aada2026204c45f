package main

import (
	"fmt"
	"io"
	"path/filepath"
	"slices"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/davetashner/kpimatrix/internal/config"
	"github.com/davetashner/kpimatrix/internal/output"
)

var configGlobal bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and modify kpimatrix configuration",
	Long: `View and modify the converter defaults stored in .kpimatrix.yaml.

Keys use dot notation: output_format, columns.<column>.format,
column_mapping.<metric>.<role>. With --global, get and set act on
~/.config/kpimatrix/config.yaml instead. Setting a value rewrites the
file and drops its comments.`,
}

var configGetCmd = &cobra.Command{
	Use:     "get <key>",
	Short:   "Print a configuration value",
	Example: "  kpimatrix config get columns.Revenue.roles",
	Args:    cobra.ExactArgs(1),
	RunE:    runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:     "set <key> <value>",
	Short:   "Set a configuration value",
	Example: "  kpimatrix config set columns.Revenue.format '$#,0'\n  kpimatrix config set --global view_mode edit",
	Args:    cobra.ExactArgs(2),
	RunE:    runConfigSet,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every set value and the file it comes from",
	Args:  cobra.NoArgs,
	RunE:  runConfigList,
}

func init() {
	configCmd.PersistentFlags().BoolVar(&configGlobal, "global", false, "act on the global config file")
	configCmd.AddCommand(configGetCmd, configSetCmd, configListCmd)
}

func resetConfigFlags() {
	configGlobal = false
	_ = configCmd.PersistentFlags().Set("global", "false")
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	load := func() (*config.Config, error) { return config.LoadEffective(".") }
	if configGlobal {
		load = config.LoadGlobal
	}
	cfg, err := load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	val, err := config.GetValue(cfg, args[0])
	if err != nil {
		return err
	}
	return writeValue(cmd.OutOrStdout(), val)
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, raw := args[0], args[1]
	if err := config.ValidateKeyPath(key); err != nil {
		return err
	}

	path := filepath.Join(".", config.FileName)
	if configGlobal {
		path = config.GlobalConfigPath()
	}
	data, err := config.LoadRaw(path)
	if err != nil {
		return fmt.Errorf("loading config file: %w", err)
	}
	if err := config.SetValue(data, key, raw); err != nil {
		return fmt.Errorf("setting value: %w", err)
	}
	if err := validateRaw(data); err != nil {
		return err
	}
	if err := config.WriteFile(path, data); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, raw)
	return nil
}

// validateRaw decodes an edited raw map and validates it before it is written.
func validateRaw(data map[string]any) error {
	encoded, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	var cfg config.Config
	if err := yaml.Unmarshal(encoded, &cfg); err != nil {
		return fmt.Errorf("invalid config after set: %w", err)
	}
	return config.Validate(&cfg)
}

// configLayer is one config file in precedence order, lowest first.
type configLayer struct {
	source string
	load   func() (*config.Config, error)
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	layers := []configLayer{
		{"global", config.LoadGlobal},
		{"repo", func() (*config.Config, error) { return config.Load(".") }},
	}

	values := make(map[string]any)
	sources := make(map[string]string)
	for _, l := range layers {
		cfg, err := l.load()
		if err != nil {
			return fmt.Errorf("loading %s config: %w", l.source, err)
		}
		m, err := config.ToMap(cfg)
		if err != nil {
			return err
		}
		for k, v := range config.FlattenMap(m, "") {
			values[k], sources[k] = v, l.source
		}
	}

	w := cmd.OutOrStdout()
	if len(values) == 0 {
		_, _ = fmt.Fprintln(w, "No configuration set.")
		_, _ = fmt.Fprintln(w, "Run 'kpimatrix config set <key> <value>' to set values.")
		return nil
	}

	t := output.NewTable(
		output.Column{Header: "Key"},
		output.Column{Header: "Value"},
		output.Column{Header: "Source", Color: sourceColor},
	)
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		t.AddRow(k, fmt.Sprint(values[k]), sources[k])
	}
	return t.Render(w)
}

// writeValue prints scalars on one line and maps or lists as YAML.
func writeValue(w io.Writer, val any) error {
	switch val.(type) {
	case map[string]any, []any:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(val); err != nil {
			return err
		}
		return enc.Close()
	}
	_, err := fmt.Fprintln(w, val)
	return err
}

var sourceColors = map[string]*color.Color{
	"global": color.New(color.FgCyan),
	"repo":   color.New(color.FgGreen),
}

func sourceColor(source string) string {
	if c, ok := sourceColors[source]; ok {
		return c.Sprint(source)
	}
	return source
}
