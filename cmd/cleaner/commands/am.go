package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/cleaner/am"
	"github.com/teranos/cleaner/display"
	"github.com/teranos/cleaner/errors"
	"github.com/teranos/cleaner/sym"
)

// AmCmd represents the am (configuration) command
var AmCmd = &cobra.Command{
	Use:   "am",
	Short: sym.AM + " Manage cleaner configuration",
	Long: sym.AM + ` am — Manage cleaner configuration ("I am")

Display and check the settings for the scoring service, session
probabilities, default dataset and logging.

Configuration sources (in order of precedence):
1. Environment variables (CLEANER_* prefix)
2. Project config (./am.toml, searching up directories)
3. User config (~/.cleaner/am.toml)
4. System config (/etc/cleaner/am.toml)
5. Default values

Examples:
  cleaner am show                    # Show current configuration
  cleaner am show --format json      # Show configuration in JSON format
  cleaner am get scoring.base_url    # Get specific config value
  cleaner am validate                # Validate current configuration
  cleaner am where                   # Show which source set each value`,
}

var amShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  "Display the current cleaner configuration from all sources",
	RunE:  runAmShow,
}

var amGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a specific configuration value",
	Long:  "Get a specific configuration value using dot notation (e.g., scoring.base_url, session.prob_step)",
	Args:  cobra.ExactArgs(1),
	RunE:  runAmGet,
}

var amValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate current configuration",
	Long:  "Validate that the current cleaner configuration is valid",
	RunE:  runAmValidate,
}

var amWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where configuration is loaded from",
	Long: `Show the configuration cascade and the source of every effective setting.`,
	RunE: runAmWhere,
}

var configFormat string

func init() {
	amShowCmd.Flags().StringVar(&configFormat, "format", "toml", "Output format: toml, json, yaml")

	AmCmd.AddCommand(amShowCmd)
	AmCmd.AddCommand(amGetCmd)
	AmCmd.AddCommand(amValidateCmd)
	AmCmd.AddCommand(amWhereCmd)
}

// marshalConfig renders cfg in one of the supported formats.
func marshalConfig(cfg *am.Config, format string) ([]byte, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		return append(data, '\n'), errors.Wrap(err, "failed to marshal config to JSON")
	case "yaml":
		data, err := yaml.Marshal(cfg)
		return append([]byte("# cleaner configuration\n"), data...), errors.Wrap(err, "failed to marshal config to YAML")
	case "toml":
		data, err := toml.Marshal(cfg)
		return append([]byte("# cleaner configuration\n"), data...), errors.Wrap(err, "failed to marshal config to TOML")
	default:
		return nil, errors.NewInvalidRequestError("unsupported format: %s (supported: toml, json, yaml)", format)
	}
}

func runAmShow(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	format := configFormat
	if display.ShouldOutputJSON(cmd) {
		format = "json"
	}
	data, err := marshalConfig(cfg, format)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func runAmGet(cmd *cobra.Command, args []string) error {
	key := args[0]

	v := am.GetViper()
	if !v.IsSet(key) {
		return errors.WithHint(
			errors.NewNotFoundError("configuration key %q", key),
			"run `cleaner am where` to list every key")
	}

	fmt.Fprintln(cmd.OutOrStdout(), am.Get(key))
	return nil
}

func runAmValidate(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}

	fmt.Fprintln(cmd.OutOrStdout(), sym.True+" Configuration is valid")
	return nil
}

func runAmWhere(cmd *cobra.Command, args []string) error {
	settings := am.Introspect()
	out := cmd.OutOrStdout()
	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(out, settings)
	}

	fmt.Fprintln(out, "Configuration cascade (later overrides earlier):")
	fmt.Fprintln(out, "  1. [DEFAULT]  Built-in defaults")
	fmt.Fprintln(out, "  2. [SYSTEM]   /etc/cleaner/am.toml")
	fmt.Fprintln(out, "  3. [USER]     ~/.cleaner/am.toml")
	fmt.Fprintln(out, "  4. [PROJECT]  ./am.toml (searches up directories)")
	fmt.Fprintln(out, "  5. [ENV]      "+am.EnvPrefix+"_* environment variables")
	fmt.Fprintln(out)

	printSettingsBySource(out, settings)
	return nil
}

// printSettingsBySource groups settings under the source that set them, in cascade order.
func printSettingsBySource(w io.Writer, settings []am.SettingInfo) {
	sourceOrder := []am.ConfigSource{
		am.SourceDefault,
		am.SourceSystem,
		am.SourceUser,
		am.SourceProject,
		am.SourceEnvironment,
	}

	fmt.Fprintln(w, "Active configuration:")
	for _, source := range sourceOrder {
		var group []am.SettingInfo
		for _, s := range settings {
			if s.Source == source {
				group = append(group, s)
			}
		}
		if len(group) == 0 {
			continue
		}

		switch source {
		case am.SourceDefault:
			fmt.Fprintf(w, "\n%s: %d settings\n", source, len(group))
		case am.SourceEnvironment:
			fmt.Fprintf(w, "\n%s: %d settings from environment variables\n", source, len(group))
		default:
			fmt.Fprintf(w, "\n%s: %d settings from %s\n", source, len(group), group[0].SourcePath)
		}

		for _, s := range group {
			valueStr := fmt.Sprintf("%v", s.Value)
			if len(valueStr) > 50 {
				valueStr = valueStr[:47] + "..."
			}
			fmt.Fprintf(w, "  %s = %s\n", s.Key, valueStr)
		}
	}
}
