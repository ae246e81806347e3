package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mj1618/weel/internal/config"
	"github.com/mj1618/weel/internal/output"
	"github.com/mj1618/weel/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "weel",
	Short: "Run macro-pad button actions",
	Long: `weel turns presses on a programmable button pad into desktop actions:
hotkeys, websites, apps, text, media keys, sounds, timers, page and profile
navigation, and multi-step macros.`,
	SilenceUsage: true,
}

// Loaded by PersistentPreRunE before any subcommand runs.
var (
	cfg    config.Config
	logger *slog.Logger
)

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	rootCmd.PersistentFlags().String("config", "", "Config file (default: <user config dir>/weel/config.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "", "Directory holding weel-profiles.json")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("format", "yaml", "Output format: yaml, json")
	rootCmd.PersistentFlags().Bool("pretty", false, "Indent JSON output")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// Use the root persistent flags directly so subcommand local flags
		// never shadow them.
		format, _ := rootCmd.PersistentFlags().GetString("format")
		f, err := output.ParseFormat(format)
		if err != nil {
			return err
		}
		output.OutputFormat = f
		output.PrettyOutput, _ = rootCmd.PersistentFlags().GetBool("pretty")

		path, _ := rootCmd.PersistentFlags().GetString("config")
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		overrides := config.FlagOverrides{}
		if rootCmd.PersistentFlags().Changed("data-dir") {
			v, _ := rootCmd.PersistentFlags().GetString("data-dir")
			overrides.DataDir = &v
		}
		if rootCmd.PersistentFlags().Changed("log-level") {
			v, _ := rootCmd.PersistentFlags().GetString("log-level")
			overrides.LogLevel = &v
		}
		if err := applyCommandOverrides(cmd, &overrides); err != nil {
			return err
		}
		overrides.Apply(&loaded)
		if err := loaded.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		cfg = loaded

		// Logs go to stderr so stdout stays clean for results and MCP stdio.
		logger, err = config.NewLogger(os.Stderr, cfg.Logging.Level)
		if err != nil {
			return err
		}
		slog.SetDefault(logger)
		return nil
	}
}

// applyCommandOverrides picks up the serve/mcp flags that override config
// values. Commands without those flags are left alone.
func applyCommandOverrides(cmd *cobra.Command, o *config.FlagOverrides) error {
	flags := cmd.Flags()
	if f := flags.Lookup("device"); f != nil && f.Changed {
		v := f.Value.String()
		o.TriggerDevice = &v
	}
	if f := flags.Lookup("app-watch"); f != nil && f.Changed {
		v, err := flags.GetBool("app-watch")
		if err != nil {
			return err
		}
		o.AppWatch = &v
	}
	if f := flags.Lookup("listen"); f != nil && f.Changed {
		v := f.Value.String()
		o.StateWSListen = &v
	}
	if f := flags.Lookup("transport"); f != nil && f.Changed {
		v := f.Value.String()
		o.MCPTransport = &v
	}
	if f := flags.Lookup("port"); f != nil && f.Changed {
		v, err := flags.GetInt("port")
		if err != nil {
			return err
		}
		o.MCPPort = &v
	}
	return nil
}
