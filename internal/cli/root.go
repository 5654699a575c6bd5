// Package cli provides the command-line interface for the dividend screener.
package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"dividend-screener/internal/config"
	"dividend-screener/internal/logging"
)

// Version information
const (
	Version = "0.1.0"
)

// App holds the application dependencies.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	rootCmd := &cobra.Command{
		Use:   "screener",
		Short: "Dividend screener - find liquid high-yield ex-dividend candidates",
		Long: `Dividend screener pulls upcoming dividend-calendar entries for a date
window, enriches each ticker with recent price/volume history, filters to
liquid high-yield names, and writes a ranked report (console table plus
screener.csv).

Use 'screener scan' to run the full pipeline.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configDir, _ := cmd.Flags().GetString("config"); configDir != "" {
				reloaded, err := config.Load(configDir)
				if err != nil {
					return err
				}
				app.Config = reloaded
			}
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/dividend-screener)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newScanCmd(app))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"version": Version})
			} else {
				output.Printf("Dividend Screener v%s\n", Version)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			return showConfig(output, app.Config)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("✓ Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) error {
	output.Bold("Screener Configuration")
	output.Printf("  Min Dollar Volume: %d\n", cfg.Screener.MinDollarVolume)
	output.Printf("  Min Yield %%:       %.2f\n", cfg.Screener.MinYieldPct)
	output.Printf("  Lookback Days:     %d\n", cfg.Screener.LookbackDays)
	output.Printf("  Lookahead BDays:   %d\n", cfg.Screener.LookaheadBusinessDays)
	output.Printf("  Concurrency:       %d\n", cfg.Screener.Concurrency)
	output.Println()

	output.Bold("Calendar Source")
	output.Printf("  URL:     %s\n", cfg.Calendar.BaseURL)
	output.Printf("  Timeout: %ds\n", cfg.Calendar.TimeoutSeconds)
	output.Println()

	output.Bold("Market Data Source")
	output.Printf("  URL:          %s\n", cfg.MarketData.BaseURL)
	output.Printf("  History Days: %d\n", cfg.MarketData.HistoryDays)
	output.Printf("  Timeout:      %ds\n", cfg.MarketData.TimeoutSeconds)
	output.Println()

	output.Bold("Logging")
	output.Printf("  Level:   %s\n", cfg.Logging.Level)
	output.Printf("  Console: %v\n", cfg.Logging.Console)
	output.Printf("  File:    %v\n", cfg.Logging.File)

	return nil
}
