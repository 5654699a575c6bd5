// Dividend screener — scans the upcoming ex-dividend calendar for liquid
// high-yield names.
//
// Main CLI entrypoint using the cobra command framework.
package main

import (
	"fmt"
	"os"

	"dividend-screener/internal/cli"
	"dividend-screener/internal/config"
	"dividend-screener/internal/logging"
)

func main() {
	cfg, err := config.Load(os.Getenv("SCREENER_CONFIG_DIR"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := logging.NewLoggerWithConfig(cfg.LogConfig())

	if err := cli.NewRootCmd(cfg, logger).Execute(); err != nil {
		logger.Error().Err(err).Msg("Command failed")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
