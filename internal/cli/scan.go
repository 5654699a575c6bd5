package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"dividend-screener/internal/calendar"
	"dividend-screener/internal/marketdata"
	"dividend-screener/internal/report"
	"dividend-screener/internal/screener"
	"dividend-screener/pkg/dates"
)

func newScanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run the dividend screen over the upcoming calendar window",
		Long: `Scan fetches the dividend calendar for every weekday in the window,
enriches each ticker with recent daily price history, keeps names whose
dollar volume and dividend yield clear the configured floors, and writes
the report.

The default window runs from yesterday through ten business days ahead.
An empty result is not an error.`,
		Example: `  screener scan
  screener scan --from 2026-08-24 --to 2026-09-04
  screener scan --min-yield 4.5 --output /tmp/screener.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx := context.Background()

			cfg := *app.Config

			if v, _ := cmd.Flags().GetFloat64("min-yield"); cmd.Flags().Changed("min-yield") {
				cfg.Screener.MinYieldPct = v
			}
			if v, _ := cmd.Flags().GetInt64("min-dollar-volume"); cmd.Flags().Changed("min-dollar-volume") {
				cfg.Screener.MinDollarVolume = v
			}
			if v, _ := cmd.Flags().GetInt("concurrency"); cmd.Flags().Changed("concurrency") {
				cfg.Screener.Concurrency = v
			}
			// Flag overrides bypass config.Load, so re-check the result.
			if err := cfg.Validate(); err != nil {
				return err
			}
			csvPath, _ := cmd.Flags().GetString("output")

			start, end, err := scanWindow(cmd, cfg.Screener.LookbackDays, cfg.Screener.LookaheadBusinessDays)
			if err != nil {
				return err
			}

			app.Logger.Info().
				Str("from", start.Format("2006-01-02")).
				Str("to", end.Format("2006-01-02")).
				Msg("Starting scan")

			cal := calendar.NewClient(cfg.Calendar, app.Logger)
			events, err := cal.FetchRange(ctx, start, end)
			if err != nil {
				return err
			}

			if !output.IsJSON() {
				output.Info("Fetched %d calendar entries, enriching...", len(events))
			}

			market := marketdata.NewClient(cfg.MarketData, app.Logger)
			scr := screener.New(market, cfg.Screener, app.Logger)
			records, err := scr.Run(ctx, events)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				if err := output.JSON(records); err != nil {
					return err
				}
			}

			exporter := report.NewExporter(csvPath, app.Logger)
			if output.IsJSON() {
				// Table already replaced by JSON; still persist the CSV.
				return exporter.Export(noopWriter{}, records)
			}
			return exporter.Export(cmd.OutOrStdout(), records)
		},
	}

	cmd.Flags().String("from", "", "window start (YYYY-MM-DD, default: yesterday)")
	cmd.Flags().String("to", "", "window end (YYYY-MM-DD, default: +10 business days)")
	cmd.Flags().StringP("output", "o", "screener.csv", "CSV output path")
	cmd.Flags().Float64("min-yield", 0, "minimum dividend yield % (strict >)")
	cmd.Flags().Int64("min-dollar-volume", 0, "minimum dollar volume (strict >)")
	cmd.Flags().Int("concurrency", 0, "concurrent price-history fetches")

	return cmd
}

// scanWindow resolves the scan window from flags or the configured
// defaults: [today - lookback days, today + lookahead business days].
func scanWindow(cmd *cobra.Command, lookbackDays, lookaheadBusinessDays int) (time.Time, time.Time, error) {
	today := dates.Truncate(time.Now())
	start := today.AddDate(0, 0, -lookbackDays)
	end := dates.AddBusinessDays(today, lookaheadBusinessDays)

	if v, _ := cmd.Flags().GetString("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --from date %q: %w", v, err)
		}
		start = t
	}
	if v, _ := cmd.Flags().GetString("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --to date %q: %w", v, err)
		}
		end = t
	}

	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("window end %s precedes start %s",
			end.Format("2006-01-02"), start.Format("2006-01-02"))
	}

	return start, end, nil
}

// noopWriter discards the table view when JSON output is requested.
type noopWriter struct{}

func (noopWriter) Write(p []byte) (int, error) { return len(p), nil }
