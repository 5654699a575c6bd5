// Package screener enriches dividend-calendar entries with trailing price
// metrics and filters them to liquid high-yield names.
package screener

import (
	"context"
	"sort"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"dividend-screener/internal/analysis/indicators"
	"dividend-screener/internal/config"
	apperrors "dividend-screener/internal/errors"
	"dividend-screener/internal/logging"
	"dividend-screener/internal/models"
)

const (
	// minObservations is the shortest history that still defines the
	// close five observations back.
	minObservations = 6
	smaPeriod       = 50
	// rocLookback separates the latest close from the close five
	// observations back (four periods apart).
	rocLookback = 4
)

// HistoryProvider supplies recent daily candles for a ticker symbol,
// oldest first.
type HistoryProvider interface {
	History(ctx context.Context, symbol string) ([]models.Candle, error)
}

// Screener runs the enrichment and filter pipeline.
type Screener struct {
	provider HistoryProvider
	cfg      config.ScreenerConfig
	logger   zerolog.Logger
}

// New creates a Screener.
func New(provider HistoryProvider, cfg config.ScreenerConfig, logger zerolog.Logger) *Screener {
	return &Screener{
		provider: provider,
		cfg:      cfg,
		logger:   logging.WithOperation(logger, "screener"),
	}
}

// Run enriches every event, drops those failing the liquidity and yield
// thresholds, and returns the survivors sorted by ex-dividend date.
// A provider failure or short history for one ticker excludes that ticker
// only; it never aborts the batch.
func (s *Screener) Run(ctx context.Context, events []models.DividendEvent) ([]models.EnrichedRecord, error) {
	// SetLimit(0) would block every Go call forever and a negative limit
	// means unbounded, so reject both up front.
	if s.cfg.Concurrency < 1 {
		return nil, apperrors.Wrap(apperrors.ErrConfigInvalid, "concurrency must be at least 1")
	}

	enriched := make([]*models.EnrichedRecord, len(events))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)

	for i, event := range events {
		i, event := i, event
		g.Go(func() error {
			rec, err := s.enrich(gctx, event)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				logging.LogExclusion(s.logger, event.Symbol, err.Error())
				return nil
			}
			enriched[i] = &rec
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	records := make([]models.EnrichedRecord, 0, len(events))
	enrichedCount := 0
	for _, rec := range enriched {
		if rec == nil {
			continue
		}
		enrichedCount++
		if s.retain(*rec) {
			records = append(records, *rec)
		}
	}

	// Unparseable ex-dates (zero time) sort after every real date.
	sort.SliceStable(records, func(a, b int) bool {
		da, db := records[a].ExDate, records[b].ExDate
		if da.IsZero() != db.IsZero() {
			return db.IsZero()
		}
		return da.Before(db)
	})

	logging.LogScanSummary(s.logger, len(events), enrichedCount, len(records))
	return records, nil
}

// enrich computes the trailing metrics for one event. It is a pure
// transform: the input event is copied into a new record, never mutated.
func (s *Screener) enrich(ctx context.Context, event models.DividendEvent) (models.EnrichedRecord, error) {
	candles, err := s.provider.History(ctx, event.Symbol)
	if err != nil {
		return models.EnrichedRecord{}, err
	}
	if len(candles) < minObservations {
		return models.EnrichedRecord{}, apperrors.NewDataError(
			"history", event.Symbol, "fewer than 6 observations", apperrors.ErrInsufficientData)
	}

	latest := candles[len(candles)-1]
	if latest.Close <= 0 {
		return models.EnrichedRecord{}, apperrors.NewDataError(
			"history", event.Symbol, "yield undefined", apperrors.ErrZeroClose)
	}

	rec := models.EnrichedRecord{
		DividendEvent: event,
		Close:         latest.Close,
		Volume:        latest.Volume,
		Close5Ago:     candles[len(candles)-1-rocLookback].Close,
	}

	// The moving average is undefined, not zero, on a short series.
	if sma, err := indicators.NewSMA(smaPeriod).Last(candles); err == nil {
		rec.SMA50 = sma
		rec.SMA50Valid = true
	}

	rec.YieldPct = event.DividendRate.
		Div(decimal.NewFromFloat(latest.Close)).
		Mul(decimal.NewFromInt(100)).
		Round(2)
	rec.DollarVolume = decimal.NewFromFloat(latest.Close).
		Mul(decimal.NewFromInt(latest.Volume)).
		Round(0)

	// A positive rate of change over the lookback is exactly "the close
	// rose" when the baseline is positive; a non-positive baseline leaves
	// the rate undefined, fall back to the raw comparison.
	if rec.Close5Ago > 0 {
		if roc, err := indicators.NewROC(rocLookback).Last(candles); err == nil {
			rec.RoseLast5 = roc > 0
		}
	} else {
		rec.RoseLast5 = rec.Close > rec.Close5Ago
	}
	rec.AboveSMA50 = rec.SMA50Valid && rec.Close > rec.SMA50

	return rec, nil
}

// retain applies the strict liquidity and yield thresholds.
func (s *Screener) retain(rec models.EnrichedRecord) bool {
	minDollarVolume := decimal.NewFromInt(s.cfg.MinDollarVolume)
	minYield := decimal.NewFromFloat(s.cfg.MinYieldPct)
	return rec.DollarVolume.GreaterThan(minDollarVolume) &&
		rec.YieldPct.GreaterThan(minYield)
}
