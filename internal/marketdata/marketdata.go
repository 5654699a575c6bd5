// Package marketdata fetches recent daily price/volume history from a
// chart-API-style market-data provider.
package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"dividend-screener/internal/config"
	apperrors "dividend-screener/internal/errors"
	"dividend-screener/internal/logging"
	"dividend-screener/internal/models"
	"dividend-screener/pkg/retry"
)

// NormalizeSymbol converts a calendar ticker to the provider's convention:
// class-share suffixes use '-' instead of '.' (BRK.B -> BRK-B).
func NormalizeSymbol(symbol string) string {
	return strings.ReplaceAll(symbol, ".", "-")
}

// Client fetches daily price history over HTTP.
type Client struct {
	cfg    config.MarketDataConfig
	client *http.Client
	retry  retry.Config
	logger zerolog.Logger
	now    func() time.Time
}

// NewClient creates a market-data client.
func NewClient(cfg config.MarketDataConfig, logger zerolog.Logger) *Client {
	return &Client{
		cfg: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		retry:  retry.DefaultConfig(),
		logger: logging.WithOperation(logger, "marketdata"),
		now:    time.Now,
	}
}

// chartResponse mirrors the provider's chart JSON. Quote arrays use
// pointers because the provider emits nulls for halted sessions.
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type chartResult struct {
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []chartQuote `json:"quote"`
	} `json:"indicators"`
}

type chartQuote struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume"`
}

// History returns recent daily candles for the symbol, oldest first.
// The lookback window is HistoryDays of calendar time ending now.
func (c *Client) History(ctx context.Context, symbol string) ([]models.Candle, error) {
	ticker := NormalizeSymbol(symbol)
	end := c.now()
	start := end.AddDate(0, 0, -c.cfg.HistoryDays)

	url := fmt.Sprintf(
		"%s/%s?period1=%d&period2=%d&interval=1d",
		c.cfg.BaseURL, ticker, start.Unix(), end.Unix(),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building history request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	// Transport failures retry with backoff; HTTP-level errors do not.
	began := time.Now()
	resp, err := retry.Do(ctx, c.retry, func() (*http.Response, error) {
		return c.client.Do(req)
	})
	logging.LogAPICall(c.logger, http.MethodGet, url, time.Since(began), err)
	if err != nil {
		return nil, apperrors.NewDataError("history", ticker, "fetch failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, apperrors.NewDataError("history", ticker, "fetch failed", &apperrors.HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		})
	}

	var parsed chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, apperrors.NewDataError("history", ticker, "parse failed", err)
	}

	if parsed.Chart.Error != nil {
		return nil, apperrors.NewDataError("history", ticker, parsed.Chart.Error.Description, nil)
	}
	if len(parsed.Chart.Result) == 0 {
		return nil, apperrors.NewDataError("history", ticker, "empty chart result", apperrors.ErrNoData)
	}

	return parseCandles(parsed.Chart.Result[0]), nil
}

// parseCandles converts chart data to candles, skipping null entries.
func parseCandles(result chartResult) []models.Candle {
	if len(result.Indicators.Quote) == 0 {
		return nil
	}

	q := result.Indicators.Quote[0]
	candles := make([]models.Candle, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(q.Close) || q.Close[i] == nil {
			continue
		}
		c := models.Candle{
			Timestamp: time.Unix(ts, 0),
			Close:     *q.Close[i],
		}
		if i < len(q.Open) && q.Open[i] != nil {
			c.Open = *q.Open[i]
		}
		if i < len(q.High) && q.High[i] != nil {
			c.High = *q.High[i]
		}
		if i < len(q.Low) && q.Low[i] != nil {
			c.Low = *q.Low[i]
		}
		if i < len(q.Volume) && q.Volume[i] != nil {
			c.Volume = *q.Volume[i]
		}
		candles = append(candles, c)
	}
	return candles
}
