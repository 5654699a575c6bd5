// Package calendar fetches upcoming ex-dividend entries from the dividend
// calendar service.
package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-querystring/query"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"dividend-screener/internal/config"
	"dividend-screener/internal/logging"
	"dividend-screener/internal/models"
	"dividend-screener/pkg/dates"
)

// Date layouts observed in calendar responses.
var exDateLayouts = []string{"01/02/2006", "2006-01-02", "1/2/2006"}

// Marker substrings used to flag instrument categories from the company
// name. Matching is case-sensitive and approximate.
const (
	markerADR  = "ADR"
	markerETF  = "ETF"
	markerBond = "Bond"
)

// Client fetches dividend-calendar entries over HTTP.
type Client struct {
	cfg    config.CalendarConfig
	client *http.Client
	logger zerolog.Logger
}

// NewClient creates a calendar client.
func NewClient(cfg config.CalendarConfig, logger zerolog.Logger) *Client {
	return &Client{
		cfg: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		logger: logging.WithOperation(logger, "calendar"),
	}
}

// dayQuery is the query string for a single-day calendar request.
type dayQuery struct {
	Date string `url:"date"`
}

// calendarResponse mirrors the nested JSON body. Missing keys at any level
// unmarshal to zero values, which yields an empty row set.
type calendarResponse struct {
	Data struct {
		Calendar struct {
			Rows []calendarRow `json:"rows"`
		} `json:"calendar"`
	} `json:"data"`
}

type calendarRow struct {
	Symbol           string  `json:"symbol"`
	CompanyName      string  `json:"companyName"`
	ExDate           string  `json:"dividend_Ex_Date"`
	Rate             float64 `json:"dividend_Rate"`
	AnnualDividend   float64 `json:"indicated_Annual_Dividend"`
	AnnouncementDate string  `json:"announcement_Date"`
	RecordDate       string  `json:"record_Date"`
	PaymentDate      string  `json:"payment_Date"`
}

// FetchDay returns the companies going ex-dividend on the given date.
// A non-success status or a body without the expected nesting is treated
// as "no data for this date", never as an error.
func (c *Client) FetchDay(ctx context.Context, date time.Time) ([]models.DividendEvent, error) {
	v, err := query.Values(dayQuery{Date: date.Format("2006-01-02")})
	if err != nil {
		return nil, fmt.Errorf("building calendar query: %w", err)
	}
	url := c.cfg.BaseURL + "?" + v.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building calendar request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Origin", c.cfg.Origin)
	req.Header.Set("Referer", c.cfg.Referer)
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	start := time.Now()
	resp, err := c.client.Do(req)
	logging.LogAPICall(c.logger, http.MethodGet, url, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("calendar fetch %s: %w", date.Format("2006-01-02"), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck // drain body
		c.logger.Warn().
			Str("date", date.Format("2006-01-02")).
			Int("status", resp.StatusCode).
			Msg("Calendar returned non-success status, treating as empty day")
		return nil, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading calendar response: %w", err)
	}

	var parsed calendarResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		c.logger.Warn().
			Str("date", date.Format("2006-01-02")).
			Err(err).
			Msg("Calendar response not parseable, treating as empty day")
		return nil, nil
	}

	rows := parsed.Data.Calendar.Rows
	if len(rows) == 0 {
		return nil, nil
	}

	events := make([]models.DividendEvent, 0, len(rows))
	for _, row := range rows {
		events = append(events, eventFromRow(row))
	}

	c.logger.Debug().
		Str("date", date.Format("2006-01-02")).
		Int("rows", len(events)).
		Msg("Calendar day fetched")

	return events, nil
}

// FetchRange returns calendar entries for every weekday in [start, end]
// inclusive, in day order. Weekend days are skipped without a request.
// A range containing no weekdays yields an empty slice, not an error;
// per-day transport failures degrade to empty days.
func (c *Client) FetchRange(ctx context.Context, start, end time.Time) ([]models.DividendEvent, error) {
	var events []models.DividendEvent

	for d := dates.Truncate(start); !d.After(dates.Truncate(end)); d = d.AddDate(0, 0, 1) {
		if !dates.IsBusinessDay(d) {
			continue
		}
		dayEvents, err := c.FetchDay(ctx, d)
		if err != nil {
			if ctx.Err() != nil {
				return events, ctx.Err()
			}
			c.logger.Warn().
				Str("date", d.Format("2006-01-02")).
				Err(err).
				Msg("Calendar day fetch failed, skipping")
			continue
		}
		events = append(events, dayEvents...)
	}

	return events, nil
}

// eventFromRow builds a DividendEvent from one calendar row, deriving the
// category flags from the company name.
func eventFromRow(row calendarRow) models.DividendEvent {
	return models.DividendEvent{
		Symbol:           row.Symbol,
		CompanyName:      row.CompanyName,
		ExDate:           parseCalendarDate(row.ExDate),
		DividendRate:     decimal.NewFromFloat(row.Rate),
		AnnualDividend:   decimal.NewFromFloat(row.AnnualDividend),
		AnnouncementDate: parseCalendarDate(row.AnnouncementDate),
		RecordDate:       parseCalendarDate(row.RecordDate),
		PaymentDate:      parseCalendarDate(row.PaymentDate),
		IsADR:            strings.Contains(row.CompanyName, markerADR),
		IsETF:            strings.Contains(row.CompanyName, markerETF),
		IsBond:           strings.Contains(row.CompanyName, markerBond),
	}
}

// parseCalendarDate parses an upstream date string. Unparseable values
// return the zero time, which downstream treats as a null marker.
func parseCalendarDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" || s == "N/A" {
		return time.Time{}
	}
	for _, layout := range exDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
