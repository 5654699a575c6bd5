package calendar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"dividend-screener/internal/config"
)

const sampleDay = `{
	"data": {
		"calendar": {
			"rows": [
				{
					"symbol": "AAA",
					"companyName": "Alpha Industries Inc.",
					"dividend_Ex_Date": "08/24/2026",
					"dividend_Rate": 0.5,
					"indicated_Annual_Dividend": 2.0,
					"announcement_Date": "08/01/2026",
					"record_Date": "08/25/2026",
					"payment_Date": "09/10/2026"
				},
				{
					"symbol": "BBB",
					"companyName": "Beta Global Fund ETF",
					"dividend_Ex_Date": "2026-08-24",
					"dividend_Rate": 1.25,
					"indicated_Annual_Dividend": 5.0,
					"announcement_Date": "N/A",
					"record_Date": "",
					"payment_Date": "garbage"
				}
			]
		}
	}
}`

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.CalendarConfig{
		BaseURL:        srv.URL,
		TimeoutSeconds: 5,
		UserAgent:      "test-agent",
		Origin:         "https://example.com",
		Referer:        "https://example.com/",
	}
	return NewClient(cfg, zerolog.Nop())
}

func TestFetchDayParsesRows(t *testing.T) {
	var gotQuery, gotUA string
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("date")
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(sampleDay))
	}))

	day := time.Date(2026, time.August, 24, 0, 0, 0, 0, time.UTC)
	events, err := client.FetchDay(context.Background(), day)
	if err != nil {
		t.Fatalf("FetchDay: %v", err)
	}
	if gotQuery != "2026-08-24" {
		t.Errorf("date query = %q, want 2026-08-24", gotQuery)
	}
	if gotUA != "test-agent" {
		t.Errorf("User-Agent = %q, want test-agent", gotUA)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}

	first := events[0]
	if first.Symbol != "AAA" {
		t.Errorf("Symbol = %q, want AAA", first.Symbol)
	}
	if !first.ExDate.Equal(day) {
		t.Errorf("ExDate = %s, want %s", first.ExDate, day)
	}
	if !first.DividendRate.Equal(decimal.NewFromFloat(0.5)) {
		t.Errorf("DividendRate = %s, want 0.5", first.DividendRate)
	}
	if first.IsADR || first.IsETF || first.IsBond {
		t.Errorf("unexpected category flags on %+v", first)
	}

	second := events[1]
	if !second.IsETF {
		t.Error("company name containing ETF should set IsETF")
	}
	if !second.ExDate.Equal(day) {
		t.Errorf("ISO ex-date parsed to %s, want %s", second.ExDate, day)
	}
	if !second.AnnouncementDate.IsZero() {
		t.Error("N/A announcement date should parse to zero time")
	}
	if !second.RecordDate.IsZero() {
		t.Error("empty record date should parse to zero time")
	}
	if !second.PaymentDate.IsZero() {
		t.Error("unparseable payment date should parse to zero time")
	}
}

func TestFetchDayNonSuccessStatusIsEmptyDay(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "throttled", http.StatusTooManyRequests)
	}))

	events, err := client.FetchDay(context.Background(), time.Date(2026, time.August, 24, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("non-success status should not error, got %v", err)
	}
	if len(events) != 0 {
		t.Errorf("got %d events, want 0", len(events))
	}
}

func TestFetchDayMalformedBodyIsEmptyDay(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>maintenance</html>"))
	}))

	events, err := client.FetchDay(context.Background(), time.Date(2026, time.August, 24, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("malformed body should not error, got %v", err)
	}
	if len(events) != 0 {
		t.Errorf("got %d events, want 0", len(events))
	}
}

func TestFetchDayMissingNestingIsEmptyDay(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {}}`))
	}))

	events, err := client.FetchDay(context.Background(), time.Date(2026, time.August, 24, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("missing nesting should not error, got %v", err)
	}
	if len(events) != 0 {
		t.Errorf("got %d events, want 0", len(events))
	}
}

func TestFetchRangeSkipsWeekends(t *testing.T) {
	var requests int64
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&requests, 1)
		w.Write([]byte(`{"data":{"calendar":{"rows":[{"symbol":"AAA","companyName":"Alpha","dividend_Ex_Date":"` +
			r.URL.Query().Get("date") + `","dividend_Rate":1.0}]}}}`))
	}))

	// Friday 2026-08-21 through Monday 2026-08-24: two weekdays.
	start := time.Date(2026, time.August, 21, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.August, 24, 0, 0, 0, 0, time.UTC)

	events, err := client.FetchRange(context.Background(), start, end)
	if err != nil {
		t.Fatalf("FetchRange: %v", err)
	}
	if got := atomic.LoadInt64(&requests); got != 2 {
		t.Errorf("made %d requests, want 2 (weekends skipped)", got)
	}
	if len(events) != 2 {
		t.Errorf("got %d events, want 2", len(events))
	}
	// Day order preserved.
	if !events[0].ExDate.Before(events[1].ExDate) {
		t.Errorf("events out of day order: %s then %s", events[0].ExDate, events[1].ExDate)
	}
}

func TestFetchRangeWeekendOnlyIsEmpty(t *testing.T) {
	var requests int64
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&requests, 1)
		w.Write([]byte(sampleDay))
	}))

	// Saturday through Sunday: no weekdays at all.
	start := time.Date(2026, time.August, 22, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.August, 23, 0, 0, 0, 0, time.UTC)

	events, err := client.FetchRange(context.Background(), start, end)
	if err != nil {
		t.Fatalf("weekend-only range should not error, got %v", err)
	}
	if events != nil && len(events) != 0 {
		t.Errorf("got %d events, want 0", len(events))
	}
	if got := atomic.LoadInt64(&requests); got != 0 {
		t.Errorf("made %d requests, want 0", got)
	}
}

func TestFetchRangeIgnoresTimeOfDay(t *testing.T) {
	var requests int64
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&requests, 1)
		w.Write([]byte(`{"data":{"calendar":{"rows":[]}}}`))
	}))

	// Same weekday with differing clock times still covers exactly one day.
	start := time.Date(2026, time.August, 24, 23, 59, 0, 0, time.UTC)
	end := time.Date(2026, time.August, 24, 0, 1, 0, 0, time.UTC)

	if _, err := client.FetchRange(context.Background(), start, end); err != nil {
		t.Fatalf("FetchRange: %v", err)
	}
	if got := atomic.LoadInt64(&requests); got != 1 {
		t.Errorf("made %d requests, want 1", got)
	}
}

func TestParseCalendarDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"08/24/2026", time.Date(2026, time.August, 24, 0, 0, 0, 0, time.UTC)},
		{"2026-08-24", time.Date(2026, time.August, 24, 0, 0, 0, 0, time.UTC)},
		{"8/5/2026", time.Date(2026, time.August, 5, 0, 0, 0, 0, time.UTC)},
		{"N/A", time.Time{}},
		{"", time.Time{}},
		{"not a date", time.Time{}},
	}
	for _, tt := range tests {
		if got := parseCalendarDate(tt.in); !got.Equal(tt.want) {
			t.Errorf("parseCalendarDate(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
