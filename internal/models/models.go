// Package models provides domain models for the dividend screener.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DividendEvent represents one upcoming ex-dividend calendar entry.
// The ADR/ETF/Bond flags are heuristic substring matches on the company
// name, not an authoritative instrument classification.
type DividendEvent struct {
	Symbol           string
	CompanyName      string
	ExDate           time.Time // zero value marks an unparseable upstream date
	DividendRate     decimal.Decimal
	AnnualDividend   decimal.Decimal
	AnnouncementDate time.Time
	RecordDate       time.Time
	PaymentDate      time.Time
	IsADR            bool
	IsETF            bool
	IsBond           bool
}

// Candle represents OHLCV data for a time period.
type Candle struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    int64
}

// EnrichedRecord is a DividendEvent annotated with trailing price metrics.
// Records are produced as new values by the screener; events are never
// mutated in place.
type EnrichedRecord struct {
	DividendEvent

	Close      float64
	Volume     int64
	Close5Ago  float64
	SMA50      float64
	SMA50Valid bool // false when fewer than 50 observations were available

	YieldPct     decimal.Decimal // DividendRate / Close * 100, 2 decimals
	DollarVolume decimal.Decimal // Close * Volume, rounded to integer

	RoseLast5  bool
	AboveSMA50 bool
}
