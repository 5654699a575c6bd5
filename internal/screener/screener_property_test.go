package screener

import (
	"context"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"dividend-screener/internal/models"
)

func TestProperty_RetainedRecordsClearBothFloors(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("a record survives the filter iff yield and dollar volume strictly exceed the floors", prop.ForAll(
		func(close float64, volume int64, rate float64) bool {
			provider := &fakeProvider{histories: map[string][]models.Candle{
				"SYM": flatCandles(10, close, volume),
			}}
			scr := New(provider, testConfig(), zerolog.Nop())

			records, err := scr.Run(context.Background(), []models.DividendEvent{
				event("SYM", rate, exDay(1)),
			})
			if err != nil {
				return false
			}

			yield := decimal.NewFromFloat(rate).
				Div(decimal.NewFromFloat(close)).
				Mul(decimal.NewFromInt(100)).
				Round(2)
			dollarVolume := decimal.NewFromFloat(close).
				Mul(decimal.NewFromInt(volume)).
				Round(0)
			wantRetained := dollarVolume.GreaterThan(decimal.NewFromInt(1_000_000)) &&
				yield.GreaterThan(decimal.NewFromFloat(3.0))

			if wantRetained != (len(records) == 1) {
				return false
			}
			if len(records) == 1 && !records[0].YieldPct.Equal(yield) {
				return false
			}
			return true
		},
		gen.Float64Range(0.01, 500.0),
		gen.Int64Range(0, 10_000_000),
		gen.Float64Range(0.0, 20.0),
	))

	properties.TestingRun(t)
}

func TestProperty_OutputSortedByExDate(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	symbols := []string{"S0", "S1", "S2", "S3", "S4", "S5", "S6", "S7"}

	properties.Property("surviving records are in ascending ex-date order", prop.ForAll(
		func(dayOffsets []int) bool {
			histories := map[string][]models.Candle{}
			events := make([]models.DividendEvent, 0, len(dayOffsets))
			for i, off := range dayOffsets {
				sym := symbols[i%len(symbols)]
				histories[sym] = flatCandles(10, 50.0, 1_000_000)
				events = append(events, event(sym, 3.0, exDay(1).AddDate(0, 0, off)))
			}
			provider := &fakeProvider{histories: histories}
			scr := New(provider, testConfig(), zerolog.Nop())

			records, err := scr.Run(context.Background(), events)
			if err != nil {
				return false
			}
			for i := 1; i < len(records); i++ {
				if records[i].ExDate.Before(records[i-1].ExDate) {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(8, gen.IntRange(0, 20)),
	))

	properties.TestingRun(t)
}
