package indicators

import (
	"fmt"

	"dividend-screener/internal/models"
)

// SMA calculates Simple Moving Average.
type SMA struct {
	period int
}

// NewSMA creates a new SMA indicator.
func NewSMA(period int) *SMA {
	return &SMA{period: period}
}

func (s *SMA) Name() string {
	return fmt.Sprintf("SMA_%d", s.period)
}

func (s *SMA) Period() int {
	return s.period
}

// Calculate returns the trailing simple moving average series. Positions
// before the first full window are zero; fewer candles than the period
// yields ErrInsufficientData (the value is undefined, not zero).
func (s *SMA) Calculate(candles []models.Candle) ([]float64, error) {
	if s.period <= 0 {
		return nil, ErrInvalidPeriod
	}
	if len(candles) < s.period {
		return nil, ErrInsufficientData
	}

	result := make([]float64, len(candles))
	closes := ClosePrices(candles)

	for i := s.period - 1; i < len(candles); i++ {
		result[i] = mean(closes[i-s.period+1 : i+1])
	}

	return result, nil
}

// Last returns the moving average ending at the latest observation.
func (s *SMA) Last(candles []models.Candle) (float64, error) {
	series, err := s.Calculate(candles)
	if err != nil {
		return 0, err
	}
	return series[len(series)-1], nil
}

// ROC calculates the Rate of Change over a fixed lookback.
type ROC struct {
	period int
}

// NewROC creates a new ROC indicator.
func NewROC(period int) *ROC {
	return &ROC{period: period}
}

func (r *ROC) Name() string {
	return fmt.Sprintf("ROC_%d", r.period)
}

func (r *ROC) Period() int {
	return r.period
}

// Calculate returns the percentage change of each close versus the close
// period observations earlier.
func (r *ROC) Calculate(candles []models.Candle) ([]float64, error) {
	if r.period <= 0 {
		return nil, ErrInvalidPeriod
	}
	if len(candles) <= r.period {
		return nil, ErrInsufficientData
	}

	result := make([]float64, len(candles))
	closes := ClosePrices(candles)

	for i := r.period; i < len(candles); i++ {
		if closes[i-r.period] != 0 {
			result[i] = (closes[i] - closes[i-r.period]) / closes[i-r.period] * 100
		}
	}

	return result, nil
}

// Last returns the rate of change ending at the latest observation.
func (r *ROC) Last(candles []models.Candle) (float64, error) {
	series, err := r.Calculate(candles)
	if err != nil {
		return 0, err
	}
	return series[len(series)-1], nil
}
