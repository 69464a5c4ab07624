package models

import "time"

// MPriceBar represents one trading day of OHLCV data.
// Date is the calendar date at midnight UTC.
type MPriceBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// MPriceSeries is an ascending, duplicate-free sequence of daily bars for one symbol.
// A series with no bars is the "no data" outcome, not a failure.
type MPriceSeries struct {
	Symbol      string      `json:"symbol"`
	DisplayName string      `json:"display_name"`
	Currency    string      `json:"currency,omitempty"`
	Source      string      `json:"source"`
	Bars        []MPriceBar `json:"bars"`
}

// -----------------------------------------------------------------------------

// IsEmpty reports whether the series holds no bars
func (s MPriceSeries) IsEmpty() bool {
	return len(s.Bars) == 0
}

// -----------------------------------------------------------------------------

// Closes returns the closing prices in series order
func (s MPriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}
