package models

import "fmt"

// MMovingAverage is one simple moving average line aligned index-for-index with its series.
type MMovingAverage struct {
	Window int       `json:"window"`
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// MMovingAverageSet holds one line per requested window, in request order.
type MMovingAverageSet struct {
	Windows  []int            `json:"windows"`
	Averages []MMovingAverage `json:"averages"`
}

// -----------------------------------------------------------------------------

// MovingAverageName returns the display name for a window, e.g. "MA20"
func MovingAverageName(window int) string {
	return fmt.Sprintf("MA%d", window)
}

// -----------------------------------------------------------------------------

// Get returns the values for the given window
func (s MMovingAverageSet) Get(window int) ([]float64, bool) {
	for _, ma := range s.Averages {
		if ma.Window == window {
			return ma.Values, true
		}
	}
	return nil, false
}
