package utils

import (
	"math"
	"sort"
	"stock-trend/src/models"
	"time"
)

// -----------------------------------------------------------------------------

// NormalizeBars sorts bars by date and keeps the last bar seen for each date.
// Bars with a non-finite or non-positive price or a negative volume are dropped.
func NormalizeBars(bars []models.MPriceBar) []models.MPriceBar {
	byDate := make(map[time.Time]models.MPriceBar, len(bars))
	for _, b := range bars {
		if !validBar(b) {
			continue
		}
		b.Date = TruncateDate(b.Date)
		byDate[b.Date] = b
	}

	out := make([]models.MPriceBar, 0, len(byDate))
	for _, b := range byDate {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// -----------------------------------------------------------------------------

func validBar(b models.MPriceBar) bool {
	for _, v := range []float64{b.Open, b.High, b.Low, b.Close} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return false
		}
	}
	return b.Volume >= 0
}

// -----------------------------------------------------------------------------

// TruncateDate drops the clock part, keeping the calendar date as midnight UTC
func TruncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// -----------------------------------------------------------------------------

// InRange reports whether date lies within [start, end] by calendar date
func InRange(date, start, end time.Time) bool {
	d := TruncateDate(date)
	return !d.Before(TruncateDate(start)) && !d.After(TruncateDate(end))
}
