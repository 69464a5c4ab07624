package analysis

import (
	"fmt"

	"stock-trend/src/analysis/core"
	"stock-trend/src/helpers"
	"stock-trend/src/models"
)

// -----------------------------------------------------------------------------

// Aggregate computes one shrinking-window simple moving average of the closes per window.
// Each output line has exactly len(series.Bars) entries. An empty series yields empty
// lines; a non-positive window is a ValidationError.
func Aggregate(series models.MPriceSeries, windows []int) (models.MMovingAverageSet, error) {
	for _, w := range windows {
		if w <= 0 {
			return models.MMovingAverageSet{}, helpers.NewValidationError(fmt.Sprintf("moving average window must be positive, got %d", w), nil)
		}
	}

	closes := series.Closes()
	set := models.MMovingAverageSet{
		Windows:  append([]int(nil), windows...),
		Averages: make([]models.MMovingAverage, 0, len(windows)),
	}
	for _, w := range windows {
		set.Averages = append(set.Averages, models.MMovingAverage{
			Window: w,
			Name:   models.MovingAverageName(w),
			Values: core.RollingMean(closes, w),
		})
	}
	return set, nil
}
