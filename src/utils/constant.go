package utils

// -----------------------------------------------------------------------------

// Chart defaults used when the request or the config leaves a value unset.
const (
	DefaultSymbol    = "^GDAXI"
	DefaultStartDate = "2021-01-01"
	MinAllowedDate   = "2000-01-01"
	DefaultHeight    = 800
	DefaultTimezone  = "UTC"
)

// DefaultWindows are the moving average windows drawn on every chart.
var DefaultWindows = []int{5, 20, 60, 120}

// -----------------------------------------------------------------------------

// Windows returns configured windows, or DefaultWindows when none are set.
func Windows(configured []int) []int {
	if len(configured) == 0 {
		out := make([]int, len(DefaultWindows))
		copy(out, DefaultWindows)
		return out
	}
	return configured
}
