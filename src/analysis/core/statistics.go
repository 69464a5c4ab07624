package core

// -----------------------------------------------------------------------------

// RollingMean computes a trailing simple moving average with a shrinking window:
// out[i] is the mean of data[max(0, i-window+1) .. i]. Every entry is defined and
// only earlier-or-equal indices are read. window must be positive.
func RollingMean(data []float64, window int) []float64 {
	out := make([]float64, len(data))
	if window <= 0 {
		return out
	}

	sum := 0.0
	for i, v := range data {
		sum += v
		if i >= window {
			sum -= data[i-window]
		}

		n := i + 1
		if n > window {
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}
