package models

// MProcessingMetrics represents the timings of one chart pipeline run.
type MProcessingMetrics struct {
	FetchTimeSeconds       float64 `json:"fetch_time_seconds"`
	AggregationTimeSeconds float64 `json:"aggregation_time_seconds"`
	Bars                   int     `json:"bars"`
	WindowsProcessed       int     `json:"windows_processed"`
}
