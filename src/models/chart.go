package models

// -----------------------------------------------------------------------------
// Chart pipeline input/output
// -----------------------------------------------------------------------------

// MChartRequest carries the user inputs of one recomputation.
// Zero dates mean "use the default".
type MChartRequest struct {
	Symbol string
	Source string
	Range  MDateRange
}

// MMarketStatus describes the exchange session of the charted symbol.
type MMarketStatus struct {
	MIC           string `json:"mic"`
	Timezone      string `json:"timezone"`
	TradingDay    bool   `json:"trading_day"`
	Open          bool   `json:"open"`
	FallbackHours bool   `json:"fallback_hours"`
}

// MChartData is the tuple handed to the presentation layer: the series,
// its moving averages and the display name, plus request metadata.
type MChartData struct {
	Symbol         string             `json:"symbol"`
	DisplayName    string             `json:"display_name"`
	Source         string             `json:"source"`
	Start          string             `json:"start"`
	End            string             `json:"end"`
	NoData         bool               `json:"no_data"`
	Bars           []MPriceBar        `json:"bars"`
	MovingAverages MMovingAverageSet  `json:"moving_averages"`
	Market         MMarketStatus      `json:"market"`
	Metrics        MProcessingMetrics `json:"processing_metrics"`
}

// MNotice is the toast shown when a request yields no data.
type MNotice struct {
	Open    bool   `json:"open"`
	Header  string `json:"header"`
	Message string `json:"message"`
}
