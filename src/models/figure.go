package models

// -----------------------------------------------------------------------------
// Plotly-compatible figure description
// -----------------------------------------------------------------------------

type MFigure struct {
	Data   []MTrace `json:"data"`
	Layout MLayout  `json:"layout"`
}

type MMarker struct {
	Color string `json:"color"`
}

// MTrace covers the three trace kinds the chart uses: candlestick, scatter and bar.
type MTrace struct {
	Type       string    `json:"type"`
	Name       string    `json:"name,omitempty"`
	X          []string  `json:"x"`
	Y          []float64 `json:"y,omitempty"`
	Open       []float64 `json:"open,omitempty"`
	High       []float64 `json:"high,omitempty"`
	Low        []float64 `json:"low,omitempty"`
	Close      []float64 `json:"close,omitempty"`
	Marker     *MMarker  `json:"marker,omitempty"`
	ShowLegend *bool     `json:"showlegend,omitempty"`
	XAxis      string    `json:"xaxis"`
	YAxis      string    `json:"yaxis"`
}

type MFont struct {
	Size int `json:"size"`
}

type MTitle struct {
	Text    string  `json:"text"`
	Font    MFont   `json:"font"`
	X       float64 `json:"x,omitempty"`
	Y       float64 `json:"y,omitempty"`
	XAnchor string  `json:"xanchor,omitempty"`
}

type MMargin struct {
	L int `json:"l"`
	R int `json:"r"`
	T int `json:"t"`
	B int `json:"b"`
}

type MRangeSlider struct {
	Visible bool `json:"visible"`
}

type MAxis struct {
	Domain      [2]float64    `json:"domain"`
	Anchor      string        `json:"anchor"`
	Matches     string        `json:"matches,omitempty"`
	ShowTicks   *bool         `json:"showticklabels,omitempty"`
	Title       *MTitle       `json:"title,omitempty"`
	TickFont    *MFont        `json:"tickfont,omitempty"`
	RangeSlider *MRangeSlider `json:"rangeslider,omitempty"`
}

type MLayout struct {
	Title    MTitle  `json:"title"`
	Margin   MMargin `json:"margin"`
	Height   int     `json:"height"`
	Autosize bool    `json:"autosize"`
	XAxis    MAxis   `json:"xaxis"`
	XAxis2   MAxis   `json:"xaxis2"`
	YAxis    MAxis   `json:"yaxis"`
	YAxis2   MAxis   `json:"yaxis2"`
}
