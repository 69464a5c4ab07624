package presentation

import (
	"stock-trend/src/models"
	"stock-trend/src/utils"
)

const (
	noticeHeader  = "OH, SNAP!!"
	noticeMessage = "We could not find anything. :("

	verticalSpacing = 0.03
	volumeColor     = "black"
	candleName      = "OHLC"
)

// Row heights bottom-to-top: volume pane, then price pane.
var rowWidth = []float64{0.2, 0.7}

var windowColors = map[int]string{
	5:   "purple",
	20:  "orange",
	60:  "cyan",
	120: "pink",
}

var fallbackColors = []string{"teal", "brown", "olive", "navy", "gray"}

// -----------------------------------------------------------------------------

// ColorFor returns the line colour of a moving average window
func ColorFor(window, index int) string {
	if c, ok := windowColors[window]; ok {
		return c
	}
	return fallbackColors[index%len(fallbackColors)]
}

// -----------------------------------------------------------------------------

// SubplotDomains lays out stacked rows on [0, 1] the way plotly's make_subplots does.
// rowWidth is given bottom-to-top; the result is top-to-bottom.
func SubplotDomains(rowWidth []float64, spacing float64) [][2]float64 {
	n := len(rowWidth)
	if n == 0 {
		return nil
	}

	total := 0.0
	for _, w := range rowWidth {
		total += w
	}
	usable := 1 - spacing*float64(n-1)

	domains := make([][2]float64, n)
	top := 1.0
	for i := 0; i < n; i++ {
		h := rowWidth[n-1-i] / total * usable
		domains[i] = [2]float64{top - h, top}
		top -= h + spacing
	}
	domains[n-1][0] = 0
	return domains
}

// -----------------------------------------------------------------------------

// NoticeFor returns the toast state for a chart: open exactly when there is no data
func NoticeFor(chart *models.MChartData) models.MNotice {
	return models.MNotice{
		Open:    chart == nil || chart.NoData,
		Header:  noticeHeader,
		Message: noticeMessage,
	}
}

// -----------------------------------------------------------------------------

// BuildFigure renders the chart tuple as a two-pane figure: candles and moving
// averages on top, volume below. With no data only the layout is returned.
func BuildFigure(chart *models.MChartData, height int) models.MFigure {
	if height <= 0 {
		height = utils.DefaultHeight
	}

	fig := models.MFigure{
		Data:   []models.MTrace{},
		Layout: baseLayout(height),
	}
	if chart == nil || chart.NoData || len(chart.Bars) == 0 {
		return fig
	}

	fig.Layout.Title.Text = chart.DisplayName

	n := len(chart.Bars)
	x := make([]string, n)
	open := make([]float64, n)
	high := make([]float64, n)
	low := make([]float64, n)
	closes := make([]float64, n)
	volume := make([]float64, n)
	for i, b := range chart.Bars {
		x[i] = b.Date.Format(models.DateLayout)
		open[i], high[i], low[i], closes[i] = b.Open, b.High, b.Low, b.Close
		volume[i] = float64(b.Volume)
	}

	fig.Data = append(fig.Data, models.MTrace{
		Type:  "candlestick",
		Name:  candleName,
		X:     x,
		Open:  open,
		High:  high,
		Low:   low,
		Close: closes,
		XAxis: "x",
		YAxis: "y",
	})

	for i, ma := range chart.MovingAverages.Averages {
		fig.Data = append(fig.Data, models.MTrace{
			Type:   "scatter",
			Name:   ma.Name,
			X:      x,
			Y:      ma.Values,
			Marker: &models.MMarker{Color: ColorFor(ma.Window, i)},
			XAxis:  "x",
			YAxis:  "y",
		})
	}

	hidden := false
	fig.Data = append(fig.Data, models.MTrace{
		Type:       "bar",
		X:          x,
		Y:          volume,
		Marker:     &models.MMarker{Color: volumeColor},
		ShowLegend: &hidden,
		XAxis:      "x2",
		YAxis:      "y2",
	})
	return fig
}

// -----------------------------------------------------------------------------

func baseLayout(height int) models.MLayout {
	domains := SubplotDomains(rowWidth, verticalSpacing)
	noTicks := false

	return models.MLayout{
		Title: models.MTitle{
			Font:    models.MFont{Size: 16},
			X:       0.08,
			Y:       0.93,
			XAnchor: "left",
		},
		Margin:   models.MMargin{L: 80, R: 80, T: 80, B: 80},
		Height:   height,
		Autosize: false,
		XAxis: models.MAxis{
			Domain:      [2]float64{0, 1},
			Anchor:      "y",
			Matches:     "x2",
			ShowTicks:   &noTicks,
			TickFont:    &models.MFont{Size: 12},
			RangeSlider: &models.MRangeSlider{Visible: false},
		},
		XAxis2: models.MAxis{
			Domain:      [2]float64{0, 1},
			Anchor:      "y2",
			TickFont:    &models.MFont{Size: 12},
			RangeSlider: &models.MRangeSlider{Visible: false},
		},
		YAxis: models.MAxis{
			Domain:   domains[0],
			Anchor:   "x",
			Title:    &models.MTitle{Text: "Price", Font: models.MFont{Size: 14}},
			TickFont: &models.MFont{Size: 12},
		},
		YAxis2: models.MAxis{
			Domain: domains[1],
			Anchor: "x2",
		},
	}
}
