package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"stock-trend/src/daterange"
	"stock-trend/src/interfaces"
	"stock-trend/src/logger"
	"stock-trend/src/models"
	"stock-trend/src/utils"
)

// AnalysisFacade is the chart pipeline: resolve inputs, fetch, aggregate.
// It keeps no state between calls.
type AnalysisFacade struct {
	Config  *models.MConfig
	Sources interfaces.ISourceProvider
	Clock   interfaces.IReferenceClock
	Market  *utils.MarketScheduler
	Logger  *logger.Logger

	windows       []int
	defaultSymbol string
	defaultStart  time.Time
	minDate       time.Time
}

// -----------------------------------------------------------------------------

func NewAnalysisFacade(
	cfg *models.MConfig,
	sources interfaces.ISourceProvider,
	clock interfaces.IReferenceClock,
	market *utils.MarketScheduler,
	log *logger.Logger,
) (*AnalysisFacade, error) {
	symbol := strings.TrimSpace(cfg.Chart.DefaultSymbol)
	if symbol == "" {
		symbol = utils.DefaultSymbol
	}

	startStr := cfg.Chart.DefaultStartDate
	if startStr == "" {
		startStr = utils.DefaultStartDate
	}
	start, err := daterange.ParseDate(startStr)
	if err != nil {
		return nil, fmt.Errorf("default start date: %w", err)
	}

	minStr := cfg.Chart.MinDate
	if minStr == "" {
		minStr = utils.MinAllowedDate
	}
	minDate, err := daterange.ParseDate(minStr)
	if err != nil {
		return nil, fmt.Errorf("min date: %w", err)
	}

	return &AnalysisFacade{
		Config:        cfg,
		Sources:       sources,
		Clock:         clock,
		Market:        market,
		Logger:        log,
		windows:       utils.Windows(cfg.Chart.Windows),
		defaultSymbol: symbol,
		defaultStart:  start,
		minDate:       minDate,
	}, nil
}

// -----------------------------------------------------------------------------

func (a *AnalysisFacade) Windows() []int {
	return append([]int(nil), a.windows...)
}

func (a *AnalysisFacade) DefaultSymbol() string {
	return a.defaultSymbol
}

func (a *AnalysisFacade) DefaultStart() time.Time {
	return a.defaultStart
}

// Bounds is the currently valid request window: min date through yesterday
func (a *AnalysisFacade) Bounds() daterange.Bounds {
	return daterange.NewBounds(a.minDate, a.Clock.Today())
}

// -----------------------------------------------------------------------------

// ResolveSymbol substitutes the default for an empty input and normalises case
func (a *AnalysisFacade) ResolveSymbol(symbol string) string {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return a.defaultSymbol
	}
	return symbol
}

// -----------------------------------------------------------------------------

// ResolveDates fills a zero start with the default start and a zero end with yesterday
func (a *AnalysisFacade) ResolveDates(r models.MDateRange) models.MDateRange {
	if r.Start.IsZero() {
		r.Start = a.defaultStart
	}
	if r.End.IsZero() {
		r.End = a.Clock.Yesterday()
	}
	return r
}

// -----------------------------------------------------------------------------

// ResolvePreset runs the quick-range resolver against the current reference date
func (a *AnalysisFacade) ResolvePreset(p daterange.Preset) models.MDateRange {
	return daterange.ResolveRange(p, a.Clock.Today())
}

// -----------------------------------------------------------------------------

// BuildChart produces the chart tuple for one request.
// A source that finds nothing yields NoData with empty averages; any fetch error is
// returned unchanged.
func (a *AnalysisFacade) BuildChart(ctx context.Context, req models.MChartRequest) (*models.MChartData, error) {
	symbol := a.ResolveSymbol(req.Symbol)
	r := a.ResolveDates(req.Range)
	if err := a.Bounds().Validate(r); err != nil {
		return nil, err
	}

	fetchStart := time.Now()
	series, err := a.Sources.Fetch(ctx, req.Source, symbol, r.Start, r.End)
	if err != nil {
		a.Logger.Error("Fetch %s [%s..%s] failed: %v", symbol, r.StartString(), r.EndString(), err)
		return nil, err
	}
	fetchElapsed := time.Since(fetchStart).Seconds()

	aggStart := time.Now()
	mas, err := Aggregate(series, a.windows)
	if err != nil {
		return nil, err
	}
	aggElapsed := time.Since(aggStart).Seconds()

	displayName := series.DisplayName
	if displayName == "" {
		displayName = symbol
	}

	chart := &models.MChartData{
		Symbol:         symbol,
		DisplayName:    displayName,
		Source:         series.Source,
		Start:          r.StartString(),
		End:            r.EndString(),
		NoData:         series.IsEmpty(),
		Bars:           series.Bars,
		MovingAverages: mas,
		Metrics: models.MProcessingMetrics{
			FetchTimeSeconds:       fetchElapsed,
			AggregationTimeSeconds: aggElapsed,
			Bars:                   len(series.Bars),
			WindowsProcessed:       len(mas.Averages),
		},
	}
	if chart.Bars == nil {
		chart.Bars = []models.MPriceBar{}
	}

	if a.Market != nil {
		chart.Market = a.Market.StatusFor(symbol, a.Clock.Now())
	}

	if chart.NoData {
		a.Logger.Info("No data for %s [%s..%s]", symbol, chart.Start, chart.End)
	} else {
		a.Logger.Debug("Chart %s: %d bars, %d windows (fetch %.3fs)", symbol, len(chart.Bars), len(a.windows), fetchElapsed)
	}
	return chart, nil
}
