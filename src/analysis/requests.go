package analysis

import (
	"strings"

	"stock-trend/src/daterange"
	"stock-trend/src/models"
)

// -----------------------------------------------------------------------------

// NewRequest parses raw transport inputs. Empty dates stay zero and are
// defaulted by BuildChart.
func (a *AnalysisFacade) NewRequest(symbol, source, start, end string) (models.MChartRequest, error) {
	s, err := daterange.ParseDate(start)
	if err != nil {
		return models.MChartRequest{}, err
	}
	e, err := daterange.ParseDate(end)
	if err != nil {
		return models.MChartRequest{}, err
	}
	return models.MChartRequest{
		Symbol: symbol,
		Source: strings.TrimSpace(source),
		Range:  models.MDateRange{Start: s, End: e},
	}, nil
}

// -----------------------------------------------------------------------------

// RangeForPreset resolves a named quick-range button. The answer is clamped to
// Bounds so it can be fed back into BuildChart unchanged.
func (a *AnalysisFacade) RangeForPreset(name string) (models.MRangeResponse, error) {
	p, err := daterange.ParsePreset(name)
	if err != nil {
		return models.MRangeResponse{}, err
	}
	return daterange.Response(p, a.Bounds().Clamp(a.ResolvePreset(p))), nil
}

// -----------------------------------------------------------------------------

// RangeForActivations picks the most recently pressed button and resolves it,
// clamped like RangeForPreset
func (a *AnalysisFacade) RangeForActivations(raw map[string]int64) (models.MRangeResponse, error) {
	activations, err := daterange.ParseActivations(raw)
	if err != nil {
		return models.MRangeResponse{}, err
	}
	p, r := daterange.Resolve(activations, a.Clock.Today())
	return daterange.Response(p, a.Bounds().Clamp(r)), nil
}
