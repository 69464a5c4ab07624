package alpaca

import (
	"context"
	"fmt"
	"strings"
	"time"

	"stock-trend/src/helpers"
	"stock-trend/src/logger"
	"stock-trend/src/models"
	"stock-trend/src/utils"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
)

// barsClient is the slice of the Alpaca market data client this source uses.
type barsClient interface {
	GetBars(symbol string, req marketdata.GetBarsRequest) ([]marketdata.Bar, error)
}

// AlpacaSource reads split- and dividend-adjusted daily bars from Alpaca market data.
type AlpacaSource struct {
	SourceConfig models.MSourceConfig
	Logger       *logger.Logger
	client       barsClient
	loc          *time.Location
}

// -----------------------------------------------------------------------------

func NewAlpacaSource(sourceCfg models.MSourceConfig) (*AlpacaSource, error) {
	if sourceCfg.APIKey == "" || sourceCfg.APISecret == "" {
		return nil, helpers.NewConfigurationError(fmt.Sprintf("alpaca source %q needs api_key and api_secret", sourceCfg.Name), nil)
	}

	opts := marketdata.ClientOpts{
		APIKey:    sourceCfg.APIKey,
		APISecret: sourceCfg.APISecret,
	}
	if sourceCfg.BaseURL != "" {
		opts.BaseURL = sourceCfg.BaseURL
	}

	return newWithClient(sourceCfg, marketdata.NewClient(opts)), nil
}

// -----------------------------------------------------------------------------

func newWithClient(sourceCfg models.MSourceConfig, client barsClient) *AlpacaSource {
	// Alpaca stamps daily bars at midnight New York time.
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		loc = time.UTC
	}
	return &AlpacaSource{
		SourceConfig: sourceCfg,
		Logger:       logger.NewLogger(nil, "AlpacaSource-"+sourceCfg.Name),
		client:       client,
		loc:          loc,
	}
}

// -----------------------------------------------------------------------------

func (s *AlpacaSource) Name() string {
	return s.SourceConfig.Name
}

// -----------------------------------------------------------------------------

func (s *AlpacaSource) Fetch(ctx context.Context, symbol string, start, end time.Time) (models.MPriceSeries, error) {
	series := models.MPriceSeries{Symbol: symbol, DisplayName: symbol, Source: s.Name(), Currency: "USD"}

	if err := ctx.Err(); err != nil {
		return models.MPriceSeries{}, err
	}

	req := marketdata.GetBarsRequest{
		TimeFrame:  marketdata.OneDay,
		Adjustment: marketdata.All,
		Start:      utils.TruncateDate(start),
		End:        utils.TruncateDate(end).AddDate(0, 0, 1),
	}
	if s.SourceConfig.Feed != "" {
		req.Feed = marketdata.Feed(s.SourceConfig.Feed)
	}

	bars, err := s.client.GetBars(strings.ToUpper(symbol), req)
	if err != nil {
		if isUnknownSymbol(err) {
			s.Logger.Info("Symbol %s not known to Alpaca", symbol)
			return series, nil
		}
		return models.MPriceSeries{}, helpers.NewDataSourceError(fmt.Sprintf("alpaca GetBars %s", symbol), err)
	}

	series.Bars = s.convertBars(bars, start, end)
	return series, nil
}

// -----------------------------------------------------------------------------

func (s *AlpacaSource) convertBars(bars []marketdata.Bar, start, end time.Time) []models.MPriceBar {
	out := make([]models.MPriceBar, 0, len(bars))
	for _, ab := range bars {
		y, m, d := ab.Timestamp.In(s.loc).Date()
		date := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		if !utils.InRange(date, start, end) {
			continue
		}
		out = append(out, models.MPriceBar{
			Date:   date,
			Open:   ab.Open,
			High:   ab.High,
			Low:    ab.Low,
			Close:  ab.Close,
			Volume: int64(ab.Volume),
		})
	}
	return utils.NormalizeBars(out)
}

// -----------------------------------------------------------------------------

func isUnknownSymbol(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "invalid symbol") || strings.Contains(msg, "not found")
}
