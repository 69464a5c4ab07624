package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"stock-trend/src/helpers"
	"stock-trend/src/interfaces"
	"stock-trend/src/logger"
	"stock-trend/src/models"
	"stock-trend/src/utils"
)

const defaultChartURL = "https://query1.finance.yahoo.com/v8/finance/chart/"

type YahooFinanceSource struct {
	Config       *models.MConfig
	SourceConfig models.MSourceConfig
	Network      interfaces.INetworkManager
	Logger       *logger.Logger
	baseURL      string
}

// -----------------------------------------------------------------------------

func NewYahooFinanceSource(cfg *models.MConfig, sourceCfg models.MSourceConfig, netMgr interfaces.INetworkManager) *YahooFinanceSource {
	base := sourceCfg.BaseURL
	if base == "" {
		base = defaultChartURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	return &YahooFinanceSource{
		Config:       cfg,
		SourceConfig: sourceCfg,
		Network:      netMgr,
		Logger:       logger.NewLogger(nil, "YahooFinanceSource-"+sourceCfg.Name),
		baseURL:      base,
	}
}

// -----------------------------------------------------------------------------

func (s *YahooFinanceSource) Name() string {
	return s.SourceConfig.Name
}

// -----------------------------------------------------------------------------

// Fetch downloads daily bars for [start, end]. period2 is exclusive on Yahoo's side,
// so the request runs to the midnight after end. period1 starts a day early for
// exchanges that stamp sessions before midnight UTC; the extra day is filtered out.
func (s *YahooFinanceSource) Fetch(ctx context.Context, symbol string, start, end time.Time) (models.MPriceSeries, error) {
	empty := models.MPriceSeries{Symbol: symbol, DisplayName: symbol, Source: s.Name()}

	params := map[string]string{
		"interval":       "1d",
		"period1":        strconv.FormatInt(utils.TruncateDate(start).AddDate(0, 0, -1).Unix(), 10),
		"period2":        strconv.FormatInt(utils.TruncateDate(end).AddDate(0, 0, 1).Unix(), 10),
		"includePrePost": "false",
		"events":         "div,split",
	}

	chartURL := s.baseURL + url.PathEscape(symbol)

	respBytes, err := s.Network.Get(ctx, chartURL, params)
	if err != nil {
		if errors.Is(err, helpers.ErrNotFound) {
			s.Logger.Info("Symbol %s not found", symbol)
			return empty, nil
		}
		return models.MPriceSeries{}, fmt.Errorf("yahoo fetch %s: %w", symbol, err)
	}

	series, err := s.parseChartResponse(symbol, respBytes)
	if err != nil {
		return models.MPriceSeries{}, err
	}

	var kept []models.MPriceBar
	for _, b := range series.Bars {
		if utils.InRange(b.Date, start, end) {
			kept = append(kept, b)
		}
	}
	series.Bars = kept
	return series, nil
}

// -----------------------------------------------------------------------------

type YahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency             string  `json:"currency"`
				Symbol               string  `json:"symbol"`
				ShortName            string  `json:"shortName"`
				LongName             string  `json:"longName"`
				ExchangeName         string  `json:"exchangeName"`
				InstrumentType       string  `json:"instrumentType"`
				FirstTradeDate       int64   `json:"firstTradeDate"`
				RegularMarketTime    int64   `json:"regularMarketTime"`
				Gmtoffset            int     `json:"gmtoffset"`
				Timezone             string  `json:"timezone"`
				ExchangeTimezoneName string  `json:"exchangeTimezoneName"`
				RegularMarketPrice   float64 `json:"regularMarketPrice"`
				ChartPreviousClose   float64 `json:"chartPreviousClose"`
				DataGranularity      string  `json:"dataGranularity"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					High   []*float64 `json:"high"`   // Use pointers to handle null
					Low    []*float64 `json:"low"`    // Use pointers to handle null
					Open   []*float64 `json:"open"`   // Use pointers to handle null
					Close  []*float64 `json:"close"`  // Use pointers to handle null
					Volume []*float64 `json:"volume"` // Use pointers to handle null
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// -----------------------------------------------------------------------------

func (s *YahooFinanceSource) parseChartResponse(symbol string, data []byte) (models.MPriceSeries, error) {
	series := models.MPriceSeries{Symbol: symbol, DisplayName: symbol, Source: s.Name()}

	var resp YahooChartResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return models.MPriceSeries{}, helpers.NewDataSourceError("yahoo: malformed chart response", err)
	}

	if resp.Chart.Error != nil {
		if strings.EqualFold(resp.Chart.Error.Code, "Not Found") {
			return series, nil
		}
		return models.MPriceSeries{}, helpers.NewDataSourceError(
			fmt.Sprintf("yahoo api error: %s - %s", resp.Chart.Error.Code, resp.Chart.Error.Description), nil)
	}

	if len(resp.Chart.Result) == 0 {
		return series, nil
	}

	result := resp.Chart.Result[0]
	meta := result.Meta
	switch {
	case meta.ShortName != "":
		series.DisplayName = meta.ShortName
	case meta.LongName != "":
		series.DisplayName = meta.LongName
	}
	series.Currency = meta.Currency

	if len(result.Timestamp) == 0 || len(result.Indicators.Quote) == 0 {
		return series, nil
	}

	quote := result.Indicators.Quote[0]
	n := len(result.Timestamp)
	if len(quote.Close) != n || len(quote.Open) != n || len(quote.High) != n ||
		len(quote.Low) != n || len(quote.Volume) != n {
		return models.MPriceSeries{}, helpers.NewDataSourceError(fmt.Sprintf("yahoo: data alignment error for %s", symbol), nil)
	}

	offset := time.Duration(meta.Gmtoffset) * time.Second
	bars := make([]models.MPriceBar, 0, n)
	for i, ts := range result.Timestamp {
		if quote.Open[i] == nil || quote.High[i] == nil || quote.Low[i] == nil ||
			quote.Close[i] == nil || quote.Volume[i] == nil {
			s.Logger.Debug("Skipping null OHLCV for %s at index %d", symbol, i)
			continue
		}

		bars = append(bars, models.MPriceBar{
			Date:   utils.TruncateDate(time.Unix(ts, 0).UTC().Add(offset)),
			Open:   *quote.Open[i],
			High:   *quote.High[i],
			Low:    *quote.Low[i],
			Close:  *quote.Close[i],
			Volume: int64(*quote.Volume[i]),
		})
	}

	series.Bars = utils.NormalizeBars(bars)
	if len(series.Bars) > 0 {
		s.Logger.Debug("Fetched %s: %d bars [%s -> %s]", symbol, len(series.Bars),
			series.Bars[0].Date.Format(models.DateLayout),
			series.Bars[len(series.Bars)-1].Date.Format(models.DateLayout))
	}
	return series, nil
}
