package alpaca

import (
	"context"
	"errors"
	"testing"
	"time"

	"stock-trend/src/helpers"
	"stock-trend/src/models"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	bars   []marketdata.Bar
	err    error
	symbol string
	req    marketdata.GetBarsRequest
}

func (f *fakeClient) GetBars(symbol string, req marketdata.GetBarsRequest) ([]marketdata.Bar, error) {
	f.symbol, f.req = symbol, req
	return f.bars, f.err
}

func nyMidnight(d int) time.Time {
	// 2024-03 after the DST switch on the 10th: midnight New York is 04:00 UTC
	return time.Date(2024, 3, d, 4, 0, 0, 0, time.UTC)
}

func TestFetchConvertsBars(t *testing.T) {
	client := &fakeClient{bars: []marketdata.Bar{
		{Timestamp: nyMidnight(12), Open: 172, High: 174, Low: 171, Close: 173, Volume: 5000},
		{Timestamp: nyMidnight(11), Open: 170, High: 172, Low: 169, Close: 171, Volume: 4000},
	}}
	src := newWithClient(models.MSourceConfig{Name: "alpaca", Feed: "iex"}, client)

	start := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)
	series, err := src.Fetch(context.Background(), "aapl", start, end)
	require.NoError(t, err)

	assert.Equal(t, "AAPL", client.symbol)
	assert.Equal(t, marketdata.OneDay, client.req.TimeFrame)
	assert.Equal(t, end.AddDate(0, 0, 1), client.req.End)

	require.Len(t, series.Bars, 2)
	assert.Equal(t, start, series.Bars[0].Date)
	assert.Equal(t, 171.0, series.Bars[0].Close)
	assert.Equal(t, int64(5000), series.Bars[1].Volume)
	assert.Equal(t, "alpaca", series.Source)
}

func TestFetchUnknownSymbolIsEmpty(t *testing.T) {
	src := newWithClient(models.MSourceConfig{Name: "alpaca"}, &fakeClient{err: errors.New("invalid symbol: ZZZZZZ")})

	series, err := src.Fetch(context.Background(), "ZZZZZZ", time.Now().AddDate(0, -1, 0), time.Now())
	require.NoError(t, err)
	assert.True(t, series.IsEmpty())
}

func TestFetchWrapsOtherErrors(t *testing.T) {
	src := newWithClient(models.MSourceConfig{Name: "alpaca"}, &fakeClient{err: errors.New("forbidden")})

	_, err := src.Fetch(context.Background(), "AAPL", time.Now().AddDate(0, -1, 0), time.Now())
	var dsErr *helpers.DataSourceError
	assert.ErrorAs(t, err, &dsErr)
}

func TestNewAlpacaSourceNeedsCredentials(t *testing.T) {
	_, err := NewAlpacaSource(models.MSourceConfig{Name: "alpaca"})
	var cfgErr *helpers.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}
