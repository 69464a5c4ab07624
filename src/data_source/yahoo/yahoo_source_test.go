package yahoo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"
	"time"

	"stock-trend/src/helpers"
	"stock-trend/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNetwork struct {
	body   []byte
	err    error
	url    string
	params map[string]string
}

func (f *fakeNetwork) Get(_ context.Context, url string, params map[string]string) ([]byte, error) {
	f.url, f.params = url, params
	return f.body, f.err
}

const daxChart = `{"chart":{"result":[{"meta":{"currency":"EUR","symbol":"^GDAXI","shortName":"DAX PERFORMANCE-INDEX","gmtoffset":3600,"timezone":"CET"},
"timestamp":[1710313200,1710140400,1710226800,1710399600],
"indicators":{"quote":[{"open":[17900,17700,null,18000],"high":[18000,17800,17900,18100],"low":[17850,17600,17700,17950],"close":[17950,17750,17800,18050],"volume":[300,100,200,400]}]}}],"error":null}}`

func newSource(net *fakeNetwork) *YahooFinanceSource {
	return NewYahooFinanceSource(&models.MConfig{}, models.MSourceConfig{Name: "yahoo", Type: "yahoo"}, net)
}

func day(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

func TestFetchParsesAndSorts(t *testing.T) {
	net := &fakeNetwork{body: []byte(daxChart)}
	src := newSource(net)

	series, err := src.Fetch(context.Background(), "^GDAXI", day(11), day(13))
	require.NoError(t, err)

	assert.Equal(t, "DAX PERFORMANCE-INDEX", series.DisplayName)
	assert.Equal(t, "EUR", series.Currency)
	assert.Equal(t, "yahoo", series.Source)

	// index with a null open is dropped, 14th is outside the range
	require.Len(t, series.Bars, 2)
	assert.Equal(t, day(11), series.Bars[0].Date)
	assert.Equal(t, 17750.0, series.Bars[0].Close)
	assert.Equal(t, int64(100), series.Bars[0].Volume)
	assert.Equal(t, day(13), series.Bars[1].Date)

	assert.Equal(t, "https://query1.finance.yahoo.com/v8/finance/chart/%5EGDAXI", net.url)
	assert.Equal(t, "1d", net.params["interval"])
	assert.Equal(t, "1710028800", net.params["period1"])
	assert.Equal(t, "1710374400", net.params["period2"])
}

func TestFetchNotFoundIsEmpty(t *testing.T) {
	src := newSource(&fakeNetwork{err: fmt.Errorf("%w: /v8/finance/chart/XXXX", helpers.ErrNotFound)})

	series, err := src.Fetch(context.Background(), "XXXX", day(1), day(10))
	require.NoError(t, err)
	assert.True(t, series.IsEmpty())
	assert.Equal(t, "XXXX", series.DisplayName)
}

func TestFetchNotFoundBody(t *testing.T) {
	body := `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`
	src := newSource(&fakeNetwork{body: []byte(body)})

	series, err := src.Fetch(context.Background(), "XXXX", day(1), day(10))
	require.NoError(t, err)
	assert.True(t, series.IsEmpty())
}

func TestFetchPropagatesNetworkError(t *testing.T) {
	cause := helpers.NewNetworkError("bad status: 500", nil)
	src := newSource(&fakeNetwork{err: cause})

	_, err := src.Fetch(context.Background(), "SAP.DE", day(1), day(10))
	require.Error(t, err)
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, 502, helpers.HTTPStatus(err))
}

func TestFetchAlignmentError(t *testing.T) {
	body := `{"chart":{"result":[{"meta":{},"timestamp":[1710140400,1710226800],"indicators":{"quote":[{"open":[1],"high":[1,2],"low":[1,2],"close":[1,2],"volume":[1,2]}]}}]}}`
	src := newSource(&fakeNetwork{body: []byte(body)})

	_, err := src.Fetch(context.Background(), "ABC", day(1), day(20))
	var dsErr *helpers.DataSourceError
	assert.ErrorAs(t, err, &dsErr)
}

func TestFetchFallsBackToLongName(t *testing.T) {
	body := `{"chart":{"result":[{"meta":{"longName":"Siemens Aktiengesellschaft"},"timestamp":[],"indicators":{"quote":[]}}]}}`
	src := newSource(&fakeNetwork{body: []byte(body)})

	series, err := src.Fetch(context.Background(), "SIE.DE", day(1), day(20))
	require.NoError(t, err)
	assert.Equal(t, "Siemens Aktiengesellschaft", series.DisplayName)
	assert.True(t, series.IsEmpty())
}

func TestFetchKeepsStartDayStampedBeforeMidnightUTC(t *testing.T) {
	// 2024-03-01 10:00 AEDT is 2024-02-29 23:00 UTC
	body := `{"chart":{"result":[{"meta":{"symbol":"BHP.AX","gmtoffset":39600,"timezone":"AEDT"},
"timestamp":[1709161200,1709247600],
"indicators":{"quote":[{"open":[45,46],"high":[46,47],"low":[44,45],"close":[45.5,46.5],"volume":[10,20]}]}}]}}`
	net := &fakeNetwork{body: []byte(body)}
	src := newSource(net)

	series, err := src.Fetch(context.Background(), "BHP.AX", day(1), day(1))
	require.NoError(t, err)

	period1, err := strconv.ParseInt(net.params["period1"], 10, 64)
	require.NoError(t, err)
	assert.LessOrEqual(t, period1, int64(1709247600))

	require.Len(t, series.Bars, 1)
	assert.Equal(t, day(1), series.Bars[0].Date)
	assert.Equal(t, 46.5, series.Bars[0].Close)
}
