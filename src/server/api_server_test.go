package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"stock-trend/src/analysis"
	"stock-trend/src/helpers"
	"stock-trend/src/logger"
	"stock-trend/src/models"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testToday = time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

type fixedClock struct{}

func (fixedClock) Now() time.Time       { return testToday.Add(10 * time.Hour) }
func (fixedClock) Today() time.Time     { return testToday }
func (fixedClock) Yesterday() time.Time { return testToday.AddDate(0, 0, -1) }

type stubSources struct {
	mu     sync.Mutex
	series map[string]models.MPriceSeries
	err    error
}

func (s *stubSources) Fetch(_ context.Context, name, symbol string, start, end time.Time) (models.MPriceSeries, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return models.MPriceSeries{}, s.err
	}
	if series, ok := s.series[symbol]; ok {
		return series, nil
	}
	return models.MPriceSeries{Symbol: symbol, DisplayName: symbol, Source: "stub"}, nil
}

func (s *stubSources) Names() []string { return []string{"stub"} }

func sampleSeries() models.MPriceSeries {
	bars := make([]models.MPriceBar, 3)
	for i := range bars {
		p := float64(100 + i)
		bars[i] = models.MPriceBar{Date: testToday.AddDate(0, 0, -10+i), Open: p, High: p + 1, Low: p - 1, Close: p, Volume: 1000}
	}
	return models.MPriceSeries{Symbol: "SAP.DE", DisplayName: "SAP SE", Source: "stub", Bars: bars}
}

func newTestServer(t *testing.T, sources *stubSources) *APIServer {
	t.Helper()
	cfg := &models.MConfig{Name: "test", LogLevel: "ERROR"}
	log := logger.NewLogger(nil, "test")
	facade, err := analysis.NewAnalysisFacade(cfg, sources, fixedClock{}, nil, log)
	require.NoError(t, err)

	s := NewAPIServer(cfg, facade, log)
	t.Cleanup(func() { s.Stop() })
	return s
}

func get(t *testing.T, s *APIServer, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return rec, body
}

func TestHealthAndRequestID(t *testing.T) {
	s := newTestServer(t, &stubSources{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
	assert.Contains(t, rec.Body.String(), `"reference_date":"2024-03-15"`)

	rec, _ = get(t, s, "/api/health")
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestConfigEndpoint(t *testing.T) {
	s := newTestServer(t, &stubSources{})
	rec, body := get(t, s, "/api/config")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "^GDAXI", body["default_symbol"])
	assert.Equal(t, "2021-01-01", body["default_start"])
	assert.Equal(t, "2000-01-01", body["min_date"])
	assert.Equal(t, "2024-03-14", body["max_date"])
	assert.Equal(t, []interface{}{5.0, 20.0, 60.0, 120.0}, body["windows"])
	assert.Len(t, body["presets"], 4)
}

func TestRangeEndpoint(t *testing.T) {
	s := newTestServer(t, &stubSources{})

	rec, body := get(t, s, "/api/range?preset=1M")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1M", body["preset"])
	assert.Equal(t, "2024-02-13", body["start"])
	assert.Equal(t, "2024-03-14", body["end"])

	rec, body = get(t, s, "/api/range?m1=100&y5=100&y1=50")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1M", body["preset"])

	rec, body = get(t, s, "/api/range")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "NONE", body["preset"])
	assert.Equal(t, "2023-09-16", body["start"])

	rec, _ = get(t, s, "/api/range?preset=3W")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = get(t, s, "/api/range?m6=soon")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChartEndpoint(t *testing.T) {
	s := newTestServer(t, &stubSources{series: map[string]models.MPriceSeries{"SAP.DE": sampleSeries()}})

	rec, body := get(t, s, "/api/chart?symbol=sap.de&start=2024-01-01&end=2024-03-14")
	require.Equal(t, http.StatusOK, rec.Code)

	chart := body["chart"].(map[string]interface{})
	assert.Equal(t, "SAP.DE", chart["symbol"])
	assert.Equal(t, "SAP SE", chart["display_name"])
	assert.Equal(t, false, chart["no_data"])
	assert.Len(t, chart["bars"], 3)
	notice := body["notice"].(map[string]interface{})
	assert.Equal(t, false, notice["open"])
}

func TestChartEndpointNoData(t *testing.T) {
	s := newTestServer(t, &stubSources{})

	rec, body := get(t, s, "/api/chart?symbol=NOPE")
	require.Equal(t, http.StatusOK, rec.Code)

	chart := body["chart"].(map[string]interface{})
	assert.Equal(t, true, chart["no_data"])
	assert.Equal(t, []interface{}{}, chart["bars"])
	notice := body["notice"].(map[string]interface{})
	assert.Equal(t, true, notice["open"])
	assert.Equal(t, "OH, SNAP!!", notice["header"])
}

func TestChartEndpointErrors(t *testing.T) {
	s := newTestServer(t, &stubSources{})

	rec, body := get(t, s, "/api/chart?start=2024-03-01&end=2024-02-01")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body["error"], "invalid range")

	rec, _ = get(t, s, "/api/chart?end=2024-03-15")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = get(t, s, "/api/chart?start=yesterday")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	failing := newTestServer(t, &stubSources{err: helpers.NewNetworkError("blocked", nil)})
	rec, body = get(t, failing, "/api/chart?symbol=SAP.DE")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.NotEmpty(t, body["request_id"])
}

func TestFigureEndpoint(t *testing.T) {
	s := newTestServer(t, &stubSources{series: map[string]models.MPriceSeries{"SAP.DE": sampleSeries()}})

	rec, body := get(t, s, "/api/figure?symbol=SAP.DE")
	require.Equal(t, http.StatusOK, rec.Code)

	fig := body["figure"].(map[string]interface{})
	// candles, four averages, volume
	assert.Len(t, fig["data"], 6)
	layout := fig["layout"].(map[string]interface{})
	assert.Equal(t, 800.0, layout["height"])
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, &stubSources{})

	req := httptest.NewRequest(http.MethodOptions, "/api/chart", nil)
	req.Header.Set("Origin", "http://127.0.0.1:3000")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://127.0.0.1:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func dialWS(t *testing.T, s *APIServer) *websocket.Conn {
	t.Helper()
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) models.MSocketMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg models.MSocketMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestWebSocketCommands(t *testing.T) {
	s := newTestServer(t, &stubSources{series: map[string]models.MPriceSeries{"SAP.DE": sampleSeries()}})
	conn := dialWS(t, s)

	hello := readMessage(t, conn)
	assert.Equal(t, TypeReferenceDate, hello.Type)
	assert.Equal(t, "2024-03-15", hello.Date)

	require.NoError(t, conn.WriteJSON(models.MChartCommand{Command: "range", RequestID: "r1", Preset: "5Y"}))
	msg := readMessage(t, conn)
	assert.Equal(t, TypeRange, msg.Type)
	assert.Equal(t, "r1", msg.RequestID)
	require.NotNil(t, msg.Range)
	assert.Equal(t, "2019-03-16", msg.Range.Start)

	require.NoError(t, conn.WriteJSON(models.MChartCommand{Command: "chart", RequestID: "c1", Symbol: "SAP.DE"}))
	msg = readMessage(t, conn)
	assert.Equal(t, TypeChart, msg.Type)
	require.NotNil(t, msg.Chart)
	assert.Len(t, msg.Chart.Bars, 3)
	require.NotNil(t, msg.Notice)
	assert.False(t, msg.Notice.Open)

	require.NoError(t, conn.WriteJSON(models.MChartCommand{Command: "figure", RequestID: "f1", Symbol: "UNKNOWN"}))
	msg = readMessage(t, conn)
	assert.Equal(t, TypeFigure, msg.Type)
	require.NotNil(t, msg.Figure)
	assert.Empty(t, msg.Figure.Data)
	assert.True(t, msg.Notice.Open)

	require.NoError(t, conn.WriteJSON(models.MChartCommand{Command: "chart", RequestID: "e1", Start: "2024-03-10", End: "2024-03-01"}))
	msg = readMessage(t, conn)
	assert.Equal(t, TypeError, msg.Type)
	assert.Equal(t, "e1", msg.RequestID)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	msg = readMessage(t, conn)
	assert.Equal(t, TypeError, msg.Type)
}

func TestWebSocketBroadcastReferenceDate(t *testing.T) {
	s := newTestServer(t, &stubSources{})
	conn := dialWS(t, s)
	readMessage(t, conn)

	s.Broadcast(time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC))
	msg := readMessage(t, conn)
	assert.Equal(t, TypeReferenceDate, msg.Type)
	assert.Equal(t, "2024-03-16", msg.Date)

	rec, body := get(t, s, "/api/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1.0, body["connections"])
}

func TestReplyAfterUnregisterIsDropped(t *testing.T) {
	s := newTestServer(t, &stubSources{})
	client := &Client{ID: "c1", hub: s, send: make(chan *models.MSocketMessage, 4)}

	s.register <- client
	first := <-client.send
	assert.Equal(t, TypeReferenceDate, first.Type)

	client.reply(&models.MSocketMessage{Type: TypeRange})
	got := <-client.send
	assert.Equal(t, TypeRange, got.Type)

	s.unregister <- client
	assert.NotPanics(t, func() {
		client.reply(&models.MSocketMessage{Type: TypeChart})
	})

	_, open := <-client.send
	assert.False(t, open)
}
