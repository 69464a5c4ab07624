package datasource

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"stock-trend/src/helpers"
	"stock-trend/src/interfaces"
	"stock-trend/src/logger"
	"stock-trend/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	name  string
	calls int
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Fetch(ctx context.Context, symbol string, start, end time.Time) (models.MPriceSeries, error) {
	s.calls++
	return models.MPriceSeries{Symbol: symbol, Source: s.name}, nil
}

type nopNetwork struct{}

func (nopNetwork) Get(ctx context.Context, url string, params map[string]string) ([]byte, error) {
	return nil, helpers.ErrNotFound
}

func TestSourceManagerRoutesByName(t *testing.T) {
	a := &stubSource{name: "a"}
	b := &stubSource{name: "b"}
	m, err := NewSourceManager([]interfaces.IDataSource{a, b}, "b", logger.NewLogger(nil, "test"))
	require.NoError(t, err)

	series, err := m.Fetch(context.Background(), "", "X", time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, "b", series.Source)

	series, err = m.Fetch(context.Background(), "a", "X", time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, "a", series.Source)
	assert.Equal(t, 1, a.calls)

	assert.Equal(t, []string{"b", "a"}, m.Names())
}

func TestSourceManagerUnknownSource(t *testing.T) {
	m, err := NewSourceManager([]interfaces.IDataSource{&stubSource{name: "a"}}, "", logger.NewLogger(nil, "test"))
	require.NoError(t, err)

	_, err = m.Fetch(context.Background(), "zzz", "X", time.Time{}, time.Time{})
	require.Error(t, err)
	assert.True(t, helpers.IsValidation(err))
}

func TestSourceManagerRejectsDuplicates(t *testing.T) {
	_, err := NewSourceManager([]interfaces.IDataSource{&stubSource{name: "a"}, &stubSource{name: "a"}}, "", logger.NewLogger(nil, "test"))
	assert.Error(t, err)
}

func TestSourceManagerRejectsMissingDefault(t *testing.T) {
	_, err := NewSourceManager([]interfaces.IDataSource{&stubSource{name: "a"}}, "b", logger.NewLogger(nil, "test"))
	assert.Error(t, err)
}

func TestNewSourceManagerFromConfigDefaultsToYahoo(t *testing.T) {
	m, err := NewSourceManagerFromConfig(&models.MConfig{}, nopNetwork{}, logger.NewLogger(nil, "test"))
	require.NoError(t, err)
	assert.Equal(t, []string{"yahoo"}, m.Names())

	series, err := m.Fetch(context.Background(), "", "NOPE", time.Now().AddDate(0, 0, -10), time.Now())
	require.NoError(t, err)
	assert.True(t, series.IsEmpty())
}

func TestNewSourceManagerFromConfigBuildsParquet(t *testing.T) {
	cfg := &models.MConfig{DataSource: models.MDataSourceConfig{
		Default: "archive",
		Sources: []models.MSourceConfig{
			{Name: "yahoo", Type: "yahoo"},
			{Name: "archive", Type: "parquet", Dir: t.TempDir()},
		},
	}}
	m, err := NewSourceManagerFromConfig(cfg, nopNetwork{}, logger.NewLogger(nil, "test"))
	require.NoError(t, err)
	defer m.Close()
	assert.Equal(t, []string{"archive", "yahoo"}, m.Names())
}

func TestNewSourceManagerFromConfigErrors(t *testing.T) {
	log := logger.NewLogger(nil, "test")

	_, err := NewSourceManagerFromConfig(&models.MConfig{DataSource: models.MDataSourceConfig{
		Sources: []models.MSourceConfig{{Name: "x", Type: "carrier-pigeon"}},
	}}, nopNetwork{}, log)
	assert.Error(t, err)

	_, err = NewSourceManagerFromConfig(&models.MConfig{DataSource: models.MDataSourceConfig{
		Sources: []models.MSourceConfig{{Name: "db", Type: "sqlite", Storage: models.MStorageConfig{
			DBPath: filepath.Join(t.TempDir(), "missing", "bars.db"),
		}}},
	}}, nopNetwork{}, log)
	assert.Error(t, err)

	_, err = NewSourceManagerFromConfig(&models.MConfig{DataSource: models.MDataSourceConfig{
		Sources: []models.MSourceConfig{{Name: "alp", Type: "alpaca"}},
	}}, nopNetwork{}, log)
	assert.Error(t, err)
}
