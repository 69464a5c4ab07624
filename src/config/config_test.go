package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"STOCKTREND_HOST", "STOCKTREND_PORT", "STOCKTREND_LOG_LEVEL", "STOCKTREND_DEFAULT_SYMBOL",
		"ALPACA_API_KEY", "ALPACA_API_SECRET", "STOCKTREND_PG_DSN",
	} {
		t.Setenv(k, "")
	}
}

func TestParseAppliesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Parse([]byte("name: demo\n"))
	require.NoError(t, err)

	assert.Equal(t, "demo", cfg.Name)
	assert.Equal(t, 8050, cfg.Port)
	assert.Equal(t, "^GDAXI", cfg.Chart.DefaultSymbol)
	assert.Equal(t, "2021-01-01", cfg.Chart.DefaultStartDate)
	assert.Equal(t, "2000-01-01", cfg.Chart.MinDate)
	assert.Equal(t, []int{5, 20, 60, 120}, cfg.Chart.Windows)
	assert.Equal(t, 800, cfg.Chart.Height)
	assert.Equal(t, "yahoo", cfg.DataSource.Default)
	require.Len(t, cfg.DataSource.Sources, 1)
	assert.Equal(t, 0, cfg.Network.MaxRetries)
}

func TestParseEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("STOCKTREND_PORT", "9000")
	t.Setenv("STOCKTREND_DEFAULT_SYMBOL", "AAPL")
	t.Setenv("ALPACA_API_KEY", "key")
	t.Setenv("ALPACA_API_SECRET", "secret")
	t.Setenv("STOCKTREND_PG_DSN", "postgres://ro@db/bars")

	cfg, err := Parse([]byte(`
data_source:
  default: alp
  sources:
    - name: alp
      type: alpaca
    - name: pg
      type: postgres
`))
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "AAPL", cfg.Chart.DefaultSymbol)
	assert.Equal(t, "key", cfg.DataSource.Sources[0].APIKey)
	assert.Equal(t, "secret", cfg.DataSource.Sources[0].APISecret)
	assert.Equal(t, "postgres://ro@db/bars", cfg.DataSource.Sources[1].Storage.DBConnectionString)
}

func TestParseBadPortEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("STOCKTREND_PORT", "eighty")

	_, err := Parse([]byte("name: demo\n"))
	assert.Error(t, err)
}

func TestValidateRejects(t *testing.T) {
	clearEnv(t)

	cases := map[string]string{
		"bad window":       "chart:\n  windows: [5, 0]\n",
		"bad start":        "chart:\n  default_start_date: 2021-13-01\n",
		"start before min": "chart:\n  default_start_date: 1999-01-01\n",
		"bad timezone":     "timezone: Mars/Olympus\n",
		"unknown type":     "data_source:\n  sources:\n    - name: x\n      type: fax\n",
		"missing default":  "data_source:\n  default: nope\n  sources:\n    - name: x\n      type: yahoo\n",
		"duplicate source": "data_source:\n  sources:\n    - name: x\n    - name: x\n",
		"negative retries": "network:\n  retries: -1\n",
	}
	for name, yml := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(yml))
			assert.Error(t, err)
		})
	}
}

func TestNewConfigMissingFile(t *testing.T) {
	_, err := NewConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := Default()
	cfg.Chart.DefaultSymbol = "MSFT"
	require.NoError(t, cfg.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "default_symbol: MSFT")

	loaded, err := NewConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "MSFT", loaded.Chart.DefaultSymbol)
}
