package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"stock-trend/src/helpers"
	"stock-trend/src/logger"
	"stock-trend/src/models"
	"stock-trend/src/utils"

	"github.com/parquet-go/parquet-go"
)

// BarRecord is one daily bar as stored in the yearly parquet files.
type BarRecord struct {
	Symbol     string  `parquet:"symbol"`
	Timestamp  int64   `parquet:"timestamp,timestamp(millisecond)"`
	Open       float64 `parquet:"open"`
	High       float64 `parquet:"high"`
	Low        float64 `parquet:"low"`
	Close      float64 `parquet:"close"`
	Volume     int64   `parquet:"volume"`
	TradeCount int64   `parquet:"trade_count"`
	VWAP       float64 `parquet:"vwap"`
}

// ParquetBarStore reads <dir>/<market>/daily/<SYMBOL>/<YYYY>.parquet.
type ParquetBarStore struct {
	SourceConfig models.MSourceConfig
	Logger       *logger.Logger
	root         string
}

// -----------------------------------------------------------------------------

func NewParquetBarStore(sourceCfg models.MSourceConfig, log *logger.Logger) (*ParquetBarStore, error) {
	if sourceCfg.Dir == "" {
		return nil, helpers.NewConfigurationError(fmt.Sprintf("parquet source %q needs dir", sourceCfg.Name), nil)
	}
	market := sourceCfg.Market
	if market == "" {
		market = "us"
	}
	info, err := os.Stat(sourceCfg.Dir)
	if err != nil || !info.IsDir() {
		return nil, helpers.NewConfigurationError(fmt.Sprintf("parquet dir %s is not a directory", sourceCfg.Dir), err)
	}

	return &ParquetBarStore{
		SourceConfig: sourceCfg,
		Logger:       log,
		root:         filepath.Join(sourceCfg.Dir, market, "daily"),
	}, nil
}

// -----------------------------------------------------------------------------

func (p *ParquetBarStore) Name() string {
	return p.SourceConfig.Name
}

// -----------------------------------------------------------------------------

// Ticker characters only; anything else could leave the store root.
var symbolDirPattern = regexp.MustCompile(`^[A-Z0-9^=._-]+$`)

// DailyBarPath is the file holding symbol's bars for one year.
// Symbols that are not a single path element below root are rejected.
func DailyBarPath(root, symbol string, year int) (string, error) {
	dir := strings.ToUpper(strings.TrimSpace(symbol))
	if !symbolDirPattern.MatchString(dir) || strings.Trim(dir, ".") == "" || !filepath.IsLocal(dir) {
		return "", helpers.NewValidationError(fmt.Sprintf("invalid symbol %q", symbol), nil)
	}
	return filepath.Join(root, dir, fmt.Sprintf("%d.parquet", year)), nil
}

// -----------------------------------------------------------------------------

// Fetch reads every yearly file overlapping [start, end]. Missing years are skipped.
func (p *ParquetBarStore) Fetch(ctx context.Context, symbol string, start, end time.Time) (models.MPriceSeries, error) {
	series := models.MPriceSeries{Symbol: symbol, DisplayName: symbol, Source: p.Name()}

	var bars []models.MPriceBar
	for year := start.Year(); year <= end.Year(); year++ {
		if err := ctx.Err(); err != nil {
			return models.MPriceSeries{}, err
		}

		path, err := DailyBarPath(p.root, symbol, year)
		if err != nil {
			return models.MPriceSeries{}, err
		}
		records, err := parquet.ReadFile[BarRecord](path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return models.MPriceSeries{}, helpers.NewDataSourceError(fmt.Sprintf("%s: read %s", p.Name(), path), err)
		}

		for _, r := range records {
			date := utils.TruncateDate(time.UnixMilli(r.Timestamp).UTC())
			if !utils.InRange(date, start, end) {
				continue
			}
			bars = append(bars, models.MPriceBar{
				Date:   date,
				Open:   r.Open,
				High:   r.High,
				Low:    r.Low,
				Close:  r.Close,
				Volume: r.Volume,
			})
		}
	}

	series.Bars = utils.NormalizeBars(bars)
	p.Logger.Debug("Parquet %s: %d bars for %s", p.Name(), len(series.Bars), symbol)
	return series, nil
}

// -----------------------------------------------------------------------------

// WriteYear stores records as the yearly file of symbol, creating directories.
// Used by fixtures and offline import tooling.
func (p *ParquetBarStore) WriteYear(symbol string, year int, records []BarRecord) error {
	path, err := DailyBarPath(p.root, symbol, year)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return parquet.WriteFile(path, records)
}
