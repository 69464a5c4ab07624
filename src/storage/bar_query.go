package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"stock-trend/src/helpers"
	"stock-trend/src/logger"
	"stock-trend/src/models"
	"stock-trend/src/utils"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

const defaultBarsTable = "daily_bars"

// table or schema.table
var tableNameRegex = regexp.MustCompile(`^(\w+)(?:\.(\w+))?$`)

// SQLBarStore reads daily bars from an operator-maintained table. It never writes.
//
// Expected layout:
//
//	bars:  symbol, date, open, high, low, close, volume
//	names: symbol, short_name        (optional)
type SQLBarStore struct {
	SourceConfig models.MSourceConfig
	DB           *sqlx.DB
	Logger       *logger.Logger

	barsTable  string
	namesTable string
}

// barRow is one scanned row. date stays untyped because sqlite hands back
// text and postgres hands back time.Time.
type barRow struct {
	Date   interface{}     `db:"date"`
	Open   decimal.Decimal `db:"open"`
	High   decimal.Decimal `db:"high"`
	Low    decimal.Decimal `db:"low"`
	Close  decimal.Decimal `db:"close"`
	Volume decimal.Decimal `db:"volume"`
}

// -----------------------------------------------------------------------------

func newSQLBarStore(sourceCfg models.MSourceConfig, db *sqlx.DB, log *logger.Logger) (*SQLBarStore, error) {
	bars := sourceCfg.Storage.BarsTable
	if bars == "" {
		bars = defaultBarsTable
	}
	quotedBars, err := quoteTable(bars)
	if err != nil {
		return nil, err
	}

	quotedNames := ""
	if sourceCfg.Storage.NamesTable != "" {
		if quotedNames, err = quoteTable(sourceCfg.Storage.NamesTable); err != nil {
			return nil, err
		}
	}

	return &SQLBarStore{
		SourceConfig: sourceCfg,
		DB:           db,
		Logger:       log,
		barsTable:    quotedBars,
		namesTable:   quotedNames,
	}, nil
}

// -----------------------------------------------------------------------------

func quoteTable(name string) (string, error) {
	m := tableNameRegex.FindStringSubmatch(name)
	if m == nil {
		return "", helpers.NewConfigurationError(fmt.Sprintf("invalid table name %q", name), nil)
	}
	if m[2] == "" {
		return `"` + m[1] + `"`, nil
	}
	return `"` + m[1] + `"."` + m[2] + `"`, nil
}

// -----------------------------------------------------------------------------

func (s *SQLBarStore) Name() string {
	return s.SourceConfig.Name
}

// -----------------------------------------------------------------------------

func (s *SQLBarStore) Close() error {
	return s.DB.Close()
}

// -----------------------------------------------------------------------------

// Fetch reads bars of symbol between start and end inclusive.
// The upper bound is the midnight after end so timestamped text rows of the end day match.
func (s *SQLBarStore) Fetch(ctx context.Context, symbol string, start, end time.Time) (models.MPriceSeries, error) {
	series := models.MPriceSeries{Symbol: symbol, DisplayName: symbol, Source: s.Name()}

	query := s.DB.Rebind(fmt.Sprintf(
		`SELECT date, open, high, low, close, volume FROM %s WHERE symbol = ? AND date >= ? AND date < ? ORDER BY date`,
		s.barsTable))

	var rows []barRow
	err := s.DB.SelectContext(ctx, &rows, query, symbol,
		start.Format(models.DateLayout), end.AddDate(0, 0, 1).Format(models.DateLayout))
	if err != nil {
		return models.MPriceSeries{}, helpers.NewDataSourceError(fmt.Sprintf("%s: query bars for %s", s.Name(), symbol), err)
	}

	bars := make([]models.MPriceBar, 0, len(rows))
	for _, r := range rows {
		date, err := parseDateValue(r.Date)
		if err != nil {
			s.Logger.Warning("Skipping row of %s with unreadable date %v: %v", symbol, r.Date, err)
			continue
		}
		bars = append(bars, models.MPriceBar{
			Date:   date,
			Open:   r.Open.InexactFloat64(),
			High:   r.High.InexactFloat64(),
			Low:    r.Low.InexactFloat64(),
			Close:  r.Close.InexactFloat64(),
			Volume: r.Volume.IntPart(),
		})
	}

	series.Bars = utils.NormalizeBars(bars)
	if name := s.lookupName(ctx, symbol); name != "" {
		series.DisplayName = name
	}
	return series, nil
}

// -----------------------------------------------------------------------------

func (s *SQLBarStore) lookupName(ctx context.Context, symbol string) string {
	if s.namesTable == "" {
		return ""
	}

	query := s.DB.Rebind(fmt.Sprintf(`SELECT short_name FROM %s WHERE symbol = ?`, s.namesTable))
	var name sql.NullString
	if err := s.DB.GetContext(ctx, &name, query, symbol); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.Logger.Warning("Name lookup for %s failed: %v", symbol, err)
		}
		return ""
	}
	return strings.TrimSpace(name.String)
}

// -----------------------------------------------------------------------------

// parseDateValue accepts what the drivers return for a date column:
// time.Time (postgres DATE/TIMESTAMP) or text (sqlite).
func parseDateValue(v interface{}) (time.Time, error) {
	switch d := v.(type) {
	case time.Time:
		return utils.TruncateDate(d), nil
	case string:
		return parseDateText(d)
	case []byte:
		return parseDateText(string(d))
	default:
		return time.Time{}, fmt.Errorf("unsupported date type %T", v)
	}
}

// -----------------------------------------------------------------------------

func parseDateText(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) >= len(models.DateLayout) {
		if t, err := time.Parse(models.DateLayout, s[:len(models.DateLayout)]); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}
