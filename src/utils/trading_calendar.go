package utils

import (
	"strings"
	"time"

	"stock-trend/src/models"

	"github.com/scmhub/calendar"
)

// TradingCalendar answers session questions for one exchange using scmhub/calendar.
type TradingCalendar struct {
	MIC      string
	Calendar *calendar.Calendar
	Fallback bool
	Timezone *time.Location
}

// Yahoo-style exchange suffixes mapped to ISO 10383 MICs.
var suffixMIC = map[string]string{
	".L":  "xlon",
	".PA": "xpar",
	".DE": "xfra",
	".F":  "xfra",
	".AS": "xams",
	".BR": "xbru",
	".MI": "xmil",
	".MC": "xmad",
	".ST": "xsto",
	".CO": "xcse",
	".HE": "xhel",
	".VI": "xwbo",
	".SW": "xswx",
	".TO": "xtse",
	".V":  "xtsx",
	".T":  "xtks",
	".HK": "xhkg",
	".AX": "xasx",
	".KS": "xkrx",
	".TW": "xtai",
	".SS": "xshg",
	".SZ": "xshe",
}

// Index tickers have no suffix; map the common ones to their home exchange.
var indexMIC = map[string]string{
	"^GDAXI":     "xfra",
	"^MDAXI":     "xfra",
	"^TECDAX":    "xfra",
	"^FTSE":      "xlon",
	"^FCHI":      "xpar",
	"^AEX":       "xams",
	"^STOXX50E":  "xfra",
	"^N225":      "xtks",
	"^HSI":       "xhkg",
	"^AXJO":      "xasx",
	"^GSPTSE":    "xtse",
	"^KS11":      "xkrx",
	"000001.SS":  "xshg",
	"^GSPC":      "xnys",
	"^DJI":       "xnys",
	"^IXIC":      "xnys",
	"^RUT":       "xnys",
	"^SSMI":      "xswx",
	"^OMX":       "xsto",
	"^IBEX":      "xmad",
	"FTSEMIB.MI": "xmil",
}

// -----------------------------------------------------------------------------

// MICForSymbol picks the exchange of a ticker; plain US tickers default to NYSE
func MICForSymbol(symbol string) string {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if mic, ok := indexMIC[symbol]; ok {
		return mic
	}
	if i := strings.LastIndex(symbol, "."); i > 0 {
		if mic, ok := suffixMIC[symbol[i:]]; ok {
			return mic
		}
	}
	return "xnys"
}

// -----------------------------------------------------------------------------

// GetCalendar loads the calendar for mic, falling back to NYSE and then to plain Mon-Fri hours.
func GetCalendar(mic string) *TradingCalendar {
	cal := calendar.GetCalendar(mic)
	if cal == nil && mic != "xnys" {
		mic = "xnys"
		cal = calendar.GetCalendar(mic)
	}

	if cal == nil {
		nyLoc, _ := time.LoadLocation("America/New_York")
		if nyLoc == nil {
			nyLoc = time.UTC
		}
		return &TradingCalendar{MIC: mic, Fallback: true, Timezone: nyLoc}
	}

	return &TradingCalendar{MIC: mic, Calendar: cal, Fallback: false, Timezone: cal.Loc}
}

// -----------------------------------------------------------------------------

func (tc *TradingCalendar) IsTradingDay(date time.Time) bool {
	if tc.Timezone != nil {
		date = date.In(tc.Timezone)
	}

	if tc.Fallback {
		weekday := date.Weekday()
		return weekday != time.Saturday && weekday != time.Sunday
	}
	return tc.Calendar.IsBusinessDay(date)
}

// -----------------------------------------------------------------------------

// IsOpenOnMinute checks if the market is open at a specific minute.
func (tc *TradingCalendar) IsOpenOnMinute(t time.Time) bool {
	if tc.Timezone != nil {
		t = t.In(tc.Timezone)
	}

	if tc.Fallback {
		if !tc.IsTradingDay(t) {
			return false
		}

		hour := t.Hour()
		minute := t.Minute()

		// 9:30 - 16:00 local
		return (hour > 9 || (hour == 9 && minute >= 30)) && hour < 16
	}

	return tc.Calendar.IsOpen(t)
}

// -----------------------------------------------------------------------------

// Status reports the session state at now
func (tc *TradingCalendar) Status(now time.Time) models.MMarketStatus {
	tz := "UTC"
	if tc.Timezone != nil {
		tz = tc.Timezone.String()
	}
	return models.MMarketStatus{
		MIC:           tc.MIC,
		Timezone:      tz,
		TradingDay:    tc.IsTradingDay(now),
		Open:          tc.IsOpenOnMinute(now),
		FallbackHours: tc.Fallback,
	}
}
