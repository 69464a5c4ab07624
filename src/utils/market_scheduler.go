package utils

import (
	"stock-trend/src/logger"
	"stock-trend/src/models"
	"sync"
	"time"
)

// MarketScheduler caches one TradingCalendar per exchange and answers per-symbol session queries.
type MarketScheduler struct {
	Calendars map[string]*TradingCalendar
	Logger    *logger.Logger
	mu        sync.RWMutex
}

// -----------------------------------------------------------------------------

func NewMarketScheduler(l *logger.Logger) *MarketScheduler {
	return &MarketScheduler{
		Calendars: make(map[string]*TradingCalendar),
		Logger:    l,
	}
}

// -----------------------------------------------------------------------------

// CalendarFor returns the calendar of the symbol's exchange, loading it on first use
func (ms *MarketScheduler) CalendarFor(symbol string) *TradingCalendar {
	mic := MICForSymbol(symbol)

	ms.mu.RLock()
	cal, ok := ms.Calendars[mic]
	ms.mu.RUnlock()
	if ok {
		return cal
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()
	if cal, ok := ms.Calendars[mic]; ok {
		return cal
	}

	cal = GetCalendar(mic)
	ms.Calendars[mic] = cal
	if cal.Fallback {
		ms.Logger.Warning("No calendar for MIC '%s'; using Mon-Fri 09:30-16:00 fallback", mic)
	} else {
		ms.Logger.Debug("Loaded calendar %s for %s", cal.MIC, symbol)
	}
	return cal
}

// -----------------------------------------------------------------------------

// StatusFor reports whether the symbol's market trades today and is open at now
func (ms *MarketScheduler) StatusFor(symbol string, now time.Time) models.MMarketStatus {
	return ms.CalendarFor(symbol).Status(now)
}
