package utils

import (
	"fmt"
	"stock-trend/src/logger"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// rollSpec fires at local midnight; the seconds-less standard parser is used.
const rollSpec = "0 0 * * *"

// ReferenceClock holds "today" in the configured timezone and rolls it at midnight.
// Dates are returned as midnight UTC so they compare equal to bar dates.
type ReferenceClock struct {
	Logger *logger.Logger

	loc       *time.Location
	now       func() time.Time
	cron      *cron.Cron
	mu        sync.RWMutex
	today     time.Time
	listeners []func(today time.Time)
}

// -----------------------------------------------------------------------------

// NewReferenceClock creates a clock in loc. now may be nil, in which case time.Now is used.
func NewReferenceClock(loc *time.Location, now func() time.Time, l *logger.Logger) *ReferenceClock {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	rc := &ReferenceClock{
		Logger: l,
		loc:    loc,
		now:    now,
		cron:   cron.New(cron.WithLocation(loc)),
	}
	rc.today = rc.localDate()
	return rc
}

// -----------------------------------------------------------------------------

// LoadLocation resolves a configured timezone name, treating empty as UTC
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", name, err)
	}
	return loc, nil
}

// -----------------------------------------------------------------------------

func (rc *ReferenceClock) localDate() time.Time {
	y, m, d := rc.now().In(rc.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// -----------------------------------------------------------------------------

// Now returns the wall clock the reference date is derived from
func (rc *ReferenceClock) Now() time.Time {
	return rc.now()
}

// -----------------------------------------------------------------------------

func (rc *ReferenceClock) Today() time.Time {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	return rc.today
}

// -----------------------------------------------------------------------------

// Yesterday is the last complete session date and the latest date a chart may request
func (rc *ReferenceClock) Yesterday() time.Time {
	return rc.Today().AddDate(0, 0, -1)
}

// -----------------------------------------------------------------------------

// OnRoll registers fn to run after the reference date changes
func (rc *ReferenceClock) OnRoll(fn func(today time.Time)) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.listeners = append(rc.listeners, fn)
}

// -----------------------------------------------------------------------------

// Roll re-reads the wall clock. It returns true and notifies listeners when the date changed.
func (rc *ReferenceClock) Roll() bool {
	today := rc.localDate()

	rc.mu.Lock()
	if today.Equal(rc.today) {
		rc.mu.Unlock()
		return false
	}
	rc.today = today
	listeners := make([]func(time.Time), len(rc.listeners))
	copy(listeners, rc.listeners)
	rc.mu.Unlock()

	if rc.Logger != nil {
		rc.Logger.Info("Reference date rolled to %s", today.Format("2006-01-02"))
	}
	for _, fn := range listeners {
		fn(today)
	}
	return true
}

// -----------------------------------------------------------------------------

// Start schedules the midnight roll
func (rc *ReferenceClock) Start() error {
	if _, err := rc.cron.AddFunc(rollSpec, func() { rc.Roll() }); err != nil {
		return fmt.Errorf("register reference date roll: %w", err)
	}
	rc.cron.Start()
	return nil
}

// -----------------------------------------------------------------------------

// Stop halts the scheduler and waits for a running roll to finish
func (rc *ReferenceClock) Stop() {
	<-rc.cron.Stop().Done()
}
