package economy

import (
	"fmt"
	"sync"
	"time"
)

// DayKey returns the local calendar date of t as "YYYY-MM-DD".
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// WeekKey returns the ISO-8601 week of t as "YYYY-Www".
// Weeks start Monday; week 1 contains the year's first Thursday.
func WeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// PrevDayKey returns the day key of the calendar day before t.
func PrevDayKey(t time.Time) string {
	// Noon sidesteps DST transitions landing on midnight.
	return DayKey(time.Date(t.Year(), t.Month(), t.Day()-1, 12, 0, 0, 0, t.Location()))
}

// MsUntilNextDay returns milliseconds until the next local midnight.
func MsUntilNextDay(now time.Time) int64 {
	next := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
	return clampMs(next.Sub(now))
}

// MsUntilNextWeek returns milliseconds until the next Monday 00:00 local.
func MsUntilNextWeek(now time.Time) int64 {
	daysUntilMonday := (8 - int(now.Weekday())) % 7
	if daysUntilMonday == 0 {
		daysUntilMonday = 7 // Monday counts down to the following Monday
	}
	next := time.Date(now.Year(), now.Month(), now.Day()+daysUntilMonday, 0, 0, 0, 0, now.Location())
	return clampMs(next.Sub(now))
}

func clampMs(d time.Duration) int64 {
	if d < 0 {
		return 0
	}
	return d.Milliseconds()
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// ManualClock is a settable clock for tests and replays.
type ManualClock struct {
	mu sync.Mutex
	t  time.Time
}

// NewManualClock starts the clock at t.
func NewManualClock(t time.Time) *ManualClock {
	return &ManualClock{t: t}
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

// Set moves the clock to t.
func (c *ManualClock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// AddDays moves the clock by n calendar days, keeping the wall time.
func (c *ManualClock) AddDays(n int) {
	c.mu.Lock()
	c.t = c.t.AddDate(0, 0, n)
	c.mu.Unlock()
}
