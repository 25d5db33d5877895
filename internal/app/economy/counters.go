package economy

import (
	"fmt"

	"github.com/nursequest/nursequest/internal/domain"
)

// Scoped is a value tagged with the day or week key it was written under.
// A stale key means the value has reset: ValueFor computes that without
// writing anything back.
type Scoped[T any] struct {
	Key   string `json:"key"`
	Value T      `json:"value"`
}

// ValueFor returns the value if it belongs to key, else T's zero value.
func (s Scoped[T]) ValueFor(key string) T {
	if s.Key != key {
		var zero T
		return zero
	}
	return s.Value
}

// Counter names shared by the quiz, reading, pack and tool flows.
const (
	CounterReads         = "reads"
	CounterQuizzes       = "quizzes"
	CounterTools         = "tools"
	CounterPacks         = "packs"
	CounterRecycles      = "recycles"
	CounterWeeklyCorrect = "weekly_correct"
)

// CounterLedger holds named counters and flags that reset lazily when the
// window key changes. Every write replaces the whole {key, value} record.
type CounterLedger struct {
	s      *Session
	window domain.Window
}

// NewDailyCounters returns the per-day ledger.
func NewDailyCounters(s *Session) *CounterLedger {
	return &CounterLedger{s: s, window: domain.WindowDay}
}

// NewWeeklyCounters returns the per-ISO-week ledger.
func NewWeeklyCounters(s *Session) *CounterLedger {
	return &CounterLedger{s: s, window: domain.WindowWeek}
}

func (c *CounterLedger) counterKey(name string) string {
	return fmt.Sprintf("counter:%s:%s", c.window, name)
}

func (c *CounterLedger) flagKey(name string) string {
	return fmt.Sprintf("flag:%s:%s", c.window, name)
}

// Get returns the counter for the current window (0 if stale or unset).
func (c *CounterLedger) Get(name string) (int64, error) {
	rec, err := load(c.s, c.counterKey(name), Scoped[int64]{})
	if err != nil {
		return 0, err
	}
	return rec.ValueFor(c.s.scopeKey(c.window)), nil
}

// Set overwrites the counter under the current window key.
func (c *CounterLedger) Set(name string, value int64) error {
	if value < 0 {
		value = 0
	}
	return save(c.s, c.counterKey(name), Scoped[int64]{Key: c.s.scopeKey(c.window), Value: value})
}

// Increment adds delta (which may be negative) and returns the new value,
// clamped at 0. A stale stored value counts as 0.
func (c *CounterLedger) Increment(name string, delta int64) (int64, error) {
	cur, err := c.Get(name)
	if err != nil {
		return 0, err
	}
	next := cur + delta
	if next < 0 {
		next = 0
	}
	if err := c.Set(name, next); err != nil {
		return 0, err
	}
	c.s.Log.Debug("counter incremented", "window", c.window.String(), "name", name, "value", next)
	return next, nil
}

// GetFlag returns the flag for the current window (false if stale or unset).
func (c *CounterLedger) GetFlag(name string) (bool, error) {
	rec, err := load(c.s, c.flagKey(name), Scoped[bool]{})
	if err != nil {
		return false, err
	}
	return rec.ValueFor(c.s.scopeKey(c.window)), nil
}

// SetFlag writes the flag under the current window key.
func (c *CounterLedger) SetFlag(name string, value bool) error {
	return save(c.s, c.flagKey(name), Scoped[bool]{Key: c.s.scopeKey(c.window), Value: value})
}
