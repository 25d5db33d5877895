// Package economy implements the reward & progression engine.
// User actions become XP, coins and packs; rewards are gated by daily and
// weekly windows, streaks and usage limits. Every component follows the
// same read-compute-write shape against a namespaced key-value store.
package economy

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/nursequest/nursequest/internal/domain"
	"github.com/nursequest/nursequest/internal/logger"
)

// Session carries everything the engine used to read from globals:
// profile, premium entitlement, clock, store and randomness.
// Build one per profile and hand it to every service.
type Session struct {
	ProfileID string
	Premium   bool
	Clock     domain.Clock
	Store     domain.Store
	Rand      domain.RNG
	Log       *logger.Logger
	LevelCap  int // 0 = uncapped
}

// Option configures a Session.
type Option func(*Session)

// WithProfile sets the profile id used as key namespace.
func WithProfile(id string) Option {
	return func(s *Session) { s.ProfileID = id }
}

// WithPremium sets the premium entitlement flag.
func WithPremium(premium bool) Option {
	return func(s *Session) { s.Premium = premium }
}

// WithClock injects the time source.
func WithClock(c domain.Clock) Option {
	return func(s *Session) { s.Clock = c }
}

// WithRand injects the random source.
func WithRand(r domain.RNG) Option {
	return func(s *Session) { s.Rand = r }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Session) { s.Log = l }
}

// WithLevelCap truncates computed levels at cap (0 disables).
func WithLevelCap(cap int) Option {
	return func(s *Session) { s.LevelCap = cap }
}

// NewSession builds a session over store with system defaults.
func NewSession(store domain.Store, opts ...Option) *Session {
	s := &Session{
		ProfileID: "default",
		Clock:     SystemClock{},
		Store:     store,
		Log:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Rand == nil {
		s.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s.Log = s.Log.With("profile", s.ProfileID)
	return s
}

// Prefix is the namespace every key of this profile lives under.
func (s *Session) Prefix() string {
	return "nq:" + s.ProfileID + ":"
}

func (s *Session) key(name string) string {
	return s.Prefix() + name
}

// Now returns the session clock's time.
func (s *Session) Now() time.Time {
	return s.Clock.Now()
}

// DayKey is the current day key.
func (s *Session) DayKey() string { return DayKey(s.Now()) }

// WeekKey is the current ISO week key.
func (s *Session) WeekKey() string { return WeekKey(s.Now()) }

// scopeKey returns the current key for a window.
func (s *Session) scopeKey(w domain.Window) string {
	if w == domain.WindowWeek {
		return s.WeekKey()
	}
	return s.DayKey()
}

// load decodes the document stored at name. A missing key yields def; a
// document that fails to decode is logged and also yields def.
func load[T any](s *Session, name string, def T) (T, error) {
	raw, ok, err := s.Store.Get(s.key(name))
	if err != nil {
		return def, fmt.Errorf("load %s: %w", name, err)
	}
	if !ok {
		return def, nil
	}
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		s.Log.Warn("malformed stored state, using default", "key", name, "error", err)
		return def, nil
	}
	return v, nil
}

// save writes v as one JSON document.
func save(s *Session, name string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if err := s.Store.Set(s.key(name), string(b)); err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	return nil
}
