// Package guard puts a circuit breaker in front of a remote domain.Store.
//
// States:
//   - closed: calls pass; consecutive failures past the threshold open it
//   - open: calls fail fast with ErrOpen until the cooldown elapses
//   - half-open: calls pass as probes; enough successes close it, one failure reopens it
package guard

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/nursequest/nursequest/internal/domain"
)

// ErrOpen is returned while the breaker rejects calls.
var ErrOpen = errors.New("store circuit open")

// State is the breaker position.
type State int

const (
	Closed State = iota
	Open
	HalfOpen
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	}
	return "unknown"
}

// Config tunes the breaker.
type Config struct {
	Threshold int           // failures that open the circuit
	Cooldown  time.Duration // time spent open before probing
	Probes    int           // successful probes needed to close
}

// DefaultConfig suits a LAN Redis.
func DefaultConfig() Config {
	return Config{Threshold: 5, Cooldown: 15 * time.Second, Probes: 2}
}

// ─── Breaker ────────────────────────────────────────────────────────────────

// Breaker is safe for concurrent use.
type Breaker struct {
	mu       sync.Mutex
	cfg      Config
	state    State
	failures int
	probes   int
	openedAt time.Time
	trips    int
	now      func() time.Time
}

// NewBreaker returns a closed breaker. Zero config fields take defaults.
func NewBreaker(cfg Config) *Breaker {
	def := DefaultConfig()
	if cfg.Threshold <= 0 {
		cfg.Threshold = def.Threshold
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = def.Cooldown
	}
	if cfg.Probes <= 0 {
		cfg.Probes = def.Probes
	}
	return &Breaker{cfg: cfg, now: time.Now}
}

// Allow reports whether a call may proceed.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.advanceLocked()
	if b.state == Open {
		return ErrOpen
	}
	return nil
}

// Record feeds a call result back into the breaker.
func (b *Breaker) Record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err == nil {
		switch b.state {
		case HalfOpen:
			b.probes++
			if b.probes >= b.cfg.Probes {
				b.state = Closed
				b.failures = 0
			}
		case Closed:
			b.failures = 0
		}
		return
	}

	switch b.state {
	case Closed:
		b.failures++
		if b.failures >= b.cfg.Threshold {
			b.tripLocked()
		}
	case HalfOpen:
		b.tripLocked()
	}
}

// State returns the current position.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.advanceLocked()
	return b.state
}

// Trips counts how many times the breaker has opened.
func (b *Breaker) Trips() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.trips
}

func (b *Breaker) tripLocked() {
	b.state = Open
	b.openedAt = b.now()
	b.trips++
}

func (b *Breaker) advanceLocked() {
	if b.state == Open && b.now().Sub(b.openedAt) >= b.cfg.Cooldown {
		b.state = HalfOpen
		b.probes = 0
	}
}

// ─── Store ──────────────────────────────────────────────────────────────────

// Store is a domain.Store whose calls go through a Breaker.
type Store struct {
	inner   domain.Store
	breaker *Breaker
}

// Wrap guards inner with a fresh breaker.
func Wrap(inner domain.Store, cfg Config) *Store {
	return &Store{inner: inner, breaker: NewBreaker(cfg)}
}

// Breaker exposes the breaker for status reporting.
func (s *Store) Breaker() *Breaker { return s.breaker }

func (s *Store) call(op string, fn func() error) error {
	if err := s.breaker.Allow(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	err := fn()
	s.breaker.Record(err)
	return err
}

func (s *Store) Get(key string) (value string, ok bool, err error) {
	err = s.call("get", func() error {
		var e error
		value, ok, e = s.inner.Get(key)
		return e
	})
	return value, ok, err
}

func (s *Store) Set(key, value string) error {
	return s.call("set", func() error { return s.inner.Set(key, value) })
}

func (s *Store) Remove(key string) error {
	return s.call("remove", func() error { return s.inner.Remove(key) })
}

func (s *Store) Keys(prefix string) (keys []string, err error) {
	err = s.call("keys", func() error {
		var e error
		keys, e = s.inner.Keys(prefix)
		return e
	})
	return keys, err
}

// Close closes the wrapped store when it holds resources.
func (s *Store) Close() error {
	if c, ok := s.inner.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
