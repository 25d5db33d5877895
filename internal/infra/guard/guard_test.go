package guard

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nursequest/nursequest/internal/infra/memstore"
)

var errDown = errors.New("connection refused")

// flakyStore fails every call while down is set.
type flakyStore struct {
	*memstore.Store
	down  bool
	calls int
}

func (f *flakyStore) Set(key, value string) error {
	f.calls++
	if f.down {
		return errDown
	}
	return f.Store.Set(key, value)
}

func (f *flakyStore) Get(key string) (string, bool, error) {
	f.calls++
	if f.down {
		return "", false, errDown
	}
	return f.Store.Get(key)
}

func newGuarded(t *testing.T) (*Store, *flakyStore, *time.Time) {
	t.Helper()
	inner := &flakyStore{Store: memstore.New()}
	s := Wrap(inner, Config{Threshold: 3, Cooldown: time.Second, Probes: 2})
	now := time.Date(2025, 7, 2, 10, 0, 0, 0, time.UTC)
	s.breaker.now = func() time.Time { return now }
	return s, inner, &now
}

// ═══════════════════════════════════════════════════════════════════════════
// Breaker
// ═══════════════════════════════════════════════════════════════════════════

func TestState_String(t *testing.T) {
	assert.Equal(t, "closed", Closed.String())
	assert.Equal(t, "open", Open.String())
	assert.Equal(t, "half-open", HalfOpen.String())
	assert.Equal(t, "unknown", State(9).String())
}

func TestNewBreaker_Defaults(t *testing.T) {
	b := NewBreaker(Config{})
	assert.Equal(t, DefaultConfig(), b.cfg)
	assert.Equal(t, Closed, b.State())
}

func TestBreaker_SuccessResetsFailures(t *testing.T) {
	b := NewBreaker(Config{Threshold: 2})
	b.Record(errDown)
	b.Record(nil)
	b.Record(errDown)
	assert.Equal(t, Closed, b.State())
}

// ═══════════════════════════════════════════════════════════════════════════
// Guarded store
// ═══════════════════════════════════════════════════════════════════════════

func TestStore_PassThrough(t *testing.T) {
	s, _, _ := newGuarded(t)
	require.NoError(t, s.Set("nq:p:wallet", `{"coins":1}`))
	v, ok, err := s.Get("nq:p:wallet")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"coins":1}`, v)

	keys, err := s.Keys("nq:p:")
	require.NoError(t, err)
	assert.Equal(t, []string{"nq:p:wallet"}, keys)

	require.NoError(t, s.Remove("nq:p:wallet"))
	require.NoError(t, s.Close())
}

func TestStore_OpensAndFailsFast(t *testing.T) {
	s, inner, _ := newGuarded(t)
	inner.down = true

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, s.Set("k", "v"), errDown)
	}
	assert.Equal(t, Open, s.Breaker().State())
	assert.Equal(t, 1, s.Breaker().Trips())

	calls := inner.calls
	_, _, err := s.Get("k")
	assert.ErrorIs(t, err, ErrOpen)
	assert.Equal(t, calls, inner.calls, "open breaker must not reach the backend")
}

func TestStore_HalfOpenRecovery(t *testing.T) {
	s, inner, now := newGuarded(t)
	inner.down = true
	for i := 0; i < 3; i++ {
		_ = s.Set("k", "v")
	}

	*now = now.Add(time.Second)
	assert.Equal(t, HalfOpen, s.Breaker().State())

	inner.down = false
	require.NoError(t, s.Set("k", "v"))
	assert.Equal(t, HalfOpen, s.Breaker().State())
	require.NoError(t, s.Set("k", "v"))
	assert.Equal(t, Closed, s.Breaker().State())
}

func TestStore_HalfOpenFailureReopens(t *testing.T) {
	s, inner, now := newGuarded(t)
	inner.down = true
	for i := 0; i < 3; i++ {
		_ = s.Set("k", "v")
	}
	*now = now.Add(time.Second)

	assert.ErrorIs(t, s.Set("k", "v"), errDown)
	assert.Equal(t, Open, s.Breaker().State())
	assert.Equal(t, 2, s.Breaker().Trips())
}
