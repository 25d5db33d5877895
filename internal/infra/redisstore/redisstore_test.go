package redisstore

import (
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeGlob(t *testing.T) {
	assert.Equal(t, `nq:a\*b\?:`, escapeGlob("nq:a*b?:"))
	assert.Equal(t, `x\[1\]`, escapeGlob("x[1]"))
	assert.Equal(t, "plain", escapeGlob("plain"))
}

// Runs only when NURSEQUEST_TEST_REDIS points at a disposable server.
func TestStore_Live(t *testing.T) {
	addr := os.Getenv("NURSEQUEST_TEST_REDIS")
	if addr == "" {
		t.Skip("NURSEQUEST_TEST_REDIS not set")
	}
	s, err := Open(Options{Addr: addr})
	require.NoError(t, err)
	defer s.Close()

	prefix := "nqtest:" + uuid.NewString() + ":"
	require.NoError(t, s.Set(prefix+"b", "2"))
	require.NoError(t, s.Set(prefix+"a", "1"))

	v, ok, err := s.Get(prefix + "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	keys, err := s.Keys(prefix)
	require.NoError(t, err)
	assert.Equal(t, []string{prefix + "a", prefix + "b"}, keys)

	for _, k := range keys {
		require.NoError(t, s.Remove(k))
	}
	_, ok, err = s.Get(prefix + "a")
	require.NoError(t, err)
	assert.False(t, ok)
}
