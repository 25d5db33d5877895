// Package redisstore is a domain.Store backed by Redis, for deployments
// where several app instances share one profile namespace.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store wraps a go-redis client. Keys are used verbatim; namespacing is
// applied by the economy session.
type Store struct {
	rdb     *redis.Client
	timeout time.Duration
}

// Options configures the connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	Timeout  time.Duration
}

// Open connects and pings the server.
func Open(opts Options) (*Store, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 2 * time.Second
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	s := &Store{rdb: rdb, timeout: opts.Timeout}

	ctx, cancel := s.ctx()
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", opts.Addr, err)
	}
	return s, nil
}

// NewWithClient wraps an existing client.
func NewWithClient(rdb *redis.Client) *Store {
	return &Store{rdb: rdb, timeout: 2 * time.Second}
}

func (s *Store) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}

// Close releases the client.
func (s *Store) Close() error {
	return s.rdb.Close()
}

func (s *Store) Get(key string) (string, bool, error) {
	ctx, cancel := s.ctx()
	defer cancel()
	v, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *Store) Set(key, value string) error {
	ctx, cancel := s.ctx()
	defer cancel()
	return s.rdb.Set(ctx, key, value, 0).Err()
}

func (s *Store) Remove(key string) error {
	ctx, cancel := s.ctx()
	defer cancel()
	return s.rdb.Del(ctx, key).Err()
}

// Keys walks the keyspace with SCAN (never KEYS) and returns sorted matches.
func (s *Store) Keys(prefix string) ([]string, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	var keys []string
	iter := s.rdb.Scan(ctx, 0, escapeGlob(prefix)+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

// escapeGlob quotes the glob metacharacters Redis MATCH understands.
func escapeGlob(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '*', '?', '[', ']', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
