package domain

import "time"

// Store is the key-value contract every ledger persists through.
// Values are opaque strings (one JSON document per key). Get reports
// ok=false for a missing key.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
	// Keys lists every key starting with prefix.
	Keys(prefix string) ([]string, error)
}

// Clock supplies wall-clock time. Injected so window boundaries are testable.
type Clock interface {
	Now() time.Time
}

// RNG is a uniform [0,1) source. *math/rand.Rand satisfies it.
type RNG interface {
	Float64() float64
}
