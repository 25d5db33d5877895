// Package health runs periodic liveness checks against the profile store
// and the data directory. Results are served by /health.
package health

import (
	"context"
	"fmt"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/nursequest/nursequest/internal/domain"
)

// probeKey sits outside every profile prefix so backups never see it.
const probeKey = "nq-health:probe"

// Check is one named probe. RecoverFn is optional.
type Check struct {
	Name      string
	CheckFn   func(ctx context.Context) error
	RecoverFn func(ctx context.Context) error
}

// Status is the outcome of one probe.
type Status struct {
	Name      string    `json:"name"`
	Healthy   bool      `json:"healthy"`
	Error     string    `json:"error,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
	Latency   string    `json:"latency"`
}

// Checker holds the probes and their latest results.
type Checker struct {
	mu       sync.RWMutex
	checks   []Check
	statuses []Status
	interval time.Duration
}

// NewChecker creates a checker for the store round-trip and the data dir.
// dataDir may be empty for backends that keep nothing on disk.
func NewChecker(store domain.Store, dataDir string) *Checker {
	c := &Checker{
		interval: 60 * time.Second,
		checks: []Check{
			{
				Name: "store",
				CheckFn: func(ctx context.Context) error {
					return checkStore(store)
				},
				RecoverFn: func(ctx context.Context) error {
					return store.Remove(probeKey)
				},
			},
		},
	}
	if dataDir != "" {
		c.checks = append(c.checks, Check{
			Name: "data_dir",
			CheckFn: func(ctx context.Context) error {
				return checkDataDir(dataDir)
			},
		})
	}
	return c
}

// Run checks immediately and then on every interval until ctx ends.
func (c *Checker) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		c.RunOnce(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RunOnce executes every check and records the results. A failed check
// gets its RecoverFn called once; the failure is still reported.
func (c *Checker) RunOnce(ctx context.Context) {
	statuses := make([]Status, 0, len(c.checks))
	for _, check := range c.checks {
		started := time.Now()
		err := check.CheckFn(ctx)
		st := Status{
			Name:      check.Name,
			Healthy:   err == nil,
			CheckedAt: started,
			Latency:   time.Since(started).String(),
		}
		if err != nil {
			st.Error = err.Error()
			if check.RecoverFn != nil {
				_ = check.RecoverFn(ctx)
			}
		}
		statuses = append(statuses, st)
	}

	c.mu.Lock()
	c.statuses = statuses
	c.mu.Unlock()
}

// Statuses returns a copy of the latest results.
func (c *Checker) Statuses() []Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.statuses)
}

// IsHealthy reports whether the last run passed. Vacuously true before
// the first run.
func (c *Checker) IsHealthy() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !slices.ContainsFunc(c.statuses, func(s Status) bool { return !s.Healthy })
}

// ─── Check Implementations ──────────────────────────────────────────────────

func checkStore(store domain.Store) error {
	stamp := time.Now().UTC().Format(time.RFC3339Nano)
	if err := store.Set(probeKey, stamp); err != nil {
		return fmt.Errorf("store write: %w", err)
	}
	got, ok, err := store.Get(probeKey)
	if err != nil {
		return fmt.Errorf("store read: %w", err)
	}
	if !ok || got != stamp {
		return fmt.Errorf("store read: probe mismatch")
	}
	return store.Remove(probeKey)
}

func checkDataDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // created on first write
		}
		return fmt.Errorf("check data dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}
