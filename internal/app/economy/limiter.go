package economy

import (
	"fmt"

	"github.com/nursequest/nursequest/internal/domain"
	"github.com/nursequest/nursequest/internal/infra/metrics"
)

// Unlimited is what Remaining reports under premium. It is negative so it
// can never be mistaken for a count, and it survives JSON intact.
const Unlimited = -1

// usageDoc is the stored record of a limited feature.
type usageDoc struct {
	DayKey string `json:"dayKey"`
	Used   int    `json:"used"`
}

// UsageLimiter grants limit free uses per day, unlimited under premium.
//
// CanUse and Consume are separate calls: checking before acting is the
// caller's job. Within one process the Engine serializes them; two
// processes sharing a store may race, last write wins.
type UsageLimiter struct {
	s       *Session
	feature string
	limit   int
}

// NewUsageLimiter creates a limiter stored under "limit:{feature}".
func NewUsageLimiter(s *Session, feature string, limit int) *UsageLimiter {
	if limit < 0 {
		limit = 0
	}
	return &UsageLimiter{s: s, feature: feature, limit: limit}
}

func (l *UsageLimiter) storeKey() string {
	return "limit:" + l.feature
}

// Limit returns the configured daily allowance.
func (l *UsageLimiter) Limit() int { return l.limit }

// Used returns today's usage (0 when the record is from another day).
func (l *UsageLimiter) Used() (int, error) {
	doc, err := load(l.s, l.storeKey(), usageDoc{})
	if err != nil {
		return 0, err
	}
	if doc.DayKey != l.s.DayKey() || doc.Used < 0 {
		return 0, nil
	}
	return doc.Used, nil
}

// CanUse reports whether one more use is allowed today.
func (l *UsageLimiter) CanUse() (bool, error) {
	if l.s.Premium {
		return true, nil
	}
	used, err := l.Used()
	if err != nil {
		return false, err
	}
	return used < l.limit, nil
}

// Remaining returns uses left today, or Unlimited under premium.
func (l *UsageLimiter) Remaining() (int, error) {
	if l.s.Premium {
		return Unlimited, nil
	}
	used, err := l.Used()
	if err != nil {
		return 0, err
	}
	if rem := l.limit - used; rem > 0 {
		return rem, nil
	}
	return 0, nil
}

// Consume records one use. It is a no-op under premium and refuses with
// ErrLimitExceeded once the allowance is spent, so Used never exceeds limit.
func (l *UsageLimiter) Consume() error {
	if l.s.Premium {
		return nil
	}
	used, err := l.Used()
	if err != nil {
		return err
	}
	if used >= l.limit {
		metrics.LimitRejections.WithLabelValues(l.feature).Inc()
		return fmt.Errorf("%w: %s (%d/%d)", domain.ErrLimitExceeded, l.feature, used, l.limit)
	}
	return save(l.s, l.storeKey(), usageDoc{DayKey: l.s.DayKey(), Used: used + 1})
}
