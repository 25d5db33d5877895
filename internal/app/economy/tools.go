package economy

import (
	"fmt"

	"github.com/nursequest/nursequest/internal/domain"
)

// DefaultToolLimits are the free daily uses per clinical tool.
func DefaultToolLimits() map[domain.Tool]int {
	return map[domain.Tool]int{
		domain.ToolNEWS2:  5,
		domain.ToolGCS:    5,
		domain.ToolCompat: 10,
	}
}

// ToolService gates the clinical tools behind per-tool usage limiters and
// feeds successful uses to the tools mission.
type ToolService struct {
	limiters map[domain.Tool]*UsageLimiter
	daily    *CounterLedger
	stats    *StatsService
}

// NewToolService creates a limiter per tool.
func NewToolService(s *Session, limits map[domain.Tool]int, daily *CounterLedger, stats *StatsService) *ToolService {
	if limits == nil {
		limits = DefaultToolLimits()
	}
	ls := make(map[domain.Tool]*UsageLimiter, len(limits))
	for tool, n := range limits {
		ls[tool] = NewUsageLimiter(s, string(tool), n)
	}
	return &ToolService{limiters: ls, daily: daily, stats: stats}
}

func (t *ToolService) limiter(tool domain.Tool) (*UsageLimiter, error) {
	l, ok := t.limiters[tool]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownTool, tool)
	}
	return l, nil
}

// Remaining returns free uses left today for tool.
func (t *ToolService) Remaining(tool domain.Tool) (int, error) {
	l, err := t.limiter(tool)
	if err != nil {
		return 0, err
	}
	return l.Remaining()
}

// RemainingAll returns Remaining for every configured tool.
func (t *ToolService) RemainingAll() (map[domain.Tool]int, error) {
	out := make(map[domain.Tool]int, len(t.limiters))
	for tool, l := range t.limiters {
		n, err := l.Remaining()
		if err != nil {
			return nil, err
		}
		out[tool] = n
	}
	return out, nil
}

// Use consumes one use of tool and returns what is left.
func (t *ToolService) Use(tool domain.Tool) (int, error) {
	l, err := t.limiter(tool)
	if err != nil {
		return 0, err
	}
	if err := l.Consume(); err != nil {
		return 0, err
	}
	if _, err := t.daily.Increment(CounterTools, 1); err != nil {
		return 0, err
	}
	if _, err := t.stats.Update(func(ls *domain.LifetimeStats) { ls.ToolUses++ }); err != nil {
		return 0, err
	}
	return l.Remaining()
}
