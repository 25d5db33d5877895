package economy

import (
	"github.com/nursequest/nursequest/internal/domain"
)

// StatsService holds lifetime counters used by achievements.
type StatsService struct {
	s *Session
}

// NewStatsService creates a stats service.
func NewStatsService(s *Session) *StatsService {
	return &StatsService{s: s}
}

// Load returns the lifetime stats.
func (st *StatsService) Load() (domain.LifetimeStats, error) {
	return load(st.s, "stats", domain.LifetimeStats{})
}

// Update applies fn and writes the full record back.
func (st *StatsService) Update(fn func(*domain.LifetimeStats)) (domain.LifetimeStats, error) {
	stats, err := st.Load()
	if err != nil {
		return stats, err
	}
	fn(&stats)
	return stats, save(st.s, "stats", stats)
}
