package economy

import (
	"github.com/nursequest/nursequest/internal/domain"
)

// StreakService tracks consecutive days with a completed daily quiz.
//
// Rule: completing on day D extends the streak when the previous
// completion was D-1, leaves it unchanged when it was D, and restarts it
// at 1 otherwise.
type StreakService struct {
	s *Session
}

// NewStreakService creates a streak service.
func NewStreakService(s *Session) *StreakService {
	return &StreakService{s: s}
}

// Stored returns the persisted streak as-is.
func (st *StreakService) Stored() (domain.Streak, error) {
	return load(st.s, "streak", domain.Streak{})
}

// Current returns the streak as it stands now: a streak whose last
// completion is older than yesterday has lapsed and reads as 0 days.
func (st *StreakService) Current() (domain.Streak, error) {
	streak, err := st.Stored()
	if err != nil {
		return streak, err
	}
	now := st.s.Now()
	if streak.LastDay != DayKey(now) && streak.LastDay != PrevDayKey(now) {
		streak.Days = 0
	}
	return streak, nil
}

// RecordCompletion applies the rule for today and returns the new streak.
func (st *StreakService) RecordCompletion() (domain.Streak, error) {
	streak, err := st.Stored()
	if err != nil {
		return streak, err
	}
	now := st.s.Now()
	today := DayKey(now)

	switch streak.LastDay {
	case today:
		return streak, nil
	case PrevDayKey(now):
		streak.Days++
	default:
		streak.Days = 1
	}
	streak.LastDay = today
	if streak.Days > streak.Best {
		streak.Best = streak.Days
	}
	if err := save(st.s, "streak", streak); err != nil {
		return streak, err
	}
	st.s.Log.Debug("streak recorded", "days", streak.Days, "best", streak.Best)
	return streak, nil
}
