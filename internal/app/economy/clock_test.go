package economy_test

import (
	"testing"
	"time"

	"github.com/nursequest/nursequest/internal/app/economy"
)

func TestDayKey(t *testing.T) {
	got := economy.DayKey(time.Date(2025, 1, 5, 23, 59, 0, 0, time.UTC))
	if got != "2025-01-05" {
		t.Errorf("DayKey = %q", got)
	}
}

func TestWeekKey_ISO(t *testing.T) {
	tests := []struct {
		day  time.Time
		want string
	}{
		{time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC), "2025-W27"},
		// Monday 2024-12-30 belongs to 2025-W01 (week of the first Thursday).
		{time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC), "2025-W01"},
		// Friday 2021-01-01 belongs to the last week of 2020.
		{time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), "2020-W53"},
		{time.Date(2026, 1, 4, 0, 0, 0, 0, time.UTC), "2026-W01"},
	}
	for _, tt := range tests {
		if got := economy.WeekKey(tt.day); got != tt.want {
			t.Errorf("WeekKey(%s) = %q, want %q", tt.day.Format("2006-01-02"), got, tt.want)
		}
	}
}

func TestPrevDayKey_MonthBoundary(t *testing.T) {
	if got := economy.PrevDayKey(time.Date(2025, 3, 1, 0, 30, 0, 0, time.UTC)); got != "2025-02-28" {
		t.Errorf("PrevDayKey = %q", got)
	}
}

func TestMsUntilNextDay(t *testing.T) {
	now := time.Date(2025, 7, 2, 23, 0, 0, 0, time.UTC)
	if got := economy.MsUntilNextDay(now); got != int64(time.Hour/time.Millisecond) {
		t.Errorf("MsUntilNextDay = %d", got)
	}
}

func TestMsUntilNextWeek(t *testing.T) {
	// Sunday 22:00 → Monday 00:00 is two hours.
	sunday := time.Date(2025, 7, 6, 22, 0, 0, 0, time.UTC)
	if got := economy.MsUntilNextWeek(sunday); got != int64(2*time.Hour/time.Millisecond) {
		t.Errorf("MsUntilNextWeek(sunday) = %d", got)
	}
	// Monday 00:00 counts down a full week.
	monday := time.Date(2025, 7, 7, 0, 0, 0, 0, time.UTC)
	if got := economy.MsUntilNextWeek(monday); got != int64(7*24*time.Hour/time.Millisecond) {
		t.Errorf("MsUntilNextWeek(monday) = %d", got)
	}
}

func TestManualClock(t *testing.T) {
	c := economy.NewManualClock(time.Date(2025, 7, 2, 10, 0, 0, 0, time.UTC))
	c.AddDays(1)
	c.Advance(time.Hour)
	if got := c.Now(); !got.Equal(time.Date(2025, 7, 3, 11, 0, 0, 0, time.UTC)) {
		t.Errorf("Now = %s", got)
	}
}
