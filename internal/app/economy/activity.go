package economy

import (
	"fmt"
	"strings"

	"github.com/nursequest/nursequest/internal/domain"
)

// Reading and login rewards.
const (
	ReadXP       int64 = 5
	LoginCoins   int64 = 25
	LoginPacks   int64 = 1
	flagLogin          = "login"
	readsSeenKey       = "flag:day:reads"
)

// ReadOutcome reports whether a read counted toward today's progress.
type ReadOutcome struct {
	Counted bool  `json:"counted"`
	XP      int64 `json:"xp"`
	Reads   int64 `json:"reads"` // articles counted today
}

// ActivityService rewards article reads and the daily login.
type ActivityService struct {
	s     *Session
	daily *CounterLedger
	stats *StatsService
	pay   payer
}

// NewActivityService creates an activity service.
func NewActivityService(s *Session, daily *CounterLedger, stats *StatsService, wallet *WalletService, xp *XPLedger) *ActivityService {
	return &ActivityService{s: s, daily: daily, stats: stats, pay: payer{wallet: wallet, xp: xp}}
}

// RecordRead counts articleID once per day: +ReadXP and one step on the
// reads counter. Re-reading the same article the same day is a no-op.
// The day's article ids share one document that is replaced whole when the
// day key changes, so the store holds a single key however much is read.
func (a *ActivityService) RecordRead(articleID string) (ReadOutcome, error) {
	articleID = strings.TrimSpace(articleID)
	if articleID == "" {
		return ReadOutcome{}, fmt.Errorf("%w: empty article id", domain.ErrInvariant)
	}
	rec, err := load(a.s, readsSeenKey, Scoped[map[string]bool]{})
	if err != nil {
		return ReadOutcome{}, err
	}
	day := a.s.DayKey()
	seen := rec.ValueFor(day)
	if seen[articleID] {
		n, err := a.daily.Get(CounterReads)
		return ReadOutcome{Reads: n}, err
	}
	if seen == nil {
		seen = make(map[string]bool)
	}
	seen[articleID] = true
	if err := save(a.s, readsSeenKey, Scoped[map[string]bool]{Key: day, Value: seen}); err != nil {
		return ReadOutcome{}, err
	}
	n, err := a.daily.Increment(CounterReads, 1)
	if err != nil {
		return ReadOutcome{}, err
	}
	if _, err := a.stats.Update(func(ls *domain.LifetimeStats) { ls.Reads++ }); err != nil {
		return ReadOutcome{}, err
	}
	if err := a.pay.pay(domain.TierReward{XP: ReadXP}, "read"); err != nil {
		return ReadOutcome{}, err
	}
	return ReadOutcome{Counted: true, XP: ReadXP, Reads: n}, nil
}

// ClaimDailyLogin pays the login bonus once per day key. The flag is set
// before the payout: a failed write afterwards loses the bonus for the day
// but a retry can never pay it twice.
func (a *ActivityService) ClaimDailyLogin() (domain.TierReward, error) {
	done, err := a.daily.GetFlag(flagLogin)
	if err != nil {
		return domain.TierReward{}, err
	}
	if done {
		return domain.TierReward{}, fmt.Errorf("%w: login bonus %s", domain.ErrAlreadyCompleted, a.s.DayKey())
	}
	if err := a.daily.SetFlag(flagLogin, true); err != nil {
		return domain.TierReward{}, err
	}
	reward := domain.TierReward{Coins: LoginCoins, Packs: LoginPacks}
	if err := a.pay.pay(reward, "login"); err != nil {
		return domain.TierReward{}, err
	}
	if _, err := a.stats.Update(func(ls *domain.LifetimeStats) { ls.LoginDays++ }); err != nil {
		return domain.TierReward{}, err
	}
	a.s.Log.Debug("daily login claimed", "day", a.s.DayKey())
	return reward, nil
}
