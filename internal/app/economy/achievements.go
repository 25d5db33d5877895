package economy

import (
	"fmt"

	"github.com/nursequest/nursequest/internal/domain"
	"github.com/nursequest/nursequest/internal/infra/metrics"
)

// AchievementService resolves one-shot achievements. "Done" is computed
// fresh from lifetime stats; only the claimed flag is stored.
type AchievementService struct {
	s           *Session
	definitions []domain.AchievementDef
	stats       *StatsService
	xp          *XPLedger
	streak      *StreakService
	cards       *CollectionService
	pay         payer
}

// NewAchievementService creates an achievement service with the given
// definitions (DefaultAchievements when nil).
func NewAchievementService(s *Session, defs []domain.AchievementDef, stats *StatsService, xp *XPLedger,
	streak *StreakService, cards *CollectionService, wallet *WalletService) *AchievementService {
	if defs == nil {
		defs = DefaultAchievements()
	}
	return &AchievementService{
		s: s, definitions: defs, stats: stats, xp: xp, streak: streak, cards: cards,
		pay: payer{wallet: wallet, xp: xp},
	}
}

func (a *AchievementService) input() (domain.AchievementInput, error) {
	var in domain.AchievementInput
	var err error
	if in.Stats, err = a.stats.Load(); err != nil {
		return in, err
	}
	lvl, err := a.xp.Level()
	if err != nil {
		return in, err
	}
	in.Level = lvl.Level
	if in.Streak, err = a.streak.Stored(); err != nil {
		return in, err
	}
	coll, err := a.cards.Collection()
	if err != nil {
		return in, err
	}
	for id, n := range coll {
		if n <= 0 {
			continue
		}
		in.DistinctCards++
		if c, ok := a.cards.Card(id); ok && c.Rarity == domain.RarityLegendary {
			in.Legendaries++
		}
	}
	return in, nil
}

func (a *AchievementService) loadClaimed() (map[string]bool, error) {
	claimed, err := load(a.s, "achievements", map[string]bool{})
	if claimed == nil {
		claimed = make(map[string]bool)
	}
	return claimed, err
}

// List returns every achievement with its done and claimed flags.
func (a *AchievementService) List() ([]domain.AchievementStatus, error) {
	in, err := a.input()
	if err != nil {
		return nil, err
	}
	claimed, err := a.loadClaimed()
	if err != nil {
		return nil, err
	}
	out := make([]domain.AchievementStatus, 0, len(a.definitions))
	for _, def := range a.definitions {
		out = append(out, domain.AchievementStatus{
			AchievementDef: def,
			Done:           def.Predicate != nil && def.Predicate(in),
			Claimed:        claimed[def.ID],
		})
	}
	return out, nil
}

// Claim pays out achievement id once, provided its predicate holds now.
func (a *AchievementService) Claim(id string) (domain.TierReward, error) {
	var def *domain.AchievementDef
	for i := range a.definitions {
		if a.definitions[i].ID == id {
			def = &a.definitions[i]
			break
		}
	}
	if def == nil {
		return domain.TierReward{}, fmt.Errorf("%w: %s", domain.ErrUnknownAchievement, id)
	}

	claimed, err := a.loadClaimed()
	if err != nil {
		return domain.TierReward{}, err
	}
	if claimed[id] {
		metrics.Claims.WithLabelValues("achievement", "maxed").Inc()
		return domain.TierReward{}, fmt.Errorf("%w: %s", domain.ErrAlreadyClaimed, id)
	}
	in, err := a.input()
	if err != nil {
		return domain.TierReward{}, err
	}
	if def.Predicate == nil || !def.Predicate(in) {
		metrics.Claims.WithLabelValues("achievement", "not_ready").Inc()
		return domain.TierReward{}, fmt.Errorf("%w: %s", domain.ErrRequirementNotMet, id)
	}

	claimed[id] = true
	if err := save(a.s, "achievements", claimed); err != nil {
		return domain.TierReward{}, err
	}
	if err := a.pay.pay(def.Reward, "achievement"); err != nil {
		return domain.TierReward{}, err
	}
	metrics.Claims.WithLabelValues("achievement", "ok").Inc()
	a.s.Log.Debug("achievement claimed", "achievement", id)
	return def.Reward, nil
}

// ─── Achievement Definitions ────────────────────────────────────────────────

// DefaultAchievements returns the full achievement catalog.
func DefaultAchievements() []domain.AchievementDef {
	return []domain.AchievementDef{
		// Quiz
		{
			ID: "first_quiz", Name: "Primo quiz", Reward: domain.TierReward{Coins: 20, XP: 20},
			Predicate: func(in domain.AchievementInput) bool { return in.Stats.Quizzes >= 1 },
		},
		{
			ID: "quiz_10", Name: "Studente costante", Reward: domain.TierReward{Coins: 60, XP: 50},
			Predicate: func(in domain.AchievementInput) bool { return in.Stats.Quizzes >= 10 },
		},
		{
			ID: "perfect_1", Name: "Perfezione", Reward: domain.TierReward{Coins: 40, XP: 30},
			Predicate: func(in domain.AchievementInput) bool { return in.Stats.PerfectQuizzes >= 1 },
		},
		{
			ID: "perfect_5", Name: "Infallibile", Reward: domain.TierReward{Coins: 120, XP: 80, Packs: 1},
			Predicate: func(in domain.AchievementInput) bool { return in.Stats.PerfectQuizzes >= 5 },
		},

		// Streaks
		{
			ID: "streak_3", Name: "Tre di fila", Reward: domain.TierReward{Coins: 30},
			Predicate: func(in domain.AchievementInput) bool { return in.Streak.Best >= 3 },
		},
		{
			ID: "streak_7", Name: "Settimana piena", Reward: domain.TierReward{Coins: 80, XP: 50, Packs: 1},
			Predicate: func(in domain.AchievementInput) bool { return in.Streak.Best >= 7 },
		},
		{
			ID: "streak_30", Name: "Turno lungo", Reward: domain.TierReward{Coins: 300, XP: 200, Packs: 3},
			Predicate: func(in domain.AchievementInput) bool { return in.Streak.Best >= 30 },
		},

		// Collection
		{
			ID: "first_pack", Name: "Prima bustina", Reward: domain.TierReward{Coins: 15},
			Predicate: func(in domain.AchievementInput) bool { return in.Stats.PacksOpened >= 1 },
		},
		{
			ID: "packs_10", Name: "Collezionista", Reward: domain.TierReward{Coins: 80, Packs: 1},
			Predicate: func(in domain.AchievementInput) bool { return in.Stats.PacksOpened >= 10 },
		},
		{
			ID: "cards_10", Name: "Album avviato", Reward: domain.TierReward{Coins: 60, XP: 30},
			Predicate: func(in domain.AchievementInput) bool { return in.DistinctCards >= 10 },
		},
		{
			ID: "legendary", Name: "Leggenda in corsia", Reward: domain.TierReward{Coins: 200, XP: 100},
			Predicate: func(in domain.AchievementInput) bool { return in.Legendaries >= 1 },
		},

		// Reading / tools / level
		{
			ID: "reads_50", Name: "Lettore accanito", Reward: domain.TierReward{Coins: 100, XP: 60},
			Predicate: func(in domain.AchievementInput) bool { return in.Stats.Reads >= 50 },
		},
		{
			ID: "tools_25", Name: "Clinico pratico", Reward: domain.TierReward{Coins: 80, XP: 40},
			Predicate: func(in domain.AchievementInput) bool { return in.Stats.ToolUses >= 25 },
		},
		{
			ID: "level_5", Name: "In crescita", Reward: domain.TierReward{Coins: 50},
			Predicate: func(in domain.AchievementInput) bool { return in.Level >= 5 },
		},
		{
			ID: "level_10", Name: "Veterano", Reward: domain.TierReward{Coins: 150, Packs: 2},
			Predicate: func(in domain.AchievementInput) bool { return in.Level >= 10 },
		},
	}
}
