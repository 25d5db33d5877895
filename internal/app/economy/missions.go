package economy

import (
	"fmt"
	"strings"

	"github.com/nursequest/nursequest/internal/domain"
	"github.com/nursequest/nursequest/internal/infra/metrics"
)

// ─── Mission Catalog ────────────────────────────────────────────────────────

// DefaultMissions is the canonical mission table.
func DefaultMissions() []domain.Mission {
	return []domain.Mission{
		// Daily
		{
			ID: "read", Title: "Leggi articoli", Window: domain.WindowDay, Metric: domain.MetricReads,
			Tiers: []domain.Tier{
				{Requirement: 1, Reward: domain.TierReward{Coins: 10, XP: 10}},
				{Requirement: 3, Reward: domain.TierReward{Coins: 20, XP: 15}},
				{Requirement: 5, Reward: domain.TierReward{Coins: 30, XP: 25, Packs: 1}},
			},
		},
		{
			ID: "quiz", Title: "Completa quiz", Window: domain.WindowDay, Metric: domain.MetricQuizzes,
			Tiers: []domain.Tier{
				{Requirement: 1, Reward: domain.TierReward{Coins: 15, XP: 10}},
				{Requirement: 2, Reward: domain.TierReward{Coins: 25}},
				{Requirement: 3, Reward: domain.TierReward{Coins: 35, XP: 30, Packs: 1}},
			},
		},
		{
			ID: "tools", Title: "Usa strumenti clinici", Window: domain.WindowDay, Metric: domain.MetricTools,
			Tiers: []domain.Tier{
				{Requirement: 1, Reward: domain.TierReward{Coins: 10}},
				{Requirement: 3, Reward: domain.TierReward{Coins: 20, XP: 10}},
				{Requirement: 5, Reward: domain.TierReward{Coins: 30, XP: 20}},
			},
		},
		{
			ID: "packs", Title: "Apri bustine", Window: domain.WindowDay, Metric: domain.MetricPacks,
			Tiers: []domain.Tier{
				{Requirement: 1, Reward: domain.TierReward{Coins: 10}},
				{Requirement: 2, Reward: domain.TierReward{Coins: 15}},
				{Requirement: 3, Reward: domain.TierReward{Coins: 25, XP: 15}},
			},
		},

		// Weekly
		{
			ID: "xp_week", Title: "Guadagna XP", Window: domain.WindowWeek, Metric: domain.MetricWeeklyXP,
			Tiers: []domain.Tier{
				{Requirement: 300, Reward: domain.TierReward{Coins: 50}},
				{Requirement: 800, Reward: domain.TierReward{Coins: 100, Packs: 1}},
				{Requirement: 1500, Reward: domain.TierReward{Coins: 150, Packs: 1}},
				{Requirement: 2500, Reward: domain.TierReward{Coins: 250, Packs: 2}},
			},
		},
		{
			ID: "weekly_quiz", Title: "Risposte corrette nel quiz settimanale", Window: domain.WindowWeek, Metric: domain.MetricWeeklyCorrect,
			Tiers: []domain.Tier{
				{Requirement: 6, Reward: domain.TierReward{Coins: 40, XP: 20}},
				{Requirement: 9, Reward: domain.TierReward{Coins: 60, XP: 40}},
				{Requirement: 12, Reward: domain.TierReward{Coins: 100, XP: 60, Packs: 1}},
			},
		},
		{
			ID: "streak", Title: "Serie di quiz giornalieri", Window: domain.WindowWeek, Metric: domain.MetricStreak,
			Tiers: []domain.Tier{
				{Requirement: 3, Reward: domain.TierReward{Coins: 30}},
				{Requirement: 5, Reward: domain.TierReward{Coins: 60, XP: 30}},
				{Requirement: 7, Reward: domain.TierReward{Coins: 100, XP: 60, Packs: 1}},
			},
		},
	}
}

// ValidateMissions checks ids are unique and tier requirements are
// positive and strictly increasing.
func ValidateMissions(missions []domain.Mission) error {
	seen := make(map[string]bool, len(missions))
	for _, m := range missions {
		if m.ID == "" || strings.Contains(m.ID, ":") {
			return fmt.Errorf("%w: mission id %q", domain.ErrInvariant, m.ID)
		}
		if seen[m.ID] {
			return fmt.Errorf("%w: duplicate mission %q", domain.ErrInvariant, m.ID)
		}
		seen[m.ID] = true
		if len(m.Tiers) == 0 {
			return fmt.Errorf("%w: mission %q has no tiers", domain.ErrInvariant, m.ID)
		}
		var prev int64
		for i, t := range m.Tiers {
			if t.Requirement <= prev {
				return fmt.Errorf("%w: mission %q tier %d requirement %d not above %d",
					domain.ErrInvariant, m.ID, i+1, t.Requirement, prev)
			}
			if t.Reward.Coins < 0 || t.Reward.XP < 0 || t.Reward.Packs < 0 {
				return fmt.Errorf("%w: mission %q tier %d has a negative payout", domain.ErrInvariant, m.ID, i+1)
			}
			prev = t.Requirement
		}
	}
	return nil
}

// ─── Reward Tier Engine ─────────────────────────────────────────────────────

// MissionService resolves tiered mission claims. Claimed tiers are kept
// per "{scope}:{missionId}" where scope is the day or week key; progress
// is always read live from the ledgers.
type MissionService struct {
	s        *Session
	missions []domain.Mission
	byID     map[string]domain.Mission
	daily    *CounterLedger
	weekly   *CounterLedger
	xp       *XPLedger
	streak   *StreakService
	pay      payer
}

// NewMissionService creates a mission service over a validated catalog.
func NewMissionService(s *Session, missions []domain.Mission, daily, weekly *CounterLedger,
	xp *XPLedger, streak *StreakService, wallet *WalletService) (*MissionService, error) {
	if err := ValidateMissions(missions); err != nil {
		return nil, err
	}
	byID := make(map[string]domain.Mission, len(missions))
	for _, m := range missions {
		byID[m.ID] = m
	}
	return &MissionService{
		s: s, missions: missions, byID: byID,
		daily: daily, weekly: weekly, xp: xp, streak: streak,
		pay: payer{wallet: wallet, xp: xp},
	}, nil
}

func (m *MissionService) loadClaims() (map[string]int, error) {
	claims, err := load(m.s, "missions", map[string]int{})
	if claims == nil {
		claims = make(map[string]int)
	}
	return claims, err
}

// progress reads the mission's live value.
func (m *MissionService) progress(mission domain.Mission) (int64, error) {
	switch mission.Metric {
	case domain.MetricReads:
		return m.daily.Get(CounterReads)
	case domain.MetricQuizzes:
		return m.daily.Get(CounterQuizzes)
	case domain.MetricTools:
		return m.daily.Get(CounterTools)
	case domain.MetricPacks:
		return m.daily.Get(CounterPacks)
	case domain.MetricWeeklyXP:
		return m.xp.WeeklyGained()
	case domain.MetricWeeklyCorrect:
		return m.weekly.Get(CounterWeeklyCorrect)
	case domain.MetricStreak:
		st, err := m.streak.Current()
		return int64(st.Days), err
	}
	return 0, fmt.Errorf("%w: unknown metric %q", domain.ErrInvariant, mission.Metric)
}

func (m *MissionService) status(mission domain.Mission, claims map[string]int) (domain.MissionStatus, error) {
	scope := m.s.scopeKey(mission.Window)
	progress, err := m.progress(mission)
	if err != nil {
		return domain.MissionStatus{}, err
	}
	st := domain.MissionStatus{
		Mission:  mission,
		Window:   mission.Window.String(),
		Scope:    scope,
		Progress: progress,
		Claimed:  claims[scope+":"+mission.ID],
	}
	if st.Claimed < mission.MaxTier() {
		next := mission.Tiers[st.Claimed]
		st.NextTier = st.Claimed + 1
		st.Next = &next
		st.Claimable = progress >= next.Requirement
	}
	return st, nil
}

// List evaluates every mission at the instant of query.
func (m *MissionService) List() ([]domain.MissionStatus, error) {
	claims, err := m.loadClaims()
	if err != nil {
		return nil, err
	}
	out := make([]domain.MissionStatus, 0, len(m.missions))
	for _, mission := range m.missions {
		st, err := m.status(mission, claims)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, nil
}

// Status evaluates one mission.
func (m *MissionService) Status(id string) (domain.MissionStatus, error) {
	mission, ok := m.byID[id]
	if !ok {
		return domain.MissionStatus{}, fmt.Errorf("%w: %s", domain.ErrUnknownMission, id)
	}
	claims, err := m.loadClaims()
	if err != nil {
		return domain.MissionStatus{}, err
	}
	return m.status(mission, claims)
}

// Claimed returns the highest tier claimed for id in its current scope.
func (m *MissionService) Claimed(id string) (int, error) {
	st, err := m.Status(id)
	return st.Claimed, err
}

// Claim moves mission id to targetTier. Legal only when targetTier is the
// next tier and live progress meets its requirement; anything else is
// rejected before any write. On success the claim is persisted first,
// then the tier's payout is applied.
func (m *MissionService) Claim(id string, targetTier int) (domain.TierReward, error) {
	mission, ok := m.byID[id]
	if !ok {
		return domain.TierReward{}, fmt.Errorf("%w: %s", domain.ErrUnknownMission, id)
	}
	claims, err := m.loadClaims()
	if err != nil {
		return domain.TierReward{}, err
	}
	st, err := m.status(mission, claims)
	if err != nil {
		return domain.TierReward{}, err
	}

	switch {
	case st.Claimed >= mission.MaxTier():
		metrics.Claims.WithLabelValues("mission", "maxed").Inc()
		return domain.TierReward{}, fmt.Errorf("%w: %s already at tier %d", domain.ErrAlreadyClaimed, id, st.Claimed)
	case targetTier != st.Claimed+1:
		metrics.Claims.WithLabelValues("mission", "invalid").Inc()
		return domain.TierReward{}, fmt.Errorf("%w: %s tier %d requested, next is %d", domain.ErrInvalidClaim, id, targetTier, st.Claimed+1)
	case !st.Claimable:
		metrics.Claims.WithLabelValues("mission", "not_ready").Inc()
		return domain.TierReward{}, fmt.Errorf("%w: %s progress %d of %d", domain.ErrRequirementNotMet, id, st.Progress, st.Next.Requirement)
	}

	// Drop claims from windows that have rolled over.
	day, week := m.s.DayKey(), m.s.WeekKey()
	for k := range claims {
		if !strings.HasPrefix(k, day+":") && !strings.HasPrefix(k, week+":") {
			delete(claims, k)
		}
	}
	claims[st.Scope+":"+id] = targetTier
	if err := save(m.s, "missions", claims); err != nil {
		return domain.TierReward{}, err
	}

	reward := mission.Tiers[targetTier-1].Reward
	if err := m.pay.pay(reward, "mission"); err != nil {
		return domain.TierReward{}, err
	}
	metrics.Claims.WithLabelValues("mission", "ok").Inc()
	m.s.Log.Debug("mission claimed", "mission", id, "scope", st.Scope, "tier", targetTier, "coins", reward.Coins)
	return reward, nil
}
