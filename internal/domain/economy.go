// Package domain holds reward & progression economy types.
// Ledgers, missions, achievements, packs and quiz outcomes shared by the
// engine, the HTTP layer and the CLI.
package domain

import "time"

// ─── Windows ────────────────────────────────────────────────────────────────

// Window is the reset period of a scoped value.
type Window int

const (
	WindowDay Window = iota
	WindowWeek
)

func (w Window) String() string {
	if w == WindowWeek {
		return "week"
	}
	return "day"
}

// ─── Level / XP Types ───────────────────────────────────────────────────────

// LevelInfo is derived from total XP, never stored.
type LevelInfo struct {
	Level     int     `json:"level"`
	Remaining int64   `json:"remaining"` // XP earned inside the current level
	Need      int64   `json:"need"`      // XP the current level requires
	Pct       float64 `json:"pct"`       // Remaining / Need
}

// ─── Wallet / Streak / Stats ────────────────────────────────────────────────

// Wallet holds spendable currencies and the unopened pack inventory.
type Wallet struct {
	Coins  int64 `json:"coins"`
	Shards int64 `json:"shards"` // earned by recycling duplicate cards
	Packs  int64 `json:"packs"`
}

// Streak tracks consecutive days with a completed daily quiz.
type Streak struct {
	Days    int    `json:"days"`
	Best    int    `json:"best"`
	LastDay string `json:"lastDay"` // day key of the last completion
}

// LifetimeStats are append-only counters fed to achievement predicates.
type LifetimeStats struct {
	Reads          int64 `json:"reads"`
	Quizzes        int64 `json:"quizzes"`
	PerfectQuizzes int64 `json:"perfectQuizzes"`
	WeeklyQuizzes  int64 `json:"weeklyQuizzes"`
	CorrectAnswers int64 `json:"correctAnswers"`
	PacksOpened    int64 `json:"packsOpened"`
	CardsRecycled  int64 `json:"cardsRecycled"`
	ToolUses       int64 `json:"toolUses"`
	LoginDays      int64 `json:"loginDays"`
}

// ─── Rewards ────────────────────────────────────────────────────────────────

// TierReward is a payout. Coins are always paid; a zero XP or Packs
// field means the tier pays none of that kind.
type TierReward struct {
	Coins int64 `json:"coins"`
	XP    int64 `json:"xp,omitempty"`
	Packs int64 `json:"packs,omitempty"`
}

// HasXP reports whether the reward carries an XP payout.
func (r TierReward) HasXP() bool { return r.XP > 0 }

// HasPacks reports whether the reward carries a pack payout.
func (r TierReward) HasPacks() bool { return r.Packs > 0 }

// ─── Mission Types ──────────────────────────────────────────────────────────

// Metric names the live value a mission's progress is read from.
type Metric string

const (
	MetricReads         Metric = "reads"
	MetricQuizzes       Metric = "quizzes"
	MetricTools         Metric = "tools"
	MetricPacks         Metric = "packs"
	MetricWeeklyXP      Metric = "weekly_xp"
	MetricWeeklyCorrect Metric = "weekly_correct"
	MetricStreak        Metric = "streak"
)

// Tier is one step of a mission. Requirements must be strictly
// increasing across a mission's tiers.
type Tier struct {
	Requirement int64      `json:"requirement"`
	Reward      TierReward `json:"reward"`
}

// Mission is a tiered objective scoped to a day or week key.
type Mission struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Window Window `json:"-"`
	Metric Metric `json:"metric"`
	Tiers  []Tier `json:"tiers"`
}

// MaxTier is the terminal claimed-tier count.
func (m Mission) MaxTier() int { return len(m.Tiers) }

// MissionStatus is a mission evaluated at the instant of query.
type MissionStatus struct {
	Mission   Mission `json:"mission"`
	Window    string  `json:"window"`
	Scope     string  `json:"scope"`
	Progress  int64   `json:"progress"`
	Claimed   int     `json:"claimed"`
	NextTier  int     `json:"nextTier"` // 0 when maxed
	Next      *Tier   `json:"next,omitempty"`
	Claimable bool    `json:"claimable"`
}

// ─── Achievement Types ──────────────────────────────────────────────────────

// AchievementInput is a snapshot of progression fed to predicates.
type AchievementInput struct {
	Stats         LifetimeStats
	Level         int
	Streak        Streak
	DistinctCards int
	Legendaries   int
}

// AchievementDef defines a one-shot achievement.
type AchievementDef struct {
	ID        string                      `json:"id"`
	Name      string                      `json:"name"`
	Reward    TierReward                  `json:"reward"`
	Predicate func(AchievementInput) bool `json:"-"`
}

// AchievementStatus pairs a definition with its fresh predicate result.
type AchievementStatus struct {
	AchievementDef
	Done    bool `json:"done"`
	Claimed bool `json:"claimed"`
}

// ─── Cards / Packs ──────────────────────────────────────────────────────────

// Rarity is one of the four card tiers.
type Rarity string

const (
	RarityCommon    Rarity = "comune"
	RarityRare      Rarity = "rara"
	RarityEpic      Rarity = "epica"
	RarityLegendary Rarity = "leggendaria"
)

// Rarities lists tiers from most to least frequent.
var Rarities = []Rarity{RarityCommon, RarityRare, RarityEpic, RarityLegendary}

// Valid reports whether r is a known tier.
func (r Rarity) Valid() bool {
	switch r {
	case RarityCommon, RarityRare, RarityEpic, RarityLegendary:
		return true
	}
	return false
}

// Card is a collectible.
type Card struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Rarity Rarity `json:"rarity" yaml:"rarity"`
	Topic  string `json:"topic,omitempty" yaml:"topic"`
}

// Collection maps card id to owned count.
type Collection map[string]int

// PackOpening is the ordered result of opening one pack.
type PackOpening struct {
	ID       string    `json:"id"`
	Cards    []Card    `json:"cards"`
	OpenedAt time.Time `json:"openedAt"`
}

// RecycleResult reports a duplicate conversion.
type RecycleResult struct {
	Cards  int64 `json:"cards"`
	Shards int64 `json:"shards"`
}

// ─── Quiz Types ─────────────────────────────────────────────────────────────

// QuizMode selects the payout rules for a finished quiz.
type QuizMode string

const (
	QuizDaily    QuizMode = "daily"
	QuizWeekly   QuizMode = "weekly"
	QuizPractice QuizMode = "practice"
)

// QuizOutcome is returned to the UI after a quiz is finished.
type QuizOutcome struct {
	Mode      QuizMode  `json:"mode"`
	Correct   int       `json:"correct"`
	Total     int       `json:"total"`
	Perfect   bool      `json:"perfect"`
	Coins     int64     `json:"coins"`
	XP        int64     `json:"xp"`
	Streak    int       `json:"streak"`
	Level     LevelInfo `json:"level"`
	LeveledUp bool      `json:"leveledUp"`
}

// ─── Tools ──────────────────────────────────────────────────────────────────

// Tool identifies a rate-limited clinical utility.
type Tool string

const (
	ToolNEWS2  Tool = "news2"
	ToolGCS    Tool = "gcs"
	ToolCompat Tool = "compat"
)

// ─── Snapshot ───────────────────────────────────────────────────────────────

// Snapshot is everything the UI renders for a profile.
type Snapshot struct {
	ProfileID       string              `json:"profileId"`
	Premium         bool                `json:"premium"`
	DayKey          string              `json:"dayKey"`
	WeekKey         string              `json:"weekKey"`
	MsUntilNextDay  int64               `json:"msUntilNextDay"`
	MsUntilNextWeek int64               `json:"msUntilNextWeek"`
	TotalXP         int64               `json:"totalXp"`
	WeeklyXP        int64               `json:"weeklyXp"`
	Level           LevelInfo           `json:"level"`
	Wallet          Wallet              `json:"wallet"`
	Streak          Streak              `json:"streak"`
	Stats           LifetimeStats       `json:"stats"`
	Missions        []MissionStatus     `json:"missions"`
	Achievements    []AchievementStatus `json:"achievements"`
	Collection      Collection          `json:"collection"`
	Tools           map[Tool]int        `json:"tools"` // free uses left today, -1 = unlimited
}
