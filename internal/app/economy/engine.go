package economy

import (
	"fmt"
	"sync"

	"github.com/nursequest/nursequest/internal/app/clinical"
	"github.com/nursequest/nursequest/internal/domain"
)

// ─── Engine ─────────────────────────────────────────────────────────────────

// Config holds the catalogs an Engine runs on. Nil fields use defaults.
type Config struct {
	Missions     []domain.Mission
	Achievements []domain.AchievementDef
	Cards        []domain.Card
	Questions    []domain.Question
	RarityTable  RarityTable
	ToolLimits   map[domain.Tool]int
	Compat       *clinical.CompatTable
}

// Engine is the single entry point for user intents. Every public method
// holds one mutex, so a process never interleaves two read-compute-write
// cycles on the same profile.
type Engine struct {
	mu sync.Mutex
	s  *Session

	daily        *CounterLedger
	weekly       *CounterLedger
	xp           *XPLedger
	wallet       *WalletService
	streak       *StreakService
	stats        *StatsService
	missions     *MissionService
	achievements *AchievementService
	collection   *CollectionService
	quiz         *QuizService
	activity     *ActivityService
	tools        *ToolService
	compat       *clinical.CompatTable
}

// NewEngine wires every service over one session.
func NewEngine(s *Session, cfg Config) (*Engine, error) {
	if cfg.Missions == nil {
		cfg.Missions = DefaultMissions()
	}
	if cfg.Compat == nil {
		empty, err := clinical.NewCompatTable(nil)
		if err != nil {
			return nil, err
		}
		cfg.Compat = empty
	}

	e := &Engine{
		s:      s,
		daily:  NewDailyCounters(s),
		weekly: NewWeeklyCounters(s),
		xp:     NewXPLedger(s),
		wallet: NewWalletService(s),
		streak: NewStreakService(s),
		stats:  NewStatsService(s),
		compat: cfg.Compat,
	}
	var err error
	e.missions, err = NewMissionService(s, cfg.Missions, e.daily, e.weekly, e.xp, e.streak, e.wallet)
	if err != nil {
		return nil, fmt.Errorf("missions: %w", err)
	}
	e.collection = NewCollectionService(s, cfg.Cards, cfg.RarityTable, e.wallet, e.daily, e.stats)
	e.achievements = NewAchievementService(s, cfg.Achievements, e.stats, e.xp, e.streak, e.collection, e.wallet)
	e.quiz = NewQuizService(s, cfg.Questions, e.daily, e.weekly, e.xp, e.wallet, e.streak, e.stats)
	e.activity = NewActivityService(s, e.daily, e.stats, e.wallet, e.xp)
	e.tools = NewToolService(s, cfg.ToolLimits, e.daily, e.stats)
	return e, nil
}

// Session returns the engine's session.
func (e *Engine) Session() *Session { return e.s }

// Snapshot assembles everything the UI renders.
func (e *Engine) Snapshot() (domain.Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.s.Now()
	snap := domain.Snapshot{
		ProfileID:       e.s.ProfileID,
		Premium:         e.s.Premium,
		DayKey:          DayKey(now),
		WeekKey:         WeekKey(now),
		MsUntilNextDay:  MsUntilNextDay(now),
		MsUntilNextWeek: MsUntilNextWeek(now),
	}
	var err error
	if snap.TotalXP, err = e.xp.Total(); err != nil {
		return snap, err
	}
	if snap.WeeklyXP, err = e.xp.WeeklyGained(); err != nil {
		return snap, err
	}
	if snap.Level, err = e.xp.Level(); err != nil {
		return snap, err
	}
	if snap.Wallet, err = e.wallet.Balance(); err != nil {
		return snap, err
	}
	if snap.Streak, err = e.streak.Current(); err != nil {
		return snap, err
	}
	if snap.Stats, err = e.stats.Load(); err != nil {
		return snap, err
	}
	if snap.Missions, err = e.missions.List(); err != nil {
		return snap, err
	}
	if snap.Achievements, err = e.achievements.List(); err != nil {
		return snap, err
	}
	if snap.Collection, err = e.collection.Collection(); err != nil {
		return snap, err
	}
	if snap.Tools, err = e.tools.RemainingAll(); err != nil {
		return snap, err
	}
	return snap, nil
}

// Level returns the derived level.
func (e *Engine) Level() (domain.LevelInfo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.xp.Level()
}

// Wallet returns the balances.
func (e *Engine) Wallet() (domain.Wallet, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.wallet.Balance()
}

// ─── Reading / Login ───

// RecordRead counts an article read.
func (e *Engine) RecordRead(articleID string) (ReadOutcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.activity.RecordRead(articleID)
}

// ClaimDailyLogin pays the login bonus.
func (e *Engine) ClaimDailyLogin() (domain.TierReward, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.activity.ClaimDailyLogin()
}

// ─── Quiz ───

// AnswerQuestion grades one answer and updates the adaptive stats.
func (e *Engine) AnswerQuestion(questionID string, selected int) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.quiz.Answer(questionID, selected)
}

// FinishQuiz pays out a finished quiz of the given mode.
func (e *Engine) FinishQuiz(mode domain.QuizMode, correct, total int) (domain.QuizOutcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch mode {
	case domain.QuizDaily:
		return e.quiz.FinishDaily(correct, total)
	case domain.QuizWeekly:
		return e.quiz.FinishWeekly(correct, total)
	case domain.QuizPractice:
		return e.quiz.FinishPractice(correct, total)
	}
	return domain.QuizOutcome{}, fmt.Errorf("%w: quiz mode %q", domain.ErrInvariant, mode)
}

// PickQuestions draws n questions biased toward weak categories.
func (e *Engine) PickQuestions(n int, exclude map[string]bool) ([]domain.Question, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.quiz.Pick(n, exclude)
}

// PickQuestionsByDifficulty draws counts[d] questions per difficulty.
func (e *Engine) PickQuestionsByDifficulty(counts map[domain.Difficulty]int, exclude map[string]bool) ([]domain.Question, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.quiz.PickByDifficulty(counts, exclude)
}

// AdaptiveStats returns the per-category and per-question answer history.
func (e *Engine) AdaptiveStats() (domain.AdaptiveStats, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.quiz.AdaptiveStats()
}

// ClearAdaptiveStats forgets the weakness history.
func (e *Engine) ClearAdaptiveStats() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.quiz.ClearAdaptiveStats()
}

// ─── Missions / Achievements ───

// Missions lists missions with live progress.
func (e *Engine) Missions() ([]domain.MissionStatus, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.missions.List()
}

// ClaimMission claims targetTier of mission id.
func (e *Engine) ClaimMission(id string, targetTier int) (domain.TierReward, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.missions.Claim(id, targetTier)
}

// Achievements lists achievements with done/claimed flags.
func (e *Engine) Achievements() ([]domain.AchievementStatus, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.achievements.List()
}

// ClaimAchievement claims achievement id.
func (e *Engine) ClaimAchievement(id string) (domain.TierReward, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.achievements.Claim(id)
}

// ─── Packs ───

// OpenPack opens one pack from the inventory.
func (e *Engine) OpenPack() (domain.PackOpening, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.collection.Open()
}

// BuyPack spends coins for one pack.
func (e *Engine) BuyPack() (domain.Wallet, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.collection.Buy()
}

// RecycleDuplicates turns every duplicate card into shards.
func (e *Engine) RecycleDuplicates() (domain.RecycleResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.collection.Recycle()
}

// Collection returns owned card counts.
func (e *Engine) Collection() (domain.Collection, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.collection.Collection()
}

// Cards returns the card pool.
func (e *Engine) Cards() []domain.Card {
	return e.collection.Cards()
}

// ─── Clinical Tools ───

// ToolResult wraps a tool's output with the uses left today.
type ToolResult[T any] struct {
	Result    T   `json:"result"`
	Remaining int `json:"remaining"`
}

// UseTool consumes one use of tool.
func (e *Engine) UseTool(tool domain.Tool) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tools.Use(tool)
}

// ToolRemaining returns uses left today for tool.
func (e *Engine) ToolRemaining(tool domain.Tool) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tools.Remaining(tool)
}

// ScoreNEWS2 validates v, consumes a NEWS2 use and scores it. Invalid
// input does not cost a use.
func (e *Engine) ScoreNEWS2(v clinical.Vitals) (ToolResult[clinical.NEWS2Result], error) {
	res, err := clinical.ScoreNEWS2(v)
	if err != nil {
		return ToolResult[clinical.NEWS2Result]{}, err
	}
	left, err := e.UseTool(domain.ToolNEWS2)
	if err != nil {
		return ToolResult[clinical.NEWS2Result]{}, err
	}
	return ToolResult[clinical.NEWS2Result]{Result: res, Remaining: left}, nil
}

// ScoreGCS validates in, consumes a GCS use and scores it.
func (e *Engine) ScoreGCS(in clinical.GCSInput) (ToolResult[clinical.GCSResult], error) {
	res, err := clinical.ScoreGCS(in)
	if err != nil {
		return ToolResult[clinical.GCSResult]{}, err
	}
	left, err := e.UseTool(domain.ToolGCS)
	if err != nil {
		return ToolResult[clinical.GCSResult]{}, err
	}
	return ToolResult[clinical.GCSResult]{Result: res, Remaining: left}, nil
}

// CheckCompat looks up a drug pair and consumes a compat use.
func (e *Engine) CheckCompat(a, b string) (ToolResult[clinical.CompatResult], error) {
	res, err := e.compat.Lookup(a, b)
	if err != nil {
		return ToolResult[clinical.CompatResult]{}, err
	}
	left, err := e.UseTool(domain.ToolCompat)
	if err != nil {
		return ToolResult[clinical.CompatResult]{}, err
	}
	return ToolResult[clinical.CompatResult]{Result: res, Remaining: left}, nil
}

// Drugs lists the drugs known to the compatibility table.
func (e *Engine) Drugs() []string {
	return e.compat.Drugs()
}

// ─── Backup ───

// Export serializes the profile namespace.
func (e *Engine) Export() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return SerializeAll(e.s)
}

// Import replaces the profile namespace with blob.
func (e *Engine) Import(blob string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return RestoreAll(e.s, blob)
}
