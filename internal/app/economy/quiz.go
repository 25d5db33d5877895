package economy

import (
	"fmt"

	"github.com/nursequest/nursequest/internal/app/adaptive"
	"github.com/nursequest/nursequest/internal/domain"
	"github.com/nursequest/nursequest/internal/infra/metrics"
)

// ─── Quiz Reward Calculator ─────────────────────────────────────────────────

// DailyReward is the coin payout of a daily quiz:
// 40 + 5/correct + streak bonus (10 per day past the first, max 50) + 20 if perfect.
func DailyReward(correct, total, streak int) int64 {
	bonus := (streak - 1) * 10
	if bonus < 0 {
		bonus = 0
	}
	if bonus > 50 {
		bonus = 50
	}
	reward := 40 + correct*5 + bonus
	if correct == total {
		reward += 20
	}
	return int64(reward)
}

// WeeklyReward is the coin payout of a weekly quiz:
// 150 + 10/correct + 60 if perfect.
func WeeklyReward(correct, total int) int64 {
	reward := 150 + correct*10
	if correct == total {
		reward += 60
	}
	return int64(reward)
}

// QuizXP is the XP for a finished quiz: 20 + 6/correct (8 weekly) + 20 if perfect.
// Practice quizzes use the daily rate.
func QuizXP(mode domain.QuizMode, correct, total int) int64 {
	per := 6
	if mode == domain.QuizWeekly {
		per = 8
	}
	xp := 20 + correct*per
	if correct == total {
		xp += 20
	}
	return int64(xp)
}

// MaxQuizQuestions bounds a quiz's length, keeping every payout formula far
// from integer overflow.
const MaxQuizQuestions = 100

// ValidateScore rejects impossible scores.
func ValidateScore(correct, total int) error {
	if total <= 0 || total > MaxQuizQuestions || correct < 0 || correct > total {
		return fmt.Errorf("%w: score %d/%d", domain.ErrInvariant, correct, total)
	}
	return nil
}

// PracticeXPPerDay is how many practice quizzes a day still award XP.
const PracticeXPPerDay = 3

const (
	flagDailyQuiz    = "quiz_daily"
	flagWeeklyQuiz   = "quiz_weekly"
	counterPractice  = "practice"
	adaptiveStatsKey = "adaptive"
)

// ─── Quiz Service ───────────────────────────────────────────────────────────

// QuizService runs the quiz flows: answering (adaptive stats), picking
// questions, and finishing daily, weekly and practice quizzes.
type QuizService struct {
	s      *Session
	bank   []domain.Question
	byID   map[string]domain.Question
	daily  *CounterLedger
	weekly *CounterLedger
	xp     *XPLedger
	wallet *WalletService
	streak *StreakService
	stats  *StatsService
}

// NewQuizService creates a quiz service over a question bank.
func NewQuizService(s *Session, bank []domain.Question, daily, weekly *CounterLedger, xp *XPLedger,
	wallet *WalletService, streak *StreakService, stats *StatsService) *QuizService {
	byID := make(map[string]domain.Question, len(bank))
	for _, q := range bank {
		byID[q.ID] = q
	}
	return &QuizService{s: s, bank: bank, byID: byID, daily: daily, weekly: weekly,
		xp: xp, wallet: wallet, streak: streak, stats: stats}
}

// Bank returns the question bank.
func (q *QuizService) Bank() []domain.Question {
	return q.bank
}

// AdaptiveStats returns the stored weakness history.
func (q *QuizService) AdaptiveStats() (domain.AdaptiveStats, error) {
	st, err := load(q.s, adaptiveStatsKey, domain.NewAdaptiveStats())
	if st.Categories == nil {
		st.Categories = make(map[string]domain.CategoryStat)
	}
	if st.Questions == nil {
		st.Questions = make(map[string]domain.QuestionStat)
	}
	return st, err
}

// ClearAdaptiveStats drops the weakness history.
func (q *QuizService) ClearAdaptiveStats() error {
	return q.s.Store.Remove(q.s.key(adaptiveStatsKey))
}

// Answer grades a selected option and records it in the adaptive stats.
func (q *QuizService) Answer(questionID string, selected int) (bool, error) {
	question, ok := q.byID[questionID]
	if !ok {
		return false, fmt.Errorf("%w: unknown question %q", domain.ErrInvariant, questionID)
	}
	if selected < 0 || selected >= len(question.Options) {
		return false, fmt.Errorf("%w: option %d out of range for %s", domain.ErrInvariant, selected, questionID)
	}
	correct := selected == question.Answer

	st, err := q.AdaptiveStats()
	if err != nil {
		return false, err
	}
	st = adaptive.Record(st, question, correct, q.s.Now().UnixMilli())
	if err := save(q.s, adaptiveStatsKey, st); err != nil {
		return false, err
	}
	if correct {
		if _, err := q.stats.Update(func(ls *domain.LifetimeStats) { ls.CorrectAnswers++ }); err != nil {
			return false, err
		}
	}
	return correct, nil
}

// Pick selects n questions biased toward weak categories.
func (q *QuizService) Pick(n int, exclude map[string]bool) ([]domain.Question, error) {
	st, err := q.AdaptiveStats()
	if err != nil {
		return nil, err
	}
	return adaptive.Pick(q.bank, st, exclude, n, q.s.Rand), nil
}

// PickByDifficulty selects counts[d] questions per difficulty bucket.
func (q *QuizService) PickByDifficulty(counts map[domain.Difficulty]int, exclude map[string]bool) ([]domain.Question, error) {
	st, err := q.AdaptiveStats()
	if err != nil {
		return nil, err
	}
	return adaptive.PickByDifficulty(q.bank, st, exclude, counts, q.s.Rand), nil
}

// FinishDaily pays out the daily quiz, once per day key.
func (q *QuizService) FinishDaily(correct, total int) (domain.QuizOutcome, error) {
	if err := ValidateScore(correct, total); err != nil {
		return domain.QuizOutcome{}, err
	}
	done, err := q.daily.GetFlag(flagDailyQuiz)
	if err != nil {
		return domain.QuizOutcome{}, err
	}
	if done {
		return domain.QuizOutcome{}, fmt.Errorf("%w: daily quiz %s", domain.ErrAlreadyCompleted, q.s.DayKey())
	}
	// Marked before paying: a write failure below forfeits the payout
	// rather than letting a retry pay twice.
	if err := q.daily.SetFlag(flagDailyQuiz, true); err != nil {
		return domain.QuizOutcome{}, err
	}

	streak, err := q.streak.RecordCompletion()
	if err != nil {
		return domain.QuizOutcome{}, err
	}
	out := domain.QuizOutcome{
		Mode: domain.QuizDaily, Correct: correct, Total: total, Perfect: correct == total,
		Coins:  DailyReward(correct, total, streak.Days),
		XP:     QuizXP(domain.QuizDaily, correct, total),
		Streak: streak.Days,
	}
	return q.settle(out)
}

// FinishWeekly pays out the weekly quiz, once per ISO week.
func (q *QuizService) FinishWeekly(correct, total int) (domain.QuizOutcome, error) {
	if err := ValidateScore(correct, total); err != nil {
		return domain.QuizOutcome{}, err
	}
	done, err := q.weekly.GetFlag(flagWeeklyQuiz)
	if err != nil {
		return domain.QuizOutcome{}, err
	}
	if done {
		return domain.QuizOutcome{}, fmt.Errorf("%w: weekly quiz %s", domain.ErrAlreadyCompleted, q.s.WeekKey())
	}
	if err := q.weekly.SetFlag(flagWeeklyQuiz, true); err != nil {
		return domain.QuizOutcome{}, err
	}
	if _, err := q.weekly.Increment(CounterWeeklyCorrect, int64(correct)); err != nil {
		return domain.QuizOutcome{}, err
	}

	streak, err := q.streak.Current()
	if err != nil {
		return domain.QuizOutcome{}, err
	}
	out := domain.QuizOutcome{
		Mode: domain.QuizWeekly, Correct: correct, Total: total, Perfect: correct == total,
		Coins:  WeeklyReward(correct, total),
		XP:     QuizXP(domain.QuizWeekly, correct, total),
		Streak: streak.Days,
	}
	return q.settle(out)
}

// FinishPractice records an unranked quiz: no coins, and XP only for the
// first PracticeXPPerDay practice quizzes of the day.
func (q *QuizService) FinishPractice(correct, total int) (domain.QuizOutcome, error) {
	if err := ValidateScore(correct, total); err != nil {
		return domain.QuizOutcome{}, err
	}
	n, err := q.daily.Increment(counterPractice, 1)
	if err != nil {
		return domain.QuizOutcome{}, err
	}
	streak, err := q.streak.Current()
	if err != nil {
		return domain.QuizOutcome{}, err
	}
	out := domain.QuizOutcome{
		Mode: domain.QuizPractice, Correct: correct, Total: total, Perfect: correct == total,
		Streak: streak.Days,
	}
	if n <= PracticeXPPerDay {
		out.XP = QuizXP(domain.QuizPractice, correct, total)
	}
	return q.settle(out)
}

// settle applies coins and XP, bumps counters and stats, and fills in the
// level fields of out.
func (q *QuizService) settle(out domain.QuizOutcome) (domain.QuizOutcome, error) {
	before, err := q.xp.Level()
	if err != nil {
		return out, err
	}
	pay := payer{wallet: q.wallet, xp: q.xp}
	if err := pay.pay(domain.TierReward{Coins: out.Coins, XP: out.XP}, "quiz"); err != nil {
		return out, err
	}
	if _, err := q.daily.Increment(CounterQuizzes, 1); err != nil {
		return out, err
	}
	_, err = q.stats.Update(func(ls *domain.LifetimeStats) {
		ls.Quizzes++
		if out.Perfect && out.Mode != domain.QuizPractice {
			ls.PerfectQuizzes++
		}
		if out.Mode == domain.QuizWeekly {
			ls.WeeklyQuizzes++
		}
	})
	if err != nil {
		return out, err
	}
	after, err := q.xp.Level()
	if err != nil {
		return out, err
	}
	out.Level = after
	out.LeveledUp = after.Level > before.Level

	metrics.QuizzesCompleted.WithLabelValues(string(out.Mode)).Inc()
	q.s.Log.Debug("quiz finished", "mode", out.Mode, "correct", out.Correct, "total", out.Total,
		"coins", out.Coins, "xp", out.XP, "streak", out.Streak)
	return out, nil
}
