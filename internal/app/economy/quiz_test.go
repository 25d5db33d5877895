package economy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nursequest/nursequest/internal/app/economy"
	"github.com/nursequest/nursequest/internal/domain"
)

func TestRewards_Deterministic(t *testing.T) {
	assert.Equal(t, int64(105), economy.DailyReward(5, 5, 3))
	assert.Equal(t, int64(250), economy.WeeklyReward(10, 12))
	assert.Equal(t, int64(60), economy.DailyReward(4, 5, 1))
	// Streak bonus caps at 50.
	assert.Equal(t, int64(40+50), economy.DailyReward(0, 5, 30))
	assert.Equal(t, int64(44), economy.QuizXP(domain.QuizDaily, 4, 5))
	assert.Equal(t, int64(20+96+20), economy.QuizXP(domain.QuizWeekly, 12, 12))
}

func TestValidateScore(t *testing.T) {
	assert.NoError(t, economy.ValidateScore(0, 5))
	assert.ErrorIs(t, economy.ValidateScore(6, 5), domain.ErrInvariant)
	assert.ErrorIs(t, economy.ValidateScore(-1, 5), domain.ErrInvariant)
	assert.ErrorIs(t, economy.ValidateScore(0, 0), domain.ErrInvariant)
	assert.NoError(t, economy.ValidateScore(economy.MaxQuizQuestions, economy.MaxQuizQuestions))
	assert.ErrorIs(t, economy.ValidateScore(1, economy.MaxQuizQuestions+1), domain.ErrInvariant)
}

func TestFinishQuiz_OversizedScoreRejected(t *testing.T) {
	e, _ := testEngine(t)

	for _, mode := range []domain.QuizMode{domain.QuizDaily, domain.QuizWeekly, domain.QuizPractice} {
		_, err := e.FinishQuiz(mode, 1<<62, 1<<62)
		assert.ErrorIs(t, err, domain.ErrInvariant, mode)
	}

	w, err := e.Wallet()
	require.NoError(t, err)
	assert.Zero(t, w.Coins)
	lvl, err := e.Level()
	require.NoError(t, err)
	assert.Equal(t, 1, lvl.Level)

	// The day is still open after a rejected submission.
	out, err := e.FinishQuiz(domain.QuizDaily, 5, 5)
	require.NoError(t, err)
	assert.Positive(t, out.XP)
}

func TestDailyQuiz_EndToEnd(t *testing.T) {
	e, _ := testEngine(t)

	out, err := e.FinishQuiz(domain.QuizDaily, 4, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(60), out.Coins)
	assert.Equal(t, int64(44), out.XP)
	assert.Equal(t, 1, out.Streak)
	assert.False(t, out.Perfect)

	snap, err := e.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, int64(60), snap.Wallet.Coins)
	assert.Equal(t, int64(44), snap.TotalXP)
	assert.Equal(t, int64(44), snap.WeeklyXP)
	assert.Equal(t, int64(1), snap.Stats.Quizzes)

	var quiz *domain.MissionStatus
	for i := range snap.Missions {
		if snap.Missions[i].Mission.ID == "quiz" {
			quiz = &snap.Missions[i]
		}
	}
	require.NotNil(t, quiz)
	assert.Equal(t, int64(1), quiz.Progress)
	assert.True(t, quiz.Claimable)
}

func TestDailyQuiz_OncePerDay(t *testing.T) {
	e, clock := testEngine(t)

	_, err := e.FinishQuiz(domain.QuizDaily, 5, 5)
	require.NoError(t, err)
	_, err = e.FinishQuiz(domain.QuizDaily, 5, 5)
	assert.ErrorIs(t, err, domain.ErrAlreadyCompleted)

	w, _ := e.Wallet()
	assert.Equal(t, int64(40+25+20), w.Coins, "second attempt must not pay")

	clock.AddDays(1)
	out, err := e.FinishQuiz(domain.QuizDaily, 5, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Streak)
	assert.Equal(t, int64(40+25+10+20), out.Coins)
}

func TestWeeklyQuiz_FeedsWeeklyMission(t *testing.T) {
	e, _ := testEngine(t)

	out, err := e.FinishQuiz(domain.QuizWeekly, 10, 12)
	require.NoError(t, err)
	assert.Equal(t, int64(250), out.Coins)

	_, err = e.FinishQuiz(domain.QuizWeekly, 12, 12)
	assert.ErrorIs(t, err, domain.ErrAlreadyCompleted)

	_, err = e.ClaimMission("weekly_quiz", 1)
	require.NoError(t, err)
	_, err = e.ClaimMission("weekly_quiz", 2)
	require.NoError(t, err)
	_, err = e.ClaimMission("weekly_quiz", 3)
	assert.ErrorIs(t, err, domain.ErrRequirementNotMet)
}

func TestPracticeQuiz_NoCoinsAndXPCap(t *testing.T) {
	e, _ := testEngine(t)

	for i := 0; i < economy.PracticeXPPerDay; i++ {
		out, err := e.FinishQuiz(domain.QuizPractice, 2, 4)
		require.NoError(t, err)
		assert.Zero(t, out.Coins)
		assert.Equal(t, int64(32), out.XP)
	}
	out, err := e.FinishQuiz(domain.QuizPractice, 4, 4)
	require.NoError(t, err)
	assert.Zero(t, out.XP)

	snap, err := e.Snapshot()
	require.NoError(t, err)
	assert.Zero(t, snap.Wallet.Coins)
	assert.Equal(t, int64(4), snap.Stats.Quizzes)
	assert.Zero(t, snap.Stats.PerfectQuizzes)
}

func TestFinishQuiz_InvalidScoreChangesNothing(t *testing.T) {
	e, _ := testEngine(t)
	_, err := e.FinishQuiz(domain.QuizDaily, 7, 5)
	assert.ErrorIs(t, err, domain.ErrInvariant)

	// The daily quiz is still available.
	_, err = e.FinishQuiz(domain.QuizDaily, 5, 5)
	assert.NoError(t, err)
}

func TestQuiz_LevelUpReported(t *testing.T) {
	e, clock := testEngine(t)
	var leveled bool
	for i := 0; i < 3; i++ {
		out, err := e.FinishQuiz(domain.QuizDaily, 5, 5)
		require.NoError(t, err)
		leveled = leveled || out.LeveledUp
		clock.AddDays(1)
	}
	// 3 × (20+30+20) = 210 XP crosses 120.
	assert.True(t, leveled)
}

func TestAnswerQuestion_UpdatesAdaptiveStats(t *testing.T) {
	e, _ := testEngine(t)

	ok, err := e.AnswerQuestion("q1", 0)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = e.AnswerQuestion("q2", 0)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = e.AnswerQuestion("q1", 9)
	assert.ErrorIs(t, err, domain.ErrInvariant)
	_, err = e.AnswerQuestion("missing", 0)
	assert.ErrorIs(t, err, domain.ErrInvariant)

	snap, err := e.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, int64(1), snap.Stats.CorrectAnswers)
}

func TestPickQuestions_ExactAndUnique(t *testing.T) {
	e, _ := testEngine(t)
	for n := 0; n <= 6; n++ {
		qs, err := e.PickQuestions(n, map[string]bool{"q4": true})
		require.NoError(t, err)
		want := n
		if want > 3 {
			want = 3
		}
		require.Len(t, qs, want)
		seen := map[string]bool{}
		for _, q := range qs {
			assert.False(t, seen[q.ID], "duplicate %s", q.ID)
			assert.NotEqual(t, "q4", q.ID)
			seen[q.ID] = true
		}
	}
}

func TestPickQuestionsByDifficulty(t *testing.T) {
	e, _ := testEngine(t)
	qs, err := e.PickQuestionsByDifficulty(map[domain.Difficulty]int{domain.DifficultyEasy: 2}, nil)
	require.NoError(t, err)
	require.Len(t, qs, 2)
	for _, q := range qs {
		assert.Equal(t, domain.DifficultyEasy, q.Difficulty)
	}
}

func TestClearAdaptiveStats(t *testing.T) {
	s, _ := testSession(t)
	q := economy.NewQuizService(s, testQuestions, economy.NewDailyCounters(s), economy.NewWeeklyCounters(s),
		economy.NewXPLedger(s), economy.NewWalletService(s), economy.NewStreakService(s), economy.NewStatsService(s))

	_, err := q.Answer("q3", 0)
	require.NoError(t, err)
	st, _ := q.AdaptiveStats()
	assert.Equal(t, 1, st.Questions["q3"].WrongCount)

	require.NoError(t, q.ClearAdaptiveStats())
	st, _ = q.AdaptiveStats()
	assert.Empty(t, st.Questions)
}
