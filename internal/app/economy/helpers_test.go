package economy_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/nursequest/nursequest/internal/app/economy"
	"github.com/nursequest/nursequest/internal/domain"
	"github.com/nursequest/nursequest/internal/infra/sqlite"
)

// testDB creates a temporary SQLite database for testing.
func testDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// wednesday is 2025-07-02 10:00 local, inside ISO week 2025-W27.
var wednesday = time.Date(2025, 7, 2, 10, 0, 0, 0, time.Local)

// testSession returns a session on a fresh database with a manual clock
// and a seeded RNG.
func testSession(t *testing.T, opts ...economy.Option) (*economy.Session, *economy.ManualClock) {
	t.Helper()
	clock := economy.NewManualClock(wednesday)
	base := []economy.Option{
		economy.WithProfile("test"),
		economy.WithClock(clock),
		economy.WithRand(rand.New(rand.NewSource(42))),
	}
	return economy.NewSession(testDB(t), append(base, opts...)...), clock
}

// seqRand replays fixed draws, then repeats the last one.
type seqRand struct {
	vals []float64
	i    int
}

func (r *seqRand) Float64() float64 {
	v := r.vals[r.i]
	if r.i < len(r.vals)-1 {
		r.i++
	}
	return v
}

var testCards = []domain.Card{
	{ID: "c1", Name: "Uno", Rarity: domain.RarityCommon},
	{ID: "c2", Name: "Due", Rarity: domain.RarityCommon},
	{ID: "r1", Name: "Rara", Rarity: domain.RarityRare},
	{ID: "e1", Name: "Epica", Rarity: domain.RarityEpic},
	{ID: "l1", Name: "Leggendaria", Rarity: domain.RarityLegendary},
}

var testQuestions = []domain.Question{
	{ID: "q1", Category: "farmaci", Difficulty: domain.DifficultyEasy, Options: []string{"a", "b"}, Answer: 0},
	{ID: "q2", Category: "farmaci", Difficulty: domain.DifficultyMedium, Options: []string{"a", "b"}, Answer: 1},
	{ID: "q3", Category: "emergenza", Difficulty: domain.DifficultyHard, Options: []string{"a", "b", "c"}, Answer: 2},
	{ID: "q4", Category: "emergenza", Difficulty: domain.DifficultyEasy, Options: []string{"a", "b"}, Answer: 0},
}

// testEngine wires an engine over a fresh session.
func testEngine(t *testing.T, opts ...economy.Option) (*economy.Engine, *economy.ManualClock) {
	t.Helper()
	s, clock := testSession(t, opts...)
	e, err := economy.NewEngine(s, economy.Config{Cards: testCards, Questions: testQuestions})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return e, clock
}
