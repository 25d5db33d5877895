// Package adaptive biases quiz question selection toward the categories
// and questions a user gets wrong most.
package adaptive

import (
	"math"
	"sort"

	"github.com/nursequest/nursequest/internal/domain"
)

const (
	// MinObservations is how many answers a category needs before its
	// accuracy is trusted.
	MinObservations = 3
	// ExplorationWeakness is the weakness assumed for sparse categories.
	ExplorationWeakness = 0.35
	// WeakShare is the fraction of a pick drawn from the weakest categories.
	WeakShare = 0.6
	// WeakCategories is how many of the weakest categories are favored.
	WeakCategories = 2
)

// Record folds one answer into stats and returns the updated copy.
// The input maps are not modified.
func Record(stats domain.AdaptiveStats, q domain.Question, correct bool, ts int64) domain.AdaptiveStats {
	out := domain.NewAdaptiveStats()
	for k, v := range stats.Categories {
		out.Categories[k] = v
	}
	for k, v := range stats.Questions {
		out.Questions[k] = v
	}

	cat := out.Categories[q.Category]
	cat.Total++
	if correct {
		cat.Correct++
	}
	cat.LastTs = ts
	out.Categories[q.Category] = cat

	qs := out.Questions[q.ID]
	qs.Total++
	if !correct {
		qs.WrongCount++
	}
	qs.LastTs = ts
	out.Questions[q.ID] = qs
	return out
}

// Weakness scores a category in [0,1]; higher is weaker.
func Weakness(stats domain.AdaptiveStats, category string) float64 {
	c, ok := stats.Categories[category]
	if !ok || c.Total < MinObservations {
		return ExplorationWeakness
	}
	return 1 - float64(c.Correct)/float64(c.Total)
}

// WrongRate is a question's historical error rate (0 when unseen).
func WrongRate(stats domain.AdaptiveStats, questionID string) float64 {
	q, ok := stats.Questions[questionID]
	if !ok || q.Total == 0 {
		return 0
	}
	return float64(q.WrongCount) / float64(q.Total)
}

// RankCategories orders the categories present in questions by weakness,
// weakest first; ties break by name.
func RankCategories(questions []domain.Question, stats domain.AdaptiveStats) []string {
	seen := make(map[string]bool)
	var cats []string
	for _, q := range questions {
		if !seen[q.Category] {
			seen[q.Category] = true
			cats = append(cats, q.Category)
		}
	}
	sort.SliceStable(cats, func(i, j int) bool {
		wi, wj := Weakness(stats, cats[i]), Weakness(stats, cats[j])
		if wi != wj {
			return wi > wj
		}
		return cats[i] < cats[j]
	})
	return cats
}

// eligible drops excluded ids and duplicate ids, keeping first occurrence.
func eligible(bank []domain.Question, exclude map[string]bool) []domain.Question {
	seen := make(map[string]bool, len(bank))
	out := make([]domain.Question, 0, len(bank))
	for _, q := range bank {
		if exclude[q.ID] || seen[q.ID] {
			continue
		}
		seen[q.ID] = true
		out = append(out, q)
	}
	return out
}

// Pick returns exactly min(n, |eligible|) unique questions. About 60% come
// from the two weakest categories, highest wrong-rate first; the rest are
// uniform over the remaining pool, with the general pool backfilling any
// shortfall. The result is shuffled.
func Pick(bank []domain.Question, stats domain.AdaptiveStats, exclude map[string]bool, n int, r domain.RNG) []domain.Question {
	return pickFrom(eligible(bank, exclude), stats, n, r)
}

func pickFrom(pool []domain.Question, stats domain.AdaptiveStats, n int, r domain.RNG) []domain.Question {
	if n <= 0 || len(pool) == 0 {
		return []domain.Question{}
	}
	if n >= len(pool) {
		out := append([]domain.Question(nil), pool...)
		Shuffle(r, out)
		return out
	}

	ranked := RankCategories(pool, stats)
	weakSet := make(map[string]bool, WeakCategories)
	for i := 0; i < len(ranked) && i < WeakCategories; i++ {
		weakSet[ranked[i]] = true
	}

	var weak, rest []domain.Question
	for _, q := range pool {
		if weakSet[q.Category] {
			weak = append(weak, q)
		} else {
			rest = append(rest, q)
		}
	}

	// Shuffle before the stable sort so equal wrong-rates come out in random order.
	Shuffle(r, weak)
	sort.SliceStable(weak, func(i, j int) bool {
		return WrongRate(stats, weak[i].ID) > WrongRate(stats, weak[j].ID)
	})

	weakTarget := int(math.Round(float64(n) * WeakShare))
	if weakTarget > len(weak) {
		weakTarget = len(weak)
	}
	picked := make([]domain.Question, 0, n)
	picked = append(picked, weak[:weakTarget]...)

	// Remaining pool: unpicked weak questions plus everything else.
	remaining := append(append([]domain.Question(nil), weak[weakTarget:]...), rest...)
	Shuffle(r, remaining)
	picked = append(picked, remaining[:n-len(picked)]...)

	Shuffle(r, picked)
	return picked
}

// PickByDifficulty applies Pick independently per difficulty bucket
// (counts[d] questions from bucket d), tops up any shortfall from the
// rest of the eligible pool and shuffles the result. Buckets are handled
// in easy, medium, hard order, then any others by name.
func PickByDifficulty(bank []domain.Question, stats domain.AdaptiveStats, exclude map[string]bool,
	counts map[domain.Difficulty]int, r domain.RNG) []domain.Question {
	pool := eligible(bank, exclude)

	want := 0
	for _, c := range counts {
		if c > 0 {
			want += c
		}
	}
	if want == 0 {
		return []domain.Question{}
	}

	buckets := make(map[domain.Difficulty][]domain.Question)
	for _, q := range pool {
		buckets[q.Difficulty] = append(buckets[q.Difficulty], q)
	}

	picked := make([]domain.Question, 0, want)
	taken := make(map[string]bool, want)
	for _, d := range bucketOrder(counts) {
		for _, q := range pickFrom(buckets[d], stats, counts[d], r) {
			taken[q.ID] = true
			picked = append(picked, q)
		}
	}

	if short := want - len(picked); short > 0 {
		var leftover []domain.Question
		for _, q := range pool {
			if !taken[q.ID] {
				leftover = append(leftover, q)
			}
		}
		picked = append(picked, pickFrom(leftover, stats, short, r)...)
	}

	Shuffle(r, picked)
	return picked
}

func bucketOrder(counts map[domain.Difficulty]int) []domain.Difficulty {
	known := []domain.Difficulty{domain.DifficultyEasy, domain.DifficultyMedium, domain.DifficultyHard}
	order := make([]domain.Difficulty, 0, len(counts))
	isKnown := make(map[domain.Difficulty]bool, len(known))
	for _, d := range known {
		isKnown[d] = true
		if counts[d] > 0 {
			order = append(order, d)
		}
	}
	var other []domain.Difficulty
	for d, c := range counts {
		if !isKnown[d] && c > 0 {
			other = append(other, d)
		}
	}
	sort.Slice(other, func(i, j int) bool { return other[i] < other[j] })
	return append(order, other...)
}

// Intn draws a uniform int in [0,n) from a [0,1) source.
func Intn(r domain.RNG, n int) int {
	if n <= 1 {
		return 0
	}
	i := int(r.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

// Shuffle is a Fisher-Yates shuffle over a [0,1) source.
func Shuffle[T any](r domain.RNG, xs []T) {
	for i := len(xs) - 1; i > 0; i-- {
		j := Intn(r, i+1)
		xs[i], xs[j] = xs[j], xs[i]
	}
}
