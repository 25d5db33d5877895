package domain

// Difficulty buckets questions for the bucketed selector.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Question is one entry of the quiz bank.
type Question struct {
	ID         string     `json:"id" yaml:"id"`
	Category   string     `json:"category" yaml:"category"`
	Difficulty Difficulty `json:"difficulty,omitempty" yaml:"difficulty"`
	Prompt     string     `json:"prompt" yaml:"prompt"`
	Options    []string   `json:"options" yaml:"options"`
	Answer     int        `json:"answer" yaml:"answer"`
}

// CategoryStat accumulates answers per category.
type CategoryStat struct {
	Correct int   `json:"correct"`
	Total   int   `json:"total"`
	LastTs  int64 `json:"lastTs"`
}

// QuestionStat accumulates answers per question.
type QuestionStat struct {
	WrongCount int   `json:"wrongCount"`
	Total      int   `json:"total"`
	LastTs     int64 `json:"lastTs"`
}

// AdaptiveStats is the weakness history driving question selection.
type AdaptiveStats struct {
	Categories map[string]CategoryStat `json:"categories"`
	Questions  map[string]QuestionStat `json:"questions"`
}

// NewAdaptiveStats returns empty, non-nil maps.
func NewAdaptiveStats() AdaptiveStats {
	return AdaptiveStats{
		Categories: make(map[string]CategoryStat),
		Questions:  make(map[string]QuestionStat),
	}
}
