package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nursequest/nursequest/internal/app/clinical"
	"github.com/nursequest/nursequest/internal/domain"
)

// ─── YAML Overrides ─────────────────────────────────────────────────────────
// Each loader returns the built-in content when path is empty.

type cardFile struct {
	Cards []domain.Card `yaml:"cards"`
}

type questionFile struct {
	Questions []domain.Question `yaml:"questions"`
}

type compatFile struct {
	Pairs []clinical.CompatEntry `yaml:"pairs"`
}

func readYAML(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// LoadCards reads a card pool from path.
func LoadCards(path string) ([]domain.Card, error) {
	if path == "" {
		return Cards, nil
	}
	var f cardFile
	if err := readYAML(path, &f); err != nil {
		return nil, err
	}
	if err := ValidateCards(f.Cards); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f.Cards, nil
}

// ValidateCards checks ids are unique and rarities known.
func ValidateCards(cards []domain.Card) error {
	if len(cards) == 0 {
		return fmt.Errorf("%w: empty card pool", domain.ErrInvariant)
	}
	seen := make(map[string]bool, len(cards))
	for _, c := range cards {
		if c.ID == "" || seen[c.ID] {
			return fmt.Errorf("%w: duplicate or empty card id %q", domain.ErrInvariant, c.ID)
		}
		if !c.Rarity.Valid() {
			return fmt.Errorf("%w: card %s has rarity %q", domain.ErrInvariant, c.ID, c.Rarity)
		}
		seen[c.ID] = true
	}
	return nil
}

// LoadQuestions reads a question bank from path.
func LoadQuestions(path string) ([]domain.Question, error) {
	if path == "" {
		return Questions, nil
	}
	var f questionFile
	if err := readYAML(path, &f); err != nil {
		return nil, err
	}
	if err := ValidateQuestions(f.Questions); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f.Questions, nil
}

// ValidateQuestions checks ids are unique and answers index an option.
func ValidateQuestions(qs []domain.Question) error {
	seen := make(map[string]bool, len(qs))
	for _, q := range qs {
		if q.ID == "" || seen[q.ID] {
			return fmt.Errorf("%w: duplicate or empty question id %q", domain.ErrInvariant, q.ID)
		}
		if q.Category == "" {
			return fmt.Errorf("%w: question %s has no category", domain.ErrInvariant, q.ID)
		}
		if q.Answer < 0 || q.Answer >= len(q.Options) {
			return fmt.Errorf("%w: question %s answer %d out of range", domain.ErrInvariant, q.ID, q.Answer)
		}
		seen[q.ID] = true
	}
	return nil
}

// LoadCompat reads a compatibility table from path.
func LoadCompat(path string) (*clinical.CompatTable, error) {
	if path == "" {
		return CompatTable()
	}
	var f compatFile
	if err := readYAML(path, &f); err != nil {
		return nil, err
	}
	t, err := clinical.NewCompatTable(f.Pairs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
