package clinical

import (
	"fmt"

	"github.com/nursequest/nursequest/internal/domain"
)

// GCSInput holds the three Glasgow Coma Scale components.
type GCSInput struct {
	Eye    int `json:"eye"`    // 1-4
	Verbal int `json:"verbal"` // 1-5
	Motor  int `json:"motor"`  // 1-6
}

// GCSResult is the total and its severity band.
type GCSResult struct {
	Total    int    `json:"total"`
	Severity string `json:"severity"`
	Notation string `json:"notation"`
}

// ScoreGCS sums the components: 13-15 mild, 9-12 moderate, 3-8 severe.
func ScoreGCS(in GCSInput) (GCSResult, error) {
	if in.Eye < 1 || in.Eye > 4 {
		return GCSResult{}, fmt.Errorf("%w: eye %d (1-4)", domain.ErrInvalidInput, in.Eye)
	}
	if in.Verbal < 1 || in.Verbal > 5 {
		return GCSResult{}, fmt.Errorf("%w: verbal %d (1-5)", domain.ErrInvalidInput, in.Verbal)
	}
	if in.Motor < 1 || in.Motor > 6 {
		return GCSResult{}, fmt.Errorf("%w: motor %d (1-6)", domain.ErrInvalidInput, in.Motor)
	}
	total := in.Eye + in.Verbal + in.Motor
	sev := "mild"
	switch {
	case total <= 8:
		sev = "severe"
	case total <= 12:
		sev = "moderate"
	}
	return GCSResult{
		Total:    total,
		Severity: sev,
		Notation: fmt.Sprintf("E%dV%dM%d", in.Eye, in.Verbal, in.Motor),
	}, nil
}
