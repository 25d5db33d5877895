// Package clinical holds the scoring behind the rate-limited clinical
// tools: NEWS2, the Glasgow Coma Scale and drug compatibility lookups.
package clinical

import (
	"fmt"

	"github.com/nursequest/nursequest/internal/domain"
)

// ─── NEWS2 ──────────────────────────────────────────────────────────────────

// Consciousness is the ACVPU level.
type Consciousness string

const (
	Alert        Consciousness = "A"
	NewConfusion Consciousness = "C"
	Voice        Consciousness = "V"
	Pain         Consciousness = "P"
	Unresponsive Consciousness = "U"
)

// Vitals are the NEWS2 observations (SpO2 scale 1).
type Vitals struct {
	RespRate      int           `json:"respRate"`
	SpO2          int           `json:"spo2"`
	OnOxygen      bool          `json:"onOxygen"`
	SystolicBP    int           `json:"systolicBp"`
	HeartRate     int           `json:"heartRate"`
	Consciousness Consciousness `json:"consciousness"`
	Temperature   float64       `json:"temperature"`
}

// Risk is the NEWS2 clinical risk band.
type Risk string

const (
	RiskLow       Risk = "low"
	RiskLowMedium Risk = "low-medium"
	RiskMedium    Risk = "medium"
	RiskHigh      Risk = "high"
)

// NEWS2Result is the aggregate score with its per-parameter breakdown.
type NEWS2Result struct {
	Total      int            `json:"total"`
	Parameters map[string]int `json:"parameters"`
	RedScore   bool           `json:"redScore"` // some single parameter scored 3
	Risk       Risk           `json:"risk"`
	Response   string         `json:"response"`
}

// ScoreNEWS2 scores v with the RCP 2017 bands.
func ScoreNEWS2(v Vitals) (NEWS2Result, error) {
	if err := v.validate(); err != nil {
		return NEWS2Result{}, err
	}
	p := map[string]int{
		"respRate":      respScore(v.RespRate),
		"spo2":          spo2Score(v.SpO2),
		"oxygen":        0,
		"systolicBp":    sbpScore(v.SystolicBP),
		"heartRate":     pulseScore(v.HeartRate),
		"consciousness": 0,
		"temperature":   tempScore(v.Temperature),
	}
	if v.OnOxygen {
		p["oxygen"] = 2
	}
	if v.Consciousness != Alert {
		p["consciousness"] = 3
	}

	res := NEWS2Result{Parameters: p}
	for _, s := range p {
		res.Total += s
		if s == 3 {
			res.RedScore = true
		}
	}
	switch {
	case res.Total >= 7:
		res.Risk, res.Response = RiskHigh, "emergency assessment, continuous monitoring"
	case res.Total >= 5:
		res.Risk, res.Response = RiskMedium, "urgent ward-based response, at least hourly"
	case res.RedScore:
		res.Risk, res.Response = RiskLowMedium, "urgent ward-based response"
	case res.Total >= 1:
		res.Risk, res.Response = RiskLow, "ward-based response, at least 4-6 hourly"
	default:
		res.Risk, res.Response = RiskLow, "routine monitoring, at least 12 hourly"
	}
	return res, nil
}

func (v Vitals) validate() error {
	switch {
	case v.RespRate < 0 || v.RespRate > 80:
		return fmt.Errorf("%w: respiratory rate %d", domain.ErrInvalidInput, v.RespRate)
	case v.SpO2 < 50 || v.SpO2 > 100:
		return fmt.Errorf("%w: SpO2 %d", domain.ErrInvalidInput, v.SpO2)
	case v.SystolicBP < 30 || v.SystolicBP > 300:
		return fmt.Errorf("%w: systolic BP %d", domain.ErrInvalidInput, v.SystolicBP)
	case v.HeartRate < 0 || v.HeartRate > 300:
		return fmt.Errorf("%w: heart rate %d", domain.ErrInvalidInput, v.HeartRate)
	case v.Temperature < 25 || v.Temperature > 45:
		return fmt.Errorf("%w: temperature %.1f", domain.ErrInvalidInput, v.Temperature)
	}
	switch v.Consciousness {
	case Alert, NewConfusion, Voice, Pain, Unresponsive:
		return nil
	}
	return fmt.Errorf("%w: consciousness %q", domain.ErrInvalidInput, v.Consciousness)
}

func respScore(rr int) int {
	switch {
	case rr <= 8:
		return 3
	case rr <= 11:
		return 1
	case rr <= 20:
		return 0
	case rr <= 24:
		return 2
	}
	return 3
}

func spo2Score(s int) int {
	switch {
	case s <= 91:
		return 3
	case s <= 93:
		return 2
	case s <= 95:
		return 1
	}
	return 0
}

func sbpScore(bp int) int {
	switch {
	case bp <= 90:
		return 3
	case bp <= 100:
		return 2
	case bp <= 110:
		return 1
	case bp <= 219:
		return 0
	}
	return 3
}

func pulseScore(hr int) int {
	switch {
	case hr <= 40:
		return 3
	case hr <= 50:
		return 1
	case hr <= 90:
		return 0
	case hr <= 110:
		return 1
	case hr <= 130:
		return 2
	}
	return 3
}

// tempScore works in tenths of a degree so 38.0 and 38.1 land on the
// right side of the band edge.
func tempScore(t float64) int {
	d := int(t*10 + 0.5)
	switch {
	case d <= 350:
		return 3
	case d <= 360:
		return 1
	case d <= 380:
		return 0
	case d <= 390:
		return 1
	}
	return 2
}
