package clinical

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nursequest/nursequest/internal/domain"
)

// ─── Compatibility ──────────────────────────────────────────────────────────

// Severity grades a drug pair. Higher is worse; SeverityUnknown means no
// data in either direction and ranks below every recorded grade.
type Severity int

const (
	SeverityUnknown Severity = iota
	SeverityCompatible
	SeverityVariable
	SeverityIncompatible
)

var severityNames = map[Severity]string{
	SeverityUnknown:      "unknown",
	SeverityCompatible:   "compatible",
	SeverityVariable:     "variable",
	SeverityIncompatible: "incompatible",
}

func (s Severity) String() string {
	if n, ok := severityNames[s]; ok {
		return n
	}
	return "unknown"
}

// ParseSeverity maps a table label to a Severity.
func ParseSeverity(label string) (Severity, error) {
	l := strings.ToLower(strings.TrimSpace(label))
	for s, n := range severityNames {
		if n == l {
			return s, nil
		}
	}
	return SeverityUnknown, fmt.Errorf("%w: severity %q", domain.ErrInvariant, label)
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Merge returns the worse of two directional grades.
func Merge(a, b Severity) Severity {
	if a > b {
		return a
	}
	return b
}

// CompatEntry is one directional row: Drug given with Other.
type CompatEntry struct {
	Drug     string `json:"drug" yaml:"drug"`
	Other    string `json:"other" yaml:"other"`
	Severity string `json:"severity" yaml:"severity"`
	Note     string `json:"note,omitempty" yaml:"note,omitempty"`
}

type direction struct {
	sev  Severity
	note string
}

// CompatTable is a directional lookup table. Rows are recorded as found
// in the source, so A→B and B→A may disagree.
type CompatTable struct {
	rows  map[string]direction
	drugs map[string]bool
}

// CompatResult is a merged lookup.
type CompatResult struct {
	A        string   `json:"a"`
	B        string   `json:"b"`
	Severity Severity `json:"severity"`
	Forward  Severity `json:"forward"`
	Reverse  Severity `json:"reverse"`
	Notes    []string `json:"notes,omitempty"`
}

// NewCompatTable indexes entries.
func NewCompatTable(entries []CompatEntry) (*CompatTable, error) {
	t := &CompatTable{rows: make(map[string]direction), drugs: make(map[string]bool)}
	for _, e := range entries {
		a, b := normalize(e.Drug), normalize(e.Other)
		if a == "" || b == "" {
			return nil, fmt.Errorf("%w: compatibility row with empty drug", domain.ErrInvariant)
		}
		sev, err := ParseSeverity(e.Severity)
		if err != nil {
			return nil, err
		}
		t.rows[a+"|"+b] = direction{sev: sev, note: e.Note}
		t.drugs[a] = true
		t.drugs[b] = true
	}
	return t, nil
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Drugs returns every drug named in the table, sorted.
func (t *CompatTable) Drugs() []string {
	out := make([]string, 0, len(t.drugs))
	for d := range t.drugs {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// Lookup grades a and b as the worse of both directions. Both drugs must
// appear somewhere in the table; a pair with no rows is SeverityUnknown.
func (t *CompatTable) Lookup(a, b string) (CompatResult, error) {
	na, nb := normalize(a), normalize(b)
	for _, d := range []string{na, nb} {
		if !t.drugs[d] {
			return CompatResult{}, fmt.Errorf("%w: %q", domain.ErrUnknownDrug, d)
		}
	}
	fwd := t.rows[na+"|"+nb]
	rev := t.rows[nb+"|"+na]
	res := CompatResult{
		A: na, B: nb,
		Forward:  fwd.sev,
		Reverse:  rev.sev,
		Severity: Merge(fwd.sev, rev.sev),
	}
	for _, n := range []string{fwd.note, rev.note} {
		if n != "" {
			res.Notes = append(res.Notes, n)
		}
	}
	return res, nil
}
