package economy

import (
	"fmt"

	"github.com/nursequest/nursequest/internal/domain"
)

// XPNeed returns the XP level L requires: 120 + (L-1)*60.
func XPNeed(level int) int64 {
	if level < 1 {
		level = 1
	}
	return 120 + int64(level-1)*60
}

// ComputeLevel maps cumulative XP to a level by iterative subtraction,
// starting at level 1. There is no upper bound.
func ComputeLevel(xp int64) domain.LevelInfo {
	return ComputeLevelCapped(xp, 0)
}

// ComputeLevelCapped is ComputeLevel truncated at levelCap (0 = no cap).
// At the cap, Remaining keeps accumulating and Pct saturates at 1.
func ComputeLevelCapped(xp int64, levelCap int) domain.LevelInfo {
	if xp < 0 {
		xp = 0
	}
	level := 1
	remaining := xp
	for remaining >= XPNeed(level) {
		if levelCap > 0 && level >= levelCap {
			break
		}
		remaining -= XPNeed(level)
		level++
	}
	need := XPNeed(level)
	pct := float64(remaining) / float64(need)
	if pct > 1 {
		pct = 1
	}
	return domain.LevelInfo{Level: level, Remaining: remaining, Need: need, Pct: pct}
}

// xpDoc keeps total and per-week gains in one document, so a single write
// updates both.
type xpDoc struct {
	Total  int64            `json:"total"`
	Weekly map[string]int64 `json:"weekly"`
}

// XPLedger is the monotonic XP total plus per-ISO-week gains.
type XPLedger struct {
	s *Session
}

// NewXPLedger creates an XP ledger.
func NewXPLedger(s *Session) *XPLedger {
	return &XPLedger{s: s}
}

func (x *XPLedger) load() (xpDoc, error) {
	doc, err := load(x.s, "xp", xpDoc{})
	if doc.Weekly == nil {
		doc.Weekly = make(map[string]int64)
	}
	if doc.Total < 0 {
		doc.Total = 0
	}
	return doc, err
}

// Total returns cumulative XP.
func (x *XPLedger) Total() (int64, error) {
	doc, err := x.load()
	return doc.Total, err
}

// WeeklyGained returns XP gained during the current ISO week.
func (x *XPLedger) WeeklyGained() (int64, error) {
	doc, err := x.load()
	return doc.Weekly[x.s.WeekKey()], err
}

// Weekly returns a copy of the per-week map.
func (x *XPLedger) Weekly() (map[string]int64, error) {
	doc, err := x.load()
	out := make(map[string]int64, len(doc.Weekly))
	for k, v := range doc.Weekly {
		out[k] = v
	}
	return out, err
}

// Add increments the total and the current week's gain by delta and
// returns the new total. Negative deltas are rejected with ErrInvariant.
func (x *XPLedger) Add(delta int64) (int64, error) {
	if delta < 0 {
		return 0, fmt.Errorf("%w: negative xp delta %d", domain.ErrInvariant, delta)
	}
	doc, err := x.load()
	if err != nil {
		return 0, err
	}
	if delta == 0 {
		return doc.Total, nil
	}
	doc.Total += delta
	doc.Weekly[x.s.WeekKey()] += delta
	if err := save(x.s, "xp", doc); err != nil {
		return 0, err
	}
	x.s.Log.Debug("xp added", "delta", delta, "total", doc.Total)
	return doc.Total, nil
}

// Level returns the derived level for the stored total.
func (x *XPLedger) Level() (domain.LevelInfo, error) {
	total, err := x.Total()
	if err != nil {
		return domain.LevelInfo{}, err
	}
	return ComputeLevelCapped(total, x.s.LevelCap), nil
}
