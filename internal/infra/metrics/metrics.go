// Package metrics provides Prometheus metrics for nursequest: rewards paid,
// packs and cards drawn, claim outcomes, usage limits and the HTTP surface.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Rewards ────────────────────────────────────────────────────────────────

// CoinsAwarded tracks coins paid out by source (quiz, mission, login, ...).
var CoinsAwarded = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "nursequest",
	Name:      "coins_awarded_total",
	Help:      "Total coins awarded by source.",
}, []string{"source"})

// XPAwarded tracks XP granted by source.
var XPAwarded = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "nursequest",
	Name:      "xp_awarded_total",
	Help:      "Total XP awarded by source.",
}, []string{"source"})

// Claims tracks mission and achievement claims by kind and result
// (ok, maxed, invalid, not_ready).
var Claims = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "nursequest",
	Name:      "claims_total",
	Help:      "Claim attempts by kind and result.",
}, []string{"kind", "result"})

// ─── Quizzes ────────────────────────────────────────────────────────────────

// QuizzesCompleted tracks finished quizzes by mode.
var QuizzesCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "nursequest",
	Name:      "quizzes_completed_total",
	Help:      "Total finished quizzes by mode.",
}, []string{"mode"})

// ─── Packs ──────────────────────────────────────────────────────────────────

// PacksOpened tracks opened packs.
var PacksOpened = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "nursequest",
	Name:      "packs_opened_total",
	Help:      "Total packs opened.",
})

// CardsDrawn tracks drawn cards by rarity.
var CardsDrawn = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "nursequest",
	Name:      "cards_drawn_total",
	Help:      "Total cards drawn by rarity.",
}, []string{"rarity"})

// ─── Limits ─────────────────────────────────────────────────────────────────

// LimitRejections tracks uses refused by a daily usage limiter.
var LimitRejections = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "nursequest",
	Name:      "limit_rejections_total",
	Help:      "Uses refused because the daily allowance was spent.",
}, []string{"feature"})

// ─── HTTP ───────────────────────────────────────────────────────────────────

// APILatency tracks request duration by route pattern.
var APILatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "nursequest",
	Name:      "api_request_seconds",
	Help:      "API request duration in seconds.",
	Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
}, []string{"route", "status"})
