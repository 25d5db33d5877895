package economy

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/nursequest/nursequest/internal/app/adaptive"
	"github.com/nursequest/nursequest/internal/domain"
	"github.com/nursequest/nursequest/internal/infra/metrics"
)

// ─── Pack Economy (pure) ────────────────────────────────────────────────────

// RarityWeight is one row of a drop table.
type RarityWeight struct {
	Rarity domain.Rarity
	Weight float64
}

// RarityTable is an ordered drop table whose weights sum to 1.
type RarityTable []RarityWeight

// NewRarityTable validates rows: known rarities, non-negative weights,
// total within 1e-9 of 1.
func NewRarityTable(rows []RarityWeight) (RarityTable, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty rarity table", domain.ErrInvariant)
	}
	var sum float64
	for _, r := range rows {
		if !r.Rarity.Valid() {
			return nil, fmt.Errorf("%w: unknown rarity %q", domain.ErrInvariant, r.Rarity)
		}
		if r.Weight < 0 || math.IsNaN(r.Weight) || math.IsInf(r.Weight, 0) {
			return nil, fmt.Errorf("%w: bad weight %v for %s", domain.ErrInvariant, r.Weight, r.Rarity)
		}
		sum += r.Weight
	}
	if math.Abs(sum-1) > 1e-9 {
		return nil, fmt.Errorf("%w: rarity weights sum to %v", domain.ErrInvariant, sum)
	}
	return RarityTable(rows), nil
}

// DefaultRarityTable is the production drop table.
var DefaultRarityTable = mustRarityTable([]RarityWeight{
	{domain.RarityCommon, 0.82},
	{domain.RarityRare, 0.16},
	{domain.RarityEpic, 0.019},
	{domain.RarityLegendary, 0.001},
})

func mustRarityTable(rows []RarityWeight) RarityTable {
	t, err := NewRarityTable(rows)
	if err != nil {
		panic(err)
	}
	return t
}

// DoubleCardChance is the probability a pack holds two cards instead of one.
const DoubleCardChance = 0.30

// PackPrice is the coin cost of one pack.
const PackPrice int64 = 120

// ShardValue is the recycle value of one duplicate of a given rarity.
func ShardValue(r domain.Rarity) int64 {
	switch r {
	case domain.RarityRare:
		return 5
	case domain.RarityEpic:
		return 25
	case domain.RarityLegendary:
		return 100
	default:
		return 1
	}
}

// PickRarity draws a rarity by cumulative weight. Upper bounds are
// inclusive; a draw past the accumulated total falls to the last tier.
func PickRarity(t RarityTable, r domain.RNG) domain.Rarity {
	x := r.Float64()
	var cum float64
	for _, row := range t {
		cum += row.Weight
		if x <= cum && row.Weight > 0 {
			return row.Rarity
		}
	}
	return t[len(t)-1].Rarity
}

// PickCard draws uniformly among cards of the given rarity, or among all
// cards when none match. ok is false only for an empty pool.
func PickCard(cards []domain.Card, rarity domain.Rarity, r domain.RNG) (domain.Card, bool) {
	if len(cards) == 0 {
		return domain.Card{}, false
	}
	var matching []domain.Card
	for _, c := range cards {
		if c.Rarity == rarity {
			matching = append(matching, c)
		}
	}
	if len(matching) == 0 {
		matching = cards
	}
	return matching[adaptive.Intn(r, len(matching))], true
}

// OpenPack draws one card (70%) or two (30%), each independently.
func OpenPack(cards []domain.Card, t RarityTable, r domain.RNG) []domain.Card {
	n := 1
	if r.Float64() < DoubleCardChance {
		n = 2
	}
	out := make([]domain.Card, 0, n)
	for i := 0; i < n; i++ {
		if c, ok := PickCard(cards, PickRarity(t, r), r); ok {
			out = append(out, c)
		}
	}
	return out
}

// AddToCollection returns a new collection with cards added.
func AddToCollection(coll domain.Collection, cards []domain.Card) domain.Collection {
	out := make(domain.Collection, len(coll)+len(cards))
	for id, n := range coll {
		out[id] = n
	}
	for _, c := range cards {
		out[c.ID]++
	}
	return out
}

// GetDuplicates returns recyclable copies per card: count-1, omitting
// cards with nothing to spare. The input is not modified.
func GetDuplicates(coll domain.Collection) map[string]int {
	out := make(map[string]int)
	for id, n := range coll {
		if n > 1 {
			out[id] = n - 1
		}
	}
	return out
}

// ─── Collection Service ─────────────────────────────────────────────────────

// CollectionService owns the card collection and pack inventory flows.
type CollectionService struct {
	s      *Session
	cards  []domain.Card
	byID   map[string]domain.Card
	table  RarityTable
	wallet *WalletService
	daily  *CounterLedger
	stats  *StatsService
}

// NewCollectionService creates a collection service over a card pool.
func NewCollectionService(s *Session, cards []domain.Card, table RarityTable,
	wallet *WalletService, daily *CounterLedger, stats *StatsService) *CollectionService {
	byID := make(map[string]domain.Card, len(cards))
	for _, c := range cards {
		byID[c.ID] = c
	}
	if table == nil {
		table = DefaultRarityTable
	}
	return &CollectionService{s: s, cards: cards, byID: byID, table: table, wallet: wallet, daily: daily, stats: stats}
}

// Card looks up a card by id.
func (c *CollectionService) Card(id string) (domain.Card, bool) {
	card, ok := c.byID[id]
	return card, ok
}

// Cards returns the pool.
func (c *CollectionService) Cards() []domain.Card {
	return c.cards
}

// Collection returns owned counts.
func (c *CollectionService) Collection() (domain.Collection, error) {
	coll, err := load(c.s, "cards", domain.Collection{})
	if coll == nil {
		coll = domain.Collection{}
	}
	return coll, err
}

// Open consumes one unopened pack and adds its cards to the collection.
func (c *CollectionService) Open() (domain.PackOpening, error) {
	if len(c.cards) == 0 {
		return domain.PackOpening{}, fmt.Errorf("%w: empty card pool", domain.ErrInvariant)
	}
	coll, err := c.Collection()
	if err != nil {
		return domain.PackOpening{}, err
	}
	if _, err := c.wallet.TakePack(); err != nil {
		return domain.PackOpening{}, err
	}

	drawn := OpenPack(c.cards, c.table, c.s.Rand)
	if err := save(c.s, "cards", AddToCollection(coll, drawn)); err != nil {
		return domain.PackOpening{}, err
	}
	if _, err := c.daily.Increment(CounterPacks, 1); err != nil {
		return domain.PackOpening{}, err
	}
	if _, err := c.stats.Update(func(st *domain.LifetimeStats) { st.PacksOpened++ }); err != nil {
		return domain.PackOpening{}, err
	}

	metrics.PacksOpened.Inc()
	for _, card := range drawn {
		metrics.CardsDrawn.WithLabelValues(string(card.Rarity)).Inc()
	}
	opening := domain.PackOpening{ID: uuid.NewString(), Cards: drawn, OpenedAt: c.s.Now()}
	c.s.Log.Debug("pack opened", "opening", opening.ID, "cards", len(drawn))
	return opening, nil
}

// Buy exchanges PackPrice coins for one pack.
func (c *CollectionService) Buy() (domain.Wallet, error) {
	return c.wallet.Exchange(PackPrice, 1)
}

// Recycle converts every duplicate into shards, keeping one copy of each card.
func (c *CollectionService) Recycle() (domain.RecycleResult, error) {
	coll, err := c.Collection()
	if err != nil {
		return domain.RecycleResult{}, err
	}
	dups := GetDuplicates(coll)
	if len(dups) == 0 {
		return domain.RecycleResult{}, nil
	}

	var res domain.RecycleResult
	next := make(domain.Collection, len(coll))
	for id, n := range coll {
		next[id] = n
	}
	for id, extra := range dups {
		rarity := domain.RarityCommon
		if card, ok := c.byID[id]; ok {
			rarity = card.Rarity
		}
		res.Cards += int64(extra)
		res.Shards += int64(extra) * ShardValue(rarity)
		next[id] = 1
	}

	if err := save(c.s, "cards", next); err != nil {
		return domain.RecycleResult{}, err
	}
	if _, err := c.wallet.Earn(0, res.Shards, 0); err != nil {
		return domain.RecycleResult{}, err
	}
	if _, err := c.daily.Increment(CounterRecycles, 1); err != nil {
		return domain.RecycleResult{}, err
	}
	if _, err := c.stats.Update(func(st *domain.LifetimeStats) { st.CardsRecycled += res.Cards }); err != nil {
		return domain.RecycleResult{}, err
	}
	c.s.Log.Debug("duplicates recycled", "cards", res.Cards, "shards", res.Shards)
	return res, nil
}
