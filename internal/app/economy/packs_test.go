package economy_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nursequest/nursequest/internal/app/economy"
	"github.com/nursequest/nursequest/internal/domain"
)

func TestPickRarity_Frequencies(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	const trials = 100_000
	counts := make(map[domain.Rarity]int)
	for i := 0; i < trials; i++ {
		counts[economy.PickRarity(economy.DefaultRarityTable, r)]++
	}

	want := map[domain.Rarity]float64{
		domain.RarityCommon:    0.82,
		domain.RarityRare:      0.16,
		domain.RarityEpic:      0.019,
		domain.RarityLegendary: 0.001,
	}
	for rarity, p := range want {
		got := float64(counts[rarity]) / trials
		// Five standard deviations of a binomial proportion.
		tol := 5 * math.Sqrt(p*(1-p)/trials)
		assert.InDelta(t, p, got, tol, "rarity %s", rarity)
	}
}

func TestPickRarity_BoundaryInclusive(t *testing.T) {
	assert.Equal(t, domain.RarityCommon, economy.PickRarity(economy.DefaultRarityTable, &seqRand{vals: []float64{0.82}}))
	assert.Equal(t, domain.RarityRare, economy.PickRarity(economy.DefaultRarityTable, &seqRand{vals: []float64{0.8200001}}))
	assert.Equal(t, domain.RarityLegendary, economy.PickRarity(economy.DefaultRarityTable, &seqRand{vals: []float64{0.99999999}}))
}

func TestNewRarityTable_Validation(t *testing.T) {
	_, err := economy.NewRarityTable([]economy.RarityWeight{{Rarity: domain.RarityCommon, Weight: 0.5}})
	assert.ErrorIs(t, err, domain.ErrInvariant)
	_, err = economy.NewRarityTable([]economy.RarityWeight{{Rarity: "mitica", Weight: 1}})
	assert.ErrorIs(t, err, domain.ErrInvariant)
	_, err = economy.NewRarityTable([]economy.RarityWeight{{Rarity: domain.RarityCommon, Weight: 1}})
	assert.NoError(t, err)
}

func TestOpenPack_CardCountDistribution(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	const trials = 20_000
	doubles := 0
	for i := 0; i < trials; i++ {
		switch n := len(economy.OpenPack(testCards, economy.DefaultRarityTable, r)); n {
		case 1:
		case 2:
			doubles++
		default:
			t.Fatalf("pack with %d cards", n)
		}
	}
	assert.InDelta(t, 0.30, float64(doubles)/trials, 0.02)
}

func TestPickCard_FallsBackToWholePool(t *testing.T) {
	pool := []domain.Card{{ID: "only", Rarity: domain.RarityCommon}}
	c, ok := economy.PickCard(pool, domain.RarityLegendary, &seqRand{vals: []float64{0.5}})
	require.True(t, ok)
	assert.Equal(t, "only", c.ID)

	_, ok = economy.PickCard(nil, domain.RarityCommon, &seqRand{vals: []float64{0.5}})
	assert.False(t, ok)
}

func TestGetDuplicates_KeepsOneCopy(t *testing.T) {
	coll := domain.Collection{"a": 1, "b": 3, "c": 0}
	dups := economy.GetDuplicates(coll)
	assert.Equal(t, map[string]int{"b": 2}, dups)
	assert.Equal(t, 3, coll["b"], "input must not be modified")
}

func TestCollection_OpenBuyRecycle(t *testing.T) {
	e, _ := testEngine(t)

	_, err := e.OpenPack()
	require.ErrorIs(t, err, domain.ErrNoPacks)

	_, err = e.BuyPack()
	require.ErrorIs(t, err, domain.ErrInsufficientCoins)

	_, err = e.ClaimDailyLogin()
	require.NoError(t, err)

	opening, err := e.OpenPack()
	require.NoError(t, err)
	assert.NotEmpty(t, opening.ID)
	assert.NotEmpty(t, opening.Cards)

	coll, err := e.Collection()
	require.NoError(t, err)
	var owned int
	for _, n := range coll {
		owned += n
	}
	assert.Equal(t, len(opening.Cards), owned)

	snap, err := e.Snapshot()
	require.NoError(t, err)
	assert.Zero(t, snap.Wallet.Packs)
	assert.Equal(t, int64(1), snap.Stats.PacksOpened)
}

func TestCollection_RecycleShardRates(t *testing.T) {
	s, _ := testSession(t)
	wallet := economy.NewWalletService(s)
	svc := economy.NewCollectionService(s, testCards, nil, wallet, economy.NewDailyCounters(s), economy.NewStatsService(s))

	// Seed a collection directly: c1×3, r1×2, l1×2, e1×1.
	require.NoError(t, s.Store.Set(s.Prefix()+"cards", `{"c1":3,"r1":2,"l1":2,"e1":1}`))

	res, err := svc.Recycle()
	require.NoError(t, err)
	assert.Equal(t, int64(4), res.Cards)
	assert.Equal(t, int64(2*1+1*5+1*100), res.Shards)

	coll, _ := svc.Collection()
	for id, n := range coll {
		assert.Equal(t, 1, n, "card %s", id)
	}
	bal, _ := wallet.Balance()
	assert.Equal(t, res.Shards, bal.Shards)

	// Nothing left to recycle.
	res, err = svc.Recycle()
	require.NoError(t, err)
	assert.Zero(t, res.Cards)
}

func TestCollection_BuyPack(t *testing.T) {
	s, _ := testSession(t)
	wallet := economy.NewWalletService(s)
	svc := economy.NewCollectionService(s, testCards, nil, wallet, economy.NewDailyCounters(s), economy.NewStatsService(s))
	_, err := wallet.Earn(economy.PackPrice+5, 0, 0)
	require.NoError(t, err)

	bal, err := svc.Buy()
	require.NoError(t, err)
	assert.Equal(t, int64(5), bal.Coins)
	assert.Equal(t, int64(1), bal.Packs)
}
