package economy

import (
	"github.com/nursequest/nursequest/internal/domain"
	"github.com/nursequest/nursequest/internal/infra/metrics"
)

// payer applies a reward to the wallet and the XP ledger.
type payer struct {
	wallet *WalletService
	xp     *XPLedger
}

// pay credits r. source labels the metrics ("mission", "quiz", ...).
func (p payer) pay(r domain.TierReward, source string) error {
	if r.Coins > 0 || r.HasPacks() {
		if _, err := p.wallet.Earn(r.Coins, 0, r.Packs); err != nil {
			return err
		}
		metrics.CoinsAwarded.WithLabelValues(source).Add(float64(r.Coins))
	}
	if r.HasXP() {
		if _, err := p.xp.Add(r.XP); err != nil {
			return err
		}
		metrics.XPAwarded.WithLabelValues(source).Add(float64(r.XP))
	}
	return nil
}
