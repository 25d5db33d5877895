package economy

import (
	"fmt"

	"github.com/nursequest/nursequest/internal/domain"
)

// WalletService manages coins, recycled-card shards and unopened packs.
// The three balances live in one document so every change is one write.
type WalletService struct {
	s *Session
}

// NewWalletService creates a wallet service.
func NewWalletService(s *Session) *WalletService {
	return &WalletService{s: s}
}

// Balance returns the current wallet.
func (w *WalletService) Balance() (domain.Wallet, error) {
	bal, err := load(w.s, "wallet", domain.Wallet{})
	if bal.Coins < 0 {
		bal.Coins = 0
	}
	if bal.Shards < 0 {
		bal.Shards = 0
	}
	if bal.Packs < 0 {
		bal.Packs = 0
	}
	return bal, err
}

// update applies fn to the wallet and persists it when fn succeeds.
func (w *WalletService) update(fn func(*domain.Wallet) error) (domain.Wallet, error) {
	bal, err := w.Balance()
	if err != nil {
		return bal, err
	}
	if err := fn(&bal); err != nil {
		return bal, err
	}
	return bal, save(w.s, "wallet", bal)
}

// Earn credits coins, shards and packs. All amounts must be non-negative.
func (w *WalletService) Earn(coins, shards, packs int64) (domain.Wallet, error) {
	if coins < 0 || shards < 0 || packs < 0 {
		return domain.Wallet{}, fmt.Errorf("%w: negative earn (%d, %d, %d)", domain.ErrInvariant, coins, shards, packs)
	}
	return w.update(func(b *domain.Wallet) error {
		b.Coins += coins
		b.Shards += shards
		b.Packs += packs
		return nil
	})
}

// SpendCoins debits coins, failing without change when the balance is short.
func (w *WalletService) SpendCoins(amount int64) (domain.Wallet, error) {
	if amount <= 0 {
		return domain.Wallet{}, fmt.Errorf("%w: spend amount must be positive, got %d", domain.ErrInvariant, amount)
	}
	return w.update(func(b *domain.Wallet) error {
		if b.Coins < amount {
			return fmt.Errorf("%w: have %d, need %d", domain.ErrInsufficientCoins, b.Coins, amount)
		}
		b.Coins -= amount
		return nil
	})
}

// TakePack removes one unopened pack from the inventory.
func (w *WalletService) TakePack() (domain.Wallet, error) {
	return w.update(func(b *domain.Wallet) error {
		if b.Packs <= 0 {
			return domain.ErrNoPacks
		}
		b.Packs--
		return nil
	})
}

// Exchange spends coins for packs in a single write.
func (w *WalletService) Exchange(coins, packs int64) (domain.Wallet, error) {
	if coins <= 0 || packs <= 0 {
		return domain.Wallet{}, fmt.Errorf("%w: exchange (%d coins, %d packs)", domain.ErrInvariant, coins, packs)
	}
	return w.update(func(b *domain.Wallet) error {
		if b.Coins < coins {
			return fmt.Errorf("%w: have %d, need %d", domain.ErrInsufficientCoins, b.Coins, coins)
		}
		b.Coins -= coins
		b.Packs += packs
		return nil
	})
}
