package services

import (
	"context"
	"fmt"

	"masrofi/internal/core"
)

type WalletService struct {
	*deps
}

func (s *WalletService) List(ctx context.Context) []core.Wallet {
	return s.store.Wallets.GetAll(ctx)
}

// Create adds a wallet. The first wallet, or one flagged default, becomes the
// only default.
func (s *WalletService) Create(ctx context.Context, w core.Wallet) (core.Wallet, error) {
	if w.Type == "" {
		w.Type = "cash"
	}
	if err := w.Validate(); err != nil {
		return core.Wallet{}, err
	}
	w.ID = s.newID()

	err := s.store.Wallets.Mutate(ctx, func(items []core.Wallet) ([]core.Wallet, error) {
		if len(items) == 0 {
			w.IsDefault = true
		}
		if w.IsDefault {
			for i := range items {
				items[i].IsDefault = false
			}
		}
		return append([]core.Wallet{w}, items...), nil
	})
	if err != nil {
		return core.Wallet{}, fmt.Errorf("save wallet: %w", err)
	}
	return w, nil
}

func (s *WalletService) Delete(ctx context.Context, id string) error {
	if err := s.store.Wallets.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete wallet %s: %w", id, err)
	}
	return nil
}
