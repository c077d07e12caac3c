package services

import (
	"context"
	"fmt"

	"masrofi/internal/core"
	"masrofi/internal/storage"
)

type ShoppingService struct {
	*deps
}

func (s *ShoppingService) Lists(ctx context.Context) []core.ShoppingList {
	return s.store.ShoppingLists.GetAll(ctx)
}

func (s *ShoppingService) CreateList(ctx context.Context, l core.ShoppingList) (core.ShoppingList, error) {
	if err := l.Validate(); err != nil {
		return core.ShoppingList{}, err
	}
	l.ID = s.newID()
	l.CreatedAt = s.timestamp()
	if err := s.store.ShoppingLists.Add(ctx, l); err != nil {
		return core.ShoppingList{}, fmt.Errorf("save shopping list: %w", err)
	}
	return l, nil
}

// DeleteList removes the list and every item on it.
func (s *ShoppingService) DeleteList(ctx context.Context, id string) error {
	if err := s.store.ShoppingLists.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete shopping list %s: %w", id, err)
	}
	err := s.store.ShoppingItems.Mutate(ctx, func(items []core.ShoppingItem) ([]core.ShoppingItem, error) {
		out := items[:0]
		for _, it := range items {
			if it.ListID != id {
				out = append(out, it)
			}
		}
		return out, nil
	})
	if err != nil {
		return fmt.Errorf("delete items of list %s: %w", id, err)
	}
	return nil
}

// Items returns the items of one list.
func (s *ShoppingService) Items(ctx context.Context, listID string) ([]core.ShoppingItem, error) {
	if _, ok := s.store.ShoppingLists.Find(ctx, listID); !ok {
		return nil, storage.ErrNotFound
	}
	return s.store.ShoppingItems.Filter(ctx, func(it core.ShoppingItem) bool { return it.ListID == listID }), nil
}

func (s *ShoppingService) AddItem(ctx context.Context, listID string, it core.ShoppingItem) (core.ShoppingItem, error) {
	if it.Qty == 0 {
		it.Qty = 1
	}
	if err := it.Validate(); err != nil {
		return core.ShoppingItem{}, err
	}
	if _, ok := s.store.ShoppingLists.Find(ctx, listID); !ok {
		return core.ShoppingItem{}, storage.ErrNotFound
	}
	it.ID = s.newID()
	it.ListID = listID
	it.IsBought = false
	it.CreatedAt = s.timestamp()
	if err := s.store.ShoppingItems.Add(ctx, it); err != nil {
		return core.ShoppingItem{}, fmt.Errorf("save shopping item: %w", err)
	}
	return it, nil
}

// ToggleItem flips the bought flag.
func (s *ShoppingService) ToggleItem(ctx context.Context, id string) (core.ShoppingItem, error) {
	it, err := s.store.ShoppingItems.Update(ctx, id, func(it *core.ShoppingItem) error {
		it.IsBought = !it.IsBought
		return nil
	})
	if err != nil {
		return core.ShoppingItem{}, fmt.Errorf("toggle item %s: %w", id, err)
	}
	return it, nil
}
