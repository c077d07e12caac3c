package services

import (
	"context"
	"fmt"

	"masrofi/internal/core"
)

type GoalService struct {
	*deps
}

func (s *GoalService) List(ctx context.Context) []core.SavingsGoal {
	return s.store.SavingsGoals.GetAll(ctx)
}

func (s *GoalService) Create(ctx context.Context, g core.SavingsGoal) (core.SavingsGoal, error) {
	if err := g.Validate(); err != nil {
		return core.SavingsGoal{}, err
	}
	if g.Deadline != "" {
		if err := core.ValidateDate(g.Deadline); err != nil {
			return core.SavingsGoal{}, err
		}
	}
	g.ID = s.newID()
	g.CreatedAt = s.timestamp()
	if err := s.store.SavingsGoals.Add(ctx, g); err != nil {
		return core.SavingsGoal{}, fmt.Errorf("save goal: %w", err)
	}
	s.emit(ctx, EventGoalCreated)
	return g, nil
}

// Contribute adds amount to the goal's current amount.
func (s *GoalService) Contribute(ctx context.Context, id string, amount core.Money) (core.SavingsGoal, error) {
	if err := amount.Validate(); err != nil {
		return core.SavingsGoal{}, err
	}
	g, err := s.store.SavingsGoals.Update(ctx, id, func(g *core.SavingsGoal) error {
		g.CurrentAmount = g.CurrentAmount.Add(amount)
		return nil
	})
	if err != nil {
		return core.SavingsGoal{}, fmt.Errorf("contribute to goal %s: %w", id, err)
	}
	s.emit(ctx, EventGoalContributed)
	return g, nil
}

func (s *GoalService) Delete(ctx context.Context, id string) error {
	if err := s.store.SavingsGoals.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete goal %s: %w", id, err)
	}
	return nil
}
