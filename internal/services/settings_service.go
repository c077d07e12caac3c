package services

import (
	"context"
	"fmt"

	"masrofi/internal/core"
)

type SettingsService struct {
	*deps
}

func (s *SettingsService) Get(ctx context.Context) core.Settings {
	return s.store.Settings.Get(ctx)
}

func (s *SettingsService) Update(ctx context.Context, in core.Settings) (core.Settings, error) {
	if err := in.Validate(); err != nil {
		return core.Settings{}, err
	}
	if err := s.store.Settings.Set(ctx, in); err != nil {
		return core.Settings{}, fmt.Errorf("save settings: %w", err)
	}
	if in.Theme != "" {
		if err := s.store.Theme.Set(ctx, in.Theme); err != nil {
			s.logger.WarnContext(ctx, "Failed to store theme choice", "error", err)
		}
	}
	return in, nil
}
