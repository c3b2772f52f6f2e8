package settings

import (
	"context"
	"fmt"

	"essenceflow/internal/core/apperror"
	"essenceflow/internal/core/tx"
	"essenceflow/pkg/logger"
)

// UpdateRequest carries a partial update. Nil fields keep their stored value.
type UpdateRequest struct {
	Name       *string
	Caption    *string
	Email      *string
	LogoURL    *string
	Categories []Category // nil keeps the stored list
}

// Service reads and updates business settings.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new settings service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{repo: repo, txManager: txManager}
}

// Get returns the stored settings, falling back to Default.
func (s *Service) Get(ctx context.Context) (*BusinessSettings, error) {
	current, err := s.repo.Get(ctx)
	if err != nil {
		if apperror.IsNotFound(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("load settings: %w", err)
	}
	return current, nil
}

// Update merges req into the stored settings.
func (s *Service) Update(ctx context.Context, req UpdateRequest) (*BusinessSettings, error) {
	var updated *BusinessSettings
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		current, err := s.Get(ctx)
		if err != nil {
			return err
		}
		if req.Name != nil {
			current.Name = *req.Name
		}
		if req.Caption != nil {
			current.Caption = *req.Caption
		}
		if req.Email != nil {
			current.Email = *req.Email
		}
		if req.LogoURL != nil {
			current.LogoURL = *req.LogoURL
		}
		if req.Categories != nil {
			current.Categories = req.Categories
		}
		current.Touch()

		if err := current.Validate(ctx); err != nil {
			return err
		}
		if err := s.repo.Save(ctx, current); err != nil {
			return fmt.Errorf("save settings: %w", err)
		}
		updated = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "settings updated", "name", updated.Name, "categories", len(updated.Categories))
	return updated, nil
}
