package domain

import (
	"context"
	"fmt"

	"essenceflow/internal/core/apperror"
	"essenceflow/internal/core/id"
	"essenceflow/internal/core/tx"
	"essenceflow/pkg/logger"
)

// CatalogService provides CRUD business logic for reference entities
// (inventory items, products, vendors, customers, expenses).
type CatalogService[T Entity[K], K any] struct {
	repo      CatalogRepository[T, K]
	txManager tx.Manager
	hooks     *HookRegistry[T]

	// entityName for error messages, e.g. "Vendor" -> "Vendor not found"
	entityName string
}

// CatalogServiceConfig configures the catalog service.
type CatalogServiceConfig[T Entity[K], K any] struct {
	Repo       CatalogRepository[T, K]
	TxManager  tx.Manager
	EntityName string
}

// NewCatalogService creates a new catalog service.
func NewCatalogService[T Entity[K], K any](cfg CatalogServiceConfig[T, K]) *CatalogService[T, K] {
	return &CatalogService[T, K]{
		repo:       cfg.Repo,
		txManager:  cfg.TxManager,
		hooks:      NewHookRegistry[T](),
		entityName: cfg.EntityName,
	}
}

// Hooks returns the hook registry for external registration.
func (s *CatalogService[T, K]) Hooks() *HookRegistry[T] {
	return s.hooks
}

// TxManager exposes the transaction manager to embedding services.
func (s *CatalogService[T, K]) TxManager() tx.Manager {
	return s.txManager
}

// EntityName returns the display name used in error messages.
func (s *CatalogService[T, K]) EntityName() string {
	return s.entityName
}

func (s *CatalogService[T, K]) normalizeValidationErr(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apperror.AsAppError(err); ok {
		return err
	}
	return apperror.NewValidation(err.Error())
}

// NormalizeGetErr maps a repository lookup error to the service's entity name.
func (s *CatalogService[T, K]) NormalizeGetErr(err error, entityID any) error {
	if err == nil {
		return nil
	}
	if apperror.IsNotFound(err) {
		return apperror.NewNotFound(s.entityName, entityID)
	}
	if _, ok := apperror.AsAppError(err); ok {
		return err
	}
	return apperror.NewInternal(err).WithDetail("entity", s.entityName).WithDetail("id", fmt.Sprint(entityID))
}

// Create creates a new entity.
func (s *CatalogService[T, K]) Create(ctx context.Context, entity T) error {
	if err := entity.Validate(ctx); err != nil {
		return s.normalizeValidationErr(err)
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.hooks.Run(ctx, BeforeCreate, entity); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, entity); err != nil {
			return fmt.Errorf("create %s: %w", s.entityName, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "entity created", "entity", s.entityName, "id", entity.GetID().String())
	return nil
}

// GetByID retrieves entity by ID.
func (s *CatalogService[T, K]) GetByID(ctx context.Context, entityID id.Of[K]) (T, error) {
	entity, err := s.repo.GetByID(ctx, entityID)
	if err != nil {
		return entity, s.NormalizeGetErr(err, entityID)
	}
	return entity, nil
}

// Update loads the entity, lets apply mutate it and saves it in one transaction.
func (s *CatalogService[T, K]) Update(ctx context.Context, entityID id.Of[K], apply func(T) error) (T, error) {
	var updated T
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		entity, err := s.repo.GetByID(ctx, entityID)
		if err != nil {
			return s.NormalizeGetErr(err, entityID)
		}
		if err := apply(entity); err != nil {
			return s.normalizeValidationErr(err)
		}
		if err := entity.Validate(ctx); err != nil {
			return s.normalizeValidationErr(err)
		}
		if err := s.hooks.Run(ctx, BeforeUpdate, entity); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, entity); err != nil {
			return fmt.Errorf("update %s: %w", s.entityName, err)
		}
		updated = entity
		return nil
	})
	return updated, err
}

// Delete removes the entity after before-delete hooks approve it.
func (s *CatalogService[T, K]) Delete(ctx context.Context, entityID id.Of[K]) error {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		entity, err := s.repo.GetByID(ctx, entityID)
		if err != nil {
			return s.NormalizeGetErr(err, entityID)
		}
		if err := s.hooks.Run(ctx, BeforeDelete, entity); err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, entityID); err != nil {
			return fmt.Errorf("delete %s: %w", s.entityName, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "entity deleted", "entity", s.entityName, "id", entityID.String())
	return nil
}

// List retrieves entities with filtering.
func (s *CatalogService[T, K]) List(ctx context.Context, filter ListFilter) (ListResult[T], error) {
	return s.repo.List(ctx, filter)
}
