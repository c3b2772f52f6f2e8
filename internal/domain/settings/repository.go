package settings

import "context"

// Repository stores the single settings record.
type Repository interface {
	// Get returns the stored settings or a NOT_FOUND error when none were saved.
	Get(ctx context.Context) (*BusinessSettings, error)
	Save(ctx context.Context, s *BusinessSettings) error
}
