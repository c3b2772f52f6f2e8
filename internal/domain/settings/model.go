// Package settings holds the business profile shown on receipts and the
// category/unit vocabulary used by inventory forms.
package settings

import (
	"context"
	"strings"

	"essenceflow/internal/core/apperror"
	"essenceflow/internal/core/entity"
)

// DefaultName is the business name used until one is saved.
const DefaultName = "EssenceFlow"

// Category pairs an inventory category with its unit of measure.
type Category struct {
	Name string `json:"name"`
	Unit string `json:"unit"`
}

// BusinessSettings is the single settings record.
type BusinessSettings struct {
	Name       string     `json:"name"`
	Caption    string     `json:"caption"`
	Email      string     `json:"email"`
	LogoURL    string     `json:"logoUrl"`
	Categories []Category `json:"categories"`

	entity.Audit
}

// Default returns the settings served before any update.
func Default() *BusinessSettings {
	return &BusinessSettings{
		Name: DefaultName,
		Categories: []Category{
			{Name: "OIL", Unit: "ml"},
			{Name: "BOTTLE", Unit: "pcs"},
			{Name: "CAP", Unit: "pcs"},
		},
		Audit: entity.NewAudit(),
	}
}

// Validate implements entity.Validatable.
func (s *BusinessSettings) Validate(ctx context.Context) error {
	if strings.TrimSpace(s.Name) == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	seen := make(map[string]struct{}, len(s.Categories))
	for i, c := range s.Categories {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return apperror.NewValidation("category name is required").WithDetail("index", i)
		}
		key := strings.ToUpper(name)
		if _, dup := seen[key]; dup {
			return apperror.NewValidation("duplicate category").WithDetail("category", name)
		}
		seen[key] = struct{}{}
	}
	return nil
}
