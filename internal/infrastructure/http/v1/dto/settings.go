package dto

import "essenceflow/internal/domain/settings"

// CategoryDTO is a configured inventory category and its unit.
type CategoryDTO struct {
	Name string `json:"name" binding:"required,max=50"`
	Unit string `json:"unit" binding:"required,max=20"`
}

// UpdateSettingsRequest for PUT /settings. Absent fields are kept.
type UpdateSettingsRequest struct {
	Name       *string       `json:"name" binding:"omitempty,max=200"`
	Caption    *string       `json:"caption" binding:"omitempty,max=200"`
	Email      *string       `json:"email" binding:"omitempty,email"`
	LogoURL    *string       `json:"logoUrl" binding:"omitempty,max=500"`
	Categories []CategoryDTO `json:"categories" binding:"omitempty,dive"`
}

// ToDomain converts to the settings update.
func (r *UpdateSettingsRequest) ToDomain() settings.UpdateRequest {
	var categories []settings.Category
	if r.Categories != nil {
		categories = make([]settings.Category, 0, len(r.Categories))
		for _, c := range r.Categories {
			categories = append(categories, settings.Category{Name: c.Name, Unit: c.Unit})
		}
	}
	return settings.UpdateRequest{
		Name:       r.Name,
		Caption:    r.Caption,
		Email:      r.Email,
		LogoURL:    r.LogoURL,
		Categories: categories,
	}
}
