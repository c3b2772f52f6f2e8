package handlers

import (
	"github.com/gin-gonic/gin"

	"essenceflow/internal/domain/dashboard"
	"essenceflow/internal/domain/settings"
	"essenceflow/internal/infrastructure/http/v1/dto"
)

// DashboardHandler serves the aggregated business stats.
type DashboardHandler struct {
	*BaseHandler
	service *dashboard.Service
	config  dashboard.Config
}

// NewDashboardHandler creates a dashboard handler computing with cfg.
func NewDashboardHandler(base *BaseHandler, service *dashboard.Service, cfg dashboard.Config) *DashboardHandler {
	return &DashboardHandler{BaseHandler: base, service: service, config: cfg}
}

// Get handles GET /dashboard
func (h *DashboardHandler) Get(c *gin.Context) {
	stats, err := h.service.Get(c.Request.Context(), h.config)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, stats)
}

// SettingsHandler serves business settings.
type SettingsHandler struct {
	*BaseHandler
	service *settings.Service
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(base *BaseHandler, service *settings.Service) *SettingsHandler {
	return &SettingsHandler{BaseHandler: base, service: service}
}

// Get handles GET /settings
func (h *SettingsHandler) Get(c *gin.Context) {
	s, err := h.service.Get(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, s)
}

// Update handles PUT /settings
func (h *SettingsHandler) Update(c *gin.Context) {
	var req dto.UpdateSettingsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	s, err := h.service.Update(c.Request.Context(), req.ToDomain())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, s)
}
