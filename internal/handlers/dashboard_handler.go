package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/infinito/platform/internal/models"
	"go.uber.org/zap"
)

// DashboardService is the interface that wraps the dashboard aggregation.
type DashboardService interface {
	// Method Snapshot compute the dashboard metrics.
	//
	// When a read fails and an earlier snapshot exists, that snapshot is returned with Stale set.
	Snapshot(ctx context.Context) (*models.DashboardSnapshot, error)
}

// DashboardHandler handles the admin dashboard
type DashboardHandler struct {
	BaseHandler
	dashboardService DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler:      BaseHandler{Logger: logger},
		dashboardService: dashboardService,
	}
}

// RegisterAdminRoutes registers the dashboard route
func (h *DashboardHandler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/dashboard", h.Snapshot)
}

// Snapshot handles GET /admin/dashboard
// @Summary Dashboard metrics
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.DashboardSnapshot
// @Failure 500 {object} map[string]string
// @Router /admin/dashboard [get]
func (h *DashboardHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.dashboardService.Snapshot(r.Context())
	if err != nil {
		h.RespondServiceError(w, err, "failed to build dashboard")
		return
	}
	h.RespondJSON(w, http.StatusOK, snapshot)
}
