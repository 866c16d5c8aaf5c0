package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/infinito/platform/internal/navigation"
	"go.uber.org/zap"
)

// NavigationHandler tells the front end where a path belongs
type NavigationHandler struct {
	BaseHandler
}

// NewNavigationHandler creates a new navigation handler
func NewNavigationHandler(logger *zap.Logger) *NavigationHandler {
	return &NavigationHandler{BaseHandler: BaseHandler{Logger: logger}}
}

// RegisterRoutes registers the navigation route
func (h *NavigationHandler) RegisterRoutes(r chi.Router) {
	r.Get("/navigation", h.Resolve)
}

// Resolve handles GET /navigation
// @Summary Resolve a front-end path
// @Description Section, legacy redirect and bottom navigation visibility of a path
// @Tags navigation
// @Produce json
// @Param path query string true "Front-end path"
// @Success 200 {object} navigation.Route
// @Failure 400 {object} map[string]string
// @Router /navigation [get]
func (h *NavigationHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		h.RespondError(w, http.StatusBadRequest, "path parameter is required")
		return
	}
	h.RespondJSON(w, http.StatusOK, navigation.Resolve(path))
}
