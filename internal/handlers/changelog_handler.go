package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/infinito/platform/internal/models"
	"go.uber.org/zap"
)

// ChangelogService is the interface that wraps methods for release notes
type ChangelogService interface {
	List(ctx context.Context) ([]models.ChangelogEntry, error)
	Current(ctx context.Context) (*models.ChangelogEntry, error)
	Create(ctx context.Context, req *models.ChangelogRequest) (*models.ChangelogEntry, error)
	Update(ctx context.Context, id int, req *models.ChangelogRequest) (*models.ChangelogEntry, error)
	Delete(ctx context.Context, id int, confirm bool) error
}

// ChangelogHandler handles changelog requests
type ChangelogHandler struct {
	BaseHandler
	changelogService ChangelogService
}

// NewChangelogHandler creates a new changelog handler
func NewChangelogHandler(changelogService ChangelogService, validator RequestValidator, logger *zap.Logger) *ChangelogHandler {
	return &ChangelogHandler{
		BaseHandler:      BaseHandler{Logger: logger, Validator: validator},
		changelogService: changelogService,
	}
}

// RegisterAdminRoutes registers the changelog routes
func (h *ChangelogHandler) RegisterAdminRoutes(r chi.Router) {
	r.Route("/changelog", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/current", h.Current)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// List handles GET /admin/changelog
// @Summary List changelog entries
// @Description Newest release first
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} models.ChangelogEntry
// @Router /admin/changelog [get]
func (h *ChangelogHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.changelogService.List(r.Context())
	if err != nil {
		h.RespondServiceError(w, err, "failed to list changelog")
		return
	}
	h.RespondJSON(w, http.StatusOK, entries)
}

// Current handles GET /admin/changelog/current
// @Summary Current platform version
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.ChangelogEntry
// @Failure 404 {object} map[string]string
// @Router /admin/changelog/current [get]
func (h *ChangelogHandler) Current(w http.ResponseWriter, r *http.Request) {
	entry, err := h.changelogService.Current(r.Context())
	if err != nil {
		h.RespondServiceError(w, err, "failed to get current version")
		return
	}
	h.RespondJSON(w, http.StatusOK, entry)
}

// Create handles POST /admin/changelog
// @Summary Create changelog entry
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.ChangelogRequest true "Entry"
// @Success 201 {object} models.ChangelogEntry
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string "Version already exists"
// @Router /admin/changelog [post]
func (h *ChangelogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.ChangelogRequest
	if err := h.DecodeAndValidate(r, &req); err != nil {
		h.RespondServiceError(w, err, "failed to decode changelog request")
		return
	}

	entry, err := h.changelogService.Create(r.Context(), &req)
	if err != nil {
		h.RespondServiceError(w, err, "failed to create changelog entry")
		return
	}
	h.RespondJSON(w, http.StatusCreated, entry)
}

// Update handles PUT /admin/changelog/{id}
// @Summary Update changelog entry
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Entry ID"
// @Param request body models.ChangelogRequest true "Entry"
// @Success 200 {object} models.ChangelogEntry
// @Failure 404 {object} map[string]string
// @Router /admin/changelog/{id} [put]
func (h *ChangelogHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := URLParamID(r, "id")
	if err != nil {
		h.RespondServiceError(w, err, "invalid changelog id")
		return
	}
	var req models.ChangelogRequest
	if err := h.DecodeAndValidate(r, &req); err != nil {
		h.RespondServiceError(w, err, "failed to decode changelog request")
		return
	}

	entry, err := h.changelogService.Update(r.Context(), id, &req)
	if err != nil {
		h.RespondServiceError(w, err, "failed to update changelog entry")
		return
	}
	h.RespondJSON(w, http.StatusOK, entry)
}

// Delete handles DELETE /admin/changelog/{id}
// @Summary Delete changelog entry
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Entry ID"
// @Param confirm query bool true "Must be true"
// @Success 200 {object} map[string]string
// @Router /admin/changelog/{id} [delete]
func (h *ChangelogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := URLParamID(r, "id")
	if err != nil {
		h.RespondServiceError(w, err, "invalid changelog id")
		return
	}
	if err := h.changelogService.Delete(r.Context(), id, Confirmed(r)); err != nil {
		h.RespondServiceError(w, err, "failed to delete changelog entry")
		return
	}
	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "entry deleted"})
}
