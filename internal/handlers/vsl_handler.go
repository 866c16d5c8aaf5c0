package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/infinito/platform/internal/models"
	"go.uber.org/zap"
)

// VSLService is the interface that wraps methods for the welcome video settings.
type VSLService interface {
	// Method Get retrieve the settings, with defaults for anything never saved.
	Get(ctx context.Context) (*models.VSLSettings, error)
	// Method Save replace the settings as a whole.
	Save(ctx context.Context, settings *models.VSLSettings) error
	// Method Resolve build the playable login page video for "device" ("android" or "iphone").
	//
	// An empty "device" uses the device selected by the admin.
	Resolve(ctx context.Context, device string) (*models.ResolvedVideo, error)
	// Method WelcomeVideo build the thank-you page video.
	WelcomeVideo(ctx context.Context) (*models.ResolvedVideo, error)
}

// VSLHandler handles welcome video requests
type VSLHandler struct {
	BaseHandler
	vslService VSLService
}

// NewVSLHandler creates a new VSL handler
func NewVSLHandler(vslService VSLService, validator RequestValidator, logger *zap.Logger) *VSLHandler {
	return &VSLHandler{
		BaseHandler: BaseHandler{Logger: logger, Validator: validator},
		vslService:  vslService,
	}
}

// RegisterPublicRoutes registers the video routes used by the login and thank-you pages
func (h *VSLHandler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/vsl", h.Resolve)
	r.Get("/welcome-video", h.WelcomeVideo)
}

// RegisterAdminRoutes registers the settings routes
func (h *VSLHandler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/vsl", h.GetSettings)
	r.Put("/vsl", h.SaveSettings)
}

// Resolve handles GET /vsl
// @Summary Login page video
// @Tags vsl
// @Produce json
// @Param device query string false "android or iphone, default: the device selected by the admin"
// @Success 200 {object} models.ResolvedVideo
// @Router /vsl [get]
func (h *VSLHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	video, err := h.vslService.Resolve(r.Context(), r.URL.Query().Get("device"))
	if err != nil {
		h.RespondServiceError(w, err, "failed to resolve vsl")
		return
	}
	h.RespondJSON(w, http.StatusOK, video)
}

// WelcomeVideo handles GET /welcome-video
// @Summary Thank-you page video
// @Tags vsl
// @Produce json
// @Success 200 {object} models.ResolvedVideo
// @Router /welcome-video [get]
func (h *VSLHandler) WelcomeVideo(w http.ResponseWriter, r *http.Request) {
	video, err := h.vslService.WelcomeVideo(r.Context())
	if err != nil {
		h.RespondServiceError(w, err, "failed to resolve welcome video")
		return
	}
	h.RespondJSON(w, http.StatusOK, video)
}

// GetSettings handles GET /admin/vsl
// @Summary Get VSL settings
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.VSLSettings
// @Router /admin/vsl [get]
func (h *VSLHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.vslService.Get(r.Context())
	if err != nil {
		h.RespondServiceError(w, err, "failed to get vsl settings")
		return
	}
	h.RespondJSON(w, http.StatusOK, settings)
}

// SaveSettings handles PUT /admin/vsl
// @Summary Save VSL settings
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.VSLSettings true "Settings"
// @Success 200 {object} models.VSLSettings
// @Failure 400 {object} map[string]string
// @Router /admin/vsl [put]
func (h *VSLHandler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	settings := models.DefaultVSLSettings()
	if err := h.DecodeAndValidate(r, &settings); err != nil {
		h.RespondServiceError(w, err, "failed to decode vsl settings")
		return
	}

	if err := h.vslService.Save(r.Context(), &settings); err != nil {
		h.RespondServiceError(w, err, "failed to save vsl settings")
		return
	}
	h.RespondJSON(w, http.StatusOK, settings)
}
