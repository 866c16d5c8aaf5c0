package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	authmw "github.com/infinito/platform/internal/auth/middleware"
	"github.com/infinito/platform/internal/models"
	"go.uber.org/zap"
)

// ProfileService is the interface that wraps methods for profile business logic.
type ProfileService interface {
	// Method GetProfile retrieve the profile of a user.
	//
	// If the user does not exist, an error wrapping models.ErrNotFound is returned together with "nil" value.
	GetProfile(ctx context.Context, userID int) (*models.Profile, error)
	// Method GetDevice retrieve the device preference of a user, models.DefaultDevice when none is stored.
	GetDevice(ctx context.Context, userID int) (models.DeviceType, error)
	// Method UpdateDevice store the device preference of a user.
	//
	// An unknown device returns an error wrapping models.ErrInvalidInput.
	UpdateDevice(ctx context.Context, userID int, device models.DeviceType) error
	// Method ListUsers retrieve a page of profiles whose name or email contains "search".
	ListUsers(ctx context.Context, search string, page, count int) (*models.ProfileListResponse, error)
}

// ProfileHandler handles profile requests for students and the admin users screen
type ProfileHandler struct {
	BaseHandler
	profileService ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService ProfileService, validator RequestValidator, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler:    BaseHandler{Logger: logger, Validator: validator},
		profileService: profileService,
	}
}

// RegisterStudentRoutes registers the routes of the caller's own profile
func (h *ProfileHandler) RegisterStudentRoutes(r chi.Router) {
	r.Route("/profile", func(r chi.Router) {
		r.Get("/", h.GetProfile)
		r.Get("/device", h.GetDevice)
		r.Put("/device", h.UpdateDevice)
	})
}

// RegisterAdminRoutes registers the admin users routes
func (h *ProfileHandler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/users", h.ListUsers)
}

// GetProfile handles GET /student/profile
// @Summary Get own profile
// @Tags profile
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.Profile
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /student/profile [get]
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := authmw.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	profile, err := h.profileService.GetProfile(r.Context(), userID)
	if err != nil {
		h.RespondServiceError(w, err, "failed to get profile")
		return
	}

	h.RespondJSON(w, http.StatusOK, profile)
}

// GetDevice handles GET /student/profile/device
// @Summary Get device preference
// @Description Device used to pick the welcome video. Defaults to iphone.
// @Tags profile
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.DeviceResponse
// @Failure 401 {object} map[string]string
// @Router /student/profile/device [get]
func (h *ProfileHandler) GetDevice(w http.ResponseWriter, r *http.Request) {
	userID, ok := authmw.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	device, err := h.profileService.GetDevice(r.Context(), userID)
	if err != nil {
		h.RespondServiceError(w, err, "failed to get device")
		return
	}

	h.RespondJSON(w, http.StatusOK, models.DeviceResponse{DeviceType: device})
}

// UpdateDevice handles PUT /student/profile/device
// @Summary Update device preference
// @Tags profile
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.UpdateDeviceRequest true "Device"
// @Success 200 {object} models.DeviceResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /student/profile/device [put]
func (h *ProfileHandler) UpdateDevice(w http.ResponseWriter, r *http.Request) {
	userID, ok := authmw.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req models.UpdateDeviceRequest
	if err := h.DecodeAndValidate(r, &req); err != nil {
		h.RespondServiceError(w, err, "failed to decode device request")
		return
	}

	if err := h.profileService.UpdateDevice(r.Context(), userID, req.DeviceType); err != nil {
		h.RespondServiceError(w, err, "failed to update device")
		return
	}

	h.RespondJSON(w, http.StatusOK, models.DeviceResponse{DeviceType: req.DeviceType})
}

// ListUsers handles GET /admin/users
// @Summary List users
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param search query string false "Name or email fragment"
// @Param page query int false "Page number, default 1"
// @Param count query int false "Page size, default 20"
// @Success 200 {object} models.ProfileListResponse
// @Failure 500 {object} map[string]string
// @Router /admin/users [get]
func (h *ProfileHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, count := Pagination(r)

	resp, err := h.profileService.ListUsers(r.Context(), r.URL.Query().Get("search"), page, count)
	if err != nil {
		h.RespondServiceError(w, err, "failed to list users")
		return
	}

	h.RespondJSON(w, http.StatusOK, resp)
}
