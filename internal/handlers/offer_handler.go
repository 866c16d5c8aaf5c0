package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/infinito/platform/internal/models"
	"go.uber.org/zap"
)

// OfferService is the interface that wraps methods for sidebar offers.
type OfferService interface {
	List(ctx context.Context) ([]models.SidebarOffer, error)
	// Method Sidebar retrieve the active offers shown next to course content.
	Sidebar(ctx context.Context) ([]models.SidebarOffer, error)
	Get(ctx context.Context, id int) (*models.SidebarOffer, error)
	// Method Create insert an offer. A "cross_sell" key makes it the featured offer, demoting the previous one.
	Create(ctx context.Context, req *models.OfferRequest) (*models.SidebarOffer, error)
	// Method Update replace an offer. Please reference Create for the "cross_sell" key behaviour.
	Update(ctx context.Context, id int, req *models.OfferRequest) (*models.SidebarOffer, error)
	// Method SetFeatured make the offer the only "cross_sell" offer.
	//
	// The previous featured offer is demoted in the same transaction. On any failure nothing changes.
	// If the offer does not exist, an error wrapping models.ErrNotFound is returned.
	SetFeatured(ctx context.Context, id int) error
	Delete(ctx context.Context, id int, confirm bool) error
	Stats(ctx context.Context) (*models.OfferStats, error)
}

// OfferHandler handles sidebar offer requests
type OfferHandler struct {
	BaseHandler
	offerService OfferService
}

// NewOfferHandler creates a new offer handler
func NewOfferHandler(offerService OfferService, validator RequestValidator, logger *zap.Logger) *OfferHandler {
	return &OfferHandler{
		BaseHandler:  BaseHandler{Logger: logger, Validator: validator},
		offerService: offerService,
	}
}

// RegisterPublicRoutes registers the offer routes open to every visitor
func (h *OfferHandler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/offers/sidebar", h.Sidebar)
}

// RegisterAdminRoutes registers the offer management routes
func (h *OfferHandler) RegisterAdminRoutes(r chi.Router) {
	r.Route("/offers", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/stats", h.Stats)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Put("/{id}/featured", h.SetFeatured)
		r.Delete("/{id}", h.Delete)
	})
}

// Sidebar handles GET /offers/sidebar
// @Summary Active sidebar offers
// @Tags offers
// @Produce json
// @Success 200 {array} models.SidebarOffer
// @Router /offers/sidebar [get]
func (h *OfferHandler) Sidebar(w http.ResponseWriter, r *http.Request) {
	offers, err := h.offerService.Sidebar(r.Context())
	if err != nil {
		h.RespondServiceError(w, err, "failed to get sidebar offers")
		return
	}
	h.RespondJSON(w, http.StatusOK, offers)
}

// List handles GET /admin/offers
// @Summary List offers
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} models.SidebarOffer
// @Router /admin/offers [get]
func (h *OfferHandler) List(w http.ResponseWriter, r *http.Request) {
	offers, err := h.offerService.List(r.Context())
	if err != nil {
		h.RespondServiceError(w, err, "failed to list offers")
		return
	}
	h.RespondJSON(w, http.StatusOK, offers)
}

// Get handles GET /admin/offers/{id}
// @Summary Get offer
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Offer ID"
// @Success 200 {object} models.SidebarOffer
// @Failure 404 {object} map[string]string
// @Router /admin/offers/{id} [get]
func (h *OfferHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := URLParamID(r, "id")
	if err != nil {
		h.RespondServiceError(w, err, "invalid offer id")
		return
	}
	offer, err := h.offerService.Get(r.Context(), id)
	if err != nil {
		h.RespondServiceError(w, err, "failed to get offer")
		return
	}
	h.RespondJSON(w, http.StatusOK, offer)
}

// Create handles POST /admin/offers
// @Summary Create offer
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.OfferRequest true "Offer"
// @Success 201 {object} models.SidebarOffer
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /admin/offers [post]
func (h *OfferHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.OfferRequest
	if err := h.DecodeAndValidate(r, &req); err != nil {
		h.RespondServiceError(w, err, "failed to decode offer request")
		return
	}

	offer, err := h.offerService.Create(r.Context(), &req)
	if err != nil {
		h.RespondServiceError(w, err, "failed to create offer")
		return
	}
	h.RespondJSON(w, http.StatusCreated, offer)
}

// Update handles PUT /admin/offers/{id}
// @Summary Update offer
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Offer ID"
// @Param request body models.OfferRequest true "Offer"
// @Success 200 {object} models.SidebarOffer
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/offers/{id} [put]
func (h *OfferHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := URLParamID(r, "id")
	if err != nil {
		h.RespondServiceError(w, err, "invalid offer id")
		return
	}
	var req models.OfferRequest
	if err := h.DecodeAndValidate(r, &req); err != nil {
		h.RespondServiceError(w, err, "failed to decode offer request")
		return
	}

	offer, err := h.offerService.Update(r.Context(), id, &req)
	if err != nil {
		h.RespondServiceError(w, err, "failed to update offer")
		return
	}
	h.RespondJSON(w, http.StatusOK, offer)
}

// SetFeatured handles PUT /admin/offers/{id}/featured
// @Summary Make the offer the featured cross-sell
// @Description Demotes the current featured offer to sidebar_generic and activates this one, atomically.
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Offer ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /admin/offers/{id}/featured [put]
func (h *OfferHandler) SetFeatured(w http.ResponseWriter, r *http.Request) {
	id, err := URLParamID(r, "id")
	if err != nil {
		h.RespondServiceError(w, err, "invalid offer id")
		return
	}
	if err := h.offerService.SetFeatured(r.Context(), id); err != nil {
		h.RespondServiceError(w, err, "failed to set featured offer")
		return
	}
	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "featured offer updated"})
}

// Delete handles DELETE /admin/offers/{id}
// @Summary Delete offer
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Offer ID"
// @Param confirm query bool true "Must be true"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /admin/offers/{id} [delete]
func (h *OfferHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := URLParamID(r, "id")
	if err != nil {
		h.RespondServiceError(w, err, "invalid offer id")
		return
	}
	if err := h.offerService.Delete(r.Context(), id, Confirmed(r)); err != nil {
		h.RespondServiceError(w, err, "failed to delete offer")
		return
	}
	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "offer deleted"})
}

// Stats handles GET /admin/offers/stats
// @Summary Offer counts
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.OfferStats
// @Router /admin/offers/stats [get]
func (h *OfferHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.offerService.Stats(r.Context())
	if err != nil {
		h.RespondServiceError(w, err, "failed to get offer stats")
		return
	}
	h.RespondJSON(w, http.StatusOK, stats)
}
