package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/infinito/platform/internal/events"
	"github.com/infinito/platform/internal/models"
	"go.uber.org/zap"
)

// OfferRepository is the interface that wraps access to course sidebar offers
type OfferRepository interface {
	List(ctx context.Context) ([]models.SidebarOffer, error)
	ListActive(ctx context.Context) ([]models.SidebarOffer, error)
	GetByID(ctx context.Context, id int) (*models.SidebarOffer, error)
	// Method Create insert an offer and set its ID.
	//
	// An offer created with models.OfferKeyCrossSell replaces the current featured offer atomically.
	Create(ctx context.Context, o *models.SidebarOffer) error
	// Method Update replace an offer by its ID.
	//
	// Please reference Create method for the featured offer rule.
	Update(ctx context.Context, o *models.SidebarOffer) error
	// Method SetFeatured make the offer the only one holding models.OfferKeyCrossSell.
	//
	// The previous featured offer is demoted to models.OfferKeyGeneric in the same transaction,
	// so after any failure the previous state is kept.
	SetFeatured(ctx context.Context, id int) error
	Delete(ctx context.Context, id int) error
	Stats(ctx context.Context) (*models.OfferStats, error)
}

type offerService struct {
	repo      OfferRepository
	publisher ChangePublisher
	logger    *zap.Logger
}

// NewOfferService creates a new offer service
func NewOfferService(repo OfferRepository, publisher ChangePublisher, logger *zap.Logger) *offerService {
	return &offerService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// List returns every offer for the admin screen
func (s *offerService) List(ctx context.Context) ([]models.SidebarOffer, error) {
	offers, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list offers", zap.Error(err))
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}
	return offers, nil
}

// Sidebar returns the active offers shown next to course content
func (s *offerService) Sidebar(ctx context.Context) ([]models.SidebarOffer, error) {
	offers, err := s.repo.ListActive(ctx)
	if err != nil {
		s.logger.Error("failed to list active offers", zap.Error(err))
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}
	return offers, nil
}

// Get returns one offer
func (s *offerService) Get(ctx context.Context, id int) (*models.SidebarOffer, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get offer: %w", err)
	}
	return o, nil
}

// Create creates an offer from the admin form
func (s *offerService) Create(ctx context.Context, req *models.OfferRequest) (*models.SidebarOffer, error) {
	o := offerFromRequest(req)
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to create offer: %w", err)
	}
	s.publisher.Publish(ctx, events.TableSidebarOffers, events.ActionInsert, o.ID)
	return s.reload(ctx, o.ID)
}

// Update replaces an offer from the admin form
func (s *offerService) Update(ctx context.Context, id int, req *models.OfferRequest) (*models.SidebarOffer, error) {
	o := offerFromRequest(req)
	o.ID = id
	if err := s.repo.Update(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to update offer: %w", err)
	}
	s.publisher.Publish(ctx, events.TableSidebarOffers, events.ActionUpdate, id)
	return s.reload(ctx, id)
}

// reload reads back a written offer so the response carries the stored row
func (s *offerService) reload(ctx context.Context, id int) (*models.SidebarOffer, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to reload offer", zap.Int("offer_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to reload offer: %w", err)
	}
	return o, nil
}

// SetFeatured makes the offer the single featured (cross-sell) offer
func (s *offerService) SetFeatured(ctx context.Context, id int) error {
	if err := s.repo.SetFeatured(ctx, id); err != nil {
		s.logger.Error("failed to set featured offer", zap.Int("offer_id", id), zap.Error(err))
		return fmt.Errorf("failed to set featured offer: %w", err)
	}
	s.logger.Info("featured offer changed", zap.Int("offer_id", id))
	s.publisher.Publish(ctx, events.TableSidebarOffers, events.ActionUpdate, id)
	return nil
}

// Delete permanently removes an offer once confirmed
func (s *offerService) Delete(ctx context.Context, id int, confirm bool) error {
	if !confirm {
		return models.ErrConfirmationRequired
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete offer: %w", err)
	}
	s.publisher.Publish(ctx, events.TableSidebarOffers, events.ActionDelete, id)
	return nil
}

// Stats summarizes the offers for the admin screen
func (s *offerService) Stats(ctx context.Context) (*models.OfferStats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get offer stats: %w", err)
	}
	return stats, nil
}

// offerFromRequest maps the form to an offer, defaulting missing prices to zero
func offerFromRequest(req *models.OfferRequest) *models.SidebarOffer {
	o := &models.SidebarOffer{
		Key:         req.Key,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		ButtonText:  strings.TrimSpace(req.ButtonText),
		ButtonURL:   strings.TrimSpace(req.ButtonURL),
		BadgeText:   req.BadgeText,
		IsActive:    req.IsActive,
	}
	if req.PriceOriginal != nil {
		o.PriceOriginal = *req.PriceOriginal
	}
	if req.PricePromotional != nil {
		o.PricePromotional = *req.PricePromotional
	}
	return o
}
