package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/infinito/platform/internal/models"
	"go.uber.org/zap"
)

// ProfileRepository is the interface that wraps profile reads and device preference updates
type ProfileRepository interface {
	// Method GetByID retrieve a profile by its ID.
	//
	// If no profile matches, an error wrapping models.ErrNotFound is returned together with "nil" value.
	GetByID(ctx context.Context, id int) (*models.Profile, error)
	// Method GetDevice retrieve the device preference of a user.
	//
	// A user without a stored preference gets models.DefaultDevice.
	GetDevice(ctx context.Context, userID int) (models.DeviceType, error)
	// Method UpdateDevice store the device preference of a user.
	UpdateDevice(ctx context.Context, userID int, device models.DeviceType) error
	// Method List retrieve a page of profiles matching "search" by name or email, with the total match count.
	List(ctx context.Context, search string, page, count int) ([]models.Profile, int, error)
}

type profileService struct {
	repo   ProfileRepository
	logger *zap.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(repo ProfileRepository, logger *zap.Logger) *profileService {
	return &profileService{
		repo:   repo,
		logger: logger,
	}
}

// GetProfile returns the profile of the user
func (s *profileService) GetProfile(ctx context.Context, userID int) (*models.Profile, error) {
	p, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

// GetDevice returns the user's device preference
func (s *profileService) GetDevice(ctx context.Context, userID int) (models.DeviceType, error) {
	device, err := s.repo.GetDevice(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to get device: %w", err)
	}
	return device, nil
}

// UpdateDevice stores the user's device preference
func (s *profileService) UpdateDevice(ctx context.Context, userID int, device models.DeviceType) error {
	if models.ParseDevice(string(device)) != device {
		return fmt.Errorf("%w: unknown device %q", models.ErrInvalidInput, device)
	}
	if err := s.repo.UpdateDevice(ctx, userID, device); err != nil {
		return fmt.Errorf("failed to update device: %w", err)
	}
	s.logger.Info("device preference updated", zap.Int("user_id", userID), zap.String("device", string(device)))
	return nil
}

// ListUsers returns a page of profiles for the admin users screen
func (s *profileService) ListUsers(ctx context.Context, search string, page, count int) (*models.ProfileListResponse, error) {
	items, total, err := s.repo.List(ctx, strings.TrimSpace(search), page, count)
	if err != nil {
		s.logger.Error("failed to list users", zap.Error(err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return &models.ProfileListResponse{Items: items, Total: total, Page: page, Count: count}, nil
}
