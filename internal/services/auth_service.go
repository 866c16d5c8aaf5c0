package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/infinito/platform/internal/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AccountRepository is the interface that wraps profile access needed for authentication
type AccountRepository interface {
	// Method GetByEmail retrieve a profile by its email address.
	//
	// If no profile matches, an error wrapping models.ErrNotFound is returned together with "nil" value.
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
	// Method Create insert a new profile and set its ID.
	//
	// If the email is already taken, an error wrapping models.ErrConflict is returned.
	Create(ctx context.Context, p *models.Profile) error
	// Method UpdatePassword replace the password hash of the profile with the given email.
	UpdatePassword(ctx context.Context, email, passwordHash string) error
}

// TokenIssuer issues session tokens carrying the caller identity
type TokenIssuer interface {
	GenerateAccessToken(userID int, role models.Role) (string, error)
}

const minPasswordLength = 8

type authService struct {
	repo   AccountRepository
	tokens TokenIssuer
	logger *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(repo AccountRepository, tokens TokenIssuer, logger *zap.Logger) *authService {
	return &authService{
		repo:   repo,
		tokens: tokens,
		logger: logger,
	}
}

// Login checks the credentials and issues an access token.
// Unknown email and wrong password both return models.ErrUnauthorized.
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	email := normalizeEmail(req.Email)

	profile, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrUnauthorized
		}
		s.logger.Error("failed to get profile for login", zap.Error(err))
		return nil, fmt.Errorf("failed to login: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(req.Password)); err != nil {
		return nil, models.ErrUnauthorized
	}

	token, err := s.tokens.GenerateAccessToken(profile.ID, profile.Role)
	if err != nil {
		s.logger.Error("failed to generate access token", zap.Int("user_id", profile.ID), zap.Error(err))
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &models.LoginResponse{AccessToken: token, User: profile}, nil
}

// CreateAdmin creates an admin profile with the given password
func (s *authService) CreateAdmin(ctx context.Context, email, name, password string) (*models.Profile, error) {
	email = normalizeEmail(email)
	name = strings.TrimSpace(name)
	if email == "" || name == "" {
		return nil, fmt.Errorf("%w: email and name are required", models.ErrInvalidInput)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	p := &models.Profile{
		Name:         name,
		Email:        email,
		Role:         models.RoleAdmin,
		DeviceType:   models.DefaultDevice,
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}
	return p, nil
}

// SetPassword replaces the password of the profile with the given email
func (s *authService) SetPassword(ctx context.Context, email, password string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, normalizeEmail(email), hash); err != nil {
		return fmt.Errorf("failed to set password: %w", err)
	}
	return nil
}

// HashPassword hashes a password with bcrypt after checking its length
func HashPassword(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", fmt.Errorf("%w: password must be at least %d characters", models.ErrInvalidInput, minPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
