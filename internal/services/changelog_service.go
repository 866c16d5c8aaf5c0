package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/infinito/platform/internal/events"
	"github.com/infinito/platform/internal/models"
	"go.uber.org/zap"
)

// ChangelogRepository is the interface that wraps access to release notes
type ChangelogRepository interface {
	List(ctx context.Context) ([]models.ChangelogEntry, error)
	// Method Latest retrieve the entry with the newest release date.
	//
	// If there are no entries, an error wrapping models.ErrNotFound is returned.
	Latest(ctx context.Context) (*models.ChangelogEntry, error)
	Create(ctx context.Context, e *models.ChangelogEntry) error
	Update(ctx context.Context, e *models.ChangelogEntry) error
	Delete(ctx context.Context, id int) error
}

type changelogService struct {
	repo      ChangelogRepository
	publisher ChangePublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewChangelogService creates a new changelog service
func NewChangelogService(repo ChangelogRepository, publisher ChangePublisher, logger *zap.Logger) *changelogService {
	return &changelogService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// List returns every entry, newest first
func (s *changelogService) List(ctx context.Context) ([]models.ChangelogEntry, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list changelog", zap.Error(err))
		return nil, fmt.Errorf("failed to list changelog: %w", err)
	}
	return entries, nil
}

// Current returns the newest entry, which is the running platform version
func (s *changelogService) Current(ctx context.Context) (*models.ChangelogEntry, error) {
	e, err := s.repo.Latest(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current version: %w", err)
	}
	return e, nil
}

// Create adds an entry
func (s *changelogService) Create(ctx context.Context, req *models.ChangelogRequest) (*models.ChangelogEntry, error) {
	e, err := s.entryFromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to create changelog entry: %w", err)
	}
	s.publisher.Publish(ctx, events.TableChangelog, events.ActionInsert, e.ID)
	return e, nil
}

// Update replaces an entry
func (s *changelogService) Update(ctx context.Context, id int, req *models.ChangelogRequest) (*models.ChangelogEntry, error) {
	e, err := s.entryFromRequest(req)
	if err != nil {
		return nil, err
	}
	e.ID = id
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to update changelog entry: %w", err)
	}
	s.publisher.Publish(ctx, events.TableChangelog, events.ActionUpdate, id)
	return e, nil
}

// Delete permanently removes an entry once confirmed
func (s *changelogService) Delete(ctx context.Context, id int, confirm bool) error {
	if !confirm {
		return models.ErrConfirmationRequired
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete changelog entry: %w", err)
	}
	s.publisher.Publish(ctx, events.TableChangelog, events.ActionDelete, id)
	return nil
}

func (s *changelogService) entryFromRequest(req *models.ChangelogRequest) (*models.ChangelogEntry, error) {
	release := s.now().UTC().Truncate(24 * time.Hour)
	if req.ReleaseDate != "" {
		d, err := time.Parse(time.DateOnly, req.ReleaseDate)
		if err != nil {
			return nil, fmt.Errorf("%w: releaseDate must be YYYY-MM-DD", models.ErrInvalidInput)
		}
		release = d
	}

	keywords := make([]string, 0, len(req.Keywords))
	for _, k := range req.Keywords {
		if k = strings.TrimSpace(k); k != "" {
			keywords = append(keywords, k)
		}
	}

	return &models.ChangelogEntry{
		Version:     strings.TrimSpace(req.Version),
		Title:       strings.TrimSpace(req.Title),
		Type:        req.Type,
		Keywords:    keywords,
		ReleaseDate: release,
	}, nil
}
