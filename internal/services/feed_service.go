package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/infinito/platform/internal/models"
	"go.uber.org/zap"
)

// FeedRepository is the interface that wraps access to community posts
type FeedRepository interface {
	ListPosts(ctx context.Context, page, count int) ([]models.Post, error)
	CreatePost(ctx context.Context, p *models.Post) error
	DeletePost(ctx context.Context, id int) error
	ListComments(ctx context.Context, postID int) ([]models.Comment, error)
	CreateComment(ctx context.Context, c *models.Comment) error
	DeleteComment(ctx context.Context, id int) error
	// Method Like record a like of "userID" on a post and report whether it is new.
	//
	// Repeated likes by the same user are ignored.
	Like(ctx context.Context, postID, userID int) (bool, error)
}

type feedService struct {
	repo   FeedRepository
	logger *zap.Logger
}

// NewFeedService creates a new feed service
func NewFeedService(repo FeedRepository, logger *zap.Logger) *feedService {
	return &feedService{
		repo:   repo,
		logger: logger,
	}
}

// ListPosts returns a page of posts, newest first
func (s *feedService) ListPosts(ctx context.Context, page, count int) ([]models.Post, error) {
	posts, err := s.repo.ListPosts(ctx, page, count)
	if err != nil {
		s.logger.Error("failed to list posts", zap.Error(err))
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// CreatePost publishes a post by authorID
func (s *feedService) CreatePost(ctx context.Context, authorID int, content string) (*models.Post, error) {
	p := &models.Post{AuthorID: authorID, Content: strings.TrimSpace(content)}
	if err := s.repo.CreatePost(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return p, nil
}

// DeletePost permanently removes a post once confirmed
func (s *feedService) DeletePost(ctx context.Context, id int, confirm bool) error {
	if !confirm {
		return models.ErrConfirmationRequired
	}
	if err := s.repo.DeletePost(ctx, id); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}

// ListComments returns the comments of a post, oldest first
func (s *feedService) ListComments(ctx context.Context, postID int) ([]models.Comment, error) {
	comments, err := s.repo.ListComments(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// Comment adds a comment by authorID to a post
func (s *feedService) Comment(ctx context.Context, postID, authorID int, content string) (*models.Comment, error) {
	c := &models.Comment{PostID: postID, AuthorID: authorID, Content: strings.TrimSpace(content)}
	if err := s.repo.CreateComment(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to comment: %w", err)
	}
	return c, nil
}

// DeleteComment permanently removes a comment once confirmed
func (s *feedService) DeleteComment(ctx context.Context, id int, confirm bool) error {
	if !confirm {
		return models.ErrConfirmationRequired
	}
	if err := s.repo.DeleteComment(ctx, id); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

// Like records a like by userID
func (s *feedService) Like(ctx context.Context, postID, userID int) (bool, error) {
	liked, err := s.repo.Like(ctx, postID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to like post: %w", err)
	}
	return liked, nil
}
