package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	authmw "github.com/infinito/platform/internal/auth/middleware"
	"github.com/infinito/platform/internal/models"
	"go.uber.org/zap"
)

// FeedService is the interface that wraps methods for the community feed
type FeedService interface {
	ListPosts(ctx context.Context, page, count int) ([]models.Post, error)
	CreatePost(ctx context.Context, authorID int, content string) (*models.Post, error)
	DeletePost(ctx context.Context, id int, confirm bool) error
	ListComments(ctx context.Context, postID int) ([]models.Comment, error)
	Comment(ctx context.Context, postID, authorID int, content string) (*models.Comment, error)
	DeleteComment(ctx context.Context, id int, confirm bool) error
	Like(ctx context.Context, postID, userID int) (bool, error)
}

// FeedHandler handles community feed requests
type FeedHandler struct {
	BaseHandler
	feedService FeedService
}

// NewFeedHandler creates a new feed handler
func NewFeedHandler(feedService FeedService, validator RequestValidator, logger *zap.Logger) *FeedHandler {
	return &FeedHandler{
		BaseHandler: BaseHandler{Logger: logger, Validator: validator},
		feedService: feedService,
	}
}

// RegisterStudentRoutes registers the student feed routes
func (h *FeedHandler) RegisterStudentRoutes(r chi.Router) {
	r.Route("/feed/posts", func(r chi.Router) {
		r.Get("/", h.ListPosts)
		r.Post("/", h.CreatePost)
		r.Get("/{id}/comments", h.ListComments)
		r.Post("/{id}/comments", h.Comment)
		r.Post("/{id}/like", h.Like)
	})
}

// RegisterAdminRoutes registers the feed moderation routes
func (h *FeedHandler) RegisterAdminRoutes(r chi.Router) {
	r.Delete("/feed/posts/{id}", h.DeletePost)
	r.Delete("/feed/comments/{id}", h.DeleteComment)
}

// ListPosts handles GET /student/feed/posts
// @Summary List posts
// @Tags feed
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "Page number, default 1"
// @Param count query int false "Page size, default 20"
// @Success 200 {array} models.Post
// @Router /student/feed/posts [get]
func (h *FeedHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	page, count := Pagination(r)
	posts, err := h.feedService.ListPosts(r.Context(), page, count)
	if err != nil {
		h.RespondServiceError(w, err, "failed to list posts")
		return
	}
	h.RespondJSON(w, http.StatusOK, posts)
}

// CreatePost handles POST /student/feed/posts
// @Summary Create post
// @Tags feed
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.PostRequest true "Post"
// @Success 201 {object} models.Post
// @Failure 400 {object} map[string]string
// @Router /student/feed/posts [post]
func (h *FeedHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := authmw.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	var req models.PostRequest
	if err := h.DecodeAndValidate(r, &req); err != nil {
		h.RespondServiceError(w, err, "failed to decode post request")
		return
	}

	post, err := h.feedService.CreatePost(r.Context(), userID, req.Content)
	if err != nil {
		h.RespondServiceError(w, err, "failed to create post")
		return
	}
	h.RespondJSON(w, http.StatusCreated, post)
}

// ListComments handles GET /student/feed/posts/{id}/comments
// @Summary List comments of a post
// @Tags feed
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Post ID"
// @Success 200 {array} models.Comment
// @Router /student/feed/posts/{id}/comments [get]
func (h *FeedHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	postID, err := URLParamID(r, "id")
	if err != nil {
		h.RespondServiceError(w, err, "invalid post id")
		return
	}
	comments, err := h.feedService.ListComments(r.Context(), postID)
	if err != nil {
		h.RespondServiceError(w, err, "failed to list comments")
		return
	}
	h.RespondJSON(w, http.StatusOK, comments)
}

// Comment handles POST /student/feed/posts/{id}/comments
// @Summary Comment on a post
// @Tags feed
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Post ID"
// @Param request body models.CommentRequest true "Comment"
// @Success 201 {object} models.Comment
// @Failure 404 {object} map[string]string
// @Router /student/feed/posts/{id}/comments [post]
func (h *FeedHandler) Comment(w http.ResponseWriter, r *http.Request) {
	userID, ok := authmw.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	postID, err := URLParamID(r, "id")
	if err != nil {
		h.RespondServiceError(w, err, "invalid post id")
		return
	}
	var req models.CommentRequest
	if err := h.DecodeAndValidate(r, &req); err != nil {
		h.RespondServiceError(w, err, "failed to decode comment request")
		return
	}

	comment, err := h.feedService.Comment(r.Context(), postID, userID, req.Content)
	if err != nil {
		h.RespondServiceError(w, err, "failed to comment")
		return
	}
	h.RespondJSON(w, http.StatusCreated, comment)
}

// Like handles POST /student/feed/posts/{id}/like
// @Summary Like a post
// @Description Liking twice has no further effect
// @Tags feed
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Post ID"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} map[string]string
// @Router /student/feed/posts/{id}/like [post]
func (h *FeedHandler) Like(w http.ResponseWriter, r *http.Request) {
	userID, ok := authmw.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	postID, err := URLParamID(r, "id")
	if err != nil {
		h.RespondServiceError(w, err, "invalid post id")
		return
	}

	liked, err := h.feedService.Like(r.Context(), postID, userID)
	if err != nil {
		h.RespondServiceError(w, err, "failed to like post")
		return
	}
	h.RespondJSON(w, http.StatusOK, map[string]bool{"liked": liked})
}

// DeletePost handles DELETE /admin/feed/posts/{id}
// @Summary Delete post
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Post ID"
// @Param confirm query bool true "Must be true"
// @Success 200 {object} map[string]string
// @Router /admin/feed/posts/{id} [delete]
func (h *FeedHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := URLParamID(r, "id")
	if err != nil {
		h.RespondServiceError(w, err, "invalid post id")
		return
	}
	if err := h.feedService.DeletePost(r.Context(), id, Confirmed(r)); err != nil {
		h.RespondServiceError(w, err, "failed to delete post")
		return
	}
	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "post deleted"})
}

// DeleteComment handles DELETE /admin/feed/comments/{id}
// @Summary Delete comment
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Comment ID"
// @Param confirm query bool true "Must be true"
// @Success 200 {object} map[string]string
// @Router /admin/feed/comments/{id} [delete]
func (h *FeedHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id, err := URLParamID(r, "id")
	if err != nil {
		h.RespondServiceError(w, err, "invalid comment id")
		return
	}
	if err := h.feedService.DeleteComment(r.Context(), id, Confirmed(r)); err != nil {
		h.RespondServiceError(w, err, "failed to delete comment")
		return
	}
	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "comment deleted"})
}
