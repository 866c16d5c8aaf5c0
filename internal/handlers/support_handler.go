package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	authmw "github.com/infinito/platform/internal/auth/middleware"
	"github.com/infinito/platform/internal/models"
	"go.uber.org/zap"
)

// SupportService is the interface that wraps methods for the support inbox.
type SupportService interface {
	// Method SendStudentMessage store a message from a student in the student's conversation.
	//
	// The conversation is created on the first message. Outside support hours a bot reply is stored as well;
	// every stored message is returned in order.
	SendStudentMessage(ctx context.Context, studentID int, content string) ([]models.SupportMessage, error)
	// Method StudentMessages retrieve the messages of the student's conversation, oldest first.
	StudentMessages(ctx context.Context, studentID int) ([]models.SupportMessage, error)
	// Method Reply store an admin reply in an existing conversation.
	//
	// If the conversation does not exist, an error wrapping models.ErrNotFound is returned together with "nil" value.
	Reply(ctx context.Context, adminID, conversationID int, content string) (*models.SupportMessage, error)
	// Method Inbox retrieve every conversation with its messages and status, most recent activity first.
	Inbox(ctx context.Context) ([]models.Conversation, error)
	Stats(ctx context.Context) (*models.SupportStats, error)
	DeleteMessage(ctx context.Context, id int, confirm bool) error
}

// SupportHandler handles the student support chat and the admin inbox
type SupportHandler struct {
	BaseHandler
	supportService SupportService
}

// NewSupportHandler creates a new support handler
func NewSupportHandler(supportService SupportService, validator RequestValidator, logger *zap.Logger) *SupportHandler {
	return &SupportHandler{
		BaseHandler:    BaseHandler{Logger: logger, Validator: validator},
		supportService: supportService,
	}
}

// RegisterStudentRoutes registers the student support chat routes
func (h *SupportHandler) RegisterStudentRoutes(r chi.Router) {
	r.Get("/support/messages", h.StudentMessages)
	r.Post("/support/messages", h.SendStudentMessage)
}

// RegisterAdminRoutes registers the admin inbox routes
func (h *SupportHandler) RegisterAdminRoutes(r chi.Router) {
	r.Route("/support", func(r chi.Router) {
		r.Get("/conversations", h.Inbox)
		r.Post("/conversations/{id}/replies", h.Reply)
		r.Get("/stats", h.Stats)
		r.Delete("/messages/{id}", h.DeleteMessage)
	})
}

// StudentMessages handles GET /student/support/messages
// @Summary Get my support conversation
// @Tags support
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} models.SupportMessage
// @Failure 401 {object} map[string]string
// @Router /student/support/messages [get]
func (h *SupportHandler) StudentMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := authmw.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	messages, err := h.supportService.StudentMessages(r.Context(), userID)
	if err != nil {
		h.RespondServiceError(w, err, "failed to get support messages")
		return
	}
	h.RespondJSON(w, http.StatusOK, messages)
}

// SendStudentMessage handles POST /student/support/messages
// @Summary Send a support message
// @Description Outside support hours the response also carries the automatic bot reply.
// @Tags support
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.SendMessageRequest true "Message"
// @Success 201 {array} models.SupportMessage
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /student/support/messages [post]
func (h *SupportHandler) SendStudentMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := authmw.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req models.SendMessageRequest
	if err := h.DecodeAndValidate(r, &req); err != nil {
		h.RespondServiceError(w, err, "failed to decode support message")
		return
	}

	messages, err := h.supportService.SendStudentMessage(r.Context(), userID, req.Content)
	if err != nil {
		h.RespondServiceError(w, err, "failed to send support message")
		return
	}
	h.RespondJSON(w, http.StatusCreated, messages)
}

// Inbox handles GET /admin/support/conversations
// @Summary Support inbox
// @Description Conversations with status pending (no admin reply yet) or answered, most recent first
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} models.Conversation
// @Router /admin/support/conversations [get]
func (h *SupportHandler) Inbox(w http.ResponseWriter, r *http.Request) {
	conversations, err := h.supportService.Inbox(r.Context())
	if err != nil {
		h.RespondServiceError(w, err, "failed to get support inbox")
		return
	}
	h.RespondJSON(w, http.StatusOK, conversations)
}

// Reply handles POST /admin/support/conversations/{id}/replies
// @Summary Reply to a conversation
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Conversation ID"
// @Param request body models.SendMessageRequest true "Message"
// @Success 201 {object} models.SupportMessage
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/support/conversations/{id}/replies [post]
func (h *SupportHandler) Reply(w http.ResponseWriter, r *http.Request) {
	adminID, ok := authmw.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	conversationID, err := URLParamID(r, "id")
	if err != nil {
		h.RespondServiceError(w, err, "invalid conversation id")
		return
	}

	var req models.SendMessageRequest
	if err := h.DecodeAndValidate(r, &req); err != nil {
		h.RespondServiceError(w, err, "failed to decode reply")
		return
	}

	msg, err := h.supportService.Reply(r.Context(), adminID, conversationID, req.Content)
	if err != nil {
		h.RespondServiceError(w, err, "failed to reply")
		return
	}
	h.RespondJSON(w, http.StatusCreated, msg)
}

// Stats handles GET /admin/support/stats
// @Summary Support message counts by sender
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.SupportStats
// @Router /admin/support/stats [get]
func (h *SupportHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.supportService.Stats(r.Context())
	if err != nil {
		h.RespondServiceError(w, err, "failed to get support stats")
		return
	}
	h.RespondJSON(w, http.StatusOK, stats)
}

// DeleteMessage handles DELETE /admin/support/messages/{id}
// @Summary Delete a support message
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Message ID"
// @Param confirm query bool true "Must be true"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /admin/support/messages/{id} [delete]
func (h *SupportHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	id, err := URLParamID(r, "id")
	if err != nil {
		h.RespondServiceError(w, err, "invalid message id")
		return
	}
	if err := h.supportService.DeleteMessage(r.Context(), id, Confirmed(r)); err != nil {
		h.RespondServiceError(w, err, "failed to delete support message")
		return
	}
	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "message deleted"})
}
