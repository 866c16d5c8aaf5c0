package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	authmw "github.com/infinito/platform/internal/auth/middleware"
	"github.com/infinito/platform/internal/models"
	"github.com/infinito/platform/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockSupportService is a mock implementation of SupportService
type mockSupportService struct {
	sentBy    int
	repliedBy int
	replyTo   int
	err       error
}

func (m *mockSupportService) SendStudentMessage(ctx context.Context, studentID int, content string) ([]models.SupportMessage, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.sentBy = studentID
	return []models.SupportMessage{
		{ID: 1, ConversationID: 5, SenderID: &studentID, SenderType: models.SenderStudent, Content: content},
		{ID: 2, ConversationID: 5, SenderType: models.SenderBot, Content: "fora do horário"},
	}, nil
}

func (m *mockSupportService) StudentMessages(ctx context.Context, studentID int) ([]models.SupportMessage, error) {
	return []models.SupportMessage{}, m.err
}

func (m *mockSupportService) Reply(ctx context.Context, adminID, conversationID int, content string) (*models.SupportMessage, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.repliedBy, m.replyTo = adminID, conversationID
	return &models.SupportMessage{ID: 3, ConversationID: conversationID, SenderID: &adminID, SenderType: models.SenderAdmin, Content: content}, nil
}

func (m *mockSupportService) Inbox(ctx context.Context) ([]models.Conversation, error) {
	return []models.Conversation{{ID: 5, Status: models.ConversationPending}}, m.err
}

func (m *mockSupportService) Stats(ctx context.Context) (*models.SupportStats, error) {
	return &models.SupportStats{Total: 2, Users: 1, Bot: 1}, m.err
}

func (m *mockSupportService) DeleteMessage(ctx context.Context, id int, confirm bool) error {
	if !confirm {
		return models.ErrConfirmationRequired
	}
	return m.err
}

func setupSupportRouter(svc *mockSupportService) http.Handler {
	h := NewSupportHandler(svc, validation.New(), zap.NewNop())
	r := chi.NewRouter()
	r.Route("/student", h.RegisterStudentRoutes)
	r.Route("/admin", h.RegisterAdminRoutes)
	return r
}

func withIdentity(req *http.Request, userID int, role models.Role) *http.Request {
	return req.WithContext(authmw.WithIdentity(req.Context(), authmw.Identity{UserID: userID, Role: role}))
}

func TestSupportHandler_SendStudentMessage(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		authenticated  bool
		expectedStatus int
		expectedCount  int
	}{
		{name: "success with bot reply", body: `{"content":"Preciso de ajuda"}`, authenticated: true, expectedStatus: http.StatusCreated, expectedCount: 2},
		{name: "blank content", body: `{"content":"   "}`, authenticated: true, expectedStatus: http.StatusBadRequest},
		{name: "no identity", body: `{"content":"Oi"}`, expectedStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockSupportService{}
			req := httptest.NewRequest(http.MethodPost, "/student/support/messages", strings.NewReader(tt.body))
			if tt.authenticated {
				req = withIdentity(req, 42, models.RoleStudent)
			}
			w := httptest.NewRecorder()

			setupSupportRouter(svc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedCount > 0 {
				var messages []models.SupportMessage
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &messages))
				assert.Len(t, messages, tt.expectedCount)
				assert.Equal(t, 42, svc.sentBy)
			}
		})
	}
}

func TestSupportHandler_Reply(t *testing.T) {
	tests := []struct {
		name           string
		svcErr         error
		expectedStatus int
	}{
		{name: "success", expectedStatus: http.StatusCreated},
		{name: "unknown conversation", svcErr: fmt.Errorf("conversation %w", models.ErrNotFound), expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockSupportService{err: tt.svcErr}
			req := httptest.NewRequest(http.MethodPost, "/admin/support/conversations/5/replies", strings.NewReader(`{"content":"Olá!"}`))
			req = withIdentity(req, 1, models.RoleAdmin)
			w := httptest.NewRecorder()

			setupSupportRouter(svc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.svcErr == nil {
				assert.Equal(t, 1, svc.repliedBy)
				assert.Equal(t, 5, svc.replyTo)
			}
		})
	}
}

func TestSupportHandler_DeleteRequiresConfirm(t *testing.T) {
	router := setupSupportRouter(&mockSupportService{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/admin/support/messages/9", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/admin/support/messages/9?confirm=true", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
