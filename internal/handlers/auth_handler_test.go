package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	authmw "github.com/infinito/platform/internal/auth/middleware"
	"github.com/infinito/platform/internal/models"
	"github.com/infinito/platform/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockAuthService is a mock implementation of AuthService
type mockAuthService struct {
	err error
}

func (m *mockAuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &models.LoginResponse{AccessToken: "signed-token", User: &models.Profile{ID: 1, Email: req.Email}}, nil
}

func setupAuthRouter(svc *mockAuthService) http.Handler {
	h := NewAuthHandler(svc, time.Hour, validation.New(), zap.NewNop())
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		svcErr         error
		expectedStatus int
		expectCookie   bool
	}{
		{name: "success", body: `{"email":"ana@example.com","password":"secret123"}`, expectedStatus: http.StatusOK, expectCookie: true},
		{name: "invalid credentials", body: `{"email":"ana@example.com","password":"nope"}`, svcErr: models.ErrUnauthorized, expectedStatus: http.StatusUnauthorized},
		{name: "invalid email", body: `{"email":"ana","password":"secret123"}`, expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			setupAuthRouter(&mockAuthService{err: tt.svcErr}).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			cookie := findCookie(w.Result().Cookies(), authmw.AccessTokenCookie)
			if tt.expectCookie {
				require.NotNil(t, cookie)
				assert.Equal(t, "signed-token", cookie.Value)
				assert.Equal(t, 3600, cookie.MaxAge)
				assert.True(t, cookie.HttpOnly)
			} else {
				assert.Nil(t, cookie)
			}
		})
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	w := httptest.NewRecorder()

	setupAuthRouter(&mockAuthService{}).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	cookie := findCookie(w.Result().Cookies(), authmw.AccessTokenCookie)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}
