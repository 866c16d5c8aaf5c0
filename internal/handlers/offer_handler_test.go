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
	"github.com/infinito/platform/internal/middlewares"
	"github.com/infinito/platform/internal/models"
	"github.com/infinito/platform/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockOfferService is a mock implementation of OfferService
type mockOfferService struct {
	offers     []models.SidebarOffer
	featuredID int
	created    *models.OfferRequest
	deleted    []int
	err        error
}

func (m *mockOfferService) List(ctx context.Context) ([]models.SidebarOffer, error) {
	return m.offers, m.err
}

func (m *mockOfferService) Sidebar(ctx context.Context) ([]models.SidebarOffer, error) {
	return m.offers, m.err
}

func (m *mockOfferService) Get(ctx context.Context, id int) (*models.SidebarOffer, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.offers {
		if m.offers[i].ID == id {
			return &m.offers[i], nil
		}
	}
	return nil, fmt.Errorf("offer %w", models.ErrNotFound)
}

func (m *mockOfferService) Create(ctx context.Context, req *models.OfferRequest) (*models.SidebarOffer, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.created = req
	return &models.SidebarOffer{ID: 10, Key: req.Key, Title: req.Title}, nil
}

func (m *mockOfferService) Update(ctx context.Context, id int, req *models.OfferRequest) (*models.SidebarOffer, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &models.SidebarOffer{ID: id, Key: req.Key, Title: req.Title}, nil
}

func (m *mockOfferService) SetFeatured(ctx context.Context, id int) error {
	if m.err != nil {
		return m.err
	}
	m.featuredID = id
	return nil
}

func (m *mockOfferService) Delete(ctx context.Context, id int, confirm bool) error {
	if !confirm {
		return models.ErrConfirmationRequired
	}
	m.deleted = append(m.deleted, id)
	return m.err
}

func (m *mockOfferService) Stats(ctx context.Context) (*models.OfferStats, error) {
	return &models.OfferStats{Total: len(m.offers)}, m.err
}

func setupOfferRouter(svc *mockOfferService) http.Handler {
	h := NewOfferHandler(svc, validation.New(), zap.NewNop())
	r := chi.NewRouter()
	h.RegisterPublicRoutes(r)
	r.Route("/admin", h.RegisterAdminRoutes)
	return r
}

func TestOfferHandler_Create(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		svcErr         error
		expectedStatus int
		expectedField  string
	}{
		{
			name:           "success",
			body:           `{"key":"vip_group","title":"Grupo VIP","buttonText":"Entrar","buttonUrl":"https://example.com/vip","isActive":true}`,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "missing title",
			body:           `{"key":"vip_group","buttonText":"Entrar","buttonUrl":"https://example.com/vip"}`,
			expectedStatus: http.StatusBadRequest,
			expectedField:  "title",
		},
		{
			name:           "unknown key",
			body:           `{"key":"banner","title":"X","buttonText":"Entrar","buttonUrl":"https://example.com"}`,
			expectedStatus: http.StatusBadRequest,
			expectedField:  "key",
		},
		{
			name:           "invalid json",
			body:           `{`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "featured conflict",
			body:           `{"key":"cross_sell","title":"X","buttonText":"Comprar","buttonUrl":"https://example.com"}`,
			svcErr:         fmt.Errorf("featured offer %w", models.ErrConflict),
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "internal error hides details",
			body:           `{"key":"cross_sell","title":"X","buttonText":"Comprar","buttonUrl":"https://example.com"}`,
			svcErr:         fmt.Errorf("dial tcp 10.0.0.1:3306: connection refused"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockOfferService{err: tt.svcErr}
			req := httptest.NewRequest(http.MethodPost, "/admin/offers", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			setupOfferRouter(svc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedField != "" {
				var resp struct {
					Fields map[string]string `json:"fields"`
				}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Contains(t, resp.Fields, tt.expectedField)
			}
			if tt.expectedStatus == http.StatusInternalServerError {
				assert.NotContains(t, w.Body.String(), "10.0.0.1")
			}
		})
	}
}

func TestOfferHandler_CreateBodyTooLarge(t *testing.T) {
	svc := &mockOfferService{}
	handler := middlewares.RequestSizeLimitMiddleware(32)(setupOfferRouter(svc))

	body := `{"key":"vip_group","title":"Grupo VIP","buttonText":"Entrar","buttonUrl":"https://example.com/vip"}`
	req := httptest.NewRequest(http.MethodPost, "/admin/offers", strings.NewReader(body))
	req.ContentLength = -1
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "request body too large")
	assert.Nil(t, svc.created)
}

func TestOfferHandler_SetFeatured(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		svcErr         error
		expectedStatus int
		expectedID     int
	}{
		{name: "success", path: "/admin/offers/7/featured", expectedStatus: http.StatusOK, expectedID: 7},
		{name: "not found", path: "/admin/offers/99/featured", svcErr: fmt.Errorf("offer %w", models.ErrNotFound), expectedStatus: http.StatusNotFound},
		{name: "invalid id", path: "/admin/offers/abc/featured", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockOfferService{err: tt.svcErr}
			req := httptest.NewRequest(http.MethodPut, tt.path, nil)
			w := httptest.NewRecorder()

			setupOfferRouter(svc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedID, svc.featuredID)
		})
	}
}

func TestOfferHandler_Delete(t *testing.T) {
	svc := &mockOfferService{}
	router := setupOfferRouter(svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/admin/offers/3", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, svc.deleted)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/admin/offers/3?confirm=true", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int{3}, svc.deleted)
}

func TestOfferHandler_Sidebar(t *testing.T) {
	svc := &mockOfferService{offers: []models.SidebarOffer{{ID: 1, Key: models.OfferKeyCrossSell, IsActive: true}}}
	w := httptest.NewRecorder()

	setupOfferRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/offers/sidebar", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var offers []models.SidebarOffer
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &offers))
	assert.Len(t, offers, 1)
	assert.Equal(t, models.OfferKeyCrossSell, offers[0].Key)
}
