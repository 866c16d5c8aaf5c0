package services

import (
	"context"
	"testing"
	"time"

	"github.com/infinito/platform/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockChangelogRepository is a mock implementation of ChangelogRepository
type mockChangelogRepository struct {
	entries []models.ChangelogEntry
	created *models.ChangelogEntry
	err     error
}

func (m *mockChangelogRepository) List(ctx context.Context) ([]models.ChangelogEntry, error) {
	return m.entries, m.err
}

func (m *mockChangelogRepository) Latest(ctx context.Context) (*models.ChangelogEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	if len(m.entries) == 0 {
		return nil, models.ErrNotFound
	}
	return &m.entries[0], nil
}

func (m *mockChangelogRepository) Create(ctx context.Context, e *models.ChangelogEntry) error {
	if m.err != nil {
		return m.err
	}
	e.ID = 10
	m.created = e
	return nil
}

func (m *mockChangelogRepository) Update(ctx context.Context, e *models.ChangelogEntry) error {
	return m.err
}

func (m *mockChangelogRepository) Delete(ctx context.Context, id int) error {
	return m.err
}

func TestChangelogService_Create(t *testing.T) {
	today := time.Date(2024, 12, 2, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name             string
		req              *models.ChangelogRequest
		expectedDate     time.Time
		expectedKeywords []string
		expectedError    error
	}{
		{
			name:             "release date defaults to today",
			req:              &models.ChangelogRequest{Version: "1.0.24", Title: "Novo", Type: models.ChangeTypeFeature, Keywords: []string{" Bot ", ""}},
			expectedDate:     time.Date(2024, 12, 2, 0, 0, 0, 0, time.UTC),
			expectedKeywords: []string{"Bot"},
		},
		{
			name:             "explicit release date",
			req:              &models.ChangelogRequest{Version: "1.0.24", Title: "Novo", Type: models.ChangeTypeFix, ReleaseDate: "2024-11-20"},
			expectedDate:     time.Date(2024, 11, 20, 0, 0, 0, 0, time.UTC),
			expectedKeywords: []string{},
		},
		{
			name:          "bad release date",
			req:           &models.ChangelogRequest{Version: "1.0.24", Title: "Novo", Type: models.ChangeTypeFix, ReleaseDate: "20/11/2024"},
			expectedError: models.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockChangelogRepository{}
			pub := &mockPublisher{}
			svc := NewChangelogService(repo, pub, zap.NewNop())
			svc.now = func() time.Time { return today }

			entry, err := svc.Create(context.Background(), tt.req)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, repo.created)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 10, entry.ID)
			assert.Equal(t, tt.expectedDate, entry.ReleaseDate)
			assert.Equal(t, tt.expectedKeywords, entry.Keywords)
			assert.Len(t, pub.published, 1)
		})
	}
}

func TestChangelogService_Current(t *testing.T) {
	repo := &mockChangelogRepository{entries: []models.ChangelogEntry{{Version: "1.0.23"}, {Version: "1.0.16"}}}
	svc := NewChangelogService(repo, &mockPublisher{}, zap.NewNop())

	entry, err := svc.Current(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "1.0.23", entry.Version)

	_, err = NewChangelogService(&mockChangelogRepository{}, &mockPublisher{}, zap.NewNop()).Current(context.Background())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestChangelogService_Delete(t *testing.T) {
	svc := NewChangelogService(&mockChangelogRepository{}, &mockPublisher{}, zap.NewNop())

	assert.ErrorIs(t, svc.Delete(context.Background(), 1, false), models.ErrConfirmationRequired)
	assert.NoError(t, svc.Delete(context.Background(), 1, true))
}
