package services

import (
	"context"
	"errors"
	"testing"

	"github.com/infinito/platform/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockProfileRepository is a mock implementation of ProfileRepository
type mockProfileRepository struct {
	profile      *models.Profile
	device       models.DeviceType
	profiles     []models.Profile
	total        int
	err          error
	lastSearch   string
	storedDevice models.DeviceType
}

func (m *mockProfileRepository) GetByID(ctx context.Context, id int) (*models.Profile, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.profile, nil
}

func (m *mockProfileRepository) GetDevice(ctx context.Context, userID int) (models.DeviceType, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.device, nil
}

func (m *mockProfileRepository) UpdateDevice(ctx context.Context, userID int, device models.DeviceType) error {
	if m.err != nil {
		return m.err
	}
	m.storedDevice = device
	return nil
}

func (m *mockProfileRepository) List(ctx context.Context, search string, page, count int) ([]models.Profile, int, error) {
	if m.err != nil {
		return nil, 0, m.err
	}
	m.lastSearch = search
	return m.profiles, m.total, nil
}

func TestProfileService_UpdateDevice(t *testing.T) {
	tests := []struct {
		name          string
		device        models.DeviceType
		repo          *mockProfileRepository
		expectedError error
		anyError      bool
	}{
		{name: "android", device: models.DeviceAndroid, repo: &mockProfileRepository{}},
		{name: "iphone", device: models.DeviceIphone, repo: &mockProfileRepository{}},
		{name: "unknown device", device: "windows", repo: &mockProfileRepository{}, expectedError: models.ErrInvalidInput},
		{name: "missing user", device: models.DeviceAndroid, repo: &mockProfileRepository{err: models.ErrNotFound}, expectedError: models.ErrNotFound},
		{name: "repository error", device: models.DeviceAndroid, repo: &mockProfileRepository{err: errors.New("db down")}, anyError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewProfileService(tt.repo, zap.NewNop())

			err := svc.UpdateDevice(context.Background(), 1, tt.device)

			switch {
			case tt.expectedError != nil:
				assert.ErrorIs(t, err, tt.expectedError)
			case tt.anyError:
				assert.Error(t, err)
			default:
				assert.NoError(t, err)
				assert.Equal(t, tt.device, tt.repo.storedDevice)
			}
		})
	}
}

func TestProfileService_GetDevice(t *testing.T) {
	svc := NewProfileService(&mockProfileRepository{device: models.DeviceIphone}, zap.NewNop())

	device, err := svc.GetDevice(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, models.DeviceIphone, device)
}

func TestProfileService_ListUsers(t *testing.T) {
	repo := &mockProfileRepository{profiles: []models.Profile{{ID: 1}}, total: 21}
	svc := NewProfileService(repo, zap.NewNop())

	resp, err := svc.ListUsers(context.Background(), "  ana ", 2, 20)

	require.NoError(t, err)
	assert.Equal(t, "ana", repo.lastSearch)
	assert.Equal(t, &models.ProfileListResponse{Items: []models.Profile{{ID: 1}}, Total: 21, Page: 2, Count: 20}, resp)
}
