package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/infinito/platform/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockSettingsRepository stores settings as raw JSON like the real table
type mockSettingsRepository struct {
	stored map[string][]byte
	err    error
}

func (m *mockSettingsRepository) Get(ctx context.Context, key string, dst any) error {
	if m.err != nil {
		return m.err
	}
	raw, ok := m.stored[key]
	if !ok {
		return fmt.Errorf("setting %s %w", key, models.ErrNotFound)
	}
	return json.Unmarshal(raw, dst)
}

func (m *mockSettingsRepository) Put(ctx context.Context, key string, value any) error {
	if m.err != nil {
		return m.err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if m.stored == nil {
		m.stored = make(map[string][]byte)
	}
	m.stored[key] = raw
	return nil
}

func TestYouTubeID(t *testing.T) {
	tests := []struct {
		url      string
		expected string
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ?autoplay=1", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/watch?feature=share&v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/v/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://vimeo.com/12345", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.expected, YouTubeID(tt.url))
		})
	}
}

func TestEmbedURL(t *testing.T) {
	tests := []struct {
		name      string
		videoType models.VideoType
		source    string
		autoplay  bool
		muted     bool
		noRelated bool
		expected  string
	}{
		{"youtube autoplay muted", models.VideoTypeYouTube, "https://youtu.be/dQw4w9WgXcQ", true, true, false,
			"https://www.youtube.com/embed/dQw4w9WgXcQ?autoplay=1&mute=1"},
		{"youtube no autoplay", models.VideoTypeYouTube, "https://youtu.be/dQw4w9WgXcQ", false, false, false,
			"https://www.youtube.com/embed/dQw4w9WgXcQ?autoplay=0&mute=0"},
		{"youtube welcome", models.VideoTypeYouTube, "https://youtu.be/dQw4w9WgXcQ", true, false, true,
			"https://www.youtube.com/embed/dQw4w9WgXcQ?autoplay=1&mute=0&rel=0"},
		{"drive file", models.VideoTypeDrive, "https://drive.google.com/file/d/abc123/view?usp=sharing", true, true, false,
			"https://drive.google.com/file/d/abc123/preview"},
		{"drive other link", models.VideoTypeDrive, "https://drive.google.com/open?id=abc", true, true, false,
			"https://drive.google.com/open?id=abc"},
		{"plain url", models.VideoTypeURL, "https://cdn.example.com/v.mp4", true, true, false,
			"https://cdn.example.com/v.mp4"},
		{"empty source", models.VideoTypeYouTube, "", true, true, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EmbedURL(tt.videoType, tt.source, tt.autoplay, tt.muted, tt.noRelated))
		})
	}
}

func TestVSLService_GetDefaults(t *testing.T) {
	svc := NewVSLService(&mockSettingsRepository{}, &mockPublisher{}, zap.NewNop())

	settings, err := svc.Get(context.Background())

	require.NoError(t, err)
	assert.Equal(t, models.DefaultVSLSettings(), *settings)
}

func TestVSLService_GetFillsMissingFields(t *testing.T) {
	repo := &mockSettingsRepository{stored: map[string][]byte{
		models.VSLSettingsKey: []byte(`{"enabled":true,"android_video_url":"https://youtu.be/dQw4w9WgXcQ"}`),
	}}
	svc := NewVSLService(repo, &mockPublisher{}, zap.NewNop())

	settings, err := svc.Get(context.Background())

	require.NoError(t, err)
	assert.True(t, settings.Enabled)
	assert.Equal(t, models.DeviceIphone, settings.SelectedDevice)
	assert.Equal(t, models.VideoTypeYouTube, settings.VideoType)
	assert.True(t, settings.Muted)
}

func TestVSLService_GetError(t *testing.T) {
	svc := NewVSLService(&mockSettingsRepository{err: errors.New("db down")}, &mockPublisher{}, zap.NewNop())

	_, err := svc.Get(context.Background())

	assert.Error(t, err)
}

func TestVSLService_SaveAndResolve(t *testing.T) {
	repo := &mockSettingsRepository{}
	pub := &mockPublisher{}
	svc := NewVSLService(repo, pub, zap.NewNop())

	err := svc.Save(context.Background(), &models.VSLSettings{
		Enabled:         true,
		SelectedDevice:  models.DeviceAndroid,
		IphoneVideoURL:  " https://youtu.be/iphoneVid01 ",
		AndroidVideoURL: "https://www.youtube.com/watch?v=androidVid1",
		VideoType:       models.VideoTypeYouTube,
		Autoplay:        true,
		Muted:           false,
	})
	require.NoError(t, err)
	assert.Len(t, pub.published, 1)

	tests := []struct {
		name           string
		device         string
		expectedDevice models.DeviceType
		expectedEmbed  string
	}{
		{"selected device", "", models.DeviceAndroid, "https://www.youtube.com/embed/androidVid1?autoplay=1&mute=0"},
		{"explicit iphone", "iphone", models.DeviceIphone, "https://www.youtube.com/embed/iphoneVid01?autoplay=1&mute=0"},
		{"unknown device falls back to iphone", "windows", models.DeviceIphone, "https://www.youtube.com/embed/iphoneVid01?autoplay=1&mute=0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			video, err := svc.Resolve(context.Background(), tt.device)

			require.NoError(t, err)
			assert.True(t, video.Enabled)
			assert.Equal(t, tt.expectedDevice, video.Device)
			assert.Equal(t, tt.expectedEmbed, video.EmbedURL)
		})
	}
}

func TestVSLService_WelcomeVideo(t *testing.T) {
	tests := []struct {
		name           string
		stored         string
		expectedDevice models.DeviceType
		expectedEmbed  string
		enabled        bool
	}{
		{
			name:           "iphone video preferred",
			stored:         `{"iphone_video_url":"https://youtu.be/iphoneVid01","android_video_url":"https://youtu.be/androidVid1","video_type":"youtube"}`,
			expectedDevice: models.DeviceIphone,
			expectedEmbed:  "https://www.youtube.com/embed/iphoneVid01?autoplay=1&mute=0&rel=0",
			enabled:        true,
		},
		{
			name:           "android fallback",
			stored:         `{"android_video_url":"https://youtu.be/androidVid1","video_type":"youtube"}`,
			expectedDevice: models.DeviceAndroid,
			expectedEmbed:  "https://www.youtube.com/embed/androidVid1?autoplay=1&mute=0&rel=0",
			enabled:        true,
		},
		{
			name:           "no video",
			stored:         `{}`,
			expectedDevice: models.DeviceAndroid,
			expectedEmbed:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockSettingsRepository{stored: map[string][]byte{models.VSLSettingsKey: []byte(tt.stored)}}
			svc := NewVSLService(repo, &mockPublisher{}, zap.NewNop())

			video, err := svc.WelcomeVideo(context.Background())

			require.NoError(t, err)
			assert.Equal(t, tt.expectedDevice, video.Device)
			assert.Equal(t, tt.expectedEmbed, video.EmbedURL)
			assert.Equal(t, tt.enabled, video.Enabled)
			assert.False(t, video.Muted)
		})
	}
}
