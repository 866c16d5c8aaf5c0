package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/infinito/platform/internal/events"
	"github.com/infinito/platform/internal/models"
	"go.uber.org/zap"
)

// SettingsRepository is the interface that wraps access to keyed JSON settings
type SettingsRepository interface {
	// Method Get decode the setting stored under "key" into "dst".
	//
	// Fields absent from the stored document keep the value "dst" already holds.
	// If the key was never saved, an error wrapping models.ErrNotFound is returned.
	Get(ctx context.Context, key string, dst any) error
	// Method Put replace the setting stored under "key".
	Put(ctx context.Context, key string, value any) error
}

var (
	youtubeIDPattern = regexp.MustCompile(`(?:youtube\.com/(?:[^/]+/.+/|(?:v|e(?:mbed)?)/|.*[?&]v=)|youtu\.be/)([^"&?/\s]{11})`)
	driveFilePattern = regexp.MustCompile(`drive\.google\.com/file/d/([^/?#]+)`)
)

type vslService struct {
	repo      SettingsRepository
	publisher ChangePublisher
	logger    *zap.Logger
}

// NewVSLService creates a new VSL settings service
func NewVSLService(repo SettingsRepository, publisher ChangePublisher, logger *zap.Logger) *vslService {
	return &vslService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// Get returns the stored settings, filling unset fields with their defaults
func (s *vslService) Get(ctx context.Context) (*models.VSLSettings, error) {
	settings := models.DefaultVSLSettings()
	err := s.repo.Get(ctx, models.VSLSettingsKey, &settings)
	if errors.Is(err, models.ErrNotFound) {
		return &settings, nil
	}
	if err != nil {
		s.logger.Error("failed to load vsl settings", zap.Error(err))
		return nil, fmt.Errorf("failed to load vsl settings: %w", err)
	}
	return &settings, nil
}

// Save replaces the settings as a whole
func (s *vslService) Save(ctx context.Context, settings *models.VSLSettings) error {
	settings.IphoneVideoURL = strings.TrimSpace(settings.IphoneVideoURL)
	settings.AndroidVideoURL = strings.TrimSpace(settings.AndroidVideoURL)
	if err := s.repo.Put(ctx, models.VSLSettingsKey, settings); err != nil {
		return fmt.Errorf("failed to save vsl settings: %w", err)
	}
	s.logger.Info("vsl settings saved", zap.Bool("enabled", settings.Enabled), zap.String("video_type", string(settings.VideoType)))
	s.publisher.Publish(ctx, events.TableSiteSettings, events.ActionUpdate, 0)
	return nil
}

// Resolve returns the login page video for device.
// An empty device uses the device selected in the settings.
func (s *vslService) Resolve(ctx context.Context, device string) (*models.ResolvedVideo, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	d := settings.SelectedDevice
	if device != "" {
		d = models.ParseDevice(device)
	}
	source := settings.IphoneVideoURL
	if d == models.DeviceAndroid {
		source = settings.AndroidVideoURL
	}

	return &models.ResolvedVideo{
		Enabled:        settings.Enabled,
		Device:         d,
		VideoType:      settings.VideoType,
		SourceURL:      source,
		EmbedURL:       EmbedURL(settings.VideoType, source, settings.Autoplay, settings.Muted, false),
		Autoplay:       settings.Autoplay,
		Muted:          settings.Muted,
		ShowPWAMessage: settings.ShowPWAMessage,
	}, nil
}

// WelcomeVideo returns the thank-you page video: the iPhone video, or the Android one when
// no iPhone video is set. It always autoplays with sound.
func (s *vslService) WelcomeVideo(ctx context.Context) (*models.ResolvedVideo, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	d, source := models.DeviceIphone, settings.IphoneVideoURL
	if source == "" {
		d, source = models.DeviceAndroid, settings.AndroidVideoURL
	}

	return &models.ResolvedVideo{
		Enabled:   source != "",
		Device:    d,
		VideoType: settings.VideoType,
		SourceURL: source,
		EmbedURL:  EmbedURL(settings.VideoType, source, true, false, true),
		Autoplay:  true,
		Muted:     false,
	}, nil
}

// YouTubeID extracts the 11 character video ID from a YouTube URL, or returns "" when none is found
func YouTubeID(url string) string {
	m := youtubeIDPattern.FindStringSubmatch(url)
	if m == nil {
		return ""
	}
	return m[1]
}

// EmbedURL builds the player URL for source. YouTube links become embed URLs carrying the
// autoplay and mute flags; Drive file links become preview URLs; anything else is returned as is.
func EmbedURL(videoType models.VideoType, source string, autoplay, muted, noRelated bool) string {
	if source == "" {
		return ""
	}

	switch videoType {
	case models.VideoTypeYouTube:
		embed := fmt.Sprintf("https://www.youtube.com/embed/%s?autoplay=%d&mute=%d", YouTubeID(source), boolInt(autoplay), boolInt(muted))
		if noRelated {
			embed += "&rel=0"
		}
		return embed
	case models.VideoTypeDrive:
		if m := driveFilePattern.FindStringSubmatch(source); m != nil {
			return "https://drive.google.com/file/d/" + m[1] + "/preview"
		}
	}
	return source
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
