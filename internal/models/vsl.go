package models

// VideoType is the source kind of the welcome video
type VideoType string

const (
	VideoTypeYouTube VideoType = "youtube"
	VideoTypeDrive   VideoType = "drive"
	VideoTypeURL     VideoType = "url"
)

// VSLSettingsKey is the site_settings key of the welcome video configuration
const VSLSettingsKey = "vsl_settings"

// VSLSettings configures the login page video. It is stored and replaced as a whole.
type VSLSettings struct {
	Enabled         bool       `json:"enabled"`
	SelectedDevice  DeviceType `json:"selected_device" validate:"required,oneof=android iphone"`
	IphoneVideoURL  string     `json:"iphone_video_url" validate:"omitempty,url"`
	AndroidVideoURL string     `json:"android_video_url" validate:"omitempty,url"`
	VideoType       VideoType  `json:"video_type" validate:"required,oneof=youtube drive url"`
	Autoplay        bool       `json:"autoplay"`
	Muted           bool       `json:"muted"`
	ShowPWAMessage  bool       `json:"show_pwa_message"`
}

// DefaultVSLSettings returns the settings used when nothing has been saved yet
func DefaultVSLSettings() VSLSettings {
	return VSLSettings{
		Enabled:         false,
		SelectedDevice:  DeviceIphone,
		IphoneVideoURL:  "",
		AndroidVideoURL: "",
		VideoType:       VideoTypeYouTube,
		Autoplay:        true,
		Muted:           true,
		ShowPWAMessage:  true,
	}
}

// ResolvedVideo is the playable video for one device
type ResolvedVideo struct {
	Enabled        bool       `json:"enabled"`
	Device         DeviceType `json:"device"`
	VideoType      VideoType  `json:"videoType"`
	SourceURL      string     `json:"sourceUrl"`
	EmbedURL       string     `json:"embedUrl"`
	Autoplay       bool       `json:"autoplay"`
	Muted          bool       `json:"muted"`
	ShowPWAMessage bool       `json:"showPwaMessage"`
}
