package config

import (
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Settings are the free-form application settings the presentation
// layer reads and writes (window geometry, theme, toggles). They live
// in settings.json and are merged over these defaults on every load.
type Settings struct {
	WindowGeometry       string `json:"window_geometry" mapstructure:"window_geometry"`
	CheckInterval        int    `json:"check_interval" mapstructure:"check_interval"` // seconds
	AutoStart            bool   `json:"auto_start" mapstructure:"auto_start"`
	MinimizeToTray       bool   `json:"minimize_to_tray" mapstructure:"minimize_to_tray"`
	Theme                string `json:"theme" mapstructure:"theme"`
	Language             string `json:"language" mapstructure:"language"`
	NotificationsEnabled bool   `json:"notifications_enabled" mapstructure:"notifications_enabled"`
	SoundEnabled         bool   `json:"sound_enabled" mapstructure:"sound_enabled"`
}

func DefaultSettings() Settings {
	return Settings{
		WindowGeometry:       "700x500+100+100",
		CheckInterval:        300,
		AutoStart:            false,
		MinimizeToTray:       false,
		Theme:                "default",
		Language:             "en_US",
		NotificationsEnabled: true,
		SoundEnabled:         false,
	}
}

// LoadSettings reads settings.json merged over the defaults. A missing
// or unreadable file just yields the defaults; this never fails.
func LoadSettings(path string, log *zap.Logger) Settings {
	s := DefaultSettings()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetDefault("window_geometry", s.WindowGeometry)
	v.SetDefault("check_interval", s.CheckInterval)
	v.SetDefault("auto_start", s.AutoStart)
	v.SetDefault("minimize_to_tray", s.MinimizeToTray)
	v.SetDefault("theme", s.Theme)
	v.SetDefault("language", s.Language)
	v.SetDefault("notifications_enabled", s.NotificationsEnabled)
	v.SetDefault("sound_enabled", s.SoundEnabled)

	if err := v.ReadInConfig(); err != nil {
		log.Debug("settings_using_defaults", zap.String("path", path), zap.Error(err))
		return s
	}
	if err := v.Unmarshal(&s); err != nil {
		log.Warn("settings_parse_error", zap.String("path", path), zap.Error(err))
		return DefaultSettings()
	}
	return s
}

// SaveSettings writes the full settings document to path.
func SaveSettings(path string, s Settings) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.Set("window_geometry", s.WindowGeometry)
	v.Set("check_interval", s.CheckInterval)
	v.Set("auto_start", s.AutoStart)
	v.Set("minimize_to_tray", s.MinimizeToTray)
	v.Set("theme", s.Theme)
	v.Set("language", s.Language)
	v.Set("notifications_enabled", s.NotificationsEnabled)
	v.Set("sound_enabled", s.SoundEnabled)
	return v.WriteConfigAs(path)
}
