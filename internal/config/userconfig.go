package config

import (
	"os"
	"strconv"

	"gopkg.in/ini.v1"
)

// UserConfig is the secondary INI-style configuration, independent of
// settings.json. Sections: DEFAULT, UI, NOTIFICATIONS.
type UserConfig struct {
	// DEFAULT
	CheckInterval  int    `json:"check_interval"`
	RequestTimeout int    `json:"request_timeout"`
	MaxRetries     int    `json:"max_retries"`
	UserAgent      string `json:"user_agent"`
	// UI
	Theme        string `json:"theme"`
	Language     string `json:"language"`
	WindowWidth  int    `json:"window_width"`
	WindowHeight int    `json:"window_height"`
	// NOTIFICATIONS
	NotificationsEnabled bool `json:"notifications_enabled"`
	SoundEnabled         bool `json:"sound_enabled"`
	PopupEnabled         bool `json:"popup_enabled"`
}

func DefaultUserConfig() UserConfig {
	return UserConfig{
		CheckInterval:        300,
		RequestTimeout:       10,
		MaxRetries:           3,
		UserAgent:            "DomainTracker/" + AppVersion,
		Theme:                "default",
		Language:             "en_US",
		WindowWidth:          700,
		WindowHeight:         500,
		NotificationsEnabled: true,
		SoundEnabled:         false,
		PopupEnabled:         true,
	}
}

// LoadUserConfig reads user_config.ini merged over the defaults.
// Missing files, sections or keys fall back silently.
func LoadUserConfig(path string) UserConfig {
	uc := DefaultUserConfig()

	f, err := ini.Load(path)
	if err != nil {
		return uc
	}

	def := f.Section(ini.DefaultSection)
	uc.CheckInterval = def.Key("check_interval").MustInt(uc.CheckInterval)
	uc.RequestTimeout = def.Key("request_timeout").MustInt(uc.RequestTimeout)
	uc.MaxRetries = def.Key("max_retries").MustInt(uc.MaxRetries)
	uc.UserAgent = def.Key("user_agent").MustString(uc.UserAgent)

	ui := f.Section("UI")
	uc.Theme = ui.Key("theme").MustString(uc.Theme)
	uc.Language = ui.Key("language").MustString(uc.Language)
	uc.WindowWidth = ui.Key("window_width").MustInt(uc.WindowWidth)
	uc.WindowHeight = ui.Key("window_height").MustInt(uc.WindowHeight)

	notif := f.Section("NOTIFICATIONS")
	uc.NotificationsEnabled = notif.Key("enabled").MustBool(uc.NotificationsEnabled)
	uc.SoundEnabled = notif.Key("sound").MustBool(uc.SoundEnabled)
	uc.PopupEnabled = notif.Key("popup").MustBool(uc.PopupEnabled)

	return uc
}

// SaveUserConfig writes the full INI document to path.
func SaveUserConfig(path string, uc UserConfig) error {
	f := ini.Empty()

	def := f.Section(ini.DefaultSection)
	def.Key("check_interval").SetValue(strconv.Itoa(uc.CheckInterval))
	def.Key("request_timeout").SetValue(strconv.Itoa(uc.RequestTimeout))
	def.Key("max_retries").SetValue(strconv.Itoa(uc.MaxRetries))
	def.Key("user_agent").SetValue(uc.UserAgent)

	ui := f.Section("UI")
	ui.Key("theme").SetValue(uc.Theme)
	ui.Key("language").SetValue(uc.Language)
	ui.Key("window_width").SetValue(strconv.Itoa(uc.WindowWidth))
	ui.Key("window_height").SetValue(strconv.Itoa(uc.WindowHeight))

	notif := f.Section("NOTIFICATIONS")
	notif.Key("enabled").SetValue(strconv.FormatBool(uc.NotificationsEnabled))
	notif.Key("sound").SetValue(strconv.FormatBool(uc.SoundEnabled))
	notif.Key("popup").SetValue(strconv.FormatBool(uc.PopupEnabled))

	tmp := path + ".tmp"
	if err := f.SaveTo(tmp); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
