// Package config builds the explicit configuration object passed down
// to every component. Nothing in this repo reads the environment or the
// settings files on its own.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	AppName    = "domain-tracker"
	AppVersion = "1.0.0"
)

type Config struct {
	Addr    string // API bind address
	DataDir string // per-user data directory

	MaxDomains    int           // store size cap
	MaxErrorCount int           // consecutive errors before cleanup removes a domain
	CheckInterval time.Duration // monitor loop interval
	HTTPTimeout   time.Duration // per-probe timeout
	CacheTTL      time.Duration // probe result cache lifetime
	Concurrency   int           // worker pool size for fan-out checks
	RetryAttempts int           // extra attempts on 429/5xx
	RetryBackoff  time.Duration // initial retry backoff
	UserAgent     string

	SlackWebhook    string
	AlertOnRecovery bool
	AlertCooldown   time.Duration

	LogLevel      string // zap level name
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
}

func FromEnv() Config {
	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = "127.0.0.1:8080"
	}

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		dataDir = filepath.Join(home, ".domain-tracker")
	}

	return Config{
		Addr:            addr,
		DataDir:         dataDir,
		MaxDomains:      envInt("MAX_DOMAINS", 10),
		MaxErrorCount:   envInt("MAX_ERROR_COUNT", 5),
		CheckInterval:   envMS("CHECK_INTERVAL_MS", 5*time.Minute),
		HTTPTimeout:     envMS("HTTP_TIMEOUT_MS", 10*time.Second),
		CacheTTL:        envMS("CACHE_TTL_MS", 5*time.Minute),
		Concurrency:     envInt("MAX_CONCURRENT_CHECKS", 3),
		RetryAttempts:   envInt("RETRY_ATTEMPTS", 3),
		RetryBackoff:    envMS("RETRY_BACKOFF_MS", time.Second),
		UserAgent:       envStr("USER_AGENT", "DomainTracker/"+AppVersion),
		SlackWebhook:    os.Getenv("SLACK_WEBHOOK"),
		AlertOnRecovery: envBool("ALERT_ON_RECOVERY", false),
		AlertCooldown:   envMS("ALERT_COOLDOWN_MS", 15*time.Minute),
		LogLevel:        envStr("LOG_LEVEL", "info"),
		LogMaxSizeMB:    envInt("LOG_MAX_SIZE_MB", 10),
		LogMaxBackups:   envInt("LOG_MAX_BACKUPS", 5),
		LogMaxAgeDays:   envInt("LOG_MAX_AGE_DAYS", 14),
	}
}

// EnsureDataDir creates the data directory if needed.
func (c Config) EnsureDataDir() error {
	return os.MkdirAll(c.DataDir, 0o755)
}

func (c Config) DomainsFile() string    { return filepath.Join(c.DataDir, "domains.json") }
func (c Config) SettingsFile() string   { return filepath.Join(c.DataDir, "settings.json") }
func (c Config) UserConfigFile() string { return filepath.Join(c.DataDir, "user_config.ini") }
func (c Config) LogDir() string         { return c.DataDir }

func envStr(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

func envInt(name string, def int) int {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func envMS(name string, def time.Duration) time.Duration {
	if v := os.Getenv(name); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms >= 0 {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return def
}

func envBool(name string, def bool) bool {
	if v := os.Getenv(name); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
