package logging

import (
	"os"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLogger_CreatesDirAndLogger(t *testing.T) {
	dir := t.TempDir()
	log, err := NewLogger(Options{Dir: dir})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	defer func() { _ = log.Sync() }()

	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("log dir missing: %v", err)
	}

	// Write once; just ensuring no panic / basic functionality.
	log.Info("test_message_from_logging_test")
}

func TestNewLogger_LevelFromOptions(t *testing.T) {
	log, err := NewLogger(Options{Dir: t.TempDir(), Level: "debug"})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	if !log.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("debug level should enable debug entries")
	}
}

func TestNewLogger_DefaultAndBadLevelFallBackToInfo(t *testing.T) {
	for _, level := range []string{"", "nonsense"} {
		log, err := NewLogger(Options{Dir: t.TempDir(), Level: level})
		if err != nil {
			t.Fatalf("NewLogger(%q): %v", level, err)
		}
		if log.Core().Enabled(zapcore.DebugLevel) {
			t.Fatalf("level %q should fall back to info", level)
		}
		if !log.Core().Enabled(zapcore.InfoLevel) {
			t.Fatalf("level %q should still log info", level)
		}
	}
}
