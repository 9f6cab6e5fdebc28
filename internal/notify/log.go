package notify

import (
	"context"

	"go.uber.org/zap"
)

// Log writes notifications to the application log. It stands in for the
// desktop popup/tray balloon when no other sink is configured.
type Log struct {
	Logger *zap.Logger
}

func NewLog(logger *zap.Logger) *Log {
	return &Log{Logger: logger}
}

func (l *Log) Send(_ context.Context, title, text string) error {
	l.Logger.Info("notification", zap.String("title", title), zap.String("text", text))
	return nil
}
