package engine

import (
	"github.com/tradewind-lab/tradewind/internal/logger"
	"go.uber.org/zap"
)

// NotificationLevel classifies outbound notifications.
type NotificationLevel string

const (
	LevelInfo    NotificationLevel = "info"
	LevelSuccess NotificationLevel = "success"
	LevelWarning NotificationLevel = "warning"
	LevelError   NotificationLevel = "error"
)

// NotificationSink receives fire-and-forget messages about engine activity:
// admissions, rejections and cycle failures. Implementations must not block
// the cycle.
type NotificationSink interface {
	Notify(message string, level NotificationLevel)
}

// LogNotificationSink writes notifications to the engine log. It is the
// default sink when no external messenger is wired in.
type LogNotificationSink struct {
	logger *logger.Logger
}

// NewLogNotificationSink creates a sink backed by the given logger.
func NewLogNotificationSink(log *logger.Logger) *LogNotificationSink {
	return &LogNotificationSink{logger: log}
}

// Notify implements NotificationSink.
func (s *LogNotificationSink) Notify(message string, level NotificationLevel) {
	switch level {
	case LevelError:
		s.logger.Error(message, zap.String("level", string(level)))
	case LevelWarning:
		s.logger.Warn(message, zap.String("level", string(level)))
	default:
		s.logger.Info(message, zap.String("level", string(level)))
	}
}

var _ NotificationSink = (*LogNotificationSink)(nil)
