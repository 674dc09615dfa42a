package infrastructure

import (
	"fmt"
	"os/exec"

	"github.com/yourusername/audio-extract-go/internal/domain"
	"go.uber.org/zap"
)

// NotificationService sends desktop notifications about finished extractions
type NotificationService struct {
	config  *domain.NotificationConfig
	logger  *zap.Logger
	execute func(name string, args ...string) error
}

// NewNotificationService creates a new notification service
func NewNotificationService(config *domain.NotificationConfig, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		config: config,
		logger: logger,
		execute: func(name string, args ...string) error {
			return exec.Command(name, args...).Run()
		},
	}
}

// Send sends a notification
func (n *NotificationService) Send(title, message string) error {
	if n == nil || n.config == nil || !n.config.Enabled {
		return nil
	}

	var name string
	var args []string

	switch n.config.Method {
	case "osascript":
		name = "osascript"
		args = []string{"-e", fmt.Sprintf(`display notification %q with title %q`, message, title)}
	case "notify-send":
		name = "notify-send"
		args = []string{title, message}
	default:
		n.logger.Warn("Unknown notification method", zap.String("method", n.config.Method))
		return nil
	}

	if err := n.execute(name, args...); err != nil {
		n.logger.Error("Failed to send notification",
			zap.String("method", n.config.Method),
			zap.Error(err))
		return err
	}

	n.logger.Debug("Notification sent",
		zap.String("title", title),
		zap.String("message", message))
	return nil
}

// NotifyExtractionCompleted sends notification when an extraction completes
func (n *NotificationService) NotifyExtractionCompleted(result *domain.DownloadResult) {
	n.Send("Audio Ready", fmt.Sprintf("%s (%s)", truncateString(result.FileName, 40), result.Format))
}

// NotifyExtractionFailed sends notification when an extraction fails
func (n *NotificationService) NotifyExtractionFailed(url string, err error) {
	n.Send("Extraction Failed", fmt.Sprintf("%s (%s)", truncateString(url, 30), domain.ClassifyError(err)))
}

// truncateString truncates a string to the specified length
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
