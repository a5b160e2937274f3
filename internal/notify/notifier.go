package notify

import (
	"context"

	"autoshop/pkg/logging"
)

// Severity classifies a notification for the presentation surface.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notification is a fire-and-forget message for the user-facing
// notification surface. No acknowledgment is expected.
type Notification struct {
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Notifier delivers notifications. Implementations must not block the
// caller on delivery problems.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// LogNotifier writes notifications to the structured log.
type LogNotifier struct {
	logger *logging.Logger
}

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier(logger *logging.Logger) *LogNotifier {
	if logger == nil {
		logger = logging.Default()
	}
	return &LogNotifier{logger: logger}
}

func (l *LogNotifier) Notify(ctx context.Context, n Notification) {
	switch n.Severity {
	case SeverityError:
		l.logger.Warn("notification", "title", n.Title, "message", n.Message)
	default:
		l.logger.Info("notification", "title", n.Title, "message", n.Message)
	}
}
