package workspace

import (
	"log/slog"
)

// Notifier surfaces user-visible messages (toasts in a UI, stderr in the CLI)
type Notifier interface {
	Info(message string)
	Error(message string)
}

// LogNotifier writes notifications through slog
type LogNotifier struct {
	Logger *slog.Logger
}

// NewLogNotifier creates a notifier that logs to logger
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{Logger: logger}
}

func (n *LogNotifier) Info(message string) {
	n.Logger.Info(message, "source", "workspace")
}

func (n *LogNotifier) Error(message string) {
	n.Logger.Error(message, "source", "workspace")
}

type nopNotifier struct{}

func (nopNotifier) Info(string)  {}
func (nopNotifier) Error(string) {}
