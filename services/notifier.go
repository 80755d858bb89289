package services

import (
	"log/slog"
	"sync"

	"github.com/trunkcat/fixtures/apiclient"
)

// Notifier surfaces transient messages to whoever is operating the console.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// NotifyFetchError reports a failed retrieval: the backend's message when
// the error is structured, a generic message otherwise.
func NotifyFetchError(n Notifier, err error) {
	if apiErr, ok := apiclient.AsAPIError(err); ok {
		n.Error(apiErr.Message)
		return
	}
	n.Error(GenericErrorMessage)
}

// NotifyMutationError reports a failed mutation: the backend's message when
// structured, otherwise the error's own text.
func NotifyMutationError(n Notifier, err error) {
	if apiErr, ok := apiclient.AsAPIError(err); ok {
		n.Error(apiErr.Message)
		return
	}
	if msg := err.Error(); msg != "" {
		n.Error(msg)
		return
	}
	n.Error(GenericErrorMessage)
}

// LogNotifier writes notifications to a structured logger.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Success(message string) {
	n.logger.Info(message, slog.String("kind", "success"))
}

func (n *LogNotifier) Error(message string) {
	n.logger.Error(message, slog.String("kind", "error"))
}

// Notification is one recorded message.
type Notification struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// RecordingNotifier collects notifications, e.g. to return them with an HTTP response.
type RecordingNotifier struct {
	mu    sync.Mutex
	items []Notification
}

func (n *RecordingNotifier) Success(message string) {
	n.add("success", message)
}

func (n *RecordingNotifier) Error(message string) {
	n.add("error", message)
}

func (n *RecordingNotifier) add(kind, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = append(n.items, Notification{Kind: kind, Message: message})
}

// Notifications returns a copy of everything recorded so far.
func (n *RecordingNotifier) Notifications() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notification(nil), n.items...)
}
