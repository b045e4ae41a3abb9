// Package notify provides desktop notification support for session events.
package notify

import (
	"fmt"

	"github.com/MeidoSUD/Ewan-Geniuses-Portal/internal/config"
)

// Notifier defines the interface for sending desktop notifications.
type Notifier interface {
	// NotifySessionExpired sends a notification that the stored credential
	// was rejected and the session was cleared.
	NotifySessionExpired() error
	// NotifyConnectionIssue sends a notification that the backend is
	// unreachable or hidden behind a tunnel verification page.
	NotifyConnectionIssue(address string, cause error) error
}

// Option configures a Notifier.
type Option func(*notifier)

// WithBackend sets a custom notification backend (for testing).
func WithBackend(backend Backend) Option {
	return func(n *notifier) {
		n.backend = backend
	}
}

// notifier sends desktop notifications using the system notification service.
type notifier struct {
	onSessionExpired  bool
	onConnectionIssue bool
	backend           Backend
}

// NotifySessionExpired sends a notification about a cleared session.
func (n *notifier) NotifySessionExpired() error {
	if !n.onSessionExpired {
		return nil
	}

	title := "Ewan: Session Expired"
	message := "Your session is no longer valid. Run 'ewan login' to sign in again."

	return n.backend.Alert(title, message, "")
}

// NotifyConnectionIssue sends a notification about an unreachable backend.
func (n *notifier) NotifyConnectionIssue(address string, cause error) error {
	if !n.onConnectionIssue {
		return nil
	}

	title := "Ewan: Connection Problem"
	message := fmt.Sprintf("Could not reach %s.\n%v\nTry 'ewan endpoint use' to switch endpoints.", address, cause)

	return n.backend.Notify(title, message, "")
}

// New creates a new Notifier based on the configuration.
func New(cfg config.NotificationConfig, opts ...Option) Notifier {
	n := &notifier{
		onSessionExpired:  cfg.Enabled && cfg.OnSessionExpired,
		onConnectionIssue: cfg.Enabled && cfg.OnConnectionIssue,
		backend:           newDesktopBackend(),
	}

	for _, opt := range opts {
		opt(n)
	}

	return n
}
