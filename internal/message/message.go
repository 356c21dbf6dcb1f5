// internal/message/message.go
//
// Messaging stub.
//
// Context
//   Form actions hand finished submissions to this package.  Delivery to a
//   real queue is out of scope, so Enqueue writes a structured log entry and
//   returns nil so callers proceed without blocking.
//
// Style
//   Two-space sentence spacing, Oxford comma, concise inline notes.
//
//------------------------------------------------------------------------------

package message

import (
	"context"
	"errors"
	"sort"

	"github.com/yanizio/adept-contact/internal/logger"
)

// Notification is one outbound notice about a form submission.  Fields
// holds already-sanitized values keyed by summary label.
type Notification struct {
	ID      string
	FormID  string
	Subject string
	Fields  map[string]string
}

// Enqueue logs the notification.  Swap with a real publisher later.
func Enqueue(ctx context.Context, n Notification) error {
	if n.ID == "" || n.FormID == "" {
		return errors.New("message: notification needs ID and FormID")
	}

	keys := make([]string, 0, len(n.Fields))
	for k := range n.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	logger.FromContext(ctx).Infow("notification queued",
		"submission", n.ID,
		"form", n.FormID,
		"subject", n.Subject,
		"fields", keys,
	)
	return nil
}
