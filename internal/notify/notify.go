// Package notify delivers rendered messages to account email addresses.
// The lifecycle service depends only on the Notifier contract; delivery is
// best-effort and never blocks or fails the operation that triggered it.
package notify

import "context"

// Message is one outbound notification: a template id plus the variables
// needed to render it, addressed to a single recipient.
type Message struct {
	To        string
	Subject   string
	Template  string
	Variables map[string]any
}

type Notifier interface {
	Send(ctx context.Context, msg Message) error
}
