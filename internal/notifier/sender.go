// Package notifier consumes account events and delivers the corresponding
// emails. Delivery is best effort; failures are logged, never surfaced to
// the request that triggered them.
package notifier

import "context"

// Email is a rendered message ready for delivery.
type Email struct {
	To      string
	Subject string
	HTML    string
}

// Sender delivers a rendered email through a specific channel.
type Sender interface {
	Name() string
	Send(ctx context.Context, email *Email) error
}
