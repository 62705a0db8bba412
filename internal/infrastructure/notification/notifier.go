package notification

import "context"

// Event identifies what a notification is about.
type Event string

const (
	EventPurchase          Event = "purchase"
	EventExpirySoon        Event = "expiry_soon"
	EventOverLimit         Event = "traffic_over_limit"
	EventSubscriptionEnded Event = "subscription_ended"
)

// Message is one user-facing notification.
type Message struct {
	UserID         uint64
	SubscriptionID uint
	Event          Event
	Text           string
}

// Notifier delivers user notifications through an external channel.
// Delivery failures are reported to the caller, which decides whether the
// triggering flag may be set.
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}
