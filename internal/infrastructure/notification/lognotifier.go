package notification

import (
	"context"

	"github.com/merdocx/veilbot/internal/shared/logger"
)

// LogNotifier is the fallback channel when no bot is configured: it records
// the notification and succeeds, so sweep flags still advance.
type LogNotifier struct {
	logger logger.Interface
}

func NewLogNotifier(log logger.Interface) Notifier {
	return &LogNotifier{logger: log.Named("notify")}
}

func (n *LogNotifier) Notify(ctx context.Context, msg Message) error {
	n.logger.Infow("notification",
		"event", string(msg.Event),
		"user_id", msg.UserID,
		"subscription_id", msg.SubscriptionID,
		"text", msg.Text,
	)
	return nil
}
