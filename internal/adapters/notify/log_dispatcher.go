package notify

import (
	"context"
	"log/slog"

	portssvc "github.com/greenpoints/recycle_rewards_app/internal/core/ports/services"
)

// LogDispatcher writes notifications to the structured log. It stands in for
// the external delivery system (SMS, push) which is operated separately; the
// service only needs the fire-and-forget contract.
type LogDispatcher struct {
	logger *slog.Logger
}

func NewLogDispatcher(logger *slog.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

var _ portssvc.NotificationDispatcher = (*LogDispatcher)(nil)

// Dispatch logs the notification. Never returns an error: delivery failures
// must not affect the transaction that triggered the notification.
func (d *LogDispatcher) Dispatch(_ context.Context, n portssvc.Notification) {
	d.logger.Info("Notification dispatched",
		slog.String("kind", string(n.Kind)),
		slog.String("account_id", n.AccountID),
		slog.String("message", n.Message),
	)
}
