package services

import "context"

// NotificationKind classifies a post-commit notification.
type NotificationKind string

const (
	NotifyPointsCredited NotificationKind = "POINTS_CREDITED"
	NotifyPointsDebited  NotificationKind = "POINTS_DEBITED"
	NotifyBonusAwarded   NotificationKind = "REFERRAL_BONUS_AWARDED"
	NotifyRedeemed       NotificationKind = "ITEM_REDEEMED"
)

// Notification is the payload handed to the external dispatcher.
type Notification struct {
	Kind      NotificationKind
	AccountID string
	Message   string
}

// NotificationDispatcher hands notifications to the delivery system.
// Implementations must be safe to call after commit, fire-and-forget: a
// dispatch failure never affects the ledger transaction that triggered it.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, n Notification)
}
