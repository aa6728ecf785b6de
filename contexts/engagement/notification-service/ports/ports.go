package ports

import (
	"context"
	"time"

	"caravan/internal/shared/events"
)

type EventEnvelope = events.Envelope

type DeviceToken struct {
	UserID    string
	Token     string
	CreatedAt time.Time
}

// DeviceTokenRepository is append-only: tokens are never expired or pruned,
// and registering the same (userID, token) pair twice is a no-op.
type DeviceTokenRepository interface {
	RegisterToken(ctx context.Context, token DeviceToken) error
	ListTokensByUserID(ctx context.Context, userID string) ([]DeviceToken, error)
}

type Role string

const (
	RoleDriver Role = "DRIVER"
	RoleClient Role = "CLIENT"
)

// AudienceDirectory resolves notification recipients from the profile
// tables. EmailByUserID supports the email fallback for users without a
// registered device.
type AudienceDirectory interface {
	ListUserIDsByRole(ctx context.Context, role Role) ([]string, error)
	EmailByUserID(ctx context.Context, userID string) (string, bool, error)
}

// Notifier wraps the external push/email delivery service. SendPush targets
// one device token; callers own the fan-out and per-token failure policy.
type Notifier interface {
	SendPush(ctx context.Context, token string, templateID string, metadata map[string]string) error
	SendEmail(ctx context.Context, address string, templateID string, metadata map[string]string) error
}

// DeliveryCounter records per-template delivery outcomes.
type DeliveryCounter interface {
	IncNotificationSent(template string)
	IncNotificationFailed(template string)
}

type Clock interface {
	Now() time.Time
}

// EventSource is the bus subscription the consumer worker reads from.
type EventSource interface {
	Subscribe(topic string, buffer int) <-chan events.Envelope
}
