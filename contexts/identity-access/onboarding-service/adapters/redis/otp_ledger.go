package redisadapter

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"caravan/contexts/identity-access/onboarding-service/ports"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "caravan:otp:"

// OtpLedger keeps verification codes in Redis. The key TTL mirrors the
// record's ExpiresAt so abandoned codes evaporate without a sweeper.
type OtpLedger struct {
	client *redis.Client
}

func NewOtpLedger(client *redis.Client) *OtpLedger {
	return &OtpLedger{client: client}
}

type otpPayload struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (l *OtpLedger) Put(ctx context.Context, record ports.OtpRecord) error {
	payload, err := json.Marshal(otpPayload{
		Code:      record.Code,
		ExpiresAt: record.ExpiresAt.UTC(),
	})
	if err != nil {
		return err
	}

	ttl := time.Until(record.ExpiresAt)
	if ttl <= 0 {
		ttl = time.Second
	}
	return l.client.Set(ctx, keyPrefix+record.Email, payload, ttl).Err()
}

func (l *OtpLedger) Get(ctx context.Context, email string) (ports.OtpRecord, bool, error) {
	raw, err := l.client.Get(ctx, keyPrefix+email).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ports.OtpRecord{}, false, nil
		}
		return ports.OtpRecord{}, false, err
	}

	var payload otpPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ports.OtpRecord{}, false, err
	}
	return ports.OtpRecord{
		Email:     email,
		Code:      payload.Code,
		ExpiresAt: payload.ExpiresAt.UTC(),
	}, true, nil
}

func (l *OtpLedger) Delete(ctx context.Context, email string) error {
	return l.client.Del(ctx, keyPrefix+email).Err()
}
