// Package event publishes payment domain events. Publication is an explicit
// call after a successful persist, never a persistence lifecycle hook.
package event

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// PaymentChannel is the pub/sub channel payment lifecycle events go to.
const PaymentChannel = "payments.events"

// PaymentEvent describes a payment status transition.
type PaymentEvent struct {
	PaymentUUID string    `json:"paymentUuid"`
	Status      string    `json:"status"`
	OccurredAt  time.Time `json:"occurredAt"`
}

// Publisher delivers payment events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, e PaymentEvent) error
}

// LoggerPublisher writes events to the structured log. Used in development
// and as the fallback when no broker is configured.
type LoggerPublisher struct {
	logger *slog.Logger
}

// NewLoggerPublisher builds a log-backed publisher.
func NewLoggerPublisher(logger *slog.Logger) *LoggerPublisher {
	return &LoggerPublisher{logger: logger}
}

// Publish logs the event.
func (p *LoggerPublisher) Publish(_ context.Context, e PaymentEvent) error {
	p.logger.Info("payment event",
		slog.String("payment_uuid", e.PaymentUUID),
		slog.String("status", e.Status),
		slog.Time("occurred_at", e.OccurredAt),
	)
	return nil
}

// RedisPublisher fans events out over Redis pub/sub.
type RedisPublisher struct {
	client *redis.Client
}

// NewRedisPublisher builds a Redis-backed publisher.
func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

// Publish serializes the event and publishes it on the payment channel.
func (p *RedisPublisher) Publish(ctx context.Context, e PaymentEvent) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, PaymentChannel, payload).Err()
}
