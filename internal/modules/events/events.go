// Package events publishes domain events for downstream consumers
// (dispatch planning, analytics). Publishing is best effort and always
// happens after the owning transaction has committed.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

const (
	KeyOrderPlaced  = "order.placed"
	KeyOrdersLocked = "orders.locked"
)

type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }

// Broker is the transport a JSONPublisher writes to; *mq.Pool implements it.
type Broker interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
}

type JSONPublisher struct {
	broker Broker
}

func NewJSONPublisher(b Broker) *JSONPublisher { return &JSONPublisher{broker: b} }

type envelope struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

func (p *JSONPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	body, err := json.Marshal(envelope{Type: routingKey, OccurredAt: time.Now().UTC(), Data: payload})
	if err != nil {
		return err
	}
	return p.broker.Publish(ctx, routingKey, body)
}

// PublishBestEffort logs instead of returning: the state change it announces
// has already committed.
func PublishBestEffort(ctx context.Context, pub Publisher, logger *slog.Logger, routingKey string, payload any) {
	if pub == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	if err := pub.Publish(ctx, routingKey, payload); err != nil {
		logger.WarnContext(ctx, "event publish failed", "routing_key", routingKey, "err", err)
	}
}

type OrderPlaced struct {
	OrderID         string `json:"order_id"`
	OrderNumber     string `json:"order_number"`
	UserID          string `json:"user_id"`
	DeliveryDate    string `json:"delivery_date"`
	Status          string `json:"status"`
	PaymentMethod   string `json:"payment_method"`
	GrandTotalPaise int64  `json:"grand_total_paise"`
}

type OrdersLocked struct {
	DeliveryDate string   `json:"delivery_date"`
	Locked       int      `json:"locked"`
	OrderIDs     []string `json:"order_ids"`
}
