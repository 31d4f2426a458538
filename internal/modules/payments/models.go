package payments

import (
	"time"

	"gorm.io/datatypes"
)

const (
	StatusPending  = "pending"
	StatusPaid     = "paid"
	StatusFailed   = "failed"
	StatusRefunded = "refunded"
)

// IsTerminal: a payment in a terminal status never changes again.
func IsTerminal(status string) bool {
	return status == StatusPaid || status == StatusFailed || status == StatusRefunded
}

// Payment is one payment attempt of an order.
type Payment struct {
	ID                string         `gorm:"size:36;primaryKey"`
	OrderID           string         `gorm:"size:36;not null;index:ix_payments_order_id"`
	Method            string         `gorm:"size:8;not null"`
	Status            string         `gorm:"size:16;not null"`
	AmountPaise       int64          `gorm:"not null"`
	Provider          string         `gorm:"size:64;not null"`
	ProviderPaymentID *string        `gorm:"size:128;index:ix_payments_provider_payment_id"`
	ProviderPayload   datatypes.JSON `gorm:"not null"`
	CreatedAt         time.Time      `gorm:"not null"`
	UpdatedAt         time.Time      `gorm:"not null"`
}

func (Payment) TableName() string { return "payments" }

// ProviderEvent records every accepted webhook delivery; the unique key
// turns provider retries of the same event into no-ops.
type ProviderEvent struct {
	ID           string         `gorm:"size:36;primaryKey"`
	Provider     string         `gorm:"size:64;not null;uniqueIndex:ux_provider_events_provider_event,priority:1"`
	EventKey     string         `gorm:"size:160;not null;uniqueIndex:ux_provider_events_provider_event,priority:2"`
	OrderID      string         `gorm:"size:36;not null"`
	Status       string         `gorm:"size:16;not null"`
	Payload      datatypes.JSON `gorm:"not null"`
	ReceivedAt   time.Time      `gorm:"not null"`
	ProcessedAt  *time.Time
	ProcessError *string `gorm:"size:255"`
}

func (ProviderEvent) TableName() string { return "provider_events" }
