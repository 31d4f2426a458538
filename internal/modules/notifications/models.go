package notifications

import (
	"time"

	"gorm.io/datatypes"
)

type Channel string

const (
	ChannelPush  Channel = "push"
	ChannelEmail Channel = "email"
)

type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusSent       Status = "sent"
	StatusFailed     Status = "failed"
)

// Notification is a queued side effect. Rows move queued -> processing ->
// sent|failed and are never re-queued by this service.
type Notification struct {
	ID           string         `gorm:"size:36;primaryKey"`
	UserID       *string        `gorm:"size:36;index:ix_notifications_user_id"`
	Channel      Channel        `gorm:"size:16;not null;index:ix_notifications_claim,priority:1"`
	Template     string         `gorm:"size:64;not null"`
	Payload      datatypes.JSON `gorm:"not null"`
	Status       Status         `gorm:"size:16;not null;index:ix_notifications_claim,priority:2"`
	AttemptCount int            `gorm:"not null"`
	LastError    *string        `gorm:"size:255"`
	ScheduledAt  *time.Time
	SentAt       *time.Time
	CreatedAt    time.Time `gorm:"not null;index:ix_notifications_claim,priority:3"`
	UpdatedAt    time.Time `gorm:"not null"`
}

func (Notification) TableName() string { return "notifications" }
