package notifications

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EnqueueInput struct {
	UserID      string
	Channel     Channel
	Template    string
	Payload     map[string]any
	ScheduledAt *time.Time
}

// Enqueue inserts a queued notification using the caller's transaction, so
// the notification commits or rolls back with the change it announces.
func Enqueue(ctx context.Context, tx *gorm.DB, in EnqueueInput) (Notification, error) {
	payload, err := json.Marshal(in.Payload)
	if err != nil {
		return Notification{}, err
	}
	if in.Payload == nil {
		payload = []byte("{}")
	}

	now := time.Now().UTC()
	n := Notification{
		ID:          uuid.NewString(),
		Channel:     in.Channel,
		Template:    in.Template,
		Payload:     payload,
		Status:      StatusQueued,
		ScheduledAt: in.ScheduledAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.UserID != "" {
		uid := in.UserID
		n.UserID = &uid
	}
	if n.Channel == "" {
		n.Channel = ChannelPush
	}

	if err := tx.WithContext(ctx).Create(&n).Error; err != nil {
		return Notification{}, err
	}
	return n, nil
}

// Enqueuer fans a user notification out to every enabled channel.
type Enqueuer struct {
	channels []Channel
}

func NewEnqueuer(channels ...Channel) *Enqueuer {
	if len(channels) == 0 {
		channels = []Channel{ChannelPush}
	}
	return &Enqueuer{channels: channels}
}

func (e *Enqueuer) Notify(ctx context.Context, tx *gorm.DB, userID, template string, payload map[string]any) error {
	for _, ch := range e.channels {
		if _, err := Enqueue(ctx, tx, EnqueueInput{
			UserID:   userID,
			Channel:  ch,
			Template: template,
			Payload:  payload,
		}); err != nil {
			return err
		}
	}
	return nil
}
