package orders

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/shared/textutil"
)

const noteMax = 255

// Change describes one status transition.
type Change struct {
	To          Status
	ActorUserID *string // nil for system-driven transitions
	Note        string
	Meta        map[string]any
	Set         map[string]any // extra columns written with the status
	At          time.Time
}

// ApplyTransition moves o to ch.To inside tx. The caller must hold the row
// lock on o. Re-applying the current status is a no-op and returns false.
// Every accepted transition writes exactly one OrderStatusEvent.
func ApplyTransition(ctx context.Context, tx *gorm.DB, o *Order, ch Change) (bool, error) {
	if o.Status == ch.To {
		return false, nil
	}
	if err := CheckTransition(o.Status, ch.To); err != nil {
		return false, err
	}

	at := ch.At
	if at.IsZero() {
		at = time.Now().UTC()
	}

	updates := map[string]any{"status": ch.To, "updated_at": at}
	for k, v := range ch.Set {
		updates[k] = v
	}

	from := o.Status
	res := tx.WithContext(ctx).
		Model(&Order{}).
		Where("id = ? AND status = ?", o.ID, from). // guard against a stale read
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, ErrConcurrentUpdate
	}

	if err := appendEvent(ctx, tx, o.ID, &from, ch.To, ch.ActorUserID, ch.Note, ch.Meta, at); err != nil {
		return false, err
	}

	o.Status = ch.To
	o.UpdatedAt = at
	return true, nil
}

// RecordCreated writes the first event of a new order (from_status NULL).
func RecordCreated(ctx context.Context, tx *gorm.DB, o *Order, actor *string, note string) error {
	return appendEvent(ctx, tx, o.ID, nil, o.Status, actor, note, nil, o.CreatedAt)
}

func appendEvent(ctx context.Context, tx *gorm.DB, orderID string, from *Status, to Status, actor *string, note string, meta map[string]any, at time.Time) error {
	ev, err := newEvent(orderID, from, to, actor, note, meta, at)
	if err != nil {
		return err
	}
	return tx.WithContext(ctx).Create(&ev).Error
}

func newEvent(orderID string, from *Status, to Status, actor *string, note string, meta map[string]any, at time.Time) (OrderStatusEvent, error) {
	metaJSON := []byte("{}")
	if len(meta) > 0 {
		b, err := json.Marshal(meta)
		if err != nil {
			return OrderStatusEvent{}, err
		}
		metaJSON = b
	}

	var notePtr *string
	if n := strings.TrimSpace(note); n != "" {
		n = textutil.Truncate(n, noteMax)
		notePtr = &n
	}

	return OrderStatusEvent{
		ID:          uuid.NewString(),
		OrderID:     orderID,
		FromStatus:  from,
		ToStatus:    to,
		ActorUserID: actor,
		Note:        notePtr,
		Meta:        metaJSON,
		CreatedAt:   at,
	}, nil
}

// NewEvent builds an event row for callers that bulk-insert transitions.
func NewEvent(orderID string, from Status, to Status, note string, meta map[string]any, at time.Time) (OrderStatusEvent, error) {
	f := from
	return newEvent(orderID, &f, to, nil, note, meta, at)
}

// NewOrderNumber returns e.g. ORD-20240601-3F9A0C1B; the date is the
// order's local calendar day.
func NewOrderNumber(now time.Time, loc *time.Location) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return "ORD-" + now.In(loc).Format("20060102") + "-" + suffix
}
