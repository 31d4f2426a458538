package orders

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/notifications"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/platform/database"
)

// Notifier queues user notifications inside the caller's transaction.
type Notifier interface {
	Notify(ctx context.Context, tx *gorm.DB, userID, template string, payload map[string]any) error
}

type Service struct {
	db       *gorm.DB
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(db *gorm.DB, notifier Notifier, logger *slog.Logger) *Service {
	if notifier == nil {
		notifier = notifications.NewEnqueuer()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{db: db, notifier: notifier, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

type UpdateStatusInput struct {
	OrderID     string
	To          string
	ActorUserID string
	Note        string
}

// UpdateStatus is the ops transition. It is never blocked by is_locked.
func (s *Service) UpdateStatus(ctx context.Context, in UpdateStatusInput) (Order, error) {
	to, ok := ParseStatus(strings.TrimSpace(in.To))
	if !ok {
		return Order{}, ErrInvalidStatus
	}

	var out Order
	err := database.WithTxRetry(ctx, s.db, 3, func(tx *gorm.DB) error {
		o, err := lockOrder(ctx, tx, "id = ?", in.OrderID)
		if err != nil {
			return err
		}
		if o.Status == to {
			out = o
			return nil
		}
		// only the lock job moves orders into locked
		if to == StatusLocked {
			return ErrLockReserved
		}

		now := s.now()
		set := map[string]any{}
		switch to {
		case StatusCancelled:
			reason := strings.TrimSpace(in.Note)
			if reason == "" {
				reason = "cancelled_by_ops"
			}
			set["cancelled_at"] = &now
			set["cancellation_reason"] = reason
		case StatusDelivered:
			set["delivered_at"] = &now
			// cash is collected at the door
			if o.PaymentMethod == MethodCOD && o.PaymentStatus == PaymentPending {
				set["payment_status"] = PaymentPaid
				set["paid_at"] = &now
			}
		}

		var actor *string
		if in.ActorUserID != "" {
			a := in.ActorUserID
			actor = &a
		}

		changed, err := ApplyTransition(ctx, tx, &o, Change{
			To:          to,
			ActorUserID: actor,
			Note:        in.Note,
			Meta:        map[string]any{"source": "ops"},
			Set:         set,
			At:          now,
		})
		if err != nil {
			return err
		}
		if !changed {
			out = o
			return nil
		}

		if v, ok := set["payment_status"]; ok && v == PaymentPaid {
			if err := markCODCollected(ctx, tx, o.ID, now); err != nil {
				return err
			}
		}

		template := notifications.TemplateOrderStatusUpdated
		if to == StatusCancelled {
			template = notifications.TemplateOrderCancelled
		}
		if err := s.notifier.Notify(ctx, tx, o.UserID, template, notifyPayload(o)); err != nil {
			return err
		}

		// reload for the columns written through set
		return tx.WithContext(ctx).First(&out, "id = ?", o.ID).Error
	})
	if err != nil {
		return Order{}, err
	}

	s.logger.InfoContext(ctx, "order status updated", "order_id", out.ID, "status", out.Status, "actor", in.ActorUserID)
	return out, nil
}

type CancelInput struct {
	OrderID string
	UserID  string
	Reason  string
}

// CancelByCustomer cancels an order on behalf of its owner. Cancelling an
// already cancelled order succeeds without writing anything.
func (s *Service) CancelByCustomer(ctx context.Context, in CancelInput) (Order, error) {
	var out Order
	err := database.WithTxRetry(ctx, s.db, 3, func(tx *gorm.DB) error {
		o, err := lockOrder(ctx, tx, "id = ? AND user_id = ?", in.OrderID, in.UserID)
		if err != nil {
			return err
		}
		if o.Status == StatusCancelled {
			out = o
			return nil
		}
		if o.IsLocked {
			return ErrOrderLocked
		}
		if !customerCancellable[o.Status] {
			return ErrCannotCancel
		}

		now := s.now()
		reason := strings.TrimSpace(in.Reason)
		if reason == "" {
			reason = "cancelled_by_customer"
		}
		actor := in.UserID
		if _, err := ApplyTransition(ctx, tx, &o, Change{
			To:          StatusCancelled,
			ActorUserID: &actor,
			Note:        reason,
			Meta:        map[string]any{"source": "customer"},
			Set:         map[string]any{"cancelled_at": &now, "cancellation_reason": reason},
			At:          now,
		}); err != nil {
			return err
		}
		o.CancelledAt = &now
		o.CancellationReason = &reason

		out = o
		return s.notifier.Notify(ctx, tx, o.UserID, notifications.TemplateOrderCancelled, notifyPayload(o))
	})
	if err != nil {
		return Order{}, err
	}
	return out, nil
}

func lockOrder(ctx context.Context, tx *gorm.DB, query string, args ...any) (Order, error) {
	var o Order
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(query, args...).
		First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Order{}, ErrOrderNotFound
	}
	return o, err
}

// payments live in their own module; only the COD row is touched here
func markCODCollected(ctx context.Context, tx *gorm.DB, orderID string, now time.Time) error {
	return tx.WithContext(ctx).
		Table("payments").
		Where("order_id = ? AND method = ? AND status = ?", orderID, MethodCOD, PaymentPending).
		Updates(map[string]any{"status": PaymentPaid, "updated_at": now}).Error
}

func notifyPayload(o Order) map[string]any {
	return map[string]any{
		"order_id":          o.ID,
		"order_number":      o.OrderNumber,
		"status":            string(o.Status),
		"delivery_date":     o.DeliveryDate,
		"grand_total_paise": o.GrandTotalPaise,
	}
}

// NotifyPayload is the common payload of order notifications.
func NotifyPayload(o Order) map[string]any { return notifyPayload(o) }
