package payments

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/notifications"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/orders"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/platform/database"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/shared/textutil"
)

var errDuplicateEvent = errors.New("duplicate provider event")

const processErrorMax = 255

type applyOutcome struct {
	applied bool
	status  orders.Status
	// ignored holds why a stored event changed nothing.
	ignored string
}

type WebhookService struct {
	db       *gorm.DB
	notifier orders.Notifier
	logger   *slog.Logger
	now      func() time.Time
}

func NewWebhookService(db *gorm.DB, notifier orders.Notifier, logger *slog.Logger) *WebhookService {
	if notifier == nil {
		notifier = notifications.NewEnqueuer()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &WebhookService{db: db, notifier: notifier, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

type WebhookResult struct {
	Duplicate   bool          `json:"duplicate"`
	Applied     bool          `json:"applied"`
	OrderStatus orders.Status `json:"order_status,omitempty"`
}

// Handle applies a verified payment event. Redelivery of the same
// (provider, payment id, status) and events for already-terminal payments
// change nothing.
func (s *WebhookService) Handle(ctx context.Context, ev WebhookEvent, rawBody []byte) (WebhookResult, error) {
	var res WebhookResult
	eventKey := ev.ProviderPaymentID + ":" + ev.Status

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var seen int64
		if err := tx.WithContext(ctx).Model(&ProviderEvent{}).
			Where("provider = ? AND event_key = ?", ev.Provider, eventKey).
			Count(&seen).Error; err != nil {
			return err
		}
		if seen > 0 {
			return errDuplicateEvent
		}

		now := s.now()
		pe := ProviderEvent{
			ID:         uuid.NewString(),
			Provider:   ev.Provider,
			EventKey:   eventKey,
			OrderID:    ev.OrderID,
			Status:     ev.Status,
			Payload:    rawBody,
			ReceivedAt: now,
		}
		if err := tx.WithContext(ctx).Create(&pe).Error; err != nil {
			if database.IsDuplicateKey(err) {
				return errDuplicateEvent
			}
			return err
		}

		out, err := s.apply(ctx, tx, ev, rawBody, now)
		if err != nil {
			return err
		}
		res.Applied = out.applied
		res.OrderStatus = out.status

		done := map[string]any{"processed_at": &now}
		if out.ignored != "" {
			reason := textutil.Truncate(out.ignored, processErrorMax)
			done["process_error"] = &reason
		}
		return tx.WithContext(ctx).Model(&ProviderEvent{}).
			Where("id = ?", pe.ID).
			Updates(done).Error
	})
	if errors.Is(err, errDuplicateEvent) {
		s.logger.InfoContext(ctx, "webhook event deduplicated", "provider", ev.Provider, "event_key", eventKey)
		return WebhookResult{Duplicate: true}, nil
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "webhook event apply failed", "provider", ev.Provider, "order_id", ev.OrderID, "status", ev.Status, "err", err)
		return WebhookResult{}, err
	}

	s.logger.InfoContext(ctx, "webhook event processed", "provider", ev.Provider, "order_id", ev.OrderID, "status", ev.Status, "applied", res.Applied)
	return res, nil
}

func (s *WebhookService) apply(ctx context.Context, tx *gorm.DB, ev WebhookEvent, raw []byte, now time.Time) (applyOutcome, error) {
	var o orders.Order
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&o, "id = ?", ev.OrderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return applyOutcome{}, orders.ErrOrderNotFound
		}
		return applyOutcome{}, err
	}

	var p Payment
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("order_id = ?", o.ID).
		Order("created_at DESC, id DESC").
		First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return applyOutcome{}, ErrPaymentNotFound
		}
		return applyOutcome{}, err
	}

	// idempotency guard
	if IsTerminal(p.Status) || ev.Status == StatusPending {
		s.logger.InfoContext(ctx, "webhook ignored for payment", "payment_id", p.ID, "payment_status", p.Status, "event_status", ev.Status)
		reason := "payment already " + p.Status
		if !IsTerminal(p.Status) {
			reason = "pending event for pending payment"
		}
		return applyOutcome{status: o.Status, ignored: reason}, nil
	}

	if ev.Status == StatusPaid && ev.AmountPaise != o.GrandTotalPaise {
		return applyOutcome{}, ErrAmountMismatch.WithFields(map[string]string{
			"expected_paise": strconv.FormatInt(o.GrandTotalPaise, 10),
			"received_paise": strconv.FormatInt(ev.AmountPaise, 10),
		})
	}

	providerPaymentID := ev.ProviderPaymentID
	if err := tx.WithContext(ctx).Model(&Payment{}).
		Where("id = ? AND status = ?", p.ID, StatusPending).
		Updates(map[string]any{
			"status":              ev.Status,
			"provider":            ev.Provider,
			"provider_payment_id": &providerPaymentID,
			"provider_payload":    raw,
			"updated_at":          now,
		}).Error; err != nil {
		return applyOutcome{}, err
	}

	orderSet := map[string]any{"payment_status": ev.Status}
	if ev.Status == StatusPaid {
		orderSet["paid_at"] = &now
	}

	if ev.Status == StatusPaid && o.Status == orders.StatusPaymentPending {
		if _, err := orders.ApplyTransition(ctx, tx, &o, orders.Change{
			To:   orders.StatusPlaced,
			Note: "payment_webhook",
			Meta: map[string]any{"provider": ev.Provider, "provider_payment_id": ev.ProviderPaymentID},
			Set:  orderSet,
			At:   now,
		}); err != nil {
			return applyOutcome{}, err
		}
	} else {
		orderSet["updated_at"] = now
		if err := tx.WithContext(ctx).Model(&orders.Order{}).
			Where("id = ?", o.ID).
			Updates(orderSet).Error; err != nil {
			return applyOutcome{}, err
		}
		if ev.Status == StatusPaid {
			s.logger.WarnContext(ctx, "payment received for order not awaiting payment", "order_id", o.ID, "status", o.Status)
		}
	}

	if ev.Status == StatusPaid {
		payload := orders.NotifyPayload(o)
		payload["amount_paise"] = ev.AmountPaise
		if err := s.notifier.Notify(ctx, tx, o.UserID, notifications.TemplatePaymentReceived, payload); err != nil {
			return applyOutcome{}, err
		}
	}
	return applyOutcome{applied: true, status: o.Status}, nil
}
