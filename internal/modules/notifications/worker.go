package notifications

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/shared/textutil"
)

const lastErrorMax = 255

type BatchResult struct {
	Claimed int `json:"claimed"`
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
}

// Worker claims due rows of one channel and hands them to its dispatcher.
//
// Claiming commits status=processing before anything is sent, so two workers
// never send the same row. A crash after the claim commits leaves rows in
// processing; nothing here re-queues them, since that could send twice.
// Recovering them is an operator action.
type Worker struct {
	db          *gorm.DB
	dispatcher  Dispatcher
	registry    *Registry
	logger      *slog.Logger
	sendTimeout time.Duration
	now         func() time.Time
}

func NewWorker(db *gorm.DB, d Dispatcher, registry *Registry, logger *slog.Logger, sendTimeout time.Duration) *Worker {
	if registry == nil {
		registry = NewRegistry()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if sendTimeout <= 0 {
		sendTimeout = 10 * time.Second
	}
	return &Worker{
		db:          db,
		dispatcher:  d,
		registry:    registry,
		logger:      logger.With("channel", string(d.Channel())),
		sendTimeout: sendTimeout,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (w *Worker) Channel() Channel { return w.dispatcher.Channel() }

// Claim moves up to limit due queued rows to processing and returns them.
func (w *Worker) Claim(ctx context.Context, limit int) ([]Notification, error) {
	if limit <= 0 {
		return nil, nil
	}

	var claimed []Notification
	err := w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := w.now()

		var rows []Notification
		if err := tx.WithContext(ctx).
			Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("channel = ? AND status = ?", w.dispatcher.Channel(), StatusQueued).
			Where("scheduled_at IS NULL OR scheduled_at <= ?", now).
			Order("created_at ASC, id ASC").
			Limit(limit).
			Find(&rows).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}

		ids := make([]string, len(rows))
		for i := range rows {
			ids[i] = rows[i].ID
		}
		if err := tx.WithContext(ctx).Model(&Notification{}).
			Where("id IN ? AND status = ?", ids, StatusQueued).
			Updates(map[string]any{"status": StatusProcessing, "updated_at": now}).Error; err != nil {
			return err
		}

		for i := range rows {
			rows[i].Status = StatusProcessing
			rows[i].UpdatedAt = now
		}
		claimed = rows
		return nil
	})
	if err != nil {
		return nil, err
	}
	return claimed, nil
}

// RunOnce claims one batch and processes every row. Per-row failures are
// recorded on the row and never abort the batch.
func (w *Worker) RunOnce(ctx context.Context, limit int) (BatchResult, error) {
	rows, err := w.Claim(ctx, limit)
	if err != nil {
		return BatchResult{}, err
	}

	res := BatchResult{Claimed: len(rows)}
	for _, n := range rows {
		if ctx.Err() != nil {
			// rows left in processing; see Worker doc
			w.logger.WarnContext(ctx, "notification batch interrupted", "remaining", len(rows)-res.Sent-res.Failed)
			return res, ctx.Err()
		}
		if w.process(ctx, n) {
			res.Sent++
		} else {
			res.Failed++
		}
	}

	if res.Claimed > 0 {
		w.logger.InfoContext(ctx, "notification batch done", "claimed", res.Claimed, "sent", res.Sent, "failed", res.Failed)
	}
	return res, nil
}

func (w *Worker) process(ctx context.Context, n Notification) bool {
	msg := w.registry.Render(n.Template, n.Payload)

	sendCtx, cancel := context.WithTimeout(ctx, w.sendTimeout)
	ref, sendErr := w.dispatcher.Dispatch(sendCtx, n, msg)
	cancel()

	if sendErr == nil {
		now := w.now()
		if err := w.finish(ctx, n.ID, map[string]any{
			"status":     StatusSent,
			"sent_at":    &now,
			"last_error": nil,
			"updated_at": now,
		}); err != nil {
			w.logger.ErrorContext(ctx, "mark notification sent failed", "notification_id", n.ID, "err", err)
		}
		w.logger.DebugContext(ctx, "notification sent", "notification_id", n.ID, "template", n.Template, "ref", ref)
		return true
	}

	updates := map[string]any{
		"status":     StatusFailed,
		"updated_at": w.now(),
	}
	var re *RecipientError
	if errors.As(sendErr, &re) {
		updates["last_error"] = re.Code
	} else {
		updates["last_error"] = textutil.Truncate(sendErr.Error(), lastErrorMax)
		updates["attempt_count"] = gorm.Expr("attempt_count + 1")
	}
	if err := w.finish(ctx, n.ID, updates); err != nil {
		w.logger.ErrorContext(ctx, "mark notification failed failed", "notification_id", n.ID, "err", err)
	}
	w.logger.WarnContext(ctx, "notification not delivered", "notification_id", n.ID, "template", n.Template, "err", sendErr)
	return false
}

// finish writes the outcome. Uses a fresh context so a cancelled batch still
// records rows it already sent.
func (w *Worker) finish(ctx context.Context, id string, updates map[string]any) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	return w.db.WithContext(ctx).Model(&Notification{}).
		Where("id = ? AND status = ?", id, StatusProcessing).
		Updates(updates).Error
}
