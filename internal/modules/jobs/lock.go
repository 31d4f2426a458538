package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/events"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/notifications"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/orders"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/shared/dates"
)

const (
	JobLockOrders = "lock_orders"
	lockNote      = "scheduler_lock"
)

type LockResult struct {
	DeliveryDate string
	Locked       int
	OrderIDs     []string
	Replayed     bool
}

// AfterLockHook runs after a lock run has committed. Hook errors are logged;
// they never undo the lock.
type AfterLockHook func(ctx context.Context, res LockResult) error

type LockJob struct {
	db        *gorm.DB
	ledger    *Ledger
	notifier  orders.Notifier
	publisher events.Publisher
	hooks     []AfterLockHook
	logger    *slog.Logger
	now       func() time.Time
}

func NewLockJob(db *gorm.DB, ledger *Ledger, notifier orders.Notifier, publisher events.Publisher, logger *slog.Logger) *LockJob {
	if notifier == nil {
		notifier = notifications.NewEnqueuer()
	}
	if publisher == nil {
		publisher = events.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LockJob{
		db:        db,
		ledger:    ledger,
		notifier:  notifier,
		publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// AfterLock registers a hook that runs once per committed, non-replayed run.
func (j *LockJob) AfterLock(h AfterLockHook) { j.hooks = append(j.hooks, h) }

// LockOrdersForDate locks every paid placed/confirmed order of deliveryDate.
// The run is keyed by the date: repeated calls after a finished run replay
// with no side effects, and a concurrent call fails with JOB_ALREADY_RUNNING.
func (j *LockJob) LockOrdersForDate(ctx context.Context, deliveryDate string) (LockResult, error) {
	date, err := dates.Parse(deliveryDate)
	if err != nil {
		return LockResult{}, err
	}

	claim, err := j.ledger.Claim(ctx, JobLockOrders, date)
	if err != nil {
		return LockResult{}, err
	}
	if claim.Replayed {
		j.logger.InfoContext(ctx, "lock job replayed", "delivery_date", date, "run_id", claim.Run.ID)
		return LockResult{DeliveryDate: date, Locked: lockedCount(claim.Run), Replayed: true}, nil
	}

	run := claim.Run
	res := LockResult{DeliveryDate: date}
	err = j.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		locked, err := j.lockEligible(ctx, tx, date)
		if err != nil {
			return err
		}
		res.Locked = len(locked)
		res.OrderIDs = locked
		return j.ledger.Finish(ctx, tx, &run, map[string]any{"locked": len(locked)})
	})
	if err != nil {
		if ferr := j.ledger.Fail(ctx, run, err); ferr != nil {
			j.logger.ErrorContext(ctx, "lock job ledger update failed", "run_id", run.ID, "err", ferr)
		}
		j.logger.ErrorContext(ctx, "lock job failed", "delivery_date", date, "run_id", run.ID, "err", err)
		return LockResult{}, err
	}

	j.logger.InfoContext(ctx, "lock job finished", "delivery_date", date, "run_id", run.ID, "locked", res.Locked)

	events.PublishBestEffort(ctx, j.publisher, j.logger, events.KeyOrdersLocked, events.OrdersLocked{
		DeliveryDate: date,
		Locked:       res.Locked,
		OrderIDs:     res.OrderIDs,
	})
	for _, h := range j.hooks {
		if err := h(ctx, res); err != nil {
			j.logger.WarnContext(ctx, "lock job hook failed", "delivery_date", date, "err", err)
		}
	}
	return res, nil
}

// lockEligible does the whole mutation under row locks and returns the ids it
// locked.
func (j *LockJob) lockEligible(ctx context.Context, tx *gorm.DB, date string) ([]string, error) {
	var eligible []orders.Order
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("delivery_date = ? AND is_locked = ? AND payment_status = ? AND status IN ?",
			date, false, orders.PaymentPaid, orders.LockableStatuses()).
		Order("id ASC").
		Find(&eligible).Error; err != nil {
		return nil, err
	}
	if len(eligible) == 0 {
		return nil, nil
	}

	now := j.now()
	ids := make([]string, len(eligible))
	evs := make([]orders.OrderStatusEvent, 0, len(eligible))
	for i, o := range eligible {
		if err := orders.CheckTransition(o.Status, orders.StatusLocked); err != nil {
			return nil, err
		}
		ids[i] = o.ID
		ev, err := orders.NewEvent(o.ID, o.Status, orders.StatusLocked, lockNote, map[string]any{"job": JobLockOrders, "delivery_date": date}, now)
		if err != nil {
			return nil, err
		}
		evs = append(evs, ev)
	}

	upd := tx.WithContext(ctx).
		Model(&orders.Order{}).
		Where("id IN ? AND is_locked = ? AND status IN ?", ids, false, orders.LockableStatuses()).
		Updates(map[string]any{
			"status":     orders.StatusLocked,
			"is_locked":  true,
			"locked_at":  &now,
			"updated_at": now,
		})
	if upd.Error != nil {
		return nil, upd.Error
	}
	if upd.RowsAffected != int64(len(ids)) {
		return nil, orders.ErrConcurrentUpdate
	}

	if err := tx.WithContext(ctx).CreateInBatches(&evs, 200).Error; err != nil {
		return nil, err
	}

	for _, o := range eligible {
		o.Status = orders.StatusLocked
		if err := j.notifier.Notify(ctx, tx, o.UserID, notifications.TemplateOrderLocked, orders.NotifyPayload(o)); err != nil {
			return nil, err
		}
	}
	return ids, nil
}

// lockedCount reads meta.locked of a finished run.
func lockedCount(run JobRun) int {
	var meta struct {
		Locked int `json:"locked"`
	}
	_ = json.Unmarshal(run.Meta, &meta)
	return meta.Locked
}
