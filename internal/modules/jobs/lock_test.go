package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/notifications"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/orders"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/platform/logging"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/testutil"
)

const date = "2024-06-02"

func newDB(t *testing.T) *gorm.DB {
	return testutil.NewDB(t, &JobRun{}, &orders.Order{}, &orders.OrderStatusEvent{}, &notifications.Notification{})
}

func newJob(db *gorm.DB, notifier orders.Notifier) *LockJob {
	return NewLockJob(db, NewLedger(db, 30*time.Minute), notifier, nil, logging.Discard())
}

func seedOrder(t *testing.T, db *gorm.DB, status orders.Status, mutate ...func(*orders.Order)) orders.Order {
	t.Helper()
	now := time.Now().UTC()
	o := orders.Order{
		ID:              uuid.NewString(),
		OrderNumber:     orders.NewOrderNumber(now, time.UTC),
		UserID:          uuid.NewString(),
		AddressID:       "addr",
		WarehouseID:     "wh",
		DeliveryDate:    date,
		SubtotalPaise:   25000,
		GrandTotalPaise: 28350,
		TotalPaise:      28350,
		Status:          status,
		PaymentStatus:   orders.PaymentPaid,
		PaymentMethod:   orders.MethodUPI,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for _, m := range mutate {
		m(&o)
	}
	require.NoError(t, db.Create(&o).Error)
	return o
}

func reloadOrder(t *testing.T, db *gorm.DB, id string) orders.Order {
	t.Helper()
	var o orders.Order
	require.NoError(t, db.First(&o, "id = ?", id).Error)
	return o
}

func lockEvents(t *testing.T, db *gorm.DB, orderID string) []orders.OrderStatusEvent {
	t.Helper()
	var evs []orders.OrderStatusEvent
	require.NoError(t, db.Where("order_id = ? AND to_status = ?", orderID, orders.StatusLocked).Find(&evs).Error)
	return evs
}

func TestLockOrdersForDate_LocksOnlyEligibleOrders(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()

	placed := seedOrder(t, db, orders.StatusPlaced)
	confirmed := seedOrder(t, db, orders.StatusConfirmed)
	unpaid := seedOrder(t, db, orders.StatusPlaced, func(o *orders.Order) { o.PaymentStatus = orders.PaymentPending })
	pending := seedOrder(t, db, orders.StatusPaymentPending, func(o *orders.Order) { o.PaymentStatus = orders.PaymentPending })
	accepted := seedOrder(t, db, orders.StatusAccepted)
	otherDay := seedOrder(t, db, orders.StatusPlaced, func(o *orders.Order) { o.DeliveryDate = "2024-06-03" })
	cancelled := seedOrder(t, db, orders.StatusCancelled)

	var hooked []LockResult
	job := newJob(db, notifications.NewEnqueuer())
	job.AfterLock(func(_ context.Context, res LockResult) error {
		hooked = append(hooked, res)
		return nil
	})

	res, err := job.LockOrdersForDate(ctx, date)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Locked)
	assert.False(t, res.Replayed)
	assert.ElementsMatch(t, []string{placed.ID, confirmed.ID}, res.OrderIDs)

	for _, o := range []orders.Order{placed, confirmed} {
		got := reloadOrder(t, db, o.ID)
		assert.Equal(t, orders.StatusLocked, got.Status)
		assert.True(t, got.IsLocked)
		assert.NotNil(t, got.LockedAt)

		evs := lockEvents(t, db, o.ID)
		require.Len(t, evs, 1)
		require.NotNil(t, evs[0].FromStatus)
		assert.Equal(t, o.Status, *evs[0].FromStatus)
		assert.Nil(t, evs[0].ActorUserID)
		require.NotNil(t, evs[0].Note)
		assert.Equal(t, "scheduler_lock", *evs[0].Note)
	}
	for _, o := range []orders.Order{unpaid, pending, accepted, otherDay, cancelled} {
		got := reloadOrder(t, db, o.ID)
		assert.Equal(t, o.Status, got.Status)
		assert.False(t, got.IsLocked)
	}

	var n int64
	require.NoError(t, db.Model(&notifications.Notification{}).Where("template = ?", notifications.TemplateOrderLocked).Count(&n).Error)
	assert.Equal(t, int64(2), n)

	run, err := job.ledger.Get(ctx, JobLockOrders, date)
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, RunFinished, run.Status)
	assert.JSONEq(t, `{"locked":2}`, string(run.Meta))

	require.Len(t, hooked, 1)
	assert.Equal(t, 2, hooked[0].Locked)
}

func TestLockOrdersForDate_NothingEligibleStillFinishes(t *testing.T) {
	db := newDB(t)
	job := newJob(db, nil)

	res, err := job.LockOrdersForDate(context.Background(), date)
	require.NoError(t, err)
	assert.Zero(t, res.Locked)

	run, err := job.ledger.Get(context.Background(), JobLockOrders, date)
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, RunFinished, run.Status)
	assert.JSONEq(t, `{"locked":0}`, string(run.Meta))
}

func TestLockOrdersForDate_ReplayHasNoSideEffects(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	job := newJob(db, nil)
	seedOrder(t, db, orders.StatusPlaced)

	first, err := job.LockOrdersForDate(ctx, date)
	require.NoError(t, err)
	require.Equal(t, 1, first.Locked)

	// an order placed after the run must wait for ops, not a second run
	late := seedOrder(t, db, orders.StatusPlaced)

	hookCalls := 0
	job.AfterLock(func(context.Context, LockResult) error { hookCalls++; return nil })

	res, err := job.LockOrdersForDate(ctx, date)
	require.NoError(t, err)
	assert.True(t, res.Replayed)
	assert.Equal(t, 1, res.Locked, "replay reports the stored count")
	assert.Empty(t, res.OrderIDs)
	assert.Zero(t, hookCalls)
	assert.False(t, reloadOrder(t, db, late.ID).IsLocked)

	var runs int64
	require.NoError(t, db.Model(&JobRun{}).Count(&runs).Error)
	assert.Equal(t, int64(1), runs)
}

func TestLockOrdersForDate_ConcurrentCallsLockOnce(t *testing.T) {
	db := newDB(t)
	job := newJob(db, nil)

	var seeded []orders.Order
	for i := 0; i < 5; i++ {
		seeded = append(seeded, seedOrder(t, db, orders.StatusPlaced))
	}

	const callers = 6
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		locked   int
		replays  int
		conflict int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := job.LockOrdersForDate(context.Background(), date)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case errors.Is(err, ErrJobAlreadyRunning):
				conflict++
			case err != nil:
				t.Errorf("unexpected error: %v", err)
			case res.Replayed:
				replays++
			default:
				locked += res.Locked
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, locked)
	assert.Equal(t, callers-1, replays+conflict)

	for _, o := range seeded {
		assert.Len(t, lockEvents(t, db, o.ID), 1)
	}

	var finished int64
	require.NoError(t, db.Model(&JobRun{}).Where("job_name = ? AND run_key = ? AND status = ?", JobLockOrders, date, RunFinished).Count(&finished).Error)
	assert.Equal(t, int64(1), finished)
}

type failingNotifier struct{ err error }

func (f failingNotifier) Notify(context.Context, *gorm.DB, string, string, map[string]any) error {
	return f.err
}

func TestLockOrdersForDate_FailureRollsBackAndCanBeRetried(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	o := seedOrder(t, db, orders.StatusPlaced)

	boom := errors.New("queue unavailable")
	_, err := newJob(db, failingNotifier{err: boom}).LockOrdersForDate(ctx, date)
	require.ErrorIs(t, err, boom)

	got := reloadOrder(t, db, o.ID)
	assert.Equal(t, orders.StatusPlaced, got.Status)
	assert.False(t, got.IsLocked)
	assert.Empty(t, lockEvents(t, db, o.ID))

	var run JobRun
	require.NoError(t, db.First(&run, "job_name = ? AND run_key = ?", JobLockOrders, date).Error)
	assert.Equal(t, RunFailed, run.Status)
	require.NotNil(t, run.LastError)
	assert.Contains(t, *run.LastError, "queue unavailable")

	res, err := newJob(db, nil).LockOrdersForDate(ctx, date)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Locked)

	require.NoError(t, db.First(&run, "id = ?", run.ID).Error)
	assert.Equal(t, RunFinished, run.Status)
	assert.Equal(t, 2, run.Attempts)
	assert.Nil(t, run.LastError)
}

func TestLockOrdersForDate_RejectsBadDate(t *testing.T) {
	db := newDB(t)
	_, err := newJob(db, nil).LockOrdersForDate(context.Background(), "02/06/2024")
	require.Error(t, err)

	var runs int64
	require.NoError(t, db.Model(&JobRun{}).Count(&runs).Error)
	assert.Zero(t, runs)
}

func TestLockedOrderCannotBeCancelledByCustomer(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	o := seedOrder(t, db, orders.StatusPlaced)

	_, err := newJob(db, nil).LockOrdersForDate(ctx, date)
	require.NoError(t, err)

	svc := orders.NewService(db, notifications.NewEnqueuer(), logging.Discard())
	_, err = svc.CancelByCustomer(ctx, orders.CancelInput{OrderID: o.ID, UserID: o.UserID})
	assert.ErrorIs(t, err, orders.ErrOrderLocked)

	out, err := svc.UpdateStatus(ctx, orders.UpdateStatusInput{OrderID: o.ID, To: "accepted", ActorUserID: "ops-1"})
	require.NoError(t, err)
	assert.Equal(t, orders.StatusAccepted, out.Status)
	assert.True(t, out.IsLocked)
}
