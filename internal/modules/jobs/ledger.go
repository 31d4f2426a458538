package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/platform/database"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/shared/textutil"
)

// Claim is a run this process now owns, or a replay of a finished one.
type Claim struct {
	Run      JobRun
	Replayed bool
}

// Ledger hands out (job, key) runs through the unique index on job_runs.
type Ledger struct {
	db         *gorm.DB
	staleAfter time.Duration
	now        func() time.Time
}

// NewLedger: a started row older than staleAfter is treated as abandoned by a
// crashed process and may be claimed again. Zero disables takeover.
func NewLedger(db *gorm.DB, staleAfter time.Duration) *Ledger {
	return &Ledger{db: db, staleAfter: staleAfter, now: func() time.Time { return time.Now().UTC() }}
}

// Claim inserts a started row in its own transaction so that concurrent
// callers see it before any side effect begins.
func (l *Ledger) Claim(ctx context.Context, job, key string) (Claim, error) {
	now := l.now()
	run := JobRun{
		ID:        uuid.NewString(),
		JobName:   job,
		RunKey:    key,
		Status:    RunStarted,
		Attempts:  1,
		StartedAt: now,
		Meta:      []byte("{}"),
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := l.db.WithContext(ctx).Create(&run).Error
	if err == nil {
		return Claim{Run: run}, nil
	}
	if !database.IsDuplicateKey(err) {
		return Claim{}, err
	}

	var existing JobRun
	if err := l.db.WithContext(ctx).
		Where("job_name = ? AND run_key = ?", job, key).
		First(&existing).Error; err != nil {
		return Claim{}, err
	}

	switch {
	case existing.Status == RunFinished:
		return Claim{Run: existing, Replayed: true}, nil
	case existing.Status == RunFailed:
	case l.staleAfter > 0 && now.Sub(existing.StartedAt) > l.staleAfter:
	default:
		return Claim{}, ErrJobAlreadyRunning
	}
	return l.reclaim(ctx, existing, now)
}

// reclaim takes over a failed or abandoned row. The attempts column is the
// compare-and-swap token: exactly one concurrent caller wins.
func (l *Ledger) reclaim(ctx context.Context, existing JobRun, now time.Time) (Claim, error) {
	res := l.db.WithContext(ctx).
		Model(&JobRun{}).
		Where("id = ? AND status = ? AND attempts = ?", existing.ID, existing.Status, existing.Attempts).
		Updates(map[string]any{
			"status":      RunStarted,
			"attempts":    existing.Attempts + 1,
			"started_at":  now,
			"finished_at": nil,
			"last_error":  nil,
			"updated_at":  now,
		})
	if res.Error != nil {
		return Claim{}, res.Error
	}
	if res.RowsAffected == 0 {
		return Claim{}, ErrJobAlreadyRunning
	}

	existing.Status = RunStarted
	existing.Attempts++
	existing.StartedAt = now
	existing.FinishedAt = nil
	existing.LastError = nil
	existing.UpdatedAt = now
	return Claim{Run: existing}, nil
}

// Finish marks run finished inside tx, together with the run's side effects.
// It fails if the run was taken over in the meantime.
func (l *Ledger) Finish(ctx context.Context, tx *gorm.DB, run *JobRun, meta map[string]any) error {
	if meta == nil {
		meta = map[string]any{}
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	now := l.now()
	res := tx.WithContext(ctx).
		Model(&JobRun{}).
		Where("id = ? AND status = ? AND attempts = ?", run.ID, RunStarted, run.Attempts).
		Updates(map[string]any{
			"status":      RunFinished,
			"finished_at": &now,
			"meta":        metaJSON,
			"updated_at":  now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrJobAlreadyRunning
	}
	run.Status = RunFinished
	run.FinishedAt = &now
	run.Meta = metaJSON
	return nil
}

// Fail records cause on a run this process still owns. It runs even when ctx
// is already cancelled.
func (l *Ledger) Fail(ctx context.Context, run JobRun, cause error) error {
	msg := "unknown error"
	if cause != nil {
		msg = textutil.Truncate(cause.Error(), 255)
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	now := l.now()
	return l.db.WithContext(ctx).
		Model(&JobRun{}).
		Where("id = ? AND status = ? AND attempts = ?", run.ID, RunStarted, run.Attempts).
		Updates(map[string]any{
			"status":     RunFailed,
			"last_error": msg,
			"updated_at": now,
		}).Error
}

// Get returns the ledger row of (job, key), or nil when it never ran.
func (l *Ledger) Get(ctx context.Context, job, key string) (*JobRun, error) {
	var run JobRun
	err := l.db.WithContext(ctx).Where("job_name = ? AND run_key = ?", job, key).First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}
