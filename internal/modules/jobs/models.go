package jobs

import (
	"time"

	"gorm.io/datatypes"
)

type RunStatus string

const (
	RunStarted  RunStatus = "started"
	RunFinished RunStatus = "finished"
	RunFailed   RunStatus = "failed"
)

// JobRun is the idempotency ledger of batch jobs. At most one row exists per
// (job_name, run_key); a finished row means the run must not repeat.
type JobRun struct {
	ID         string    `gorm:"size:36;primaryKey"`
	JobName    string    `gorm:"size:64;not null;uniqueIndex:ux_job_runs_job_key,priority:1"`
	RunKey     string    `gorm:"size:64;not null;uniqueIndex:ux_job_runs_job_key,priority:2"`
	Status     RunStatus `gorm:"size:16;not null"`
	Attempts   int       `gorm:"not null"`
	StartedAt  time.Time `gorm:"not null"`
	FinishedAt *time.Time
	Meta       datatypes.JSON `gorm:"not null"`
	LastError  *string        `gorm:"size:255"`
	CreatedAt  time.Time      `gorm:"not null"`
	UpdatedAt  time.Time      `gorm:"not null"`
}

func (JobRun) TableName() string { return "job_runs" }
