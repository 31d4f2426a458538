package jobs

import "github.com/BhargavEnigma/FreshVegApp-sub000/internal/shared/apperr"

var ErrJobAlreadyRunning = apperr.ConflictErr("JOB_ALREADY_RUNNING", "This job is already running.")
