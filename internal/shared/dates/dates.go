package dates

import (
	"time"

	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/shared/apperr"
)

// Layout is the storage format of delivery dates.
const Layout = "2006-01-02"

var ErrInvalidDate = apperr.InvalidErr("INVALID_DATE", "Date must be YYYY-MM-DD.", nil)

// Tomorrow returns the calendar day after now, as seen in loc.
// Checkout and the lock scheduler must both go through this.
func Tomorrow(now time.Time, loc *time.Location) string {
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, loc)
	return next.Format(Layout)
}

func Today(now time.Time, loc *time.Location) string {
	return now.In(loc).Format(Layout)
}

// Parse validates a YYYY-MM-DD string and returns it normalized.
func Parse(s string) (string, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return "", ErrInvalidDate
	}
	return t.Format(Layout), nil
}
