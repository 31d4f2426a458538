package admin

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/http/middleware"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/jobs"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/notifications"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/picklist"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/shared/dates"
)

type JobsHandler struct {
	Logger      *slog.Logger
	Lock        *jobs.LockJob
	Workers     []*notifications.Worker
	PicklistSvc *picklist.Service
	Loc         *time.Location
	BatchSize   int
	Now         func() time.Time
}

type lockRequest struct {
	Date string `json:"date"`
}

// POST /api/admin/jobs/lock-orders {"date":"YYYY-MM-DD"}; default is tomorrow.
func (h *JobsHandler) LockOrders(c *gin.Context) {
	var req lockRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.Fail(c, dates.ErrInvalidDate)
			return
		}
	}
	date := req.Date
	if date == "" {
		date = dates.Tomorrow(h.now(), h.Loc)
	}

	res, err := h.Lock.LockOrdersForDate(c.Request.Context(), date)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"delivery_date": res.DeliveryDate,
		"locked":        res.Locked,
		"replayed":      res.Replayed,
	})
}

// POST /api/admin/notifications/dispatch?limit=
// Runs one batch per channel worker, the same thing the scheduler does.
func (h *JobsHandler) Dispatch(c *gin.Context) {
	limit := h.BatchSize
	if n, err := strconv.Atoi(c.Query("limit")); err == nil && n > 0 && n <= 500 {
		limit = n
	}

	out := gin.H{}
	for _, w := range h.Workers {
		res, err := w.RunOnce(c.Request.Context(), limit)
		if err != nil {
			middleware.Fail(c, err)
			return
		}
		out[string(w.Channel())] = res
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/admin/deliveries/:date/picklist.xlsx
// Builds on demand with ?refresh=1, otherwise serves the stored export.
func (h *JobsHandler) Picklist(c *gin.Context) {
	ctx := c.Request.Context()
	date, err := dates.Parse(c.Param("date"))
	if err != nil {
		middleware.Fail(c, err)
		return
	}

	if c.Query("refresh") == "1" {
		if _, err := h.PicklistSvc.Export(ctx, date); err != nil {
			middleware.Fail(c, err)
			return
		}
	}
	body, err := h.PicklistSvc.Open(ctx, date)
	if err != nil {
		middleware.Fail(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="picklist-`+date+`.xlsx"`)
	c.Data(http.StatusOK, picklist.ContentType, body)
}

func (h *JobsHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}
