package admin

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/http/dto"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/http/handlers"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/http/middleware"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/orders"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/payments"
)

const adminPageSize = 30

type OrdersHandler struct {
	DB   *gorm.DB
	Repo *orders.Repo
	Svc  *orders.Service
}

func NewOrdersHandler(db *gorm.DB, svc *orders.Service) *OrdersHandler {
	return &OrdersHandler{DB: db, Repo: orders.NewRepo(db), Svc: svc}
}

// GET /api/admin/orders?q=&status=&delivery_date=&page=
func (h *OrdersHandler) List(c *gin.Context) {
	page := handlers.QueryInt(c, "page", 1)

	res, err := h.Repo.AdminList(c.Request.Context(), orders.AdminListParams{
		Q:            strings.TrimSpace(c.Query("q")),
		Status:       strings.TrimSpace(c.Query("status")),
		DeliveryDate: strings.TrimSpace(c.Query("delivery_date")),
		Page:         page,
		PageSize:     adminPageSize,
	})
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderPage(res, page, adminPageSize))
}

// GET /api/admin/orders/:id
func (h *OrdersHandler) Detail(c *gin.Context) {
	ctx := c.Request.Context()
	d, err := h.Repo.AdminGetDetail(ctx, c.Param("id"))
	if err != nil {
		middleware.Fail(c, err)
		return
	}

	out := dto.NewOrderWithItems(d.Order, d.Items)
	out.Events = dto.NewEvents(d.Events)

	var p payments.Payment
	if err := h.DB.WithContext(ctx).Where("order_id = ?", d.Order.ID).Order("created_at DESC").Limit(1).Find(&p).Error; err != nil {
		middleware.Fail(c, err)
		return
	}
	if p.ID != "" {
		out.Payment = dto.NewPayment(p)
	}
	c.JSON(http.StatusOK, out)
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note" binding:"max=255"`
}

// POST /api/admin/orders/:id/status
func (h *OrdersHandler) UpdateStatus(c *gin.Context) {
	var req statusRequest
	if !handlers.BindJSON(c, &req) {
		return
	}
	p, _ := middleware.CurrentPrincipal(c)

	o, err := h.Svc.UpdateStatus(c.Request.Context(), orders.UpdateStatusInput{
		OrderID:     c.Param("id"),
		To:          req.Status,
		ActorUserID: p.UserID,
		Note:        req.Note,
	})
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrder(o))
}
