package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/http/dto"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/http/middleware"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/orders"
)

// OrdersHandler serves the customer's own orders.
type OrdersHandler struct {
	Repo *orders.Repo
	Svc  *orders.Service
}

func NewOrdersHandler(repo *orders.Repo, svc *orders.Service) *OrdersHandler {
	return &OrdersHandler{Repo: repo, Svc: svc}
}

// GET /api/orders
func (h *OrdersHandler) List(c *gin.Context) {
	page := QueryInt(c, "page", 1)
	size := QueryInt(c, "page_size", 20)

	res, err := h.Repo.ListByUser(c.Request.Context(), orders.ListByUserParams{
		UserID:   userID(c),
		Page:     page,
		PageSize: size,
		Status:   strings.TrimSpace(c.Query("status")),
	})
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderPage(res, page, size))
}

// GET /api/orders/:id
func (h *OrdersHandler) Get(c *gin.Context) {
	o, items, err := h.Repo.GetForUser(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderWithItems(o, items))
}

type cancelRequest struct {
	Reason string `json:"reason" binding:"max=255"`
}

// POST /api/orders/:id/cancel
func (h *OrdersHandler) Cancel(c *gin.Context) {
	var req cancelRequest
	// empty body is a cancel without reason
	if c.Request.ContentLength != 0 && !BindJSON(c, &req) {
		return
	}

	o, err := h.Svc.CancelByCustomer(c.Request.Context(), orders.CancelInput{
		OrderID: c.Param("id"),
		UserID:  userID(c),
		Reason:  req.Reason,
	})
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrder(o))
}
