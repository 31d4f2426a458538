package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/http/dto"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/http/middleware"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/checkout"
)

type CheckoutHandler struct {
	Svc *checkout.Service
}

func NewCheckoutHandler(svc *checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{Svc: svc}
}

type checkoutItem struct {
	ProductID     string `json:"product_id" binding:"required"`
	ProductPackID string `json:"product_pack_id" binding:"required"`
	Quantity      int    `json:"quantity" binding:"required,min=1,max=99"`
}

type checkoutRequest struct {
	AddressID      string         `json:"address_id" binding:"required"`
	DeliverySlotID string         `json:"delivery_slot_id"`
	PaymentMethod  string         `json:"payment_method" binding:"required,oneof=cod upi COD UPI"`
	Items          []checkoutItem `json:"items" binding:"required,min=1,max=50,dive"`
}

// POST /api/checkout
func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	var req checkoutRequest
	if !BindJSON(c, &req) {
		return
	}

	items := make([]checkout.ItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, checkout.ItemInput{
			ProductID:     it.ProductID,
			ProductPackID: it.ProductPackID,
			Quantity:      it.Quantity,
		})
	}

	res, err := h.Svc.PlaceOrder(c.Request.Context(), checkout.PlaceOrderInput{
		UserID:         userID(c),
		AddressID:      req.AddressID,
		DeliverySlotID: req.DeliverySlotID,
		Items:          items,
		PaymentMethod:  req.PaymentMethod,
	})
	if err != nil {
		middleware.Fail(c, err)
		return
	}

	out := dto.NewOrderWithItems(res.Order, res.Items)
	out.Payment = dto.NewPayment(res.Payment)
	c.JSON(http.StatusCreated, out)
}
