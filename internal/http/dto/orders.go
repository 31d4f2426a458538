// Package dto holds the JSON shapes of the HTTP API.
package dto

import (
	"encoding/json"
	"time"

	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/orders"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/payments"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/shared/money"
)

type Money struct {
	Paise     int64  `json:"paise"`
	Formatted string `json:"formatted"`
}

func NewMoney(p int64) Money { return Money{Paise: p, Formatted: money.FormatPaise(p)} }

type Order struct {
	ID                 string     `json:"id"`
	OrderNumber        string     `json:"order_number"`
	UserID             string     `json:"user_id"`
	AddressID          string     `json:"address_id"`
	DeliveryDate       string     `json:"delivery_date"`
	DeliverySlotID     *string    `json:"delivery_slot_id,omitempty"`
	Status             string     `json:"status"`
	PaymentStatus      string     `json:"payment_status"`
	PaymentMethod      string     `json:"payment_method"`
	IsLocked           bool       `json:"is_locked"`
	Subtotal           Money      `json:"subtotal"`
	DeliveryFee        Money      `json:"delivery_fee"`
	Discount           Money      `json:"discount"`
	GSTRateBps         int64      `json:"gst_rate_bps"`
	GSTAmount          Money      `json:"gst_amount"`
	GrandTotal         Money      `json:"grand_total"`
	LockedAt           *time.Time `json:"locked_at,omitempty"`
	PaidAt             *time.Time `json:"paid_at,omitempty"`
	DeliveredAt        *time.Time `json:"delivered_at,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancellationReason *string    `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	Items              []Item     `json:"items,omitempty"`
	Events             []Event    `json:"events,omitempty"`
	Payment            *Payment   `json:"payment,omitempty"`
}

type Item struct {
	ProductID     string `json:"product_id"`
	ProductPackID string `json:"product_pack_id"`
	ProductName   string `json:"product_name"`
	PackLabel     string `json:"pack_label"`
	Unit          string `json:"unit"`
	Quantity      string `json:"quantity"`
	UnitPrice     Money  `json:"unit_price"`
	LineTotal     Money  `json:"line_total"`
}

type Event struct {
	FromStatus  *string         `json:"from_status"`
	ToStatus    string          `json:"to_status"`
	ActorUserID *string         `json:"actor_user_id"`
	Note        *string         `json:"note,omitempty"`
	Meta        json.RawMessage `json:"meta,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

type Payment struct {
	ID       string `json:"id"`
	Method   string `json:"method"`
	Status   string `json:"status"`
	Amount   Money  `json:"amount"`
	Provider string `json:"provider"`
}

func NewOrder(o orders.Order) Order {
	return Order{
		ID:                 o.ID,
		OrderNumber:        o.OrderNumber,
		UserID:             o.UserID,
		AddressID:          o.AddressID,
		DeliveryDate:       o.DeliveryDate,
		DeliverySlotID:     o.DeliverySlotID,
		Status:             string(o.Status),
		PaymentStatus:      o.PaymentStatus,
		PaymentMethod:      o.PaymentMethod,
		IsLocked:           o.IsLocked,
		Subtotal:           NewMoney(o.SubtotalPaise),
		DeliveryFee:        NewMoney(o.DeliveryFeePaise),
		Discount:           NewMoney(o.DiscountPaise),
		GSTRateBps:         o.GSTRateBps,
		GSTAmount:          NewMoney(o.GSTAmountPaise),
		GrandTotal:         NewMoney(o.GrandTotalPaise),
		LockedAt:           o.LockedAt,
		PaidAt:             o.PaidAt,
		DeliveredAt:        o.DeliveredAt,
		CancelledAt:        o.CancelledAt,
		CancellationReason: o.CancellationReason,
		CreatedAt:          o.CreatedAt,
	}
}

func NewOrderWithItems(o orders.Order, items []orders.OrderItem) Order {
	out := NewOrder(o)
	out.Items = make([]Item, 0, len(items))
	for _, it := range items {
		out.Items = append(out.Items, Item{
			ProductID:     it.ProductID,
			ProductPackID: it.ProductPackID,
			ProductName:   it.ProductName,
			PackLabel:     it.PackLabel,
			Unit:          it.Unit,
			Quantity:      it.Quantity.String(),
			UnitPrice:     NewMoney(it.UnitPricePaise),
			LineTotal:     NewMoney(it.LineTotalPaise),
		})
	}
	return out
}

func NewEvents(evs []orders.OrderStatusEvent) []Event {
	out := make([]Event, 0, len(evs))
	for _, e := range evs {
		var from *string
		if e.FromStatus != nil {
			s := string(*e.FromStatus)
			from = &s
		}
		out = append(out, Event{
			FromStatus:  from,
			ToStatus:    string(e.ToStatus),
			ActorUserID: e.ActorUserID,
			Note:        e.Note,
			Meta:        json.RawMessage(e.Meta),
			CreatedAt:   e.CreatedAt,
		})
	}
	return out
}

func NewPayment(p payments.Payment) *Payment {
	return &Payment{ID: p.ID, Method: p.Method, Status: p.Status, Amount: NewMoney(p.AmountPaise), Provider: p.Provider}
}

type Page[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

func NewOrderPage(res orders.ListResult, page, size int) Page[Order] {
	items := make([]Order, 0, len(res.Items))
	for _, o := range res.Items {
		items = append(items, NewOrder(o))
	}
	return Page[Order]{Items: items, Total: res.Total, Page: page, PageSize: size}
}
