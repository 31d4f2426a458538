package notifications

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cast"

	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/shared/money"
)

const (
	TemplateOrderPlaced        = "order_placed"
	TemplateOrderLocked        = "order_locked"
	TemplateOrderStatusUpdated = "order_status_updated"
	TemplateOrderCancelled     = "order_cancelled"
	TemplatePaymentReceived    = "payment_received"
)

// Message is the channel-neutral rendering of a notification.
type Message struct {
	Title string
	Body  string
	Data  map[string]string
}

type RenderFunc func(p Params) (title, body string)

// Params gives templates loose access to payload values.
type Params map[string]any

func (p Params) String(key string) string { return cast.ToString(p[key]) }

func (p Params) Paise(key string) string { return money.FormatPaise(cast.ToInt64(p[key])) }

type Registry struct {
	templates map[string]RenderFunc
}

func NewRegistry() *Registry {
	r := &Registry{templates: map[string]RenderFunc{}}

	r.Register(TemplateOrderPlaced, func(p Params) (string, string) {
		return "Order placed",
			fmt.Sprintf("Your order %s of %s is placed for delivery on %s.",
				p.String("order_number"), p.Paise("grand_total_paise"), p.String("delivery_date"))
	})
	r.Register(TemplateOrderLocked, func(p Params) (string, string) {
		return "Order confirmed",
			fmt.Sprintf("Your order %s is confirmed for delivery on %s.",
				p.String("order_number"), p.String("delivery_date"))
	})
	r.Register(TemplateOrderStatusUpdated, func(p Params) (string, string) {
		return "Order update",
			fmt.Sprintf("Your order %s is now %s.", p.String("order_number"), statusLabel(p.String("status")))
	})
	r.Register(TemplateOrderCancelled, func(p Params) (string, string) {
		return "Order cancelled",
			fmt.Sprintf("Your order %s has been cancelled.", p.String("order_number"))
	})
	r.Register(TemplatePaymentReceived, func(p Params) (string, string) {
		return "Payment received",
			fmt.Sprintf("We received %s for order %s.", p.Paise("amount_paise"), p.String("order_number"))
	})
	return r
}

func (r *Registry) Register(name string, fn RenderFunc) { r.templates[name] = fn }

// Render never fails: unknown templates and unreadable payloads fall back to
// a generic message.
func (r *Registry) Render(template string, payload []byte) Message {
	params := Params{}
	if len(payload) > 0 {
		_ = json.Unmarshal(payload, &params)
	}

	data := make(map[string]string, len(params)+1)
	for k, v := range params {
		data[k] = cast.ToString(v)
	}
	data["template"] = template

	fn, ok := r.templates[template]
	if !ok {
		return Message{Title: "FreshVeg", Body: "You have a new update on your order.", Data: data}
	}
	title, body := fn(params)
	return Message{Title: title, Body: body, Data: data}
}

func statusLabel(s string) string {
	if s == "" {
		return "updated"
	}
	return strings.ReplaceAll(s, "_", " ")
}
