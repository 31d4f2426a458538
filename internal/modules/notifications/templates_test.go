package notifications

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender_KnownTemplates(t *testing.T) {
	r := NewRegistry()

	msg := r.Render(TemplateOrderPlaced, []byte(`{"order_number":"ORD-1","grand_total_paise":28350,"delivery_date":"2024-06-02"}`))
	assert.Equal(t, "Order placed", msg.Title)
	assert.Equal(t, "Your order ORD-1 of ₹283.50 is placed for delivery on 2024-06-02.", msg.Body)
	assert.Equal(t, "ORD-1", msg.Data["order_number"])
	assert.Equal(t, "28350", msg.Data["grand_total_paise"])
	assert.Equal(t, TemplateOrderPlaced, msg.Data["template"])

	msg = r.Render(TemplateOrderStatusUpdated, []byte(`{"order_number":"ORD-2","status":"out_for_delivery"}`))
	assert.Equal(t, "Your order ORD-2 is now out for delivery.", msg.Body)
}

func TestRender_FallsBackForUnknownTemplate(t *testing.T) {
	r := NewRegistry()

	msg := r.Render("promo_blast", []byte(`{"x":1}`))
	assert.Equal(t, "FreshVeg", msg.Title)
	assert.NotEmpty(t, msg.Body)
	assert.Equal(t, "1", msg.Data["x"])

	// broken payload still renders
	msg = r.Render(TemplateOrderCancelled, []byte(`not json`))
	assert.Equal(t, "Order cancelled", msg.Title)
}
