package orders

import (
	"context"
	"strings"
)

type AdminListParams struct {
	Q            string // order number or id fragment
	Status       string
	DeliveryDate string
	Page         int
	PageSize     int
}

func (r *Repo) AdminList(ctx context.Context, in AdminListParams) (ListResult, error) {
	page, size := pageBounds(in.Page, in.PageSize, 30)

	base := r.db.WithContext(ctx).Model(&Order{})
	if status := strings.TrimSpace(in.Status); status != "" {
		base = base.Where("status = ?", status)
	}
	if d := strings.TrimSpace(in.DeliveryDate); d != "" {
		base = base.Where("delivery_date = ?", d)
	}
	if q := strings.TrimSpace(in.Q); q != "" {
		like := "%" + q + "%"
		base = base.Where("(id LIKE ? OR order_number LIKE ?)", like, like)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return ListResult{}, err
	}

	var items []Order
	if err := base.
		Order("created_at DESC").
		Limit(size).
		Offset((page - 1) * size).
		Find(&items).Error; err != nil {
		return ListResult{}, err
	}
	return ListResult{Items: items, Total: total}, nil
}

type AdminDetail struct {
	Order  Order
	Items  []OrderItem
	Events []OrderStatusEvent
}

func (r *Repo) AdminGetDetail(ctx context.Context, orderID string) (AdminDetail, error) {
	o, items, err := r.GetWithItems(ctx, orderID)
	if err != nil {
		return AdminDetail{}, err
	}
	ev, err := r.Events(ctx, orderID)
	if err != nil {
		return AdminDetail{}, err
	}
	return AdminDetail{Order: o, Items: items, Events: ev}, nil
}
