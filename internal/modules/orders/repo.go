package orders

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

type ListByUserParams struct {
	UserID   string
	Page     int
	PageSize int
	Status   string // optional filter
}

type ListResult struct {
	Items []Order
	Total int64
}

func pageBounds(page, size, def int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = def
	}
	return page, size
}

func (r *Repo) ListByUser(ctx context.Context, in ListByUserParams) (ListResult, error) {
	page, size := pageBounds(in.Page, in.PageSize, 20)

	q := r.db.WithContext(ctx).Model(&Order{}).Where("user_id = ?", in.UserID)
	if status := strings.TrimSpace(in.Status); status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return ListResult{}, err
	}

	var items []Order
	if err := q.
		Order("created_at DESC").
		Limit(size).
		Offset((page - 1) * size).
		Find(&items).Error; err != nil {
		return ListResult{}, err
	}
	return ListResult{Items: items, Total: total}, nil
}

// GetForUser loads an order with items; other users' orders are not found.
func (r *Repo) GetForUser(ctx context.Context, userID, id string) (Order, []OrderItem, error) {
	var o Order
	if err := r.db.WithContext(ctx).First(&o, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Order{}, nil, ErrOrderNotFound
		}
		return Order{}, nil, err
	}
	items, err := r.items(ctx, o.ID)
	return o, items, err
}

func (r *Repo) GetWithItems(ctx context.Context, id string) (Order, []OrderItem, error) {
	var o Order
	if err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Order{}, nil, ErrOrderNotFound
		}
		return Order{}, nil, err
	}
	items, err := r.items(ctx, o.ID)
	return o, items, err
}

func (r *Repo) items(ctx context.Context, orderID string) ([]OrderItem, error) {
	var items []OrderItem
	err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&items, "order_id = ?", orderID).Error
	return items, err
}

// Events returns the audit trail oldest first.
func (r *Repo) Events(ctx context.Context, orderID string) ([]OrderStatusEvent, error) {
	var ev []OrderStatusEvent
	err := r.db.WithContext(ctx).
		Order("created_at ASC, id ASC").
		Find(&ev, "order_id = ?", orderID).Error
	return ev, err
}
