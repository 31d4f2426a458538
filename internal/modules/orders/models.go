package orders

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentFailed   = "failed"
	PaymentRefunded = "refunded"

	MethodCOD = "cod"
	MethodUPI = "upi"
)

type Order struct {
	ID             string  `gorm:"size:36;primaryKey"`
	OrderNumber    string  `gorm:"size:32;not null;uniqueIndex:ux_orders_order_number"`
	UserID         string  `gorm:"size:36;not null;index:ix_orders_user_id"`
	AddressID      string  `gorm:"size:36;not null"`
	WarehouseID    string  `gorm:"size:36;not null"`
	DeliveryDate   string  `gorm:"size:10;not null;index:ix_orders_delivery_lock,priority:1"`
	DeliverySlotID *string `gorm:"size:36"`

	SubtotalPaise    int64 `gorm:"not null"`
	DeliveryFeePaise int64 `gorm:"not null"`
	DiscountPaise    int64 `gorm:"not null"`
	GSTRateBps       int64 `gorm:"column:gst_rate_bps;not null"`
	GSTAmountPaise   int64 `gorm:"column:gst_amount_paise;not null"`
	GrandTotalPaise  int64 `gorm:"not null"`
	TotalPaise       int64 `gorm:"not null"`

	Status        Status `gorm:"size:32;not null;index:ix_orders_delivery_lock,priority:3"`
	PaymentStatus string `gorm:"size:16;not null"`
	PaymentMethod string `gorm:"size:8;not null"`

	IsLocked bool `gorm:"not null;index:ix_orders_delivery_lock,priority:2"`
	LockedAt *time.Time

	PaidAt             *time.Time
	DeliveredAt        *time.Time
	CancelledAt        *time.Time
	CancellationReason *string `gorm:"size:255"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (Order) TableName() string { return "orders" }

// OrderItem is the immutable checkout-time snapshot of a cart line.
type OrderItem struct {
	ID             string          `gorm:"size:36;primaryKey"`
	OrderID        string          `gorm:"size:36;not null;index:ix_order_items_order_id"`
	ProductID      string          `gorm:"size:36;not null"`
	ProductPackID  string          `gorm:"size:36;not null;index:ix_order_items_pack_id"`
	ProductName    string          `gorm:"size:255;not null"`
	PackLabel      string          `gorm:"size:64;not null"`
	Unit           string          `gorm:"size:16;not null"`
	Quantity       decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	UnitPricePaise int64           `gorm:"not null"`
	LineTotalPaise int64           `gorm:"not null"`
	CreatedAt      time.Time       `gorm:"not null"`
}

func (OrderItem) TableName() string { return "order_items" }

// OrderStatusEvent is append-only; one row per accepted transition.
type OrderStatusEvent struct {
	ID          string         `gorm:"size:36;primaryKey"`
	OrderID     string         `gorm:"size:36;not null;index:ix_order_status_events_order,priority:1"`
	FromStatus  *Status        `gorm:"size:32"`
	ToStatus    Status         `gorm:"size:32;not null"`
	ActorUserID *string        `gorm:"size:36"`
	Note        *string        `gorm:"size:255"`
	Meta        datatypes.JSON `gorm:"not null"`
	CreatedAt   time.Time      `gorm:"not null;index:ix_order_status_events_order,priority:2"`
}

func (OrderStatusEvent) TableName() string { return "order_status_events" }
