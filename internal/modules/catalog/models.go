package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID                string          `gorm:"size:36;primaryKey"`
	Name              string          `gorm:"size:255;not null"`
	Unit              string          `gorm:"size:16;not null"`
	BaseQuantity      decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	MRPPaise          int64           `gorm:"not null"`
	SellingPricePaise int64           `gorm:"not null"`
	IsActive          bool            `gorm:"not null"`
	IsOutOfStock      bool            `gorm:"not null"`
	CreatedAt         time.Time       `gorm:"not null"`
	UpdatedAt         time.Time       `gorm:"not null"`
}

func (Product) TableName() string { return "products" }

// ProductPack is a sellable quantity of a product, priced off the product.
type ProductPack struct {
	ID                string          `gorm:"size:36;primaryKey"`
	ProductID         string          `gorm:"size:36;not null;index:ix_product_packs_product_id"`
	Label             string          `gorm:"size:64;not null"`
	BaseUnit          string          `gorm:"size:16;not null"`
	BaseQuantity      decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	MRPPaise          int64           `gorm:"not null"`
	SellingPricePaise int64           `gorm:"not null"`
	IsActive          bool            `gorm:"not null"`
	IsOutOfStock      bool            `gorm:"not null"`
	SortOrder         int             `gorm:"not null;default:0"`
	CreatedAt         time.Time       `gorm:"not null"`
	UpdatedAt         time.Time       `gorm:"not null"`
}

func (ProductPack) TableName() string { return "product_packs" }

type Warehouse struct {
	ID        string    `gorm:"size:36;primaryKey"`
	Name      string    `gorm:"size:128;not null"`
	IsActive  bool      `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (Warehouse) TableName() string { return "warehouses" }
