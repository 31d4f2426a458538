package settings

import (
	"time"

	"gorm.io/datatypes"
)

const (
	KeyDeliveryFeePaise           = "delivery_fee_paise"
	KeyFreeDeliveryThresholdPaise = "free_delivery_threshold_paise"
	KeyGSTRateBps                 = "gst_rate_bps"
)

type Setting struct {
	Key       string         `gorm:"size:128;primaryKey"`
	Value     datatypes.JSON `gorm:"not null"`
	UpdatedAt time.Time      `gorm:"not null"`
}

func (Setting) TableName() string { return "settings" }
