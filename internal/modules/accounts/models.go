package accounts

import "time"

const (
	RoleCustomer = "customer"
	RoleOps      = "ops"
	RoleAdmin    = "admin"
)

// User is the subset of the account record the order core reads.
// Sign-up and OTP flows live outside this service.
type User struct {
	ID        string    `gorm:"size:36;primaryKey"`
	Name      string    `gorm:"size:128;not null"`
	Phone     string    `gorm:"size:20;not null;uniqueIndex:ux_users_phone"`
	Email     *string   `gorm:"size:255"`
	Role      string    `gorm:"size:16;not null"`
	FCMToken  *string   `gorm:"column:fcm_token;size:255"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (User) TableName() string { return "users" }

type Address struct {
	ID        string    `gorm:"size:36;primaryKey"`
	UserID    string    `gorm:"size:36;not null;index:ix_addresses_user_id"`
	Label     string    `gorm:"size:64"`
	Line1     string    `gorm:"size:255;not null"`
	Line2     string    `gorm:"size:255"`
	City      string    `gorm:"size:128;not null"`
	Pincode   string    `gorm:"size:12;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (Address) TableName() string { return "addresses" }
