package app

import (
	"gorm.io/gorm"

	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/accounts"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/catalog"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/jobs"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/notifications"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/orders"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/payments"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/settings"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/platform/database"
)

// Models lists every persisted type, parents before children.
func Models() []any {
	return []any{
		&settings.Setting{},
		&catalog.Warehouse{},
		&catalog.Product{},
		&catalog.ProductPack{},
		&accounts.User{},
		&accounts.Address{},
		&orders.Order{},
		&orders.OrderItem{},
		&orders.OrderStatusEvent{},
		&payments.Payment{},
		&payments.ProviderEvent{},
		&notifications.Notification{},
		&jobs.JobRun{},
	}
}

func Migrate(db *gorm.DB) error {
	return database.Migrate(db, Models()...)
}
