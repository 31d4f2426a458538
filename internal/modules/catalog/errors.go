package catalog

import "github.com/BhargavEnigma/FreshVegApp-sub000/internal/shared/apperr"

var (
	ErrWarehouseNotConfigured = apperr.ConfigErr("WAREHOUSE_NOT_CONFIGURED", "Ordering is temporarily unavailable.")
	ErrProductNotFound        = apperr.NotFoundErr("PRODUCT_NOT_FOUND", "Product not found.")
)
