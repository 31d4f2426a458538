package pricing

import "github.com/BhargavEnigma/FreshVegApp-sub000/internal/shared/apperr"

var (
	ErrInvalidUnit           = apperr.InvalidErr("INVALID_UNIT", "Unit is required.", nil)
	ErrUnsupportedUnit       = apperr.InvalidErr("UNSUPPORTED_UNIT", "Unit is not supported.", nil)
	ErrConversionUnsupported = apperr.InvalidErr("PACK_UNIT_CONVERSION_NOT_SUPPORTED", "Pack unit cannot be derived from the product unit.", nil)
	ErrInvalidBaseQuantity   = apperr.InvalidErr("INVALID_BASE_QUANTITY", "Base quantity must be greater than zero.", nil)
	ErrInvalidPrice          = apperr.InvalidErr("INVALID_PRICE", "Price must not be negative.", nil)

	// ErrInvalidTotal is a configuration failure: money settings are never clamped.
	ErrInvalidTotal = apperr.ConfigErr("INVALID_TOTAL", "Order totals could not be computed.")
)
