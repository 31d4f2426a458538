package checkout

import "github.com/BhargavEnigma/FreshVegApp-sub000/internal/shared/apperr"

var (
	ErrInvalidItems         = apperr.InvalidErr("INVALID_ITEMS", "Cart items are invalid.", nil)
	ErrInvalidPaymentMethod = apperr.InvalidErr("INVALID_PAYMENT_METHOD", "Payment method must be cod or upi.", nil)
	ErrAddressRequired      = apperr.InvalidErr("ADDRESS_REQUIRED", "Delivery address is required.", nil)
	ErrPackNotFound         = apperr.NotFoundErr("PACK_NOT_FOUND", "A product in your cart is no longer available.")
	ErrPackProductMismatch  = apperr.ConflictErr("PACK_PRODUCT_MISMATCH", "Cart item does not match its product.")
	ErrProductInactive      = apperr.ConflictErr("PRODUCT_INACTIVE", "A product in your cart is no longer sold.")
	ErrOutOfStock           = apperr.ConflictErr("OUT_OF_STOCK", "A product in your cart is out of stock.")
)

// lineErr tags err with the offending pack so clients can highlight the line.
func lineErr(err *apperr.AppError, packID string) error {
	return err.WithFields(map[string]string{"product_pack_id": packID})
}
