package payments

import "github.com/BhargavEnigma/FreshVegApp-sub000/internal/shared/apperr"

var (
	ErrInvalidSignature = apperr.UnauthorizedErr("Invalid webhook signature.")
	ErrInvalidPayload   = apperr.InvalidErr("INVALID_WEBHOOK_PAYLOAD", "Invalid webhook payload.", nil)
	ErrPaymentNotFound  = apperr.NotFoundErr("PAYMENT_NOT_FOUND", "No payment for this order.")
	ErrAmountMismatch   = apperr.ConflictErr("PAYMENT_AMOUNT_MISMATCH", "Paid amount does not match the order total.")
)
