package orders

import "github.com/BhargavEnigma/FreshVegApp-sub000/internal/shared/apperr"

var (
	ErrOrderNotFound     = apperr.NotFoundErr("ORDER_NOT_FOUND", "Order not found.")
	ErrInvalidStatus     = apperr.InvalidErr("INVALID_STATUS", "Unknown order status.", nil)
	ErrInvalidTransition = apperr.ConflictErr("INVALID_STATUS_TRANSITION", "Order cannot move to that status.")
	ErrLockReserved      = apperr.ConflictErr("LOCK_RESERVED_FOR_SCHEDULER", "Orders are locked by the daily lock job.")
	ErrOrderLocked       = apperr.ConflictErr("ORDER_LOCKED", "Order is already locked for delivery.")
	ErrCannotCancel      = apperr.ConflictErr("CANNOT_CANCEL", "Order can no longer be cancelled.")
	ErrConcurrentUpdate  = apperr.ConflictErr("ORDER_CONCURRENTLY_MODIFIED", "Order was modified, please retry.")
)
