package orders

type Status string

const (
	StatusPaymentPending Status = "payment_pending"
	StatusPlaced         Status = "placed"
	StatusConfirmed      Status = "confirmed" // legacy alias of placed
	StatusLocked         Status = "locked"
	StatusAccepted       Status = "accepted"
	StatusPacked         Status = "packed"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
	StatusCancelled      Status = "cancelled"
	StatusRefunded       Status = "refunded"
)

// AllStatuses lists every status in lifecycle order.
var AllStatuses = []Status{
	StatusPaymentPending, StatusPlaced, StatusConfirmed, StatusLocked, StatusAccepted,
	StatusPacked, StatusOutForDelivery, StatusDelivered, StatusCancelled, StatusRefunded,
}

// transitions is the whole lifecycle: from -> allowed targets.
// Statuses with no entry are terminal.
var transitions = map[Status][]Status{
	StatusPaymentPending: {StatusPlaced, StatusCancelled},
	StatusPlaced:         {StatusLocked, StatusAccepted, StatusCancelled},
	StatusConfirmed:      {StatusLocked, StatusAccepted, StatusCancelled},
	StatusLocked:         {StatusAccepted, StatusCancelled},
	StatusAccepted:       {StatusPacked, StatusCancelled},
	StatusPacked:         {StatusOutForDelivery, StatusCancelled},
	StatusOutForDelivery: {StatusDelivered},
}

// customer may cancel only before the order is locked for delivery
var customerCancellable = map[Status]bool{
	StatusPaymentPending: true,
	StatusPlaced:         true,
}

// lock job picks up these
var lockable = []Status{StatusPlaced, StatusConfirmed}

func ParseStatus(s string) (Status, bool) {
	for _, st := range AllStatuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// AllowedFrom returns a copy of the allowed targets of from.
func AllowedFrom(from Status) []Status {
	return append([]Status(nil), transitions[from]...)
}

func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// CheckTransition reports INVALID_STATUS_TRANSITION for a move the table
// does not allow. Same-status is not a transition and is checked by callers.
func CheckTransition(from, to Status) error {
	if !CanTransition(from, to) {
		return ErrInvalidTransition.WithFields(map[string]string{"from": string(from), "to": string(to)})
	}
	return nil
}

func IsTerminal(s Status) bool { return len(transitions[s]) == 0 }

func LockableStatuses() []Status { return append([]Status(nil), lockable...) }
