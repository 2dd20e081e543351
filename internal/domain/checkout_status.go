package domain

type CheckoutStatus string

const (
	CheckoutStatusLoading  CheckoutStatus = "LOADING"
	CheckoutStatusReady    CheckoutStatus = "READY"
	CheckoutStatusPlacing  CheckoutStatus = "PLACING"
	CheckoutStatusComplete CheckoutStatus = "COMPLETE"
	CheckoutStatusFailed   CheckoutStatus = "FAILED"
)

func (s CheckoutStatus) IsTerminal() bool {
	return s == CheckoutStatusComplete || s == CheckoutStatusFailed
}

// String representation (for logging)
func (s CheckoutStatus) String() string {
	return string(s)
}

// CanTransitionTo reports whether the checkout state machine allows moving
// from s to next. A rejected order returns Placing to Ready so the shopper
// can resubmit; Failed is reachable only from Loading and is terminal.
func CanTransitionTo(s, next CheckoutStatus) bool {
	switch s {
	case CheckoutStatusLoading:
		return next == CheckoutStatusReady || next == CheckoutStatusFailed
	case CheckoutStatusReady:
		return next == CheckoutStatusPlacing
	case CheckoutStatusPlacing:
		return next == CheckoutStatusComplete || next == CheckoutStatusReady
	default:
		return false
	}
}
