package checkout

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyCart           = errors.New("cart is empty, nothing to checkout")
	ErrMixedCurrency       = errors.New("cart mixes currencies, split it into one order per currency")
	IllegalTransitionError = errors.New("illegal transition of checkout status")
)

// AddressValidationError is raised locally, before any network call, when
// mandatory address fields are empty. The shopper fixes the form and
// resubmits; the checkout stays at Ready.
type AddressValidationError struct {
	Fields []string
}

func (e *AddressValidationError) Error() string {
	return fmt.Sprintf("address is missing mandatory fields: %s", strings.Join(e.Fields, ", "))
}
