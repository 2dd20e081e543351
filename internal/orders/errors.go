package orders

import (
	"errors"
	"fmt"
	"strings"
)

var ErrNoItems = errors.New("order has no items, nothing to create")

// ValidationError reports which submitted fields the backend rejected.
// The backend is the authority; client-side checks are a convenience.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("order validation failed: %s", strings.Join(e.Fields, ", "))
}
