package tool

import (
	"fmt"
	"strings"
)

// UnsupportedError is returned by Parse for names outside the supported set.
// It is a validation failure from the caller's perspective.
type UnsupportedError struct {
	Name string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported tool %q (available: %s)", e.Name, strings.Join(Names(), ", "))
}
