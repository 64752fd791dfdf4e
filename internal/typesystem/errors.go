package typesystem

import (
	"errors"
	"fmt"
)

// ErrTRCMissingName is wrapped by ParseDefinedGeneric when a (TRC ...)
// keyword body has no generic name after the optional "*".
var ErrTRCMissingName = errors.New("TRC missing name")

// UnknownTypeError reports a type-syntax token that matches none of the
// recognized forms.
type UnknownTypeError struct {
	Raw string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("type `%s` doesn't exist", e.Raw)
}
