package interp

import "errors"

var (
	ErrUnresolvedRoutine = errors.New("Unresolved routine")
	ErrUnresolvedName    = errors.New("Unresolved name")
	ErrDivideByZero      = errors.New("Division by zero")
	ErrBadParam          = errors.New("Bad instruction parameter")
)
