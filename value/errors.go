package value

import "errors"

// Sentinel errors returned by the pure arithmetic functions below. The
// interpreter package wraps these into its own RwasmError/TrapKind; keeping
// them here (rather than importing the interpreter package) avoids a
// dependency cycle between the numeric core and the VM that consumes it.
var (
	ErrIntegerDivideByZero   = errors.New("integer divide by zero")
	ErrIntegerOverflow       = errors.New("integer overflow")
	ErrInvalidConversionToInt = errors.New("invalid conversion to integer")
)
