package cpu

import (
	"errors"

	"github.com/ezrec/umips/translate"
)

var f = translate.From

var (
	// Register file errors
	ErrRegisterRange = errors.New(f("register index out of range"))
)

// ErrRegister is the panic value of an out-of-range register access.
type ErrRegister int

func (err ErrRegister) Error() string {
	return f("register %d not in [0,%d)", int(err), NUM_TOTAL_REGS)
}

func (err ErrRegister) Unwrap() error {
	return ErrRegisterRange
}
