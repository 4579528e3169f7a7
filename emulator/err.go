package emulator

import (
	"errors"

	"github.com/ezrec/umips/translate"
)

var f = translate.From

var (
	ErrExecutor = errors.New(f("emulator needs a machine and an executor"))
)

// ErrRuntime indicates the tick at which a runtime error occurred.
type ErrRuntime struct {
	Tick int
	Err  error
}

func (err *ErrRuntime) Error() string {
	return f("tick %d %v", err.Tick, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
