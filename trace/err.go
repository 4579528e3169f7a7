package trace

import (
	"errors"

	"github.com/ezrec/umips/translate"
)

var f = translate.From

var (
	ErrTraceExists = errors.New(f("trace database already exists"))
)

// ErrDatabase is a failure of the trace database.
type ErrDatabase struct {
	Name string
	Err  error
}

func (err *ErrDatabase) Error() string {
	return f("%v: %v", err.Name, err.Err)
}

func (err *ErrDatabase) Unwrap() error {
	return err.Err
}
