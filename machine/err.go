package machine

import (
	"errors"

	"github.com/ezrec/umips/translate"
)

var f = translate.From

var (
	ErrCollaborator = errors.New(f("machine needs a mode controller and a trap handler"))
	ErrConfigValue  = errors.New(f("invalid machine configuration"))
)

// ErrConfig is a machine configuration field with an impossible value.
type ErrConfig struct {
	Field string
	Value int
}

func (err *ErrConfig) Error() string {
	return f("%v: %v = %d", ErrConfigValue, err.Field, err.Value)
}

func (err *ErrConfig) Unwrap() error {
	return ErrConfigValue
}
