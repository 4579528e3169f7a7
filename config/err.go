package config

import (
	"errors"

	"github.com/ezrec/umips/translate"
)

var f = translate.From

var (
	ErrValueType   = errors.New(f("unexpected value type"))
	ErrValueRange  = errors.New(f("value out of range"))
	ErrFrameShared = errors.New(f("frame already mapped"))
)

// ErrKey is a machine description global with an unusable value.
type ErrKey struct {
	Key   string // Global name.
	Value string // Starlark representation of the value.
	Err   error
}

func (err *ErrKey) Error() string {
	return f("%v = %v: %v", err.Key, err.Value, err.Err)
}

func (err *ErrKey) Unwrap() error {
	return err.Err
}

// ErrMapping is a page table mapping that cannot be installed on a machine.
type ErrMapping struct {
	Page  int
	Frame int
	Err   error
}

func (err *ErrMapping) Error() string {
	return f("page %d -> frame %d: %v", err.Page, err.Frame, err.Err)
}

func (err *ErrMapping) Unwrap() error {
	return err.Err
}
