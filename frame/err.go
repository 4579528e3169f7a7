package frame

import (
	"errors"

	"github.com/ezrec/umips/translate"
)

var f = translate.From

var (
	// Allocation errors
	ErrExhausted = errors.New(f("no free physical frame"))

	// Programming errors, raised as panics
	ErrFrameRange = errors.New(f("frame number out of range"))
	ErrFrameCount = errors.New(f("frame count must be positive"))
)

// ErrNoFrame is returned by Allocate when every frame is in use.
type ErrNoFrame struct {
	Owner  string // Context that requested the frame, if known.
	Frames int    // Size of the bitmap.
}

func (err *ErrNoFrame) Error() string {
	if err.Owner == "" {
		return f("all %d frames allocated", err.Frames)
	}
	return f("%v: all %d frames allocated", err.Owner, err.Frames)
}

func (err *ErrNoFrame) Unwrap() error {
	return ErrExhausted
}

// ErrFrame is the panic value of an out-of-range frame number.
type ErrFrame int

func (err ErrFrame) Error() string {
	return f("frame %d out of range", int(err))
}

func (err ErrFrame) Unwrap() error {
	return ErrFrameRange
}
