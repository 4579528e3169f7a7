package mmu

import (
	"errors"

	"github.com/ezrec/umips/translate"
)

var f = translate.From

var (
	// Guest faults, delivered as traps
	ErrAddress   = errors.New(f("address error"))
	ErrPageFault = errors.New(f("page fault"))
	ErrReadOnly  = errors.New(f("page read only"))
	ErrBus       = errors.New(f("bus error"))

	// Programming errors, raised as panics
	ErrTlbMissing = errors.New(f("translation cache not configured"))
	ErrTlbSize    = errors.New(f("translation cache has no slots"))
	ErrPageSize   = errors.New(f("page size must be positive"))
	ErrAccessSize = errors.New(f("access size must be 1, 2 or 4"))
)

// ErrFault is a translation failure at a virtual address.
type ErrFault struct {
	Address int
	Err     error
}

func (err *ErrFault) Error() string {
	return f("vaddr 0x%x: %v", err.Address, err.Err)
}

func (err *ErrFault) Unwrap() error {
	return err.Err
}

// ErrPolicy is an unknown replacement policy name.
type ErrPolicy string

func (err ErrPolicy) Error() string {
	return f("replacement policy '%v' unknown", string(err))
}
