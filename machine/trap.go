package machine

import (
	"errors"

	"github.com/ezrec/umips/cpu"
	"github.com/ezrec/umips/mmu"
)

// TrapKind is the cause of a transfer of control to the kernel.
type TrapKind int

//go:generate go tool stringer -linecomment -type=TrapKind
const (
	TRAP_NONE          = TrapKind(0) // no exception
	TRAP_SYSCALL       = TrapKind(1) // syscall
	TRAP_PAGE_FAULT    = TrapKind(2) // page fault/no TLB entry
	TRAP_READ_ONLY     = TrapKind(3) // page read only
	TRAP_BUS_ERROR     = TrapKind(4) // bus error
	TRAP_ADDRESS_ERROR = TrapKind(5) // address error
	TRAP_OVERFLOW      = TrapKind(6) // overflow
	TRAP_ILLEGAL_INSTR = TrapKind(7) // illegal instruction
	TRAP_KINDS         = 8
)

// Mode is the processor execution mode.
type Mode int

const (
	USER_MODE   = Mode(0) // Running user code.
	SYSTEM_MODE = Mode(1) // Running kernel code.
)

func (mode Mode) String() string {
	if mode == SYSTEM_MODE {
		return "system"
	}
	return "user"
}

// ModeController owns the execution mode flag. It is provided by the
// interrupt subsystem.
type ModeController interface {
	Status() Mode
	SetStatus(mode Mode)
}

// Handler is the kernel's trap handler. HandleTrap runs in system mode and
// the machine makes no progress until it returns.
type Handler interface {
	HandleTrap(kind TrapKind)
}

// HandlerFunc adapts a function to a Handler.
type HandlerFunc func(kind TrapKind)

func (fn HandlerFunc) HandleTrap(kind TrapKind) {
	fn(kind)
}

// Observer receives trap events, before the handler runs.
type Observer interface {
	Trap(kind TrapKind, badVAddr int)
}

// Status is a plain execution mode flag, for machines without an
// interrupt controller of their own.
type Status struct {
	mode Mode
}

func (s *Status) Status() Mode {
	return s.mode
}

func (s *Status) SetStatus(mode Mode) {
	s.mode = mode
}

// RaiseTrap transfers control to the kernel handler.
//
// The faulting address is stored in BAD_VADDR_REG and any pending delayed
// load is completed before the machine enters system mode. The machine is
// back in user mode when RaiseTrap returns, even if the handler panics.
func (m *Machine) RaiseTrap(kind TrapKind, badVAddr int) {
	if m.Observer != nil {
		m.Observer.Trap(kind, badVAddr)
	}

	m.Registers.Write(cpu.BAD_VADDR_REG, int32(badVAddr))
	m.Registers.DelayedLoad(0, 0)

	m.Mode.SetStatus(SYSTEM_MODE)
	defer m.Mode.SetStatus(USER_MODE)

	m.Handler.HandleTrap(kind)
}

// FaultKind returns the trap delivered for a translation error.
// Errors that are not translation faults are reported as bus errors.
func FaultKind(err error) (kind TrapKind) {
	switch {
	case err == nil:
		kind = TRAP_NONE
	case errors.Is(err, mmu.ErrPageFault):
		kind = TRAP_PAGE_FAULT
	case errors.Is(err, mmu.ErrReadOnly):
		kind = TRAP_READ_ONLY
	case errors.Is(err, mmu.ErrAddress):
		kind = TRAP_ADDRESS_ERROR
	default:
		kind = TRAP_BUS_ERROR
	}
	return
}
