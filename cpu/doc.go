// Package cpu implements the user-mode register file of the simulated MIPS
// processor.
//
// The register file holds 32 general-purpose registers (r0-r31, with r29 the
// stack pointer and r31 the return address), the Hi/Lo multiply/divide pair,
// the current, next and previous program counters, the delayed-load target
// and value, and the faulting virtual address of the last trap.
//
// Register access is bounds checked. An index outside the register file is a
// defect in the calling code, not a guest condition, and panics with an
// ErrRegister value.
//
// The register file is not synchronized: exactly one execution context may
// use a machine's registers at a time.
package cpu
