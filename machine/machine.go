// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package machine assembles the register file, address translation and
// physical frames of a simulated user-mode processor, and dispatches traps
// to the kernel.
//
// A Machine has a single execution context: nothing here is synchronized,
// and callers must not use a Machine from more than one goroutine at a time.
package machine

import (
	"encoding/binary"
	"iter"
	"maps"

	"github.com/rs/xid"

	"github.com/ezrec/umips/cpu"
	"github.com/ezrec/umips/frame"
	"github.com/ezrec/umips/internal"
	"github.com/ezrec/umips/mmu"
)

const (
	PAGE_SIZE      = 128 // Default bytes per page, one disk sector.
	NUM_PHYS_PAGES = 32  // Default physical frames.
	TLB_SIZE       = 4   // Default translation cache slots.
)

var _machine_defines = map[string]int{
	"PAGE_SIZE":          PAGE_SIZE,
	"NUM_PHYS_PAGES":     NUM_PHYS_PAGES,
	"TLB_SIZE":           TLB_SIZE,
	"USER_MODE":          int(USER_MODE),
	"SYSTEM_MODE":        int(SYSTEM_MODE),
	"TRAP_NONE":          int(TRAP_NONE),
	"TRAP_SYSCALL":       int(TRAP_SYSCALL),
	"TRAP_PAGE_FAULT":    int(TRAP_PAGE_FAULT),
	"TRAP_READ_ONLY":     int(TRAP_READ_ONLY),
	"TRAP_BUS_ERROR":     int(TRAP_BUS_ERROR),
	"TRAP_ADDRESS_ERROR": int(TRAP_ADDRESS_ERROR),
	"TRAP_OVERFLOW":      int(TRAP_OVERFLOW),
	"TRAP_ILLEGAL_INSTR": int(TRAP_ILLEGAL_INSTR),
}

// Config describes the hardware of a machine.
type Config struct {
	PageSize     int        // Bytes per page.
	NumPhysPages int        // Physical frames.
	TlbSize      int        // Translation cache slots, zero for linear page tables.
	Policy       mmu.Policy // Translation cache replacement policy.
	ReuseFrame   bool       // POLICY_LRU refills keep the victim's frame.
}

// DefaultConfig returns the stock machine: 128 byte pages, 32 frames and a
// four slot FIFO translation cache.
func DefaultConfig() Config {
	return Config{
		PageSize:     PAGE_SIZE,
		NumPhysPages: NUM_PHYS_PAGES,
		TlbSize:      TLB_SIZE,
		Policy:       mmu.POLICY_FIFO,
	}
}

// Validate checks the configuration for impossible hardware.
func (cfg Config) Validate() (err error) {
	switch {
	case cfg.PageSize <= 0 || cfg.PageSize%4 != 0:
		err = &ErrConfig{Field: "PageSize", Value: cfg.PageSize}
	case cfg.NumPhysPages <= 0:
		err = &ErrConfig{Field: "NumPhysPages", Value: cfg.NumPhysPages}
	case cfg.TlbSize < 0:
		err = &ErrConfig{Field: "TlbSize", Value: cfg.TlbSize}
	case cfg.Policy != mmu.POLICY_FIFO && cfg.Policy != mmu.POLICY_LRU:
		err = &ErrConfig{Field: "Policy", Value: int(cfg.Policy)}
	}
	return
}

// Machine is the simulated processor state visible to the kernel.
type Machine struct {
	ID        string           // Unique machine name, for traces.
	Config    Config           // Hardware description.
	Registers cpu.Registers    // User register file.
	Mmu       mmu.Translator   // Address translation.
	Frames    *frame.Allocator // Physical frame bitmap.
	Memory    []byte           // Physical memory.

	Mode     ModeController // Execution mode flag.
	Handler  Handler        // Kernel trap handler.
	Observer Observer       // Optional trap event sink.
}

// NewMachine creates a machine with cleared registers and memory, all frames
// free, and, if configured, an empty translation cache.
func NewMachine(cfg Config, mode ModeController, handler Handler) (m *Machine, err error) {
	err = cfg.Validate()
	if err != nil {
		return
	}

	if mode == nil || handler == nil {
		panic(ErrCollaborator)
	}

	m = &Machine{
		ID:      xid.New().String(),
		Config:  cfg,
		Frames:  frame.NewAllocator(cfg.NumPhysPages),
		Memory:  make([]byte, cfg.NumPhysPages*cfg.PageSize),
		Mode:    mode,
		Handler: handler,
	}

	m.Mmu = mmu.Translator{
		PageSize: cfg.PageSize,
		Frames:   cfg.NumPhysPages,
	}

	if cfg.TlbSize > 0 {
		m.Mmu.Tlb = mmu.NewTlb(cfg.TlbSize, cfg.Policy)
		m.Mmu.Tlb.ReuseFrame = cfg.ReuseFrame
	}

	return
}

// Defines returns the machine, register and policy constants.
func Defines() iter.Seq2[string, int] {
	return internal.IterSeq2Concat(maps.All(_machine_defines),
		cpu.Defines(),
		mmu.Defines(),
	)
}

// SwitchAddressSpace makes 'table' the current page table, and flushes the
// translation cache of the previous address space.
func (m *Machine) SwitchAddressSpace(table mmu.PageTable) {
	m.Mmu.PageTable = table
	if m.Mmu.Tlb != nil {
		m.Mmu.Tlb.Flush()
	}
}

// ReleaseAddressSpace frees the frames mapped by 'table' at process exit.
// If it is the current address space, the machine is left without one.
func (m *Machine) ReleaseAddressSpace(table mmu.PageTable) (freed int) {
	freed = m.Frames.FreeAll(table)

	if len(table) > 0 && len(m.Mmu.PageTable) > 0 && &table[0] == &m.Mmu.PageTable[0] {
		m.SwitchAddressSpace(nil)
	}

	return
}

// Translate converts a virtual address, delivering a failure to the kernel
// as a trap.
func (m *Machine) Translate(vaddr int) (paddr int, ok bool) {
	paddr, err := m.Mmu.Translate(vaddr)
	if err != nil {
		m.RaiseTrap(FaultKind(err), vaddr)
		return
	}

	ok = true
	return
}

// ReadMem reads a 1, 2 or 4 byte little-endian value from virtual memory.
// On a fault the trap is raised and ok is false.
func (m *Machine) ReadMem(vaddr int, size int) (value int32, ok bool) {
	paddr, err := m.Mmu.Access(vaddr, size, false)
	if err != nil {
		m.RaiseTrap(FaultKind(err), vaddr)
		return
	}

	data := m.Memory[paddr : paddr+size]
	switch size {
	case 1:
		value = int32(data[0])
	case 2:
		value = int32(binary.LittleEndian.Uint16(data))
	case 4:
		value = int32(binary.LittleEndian.Uint32(data))
	}

	ok = true
	return
}

// WriteMem writes a 1, 2 or 4 byte little-endian value to virtual memory.
// On a fault the trap is raised and ok is false.
func (m *Machine) WriteMem(vaddr int, size int, value int32) (ok bool) {
	paddr, err := m.Mmu.Access(vaddr, size, true)
	if err != nil {
		m.RaiseTrap(FaultKind(err), vaddr)
		return
	}

	data := m.Memory[paddr : paddr+size]
	switch size {
	case 1:
		data[0] = byte(value)
	case 2:
		binary.LittleEndian.PutUint16(data, uint16(value))
	case 4:
		binary.LittleEndian.PutUint32(data, uint32(value))
	}

	ok = true
	return
}
