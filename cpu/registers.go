// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"fmt"
	"iter"
	"maps"
	"strings"
)

// Register file layout.
const (
	NUM_GP_REGS    = 32 // r0-r31
	STACK_REG      = 29 // Stack pointer.
	RET_ADDR_REG   = 31 // Return address of a call.
	HI_REG         = 32 // Multiply/divide high word.
	LO_REG         = 33 // Multiply/divide low word.
	PC_REG         = 34 // Program counter.
	NEXT_PC_REG    = 35 // Pre-fetched program counter, for the branch delay slot.
	PREV_PC_REG    = 36 // Program counter of the last instruction.
	LOAD_REG       = 37 // Target register of the pending delayed load.
	LOAD_VALUE_REG = 38 // Value of the pending delayed load.
	BAD_VADDR_REG  = 39 // Faulting virtual address of the last trap.
	NUM_TOTAL_REGS = 40
)

var _cpu_defines = map[string]int{
	"NUM_GP_REGS":    NUM_GP_REGS,
	"STACK_REG":      STACK_REG,
	"RET_ADDR_REG":   RET_ADDR_REG,
	"HI_REG":         HI_REG,
	"LO_REG":         LO_REG,
	"PC_REG":         PC_REG,
	"NEXT_PC_REG":    NEXT_PC_REG,
	"PREV_PC_REG":    PREV_PC_REG,
	"LOAD_REG":       LOAD_REG,
	"LOAD_VALUE_REG": LOAD_VALUE_REG,
	"BAD_VADDR_REG":  BAD_VADDR_REG,
	"NUM_TOTAL_REGS": NUM_TOTAL_REGS,
}

var _special_names = map[int]string{
	STACK_REG:      "sp",
	RET_ADDR_REG:   "ra",
	HI_REG:         "hi",
	LO_REG:         "lo",
	PC_REG:         "pc",
	NEXT_PC_REG:    "npc",
	PREV_PC_REG:    "ppc",
	LOAD_REG:       "load",
	LOAD_VALUE_REG: "loadv",
	BAD_VADDR_REG:  "badvaddr",
}

// Registers is the register file of the simulated processor.
// The zero value is a cleared register file.
type Registers struct {
	reg [NUM_TOTAL_REGS]int32
}

// Defines returns the register index constants.
func Defines() iter.Seq2[string, int] {
	return maps.All(_cpu_defines)
}

// Name returns the diagnostic name of a register.
func Name(index int) string {
	mustRegister(index)
	if name, ok := _special_names[index]; ok {
		return name
	}
	return fmt.Sprintf("r%d", index)
}

func mustRegister(index int) {
	if index < 0 || index >= NUM_TOTAL_REGS {
		panic(ErrRegister(index))
	}
}

// Read returns the content of a register.
func (r *Registers) Read(index int) int32 {
	mustRegister(index)
	return r.reg[index]
}

// Write sets the content of a register.
func (r *Registers) Write(index int, value int32) {
	mustRegister(index)
	r.reg[index] = value
}

// Reset clears all registers.
func (r *Registers) Reset() {
	clear(r.reg[:])
}

// DelayedLoad retires the pending delayed load and schedules the next one.
// DelayedLoad(0, 0) flushes the pipeline: the pending value lands in its
// target and nothing remains deferred. r0 always reads as zero afterwards.
func (r *Registers) DelayedLoad(nextReg int, nextValue int32) {
	mustRegister(nextReg)

	target := int(r.reg[LOAD_REG])
	mustRegister(target)

	r.reg[target] = r.reg[LOAD_VALUE_REG]
	r.reg[LOAD_REG] = int32(nextReg)
	r.reg[LOAD_VALUE_REG] = nextValue
	r.reg[0] = 0
}

// String returns the register file as a four-column dump.
func (r *Registers) String() string {
	var sb strings.Builder

	for n := range NUM_GP_REGS {
		label := fmt.Sprintf("%d", n)
		switch n {
		case STACK_REG:
			label = fmt.Sprintf("SP(%d)", n)
		case RET_ADDR_REG:
			label = fmt.Sprintf("RA(%d)", n)
		}
		fmt.Fprintf(&sb, "% 7s: %08x", label, uint32(r.reg[n]))
		if n%4 == 3 {
			sb.WriteString("\n")
		}
	}

	rows := [][]int{
		{HI_REG, LO_REG},
		{PC_REG, NEXT_PC_REG, PREV_PC_REG},
		{LOAD_REG, LOAD_VALUE_REG, BAD_VADDR_REG},
	}
	for _, row := range rows {
		for _, n := range row {
			fmt.Fprintf(&sb, "% 7s: %08x", Name(n), uint32(r.reg[n]))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
