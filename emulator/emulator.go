// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator drives a machine one instruction at a time, with an
// optional interactive single-step debugger.
package emulator

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/ezrec/umips/cpu"
	"github.com/ezrec/umips/machine"
)

// Executor runs one user instruction on a machine.
// The instruction set itself lives outside this module.
type Executor interface {
	Step() (done bool, err error)
}

// ExecutorFunc adapts a function to an Executor.
type ExecutorFunc func() (done bool, err error)

func (fn ExecutorFunc) Step() (done bool, err error) {
	return fn()
}

// Emulator state. Machine + instruction executor + debugger.
type Emulator struct {
	Verbose  bool             // If set, enables verbose logging.
	Machine  *machine.Machine // Reference to the machine simulation.
	Executor Executor         // Instruction executor.

	Ticks      int  // Instructions executed since a reset.
	SingleStep bool // Enter the debugger after each instruction.
	RunUntil   int  // While single-stepping, run silently until this tick.

	In  io.Reader // Debugger command input.
	Out io.Writer // Debugger and state dump output.

	input *bufio.Reader
}

// NewEmulator creates a new emulator, with the debugger on the console.
func NewEmulator(m *machine.Machine, exec Executor) (emu *Emulator) {
	if m == nil || exec == nil {
		panic(ErrExecutor)
	}

	emu = &Emulator{
		Machine:  m,
		Executor: exec,
		In:       os.Stdin,
		Out:      os.Stdout,
	}

	return
}

// Reset the tick counter and the register file.
func (emu *Emulator) Reset() {
	if emu.Verbose {
		log.Printf("emulator: reset %v", emu.Machine.ID)
	}

	emu.Ticks = 0
	emu.RunUntil = 0
	emu.Machine.Registers.Reset()
}

// Tick performs a single instruction of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	tick := emu.Ticks
	defer func() {
		if err != nil {
			err = &ErrRuntime{Tick: tick, Err: err}
		}
	}()

	if emu.Verbose {
		log.Printf("%d: pc 0x%x", tick, uint32(emu.Machine.Registers.Read(cpu.PC_REG)))
	}

	done, err = emu.Executor.Step()
	if err != nil {
		return
	}

	emu.Ticks++
	if done {
		return
	}

	if emu.SingleStep && emu.Ticks >= emu.RunUntil {
		err = emu.Debugger()
	}

	return
}

// Run ticks the emulator until the executor is done, or fails.
func (emu *Emulator) Run() (err error) {
	var done bool
	for !done {
		done, err = emu.Tick()
		if err != nil {
			return
		}
	}

	return
}

var _debugger_help = []string{
	"Machine commands:",
	"    <return>  execute one instruction",
	"    <number>  run until the given timer tick",
	"    c         run until completion",
	"    ?         print help message",
}

// Debugger dumps the machine state and reads one command.
// End of input leaves single-step mode.
func (emu *Emulator) Debugger() (err error) {
	if emu.input == nil {
		emu.input = bufio.NewReader(emu.In)
	}

	err = DumpState(emu.Out, emu.Machine)
	if err != nil {
		return
	}

	fmt.Fprintf(emu.Out, "%d> ", emu.Ticks)

	line, err := emu.input.ReadString('\n')
	if errors.Is(err, io.EOF) {
		err = nil
		if len(line) == 0 {
			emu.SingleStep = false
			return
		}
	}
	if err != nil {
		return
	}

	line = strings.TrimSpace(line)

	fields := strings.Fields(line)
	if len(fields) > 0 {
		num, perr := strconv.Atoi(fields[0])
		if perr == nil {
			emu.RunUntil = num
			return
		}
	}

	emu.RunUntil = 0
	switch {
	case len(line) == 0:
	case line[0] == 'c':
		emu.SingleStep = false
	case line[0] == '?':
		for _, text := range _debugger_help {
			fmt.Fprintln(emu.Out, text)
		}
	}

	return
}
