package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ezrec/umips/cpu"
	"github.com/ezrec/umips/emulator"
	"github.com/ezrec/umips/machine"
)

var translateCmd = &cobra.Command{
	Use:   "translate ADDR...",
	Short: "Translate virtual addresses through the machine.",
	Long: "`translate ADDR...` translates each virtual address in turn, " +
		"as one instruction each. With --size the address is read, or " +
		"written with --write, through the full memory access path.",
	Args: cobra.MinimumNArgs(1),
	RunE: runTranslate,
}

func init() {
	rootCmd.AddCommand(translateCmd)
	translateCmd.Flags().Int("size", 0, "access size: 1, 2 or 4 bytes; 0 translates only")
	translateCmd.Flags().Bool("write", false, "write --value instead of reading")
	translateCmd.Flags().Int32("value", 0, "value to write")
	translateCmd.Flags().Bool("step", false, "single-step with the debugger")
	translateCmd.Flags().Bool("dump", false, "dump the machine state when done")
}

// addressStream is an executor that performs one access per instruction.
type addressStream struct {
	m     *machine.Machine
	k     *kernel
	out   io.Writer
	addrs []int
	next  int
	size  int
	write bool
	value int32
}

func (as *addressStream) Step() (done bool, err error) {
	vaddr := as.addrs[as.next]
	as.next++
	done = as.next >= len(as.addrs)

	as.m.Registers.Write(cpu.PREV_PC_REG, as.m.Registers.Read(cpu.PC_REG))
	as.m.Registers.Write(cpu.PC_REG, as.m.Registers.Read(cpu.NEXT_PC_REG))
	as.m.Registers.Write(cpu.NEXT_PC_REG, as.m.Registers.Read(cpu.PC_REG)+4)

	traps := as.k.traps
	switch {
	case as.size == 0:
		paddr, ok := as.m.Translate(vaddr)
		if ok {
			fmt.Fprintf(as.out, "0x%08x -> 0x%08x\n", vaddr, paddr)
		}
	case as.write:
		if as.m.WriteMem(vaddr, as.size, as.value) {
			fmt.Fprintf(as.out, "0x%08x <- 0x%x\n", vaddr, uint32(as.value))
		}
	default:
		value, ok := as.m.ReadMem(vaddr, as.size)
		if ok {
			fmt.Fprintf(as.out, "0x%08x == 0x%x\n", vaddr, uint32(value))
		}
	}

	if as.k.traps != traps {
		fmt.Fprintf(as.out, "0x%08x: %v\n", vaddr, as.k.last)
	}

	return
}

func parseAddresses(args []string) (addrs []int, err error) {
	for _, arg := range args {
		var addr int64
		addr, err = strconv.ParseInt(arg, 0, 64)
		if err != nil {
			return
		}
		addrs = append(addrs, int(addr))
	}
	return
}

func runTranslate(cmd *cobra.Command, args []string) (err error) {
	addrs, err := parseAddresses(args)
	if err != nil {
		return
	}

	m, k, err := loadMachine(cmd)
	if err != nil {
		return
	}

	stream := &addressStream{m: m, k: k, out: os.Stdout, addrs: addrs}
	stream.size, _ = cmd.Flags().GetInt("size")
	stream.write, _ = cmd.Flags().GetBool("write")
	stream.value, _ = cmd.Flags().GetInt32("value")

	emu := emulator.NewEmulator(m, stream)
	emu.Verbose, _ = cmd.Flags().GetBool("verbose")
	emu.SingleStep, _ = cmd.Flags().GetBool("step")

	err = emu.Run()
	if err != nil {
		return
	}

	dump, _ := cmd.Flags().GetBool("dump")
	if dump {
		err = emulator.DumpState(os.Stdout, m)
	}

	return
}
