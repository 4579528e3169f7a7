package emulator

import (
	"fmt"
	"io"

	"github.com/ezrec/umips/machine"
)

// DumpState writes the register file, the translation state and the frame
// bitmap of a machine. The machine is not modified.
func DumpState(w io.Writer, m *machine.Machine) (err error) {
	_, err = fmt.Fprintf(w, "Machine registers:\n%v\n", &m.Registers)
	if err != nil {
		return
	}

	if m.Mmu.Tlb != nil {
		_, err = fmt.Fprintf(w, "Translation cache (%v):\n%v\n", m.Mmu.Tlb.Policy, m.Mmu.Tlb)
	} else {
		_, err = fmt.Fprintf(w, "Page table:\n%v\n", m.Mmu.PageTable)
	}
	if err != nil {
		return
	}

	_, err = fmt.Fprintf(w, "Physical frames (%d of %d free):\n%v", m.Frames.NumFree(), m.Frames.Len(), m.Frames)

	return
}
