package trace

import (
	"log"

	"github.com/ezrec/umips/machine"
	"github.com/ezrec/umips/mmu"
)

// Logger writes every event to a log.
type Logger struct {
	Name string      // Prefix of each line, usually the machine ID.
	Log  *log.Logger // Destination, or nil for the standard logger.
}

var _ Sink = (*Logger)(nil)

func (l *Logger) printf(format string, args ...any) {
	args = append([]any{l.Name}, args...)
	if l.Log == nil {
		log.Printf("%v: "+format, args...)
	} else {
		l.Log.Printf("%v: "+format, args...)
	}
}

func (l *Logger) TlbHit(slot int, entry mmu.Entry) {
	l.printf("tlb[%d] hit %v", slot, entry)
}

func (l *Logger) TlbRefill(slot int, evicted mmu.Entry, loaded mmu.Entry) {
	if evicted.Valid {
		l.printf("tlb[%d] refill %v, evicted %v", slot, loaded, evicted)
	} else {
		l.printf("tlb[%d] refill %v", slot, loaded)
	}
}

func (l *Logger) TranslateFault(vaddr int, err error) {
	l.printf("fault %v", err)
}

func (l *Logger) FrameAllocated(frame int) {
	l.printf("frame %d allocated", frame)
}

func (l *Logger) FrameFreed(owner string, frame int) {
	if owner == "" {
		l.printf("frame %d freed", frame)
	} else {
		l.printf("frame %d freed by %v", frame, owner)
	}
}

func (l *Logger) FramesExhausted() {
	l.printf("frames exhausted")
}

func (l *Logger) Trap(kind machine.TrapKind, badVAddr int) {
	l.printf("trap %v at 0x%x", kind, badVAddr)
}
