// Package trace records machine events: translation cache hits and
// refills, translation faults, frame allocation and traps.
package trace

import (
	"github.com/ezrec/umips/frame"
	"github.com/ezrec/umips/machine"
	"github.com/ezrec/umips/mmu"
)

// Sink receives every event of a machine.
type Sink interface {
	mmu.Observer
	frame.Observer
	machine.Observer
}

// Attach makes 'sink' the observer of the machine's translator, frame
// allocator and trap dispatcher. A nil sink detaches.
func Attach(m *machine.Machine, sink Sink) {
	if sink == nil {
		m.Mmu.Observer = nil
		m.Frames.Observer = nil
		m.Observer = nil
		return
	}

	m.Mmu.Observer = sink
	m.Frames.Observer = sink
	m.Observer = sink
}

// Tee sends each event to every sink, in order.
type Tee []Sink

var _ Sink = Tee(nil)

func (t Tee) TlbHit(slot int, entry mmu.Entry) {
	for _, sink := range t {
		sink.TlbHit(slot, entry)
	}
}

func (t Tee) TlbRefill(slot int, evicted mmu.Entry, loaded mmu.Entry) {
	for _, sink := range t {
		sink.TlbRefill(slot, evicted, loaded)
	}
}

func (t Tee) TranslateFault(vaddr int, err error) {
	for _, sink := range t {
		sink.TranslateFault(vaddr, err)
	}
}

func (t Tee) FrameAllocated(frame int) {
	for _, sink := range t {
		sink.FrameAllocated(frame)
	}
}

func (t Tee) FrameFreed(owner string, frame int) {
	for _, sink := range t {
		sink.FrameFreed(owner, frame)
	}
}

func (t Tee) FramesExhausted() {
	for _, sink := range t {
		sink.FramesExhausted()
	}
}

func (t Tee) Trap(kind machine.TrapKind, badVAddr int) {
	for _, sink := range t {
		sink.Trap(kind, badVAddr)
	}
}
