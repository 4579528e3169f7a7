// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package frame allocates physical memory frames from a bitmap.
//
// The allocator only guarantees that a frame is never handed out twice.
// Keeping the bitmap consistent with the live page tables (a frame is
// allocated iff some live page table maps it) is the caller's obligation,
// as is serializing calls: the allocator does no locking.
package frame

import (
	"fmt"
	"iter"
	"math"
	"math/bits"
	"strings"

	"github.com/ezrec/umips/mmu"
)

// Owner names the execution context on whose behalf frames are released.
type Owner interface {
	Name() string
}

// Observer receives allocation events.
type Observer interface {
	FrameAllocated(frame int)
	FrameFreed(owner string, frame int)
	FramesExhausted()
}

// Allocator is a bitmap of physical frames, a set bit being an allocated frame.
type Allocator struct {
	Owner    Owner    // Optional attribution of frees.
	Observer Observer // Optional event sink.

	frames int
	bitmap []uint64
}

// NewAllocator creates an allocator of 'frames' free frames.
func NewAllocator(frames int) (fa *Allocator) {
	if frames <= 0 {
		panic(ErrFrameCount)
	}

	fa = &Allocator{
		frames: frames,
		bitmap: make([]uint64, (frames+63)/64),
	}

	return
}

func (fa *Allocator) owner() (name string) {
	if fa.Owner != nil {
		name = fa.Owner.Name()
	}
	return
}

func (fa *Allocator) mustFrame(frame int) {
	if frame < 0 || frame >= fa.frames {
		panic(ErrFrame(frame))
	}
}

// Len returns the number of frames in the bitmap.
func (fa *Allocator) Len() int {
	return fa.frames
}

// Test returns true if the frame is allocated.
func (fa *Allocator) Test(frame int) bool {
	fa.mustFrame(frame)
	return fa.bitmap[frame/64]&(1<<(frame%64)) != 0
}

// NumFree returns the number of free frames.
func (fa *Allocator) NumFree() (count int) {
	count = fa.frames
	for _, word := range fa.bitmap {
		count -= bits.OnesCount64(word)
	}
	return
}

// Allocate marks the lowest-numbered free frame as allocated, and returns it.
// When every frame is in use the error wraps ErrExhausted.
func (fa *Allocator) Allocate() (frame int, err error) {
	for n, word := range fa.bitmap {
		if word == math.MaxUint64 {
			continue
		}
		bit := bits.TrailingZeros64(^word)
		frame = n*64 + bit
		if frame >= fa.frames {
			break
		}
		fa.bitmap[n] |= 1 << bit
		if fa.Observer != nil {
			fa.Observer.FrameAllocated(frame)
		}
		return
	}

	if fa.Observer != nil {
		fa.Observer.FramesExhausted()
	}

	frame = -1
	err = &ErrNoFrame{Owner: fa.owner(), Frames: fa.frames}
	return
}

// Reserve marks a specific frame as allocated. It returns false, leaving
// the bitmap unchanged, if the frame was already allocated.
func (fa *Allocator) Reserve(frame int) (ok bool) {
	if fa.Test(frame) {
		return
	}

	fa.bitmap[frame/64] |= 1 << (frame % 64)
	if fa.Observer != nil {
		fa.Observer.FrameAllocated(frame)
	}

	ok = true
	return
}

// Free releases a frame. Freeing a free frame does nothing.
func (fa *Allocator) Free(frame int) {
	if !fa.Test(frame) {
		return
	}

	fa.bitmap[frame/64] &^= 1 << (frame % 64)
	if fa.Observer != nil {
		fa.Observer.FrameFreed(fa.owner(), frame)
	}
}

// FreeAll releases the frame of every valid entry in the page table, and
// returns how many frames were released. Frames not mapped by the table are
// untouched. No two live page tables may map the same frame.
func (fa *Allocator) FreeAll(table mmu.PageTable) (freed int) {
	for _, entry := range table {
		if !entry.Valid {
			continue
		}
		if fa.Test(entry.PhysicalPage) {
			fa.Free(entry.PhysicalPage)
			freed++
		}
	}
	return
}

// Allocated iterates over the allocated frames in ascending order.
func (fa *Allocator) Allocated() iter.Seq[int] {
	return func(yield func(int) bool) {
		for frame := range fa.frames {
			if fa.Test(frame) && !yield(frame) {
				return
			}
		}
	}
}

// String returns the bitmap, 64 frames per line, '#' for allocated frames.
func (fa *Allocator) String() string {
	var sb strings.Builder
	for frame := range fa.frames {
		if frame%64 == 0 {
			fmt.Fprintf(&sb, "%04d: ", frame)
		}
		if fa.Test(frame) {
			sb.WriteByte('#')
		} else {
			sb.WriteByte('.')
		}
		if frame%64 == 63 || frame == fa.frames-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
