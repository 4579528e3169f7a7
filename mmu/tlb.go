// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package mmu

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"strings"
)

// Policy selects the translation cache slot evicted by a refill.
type Policy int

//go:generate go tool stringer -linecomment -type=Policy
const (
	POLICY_FIFO = Policy(0) // fifo
	POLICY_LRU  = Policy(1) // lru
)

var _mmu_defines = map[string]int{
	"FIFO": int(POLICY_FIFO),
	"LRU":  int(POLICY_LRU),
}

// Defines returns the replacement policy constants.
func Defines() iter.Seq2[string, int] {
	return maps.All(_mmu_defines)
}

// ParsePolicy converts a policy name ("fifo" or "lru", any case) to a Policy.
func ParsePolicy(name string) (policy Policy, err error) {
	value, ok := _mmu_defines[strings.ToUpper(name)]
	if !ok {
		err = ErrPolicy(name)
		return
	}
	policy = Policy(value)
	return
}

// Tlb is a fixed-capacity translation cache.
//
// Among valid slots, virtual page numbers are pairwise distinct. Under
// POLICY_FIFO slot 0 holds the oldest insertion.
//
// Methods called on a nil *Tlb panic with ErrTlbMissing.
type Tlb struct {
	Entries []Entry // Cache slots.
	Policy  Policy  // Replacement policy when every slot is valid.

	// ReuseFrame makes a POLICY_LRU eviction keep the victim slot's
	// physical frame instead of reading the frame from the page table.
	ReuseFrame bool
}

// NewTlb creates a translation cache with 'size' invalid slots.
func NewTlb(size int, policy Policy) (tlb *Tlb) {
	if size <= 0 {
		panic(ErrTlbSize)
	}

	tlb = &Tlb{
		Entries: make([]Entry, size),
		Policy:  policy,
	}

	return
}

func (tlb *Tlb) mustExist() {
	if tlb == nil {
		panic(ErrTlbMissing)
	}
}

// Flush invalidates every slot.
func (tlb *Tlb) Flush() {
	tlb.mustExist()
	clear(tlb.Entries)
}

// find returns the valid slot mapping vpn.
func (tlb *Tlb) find(vpn int) (slot int, ok bool) {
	slot = slices.IndexFunc(tlb.Entries, func(e Entry) bool {
		return e.Valid && e.VirtualPage == vpn
	})
	ok = slot >= 0
	return
}

// Lookup finds the valid slot mapping vpn. A hit increments the slot's
// hit counter.
func (tlb *Tlb) Lookup(vpn int) (slot int, ok bool) {
	tlb.mustExist()

	slot, ok = tlb.find(vpn)
	if ok {
		tlb.Entries[slot].Hits++
	}

	return
}

// leastHit returns the valid slot with the fewest hits, lowest index first.
func (tlb *Tlb) leastHit() (slot int) {
	slot = -1
	for n, entry := range tlb.Entries {
		if !entry.Valid {
			continue
		}
		if slot < 0 || entry.Hits < tlb.Entries[slot].Hits {
			slot = n
		}
	}
	return
}

// Refill loads the mapping of vpn into the cache, and returns the slot it
// landed in and the entry that slot held before.
//
// An invalid slot is used first. Otherwise the policy picks the victim:
//   - POLICY_FIFO evicts slot 0, shifts the remaining slots down by one,
//     and loads into the last slot.
//   - POLICY_LRU evicts the slot with the fewest hits.
//
// The frame comes from table[vpn]; a missing or invalid page table entry
// fails with ErrPageFault and leaves the cache untouched.
func (tlb *Tlb) Refill(vpn int, table PageTable) (slot int, evicted Entry, err error) {
	tlb.mustExist()

	fromTable := true
	slot, present := tlb.find(vpn)
	if !present {
		slot = slices.IndexFunc(tlb.Entries, func(e Entry) bool { return !e.Valid })
	}
	if slot < 0 {
		switch tlb.Policy {
		case POLICY_FIFO:
			slot = len(tlb.Entries) - 1
		case POLICY_LRU:
			slot = tlb.leastHit()
			fromTable = !tlb.ReuseFrame
		default:
			panic(ErrPolicy(tlb.Policy.String()))
		}
	}

	loaded := Entry{
		VirtualPage:  vpn,
		PhysicalPage: tlb.Entries[slot].PhysicalPage,
		Valid:        true,
	}

	if fromTable {
		var source *Entry
		source, err = table.lookup(vpn)
		if err != nil {
			return
		}
		loaded.PhysicalPage = source.PhysicalPage
		loaded.ReadOnly = source.ReadOnly
	}

	if !present && tlb.Policy == POLICY_FIFO && tlb.Entries[slot].Valid {
		evicted = tlb.Entries[0]
		copy(tlb.Entries, tlb.Entries[1:])
	} else {
		evicted = tlb.Entries[slot]
	}

	tlb.Entries[slot] = loaded

	return
}

func (tlb *Tlb) String() string {
	tlb.mustExist()

	var sb strings.Builder
	for n, entry := range tlb.Entries {
		fmt.Fprintf(&sb, "tlb[%d]: %v\n", n, entry)
	}
	return sb.String()
}
