// Package mmu translates virtual addresses of the simulated processor to
// physical addresses, through an optional translation cache (TLB) backed by
// a linear page table.
//
// With a Tlb configured, only cache slots are used to translate: a miss
// refills a slot from the page table, evicting by the configured Policy.
// Without a Tlb the page table is indexed directly.
//
// Guest-visible failures are returned as *ErrFault, which wraps one of
// ErrAddress, ErrPageFault, ErrReadOnly or ErrBus. Nothing in this package
// is synchronized.
package mmu

// Observer receives translation events. All methods are called synchronously
// from the translating goroutine.
type Observer interface {
	TlbHit(slot int, entry Entry)
	TlbRefill(slot int, evicted Entry, loaded Entry)
	TranslateFault(vaddr int, err error)
}

// Translator converts virtual addresses to physical addresses.
type Translator struct {
	PageSize  int       // Bytes per page; must be positive.
	Frames    int       // Physical frame count; frames at or above it are bus errors. Zero disables the check.
	Tlb       *Tlb      // Translation cache, or nil for linear page table translation.
	PageTable PageTable // Page table of the current address space.
	Observer  Observer  // Optional event sink.
}

// Translate converts a virtual address to a physical address.
func (tr *Translator) Translate(vaddr int) (paddr int, err error) {
	entry, err := tr.resolve(vaddr)
	if err != nil {
		return
	}

	paddr = entry.PhysicalPage*tr.PageSize + vaddr%tr.PageSize
	return
}

// Access translates a 'size' byte access at vaddr. Unaligned accesses are
// address errors and writes to read-only pages fault. A successful access
// marks the translation cache entry used, and dirty if writing.
func (tr *Translator) Access(vaddr int, size int, writing bool) (paddr int, err error) {
	switch size {
	case 1, 2, 4:
	default:
		panic(ErrAccessSize)
	}

	if vaddr%size != 0 {
		err = tr.fault(vaddr, ErrAddress)
		return
	}

	entry, err := tr.resolve(vaddr)
	if err != nil {
		return
	}

	if writing && entry.ReadOnly {
		err = tr.fault(vaddr, ErrReadOnly)
		return
	}

	// Page table entries belong to the address space; only cache slots
	// track references.
	if tr.Tlb != nil {
		entry.Use = true
		if writing {
			entry.Dirty = true
		}
	}

	paddr = entry.PhysicalPage*tr.PageSize + vaddr%tr.PageSize
	return
}

// resolve returns the entry translating vaddr, refilling the cache on a miss.
func (tr *Translator) resolve(vaddr int) (entry *Entry, err error) {
	if tr.PageSize <= 0 {
		panic(ErrPageSize)
	}

	if vaddr < 0 {
		err = tr.fault(vaddr, ErrAddress)
		return
	}

	vpn := vaddr / tr.PageSize

	if tr.Tlb == nil {
		entry, err = tr.PageTable.lookup(vpn)
	} else {
		entry, err = tr.cached(vpn)
	}
	if err != nil {
		err = tr.fault(vaddr, err)
		return
	}

	if tr.Frames > 0 && entry.PhysicalPage >= tr.Frames {
		entry = nil
		err = tr.fault(vaddr, ErrBus)
	}

	return
}

func (tr *Translator) cached(vpn int) (entry *Entry, err error) {
	tlb := tr.Tlb

	slot, ok := tlb.Lookup(vpn)
	if ok {
		entry = &tlb.Entries[slot]
		if tr.Observer != nil {
			tr.Observer.TlbHit(slot, *entry)
		}
		return
	}

	slot, evicted, err := tlb.Refill(vpn, tr.PageTable)
	if err != nil {
		return
	}

	entry = &tlb.Entries[slot]
	if tr.Observer != nil {
		tr.Observer.TlbRefill(slot, evicted, *entry)
	}
	return
}

func (tr *Translator) fault(vaddr int, reason error) (err error) {
	err = &ErrFault{Address: vaddr, Err: reason}
	if tr.Observer != nil {
		tr.Observer.TranslateFault(vaddr, err)
	}
	return
}
