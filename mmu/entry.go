package mmu

import (
	"fmt"
	"strings"
)

// Entry is one page-sized virtual to physical mapping, used both in page
// tables and in translation cache slots.
type Entry struct {
	VirtualPage  int  // Virtual page number.
	PhysicalPage int  // Physical frame number.
	Valid        bool // Mapping may be used.
	ReadOnly     bool // Writes fault.
	Use          bool // Referenced since loaded.
	Dirty        bool // Written since loaded.
	Hits         int  // Translation cache hits since loaded.
}

func (e Entry) String() string {
	flags := []byte("----")
	if e.Valid {
		flags[0] = 'v'
	}
	if e.ReadOnly {
		flags[1] = 'r'
	}
	if e.Use {
		flags[2] = 'u'
	}
	if e.Dirty {
		flags[3] = 'd'
	}
	return fmt.Sprintf("vpn %4d -> ppn %4d %s hits %d", e.VirtualPage, e.PhysicalPage, flags, e.Hits)
}

// PageTable is a linear page table, indexed by virtual page number.
// It is owned by an address space; translation only reads it.
type PageTable []Entry

// NewPageTable creates a page table for 'pages' virtual pages, all invalid.
func NewPageTable(pages int) (table PageTable) {
	table = make(PageTable, pages)
	for vpn := range table {
		table[vpn].VirtualPage = vpn
	}
	return
}

// Map sets a valid mapping of a virtual page to a physical frame.
func (table PageTable) Map(vpn int, frame int, readOnly bool) {
	table[vpn] = Entry{
		VirtualPage:  vpn,
		PhysicalPage: frame,
		Valid:        true,
		ReadOnly:     readOnly,
	}
}

// lookup returns the valid entry for vpn.
func (table PageTable) lookup(vpn int) (entry *Entry, err error) {
	if vpn < 0 || vpn >= len(table) {
		err = ErrPageFault
		return
	}

	entry = &table[vpn]
	if !entry.Valid {
		entry = nil
		err = ErrPageFault
	}
	return
}

func (table PageTable) String() string {
	var sb strings.Builder
	for _, entry := range table {
		if entry.Valid {
			fmt.Fprintf(&sb, "%v\n", entry)
		}
	}
	return sb.String()
}
