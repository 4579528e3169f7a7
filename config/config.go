// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package config loads machine descriptions written in Starlark.
//
// A description sets any of these globals; unset globals keep the
// machine.DefaultConfig values:
//
//	page_size   = PAGE_SIZE      # bytes per page
//	phys_pages  = 64             # physical frames
//	tlb_size    = 4              # translation cache slots, 0 for linear
//	policy      = LRU            # FIFO, LRU, or "fifo" / "lru"
//	reuse_frame = False          # LRU refills keep the victim's frame
//	page_table  = [3, None, 7]   # frame of each virtual page, None if unmapped
//	read_only   = [0]            # virtual pages that fault on write
//
// All machine, register and policy constants are predeclared.
package config

import (
	"io"
	"log"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/umips/machine"
	"github.com/ezrec/umips/mmu"
)

// Description is a loaded machine description.
type Description struct {
	Name      string         // Source file name.
	Config    machine.Config // Machine hardware.
	PageTable mmu.PageTable  // Initial address space, nil if none.
}

// Load evaluates a Starlark machine description.
func Load(name string, src io.Reader) (desc *Description, err error) {
	thread := starlark.Thread{
		Name: name,
		Print: func(_ *starlark.Thread, msg string) {
			log.Printf("%v: %v", name, msg)
		},
	}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, value := range machine.Defines() {
		pred[key] = starlark.MakeInt(value)
	}

	globals, err := starlark.ExecFileOptions(&opts, &thread, name, src, pred)
	if err != nil {
		return
	}

	loaded := &Description{
		Name:   name,
		Config: machine.DefaultConfig(),
	}
	cfg := &loaded.Config

	ints := [](struct {
		key   string
		value *int
	}){
		{"page_size", &cfg.PageSize},
		{"phys_pages", &cfg.NumPhysPages},
		{"tlb_size", &cfg.TlbSize},
	}
	for _, entry := range ints {
		err = getInt(globals, entry.key, entry.value)
		if err != nil {
			return
		}
	}

	err = getPolicy(globals, "policy", &cfg.Policy)
	if err != nil {
		return
	}

	if value, ok := globals["reuse_frame"]; ok {
		cfg.ReuseFrame = bool(value.Truth())
	}

	err = cfg.Validate()
	if err != nil {
		return
	}

	loaded.PageTable, err = getPageTable(globals)
	if err != nil {
		return
	}

	desc = loaded
	return
}

func badKey(key string, value starlark.Value, reason error) error {
	return &ErrKey{Key: key, Value: value.String(), Err: reason}
}

func getInt(globals starlark.StringDict, key string, out *int) (err error) {
	value, ok := globals[key]
	if !ok {
		return
	}

	n, err := starlark.AsInt32(value)
	if err != nil {
		err = badKey(key, value, ErrValueType)
		return
	}

	*out = n
	return
}

func getPolicy(globals starlark.StringDict, key string, out *mmu.Policy) (err error) {
	value, ok := globals[key]
	if !ok {
		return
	}

	switch value := value.(type) {
	case starlark.String:
		var policy mmu.Policy
		policy, err = mmu.ParsePolicy(string(value))
		if err != nil {
			err = badKey(key, value, err)
			return
		}
		*out = policy
	case starlark.Int:
		n, ok := value.Int64()
		if !ok {
			err = badKey(key, value, ErrValueRange)
			return
		}
		*out = mmu.Policy(n)
	default:
		err = badKey(key, value, ErrValueType)
	}

	return
}

func getPageTable(globals starlark.StringDict) (table mmu.PageTable, err error) {
	value, ok := globals["page_table"]
	if !ok || value == starlark.None {
		return
	}

	frames, ok := value.(starlark.Indexable)
	if !ok {
		err = badKey("page_table", value, ErrValueType)
		return
	}

	table = mmu.NewPageTable(frames.Len())
	for vpn := range frames.Len() {
		elem := frames.Index(vpn)
		if elem == starlark.None {
			continue
		}
		frame, terr := starlark.AsInt32(elem)
		if terr != nil {
			err = badKey("page_table", elem, ErrValueType)
			return
		}
		if frame < 0 {
			err = badKey("page_table", elem, ErrValueRange)
			return
		}
		table.Map(vpn, frame, false)
	}

	value, ok = globals["read_only"]
	if !ok || value == starlark.None {
		return
	}

	pages, ok := value.(starlark.Indexable)
	if !ok {
		err = badKey("read_only", value, ErrValueType)
		return
	}

	for n := range pages.Len() {
		elem := pages.Index(n)
		vpn, terr := starlark.AsInt32(elem)
		if terr != nil {
			err = badKey("read_only", elem, ErrValueType)
			return
		}
		if vpn < 0 || vpn >= len(table) || !table[vpn].Valid {
			err = badKey("read_only", elem, ErrValueRange)
			return
		}
		table[vpn].ReadOnly = true
	}

	return
}

// Install reserves the frames of the description's page table on a machine
// and makes it the current address space. On failure no frame is reserved.
func (desc *Description) Install(m *machine.Machine) (err error) {
	var reserved []int
	defer func() {
		if err != nil {
			for _, frame := range reserved {
				m.Frames.Free(frame)
			}
		}
	}()

	for vpn, entry := range desc.PageTable {
		if !entry.Valid {
			continue
		}
		if entry.PhysicalPage >= m.Frames.Len() {
			err = &ErrMapping{Page: vpn, Frame: entry.PhysicalPage, Err: ErrValueRange}
			return
		}
		if !m.Frames.Reserve(entry.PhysicalPage) {
			err = &ErrMapping{Page: vpn, Frame: entry.PhysicalPage, Err: ErrFrameShared}
			return
		}
		reserved = append(reserved, entry.PhysicalPage)
	}

	m.SwitchAddressSpace(desc.PageTable)

	return
}
