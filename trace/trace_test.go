package trace

import (
	"bytes"
	"errors"
	"log"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gomock "go.uber.org/mock/gomock"

	"github.com/ezrec/umips/machine"
	"github.com/ezrec/umips/mmu"
)

func newTraceMachine() (m *machine.Machine) {
	cfg := machine.DefaultConfig()
	cfg.NumPhysPages = 2
	cfg.TlbSize = 2

	m, err := machine.NewMachine(cfg, &machine.Status{}, machine.HandlerFunc(func(machine.TrapKind) {}))
	Expect(err).NotTo(HaveOccurred())
	m.ID = "m"

	return
}

// exercise runs one of every event through the machine.
func exercise(m *machine.Machine) {
	table := mmu.NewPageTable(2)
	for vpn := range 2 {
		frame, err := m.Frames.Allocate()
		Expect(err).NotTo(HaveOccurred())
		table.Map(vpn, frame, false)
	}
	_, err := m.Frames.Allocate()
	Expect(err).To(HaveOccurred())

	m.SwitchAddressSpace(table)

	_, ok := m.Translate(5)
	Expect(ok).To(BeTrue())
	_, ok = m.Translate(6)
	Expect(ok).To(BeTrue())
	_, ok = m.Translate(300)
	Expect(ok).To(BeFalse())

	Expect(m.ReleaseAddressSpace(table)).To(Equal(2))
}

var _ = Describe("Logger", func() {
	var (
		m   *machine.Machine
		out *bytes.Buffer
	)

	BeforeEach(func() {
		m = newTraceMachine()
		out = &bytes.Buffer{}
		Attach(m, &Logger{Name: m.ID, Log: log.New(out, "", 0)})
	})

	It("should log every event in order", func() {
		exercise(m)

		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		Expect(lines).To(HaveLen(9))
		Expect(lines[0]).To(Equal("m: frame 0 allocated"))
		Expect(lines[1]).To(Equal("m: frame 1 allocated"))
		Expect(lines[2]).To(Equal("m: frames exhausted"))
		Expect(lines[3]).To(Equal("m: tlb[0] refill vpn    0 -> ppn    0 v--- hits 0"))
		Expect(lines[4]).To(Equal("m: tlb[0] hit vpn    0 -> ppn    0 v--- hits 1"))
		Expect(lines[5]).To(Equal("m: fault vaddr 0x12c: page fault"))
		Expect(lines[6]).To(Equal("m: trap page fault/no TLB entry at 0x12c"))
		Expect(lines[7]).To(Equal("m: frame 0 freed"))
		Expect(lines[8]).To(Equal("m: frame 1 freed"))
	})

	It("should report evictions", func() {
		table := mmu.NewPageTable(3)
		for vpn := range 3 {
			table.Map(vpn, 0, false)
		}
		m.SwitchAddressSpace(table)

		for vpn := range 3 {
			_, ok := m.Translate(vpn * m.Config.PageSize)
			Expect(ok).To(BeTrue())
		}

		Expect(out.String()).To(ContainSubstring(
			"m: tlb[1] refill vpn    2 -> ppn    0 v--- hits 0, evicted vpn    0 -> ppn    0 v--- hits 0"))
	})

	It("should stop logging when detached", func() {
		Attach(m, nil)
		exercise(m)
		Expect(out.String()).To(BeEmpty())
	})
})

var _ = Describe("Tee", func() {
	var (
		ctrl  *gomock.Controller
		first *MockSink
		other *MockSink
		m     *machine.Machine
	)

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
		first = NewMockSink(ctrl)
		other = NewMockSink(ctrl)
		m = newTraceMachine()
		Attach(m, Tee{first, other})
	})

	It("should send each event to every sink", func() {
		loaded := mmu.Entry{VirtualPage: 0, PhysicalPage: 1, Valid: true}

		gomock.InOrder(
			first.EXPECT().FrameAllocated(1),
			other.EXPECT().FrameAllocated(1),
			first.EXPECT().TlbRefill(0, mmu.Entry{}, loaded),
			other.EXPECT().TlbRefill(0, mmu.Entry{}, loaded),
			first.EXPECT().TranslateFault(2*machine.PAGE_SIZE, gomock.Any()),
			other.EXPECT().TranslateFault(2*machine.PAGE_SIZE, gomock.Any()),
			first.EXPECT().Trap(machine.TRAP_PAGE_FAULT, 2*machine.PAGE_SIZE),
			other.EXPECT().Trap(machine.TRAP_PAGE_FAULT, 2*machine.PAGE_SIZE),
			first.EXPECT().FrameFreed("", 1),
			other.EXPECT().FrameFreed("", 1),
		)

		Expect(m.Frames.Reserve(1)).To(BeTrue())
		table := mmu.NewPageTable(1)
		table.Map(0, 1, false)
		m.SwitchAddressSpace(table)

		_, ok := m.Translate(0)
		Expect(ok).To(BeTrue())
		_, ok = m.Translate(2 * machine.PAGE_SIZE)
		Expect(ok).To(BeFalse())

		m.ReleaseAddressSpace(table)
	})
})

var _ = Describe("Recorder", func() {
	var (
		m    *machine.Machine
		path string
		r    *Recorder
	)

	BeforeEach(func() {
		var err error

		m = newTraceMachine()
		path = filepath.Join(GinkgoT().TempDir(), "trace")
		r, err = NewRecorder(path, m.ID)
		Expect(err).NotTo(HaveOccurred())
		Attach(m, r)
	})

	AfterEach(func() {
		Expect(r.Close()).To(Succeed())
	})

	count := func(query string, args ...any) (n int) {
		Expect(r.QueryRow(query, args...).Scan(&n)).To(Succeed())
		return
	}

	It("should name the database after the path", func() {
		Expect(r.Name()).To(Equal(path + ".sqlite3"))
	})

	It("should refuse an existing database", func() {
		_, err := NewRecorder(path, m.ID)
		Expect(errors.Is(err, ErrTraceExists)).To(BeTrue())
	})

	It("should buffer events until flushed", func() {
		exercise(m)

		Expect(count(`SELECT count(*) FROM translation`)).To(Equal(0))
		Expect(r.Flush()).To(Succeed())

		Expect(count(`SELECT count(*) FROM translation WHERE event = 'refill'`)).To(Equal(1))
		Expect(count(`SELECT count(*) FROM translation WHERE event = 'hit'`)).To(Equal(1))
		Expect(count(`SELECT count(*) FROM translation WHERE event = 'fault' AND vaddr = 300 AND reason = 'page fault'`)).To(Equal(1))
		Expect(count(`SELECT count(*) FROM frame WHERE event = 'allocate'`)).To(Equal(2))
		Expect(count(`SELECT count(*) FROM frame WHERE event = 'exhausted'`)).To(Equal(1))
		Expect(count(`SELECT count(*) FROM frame WHERE event = 'free' AND owner IS NULL`)).To(Equal(2))
		Expect(count(`SELECT seq FROM trap WHERE kind = ? AND bad_vaddr = 300`, machine.TRAP_PAGE_FAULT.String())).To(Equal(6))
		Expect(count(`SELECT count(*) FROM trap WHERE machine_id = 'm'`)).To(Equal(1))
	})

	It("should flush when a batch fills", func() {
		r.BatchSize = 2

		Expect(m.Frames.Reserve(0)).To(BeTrue())
		Expect(r.buffered()).To(Equal(1))
		Expect(m.Frames.Reserve(1)).To(BeTrue())
		Expect(r.buffered()).To(Equal(0))

		Expect(count(`SELECT count(*) FROM frame`)).To(Equal(2))
	})

	It("should record evictions", func() {
		table := mmu.NewPageTable(3)
		for vpn := range 3 {
			table.Map(vpn, 1, false)
		}
		m.SwitchAddressSpace(table)

		for vpn := range 3 {
			_, ok := m.Translate(vpn * m.Config.PageSize)
			Expect(ok).To(BeTrue())
		}
		Expect(r.Flush()).To(Succeed())

		Expect(count(`SELECT slot FROM translation WHERE evicted_vpn = 0 AND vpn = 2`)).To(Equal(1))
	})

	It("should ignore events after close", func() {
		Expect(r.Close()).To(Succeed())
		Expect(r.Close()).To(Succeed())
		exercise(m)
		Expect(r.Flush()).To(Succeed())
	})
})
