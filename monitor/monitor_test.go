package monitor

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ezrec/umips/cpu"
	"github.com/ezrec/umips/machine"
	"github.com/ezrec/umips/mmu"
)

type idleKernel struct{}

func (idleKernel) HandleTrap(machine.TrapKind) {}

var _ = Describe("Monitor", func() {
	var (
		m   *machine.Machine
		mon *Monitor
	)

	BeforeEach(func() {
		var err error

		m, err = machine.NewMachine(machine.DefaultConfig(), &machine.Status{}, idleKernel{})
		Expect(err).NotTo(HaveOccurred())

		table := mmu.NewPageTable(4)
		table.Map(1, 5, true)
		Expect(m.Frames.Reserve(5)).To(BeTrue())
		m.SwitchAddressSpace(table)
		_, ok := m.Translate(m.Config.PageSize + 3)
		Expect(ok).To(BeTrue())

		m.Registers.Write(cpu.STACK_REG, 0x7f0)

		mon = NewMonitor(m)
		mon.ProfileDuration = 10 * time.Millisecond
	})

	get := func(path string) (rec *httptest.ResponseRecorder) {
		rec = httptest.NewRecorder()
		mon.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return
	}

	decode := func(rec *httptest.ResponseRecorder, value any) {
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(json.Unmarshal(rec.Body.Bytes(), value)).To(Succeed())
	}

	It("should list the configuration", func() {
		var rsp configRsp
		decode(get("/api/config"), &rsp)

		Expect(rsp.ID).To(Equal(m.ID))
		Expect(rsp.PageSize).To(Equal(machine.PAGE_SIZE))
		Expect(rsp.Policy).To(Equal("fifo"))
		Expect(rsp.Mode).To(Equal("user"))
	})

	It("should list the registers", func() {
		var rsp []registerRsp
		decode(get("/api/registers"), &rsp)

		Expect(rsp).To(HaveLen(cpu.NUM_TOTAL_REGS))
		Expect(rsp[cpu.STACK_REG]).To(Equal(registerRsp{Index: cpu.STACK_REG, Name: "sp", Value: 0x7f0}))
		Expect(rsp[cpu.BAD_VADDR_REG].Name).To(Equal("badvaddr"))
	})

	It("should read one register by name or number", func() {
		var rsp registerRsp
		decode(get("/api/register/sp"), &rsp)
		Expect(rsp.Value).To(Equal(int32(0x7f0)))

		decode(get("/api/register/29"), &rsp)
		Expect(rsp.Name).To(Equal("sp"))

		Expect(get("/api/register/40").Code).To(Equal(http.StatusNotFound))
		Expect(get("/api/register/zz").Code).To(Equal(http.StatusNotFound))
	})

	It("should list the translation cache", func() {
		var rsp []entryRsp
		decode(get("/api/tlb"), &rsp)

		Expect(rsp).To(HaveLen(machine.TLB_SIZE))
		Expect(rsp[0]).To(Equal(entryRsp{Slot: 0, VirtualPage: 1, PhysicalPage: 5, Valid: true, ReadOnly: true}))
		Expect(rsp[1].Valid).To(BeFalse())
	})

	It("should report a missing translation cache", func() {
		m.Mmu.Tlb = nil
		Expect(get("/api/tlb").Code).To(Equal(http.StatusNotFound))
	})

	It("should list the valid page table entries", func() {
		var rsp []entryRsp
		decode(get("/api/pagetable"), &rsp)

		Expect(rsp).To(HaveLen(1))
		Expect(rsp[0].Slot).To(Equal(1))
		Expect(rsp[0].PhysicalPage).To(Equal(5))
	})

	It("should list the frames", func() {
		var rsp framesRsp
		decode(get("/api/frames"), &rsp)

		Expect(rsp).To(Equal(framesRsp{Total: machine.NUM_PHYS_PAGES, Free: machine.NUM_PHYS_PAGES - 1, Allocated: []int{5}}))
	})

	It("should serialize the machine", func() {
		rec := get("/api/machine")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.Len()).NotTo(BeZero())
	})

	It("should report process resources", func() {
		var rsp resourceRsp
		decode(get("/api/resource"), &rsp)
		Expect(rsp.MemorySize).NotTo(BeZero())
	})

	It("should collect a profile", func() {
		rec := get("/api/profile")
		Expect(rec.Code).To(Equal(http.StatusOK))
	})

	It("should reject a reserved port", func() {
		Expect(mon.WithPortNumber(80).portNumber).To(Equal(0))
		Expect(mon.WithPortNumber(8080).portNumber).To(Equal(8080))
	})

	It("should serve until closed", func() {
		url, err := mon.WithPortNumber(0).StartServer()
		Expect(err).NotTo(HaveOccurred())

		rsp, err := http.Get(url + "/api/frames")
		Expect(err).NotTo(HaveOccurred())
		body, err := io.ReadAll(rsp.Body)
		rsp.Body.Close()
		Expect(err).NotTo(HaveOccurred())
		Expect(string(body)).To(ContainSubstring(`"allocated":[5]`))

		Expect(mon.Close()).To(Succeed())
		Expect(mon.Close()).To(Succeed())
	})
})
