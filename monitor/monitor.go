// Package monitor serves read-only HTTP views of a running machine.
package monitor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/ezrec/umips/cpu"
	"github.com/ezrec/umips/machine"
	"github.com/ezrec/umips/mmu"
)

// Monitor turns a machine into a server for external inspection.
//
// Handlers hold the monitor's lock while reading the machine. A driver
// stepping the machine from another goroutine must hold it too.
type Monitor struct {
	sync.Mutex

	ProfileDuration time.Duration // CPU profile length of /api/profile.

	machine    *machine.Machine
	portNumber int
	listener   net.Listener
}

// NewMonitor creates a new Monitor of a machine.
func NewMonitor(m *machine.Machine) *Monitor {
	return &Monitor{
		ProfileDuration: time.Second,
		machine:         m,
	}
}

// WithPortNumber sets the port number of the monitor.
func (mon *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	mon.portNumber = portNumber

	return mon
}

// Router returns the monitor's routes.
func (mon *Monitor) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/machine", mon.serializeMachine)
	r.HandleFunc("/api/config", mon.listConfig)
	r.HandleFunc("/api/registers", mon.listRegisters)
	r.HandleFunc("/api/register/{name}", mon.readRegister)
	r.HandleFunc("/api/tlb", mon.listTlb)
	r.HandleFunc("/api/pagetable", mon.listPageTable)
	r.HandleFunc("/api/frames", mon.listFrames)
	r.HandleFunc("/api/resource", mon.listResources)
	r.HandleFunc("/api/profile", mon.collectProfile)

	return r
}

// StartServer listens on the monitor's port, and serves in the background.
// It returns the URL of the server.
func (mon *Monitor) StartServer() (url string, err error) {
	listener, err := net.Listen("tcp", ":"+strconv.Itoa(mon.portNumber))
	if err != nil {
		return
	}

	mon.Lock()
	mon.listener = listener
	mon.Unlock()

	url = fmt.Sprintf("http://localhost:%d", listener.Addr().(*net.TCPAddr).Port)

	router := mon.Router()
	go func() {
		err := http.Serve(listener, router)
		if err != nil && !mon.closed() {
			log.Printf("monitor: %v", err)
		}
	}()

	return
}

func (mon *Monitor) closed() bool {
	mon.Lock()
	defer mon.Unlock()
	return mon.listener == nil
}

// Close stops the server.
func (mon *Monitor) Close() (err error) {
	mon.Lock()
	listener := mon.listener
	mon.listener = nil
	mon.Unlock()

	if listener != nil {
		err = listener.Close()
	}

	return
}

func writeJSON(w http.ResponseWriter, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(data)
	if err != nil {
		log.Printf("monitor: %v", err)
	}
}

func (mon *Monitor) serializeMachine(w http.ResponseWriter, _ *http.Request) {
	mon.Lock()
	defer mon.Unlock()

	serializer := goseth.NewSerializer()
	serializer.SetRoot(mon.machine)
	serializer.SetMaxDepth(1)
	err := serializer.Serialize(w)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

type configRsp struct {
	ID           string `json:"id"`
	PageSize     int    `json:"page_size"`
	NumPhysPages int    `json:"phys_pages"`
	TlbSize      int    `json:"tlb_size"`
	Policy       string `json:"policy"`
	ReuseFrame   bool   `json:"reuse_frame"`
	Mode         string `json:"mode"`
}

func (mon *Monitor) listConfig(w http.ResponseWriter, _ *http.Request) {
	mon.Lock()
	defer mon.Unlock()

	m := mon.machine
	writeJSON(w, configRsp{
		ID:           m.ID,
		PageSize:     m.Config.PageSize,
		NumPhysPages: m.Config.NumPhysPages,
		TlbSize:      m.Config.TlbSize,
		Policy:       m.Config.Policy.String(),
		ReuseFrame:   m.Config.ReuseFrame,
		Mode:         m.Mode.Status().String(),
	})
}

type registerRsp struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Value int32  `json:"value"`
}

func (mon *Monitor) listRegisters(w http.ResponseWriter, _ *http.Request) {
	mon.Lock()
	defer mon.Unlock()

	rsp := make([]registerRsp, cpu.NUM_TOTAL_REGS)
	for n := range cpu.NUM_TOTAL_REGS {
		rsp[n] = registerRsp{Index: n, Name: cpu.Name(n), Value: mon.machine.Registers.Read(n)}
	}

	writeJSON(w, rsp)
}

func (mon *Monitor) readRegister(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	index, ok := registerIndex(name)
	if !ok {
		http.NotFound(w, r)
		return
	}

	mon.Lock()
	defer mon.Unlock()

	writeJSON(w, registerRsp{Index: index, Name: cpu.Name(index), Value: mon.machine.Registers.Read(index)})
}

// registerIndex accepts a register number or a register name.
func registerIndex(name string) (index int, ok bool) {
	index, err := strconv.Atoi(name)
	if err == nil {
		ok = index >= 0 && index < cpu.NUM_TOTAL_REGS
		return
	}

	for n := range cpu.NUM_TOTAL_REGS {
		if cpu.Name(n) == name {
			index = n
			ok = true
			return
		}
	}

	return
}

type entryRsp struct {
	Slot         int  `json:"slot"`
	VirtualPage  int  `json:"vpn"`
	PhysicalPage int  `json:"ppn"`
	Valid        bool `json:"valid"`
	ReadOnly     bool `json:"read_only"`
	Use          bool `json:"use"`
	Dirty        bool `json:"dirty"`
	Hits         int  `json:"hits"`
}

func newEntryRsp(slot int, entry mmu.Entry) entryRsp {
	return entryRsp{
		Slot:         slot,
		VirtualPage:  entry.VirtualPage,
		PhysicalPage: entry.PhysicalPage,
		Valid:        entry.Valid,
		ReadOnly:     entry.ReadOnly,
		Use:          entry.Use,
		Dirty:        entry.Dirty,
		Hits:         entry.Hits,
	}
}

func (mon *Monitor) listTlb(w http.ResponseWriter, r *http.Request) {
	mon.Lock()
	defer mon.Unlock()

	tlb := mon.machine.Mmu.Tlb
	if tlb == nil {
		http.NotFound(w, r)
		return
	}

	rsp := make([]entryRsp, len(tlb.Entries))
	for n, entry := range tlb.Entries {
		rsp[n] = newEntryRsp(n, entry)
	}

	writeJSON(w, rsp)
}

func (mon *Monitor) listPageTable(w http.ResponseWriter, _ *http.Request) {
	mon.Lock()
	defer mon.Unlock()

	rsp := []entryRsp{}
	for n, entry := range mon.machine.Mmu.PageTable {
		if entry.Valid {
			rsp = append(rsp, newEntryRsp(n, entry))
		}
	}

	writeJSON(w, rsp)
}

type framesRsp struct {
	Total     int   `json:"total"`
	Free      int   `json:"free"`
	Allocated []int `json:"allocated"`
}

func (mon *Monitor) listFrames(w http.ResponseWriter, _ *http.Request) {
	mon.Lock()
	defer mon.Unlock()

	frames := mon.machine.Frames
	rsp := framesRsp{
		Total:     frames.Len(),
		Free:      frames.NumFree(),
		Allocated: []int{},
	}
	for frame := range frames.Allocated() {
		rsp.Allocated = append(rsp.Allocated, frame)
	}

	writeJSON(w, rsp)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (mon *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	cpuPercent, err := proc.CPUPercent()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	memorySize, err := proc.MemoryInfo()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	})
}

func (mon *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	time.Sleep(mon.ProfileDuration)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, prof)
}
