// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package trace

import (
	"database/sql"
	"errors"
	"log"
	"os"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"

	"github.com/rs/xid"
	"github.com/tebeka/atexit"

	"github.com/ezrec/umips/machine"
	"github.com/ezrec/umips/mmu"
)

const (
	BATCH_SIZE = 4096 // Events buffered before a flush.
)

var _trace_schema = []string{
	`CREATE TABLE translation
	(
		machine_id  VARCHAR(32) NOT NULL,
		seq         INTEGER     NOT NULL,
		event       VARCHAR(16) NOT NULL,
		slot        INTEGER     NULL,
		vpn         INTEGER     NULL,
		ppn         INTEGER     NULL,
		evicted_vpn INTEGER     NULL,
		vaddr       INTEGER     NULL,
		reason      TEXT        NULL
	);`,
	`CREATE INDEX translation_event_index ON translation (event);`,
	`CREATE TABLE frame
	(
		machine_id VARCHAR(32)  NOT NULL,
		seq        INTEGER      NOT NULL,
		event      VARCHAR(16)  NOT NULL,
		owner      VARCHAR(200) NULL,
		frame      INTEGER      NULL
	);`,
	`CREATE TABLE trap
	(
		machine_id VARCHAR(32) NOT NULL,
		seq        INTEGER     NOT NULL,
		kind       VARCHAR(32) NOT NULL,
		bad_vaddr  INTEGER     NOT NULL
	);`,
	`CREATE INDEX trap_kind_index ON trap (kind);`,
}

const (
	_insert_translation = `INSERT INTO translation
		(machine_id, seq, event, slot, vpn, ppn, evicted_vpn, vaddr, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_insert_frame = `INSERT INTO frame (machine_id, seq, event, owner, frame) VALUES (?, ?, ?, ?, ?)`
	_insert_trap  = `INSERT INTO trap (machine_id, seq, kind, bad_vaddr) VALUES (?, ?, ?, ?)`
)

type translationEvent struct {
	seq        int
	event      string
	slot       sql.NullInt64
	vpn        sql.NullInt64
	ppn        sql.NullInt64
	evictedVpn sql.NullInt64
	vaddr      sql.NullInt64
	reason     sql.NullString
}

type frameEvent struct {
	seq   int
	event string
	owner sql.NullString
	frame sql.NullInt64
}

type trapEvent struct {
	seq      int
	kind     string
	badVAddr int
}

// Recorder is a sink that batches events into a SQLite database.
// Buffered events are flushed when a batch fills, on Flush and Close, and
// when the program exits through atexit.
type Recorder struct {
	*sql.DB

	MachineID string // Machine the events belong to.
	BatchSize int    // Events buffered before a flush.

	dbName       string
	seq          int
	translations []translationEvent
	frames       []frameEvent
	traps        []trapEvent
	closed       bool
}

var _ Sink = (*Recorder)(nil)

// NewRecorder creates the database 'path'.sqlite3 for the events of
// 'machineID'. An empty path picks a unique name. Existing databases are
// never overwritten.
func NewRecorder(path string, machineID string) (r *Recorder, err error) {
	if path == "" {
		path = "umips_trace_" + xid.New().String()
	}

	name := path + ".sqlite3"
	_, err = os.Stat(name)
	if err == nil {
		err = &ErrDatabase{Name: name, Err: ErrTraceExists}
		return
	}

	db, err := sql.Open("sqlite3", name)
	if err != nil {
		err = &ErrDatabase{Name: name, Err: err}
		return
	}
	db.SetMaxOpenConns(1)

	for _, query := range _trace_schema {
		_, err = db.Exec(query)
		if err != nil {
			db.Close()
			err = &ErrDatabase{Name: name, Err: err}
			return
		}
	}

	r = &Recorder{
		DB:        db,
		MachineID: machineID,
		BatchSize: BATCH_SIZE,
		dbName:    name,
	}

	atexit.Register(func() {
		err := r.Close()
		if err != nil {
			log.Printf("trace: %v", err)
		}
	})

	return
}

// Name returns the database file name.
func (r *Recorder) Name() string {
	return r.dbName
}

func (r *Recorder) next() (seq int) {
	seq = r.seq
	r.seq++
	return
}

func (r *Recorder) buffered() int {
	return len(r.translations) + len(r.frames) + len(r.traps)
}

func (r *Recorder) check() {
	if r.buffered() < r.BatchSize {
		return
	}

	err := r.Flush()
	if err != nil {
		log.Printf("trace: %v", err)
	}
}

func nullInt(value int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(value), Valid: true}
}

func (r *Recorder) TlbHit(slot int, entry mmu.Entry) {
	r.translations = append(r.translations, translationEvent{
		seq:   r.next(),
		event: "hit",
		slot:  nullInt(slot),
		vpn:   nullInt(entry.VirtualPage),
		ppn:   nullInt(entry.PhysicalPage),
	})
	r.check()
}

func (r *Recorder) TlbRefill(slot int, evicted mmu.Entry, loaded mmu.Entry) {
	event := translationEvent{
		seq:   r.next(),
		event: "refill",
		slot:  nullInt(slot),
		vpn:   nullInt(loaded.VirtualPage),
		ppn:   nullInt(loaded.PhysicalPage),
	}
	if evicted.Valid {
		event.evictedVpn = nullInt(evicted.VirtualPage)
	}
	r.translations = append(r.translations, event)
	r.check()
}

func (r *Recorder) TranslateFault(vaddr int, err error) {
	reason := err
	var fault *mmu.ErrFault
	if errors.As(err, &fault) {
		reason = fault.Err
	}

	r.translations = append(r.translations, translationEvent{
		seq:    r.next(),
		event:  "fault",
		vaddr:  nullInt(vaddr),
		reason: sql.NullString{String: reason.Error(), Valid: true},
	})
	r.check()
}

func (r *Recorder) FrameAllocated(frame int) {
	r.frames = append(r.frames, frameEvent{
		seq:   r.next(),
		event: "allocate",
		frame: nullInt(frame),
	})
	r.check()
}

func (r *Recorder) FrameFreed(owner string, frame int) {
	r.frames = append(r.frames, frameEvent{
		seq:   r.next(),
		event: "free",
		owner: sql.NullString{String: owner, Valid: owner != ""},
		frame: nullInt(frame),
	})
	r.check()
}

func (r *Recorder) FramesExhausted() {
	r.frames = append(r.frames, frameEvent{
		seq:   r.next(),
		event: "exhausted",
	})
	r.check()
}

func (r *Recorder) Trap(kind machine.TrapKind, badVAddr int) {
	r.traps = append(r.traps, trapEvent{
		seq:      r.next(),
		kind:     kind.String(),
		badVAddr: badVAddr,
	})
	r.check()
}

// Flush writes all the buffered events to the database, in one transaction.
func (r *Recorder) Flush() (err error) {
	if r.closed || r.buffered() == 0 {
		return
	}

	defer func() {
		if err != nil {
			err = &ErrDatabase{Name: r.dbName, Err: err}
		}
	}()

	tx, err := r.Begin()
	if err != nil {
		return
	}

	err = r.insert(tx)
	if err != nil {
		tx.Rollback()
		return
	}

	err = tx.Commit()
	if err != nil {
		return
	}

	r.translations = nil
	r.frames = nil
	r.traps = nil

	return
}

func (r *Recorder) insert(tx *sql.Tx) (err error) {
	for _, event := range r.translations {
		_, err = tx.Exec(_insert_translation, r.MachineID, event.seq, event.event,
			event.slot, event.vpn, event.ppn, event.evictedVpn, event.vaddr, event.reason)
		if err != nil {
			return
		}
	}

	for _, event := range r.frames {
		_, err = tx.Exec(_insert_frame, r.MachineID, event.seq, event.event, event.owner, event.frame)
		if err != nil {
			return
		}
	}

	for _, event := range r.traps {
		_, err = tx.Exec(_insert_trap, r.MachineID, event.seq, event.kind, event.badVAddr)
		if err != nil {
			return
		}
	}

	return
}

// Close flushes the buffered events and closes the database.
// Closing twice does nothing.
func (r *Recorder) Close() (err error) {
	if r.closed {
		return
	}

	err = r.Flush()
	if err != nil {
		return
	}

	r.closed = true
	err = r.DB.Close()

	return
}
