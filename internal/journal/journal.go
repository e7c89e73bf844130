package journal

import (
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"worldforge/internal/chunk"
)

type RecordKind string

const (
	KindChunkCompleted RecordKind = "chunk_completed"
	KindChunkEvicted   RecordKind = "chunk_evicted"
	KindChunkDisposed  RecordKind = "chunk_disposed"
	KindEventApplied   RecordKind = "event_applied"
)

// Record is one journal line.
type Record struct {
	Time     time.Time         `json:"time"`
	Kind     RecordKind        `json:"kind"`
	Coord    *chunk.Coord      `json:"coord,omitempty"`
	Cached   bool              `json:"cached,omitempty"`
	Summary  *chunk.Summary    `json:"summary,omitempty"`
	Event    *chunk.WorldEvent `json:"event,omitempty"`
	Affected []chunk.Coord     `json:"affected,omitempty"`
}

// Journal records chunk lifecycle notifications. It satisfies
// world.Listener; write failures are logged and counted, never returned to
// the manager.
type Journal struct {
	w      *Writer
	log    *slog.Logger
	now    func() time.Time
	failed atomic.Uint64
}

// Open returns a journal writing hourly files under dir.
func Open(dir string, log *slog.Logger) *Journal {
	return newJournal(NewWriter(filepath.Join(dir, "journal"), "world", nil), log, time.Now)
}

func newJournal(w *Writer, log *slog.Logger, now func() time.Time) *Journal {
	if log == nil {
		log = slog.Default()
	}
	return &Journal{w: w, log: log, now: now}
}

func (j *Journal) ChunkCompleted(s chunk.Summary) {
	coord := s.Coord
	j.write(Record{Kind: KindChunkCompleted, Coord: &coord, Summary: &s})
}

func (j *Journal) ChunkEvicted(coord chunk.Coord, cached bool) {
	j.write(Record{Kind: KindChunkEvicted, Coord: &coord, Cached: cached})
}

func (j *Journal) ChunkDisposed(coord chunk.Coord) {
	j.write(Record{Kind: KindChunkDisposed, Coord: &coord})
}

func (j *Journal) EventApplied(e chunk.WorldEvent, affected []chunk.Coord) {
	j.write(Record{Kind: KindEventApplied, Event: &e, Affected: affected})
}

func (j *Journal) write(r Record) {
	r.Time = j.now().UTC()
	if err := j.w.Write(r); err != nil {
		if j.failed.Add(1) == 1 {
			j.log.Warn("journal write failed", "kind", r.Kind, "err", err)
		}
	}
}

// Failed returns the number of records that could not be written.
func (j *Journal) Failed() uint64 {
	return j.failed.Load()
}

func (j *Journal) Flush() error {
	return j.w.Flush()
}

func (j *Journal) Close() error {
	return j.w.Close()
}
