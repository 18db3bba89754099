// Package ledger records the outcome of every write attempt in a generation
// run. Cleanup uses it to tell current artifacts from stale leftovers.
package ledger

import (
	"sort"

	"github.com/RoaringBitmap/roaring"

	"github.com/agentic-research/resgen/internal/resource"
)

// Outcome of one write attempt.
type Outcome int

const (
	// OutcomeNone is returned alongside an error. It is never recorded.
	OutcomeNone Outcome = iota
	OutcomeWritten
	OutcomeIdentical
	OutcomeProtected
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeWritten:
		return "written"
	case OutcomeIdentical:
		return "skipped-identical"
	case OutcomeProtected:
		return "skipped-protected"
	}
	return "unknown"
}

// ParseOutcome is the inverse of Outcome.String.
func ParseOutcome(s string) (Outcome, bool) {
	for _, o := range []Outcome{OutcomeWritten, OutcomeIdentical, OutcomeProtected} {
		if o.String() == s {
			return o, true
		}
	}
	return OutcomeNone, false
}

// Entry is immutable once recorded.
type Entry struct {
	Key     resource.Key
	Path    string // slash-separated, relative to the resource root
	Outcome Outcome
}

// Ledger is scoped to one run. Not safe for concurrent use; a run is
// single-threaded.
type Ledger struct {
	entries []Entry

	// Paths are interned to dense ids so membership per outcome is a bitmap.
	pathID    map[string]uint32
	idToPath  []string
	touched   *roaring.Bitmap
	byOutcome map[Outcome]*roaring.Bitmap
}

func New() *Ledger {
	return &Ledger{
		pathID:  make(map[string]uint32),
		touched: roaring.New(),
		byOutcome: map[Outcome]*roaring.Bitmap{
			OutcomeWritten:   roaring.New(),
			OutcomeIdentical: roaring.New(),
			OutcomeProtected: roaring.New(),
		},
	}
}

func (l *Ledger) intern(path string) uint32 {
	if id, ok := l.pathID[path]; ok {
		return id
	}
	id := uint32(len(l.idToPath))
	l.pathID[path] = id
	l.idToPath = append(l.idToPath, path)
	return id
}

// Record appends one entry.
func (l *Ledger) Record(e Entry) {
	id := l.intern(e.Path)
	l.entries = append(l.entries, e)
	l.touched.Add(id)
	if bm, ok := l.byOutcome[e.Outcome]; ok {
		bm.Add(id)
	}
}

// Entries returns a copy of all entries in record order.
func (l *Ledger) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *Ledger) Len() int {
	return len(l.entries)
}

// Contains reports whether any write attempt in this run targeted path,
// whatever its outcome.
func (l *Ledger) Contains(path string) bool {
	id, ok := l.pathID[path]
	return ok && l.touched.Contains(id)
}

// Count returns the number of distinct paths whose attempts included o.
func (l *Ledger) Count(o Outcome) int {
	bm, ok := l.byOutcome[o]
	if !ok {
		return 0
	}
	return int(bm.GetCardinality())
}

// Paths returns every distinct path in this run, sorted.
func (l *Ledger) Paths() []string {
	out := make([]string, 0, l.touched.GetCardinality())
	it := l.touched.Iterator()
	for it.HasNext() {
		out = append(out, l.idToPath[it.Next()])
	}
	sort.Strings(out)
	return out
}

// Summary counts attempts per outcome.
type Summary struct {
	Written   int
	Identical int
	Protected int
}

func (l *Ledger) Summary() Summary {
	var s Summary
	for _, e := range l.entries {
		switch e.Outcome {
		case OutcomeWritten:
			s.Written++
		case OutcomeIdentical:
			s.Identical++
		case OutcomeProtected:
			s.Protected++
		}
	}
	return s
}
