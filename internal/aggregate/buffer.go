// Package aggregate accumulates tag and lang contributions from many call
// sites and materializes them as one document per key on Flush.
package aggregate

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ohler55/ojg/oj"

	"github.com/agentic-research/resgen/internal/document"
	"github.com/agentic-research/resgen/internal/ledger"
	"github.com/agentic-research/resgen/internal/resource"
)

// ErrNotAggregate is returned when a contribution targets a key whose kind
// is written directly.
var ErrNotAggregate = errors.New("kind is not aggregated")

// LangEntry is one translation key and its text.
type LangEntry struct {
	Key   string
	Value string
}

type entry struct {
	replace bool

	// tags
	values []any
	seen   map[string]struct{}

	// lang
	lang map[string]string
}

func (e *entry) reset() {
	e.values = nil
	e.seen = make(map[string]struct{})
	e.lang = make(map[string]string)
}

// Buffer holds the pending contributions of one run. The zero value is not
// usable; create one per run with NewBuffer.
type Buffer struct {
	entries map[resource.Key]*entry
}

func NewBuffer() *Buffer {
	return &Buffer{entries: make(map[resource.Key]*entry)}
}

// Pending returns the number of keys waiting for a flush.
func (b *Buffer) Pending() int {
	return len(b.entries)
}

func (b *Buffer) entry(key resource.Key, want resource.Kind) (*entry, error) {
	if key.Kind != want {
		return nil, fmt.Errorf("%w: %s", ErrNotAggregate, key)
	}
	e, ok := b.entries[key]
	if !ok {
		e = &entry{}
		e.reset()
		b.entries[key] = e
	}
	return e, nil
}

// AddTag contributes values to the tag at key. Values are deduplicated by
// their JSON form and keep first-seen order. A replace contribution drops
// whatever this run contributed to key before it, and the flushed document
// carries "replace": true.
func (b *Buffer) AddTag(key resource.Key, replace bool, values ...any) error {
	e, err := b.entry(key, resource.KindTag)
	if err != nil {
		return err
	}
	if replace {
		e.reset()
		e.replace = true
	}
	for _, v := range values {
		n, err := document.Normalize(v)
		if err != nil {
			return fmt.Errorf("tag %s value: %w", key, err)
		}
		if n == nil {
			continue
		}
		id := oj.JSON(n, &oj.Options{Sort: true})
		if _, dup := e.seen[id]; dup {
			continue
		}
		e.seen[id] = struct{}{}
		e.values = append(e.values, n)
	}
	return nil
}

// AddLang contributes translation entries to the lang file at key. A key
// contributed twice keeps the last value. Replace behaves as for tags.
func (b *Buffer) AddLang(key resource.Key, replace bool, entries ...LangEntry) error {
	e, err := b.entry(key, resource.KindLang)
	if err != nil {
		return err
	}
	if replace {
		e.reset()
		e.replace = true
	}
	for _, le := range entries {
		e.lang[le.Key] = le.Value
	}
	return nil
}

// DocumentWriter persists one document. *store.Writer satisfies it.
type DocumentWriter interface {
	Write(key resource.Key, doc document.Document) (ledger.Outcome, error)
}

// Result is the outcome of one flushed key.
type Result struct {
	Key     resource.Key
	Outcome ledger.Outcome
}

// Flush writes one document per pending key, in storage path order, and
// leaves the buffer empty. The buffer is emptied before the first write,
// so contributions made after a failed flush start fresh entries. Flushing
// an empty buffer writes nothing.
func (b *Buffer) Flush(w DocumentWriter) ([]Result, error) {
	pending := b.entries
	b.entries = make(map[resource.Key]*entry)
	if len(pending) == 0 {
		return nil, nil
	}

	keys := make([]resource.Key, 0, len(pending))
	for k := range pending {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].StoragePath() < keys[j].StoragePath()
	})

	results := make([]Result, 0, len(keys))
	for _, k := range keys {
		out, err := w.Write(k, pending[k].document(k.Kind))
		if err != nil {
			return results, fmt.Errorf("flush %s: %w", k, err)
		}
		results = append(results, Result{Key: k, Outcome: out})
	}
	return results, nil
}

func (e *entry) document(kind resource.Kind) document.Document {
	if kind == resource.KindLang {
		d := make(document.Document, len(e.lang))
		for k, v := range e.lang {
			d[k] = v
		}
		return d
	}
	values := e.values
	if values == nil {
		values = []any{}
	}
	return document.Document{"replace": e.replace, "values": values}
}
