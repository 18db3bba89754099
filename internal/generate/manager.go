// Package generate maps builder parameters to documents and routes them to
// the writer (direct artifacts) or the aggregation buffer (tags and lang).
package generate

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/agentic-research/resgen/internal/aggregate"
	"github.com/agentic-research/resgen/internal/document"
	"github.com/agentic-research/resgen/internal/resource"
)

const DefaultLanguage = "en_us"

// ErrAggregatedKind is returned when a whole document is handed in for a
// kind that is only built from contributions.
var ErrAggregatedKind = errors.New("kind is built by aggregation")

// Manager is the entry point for every builder call of one run.
type Manager struct {
	ns       string
	language string
	w        aggregate.DocumentWriter
	buf      *aggregate.Buffer
	log      *zap.Logger
}

type Option func(*Manager)

func WithNamespace(ns string) Option {
	return func(m *Manager) {
		if ns != "" {
			m.ns = ns
		}
	}
}

func WithDefaultLanguage(lang string) Option {
	return func(m *Manager) {
		if lang != "" {
			m.language = lang
		}
	}
}

// WithBuffer shares an aggregation buffer instead of creating one.
func WithBuffer(b *aggregate.Buffer) Option {
	return func(m *Manager) {
		if b != nil {
			m.buf = b
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// NewManager returns a manager writing direct artifacts through w.
func NewManager(w aggregate.DocumentWriter, opts ...Option) *Manager {
	m := &Manager{
		ns:       resource.DefaultNamespace,
		language: DefaultLanguage,
		w:        w,
		buf:      aggregate.NewBuffer(),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) Namespace() string { return m.ns }

func (m *Manager) DefaultLanguage() string { return m.language }

func (m *Manager) Buffer() *aggregate.Buffer { return m.buf }

// Flush writes every pending tag and lang document. Callers must flush once
// all contributions are issued; unflushed contributions are not generated.
func (m *Manager) Flush() ([]aggregate.Result, error) {
	n := m.buf.Pending()
	results, err := m.buf.Flush(m.w)
	if err != nil {
		return results, err
	}
	m.log.Debug("flushed aggregated documents", zap.Int("keys", n))
	return results, nil
}

// location resolves a builder name ("path" or "ns:path") against the
// manager namespace.
func (m *Manager) location(name string) (resource.Location, error) {
	return resource.Parse(m.ns, name)
}

// key builds the key for name, with prefix segments inserted before the
// name's path ("block" for block models and so on).
func (m *Manager) key(kind resource.Kind, name string, prefix ...string) (resource.Key, error) {
	loc, err := m.location(name)
	if err != nil {
		return resource.Key{}, err
	}
	parts := append(append([]string{}, prefix...), loc.Path)
	return resource.New(loc.Namespace, kind, parts...)
}

func (m *Manager) write(kind resource.Kind, name string, doc document.Document, prefix ...string) error {
	k, err := m.key(kind, name, prefix...)
	if err != nil {
		return err
	}
	if _, err := m.w.Write(k, doc); err != nil {
		return fmt.Errorf("write %s: %w", k, err)
	}
	return nil
}

// Data writes a generic data-side document at data/<ns>/<name>.json.
func (m *Manager) Data(name string, doc document.Document) error {
	return m.write(resource.KindData, name, doc)
}

// Asset writes a generic asset-side document at assets/<ns>/<name>.json.
func (m *Manager) Asset(name string, doc document.Document) error {
	return m.write(resource.KindAsset, name, doc)
}

// Document writes doc as the artifact of kind at name, for callers that
// build the whole body themselves. name is the full path below the kind
// directory, e.g. "block/copper" for a block model.
func (m *Manager) Document(kind resource.Kind, name string, doc document.Document) error {
	if kind.Aggregated() {
		return fmt.Errorf("%w: %s", ErrAggregatedKind, kind)
	}
	return m.write(kind, name, doc)
}
