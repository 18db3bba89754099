// Package store persists generated documents under a resource root. It skips
// writes whose content is unchanged, refuses to touch documents it did not
// generate, and removes stale generated documents on request.
package store

import (
	"errors"
	"fmt"
	"os"
	"path"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"go.uber.org/zap"

	"github.com/agentic-research/resgen/internal/document"
	"github.com/agentic-research/resgen/internal/ledger"
	"github.com/agentic-research/resgen/internal/resource"
)

var (
	// ErrUnreadableTarget marks an existing destination that could not be
	// parsed. The destination is treated as protected; not fatal.
	ErrUnreadableTarget = errors.New("unreadable target")
	// ErrWriteFailed marks a storage failure. Fatal for the run.
	ErrWriteFailed = errors.New("write failed")
)

// TargetError carries the storage path a storage error refers to.
type TargetError struct {
	Path string
	Kind error // ErrUnreadableTarget, ErrWriteFailed or ErrCleanupAmbiguous
	Err  error
}

func (e *TargetError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Path, e.Kind, e.Err)
}

func (e *TargetError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// Writer is the write cache. One Writer serves one run.
type Writer struct {
	fs       billy.Filesystem
	indent   int
	log      *zap.Logger
	ledger   *ledger.Ledger
	warnings []*TargetError
}

type Option func(*Writer)

func WithIndent(n int) Option {
	return func(w *Writer) { w.indent = n }
}

func WithLogger(l *zap.Logger) Option {
	return func(w *Writer) {
		if l != nil {
			w.log = l
		}
	}
}

// WithLedger makes the writer record into an existing ledger.
func WithLedger(l *ledger.Ledger) Option {
	return func(w *Writer) {
		if l != nil {
			w.ledger = l
		}
	}
}

// NewWriter returns a writer rooted at fs. Storage paths are resolved
// relative to the root of fs.
func NewWriter(fs billy.Filesystem, opts ...Option) *Writer {
	w := &Writer{
		fs:     fs,
		indent: 2,
		log:    zap.NewNop(),
		ledger: ledger.New(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Ledger returns the run ledger this writer records into.
func (w *Writer) Ledger() *ledger.Ledger {
	return w.ledger
}

// Warnings returns the non-fatal problems met so far, in order.
func (w *Writer) Warnings() []*TargetError {
	out := make([]*TargetError, len(w.warnings))
	copy(out, w.warnings)
	return out
}

// Write persists doc at key's storage path unless the destination already
// holds the same generated content or holds a document this tool did not
// generate. Every call that returns a nil error records one ledger entry.
// A failing call returns OutcomeNone and records nothing: a candidate that
// cannot be normalized, or a fatal ErrWriteFailed, which ends the run before
// the ledger is used.
func (w *Writer) Write(key resource.Key, doc document.Document) (ledger.Outcome, error) {
	p := key.StoragePath()

	candidate, err := document.Mark(doc)
	if err != nil {
		return ledger.OutcomeNone, fmt.Errorf("prepare %s: %w", key, err)
	}

	existing, readErr := w.readExisting(p)
	if readErr != nil {
		warn := &TargetError{Path: p, Kind: ErrUnreadableTarget, Err: readErr}
		w.warnings = append(w.warnings, warn)
		w.log.Warn("existing document is unreadable, leaving it untouched",
			zap.String("path", p), zap.Stringer("key", key), zap.Error(readErr))
		return w.record(key, p, ledger.OutcomeProtected), nil
	}

	switch document.Compare(existing, candidate) {
	case document.DecisionIdentical:
		return w.record(key, p, ledger.OutcomeIdentical), nil
	case document.DecisionProtected:
		w.log.Debug("destination not generated by resgen, skipping", zap.String("path", p))
		return w.record(key, p, ledger.OutcomeProtected), nil
	}

	data, err := document.Encode(candidate, w.indent)
	if err != nil {
		return ledger.OutcomeNone, fmt.Errorf("encode %s: %w", key, err)
	}
	if err := w.writeFile(p, data); err != nil {
		return ledger.OutcomeNone, &TargetError{Path: p, Kind: ErrWriteFailed, Err: err}
	}
	return w.record(key, p, ledger.OutcomeWritten), nil
}

func (w *Writer) record(key resource.Key, p string, o ledger.Outcome) ledger.Outcome {
	w.ledger.Record(ledger.Entry{Key: key, Path: p, Outcome: o})
	w.log.Debug("write", zap.String("path", p), zap.Stringer("outcome", o))
	return o
}

// readExisting returns nil, nil when nothing (or only whitespace) is stored.
func (w *Writer) readExisting(p string) (document.Document, error) {
	data, err := util.ReadFile(w.fs, p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	if document.Blank(data) {
		return nil, nil
	}
	return document.Decode(data)
}

// writeFile writes to a temp file beside the destination and renames it into
// place, so a failed write never leaves a truncated document behind.
func (w *Writer) writeFile(p string, data []byte) error {
	dir := path.Dir(p)
	if err := w.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir %s: %w", dir, err)
	}

	tmp, err := w.fs.TempFile(dir, ".resgen-")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = w.fs.Remove(tmpName)
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = w.fs.Remove(tmpName)
		return fmt.Errorf("close temp: %w", err)
	}
	if err := w.fs.Rename(tmpName, p); err != nil {
		_ = w.fs.Remove(tmpName)
		return fmt.Errorf("rename temp to %s: %w", p, err)
	}
	return nil
}
