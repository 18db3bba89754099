package store

import (
	"bytes"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"go.uber.org/zap"

	"github.com/agentic-research/resgen/internal/document"
	"github.com/agentic-research/resgen/internal/ledger"
)

// ErrCleanupAmbiguous marks a document that might be generated but could not
// be parsed. It is reported and never deleted.
var ErrCleanupAmbiguous = errors.New("cleanup ambiguous")

// CleanupOptions tunes Cleanup.
type CleanupOptions struct {
	// DryRun reports what would be removed without removing anything.
	DryRun bool
	Logger *zap.Logger
}

// CleanupReport lists what a cleanup pass did. Paths are relative to the
// resource root, sorted.
type CleanupReport struct {
	Removed     []string
	RemovedDirs []string
	Ambiguous   []*TargetError
	Scanned     int
}

// Cleanup removes every generated document under the root of fs that the
// current run did not touch. Documents without the provenance marker are
// left alone, as are documents that cannot be parsed. Directories emptied by
// a removal are removed too; the root itself is kept.
func Cleanup(fs billy.Filesystem, current *ledger.Ledger, opts CleanupOptions) (*CleanupReport, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if current == nil {
		current = ledger.New()
	}

	c := &cleaner{fs: fs, current: current, opts: opts, log: log, report: &CleanupReport{}}
	if _, _, err := c.dir(""); err != nil {
		return c.report, err
	}

	sort.Strings(c.report.Removed)
	sort.Strings(c.report.RemovedDirs)
	log.Info("cleanup finished",
		zap.Int("scanned", c.report.Scanned),
		zap.Int("removed", len(c.report.Removed)),
		zap.Int("ambiguous", len(c.report.Ambiguous)),
		zap.Bool("dry_run", opts.DryRun))
	return c.report, nil
}

type cleaner struct {
	fs      billy.Filesystem
	current *ledger.Ledger
	opts    CleanupOptions
	log     *zap.Logger
	report  *CleanupReport
}

// dir processes one directory. It reports whether the directory is empty
// afterwards and whether anything below it was removed.
func (c *cleaner) dir(p string) (empty, removedAny bool, err error) {
	infos, err := c.fs.ReadDir(p)
	if err != nil {
		return false, false, fmt.Errorf("read dir %q: %w", p, err)
	}

	remaining := len(infos)
	for _, info := range infos {
		child := path.Join(p, info.Name())
		if info.IsDir() {
			childEmpty, childRemoved, err := c.dir(child)
			if err != nil {
				return false, false, err
			}
			removedAny = removedAny || childRemoved
			// Only directories this pass emptied are removed.
			if childEmpty && childRemoved && c.removeDir(child) {
				remaining--
			}
			continue
		}
		if !strings.HasSuffix(info.Name(), ".json") {
			continue
		}
		removed, err := c.file(child)
		if err != nil {
			return false, false, err
		}
		if removed {
			removedAny = true
			remaining--
		}
	}
	return remaining == 0, removedAny, nil
}

func (c *cleaner) file(p string) (bool, error) {
	c.report.Scanned++
	if c.current.Contains(p) {
		return false, nil
	}

	data, err := util.ReadFile(c.fs, p)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", p, err)
	}
	// Files that cannot carry the marker are not inspected any further.
	if !bytes.Contains(data, []byte(document.MarkerKey)) {
		return false, nil
	}

	doc, err := document.Decode(data)
	if err != nil {
		amb := &TargetError{Path: p, Kind: ErrCleanupAmbiguous, Err: err}
		c.report.Ambiguous = append(c.report.Ambiguous, amb)
		c.log.Warn("cannot parse document during cleanup, leaving it in place",
			zap.String("path", p), zap.Error(err))
		return false, nil
	}
	if !document.HasMarker(doc) {
		return false, nil
	}

	c.report.Removed = append(c.report.Removed, p)
	if c.opts.DryRun {
		return false, nil
	}
	if err := c.fs.Remove(p); err != nil {
		return false, &TargetError{Path: p, Kind: ErrWriteFailed, Err: err}
	}
	c.log.Debug("removed stale document", zap.String("path", p))
	return true, nil
}

func (c *cleaner) removeDir(p string) bool {
	if c.opts.DryRun {
		return false
	}
	if err := c.fs.Remove(p); err != nil {
		c.log.Debug("keeping directory", zap.String("path", p), zap.Error(err))
		return false
	}
	c.report.RemovedDirs = append(c.report.RemovedDirs, p)
	return true
}
