package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/agentic-research/resgen/internal/resource"
)

// retainRuns bounds how many past runs the store keeps per resource root.
const retainRuns = 10

// SQLiteStore persists run ledgers so cleanup can run in a later process.
// Runs are keyed by the resource root they wrote to, so one database can
// serve several roots.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens or creates the ledger database at dbPath.
func OpenSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create ledger dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		root TEXT NOT NULL DEFAULT '',
		finished INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS entries (
		run_id TEXT NOT NULL,
		ord INTEGER NOT NULL,
		namespace TEXT NOT NULL,
		key_path TEXT NOT NULL,
		kind TEXT NOT NULL,
		storage_path TEXT NOT NULL,
		outcome TEXT NOT NULL,
		PRIMARY KEY (run_id, ord)
	) WITHOUT ROWID;
	`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	if err := addRootColumn(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS runs_root ON runs (root, seq)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// addRootColumn upgrades databases created before runs carried a root.
// Their runs keep an empty root and never match a real one.
func addRootColumn(db *sql.DB) error {
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM pragma_table_info('runs') WHERE name = 'root'`).Scan(&n); err != nil {
		return fmt.Errorf("inspect runs table: %w", err)
	}
	if n > 0 {
		return nil
	}
	if _, err := db.Exec(`ALTER TABLE runs ADD COLUMN root TEXT NOT NULL DEFAULT ''`); err != nil {
		return fmt.Errorf("add root column: %w", err)
	}
	return nil
}

// RootKey is the form a resource root is stored under: absolute and
// cleaned, so "pack" and "./pack/" name the same root.
func RootKey(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve root %s: %w", root, err)
	}
	return filepath.Clean(abs), nil
}

// SaveRun stores every entry of l under a fresh run id for the resource root
// and drops that root's runs beyond the retention bound.
func (s *SQLiteStore) SaveRun(ctx context.Context, root string, l *Ledger) (string, error) {
	rootKey, err := RootKey(root)
	if err != nil {
		return "", err
	}
	runID := uuid.NewString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `INSERT INTO runs (id, root, finished) VALUES (?, ?, ?)`, runID, rootKey, time.Now().UnixNano()); err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO entries (run_id, ord, namespace, key_path, kind, storage_path, outcome)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", fmt.Errorf("prepare entry insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, e := range l.Entries() {
		if _, err := stmt.ExecContext(ctx, runID, i, e.Key.Namespace, e.Key.Path, e.Key.Kind.String(), e.Path, e.Outcome.String()); err != nil {
			return "", fmt.Errorf("insert entry %s: %w", e.Path, err)
		}
	}

	stale := `SELECT id FROM runs WHERE root = ? AND seq NOT IN (
		SELECT seq FROM runs WHERE root = ? ORDER BY seq DESC LIMIT ?
	)`
	if _, err := tx.ExecContext(ctx, `DELETE FROM entries WHERE run_id IN (`+stale+`)`, rootKey, rootKey, retainRuns); err != nil {
		return "", fmt.Errorf("prune entries: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id IN (`+stale+`)`, rootKey, rootKey, retainRuns); err != nil {
		return "", fmt.Errorf("prune runs: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return runID, nil
}

// LoadLatest returns the most recently saved run for the resource root. With
// no saved run for that root it returns an empty ledger and an empty id.
func (s *SQLiteStore) LoadLatest(ctx context.Context, root string) (*Ledger, string, error) {
	rootKey, err := RootKey(root)
	if err != nil {
		return nil, "", err
	}
	var runID string
	err = s.db.QueryRowContext(ctx, `SELECT id FROM runs WHERE root = ? ORDER BY seq DESC LIMIT 1`, rootKey).Scan(&runID)
	if errors.Is(err, sql.ErrNoRows) {
		return New(), "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("query latest run: %w", err)
	}

	l, err := s.Load(ctx, runID)
	if err != nil {
		return nil, "", err
	}
	return l, runID, nil
}

// Load rebuilds the ledger of one saved run.
func (s *SQLiteStore) Load(ctx context.Context, runID string) (*Ledger, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT namespace, key_path, kind, storage_path, outcome
		FROM entries WHERE run_id = ? ORDER BY ord
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	l := New()
	for rows.Next() {
		var ns, keyPath, kindName, storagePath, outcomeName string
		if err := rows.Scan(&ns, &keyPath, &kindName, &storagePath, &outcomeName); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		kind, ok := resource.ParseKind(kindName)
		if !ok {
			return nil, fmt.Errorf("entry %s: unknown kind %q", storagePath, kindName)
		}
		outcome, ok := ParseOutcome(outcomeName)
		if !ok {
			return nil, fmt.Errorf("entry %s: unknown outcome %q", storagePath, outcomeName)
		}
		l.Record(Entry{
			Key:     resource.Key{Namespace: ns, Path: keyPath, Kind: kind},
			Path:    storagePath,
			Outcome: outcome,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return l, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
