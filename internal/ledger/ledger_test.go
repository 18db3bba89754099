package ledger

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/resgen/internal/resource"
)

func entry(kind resource.Kind, p string, o Outcome) Entry {
	k := resource.MustNew("modid", kind, p)
	return Entry{Key: k, Path: k.StoragePath(), Outcome: o}
}

func TestLedger_RecordAndContains(t *testing.T) {
	l := New()
	l.Record(entry(resource.KindModel, "block/stone", OutcomeWritten))
	l.Record(entry(resource.KindBlockState, "stone", OutcomeIdentical))
	l.Record(entry(resource.KindRecipe, "stone", OutcomeProtected))

	assert.Equal(t, 3, l.Len())
	assert.True(t, l.Contains("assets/modid/models/block/stone.json"))
	assert.True(t, l.Contains("assets/modid/blockstates/stone.json"))
	assert.True(t, l.Contains("data/modid/recipes/stone.json"))
	assert.False(t, l.Contains("data/modid/recipes/dirt.json"))

	assert.Equal(t, 1, l.Count(OutcomeWritten))
	assert.Equal(t, 1, l.Count(OutcomeIdentical))
	assert.Equal(t, 1, l.Count(OutcomeProtected))
}

func TestLedger_RepeatedPath(t *testing.T) {
	l := New()
	l.Record(entry(resource.KindModel, "block/stone", OutcomeWritten))
	l.Record(entry(resource.KindModel, "block/stone", OutcomeIdentical))

	assert.Equal(t, 2, l.Len())
	assert.Equal(t, []string{"assets/modid/models/block/stone.json"}, l.Paths())
	assert.Equal(t, Summary{Written: 1, Identical: 1}, l.Summary())
}

func TestLedger_EntriesIsACopy(t *testing.T) {
	l := New()
	l.Record(entry(resource.KindData, "a", OutcomeWritten))
	es := l.Entries()
	es[0].Outcome = OutcomeProtected
	assert.Equal(t, OutcomeWritten, l.Entries()[0].Outcome)
}

func TestParseOutcome(t *testing.T) {
	for _, o := range []Outcome{OutcomeWritten, OutcomeIdentical, OutcomeProtected} {
		got, ok := ParseOutcome(o.String())
		require.True(t, ok)
		assert.Equal(t, o, got)
	}
	_, ok := ParseOutcome("bogus")
	assert.False(t, ok)
	_, ok = ParseOutcome(OutcomeNone.String())
	assert.False(t, ok, "OutcomeNone is never persisted")

	var zero Outcome
	assert.Equal(t, OutcomeNone, zero)
}

func TestSQLiteStore_SaveAndLoadLatest(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "state", "ledger.db"))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	root := t.TempDir()
	empty, id, err := s.LoadLatest(ctx, root)
	require.NoError(t, err)
	assert.Empty(t, id)
	assert.Equal(t, 0, empty.Len())

	first := New()
	first.Record(entry(resource.KindModel, "block/old", OutcomeWritten))
	_, err = s.SaveRun(ctx, root, first)
	require.NoError(t, err)

	second := New()
	second.Record(entry(resource.KindModel, "block/new", OutcomeWritten))
	second.Record(entry(resource.KindTag, "items/ores", OutcomeIdentical))
	secondID, err := s.SaveRun(ctx, root, second)
	require.NoError(t, err)

	got, id, err := s.LoadLatest(ctx, root)
	require.NoError(t, err)
	assert.Equal(t, secondID, id)
	assert.Equal(t, second.Entries(), got.Entries())
	assert.False(t, got.Contains("assets/modid/models/block/old.json"))
}

func TestSQLiteStore_Retention(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	other := t.TempDir()
	l := New()
	l.Record(entry(resource.KindData, "other", OutcomeWritten))
	otherID, err := s.SaveRun(ctx, other, l)
	require.NoError(t, err)

	root := t.TempDir()
	var firstID string
	for i := 0; i < retainRuns+2; i++ {
		l := New()
		l.Record(entry(resource.KindData, "thing", OutcomeWritten))
		id, err := s.SaveRun(ctx, root, l)
		require.NoError(t, err)
		if i == 0 {
			firstID = id
		}
	}

	old, err := s.Load(ctx, firstID)
	require.NoError(t, err)
	assert.Equal(t, 0, old.Len(), "oldest run should be pruned")

	var runs int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&runs))
	assert.Equal(t, retainRuns+1, runs)

	// Retention is per root: the other root's only run survives.
	kept, id, err := s.LoadLatest(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, otherID, id)
	assert.Equal(t, 1, kept.Len())
}

func TestSQLiteStore_RunsAreScopedToRoot(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	base := t.TempDir()
	packA := filepath.Join(base, "packA")
	packB := filepath.Join(base, "packB")

	a := New()
	a.Record(entry(resource.KindModel, "block/copper", OutcomeWritten))
	aID, err := s.SaveRun(ctx, packA, a)
	require.NoError(t, err)

	b := New()
	b.Record(entry(resource.KindModel, "block/tin", OutcomeWritten))
	_, err = s.SaveRun(ctx, packB, b)
	require.NoError(t, err)

	// A later run against packB does not shadow packA's run, and
	// equivalent spellings of a root resolve to the same runs.
	got, id, err := s.LoadLatest(ctx, packA+string(filepath.Separator)+".")
	require.NoError(t, err)
	assert.Equal(t, aID, id)
	assert.True(t, got.Contains("assets/modid/models/block/copper.json"))
	assert.False(t, got.Contains("assets/modid/models/block/tin.json"))

	none, id, err := s.LoadLatest(ctx, filepath.Join(base, "packC"))
	require.NoError(t, err)
	assert.Empty(t, id)
	assert.Equal(t, 0, none.Len())
}

func TestOpenSQLiteStore_UpgradesRunsWithoutRoot(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "ledger.db")
	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	_, err = db.Exec(`
	CREATE TABLE runs (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		finished INTEGER NOT NULL
	);
	INSERT INTO runs (id, finished) VALUES ('legacy', 1);
	`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	s, err := OpenSQLiteStore(dbPath)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	// The legacy run has no root and never matches a real one.
	_, id, err := s.LoadLatest(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, id)

	l := New()
	l.Record(entry(resource.KindData, "a", OutcomeWritten))
	_, err = s.SaveRun(context.Background(), t.TempDir(), l)
	require.NoError(t, err)
}
