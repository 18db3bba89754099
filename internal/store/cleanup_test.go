package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/agentic-research/resgen/internal/ledger"
	"github.com/agentic-research/resgen/internal/resource"
)

func TestCleanup_RemovesOnlyStaleGenerated(t *testing.T) {
	fs := memfs.New()

	// Prior run generated two models.
	prior := NewWriter(fs)
	_, err := prior.Write(modelKey("block/old"), cubeModel("old"))
	require.NoError(t, err)
	_, err = prior.Write(modelKey("block/kept"), cubeModel("kept"))
	require.NoError(t, err)

	userPath := "assets/modid/models/block/user.json"
	require.NoError(t, util.WriteFile(fs, userPath, []byte(`{"parent": "block/cube"}`), 0o644))

	// Current run only regenerates one of them.
	current := NewWriter(fs)
	_, err = current.Write(modelKey("block/kept"), cubeModel("kept"))
	require.NoError(t, err)

	report, err := Cleanup(fs, current.Ledger(), CleanupOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"assets/modid/models/block/old.json"}, report.Removed)
	assert.Equal(t, 3, report.Scanned)
	assert.Empty(t, report.Ambiguous)

	_, err = fs.Stat("assets/modid/models/block/old.json")
	assert.True(t, os.IsNotExist(err))
	_, err = fs.Stat(userPath)
	assert.NoError(t, err)
	_, err = fs.Stat("assets/modid/models/block/kept.json")
	assert.NoError(t, err)
}

func TestCleanup_ProtectedEntryIsNotStale(t *testing.T) {
	fs := memfs.New()
	prior := NewWriter(fs)
	_, err := prior.Write(modelKey("block/a"), cubeModel("a"))
	require.NoError(t, err)

	l := ledger.New()
	k := modelKey("block/a")
	l.Record(ledger.Entry{Key: k, Path: k.StoragePath(), Outcome: ledger.OutcomeProtected})

	report, err := Cleanup(fs, l, CleanupOptions{})
	require.NoError(t, err)
	assert.Empty(t, report.Removed)
}

func TestCleanup_AmbiguousIsKept(t *testing.T) {
	fs := memfs.New()
	p := "data/modid/recipes/broken.json"
	broken := []byte(`{"__comment__": "This file was automatically created by resgen", `)
	require.NoError(t, util.WriteFile(fs, p, broken, 0o644))

	core, logs := observer.New(zapcore.WarnLevel)
	report, err := Cleanup(fs, ledger.New(), CleanupOptions{Logger: zap.New(core)})
	require.NoError(t, err)

	assert.Empty(t, report.Removed)
	require.Len(t, report.Ambiguous, 1)
	assert.ErrorIs(t, report.Ambiguous[0], ErrCleanupAmbiguous)
	assert.Equal(t, p, report.Ambiguous[0].Path)
	assert.Equal(t, 1, logs.Len())

	after, err := util.ReadFile(fs, p)
	require.NoError(t, err)
	assert.Equal(t, broken, after)
}

func TestCleanup_MentionWithoutMarkerIsKept(t *testing.T) {
	fs := memfs.New()
	p := "data/modid/notes.json"
	require.NoError(t, util.WriteFile(fs, p, []byte(`{"__comment__": "written by hand"}`), 0o644))

	report, err := Cleanup(fs, ledger.New(), CleanupOptions{})
	require.NoError(t, err)
	assert.Empty(t, report.Removed)
	_, err = fs.Stat(p)
	assert.NoError(t, err)
}

func TestCleanup_DryRun(t *testing.T) {
	fs := memfs.New()
	prior := NewWriter(fs)
	_, err := prior.Write(modelKey("block/old"), cubeModel("old"))
	require.NoError(t, err)

	report, err := Cleanup(fs, ledger.New(), CleanupOptions{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"assets/modid/models/block/old.json"}, report.Removed)
	assert.Empty(t, report.RemovedDirs)

	_, err = fs.Stat("assets/modid/models/block/old.json")
	assert.NoError(t, err)
}

func TestCleanup_RemovesEmptiedDirectories(t *testing.T) {
	fs := memfs.New()
	prior := NewWriter(fs)
	_, err := prior.Write(resource.MustNew("modid", resource.KindLootTable, "blocks/old"), map[string]any{"type": "minecraft:block"})
	require.NoError(t, err)
	_, err = prior.Write(modelKey("block/kept"), cubeModel("kept"))
	require.NoError(t, err)
	require.NoError(t, fs.MkdirAll("data/modid/functions", 0o755))

	current := NewWriter(fs)
	_, err = current.Write(modelKey("block/kept"), cubeModel("kept"))
	require.NoError(t, err)

	report, err := Cleanup(fs, current.Ledger(), CleanupOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"data/modid/loot_tables/blocks/old.json"}, report.Removed)
	assert.Equal(t, []string{"data/modid/loot_tables", "data/modid/loot_tables/blocks"}, report.RemovedDirs)

	// Directories that were empty before the pass stay.
	_, err = fs.Stat("data/modid/functions")
	assert.NoError(t, err)
	_, err = fs.Stat("assets/modid/models/block")
	assert.NoError(t, err)
}

func TestCleanup_OnDisk(t *testing.T) {
	root := t.TempDir()
	fs := osfs.New(root)

	prior := NewWriter(fs)
	_, err := prior.Write(resource.MustNew("modid", resource.KindRecipe, "old"), map[string]any{"type": "minecraft:crafting_shapeless"})
	require.NoError(t, err)
	user := filepath.Join(root, "data", "modid", "recipes", "mine.json")
	require.NoError(t, os.WriteFile(user, []byte(`{"type": "minecraft:smelting"}`), 0o644))

	report, err := Cleanup(fs, ledger.New(), CleanupOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"data/modid/recipes/old.json"}, report.Removed)

	_, err = os.Stat(filepath.Join(root, "data", "modid", "recipes", "old.json"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(user)
	assert.NoError(t, err)
}
