package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/resgen/internal/runlock"
)

type workspace struct {
	dir    string
	root   string
	ledger string
}

func newWorkspace(t *testing.T) *workspace {
	t.Helper()
	dir := t.TempDir()
	return &workspace{
		dir:    dir,
		root:   filepath.Join(dir, "resources"),
		ledger: filepath.Join(dir, "state", "ledger.db"),
	}
}

func (ws *workspace) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	full := append([]string{"--config-dir", ws.dir, "--root", ws.root, "--ledger", ws.ledger}, args...)
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(full)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (ws *workspace) describe(t *testing.T, ores ...string) string {
	t.Helper()
	var items bytes.Buffer
	for i, o := range ores {
		if i > 0 {
			items.WriteString(",")
		}
		items.WriteString(`{"name":"` + o + `"}`)
	}
	p := filepath.Join(ws.dir, "ores.json")
	require.NoError(t, os.WriteFile(p, []byte(`{
		"namespace": "modid",
		"data": {"ores": [`+items.String()+`]},
		"rules": [
			{"kind": "block", "selector": "$.ores[*]", "name": "{{.name}}_ore"},
			{"kind": "tag", "selector": "$.ores[*]", "tag_type": "items", "name": "ores", "values": ["modid:{{.name}}_ore"]}
		]
	}`), 0o644))
	return p
}

func (ws *workspace) exists(p string) bool {
	_, err := os.Stat(filepath.Join(ws.root, filepath.FromSlash(p)))
	return err == nil
}

func TestGenerate_WritesThenSkips(t *testing.T) {
	ws := newWorkspace(t)
	desc := ws.describe(t, "copper", "tin")

	out, err := ws.run(t, "generate", desc)
	require.NoError(t, err)
	// Four direct documents per block plus the tag.
	assert.Contains(t, out, "Written:   9")
	assert.True(t, ws.exists("assets/modid/blockstates/copper_ore.json"))
	assert.True(t, ws.exists("data/modid/tags/items/ores.json"))

	out, err = ws.run(t, "generate", desc)
	require.NoError(t, err)
	assert.Contains(t, out, "Written:   0")
	assert.Contains(t, out, "Unchanged: 9")
}

func TestGenerate_ProtectsUserFile(t *testing.T) {
	ws := newWorkspace(t)
	desc := ws.describe(t, "copper")

	user := filepath.Join(ws.root, "assets", "modid", "blockstates", "copper_ore.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(user), 0o755))
	require.NoError(t, os.WriteFile(user, []byte(`{"variants": {}}`), 0o644))

	out, err := ws.run(t, "generate", desc)
	require.NoError(t, err)
	assert.Contains(t, out, "Protected: 1")

	data, err := os.ReadFile(user)
	require.NoError(t, err)
	assert.JSONEq(t, `{"variants": {}}`, string(data))
}

func TestGenerate_CleanRemovesDroppedArtifacts(t *testing.T) {
	ws := newWorkspace(t)
	_, err := ws.run(t, "generate", ws.describe(t, "copper", "tin"))
	require.NoError(t, err)
	require.True(t, ws.exists("assets/modid/blockstates/tin_ore.json"))

	out, err := ws.run(t, "generate", "--clean", "--dry-run", ws.describe(t, "copper"))
	require.NoError(t, err)
	assert.Contains(t, out, "Would remove assets/modid/blockstates/tin_ore.json")
	assert.True(t, ws.exists("assets/modid/blockstates/tin_ore.json"))

	out, err = ws.run(t, "generate", "--clean", ws.describe(t, "copper"))
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 4 of")
	assert.False(t, ws.exists("assets/modid/blockstates/tin_ore.json"))
	assert.False(t, ws.exists("data/modid/loot_tables/blocks/tin_ore.json"))
	assert.True(t, ws.exists("assets/modid/blockstates/copper_ore.json"))
}

func TestClean_UsesLastRun(t *testing.T) {
	ws := newWorkspace(t)

	_, err := ws.run(t, "clean")
	assert.ErrorIs(t, err, errNoRun)

	_, err = ws.run(t, "generate", ws.describe(t, "copper"))
	require.NoError(t, err)

	stale := filepath.Join(ws.root, "data", "modid", "recipes", "old.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0o755))
	require.NoError(t, os.WriteFile(stale, []byte(`{"__comment__": "This file was automatically created by resgen", "type": "x"}`), 0o644))

	out, err := ws.run(t, "clean")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed data/modid/recipes/old.json")
	_, err = os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
	assert.True(t, ws.exists("assets/modid/blockstates/copper_ore.json"))
}

func TestClean_RootsSharingOneLedger(t *testing.T) {
	ws := newWorkspace(t)
	packA := filepath.Join(ws.dir, "packA")
	packB := filepath.Join(ws.dir, "packB")

	_, err := ws.run(t, "generate", "--root", packA, ws.describe(t, "copper"))
	require.NoError(t, err)
	_, err = ws.run(t, "generate", "--root", packB, ws.describe(t, "tin"))
	require.NoError(t, err)

	out, err := ws.run(t, "clean", "--root", packA)
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 0 of 5")
	_, err = os.Stat(filepath.Join(packA, "assets", "modid", "blockstates", "copper_ore.json"))
	assert.NoError(t, err, "current artifacts of packA must survive")

	_, err = ws.run(t, "clean", "--root", filepath.Join(ws.dir, "packC"))
	assert.ErrorIs(t, err, errNoRun)
}

func TestGenerate_LockHeld(t *testing.T) {
	ws := newWorkspace(t)
	lock, err := runlock.Acquire(ws.ledger + ".lock")
	require.NoError(t, err)
	defer func() { _ = lock.Release() }()

	_, err = ws.run(t, "generate", ws.describe(t, "copper"))
	assert.ErrorIs(t, err, runlock.ErrLocked)
}

func TestGenerate_BadInputs(t *testing.T) {
	ws := newWorkspace(t)

	_, err := ws.run(t, "generate", filepath.Join(ws.dir, "missing.json"))
	assert.Error(t, err)

	_, err = ws.run(t, "generate", "--indent", "20", ws.describe(t, "copper"))
	assert.ErrorContains(t, err, "--indent")

	_, err = ws.run(t, "generate")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	ws := newWorkspace(t)
	out, err := ws.run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "resgen version: dev")
}
