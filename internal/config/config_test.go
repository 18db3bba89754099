package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, &Config{
		Namespace:       "minecraft",
		ResourceDir:     "src/main/resources",
		Indent:          2,
		DefaultLanguage: "en_us",
		LedgerPath:      ".resgen/ledger.db",
		LogMode:         "development",
	}, cfg)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "resgen.yaml"), []byte(`
namespace: modid
indent: 4
resource_dir: out
`), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "modid", cfg.Namespace)
	assert.Equal(t, 4, cfg.Indent)
	assert.Equal(t, "out", cfg.ResourceDir)
	assert.Equal(t, "en_us", cfg.DefaultLanguage)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("RESGEN_NAMESPACE", "envmod")
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "envmod", cfg.Namespace)
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "resgen.yaml"), []byte("indent: 12\n"), 0o644))
	_, err := Load(dir)
	assert.ErrorContains(t, err, "indent")

	bad := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(bad, "resgen.yaml"), []byte("namespace: Not Valid\n"), 0o644))
	_, err = Load(bad)
	assert.ErrorContains(t, err, "namespace")

	broken := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(broken, "resgen.yaml"), []byte("indent: [\n"), 0o644))
	_, err = Load(broken)
	assert.ErrorContains(t, err, "failed to read config file")
}
