package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DefaultNamespace(t *testing.T) {
	k, err := New("modid", KindBlockState, "ore/copper")
	require.NoError(t, err)
	assert.Equal(t, Key{Namespace: "modid", Path: "ore/copper", Kind: KindBlockState}, k)
	assert.Equal(t, []string{"ore", "copper"}, k.Segments())
}

func TestNew_PartsAreJoined(t *testing.T) {
	a, err := New("modid", KindModel, "block", "ore/copper")
	require.NoError(t, err)
	b, err := New("modid", KindModel, "block/ore/copper")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestNew_ExplicitNamespaceOverrides(t *testing.T) {
	k, err := New("modid", KindTag, "othermod:blocks", "their_blocks")
	require.NoError(t, err)
	assert.Equal(t, "othermod", k.Namespace)
	assert.Equal(t, "blocks/their_blocks", k.Path)
}

func TestNew_EmptyNamespaceFallsBack(t *testing.T) {
	k, err := New("", KindData, "thing")
	require.NoError(t, err)
	assert.Equal(t, DefaultNamespace, k.Namespace)
}

func TestNew_Invalid(t *testing.T) {
	cases := map[string][]string{
		"no parts":         {},
		"empty segment":    {"a//b"},
		"trailing slash":   {"a/"},
		"upper case":       {"Stone"},
		"space":            {"my stone"},
		"dot dot":          {"../escape"},
		"empty namespace":  {":stone"},
		"colon later part": {"a", "b:c"},
		"backslash":        {`a\b`},
	}
	for name, parts := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := New("modid", KindData, parts...)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidKey)
			var ke *KeyError
			assert.ErrorAs(t, err, &ke)
		})
	}
}

func TestNew_UnknownKind(t *testing.T) {
	_, err := New("modid", Kind(99), "stone")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestKey_EqualityIncludesKind(t *testing.T) {
	a := MustNew("modid", KindModel, "stone")
	b := MustNew("modid", KindBlockState, "stone")
	assert.NotEqual(t, a, b)

	seen := map[Key]bool{a: true}
	assert.True(t, seen[MustNew("modid", KindModel, "stone")])
	assert.False(t, seen[b])
}

func TestKey_StoragePath(t *testing.T) {
	cases := []struct {
		key  Key
		want string
	}{
		{MustNew("modid", KindBlockState, "ore/copper"), "assets/modid/blockstates/ore/copper.json"},
		{MustNew("modid", KindModel, "block/stone"), "assets/modid/models/block/stone.json"},
		{MustNew("modid", KindLang, "en_us"), "assets/modid/lang/en_us.json"},
		{MustNew("modid", KindAsset, "atlases/blocks"), "assets/modid/atlases/blocks.json"},
		{MustNew("modid", KindRecipe, "stone"), "data/modid/recipes/stone.json"},
		{MustNew("modid", KindTag, "items/ingots/iron"), "data/modid/tags/items/ingots/iron.json"},
		{MustNew("modid", KindLootTable, "blocks/stone"), "data/modid/loot_tables/blocks/stone.json"},
		{MustNew("modid", KindWorldGen, "configured_feature/ore"), "data/modid/worldgen/configured_feature/ore.json"},
		{MustNew("modid", KindAdvancement, "story/root"), "data/modid/advancements/story/root.json"},
		{MustNew("modid", KindData, "custom/thing"), "data/modid/custom/thing.json"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.key.StoragePath(), c.key.String())
	}
}

func TestParse(t *testing.T) {
	loc, err := Parse("modid", "minecraft:block/dirt")
	require.NoError(t, err)
	assert.Equal(t, Location{Namespace: "minecraft", Path: "block/dirt"}, loc)
	assert.Equal(t, "minecraft:block/dirt", loc.String())

	loc, err = Parse("modid", "block/dirt")
	require.NoError(t, err)
	assert.Equal(t, "modid:block/dirt", loc.String())
}

func TestParseKind_RoundTrip(t *testing.T) {
	for k := range kindLayouts {
		got, ok := ParseKind(k.String())
		require.True(t, ok)
		assert.Equal(t, k, got)
	}
	_, ok := ParseKind("nope")
	assert.False(t, ok)
}

func TestKind_Aggregated(t *testing.T) {
	assert.True(t, KindTag.Aggregated())
	assert.True(t, KindLang.Aggregated())
	assert.False(t, KindRecipe.Aggregated())
}
