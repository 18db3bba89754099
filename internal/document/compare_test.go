package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marked(t *testing.T, d Document) Document {
	t.Helper()
	m, err := Mark(d)
	require.NoError(t, err)
	return m
}

func TestCompare_Absent(t *testing.T) {
	assert.Equal(t, DecisionWrite, Compare(nil, marked(t, Document{"a": 1})))
	assert.True(t, ShouldWrite(nil, marked(t, Document{"a": 1})))
}

func TestCompare_UnmarkedIsProtected(t *testing.T) {
	existing := Document{"a": int64(1)}
	assert.Equal(t, DecisionProtected, Compare(existing, marked(t, Document{"a": 1})))
	assert.Equal(t, DecisionProtected, Compare(existing, marked(t, Document{"a": 2})))
	assert.Equal(t, DecisionProtected, Compare(Document{}, marked(t, Document{})))
}

func TestCompare_MarkedIdentical(t *testing.T) {
	existing := marked(t, Document{"variants": map[string]any{"": map[string]any{"model": "modid:block/stone"}}})
	candidate := marked(t, Document{"variants": map[string]any{"": map[string]any{"model": "modid:block/stone"}}})
	assert.Equal(t, DecisionIdentical, Compare(existing, candidate))
	assert.False(t, ShouldWrite(existing, candidate))
}

func TestCompare_MarkedDifferent(t *testing.T) {
	existing := marked(t, Document{"parent": "block/cube_all"})
	candidate := marked(t, Document{"parent": "block/cube_column"})
	assert.Equal(t, DecisionWrite, Compare(existing, candidate))
}

func TestCompare_ListOrderMatters(t *testing.T) {
	existing := marked(t, Document{"values": []any{"a", "b"}})
	candidate := marked(t, Document{"values": []any{"b", "a"}})
	assert.Equal(t, DecisionWrite, Compare(existing, candidate))
}

func TestEqual_IgnoresMarker(t *testing.T) {
	a := Document{"x": "1", MarkerKey: MarkerValue}
	b := Document{"x": "1"}
	assert.True(t, Equal(a, b))
}

func TestDecision_String(t *testing.T) {
	assert.Equal(t, "write", DecisionWrite.String())
	assert.Equal(t, "identical", DecisionIdentical.String())
	assert.Equal(t, "protected", DecisionProtected.String())
}
