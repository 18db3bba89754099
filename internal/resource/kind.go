package resource

// Kind selects the directory prefix an artifact is stored under.
type Kind int

const (
	KindBlockState Kind = iota + 1
	KindModel
	KindRecipe
	KindTag
	KindLang
	KindLootTable
	KindWorldGen
	KindData
	KindAdvancement
	KindAsset
)

var kindLayouts = map[Kind]struct {
	name string
	side string
	dir  string
}{
	KindBlockState:  {"blockstate", "assets", "blockstates"},
	KindModel:       {"model", "assets", "models"},
	KindLang:        {"lang", "assets", "lang"},
	KindAsset:       {"asset", "assets", ""},
	KindRecipe:      {"recipe", "data", "recipes"},
	KindTag:         {"tag", "data", "tags"},
	KindLootTable:   {"loot_table", "data", "loot_tables"},
	KindWorldGen:    {"worldgen", "data", "worldgen"},
	KindAdvancement: {"advancement", "data", "advancements"},
	KindData:        {"data", "data", ""},
}

func (k Kind) Valid() bool {
	_, ok := kindLayouts[k]
	return ok
}

func (k Kind) String() string {
	if l, ok := kindLayouts[k]; ok {
		return l.name
	}
	return "unknown"
}

// Aggregated reports whether artifacts of this kind are accumulated across a
// run and written once on flush rather than written immediately.
func (k Kind) Aggregated() bool {
	return k == KindTag || k == KindLang
}

func (k Kind) layout() (side, dir string) {
	l := kindLayouts[k]
	return l.side, l.dir
}

// ParseKind maps the names returned by Kind.String back to kinds.
func ParseKind(name string) (Kind, bool) {
	for k, l := range kindLayouts {
		if l.name == name {
			return k, true
		}
	}
	return 0, false
}
