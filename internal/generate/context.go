package generate

import (
	"github.com/agentic-research/resgen/internal/aggregate"
	"github.com/agentic-research/resgen/internal/document"
	"github.com/agentic-research/resgen/internal/resource"
)

// BlockContext chains builder calls for one block. The first failing call
// is kept in Err and every later call is skipped.
type BlockContext struct {
	m   *Manager
	loc resource.Location
	err error
}

// Block returns a context for the block name.
func (m *Manager) Block(name string) *BlockContext {
	loc, err := m.location(name)
	return &BlockContext{m: m, loc: loc, err: err}
}

func (b *BlockContext) Err() error { return b.err }

func (b *BlockContext) Location() resource.Location { return b.loc }

func (b *BlockContext) do(fn func(name string) error) *BlockContext {
	if b.err == nil {
		b.err = fn(b.loc.String())
	}
	return b
}

func (b *BlockContext) WithBlockState(opts BlockStateOptions) *BlockContext {
	return b.do(func(name string) error { return b.m.BlockState(name, opts) })
}

func (b *BlockContext) WithBlockStateMultipart(cases ...MultipartCase) *BlockContext {
	return b.do(func(name string) error { return b.m.BlockStateMultipart(name, cases...) })
}

func (b *BlockContext) WithBlockModel(opts BlockModelOptions) *BlockContext {
	return b.do(func(name string) error { return b.m.BlockModel(name, opts) })
}

func (b *BlockContext) WithBlockLoot(pools ...LootPool) *BlockContext {
	return b.do(func(name string) error { return b.m.BlockLoot(name, pools...) })
}

// WithItemModel writes the block item model: a bare reference to the block
// model of the same name.
func (b *BlockContext) WithItemModel() *BlockContext {
	return b.do(func(name string) error {
		return b.m.ItemModel(name, ItemModelOptions{
			Parent:     b.loc.Namespace + ":block/" + b.loc.Path,
			NoTextures: true,
		})
	})
}

// WithTag adds the block to the block tag tagName, or to the tag named
// after the block when tagName is empty.
func (b *BlockContext) WithTag(tagName string, replace bool) *BlockContext {
	return b.do(func(name string) error {
		if tagName == "" {
			tagName = name
		}
		return b.m.BlockTag(tagName, replace, name)
	})
}

// WithLang adds "block.<ns>.<path>" to the lang file of language.
func (b *BlockContext) WithLang(displayName, language string) *BlockContext {
	return b.do(func(string) error {
		return b.m.Lang(language, aggregate.LangEntry{Key: translationKey("block", b.loc), Value: displayName})
	})
}

// ItemContext chains builder calls for one item. Errors behave as for
// BlockContext.
type ItemContext struct {
	m   *Manager
	loc resource.Location
	err error
}

func (m *Manager) Item(name string) *ItemContext {
	loc, err := m.location(name)
	return &ItemContext{m: m, loc: loc, err: err}
}

func (i *ItemContext) Err() error { return i.err }

func (i *ItemContext) Location() resource.Location { return i.loc }

func (i *ItemContext) do(fn func(name string) error) *ItemContext {
	if i.err == nil {
		i.err = fn(i.loc.String())
	}
	return i
}

func (i *ItemContext) WithItemModel(opts ItemModelOptions) *ItemContext {
	return i.do(func(name string) error { return i.m.ItemModel(name, opts) })
}

func (i *ItemContext) WithTag(tagName string, replace bool) *ItemContext {
	return i.do(func(name string) error {
		if tagName == "" {
			tagName = name
		}
		return i.m.ItemTag(tagName, replace, name)
	})
}

func (i *ItemContext) WithLang(displayName, language string) *ItemContext {
	return i.do(func(string) error {
		return i.m.Lang(language, aggregate.LangEntry{Key: translationKey("item", i.loc), Value: displayName})
	})
}

// RecipeContext is returned by the recipe builders.
type RecipeContext struct {
	m   *Manager
	loc resource.Location
	err error
}

func (r *RecipeContext) Err() error { return r.err }

func (r *RecipeContext) Location() resource.Location { return r.loc }

const DefaultRecipeAdvancementParent = "minecraft:recipes/root"

// WithAdvancement writes the advancement that unlocks this recipe once the
// player holds unlock. An empty parent means the vanilla recipes root.
func (r *RecipeContext) WithAdvancement(unlock ItemStack, parent string) *RecipeContext {
	if r.err != nil {
		return r
	}
	if parent == "" {
		parent = DefaultRecipeAdvancementParent
	}
	recipe := r.loc.String()
	r.err = r.m.Advancement(recipe, AdvancementOptions{
		Parent: parent,
		Criteria: map[string]document.Document{
			"has_item":       InventoryChanged(unlock),
			"has_the_recipe": RecipeUnlocked(recipe),
		},
		Requirements: [][]string{{"has_item", "has_the_recipe"}},
		Rewards:      document.Document{"recipes": []string{recipe}},
	})
	return r
}
