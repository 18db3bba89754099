package generate

import (
	"errors"
	"fmt"

	"github.com/agentic-research/resgen/internal/document"
	"github.com/agentic-research/resgen/internal/resource"
)

// RecipeOptions holds the fields every recipe may carry.
type RecipeOptions struct {
	Group      string
	Conditions []Condition
}

func (o RecipeOptions) apply(doc document.Document) {
	if o.Group != "" {
		doc["group"] = o.Group
	}
	doc["conditions"] = conditionList(o.Conditions, "type")
}

// CraftingShapeless writes a minecraft:crafting_shapeless recipe.
func (m *Manager) CraftingShapeless(name string, ingredients []ItemStack, result ItemStack, opts RecipeOptions) (*RecipeContext, error) {
	doc := document.Document{
		"type":        "minecraft:crafting_shapeless",
		"ingredients": stackList(ingredients),
		"result":      stackDocument(result),
	}
	opts.apply(doc)
	return m.recipe(name, doc)
}

var errEmptyPattern = errors.New("empty crafting pattern")

// CraftingShaped writes a minecraft:crafting_shaped recipe. key maps pattern
// characters to ingredients.
func (m *Manager) CraftingShaped(name string, pattern []string, key map[string]ItemStack, result ItemStack, opts RecipeOptions) (*RecipeContext, error) {
	if len(pattern) == 0 || len(pattern[0]) == 0 {
		return nil, fmt.Errorf("recipe %s: %w", name, errEmptyPattern)
	}
	keys := make(document.Document, len(key))
	for _, ch := range sortedKeys(key) {
		keys[ch] = stackDocument(key[ch])
	}
	doc := document.Document{
		"type":    "minecraft:crafting_shaped",
		"pattern": pattern,
		"key":     keys,
		"result":  stackDocument(result),
	}
	opts.apply(doc)
	return m.recipe(name, doc)
}

// ShapedKey is the key of a shaped recipe whose pattern uses a single
// ingredient character, taken from the first character of the pattern.
func ShapedKey(pattern []string, ingredient ItemStack) map[string]ItemStack {
	if len(pattern) == 0 || len(pattern[0]) == 0 {
		return nil
	}
	return map[string]ItemStack{pattern[0][:1]: ingredient}
}

// Recipe writes a recipe of any type. Fields of data are inserted as given.
func (m *Manager) Recipe(name, typ string, data document.Document, opts RecipeOptions) (*RecipeContext, error) {
	doc := copyDocument(data)
	doc["type"] = typ
	opts.apply(doc)
	return m.recipe(name, doc)
}

func (m *Manager) recipe(name string, doc document.Document) (*RecipeContext, error) {
	if err := m.write(resource.KindRecipe, name, doc); err != nil {
		return nil, err
	}
	loc, _ := m.location(name)
	return &RecipeContext{m: m, loc: loc}, nil
}

func stackDocument(s ItemStack) document.Document {
	if s == nil {
		return nil
	}
	return s.stackDocument()
}
