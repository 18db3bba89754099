package generate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agentic-research/resgen/internal/aggregate"
	"github.com/agentic-research/resgen/internal/document"
	"github.com/agentic-research/resgen/internal/resource"
)

var errNoCriteria = errors.New("advancement has no criteria")

type AdvancementOptions struct {
	Display  document.Document
	Parent   string
	Criteria map[string]document.Document
	// Requirements defaults to one group holding every criterion.
	Requirements [][]string
	Rewards      document.Document
}

// Advancement writes data/<ns>/advancements/<name>.json.
func (m *Manager) Advancement(name string, opts AdvancementOptions) error {
	if len(opts.Criteria) == 0 {
		return fmt.Errorf("advancement %s: %w", name, errNoCriteria)
	}
	reqs := opts.Requirements
	if reqs == nil {
		reqs = [][]string{sortedKeys(opts.Criteria)}
	}
	doc := document.Document{
		"criteria":     opts.Criteria,
		"display":      opts.Display,
		"requirements": reqs,
		"rewards":      opts.Rewards,
	}
	if opts.Parent != "" {
		doc["parent"] = opts.Parent
	}
	return m.write(resource.KindAdvancement, name, doc)
}

// InventoryChanged is the minecraft:inventory_changed criterion.
func InventoryChanged(items ...ItemStack) document.Document {
	return document.Document{
		"trigger":    "minecraft:inventory_changed",
		"conditions": document.Document{"items": stackList(items)},
	}
}

// RecipeUnlocked is the minecraft:recipe_unlocked criterion.
func RecipeUnlocked(recipe string) document.Document {
	return document.Document{
		"trigger":    "minecraft:recipe_unlocked",
		"conditions": document.Document{"recipe": recipe},
	}
}

// EnterBiome is the minecraft:location criterion for entering biome.
func EnterBiome(biome string) document.Document {
	return document.Document{
		"trigger":    "minecraft:location",
		"conditions": document.Document{"biome": biome},
	}
}

// FirstTick is the minecraft:tick criterion, met on the first game tick.
func FirstTick() document.Document {
	return document.Document{"trigger": "minecraft:tick"}
}

// ConsumeItem is the minecraft:consume_item criterion for item.
func ConsumeItem(item ItemStack) document.Document {
	return document.Document{
		"trigger":    "minecraft:consume_item",
		"conditions": document.Document{"item": stackDocument(item)},
	}
}

// AdvancementCategory writes a tree of displayed advancements under
// data/<ns>/advancements/<category>/, with their titles and descriptions in
// the default language file.
type AdvancementCategory struct {
	m          *Manager
	category   string
	background string
}

// AdvancementCategory starts a category. background is the texture behind
// the root advancement's tab.
func (m *Manager) AdvancementCategory(category, background string) *AdvancementCategory {
	return &AdvancementCategory{m: m, category: category, background: background}
}

// AdvancementEntry is one displayed advancement.
type AdvancementEntry struct {
	Name        string
	Icon        ItemStack
	Title       string
	Description string
	Criteria    map[string]document.Document
	// Requirements defaults to one group holding every criterion.
	Requirements [][]string
	// Frame defaults to "task".
	Frame   string
	NoToast bool
	NoChat  bool
	Hidden  bool
}

// Root writes the category's root advancement, the one carrying the tab
// background.
func (c *AdvancementCategory) Root(e AdvancementEntry) *AdvancementContext {
	return &AdvancementContext{c: c, name: e.Name, err: c.write(e, "")}
}

func (c *AdvancementCategory) write(e AdvancementEntry, parent string) error {
	loc, err := c.m.location(c.category + "/" + e.Name)
	if err != nil {
		return err
	}
	key := strings.Join([]string{loc.Namespace, "advancements", c.category, e.Name}, ".")
	key = strings.ReplaceAll(key, "/", ".")
	frame := e.Frame
	if frame == "" {
		frame = "task"
	}
	display := document.Document{
		"icon":             stackDocument(e.Icon),
		"title":            document.Document{"translate": key + ".title"},
		"description":      document.Document{"translate": key + ".description"},
		"frame":            frame,
		"show_toast":       !e.NoToast,
		"announce_to_chat": !e.NoChat,
		"hidden":           e.Hidden,
	}
	opts := AdvancementOptions{Display: display, Criteria: e.Criteria, Requirements: e.Requirements}
	if parent == "" {
		display["background"] = c.background
	} else {
		opts.Parent = loc.Namespace + ":" + c.category + "/" + parent
	}
	if err := c.m.Advancement(loc.String(), opts); err != nil {
		return err
	}
	return c.m.Lang("",
		aggregate.LangEntry{Key: key + ".title", Value: e.Title},
		aggregate.LangEntry{Key: key + ".description", Value: e.Description},
	)
}

// AdvancementContext is one written advancement of a category. A failed
// write is kept in Err and carried into every child.
type AdvancementContext struct {
	c    *AdvancementCategory
	name string
	err  error
}

func (a *AdvancementContext) Err() error { return a.err }

// AddChild writes e with this advancement as its parent and returns the
// child's context.
func (a *AdvancementContext) AddChild(e AdvancementEntry) *AdvancementContext {
	child := &AdvancementContext{c: a.c, name: e.Name, err: a.err}
	if child.err == nil {
		child.err = a.c.write(e, a.name)
	}
	return child
}
