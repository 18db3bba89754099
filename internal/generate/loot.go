package generate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agentic-research/resgen/internal/document"
	"github.com/agentic-research/resgen/internal/resource"
)

// LootEntry is one of ItemEntry, TagEntry or RawEntry.
type LootEntry interface {
	entryDocument() document.Document
}

type ItemEntry string

type TagEntry string

// RawEntry is inserted as given.
type RawEntry document.Document

func (e ItemEntry) entryDocument() document.Document {
	return document.Document{"type": "minecraft:item", "name": string(e)}
}

func (e TagEntry) entryDocument() document.Document {
	return document.Document{"type": "minecraft:tag", "name": string(e)}
}

func (e RawEntry) entryDocument() document.Document {
	return copyDocument(document.Document(e))
}

// ParseLootEntry reads "tag!<id>" as a tag entry and anything else as an
// item entry.
func ParseLootEntry(s string) LootEntry {
	if rest, ok := strings.CutPrefix(s, "tag!"); ok {
		return TagEntry(rest)
	}
	return ItemEntry(s)
}

// LootPool is one pool of a loot table.
type LootPool struct {
	Entries []LootEntry
	// Rolls defaults to 1.
	Rolls      any
	BonusRolls any
	// Conditions nil means the block default (survives_explosion); an
	// empty non-nil slice means none.
	Conditions []Condition
	Functions  []Function
}

// Pool is a one-roll pool over entries with default conditions.
func Pool(entries ...LootEntry) LootPool {
	return LootPool{Entries: entries}
}

var survivesExplosion = []Condition{NamedCondition("minecraft:survives_explosion")}

func (p LootPool) document() document.Document {
	rolls := p.Rolls
	if rolls == nil {
		rolls = 1
	}
	entries := make([]any, 0, len(p.Entries))
	for _, e := range p.Entries {
		if e != nil {
			entries = append(entries, e.entryDocument())
		}
	}
	conds := p.Conditions
	if conds == nil {
		conds = survivesExplosion
	}
	return document.Document{
		"name":        "loot_pool",
		"rolls":       rolls,
		"bonus_rolls": p.BonusRolls,
		"entries":     entries,
		"conditions":  conditionList(conds, "condition"),
		"functions":   functionList(p.Functions),
	}
}

// BlockLoot writes data/<ns>/loot_tables/blocks/<name>.json.
func (m *Manager) BlockLoot(name string, pools ...LootPool) error {
	docs := make([]any, 0, len(pools))
	for _, p := range pools {
		docs = append(docs, p.document())
	}
	return m.write(resource.KindLootTable, name, document.Document{
		"type":  "minecraft:block",
		"pools": docs,
	}, "blocks")
}

// Alternatives is a minecraft:alternatives entry: the first child whose
// conditions pass is used.
func Alternatives(children ...LootEntry) RawEntry {
	list := make([]any, 0, len(children))
	for _, c := range children {
		if c != nil {
			list = append(list, c.entryDocument())
		}
	}
	return RawEntry{"type": "minecraft:alternatives", "children": list}
}

func AllOf(terms ...Condition) RawCondition {
	return RawCondition{"condition": "minecraft:all_of", "terms": conditionList(terms, "condition")}
}

func AnyOf(terms ...Condition) RawCondition {
	return RawCondition{"condition": "minecraft:any_of", "terms": conditionList(terms, "condition")}
}

func Inverted(term Condition) RawCondition {
	return RawCondition{"condition": "minecraft:inverted", "term": term.conditionDocument("condition")}
}

func RandomChance(chance float64) RawCondition {
	return RawCondition{"condition": "minecraft:random_chance", "chance": chance}
}

var errNoProperties = errors.New("block state property condition needs at least one property")

// BlockStateProperty matches the broken block against state, given as
// "ns:block[prop=value,...]" with at least one property.
func BlockStateProperty(state string) (RawCondition, error) {
	ref, err := BlockStateRef(state)
	if err != nil {
		return nil, err
	}
	props := ref["Properties"].(map[string]string)
	if len(props) == 0 {
		return nil, fmt.Errorf("%w: %q", errNoProperties, state)
	}
	return RawCondition{"condition": "minecraft:block_state_property", "block": ref["Name"], "properties": props}, nil
}

// MatchTag passes when the tool is in the item tag.
func MatchTag(tag string) RawCondition {
	return RawCondition{"condition": "minecraft:match_tool", "predicate": document.Document{"tag": tag}}
}

func SilkTouch() RawCondition {
	return RawCondition{
		"condition": "minecraft:match_tool",
		"predicate": document.Document{"enchantments": []any{document.Document{
			"enchantment": "minecraft:silk_touch",
			"levels":      document.Document{"min": 1},
		}}},
	}
}

// FortuneTable passes with chances[level] for the tool's fortune level.
func FortuneTable(chances ...float64) RawCondition {
	return RawCondition{"condition": "minecraft:table_bonus", "enchantment": "minecraft:fortune", "chances": chances}
}

// SetCount sets a fixed count, or a uniform count in [lo, hi] when hi > lo.
func SetCount(lo, hi int) RawFunction {
	var count any = lo
	if hi > lo {
		count = document.Document{"type": "minecraft:uniform", "min": lo, "max": hi}
	}
	return RawFunction{"function": "minecraft:set_count", "count": count}
}

// FortuneBonus adds a uniform fortune bonus to the count.
func FortuneBonus(multiplier int) RawFunction {
	return RawFunction{
		"function":    "minecraft:apply_bonus",
		"enchantment": "minecraft:fortune",
		"formula":     "minecraft:uniform_bonus_count",
		"parameters":  document.Document{"bonusMultiplier": multiplier},
	}
}

func ExplosionDecay() RawFunction {
	return RawFunction{"function": "minecraft:explosion_decay"}
}
