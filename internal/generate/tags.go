package generate

import (
	"strings"

	"github.com/agentic-research/resgen/internal/aggregate"
	"github.com/agentic-research/resgen/internal/resource"
)

// Tag registries.
const (
	TagItems    = "items"
	TagBlocks   = "blocks"
	TagFluids   = "fluids"
	TagEntities = "entity_types"
)

// Tag contributes values to data/<ns>/tags/<tagType>/<name>.json. Nothing
// is written until Flush.
func (m *Manager) Tag(tagType, name string, replace bool, values ...string) error {
	k, err := m.key(resource.KindTag, name, tagType)
	if err != nil {
		return err
	}
	vs := make([]any, len(values))
	for i, v := range values {
		vs[i] = v
	}
	return m.buf.AddTag(k, replace, vs...)
}

func (m *Manager) ItemTag(name string, replace bool, values ...string) error {
	return m.Tag(TagItems, name, replace, values...)
}

func (m *Manager) BlockTag(name string, replace bool, values ...string) error {
	return m.Tag(TagBlocks, name, replace, values...)
}

func (m *Manager) FluidTag(name string, replace bool, values ...string) error {
	return m.Tag(TagFluids, name, replace, values...)
}

func (m *Manager) EntityTag(name string, replace bool, values ...string) error {
	return m.Tag(TagEntities, name, replace, values...)
}

// Lang contributes translation entries to assets/<ns>/lang/<language>.json.
// An empty language means the manager default. Nothing is written until
// Flush.
func (m *Manager) Lang(language string, entries ...aggregate.LangEntry) error {
	return m.lang(language, false, entries)
}

// ReplaceLang is Lang, discarding entries contributed to the same language
// earlier in the run.
func (m *Manager) ReplaceLang(language string, entries ...aggregate.LangEntry) error {
	return m.lang(language, true, entries)
}

func (m *Manager) lang(language string, replace bool, entries []aggregate.LangEntry) error {
	if language == "" {
		language = m.language
	}
	k, err := resource.New(m.ns, resource.KindLang, language)
	if err != nil {
		return err
	}
	return m.buf.AddLang(k, replace, entries...)
}

// LangMap turns a translation map into entries in key order.
func LangMap(entries map[string]string) []aggregate.LangEntry {
	out := make([]aggregate.LangEntry, 0, len(entries))
	for _, k := range sortedKeys(entries) {
		out = append(out, aggregate.LangEntry{Key: k, Value: entries[k]})
	}
	return out
}

// translationKey is "<prefix>.<ns>.<path>" with "/" turned into ".".
func translationKey(prefix string, loc resource.Location) string {
	return prefix + "." + loc.Namespace + "." + strings.ReplaceAll(loc.Path, "/", ".")
}
