package generate

import (
	"errors"
	"fmt"

	"github.com/agentic-research/resgen/internal/document"
)

var errBadTypeConfig = errors.New("not a type or {type, config} pair")

// Decorated wraps feature in a minecraft:decorated feature placed by the
// decorator typ.
func Decorated(feature any, typ string, config document.Document) document.Document {
	return Configure("minecraft:decorated", document.Document{
		"feature":   feature,
		"decorator": Configure(typ, config),
	})
}

// SurfaceBuilderConfig is the top, under and underwater material config of
// a surface builder. Each argument is a block state in "ns:block[props]"
// form.
func SurfaceBuilderConfig(top, under, underwater string) (document.Document, error) {
	out := make(document.Document, 3)
	for field, state := range map[string]string{
		"top_material":        top,
		"under_material":      under,
		"underwater_material": underwater,
	} {
		ref, err := BlockStateRef(state)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", field, err)
		}
		out[field] = ref
	}
	return out, nil
}

// ExpandTypeConfig accepts the shorthand forms world-gen objects are
// written in and returns the full {"type", "config"} pair: a bare type
// name, a document with "type" and optional "config", or a two-element
// list of type and config.
func ExpandTypeConfig(v any) (document.Document, error) {
	switch t := v.(type) {
	case string:
		return Configure(t, nil), nil
	case document.Document:
		return expandDocument(t)
	case map[string]any:
		return expandDocument(t)
	case []any:
		if len(t) == 2 {
			typ, ok := t[0].(string)
			config, isDoc := asDocument(t[1])
			if ok && isDoc {
				return Configure(typ, config), nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %v", errBadTypeConfig, v)
}

func expandDocument(d document.Document) (document.Document, error) {
	typ, ok := d["type"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: %v", errBadTypeConfig, d)
	}
	config, ok := asDocument(d["config"])
	if !ok && d["config"] != nil {
		return nil, fmt.Errorf("%w: %v", errBadTypeConfig, d)
	}
	return Configure(typ, config), nil
}

func asDocument(v any) (document.Document, bool) {
	switch t := v.(type) {
	case document.Document:
		return t, true
	case map[string]any:
		return t, true
	}
	return nil, false
}
