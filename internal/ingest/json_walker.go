package ingest

import (
	"fmt"

	"github.com/ohler55/ojg/jp"
)

// JSONWalker compiles JSONPath selectors.
type JSONWalker struct{}

func NewJSONWalker() *JSONWalker {
	return &JSONWalker{}
}

func (JSONWalker) Compile(selector string) (Selector, error) {
	if selector == "" {
		return rootSelector{}, nil
	}
	x, err := jp.ParseString(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid jsonpath '%s': %w", selector, err)
	}
	return pathSelector{expr: x}, nil
}

type rootSelector struct{}

func (rootSelector) Select(root any) []map[string]any {
	return []map[string]any{bindings(root)}
}

type pathSelector struct {
	expr jp.Expr
}

func (s pathSelector) Select(root any) []map[string]any {
	results := s.expr.Get(root)
	out := make([]map[string]any, len(results))
	for i, r := range results {
		out[i] = bindings(r)
	}
	return out
}

func bindings(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{"value": v}
}
