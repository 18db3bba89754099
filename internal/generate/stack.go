package generate

import (
	"strings"

	"github.com/agentic-research/resgen/internal/document"
)

// ItemStack is one of Item, TagRef, Counted or RawStack.
type ItemStack interface {
	stackDocument() document.Document
}

// Item references an item by id.
type Item string

// TagRef references every item in a tag.
type TagRef string

// Counted is a stack with an explicit count.
type Counted struct {
	Count int
	Stack ItemStack
}

// RawStack is inserted as given.
type RawStack document.Document

func (i Item) stackDocument() document.Document { return document.Document{"item": string(i)} }

func (t TagRef) stackDocument() document.Document { return document.Document{"tag": string(t)} }

func (c Counted) stackDocument() document.Document {
	d := document.Document{"count": c.Count}
	if c.Stack != nil {
		for k, v := range c.Stack.stackDocument() {
			d[k] = v
		}
	}
	return d
}

func (r RawStack) stackDocument() document.Document { return copyDocument(document.Document(r)) }

// ParseItemStack reads the text form used in descriptions: "tag!<id>" for a
// tag, anything else for an item.
func ParseItemStack(s string) ItemStack {
	if rest, ok := strings.CutPrefix(s, "tag!"); ok {
		return TagRef(rest)
	}
	return Item(s)
}

func stackList(stacks []ItemStack) []any {
	out := make([]any, 0, len(stacks))
	for _, s := range stacks {
		if s != nil {
			out = append(out, s.stackDocument())
		}
	}
	return out
}

// Condition is one of NamedCondition or RawCondition.
type Condition interface {
	conditionDocument(field string) document.Document
}

// NamedCondition expands to {"type": name} in recipes and
// {"condition": name} in loot tables.
type NamedCondition string

type RawCondition document.Document

func (n NamedCondition) conditionDocument(field string) document.Document {
	return document.Document{field: string(n)}
}

func (r RawCondition) conditionDocument(string) document.Document {
	return copyDocument(document.Document(r))
}

// conditionList returns nil for no conditions so the field is omitted.
func conditionList(conds []Condition, field string) any {
	if len(conds) == 0 {
		return nil
	}
	out := make([]any, 0, len(conds))
	for _, c := range conds {
		if c != nil {
			out = append(out, c.conditionDocument(field))
		}
	}
	return out
}

// Function is one of NamedFunction or RawFunction (loot functions).
type Function interface {
	functionDocument() document.Document
}

// NamedFunction expands to {"function": name}.
type NamedFunction string

type RawFunction document.Document

func (n NamedFunction) functionDocument() document.Document {
	return document.Document{"function": string(n)}
}

func (r RawFunction) functionDocument() document.Document {
	return copyDocument(document.Document(r))
}

func functionList(fns []Function) any {
	if len(fns) == 0 {
		return nil
	}
	out := make([]any, 0, len(fns))
	for _, f := range fns {
		if f != nil {
			out = append(out, f.functionDocument())
		}
	}
	return out
}

func copyDocument(d document.Document) document.Document {
	out := make(document.Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}
