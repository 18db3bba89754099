// Package ingest runs a procedural description against a generate.Manager:
// every rule selects pieces of the description data and turns each one into
// a builder call.
package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/ohler55/ojg/oj"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentic-research/resgen/api"
	"github.com/agentic-research/resgen/internal/aggregate"
	"github.com/agentic-research/resgen/internal/document"
	"github.com/agentic-research/resgen/internal/generate"
	"github.com/agentic-research/resgen/internal/resource"
)

var (
	ErrUnknownKind     = errors.New("unknown rule kind")
	ErrMissingTemplate = errors.New("rule needs a template")
	ErrMissingTagType  = errors.New("tag rule needs a tag_type")
	// ErrUnusedValues rejects values on a rule kind that has no use for them.
	ErrUnusedValues = errors.New("rule kind takes no values")
)

// Engine drives the rules of one description.
type Engine struct {
	desc   *api.Description
	m      *generate.Manager
	walker Walker
	log    *zap.Logger
}

type Option func(*Engine)

func WithWalker(w Walker) Option {
	return func(e *Engine) {
		if w != nil {
			e.walker = w
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

func NewEngine(desc *api.Description, m *generate.Manager, opts ...Option) *Engine {
	e := &Engine{
		desc:   desc,
		m:      m,
		walker: NewJSONWalker(),
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Stats counts what a run did.
type Stats struct {
	Rules   int
	Matches int
}

// Run executes every rule in order. It stops at the first error; artifacts
// already written stay in place. Run does not flush the manager.
func (e *Engine) Run(ctx context.Context) (Stats, error) {
	var st Stats
	for i, r := range e.desc.Rules {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		n, err := e.runRule(ctx, r)
		st.Matches += n
		if err != nil {
			return st, fmt.Errorf("rule %d (%s): %w", i, r.Kind, err)
		}
		st.Rules++
		e.log.Debug("rule done", zap.Int("rule", i), zap.String("kind", r.Kind), zap.Int("matches", n))
	}
	return st, nil
}

func (e *Engine) runRule(ctx context.Context, r api.Rule) (int, error) {
	call, err := e.compile(r)
	if err != nil {
		return 0, err
	}

	sel, err := e.walker.Compile(r.Selector)
	if err != nil {
		return 0, err
	}

	matches := sel.Select(e.desc.Data)
	for i, vals := range matches {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if err := call(vals); err != nil {
			return i, fmt.Errorf("match %d: %w", i, err)
		}
	}
	return len(matches), nil
}

// compile parses the rule templates once and returns the call to make per
// match.
func (e *Engine) compile(r api.Rule) (func(map[string]any) error, error) {
	name, err := parseTemplate("name", r.Name)
	if err != nil {
		return nil, err
	}

	switch r.Kind {
	case "block":
		return func(vals map[string]any) error {
			n, err := render(name, vals)
			if err != nil {
				return err
			}
			b := e.m.Block(n)
			loc := b.Location()
			return b.WithBlockState(generate.BlockStateOptions{}).
				WithBlockModel(generate.BlockModelOptions{}).
				WithItemModel().
				WithBlockLoot(generate.Pool(generate.ItemEntry(loc.String()))).
				Err()
		}, nil

	case "block_model", "item_model":
		// Block model textures are named, so they come from the template.
		if r.Kind == "block_model" && len(r.Values) > 0 {
			return nil, fmt.Errorf("%w: %s takes textures from its template", ErrUnusedValues, r.Kind)
		}
		body, err := parseTemplate("template", r.Template)
		if err != nil {
			return nil, err
		}
		values, err := parseTemplates("values", r.Values)
		if err != nil {
			return nil, err
		}
		return func(vals map[string]any) error {
			n, err := render(name, vals)
			if err != nil {
				return err
			}
			doc, err := renderDocument(body, vals)
			if err != nil {
				return err
			}
			if r.Kind == "block_model" {
				return e.m.BlockModel(n, blockModelOptions(doc))
			}
			textures, err := renderAll(values, vals)
			if err != nil {
				return err
			}
			opts := generate.ItemModelOptions{Textures: textures}
			if p, ok := doc["parent"].(string); ok {
				opts.Parent = p
			}
			return e.m.ItemModel(n, opts)
		}, nil

	case "tag":
		if r.TagType == "" {
			return nil, ErrMissingTagType
		}
		values, err := parseTemplates("values", r.Values)
		if err != nil {
			return nil, err
		}
		replaced := map[string]bool{}
		return func(vals map[string]any) error {
			n, err := render(name, vals)
			if err != nil {
				return err
			}
			vs, err := renderAll(values, vals)
			if err != nil {
				return err
			}
			// Replace applies once per tag so later matches of the same
			// rule do not discard earlier ones.
			replace := r.Replace && !replaced[n]
			replaced[n] = true
			return e.m.Tag(r.TagType, n, replace, vs...)
		}, nil

	case "lang":
		lang, err := parseTemplate("language", r.Language)
		if err != nil {
			return nil, err
		}
		keys := make([]*template.Template, 0, len(r.Entries))
		texts := make([]*template.Template, 0, len(r.Entries))
		for _, k := range sortedKeys(r.Entries) {
			kt, err := parseTemplate("entry key", k)
			if err != nil {
				return nil, err
			}
			vt, err := parseTemplate("entry value", r.Entries[k])
			if err != nil {
				return nil, err
			}
			keys = append(keys, kt)
			texts = append(texts, vt)
		}
		replaced := map[string]bool{}
		return func(vals map[string]any) error {
			l, err := render(lang, vals)
			if err != nil {
				return err
			}
			entries := make([]aggregate.LangEntry, 0, len(keys))
			for i := range keys {
				k, err := render(keys[i], vals)
				if err != nil {
					return err
				}
				v, err := render(texts[i], vals)
				if err != nil {
					return err
				}
				entries = append(entries, aggregate.LangEntry{Key: k, Value: v})
			}
			if r.Replace && !replaced[l] {
				replaced[l] = true
				return e.m.ReplaceLang(l, entries...)
			}
			return e.m.Lang(l, entries...)
		}, nil
	}

	kind, ok := resource.ParseKind(r.Kind)
	if !ok || kind.Aggregated() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, r.Kind)
	}
	if strings.TrimSpace(r.Template) == "" {
		return nil, ErrMissingTemplate
	}
	body, err := parseTemplate("template", r.Template)
	if err != nil {
		return nil, err
	}
	return func(vals map[string]any) error {
		n, err := render(name, vals)
		if err != nil {
			return err
		}
		doc, err := renderDocument(body, vals)
		if err != nil {
			return err
		}
		return e.m.Document(kind, n, doc)
	}, nil
}

func blockModelOptions(doc document.Document) generate.BlockModelOptions {
	var opts generate.BlockModelOptions
	if p, ok := doc["parent"].(string); ok {
		opts.Parent = p
	}
	if tex, ok := doc["textures"].(map[string]any); ok {
		opts.Textures = make(map[string]string, len(tex))
		for k, v := range tex {
			opts.Textures[k] = fmt.Sprint(v)
		}
	}
	if els, ok := doc["elements"].([]any); ok {
		for _, el := range els {
			if m, ok := el.(map[string]any); ok {
				opts.Elements = append(opts.Elements, document.Document(m))
			}
		}
	}
	return opts
}

var tmplFuncs = template.FuncMap{
	"json": func(v any) string {
		return oj.JSON(v, &oj.Options{Sort: true})
	},
	"first": func(v any) any {
		switch s := v.(type) {
		case []any:
			if len(s) > 0 {
				return s[0]
			}
		}
		return nil
	},
	// title turns "copper_ore" into "Copper Ore".
	"title": func(s string) string {
		return cases.Title(language.English).String(strings.ReplaceAll(s, "_", " "))
	},
	"lower":   strings.ToLower,
	"replace": strings.ReplaceAll,
}

func parseTemplate(field, tmpl string) (*template.Template, error) {
	t, err := template.New(field).Funcs(tmplFuncs).Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return nil, fmt.Errorf("parse %s template: %w", field, err)
	}
	return t, nil
}

func parseTemplates(field string, tmpls []string) ([]*template.Template, error) {
	out := make([]*template.Template, 0, len(tmpls))
	for _, s := range tmpls {
		t, err := parseTemplate(field, s)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func render(t *template.Template, values map[string]any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, values); err != nil {
		return "", fmt.Errorf("render %s: %w", t.Name(), err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// renderAll renders each template and drops empty results.
func renderAll(ts []*template.Template, values map[string]any) ([]string, error) {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		s, err := render(t, values)
		if err != nil {
			return nil, err
		}
		if s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}

// renderDocument renders t and parses the result as a JSON object. An empty
// result is an empty document.
func renderDocument(t *template.Template, values map[string]any) (document.Document, error) {
	s, err := render(t, values)
	if err != nil {
		return nil, err
	}
	if s == "" {
		return document.Document{}, nil
	}
	doc, err := document.Decode([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("rendered %s: %w", t.Name(), err)
	}
	return doc, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
