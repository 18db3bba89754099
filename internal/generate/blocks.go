package generate

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/agentic-research/resgen/internal/document"
	"github.com/agentic-research/resgen/internal/resource"
)

// BlockStateOptions configures a variant block state. The zero value maps
// the single "" variant to the block's own model.
type BlockStateOptions struct {
	// Model defaults to <ns>:block/<name>.
	Model    string
	Variants map[string]document.Document
	// NoDefaultModel leaves variants without a "model" field as they are.
	NoDefaultModel bool
}

// BlockState writes assets/<ns>/blockstates/<name>.json.
func (m *Manager) BlockState(name string, opts BlockStateOptions) error {
	loc, err := m.location(name)
	if err != nil {
		return err
	}
	model := opts.Model
	if model == "" {
		model = loc.Namespace + ":block/" + loc.Path
	}

	variants := make(document.Document, len(opts.Variants))
	for k, v := range opts.Variants {
		variants[k] = copyDocument(v)
	}
	if len(variants) == 0 {
		variants[""] = document.Document{}
	}
	if !opts.NoDefaultModel {
		for _, v := range variants {
			prop := v.(document.Document)
			if _, ok := prop["model"]; !ok {
				prop["model"] = model
			}
		}
	}
	return m.write(resource.KindBlockState, name, document.Document{"variants": variants})
}

// MultipartCase is one multipart entry. When may be nil. Apply is a model
// document or a list of them.
type MultipartCase struct {
	When  document.Document
	Apply any
}

// BlockStateMultipart writes a block state using the multipart syntax.
func (m *Manager) BlockStateMultipart(name string, cases ...MultipartCase) error {
	parts := make([]any, 0, len(cases))
	for _, c := range cases {
		parts = append(parts, document.Document{"when": c.When, "apply": c.Apply})
	}
	return m.write(resource.KindBlockState, name, document.Document{"multipart": parts})
}

// BlockModelOptions configures a block model. The zero value is a cube_all
// model textured with <ns>:block/<name>.
type BlockModelOptions struct {
	Textures map[string]string
	// Parent defaults to "block/cube_all"; NoParent omits it.
	Parent   string
	NoParent bool
	Elements []document.Document
}

// BlockModel writes assets/<ns>/models/block/<name>.json.
func (m *Manager) BlockModel(name string, opts BlockModelOptions) error {
	loc, err := m.location(name)
	if err != nil {
		return err
	}

	textures := opts.Textures
	if textures == nil {
		textures = map[string]string{"all": loc.Namespace + ":block/" + loc.Path}
	}
	doc := document.Document{"textures": textures}
	switch {
	case opts.NoParent:
	case opts.Parent == "":
		doc["parent"] = "block/cube_all"
	default:
		doc["parent"] = opts.Parent
	}
	if len(opts.Elements) > 0 {
		doc["elements"] = opts.Elements
	}
	return m.write(resource.KindModel, name, doc, "block")
}

// ItemModelOptions configures an item model. The zero value is a generated
// item textured with <ns>:item/<name>.
type ItemModelOptions struct {
	// Textures become layer0, layer1, ...
	Textures []string
	// Parent defaults to "item/generated".
	Parent     string
	NoTextures bool
}

// ItemModel writes assets/<ns>/models/item/<name>.json.
func (m *Manager) ItemModel(name string, opts ItemModelOptions) error {
	loc, err := m.location(name)
	if err != nil {
		return err
	}

	parent := opts.Parent
	if parent == "" {
		parent = "item/generated"
	}
	doc := document.Document{"parent": parent}
	if !opts.NoTextures {
		textures := opts.Textures
		if len(textures) == 0 {
			textures = []string{loc.Namespace + ":item/" + loc.Path}
		}
		layers := make(map[string]string, len(textures))
		for i, t := range textures {
			layers[fmt.Sprintf("layer%d", i)] = t
		}
		doc["textures"] = layers
	}
	return m.write(resource.KindModel, name, doc, "item")
}

// WorldGen writes data/<ns>/worldgen/<name>.json, e.g. name
// "configured_feature/copper_ore".
func (m *Manager) WorldGen(name string, doc document.Document) error {
	return m.write(resource.KindWorldGen, name, doc)
}

// Configure builds the {"type", "config"} pair world-gen objects nest.
func Configure(typ string, config document.Document) document.Document {
	if config == nil {
		config = document.Document{}
	}
	return document.Document{"type": typ, "config": config}
}

var errBadBlockState = errors.New("malformed block state")

// BlockStateRef parses "ns:block[prop=value,...]" into the
// {"Name", "Properties"} form world-gen codecs use.
func BlockStateRef(s string) (document.Document, error) {
	props := map[string]string{}
	name := s
	if i := strings.IndexByte(s, '['); i >= 0 {
		if !strings.HasSuffix(s, "]") {
			return nil, fmt.Errorf("%w: %q", errBadBlockState, s)
		}
		name = s[:i]
		for _, pair := range strings.Split(s[i+1:len(s)-1], ",") {
			k, v, ok := strings.Cut(pair, "=")
			if !ok || k == "" {
				return nil, fmt.Errorf("%w: %q", errBadBlockState, s)
			}
			props[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
	}
	if name == "" {
		return nil, fmt.Errorf("%w: %q", errBadBlockState, s)
	}
	return document.Document{"Name": name, "Properties": props}, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
