package api

// SchemaVersion is the description format this build understands.
const SchemaVersion = "v1"

// Description is a procedural description of many artifacts: a data
// document plus rules that turn each selected piece of data into builder
// calls.
type Description struct {
	// Version of the description schema. Empty means SchemaVersion.
	Version string `json:"version,omitempty"`
	// Namespace overrides the configured namespace for every rule.
	Namespace string `json:"namespace,omitempty"`
	// Data is the document rules select from.
	Data any `json:"data,omitempty"`
	// DataFile names a JSON file, relative to the description, loaded as
	// Data when Data is empty.
	DataFile string `json:"data_file,omitempty"`
	Rules    []Rule `json:"rules"`
}

// Rule maps every match of Selector to one builder call of Kind. Name,
// Template, Values and Entries are text/template strings rendered against
// the match.
type Rule struct {
	// Kind is a builder ("block", "block_model", "item_model", "tag",
	// "lang") or an artifact kind written from Template ("blockstate",
	// "model", "recipe", "loot_table", "worldgen", "advancement", "data",
	// "asset").
	Kind string `json:"kind" hcl:"kind,label"`
	// Selector is a JSONPath query over Data. Empty selects Data itself.
	Selector string `json:"selector,omitempty" hcl:"selector,optional"`
	Name     string `json:"name,omitempty" hcl:"name,optional"`
	// Template renders the document body for artifact kinds.
	Template string `json:"template,omitempty" hcl:"template,optional"`
	// TagType is the tag registry: items, blocks, fluids or entity_types.
	TagType  string            `json:"tag_type,omitempty" hcl:"tag_type,optional"`
	Values   []string          `json:"values,omitempty" hcl:"values,optional"`
	Language string            `json:"language,omitempty" hcl:"language,optional"`
	Entries  map[string]string `json:"entries,omitempty" hcl:"entries,optional"`
	Replace  bool              `json:"replace,omitempty" hcl:"replace,optional"`
}
