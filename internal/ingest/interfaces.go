package ingest

// Walker compiles the selectors rules use to pick pieces of a description's
// data document.
type Walker interface {
	// Compile parses selector once per rule. An empty selector selects the
	// whole document.
	Compile(selector string) (Selector, error)
}

// Selector is a compiled selector.
type Selector interface {
	// Select returns the template bindings of every match, in document
	// order. Objects bind their fields; any other value binds to "value".
	Select(root any) []map[string]any
}
