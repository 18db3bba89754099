// Package resource defines the namespaced keys that identify every generated
// artifact and map it to exactly one storage path.
package resource

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// DefaultNamespace is used when neither the caller nor the location names one.
const DefaultNamespace = "minecraft"

var ErrInvalidKey = errors.New("invalid resource key")

// KeyError reports which input was rejected and why.
type KeyError struct {
	Input  string
	Reason string
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("invalid resource key %q: %s", e.Input, e.Reason)
}

func (e *KeyError) Is(target error) bool {
	return target == ErrInvalidKey
}

// Location is a bare namespace:path pair with no artifact kind attached.
// Builders use it for references between artifacts (models, parents, items).
type Location struct {
	Namespace string
	Path      string
}

func (l Location) String() string {
	return l.Namespace + ":" + l.Path
}

// Key identifies one artifact. It is a comparable value and is safe to use
// as a map key; two keys are equal iff namespace, path and kind are equal.
type Key struct {
	Namespace string
	Path      string // segments joined with "/"
	Kind      Kind
}

// New builds a key from a default namespace and one or more path parts.
// Each part may contain "/" separators. The first part may start with
// "namespace:" which overrides defaultNamespace.
func New(defaultNamespace string, kind Kind, parts ...string) (Key, error) {
	if !kind.Valid() {
		return Key{}, &KeyError{Input: strings.Join(parts, "/"), Reason: fmt.Sprintf("unknown kind %d", kind)}
	}
	loc, err := join(defaultNamespace, parts)
	if err != nil {
		return Key{}, err
	}
	return Key{Namespace: loc.Namespace, Path: loc.Path, Kind: kind}, nil
}

// MustNew is New for statically known inputs; it panics on error.
func MustNew(defaultNamespace string, kind Kind, parts ...string) Key {
	k, err := New(defaultNamespace, kind, parts...)
	if err != nil {
		panic(err)
	}
	return k
}

// Parse reads a "namespace:path" or bare "path" location.
func Parse(defaultNamespace, s string) (Location, error) {
	return join(defaultNamespace, []string{s})
}

func join(defaultNamespace string, parts []string) (Location, error) {
	input := strings.Join(parts, "/")
	if len(parts) == 0 {
		return Location{}, &KeyError{Input: input, Reason: "no path parts"}
	}

	ns := defaultNamespace
	if ns == "" {
		ns = DefaultNamespace
	}

	first := parts[0]
	if i := strings.IndexByte(first, ':'); i >= 0 {
		ns = first[:i]
		first = first[i+1:]
	}
	if err := validName(ns); err != nil {
		return Location{}, &KeyError{Input: input, Reason: "namespace " + err.Error()}
	}

	var segments []string
	for i, p := range parts {
		if i == 0 {
			p = first
		} else if strings.ContainsRune(p, ':') {
			return Location{}, &KeyError{Input: input, Reason: "namespace separator outside the first part"}
		}
		for _, seg := range strings.Split(p, "/") {
			if err := validName(seg); err != nil {
				return Location{}, &KeyError{Input: input, Reason: "path segment " + err.Error()}
			}
			segments = append(segments, seg)
		}
	}

	return Location{Namespace: ns, Path: strings.Join(segments, "/")}, nil
}

func validName(s string) error {
	switch s {
	case "":
		return errors.New("is empty")
	case ".", "..":
		return fmt.Errorf("%q is reserved", s)
	}
	for _, r := range s {
		if !validRune(r) {
			return fmt.Errorf("%q contains illegal character %q", s, r)
		}
	}
	return nil
}

func validRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-' || r == '.'
}

// Segments returns the path split on "/".
func (k Key) Segments() []string {
	return strings.Split(k.Path, "/")
}

// Location drops the kind.
func (k Key) Location() Location {
	return Location{Namespace: k.Namespace, Path: k.Path}
}

func (k Key) String() string {
	return k.Kind.String() + "(" + k.Namespace + ":" + k.Path + ")"
}

// StoragePath is the slash-separated path of the artifact, relative to the
// resource root, e.g. "assets/modid/blockstates/ore/copper.json".
func (k Key) StoragePath() string {
	side, dir := k.Kind.layout()
	return path.Join(side, k.Namespace, dir, k.Path) + ".json"
}
