package document

import (
	"bytes"
	"fmt"

	"github.com/ohler55/ojg/oj"
)

// Encode renders d with sorted keys and a trailing newline, so the same
// document always produces the same bytes.
func Encode(d Document, indent int) ([]byte, error) {
	n, err := NormalizeDocument(d)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	out := oj.JSON(map[string]any(n), &oj.Options{Indent: indent, Sort: true})
	return append([]byte(out), '\n'), nil
}

// Decode parses an on-storage document. The top level must be an object.
func Decode(b []byte) (Document, error) {
	v, err := oj.Parse(b)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: top level is %T", ErrNotObject, v)
	}
	return NormalizeDocument(Document(m))
}

// Blank reports whether b holds nothing but whitespace.
func Blank(b []byte) bool {
	return len(bytes.TrimSpace(b)) == 0
}
