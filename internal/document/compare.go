package document

import (
	"github.com/google/go-cmp/cmp"
)

// Decision is the comparator's verdict for one destination.
type Decision int

const (
	// DecisionWrite means the destination is absent or holds different
	// generated content.
	DecisionWrite Decision = iota
	// DecisionIdentical means the destination holds generated content equal
	// to the candidate.
	DecisionIdentical
	// DecisionProtected means the destination holds a document this tool did
	// not write. It is never overwritten.
	DecisionProtected
)

func (d Decision) String() string {
	switch d {
	case DecisionWrite:
		return "write"
	case DecisionIdentical:
		return "identical"
	case DecisionProtected:
		return "protected"
	}
	return "unknown"
}

// Compare decides whether candidate must be written over existing. A nil
// existing document means nothing is stored at the destination. Both
// arguments are expected to be normalized.
func Compare(existing, candidate Document) Decision {
	if existing == nil {
		return DecisionWrite
	}
	if !HasMarker(existing) {
		return DecisionProtected
	}
	if Equal(existing, candidate) {
		return DecisionIdentical
	}
	return DecisionWrite
}

// ShouldWrite is the boolean form of Compare.
func ShouldWrite(existing, candidate Document) bool {
	return Compare(existing, candidate) == DecisionWrite
}

// Equal compares semantic content: structural equality over the mapping,
// ignoring the marker field and key order.
func Equal(a, b Document) bool {
	return cmp.Equal(map[string]any(Strip(a)), map[string]any(Strip(b)))
}
