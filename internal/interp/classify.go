// Package interp synthesizes a Craig interpolant as an AIG by walking the
// binary resolution tree a proof.Store's core extraction produces,
// following McMillan's coloring rule: A-local pivots become OR, B-local
// pivots become AND, and pivots shared between the two partitions become a
// multiplexer keyed on that variable.
package interp

import "github.com/fslivovsky/go-definitions/internal/proof"

// VarClass says which side(s) of the A/B partition a resolution pivot
// belongs to.
type VarClass int

const (
	ALocal VarClass = iota
	BLocal
	Shared
)

// Classifier answers VarClass queries for resolution pivots. A variable is
// Shared iff it belongs to the caller-supplied candidate set (the Padoa
// A-copy ids of the variables the interpolant must be expressed over);
// otherwise it is A-local iff it was observed in any A-side original
// clause, and B-local otherwise. Shared is checked first and wins even for
// a variable that (like every registered variable's A-copy, through its
// untagged equality-selector clause) also happens to occur on the B side --
// mere co-occurrence on both sides is not what makes a pivot shared here.
type Classifier struct {
	shared map[int]bool
	aLocal map[int]bool
}

// NewClassifier builds a Classifier from a variable-occurrence map, as
// produced by proof.Store.VariableOccurrences, and the set of variables the
// interpolant is being synthesized over (e.g. the A-copy id of every
// variable in the current HasDefinition candidate set).
func NewClassifier(occ map[int]proof.VariableOccurrence, shared map[int]bool) *Classifier {
	aLocal := make(map[int]bool, len(occ))
	for v, e := range occ {
		if e.A {
			aLocal[v] = true
		}
	}
	return &Classifier{shared: shared, aLocal: aLocal}
}

// Classify returns v's class.
func (c *Classifier) Classify(v int) VarClass {
	switch {
	case c.shared[v]:
		return Shared
	case c.aLocal[v]:
		return ALocal
	default:
		return BLocal
	}
}
