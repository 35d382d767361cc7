package interp

import (
	"github.com/fslivovsky/go-definitions/internal/aig"
	"github.com/fslivovsky/go-definitions/internal/proof"
	"github.com/mitchellh/go-sat/cnf"
)

// Synth builds an interpolant circuit incrementally as it walks one or more
// proof.ProofNode trees, sharing a single underlying aig.Circuit (and its
// structural-hashing cache) and a per-node memo so a DAG-shaped proof is
// only ever processed once per node.
type Synth struct {
	circuit    *aig.Circuit
	classifier *Classifier
	memo       map[*proof.ProofNode]aig.Lit
	ciFor      map[int]aig.Lit
}

// NewSynth returns a synthesizer over a fresh circuit.
func NewSynth(classifier *Classifier) *Synth {
	return &Synth{
		circuit:    aig.NewCircuit(),
		classifier: classifier,
		memo:       make(map[*proof.ProofNode]aig.Lit),
		ciFor:      make(map[int]aig.Lit),
	}
}

// Circuit returns the circuit being built.
func (s *Synth) Circuit() *aig.Circuit { return s.circuit }

// SharedVars returns, for each shared pivot encountered so far, its
// original variable id keyed by the CI literal created for it -- the shape
// of aig.Encode's ciVars argument, since the shared variable's own id is
// also the number the interpolant's CNF must use for it.
func (s *Synth) SharedVars() map[aig.Lit]int {
	out := make(map[aig.Lit]int, len(s.ciFor))
	for v, l := range s.ciFor {
		out[l] = v
	}
	return out
}

func (s *Synth) ciForVar(v int) aig.Lit {
	if l, ok := s.ciFor[v]; ok {
		return l
	}
	l := s.circuit.CreateCI()
	s.ciFor[v] = l
	return l
}

// Synthesize returns the circuit literal for root, coloring every leaf by
// its partition side and every internal node by its pivot's class:
//
//   - a leaf on the A side becomes constant-false, a leaf on the B side
//     becomes constant-true. The two must not collapse to the same
//     constant, or the resulting circuit is not a valid reverse interpolant.
//   - an internal node whose pivot is A-local becomes OR(left, right)
//   - an internal node whose pivot is B-local becomes AND(left, right)
//   - an internal node whose pivot is shared becomes a multiplexer on a
//     CI literal representing that variable, selecting left when the pivot
//     literal is false and right when it is true -- the selector is the CI
//     itself for a negative pivot, its negation for a positive one
func (s *Synth) Synthesize(root *proof.ProofNode) aig.Lit {
	return s.process(root)
}

// pivotVar returns the variable a signed pivot literal refers to.
func pivotVar(l cnf.Literal) int {
	v := int(l)
	if v < 0 {
		v = -v
	}
	return v
}

func (s *Synth) process(n *proof.ProofNode) aig.Lit {
	if l, ok := s.memo[n]; ok {
		return l
	}

	var result aig.Lit
	switch n.Kind {
	case proof.LeafNode:
		if n.Side == proof.SideA {
			result = aig.ConstFalse
		} else {
			result = aig.ConstTrue
		}
	case proof.InternalNode:
		left := s.process(n.Left)
		right := s.process(n.Right)
		v := pivotVar(n.Pivot)
		switch s.classifier.Classify(v) {
		case ALocal:
			result = s.circuit.Or(left, right)
		case BLocal:
			result = s.circuit.And(left, right)
		default:
			sel := s.ciForVar(v)
			if n.Pivot > 0 {
				sel = sel.Not()
			}
			result = s.circuit.Mux(sel, left, right)
		}
	}

	s.memo[n] = result
	return result
}
