package interp

import (
	"testing"

	"github.com/fslivovsky/go-definitions/internal/aig"
	"github.com/fslivovsky/go-definitions/internal/proof"
	"github.com/mitchellh/go-sat/cnf"
	"github.com/stretchr/testify/require"
)

func TestSynth_sharedPivotBecomesMultiplexer(t *testing.T) {
	classifier := NewClassifier(
		map[int]proof.VariableOccurrence{5: {A: true, B: true}},
		map[int]bool{5: true},
	)
	s := NewSynth(classifier)

	root := &proof.ProofNode{
		Kind:  proof.InternalNode,
		Pivot: cnf.Literal(-5),
		Left:  &proof.ProofNode{Kind: proof.LeafNode, Side: proof.SideA},
		Right: &proof.ProofNode{Kind: proof.LeafNode, Side: proof.SideB},
	}

	result := s.Synthesize(root)

	shared := s.SharedVars()
	require.Len(t, shared, 1)
	var ci aig.Lit
	for l := range shared {
		ci = l
	}
	// A negative pivot literal selects via the CI unchanged: Mux(ci, false, true) = ci.Not().
	require.Equal(t, ci.Not(), result)
}

func TestSynth_sharedPivotSignFlipsSelector(t *testing.T) {
	classifier := NewClassifier(
		map[int]proof.VariableOccurrence{5: {A: true, B: true}},
		map[int]bool{5: true},
	)
	s := NewSynth(classifier)

	root := &proof.ProofNode{
		Kind:  proof.InternalNode,
		Pivot: cnf.Literal(5),
		Left:  &proof.ProofNode{Kind: proof.LeafNode, Side: proof.SideA},
		Right: &proof.ProofNode{Kind: proof.LeafNode, Side: proof.SideB},
	}

	result := s.Synthesize(root)

	shared := s.SharedVars()
	var ci aig.Lit
	for l := range shared {
		ci = l
	}
	// A positive pivot literal negates the selector: Mux(ci.Not(), false, true) = ci.
	require.Equal(t, ci, result)
}

func TestSynth_aLocalPivotBecomesOr(t *testing.T) {
	classifier := NewClassifier(
		map[int]proof.VariableOccurrence{2: {A: true}},
		map[int]bool{},
	)
	s := NewSynth(classifier)

	left := &proof.ProofNode{Kind: proof.LeafNode, Side: proof.SideA}
	right := &proof.ProofNode{Kind: proof.LeafNode, Side: proof.SideB}
	root := &proof.ProofNode{Kind: proof.InternalNode, Pivot: cnf.Literal(2), Left: left, Right: right}

	result := s.Synthesize(root)
	require.Equal(t, s.Circuit().Or(aig.ConstFalse, aig.ConstTrue), result)
	require.Empty(t, s.SharedVars())
}

func TestSynth_bLocalPivotBecomesAnd(t *testing.T) {
	classifier := NewClassifier(
		map[int]proof.VariableOccurrence{3: {B: true}},
		map[int]bool{},
	)
	s := NewSynth(classifier)

	left := &proof.ProofNode{Kind: proof.LeafNode, Side: proof.SideB}
	right := &proof.ProofNode{Kind: proof.LeafNode, Side: proof.SideB}
	root := &proof.ProofNode{Kind: proof.InternalNode, Pivot: cnf.Literal(3), Left: left, Right: right}

	result := s.Synthesize(root)
	require.Equal(t, aig.ConstTrue, result)
}

func TestSynth_aLocalWinsOverBSideOccurrence(t *testing.T) {
	// A variable's A-copy routinely also occurs in an untagged (B-side)
	// equality-selector clause without being in the candidate set; it must
	// still classify A-local, not Shared, unless explicitly in the shared set.
	classifier := NewClassifier(
		map[int]proof.VariableOccurrence{4: {A: true, B: true}},
		map[int]bool{},
	)
	s := NewSynth(classifier)

	left := &proof.ProofNode{Kind: proof.LeafNode, Side: proof.SideA}
	right := &proof.ProofNode{Kind: proof.LeafNode, Side: proof.SideB}
	root := &proof.ProofNode{Kind: proof.InternalNode, Pivot: cnf.Literal(4), Left: left, Right: right}

	result := s.Synthesize(root)
	require.Equal(t, s.Circuit().Or(aig.ConstFalse, aig.ConstTrue), result)
	require.Empty(t, s.SharedVars())
}

func TestSynth_sharedDAGNodeIsSynthesizedOnce(t *testing.T) {
	classifier := NewClassifier(
		map[int]proof.VariableOccurrence{7: {A: true}, 9: {B: true}},
		map[int]bool{},
	)
	s := NewSynth(classifier)

	shared := &proof.ProofNode{Kind: proof.LeafNode, Side: proof.SideA}
	left := &proof.ProofNode{Kind: proof.InternalNode, Pivot: cnf.Literal(9), Left: shared, Right: shared}
	root := &proof.ProofNode{Kind: proof.InternalNode, Pivot: cnf.Literal(7), Left: left, Right: shared}

	result := s.Synthesize(root)
	require.Equal(t, aig.ConstFalse, result)
	require.Empty(t, s.SharedVars())
}
