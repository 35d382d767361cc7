package proof

import (
	"testing"

	"github.com/fslivovsky/go-definitions/internal/satsolver"
	"github.com/mitchellh/go-sat/cnf"
	"github.com/stretchr/testify/require"
)

func TestStore_CoreProofNode_singleResolutionStep(t *testing.T) {
	st := NewStore()

	st.AddOriginal(1, cnf.Clause{1})  // A-side: carries the partition tag
	st.AddOriginal(2, cnf.Clause{-1}) // B-side
	st.AddDerived(3, cnf.Clause{}, []satsolver.ClauseID{1, 2})
	st.ConcludeUnsat(3)

	root, err := st.CoreProofNode()
	require.NoError(t, err)
	require.Equal(t, InternalNode, root.Kind)
	require.Equal(t, cnf.Literal(1), root.Pivot)
	require.NotNil(t, root.Left)
	require.NotNil(t, root.Right)

	require.Equal(t, LeafNode, root.Left.Kind)
	require.Equal(t, SideA, root.Left.Side)
	require.Equal(t, LeafNode, root.Right.Kind)
	require.Equal(t, SideB, root.Right.Side)
}

func TestStore_CoreProofNode_requiresConcludedUnsat(t *testing.T) {
	st := NewStore()
	_, err := st.CoreProofNode()
	require.Error(t, err)
}

func TestStore_AddAssumptionClause_isIndistinguishableFromDerived(t *testing.T) {
	st := NewStore()
	st.AddOriginal(1, cnf.Clause{1})
	st.AddOriginal(2, cnf.Clause{-1})
	st.AddAssumptionClause(3, cnf.Clause{}, []satsolver.ClauseID{1, 2})
	st.ConcludeUnsat(3)

	root, err := st.CoreProofNode()
	require.NoError(t, err)
	require.Equal(t, InternalNode, root.Kind)
}

func TestStore_DeleteClause_removesFromLookup(t *testing.T) {
	st := NewStore()
	st.AddOriginal(1, cnf.Clause{1})
	st.DeleteClause(1, cnf.Clause{1})
	require.Panics(t, func() {
		st.clauseOf(1)
	})
}

func TestStore_VariableOccurrences(t *testing.T) {
	st := NewStore()
	st.AddOriginal(1, cnf.Clause{1, 2})  // A-side, mentions var 2
	st.AddOriginal(2, cnf.Clause{-2, 3}) // B-side, mentions var 2 and 3

	occ := st.VariableOccurrences()
	require.Equal(t, VariableOccurrence{A: true, B: true}, occ[2])
	require.Equal(t, VariableOccurrence{B: true}, occ[3])
	require.Equal(t, VariableOccurrence{A: true}, occ[1],
		"the reserved partition-tag variable occurs only in A-side clauses")
}

func TestStore_CoreProofNode_chainOfDerivedClauses(t *testing.T) {
	st := NewStore()
	st.AddOriginal(1, cnf.Clause{1, 2})
	st.AddOriginal(2, cnf.Clause{-1})
	st.AddDerived(3, cnf.Clause{2}, []satsolver.ClauseID{1, 2})
	st.AddOriginal(4, cnf.Clause{-2})
	st.AddDerived(5, cnf.Clause{}, []satsolver.ClauseID{3, 4})
	st.ConcludeUnsat(5)

	root, err := st.CoreProofNode()
	require.NoError(t, err)
	require.Equal(t, InternalNode, root.Kind)
}
