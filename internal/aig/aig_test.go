package aig

import (
	"testing"

	"github.com/mitchellh/go-sat/cnf"
	"github.com/stretchr/testify/require"
)

func TestCircuit_AndConstantPropagation(t *testing.T) {
	c := NewCircuit()
	ci := c.CreateCI()

	require.Equal(t, ConstFalse, c.And(ci, ConstFalse))
	require.Equal(t, ci, c.And(ci, ConstTrue))
	require.Equal(t, ci, c.And(ci, ci))
	require.Equal(t, ConstFalse, c.And(ci, ci.Not()))
}

func TestCircuit_AndStructuralHashing(t *testing.T) {
	c := NewCircuit()
	a := c.CreateCI()
	b := c.CreateCI()

	l1 := c.And(a, b)
	l2 := c.And(b, a)
	require.Equal(t, l1, l2, "AND should be commutative under structural hashing")

	l3 := c.And(a, b)
	require.Equal(t, l1, l3, "requesting the same AND twice should share one node")
}

func TestCircuit_Or_isDeMorganDual(t *testing.T) {
	c := NewCircuit()
	a := c.CreateCI()
	b := c.CreateCI()

	or := c.Or(a, b)
	require.Equal(t, c.And(a.Not(), b.Not()).Not(), or)
}

func TestCircuit_DFSOrder_childrenBeforeParents(t *testing.T) {
	c := NewCircuit()
	a := c.CreateCI()
	b := c.CreateCI()
	d := c.CreateCI()

	ab := c.And(a, b)
	abd := c.And(ab, d)
	c.CreatePO(abd)

	order := c.DFSOrder()
	require.Len(t, order, 2)
	require.Equal(t, ab, order[0])
	require.Equal(t, abd, order[1])
}

func TestCircuit_Mux(t *testing.T) {
	c := NewCircuit()
	sel := c.CreateCI()
	thenL := c.CreateCI()
	elseL := c.CreateCI()

	m := c.Mux(sel, thenL, elseL)
	require.Equal(t, c.Or(c.And(sel, thenL), c.And(sel.Not(), elseL)), m)
}

func TestCircuit_Cleanup_prunesDeadAndCacheEntries(t *testing.T) {
	c := NewCircuit()
	a := c.CreateCI()
	b := c.CreateCI()

	c.And(a, b)
	c.CreatePO(a)
	c.Cleanup()

	// Cleanup only prunes the structural-hashing cache of entries that are
	// no longer reachable from any PO; node storage is never renumbered, so
	// a fresh request for the same (now-unreachable) conjunction is free to
	// allocate a new node rather than resurrect the old one.
	again := c.And(a, b)
	ia, ib := c.AndInputs(again)
	require.Equal(t, a, ia)
	require.Equal(t, b, ib)
}

func TestEncode_numberingOrderAndShape(t *testing.T) {
	c := NewCircuit()
	a := c.CreateCI()
	b := c.CreateCI()
	ab := c.And(a, b)
	c.CreatePO(ab)
	c.CreatePO(a)

	ciVars := map[Lit]int{positive(a): 1, positive(b): 2}
	clauses, outputVars, next := Encode(c, ciVars, 10)

	numbering, _ := AssignVariables(c, ciVars, 10)
	require.Equal(t, []int{10, 11}, numbering.PO)
	require.Equal(t, 12, numbering.Const1)
	require.Equal(t, 13, numbering.And[positive(ab)])

	require.Equal(t, numbering.PO, outputVars)
	require.Equal(t, 14, next)

	// No PO is directly the constant node here, so no const1 unit clause is
	// emitted: 3 Tseitin clauses for the AND gate, 2 binding clauses per PO
	// (2 POs).
	require.Len(t, clauses, 3+2*2)
}

func TestEncode_emitsConst1UnitClauseOnlyWhenReferencedByAPO(t *testing.T) {
	c := NewCircuit()
	c.CreatePO(ConstTrue)

	clauses, outputVars, _ := Encode(c, map[Lit]int{}, 1)
	require.Len(t, outputVars, 1)

	numbering, _ := AssignVariables(c, map[Lit]int{}, 1)
	require.Contains(t, clauses, cnf.Clause{cnf.Literal(numbering.Const1)})
}

func TestEncode_omitsConst1UnitClauseWhenUnreferenced(t *testing.T) {
	c := NewCircuit()
	ci := c.CreateCI()
	c.CreatePO(ci)

	clauses, _, _ := Encode(c, map[Lit]int{positive(ci): 1}, 2)
	for _, cl := range clauses {
		require.Len(t, cl, 2, "no unit clause should be emitted when the constant is unreferenced")
	}
}

func TestEncode_panicsOnMissingCIBinding(t *testing.T) {
	c := NewCircuit()
	ci := c.CreateCI()
	c.CreatePO(ci)

	require.Panics(t, func() {
		Encode(c, map[Lit]int{}, 1)
	})
}

func TestGiniRewriter_preservesOutputCount(t *testing.T) {
	c := NewCircuit()
	a := c.CreateCI()
	b := c.CreateCI()
	ab := c.And(a, b)
	ba := c.And(b, a)
	c.CreatePO(ab)
	c.CreatePO(ba)
	c.CreatePO(a)

	out, ciMap := GiniRewriter{}.Rewrite(c)
	require.Len(t, out.POs(), 3)
	require.Len(t, out.CIs(), 2)
	require.Len(t, ciMap, 2)
	require.Contains(t, ciMap, a)
	require.Contains(t, ciMap, b)
}
