package aig

import (
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
)

// GiniRewriter simplifies a circuit by replaying it through
// github.com/go-air/gini/logic.C, which applies structural hashing and
// local rewriting as literals are combined (per the package's own doc,
// "simplified using some rules and structural hashing"). Whenever gini
// reports that two of our AND nodes reduce to the same literal, the two
// are unioned; the circuit returned is rebuilt from our own node
// constructors using the union-find's canonical representative for every
// merged class, so gini acts purely as an external equivalence oracle --
// it never need expose its internal node table for this to work.
type GiniRewriter struct{}

var _ Rewriter = GiniRewriter{}

func (GiniRewriter) Rewrite(c *Circuit) (*Circuit, map[Lit]Lit) {
	g := logic.NewCCap(len(c.nodes))

	translated := make(map[int32]z.Lit) // our var id -> its gini literal
	reverse := make(map[z.Lit]int32)    // gini literal -> first our-var that produced it
	parent := make(map[int32]int32)     // union-find over our var ids

	var find func(v int32) int32
	find = func(v int32) int32 {
		p, ok := parent[v]
		if !ok {
			return v
		}
		root := find(p)
		parent[v] = root
		return root
	}
	union := func(a, b int32) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}

	giniOf := func(l Lit) z.Lit {
		gl := translated[find(l.Var())]
		if l.IsNeg() {
			return gl.Not()
		}
		return gl
	}

	for _, l := range c.cis {
		translated[l.Var()] = g.Lit()
	}

	for _, l := range c.DFSOrder() {
		v := l.Var()
		a, b := c.AndInputs(l)
		gl := g.And(giniOf(a), giniOf(b))

		if existing, ok := reverse[gl]; ok {
			union(v, existing)
			continue
		}
		reverse[gl] = v
		translated[v] = gl
	}

	out := NewCircuit()
	built := make(map[int32]Lit)

	var build func(l Lit) Lit
	build = func(l Lit) Lit {
		v := find(l.Var())
		nl, ok := built[v]
		if !ok {
			switch n := c.nodes[v]; n.kind {
			case kindCI:
				nl = out.CreateCI()
			case kindAnd:
				nl = out.And(build(n.a), build(n.b))
			default:
				nl = ConstTrue
			}
			built[v] = nl
		}
		if l.IsNeg() {
			return nl.Not()
		}
		return nl
	}

	ciMap := make(map[Lit]Lit, len(c.cis))
	for _, l := range c.cis {
		ciMap[l] = build(l)
	}

	for _, l := range c.pos {
		out.CreatePO(build(l))
	}
	return out, ciMap
}
