// Package aig implements a minimal And-Inverter Graph with structural
// hashing: a circuit the interpolant synthesizer builds up node by node, an
// optional external rewrite pass, and a deterministic Tseitin encoder.
package aig

// Lit is a signed reference into a Circuit's node table, following the
// conventional AIGER encoding: the low bit is the negation flag and the
// remaining bits are the node (variable) index. Var 0 is reserved for the
// constant node, so Lit(0) is constant-false and Lit(1) is constant-true.
type Lit uint32

func mkLit(v int32, neg bool) Lit {
	l := Lit(uint32(v) << 1)
	if neg {
		l |= 1
	}
	return l
}

// Var returns the node index l refers to.
func (l Lit) Var() int32 { return int32(l >> 1) }

// IsNeg reports whether l is a negated reference.
func (l Lit) IsNeg() bool { return l&1 != 0 }

// Not returns the complement of l.
func (l Lit) Not() Lit { return l ^ 1 }

// ConstFalse and ConstTrue are the two literals of the reserved constant
// node.
const (
	ConstFalse Lit = 0
	ConstTrue  Lit = 1
)

type nodeKind uint8

const (
	kindConst nodeKind = iota
	kindCI
	kindAnd
)

type node struct {
	kind nodeKind
	a, b Lit
}

// Circuit is an And-Inverter Graph: primary inputs (CIs), two-input AND
// gates built with structural hashing so that requesting the same
// conjunction twice returns the same literal, and a list of designated
// primary outputs (POs).
type Circuit struct {
	nodes    []node
	andCache map[[2]Lit]Lit
	cis      []Lit
	pos      []Lit
}

// NewCircuit returns an empty circuit containing only the reserved
// constant node.
func NewCircuit() *Circuit {
	return &Circuit{
		nodes:    []node{{kind: kindConst}},
		andCache: make(map[[2]Lit]Lit),
	}
}

// Const1 returns the literal for Boolean true.
func (c *Circuit) Const1() Lit { return ConstTrue }

// CreateCI allocates a new primary input and returns its (positive)
// literal.
func (c *Circuit) CreateCI() Lit {
	idx := int32(len(c.nodes))
	c.nodes = append(c.nodes, node{kind: kindCI})
	l := mkLit(idx, false)
	c.cis = append(c.cis, l)
	return l
}

// And returns a literal for a AND b, applying constant propagation,
// idempotence and complementation directly, and structural hashing for
// everything else so that equal conjunctions share one node.
func (c *Circuit) And(a, b Lit) Lit {
	if a == ConstFalse || b == ConstFalse {
		return ConstFalse
	}
	if a == ConstTrue {
		return b
	}
	if b == ConstTrue {
		return a
	}
	if a == b {
		return a
	}
	if a == b.Not() {
		return ConstFalse
	}
	if a > b {
		a, b = b, a
	}
	key := [2]Lit{a, b}
	if l, ok := c.andCache[key]; ok {
		return l
	}
	idx := int32(len(c.nodes))
	c.nodes = append(c.nodes, node{kind: kindAnd, a: a, b: b})
	l := mkLit(idx, false)
	c.andCache[key] = l
	return l
}

// Or returns a literal for a OR b, built as De Morgan's dual of And so it
// shares the same structural hashing.
func (c *Circuit) Or(a, b Lit) Lit {
	return c.And(a.Not(), b.Not()).Not()
}

// Mux returns a literal for "if sel then thenLit else elseLit".
func (c *Circuit) Mux(sel, thenLit, elseLit Lit) Lit {
	return c.Or(c.And(sel, thenLit), c.And(sel.Not(), elseLit))
}

// CreatePO designates l as a primary output and returns its index.
func (c *Circuit) CreatePO(l Lit) int {
	c.pos = append(c.pos, l)
	return len(c.pos) - 1
}

// CIs returns every primary input literal, in creation order.
func (c *Circuit) CIs() []Lit { return append([]Lit(nil), c.cis...) }

// POs returns every primary output literal, in registration order.
func (c *Circuit) POs() []Lit { return append([]Lit(nil), c.pos...) }

// IsCI reports whether l refers to a primary input.
func (c *Circuit) IsCI(l Lit) bool { return c.nodes[l.Var()].kind == kindCI }

// IsConst reports whether l refers to the reserved constant node.
func (c *Circuit) IsConst(l Lit) bool { return l.Var() == 0 }

// AndInputs returns the two operands of the AND node l refers to. It
// panics if l is not an AND node.
func (c *Circuit) AndInputs(l Lit) (Lit, Lit) {
	n := c.nodes[l.Var()]
	if n.kind != kindAnd {
		panic("aig: AndInputs called on a non-AND node")
	}
	return n.a, n.b
}

// Cleanup drops structural-hashing cache entries for AND nodes no longer
// reachable from any primary output. Node storage itself is never
// renumbered or compacted, since POs, CIs and any Lit a caller is holding
// reference nodes by index.
func (c *Circuit) Cleanup() {
	reachable := make(map[int32]bool)
	var visit func(l Lit)
	visit = func(l Lit) {
		v := l.Var()
		if v == 0 || reachable[v] {
			return
		}
		reachable[v] = true
		if n := c.nodes[v]; n.kind == kindAnd {
			visit(n.a)
			visit(n.b)
		}
	}
	for _, l := range c.pos {
		visit(l)
	}
	for key, l := range c.andCache {
		if !reachable[l.Var()] {
			delete(c.andCache, key)
		}
	}
}

// DFSOrder returns every AND node reachable from a primary output, as
// positive literals, in post-order (every node's inputs appear before the
// node itself). Primary inputs are not included; they are enumerated
// separately via CIs so a caller can number them independently, per the
// Tseitin encoder's variable-numbering contract.
func (c *Circuit) DFSOrder() []Lit {
	visited := make(map[int32]bool)
	var order []Lit
	var visit func(l Lit)
	visit = func(l Lit) {
		v := l.Var()
		if v == 0 || visited[v] {
			return
		}
		n := c.nodes[v]
		if n.kind == kindCI {
			visited[v] = true
			return
		}
		visited[v] = true
		visit(n.a)
		visit(n.b)
		order = append(order, mkLit(v, false))
	}
	for _, l := range c.pos {
		visit(l)
	}
	return order
}
