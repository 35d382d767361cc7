package aig

import "github.com/mitchellh/go-sat/cnf"

// VarNumbering records the DIMACS variable assigned to every node of a
// circuit during Tseitin encoding, in a fixed order: one variable per
// primary output first, then one for the reserved constant-true node, then
// one per AND node in DFS (children before parents) order. Primary inputs
// are never assigned a fresh variable here -- the caller supplies their ids
// directly, since they correspond to variables that already exist in the
// surrounding formula (e.g. the shared variables an interpolant is defined
// over).
type VarNumbering struct {
	PO     []int
	Const1 int
	CI     map[Lit]int
	And    map[Lit]int
}

func positive(l Lit) Lit { return l &^ 1 }

// AssignVariables numbers c's nodes starting at nextFreeVar, and returns
// the numbering together with the next free variable after it.
func AssignVariables(c *Circuit, ciVars map[Lit]int, nextFreeVar int) (*VarNumbering, int) {
	n := &VarNumbering{CI: ciVars, And: make(map[Lit]int)}

	n.PO = make([]int, len(c.pos))
	for i := range c.pos {
		n.PO[i] = nextFreeVar
		nextFreeVar++
	}

	n.Const1 = nextFreeVar
	nextFreeVar++

	for _, l := range c.DFSOrder() {
		n.And[positive(l)] = nextFreeVar
		nextFreeVar++
	}

	return n, nextFreeVar
}

func (n *VarNumbering) varFor(c *Circuit, l Lit) int {
	v := l.Var()
	if v == 0 {
		return n.Const1
	}
	if c.IsCI(l) {
		id, ok := n.CI[positive(l)]
		if !ok {
			panic("aig: Tseitin encoding encountered a CI with no caller-supplied variable id")
		}
		return id
	}
	return n.And[positive(l)]
}

func (n *VarNumbering) litFor(c *Circuit, l Lit) cnf.Literal {
	v := n.varFor(c, l)
	if l.IsNeg() {
		return cnf.Literal(-v)
	}
	return cnf.Literal(v)
}

// Encode produces a Tseitin CNF for c: a unit clause fixing the constant
// node true (emitted only if some PO is directly the constant node -- And()
// folds constant operands away, so that is the only way the constant can
// ever be reachable from a PO), three clauses per AND gate, and two binding
// clauses per primary output tying its fresh variable to the output
// expression. ciVars must contain an entry for every CI in c, keyed by its
// positive literal. Returns the clauses, the output variable assigned to
// each PO (in registration order), and the next free variable after
// encoding.
func Encode(c *Circuit, ciVars map[Lit]int, nextFreeVar int) ([]cnf.Clause, []int, int) {
	numbering, next := AssignVariables(c, ciVars, nextFreeVar)

	var clauses []cnf.Clause
	for _, l := range c.pos {
		if l.Var() == 0 {
			clauses = append(clauses, cnf.Clause{cnf.Literal(numbering.Const1)})
			break
		}
	}

	for _, l := range c.DFSOrder() {
		g := numbering.And[positive(l)]
		a, b := c.AndInputs(l)
		la := numbering.litFor(c, a)
		lb := numbering.litFor(c, b)
		clauses = append(clauses,
			cnf.Clause{cnf.Literal(-g), la},
			cnf.Clause{cnf.Literal(-g), lb},
			cnf.Clause{cnf.Literal(g), -la, -lb},
		)
	}

	outputVars := make([]int, len(c.pos))
	for i, l := range c.pos {
		pv := numbering.PO[i]
		lit := numbering.litFor(c, l)
		clauses = append(clauses,
			cnf.Clause{cnf.Literal(-pv), lit},
			cnf.Clause{cnf.Literal(pv), cnf.Literal(-lit)},
		)
		outputVars[i] = pv
	}

	return clauses, outputVars, next
}
