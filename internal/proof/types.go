// Package proof reconstructs a resolution refutation DAG from the clause
// events a satsolver.Solver reports through its ProofTracer hooks, and
// extracts the core subset of that DAG that the empty clause actually
// depends on. There is no separate derivation-handle type: a record deleted
// from the store's maps becomes unreachable and is collected by Go's garbage
// collector like anything else.
package proof

import (
	"github.com/fslivovsky/go-definitions/internal/satsolver"
	"github.com/mitchellh/go-sat/cnf"
)

// Side names which half of the A/B clause partition an original clause
// belongs to, determined by whether it carries the reserved partition-tag
// literal 1.
type Side int

const (
	SideB Side = iota
	SideA
)

func (s Side) String() string {
	if s == SideA {
		return "A"
	}
	return "B"
}

// OriginalRecord is what the store keeps for a clause the solver reported
// via AddOriginal.
type OriginalRecord struct {
	Clause cnf.Clause
	Side   Side
}

// DerivedRecord is what the store keeps for a clause the solver reported
// via AddDerived or AddAssumptionClause. Antecedents is ordered in
// trail-reversal order, per the solver's ProofTracer contract.
type DerivedRecord struct {
	Clause      cnf.Clause
	Antecedents []satsolver.ClauseID
}

// NodeKind distinguishes the two shapes a ProofNode can take.
type NodeKind int

const (
	LeafNode NodeKind = iota
	InternalNode
)

// ProofNode is a binary resolution tree node. Leaves correspond to original
// clauses and carry only their Side; internal nodes record the pivot
// literal -- signed, as it occurred in the antecedent clause that collided
// with the running resolvent -- the two children were resolved on.
type ProofNode struct {
	Kind  NodeKind
	Side  Side        // valid when Kind == LeafNode
	Pivot cnf.Literal // valid when Kind == InternalNode
	Left  *ProofNode
	Right *ProofNode
}

func varOfLiteral(l cnf.Literal) int {
	v := int(l)
	if v < 0 {
		v = -v
	}
	return v
}
