// Package satsolver implements a CDCL-style SAT solver that streams proof
// events to an attached ProofTracer while it refutes a formula. It plays the
// role of the external "SAT solver" collaborator described by the definition
// extractor: callers never need to inspect its internals, only the clauses
// and antecedents it reports through the tracer hooks.
package satsolver

import "github.com/mitchellh/go-sat/cnf"

// ClauseID is an opaque identifier assigned to every clause the solver
// introduces, original or derived. Zero is never a valid id.
type ClauseID uint64

// Status is the result of a Solve call, using the conventional DIMACS
// solver-contract values: SAT=10, UNSAT=20, UNKNOWN=0.
type Status int

const (
	StatusUnknown Status = 0
	StatusSat     Status = 10
	StatusUnsat   Status = 20
)

func (s Status) String() string {
	switch s {
	case StatusSat:
		return "SAT"
	case StatusUnsat:
		return "UNSAT"
	default:
		return "UNKNOWN"
	}
}

// Tribool is a three-valued assignment: a variable is Undef until the
// trail assigns it True or False.
type Tribool byte

const (
	Undef Tribool = iota
	False
	True
)

// BoolToTri converts a plain bool into the corresponding Tribool.
func BoolToTri(b bool) Tribool {
	if b {
		return True
	}
	return False
}

func (t Tribool) String() string {
	switch t {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "undef"
	}
}

// reason records why a literal was forced onto the trail: either a decision
// (or assumption), identified by reasonNone, or the clause id whose unit
// propagation asserted it.
const reasonNone ClauseID = 0

type varinfo struct {
	level  int
	reason ClauseID
}

func varOf(l cnf.Literal) int {
	v := int(l)
	if v < 0 {
		v = -v
	}
	return v
}

func negate(l cnf.Literal) cnf.Literal {
	return -l
}
