package satsolver

import "github.com/mitchellh/go-sat/cnf"

// Tracer receives human-readable diagnostics. It has no bearing on proof
// reconstruction; see ProofTracer for that.
type Tracer interface {
	Printf(format string, v ...interface{})
}

// ProofTracer receives the solver-facing hooks needed to reconstruct a
// resolution refutation after the fact. A Store (internal/proof) is the
// canonical implementation; tests may supply a recording stub instead.
type ProofTracer interface {
	// AddOriginal is invoked once for every clause, at the moment AddClause
	// adds it to the solver. Side (A vs. B) is determined downstream by the
	// presence of the partition-tag literal 1, not by this call.
	AddOriginal(id ClauseID, clause cnf.Clause)

	// AddDerived is invoked when the solver learns a new clause by conflict
	// analysis. antecedents is ordered in trail-reversal (chronological)
	// order.
	AddDerived(id ClauseID, clause cnf.Clause, antecedents []ClauseID)

	// AddAssumptionClause is invoked instead of AddDerived when the learned
	// clause arises from the assumption prefix, i.e. the conflict occurs at a
	// decision level no higher than the number of assumptions, before any
	// free decision has been made (with no assumptions, only level 0).
	AddAssumptionClause(id ClauseID, clause cnf.Clause, antecedents []ClauseID)

	// DeleteClause requests that id be forgotten once nothing else in the
	// live derivation depends on it. The reference solver never reduces its
	// learnt-clause database, so it never calls this, but the hook exists
	// for tracer implementations exercised by other solvers.
	DeleteClause(id ClauseID, clause cnf.Clause)

	// ConcludeUnsat is invoked exactly once per Solve call that returns
	// StatusUnsat, naming the id of the empty clause.
	ConcludeUnsat(emptyID ClauseID)
}

// NopProofTracer discards every hook; useful when a caller only wants a
// SAT/UNSAT answer and does not intend to request an interpolant.
type NopProofTracer struct{}

func (NopProofTracer) AddOriginal(ClauseID, cnf.Clause)                    {}
func (NopProofTracer) AddDerived(ClauseID, cnf.Clause, []ClauseID)         {}
func (NopProofTracer) AddAssumptionClause(ClauseID, cnf.Clause, []ClauseID) {}
func (NopProofTracer) DeleteClause(ClauseID, cnf.Clause)                  {}
func (NopProofTracer) ConcludeUnsat(ClauseID)                             {}

// Terminator allows cooperative cancellation of a Solve call. The default
// terminator never stops.
type Terminator interface {
	Terminate() bool
}

type neverTerminate struct{}

func (neverTerminate) Terminate() bool { return false }
