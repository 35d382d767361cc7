package proof

import (
	"github.com/fslivovsky/go-definitions/internal/satsolver"
	"github.com/mitchellh/go-sat/cnf"
	"github.com/pkg/errors"
)

// Store implements satsolver.ProofTracer, recording every clause the solver
// reports and, once it concludes UNSAT, reconstructing the core of the
// proof DAG that the empty clause transitively depends on.
type Store struct {
	originals map[satsolver.ClauseID]*OriginalRecord
	derived   map[satsolver.ClauseID]*DerivedRecord

	concluded bool
	emptyID   satsolver.ClauseID
}

// NewStore returns an empty proof store.
func NewStore() *Store {
	return &Store{
		originals: make(map[satsolver.ClauseID]*OriginalRecord),
		derived:   make(map[satsolver.ClauseID]*DerivedRecord),
	}
}

var _ satsolver.ProofTracer = (*Store)(nil)

// AddOriginal records clause as an original input, classified A-side if it
// contains the reserved partition-tag literal 1, B-side otherwise.
func (st *Store) AddOriginal(id satsolver.ClauseID, clause cnf.Clause) {
	side := SideB
	for _, l := range clause {
		if l == 1 {
			side = SideA
			break
		}
	}
	st.originals[id] = &OriginalRecord{Clause: clause, Side: side}
}

// AddDerived records a clause the solver learned by conflict analysis.
func (st *Store) AddDerived(id satsolver.ClauseID, clause cnf.Clause, antecedents []satsolver.ClauseID) {
	st.derived[id] = &DerivedRecord{Clause: clause, Antecedents: antecedents}
}

// AddAssumptionClause is recorded identically to AddDerived; the store does
// not distinguish the two once a clause is part of the DAG.
func (st *Store) AddAssumptionClause(id satsolver.ClauseID, clause cnf.Clause, antecedents []satsolver.ClauseID) {
	st.AddDerived(id, clause, antecedents)
}

// DeleteClause drops id from the store. Derived records that cite id keep
// their antecedent lists unchanged; a later CoreProofNode that reaches id
// panics.
func (st *Store) DeleteClause(id satsolver.ClauseID, _ cnf.Clause) {
	delete(st.originals, id)
	delete(st.derived, id)
}

// ConcludeUnsat records which clause id is the empty clause.
func (st *Store) ConcludeUnsat(emptyID satsolver.ClauseID) {
	st.emptyID = emptyID
	st.concluded = true
}

// VariableOccurrence records which side(s) of the A/B partition a variable
// was seen in, across every original clause the store has recorded.
type VariableOccurrence struct {
	A, B bool
}

// VariableOccurrences scans every original clause once and reports, for
// each variable that appears in them (including the reserved partition-tag
// variable 1, which occurs only in A-side clauses), whether it occurs in an
// A-side clause, a B-side clause, or both. An interpolant synthesizer uses
// the A flag to tell A-local pivots from B-local ones; telling shared
// pivots apart additionally requires the caller's own candidate-variable
// set, since a variable's A-copy id routinely also occurs in an untagged
// (B-side) equality-selector clause without being shared in the Padoa
// sense.
func (st *Store) VariableOccurrences() map[int]VariableOccurrence {
	occ := make(map[int]VariableOccurrence)
	for _, rec := range st.originals {
		for _, l := range rec.Clause {
			v := varOfLiteral(l)
			e := occ[v]
			if rec.Side == SideA {
				e.A = true
			} else {
				e.B = true
			}
			occ[v] = e
		}
	}
	return occ
}

// DeleteUnreachable reaps proof-store bookkeeping for derived clauses no
// longer reachable from the most recent refutation, run after every query.
// It never touches originals: the clause matrix persists across queries by
// design. It is a no-op until the first ConcludeUnsat.
//
// The reference solver (internal/satsolver) never shrinks its own clause
// database -- AddClause ids only grow, and a derived clause can in
// principle be cited again as a reason if the same propagation recurs in a
// later query -- so this is conservative by construction: it only discards
// derived clauses unreachable from the proof just extracted, never anything
// still load-bearing for it.
func (st *Store) DeleteUnreachable() {
	if !st.concluded {
		return
	}

	reachable := make(map[satsolver.ClauseID]bool)
	var visit func(id satsolver.ClauseID)
	visit = func(id satsolver.ClauseID) {
		if reachable[id] {
			return
		}
		reachable[id] = true
		if rec, ok := st.derived[id]; ok {
			for _, a := range rec.Antecedents {
				visit(a)
			}
		}
	}
	visit(st.emptyID)

	for id := range st.derived {
		if !reachable[id] {
			delete(st.derived, id)
		}
	}
}

func (st *Store) clauseOf(id satsolver.ClauseID) cnf.Clause {
	if rec, ok := st.originals[id]; ok {
		return rec.Clause
	}
	return st.derived[id].Clause
}

// CoreProofNode walks backward from the empty clause, following antecedent
// chains, and returns the root of the binary resolution tree it transitively
// depends on -- the "core" of the proof. It uses an explicit stack rather
// than recursion so the traversal order -- and therefore the resolution
// structure built along the way -- stays deterministic regardless of proof
// depth.
func (st *Store) CoreProofNode() (*ProofNode, error) {
	if !st.concluded {
		return nil, errors.New("proof store: Solve has not concluded UNSAT")
	}

	cache := make(map[satsolver.ClauseID]*ProofNode)

	type frame struct {
		id          satsolver.ClauseID
		antecedents []satsolver.ClauseID
		next        int
	}

	push := func(stack []*frame, id satsolver.ClauseID) []*frame {
		if rec, ok := st.originals[id]; ok {
			cache[id] = &ProofNode{Kind: LeafNode, Side: rec.Side}
			return stack
		}
		drec, ok := st.derived[id]
		if !ok {
			panic("proof store: antecedent references an unknown clause id")
		}
		return append(stack, &frame{id: id, antecedents: drec.Antecedents})
	}

	stack := push(nil, st.emptyID)
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.next < len(top.antecedents) {
			next := top.antecedents[top.next]
			top.next++
			if _, done := cache[next]; !done {
				stack = push(stack, next)
			}
			continue
		}
		cache[top.id] = st.resolveAntecedents(top.antecedents, cache)
		stack = stack[:len(stack)-1]
	}

	return cache[st.emptyID], nil
}

// resolveAntecedents folds an ordered antecedent list into a single binary
// resolution tree by replaying the solver's trail-reversal order: the last
// antecedent seeds the running resolvent, and each earlier antecedent is
// resolved into it on whichever variable its literals collide with the
// marks accumulated so far.
func (st *Store) resolveAntecedents(antecedents []satsolver.ClauseID, cache map[satsolver.ClauseID]*ProofNode) *ProofNode {
	n := len(antecedents)
	marks := make(map[cnf.Literal]bool)
	markLiteral := func(l cnf.Literal) bool {
		if marks[-l] {
			return true
		}
		marks[l] = true
		return false
	}

	seed := antecedents[n-1]
	running := cache[seed]
	for _, l := range st.clauseOf(seed) {
		markLiteral(l)
	}

	for i := n - 1; i >= 0; i-- {
		id := antecedents[i]
		for _, l := range st.clauseOf(id) {
			if markLiteral(l) {
				running = &ProofNode{
					Kind:  InternalNode,
					Pivot: l,
					Left:  cache[id],
					Right: running,
				}
			}
		}
	}

	return running
}
