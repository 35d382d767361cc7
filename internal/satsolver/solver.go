package satsolver

import "github.com/mitchellh/go-sat/cnf"

// Solver is a CDCL-style SAT solver that proves or refutes a growing clause
// database and, when it refutes one, reports every original and derived
// clause through a ProofTracer so a caller can reconstruct the resolution
// proof afterward. Its search loop is the classic one: propagate, check for
// a conflict, analyze and backjump, or decide.
type Solver struct {
	// Trace and Tracer are an optional diagnostic logging pair; they have no
	// effect on solving or on the proof reported to ProofTracer.
	Trace  bool
	Tracer Tracer

	proofTracer ProofTracer
	terminator  Terminator

	clauses      map[ClauseID]cnf.Clause
	clauseOrder  []ClauseID
	nextClauseID ClauseID

	vars     map[int]struct{}
	varOrder []int

	assigns map[int]Tribool
	varinfo map[int]varinfo

	trail    []cnf.Literal
	trailIdx []int

	assumptions []cnf.Literal

	// Conflict-analysis scratch state, valid only during handleConflict.
	cH     map[cnf.Literal]struct{}
	cP     map[cnf.Literal]struct{}
	cN     int
	cL     cnf.Literal
	cLevel int
	c      cnf.Clause
	chrono []ClauseID
}

// New returns a solver with an empty clause database, a no-op ProofTracer
// and a terminator that never asks to stop.
func New() *Solver {
	return &Solver{
		clauses:      make(map[ClauseID]cnf.Clause),
		nextClauseID: 1,
		vars:         make(map[int]struct{}),
		assigns:      make(map[int]Tribool),
		varinfo:      make(map[int]varinfo),
		proofTracer:  NopProofTracer{},
		terminator:   neverTerminate{},
	}
}

// SetProofTracer attaches the tracer that receives proof events during
// Solve. Passing nil restores the no-op tracer.
func (s *Solver) SetProofTracer(t ProofTracer) {
	if t == nil {
		t = NopProofTracer{}
	}
	s.proofTracer = t
}

// SetTerminator attaches a cooperative cancellation source. Passing nil
// restores the default, which never terminates.
func (s *Solver) SetTerminator(t Terminator) {
	if t == nil {
		t = neverTerminate{}
	}
	s.terminator = t
}

func (s *Solver) tracef(format string, v ...interface{}) {
	if s.Trace && s.Tracer != nil {
		s.Tracer.Printf(format, v...)
	}
}

func (s *Solver) registerVar(v int) {
	if _, ok := s.vars[v]; !ok {
		s.vars[v] = struct{}{}
		s.varOrder = append(s.varOrder, v)
	}
}

// AddClause adds c to the clause database, reports it to the ProofTracer as
// an original clause, and returns the id assigned to it. Clauses persist
// across Solve calls; the database only grows.
func (s *Solver) AddClause(c cnf.Clause) ClauseID {
	for _, l := range c {
		s.registerVar(varOf(l))
	}

	id := s.nextClauseID
	s.nextClauseID++
	s.clauses[id] = c
	s.clauseOrder = append(s.clauseOrder, id)
	s.proofTracer.AddOriginal(id, c)
	s.tracef("add original clause %d: %v", id, c)
	return id
}

// AddFormula adds every clause of f via AddClause, in order.
func (s *Solver) AddFormula(f cnf.Formula) {
	for _, c := range f {
		s.AddClause(c)
	}
}

// clauseStatus classifies c under the current assignment: satisfied, a
// single remaining unit literal, or (if every literal is false) a conflict.
func (s *Solver) clauseStatus(c cnf.Clause) (satisfied bool, unit cnf.Literal, conflict bool) {
	unassigned := 0
	for _, l := range c {
		switch s.ValueLit(l) {
		case True:
			return true, 0, false
		case Undef:
			unassigned++
			unit = l
		}
	}
	if unassigned == 0 {
		return false, 0, true
	}
	if unassigned == 1 {
		return false, unit, false
	}
	return false, 0, false
}

// propagate repeatedly scans the clause database for unit clauses and
// asserts their consequence, naively re-scanning from the top whenever it
// makes progress, until either nothing changes or a clause is falsified.
func (s *Solver) propagate() (ClauseID, bool) {
	for {
		progressed := false
		for _, id := range s.clauseOrder {
			satisfied, unit, conflict := s.clauseStatus(s.clauses[id])
			if conflict {
				return id, true
			}
			if satisfied || unit == 0 {
				continue
			}
			s.assertLiteral(unit, id)
			progressed = true
		}
		if !progressed {
			return 0, false
		}
	}
}

func (s *Solver) pickDecisionLiteral() (cnf.Literal, bool) {
	for _, v := range s.varOrder {
		if s.assigns[v] == Undef {
			return cnf.Literal(v), true
		}
	}
	return 0, false
}

// Solve searches for a satisfying assignment under the given assumptions,
// which are asserted in order at the start of the trail, one per decision
// level, exactly as if each had been decided. The clause database from
// earlier AddClause/AddFormula calls (and any clauses learned by earlier
// Solve calls) persists; only the trail is reset.
//
// Returns StatusSat, StatusUnsat, or StatusUnknown if the Terminator asks
// the search to stop.
func (s *Solver) Solve(assumptions []cnf.Literal) Status {
	s.trimToDecisionLevel(0)
	s.assumptions = assumptions

	for {
		if s.terminator.Terminate() {
			return StatusUnknown
		}

		if conflictID, ok := s.propagate(); ok {
			if !s.handleConflict(conflictID) {
				return StatusUnsat
			}
			continue
		}

		if dl := s.decisionLevel(); dl < len(s.assumptions) {
			a := s.assumptions[dl]
			s.newDecisionLevel()
			switch s.ValueLit(a) {
			case False:
				if !s.handleConflict(s.varinfo[varOf(a)].reason) {
					return StatusUnsat
				}
			case Undef:
				s.assertLiteral(a, reasonNone)
			}
			continue
		}

		if len(s.trail) == len(s.vars) {
			return StatusSat
		}

		lit, ok := s.pickDecisionLiteral()
		if !ok {
			return StatusSat
		}
		s.newDecisionLevel()
		s.assertLiteral(lit, reasonNone)
	}
}

// handleConflict runs 1st-UIP conflict analysis on the clause conflictID,
// learns the resulting clause (reporting it through the ProofTracer), and
// either backjumps (returning true) or, if the learned clause is empty,
// reports ConcludeUnsat and returns false.
func (s *Solver) handleConflict(conflictID ClauseID) bool {
	s.cLevel = s.decisionLevel()
	s.chrono = s.chrono[:0]
	s.chrono = append(s.chrono, conflictID)
	s.applyConflict(s.clauses[conflictID])
	s.applyExplainUIP()

	id := s.nextClauseID
	s.nextClauseID++
	s.clauses[id] = s.c
	s.clauseOrder = append(s.clauseOrder, id)

	antecedents := make([]ClauseID, len(s.chrono))
	for i, cid := range s.chrono {
		antecedents[len(s.chrono)-1-i] = cid
	}

	// The conflict is treated as arising from the assumption prefix when its
	// decision level falls within the range assumptions occupy; this is the
	// solver's resolution of the "assumption core vs. derived clause" choice
	// left open by the proof-tracer contract (see DESIGN.md).
	if s.cLevel <= len(s.assumptions) {
		s.proofTracer.AddAssumptionClause(id, s.c, antecedents)
	} else {
		s.proofTracer.AddDerived(id, s.c, antecedents)
	}
	s.tracef("learned clause %d at level %d: %v", id, s.cLevel, s.c)

	if len(s.c) == 0 {
		s.proofTracer.ConcludeUnsat(id)
		return false
	}

	s.applyBackjump(id)
	return true
}

func (s *Solver) addConflictLiteral(l cnf.Literal) {
	if _, ok := s.cH[l]; ok {
		return
	}
	info, assigned := s.varinfo[varOf(negate(l))]
	if !assigned || (info.level == 0 && s.cLevel > 0) {
		return
	}
	s.cH[l] = struct{}{}
	if info.level == s.cLevel {
		s.cN++
	} else {
		s.cP[l] = struct{}{}
	}
}

func (s *Solver) removeConflictLiteral(l cnf.Literal) {
	delete(s.cH, l)
	if info, ok := s.varinfo[varOf(negate(l))]; ok && info.level == s.cLevel {
		s.cN--
	} else {
		delete(s.cP, l)
	}
}

// findLastAsserted sets s.cL to the most recently asserted trail literal
// whose negation currently labels the conflict clause, i.e. the next
// literal to explain.
func (s *Solver) findLastAsserted() {
	for i := len(s.trail) - 1; i >= 0; i-- {
		if _, ok := s.cH[negate(s.trail[i])]; ok {
			s.cL = s.trail[i]
			return
		}
	}
}

func (s *Solver) applyConflict(c cnf.Clause) {
	s.cH = make(map[cnf.Literal]struct{}, len(c))
	s.cP = make(map[cnf.Literal]struct{})
	s.cN = 0
	for _, l := range c {
		s.addConflictLiteral(l)
	}
	s.findLastAsserted()
}

// applyExplain resolves the running conflict clause against the reason of
// the trail literal lit, removing lit's negation (the pivot) and pulling in
// the reason clause's other literals.
func (s *Solver) applyExplain(lit cnf.Literal) {
	s.removeConflictLiteral(negate(lit))
	reasonID := s.varinfo[varOf(lit)].reason
	s.chrono = append(s.chrono, reasonID)
	for _, l := range s.clauses[reasonID] {
		if l != lit {
			s.addConflictLiteral(l)
		}
	}
	s.findLastAsserted()
}

// applyExplainUIP drives applyExplain until the conflict clause has a
// single literal at the conflict level (the 1st UIP), or, if the conflict
// level is 0, until nothing remains at all -- there is no level to stop at
// short of the empty clause.
func (s *Solver) applyExplainUIP() {
	for {
		if s.cN == 0 {
			break
		}
		if s.cN == 1 && s.cLevel > 0 {
			break
		}
		s.applyExplain(s.cL)
	}

	c := make(cnf.Clause, 0, len(s.cP)+1)
	for l := range s.cP {
		c = append(c, l)
	}
	if s.cN == 1 {
		c = append(c, negate(s.cL))
	}
	s.c = c
}

func (s *Solver) applyBackjump(learnedID ClauseID) {
	level := 0
	for l := range s.cP {
		if lv := s.level(varOf(l)); lv > level {
			level = lv
		}
	}
	s.trimToDecisionLevel(level)
	s.assertLiteral(negate(s.cL), learnedID)
}
