package satsolver

import (
	"fmt"
	"strings"

	"github.com/mitchellh/go-sat/cnf"
)

// This file contains the trail-related functions for the solver. Reasons
// are tracked by clause id rather than by raw clause, so the proof tracer
// can report antecedents by id.

// ValueLit reads the currently set value for a literal.
func (s *Solver) ValueLit(l cnf.Literal) Tribool {
	result, ok := s.assigns[varOf(l)]
	if !ok || result == Undef {
		return Undef
	}

	if l < 0 {
		if result == True {
			return False
		}
		return True
	}
	return result
}

// assertLiteral pushes l onto the trail. reason is reasonNone for a decision
// or assumption, or the id of the clause whose unit propagation forced l.
func (s *Solver) assertLiteral(l cnf.Literal, reason ClauseID) {
	v := varOf(l)
	s.assigns[v] = BoolToTri(l > 0)
	s.varinfo[v] = varinfo{reason: reason, level: s.decisionLevel()}
	s.trail = append(s.trail, l)
}

// level returns the decision level for the variable specified by v. v must
// be assigned for this to be meaningful.
func (s *Solver) level(v int) int {
	return s.varinfo[v].level
}

// newDecisionLevel creates a new decision level within the trail.
func (s *Solver) newDecisionLevel() {
	s.trailIdx = append(s.trailIdx, len(s.trail))
}

// decisionLevel returns the current decision level.
func (s *Solver) decisionLevel() int {
	return len(s.trailIdx)
}

// trimToDecisionLevel trims the trail down to (and including) the given
// level, unassigning everything above it.
func (s *Solver) trimToDecisionLevel(level int) {
	if s.decisionLevel() <= level {
		return
	}

	lastIdx := s.trailIdx[level]

	for i := len(s.trail) - 1; i >= lastIdx; i-- {
		delete(s.assigns, varOf(s.trail[i]))
		delete(s.varinfo, varOf(s.trail[i]))
	}

	s.trail = s.trail[:lastIdx]
	s.trailIdx = s.trailIdx[:level]
}

// trailString is used for debugging.
func (s *Solver) trailString() string {
	vs := make([]string, len(s.trail))
	for i, l := range s.trail {
		decision := ""
		for _, idx := range s.trailIdx {
			if idx == i {
				decision = "| "
				break
			}
		}

		vs[i] = fmt.Sprintf("%s%d", decision, l)
	}

	return fmt.Sprintf("[%s]", strings.Join(vs, ", "))
}
