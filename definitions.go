// Package definitions implements a Craig-interpolation-based definition
// extractor for existential variables of a quantified Boolean formula,
// following Padoa's method: y has an explicit propositional definition over
// a candidate variable set S iff two renamed copies of the formula, tied
// together by forcing every variable in S to agree between the copies while
// forcing y to disagree, are jointly unsatisfiable. When they are, the
// reverse Craig interpolant of the refutation is exactly such a definition.
//
// Every public variable v is tripled into three internal ids used only by
// the solver: a B-copy (3v), an A-copy (3v+1), and an equality selector
// (3v+2). The equality selector, when assumed true, forces the two copies
// of v to agree via a biconditional clause. That selector clause is added
// untagged for every registered variable, not only the candidate set S, so
// the classifier that colors the interpolation proof is told S explicitly
// (the A-copy of each variable in S) rather than inferring it from which
// side(s) a variable was observed in.
package definitions

import (
	"github.com/fslivovsky/go-definitions/internal/aig"
	"github.com/fslivovsky/go-definitions/internal/interp"
	"github.com/fslivovsky/go-definitions/internal/proof"
	"github.com/fslivovsky/go-definitions/internal/satsolver"
	"github.com/mitchellh/go-sat/cnf"
	"github.com/pkg/errors"
)

// partitionTag is the reserved literal every A-copy clause carries as an
// extra disjunct. Assuming its negation (-1) is what actually activates the
// A-copies as real constraints instead of trivially-satisfied clauses.
const partitionTag = 1

// ErrNotDefined is returned by GetDefinition when the extractor is not in
// the DEFINED state, i.e. the most recent HasDefinition call did not return
// true.
var ErrNotDefined = errors.New("definitions: get_definition called outside the DEFINED state")

type definabilityState int

const (
	stateUndefined definabilityState = iota
	stateDefined
)

// Extractor is the public core of the package: a growing CNF matrix,
// a SAT solver and proof store wired together underneath, and a small state
// machine gating GetDefinition to only run right after a successful
// HasDefinition query.
type Extractor struct {
	solver *satsolver.Solver
	store  *proof.Store

	registered   map[int]bool
	maxPublicVar int

	state   definabilityState
	y       int
	support []int
}

// New returns an Extractor with an empty clause database.
func New() *Extractor {
	solver := satsolver.New()
	store := proof.NewStore()
	solver.SetProofTracer(store)
	return &Extractor{
		solver:     solver,
		store:      store,
		registered: make(map[int]bool),
	}
}

func copyB(v int) int { return 3 * v }
func copyA(v int) int { return 3*v + 1 }
func selVar(v int) int { return 3*v + 2 }

func varOf(l cnf.Literal) int {
	v := int(l)
	if v < 0 {
		v = -v
	}
	return v
}

func signOf(l cnf.Literal) int {
	if l < 0 {
		return -1
	}
	return 1
}

// ensureVariable registers v the first time it is seen, allocating its
// equality selector and emitting the two biconditional clauses that tie it
// to sel_v.
func (e *Extractor) ensureVariable(v int) {
	if e.registered[v] {
		return
	}
	e.registered[v] = true
	if v > e.maxPublicVar {
		e.maxPublicVar = v
	}

	a, b, sel := copyA(v), copyB(v), selVar(v)
	e.solver.AddClause(cnf.Clause{cnf.Literal(-sel), cnf.Literal(a), cnf.Literal(-b)})
	e.solver.AddClause(cnf.Clause{cnf.Literal(-sel), cnf.Literal(-a), cnf.Literal(b)})
}

// AddClause adds a single clause of the original formula. Every variable it
// mentions is registered if it has not been seen before, then an A-copy
// (tagged with the extra literal 1) and an untagged B-copy are added to the
// solver. Any call resets definability state to UNDEFINED.
func (e *Extractor) AddClause(c cnf.Clause) {
	e.state = stateUndefined

	for _, l := range c {
		e.ensureVariable(varOf(l))
	}

	aClause := make(cnf.Clause, 0, len(c)+1)
	bClause := make(cnf.Clause, 0, len(c))
	for _, l := range c {
		v, sign := varOf(l), signOf(l)
		aClause = append(aClause, cnf.Literal(sign*copyA(v)))
		bClause = append(bClause, cnf.Literal(sign*copyB(v)))
	}
	aClause = append(aClause, partitionTag)

	e.solver.AddClause(aClause)
	e.solver.AddClause(bClause)
}

// AppendFormula adds every clause of f via AddClause, in order.
func (e *Extractor) AppendFormula(f cnf.Formula) {
	for _, c := range f {
		e.AddClause(c)
	}
}

// HasDefinition asks whether y has a propositional definition over the
// candidate set support, given a set of additional assumption literals
// (over public variable ids) that must hold in both copies. It resets state
// to UNDEFINED before running, and to DEFINED -- recording y for a matching
// GetDefinition call -- iff the Padoa formula is unsatisfiable.
func (e *Extractor) HasDefinition(y int, support []int, extraAssumptions []cnf.Literal) bool {
	e.state = stateUndefined

	e.ensureVariable(y)
	for _, v := range support {
		e.ensureVariable(v)
	}

	assumptions := make([]cnf.Literal, 0, len(support)+2*len(extraAssumptions)+3)
	for _, v := range support {
		assumptions = append(assumptions, cnf.Literal(selVar(v)))
	}
	for _, l := range extraAssumptions {
		v, sign := varOf(l), signOf(l)
		e.ensureVariable(v)
		assumptions = append(assumptions,
			cnf.Literal(sign*copyA(v)),
			cnf.Literal(sign*copyB(v)),
		)
	}
	assumptions = append(assumptions,
		cnf.Literal(copyA(y)),
		cnf.Literal(-copyB(y)),
		cnf.Literal(-partitionTag),
	)

	status := e.solver.Solve(assumptions)
	defined := status == satsolver.StatusUnsat
	if defined {
		e.state = stateDefined
		e.y = y
		e.support = append([]int(nil), support...)
	}
	e.store.DeleteUnreachable()
	return defined
}

// GetDefinition synthesizes a propositional definition of the variable
// named by the last successful HasDefinition call: a CNF whose models agree
// with F on y, expressed over the candidate set, y itself, and auxiliary ids
// at or above the returned base, one of which is an output variable bound to
// y. rewrite selects whether the interpolant circuit goes through
// aig.GiniRewriter before encoding. It resets state to UNDEFINED on return.
func (e *Extractor) GetDefinition(rewrite bool) ([]cnf.Clause, int, error) {
	if e.state != stateDefined {
		return nil, 0, ErrNotDefined
	}
	y := e.y
	defer func() {
		e.state = stateUndefined
		e.store.DeleteUnreachable()
	}()

	root, err := e.store.CoreProofNode()
	if err != nil {
		return nil, 0, errors.Wrap(err, "definitions: extracting proof core")
	}

	shared := make(map[int]bool, len(e.support))
	for _, v := range e.support {
		shared[copyA(v)] = true
	}
	classifier := interp.NewClassifier(e.store.VariableOccurrences(), shared)
	synth := interp.NewSynth(classifier)
	out := synth.Synthesize(root)
	synth.Circuit().CreatePO(out)

	var rewriter aig.Rewriter = aig.NopRewriter{}
	if rewrite {
		rewriter = aig.GiniRewriter{}
	}
	circuit, ciMap := rewriter.Rewrite(synth.Circuit())

	// The rewrite may have replaced CI nodes with new ones; carry the
	// shared-variable numbering across via the correspondence Rewrite
	// returned, so Encode still numbers each CI by its public variable id.
	sharedVars := synth.SharedVars()
	ciVars := make(map[aig.Lit]int, len(sharedVars))
	for oldLit, v := range sharedVars {
		ciVars[ciMap[oldLit]] = v
	}

	// k0 must exceed the highest internal id the tripling scheme can ever
	// produce for a variable already seen (3*maxPublicVar+2), so that fresh
	// Tseitin/AIG variables never collide with it.
	k0 := 3 * (e.maxPublicVar + 1)
	clauses, outputVars, _ := aig.Encode(circuit, ciVars, k0)

	translated := make([]cnf.Clause, len(clauses))
	for i, c := range clauses {
		nc := make(cnf.Clause, len(c))
		for j, l := range c {
			nc[j] = translateToPublic(l, k0)
		}
		translated[i] = nc
	}

	outputVar := outputVars[0]
	translated = append(translated,
		cnf.Clause{cnf.Literal(outputVar), cnf.Literal(-y)},
		cnf.Clause{cnf.Literal(-outputVar), cnf.Literal(y)},
	)

	return translated, k0, nil
}

// translateToPublic undoes the tripling scheme: an id below k0 is a CI
// carrying some variable's A-copy id (3v+1) and is mapped back to v by
// integer division; an id at or above k0 is a fresh auxiliary variable from
// AIG/Tseitin encoding and passes through unchanged.
func translateToPublic(l cnf.Literal, k0 int) cnf.Literal {
	v, sign := varOf(l), signOf(l)
	if v >= k0 {
		return cnf.Literal(sign * v)
	}
	return cnf.Literal(sign * (v / 3))
}
