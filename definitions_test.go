package definitions

import (
	"testing"

	"github.com/mitchellh/go-sat/cnf"
	testiface "github.com/mitchellh/go-testing-interface"
	"github.com/stretchr/testify/require"
)

func lit(v int) cnf.Literal { return cnf.Literal(v) }

func clause(vs ...int) cnf.Clause {
	c := make(cnf.Clause, len(vs))
	for i, v := range vs {
		c[i] = lit(v)
	}
	return c
}

// newDefinedExtractor builds an Extractor preloaded with definedFormula, for
// reuse from both *testing.T and *testing.B call sites.
func newDefinedExtractor(t testiface.T) *Extractor {
	t.Helper()
	e := New()
	for _, c := range definedFormula() {
		e.AddClause(c)
	}
	return e
}

func BenchmarkHasDefinition(b *testing.B) {
	e := newDefinedExtractor(b)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.HasDefinition(3, []int{1, 2}, nil)
	}
}

// y (var 3) is defined as x1 (1) AND x2 (2): (¬y∨x1), (¬y∨x2), (y∨¬x1∨¬x2).
func definedFormula() []cnf.Clause {
	return []cnf.Clause{
		clause(-3, 1),
		clause(-3, 2),
		clause(3, -1, -2),
	}
}

func TestHasDefinition_trueWhenVariableIsPinnedDownBySupport(t *testing.T) {
	e := newDefinedExtractor(t)

	require.True(t, e.HasDefinition(3, []int{1, 2}, nil))
}

func TestHasDefinition_falseWhenVariableIsUnconstrained(t *testing.T) {
	e := New()
	e.AddClause(clause(1))

	require.False(t, e.HasDefinition(2, []int{1}, nil))
}

func TestHasDefinition_resetsStaleDefinedState(t *testing.T) {
	e := New()
	for _, c := range definedFormula() {
		e.AddClause(c)
	}
	require.True(t, e.HasDefinition(3, []int{1, 2}, nil))

	// A fresh query against an unconstrained variable must not leave the
	// extractor DEFINED from the previous, unrelated success.
	e.AddClause(clause(4))
	require.False(t, e.HasDefinition(5, []int{4}, nil))

	_, _, err := e.GetDefinition(false)
	require.ErrorIs(t, err, ErrNotDefined)
}

func TestGetDefinition_requiresDefinedState(t *testing.T) {
	e := New()
	_, _, err := e.GetDefinition(false)
	require.ErrorIs(t, err, ErrNotDefined)
}

func TestGetDefinition_producesCNFOverSupportAndOutputVariable(t *testing.T) {
	e := New()
	for _, c := range definedFormula() {
		e.AddClause(c)
	}
	require.True(t, e.HasDefinition(3, []int{1, 2}, nil))

	clauses, k0, err := e.GetDefinition(false)
	require.NoError(t, err)
	require.NotEmpty(t, clauses)
	require.Equal(t, 3*(3+1), k0) // maxPublicVar is 3 (y itself)

	for _, c := range clauses {
		for _, l := range c {
			v := int(l)
			if v < 0 {
				v = -v
			}
			// Every literal is over the support, y, a fresh output var, or
			// an auxiliary id at/above k0 -- never a bare tripled copy or
			// selector id for a variable outside the support.
			require.True(t, v == 1 || v == 2 || v == 3 || v >= k0,
				"literal %d outside expected vocabulary", l)
		}
	}

	// State resets to UNDEFINED after a successful GetDefinition.
	_, _, err = e.GetDefinition(false)
	require.ErrorIs(t, err, ErrNotDefined)
}

func TestGetDefinition_withGiniRewrite(t *testing.T) {
	e := New()
	for _, c := range definedFormula() {
		e.AddClause(c)
	}
	require.True(t, e.HasDefinition(3, []int{1, 2}, nil))

	clauses, _, err := e.GetDefinition(true)
	require.NoError(t, err)
	require.NotEmpty(t, clauses)
}

func TestAppendFormula_addsEveryClause(t *testing.T) {
	e := New()
	e.AppendFormula(cnf.Formula(definedFormula()))

	require.True(t, e.HasDefinition(3, []int{1, 2}, nil))
}

func TestHasDefinition_withExtraAssumptions(t *testing.T) {
	// x1 (1) is itself pinned to true by a unit clause; y (3) := x1.
	e := New()
	e.AddClause(clause(1))
	e.AddClause(clause(-3, 1))
	e.AddClause(clause(3, -1))

	require.True(t, e.HasDefinition(3, []int{1}, []cnf.Literal{lit(1)}))
}
