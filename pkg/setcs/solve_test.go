package setcs

import (
	"cmp"
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exprSet renders a slice of expressions as a sorted set of strings so
// assertions can compare "least_solution result" order-insensitively,
// per spec §8's scenario table.
func exprSet[V cmp.Ordered, C cmp.Ordered](t *testing.T, es []Expr[V, C]) []string {
	t.Helper()
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.String()
	}
	sort.Strings(out)
	return out
}

func TestSolveEndToEndScenarios(t *testing.T) {
	t.Run("scenario 1: atom(a) ⊆ x, query x", func(t *testing.T) {
		x := SetVariable[string, string]("x")
		a := Atom[string, string]("a")
		sys := NewConstraintSystem(NewInclusion(a, x))

		solved, err := Solve(sys)
		require.NoError(t, err)

		got, err := LeastSolution(solved, "x")
		require.NoError(t, err)
		assert.Equal(t, []string{"a()"}, exprSet(t, got))
	})

	t.Run("scenario 2: chained inclusion propagates through x to y", func(t *testing.T) {
		x, y := SetVariable[string, string]("x"), SetVariable[string, string]("y")
		a := Atom[string, string]("a")
		sys := NewConstraintSystem(
			NewInclusion(a, x),
			NewInclusion(x, y),
		)

		solved, err := Solve(sys)
		require.NoError(t, err)

		gotY, err := LeastSolution(solved, "y")
		require.NoError(t, err)
		assert.Equal(t, []string{"a()"}, exprSet(t, gotY))

		gotX, err := LeastSolution(solved, "x")
		require.NoError(t, err)
		assert.Equal(t, []string{"a()"}, exprSet(t, gotX))
	})

	t.Run("scenario 3: two sources join at z", func(t *testing.T) {
		x, y, z := SetVariable[string, string]("x"), SetVariable[string, string]("y"), SetVariable[string, string]("z")
		a, b := Atom[string, string]("a"), Atom[string, string]("b")
		sys := NewConstraintSystem(
			NewInclusion(a, x),
			NewInclusion(b, y),
			NewInclusion(x, z),
			NewInclusion(y, z),
		)

		solved, err := Solve(sys)
		require.NoError(t, err)

		got, err := LeastSolution(solved, "z")
		require.NoError(t, err)
		assert.Equal(t, []string{"a()", "b()"}, exprSet(t, got))
	})

	t.Run("scenario 4: universalSet ⊆ emptySet fails", func(t *testing.T) {
		sys := NewConstraintSystem(NewInclusion(UniversalSet[string, string](), EmptySet[string, string]()))
		_, err := Solve(sys)
		require.Error(t, err)
		var ns NoSolution[string, string]
		assert.True(t, errors.As(err, &ns))
	})

	t.Run("scenario 5: covariant term decomposition reaches y", func(t *testing.T) {
		f := Term[string, string]("f", []Variance{Covariant})
		y := SetVariable[string, string]("y")
		a := Atom[string, string]("a")
		sys := NewConstraintSystem(NewInclusion(f(a), f(y)))

		solved, err := Solve(sys)
		require.NoError(t, err)

		got, err := LeastSolution(solved, "y")
		require.NoError(t, err)
		assert.Equal(t, []string{"a()"}, exprSet(t, got))
	})

	t.Run("scenario 6: cycle collapse still resolves y to a", func(t *testing.T) {
		x, y := SetVariable[string, string]("x"), SetVariable[string, string]("y")
		a := Atom[string, string]("a")
		sys := NewConstraintSystem(
			NewInclusion(x, y),
			NewInclusion(y, x),
			NewInclusion(a, x),
		)

		solved, err := Solve(sys)
		require.NoError(t, err)

		got, err := LeastSolution(solved, "y")
		require.NoError(t, err)
		assert.Equal(t, []string{"a()"}, exprSet(t, got))
	})
}

func TestCycleCollapseEquivalence(t *testing.T) {
	x, y := SetVariable[string, string]("x"), SetVariable[string, string]("y")
	a := Atom[string, string]("a")
	sys := NewConstraintSystem(
		NewInclusion(x, y),
		NewInclusion(y, x),
		NewInclusion(a, x),
	)

	withCollapse, err := Solve(sys, WithCycleElimination[string, string](true))
	require.NoError(t, err)
	withoutCollapse, err := Solve(sys, WithCycleElimination[string, string](false))
	require.NoError(t, err)

	for _, v := range []string{"x", "y"} {
		got1, err := LeastSolution(withCollapse, v)
		require.NoError(t, err)
		got2, err := LeastSolution(withoutCollapse, v)
		require.NoError(t, err)
		assert.Equal(t, exprSet(t, got1), exprSet(t, got2), "variable %q disagrees", v)
	}
}

func TestSolveIsDeterministic(t *testing.T) {
	x, y, z := SetVariable[string, string]("x"), SetVariable[string, string]("y"), SetVariable[string, string]("z")
	a, b := Atom[string, string]("a"), Atom[string, string]("b")
	sys := NewConstraintSystem(
		NewInclusion(a, x),
		NewInclusion(b, y),
		NewInclusion(x, z),
		NewInclusion(y, z),
		NewInclusion(z, x),
	)

	first, err := Solve(sys)
	require.NoError(t, err)
	second, err := Solve(sys)
	require.NoError(t, err)

	for _, v := range []string{"x", "y", "z"} {
		got1, err := LeastSolution(first, v)
		require.NoError(t, err)
		got2, err := LeastSolution(second, v)
		require.NoError(t, err)
		assert.Equal(t, got1, got2, "variable %q order differs across runs", v)
	}
}

func TestLeastSolutionUnknownVariable(t *testing.T) {
	sys := NewConstraintSystem(NewInclusion(Atom[string, string]("a"), SetVariable[string, string]("x")))
	solved, err := Solve(sys)
	require.NoError(t, err)

	_, err = LeastSolution(solved, "never-seen")
	require.Error(t, err)
	var nvl NoVariableLabel[string]
	assert.True(t, errors.As(err, &nvl))
}

func TestSolveBatchIsIndependentPerSystem(t *testing.T) {
	mk := func(name string, ok bool) ConstraintSystem[string, string] {
		x := SetVariable[string, string](name)
		if ok {
			return NewConstraintSystem(NewInclusion(Atom[string, string]("a"), x))
		}
		return NewConstraintSystem(NewInclusion(UniversalSet[string, string](), EmptySet[string, string]()))
	}

	systems := []ConstraintSystem[string, string]{
		mk("x1", true),
		mk("x2", false),
		mk("x3", true),
	}

	results, errs := SolveBatch(context.Background(), systems)
	require.Len(t, results, 3)
	require.Len(t, errs, 3)

	assert.NoError(t, errs[0])
	assert.NotNil(t, results[0])

	assert.Error(t, errs[1])
	assert.Nil(t, results[1])

	assert.NoError(t, errs[2])
	assert.NotNil(t, results[2])
}

func TestGraphElemsIsDeterministic(t *testing.T) {
	x, y := SetVariable[string, string]("x"), SetVariable[string, string]("y")
	a := Atom[string, string]("a")
	sys := NewConstraintSystem(NewInclusion(a, x), NewInclusion(x, y))

	solved, err := Solve(sys)
	require.NoError(t, err)

	nodes1, edges1 := GraphElems(solved)
	nodes2, edges2 := GraphElems(solved)
	assert.Equal(t, nodes1, nodes2)
	assert.Equal(t, edges1, edges2)
	assert.NotEmpty(t, nodes1)
	assert.NotEmpty(t, edges1)
}
