package setcs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimplifyDiscardsTrivialInclusions(t *testing.T) {
	x := SetVariable[string, string]("x")

	t.Run("Var v ⊆ Var v is discarded", func(t *testing.T) {
		s := NewConstraintSystem(NewInclusion(x, x))
		out, err := Simplify(s)
		require.NoError(t, err)
		assert.Zero(t, out.Len())
	})

	t.Run("_ ⊆ U is discarded", func(t *testing.T) {
		s := NewConstraintSystem(NewInclusion(Atom[string, string]("a"), UniversalSet[string, string]()))
		out, err := Simplify(s)
		require.NoError(t, err)
		assert.Zero(t, out.Len())
	})

	t.Run("∅ ⊆ _ is discarded", func(t *testing.T) {
		s := NewConstraintSystem(NewInclusion(EmptySet[string, string](), Atom[string, string]("a")))
		out, err := Simplify(s)
		require.NoError(t, err)
		assert.Zero(t, out.Len())
	})
}

func TestSimplifyKeepsAtomicShapes(t *testing.T) {
	x, y := SetVariable[string, string]("x"), SetVariable[string, string]("y")
	a := Atom[string, string]("a")

	for _, inc := range []Inclusion[string, string]{
		NewInclusion(x, y),
		NewInclusion(a, x),
		NewInclusion(x, a),
	} {
		out, err := Simplify(NewConstraintSystem(inc))
		require.NoError(t, err)
		require.Equal(t, 1, out.Len())
		assert.True(t, Equal(out.Inclusions()[0].LHS, inc.LHS))
		assert.True(t, Equal(out.Inclusions()[0].RHS, inc.RHS))
	}
}

func TestSimplifyUnsolvableShapes(t *testing.T) {
	f := Term[string, string]("f", []Variance{Covariant})
	g := Term[string, string]("g", []Variance{Covariant})
	a := Atom[string, string]("a")

	cases := map[string]Inclusion[string, string]{
		"U ⊆ ∅":      NewInclusion(UniversalSet[string, string](), EmptySet[string, string]()),
		"U ⊆ f(...)": NewInclusion(UniversalSet[string, string](), f(a)),
		"f(...) ⊆ ∅": NewInclusion(f(a), EmptySet[string, string]()),
		"f ⊆ g":      NewInclusion(f(a), g(a)),
	}
	for name, inc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Simplify(NewConstraintSystem(inc))
			require.Error(t, err)
			var ns NoSolution[string, string]
			assert.True(t, errors.As(err, &ns))
		})
	}
}

func TestSimplifyVariance(t *testing.T) {
	a := Atom[string, string]("a")
	b := Atom[string, string]("b")

	t.Run("covariant position preserves direction", func(t *testing.T) {
		f := Term[string, string]("f", []Variance{Covariant})
		out, err := Simplify(NewConstraintSystem(NewInclusion(f(a), f(b))))
		require.NoError(t, err)
		require.Equal(t, 1, out.Len())
		assert.True(t, Equal(out.Inclusions()[0].LHS, a))
		assert.True(t, Equal(out.Inclusions()[0].RHS, b))
	})

	t.Run("contravariant position reverses direction", func(t *testing.T) {
		f := Term[string, string]("f", []Variance{Contravariant})
		out, err := Simplify(NewConstraintSystem(NewInclusion(f(a), f(b))))
		require.NoError(t, err)
		require.Equal(t, 1, out.Len())
		assert.True(t, Equal(out.Inclusions()[0].LHS, b))
		assert.True(t, Equal(out.Inclusions()[0].RHS, a))
	})

	t.Run("mismatched arity is unsatisfiable", func(t *testing.T) {
		f1 := Term[string, string]("f", []Variance{Covariant})
		f2 := Term[string, string]("f", []Variance{Covariant, Covariant})
		x := SetVariable[string, string]("x")
		y := SetVariable[string, string]("y")

		_, err := Simplify(NewConstraintSystem(NewInclusion(f1(x), f2(x, y))))
		require.Error(t, err)
	})
}

func TestSimplifyDecomposesNestedTerms(t *testing.T) {
	pair := Term[string, string]("pair", []Variance{Covariant, Covariant})
	x, y := SetVariable[string, string]("x"), SetVariable[string, string]("y")
	a, b := Atom[string, string]("a"), Atom[string, string]("b")

	inc := NewInclusion(pair(a, b), pair(x, y))
	out, err := Simplify(NewConstraintSystem(inc))
	require.NoError(t, err)
	require.Equal(t, 2, out.Len())
	assert.True(t, Equal(out.Inclusions()[0].LHS, a))
	assert.True(t, Equal(out.Inclusions()[0].RHS, x))
	assert.True(t, Equal(out.Inclusions()[1].LHS, b))
	assert.True(t, Equal(out.Inclusions()[1].RHS, y))
}
