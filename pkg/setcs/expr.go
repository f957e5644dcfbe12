// Package setcs implements an inductive-form set-constraint solver:
// it accepts a system of inclusion constraints over set expressions,
// decides satisfiability, and answers least-solution queries. Set
// constraint solving underpins program-analysis tasks such as
// points-to, control-flow, and shape analysis, where program facts
// are encoded as "each set variable must contain at least these
// things".
//
// The package is organized around four collaborators: the expression
// and inclusion algebra (this file), the simplifier that rewrites
// compound inclusions into atomic form (simplify.go), the builder
// that inserts atomic inclusions into an inductive-form graph with
// online cycle elimination and drives saturation to a fixed point
// (builder.go), and the solved system with its least-solution query
// (solved.go).
package setcs

import (
	"cmp"
	"fmt"
	"strings"
)

// Variance annotates a constructor argument position, determining
// whether term/term decomposition preserves (Covariant) or reverses
// (Contravariant) the inclusion direction at that position.
type Variance int

const (
	Covariant Variance = iota
	Contravariant
)

func (v Variance) String() string {
	if v == Contravariant {
		return "contravariant"
	}
	return "covariant"
}

type exprKind int

const (
	kindEmpty exprKind = iota
	kindUniversal
	kindVariable
	kindTerm
)

// Expr is a set expression: the empty set, the universal set, a named
// set variable, or a constructed term applying a labelled constructor
// to an ordered sequence of sub-expressions. V is the type of
// variable keys, C the type of constructor labels; both need only a
// total order (cmp.Ordered), not hashability - Compare is structural
// and deterministic given a consistent order on V and C.
type Expr[V cmp.Ordered, C cmp.Ordered] struct {
	kind     exprKind
	variable V
	ctor     C
	sig      []Variance
	children []Expr[V, C]
}

// EmptySet returns ∅, the universally-smallest set.
func EmptySet[V cmp.Ordered, C cmp.Ordered]() Expr[V, C] {
	return Expr[V, C]{kind: kindEmpty}
}

// UniversalSet returns U, the universally-largest set.
func UniversalSet[V cmp.Ordered, C cmp.Ordered]() Expr[V, C] {
	return Expr[V, C]{kind: kindUniversal}
}

// SetVariable returns the set expression naming variable v.
func SetVariable[V cmp.Ordered, C cmp.Ordered](v V) Expr[V, C] {
	return Expr[V, C]{kind: kindVariable, variable: v}
}

// Atom returns a zero-arity constructed term labelled c.
func Atom[V cmp.Ordered, C cmp.Ordered](c C) Expr[V, C] {
	return Term[V, C](c, nil)()
}

// Term returns a constructor of arity len(sig): applying it to
// exactly len(sig) children yields ConstructedTerm(c, sig, children).
// It panics if called with a number of children other than len(sig),
// since that is a programming error at the call site, not a
// representable ill-formed expression.
func Term[V cmp.Ordered, C cmp.Ordered](c C, sig []Variance) func(children ...Expr[V, C]) Expr[V, C] {
	sigCopy := append([]Variance(nil), sig...)
	return func(children ...Expr[V, C]) Expr[V, C] {
		if len(children) != len(sigCopy) {
			panic(fmt.Sprintf("setcs: constructor arity mismatch: signature has %d position(s), got %d child(ren)", len(sigCopy), len(children)))
		}
		return Expr[V, C]{
			kind:     kindTerm,
			ctor:     c,
			sig:      sigCopy,
			children: append([]Expr[V, C](nil), children...),
		}
	}
}

// IsEmpty reports whether e is ∅.
func (e Expr[V, C]) IsEmpty() bool { return e.kind == kindEmpty }

// IsUniversal reports whether e is U.
func (e Expr[V, C]) IsUniversal() bool { return e.kind == kindUniversal }

// IsVariable reports whether e is a set variable.
func (e Expr[V, C]) IsVariable() bool { return e.kind == kindVariable }

// IsTerm reports whether e is a constructed term.
func (e Expr[V, C]) IsTerm() bool { return e.kind == kindTerm }

// Variable returns the variable key. Panics if !e.IsVariable().
func (e Expr[V, C]) Variable() V {
	if !e.IsVariable() {
		panic("setcs: Variable() on a non-variable expression")
	}
	return e.variable
}

// Constructor returns the constructor label. Panics if !e.IsTerm().
func (e Expr[V, C]) Constructor() C {
	if !e.IsTerm() {
		panic("setcs: Constructor() on a non-term expression")
	}
	return e.ctor
}

// Signature returns the constructor's per-argument variance. Panics
// if !e.IsTerm().
func (e Expr[V, C]) Signature() []Variance {
	if !e.IsTerm() {
		panic("setcs: Signature() on a non-term expression")
	}
	return e.sig
}

// Children returns the term's sub-expressions. Panics if !e.IsTerm().
func (e Expr[V, C]) Children() []Expr[V, C] {
	if !e.IsTerm() {
		panic("setcs: Children() on a non-term expression")
	}
	return e.children
}

// String returns a human-readable, deterministic rendering of e.
func (e Expr[V, C]) String() string {
	switch e.kind {
	case kindEmpty:
		return "∅"
	case kindUniversal:
		return "U"
	case kindVariable:
		return fmt.Sprintf("%v", e.variable)
	case kindTerm:
		parts := make([]string, len(e.children))
		for i, c := range e.children {
			parts[i] = c.String()
		}
		return fmt.Sprintf("%v(%s)", e.ctor, strings.Join(parts, ", "))
	default:
		return "<invalid expr>"
	}
}

// Compare imposes a total, deterministic order over expressions:
// EmptySet < UniversalSet < SetVariable < ConstructedTerm, with
// structural tie-breaking within each case. Two runs over the same
// input with the same V/C ordering produce the same order, which the
// determinism property (spec §8) depends on transitively through the
// builder's id-assignment map.
func Compare[V cmp.Ordered, C cmp.Ordered](a, b Expr[V, C]) int {
	if a.kind != b.kind {
		return cmp.Compare(a.kind, b.kind)
	}
	switch a.kind {
	case kindEmpty, kindUniversal:
		return 0
	case kindVariable:
		return cmp.Compare(a.variable, b.variable)
	case kindTerm:
		if c := cmp.Compare(a.ctor, b.ctor); c != 0 {
			return c
		}
		if c := cmp.Compare(len(a.sig), len(b.sig)); c != 0 {
			return c
		}
		for i := range a.sig {
			if c := cmp.Compare(a.sig[i], b.sig[i]); c != 0 {
				return c
			}
		}
		if c := cmp.Compare(len(a.children), len(b.children)); c != 0 {
			return c
		}
		for i := range a.children {
			if c := Compare(a.children[i], b.children[i]); c != 0 {
				return c
			}
		}
		return 0
	default:
		return 0
	}
}

// Equal reports whether a and b are structurally identical.
func Equal[V cmp.Ordered, C cmp.Ordered](a, b Expr[V, C]) bool {
	return Compare(a, b) == 0
}

// Equal implements the single-argument equality method go-cmp looks
// for, so cmp.Diff can compare values containing an Expr without
// tripping over its unexported fields.
func (e Expr[V, C]) Equal(other Expr[V, C]) bool {
	return Compare(e, other) == 0
}

// Inclusion is the ordered pair lhs ⊆ rhs.
type Inclusion[V cmp.Ordered, C cmp.Ordered] struct {
	LHS, RHS Expr[V, C]
}

// NewInclusion returns the inclusion lhs ⊆ rhs.
func NewInclusion[V cmp.Ordered, C cmp.Ordered](lhs, rhs Expr[V, C]) Inclusion[V, C] {
	return Inclusion[V, C]{LHS: lhs, RHS: rhs}
}

// String renders the inclusion as "lhs ⊆ rhs".
func (i Inclusion[V, C]) String() string {
	return fmt.Sprintf("%s ⊆ %s", i.LHS, i.RHS)
}

// CompareInclusion extends Compare to inclusions, lhs first then rhs.
func CompareInclusion[V cmp.Ordered, C cmp.Ordered](a, b Inclusion[V, C]) int {
	if c := Compare(a.LHS, b.LHS); c != 0 {
		return c
	}
	return Compare(a.RHS, b.RHS)
}

// ConstraintSystem is an ordered sequence of inclusions; insertion
// order is the simplification order.
type ConstraintSystem[V cmp.Ordered, C cmp.Ordered] struct {
	inclusions []Inclusion[V, C]
}

// NewConstraintSystem wraps a sequence of inclusions, preserving order.
func NewConstraintSystem[V cmp.Ordered, C cmp.Ordered](is ...Inclusion[V, C]) ConstraintSystem[V, C] {
	return ConstraintSystem[V, C]{inclusions: append([]Inclusion[V, C](nil), is...)}
}

// Inclusions returns the system's inclusions in insertion order.
func (s ConstraintSystem[V, C]) Inclusions() []Inclusion[V, C] {
	return append([]Inclusion[V, C](nil), s.inclusions...)
}

// Len returns the number of inclusions in the system.
func (s ConstraintSystem[V, C]) Len() int {
	return len(s.inclusions)
}
