package setcs

import "cmp"

// Simplify rewrites every inclusion in s into atomic form: each
// surviving inclusion has both sides as either a set variable or a
// constructed term. It applies variance decomposition to term/term
// inclusions and discards inclusions proven trivially true. It
// returns NoSolution the moment any inclusion is proved
// unsatisfiable. Simplification is single-pass per inclusion and
// terminates because decomposition strictly reduces the sum of term
// sizes; the result preserves the accumulation order of the source.
func Simplify[V cmp.Ordered, C cmp.Ordered](s ConstraintSystem[V, C]) (ConstraintSystem[V, C], error) {
	var out []Inclusion[V, C]
	for _, inc := range s.inclusions {
		atoms, err := simplifyOne(inc)
		if err != nil {
			return ConstraintSystem[V, C]{}, err
		}
		out = append(out, atoms...)
	}
	return ConstraintSystem[V, C]{inclusions: out}, nil
}

// simplifyOne rewrites a single inclusion to zero or more atomic
// inclusions, recursing through term/term variance decomposition.
func simplifyOne[V cmp.Ordered, C cmp.Ordered](inc Inclusion[V, C]) ([]Inclusion[V, C], error) {
	lhs, rhs := inc.LHS, inc.RHS

	// Var v ⊆ Var v: discard.
	if lhs.IsVariable() && rhs.IsVariable() && lhs.Variable() == rhs.Variable() {
		return nil, nil
	}
	// Var v1 ⊆ Var v2, v1 != v2: keep as-is (atomic).
	if lhs.IsVariable() && rhs.IsVariable() {
		return []Inclusion[V, C]{inc}, nil
	}
	// U ⊆ ∅: fail.
	if lhs.IsUniversal() && rhs.IsEmpty() {
		return nil, NoSolution[V, C]{Inclusion: inc}
	}
	// U ⊆ Term: fail.
	if lhs.IsUniversal() && rhs.IsTerm() {
		return nil, NoSolution[V, C]{Inclusion: inc}
	}
	// Term ⊆ ∅: fail.
	if lhs.IsTerm() && rhs.IsEmpty() {
		return nil, NoSolution[V, C]{Inclusion: inc}
	}
	// _ ⊆ U: discard.
	if rhs.IsUniversal() {
		return nil, nil
	}
	// ∅ ⊆ _: discard.
	if lhs.IsEmpty() {
		return nil, nil
	}
	// Term(c1, σ1, x) ⊆ Term(c2, σ2, y): decompose by variance, or fail
	// if the two terms are structurally incompatible.
	if lhs.IsTerm() && rhs.IsTerm() {
		return simplifyTermTerm(lhs, rhs, inc)
	}
	// Term ⊆ Var, Var ⊆ Term: already atomic.
	return []Inclusion[V, C]{inc}, nil
}

func simplifyTermTerm[V cmp.Ordered, C cmp.Ordered](lhs, rhs Expr[V, C], inc Inclusion[V, C]) ([]Inclusion[V, C], error) {
	lsig, rsig := lhs.Signature(), rhs.Signature()
	lch, rch := lhs.Children(), rhs.Children()
	if cmp.Compare(lhs.Constructor(), rhs.Constructor()) != 0 {
		return nil, NoSolution[V, C]{Inclusion: inc}
	}
	if len(lsig) != len(rsig) || len(lch) != len(lsig) || len(rch) != len(rsig) {
		return nil, NoSolution[V, C]{Inclusion: inc}
	}
	for i := range lsig {
		if lsig[i] != rsig[i] {
			return nil, NoSolution[V, C]{Inclusion: inc}
		}
	}

	var out []Inclusion[V, C]
	for i := range lsig {
		var sub Inclusion[V, C]
		if lsig[i] == Covariant {
			sub = NewInclusion(lch[i], rch[i])
		} else {
			sub = NewInclusion(rch[i], lch[i])
		}
		atoms, err := simplifyOne(sub)
		if err != nil {
			return nil, err
		}
		out = append(out, atoms...)
	}
	return out, nil
}
