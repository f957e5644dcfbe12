package setcs

import (
	"cmp"
	"fmt"
)

// NoSolution reports that Inclusion can never be satisfied: the
// simplifier or saturation loop proved it unsatisfiable (a universal
// set included in the empty set, a universal set included in a term,
// a term included in the empty set, or two incompatible constructed
// terms on either side of ⊆).
type NoSolution[V cmp.Ordered, C cmp.Ordered] struct {
	Inclusion Inclusion[V, C]
}

func (e NoSolution[V, C]) Error() string {
	return fmt.Sprintf("no solution: %s is not satisfiable", e.Inclusion)
}

// NoVariableLabel reports that LeastSolution was asked about a
// variable that never appeared as a SetVariable in the solved system.
type NoVariableLabel[V cmp.Ordered] struct {
	Variable V
}

func (e NoVariableLabel[V]) Error() string {
	return fmt.Sprintf("no such variable in solved system: %v", e.Variable)
}
