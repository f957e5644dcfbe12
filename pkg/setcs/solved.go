package setcs

import (
	"cmp"
	"context"

	"github.com/google/uuid"

	"github.com/gitrdm/ifscs/internal/digraph"
	"github.com/gitrdm/ifscs/internal/parallel"
)

// SolvedSystem is the immutable result of a successful Solve: a
// frozen inductive-form graph plus the expression table and variable
// index needed to answer LeastSolution queries. It holds no mutable
// state, so a single SolvedSystem is safe to query from any number of
// goroutines concurrently.
type SolvedSystem[V cmp.Ordered, C cmp.Ordered] struct {
	table    []Expr[V, C]
	varIndex map[V]int
	snapshot *digraph.Snapshot
}

// Solve simplifies s, builds its inductive-form graph with online
// cycle elimination, saturates it to a fixed point, and returns an
// immutable SolvedSystem. It returns NoSolution if any inclusion in s
// is proved unsatisfiable, at simplification time or during
// saturation.
func Solve[V cmp.Ordered, C cmp.Ordered](s ConstraintSystem[V, C], opts ...Option[V, C]) (*SolvedSystem[V, C], error) {
	cfg := defaultConfig[V, C]()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	solveID := uuid.New()
	log := cfg.logger.WithField("solve_id", solveID.String()).WithField("component", "setcs.builder")
	log.Debugf("solving %d inclusion(s)", s.Len())

	atomic, err := Simplify(s)
	if err != nil {
		return nil, err
	}

	b := newBuilder(cfg, log)
	for _, inc := range atomic.Inclusions() {
		if err := b.addInclusion(b.removeCycles, nil, inc); err != nil {
			return nil, err
		}
	}
	if err := b.saturate(); err != nil {
		return nil, err
	}

	varIndex := make(map[V]int)
	for id, e := range b.table {
		if e.IsVariable() {
			varIndex[e.Variable()] = b.resolve(id)
		}
	}

	log.Debugf("solved: %d node(s) after collapse", len(b.g.Nodes()))
	return &SolvedSystem[V, C]{
		table:    append([]Expr[V, C](nil), b.table...),
		varIndex: varIndex,
		snapshot: digraph.Freeze(b.g),
	}, nil
}

// SolveBatch runs Solve over every system in systems concurrently,
// using a bounded worker pool (internal/parallel) sized to the
// number of systems or 16, whichever is smaller.
// It returns one result slot and one error slot per input system, in
// input order; a solve is independent of every other, so one
// system's NoSolution does not abort the batch.
func SolveBatch[V cmp.Ordered, C cmp.Ordered](ctx context.Context, systems []ConstraintSystem[V, C], opts ...Option[V, C]) ([]*SolvedSystem[V, C], []error) {
	results := make([]*SolvedSystem[V, C], len(systems))
	errs := make([]error, len(systems))

	parallelism := len(systems)
	if parallelism > 16 {
		parallelism = 16
	}
	if parallelism < 1 {
		return results, errs
	}

	_ = parallel.Run(ctx, parallelism, len(systems), func(i int) {
		results[i], errs[i] = Solve(systems[i], opts...)
	})
	return results, errs
}

// LeastSolution returns every constructed term reachable from v by
// walking incoming edges backward through the solved graph, i.e.
// every term proven (directly or transitively) included in v - the
// set of terms the least solution guarantees v contains (spec §4.5).
// It returns NoVariableLabel if v never appeared as a SetVariable in
// the system that produced s.
func LeastSolution[V cmp.Ordered, C cmp.Ordered](s *SolvedSystem[V, C], v V) ([]Expr[V, C], error) {
	id, ok := s.varIndex[v]
	if !ok {
		return nil, NoVariableLabel[V]{Variable: v}
	}
	var out []Expr[V, C]
	s.snapshot.DFS(context.Background(), id, digraph.Backward, func(n int) {
		if e := s.table[n]; e.IsTerm() {
			out = append(out, e)
		}
	})
	return out, nil
}
