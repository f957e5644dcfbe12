package setcs

import (
	"cmp"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Tracer observes builder internals — cycle collapses and saturation
// rounds — without the library committing to one logging shape. This
// mirrors the Tracer/WithTracer option pattern used by
// operator-lifecycle-manager's dependency resolver
// (pkg/controller/registry/resolver/solver), which lets a caller
// trace why a solve took the shape it did without the solver itself
// depending on a particular tracing backend.
type Tracer[V cmp.Ordered, C cmp.Ordered] interface {
	// TraceCollapse is called whenever a set of equivalent nodes is
	// collapsed into a single representative expression.
	TraceCollapse(chain []Expr[V, C], representative Expr[V, C])
	// TraceSaturationRound is called once for each saturation round
	// that discovers new atomic inclusions, with the round number
	// (starting at 1) and the number of those inclusions. The final
	// round, which finds nothing new, is not traced.
	TraceSaturationRound(round, newInclusions int)
}

// DefaultTracer discards every event.
type DefaultTracer[V cmp.Ordered, C cmp.Ordered] struct{}

func (DefaultTracer[V, C]) TraceCollapse(chain []Expr[V, C], representative Expr[V, C]) {}
func (DefaultTracer[V, C]) TraceSaturationRound(round, newInclusions int)               {}

type config[V cmp.Ordered, C cmp.Ordered] struct {
	removeCycles bool
	cycleBudget  int
	logger       *logrus.Logger
	tracer       Tracer[V, C]
}

func defaultConfig[V cmp.Ordered, C cmp.Ordered]() *config[V, C] {
	return &config[V, C]{
		removeCycles: true,
		cycleBudget:  100000,
		logger:       logrus.StandardLogger(),
		tracer:       DefaultTracer[V, C]{},
	}
}

// Option configures a Solve or SolveBatch call.
type Option[V cmp.Ordered, C cmp.Ordered] func(*config[V, C]) error

// WithCycleElimination enables or disables online cycle detection
// during insertion. Disabling it is a pure performance tradeoff: per
// spec §8, the least solution of every variable is identical either
// way.
func WithCycleElimination[V cmp.Ordered, C cmp.Ordered](enabled bool) Option[V, C] {
	return func(c *config[V, C]) error {
		c.removeCycles = enabled
		return nil
	}
}

// WithCycleBudget bounds the total number of nodes visited across all
// cycle-detection DFS walks during a single solve. Exhausting the
// budget silently degrades to "no chain found" for the walk in
// progress; it never affects correctness, only how much structural
// sharing cycle collapse discovers (spec §4.4.4, §9).
func WithCycleBudget[V cmp.Ordered, C cmp.Ordered](n int) Option[V, C] {
	return func(c *config[V, C]) error {
		if n <= 0 {
			return fmt.Errorf("setcs: cycle budget must be positive, got %d", n)
		}
		c.cycleBudget = n
		return nil
	}
}

// WithLogger overrides the default standard logrus logger. The
// default logger is quiet (library imports should not chatter); pass
// a logger configured at Debug level to see saturation round and
// cycle collapse activity.
func WithLogger[V cmp.Ordered, C cmp.Ordered](l *logrus.Logger) Option[V, C] {
	return func(c *config[V, C]) error {
		if l == nil {
			return fmt.Errorf("setcs: logger must not be nil")
		}
		c.logger = l
		return nil
	}
}

// WithTracer installs a Tracer to observe builder internals.
func WithTracer[V cmp.Ordered, C cmp.Ordered](t Tracer[V, C]) Option[V, C] {
	return func(c *config[V, C]) error {
		if t == nil {
			return fmt.Errorf("setcs: tracer must not be nil")
		}
		c.tracer = t
		return nil
	}
}
