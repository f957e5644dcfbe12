package setcs

import (
	"cmp"
	"fmt"

	"github.com/google/btree"

	"github.com/gitrdm/ifscs/internal/digraph"
)

// idTreeDegree matches the degree internal/digraph uses for its own
// adjacency trees; the expr->id map has the same shape (small trees,
// many of them, over the process lifetime of one solve).
const idTreeDegree = 32

// exprItem orders (expr, id) pairs by Expr's structural total order,
// giving the builder a btree.Item so the expr->id map never requires
// V or C to be hashable - only cmp.Ordered, per spec §9's "a
// tree-based map suffices" design note.
type exprItem[V cmp.Ordered, C cmp.Ordered] struct {
	expr Expr[V, C]
	id   int
}

func (a exprItem[V, C]) Less(than btree.Item) bool {
	b := than.(exprItem[V, C])
	return Compare(a.expr, b.expr) < 0
}

// pair is a plain (a, b) int tuple, reused for both the affected-set
// entries of spec §4.4.6 and the worklist entries of §4.4.7.
type pair struct{ a, b int }

// affectedSet is an insertion-ordered, deduplicated set of pairs. Its
// iteration order is its insertion order, which the saturation loop
// depends on for the determinism property (spec §8): two solves over
// the same system in the same order must discover new inclusions in
// the same order.
type affectedSet struct {
	seen  map[pair]bool
	items []pair
}

func newAffectedSet() *affectedSet {
	return &affectedSet{seen: make(map[pair]bool)}
}

func (s *affectedSet) add(a, b int) {
	if s == nil {
		return
	}
	p := pair{a, b}
	if s.seen[p] {
		return
	}
	s.seen[p] = true
	s.items = append(s.items, p)
}

// builder inserts atomic inclusions into an inductive-form graph,
// eliminating cycles online and driving saturation to a fixed point
// (spec §4.4). It is process-local, mutable, and single-threaded; the
// public Solve entry point is what makes it safe to call from
// multiple goroutines, by giving each call its own builder.
type builder[V cmp.Ordered, C cmp.Ordered] struct {
	ids   *btree.BTree
	table []Expr[V, C]
	rep   map[int]int
	g     *digraph.Graph

	removeCycles bool
	budget       int

	log    logFields
	tracer Tracer[V, C]
}

// logFields is the narrow slice of *logrus.Entry the builder needs;
// declared as an interface so tests can supply a no-op without
// pulling logrus into every test file.
type logFields interface {
	Debugf(format string, args ...interface{})
}

func newBuilder[V cmp.Ordered, C cmp.Ordered](cfg *config[V, C], log logFields) *builder[V, C] {
	return &builder[V, C]{
		ids:          btree.New(idTreeDegree),
		rep:          make(map[int]int),
		g:            digraph.New(),
		removeCycles: cfg.removeCycles,
		budget:       cfg.cycleBudget,
		log:          log,
		tracer:       cfg.tracer,
	}
}

// resolve follows the union-find-style representative chain left
// behind by cycle collapse (spec §4.4.5 step 4) to the current
// canonical id for a node that may have been merged away.
func (b *builder[V, C]) resolve(id int) int {
	for {
		r, ok := b.rep[id]
		if !ok {
			return id
		}
		id = r
	}
}

// getEID returns the canonical node id for e, allocating a fresh one
// (and inserting it into the graph) the first time e is seen.
func (b *builder[V, C]) getEID(e Expr[V, C]) int {
	if it := b.ids.Get(exprItem[V, C]{expr: e}); it != nil {
		return b.resolve(it.(exprItem[V, C]).id)
	}
	id := len(b.table)
	b.table = append(b.table, e)
	b.g.InsertNode(id)
	b.ids.ReplaceOrInsert(exprItem[V, C]{expr: e, id: id})
	return id
}

// addInclusion dispatches an atomic inclusion to the graph as one
// labelled edge, per spec §4.4.2: Var/Var picks the label by the
// arbitrary-but-fixed order on V so the two directions never collide,
// Term/Var is always Pred (term flows into the variable), Var/Term is
// always Succ (the variable flows into the term).
func (b *builder[V, C]) addInclusion(removeCycles bool, affected *affectedSet, inc Inclusion[V, C]) error {
	lhs, rhs := inc.LHS, inc.RHS
	switch {
	case lhs.IsVariable() && rhs.IsVariable():
		v1, v2 := lhs.Variable(), rhs.Variable()
		if v1 == v2 {
			panic("setcs: reflexive variable inclusion reached the builder; the simplifier must discard it first")
		}
		if cmp.Compare(v1, v2) < 0 {
			return b.addEdge(removeCycles, affected, digraph.Pred, lhs, rhs)
		}
		return b.addEdge(removeCycles, affected, digraph.Succ, lhs, rhs)
	case lhs.IsTerm() && rhs.IsVariable():
		return b.addEdge(removeCycles, affected, digraph.Pred, lhs, rhs)
	case lhs.IsVariable() && rhs.IsTerm():
		return b.addEdge(removeCycles, affected, digraph.Succ, lhs, rhs)
	default:
		panic(fmt.Sprintf("setcs: ill-formed atomic inclusion reached the builder: %s", inc))
	}
}

// addEdge resolves both endpoints to node ids, skips edges already
// present or reflexive after resolution, and either eliminates a
// cycle the new edge would close or inserts it directly.
func (b *builder[V, C]) addEdge(removeCycles bool, affected *affectedSet, label digraph.Label, e1, e2 Expr[V, C]) error {
	id1 := b.resolve(b.getEID(e1))
	id2 := b.resolve(b.getEID(e2))
	if id1 == id2 {
		return nil
	}
	if b.g.EdgeExists(id1, id2) {
		return nil
	}
	if removeCycles {
		if chain := b.checkChain(label.Opposite(), id1, id2); chain != nil {
			return b.collapse(chain)
		}
	}
	return b.simpleAddEdge(affected, label, id1, id2)
}

// checkChain looks for an existing path of target-labelled edges from
// id1 back to id2 (walking predecessor links, per spec §4.4.4); if
// found, inserting the new edge id1 -> id2 would close a cycle whose
// members are all mutually reachable and can be collapsed to one
// representative. The search silently gives up once it exhausts the
// remaining cycle-detection budget, degrading to "no chain found"
// rather than failing the solve.
func (b *builder[V, C]) checkChain(target digraph.Label, id1, id2 int) []int {
	visited := make(map[int]bool)
	path := make([]int, 0, 8)
	if b.dfsChain(target, id1, id2, visited, &path) {
		return append([]int(nil), path...)
	}
	return nil
}

func (b *builder[V, C]) dfsChain(target digraph.Label, cur, sink int, visited map[int]bool, path *[]int) bool {
	if b.budget <= 0 {
		return false
	}
	b.budget--
	if visited[cur] {
		return false
	}
	visited[cur] = true
	*path = append(*path, cur)
	if cur == sink {
		return true
	}
	found := false
	b.g.FoldPred(cur, func(neighbour int, label digraph.Label) {
		if found || label != target {
			return
		}
		if b.dfsChain(target, neighbour, sink, visited, path) {
			found = true
		}
	})
	if !found {
		*path = (*path)[:len(*path)-1]
	}
	return found
}

// collapse merges every node in chain into a single representative,
// the member with the smallest id, re-issuing the chain's boundary
// edges as fresh inclusions on the representative so no information
// is lost (spec §4.4.5). The re-issued inclusions are inserted with
// cycle elimination disabled: chain members were already proven
// mutually reachable, re-running detection on their own boundary
// edges would be redundant work at best and infinite regress at
// worst.
func (b *builder[V, C]) collapse(chain []int) error {
	if len(chain) < 2 {
		return nil
	}
	rep := chain[0]
	for _, id := range chain[1:] {
		if id < rep {
			rep = id
		}
	}
	inChain := make(map[int]bool, len(chain))
	for _, id := range chain {
		inChain[id] = true
	}

	var members []Expr[V, C]
	for _, id := range chain {
		members = append(members, b.table[id])
	}
	b.tracer.TraceCollapse(members, b.table[rep])
	b.log.Debugf("collapsing %d node(s) into representative %d", len(chain), rep)

	var emitted []Inclusion[V, C]
	for _, m := range chain {
		if m == rep {
			continue
		}
		b.g.FoldPred(m, func(src int, _ digraph.Label) {
			if !inChain[src] {
				emitted = append(emitted, NewInclusion(b.table[src], b.table[rep]))
			}
		})
		b.g.FoldSucc(m, func(dst int, _ digraph.Label) {
			if !inChain[dst] {
				emitted = append(emitted, NewInclusion(b.table[rep], b.table[dst]))
			}
		})
	}
	for _, m := range chain {
		if m == rep {
			continue
		}
		b.g.RemoveNode(m)
		b.rep[m] = rep
	}
	for _, inc := range emitted {
		if err := b.addInclusion(false, nil, inc); err != nil {
			return err
		}
	}
	return nil
}

// simpleAddEdge inserts the edge and updates the affected set per
// spec §4.4.6: inserting a Pred edge p->x makes (p, x) itself the
// candidate pair to test during saturation (p now composes with every
// Succ neighbour of x), while inserting a Succ edge x->q means every
// existing Pred predecessor p of x has a new candidate (p, x) too
// (since x has grown a Succ neighbour p didn't have before).
func (b *builder[V, C]) simpleAddEdge(affected *affectedSet, label digraph.Label, id1, id2 int) error {
	b.g.InsertEdge(id1, id2, label)
	if label == digraph.Pred {
		affected.add(id1, id2)
		return nil
	}
	b.g.FoldPred(id1, func(p int, predLabel digraph.Label) {
		if predLabel == digraph.Pred {
			affected.add(p, id1)
		}
	})
	return nil
}

// collectPredEdges seeds the initial saturation worklist with every
// Pred edge already present in the graph (spec §4.4.7).
func collectPredEdges(g *digraph.Graph) []pair {
	var out []pair
	for _, e := range g.Edges() {
		if e.Label == digraph.Pred {
			out = append(out, pair{e.Src, e.Dst})
		}
	}
	return out
}

// saturate repeatedly composes Pred edges with the Succ edges of
// their target to discover new atomic inclusions p ⊆ r whenever
// p -Pred-> x -Succ-> r, until a round produces nothing new (spec
// §4.4.7). Each discovered inclusion is simplified before insertion:
// composition can produce a term/term pair that decomposes further,
// or an inclusion already proven unsatisfiable.
func (b *builder[V, C]) saturate() error {
	worklist := collectPredEdges(b.g)
	round := 0
	for len(worklist) > 0 {
		round++
		candidates := newAffectedSet()
		for _, wp := range worklist {
			p, x := wp.a, wp.b
			b.g.FoldSucc(x, func(r int, label digraph.Label) {
				if label != digraph.Succ || p == r || b.g.EdgeExists(p, r) {
					return
				}
				candidates.add(p, r)
			})
		}
		if len(candidates.items) == 0 {
			return nil
		}

		var newIncls []Inclusion[V, C]
		for _, c := range candidates.items {
			atoms, err := simplifyOne(NewInclusion(b.table[c.a], b.table[c.b]))
			if err != nil {
				return err
			}
			newIncls = append(newIncls, atoms...)
		}
		if len(newIncls) == 0 {
			return nil
		}
		b.tracer.TraceSaturationRound(round, len(newIncls))
		b.log.Debugf("saturation round %d: %d new atomic inclusion(s)", round, len(newIncls))

		next := newAffectedSet()
		for _, inc := range newIncls {
			if err := b.addInclusion(b.removeCycles, next, inc); err != nil {
				return err
			}
		}
		worklist = next.items
	}
	return nil
}
