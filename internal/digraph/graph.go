// Package digraph implements the two external collaborators the
// solver core treats as thin, swappable components: a mutable
// labelled multigraph used while building and saturating the
// inductive-form constraint graph, and an immutable snapshot of it
// used to answer least-solution queries once solving is done.
//
// Node ids are dense, non-negative integers assigned by the caller.
// Every edge carries one of two colours, Pred or Succ. Adjacency is
// kept in a google/btree ordered by (neighbour, label) rather than a
// native Go map: Expr-derived node ids are ordinary ints so a map
// would work for existence checks, but this package also backs
// fold/Nodes/Edges iteration, and Go deliberately randomises map
// iteration order. A solver whose saturation loop depends on
// iteration order for which new edges get discovered first would
// violate the determinism property required of repeated solves, so
// adjacency orders itself by construction instead of being sorted
// before each use.
package digraph

import (
	"fmt"
	"sort"

	"github.com/google/btree"
)

// Label identifies which of the two inductive-form edge colours an
// edge carries.
type Label int

const (
	Pred Label = iota
	Succ
)

func (l Label) String() string {
	switch l {
	case Pred:
		return "Pred"
	case Succ:
		return "Succ"
	default:
		return fmt.Sprintf("Label(%d)", int(l))
	}
}

// Opposite returns the other edge colour.
func (l Label) Opposite() Label {
	if l == Pred {
		return Succ
	}
	return Pred
}

// Edge is a single labelled arc of the graph.
type Edge struct {
	Src, Dst int
	Label    Label
}

// edgeItem orders one node's adjacency entries by (neighbour, label).
type edgeItem struct {
	neighbour int
	label     Label
}

func (a edgeItem) Less(than btree.Item) bool {
	b := than.(edgeItem)
	if a.neighbour != b.neighbour {
		return a.neighbour < b.neighbour
	}
	return a.label < b.label
}

// btreeDegree is the branching factor used for every adjacency tree;
// adjacency lists in practice stay small (bounded by node count), so
// this is tuned for modest memory overhead rather than raw throughput.
const btreeDegree = 32

// Graph is a mutable labelled multigraph over a dense integer node
// namespace. It is the "IF constraint graph" container: O(1)-ish
// edge-existence checks, per-node adjacency folds, and node removal
// for cycle collapse.
type Graph struct {
	nodes map[int]struct{}
	succ  map[int]*btree.BTree
	pred  map[int]*btree.BTree
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[int]struct{}),
		succ:  make(map[int]*btree.BTree),
		pred:  make(map[int]*btree.BTree),
	}
}

// InsertNode adds id to the node set. Idempotent.
func (g *Graph) InsertNode(id int) {
	if _, ok := g.nodes[id]; ok {
		return
	}
	g.nodes[id] = struct{}{}
	g.succ[id] = btree.New(btreeDegree)
	g.pred[id] = btree.New(btreeDegree)
}

// HasNode reports whether id is currently present.
func (g *Graph) HasNode(id int) bool {
	_, ok := g.nodes[id]
	return ok
}

// InsertEdge adds a labelled edge from src to dst. The caller
// guarantees src != dst and that no (src, dst, label) triple already
// exists; both are invariant violations, so this panics rather than
// silently accepting a malformed graph (spec §7).
func (g *Graph) InsertEdge(src, dst int, label Label) {
	if src == dst {
		panic(fmt.Sprintf("digraph: self-loop rejected on node %d", src))
	}
	if !g.HasNode(src) || !g.HasNode(dst) {
		panic(fmt.Sprintf("digraph: InsertEdge on unknown node(s) %d -> %d", src, dst))
	}
	item := edgeItem{neighbour: dst, label: label}
	if g.succ[src].Has(item) {
		panic(fmt.Sprintf("digraph: duplicate edge %d -(%s)-> %d", src, label, dst))
	}
	g.succ[src].ReplaceOrInsert(item)
	g.pred[dst].ReplaceOrInsert(edgeItem{neighbour: src, label: label})
}

// EdgeExists reports whether any labelled edge runs from src to dst.
func (g *Graph) EdgeExists(src, dst int) bool {
	adj, ok := g.succ[src]
	if !ok {
		return false
	}
	return adj.Has(edgeItem{neighbour: dst, label: Pred}) || adj.Has(edgeItem{neighbour: dst, label: Succ})
}

// RemoveNode deletes id and every edge incident to it.
func (g *Graph) RemoveNode(id int) {
	if !g.HasNode(id) {
		return
	}
	g.succ[id].Ascend(func(it btree.Item) bool {
		e := it.(edgeItem)
		g.pred[e.neighbour].Delete(edgeItem{neighbour: id, label: e.label})
		return true
	})
	g.pred[id].Ascend(func(it btree.Item) bool {
		e := it.(edgeItem)
		g.succ[e.neighbour].Delete(edgeItem{neighbour: id, label: e.label})
		return true
	})
	delete(g.succ, id)
	delete(g.pred, id)
	delete(g.nodes, id)
}

// FoldPred folds f over every (neighbour, label) pair for edges
// directed into id, in deterministic (neighbour, label) order.
func (g *Graph) FoldPred(id int, f func(neighbour int, label Label)) {
	adj, ok := g.pred[id]
	if !ok {
		return
	}
	adj.Ascend(func(it btree.Item) bool {
		e := it.(edgeItem)
		f(e.neighbour, e.label)
		return true
	})
}

// FoldSucc folds f over every (neighbour, label) pair for edges
// directed out of id, in deterministic (neighbour, label) order.
func (g *Graph) FoldSucc(id int, f func(neighbour int, label Label)) {
	adj, ok := g.succ[id]
	if !ok {
		return
	}
	adj.Ascend(func(it btree.Item) bool {
		e := it.(edgeItem)
		f(e.neighbour, e.label)
		return true
	})
}

// Nodes returns a sorted snapshot of the current node ids.
func (g *Graph) Nodes() []int {
	ids := make([]int, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Edges returns a deterministic snapshot of every edge in the graph,
// ordered by (src, dst, label).
func (g *Graph) Edges() []Edge {
	var out []Edge
	for _, id := range g.Nodes() {
		g.FoldSucc(id, func(dst int, label Label) {
			out = append(out, Edge{Src: id, Dst: dst, Label: label})
		})
	}
	return out
}
