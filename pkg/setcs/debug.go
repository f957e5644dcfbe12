package setcs

import "cmp"

// IDExpr pairs a graph node id with the expression it represents,
// for debugging and visualization tooling that needs to render the
// solved inductive-form graph.
type IDExpr[V cmp.Ordered, C cmp.Ordered] struct {
	ID   int
	Expr Expr[V, C]
}

// Edge is the exported, string-labelled rendering of one graph arc,
// decoupled from the internal digraph package so callers of this
// package never need to import it directly.
type Edge struct {
	Src, Dst int
	Label    string
}

// GraphElems returns every node and edge of s's solved graph, in
// deterministic order. It exists for debugging and visualization -
// the ifscsctl graph command dumps its result as JSON - and is not
// needed by LeastSolution itself.
func GraphElems[V cmp.Ordered, C cmp.Ordered](s *SolvedSystem[V, C]) ([]IDExpr[V, C], []Edge) {
	ids := s.snapshot.Nodes()
	nodes := make([]IDExpr[V, C], 0, len(ids))
	for _, id := range ids {
		nodes = append(nodes, IDExpr[V, C]{ID: id, Expr: s.table[id]})
	}

	rawEdges := s.snapshot.Edges()
	edges := make([]Edge, 0, len(rawEdges))
	for _, e := range rawEdges {
		edges = append(edges, Edge{Src: e.Src, Dst: e.Dst, Label: e.Label.String()})
	}
	return nodes, edges
}
