// Package graph builds the batch-scoped follow graph and groups accounts into
// communities with a single-level Louvain local-move pass.
package graph

import "sort"

// Adjacency maps node -> neighbor -> edge weight. Edges are undirected and
// stored on both endpoints.
type Adjacency map[string]map[string]float64

// Member is the slice of an account the graph needs.
type Member struct {
	ID        string
	Following []string
}

// Build turns follow relations into an undirected unit-weight graph. Only
// edges with both endpoints among members are kept, a mutual follow is still
// a single edge, and self follows and blank ids are dropped. Every member is
// present as a node even when it has no edges.
func Build(members []Member) Adjacency {
	adj := make(Adjacency, len(members))
	for _, m := range members {
		if m.ID == "" {
			continue
		}
		if _, ok := adj[m.ID]; !ok {
			adj[m.ID] = make(map[string]float64)
		}
	}
	for _, m := range members {
		if m.ID == "" {
			continue
		}
		for _, to := range m.Following {
			if to == "" || to == m.ID {
				continue
			}
			if _, ok := adj[to]; !ok {
				continue
			}
			adj[m.ID][to] = 1
			adj[to][m.ID] = 1
		}
	}
	return adj
}

// Nodes returns the node ids in ascending order.
func (a Adjacency) Nodes() []string {
	out := make([]string, 0, len(a))
	for id := range a {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Degree is the sum of incident edge weights.
func (a Adjacency) Degree(node string) float64 {
	var d float64
	for _, w := range a[node] {
		d += w
	}
	return d
}

// EdgeCount counts each undirected edge once.
func (a Adjacency) EdgeCount() int {
	n := 0
	for _, nbrs := range a {
		n += len(nbrs)
	}
	return n / 2
}
