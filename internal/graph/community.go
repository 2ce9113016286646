package graph

import (
	"math/rand/v2"
	"sort"
)

// MaxPasses bounds the local-move loop.
const MaxPasses = 25

// Visitor reorders the nodes visited in one pass, in place.
type Visitor func(nodes []string)

// ShuffleVisitor visits nodes in a fresh random order every pass. A nil rng
// uses the global source.
func ShuffleVisitor(rng *rand.Rand) Visitor {
	return func(nodes []string) {
		swap := func(i, j int) { nodes[i], nodes[j] = nodes[j], nodes[i] }
		if rng == nil {
			rand.Shuffle(len(nodes), swap)
			return
		}
		rng.Shuffle(len(nodes), swap)
	}
}

// SortedVisitor keeps the ascending id order, making detection reproducible.
func SortedVisitor(nodes []string) {}

// Partition assigns every node a community label. Labels are node ids and are
// only meaningful within one run.
type Partition map[string]string

// Communities groups members by label, each member list sorted.
func (p Partition) Communities() map[string][]string {
	out := make(map[string][]string)
	for node, c := range p {
		out[c] = append(out[c], node)
	}
	for _, members := range out {
		sort.Strings(members)
	}
	return out
}

// Sizes returns the member count per label.
func (p Partition) Sizes() map[string]int {
	out := make(map[string]int)
	for _, c := range p {
		out[c]++
	}
	return out
}

// DetectCommunities runs the single-level Louvain local-move heuristic. Each
// node starts alone; in each pass it moves to the neighboring community with
// the strictly greatest positive gain kiIn(c) - sumTot(c)*k/m2, computed with
// the node's own degree taken out of its community. A pass without moves ends
// the loop. A graph without edges yields singleton communities.
func DetectCommunities(adj Adjacency, visit Visitor) Partition {
	nodes := adj.Nodes()
	communityOf := make(Partition, len(nodes))
	degree := make(map[string]float64, len(nodes))
	sumTot := make(map[string]float64, len(nodes))
	var m2 float64
	for _, n := range nodes {
		communityOf[n] = n
		degree[n] = adj.Degree(n)
		sumTot[n] = degree[n]
		m2 += degree[n]
	}
	if m2 == 0 {
		return communityOf
	}
	if visit == nil {
		visit = ShuffleVisitor(nil)
	}

	order := make([]string, len(nodes))
	for pass := 0; pass < MaxPasses; pass++ {
		copy(order, nodes)
		visit(order)

		moves := 0
		for _, node := range order {
			k := degree[node]
			if k == 0 {
				continue
			}
			current := communityOf[node]

			kiIn := make(map[string]float64)
			for nb, w := range adj[node] {
				kiIn[communityOf[nb]] += w
			}
			candidates := make([]string, 0, len(kiIn))
			for c := range kiIn {
				candidates = append(candidates, c)
			}
			sort.Strings(candidates)

			sumTot[current] -= k

			best := current
			bestGain := 0.0
			if in, ok := kiIn[current]; ok {
				if g := in - sumTot[current]*k/m2; g > 0 {
					bestGain = g
				}
			}
			for _, c := range candidates {
				if c == current {
					continue
				}
				// strictly greater: a tie with the stay gain keeps the node
				if g := kiIn[c] - sumTot[c]*k/m2; g > bestGain {
					best, bestGain = c, g
				}
			}

			communityOf[node] = best
			sumTot[best] += k
			if best != current {
				moves++
			}
		}
		if moves == 0 {
			break
		}
	}
	return communityOf
}
