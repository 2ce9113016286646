package graph

// Densities returns, per community label, the share of possible internal
// pairs that are connected. Communities with fewer than two members are 0.
func Densities(adj Adjacency, p Partition) map[string]float64 {
	internal := make(map[string]int)
	for node, c := range p {
		for nb := range adj[node] {
			if node < nb && p[nb] == c {
				internal[c]++
			}
		}
	}
	out := make(map[string]float64)
	for c, n := range p.Sizes() {
		if n < 2 {
			out[c] = 0
			continue
		}
		out[c] = float64(internal[c]) / (float64(n) * float64(n-1) / 2)
	}
	return out
}

// ReciprocalFollowRates returns, per member, the share of its follows that
// follow it back. Follow-backs are only visible among members; follows that
// leave the batch still count in the denominator. Members following nobody
// get 0.
func ReciprocalFollowRates(members []Member) map[string]float64 {
	follows := make(map[string]map[string]struct{}, len(members))
	for _, m := range members {
		if m.ID == "" {
			continue
		}
		follows[m.ID] = FollowSet(m.ID, m.Following)
	}
	out := make(map[string]float64, len(follows))
	for id, set := range follows {
		if len(set) == 0 {
			out[id] = 0
			continue
		}
		mutual := 0
		for t := range set {
			if _, ok := follows[t][id]; ok {
				mutual++
			}
		}
		out[id] = float64(mutual) / float64(len(set))
	}
	return out
}

// FollowSet dedupes follows, dropping blank ids and self follows.
func FollowSet(self string, following []string) map[string]struct{} {
	set := make(map[string]struct{}, len(following))
	for _, t := range following {
		if t == "" || t == self {
			continue
		}
		set[t] = struct{}{}
	}
	return set
}
