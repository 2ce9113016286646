package botscore

import (
	"time"

	"botwatch/internal/domain"
	"botwatch/internal/graph"
)

const (
	weightBehavioral = 0.72
	weightNetwork    = 0.28
)

// ComposeScore blends the behavioral and network signals. Callers pass the
// unrounded values; only the result is rounded when stored.
func ComposeScore(behavioral, network float64) float64 {
	return clamp01(weightBehavioral*behavioral + weightNetwork*network)
}

// BatchContext holds the batch-wide network view. It is built once per run
// and only read afterwards.
type BatchContext struct {
	Graph       graph.Adjacency
	Partition   graph.Partition
	Communities int
	Signals     map[string]domain.NetworkSignal

	// unrounded networkBotSignal per account
	rawSignals map[string]float64
}

// NewBatchContext runs the graph half of the pipeline: graph, communities,
// density, reciprocity and engagement folded into one signal per account.
func NewBatchContext(accounts []domain.Account, posts []domain.Post, visit graph.Visitor) *BatchContext {
	members := make([]graph.Member, 0, len(accounts))
	for _, a := range accounts {
		members = append(members, graph.Member{ID: a.ID, Following: a.Following})
	}
	adj := graph.Build(members)
	partition := graph.DetectCommunities(adj, visit)
	densities := graph.Densities(adj, partition)
	sizes := partition.Sizes()
	reciprocal := graph.ReciprocalFollowRates(members)
	engagement := AggregateEngagement(posts)

	signals := make(map[string]domain.NetworkSignal, len(accounts))
	raw := make(map[string]float64, len(accounts))
	for _, a := range accounts {
		if a.ID == "" {
			continue
		}
		c := partition[a.ID]
		signals[a.ID], raw[a.ID] = composeNetworkSignal(NetworkInput{
			FollowingCount:       len(graph.FollowSet(a.ID, a.Following)),
			FollowersCount:       a.FollowersCount,
			CommunitySize:        sizes[c],
			CommunityDensity:     densities[c],
			ReciprocalFollowRate: reciprocal[a.ID],
			Engagement:           engagement[a.ID],
		})
	}
	return &BatchContext{
		Graph:       adj,
		Partition:   partition,
		Communities: len(sizes),
		Signals:     signals,
		rawSignals:  raw,
	}
}

// Score is the pure per-account step: the account's own history plus the
// batch context yield its feature record.
func (b *BatchContext) Score(accountID string, posts []domain.Post, events []domain.ActivityEvent, now time.Time) domain.FeatureRecord {
	network, ok := b.Signals[accountID]
	networkRaw := b.rawSignals[accountID]
	if !ok {
		network, networkRaw = composeNetworkSignal(NetworkInput{})
	}
	temporal, behavioral := analyzeTemporal(posts, events)
	return domain.FeatureRecord{
		TemporalFeatures: temporal,
		Network:          network,
		BotScore:         round4(ComposeScore(behavioral, networkRaw)),
		ComputedAt:       now,
	}
}
