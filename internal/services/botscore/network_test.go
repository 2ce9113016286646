package botscore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"botwatch/internal/domain"
	"botwatch/internal/graph"
)

func TestAggregateEngagement(t *testing.T) {
	posts := []domain.Post{
		{ID: "1", ArtistID: "a", Likes: 3, Comments: []domain.Comment{{User: "x"}, {User: "y"}}},
		{ID: "2", ArtistID: "a", Likes: 1},
		{ID: "3", ArtistID: "b", Likes: 0, Comments: []domain.Comment{{User: "a"}}},
		{ID: "4", ArtistID: "", Likes: 99},
	}
	got := AggregateEngagement(posts)

	assert.Equal(t, map[string]domain.Engagement{
		"a": {PostsCount: 2, LikesReceived: 4, CommentsReceived: 2},
		"b": {PostsCount: 1, LikesReceived: 0, CommentsReceived: 1},
	}, got)
	assert.Equal(t, got, AggregateEngagement(posts))
}

func TestComposeNetworkSignalSilentAccount(t *testing.T) {
	assert := assert.New(t)

	s := ComposeNetworkSignal(NetworkInput{CommunitySize: 1})
	assert.Zero(s.FollowingSkew)
	assert.Equal(1.0, s.LowEngagement)
	assert.Zero(s.TightCluster)
	assert.Zero(s.MutualClusterSignal)
	assert.Equal(0.28, s.NetworkBotSignal)
}

func TestComposeNetworkSignalFollowFarm(t *testing.T) {
	assert := assert.New(t)

	s := ComposeNetworkSignal(NetworkInput{
		FollowingCount:       80,
		FollowersCount:       0,
		CommunitySize:        4,
		CommunityDensity:     1,
		ReciprocalFollowRate: 1,
		Engagement:           domain.Engagement{PostsCount: 3, LikesReceived: 20},
	})
	assert.Equal(1.0, s.FollowingSkew)
	assert.Equal(5.0, s.EngagementPerPost)
	assert.Zero(s.LowEngagement)
	assert.Equal(0.72, s.NetworkBotSignal)
}

func TestComposeNetworkSignalPartial(t *testing.T) {
	assert := assert.New(t)

	s := ComposeNetworkSignal(NetworkInput{
		FollowingCount:       10,
		FollowersCount:       4,
		CommunityDensity:     0.5,
		ReciprocalFollowRate: 0.25,
		Engagement:           domain.Engagement{PostsCount: 1, LikesReceived: 2, CommentsReceived: 1},
	})
	// skew (10/5)/8 = 0.25; epp 4/2 = 2; lowEng 0.6
	assert.Equal(0.25, s.FollowingSkew)
	assert.Equal(2.0, s.EngagementPerPost)
	assert.Equal(0.6, s.LowEngagement)
	assert.InDelta(0.42*0.25+0.28*0.6+0.2*0.5+0.1*0.25, s.NetworkBotSignal, 1e-4)
}

func TestComposeNetworkSignalBounded(t *testing.T) {
	s := ComposeNetworkSignal(NetworkInput{
		FollowingCount:       1000,
		FollowersCount:       -5,
		CommunityDensity:     3,
		ReciprocalFollowRate: -1,
	})
	for _, v := range []float64{s.FollowingSkew, s.LowEngagement, s.TightCluster, s.MutualClusterSignal, s.NetworkBotSignal} {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestComposeScore(t *testing.T) {
	assert.InDelta(t, 0.5, ComposeScore(0.5, 0.5), 1e-12)
	assert.InDelta(t, 0.0784, ComposeScore(0, 0.28), 1e-12)
	assert.Equal(t, 1.0, ComposeScore(2, 2))
}

func TestScoreRoundsOnlyTheBlend(t *testing.T) {
	assert := assert.New(t)
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	// skew 0.125, lowEngagement 0.8, density 2/3: signal 0.409833...
	network, raw := composeNetworkSignal(NetworkInput{
		FollowingCount:   1,
		CommunitySize:    3,
		CommunityDensity: 2.0 / 3.0,
		Engagement:       domain.Engagement{PostsCount: 1, LikesReceived: 2},
	})
	assert.Equal(0.4098, network.NetworkBotSignal)
	assert.InDelta(0.0525+0.224+0.2*2.0/3.0, raw, 1e-12)

	b := &BatchContext{
		Signals:    map[string]domain.NetworkSignal{"u": network},
		rawSignals: map[string]float64{"u": raw},
	}
	rec := b.Score("u", nil, nil, at)
	// 0.28*0.409833 = 0.114753; blending the stored 0.4098 would give 0.1147
	assert.Equal(0.1148, rec.BotScore)
	assert.Equal(network, rec.Network)
	assert.Equal(at, rec.ComputedAt)

	missing := b.Score("nobody", nil, nil, at)
	assert.Equal(0.0784, missing.BotScore)
}

func TestBatchContextTriangleAndPair(t *testing.T) {
	assert := assert.New(t)

	accounts := []domain.Account{
		{ID: "a", Following: []string{"b", "c"}, FollowersCount: 2},
		{ID: "b", Following: []string{"a", "c"}, FollowersCount: 2},
		{ID: "c", Following: []string{"a", "b"}, FollowersCount: 2},
		{ID: "p", Following: []string{"q"}, FollowersCount: 1},
		{ID: "q", Following: []string{"p", "", "ghost"}, FollowersCount: 1},
	}
	b := NewBatchContext(accounts, nil, graph.SortedVisitor)

	assert.Equal(2, b.Communities)
	for _, id := range []string{"a", "b", "c"} {
		assert.Equal(1.0, b.Signals[id].CommunityDensity, id)
		assert.Equal(3, b.Signals[id].CommunitySize, id)
		assert.Equal(1.0, b.Signals[id].ReciprocalFollowRate, id)
	}
	assert.Equal(1.0, b.Signals["p"].ReciprocalFollowRate)
	assert.Equal(0.5, b.Signals["q"].ReciprocalFollowRate)
	assert.Equal(2, b.Signals["q"].FollowingCount)
}
