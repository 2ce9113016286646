package botscore

import (
	"math"

	"botwatch/internal/domain"
)

const (
	followingSkewScale   = 8.0
	engagementSaturation = 5.0

	weightFollowingSkew = 0.42
	weightLowEngagement = 0.28
	weightTightCluster  = 0.20
	weightMutualCluster = 0.10
)

// AggregateEngagement groups posts by artist.
func AggregateEngagement(posts []domain.Post) map[string]domain.Engagement {
	out := make(map[string]domain.Engagement)
	for _, p := range posts {
		if p.ArtistID == "" {
			continue
		}
		e := out[p.ArtistID]
		e.PostsCount++
		e.LikesReceived += p.Likes
		e.CommentsReceived += len(p.Comments)
		out[p.ArtistID] = e
	}
	return out
}

// NetworkInput is what the composer needs to know about one account.
type NetworkInput struct {
	FollowingCount       int
	FollowersCount       int
	CommunitySize        int
	CommunityDensity     float64
	ReciprocalFollowRate float64
	Engagement           domain.Engagement
}

// ComposeNetworkSignal blends follow skew, engagement, cluster tightness and
// mutual follows into networkBotSignal.
func ComposeNetworkSignal(in NetworkInput) domain.NetworkSignal {
	s, _ := composeNetworkSignal(in)
	return s
}

// composeNetworkSignal also returns the unrounded networkBotSignal.
func composeNetworkSignal(in NetworkInput) (domain.NetworkSignal, float64) {
	e := in.Engagement
	followers := max(in.FollowersCount, 0)
	engagementPerPost := float64(e.LikesReceived+2*e.CommentsReceived) / float64(e.PostsCount+1)
	followingSkew := clamp01((float64(in.FollowingCount) / float64(followers+1)) / followingSkewScale)
	lowEngagement := clamp01(1 - engagementPerPost/engagementSaturation)
	tightCluster := clamp01(in.CommunityDensity)
	mutual := clamp01(in.ReciprocalFollowRate)
	signal := clamp01(weightFollowingSkew*followingSkew +
		weightLowEngagement*lowEngagement +
		weightTightCluster*tightCluster +
		weightMutualCluster*mutual)

	return domain.NetworkSignal{
		FollowingCount:       in.FollowingCount,
		FollowersCount:       in.FollowersCount,
		CommunitySize:        in.CommunitySize,
		CommunityDensity:     round4(in.CommunityDensity),
		ReciprocalFollowRate: round4(in.ReciprocalFollowRate),
		PostsCount:           e.PostsCount,
		LikesReceived:        e.LikesReceived,
		CommentsReceived:     e.CommentsReceived,
		EngagementPerPost:    round4(engagementPerPost),
		FollowingSkew:        round4(followingSkew),
		LowEngagement:        round4(lowEngagement),
		TightCluster:         round4(tightCluster),
		MutualClusterSignal:  round4(mutual),
		NetworkBotSignal:     round4(signal),
	}, signal
}

func clamp01(x float64) float64 {
	if math.IsNaN(x) || x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func round4(x float64) float64 {
	return math.Round(x*1e4) / 1e4
}
