package domain

import "time"

// Core domain models. Accounts, posts and activity events are owned by the
// outer system; this service reads them and writes back the bot score fields.

type PostType string

const (
	PostOriginal PostType = "original"
	PostReply    PostType = "reply"
	PostRepost   PostType = "repost"
)

// EventCommentCreate is the activity event tag that carries a reply latency.
const EventCommentCreate = "comment_create"

type Account struct {
	ID               string
	Username         string
	Following        []string
	FollowersCount   int
	BotScore         float64
	BehaviorFeatures *FeatureRecord
	LastComputedAt   *time.Time
}

// Comment is one element of a post's comments array. Only the count feeds
// scoring, so malformed elements still decode (see UnmarshalJSON).
type Comment struct {
	User      string     `json:"user"`
	Text      string     `json:"text"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

type Post struct {
	ID                    string
	ArtistID              string
	Date                  time.Time
	PostType              PostType
	OriginalPostTimestamp *time.Time // set for replies only
	Likes                 int
	Comments              []Comment
}

type ActivityEvent struct {
	UserID    *string
	EventType string
	Timestamp time.Time
	LatencyMs *float64
}

// Engagement is the per-artist aggregate over their posts.
type Engagement struct {
	PostsCount       int `json:"postsCount"`
	LikesReceived    int `json:"likesReceived"`
	CommentsReceived int `json:"commentsReceived"`
}

// NetworkSignal is embedded at behaviorFeatures.network.
type NetworkSignal struct {
	FollowingCount       int     `json:"followingCount"`
	FollowersCount       int     `json:"followersCount"`
	CommunitySize        int     `json:"communitySize"`
	CommunityDensity     float64 `json:"communityDensity"`
	ReciprocalFollowRate float64 `json:"reciprocalFollowRate"`
	PostsCount           int     `json:"postsCount"`
	LikesReceived        int     `json:"likesReceived"`
	CommentsReceived     int     `json:"commentsReceived"`
	EngagementPerPost    float64 `json:"engagementPerPost"`
	FollowingSkew        float64 `json:"followingSkew"`
	LowEngagement        float64 `json:"lowEngagement"`
	TightCluster         float64 `json:"tightCluster"`
	MutualClusterSignal  float64 `json:"mutualClusterSignal"`
	NetworkBotSignal     float64 `json:"networkBotSignal"`
}

// TemporalFeatures are the timing statistics of one account's timeline.
type TemporalFeatures struct {
	EventCount            int     `json:"eventCount"`
	PostEventCount        int     `json:"postEventCount"`
	ActivityEventCount    int     `json:"activityEventCount"`
	IntervalMeanSec       float64 `json:"intervalMeanSec"`
	IntervalStdSec        float64 `json:"intervalStdSec"`
	IntervalRegularity    float64 `json:"intervalRegularity"`
	CircadianFlatness     float64 `json:"circadianFlatness"`
	MaxInactivityGapHours float64 `json:"maxInactivityGapHours"`
	ReplyLatencyCount     int     `json:"replyLatencyCount"`
	ReplyLatencyMeanSec   float64 `json:"replyLatencyMeanSec"`
	FastReplyPct          float64 `json:"fastReplyPct"`
	BehavioralBotScore    float64 `json:"behavioralBotScore"`
}

// FeatureRecord replaces an account's behaviorFeatures wholesale on every run.
type FeatureRecord struct {
	TemporalFeatures
	Network    NetworkSignal `json:"network"`
	BotScore   float64       `json:"botScore"`
	ComputedAt time.Time     `json:"computedAt"`
}

// BotScore is the persisted score view of an account.
type BotScore struct {
	AccountID        string
	Username         string
	BotScore         float64
	BehaviorFeatures *FeatureRecord
	LastComputedAt   *time.Time
}

type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

type Run struct {
	ID             string
	Trigger        string
	RequestedLimit int
	Status         RunStatus
	Processed      int
	Failed         int
	StartedAt      time.Time
	FinishedAt     *time.Time
	Error          *string
}
