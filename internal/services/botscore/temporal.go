package botscore

import (
	"math"
	"sort"
	"time"

	"botwatch/internal/domain"
)

const (
	regularityEpsilon = 1e-6
	fastReplySeconds  = 10.0

	weightFlatness   = 0.4
	weightRegularity = 0.3
	weightFastReply  = 0.3
)

// AnalyzeTemporal computes timing statistics over an account's own posts and
// activity events. Empty inputs give zeroes, never NaN or Inf.
func AnalyzeTemporal(posts []domain.Post, events []domain.ActivityEvent) domain.TemporalFeatures {
	f, _ := analyzeTemporal(posts, events)
	return f
}

// analyzeTemporal also returns the unrounded behavioral score for the blend.
func analyzeTemporal(posts []domain.Post, events []domain.ActivityEvent) (domain.TemporalFeatures, float64) {
	timeline := make([]time.Time, 0, len(posts)+len(events))
	var latencies []float64
	for _, p := range posts {
		timeline = append(timeline, p.Date)
		if p.PostType == domain.PostReply && p.OriginalPostTimestamp != nil {
			latencies = append(latencies, p.Date.Sub(*p.OriginalPostTimestamp).Seconds())
		}
	}
	for _, ev := range events {
		timeline = append(timeline, ev.Timestamp)
		if ev.EventType == domain.EventCommentCreate && ev.LatencyMs != nil && finite(*ev.LatencyMs) {
			latencies = append(latencies, *ev.LatencyMs/1000)
		}
	}
	sort.Slice(timeline, func(i, j int) bool { return timeline[i].Before(timeline[j]) })

	intervals := make([]float64, 0, len(timeline))
	for i := 1; i < len(timeline); i++ {
		intervals = append(intervals, timeline[i].Sub(timeline[i-1]).Seconds())
	}
	mean, std := meanStd(intervals)

	var regularity float64
	if mean > 0 {
		regularity = clamp01(1 - std/(mean+regularityEpsilon))
	}

	var maxGap float64
	for _, iv := range intervals {
		if iv > maxGap {
			maxGap = iv
		}
	}

	flatness := circadianFlatness(timeline)

	var fast int
	var latencySum float64
	for _, l := range latencies {
		latencySum += l
		if l >= 0 && l < fastReplySeconds {
			fast++
		}
	}
	var fastPct, latencyMean float64
	if len(latencies) > 0 {
		fastPct = float64(fast) / float64(len(latencies))
		latencyMean = latencySum / float64(len(latencies))
	}

	behavioral := clamp01(weightFlatness*flatness + weightRegularity*regularity + weightFastReply*fastPct)

	features := domain.TemporalFeatures{
		EventCount:            len(timeline),
		PostEventCount:        len(posts),
		ActivityEventCount:    len(events),
		IntervalMeanSec:       round4(mean),
		IntervalStdSec:        round4(std),
		IntervalRegularity:    round4(regularity),
		CircadianFlatness:     round4(flatness),
		MaxInactivityGapHours: round4(maxGap / 3600),
		ReplyLatencyCount:     len(latencies),
		ReplyLatencyMeanSec:   round4(latencyMean),
		FastReplyPct:          round4(fastPct),
		BehavioralBotScore:    round4(behavioral),
	}
	return features, behavioral
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// meanStd returns the mean and population standard deviation; std is 0 below
// two samples.
func meanStd(xs []float64) (float64, float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	mean := sum / float64(len(xs))
	if len(xs) < 2 {
		return mean, 0
	}
	var sq float64
	for _, x := range xs {
		sq += (x - mean) * (x - mean)
	}
	return mean, math.Sqrt(sq / float64(len(xs)))
}

// circadianFlatness is the Shannon entropy of the UTC hour-of-day histogram
// normalized to [0,1] by log2(24).
func circadianFlatness(ts []time.Time) float64 {
	if len(ts) == 0 {
		return 0
	}
	var hist [24]int
	for _, t := range ts {
		hist[t.UTC().Hour()]++
	}
	total := float64(len(ts))
	var h float64
	for _, c := range hist {
		if c == 0 {
			continue
		}
		p := float64(c) / total
		h -= p * math.Log2(p)
	}
	return clamp01(h / math.Log2(24))
}
