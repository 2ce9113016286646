package graph

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoTriangles() []Member {
	return []Member{
		{ID: "a", Following: []string{"b", "c"}},
		{ID: "b", Following: []string{"a", "c"}},
		{ID: "c", Following: []string{"a", "b", "d"}},
		{ID: "d", Following: []string{"e", "f"}},
		{ID: "e", Following: []string{"d", "f"}},
		{ID: "f", Following: []string{"d", "e"}},
	}
}

func TestBuildKeepsBatchEdgesOnly(t *testing.T) {
	assert := assert.New(t)

	adj := Build([]Member{
		{ID: "a", Following: []string{"b", "outside", "", "a"}},
		{ID: "b", Following: []string{"a"}},
		{ID: "c"},
	})

	assert.Equal([]string{"a", "b", "c"}, adj.Nodes())
	assert.Equal(map[string]float64{"b": 1}, adj["a"])
	assert.Equal(map[string]float64{"a": 1}, adj["b"])
	assert.Empty(adj["c"])
	assert.Equal(1, adj.EdgeCount())
	assert.Equal(1.0, adj.Degree("a"))
}

func TestBuildOneWayFollowIsSymmetric(t *testing.T) {
	adj := Build([]Member{
		{ID: "a", Following: []string{"b"}},
		{ID: "b"},
	})
	assert.Equal(t, 1.0, adj["b"]["a"])
	assert.Equal(t, 1.0, adj["a"]["b"])
}

func TestDetectCommunitiesNoEdges(t *testing.T) {
	assert := assert.New(t)

	adj := Build([]Member{{ID: "a"}, {ID: "b"}, {ID: "c", Following: []string{"zzz"}}})
	p := DetectCommunities(adj, SortedVisitor)

	assert.Equal(Partition{"a": "a", "b": "b", "c": "c"}, p)
	for _, d := range Densities(adj, p) {
		assert.Zero(d)
	}
}

func TestDetectCommunitiesTwoTriangles(t *testing.T) {
	assert := assert.New(t)

	adj := Build(twoTriangles())
	p := DetectCommunities(adj, SortedVisitor)

	assert.Equal(p["a"], p["b"])
	assert.Equal(p["a"], p["c"])
	assert.Equal(p["d"], p["e"])
	assert.Equal(p["d"], p["f"])
	assert.NotEqual(p["a"], p["d"])

	densities := Densities(adj, p)
	assert.Len(densities, 2)
	assert.Equal(1.0, densities[p["a"]])
	assert.Equal(1.0, densities[p["d"]])

	again := DetectCommunities(adj, SortedVisitor)
	assert.Equal(p, again)
}

func TestDetectCommunitiesTriangleAnyOrder(t *testing.T) {
	members := []Member{
		{ID: "x", Following: []string{"y", "z"}},
		{ID: "y", Following: []string{"x", "z"}},
		{ID: "z", Following: []string{"x", "y"}},
	}
	adj := Build(members)
	for seed := uint64(0); seed < 20; seed++ {
		p := DetectCommunities(adj, ShuffleVisitor(rand.New(rand.NewPCG(seed, seed+1))))
		require.Len(t, p.Communities(), 1, "seed %d", seed)
		assert.Equal(t, 1.0, Densities(adj, p)[p["x"]])
	}
}

func TestDetectCommunitiesTieKeepsCurrent(t *testing.T) {
	// Path a-b-c, m2 = 4. Once a has joined b, b gains 0.5 by staying and
	// 0.5 by joining c; an equal gain must not move it, so all end in "b".
	// Moving on ties would end with everyone in "c".
	adj := Build([]Member{
		{ID: "a", Following: []string{"b"}},
		{ID: "b", Following: []string{"c"}},
		{ID: "c"},
	})
	p := DetectCommunities(adj, SortedVisitor)
	assert.Equal(t, Partition{"a": "b", "b": "b", "c": "b"}, p)
}

func TestDensitySmallCommunities(t *testing.T) {
	assert := assert.New(t)

	adj := Build([]Member{{ID: "solo"}, {ID: "a", Following: []string{"b"}}, {ID: "b"}})
	p := Partition{"solo": "solo", "a": "a", "b": "a"}
	d := Densities(adj, p)

	assert.Equal(0.0, d["solo"])
	assert.Equal(1.0, d["a"])
}

func TestDensityPartialCommunity(t *testing.T) {
	// path a-b-c-d in one community: 3 of 6 pairs
	adj := Build([]Member{
		{ID: "a", Following: []string{"b"}},
		{ID: "b", Following: []string{"c"}},
		{ID: "c", Following: []string{"d"}},
		{ID: "d"},
	})
	p := Partition{"a": "a", "b": "a", "c": "a", "d": "a"}
	assert.Equal(t, 0.5, Densities(adj, p)["a"])
}

func TestReciprocalFollowRates(t *testing.T) {
	assert := assert.New(t)

	rates := ReciprocalFollowRates([]Member{
		{ID: "a", Following: []string{"b"}},
		{ID: "b", Following: []string{"a", "c", "outside", "", "b"}},
		{ID: "c"},
		{ID: "d", Following: []string{"", "d"}},
	})

	assert.Equal(1.0, rates["a"])
	assert.InDelta(1.0/3.0, rates["b"], 1e-12)
	assert.Equal(0.0, rates["c"])
	assert.Equal(0.0, rates["d"])
}
