package matching

import (
	"fmt"
	"math/rand"
	"testing"

	"nanomatch/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func poolOf(n int) []models.Influencer {
	pool := make([]models.Influencer, n)
	for i := range pool {
		pool[i] = models.Influencer{
			ID:             fmt.Sprintf("inf-%02d", i),
			PricePerPost:   float64(100 + 50*i),
			Niche:          "Fitness",
			EngagementRate: float64(i % 12),
			Location:       []string{"Lagos", "Accra"}[i%2],
		}
	}
	return pool
}

func TestScoreAll_IndexAligned(t *testing.T) {
	sme := models.SME{ID: "sme", Budget: 400, Niche: "Fitness", Location: "Lagos"}
	pool := poolOf(40)

	scored := ScoreAll(sme, pool, 4)

	require.Len(t, scored, len(pool))
	for i, s := range scored {
		assert.Equal(t, pool[i].ID, s.Influencer.ID)
		assert.Equal(t, Score(sme, pool[i]), s.Match)
	}
}

func TestRank_SortsStableAndTruncates(t *testing.T) {
	scored := []Scored{
		{Influencer: models.Influencer{ID: "a"}, Match: models.MatchResult{InfluencerID: "a", Score: 70}},
		{Influencer: models.Influencer{ID: "b"}, Match: models.MatchResult{InfluencerID: "b", Score: 90}},
		{Influencer: models.Influencer{ID: "c"}, Match: models.MatchResult{InfluencerID: "c", Score: 70}},
		{Influencer: models.Influencer{ID: "d"}, Match: models.MatchResult{InfluencerID: "d", Score: 95}},
		{Influencer: models.Influencer{ID: "e"}, Match: models.MatchResult{InfluencerID: "e", Score: 70}},
	}

	got := Rank(scored, 4)

	require.Len(t, got, 4)
	var order []string
	for _, r := range got {
		order = append(order, r.Influencer.ID)
	}
	assert.Equal(t, []string{"d", "b", "a", "c"}, order)
}

func TestRank_ExcludesUnscoreable(t *testing.T) {
	scored := []Scored{
		{Influencer: models.Influencer{ID: "free"}, Match: models.MatchResult{Score: 0, Unscoreable: ReasonInvalidPrice}},
		{Influencer: models.Influencer{ID: "ok"}, Match: models.MatchResult{Score: 12}},
	}

	got := Rank(scored, 5)
	require.Len(t, got, 1)
	assert.Equal(t, "ok", got[0].Influencer.ID)
}

func TestRank_FewerThanLimit(t *testing.T) {
	got := Rank([]Scored{{Match: models.MatchResult{Score: 50}}}, 10)
	assert.Len(t, got, 1)

	assert.Empty(t, Rank(nil, 3))
	assert.Empty(t, Rank([]Scored{{Match: models.MatchResult{Score: 50}}}, 0))
}

func TestPipeline_ScoringOrderDoesNotChangeRanking(t *testing.T) {
	sme := models.SME{ID: "sme", Budget: 600, Niche: "Fitness", Location: "Lagos"}
	pool := poolOf(30)
	want := Rank(ScoreAll(sme, pool, 1), 10)

	rng := rand.New(rand.NewSource(7))
	for run := 0; run < 20; run++ {
		// Score in a shuffled order, then put results back in store order before ranking.
		perm := rng.Perm(len(pool))
		shuffled := make([]models.Influencer, len(pool))
		for i, p := range perm {
			shuffled[i] = pool[p]
		}
		scoredShuffled := ScoreAll(sme, shuffled, 8)

		restored := make([]Scored, len(pool))
		for i, p := range perm {
			restored[p] = scoredShuffled[i]
		}

		assert.Equal(t, want, Rank(restored, 10), "run %d", run)
	}
}

func TestPipeline_DistinctScoresRankIdenticallyUnderPermutation(t *testing.T) {
	sme := models.SME{ID: "sme", Budget: 1000, Niche: "Fitness", Location: "Lagos"}
	pool := make([]models.Influencer, 8)
	for i := range pool {
		// Budget factor is always 40, engagement varies 0..7 so scores are distinct.
		pool[i] = models.Influencer{ID: fmt.Sprintf("inf-%d", i), PricePerPost: 100, Niche: "Fitness", EngagementRate: float64(i)}
	}
	want := Rank(ScoreAll(sme, pool, 0), 8)

	rng := rand.New(rand.NewSource(42))
	for run := 0; run < 10; run++ {
		shuffled := append([]models.Influencer(nil), pool...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		assert.Equal(t, want, Rank(ScoreAll(sme, shuffled, 3), 8))
	}
}
