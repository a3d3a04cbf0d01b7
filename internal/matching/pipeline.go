// internal/matching/pipeline.go
package matching

import (
	"sort"

	"nanomatch/internal/common/metrics"
	"nanomatch/internal/models"

	"github.com/sourcegraph/conc/iter"
)

// Scored pairs a candidate with its match result.
type Scored struct {
	Influencer models.Influencer
	Match      models.MatchResult
}

// ScoreAll scores every candidate using up to workers goroutines (0 means GOMAXPROCS).
// The output is index-aligned with candidates whatever order the scoring finished in.
func ScoreAll(sme models.SME, candidates []models.Influencer, workers int) []Scored {
	mapper := iter.Mapper[models.Influencer, Scored]{MaxGoroutines: workers}
	return mapper.Map(candidates, func(inf *models.Influencer) Scored {
		return Scored{Influencer: *inf, Match: Score(sme, *inf)}
	})
}

// Rank drops unscoreable entries, stable-sorts the rest by score descending and keeps
// the first limit. Ties keep their input order.
func Rank(scored []Scored, limit int) []models.Recommendation {
	ranked := make([]Scored, 0, len(scored))
	for _, s := range scored {
		if !s.Match.Scoreable() {
			metrics.UnscoreableCandidates.WithLabelValues(s.Match.Unscoreable).Inc()
			continue
		}
		ranked = append(ranked, s)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Match.Score > ranked[j].Match.Score
	})

	if limit < 0 {
		limit = 0
	}
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := make([]models.Recommendation, len(ranked))
	for i, s := range ranked {
		out[i] = models.Recommendation{Influencer: s.Influencer, Match: s.Match}
	}
	return out
}
