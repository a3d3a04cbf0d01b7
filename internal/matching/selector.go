// internal/matching/selector.go
package matching

import (
	"context"
	"strings"

	"nanomatch/internal/models"
)

// Selector pulls the candidate pool for an SME. The pool is niche-exact and is never
// broadened when it comes back smaller than requested.
type Selector struct {
	source CandidateSource
}

// NewSelector creates a selector over the given candidate source.
func NewSelector(source CandidateSource) *Selector {
	return &Selector{source: source}
}

// SelectCandidates returns at most poolSize influencers sharing the SME's niche, in the
// order the source produced them.
func (s *Selector) SelectCandidates(ctx context.Context, sme models.SME, poolSize int) ([]models.Influencer, error) {
	if poolSize <= 0 {
		return []models.Influencer{}, nil
	}

	listed, err := s.source.ListInfluencers(ctx, models.InfluencerFilter{
		Niche: strings.TrimSpace(sme.Niche),
		Limit: poolSize,
	}, models.OrderRatingDesc)
	if err != nil {
		return nil, storeError("ListInfluencers", err)
	}

	// Sources with analyzed or prefix matching may return near-misses.
	candidates := make([]models.Influencer, 0, min(len(listed), poolSize))
	for _, inf := range listed {
		if !sameNiche(sme.Niche, inf.Niche) {
			continue
		}
		candidates = append(candidates, inf)
		if len(candidates) == poolSize {
			break
		}
	}
	return candidates, nil
}

func sameNiche(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
