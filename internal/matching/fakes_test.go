package matching

import (
	"context"
	"strings"
	"sync"

	"nanomatch/internal/common/errors"
	"nanomatch/internal/models"
)

// memoryStore is an in-memory ProfileStore and CandidateSource. Influencers are listed
// in insertion order, standing in for the store's rating-desc order.
type memoryStore struct {
	smes        map[string]models.SME
	influencers []models.Influencer

	listErr     error
	lastFilter  models.InfluencerFilter
	lastOrder   models.SortOrder
	ignoreNiche bool
}

func newMemoryStore(smes []models.SME, influencers []models.Influencer) *memoryStore {
	s := &memoryStore{smes: map[string]models.SME{}, influencers: influencers}
	for _, sme := range smes {
		s.smes[sme.ID] = sme
	}
	return s
}

func (s *memoryStore) GetSME(ctx context.Context, id string) (models.SME, error) {
	if err := ctx.Err(); err != nil {
		return models.SME{}, err
	}
	sme, ok := s.smes[id]
	if !ok {
		return models.SME{}, errors.NewNotFoundError("sme", id)
	}
	return sme, nil
}

func (s *memoryStore) GetInfluencer(ctx context.Context, id string) (models.Influencer, error) {
	if err := ctx.Err(); err != nil {
		return models.Influencer{}, err
	}
	for _, inf := range s.influencers {
		if inf.ID == id {
			return inf, nil
		}
	}
	return models.Influencer{}, errors.NewNotFoundError("influencer", id)
}

func (s *memoryStore) ListInfluencers(ctx context.Context, filter models.InfluencerFilter, order models.SortOrder) ([]models.Influencer, error) {
	s.lastFilter = filter
	s.lastOrder = order
	if s.listErr != nil {
		return nil, s.listErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []models.Influencer
	for _, inf := range s.influencers {
		if !s.ignoreNiche && !strings.EqualFold(inf.Niche, filter.Niche) {
			continue
		}
		out = append(out, inf)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

type captureRecorder struct {
	mu      sync.Mutex
	records []models.MatchRecord
	err     error
}

func (c *captureRecorder) RecordMatch(_ context.Context, rec models.MatchRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, rec)
	return c.err
}

func (c *captureRecorder) snapshot() []models.MatchRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.MatchRecord(nil), c.records...)
}
