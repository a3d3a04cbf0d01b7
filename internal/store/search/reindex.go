// internal/store/search/reindex.go
package search

import (
	"context"
	"sync/atomic"

	"nanomatch/internal/models"

	"github.com/sourcegraph/conc/pool"
)

// IndexAll writes every influencer to the index using up to workers concurrent requests.
// It returns how many documents were written and the joined errors of the rest.
func (x *InfluencerIndex) IndexAll(ctx context.Context, influencers []models.Influencer, workers int) (int, error) {
	if workers <= 0 {
		workers = 4
	}

	var indexed atomic.Int64
	p := pool.New().WithErrors().WithContext(ctx).WithMaxGoroutines(workers)
	for _, inf := range influencers {
		p.Go(func(ctx context.Context) error {
			if err := x.IndexInfluencer(ctx, inf); err != nil {
				return err
			}
			indexed.Add(1)
			return nil
		})
	}
	err := p.Wait()
	return int(indexed.Load()), err
}
