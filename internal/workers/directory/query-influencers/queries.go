// internal/workers/directory/query-influencers/queries.go
package queryinfluencers

import (
	"context"
	"fmt"
	"strings"

	"nanomatch/internal/common/errors"
	"nanomatch/internal/models"
)

// Directory is the read surface the directory queries run against.
type Directory interface {
	GetSME(ctx context.Context, id string) (models.SME, error)
	GetInfluencer(ctx context.Context, id string) (models.Influencer, error)
	ListInfluencers(ctx context.Context, filter models.InfluencerFilter, order models.SortOrder) ([]models.Influencer, error)
	TopInfluencers(ctx context.Context, limit int) ([]models.Influencer, error)
	SearchInfluencers(ctx context.Context, term string, limit int) ([]models.Influencer, error)
}

// NameSearcher serves name lookups from a dedicated search index.
type NameSearcher interface {
	SearchInfluencers(ctx context.Context, term string, limit int) ([]models.Influencer, error)
}

type nameSearchDirectory struct {
	Directory
	names NameSearcher
}

func (d nameSearchDirectory) SearchInfluencers(ctx context.Context, term string, limit int) ([]models.Influencer, error) {
	return d.names.SearchInfluencers(ctx, term, limit)
}

// WithNameSearch sends search_influencers to names and every other query to dir.
func WithNameSearch(dir Directory, names NameSearcher) Directory {
	return nameSearchDirectory{Directory: dir, names: names}
}

// queryFunc returns the result data and its row count.
type queryFunc func(ctx context.Context, dir Directory, input *Input, limit int) (interface{}, int, error)

var registry = map[models.QueryType]queryFunc{
	models.QueryTypeInfluencerByID:      influencerByID,
	models.QueryTypeInfluencersFiltered: influencersFiltered,
	models.QueryTypeTopInfluencers:      topInfluencers,
	models.QueryTypeSearchInfluencers:   searchInfluencers,
	models.QueryTypeSMEProfile:          smeProfile,
}

func influencerByID(ctx context.Context, dir Directory, input *Input, _ int) (interface{}, int, error) {
	if input.InfluencerID == "" {
		return nil, 0, errors.NewInvalidInputError("influencerId is required for influencer_by_id")
	}
	inf, err := dir.GetInfluencer(ctx, input.InfluencerID)
	if err != nil {
		return nil, 0, err
	}
	return inf, 1, nil
}

func influencersFiltered(ctx context.Context, dir Directory, input *Input, limit int) (interface{}, int, error) {
	filter := models.InfluencerFilter{Limit: limit}
	if f := input.Filters; f != nil {
		if f.MinPrice > 0 && f.MaxPrice > 0 && f.MinPrice > f.MaxPrice {
			return nil, 0, errors.NewInvalidInputError(fmt.Sprintf("minPrice %.2f exceeds maxPrice %.2f", f.MinPrice, f.MaxPrice))
		}
		filter.Niche = f.Niche
		filter.Location = f.Location
		filter.MinPrice = f.MinPrice
		filter.MaxPrice = f.MaxPrice
		filter.MinEngagement = f.MinEngagement
	}

	infs, err := dir.ListInfluencers(ctx, filter, models.OrderRatingDesc)
	if err != nil {
		return nil, 0, err
	}
	return infs, len(infs), nil
}

func topInfluencers(ctx context.Context, dir Directory, _ *Input, limit int) (interface{}, int, error) {
	infs, err := dir.TopInfluencers(ctx, limit)
	if err != nil {
		return nil, 0, err
	}
	return infs, len(infs), nil
}

// searchInfluencers matches on name, ignoring case, and never returns more than
// models.DefaultSearchLimit rows.
func searchInfluencers(ctx context.Context, dir Directory, input *Input, limit int) (interface{}, int, error) {
	term := strings.TrimSpace(input.SearchTerm)
	if term == "" {
		return nil, 0, errors.NewInvalidInputError("searchTerm is required for search_influencers")
	}
	if limit <= 0 || limit > models.DefaultSearchLimit {
		limit = models.DefaultSearchLimit
	}
	infs, err := dir.SearchInfluencers(ctx, term, limit)
	if err != nil {
		return nil, 0, err
	}
	return infs, len(infs), nil
}

func smeProfile(ctx context.Context, dir Directory, input *Input, _ int) (interface{}, int, error) {
	if input.SMEID == "" {
		return nil, 0, errors.NewInvalidInputError("smeId is required for sme_profile")
	}
	sme, err := dir.GetSME(ctx, input.SMEID)
	if err != nil {
		return nil, 0, err
	}
	return sme, 1, nil
}
