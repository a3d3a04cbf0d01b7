// internal/store/search/influencers.go
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"nanomatch/internal/common/errors"
	"nanomatch/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// defaultSize bounds unlimited listings so one request cannot pull the whole index.
const defaultSize = 100

// InfluencerIndex is a CandidateSource backed by an Elasticsearch index.
type InfluencerIndex struct {
	client *elasticsearch.Client
	index  string
}

// NewInfluencerIndex binds the index name to an Elasticsearch client.
func NewInfluencerIndex(client *elasticsearch.Client, index string) *InfluencerIndex {
	return &InfluencerIndex{client: client, index: index}
}

type influencerDoc struct {
	ID              string   `json:"id"`
	Name            string   `json:"name,omitempty"`
	PricePerPost    float64  `json:"price_per_post"`
	Currency        string   `json:"currency,omitempty"`
	Niche           string   `json:"niche"`
	NicheNormalized string   `json:"niche_normalized"`
	EngagementRate  float64  `json:"engagement_rate"`
	FollowersCount  int      `json:"followers_count"`
	Location        string   `json:"location"`
	Rating          *float64 `json:"rating,omitempty"`
}

func toDoc(inf models.Influencer) influencerDoc {
	return influencerDoc{
		ID:              inf.ID,
		Name:            inf.Name,
		PricePerPost:    inf.PricePerPost,
		Currency:        inf.Currency,
		Niche:           inf.Niche,
		NicheNormalized: normalizeNiche(inf.Niche),
		EngagementRate:  inf.EngagementRate,
		FollowersCount:  inf.FollowersCount,
		Location:        inf.Location,
		Rating:          inf.Rating,
	}
}

func (d influencerDoc) model() models.Influencer {
	return models.Influencer{
		ID:             d.ID,
		Name:           d.Name,
		PricePerPost:   d.PricePerPost,
		Currency:       d.Currency,
		Niche:          d.Niche,
		EngagementRate: d.EngagementRate,
		FollowersCount: d.FollowersCount,
		Location:       d.Location,
		Rating:         d.Rating,
	}
}

func normalizeNiche(n string) string {
	return strings.ToLower(strings.TrimSpace(n))
}

var indexMapping = map[string]interface{}{
	"mappings": map[string]interface{}{
		"properties": map[string]interface{}{
			"id":               map[string]interface{}{"type": "keyword"},
			"name":             map[string]interface{}{"type": "text"},
			"price_per_post":   map[string]interface{}{"type": "double"},
			"currency":         map[string]interface{}{"type": "keyword"},
			"niche":            map[string]interface{}{"type": "text"},
			"niche_normalized": map[string]interface{}{"type": "keyword"},
			"engagement_rate":  map[string]interface{}{"type": "double"},
			"followers_count":  map[string]interface{}{"type": "integer"},
			"location":         map[string]interface{}{"type": "keyword"},
			"rating":           map[string]interface{}{"type": "double"},
		},
	},
}

// EnsureIndex creates the influencer index with its mapping when it does not exist yet.
func (x *InfluencerIndex) EnsureIndex(ctx context.Context) error {
	res, err := x.client.Indices.Exists([]string{x.index}, x.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return errors.NewStoreUnavailableError("EnsureIndex", err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	body, _ := json.Marshal(indexMapping)
	res, err = x.client.Indices.Create(x.index,
		x.client.Indices.Create.WithBody(bytes.NewReader(body)),
		x.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return errors.NewStoreUnavailableError("EnsureIndex", err)
	}
	defer res.Body.Close()
	return responseError("EnsureIndex", res)
}

// IndexInfluencer writes one influencer document under its id, replacing any previous version.
func (x *InfluencerIndex) IndexInfluencer(ctx context.Context, inf models.Influencer) error {
	body, err := json.Marshal(toDoc(inf))
	if err != nil {
		return fmt.Errorf("marshal influencer %s: %w", inf.ID, err)
	}

	req := esapi.IndexRequest{
		Index:      x.index,
		DocumentID: inf.ID,
		Body:       bytes.NewReader(body),
	}
	res, err := req.Do(ctx, x.client)
	if err != nil {
		return errors.NewStoreUnavailableError("IndexInfluencer", err)
	}
	defer res.Body.Close()
	return responseError("IndexInfluencer", res)
}

// ListInfluencers runs a filtered search sorted by rating, unrated last, then id.
func (x *InfluencerIndex) ListInfluencers(ctx context.Context, filter models.InfluencerFilter, order models.SortOrder) ([]models.Influencer, error) {
	if order != "" && order != models.OrderRatingDesc {
		return nil, errors.NewInvalidInputError(fmt.Sprintf("unsupported sort order %q", order))
	}

	size := filter.Limit
	if size <= 0 {
		size = defaultSize
	}

	return x.search(ctx, "ListInfluencers", buildSearchQuery(filter), size)
}

// SearchInfluencers runs a full-text match on name, best rated first.
// limit <= 0 uses the default search size.
func (x *InfluencerIndex) SearchInfluencers(ctx context.Context, term string, limit int) ([]models.Influencer, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, errors.NewInvalidInputError("search term is required")
	}
	if limit <= 0 {
		limit = models.DefaultSearchLimit
	}
	return x.search(ctx, "SearchInfluencers", buildNameQuery(term), limit)
}

func (x *InfluencerIndex) search(ctx context.Context, op string, query map[string]interface{}, size int) ([]models.Influencer, error) {
	body, _ := json.Marshal(query)
	req := esapi.SearchRequest{
		Index: []string{x.index},
		Body:  bytes.NewReader(body),
		Size:  &size,
	}

	res, err := req.Do(ctx, x.client)
	if err != nil {
		return nil, errors.NewStoreUnavailableError(op, err)
	}
	defer res.Body.Close()
	if err := responseError(op, res); err != nil {
		return nil, err
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source influencerDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, errors.NewInternalError(fmt.Errorf("decode search response: %w", err))
	}

	out := make([]models.Influencer, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		out = append(out, hit.Source.model())
	}
	return out, nil
}

var ratingSort = []interface{}{
	map[string]interface{}{"rating": map[string]interface{}{"order": "desc", "missing": "_last"}},
	map[string]interface{}{"id": map[string]interface{}{"order": "asc"}},
}

func buildNameQuery(term string) map[string]interface{} {
	return map[string]interface{}{
		"query": map[string]interface{}{
			"match": map[string]interface{}{
				"name": map[string]interface{}{"query": term, "operator": "and"},
			},
		},
		"sort": ratingSort,
	}
}

func buildSearchQuery(filter models.InfluencerFilter) map[string]interface{} {
	var filters []interface{}

	if niche := normalizeNiche(filter.Niche); niche != "" {
		filters = append(filters, map[string]interface{}{
			"term": map[string]interface{}{"niche_normalized": niche},
		})
	}
	if filter.Location != "" {
		filters = append(filters, map[string]interface{}{
			"term": map[string]interface{}{"location": filter.Location},
		})
	}
	if filter.MinPrice > 0 || filter.MaxPrice > 0 {
		price := map[string]interface{}{}
		if filter.MinPrice > 0 {
			price["gte"] = filter.MinPrice
		}
		if filter.MaxPrice > 0 {
			price["lte"] = filter.MaxPrice
		}
		filters = append(filters, map[string]interface{}{
			"range": map[string]interface{}{"price_per_post": price},
		})
	}
	if filter.MinEngagement > 0 {
		filters = append(filters, map[string]interface{}{
			"range": map[string]interface{}{"engagement_rate": map[string]interface{}{"gte": filter.MinEngagement}},
		})
	}

	query := map[string]interface{}{"match_all": map[string]interface{}{}}
	if len(filters) > 0 {
		query = map[string]interface{}{
			"bool": map[string]interface{}{"filter": filters},
		}
	}

	return map[string]interface{}{
		"query": query,
		"sort":  ratingSort,
	}
}

func responseError(op string, res *esapi.Response) error {
	if !res.IsError() {
		return nil
	}
	msg, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
	err := fmt.Errorf("%s: %s", res.Status(), strings.TrimSpace(string(msg)))
	if res.StatusCode >= 500 || res.StatusCode == http.StatusTooManyRequests {
		return errors.NewStoreUnavailableError(op, err)
	}
	return errors.NewInternalError(fmt.Errorf("%s: %w", op, err))
}
