// internal/models/query_types.go
package models

// QueryType names a directory query served by the query-influencers worker.
type QueryType string

const (
	QueryTypeInfluencerByID      QueryType = "influencer_by_id"
	QueryTypeInfluencersFiltered QueryType = "influencers_filtered"
	QueryTypeTopInfluencers      QueryType = "top_influencers"
	QueryTypeSearchInfluencers   QueryType = "search_influencers"
	QueryTypeSMEProfile          QueryType = "sme_profile"
)

// DefaultSearchLimit caps name searches.
const DefaultSearchLimit = 10
