// internal/workers/matching/recommend-influencers/models.go
package recommendinfluencers

type Input struct {
	SMEID string `json:"smeId"`
	Limit int    `json:"limit,omitempty"`
}

type Output struct {
	SMEID           string             `json:"smeId"`
	Recommendations []RankedInfluencer `json:"recommendations"`
	Count           int                `json:"count"`
	TopMatch        *RankedInfluencer  `json:"topMatch,omitempty"`
}

type RankedInfluencer struct {
	Rank           int                `json:"rank"`
	InfluencerID   string             `json:"influencerId"`
	Name           string             `json:"name,omitempty"`
	Niche          string             `json:"niche"`
	Location       string             `json:"location"`
	PricePerPost   float64            `json:"pricePerPost"`
	Currency       string             `json:"currency,omitempty"`
	EngagementRate float64            `json:"engagementRate"`
	Rating         *float64           `json:"rating,omitempty"`
	MatchScore     int                `json:"matchScore"`
	MatchLabel     string             `json:"matchLabel"`
	MatchFactors   map[string]float64 `json:"matchFactors"`
}
