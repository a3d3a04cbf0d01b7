// internal/models/influencer.go
package models

type Influencer struct {
	ID             string   `json:"id"`
	Name           string   `json:"name,omitempty"`
	PricePerPost   float64  `json:"pricePerPost"`
	Currency       string   `json:"currency,omitempty"`
	Niche          string   `json:"niche"`
	EngagementRate float64  `json:"engagementRate"` // percent, 0-100
	FollowersCount int      `json:"followersCount,omitempty"`
	Location       string   `json:"location"`
	Rating         *float64 `json:"rating,omitempty"` // 0-5, nil when unrated
}

// InfluencerFilter narrows an influencer listing. Zero values mean "no constraint".
type InfluencerFilter struct {
	Niche         string  `json:"niche,omitempty"`
	Location      string  `json:"location,omitempty"`
	MinPrice      float64 `json:"minPrice,omitempty"`
	MaxPrice      float64 `json:"maxPrice,omitempty"`
	MinEngagement float64 `json:"minEngagement,omitempty"`
	Limit         int     `json:"limit,omitempty"`
}

type SortOrder string

const (
	OrderRatingDesc SortOrder = "rating-desc"
)
