// internal/models/match.go
package models

import "time"

const (
	FactorBudget     = "budget"
	FactorNiche      = "niche"
	FactorEngagement = "engagement"
	FactorLocation   = "location"
)

type Label string

const (
	LabelExcellent Label = "Excellent match"
	LabelGood      Label = "Good match"
	LabelFair      Label = "Fair match"
)

// MatchResult is the outcome of scoring one SME against one influencer.
// Unscoreable holds the reason a candidate was excluded from ranking, empty otherwise.
type MatchResult struct {
	SMEID        string             `json:"smeId"`
	InfluencerID string             `json:"influencerId"`
	Score        int                `json:"score"`
	Factors      map[string]float64 `json:"factors"`
	Label        Label              `json:"label"`
	Unscoreable  string             `json:"unscoreable,omitempty"`
}

func (m MatchResult) Scoreable() bool {
	return m.Unscoreable == ""
}

type Recommendation struct {
	Influencer Influencer  `json:"influencer"`
	Match      MatchResult `json:"match"`
}

type MatchSource string

const (
	MatchSourceScore     MatchSource = "score"
	MatchSourceRecommend MatchSource = "recommend"
)

// MatchRecord is the audit row written after a score is served. It is never read back by the engine.
type MatchRecord struct {
	ID           string             `json:"id"`
	SMEID        string             `json:"smeId"`
	InfluencerID string             `json:"influencerId"`
	Score        int                `json:"score"`
	Label        Label              `json:"label"`
	Factors      map[string]float64 `json:"factors,omitempty"`
	Source       MatchSource        `json:"source"`
	CalculatedAt time.Time          `json:"calculatedAt"`
}
