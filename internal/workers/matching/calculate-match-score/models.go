// internal/workers/matching/calculate-match-score/models.go
package calculatematchscore

type Input struct {
	SMEID        string `json:"smeId"`
	InfluencerID string `json:"influencerId"`
}

type Output struct {
	SMEID        string             `json:"smeId"`
	InfluencerID string             `json:"influencerId"`
	MatchScore   int                `json:"matchScore"`
	MatchLabel   string             `json:"matchLabel"`
	MatchFactors map[string]float64 `json:"matchFactors"`
	Scoreable    bool               `json:"scoreable"`
	Unscoreable  string             `json:"unscoreableReason,omitempty"`
}
