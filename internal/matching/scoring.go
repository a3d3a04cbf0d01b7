// internal/matching/scoring.go
package matching

import (
	"math"
	"strings"

	"nanomatch/internal/models"
)

// Factor weights. Their maxima sum to 100.
const (
	BudgetWeight          = 40.0
	NicheWeight           = 35.0
	NichePartialWeight    = 20.0
	EngagementWeight      = 15.0
	LocationWeight        = 10.0
	LocationMismatchScore = LocationWeight / 2

	// Engagement at or above this percentage earns the full engagement weight.
	EngagementSaturation = 10.0

	MaxScore  = 100
	MaxRating = 5.0
)

const (
	ReasonInvalidPrice      = "unscoreable: invalid price"
	ReasonMissingNiche      = "unscoreable: missing niche"
	ReasonInvalidEngagement = "unscoreable: invalid engagement rate"
	ReasonInvalidRating     = "unscoreable: invalid rating"
)

// Score computes the compatibility of one SME and one influencer. It never fails:
// an influencer that violates its invariants gets score 0 and an Unscoreable reason,
// with whatever factors could still be computed kept for auditing.
func Score(sme models.SME, inf models.Influencer) models.MatchResult {
	factors := map[string]float64{
		models.FactorBudget:     budgetFactor(sme.Budget, inf.PricePerPost),
		models.FactorNiche:      nicheFactor(sme.Niche, inf.Niche),
		models.FactorEngagement: engagementFactor(inf.EngagementRate),
		models.FactorLocation:   locationFactor(sme.Location, inf.Location),
	}

	result := models.MatchResult{
		SMEID:        sme.ID,
		InfluencerID: inf.ID,
		Factors:      factors,
	}

	if reason := UnscoreableReason(inf); reason != "" {
		result.Score = 0
		result.Label = models.LabelFair
		result.Unscoreable = reason
		return result
	}

	total := factors[models.FactorBudget] +
		factors[models.FactorNiche] +
		factors[models.FactorEngagement] +
		factors[models.FactorLocation]

	result.Score = int(math.Round(clamp(total, 0, MaxScore)))
	result.Label = LabelFor(result.Score)
	return result
}

// UnscoreableReason reports the first invariant inf violates, or "" when it can be ranked.
func UnscoreableReason(inf models.Influencer) string {
	switch {
	case !(inf.PricePerPost > 0) || math.IsInf(inf.PricePerPost, 0):
		return ReasonInvalidPrice
	case strings.TrimSpace(inf.Niche) == "":
		return ReasonMissingNiche
	case !(inf.EngagementRate >= 0 && inf.EngagementRate <= 100):
		return ReasonInvalidEngagement
	case inf.Rating != nil && !(*inf.Rating >= 0 && *inf.Rating <= MaxRating):
		return ReasonInvalidRating
	}
	return ""
}

func LabelFor(score int) models.Label {
	switch {
	case score > 80:
		return models.LabelExcellent
	case score > 60:
		return models.LabelGood
	default:
		return models.LabelFair
	}
}

func budgetFactor(budget, price float64) float64 {
	if !(price > 0) || !(budget > 0) {
		return 0
	}
	return math.Min(budget/price, 1) * BudgetWeight
}

func nicheFactor(smeNiche, infNiche string) float64 {
	a := strings.ToLower(strings.TrimSpace(smeNiche))
	b := strings.ToLower(strings.TrimSpace(infNiche))
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return NicheWeight
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return NichePartialWeight
	}
	return 0
}

func engagementFactor(rate float64) float64 {
	if !(rate > 0) {
		return 0
	}
	return math.Min(rate/EngagementSaturation, 1) * EngagementWeight
}

// locationFactor treats two blank locations as unknown, not as a match.
func locationFactor(smeLocation, infLocation string) float64 {
	if smeLocation != "" && smeLocation == infLocation {
		return LocationWeight
	}
	return LocationMismatchScore
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
