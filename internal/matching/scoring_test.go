package matching

import (
	"math"
	"testing"

	"nanomatch/internal/models"

	"github.com/stretchr/testify/assert"
)

func rating(v float64) *float64 { return &v }

func TestScore_BeautyScenario(t *testing.T) {
	sme := models.SME{ID: "sme-1", Budget: 1000, Niche: "Beauty", Location: "Lagos"}
	inf := models.Influencer{
		ID:             "inf-1",
		PricePerPost:   500,
		Niche:          "Beauty",
		EngagementRate: 8.5,
		Location:       "Lagos",
		Rating:         rating(4.8),
	}

	got := Score(sme, inf)

	assert.Equal(t, "sme-1", got.SMEID)
	assert.Equal(t, "inf-1", got.InfluencerID)
	assert.Equal(t, 40.0, got.Factors[models.FactorBudget])
	assert.Equal(t, 35.0, got.Factors[models.FactorNiche])
	assert.InDelta(t, 12.75, got.Factors[models.FactorEngagement], 1e-9)
	assert.Equal(t, 10.0, got.Factors[models.FactorLocation])
	assert.Equal(t, 98, got.Score)
	assert.Equal(t, models.LabelExcellent, got.Label)
	assert.True(t, got.Scoreable())
}

func TestScore_TechVsFashionScenario(t *testing.T) {
	sme := models.SME{ID: "sme-2", Budget: 200, Niche: "Tech", Location: "Nairobi"}
	inf := models.Influencer{ID: "inf-2", PricePerPost: 400, Niche: "Fashion", EngagementRate: 4, Location: "Accra"}

	got := Score(sme, inf)

	assert.Equal(t, 20.0, got.Factors[models.FactorBudget])
	assert.Equal(t, 0.0, got.Factors[models.FactorNiche])
	assert.InDelta(t, 6.0, got.Factors[models.FactorEngagement], 1e-9)
	assert.Equal(t, 5.0, got.Factors[models.FactorLocation])
	// 20 + 0 + 6 + 5
	assert.Equal(t, 31, got.Score)
	assert.Equal(t, models.LabelFair, got.Label)
}

func TestScore_NicheFactor(t *testing.T) {
	tests := []struct {
		name     string
		smeNiche string
		infNiche string
		want     float64
	}{
		{"exact", "Beauty", "Beauty", 35},
		{"case insensitive", "beauty", "BEAUTY", 35},
		{"surrounding space", " Tech ", "tech", 35},
		{"influencer niche contains sme niche", "Tech", "Tech Reviews", 20},
		{"sme niche contains influencer niche", "Sustainable Fashion", "fashion", 20},
		{"unrelated", "Food", "Gaming", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(
				models.SME{Budget: 100, Niche: tt.smeNiche},
				models.Influencer{PricePerPost: 100, Niche: tt.infNiche},
			)
			assert.Equal(t, tt.want, got.Factors[models.FactorNiche])
		})
	}
}

func TestScore_BudgetFactor(t *testing.T) {
	tests := []struct {
		name   string
		budget float64
		price  float64
		want   float64
	}{
		{"budget above price", 5000, 100, 40},
		{"budget equals price", 300, 300, 40},
		{"quarter of price", 50, 200, 10},
		{"zero budget", 0, 200, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(
				models.SME{Budget: tt.budget, Niche: "Food"},
				models.Influencer{PricePerPost: tt.price, Niche: "Food"},
			)
			assert.InDelta(t, tt.want, got.Factors[models.FactorBudget], 1e-9)
		})
	}
}

func TestScore_EngagementSaturates(t *testing.T) {
	sme := models.SME{Budget: 100, Niche: "Food"}
	for _, rate := range []float64{10, 25, 100} {
		got := Score(sme, models.Influencer{PricePerPost: 100, Niche: "Food", EngagementRate: rate})
		assert.Equal(t, 15.0, got.Factors[models.FactorEngagement], "rate %v", rate)
	}
}

func TestScore_LocationIsSoftPenalty(t *testing.T) {
	sme := models.SME{Budget: 100, Niche: "Food", Location: "Abuja"}

	match := Score(sme, models.Influencer{PricePerPost: 100, Niche: "Food", Location: "Abuja"})
	miss := Score(sme, models.Influencer{PricePerPost: 100, Niche: "Food", Location: "Kano"})
	empty := Score(models.SME{Budget: 100, Niche: "Food"}, models.Influencer{PricePerPost: 100, Niche: "Food"})

	assert.Equal(t, 10.0, match.Factors[models.FactorLocation])
	assert.Equal(t, 5.0, miss.Factors[models.FactorLocation])
	assert.Equal(t, 5.0, empty.Factors[models.FactorLocation])
}

func TestScore_BlankLocationsNeverMatch(t *testing.T) {
	inf := models.Influencer{PricePerPost: 500, Niche: "Beauty", EngagementRate: 8.5}

	both := Score(models.SME{Budget: 1000, Niche: "Beauty"}, inf)
	assert.Equal(t, LocationMismatchScore, both.Factors[models.FactorLocation])
	assert.Equal(t, 93, both.Score)

	onlyInfluencer := inf
	onlyInfluencer.Location = "Lagos"
	one := Score(models.SME{Budget: 1000, Niche: "Beauty"}, onlyInfluencer)
	assert.Equal(t, LocationMismatchScore, one.Factors[models.FactorLocation])
}

func TestScore_Unscoreable(t *testing.T) {
	sme := models.SME{ID: "sme-1", Budget: 1000, Niche: "Beauty", Location: "Lagos"}
	valid := models.Influencer{ID: "inf", PricePerPost: 100, Niche: "Beauty", EngagementRate: 5, Location: "Lagos"}

	tests := []struct {
		name   string
		mutate func(*models.Influencer)
		reason string
	}{
		{"zero price", func(i *models.Influencer) { i.PricePerPost = 0 }, ReasonInvalidPrice},
		{"negative price", func(i *models.Influencer) { i.PricePerPost = -10 }, ReasonInvalidPrice},
		{"NaN price", func(i *models.Influencer) { i.PricePerPost = math.NaN() }, ReasonInvalidPrice},
		{"empty niche", func(i *models.Influencer) { i.Niche = "  " }, ReasonMissingNiche},
		{"engagement over 100", func(i *models.Influencer) { i.EngagementRate = 140 }, ReasonInvalidEngagement},
		{"negative engagement", func(i *models.Influencer) { i.EngagementRate = -1 }, ReasonInvalidEngagement},
		{"rating over 5", func(i *models.Influencer) { i.Rating = rating(7) }, ReasonInvalidRating},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inf := valid
			tt.mutate(&inf)

			got := Score(sme, inf)

			assert.Equal(t, 0, got.Score)
			assert.Equal(t, models.LabelFair, got.Label)
			assert.Equal(t, tt.reason, got.Unscoreable)
			assert.False(t, got.Scoreable())
			assert.Len(t, got.Factors, 4)
		})
	}
}

func TestScore_InvalidPriceKeepsOtherFactors(t *testing.T) {
	got := Score(
		models.SME{Budget: 1000, Niche: "Beauty", Location: "Lagos"},
		models.Influencer{PricePerPost: 0, Niche: "beauty", EngagementRate: 20, Location: "Lagos"},
	)
	assert.Equal(t, 0.0, got.Factors[models.FactorBudget])
	assert.Equal(t, 35.0, got.Factors[models.FactorNiche])
	assert.Equal(t, 15.0, got.Factors[models.FactorEngagement])
}

func TestScore_AlwaysWithinBounds(t *testing.T) {
	budgets := []float64{0, 1, 50, 199.99, 1e9}
	prices := []float64{0.01, 1, 100, 5000}
	rates := []float64{0, 0.5, 9.99, 10, 55, 100}
	niches := []string{"Tech", "tech", "Tech Reviews", "Food"}

	for _, b := range budgets {
		for _, p := range prices {
			for _, r := range rates {
				for _, n := range niches {
					got := Score(
						models.SME{Budget: b, Niche: "Tech", Location: "Lagos"},
						models.Influencer{PricePerPost: p, Niche: n, EngagementRate: r, Location: "Lagos"},
					)
					assert.GreaterOrEqual(t, got.Score, 0)
					assert.LessOrEqual(t, got.Score, 100)
				}
			}
		}
	}
}

func TestScore_PerfectMatchIsExactly100(t *testing.T) {
	got := Score(
		models.SME{Budget: 1000, Niche: "Gaming", Location: "Lagos"},
		models.Influencer{PricePerPost: 10, Niche: "gaming", EngagementRate: 12, Location: "Lagos"},
	)
	assert.Equal(t, 100, got.Score)
}

func TestLabelFor_Boundaries(t *testing.T) {
	tests := []struct {
		score int
		want  models.Label
	}{
		{100, models.LabelExcellent},
		{81, models.LabelExcellent},
		{80, models.LabelGood},
		{61, models.LabelGood},
		{60, models.LabelFair},
		{0, models.LabelFair},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LabelFor(tt.score), "score %d", tt.score)
	}
}

func TestScore_RoundsBeforeLabeling(t *testing.T) {
	// 40 * (81/100) = 32.4; + 35 + 15*(0.9) = 13.5; + 5 = 85.9 -> 86
	got := Score(
		models.SME{Budget: 81, Niche: "Food", Location: "A"},
		models.Influencer{PricePerPost: 100, Niche: "Food", EngagementRate: 9, Location: "B"},
	)
	assert.Equal(t, 86, got.Score)
	assert.Equal(t, models.LabelExcellent, got.Label)

	// 40 * 0.5 = 20; + 35 + 0.75 + 5 = 60.75 -> 61, which is above the Good boundary.
	got = Score(
		models.SME{Budget: 50, Niche: "Food", Location: "A"},
		models.Influencer{PricePerPost: 100, Niche: "Food", EngagementRate: 0.5, Location: "B"},
	)
	assert.Equal(t, 61, got.Score)
	assert.Equal(t, models.LabelGood, got.Label)
}
