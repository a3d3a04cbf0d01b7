// internal/workers/matching/calculate-match-score/handler_test.go
package calculatematchscore

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"
	"time"

	"nanomatch/internal/common/errors"
	"nanomatch/internal/common/logger"
	"nanomatch/internal/matching"
	"nanomatch/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}

type stubStore struct {
	smes map[string]models.SME
	infs map[string]models.Influencer
	err  error
}

func (s *stubStore) GetSME(_ context.Context, id string) (models.SME, error) {
	if s.err != nil {
		return models.SME{}, s.err
	}
	sme, ok := s.smes[id]
	if !ok {
		return models.SME{}, errors.NewNotFoundError("sme", id)
	}
	return sme, nil
}

func (s *stubStore) GetInfluencer(_ context.Context, id string) (models.Influencer, error) {
	if s.err != nil {
		return models.Influencer{}, s.err
	}
	inf, ok := s.infs[id]
	if !ok {
		return models.Influencer{}, errors.NewNotFoundError("influencer", id)
	}
	return inf, nil
}

func (s *stubStore) ListInfluencers(context.Context, models.InfluencerFilter, models.SortOrder) ([]models.Influencer, error) {
	return nil, nil
}

func createTestStore() *stubStore {
	return &stubStore{
		smes: map[string]models.SME{
			"sme-beauty": {ID: "sme-beauty", Budget: 1000, Niche: "Beauty", Location: "Lagos"},
			"sme-tech":   {ID: "sme-tech", Budget: 200, Niche: "Tech", Location: "Nairobi"},
		},
		infs: map[string]models.Influencer{
			"inf-beauty":  {ID: "inf-beauty", PricePerPost: 500, Niche: "Beauty", EngagementRate: 8.5, Location: "Lagos"},
			"inf-fashion": {ID: "inf-fashion", PricePerPost: 400, Niche: "Fashion", EngagementRate: 2, Location: "Accra"},
			"inf-free":    {ID: "inf-free", PricePerPost: 0, Niche: "Beauty", EngagementRate: 5, Location: "Lagos"},
		},
	}
}

func newTestHandler(t *testing.T, store *stubStore) *Handler {
	svc := matching.NewService(store, store, nil, matching.Options{}, logger.NewNoOpLogger())
	return NewHandler(createTestConfig(), svc, logger.NewTestLogger(t))
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	tests := []struct {
		name           string
		input          *Input
		validateOutput func(t *testing.T, output *Output)
	}{
		{
			name:  "excellent match",
			input: &Input{SMEID: "sme-beauty", InfluencerID: "inf-beauty"},
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, 98, output.MatchScore)
				assert.Equal(t, "Excellent match", output.MatchLabel)
				assert.Equal(t, 40.0, output.MatchFactors["budget"])
				assert.Equal(t, 35.0, output.MatchFactors["niche"])
				assert.True(t, output.Scoreable)
			},
		},
		{
			name:  "niche mismatch",
			input: &Input{SMEID: "sme-tech", InfluencerID: "inf-fashion"},
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, 20.0, output.MatchFactors["budget"])
				assert.Equal(t, 0.0, output.MatchFactors["niche"])
				assert.Equal(t, "Fair match", output.MatchLabel)
			},
		},
		{
			name:  "unscoreable influencer",
			input: &Input{SMEID: "sme-beauty", InfluencerID: "inf-free"},
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, 0, output.MatchScore)
				assert.False(t, output.Scoreable)
				assert.Equal(t, matching.ReasonInvalidPrice, output.Unscoreable)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newTestHandler(t, createTestStore())
			output, err := handler.Execute(context.Background(), tt.input)
			require.NoError(t, err)
			require.NotNil(t, output)
			assert.Equal(t, tt.input.SMEID, output.SMEID)
			tt.validateOutput(t, output)
		})
	}
}

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name  string
		store *stubStore
		input *Input
		check func(error) bool
	}{
		{"unknown sme", createTestStore(), &Input{SMEID: "nope", InfluencerID: "inf-beauty"}, errors.IsNotFound},
		{"unknown influencer", createTestStore(), &Input{SMEID: "sme-beauty", InfluencerID: "nope"}, errors.IsNotFound},
		{
			"store down",
			&stubStore{err: stderrors.New("connection refused")},
			&Input{SMEID: "sme-beauty", InfluencerID: "inf-beauty"},
			errors.IsStoreUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newTestHandler(t, tt.store)
			output, err := handler.Execute(context.Background(), tt.input)
			require.Error(t, err)
			assert.Nil(t, output)
			assert.True(t, tt.check(err), "unexpected error: %v", err)
		})
	}
}

func TestParseInput(t *testing.T) {
	tests := []struct {
		name      string
		variables string
		wantErr   errors.ErrorCode
	}{
		{"valid", `{"smeId": "sme-1", "influencerId": "inf-1", "extra": true}`, ""},
		{"malformed json", `{"smeId": `, errors.ErrCodeParseError},
		{"missing influencer", `{"smeId": "sme-1"}`, errors.ErrCodeInvalidInput},
		{"empty sme", `{"smeId": "", "influencerId": "inf-1"}`, errors.ErrCodeInvalidInput},
		{"wrong type", `{"smeId": 12, "influencerId": "inf-1"}`, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input, err := ParseInput(tt.variables)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, "sme-1", input.SMEID)
				assert.Equal(t, "inf-1", input.InfluencerID)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, errors.AsStandard(err).Code)
		})
	}
}

func TestOutput_JSONShape(t *testing.T) {
	handler := newTestHandler(t, createTestStore())
	output, err := handler.Execute(context.Background(), &Input{SMEID: "sme-beauty", InfluencerID: "inf-beauty"})
	require.NoError(t, err)

	data, err := json.Marshal(output)
	require.NoError(t, err)

	var vars map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &vars))
	assert.Equal(t, float64(98), vars["matchScore"])
	assert.Equal(t, "Excellent match", vars["matchLabel"])
	assert.NotContains(t, vars, "unscoreableReason")
}
