// internal/workers/matching/recommend-influencers/handler.go
package recommendinfluencers

import (
	"context"
	"encoding/json"

	"nanomatch/internal/common/errors"
	"nanomatch/internal/common/logger"
	"nanomatch/internal/common/metrics"
	"nanomatch/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "recommend-influencers"
)

type Recommender interface {
	Recommend(ctx context.Context, smeID string, limit int) ([]models.Recommendation, error)
}

type Handler struct {
	config       *Config
	recommender  Recommender
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, recommender Recommender, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		recommender:  recommender,
		errorHandler: errors.NewErrorHandler(log),
		logger:       log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	input, err := ParseInput(job.Variables)
	if err != nil {
		h.failJob(ctx, client, job, err)
		return
	}

	output, err := h.execute(ctx, input)
	if err != nil {
		h.failJob(ctx, client, job, err)
		return
	}

	h.completeJob(client, job, output)
}

func ParseInput(variables string) (*Input, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(variables), &raw); err != nil {
		return nil, errors.NewParseError(err)
	}
	if err := GetInputSchema().Validate(raw); err != nil {
		return nil, err
	}

	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, errors.NewParseError(err)
	}
	return &input, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	recs, err := h.recommender.Recommend(ctx, input.SMEID, input.Limit)
	if err != nil {
		return nil, err
	}

	ranked := make([]RankedInfluencer, len(recs))
	for i, r := range recs {
		ranked[i] = RankedInfluencer{
			Rank:           i + 1,
			InfluencerID:   r.Influencer.ID,
			Name:           r.Influencer.Name,
			Niche:          r.Influencer.Niche,
			Location:       r.Influencer.Location,
			PricePerPost:   r.Influencer.PricePerPost,
			Currency:       r.Influencer.Currency,
			EngagementRate: r.Influencer.EngagementRate,
			Rating:         r.Influencer.Rating,
			MatchScore:     r.Match.Score,
			MatchLabel:     string(r.Match.Label),
			MatchFactors:   r.Match.Factors,
		}
	}

	output := &Output{
		SMEID:           input.SMEID,
		Recommendations: ranked,
		Count:           len(ranked),
	}
	if len(ranked) > 0 {
		output.TopMatch = &ranked[0]
	}

	h.logger.Info("influencers recommended", map[string]interface{}{
		"smeId": input.SMEID,
		"limit": input.Limit,
		"count": output.Count,
	})
	return output, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.AsStandard(err).Code)).Inc()
	h.errorHandler.HandleJobError(ctx, client, job, err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
