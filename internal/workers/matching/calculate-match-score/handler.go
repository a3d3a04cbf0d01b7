// internal/workers/matching/calculate-match-score/handler.go
package calculatematchscore

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
	TaskType = "calculate-match-score"
)

type Scorer interface {
	ScoreMatch(ctx context.Context, smeID, influencerID string) (models.MatchResult, error)
}

type Handler struct {
	config       *Config
	scorer       Scorer
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, scorer Scorer, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		scorer:       scorer,
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

// ParseInput decodes and validates job variables.
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
	result, err := h.scorer.ScoreMatch(ctx, input.SMEID, input.InfluencerID)
	if err != nil {
		return nil, err
	}

	h.logger.Info("match score calculated", map[string]interface{}{
		"smeId":        input.SMEID,
		"influencerId": input.InfluencerID,
		"score":        result.Score,
		"label":        result.Label,
	})

	return &Output{
		SMEID:        result.SMEID,
		InfluencerID: result.InfluencerID,
		MatchScore:   result.Score,
		MatchLabel:   string(result.Label),
		MatchFactors: result.Factors,
		Scoreable:    result.Scoreable(),
		Unscoreable:  result.Unscoreable,
	}, nil
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
