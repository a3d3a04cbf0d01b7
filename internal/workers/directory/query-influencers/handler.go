// internal/workers/directory/query-influencers/handler.go
package queryinfluencers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"nanomatch/internal/common/errors"
	"nanomatch/internal/common/logger"
	"nanomatch/internal/common/metrics"
	"nanomatch/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "query-influencers"
)

type Handler struct {
	config       *Config
	directory    Directory
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, directory Directory, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		directory:    directory,
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
	if input == nil {
		return nil, errors.NewInvalidInputError("input cannot be nil")
	}

	fn, exists := registry[models.QueryType(input.QueryType)]
	if !exists {
		return nil, errors.NewInvalidInputError(fmt.Sprintf("unknown query type: %s", input.QueryType))
	}

	start := time.Now()
	data, rowCount, err := fn(ctx, h.directory, input, h.limit(input.Limit))
	if err != nil {
		return nil, err
	}

	return &Output{
		Data:               data,
		RowCount:           rowCount,
		QueryExecutionTime: time.Since(start).Milliseconds(),
	}, nil
}

func (h *Handler) limit(requested int) int {
	if requested <= 0 {
		return h.config.DefaultLimit
	}
	if h.config.MaxLimit > 0 && requested > h.config.MaxLimit {
		return h.config.MaxLimit
	}
	return requested
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
