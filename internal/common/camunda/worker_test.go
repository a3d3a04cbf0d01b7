package camunda

import (
	"context"
	"testing"
	"time"

	"nanomatch/internal/common/config"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObserver struct {
	taskType string
	status   string
	calls    int
}

func (f *fakeObserver) RecordJob(_ context.Context, taskType, status string, _ time.Duration) {
	f.taskType = taskType
	f.status = status
	f.calls++
}

func TestInstrument_RecordsEachJob(t *testing.T) {
	obs := &fakeObserver{}
	var handled []int64

	h := Instrument("recommend-influencers", func(_ worker.JobClient, job entities.Job) {
		handled = append(handled, job.Key)
	}, obs)

	h(nil, entities.Job{ActivatedJob: &pb.ActivatedJob{Key: 7}})
	h(nil, entities.Job{ActivatedJob: &pb.ActivatedJob{Key: 8}})

	require.Equal(t, []int64{7, 8}, handled)
	assert.Equal(t, 2, obs.calls)
	assert.Equal(t, "recommend-influencers", obs.taskType)
	assert.Equal(t, "processed", obs.status)
}

func TestInstrument_NilObserver(t *testing.T) {
	called := false
	h := Instrument("query-influencers", func(worker.JobClient, entities.Job) { called = true }, nil)
	h(nil, entities.Job{ActivatedJob: &pb.ActivatedJob{}})
	assert.True(t, called)
}

func TestJobTimeout(t *testing.T) {
	assert.Equal(t, 30*time.Second, JobTimeout(config.WorkerConfig{}))
	assert.Equal(t, 1500*time.Millisecond, JobTimeout(config.WorkerConfig{Timeout: 1500}))
}
