// internal/matching/store.go
package matching

import (
	"context"
	stderrors "errors"

	"nanomatch/internal/common/errors"
	"nanomatch/internal/common/metrics"
	"nanomatch/internal/models"
)

// ProfileStore reads SME and influencer profiles. Implementations return an
// errors.ErrNotFound-matching error for unknown ids.
type ProfileStore interface {
	GetSME(ctx context.Context, id string) (models.SME, error)
	GetInfluencer(ctx context.Context, id string) (models.Influencer, error)
}

// CandidateSource lists influencers matching filter in the given order.
type CandidateSource interface {
	ListInfluencers(ctx context.Context, filter models.InfluencerFilter, order models.SortOrder) ([]models.Influencer, error)
}

// MatchRecorder is the write-only audit channel. Nothing in the engine reads records back.
type MatchRecorder interface {
	RecordMatch(ctx context.Context, record models.MatchRecord) error
}

// MatchRecorderFunc adapts a function to MatchRecorder.
type MatchRecorderFunc func(ctx context.Context, record models.MatchRecord) error

func (f MatchRecorderFunc) RecordMatch(ctx context.Context, record models.MatchRecord) error {
	return f(ctx, record)
}

// Sink is a named audit destination.
type Sink struct {
	Name     string
	Recorder MatchRecorder
}

// FanOutRecorder writes every record to all sinks. A failing sink does not stop the others.
type FanOutRecorder struct {
	sinks []Sink
}

// NewFanOutRecorder creates a recorder writing to every sink in order.
func NewFanOutRecorder(sinks ...Sink) *FanOutRecorder {
	return &FanOutRecorder{sinks: sinks}
}

// Len returns the number of sinks.
func (f *FanOutRecorder) Len() int {
	return len(f.sinks)
}

// RecordMatch writes to every sink and joins their errors.
func (f *FanOutRecorder) RecordMatch(ctx context.Context, record models.MatchRecord) error {
	var errs []error
	for _, sink := range f.sinks {
		if err := sink.Recorder.RecordMatch(ctx, record); err != nil {
			metrics.AuditWriteFailures.WithLabelValues(sink.Name).Inc()
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}

// storeError normalizes a store read failure. Typed errors pass through; anything
// else, cancellation included, is reported as an unavailable store.
func storeError(op string, err error) error {
	var stdErr *errors.StandardError
	if stderrors.As(err, &stdErr) {
		return err
	}
	return errors.NewStoreUnavailableError(op, err)
}
