// internal/matching/service.go
package matching

import (
	"context"
	"math"
	"strings"
	"sync"
	"time"

	"nanomatch/internal/common/errors"
	"nanomatch/internal/common/logger"
	"nanomatch/internal/common/metrics"
	"nanomatch/internal/models"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultLimit            = 5
	DefaultMaxLimit         = 50
	DefaultOversampleFactor = 2
	DefaultAuditTimeout     = 5 * time.Second
)

// Options tunes the service. Zero values fall back to the package defaults.
type Options struct {
	DefaultLimit     int
	MaxLimit         int
	OversampleFactor int
	ScoreWorkers     int
	AuditTimeout     time.Duration

	// TracerProvider defaults to the global otel provider.
	TracerProvider trace.TracerProvider
}

func (o *Options) applyDefaults() {
	if o.DefaultLimit <= 0 {
		o.DefaultLimit = DefaultLimit
	}
	if o.MaxLimit <= 0 {
		o.MaxLimit = DefaultMaxLimit
	}
	if o.OversampleFactor < 1 {
		o.OversampleFactor = DefaultOversampleFactor
	}
	if o.AuditTimeout <= 0 {
		o.AuditTimeout = DefaultAuditTimeout
	}
	if o.TracerProvider == nil {
		o.TracerProvider = otel.GetTracerProvider()
	}
}

// Service runs select, score and rank against explicit store handles.
type Service struct {
	profiles ProfileStore
	selector *Selector
	recorder MatchRecorder
	opts     Options
	logger   logger.Logger
	tracer   trace.Tracer
	now      func() time.Time

	audits sync.WaitGroup
}

// NewService wires the engine. recorder may be nil to disable match auditing.
func NewService(profiles ProfileStore, candidates CandidateSource, recorder MatchRecorder, opts Options, log logger.Logger) *Service {
	opts.applyDefaults()
	return &Service{
		profiles: profiles,
		selector: NewSelector(candidates),
		recorder: recorder,
		opts:     opts,
		logger:   log.WithFields(map[string]interface{}{"component": "matching"}),
		tracer:   opts.TracerProvider.Tracer("nanomatch/matching"),
		now:      time.Now,
	}
}

// ScoreMatch scores a single SME/influencer pair. An unscoreable influencer is a
// successful result with score 0, not an error.
func (s *Service) ScoreMatch(ctx context.Context, smeID, influencerID string) (models.MatchResult, error) {
	ctx, span := s.tracer.Start(ctx, "matching.ScoreMatch", trace.WithAttributes(
		attribute.String("sme.id", smeID),
		attribute.String("influencer.id", influencerID),
	))
	defer span.End()

	if strings.TrimSpace(smeID) == "" || strings.TrimSpace(influencerID) == "" {
		return models.MatchResult{}, s.fail(span, errors.NewInvalidInputError("smeId and influencerId are required"))
	}

	sme, err := s.profiles.GetSME(ctx, smeID)
	if err != nil {
		return models.MatchResult{}, s.fail(span, storeError("GetSME", err))
	}
	if err := validateSME(sme); err != nil {
		return models.MatchResult{}, s.fail(span, err)
	}

	inf, err := s.profiles.GetInfluencer(ctx, influencerID)
	if err != nil {
		return models.MatchResult{}, s.fail(span, storeError("GetInfluencer", err))
	}

	result := Score(sme, inf)
	s.countScore(result)
	span.SetAttributes(attribute.Int("match.score", result.Score))

	if result.Scoreable() {
		s.recordAsync(ctx, models.MatchSourceScore, []models.MatchResult{result})
	} else {
		s.logger.Warn("influencer is unscoreable", map[string]interface{}{
			"smeId":        smeID,
			"influencerId": influencerID,
			"reason":       result.Unscoreable,
		})
	}
	return result, nil
}

// Recommend returns at most limit influencers for the SME, best first. limit <= 0 falls
// back to the default and values above the maximum are clamped.
func (s *Service) Recommend(ctx context.Context, smeID string, limit int) ([]models.Recommendation, error) {
	start := time.Now()
	limit = s.NormalizeLimit(limit)

	ctx, span := s.tracer.Start(ctx, "matching.Recommend", trace.WithAttributes(
		attribute.String("sme.id", smeID),
		attribute.Int("limit", limit),
	))
	defer span.End()
	defer func() { metrics.RecommendationDuration.Observe(time.Since(start).Seconds()) }()

	recs, err := s.recommend(ctx, smeID, limit)
	if err != nil {
		metrics.Recommendations.WithLabelValues(string(errors.AsStandard(err).Code)).Inc()
		return nil, s.fail(span, err)
	}

	metrics.Recommendations.WithLabelValues("ok").Inc()
	span.SetAttributes(attribute.Int("recommendations", len(recs)))
	return recs, nil
}

func (s *Service) recommend(ctx context.Context, smeID string, limit int) ([]models.Recommendation, error) {
	if strings.TrimSpace(smeID) == "" {
		return nil, errors.NewInvalidInputError("smeId is required")
	}

	sme, err := s.profiles.GetSME(ctx, smeID)
	if err != nil {
		return nil, storeError("GetSME", err)
	}
	if err := validateSME(sme); err != nil {
		return nil, err
	}

	poolSize := limit * s.opts.OversampleFactor
	candidates, err := s.selector.SelectCandidates(ctx, sme, poolSize)
	if err != nil {
		return nil, err
	}
	metrics.CandidatePoolSize.Observe(float64(len(candidates)))

	scored := ScoreAll(sme, candidates, s.opts.ScoreWorkers)
	for _, sc := range scored {
		s.countScore(sc.Match)
	}

	recs := Rank(scored, limit)

	s.logger.Info("recommendations ranked", map[string]interface{}{
		"smeId":      smeID,
		"limit":      limit,
		"poolSize":   poolSize,
		"candidates": len(candidates),
		"returned":   len(recs),
	})

	results := make([]models.MatchResult, len(recs))
	for i, r := range recs {
		results[i] = r.Match
	}
	s.recordAsync(ctx, models.MatchSourceRecommend, results)

	return recs, nil
}

// NormalizeLimit maps a requested limit onto [1, MaxLimit], using DefaultLimit for limit <= 0.
func (s *Service) NormalizeLimit(limit int) int {
	if limit <= 0 {
		return s.opts.DefaultLimit
	}
	if limit > s.opts.MaxLimit {
		return s.opts.MaxLimit
	}
	return limit
}

// Wait blocks until all pending audit writes have finished.
func (s *Service) Wait() {
	s.audits.Wait()
}

func (s *Service) recordAsync(ctx context.Context, source models.MatchSource, results []models.MatchResult) {
	if s.recorder == nil || len(results) == 0 {
		return
	}

	now := s.now().UTC()
	records := make([]models.MatchRecord, len(results))
	for i, r := range results {
		records[i] = models.MatchRecord{
			ID:           uuid.NewString(),
			SMEID:        r.SMEID,
			InfluencerID: r.InfluencerID,
			Score:        r.Score,
			Label:        r.Label,
			Factors:      r.Factors,
			Source:       source,
			CalculatedAt: now,
		}
	}

	// Detached from the request so a finished job does not cancel its own audit trail.
	auditCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.AuditTimeout)

	s.audits.Add(1)
	go func() {
		defer s.audits.Done()
		defer cancel()

		for _, rec := range records {
			if err := s.recorder.RecordMatch(auditCtx, rec); err != nil {
				s.logger.Warn("failed to record match", map[string]interface{}{
					"smeId":        rec.SMEID,
					"influencerId": rec.InfluencerID,
					"error":        err,
				})
			}
		}
	}()
}

func (s *Service) countScore(result models.MatchResult) {
	if result.Scoreable() {
		metrics.MatchesScored.WithLabelValues("scored").Inc()
		return
	}
	metrics.MatchesScored.WithLabelValues("unscoreable").Inc()
}

func (s *Service) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func validateSME(sme models.SME) error {
	if math.IsNaN(sme.Budget) || sme.Budget < 0 {
		return errors.NewInvalidInputError("sme budget must be >= 0")
	}
	if strings.TrimSpace(sme.Niche) == "" {
		return errors.NewInvalidInputError("sme niche is required")
	}
	return nil
}
