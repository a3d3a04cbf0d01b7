// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"nanomatch/internal/common/aws"
	"nanomatch/internal/common/camunda"
	"nanomatch/internal/common/config"
	"nanomatch/internal/common/database"
	"nanomatch/internal/common/logger"
	"nanomatch/internal/common/observability"
	"nanomatch/internal/matching"
	"nanomatch/internal/store/cache"
	"nanomatch/internal/store/postgres"
	"nanomatch/internal/store/search"

	qi "nanomatch/internal/workers/directory/query-influencers"
	cms "nanomatch/internal/workers/matching/calculate-match-score"
	ri "nanomatch/internal/workers/matching/recommend-influencers"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	bootLog := logger.New("info", "console")

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("candidateSource", cfg.Matching.CandidateSource),
	)

	ctx := context.Background()

	obs, err := observability.New(ctx, cfg.App.Name, cfg.Observability.Tracing)
	if err != nil {
		zapLog.Fatal("observability init failed", zap.Error(err))
	}
	zapLog.Info("Observability initialized",
		zap.Bool("tracing", cfg.Observability.Tracing.Enabled),
		zap.String("traceExporter", cfg.Observability.Tracing.Exporter),
	)

	// --- Init Zeebe Client with retry ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      10 * time.Second,
			RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	pgStore := postgres.NewStore(pg.DB)

	// --- Profile cache (optional) ---
	var profiles matching.ProfileStore = pgStore
	if ttl := config.GetDuration(cfg.Matching.CacheTTL); ttl > 0 {
		var rdb *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			rdb, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return rdb.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer rdb.Close()
		profiles = cache.NewProfileCache(pgStore, rdb.Client, ttl, log)
		zapLog.Info("Redis profile cache enabled", zap.Duration("ttl", ttl))
	}

	// --- Candidate source ---
	var candidates matching.CandidateSource = pgStore
	var nameIndex *search.InfluencerIndex
	if cfg.Matching.CandidateSource == config.CandidateSourceElasticsearch {
		var esClient *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		nameIndex = search.NewInfluencerIndex(esClient.Client, cfg.Database.Elasticsearch.InfluencerIndex)
		candidates = nameIndex
		zapLog.Info("Elasticsearch candidate source enabled",
			zap.String("index", cfg.Database.Elasticsearch.InfluencerIndex))
	}

	// --- Match audit sinks ---
	var recorder matching.MatchRecorder
	if cfg.Matching.RecordMatches {
		sinks := []matching.Sink{{Name: "postgres", Recorder: pgStore}}
		if cfg.Integrations.AWS.SNS.Enabled {
			snsClient, err := aws.NewSNSClient(ctx, cfg.Integrations.AWS.Region)
			if err != nil {
				zapLog.Fatal("sns client init failed", zap.Error(err))
			}
			sinks = append(sinks, matching.Sink{
				Name:     "sns",
				Recorder: aws.NewMatchEventPublisherFromSNS(snsClient, cfg.Integrations.AWS.SNS.TopicARN),
			})
		}
		recorder = matching.NewFanOutRecorder(sinks...)
		zapLog.Info("Match auditing enabled", zap.Int("sinks", len(sinks)))
	}

	svc := matching.NewService(profiles, candidates, recorder, matching.Options{
		DefaultLimit:     cfg.Matching.DefaultLimit,
		MaxLimit:         cfg.Matching.MaxLimit,
		OversampleFactor: cfg.Matching.OversampleFactor,
		ScoreWorkers:     cfg.Matching.ScoreWorkers,
		AuditTimeout:     config.GetDuration(cfg.Matching.AuditTimeout),
	}, log)

	// --- Register workers ---
	var workers []*camunda.Worker

	if wcfg := config.GetWorkerConfig(cfg, cms.TaskType); wcfg.Enabled {
		handler := cms.NewHandler(&cms.Config{Timeout: camunda.JobTimeout(wcfg)}, svc, log)
		workers = append(workers, camunda.StartWorker(zeebe.GetClient(), cms.TaskType, wcfg,
			camunda.Instrument(cms.TaskType, handler.Handle, obs), log))
	}

	if wcfg := config.GetWorkerConfig(cfg, ri.TaskType); wcfg.Enabled {
		handler := ri.NewHandler(&ri.Config{Timeout: camunda.JobTimeout(wcfg)}, svc, log)
		workers = append(workers, camunda.StartWorker(zeebe.GetClient(), ri.TaskType, wcfg,
			camunda.Instrument(ri.TaskType, handler.Handle, obs), log))
	}

	if wcfg := config.GetWorkerConfig(cfg, qi.TaskType); wcfg.Enabled {
		var dir qi.Directory = pgStore
		if nameIndex != nil {
			dir = qi.WithNameSearch(pgStore, nameIndex)
		}
		handler := qi.NewHandler(qi.NewConfig(wcfg), dir, log)
		workers = append(workers, camunda.StartWorker(zeebe.GetClient(), qi.TaskType, wcfg,
			camunda.Instrument(qi.TaskType, handler.Handle, obs), log))
	}

	zapLog.Info("Workers registered", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy", nil)
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		rctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		if err := pg.Ping(rctx); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, "not ready", err)
			return
		}
		if err := zeebe.HealthCheck(rctx); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, "not ready", err)
			return
		}
		writeStatus(w, http.StatusOK, "ready", nil)
	})
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("addr", cfg.Server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		if w != nil {
			w.Stop()
		}
	}
	svc.Wait()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping observability", zap.Error(err))
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func writeStatus(w http.ResponseWriter, code int, status string, err error) {
	body := map[string]string{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	}
	if err != nil {
		body["error"] = err.Error()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}
