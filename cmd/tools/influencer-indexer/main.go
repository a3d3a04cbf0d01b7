// cmd/tools/influencer-indexer/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"nanomatch/internal/common/config"
	"nanomatch/internal/common/database"
	"nanomatch/internal/common/logger"
	"nanomatch/internal/models"
	"nanomatch/internal/store/cache"
	"nanomatch/internal/store/postgres"
	"nanomatch/internal/store/search"
)

// influencer-indexer copies influencer profiles from PostgreSQL into the Elasticsearch
// candidate index and drops stale Redis profile entries for everything it rewrote.
func main() {
	os.Exit(run(os.Args[1:]))
}

// run returns the process exit code so deferred closes execute before exit.
func run(args []string) int {
	fs := flag.NewFlagSet("influencer-indexer", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to config file (defaults to configs/config.yaml lookup)")
	niche := fs.String("niche", "", "Only reindex influencers in this niche")
	limit := fs.Int("limit", 10000, "Maximum number of influencers to reindex")
	workers := fs.Int("workers", 8, "Concurrent index requests")
	dryRun := fs.Bool("dry-run", false, "Read from PostgreSQL without writing to Elasticsearch")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	log := logger.New("info", "console")
	defer log.Sync()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Error("config load failed", zap.Error(err))
		return 1
	}
	if len(cfg.Database.Elasticsearch.Addresses) == 0 {
		fmt.Fprintln(os.Stderr, "Error: database.elasticsearch.addresses is required")
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		log.Error("postgres init failed", zap.Error(err))
		return 1
	}
	defer pg.Close()

	influencers, err := postgres.NewStore(pg.DB).ListInfluencers(ctx,
		models.InfluencerFilter{Niche: *niche, Limit: *limit}, models.OrderRatingDesc)
	if err != nil {
		log.Error("reading influencers failed", zap.Error(err))
		return 1
	}
	log.Info("Loaded influencers from PostgreSQL", zap.Int("count", len(influencers)), zap.String("niche", *niche))

	if *dryRun {
		for _, inf := range influencers {
			fmt.Printf("%s\t%s\t%.2f\n", inf.ID, inf.Niche, inf.PricePerPost)
		}
		return 0
	}

	es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	if err != nil {
		log.Error("elasticsearch init failed", zap.Error(err))
		return 1
	}
	idx := search.NewInfluencerIndex(es.Client, cfg.Database.Elasticsearch.InfluencerIndex)
	if err := idx.EnsureIndex(ctx); err != nil {
		log.Error("ensure index failed", zap.Error(err))
		return 1
	}

	indexed, indexErr := idx.IndexAll(ctx, influencers, *workers)
	if indexErr != nil {
		log.Error("Some influencers failed to index", zap.Error(indexErr), zap.Int("indexed", indexed))
	}
	log.Info("Indexing complete",
		zap.Int("indexed", indexed),
		zap.Int("total", len(influencers)),
		zap.String("index", cfg.Database.Elasticsearch.InfluencerIndex),
	)

	if cfg.Matching.CacheTTL > 0 {
		invalidateProfiles(ctx, cfg, influencers, log)
	}

	if indexErr != nil {
		return 1
	}
	return 0
}

func invalidateProfiles(ctx context.Context, cfg *config.Config, influencers []models.Influencer, log *zap.Logger) {
	rdb, err := database.NewRedis(cfg.Database.Redis)
	if err != nil {
		log.Warn("redis init failed, cached profiles not invalidated", zap.Error(err))
		return
	}
	defer rdb.Close()

	ids := make([]string, len(influencers))
	for i, inf := range influencers {
		ids[i] = inf.ID
	}
	profiles := cache.NewProfileCache(nil, rdb.Client, config.GetDuration(cfg.Matching.CacheTTL), logger.NewZapAdapter(log))
	if err := profiles.InvalidateInfluencers(ctx, ids...); err != nil {
		log.Warn("cache invalidation failed", zap.Error(err))
		return
	}
	log.Info("Invalidated cached influencer profiles", zap.Int("count", len(ids)))
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}
