package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"newschat/internal/common"
	"newschat/internal/config"
	"newschat/internal/embedding"
	"newschat/internal/ingest"
	"newschat/internal/vector"
)

func main() {
	logger := common.Logger()

	if err := godotenv.Load(); err != nil {
		logger.Warn("ingest: .env file not loaded", "error", err)
	}

	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	timeout := flag.Duration("timeout", 10*time.Minute, "overall run timeout")
	seedsOnly := flag.Bool("seeds-only", false, "skip feed fetching and index only the curated seed passages")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("ingest: config load failed", "path", *configPath, "error", err)
		fmt.Println("config error:", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	var embedder embedding.Embedder
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		logger.Info("ingest: openai embedder selected", "model", cfg.LLM.EmbedModel)
		embedder = embedding.NewOpenAIEmbedder(key, cfg.LLM.EmbedModel)
	} else {
		logger.Info("ingest: hash embedder selected")
		embedder = embedding.NewHashEmbedder(0)
	}

	index := vector.NewQdrant(vector.QdrantConfig{
		URL:        cfg.Qdrant.URL,
		APIKey:     cfg.Qdrant.APIKey,
		Collection: cfg.Qdrant.Collection,
		Timeout:    cfg.QdrantTimeout(),
	})

	runCfg := ingest.Config{
		Feeds:           cfg.Ingest.Feeds,
		Seeds:           ingest.DefaultSeeds,
		MaxItemsPerFeed: cfg.Ingest.MaxItemsPerFeed,
		ChunkSize:       cfg.Ingest.ChunkSize,
		MaxPassages:     cfg.Ingest.MaxPassages,
		UpsertBatchSize: cfg.Ingest.UpsertBatchSize,
		PageTextLimit:   cfg.Ingest.PageTextLimit,
		FetchTimeout:    cfg.FetchTimeout(),
	}
	if *seedsOnly {
		runCfg.Feeds = nil
	}

	count, err := ingest.New(runCfg, embedder, index).Run(ctx)
	if err != nil {
		logger.Error("ingest: run failed", "indexed", count, "error", err)
		fmt.Println("ingest error:", err)
		os.Exit(1)
	}
	logger.Info("ingest: run complete", "indexed", count, "collection", cfg.Qdrant.Collection)
	fmt.Printf("indexed %d passages into %s\n", count, cfg.Qdrant.Collection)
}
