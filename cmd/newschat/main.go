package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"newschat/internal/api"
	"newschat/internal/chat"
	"newschat/internal/classifier"
	"newschat/internal/common"
	"newschat/internal/config"
	"newschat/internal/embedding"
	"newschat/internal/llm"
	"newschat/internal/rag"
	"newschat/internal/session"
	"newschat/internal/vector"
)

func main() {
	logger := common.Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := godotenv.Load(); err != nil {
		logger.Warn("newschat: .env file not loaded", "error", err)
	} else {
		logger.Info("newschat: environment loaded from .env")
	}

	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	addr := flag.String("addr", "", "listen address (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("newschat: config load failed", "path", *configPath, "error", err)
		fmt.Println("config error:", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	sessions, err := buildSessionStore(ctx, cfg)
	if err != nil {
		logger.Error("newschat: session store unavailable", "error", err)
		fmt.Println("session store error:", err)
		os.Exit(1)
	}

	embedder := buildEmbedder(cfg)
	index := buildIndex(cfg)
	provider := llm.NewProvider(cfg.LLM)

	responder := classifier.NewResponder(rand.New(rand.NewSource(time.Now().UnixNano())))
	service := rag.NewService(embedder, index, provider, cfg.Chat.RetrieveK)
	coordinator := chat.NewCoordinator(responder, service, sessions)
	server := api.NewServer(coordinator, sessions)

	logger.Info("newschat: listening",
		"addr", cfg.Server.Addr,
		"embedder", embedder.Name(),
		"provider", provider.Name(),
		"retrieve_k", cfg.Chat.RetrieveK)
	if err := http.ListenAndServe(cfg.Server.Addr, server); err != nil {
		logger.Error("newschat: server stopped", "error", err)
		fmt.Println("server error:", err)
		os.Exit(1)
	}
}

// buildSessionStore prefers Redis when a URL is configured and falls
// back to the in-process store otherwise.
func buildSessionStore(ctx context.Context, cfg *config.Config) (session.Store, error) {
	logger := common.Logger()
	if cfg.Session.RedisURL != "" {
		store, err := session.NewRedisStore(ctx, cfg.Session.RedisURL, cfg.SessionTTL())
		if err != nil {
			return nil, err
		}
		logger.Info("newschat: redis session store connected", "ttl", cfg.SessionTTL())
		return store, nil
	}
	logger.Info("newschat: in-memory session store selected", "ttl", cfg.SessionTTL())
	return session.NewMemoryStore(cfg.SessionTTL()), nil
}

// buildEmbedder uses the OpenAI embedding API when a key is present and
// the deterministic local embedder otherwise.
func buildEmbedder(cfg *config.Config) embedding.Embedder {
	logger := common.Logger()
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		logger.Info("newschat: openai embedder selected", "model", cfg.LLM.EmbedModel)
		return embedding.NewOpenAIEmbedder(key, cfg.LLM.EmbedModel)
	}
	logger.Info("newschat: hash embedder selected")
	return embedding.NewHashEmbedder(0)
}

// buildIndex connects to Qdrant when configured; QDRANT_DISABLED=1
// forces the in-memory index for local runs.
func buildIndex(cfg *config.Config) vector.Store {
	logger := common.Logger()
	if os.Getenv("QDRANT_DISABLED") == "1" {
		logger.Info("newschat: in-memory vector index selected")
		return vector.NewMemory()
	}
	logger.Info("newschat: qdrant index selected",
		"url", cfg.Qdrant.URL, "collection", cfg.Qdrant.Collection)
	return vector.NewQdrant(vector.QdrantConfig{
		URL:        cfg.Qdrant.URL,
		APIKey:     cfg.Qdrant.APIKey,
		Collection: cfg.Qdrant.Collection,
		Timeout:    cfg.QdrantTimeout(),
	})
}
