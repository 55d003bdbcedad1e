package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// SessionConfig configures the session store backend.
type SessionConfig struct {
	RedisURL string `yaml:"redis_url"`
	TTLSecs  int    `yaml:"ttl_secs"`
}

// QdrantConfig contains connection details for the Qdrant vector store.
type QdrantConfig struct {
	URL         string `yaml:"url"`
	APIKey      string `yaml:"api_key"`
	Collection  string `yaml:"collection"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// ChatConfig tunes the query-time retrieval path.
type ChatConfig struct {
	RetrieveK int `yaml:"retrieve_k"`
}

// IngestConfig tunes the ingestion batch job.
type IngestConfig struct {
	Feeds            []string `yaml:"feeds"`
	MaxItemsPerFeed  int      `yaml:"max_items_per_feed"`
	ChunkSize        int      `yaml:"chunk_size"`
	MaxPassages      int      `yaml:"max_passages"`
	UpsertBatchSize  int      `yaml:"upsert_batch_size"`
	PageTextLimit    int      `yaml:"page_text_limit"`
	FetchTimeoutSecs int      `yaml:"fetch_timeout_secs"`
}

// LLMConfig names the models used by the completion and embedding backends.
type LLMConfig struct {
	GeminiModel     string `yaml:"gemini_model"`
	OpenAIChatModel string `yaml:"openai_chat_model"`
	EmbedModel      string `yaml:"embed_model"`
}

// Config is the root application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Session SessionConfig `yaml:"session"`
	Qdrant  QdrantConfig  `yaml:"qdrant"`
	Chat    ChatConfig    `yaml:"chat"`
	Ingest  IngestConfig  `yaml:"ingest"`
	LLM     LLMConfig     `yaml:"llm"`
}

// defaultFeeds mirrors the curated source list the ingest job was launched
// with before it became configurable.
var defaultFeeds = []string{
	"https://feeds.feedburner.com/TechCrunch",
	"https://www.theverge.com/rss/index.xml",
	"https://github.blog/feed/",
	"https://dev.to/feed",
	"https://feeds.bbci.co.uk/news/rss.xml",
	"https://feeds.npr.org/1001/rss.xml",
	"https://feeds.bbci.co.uk/sport/rss.xml",
	"https://www.espn.com/espn/rss/news",
	"https://timesofindia.indiatimes.com/rssfeedstopstories.cms",
}

// Load reads a config file from path. A missing file yields defaults,
// environment variables override file values either way.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	applyEnv(cfg)
	return cfg, nil
}

// SessionTTL returns the configured sliding expiry window for sessions.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Session.TTLSecs) * time.Second
}

// QdrantTimeout returns the per-call timeout for vector index operations.
func (c *Config) QdrantTimeout() time.Duration {
	return time.Duration(c.Qdrant.TimeoutSecs) * time.Second
}

// FetchTimeout returns the per-source timeout for ingest fetches.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Ingest.FetchTimeoutSecs) * time.Second
}

func defaultConfig() *Config {
	return &Config{
		Server:  ServerConfig{Addr: ":5000"},
		Session: SessionConfig{TTLSecs: 7 * 24 * 60 * 60},
		Qdrant: QdrantConfig{
			URL:         "http://localhost:6333",
			Collection:  "news_passages",
			TimeoutSecs: 15,
		},
		Chat: ChatConfig{RetrieveK: 5},
		Ingest: IngestConfig{
			Feeds:            append([]string(nil), defaultFeeds...),
			MaxItemsPerFeed:  25,
			ChunkSize:        800,
			MaxPassages:      400,
			UpsertBatchSize:  64,
			PageTextLimit:    5000,
			FetchTimeoutSecs: 20,
		},
		LLM: LLMConfig{
			GeminiModel:     "gemini-1.5-flash",
			OpenAIChatModel: "gpt-4o-mini",
			EmbedModel:      "text-embedding-3-small",
		},
	}
}

func applyDefaults(cfg *Config) {
	def := defaultConfig()
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = def.Server.Addr
	}
	if cfg.Session.TTLSecs <= 0 {
		cfg.Session.TTLSecs = def.Session.TTLSecs
	}
	if cfg.Qdrant.URL == "" {
		cfg.Qdrant.URL = def.Qdrant.URL
	}
	if cfg.Qdrant.Collection == "" {
		cfg.Qdrant.Collection = def.Qdrant.Collection
	}
	if cfg.Qdrant.TimeoutSecs <= 0 {
		cfg.Qdrant.TimeoutSecs = def.Qdrant.TimeoutSecs
	}
	if cfg.Chat.RetrieveK <= 0 {
		cfg.Chat.RetrieveK = def.Chat.RetrieveK
	}
	if len(cfg.Ingest.Feeds) == 0 {
		cfg.Ingest.Feeds = append([]string(nil), def.Ingest.Feeds...)
	}
	if cfg.Ingest.MaxItemsPerFeed <= 0 {
		cfg.Ingest.MaxItemsPerFeed = def.Ingest.MaxItemsPerFeed
	}
	if cfg.Ingest.ChunkSize <= 0 {
		cfg.Ingest.ChunkSize = def.Ingest.ChunkSize
	}
	if cfg.Ingest.MaxPassages <= 0 {
		cfg.Ingest.MaxPassages = def.Ingest.MaxPassages
	}
	if cfg.Ingest.UpsertBatchSize <= 0 {
		cfg.Ingest.UpsertBatchSize = def.Ingest.UpsertBatchSize
	}
	if cfg.Ingest.PageTextLimit <= 0 {
		cfg.Ingest.PageTextLimit = def.Ingest.PageTextLimit
	}
	if cfg.Ingest.FetchTimeoutSecs <= 0 {
		cfg.Ingest.FetchTimeoutSecs = def.Ingest.FetchTimeoutSecs
	}
	if cfg.LLM.GeminiModel == "" {
		cfg.LLM.GeminiModel = def.LLM.GeminiModel
	}
	if cfg.LLM.OpenAIChatModel == "" {
		cfg.LLM.OpenAIChatModel = def.LLM.OpenAIChatModel
	}
	if cfg.LLM.EmbedModel == "" {
		cfg.LLM.EmbedModel = def.LLM.EmbedModel
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Addr = ":" + v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Session.RedisURL = v
	}
	if v, ok := envInt("SESSION_TTL"); ok {
		cfg.Session.TTLSecs = v
	}
	if v := os.Getenv("QDRANT_URL"); v != "" {
		cfg.Qdrant.URL = v
	}
	if v := os.Getenv("QDRANT_API_KEY"); v != "" {
		cfg.Qdrant.APIKey = v
	}
	if v := os.Getenv("QDRANT_COLLECTION"); v != "" {
		cfg.Qdrant.Collection = v
	}
	if v, ok := envInt("RETRIEVE_K"); ok {
		cfg.Chat.RetrieveK = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		cfg.LLM.GeminiModel = v
	}
	if v := os.Getenv("OPENAI_CHAT_MODEL"); v != "" {
		cfg.LLM.OpenAIChatModel = v
	}
	if v := os.Getenv("OPENAI_EMBED_MODEL"); v != "" {
		cfg.LLM.EmbedModel = v
	}
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	parsed, err := strconv.Atoi(v)
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
