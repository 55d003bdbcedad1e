package ingest

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"

	"newschat/internal/chunker"
	"newschat/internal/common"
	"newschat/internal/embedding"
	"newschat/internal/vector"
)

// Config tunes one ingestion run.
type Config struct {
	Feeds           []string
	Seeds           []Passage
	MaxItemsPerFeed int
	ChunkSize       int
	MaxPassages     int
	UpsertBatchSize int
	PageTextLimit   int
	FetchTimeout    time.Duration
}

func (c *Config) applyDefaults() {
	if c.MaxItemsPerFeed <= 0 {
		c.MaxItemsPerFeed = 25
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = 800
	}
	if c.MaxPassages <= 0 {
		c.MaxPassages = 400
	}
	if c.UpsertBatchSize <= 0 {
		c.UpsertBatchSize = 64
	}
	if c.PageTextLimit <= 0 {
		c.PageTextLimit = 5000
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = 20 * time.Second
	}
}

// Orchestrator pulls documents from feeds, chunks them into passages,
// and drives the embedding and indexing pipeline.
type Orchestrator struct {
	cfg      Config
	embedder embedding.Embedder
	index    vector.Store
	parser   *gofeed.Parser
	client   *http.Client
	newID    func() string
}

// New builds an orchestrator over the given embedding and index
// backends.
func New(cfg Config, embedder embedding.Embedder, index vector.Store) *Orchestrator {
	cfg.applyDefaults()
	client := &http.Client{Timeout: cfg.FetchTimeout}
	parser := gofeed.NewParser()
	parser.Client = client
	return &Orchestrator{
		cfg:      cfg,
		embedder: embedder,
		index:    index,
		parser:   parser,
		client:   client,
		newID:    uuid.NewString,
	}
}

// Run executes one full-refresh ingestion: collect, embed, index.
// Passage identifiers are freshly generated every run and nothing is
// deduplicated against earlier runs; repeated runs accumulate entries
// for unchanged items. The returned count is the number of passages
// actually upserted, which on a batch failure is the count written
// before the failing batch.
func (o *Orchestrator) Run(ctx context.Context) (int, error) {
	logger := common.Logger()
	passages := o.collect(ctx)
	if len(passages) == 0 {
		logger.Info("ingest: nothing to index")
		return 0, nil
	}
	logger.Info("ingest: collected passages", "count", len(passages))

	texts := make([]string, len(passages))
	for i, p := range passages {
		texts[i] = p.Text
	}
	vectors, err := o.embedder.Embed(ctx, texts)
	if err != nil {
		return 0, err
	}
	if len(vectors) != len(passages) {
		return 0, embedding.ErrEmbed
	}
	if err := o.index.EnsureCollection(ctx, len(vectors[0])); err != nil {
		return 0, err
	}

	points := make([]vector.Point, len(passages))
	for i, p := range passages {
		points[i] = vector.Point{
			ID:     p.ID,
			Vector: vectors[i],
			Payload: vector.Payload{
				Text:   p.Text,
				Source: p.Source,
				Title:  p.Title,
			},
		}
	}

	// Sequential batches keep the write load on the index bounded.
	upserted := 0
	for start := 0; start < len(points); start += o.cfg.UpsertBatchSize {
		end := start + o.cfg.UpsertBatchSize
		if end > len(points) {
			end = len(points)
		}
		if err := o.index.Upsert(ctx, points[start:end]); err != nil {
			logger.Error("ingest: upsert batch failed", "offset", start, "error", err)
			return upserted, err
		}
		upserted += end - start
		logger.Debug("ingest: upserted batch", "offset", start, "size", end-start)
	}
	logger.Info("ingest: run complete", "passages", upserted)
	return upserted, nil
}

// collect gathers seed passages and feed items up to the global cap.
// A failing source is logged and skipped; it never aborts the run.
func (o *Orchestrator) collect(ctx context.Context) []Passage {
	logger := common.Logger()
	passages := make([]Passage, 0, len(o.cfg.Seeds))
	for _, seed := range o.cfg.Seeds {
		seed.ID = o.newID()
		passages = append(passages, seed)
	}

	for _, feedURL := range o.cfg.Feeds {
		if len(passages) >= o.cfg.MaxPassages {
			break
		}
		feed, err := o.fetchFeed(ctx, feedURL)
		if err != nil {
			logger.Warn("ingest: feed fetch failed", "feed", feedURL, "error", err)
			continue
		}
		items := feed.Items
		if len(items) > o.cfg.MaxItemsPerFeed {
			items = items[:o.cfg.MaxItemsPerFeed]
		}
		for _, item := range items {
			if len(passages) >= o.cfg.MaxPassages {
				break
			}
			text := o.itemText(ctx, item)
			for _, chunk := range chunker.Split(text, o.cfg.ChunkSize) {
				passages = append(passages, Passage{
					ID:     o.newID(),
					Text:   chunk,
					Source: item.Link,
					Title:  item.Title,
				})
			}
		}
	}
	if len(passages) > o.cfg.MaxPassages {
		passages = passages[:o.cfg.MaxPassages]
	}
	return passages
}

func (o *Orchestrator) fetchFeed(ctx context.Context, feedURL string) (*gofeed.Feed, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, o.cfg.FetchTimeout)
	defer cancel()
	return o.parser.ParseURLWithContext(feedURL, fetchCtx)
}

// itemText prefers the feed's own summary and falls back to fetching
// the linked page, capped in length either way.
func (o *Orchestrator) itemText(ctx context.Context, item *gofeed.Item) string {
	if text := stripMarkup(item.Description); text != "" {
		return truncate(text, o.cfg.PageTextLimit)
	}
	if item.Link != "" {
		if text := o.fetchPageText(ctx, item.Link); text != "" {
			return text
		}
	}
	return item.Title
}

func (o *Orchestrator) fetchPageText(ctx context.Context, pageURL string) string {
	fetchCtx, cancel := context.WithTimeout(ctx, o.cfg.FetchTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, pageURL, nil)
	if err != nil {
		return ""
	}
	resp, err := o.client.Do(req)
	if err != nil {
		common.Logger().Debug("ingest: page fetch failed", "url", pageURL, "error", err)
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return ""
	}
	doc.Find("script, style, noscript").Remove()
	return truncate(collapseWhitespace(doc.Text()), o.cfg.PageTextLimit)
}

func stripMarkup(html string) string {
	trimmed := strings.TrimSpace(html)
	if trimmed == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(trimmed))
	if err != nil {
		return collapseWhitespace(trimmed)
	}
	return collapseWhitespace(doc.Text())
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
