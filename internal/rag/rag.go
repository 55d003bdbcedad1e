package rag

import (
	"context"
	"fmt"
	"strings"

	"newschat/internal/common"
	"newschat/internal/embedding"
	"newschat/internal/llm"
	"newschat/internal/vector"
)

const contextSeparator = "\n\n---\n\n"

// Answer is the outcome of one retrieval-and-generation pass. Sources
// lists each hit's origin URI in hit order, duplicates preserved.
type Answer struct {
	Text    string
	Sources []string
}

// Service embeds a question, retrieves grounding passages, and asks
// the injected completion provider for an answer.
type Service struct {
	embedder embedding.Embedder
	index    vector.Store
	provider llm.Provider
	topK     int
}

// NewService wires the retrieval path. topK defaults to 5.
func NewService(embedder embedding.Embedder, index vector.Store, provider llm.Provider, topK int) *Service {
	if topK <= 0 {
		topK = 5
	}
	return &Service{embedder: embedder, index: index, provider: provider, topK: topK}
}

// Answer runs the full pipeline for one substantive message. Failures
// of the embedding, index, or completion backends are returned as-is;
// nothing is retried against another provider.
func (s *Service) Answer(ctx context.Context, message string) (Answer, error) {
	logger := common.Logger()
	vectors, err := s.embedder.Embed(ctx, []string{message})
	if err != nil {
		return Answer{}, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) == 0 {
		return Answer{}, fmt.Errorf("%w: empty embedding response", embedding.ErrEmbed)
	}
	hits, err := s.index.Search(ctx, vectors[0], s.topK)
	if err != nil {
		return Answer{}, fmt.Errorf("search index: %w", err)
	}
	logger.Debug("rag: retrieved context", "hits", len(hits), "k", s.topK)

	prompt := buildPrompt(assembleContext(hits), message)
	text, err := s.provider.Complete(ctx, prompt)
	if err != nil {
		return Answer{}, err
	}
	sources := make([]string, 0, len(hits))
	for _, hit := range hits {
		sources = append(sources, hit.Payload.Source)
	}
	return Answer{Text: text, Sources: sources}, nil
}

// assembleContext renders hits in the order the index returned them,
// which is descending similarity. Missing sources become "unknown" so
// incomplete metadata never breaks retrieval.
func assembleContext(hits []vector.Hit) string {
	blocks := make([]string, 0, len(hits))
	for _, hit := range hits {
		source := hit.Payload.Source
		if source == "" {
			source = "unknown"
		}
		blocks = append(blocks, fmt.Sprintf("SOURCE: %s\n%s", source, hit.Payload.Text))
	}
	return strings.Join(blocks, contextSeparator)
}

func buildPrompt(contextText, message string) string {
	return fmt.Sprintf(`You are a helpful assistant that answers questions about current news and events. Answer the user's question in a natural, conversational way using the news information provided.

Guidelines:
- Be conversational and friendly, like chatting with a friend
- Don't act like a TV news anchor or use broadcast language
- Don't say "Good evening everyone" or "That's all for now"
- Don't mention being an AI or language model
- Just answer the question directly and naturally
- If the news articles don't contain relevant info, say "I don't have recent information about that topic"
- Keep responses concise and to the point

News Information:
%s

User Question: %s

Answer naturally:`, contextText, message)
}
