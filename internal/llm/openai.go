package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"newschat/internal/common"
)

// OpenAIProvider calls the OpenAI chat completion API.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIProvider builds an OpenAI-backed completion provider.
func NewOpenAIProvider(apiKey, model string) *OpenAIProvider {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIProvider{client: openai.NewClient(apiKey), model: model}
}

func (o *OpenAIProvider) Complete(ctx context.Context, prompt string) (string, error) {
	logger := common.Logger()
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     o.model,
		MaxTokens: 512,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		logger.Error("llm: openai completion failed", "error", err)
		return "", &CompletionError{Provider: o.Name(), Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &CompletionError{Provider: o.Name(), Err: fmt.Errorf("no choices returned")}
	}
	return resp.Choices[0].Message.Content, nil
}

func (o *OpenAIProvider) Name() string {
	return "openai"
}
