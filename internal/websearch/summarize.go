package websearch

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Summarizer condenses combined search snippets into a short answer.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// NaiveSummarizer takes the first two sentences. It is the fallback when
// no LLM summarizer is configured or the configured one fails.
type NaiveSummarizer struct{}

// Summarize implements Summarizer.
func (NaiveSummarizer) Summarize(_ context.Context, text string) (string, error) {
	if text == "" {
		return "", nil
	}
	sentences := strings.SplitN(text, ".", 3)
	if len(sentences) > 2 {
		sentences = sentences[:2]
	}
	return strings.TrimSpace(strings.Join(sentences, ".")) + ".", nil
}

// OpenAISummarizer condenses text with an OpenAI chat model.
type OpenAISummarizer struct {
	client    *openai.Client
	modelName string
	maxTokens int
	logger    *zap.Logger
}

// NewOpenAISummarizer creates an LLM-backed summarizer.
func NewOpenAISummarizer(apiKey, modelName string, maxTokens int, logger *zap.Logger) (*OpenAISummarizer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}
	return &OpenAISummarizer{
		client:    openai.NewClient(apiKey),
		modelName: modelName,
		maxTokens: maxTokens,
		logger:    logger,
	}, nil
}

// Summarize implements Summarizer.
func (s *OpenAISummarizer) Summarize(ctx context.Context, text string) (string, error) {
	if text == "" {
		return "", nil
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: "Summarize the following text in 2-3 concise sentences:\n\n" + text,
			},
		},
		MaxTokens: s.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to summarize with OpenAI: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from OpenAI")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
