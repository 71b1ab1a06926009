package openai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cyberguard/phishing-engine/internal/core"
	"github.com/cyberguard/phishing-engine/internal/utils"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Classifier is an implementation of the TextClassifier interface backed by
// an OpenAI chat model.
type Classifier struct {
	client       *openai.Client
	modelName    string
	maxTokens    int
	temperature  float32
	topP         float32
	maxBodySize  int
	logger       *zap.Logger
	promptFormat string
}

// phishAnalysisResponse is the structured response requested from the model.
type phishAnalysisResponse struct {
	PLegitimate float64 `json:"p_legitimate"`
	PPhishing   float64 `json:"p_phishing"`
	Explanation string  `json:"explanation"`
}

// NewClassifier creates a new OpenAI-backed classifier.
func NewClassifier(
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	logger *zap.Logger,
) (*Classifier, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	return &Classifier{
		client:      openai.NewClient(apiKey),
		modelName:   modelName,
		maxTokens:   maxTokens,
		temperature: temperature,
		topP:        topP,
		maxBodySize: maxBodySize,
		logger:      logger,
		promptFormat: `You are a phishing detection system. Analyze the following text and estimate the probability that it is phishing.
Respond with a JSON object containing:
- p_legitimate: number between 0 and 1 (probability the text is legitimate)
- p_phishing: number between 0 and 1 (probability the text is phishing; the two must sum to 1)
- explanation: string (brief explanation of your assessment)

Text:
%s

Respond only with the JSON object and nothing else.`,
	}, nil
}

// Classify asks the model for a probability distribution over the two
// classes and validates it before returning.
func (c *Classifier) Classify(ctx context.Context, text string) (core.Probability, error) {
	prompt := fmt.Sprintf(c.promptFormat, utils.PrepareForPrompt(text, c.maxBodySize))

	req := openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a phishing detection system. Respond only with JSON.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		TopP:        c.topP,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: "json",
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return core.Probability{}, fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}
	if len(resp.Choices) == 0 {
		return core.Probability{}, fmt.Errorf("empty response from OpenAI")
	}

	analysis, err := parseAnalysisResponse(resp.Choices[0].Message.Content)
	if err != nil {
		return core.Probability{}, err
	}
	return normalizeProbability(analysis.PLegitimate, analysis.PPhishing)
}

// ModelID identifies the remote model in results and logs.
func (c *Classifier) ModelID() string {
	return "openai/" + c.modelName
}

// parseAnalysisResponse decodes the model's JSON reply, tolerating prose
// wrapped around the JSON object.
func parseAnalysisResponse(responseText string) (*phishAnalysisResponse, error) {
	var analysis phishAnalysisResponse
	if err := json.Unmarshal([]byte(responseText), &analysis); err == nil {
		return &analysis, nil
	}

	jsonStart, jsonEnd := -1, -1
	for i := 0; i < len(responseText); i++ {
		if responseText[i] == '{' {
			jsonStart = i
			break
		}
	}
	for i := len(responseText) - 1; i >= 0; i-- {
		if responseText[i] == '}' {
			jsonEnd = i + 1
			break
		}
	}
	if jsonStart < 0 || jsonStart >= jsonEnd {
		return nil, fmt.Errorf("failed to extract JSON from LLM response")
	}
	if err := json.Unmarshal([]byte(responseText[jsonStart:jsonEnd]), &analysis); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response as JSON: %w", err)
	}
	return &analysis, nil
}

// normalizeProbability clamps both components into [0,1] and rescales the
// pair so it sums to exactly 1.
func normalizeProbability(legitimate, phishing float64) (core.Probability, error) {
	legitimate = clamp01(legitimate)
	phishing = clamp01(phishing)

	sum := legitimate + phishing
	if sum <= 0 {
		return core.Probability{}, fmt.Errorf("LLM returned a degenerate probability pair")
	}
	return core.Probability{
		Legitimate: legitimate / sum,
		Phishing:   phishing / sum,
	}, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
