package gemini

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cyberguard/phishing-engine/internal/core"
	"github.com/cyberguard/phishing-engine/internal/utils"
	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Classifier is an implementation of the TextClassifier interface backed by
// Google Gemini.
type Classifier struct {
	client       *genai.Client
	model        *genai.GenerativeModel
	modelName    string
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

// NewClassifier creates a new Gemini-backed classifier.
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
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SetTopP(topP)
	model.SetMaxOutputTokens(int32(maxTokens))

	return &Classifier{
		client:      client,
		model:       model,
		modelName:   modelName,
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

// Close closes the underlying API client.
func (c *Classifier) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Classify asks the model for a probability distribution over the two
// classes and validates it before returning.
func (c *Classifier) Classify(ctx context.Context, text string) (core.Probability, error) {
	prompt := fmt.Sprintf(c.promptFormat, utils.PrepareForPrompt(text, c.maxBodySize))

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return core.Probability{}, fmt.Errorf("failed to generate content with Gemini: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return core.Probability{}, fmt.Errorf("empty response from Gemini")
	}

	var responseText string
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText += string(txt)
		}
	}

	analysis, err := parseAnalysisResponse(responseText)
	if err != nil {
		return core.Probability{}, err
	}
	return normalizeProbability(analysis.PLegitimate, analysis.PPhishing)
}

// ModelID identifies the remote model in results and logs.
func (c *Classifier) ModelID() string {
	return "gemini/" + c.modelName
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
	if legitimate < 0 {
		legitimate = 0
	} else if legitimate > 1 {
		legitimate = 1
	}
	if phishing < 0 {
		phishing = 0
	} else if phishing > 1 {
		phishing = 1
	}

	sum := legitimate + phishing
	if sum <= 0 {
		return core.Probability{}, fmt.Errorf("LLM returned a degenerate probability pair")
	}
	return core.Probability{
		Legitimate: legitimate / sum,
		Phishing:   phishing / sum,
	}, nil
}
