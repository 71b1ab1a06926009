package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/cyberguard/phishing-engine/internal/core"
	"github.com/cyberguard/phishing-engine/internal/utils"
	"go.uber.org/zap"
)

// Classifier is an implementation of the TextClassifier interface backed by
// Amazon Bedrock.
type Classifier struct {
	client       *bedrockruntime.Client
	modelID      string
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

// NewClassifier creates a Bedrock-backed classifier using the default AWS
// credential chain for the given region.
func NewClassifier(
	region string,
	modelID string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	logger *zap.Logger,
) (*Classifier, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return &Classifier{
		client:      bedrockruntime.NewFromConfig(awsCfg),
		modelID:     modelID,
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

// isAnthropicModel reports whether the configured model uses the Anthropic
// request shape.
func (c *Classifier) isAnthropicModel() bool {
	return strings.HasPrefix(c.modelID, "anthropic.")
}

// Classify asks the model for a probability distribution over the two
// classes and validates it before returning.
func (c *Classifier) Classify(ctx context.Context, text string) (core.Probability, error) {
	prompt := fmt.Sprintf(c.promptFormat, utils.PrepareForPrompt(text, c.maxBodySize))

	var payload []byte
	var err error
	if c.isAnthropicModel() {
		payload, err = json.Marshal(map[string]interface{}{
			"prompt":               fmt.Sprintf("\n\nHuman: %s\n\nAssistant:", prompt),
			"max_tokens_to_sample": c.maxTokens,
			"temperature":          c.temperature,
			"top_p":                c.topP,
		})
	} else {
		payload, err = json.Marshal(map[string]interface{}{
			"prompt":      prompt,
			"max_tokens":  c.maxTokens,
			"temperature": c.temperature,
			"top_p":       c.topP,
		})
	}
	if err != nil {
		return core.Probability{}, fmt.Errorf("failed to marshal request payload: %w", err)
	}

	resp, err := c.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     &c.modelID,
		Body:        payload,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return core.Probability{}, fmt.Errorf("failed to invoke Bedrock model: %w", err)
	}

	var responseText string
	if c.isAnthropicModel() {
		var claudeResp struct {
			Completion string `json:"completion"`
		}
		if err := json.Unmarshal(resp.Body, &claudeResp); err != nil {
			return core.Probability{}, fmt.Errorf("failed to unmarshal Claude response: %w", err)
		}
		responseText = claudeResp.Completion
	} else {
		var genericResp struct {
			Completion string `json:"completion"`
			Text       string `json:"text"`
		}
		if err := json.Unmarshal(resp.Body, &genericResp); err != nil {
			return core.Probability{}, fmt.Errorf("failed to unmarshal Bedrock response: %w", err)
		}
		responseText = genericResp.Completion
		if responseText == "" {
			responseText = genericResp.Text
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
	return "bedrock/" + c.modelID
}

// parseAnalysisResponse decodes the model's JSON reply, tolerating prose
// wrapped around the JSON object.
func parseAnalysisResponse(responseText string) (*phishAnalysisResponse, error) {
	var analysis phishAnalysisResponse
	if err := json.Unmarshal([]byte(responseText), &analysis); err == nil {
		return &analysis, nil
	}

	jsonStart := strings.IndexByte(responseText, '{')
	jsonEnd := strings.LastIndexByte(responseText, '}')
	if jsonStart < 0 || jsonEnd <= jsonStart {
		return nil, fmt.Errorf("failed to extract JSON from LLM response")
	}
	if err := json.Unmarshal([]byte(responseText[jsonStart:jsonEnd+1]), &analysis); err != nil {
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
