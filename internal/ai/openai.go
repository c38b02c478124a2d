package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const systemPrompt = "You are a workforce intelligence analyst assessing company risk. Always respond with valid JSON only, no markdown formatting."

// OpenAIGenerator is the live TextGenerator backed by the OpenAI chat API.
type OpenAIGenerator struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

// NewOpenAIGenerator constructs a generator with sane defaults.
func NewOpenAIGenerator(apiKey, model string, opts ...func(*OpenAIGenerator)) *OpenAIGenerator {
	g := &OpenAIGenerator{
		client:      openai.NewClient(apiKey),
		model:       model,
		temperature: 0.2,
		maxTokens:   2500,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// WithClient overrides the internal OpenAI client (useful for tests).
func WithClient(client *openai.Client) func(*OpenAIGenerator) {
	return func(g *OpenAIGenerator) {
		g.client = client
	}
}

// ClassifyBatch asks the model to judge a batch of signal excerpts. Every
// returned classification echoes the submitted signal id.
func (g *OpenAIGenerator) ClassifyBatch(ctx context.Context, company string, signals []BatchSignal) ([]Classification, error) {
	payload, err := json.MarshalIndent(struct {
		Signals []BatchSignal `json:"signals"`
	}{Signals: signals}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("ai: marshal batch: %w", err)
	}

	prompt := fmt.Sprintf(`You are analyzing risk signals about "%s". Judge each signal below.

SIGNALS:
%s

TASK:
For each signal provide:
1. severity: "low", "medium" or "high"
2. risk_score: integer 0-100 where 80-100 means critical workforce impact (mass layoffs, major closures), 60-79 high impact, 40-59 medium, 20-39 low, 0-19 minimal
3. theme_label: one of OPERATIONAL DEGRADATION, FINANCIAL DISTRESS, WORKFORCE ISSUES, REGULATORY/LEGAL RISKS, MARKET PERCEPTION, LEADERSHIP/GOVERNANCE, COMPETITIVE PRESSURE, OTHER
4. risk_reasoning: 1-2 sentences explaining the score

Echo the "id" of each signal unchanged and include every id exactly once.

Return JSON:
{
  "classifications": [
    {"id": "ss_1", "severity": "high", "risk_score": 85, "theme_label": "WORKFORCE ISSUES", "risk_reasoning": "..."}
  ]
}

Respond with ONLY valid JSON, no markdown formatting.`, company, string(payload))

	content, err := g.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return parseClassifications(content)
}

// SynthesizeNarrative asks the model for a single paragraph tying the
// aggregated primary signals into one risk thesis.
func (g *OpenAIGenerator) SynthesizeNarrative(ctx context.Context, company string, primaries []PrimarySummary) (string, error) {
	payload, err := json.MarshalIndent(struct {
		Primaries []PrimarySummary `json:"primary_signals"`
	}{Primaries: primaries}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("ai: marshal summaries: %w", err)
	}

	prompt := fmt.Sprintf(`Generate a MAJOR HYPOTHESIS paragraph for "%s" synthesizing all evidence into a coherent narrative.

PRIMARY SIGNALS:
%s

TASK:
Write a single paragraph (150-250 words) that presents the dominant risk thesis, references the strongest primary signals with their scores, explains interconnections between risk factors, and concludes with the workforce impact.

Return JSON:
{"major_hypothesis": "Your paragraph here..."}

Respond with ONLY valid JSON, no markdown formatting.`, company, string(payload))

	content, err := g.complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	return parseNarrative(content)
}

func (g *OpenAIGenerator) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("ai: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("ai: response missing choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func parseClassifications(content string) ([]Classification, error) {
	jsonPayload := extractJSON(content)
	if jsonPayload == "" {
		return nil, fmt.Errorf("ai: response missing json payload")
	}
	var decoded struct {
		Classifications []Classification `json:"classifications"`
	}
	if err := json.Unmarshal([]byte(jsonPayload), &decoded); err != nil {
		return nil, fmt.Errorf("ai: decode classifications: %w", err)
	}
	if len(decoded.Classifications) == 0 {
		return nil, fmt.Errorf("ai: response contains no classifications")
	}
	return decoded.Classifications, nil
}

func parseNarrative(content string) (string, error) {
	jsonPayload := extractJSON(content)
	if jsonPayload == "" {
		return "", fmt.Errorf("ai: response missing json payload")
	}
	var decoded struct {
		MajorHypothesis string `json:"major_hypothesis"`
	}
	if err := json.Unmarshal([]byte(jsonPayload), &decoded); err != nil {
		return "", fmt.Errorf("ai: decode narrative: %w", err)
	}
	if strings.TrimSpace(decoded.MajorHypothesis) == "" {
		return "", fmt.Errorf("ai: response contains empty hypothesis")
	}
	return decoded.MajorHypothesis, nil
}

func extractJSON(content string) string {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end <= start {
		return ""
	}
	return content[start : end+1]
}
