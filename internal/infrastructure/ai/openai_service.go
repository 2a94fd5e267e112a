// Package ai adapts external LLM APIs to the narrative port. The numeric
// pipeline treats this collaborator as best-effort: any failure here turns
// into fallback text upstream, never a failed report.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/qaydhub/qayd-api/internal/application/dto"
	"github.com/qaydhub/qayd-api/internal/application/ports"
)

var _ ports.NarrativeService = (*OpenAIService)(nil)

const (
	openAIChatCompletionsURL = "https://api.openai.com/v1/chat/completions"

	// The model narrates the attached figures; it must not invent numbers.
	narrativeSystemPrompt = `محلل تجارة إلكترونية سعودي محترف. التزم بالبيانات المرفقة. أعد JSON صالح فقط.`
)

// OpenAIService implements NarrativeService over the OpenAI chat completions
// REST API with plain net/http; no SDK required.
type OpenAIService struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewOpenAIService builds the adapter. model is typically "gpt-4o-mini".
// An empty apiKey yields descriptive errors on call instead of a panic.
func NewOpenAIService(apiKey, model string) *OpenAIService {
	return &OpenAIService{
		apiKey: apiKey,
		model:  model,
		httpClient: &http.Client{
			// Network timeout of 25s; callers additionally impose a 10s
			// context timeout.
			Timeout: 25 * time.Second,
		},
	}
}

type openAIRequest struct {
	Model          string          `json:"model"`
	Messages       []openAIMessage `json:"messages"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// narrativePayload mirrors the model's JSON. growth_opportunities arrives
// sometimes as an array and sometimes as a single string, so it decodes
// leniently.
type narrativePayload struct {
	Summary             string          `json:"summary"`
	ConversionInsight   string          `json:"conversion_insight"`
	PricingSuggestions  string          `json:"pricing_suggestions"`
	GrowthOpportunities json.RawMessage `json:"growth_opportunities"`
}

var jsonBlockRe = regexp.MustCompile(`(?s)\{.*\}`)

// GenerateNarrative sends the computed figures to the model and returns its
// narrative. The input is serialized verbatim as the user message so the
// model sees exactly what the report will show.
func (s *OpenAIService) GenerateNarrative(ctx context.Context, input dto.NarrativeInput) (*dto.NarrativeDTO, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("AI: OPENAI_API_KEY not configured")
	}

	userContent, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("AI: marshal input: %w", err)
	}

	payload := openAIRequest{
		Model: s.model,
		Messages: []openAIMessage{
			{Role: "system", Content: narrativeSystemPrompt},
			{Role: "user", Content: string(userContent)},
		},
	}
	payload.ResponseFormat.Type = "json_object"

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("AI: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openAIChatCompletionsURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("AI: build HTTP request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("AI: timeout or cancellation: %w", ctx.Err())
		}
		return nil, fmt.Errorf("AI: HTTP call failed: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return nil, fmt.Errorf("AI: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp openAIResponse
		if jsonErr := json.Unmarshal(rawBody, &errResp); jsonErr == nil && errResp.Error != nil {
			return nil, fmt.Errorf("AI: OpenAI error (%s): %s", errResp.Error.Type, errResp.Error.Message)
		}
		return nil, fmt.Errorf("AI: OpenAI HTTP %d: %s", resp.StatusCode, string(rawBody))
	}

	var chatResp openAIResponse
	if err := json.Unmarshal(rawBody, &chatResp); err != nil {
		return nil, fmt.Errorf("AI: unmarshal OpenAI response: %w", err)
	}
	if len(chatResp.Choices) == 0 || chatResp.Choices[0].Message.Content == "" {
		return nil, fmt.Errorf("AI: model returned an empty response")
	}

	cleanJSON := extractJSON(chatResp.Choices[0].Message.Content)
	if cleanJSON == "" {
		return nil, fmt.Errorf("AI: no JSON object found in model output")
	}

	var parsed narrativePayload
	if err := json.Unmarshal([]byte(cleanJSON), &parsed); err != nil {
		return nil, fmt.Errorf("AI: parse narrative JSON: %w", err)
	}

	return &dto.NarrativeDTO{
		Summary:             parsed.Summary,
		ConversionInsight:   parsed.ConversionInsight,
		PricingSuggestions:  parsed.PricingSuggestions,
		GrowthOpportunities: coerceStrings(parsed.GrowthOpportunities),
	}, nil
}

// coerceStrings accepts a JSON array of strings or a bare string and returns
// the non-empty values.
func coerceStrings(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		out := list[:0]
		for _, s := range list {
			if s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil && single != "" {
		return []string{single}
	}
	return nil
}

// extractJSON pulls the first well-formed JSON object out of free text.
// Markdown code fences are stripped first, then a regex captures the first
// { ... } block.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.Index(text, "```"); idx != -1 {
		after := text[idx+3:]
		if nl := strings.Index(after, "\n"); nl != -1 {
			after = after[nl+1:]
		}
		if close := strings.LastIndex(after, "```"); close != -1 {
			after = after[:close]
		}
		text = strings.TrimSpace(after)
	}
	if strings.HasPrefix(text, "{") {
		return text
	}
	match := jsonBlockRe.FindString(text)
	return strings.TrimSpace(match)
}
