package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	defaultTimeout   = 5 * time.Second
	maxResponseBytes = 1 << 20

	systemPrompt = `You analyze a shopper's explanation of why they preferred one interior photo over another. Respond with a JSON object with three arrays of lowercase strings: "keywords" (design vocabulary present in the text), "emotions" (feelings the text conveys), and "style_indicators" (decorative styles the text hints at). Respond with JSON only.`
)

// LLMProvider upgrades keyword extraction with emotion and style-indicator
// tags via an OpenAI-compatible chat-completions endpoint. A single attempt
// is made per call, bounded by the configured timeout; any transport,
// status, or parse failure is logged at warn level and replaced by the
// keyword-extraction fallback. Retrying is left to the next round.
type LLMProvider struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	fallback   KeywordProvider
}

// NewLLMProvider creates a provider against an OpenAI-compatible API.
// timeout bounds each Analyze call; non-positive values use the default.
func NewLLMProvider(baseURL, apiKey, model string, timeout time.Duration) *LLMProvider {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &LLMProvider{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	Temperature    float64           `json:"temperature"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Analyze sends one completion request for text. On success it returns the
// tagged analysis with Source="llm"; on any failure it returns the keyword
// fallback with a nil error.
func (p *LLMProvider) Analyze(ctx context.Context, text string) (Result, error) {
	res, err := p.complete(ctx, text)
	if err != nil {
		log.Warn().Err(err).Msg("text analysis provider failed, using keyword fallback")
		return p.fallback.Analyze(ctx, text)
	}
	res.Source = SourceLLM
	return res, nil
}

func (p *LLMProvider) complete(ctx context.Context, text string) (Result, error) {
	payload := chatCompletionRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "user", Content: systemPrompt + "\n\nExplanation: " + text},
		},
		Temperature:    0,
		ResponseFormat: map[string]string{"type": "json_object"},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return Result{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Result{}, fmt.Errorf("read response: %w", err)
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(raw, &completion); err != nil {
		return Result{}, fmt.Errorf("parse response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		if completion.Error != nil {
			return Result{}, fmt.Errorf("api error (status %d): %s", resp.StatusCode, completion.Error.Message)
		}
		return Result{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if len(completion.Choices) == 0 {
		return Result{}, fmt.Errorf("response has no choices")
	}

	var out Result
	if err := json.Unmarshal([]byte(completion.Choices[0].Message.Content), &out); err != nil {
		return Result{}, fmt.Errorf("parse analysis content: %w", err)
	}
	return out, nil
}
