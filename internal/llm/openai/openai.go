package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"signal-extractor/internal/llm/parse"
	"signal-extractor/internal/store"
	"signal-extractor/internal/trace"
	"signal-extractor/internal/types"
)

// Extractor extracts trading actions using the OpenAI chat completions API
type Extractor struct {
	cfg      *store.Config
	apiKey   string
	endpoint string
}

// New creates an OpenAI-backed extractor. The credential is resolved by
// the factory; construction here never reads the environment for it.
func New(cfg *store.Config, apiKey string) *Extractor {
	endpoint := "https://api.openai.com/v1/chat/completions"
	// Proxies and gateways can override via OPENAI_API_ENDPOINT
	if ep := os.Getenv("OPENAI_API_ENDPOINT"); ep != "" {
		endpoint = ep
	}
	return &Extractor{cfg: cfg, apiKey: apiKey, endpoint: endpoint}
}

// Extract issues one synchronous chat completion call and parses the
// response text into candidate actions.
func (e *Extractor) Extract(ctx context.Context, msg types.Message) ([]types.TradingAction, error) {
	ctx, span := trace.StartSpan(ctx, "openai-api-call")
	defer span.End()

	body := map[string]any{
		"model": e.cfg.LLM.Model,
		"messages": []map[string]string{
			{"role": "system", "content": parse.SystemPrompt},
			{"role": "user", "content": parse.Prompt(msg.Message)},
		},
		"temperature": e.cfg.LLM.Temperature,
		"max_tokens":  e.cfg.LLM.MaxTokens,
	}
	bb, _ := json.Marshal(body)

	req, err := http.NewRequestWithContext(ctx, "POST", e.endpoint, bytes.NewReader(bb))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+e.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("openai http %d", resp.StatusCode)
	}

	var r struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return nil, err
	}
	if len(r.Choices) == 0 {
		return nil, errors.New("no choices")
	}

	out := strings.TrimSpace(r.Choices[0].Message.Content)
	return parse.Actions(ctx, out, msg.Message), nil
}
