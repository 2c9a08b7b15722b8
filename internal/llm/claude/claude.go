package claude

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"signal-extractor/internal/llm/parse"
	"signal-extractor/internal/store"
	"signal-extractor/internal/trace"
	"signal-extractor/internal/types"
)

// Extractor extracts trading actions using the Anthropic messages API
type Extractor struct {
	cfg      *store.Config
	apiKey   string
	endpoint string
}

// New creates a Claude-backed extractor
func New(cfg *store.Config, apiKey string) *Extractor {
	// default messages endpoint (public Anthropic)
	endpoint := "https://api.anthropic.com/v1/messages"
	// If you use a proxy/bedrock/vertex, set endpoint via CLAUDE_API_ENDPOINT env var
	if ep := os.Getenv("CLAUDE_API_ENDPOINT"); ep != "" {
		endpoint = ep
	}
	return &Extractor{cfg: cfg, apiKey: apiKey, endpoint: endpoint}
}

// Extract issues one synchronous messages call and parses the response
// text into candidate actions.
func (e *Extractor) Extract(ctx context.Context, msg types.Message) ([]types.TradingAction, error) {
	ctx, span := trace.StartSpan(ctx, "claude-api-call")
	defer span.End()

	body := map[string]any{
		"model":      e.cfg.LLM.Model,
		"max_tokens": e.cfg.LLM.MaxTokens,
		"messages": []map[string]string{
			{"role": "user", "content": parse.Prompt(msg.Message)},
		},
	}
	bb, _ := json.Marshal(body)

	req, err := http.NewRequestWithContext(ctx, "POST", e.endpoint, bytes.NewReader(bb))
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-api-key", e.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		errBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("claude http %d: %s", resp.StatusCode, string(errBody))
	}

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var r struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	out := ""
	if err := json.Unmarshal(respBytes, &r); err == nil && len(r.Content) > 0 {
		out = strings.TrimSpace(r.Content[0].Text)
	} else {
		// Not the expected envelope, let the parser try the raw body
		out = string(respBytes)
	}

	return parse.Actions(ctx, out, msg.Message), nil
}
