package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	commonhttp "gyaansetu-gateway/internal/common/http"
)

type localRequest struct {
	Model    string        `json:"model"`
	Messages []Message    `json:"messages"`
	Stream   bool         `json:"stream"`
	Options  localOptions `json:"options"`
}

type localOptions struct {
	Temperature float64 `json:"temperature"`
}

type localResponse struct {
	Message *struct {
		Content string `json:"content"`
	} `json:"message"`
	Response string `json:"response"`
}

// LocalBackend talks to a self-hosted chat endpoint at {base}/api/chat.
type LocalBackend struct {
	client      *commonhttp.Client
	model       string
	temperature float64
}

func NewLocalBackend(client *commonhttp.Client, model string, temperature float64) *LocalBackend {
	return &LocalBackend{client: client, model: model, temperature: temperature}
}

func (b *LocalBackend) Shape() Shape { return ShapeLocal }

func (b *LocalBackend) Call(ctx context.Context, pair PromptPair, creds BackendCredentials) AttemptResult {
	payload := localRequest{
		Model:    b.model,
		Messages: pair.Messages(),
		Stream:   false,
		Options:  localOptions{Temperature: b.temperature},
	}

	resp, err := b.client.PostJSON(ctx, creds.localBaseURL()+"/api/chat",
		map[string]string{"Authorization": "Bearer " + creds.LocalKey}, payload)
	if err != nil {
		return failed(ShapeLocal, ErrorKindNetwork, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return failed(ShapeLocal, ErrorKindNon2xx, resp.StatusCode, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return failed(ShapeLocal, ErrorKindNetwork, resp.StatusCode, err)
	}

	var out localResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return failed(ShapeLocal, ErrorKindMalformed, resp.StatusCode, fmt.Errorf("decode response: %w", err))
	}

	text := out.Response
	if out.Message != nil && out.Message.Content != "" {
		text = out.Message.Content
	}
	if strings.TrimSpace(text) == "" {
		return failed(ShapeLocal, ErrorKindMalformed, resp.StatusCode, fmt.Errorf("response has no message content"))
	}

	return AttemptResult{Shape: ShapeLocal, Succeeded: true, RawText: text, StatusCode: resp.StatusCode}
}
