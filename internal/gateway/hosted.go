package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const DefaultHostedBaseURL = "https://api.openai.com/v1"

// HostedBackend calls an OpenAI-compatible chat-completions endpoint.
type HostedBackend struct {
	httpClient  *http.Client
	baseURL     string
	model       string
	temperature float32
}

func NewHostedBackend(httpClient *http.Client, baseURL, model string, temperature float64) *HostedBackend {
	if baseURL == "" {
		baseURL = DefaultHostedBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HostedBackend{
		httpClient:  httpClient,
		baseURL:     strings.TrimRight(baseURL, "/"),
		model:       model,
		temperature: float32(temperature),
	}
}

func (b *HostedBackend) Shape() Shape { return ShapeHosted }

func (b *HostedBackend) Call(ctx context.Context, pair PromptPair, creds BackendCredentials) AttemptResult {
	cfg := openai.DefaultConfig(creds.HostedKey)
	cfg.BaseURL = b.baseURL
	cfg.HTTPClient = b.httpClient
	client := openai.NewClientWithConfig(cfg)

	turns := pair.Messages()
	messages := make([]openai.ChatCompletionMessage, 0, len(turns))
	for _, m := range turns {
		messages = append(messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       b.model,
		Messages:    messages,
		Temperature: b.temperature,
		MaxTokens:   pair.MaxOutputTokens,
	})
	if err != nil {
		kind, status := classifyHostedError(err)
		return failed(ShapeHosted, kind, status, err)
	}

	if len(resp.Choices) == 0 {
		return failed(ShapeHosted, ErrorKindMalformed, http.StatusOK, fmt.Errorf("response has no choices"))
	}
	text := resp.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return failed(ShapeHosted, ErrorKindMalformed, http.StatusOK, fmt.Errorf("response has no message content"))
	}

	return AttemptResult{Shape: ShapeHosted, Succeeded: true, RawText: text, StatusCode: http.StatusOK}
}

func classifyHostedError(err error) (ErrorKind, int) {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return ErrorKindNon2xx, apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return ErrorKindNon2xx, reqErr.HTTPStatusCode
	}

	var urlErr *url.Error
	var netErr net.Error
	if errors.As(err, &urlErr) || errors.As(err, &netErr) ||
		errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrorKindNetwork, 0
	}
	return ErrorKindMalformed, http.StatusOK
}
