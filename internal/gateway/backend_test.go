package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonhttp "gyaansetu-gateway/internal/common/http"
)

var testPair = PromptPair{SystemInstruction: "sys", UserContent: "user", MaxOutputTokens: 1500}

// ==========================
// Credentials
// ==========================

func TestCredentialsFromEnv(t *testing.T) {
	env := map[string]string{EnvLocalKey: " lk ", EnvHostedKey: "hk"}
	creds := CredentialsFromEnv(func(k string) string { return env[k] })

	assert.Equal(t, "lk", creds.LocalKey)
	assert.Equal(t, "hk", creds.HostedKey)
	assert.Equal(t, DefaultLocalBaseURL, creds.LocalBaseURL)
	assert.NoError(t, creds.Validate())

	env = map[string]string{EnvLocalBaseURL: "http://ollama:11434"}
	creds = CredentialsFromEnv(func(k string) string { return env[k] })
	assert.Equal(t, "http://ollama:11434", creds.LocalBaseURL)
	assert.ErrorIs(t, creds.Validate(), ErrNoCredentials)
}

// ==========================
// Local backend
// ==========================

func TestLocalBackend_Call(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantOK   bool
		wantText string
		wantKind ErrorKind
	}{
		{"message content", http.StatusOK, `{"message":{"role":"assistant","content":"hello"}}`, true, "hello", ""},
		{"response field", http.StatusOK, `{"response":"from response"}`, true, "from response", ""},
		{"server error", http.StatusInternalServerError, `oops`, false, "", ErrorKindNon2xx},
		{"unauthorized", http.StatusUnauthorized, `{}`, false, "", ErrorKindNon2xx},
		{"not json", http.StatusOK, `<html>`, false, "", ErrorKindMalformed},
		{"missing text", http.StatusOK, `{"done":true}`, false, "", ErrorKindMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/api/chat", r.URL.Path)
				assert.Equal(t, "Bearer local-key", r.Header.Get("Authorization"))
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

				var body map[string]interface{}
				raw, _ := io.ReadAll(r.Body)
				require.NoError(t, json.Unmarshal(raw, &body))
				assert.Equal(t, "llama2", body["model"])
				assert.Equal(t, false, body["stream"])
				assert.Equal(t, map[string]interface{}{"temperature": 0.7}, body["options"])
				msgs := body["messages"].([]interface{})
				require.Len(t, msgs, 2)
				assert.Equal(t, "system", msgs[0].(map[string]interface{})["role"])
				assert.Equal(t, "user", msgs[1].(map[string]interface{})["role"])

				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			b := NewLocalBackend(commonhttp.NewClient(5*time.Second), "llama2", 0.7)
			res := b.Call(context.Background(), testPair, BackendCredentials{LocalKey: "local-key", LocalBaseURL: server.URL + "/"})

			assert.Equal(t, ShapeLocal, res.Shape)
			assert.Equal(t, tt.wantOK, res.Succeeded)
			assert.Equal(t, tt.wantText, res.RawText)
			assert.Equal(t, tt.wantKind, res.ErrorKind)
			if !tt.wantOK {
				var attemptErr *AttemptError
				assert.ErrorAs(t, res.Error(), &attemptErr)
			}
		})
	}
}

func TestLocalBackend_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	b := NewLocalBackend(commonhttp.NewClient(time.Second), "llama2", 0.7)
	res := b.Call(context.Background(), testPair, BackendCredentials{LocalKey: "k", LocalBaseURL: url})

	assert.False(t, res.Succeeded)
	assert.Equal(t, ErrorKindNetwork, res.ErrorKind)
}

func TestLocalBackend_SendsHistoryInOrder(t *testing.T) {
	var got []Message
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body localRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		got = body.Messages
		_, _ = w.Write([]byte(`{"message":{"content":"ok"}}`))
	}))
	defer server.Close()

	pair := PromptPair{
		SystemInstruction: "sys",
		History:           []Message{{Role: RoleUser, Content: "q1"}, {Role: RoleAssistant, Content: "a1"}},
		UserContent:       "q2",
		MaxOutputTokens:   2000,
	}
	b := NewLocalBackend(commonhttp.NewClient(5*time.Second), "llama2", 0.7)
	res := b.Call(context.Background(), pair, BackendCredentials{LocalKey: "k", LocalBaseURL: server.URL})

	require.True(t, res.Succeeded)
	assert.Equal(t, []Message{
		{Role: RoleSystem, Content: "sys"},
		{Role: RoleUser, Content: "q1"},
		{Role: RoleAssistant, Content: "a1"},
		{Role: RoleUser, Content: "q2"},
	}, got)
}

// ==========================
// Hosted backend
// ==========================

func TestHostedBackend_Call(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantOK     bool
		wantText   string
		wantKind   ErrorKind
		wantStatus int
	}{
		{
			name:     "success",
			status:   http.StatusOK,
			body:     `{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"{\"a\":1}"},"finish_reason":"stop"}]}`,
			wantOK:   true,
			wantText: `{"a":1}`,
		},
		{
			name:       "api error",
			status:     http.StatusUnauthorized,
			body:       `{"error":{"message":"bad key","type":"invalid_request_error"}}`,
			wantKind:   ErrorKindNon2xx,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "unparseable error body",
			status:     http.StatusBadGateway,
			body:       `upstream down`,
			wantKind:   ErrorKindNon2xx,
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "no choices",
			status:     http.StatusOK,
			body:       `{"id":"1","choices":[]}`,
			wantKind:   ErrorKindMalformed,
			wantStatus: http.StatusOK,
		},
		{
			name:       "not json",
			status:     http.StatusOK,
			body:       `<html>`,
			wantKind:   ErrorKindMalformed,
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/v1/chat/completions", r.URL.Path)
				assert.Equal(t, "Bearer hosted-key", r.Header.Get("Authorization"))

				var body map[string]interface{}
				raw, _ := io.ReadAll(r.Body)
				require.NoError(t, json.Unmarshal(raw, &body))
				assert.Equal(t, "gpt-4-turbo-preview", body["model"])
				assert.InDelta(t, 0.7, body["temperature"], 0.0001)
				assert.Equal(t, float64(1500), body["max_tokens"])
				assert.Len(t, body["messages"], 2)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			b := NewHostedBackend(server.Client(), server.URL+"/v1", "gpt-4-turbo-preview", 0.7)
			res := b.Call(context.Background(), testPair, BackendCredentials{HostedKey: "hosted-key"})

			assert.Equal(t, ShapeHosted, res.Shape)
			assert.Equal(t, tt.wantOK, res.Succeeded)
			assert.Equal(t, tt.wantText, res.RawText)
			if !tt.wantOK {
				assert.Equal(t, tt.wantKind, res.ErrorKind)
				assert.Equal(t, tt.wantStatus, res.StatusCode)
			}
		})
	}
}

func TestHostedBackend_SendsHistoryInOrder(t *testing.T) {
	var got []Message
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Messages []Message `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		got = body.Messages
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","choices":[{"index":0,"message":{"role":"assistant","content":"ok"}}]}`))
	}))
	defer server.Close()

	pair := PromptPair{
		SystemInstruction: "sys",
		History:           []Message{{Role: RoleUser, Content: "q1"}, {Role: RoleAssistant, Content: "a1"}},
		UserContent:       "q2",
		MaxOutputTokens:   2000,
	}
	b := NewHostedBackend(server.Client(), server.URL+"/v1", "gpt-4o-mini", 0.7)
	res := b.Call(context.Background(), pair, BackendCredentials{HostedKey: "k"})

	require.True(t, res.Succeeded)
	assert.Equal(t, []Message{
		{Role: RoleSystem, Content: "sys"},
		{Role: RoleUser, Content: "q1"},
		{Role: RoleAssistant, Content: "a1"},
		{Role: RoleUser, Content: "q2"},
	}, got)
}

func TestHostedBackend_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	b := NewHostedBackend(&http.Client{Timeout: time.Second}, url+"/v1", "gpt-4-turbo-preview", 0.7)
	res := b.Call(context.Background(), testPair, BackendCredentials{HostedKey: "k"})

	assert.False(t, res.Succeeded)
	assert.Equal(t, ErrorKindNetwork, res.ErrorKind)
}

func TestNewHostedBackend_Defaults(t *testing.T) {
	b := NewHostedBackend(nil, "", "m", 0.7)
	assert.Equal(t, DefaultHostedBaseURL, b.baseURL)
	assert.NotNil(t, b.httpClient)
}
