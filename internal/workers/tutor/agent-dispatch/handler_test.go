// internal/workers/tutor/agent-dispatch/handler_test.go
package agentdispatch

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gyaansetu-gateway/internal/common/config"
	"gyaansetu-gateway/internal/common/errors"
	"gyaansetu-gateway/internal/gateway"
	"gyaansetu-gateway/internal/tutor"
	"gyaansetu-gateway/pkg/registry"
)

// ==========================
// Test Logger Implementation
// ==========================

type TestLogger struct {
	t      *testing.T
	fields map[string]interface{}
}

func NewTestLogger(t *testing.T) *TestLogger {
	return &TestLogger{t: t, fields: make(map[string]interface{})}
}

func (l *TestLogger) Info(msg string, fields map[string]interface{}) {
	l.t.Logf("INFO: %s %v", msg, l.mergeFields(fields))
}

func (l *TestLogger) Error(msg string, fields map[string]interface{}) {
	l.t.Logf("ERROR: %s %v", msg, l.mergeFields(fields))
}

func (l *TestLogger) With(fields map[string]interface{}) Logger {
	return &TestLogger{t: l.t, fields: l.mergeFields(fields)}
}

func (l *TestLogger) mergeFields(fields map[string]interface{}) map[string]interface{} {
	all := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		all[k] = v
	}
	for k, v := range fields {
		all[k] = v
	}
	return all
}

// ==========================
// Mock Service Implementation
// ==========================

type MockService struct {
	mock.Mock
}

func (m *MockService) Agent(ctx context.Context, req tutor.AgentRequest, creds gateway.BackendCredentials) (*tutor.AgentResponse, error) {
	args := m.Called(ctx, req, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tutor.AgentResponse), args.Error(1)
}

// ==========================
// Test Helpers
// ==========================

func createTestConfig(env map[string]string) *Config {
	return &Config{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       30 * time.Second,
		Getenv:        func(k string) string { return env[k] },
	}
}

func createMockJob(key int64, variables string) entities.Job {
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		Type:               TaskType,
		ProcessInstanceKey: key * 10,
		BpmnProcessId:      "lesson-planning",
		ElementId:          "Activity_AgentDispatch",
		CustomHeaders:      "{}",
		Worker:             "test-worker",
		Retries:            3,
		Variables:          variables,
	}}
}

func newTestHandler(t *testing.T, env map[string]string) (*Handler, *MockService) {
	svc := new(MockService)
	return NewHandler(createTestConfig(env), svc, registry.Default(), NewTestLogger(t)), svc
}

// ==========================
// Input Parsing Tests
// ==========================

func TestHandler_ParseInput(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	tests := []struct {
		name      string
		variables string
		wantCode  errors.ErrorCode
		want      *Input
	}{
		{
			name:      "valid input",
			variables: `{"agentType":"quiz","language":"en","params":{"subject":"Science","questionCount":5}}`,
			want: &Input{
				AgentType: "quiz",
				Language:  "en",
				Params:    map[string]interface{}{"subject": "Science", "questionCount": float64(5)},
			},
		},
		{
			name:      "custom task with null params",
			variables: `{"agentType":"custom","task":"Summarize","params":null}`,
			want:      &Input{AgentType: "custom", Task: "Summarize"},
		},
		{
			name:      "unsupported language",
			variables: `{"agentType":"quiz","language":"fr"}`,
			wantCode:  errors.ErrCodeValidationFailed,
		},
		{
			name:      "params of wrong type",
			variables: `{"agentType":"quiz","params":"subject=Science"}`,
			wantCode:  errors.ErrCodeValidationFailed,
		},
		{
			name:      "unparseable variables",
			variables: `{not json`,
			wantCode:  errors.ErrCodeInputParsing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input, err := h.parseInput(createMockJob(1, tt.variables))
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, errors.Normalize(err).Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, input)
		})
	}
}

// ==========================
// Execute Tests
// ==========================

func TestHandler_Execute(t *testing.T) {
	h, svc := newTestHandler(t, map[string]string{
		gateway.EnvHostedKey: "sk-test",
	})

	expectedCreds := gateway.BackendCredentials{LocalBaseURL: gateway.DefaultLocalBaseURL, HostedKey: "sk-test"}
	svc.On("Agent", mock.Anything, tutor.AgentRequest{
		AgentType: "explain",
		Language:  "en",
		Params:    map[string]interface{}{"concept": "gravity"},
	}, expectedCreds).Return(&tutor.AgentResponse{
		AgentType: "explain",
		Language:  "en",
		Result:    map[string]interface{}{"title": "Gravity"},
	}, nil).Once()

	output, err := h.Execute(context.Background(), &Input{
		AgentType: "explain",
		Language:  "en",
		Params:    map[string]interface{}{"concept": "gravity"},
	})

	require.NoError(t, err)
	assert.Equal(t, "explain", output.AgentType)
	assert.Equal(t, map[string]interface{}{"title": "Gravity"}, output.Result)

	encoded, err := json.Marshal(output)
	require.NoError(t, err)
	assert.JSONEq(t, `{"agentType":"explain","language":"en","result":{"title":"Gravity"}}`, string(encoded))
	svc.AssertExpectations(t)
}

func TestHandler_ExecuteError(t *testing.T) {
	h, svc := newTestHandler(t, nil)
	svc.On("Agent", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.NewConfigurationError("no keys")).Once()

	_, err := h.Execute(context.Background(), &Input{AgentType: "quiz"})

	require.Error(t, err)
	stdErr := errors.Normalize(err)
	assert.Equal(t, errors.ErrCodeConfiguration, stdErr.Code)

	bpmn := errors.ConvertToBPMNError(stdErr)
	assert.Equal(t, 0, bpmn.Retries)
}

func TestLoadConfig(t *testing.T) {
	cfg := LoadConfig(&config.Config{Workers: map[string]config.WorkerConfig{
		TaskType: {Enabled: true, MaxJobsActive: 2, Timeout: 1500},
	}})

	assert.True(t, cfg.Enabled)
	assert.Equal(t, 2, cfg.MaxJobsActive)
	assert.Equal(t, 1500*time.Millisecond, cfg.Timeout)
	assert.NotNil(t, cfg.Getenv)

	defaults := LoadConfig(&config.Config{})
	assert.Equal(t, 5, defaults.MaxJobsActive)
	assert.Equal(t, 90*time.Second, defaults.Timeout)
}
