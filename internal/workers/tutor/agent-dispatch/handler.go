// internal/workers/tutor/agent-dispatch/handler.go
package agentdispatch

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"gyaansetu-gateway/internal/common/errors"
	"gyaansetu-gateway/internal/common/metrics"
	"gyaansetu-gateway/internal/common/validation"
	"gyaansetu-gateway/internal/gateway"
	"gyaansetu-gateway/internal/tutor"
	"gyaansetu-gateway/pkg/registry"
)

const TaskType = "tutor-agent-dispatch"

type Logger interface {
	Info(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

type Service interface {
	Agent(ctx context.Context, req tutor.AgentRequest, creds gateway.BackendCredentials) (*tutor.AgentResponse, error)
}

type Handler struct {
	config       *Config
	service      Service
	schema       map[string]interface{}
	errorHandler *errors.ErrorHandler
	logger       Logger
}

func NewHandler(config *Config, service Service, reg *registry.ActivityRegistry, log Logger) *Handler {
	l := log.With(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		service:      service,
		schema:       reg.InputSchema(TaskType),
		errorHandler: errors.NewErrorHandler(l),
		logger:       l,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	input, err := h.parseInput(job)
	if err != nil {
		h.failJob(ctx, client, job, err)
		return
	}

	output, err := h.Execute(ctx, input)
	if err != nil {
		h.failJob(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	variables, err := job.GetVariablesAsMap()
	if err != nil {
		return nil, errors.NewInputParsingError(err)
	}

	result, err := validation.ValidateInput(variables, h.schema)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if !result.Valid {
		return nil, errors.NewValidationFailedError(strings.Join(result.GetErrorMessages(), "; "))
	}

	var input Input
	if err := json.Unmarshal([]byte(job.GetVariables()), &input); err != nil {
		return nil, errors.NewInputParsingError(err)
	}
	return &input, nil
}

// Execute runs the dispatch with credentials read at call time.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	creds := gateway.CredentialsFromEnv(h.config.Getenv)

	resp, err := h.service.Agent(ctx, tutor.AgentRequest{
		AgentType: input.AgentType,
		Task:      input.Task,
		Params:    input.Params,
		Language:  input.Language,
	}, creds)
	if err != nil {
		return nil, err
	}

	return &Output{
		AgentType: resp.AgentType,
		Language:  resp.Language,
		Result:    resp.Result,
	}, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.GetKey()).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("Failed to create complete job command", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
		return
	}

	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("Failed to send complete job command", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
	}
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	stdErr := errors.Normalize(err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
	h.errorHandler.HandleJobError(ctx, client, job, stdErr)
}
