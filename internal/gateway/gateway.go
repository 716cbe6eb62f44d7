package gateway

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"gyaansetu-gateway/internal/common/metrics"
)

type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Gateway selects a backend from the per-request credentials, makes at most two
// sequential calls and normalizes the text. It holds no per-request state.
type Gateway struct {
	local  Backend
	hosted Backend
	logger Logger
	tracer trace.Tracer
}

func New(local, hosted Backend, log Logger) *Gateway {
	return &Gateway{
		local:  local,
		hosted: hosted,
		logger: log,
		tracer: otel.Tracer("gyaansetu-gateway/gateway"),
	}
}

// Dispatch builds the prompt for task, obtains text and normalizes it.
func (g *Gateway) Dispatch(ctx context.Context, task TaskRequest, creds BackendCredentials) (NormalizedResult, error) {
	if !task.Kind.Valid() {
		return NormalizedResult{}, fmt.Errorf("%w: %q", ErrUnknownTaskKind, task.Kind)
	}
	if err := creds.Validate(); err != nil {
		metrics.DispatchTotal.WithLabelValues(string(task.Kind), "no_credentials").Inc()
		return NormalizedResult{}, err
	}

	pair, err := Build(task)
	if err != nil {
		metrics.DispatchTotal.WithLabelValues(string(task.Kind), "invalid").Inc()
		return NormalizedResult{}, err
	}

	ctx, span := g.tracer.Start(ctx, "gateway.dispatch", trace.WithAttributes(
		attribute.String("task.kind", string(task.Kind)),
		attribute.String("task.language", string(task.Language)),
	))
	defer span.End()

	text, err := g.Complete(ctx, pair, creds)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "dispatch failed")
		metrics.DispatchTotal.WithLabelValues(string(task.Kind), "failed").Inc()
		return NormalizedResult{}, err
	}

	result := Normalize(text)
	metrics.DispatchTotal.WithLabelValues(string(task.Kind), "ok").Inc()
	metrics.NormalizeTotal.WithLabelValues(strconv.FormatBool(result.IsStructured)).Inc()
	span.SetAttributes(attribute.Bool("result.structured", result.IsStructured))

	g.logger.Info("Task dispatched", map[string]interface{}{
		"kind":       task.Kind,
		"language":   task.Language,
		"structured": result.IsStructured,
	})
	return result, nil
}

// Complete returns the raw text for an already built prompt pair. The local
// backend is primary when its key is set; the hosted backend is tried once
// after a local failure when its key is set. A non-success status from the
// hosted backend ends the dispatch with ErrHostedRejected.
func (g *Gateway) Complete(ctx context.Context, pair PromptPair, creds BackendCredentials) (string, error) {
	if err := creds.Validate(); err != nil {
		return "", err
	}

	primary := g.hosted
	if creds.HasLocal() {
		primary = g.local
	}

	res := g.attempt(ctx, primary, pair, creds)
	if res.Succeeded {
		return res.RawText, nil
	}

	if primary.Shape() == ShapeLocal && creds.HasHosted() {
		metrics.FallbackTotal.Inc()
		g.logger.Warn("Local backend failed, falling back to hosted backend", map[string]interface{}{
			"errorKind":  res.ErrorKind,
			"statusCode": res.StatusCode,
		})
		res = g.attempt(ctx, g.hosted, pair, creds)
		if res.Succeeded {
			return res.RawText, nil
		}
	}

	return "", terminalError(res)
}

func (g *Gateway) attempt(ctx context.Context, b Backend, pair PromptPair, creds BackendCredentials) AttemptResult {
	shape := string(b.Shape())
	ctx, span := g.tracer.Start(ctx, "gateway.backend_call", trace.WithAttributes(
		attribute.String("backend", shape),
	))
	defer span.End()

	start := time.Now()
	res := b.Call(ctx, pair, creds)
	metrics.BackendLatency.WithLabelValues(shape).Observe(time.Since(start).Seconds())

	if res.Succeeded {
		metrics.BackendAttempts.WithLabelValues(shape, "ok").Inc()
		return res
	}

	metrics.BackendAttempts.WithLabelValues(shape, string(res.ErrorKind)).Inc()
	span.SetAttributes(attribute.String("error.kind", string(res.ErrorKind)))
	span.RecordError(res.Error())
	span.SetStatus(codes.Error, string(res.ErrorKind))

	g.logger.Error("Backend call failed", map[string]interface{}{
		"backend":    shape,
		"errorKind":  res.ErrorKind,
		"statusCode": res.StatusCode,
		"error":      res.Err,
	})
	return res
}

func terminalError(res AttemptResult) error {
	if res.Shape == ShapeHosted && res.ErrorKind == ErrorKindNon2xx {
		return fmt.Errorf("%w: %w", ErrHostedRejected, res.Error())
	}
	return fmt.Errorf("%w: %w", ErrDispatchFailed, res.Error())
}
