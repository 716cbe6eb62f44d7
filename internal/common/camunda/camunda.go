// internal/common/camunda/camunda.go
package camunda

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
}

// Connect opens a Zeebe client and checks the broker topology before
// returning it.
func Connect(ctx context.Context, address string, timeout time.Duration) (zbc.Client, error) {
	client, err := zbc.NewClient(&zbc.ClientConfig{
		GatewayAddress:         address,
		UsePlaintextConnection: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Zeebe client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if _, err := client.NewTopologyCommand().Send(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Zeebe broker at %s: %w", address, err)
	}
	return client, nil
}

// Retry runs operation up to maxAttempts times, doubling the delay after each
// failure. It gives up early when ctx is done.
func Retry(ctx context.Context, maxAttempts int, initialDelay time.Duration, log Logger, name string, operation func() error) error {
	var err error
	delay := initialDelay

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = operation(); err == nil {
			return nil
		}
		if attempt == maxAttempts {
			break
		}

		log.Warn(name+" failed, retrying", map[string]interface{}{
			"error":       err.Error(),
			"attempt":     attempt,
			"maxAttempts": maxAttempts,
			"nextRetryIn": delay.String(),
		})

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("%s cancelled after %d attempts: %w", name, attempt, ctx.Err())
		}
		delay *= 2
	}

	return fmt.Errorf("%s failed after %d attempts: %w", name, maxAttempts, err)
}

type WorkerSettings struct {
	MaxJobsActive int
	Timeout       time.Duration
}

// Pool owns the job workers opened against one client.
type Pool struct {
	client  zbc.Client
	log     Logger
	mu      sync.Mutex
	workers []worker.JobWorker
}

func NewPool(client zbc.Client, log Logger) *Pool {
	return &Pool{client: client, log: log}
}

func (p *Pool) Start(taskType string, s WorkerSettings, handler func(worker.JobClient, entities.Job)) {
	w := p.client.NewJobWorker().
		JobType(taskType).
		Handler(handler).
		MaxJobsActive(s.MaxJobsActive).
		Timeout(s.Timeout).
		Open()

	p.mu.Lock()
	p.workers = append(p.workers, w)
	p.mu.Unlock()

	p.log.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": s.MaxJobsActive,
		"timeout":       s.Timeout.String(),
	})
}

// Close stops every worker, waits for in-flight jobs, then closes the client.
func (p *Pool) Close() error {
	p.mu.Lock()
	workers := p.workers
	p.workers = nil
	p.mu.Unlock()

	for _, w := range workers {
		w.Close()
		w.AwaitClose()
	}
	return p.client.Close()
}
