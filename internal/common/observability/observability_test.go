package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel"

	"gyaansetu-gateway/internal/common/logger"
)

func TestObservability_Lifecycle(t *testing.T) {
	obs := New("gateway-test", "http://localhost:14268/api/traces", logger.NewTestLogger(t))

	assert.NotNil(t, obs.tracerProvider)
	assert.Same(t, obs.tracerProvider, otel.GetTracerProvider())

	assert.NotPanics(t, func() {
		obs.RecordRequest(context.Background(), "/api/agent", "200", 120*time.Millisecond)
		obs.RecordRequest(context.Background(), "/api/rag", "400", time.Millisecond)
		obs.Shutdown()
	})
}

func TestObservability_ZeroValueIsSafe(t *testing.T) {
	var obs Observability
	assert.NotPanics(t, func() {
		obs.RecordRequest(context.Background(), "/api/agent", "500", time.Second)
		obs.Shutdown()
	})
}
