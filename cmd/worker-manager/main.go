// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.uber.org/zap"

	"gyaansetu-gateway/internal/api"
	"gyaansetu-gateway/internal/common/camunda"
	"gyaansetu-gateway/internal/common/config"
	"gyaansetu-gateway/internal/common/database"
	commonhttp "gyaansetu-gateway/internal/common/http"
	"gyaansetu-gateway/internal/common/logger"
	"gyaansetu-gateway/internal/common/observability"
	"gyaansetu-gateway/internal/gateway"
	"gyaansetu-gateway/internal/knowledge"
	"gyaansetu-gateway/internal/tutor"
	"gyaansetu-gateway/pkg/registry"

	ad "gyaansetu-gateway/internal/workers/tutor/agent-dispatch"
	ks "gyaansetu-gateway/internal/workers/tutor/knowledge-search"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting tutor gateway...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.Observability.ServiceName, cfg.Observability.JaegerEndpoint, log)
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Knowledge base ---
	src, closeSource, err := openKnowledgeSource(ctx, cfg, log)
	if err != nil {
		zapLog.Fatal("knowledge source unavailable", zap.Error(err))
	}
	loadCtx, cancelLoad := context.WithTimeout(ctx, config.GetDuration(cfg.Knowledge.Timeout))
	index, err := knowledge.LoadIndex(loadCtx, src, log)
	cancelLoad()
	closeSource()
	if err != nil {
		zapLog.Fatal("knowledge base load failed", zap.Error(err))
	}

	// --- Gateway ---
	llmTimeout := config.GetDuration(cfg.LLM.RequestTimeout)
	local := gateway.NewLocalBackend(commonhttp.NewClient(llmTimeout), cfg.LLM.LocalModel, cfg.LLM.Temperature)
	hosted := gateway.NewHostedBackend(commonhttp.NewClient(llmTimeout).StdClient(), cfg.LLM.HostedBaseURL, cfg.LLM.HostedModel, cfg.LLM.Temperature)
	service := tutor.NewService(gateway.New(local, hosted, log), index, log)

	// --- Zeebe workers ---
	var pool *camunda.Pool
	if cfg.Camunda.Enabled {
		pool, err = startWorkers(ctx, cfg, service, log)
		if err != nil {
			zapLog.Fatal("zeebe workers failed to start", zap.Error(err))
		}
	} else {
		zapLog.Info("Zeebe workers disabled")
	}

	// --- HTTP ---
	srv := &http.Server{
		Addr: cfg.Server.Address,
		Handler: api.NewServer(api.Options{
			Service:   service,
			Logger:    log,
			Recorder:  obs,
			Getenv:    os.Getenv,
			Documents: index.Len,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("HTTP server failed", zap.Error(err))
			stop()
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	zapLog.Info("Shutdown signal received, stopping...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}
	if pool != nil {
		if err := pool.Close(); err != nil {
			zapLog.Error("Error closing Zeebe client", zap.Error(err))
		}
	}

	zapLog.Info("Tutor gateway stopped gracefully")
}

// openKnowledgeSource connects the configured store. The returned close func
// is safe to call once the index is built.
func openKnowledgeSource(ctx context.Context, cfg *config.Config, log logger.Logger) (knowledge.Source, func(), error) {
	noop := func() {}

	switch cfg.Knowledge.Source {
	case config.KnowledgeSourcePostgres:
		var pg *database.PostgresClient
		err := camunda.Retry(ctx, 15, 2*time.Second, log, "PostgreSQL connection", func() error {
			var err error
			if pg, err = database.NewPostgres(cfg.Database.Postgres); err != nil {
				return err
			}
			return pg.Ping(ctx)
		})
		if err != nil {
			return nil, noop, err
		}
		return &knowledge.PostgresSource{DB: pg.DB, Table: cfg.Knowledge.Table}, func() { _ = pg.Close() }, nil

	case config.KnowledgeSourceElasticsearch:
		var es *database.ElasticsearchClient
		err := camunda.Retry(ctx, 15, 2*time.Second, log, "Elasticsearch connection", func() error {
			var err error
			if es, err = database.NewElasticsearch(cfg.Database.Elasticsearch); err != nil {
				return err
			}
			return es.Ping(ctx)
		})
		if err != nil {
			return nil, noop, err
		}
		return &knowledge.ElasticsearchSource{Client: es.Client, Index: cfg.Knowledge.Index, Size: cfg.Knowledge.MaxDocs}, noop, nil

	case config.KnowledgeSourceRedis:
		rdb := database.NewRedis(cfg.Database.Redis)
		err := camunda.Retry(ctx, 10, 2*time.Second, log, "Redis connection", func() error {
			return rdb.Ping(ctx)
		})
		if err != nil {
			_ = rdb.Close()
			return nil, noop, err
		}
		return &knowledge.RedisSource{Client: rdb.Client, Key: cfg.Knowledge.RedisKey}, func() { _ = rdb.Close() }, nil

	default:
		return knowledge.EmbeddedSource{}, noop, nil
	}
}

func startWorkers(ctx context.Context, cfg *config.Config, service *tutor.Service, log logger.Logger) (*camunda.Pool, error) {
	reg, err := registry.LoadRegistry(cfg.App.RegistryPath)
	if err != nil {
		return nil, err
	}

	timeout := config.GetDuration(cfg.Camunda.RequestTimeout)
	var client zbc.Client
	err = camunda.Retry(ctx, 10, 2*time.Second, log, "Zeebe client initialization", func() error {
		var err error
		client, err = camunda.Connect(ctx, cfg.Camunda.BrokerAddress, timeout)
		return err
	})
	if err != nil {
		return nil, err
	}

	pool := camunda.NewPool(client, log)

	if adCfg := ad.LoadConfig(cfg); adCfg.Enabled {
		h := ad.NewHandler(adCfg, service, reg, &agentDispatchLoggerAdapter{log})
		pool.Start(ad.TaskType, camunda.WorkerSettings{MaxJobsActive: adCfg.MaxJobsActive, Timeout: adCfg.Timeout}, h.Handle)
	}
	if ksCfg := ks.LoadConfig(cfg); ksCfg.Enabled {
		h := ks.NewHandler(ksCfg, service, reg, &knowledgeSearchLoggerAdapter{log})
		pool.Start(ks.TaskType, camunda.WorkerSettings{MaxJobsActive: ksCfg.MaxJobsActive, Timeout: ksCfg.Timeout}, h.Handle)
	}

	return pool, nil
}

// Logger adapters for workers that declare their own Logger interfaces
type agentDispatchLoggerAdapter struct {
	logger.Logger
}

func (a *agentDispatchLoggerAdapter) With(fields map[string]interface{}) ad.Logger {
	return &agentDispatchLoggerAdapter{a.Logger.With(fields)}
}

type knowledgeSearchLoggerAdapter struct {
	logger.Logger
}

func (a *knowledgeSearchLoggerAdapter) With(fields map[string]interface{}) ks.Logger {
	return &knowledgeSearchLoggerAdapter{a.Logger.With(fields)}
}
