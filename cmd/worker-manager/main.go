// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"brand-content-engine/internal/common/camunda"
	"brand-content-engine/internal/common/config"
	"brand-content-engine/internal/common/database"
	"brand-content-engine/internal/common/logger"
	"brand-content-engine/internal/common/observability"
	"brand-content-engine/internal/composition/composer"
	"brand-content-engine/internal/composition/policy"
	"brand-content-engine/internal/composition/sections"
	"brand-content-engine/internal/content/genai"
	"brand-content-engine/internal/content/matrix"
	"brand-content-engine/internal/content/store"
	"brand-content-engine/pkg/registry"

	// Content workers
	gcm "brand-content-engine/internal/workers/content/generate-content-matrix"
	rtv "brand-content-engine/internal/workers/content/resolve-template-variables"

	// Composition workers
	ct "brand-content-engine/internal/workers/composition/compose-template"
	ss "brand-content-engine/internal/workers/composition/score-section"
	vc "brand-content-engine/internal/workers/composition/validate-composition"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

// readinessCheck is one dependency probed by /ready.
type readinessCheck struct {
	name  string
	check func(context.Context) error
}

func main() {
	bootLog := logger.New("info", "console", "stdout")
	defer bootLog.Sync()

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()
	var checks []readinessCheck

	// --- Zeebe ---
	zeebe, err := camunda.Connect(ctx, &camunda.ClientConfig{
		GatewayAddress:         cfg.Camunda.BrokerAddress,
		UsePlaintextConnection: true,
		ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
	})
	if err != nil {
		zapLog.Fatal("zeebe client failed", zap.Error(err))
	}
	defer zeebe.Close()
	checks = append(checks, readinessCheck{"zeebe", zeebe.HealthCheck})
	zapLog.Info("Zeebe client connected successfully")

	// --- PostgreSQL (matrix store and/or section catalogue) ---
	var pg *database.PostgresClient
	if cfg.Matrix.Backend == "postgres" || cfg.Composition.SectionsBackend == "postgres" {
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()

		if err := pg.EnsureSchema(ctx); err != nil {
			zapLog.Fatal("postgres schema setup failed", zap.Error(err))
		}
		checks = append(checks, readinessCheck{"postgres", pg.Ping})
		zapLog.Info("PostgreSQL connected successfully")
	}

	// --- Redis (matrix store) ---
	var rdb *database.RedisClient
	if cfg.Matrix.Backend == "redis" {
		rdb = database.NewRedis(cfg.Database.Redis)
		err = retryWithBackoff(func() error {
			return rdb.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer rdb.Close()
		checks = append(checks, readinessCheck{"redis", rdb.Ping})
		zapLog.Info("Redis connected successfully")
	}

	// --- Elasticsearch (section catalogue) ---
	var esClient *database.ElasticsearchClient
	if cfg.Composition.SectionsBackend == "elasticsearch" {
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		if err := esClient.EnsureSectionsIndex(ctx, cfg.Database.Elasticsearch.SectionsIndex); err != nil {
			zapLog.Fatal("elasticsearch index setup failed", zap.Error(err))
		}
		checks = append(checks, readinessCheck{"elasticsearch", esClient.Ping})
		zapLog.Info("Elasticsearch connected successfully")
	}

	// --- Content engine ---
	var matrixStore store.Store
	switch cfg.Matrix.Backend {
	case "postgres":
		matrixStore = store.NewPostgresStore(pg.DB)
	default:
		matrixStore = store.NewRedisStore(rdb.Client, config.GetDuration(cfg.Matrix.TTL))
	}

	generator := genai.NewClient(&genai.Config{
		BaseURL:     cfg.GenAI.BaseURL,
		APIKey:      cfg.GenAI.APIKey,
		MaxTokens:   cfg.GenAI.MaxTokens,
		Temperature: cfg.GenAI.Temperature,
	})

	matrixOpts := []matrix.Option{matrix.WithObservability(obs)}
	if cfg.Matrix.SingleFlight {
		matrixOpts = append(matrixOpts, matrix.WithSingleFlight())
	}
	matrices, err := matrix.NewService(matrixStore, generator, log, matrixOpts...)
	if err != nil {
		zapLog.Fatal("matrix service init failed", zap.Error(err))
	}

	// --- Composition engine ---
	var finder sections.Finder
	switch cfg.Composition.SectionsBackend {
	case "elasticsearch":
		finder = sections.NewElasticFinder(esClient.Client, cfg.Database.Elasticsearch.SectionsIndex)
	default:
		finder = sections.NewPostgresFinder(pg.DB)
	}

	tables := policy.Default()
	if cfg.Composition.PolicyPath != "" {
		tables, err = policy.LoadFile(cfg.Composition.PolicyPath)
		if err != nil {
			zapLog.Fatal("policy tables load failed", zap.Error(err))
		}
	}
	zapLog.Info("Composition policy loaded", zap.String("version", tables.Version))

	comp := composer.New(finder, log,
		composer.WithPolicy(tables),
		composer.WithParallelQueries(cfg.Composition.ParallelQueries),
		composer.WithObservability(obs),
	)

	// --- Activity registry ---
	reg, err := registry.LoadOrDefault(cfg.Registry.Path)
	if err != nil {
		zapLog.Fatal("activity registry load failed", zap.Error(err))
	}
	validator, err := registry.NewValidator(reg)
	if err != nil {
		zapLog.Fatal("activity registry schemas invalid", zap.Error(err))
	}
	runnerOpts := []camunda.RunnerOption{
		camunda.WithValidator(validator),
		camunda.WithObservability(obs),
	}

	// --- Register workers ---
	zc := zeebe.GetClient()
	var workers []worker.JobWorker

	if wcfg := config.GetWorkerConfig(cfg, gcm.TaskType); wcfg.Enabled {
		wc := gcm.LoadConfig()
		wc.Timeout = config.GetDuration(wcfg.Timeout)
		handler := gcm.NewHandler(wc, matrices, log, runnerOpts...)
		workers = append(workers, startWorker(zc, gcm.TaskType, wcfg, handler.Handle, zapLog))
	}

	if wcfg := config.GetWorkerConfig(cfg, rtv.TaskType); wcfg.Enabled {
		wc := rtv.LoadConfig()
		wc.Timeout = config.GetDuration(wcfg.Timeout)
		wc.Seed = wcfg.Seed
		handler := rtv.NewHandler(wc, matrices, log, runnerOpts...)
		workers = append(workers, startWorker(zc, rtv.TaskType, wcfg, handler.Handle, zapLog))
	}

	if wcfg := config.GetWorkerConfig(cfg, ss.TaskType); wcfg.Enabled {
		wc := ss.LoadConfig()
		wc.Timeout = config.GetDuration(wcfg.Timeout)
		handler := ss.NewHandler(wc, log, runnerOpts...)
		workers = append(workers, startWorker(zc, ss.TaskType, wcfg, handler.Handle, zapLog))
	}

	if wcfg := config.GetWorkerConfig(cfg, ct.TaskType); wcfg.Enabled {
		wc := ct.LoadConfig()
		wc.Timeout = config.GetDuration(wcfg.Timeout)
		handler := ct.NewHandler(wc, comp, log, runnerOpts...)
		workers = append(workers, startWorker(zc, ct.TaskType, wcfg, handler.Handle, zapLog))
	}

	if wcfg := config.GetWorkerConfig(cfg, vc.TaskType); wcfg.Enabled {
		wc := vc.LoadConfig()
		wc.Timeout = config.GetDuration(wcfg.Timeout)
		handler := vc.NewHandler(wc, tables, log, runnerOpts...)
		workers = append(workers, startWorker(zc, vc.TaskType, wcfg, handler.Handle, zapLog))
	}

	zapLog.Info("Workers registered", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	var srv *http.Server
	if cfg.Metrics.Enabled {
		srv = newOpsServer(cfg.Metrics.Address, checks)
		go func() {
			zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Metrics.Address))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				zapLog.Error("Health/Metrics server failed", zap.Error(err))
			}
		}()
	}

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	for _, w := range workers {
		w.Close()
		w.AwaitClose()
	}

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zapLog.Error("Health/Metrics server shutdown failed", zap.Error(err))
		}
	}

	if rdb != nil {
		log.Info("redis pool at shutdown", rdb.PoolStats())
	}
	zapLog.Info("Worker manager stopped")
}

func startWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handlerFunc func(worker.JobClient, entities.Job), log *zap.Logger) worker.JobWorker {
	w := client.NewJobWorker().
		JobType(taskType).
		Handler(handlerFunc).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Open()

	log.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeoutMs", wcfg.Timeout),
	)
	return w
}

func newOpsServer(addr string, checks []readinessCheck) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, map[string]interface{}{"status": "healthy"})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		failed := map[string]string{}
		for _, c := range checks {
			if err := c.check(ctx); err != nil {
				failed[c.name] = err.Error()
			}
		}
		if len(failed) > 0 {
			writeStatus(w, http.StatusServiceUnavailable, map[string]interface{}{"status": "not ready", "failed": failed})
			return
		}
		writeStatus(w, http.StatusOK, map[string]interface{}{"status": "ready"})
	})
	mux.Handle("/metrics", promhttp.Handler())

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func writeStatus(w http.ResponseWriter, code int, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
