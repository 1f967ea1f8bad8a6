package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	app "github.com/cellworks/mesflow"
	"github.com/cellworks/mesflow/internal/config"
	"github.com/cellworks/mesflow/internal/engine"
	"github.com/cellworks/mesflow/internal/server"
	"github.com/cellworks/mesflow/internal/sim"
	"github.com/cellworks/mesflow/internal/store"
	"github.com/cellworks/mesflow/pkg/api"
	"github.com/cellworks/mesflow/pkg/log"
)

type mesflowd struct {
	cfg        *config.Config
	redis      *redis.Client
	engine     *engine.Engine
	apiServer  *server.Server
	httpServer *http.Server
	quit       chan os.Signal
}

var ErrConnectRedis = errors.New("failed to connect to redis")

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

func main() {
	_ = godotenv.Load()

	cfg := config.NewDefaultConfig()
	if err := cfg.LoadFromEnv(); err != nil {
		slog.Error("Invalid configuration", log.Error(err))
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", log.Error(err))
		os.Exit(1)
	}

	s := &mesflowd{
		cfg:  cfg,
		quit: make(chan os.Signal, 1),
	}
	s.setupLogging()

	if err := s.run(); err != nil {
		slog.Error("Failed to start application", log.Error(err))
		os.Exit(1)
	}
}

func (s *mesflowd) run() error {
	if err := s.initializeEngine(); err != nil {
		return err
	}
	s.startServer()

	signal.Notify(s.quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(s.quit)
	<-s.quit

	s.shutdown()
	return nil
}

func (s *mesflowd) setupLogging() {
	level, ok := logLevels[s.cfg.LogLevel]
	if !ok {
		level = slog.LevelInfo
	}

	env := os.Getenv("ENV")
	logger := log.NewWithLevel(app.Name, env, app.Version, level)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level)

	slog.Info("MES flow engine starting",
		slog.String("log_level", s.cfg.LogLevel))

	slog.Info("Configuration loaded",
		slog.String("api_host", s.cfg.APIHost),
		slog.Int("api_port", s.cfg.APIPort),
		slog.String("store_backend", s.cfg.StoreBackend),
		slog.Duration("latency_min", s.cfg.LatencyMin),
		slog.Duration("latency_max", s.cfg.LatencyMax))
}

func (s *mesflowd) initializeEngine() error {
	qc := engine.QCPolicy{
		ReleaseThreshold: s.cfg.QCReleaseThreshold,
		RejectThreshold:  s.cfg.QCRejectThreshold,
	}

	if s.cfg.StoreBackend != config.StoreBackendRedis {
		s.engine = engine.NewInMemory(engine.Dependencies{QC: qc})
		return nil
	}

	s.redis = redis.NewClient(&redis.Options{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPassword,
		DB:       s.cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrConnectRedis, err)
	}

	prefix := s.cfg.RedisPrefix
	s.engine = engine.New(engine.Dependencies{
		Skus: store.NewRedis[api.SkuPayload](
			s.redis, prefix, api.FlowSKU, api.SkuStateDraft,
			store.NewUUIDGen(string(api.FlowSKU)), time.Now,
		),
		Batches: store.NewRedis[api.BatchPayload](
			s.redis, prefix, api.FlowBatch, api.BatchStateCreated,
			store.NewUUIDGen(string(api.FlowBatch)), time.Now,
		),
		Inbounds: store.NewRedis[api.InboundPayload](
			s.redis, prefix, api.FlowInbound, api.InboundStateReceipt,
			store.NewUUIDGen(string(api.FlowInbound)), time.Now,
		),
		FinalQa: store.NewRedis[api.FinalQaPayload](
			s.redis, prefix, api.FlowFinalQA, api.FinalQaStatePackInfo,
			store.NewUUIDGen("fqa"), time.Now,
		),
		Dispatches: store.NewRedis[api.DispatchPayload](
			s.redis, prefix, api.FlowDispatch, api.DispatchStatePicklist,
			store.NewUUIDGen("dsp"), time.Now,
		),
		QC: qc,
	})
	return nil
}

func (s *mesflowd) startServer() {
	dispatcher := sim.NewDispatcher(
		sim.NewFlowRouter(s.engine), s.cfg.LatencyMin, s.cfg.LatencyMax,
	)
	s.apiServer = server.NewServer(s.engine, dispatcher)
	mux := s.apiServer.SetupRoutes()

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", s.cfg.APIHost, s.cfg.APIPort),
		Handler: mux,
	}

	go func() {
		slog.Info("HTTP server starting",
			slog.String("addr", s.httpServer.Addr))
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", log.Error(err))
		}
	}()
}

func (s *mesflowd) shutdown() {
	slog.Info("Shutting down")

	ctx, cancel := context.WithTimeout(
		context.Background(), s.cfg.ShutdownTimeout,
	)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		slog.Error("Shutdown failed", log.Error(err))
	}

	if s.redis != nil {
		_ = s.redis.Close()
	}

	slog.Info("Server exited")
}
