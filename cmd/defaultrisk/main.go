package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ekisa-team/defaultrisk/internal/config"
	"github.com/ekisa-team/defaultrisk/internal/env"
	"github.com/ekisa-team/defaultrisk/internal/logger"
	"github.com/ekisa-team/defaultrisk/internal/model"
	grpcserver "github.com/ekisa-team/defaultrisk/internal/server/grpc"
	httpserver "github.com/ekisa-team/defaultrisk/internal/server/http"
	"github.com/ekisa-team/defaultrisk/internal/service"
	"github.com/ekisa-team/defaultrisk/internal/static"
)

var version = "dev"

func main() {
	var (
		flagHTTPPort   = flag.Int("http-port", config.DefaultHTTPPort(), "HTTP port to listen on")
		flagGRPCPort   = flag.Int("grpc-port", 0, "gRPC port to listen on (0 disables gRPC)")
		flagConfigPath = flag.String("config", path.Join(config.DefaultConfigPath(), "config.yaml"), "Path to config file")
		flagSchemaPath = flag.String("schema", "", "Path to schema file (defaults to the embedded schema)")
		flagEnvFile    = flag.String("env-file", ".env", "Path to an optional .env file")
	)
	flag.Parse()

	if err := env.LoadDotEnv(*flagEnvFile); err != nil {
		slog.Error("Failed to load env file", "error", err)
		os.Exit(1)
	}

	environment := env.FromEnv()

	cfg, found, err := config.LoadOrDefault(*flagConfigPath, *flagSchemaPath)
	if err != nil {
		slog.Error("Failed to load config", "path", *flagConfigPath, "error", err)
		os.Exit(1)
	}
	if err := config.ApplyEnv(cfg); err != nil {
		slog.Error("Failed to apply environment", "error", err)
		os.Exit(1)
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "http-port":
			cfg.Server.HTTPPort = *flagHTTPPort
		case "grpc-port":
			cfg.Server.GRPCPort = *flagGRPCPort
		}
	})

	level := new(slog.LevelVar)
	level.Set(cfg.Logging.SlogLevel())

	slog.SetDefault(
		logger.New(environment,
			logger.WithLevel(level),
			logger.WithLogToFile(cfg.Logging.ToFile),
			logger.WithLogFile(cfg.Logging.File),
			logger.WithSource(cfg.Logging.Source),
		),
	)

	if found {
		slog.Info("Config loaded successfully", "config", *flagConfigPath, "environment", environment)
	} else {
		slog.Info("No config file found, using defaults", "config", *flagConfigPath, "environment", environment)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if found {
		watcher, err := config.NewWatcher(*flagConfigPath, *flagSchemaPath, onReload(cfg, level))
		if err != nil {
			slog.Error("Failed to create config watcher", "error", err)
			os.Exit(1)
		}
		defer watcher.Close()
	}

	if err := run(ctx, cfg); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

// onReload applies the reloadable parts of a new config. Environment
// variables keep precedence over the file on every reload. Artifacts are
// loaded once per process, so changed artifact paths only produce a warning.
func onReload(startup *config.Config, level *slog.LevelVar) func(*config.Config, error) {
	return func(cfg *config.Config, err error) {
		if err != nil {
			slog.Error("Failed to reload config", "error", err)
			return
		}

		if err := config.ApplyEnv(cfg); err != nil {
			slog.Error("Failed to apply environment on reload", "error", err)
			return
		}

		if cfg.Artifacts != startup.Artifacts {
			slog.Warn("Artifact paths changed, restart to load new artifacts",
				"scaler", cfg.Artifacts.Scaler,
				"classifier", cfg.Artifacts.Classifier,
			)
		}

		if newLevel := cfg.Logging.SlogLevel(); newLevel != level.Level() {
			level.Set(newLevel)
			slog.Info("Log level changed", "level", newLevel.String())
		}
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	store, err := model.Load(model.Paths{
		Scaler:     cfg.Artifacts.Scaler,
		Classifier: cfg.Artifacts.Classifier,
	})
	if err != nil {
		return err
	}

	predictor := service.NewPredictor(store)

	var staticHandler http.Handler
	if cfg.Frontend.Dir != "" {
		h, err := static.NewHandler(cfg.Frontend.Dir, cfg.Frontend.Index)
		if err != nil {
			return err
		}
		staticHandler = h
	}

	router, _ := httpserver.NewRouter(httpserver.RouterConfig{
		Predictor: predictor,
		Artifacts: store,
		Static:    staticHandler,
		Title:     "defaultrisk",
		Version:   version,
	})

	httpSrv := &http.Server{
		Addr:              cfg.Server.HTTPAddr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	var grpcSrv *grpcserver.Server
	var grpcLis net.Listener
	if cfg.Server.GRPCPort > 0 {
		grpcLis, err = net.Listen("tcp", cfg.Server.GRPCAddr())
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", cfg.Server.GRPCAddr(), err)
		}
		grpcSrv = grpcserver.NewServer(predictor)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("HTTP server started", "addr", httpSrv.Addr, "n_features", predictor.NumFeatures())
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if grpcSrv != nil {
		g.Go(func() error {
			return grpcSrv.Serve(grpcLis)
		})
	}

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if grpcSrv != nil {
			grpcSrv.Shutdown(shutdownCtx)
		}

		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down HTTP server: %w", err)
		}
		slog.Info("HTTP server stopped")
		return nil
	})

	return g.Wait()
}
