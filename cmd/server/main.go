// Command server runs the flood risk HTTP API and, when enabled, the Kafka
// streaming scorer.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/flood-risk-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/flood-risk-service/internal/adapter/kafka"
	"github.com/couchcryptid/flood-risk-service/internal/adapter/notify"
	"github.com/couchcryptid/flood-risk-service/internal/artifact"
	"github.com/couchcryptid/flood-risk-service/internal/auth"
	"github.com/couchcryptid/flood-risk-service/internal/config"
	"github.com/couchcryptid/flood-risk-service/internal/dataset"
	"github.com/couchcryptid/flood-risk-service/internal/domain"
	"github.com/couchcryptid/flood-risk-service/internal/observability"
	"github.com/couchcryptid/flood-risk-service/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err == nil {
		err = cfg.ValidateServer()
	}
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	set, err := artifact.NewStore(cfg.ModelDir).Load()
	if err != nil {
		logger.Error("failed to load model artifacts", "error", err, "model_dir", cfg.ModelDir)
		os.Exit(1)
	}
	predictor, err := pipeline.NewPredictor(set)
	if err != nil {
		logger.Error("model artifacts are inconsistent", "error", err, "model_dir", cfg.ModelDir)
		os.Exit(1)
	}
	metrics.ModelLoaded.Set(1)
	logger.Info("model loaded", "model_dir", cfg.ModelDir, "stations", len(predictor.Stations()), "trees", len(set.Model.Trees))

	// Alerts are optional (ALERT_URLS).
	var alerter domain.Alerter
	if len(cfg.AlertURLs) > 0 {
		a, err := notify.NewAlerter(cfg.AlertURLs, cfg.AlertTimeout, logger)
		if err != nil {
			logger.Error("invalid alert configuration", "error", err)
			os.Exit(1)
		}
		alerter = a
		logger.Info("flood alerts enabled", "services", len(cfg.AlertURLs))
	} else {
		logger.Info("flood alerts disabled")
	}

	users, err := auth.OpenStore(cfg.AuthDBPath)
	if err != nil {
		logger.Error("failed to open user store", "error", err, "path", cfg.AuthDBPath)
		os.Exit(1)
	}
	accounts := auth.NewService(users, auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL, nil), cfg.LoginRate, cfg.LoginBurst, logger)

	assessor := pipeline.NewAssessor(predictor, alerter, logger, metrics)
	stats := dataset.NewStatsService(cfg.DataPath, cfg.StationsCacheTTL, logger)

	ready := []httpadapter.ReadinessChecker{predictor, users}

	var (
		stream *pipeline.Stream
		reader *kafkaadapter.Reader
		writer *kafkaadapter.Writer
	)
	if cfg.KafkaEnabled {
		reader = kafkaadapter.NewReader(cfg, logger)
		writer = kafkaadapter.NewWriter(cfg, logger)
		stream = pipeline.NewStream(reader, pipeline.NewObservationScorer(assessor), writer, logger, metrics, cfg.BatchSize)
		ready = append(ready, stream)
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, httpadapter.Handlers{
		Ready:    httpadapter.AllReady(ready...),
		Assessor: assessor,
		Stats:    stats,
		Accounts: accounts,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	if stream != nil {
		go func() {
			if err := stream.Run(ctx); err != nil {
				logger.Error("stream error", "error", err)
			}
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if reader != nil {
		if err := reader.Close(); err != nil {
			logger.Error("kafka reader close error", "error", err)
		}
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}
	if err := users.Close(); err != nil {
		logger.Error("user store close error", "error", err)
	}

	logger.Info("shutdown complete")
}
