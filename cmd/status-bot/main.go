// cmd/status-bot/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"homework-status-bot/internal/bot"
	"homework-status-bot/internal/common/aws"
	"homework-status-bot/internal/common/config"
	"homework-status-bot/internal/common/database"
	apperrors "homework-status-bot/internal/common/errors"
	apphttp "homework-status-bot/internal/common/http"
	"homework-status-bot/internal/common/logger"
	"homework-status-bot/internal/common/observability"
	"homework-status-bot/internal/practicum"
	"homework-status-bot/internal/state"
	"homework-status-bot/internal/telegram"
)

const telegramTimeout = 30 * time.Second

// retryWithBackoff attempts to execute a function with exponential backoff.
// It gives up early when ctx is cancelled.
func retryWithBackoff(ctx context.Context, operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
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
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return fmt.Errorf("%s cancelled after %d attempts: %w", operationName, i+1, ctx.Err())
			case <-timer.C:
			}
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	bootLog := logger.New("debug", "console")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, bootLog); err != nil {
		if errors.Is(err, context.Canceled) {
			bootLog.Info("Shutdown during startup")
			return
		}
		var stdErr *apperrors.StandardError
		if errors.As(err, &stdErr) && errors.Is(err, apperrors.ErrConfigMissing) {
			bootLog.Fatal(stdErr.Message, zap.Any("variable", stdErr.Metadata["variable"]))
		}
		bootLog.Fatal("status bot stopped", zap.Error(err))
	}
}

// run loads the configuration and polls until ctx is cancelled. Nothing
// touches the network before the configuration is valid.
func run(ctx context.Context, bootLog *zap.Logger, envFiles ...string) error {
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return err
	}
	_ = bootLog.Sync()

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format).With(
		zap.String("service", cfg.App.Name),
		zap.String("environment", cfg.App.Environment),
	)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	if cfg.EnvFile != "" {
		zapLog.Info("loaded .env", zap.String("path", cfg.EnvFile))
	}

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Warn("otel metrics disabled", zap.Error(err))
	}
	defer obs.Shutdown()

	// --- Telegram ---
	var tg *tgbotapi.BotAPI
	err = retryWithBackoff(ctx, func() error {
		var err error
		tg, err = telegram.NewBot(cfg.Telegram.Token, apphttp.NewClient(telegramTimeout))
		return err
	}, 5, 2*time.Second, zapLog, "Telegram bot initialization")
	if err != nil {
		return err
	}
	zapLog.Info("Telegram bot authorized", zap.String("username", tg.Self.UserName))
	notifier := telegram.NewNotifier(tg, cfg.Telegram.ChatID, log)

	// --- State store ---
	var store state.Store = state.NewMemoryStore()
	if cfg.State.Backend == "redis" {
		rdb := database.NewRedis(cfg.State.Redis)
		defer rdb.Close()
		err = retryWithBackoff(ctx, func() error {
			return rdb.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			return err
		}
		store = state.NewRedisStore(rdb.Client, cfg.State.Redis.Key)
		zapLog.Info("Redis state store connected", zap.String("key", cfg.State.Redis.Key))
	}

	// --- Status API ---
	fetcher := practicum.NewClient(cfg.Practicum.Endpoint, cfg.Practicum.Token, apphttp.NewClient(cfg.Practicum.Timeout), log)

	poller := bot.NewPoller(&bot.Config{
		Interval: cfg.Poll.Interval,
		FromDate: config.FromDate(time.Now(), cfg.Poll.Window),
	}, fetcher, notifier, store, log).WithObservability(obs)

	// --- Operator alerts ---
	if cfg.Alerts.SNS.Enabled {
		alerter, err := aws.NewSNSAlerter(ctx, cfg.Alerts.SNS.Region, cfg.Alerts.SNS.TopicARN)
		if err != nil {
			return fmt.Errorf("failed to init SNS alerter: %w", err)
		}
		poller.WithAlerter(alerter)
		zapLog.Info("SNS operator alerts enabled", zap.String("topic", cfg.Alerts.SNS.TopicARN))
	}

	// --- Metrics endpoint ---
	var metricsServer *http.Server
	if cfg.Metrics.Address != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer = &http.Server{
			Addr:              cfg.Metrics.Address,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			zapLog.Info("Starting metrics server", zap.String("addr", metricsServer.Addr))
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				zapLog.Error("metrics server failed", zap.Error(err))
			}
		}()
	}

	runErr := poller.Run(ctx)

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}
	zapLog.Info("Shutdown complete")

	if errors.Is(runErr, context.Canceled) {
		return nil
	}
	return runErr
}
