// Package bot runs the poll → compare → notify loop.
package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "homework-status-bot/internal/common/errors"
	"homework-status-bot/internal/common/logger"
	"homework-status-bot/internal/common/metrics"
	"homework-status-bot/internal/common/observability"
	"homework-status-bot/internal/homework"
	"homework-status-bot/internal/state"
)

const (
	StartupMessage       = "Привет! Бот запущен."
	failureMessagePrefix = "Сбой в работе программы: "
)

// Notification kinds, used as metric labels.
const (
	kindStartup = "startup"
	kindStatus  = "status"
	kindFailure = "failure"
)

// StatusFetcher returns the decoded status API body for the window starting at fromDate.
type StatusFetcher interface {
	GetStatuses(ctx context.Context, fromDate int64) (map[string]interface{}, error)
}

// Notifier delivers a text message to the chat.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// Alerter is an optional second channel for operator alerts.
type Alerter interface {
	Alert(ctx context.Context, text string) error
}

type Config struct {
	Interval time.Duration
	// FromDate is fixed for the life of the process; every cycle asks for the same window.
	FromDate int64
}

type Poller struct {
	config   *Config
	fetcher  StatusFetcher
	notifier Notifier
	store    state.Store
	alerter  Alerter
	obs      *observability.Observability
	logger   logger.Logger
}

func NewPoller(config *Config, fetcher StatusFetcher, notifier Notifier, store state.Store, log logger.Logger) *Poller {
	return &Poller{
		config:   config,
		fetcher:  fetcher,
		notifier: notifier,
		store:    store,
		logger:   log.WithFields(map[string]interface{}{"component": "poller"}),
	}
}

// WithAlerter also sends cycle failures to a.
func (p *Poller) WithAlerter(a Alerter) *Poller {
	p.alerter = a
	return p
}

// WithObservability records per-cycle OpenTelemetry metrics.
func (p *Poller) WithObservability(o *observability.Observability) *Poller {
	p.obs = o
	return p
}

// Run announces the start and then polls until ctx is cancelled. A failed
// cycle never stops the loop.
func (p *Poller) Run(ctx context.Context) error {
	p.logger.Info("poller started", map[string]interface{}{
		"interval": p.config.Interval.String(),
		"fromDate": p.config.FromDate,
	})

	if err := p.notify(ctx, kindStartup, StartupMessage); err != nil {
		p.logger.Error("failed to send startup message", map[string]interface{}{"error": err})
	}

	for {
		if err := p.RunCycle(ctx); err != nil {
			if ctx.Err() != nil {
				break
			}
			p.reportFailure(ctx, err)
		}

		if err := sleep(ctx, p.config.Interval); err != nil {
			break
		}
	}

	p.logger.Info("poller stopped", nil)
	return ctx.Err()
}

// RunCycle performs one fetch → extract → compare → notify step. A panic in
// any step is returned as INTERNAL_ERROR.
func (p *Poller) RunCycle(ctx context.Context) error {
	log := p.logger.WithFields(map[string]interface{}{"cycleId": uuid.New().String()})
	start := time.Now()

	outcome, err := p.safeCycle(ctx, log)
	if err != nil {
		outcome = metrics.OutcomeFailed
		metrics.PollErrors.WithLabelValues(string(apperrors.CodeOf(err))).Inc()
	} else {
		metrics.LastSuccessfulPoll.SetToCurrentTime()
	}
	metrics.PollCycles.WithLabelValues(outcome).Inc()
	p.obs.RecordCycle(ctx, time.Since(start), outcome)

	return err
}

func (p *Poller) safeCycle(ctx context.Context, log logger.Logger) (outcome string, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("poll cycle panicked", map[string]interface{}{"panic": fmt.Sprint(r)})
			outcome, err = "", apperrors.Normalize(fmt.Errorf("panic: %v", r))
		}
	}()
	return p.runCycle(ctx, log)
}

func (p *Poller) runCycle(ctx context.Context, log logger.Logger) (string, error) {
	body, err := p.fetcher.GetStatuses(ctx, p.config.FromDate)
	if err != nil {
		return "", err
	}

	current, err := homework.ExtractLatest(body)
	if errors.Is(err, homework.ErrNoHomeworks) {
		log.Warn("На сайте нет работ, в которые были внесены изменения за указанный промежуток времени", nil)
		return metrics.OutcomeEmpty, nil
	}
	if err != nil {
		log.Error("unusable status response", map[string]interface{}{"error": err})
		return "", err
	}

	previous, err := p.store.Load(ctx)
	if err != nil {
		return "", err
	}

	outcome := metrics.OutcomeUnchanged
	if current.Equal(previous) {
		log.Info("За указанный промежуток времени статус домашней работы не поменялся", map[string]interface{}{
			"homework": current.Name(),
		})
	} else {
		message, err := homework.FormatStatus(current)
		if err != nil {
			return "", err
		}
		// Save only after delivery so a failed send is retried next cycle.
		if err := p.notify(ctx, kindStatus, message); err != nil {
			return "", err
		}
		outcome = metrics.OutcomeNotified
	}

	if err := p.store.Save(ctx, current); err != nil {
		return "", err
	}
	return outcome, nil
}

func (p *Poller) reportFailure(ctx context.Context, err error) {
	stdErr := apperrors.Normalize(err)
	message := failureMessagePrefix + describe(err)

	p.logger.WithError(err).Error(message, map[string]interface{}{
		"errorCode": string(stdErr.Code),
		"category":  apperrors.GetErrorCategory(stdErr.Code),
		"retryable": stdErr.Retryable,
		"details":   stdErr.Details,
	})

	if nerr := p.notify(ctx, kindFailure, message); nerr != nil {
		p.logger.Error("failed to report failure to chat", map[string]interface{}{"error": nerr})
	}

	if p.alerter != nil {
		if aerr := p.alerter.Alert(ctx, message); aerr != nil {
			p.logger.Error("failed to publish operator alert", map[string]interface{}{"error": aerr})
		}
	}
}

func (p *Poller) notify(ctx context.Context, kind, text string) error {
	if err := p.notifier.Notify(ctx, text); err != nil {
		return err
	}
	metrics.NotificationsSent.WithLabelValues(kind).Inc()
	return nil
}

// describe gives the human part of an error, without codes or request details.
func describe(err error) string {
	var stdErr *apperrors.StandardError
	if errors.As(err, &stdErr) && stdErr.Message != "" {
		return stdErr.Message
	}
	return fmt.Sprint(err)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
