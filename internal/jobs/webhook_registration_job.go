// Package jobs holds scheduled background work.
package jobs

import (
	"context"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/siamship/makesend-bridge/pkg/makesend"
)

// WebhookRegistrationJob keeps the bridge's public webhook URLs registered
// with the carrier. Registration is re-run on a schedule because Makesend
// drops endpoints it considers stale.
type WebhookRegistrationJob struct {
	client        *makesend.Client
	publicBaseURL string
	schedule      string
	cron          *cron.Cron
	logger        *otelzap.Logger
}

// NewWebhookRegistrationJob creates the job. publicBaseURL is the externally
// reachable base of this service; schedule is a standard cron expression.
func NewWebhookRegistrationJob(client *makesend.Client, publicBaseURL, schedule string, logger *otelzap.Logger) *WebhookRegistrationJob {
	return &WebhookRegistrationJob{
		client:        client,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		schedule:      schedule,
		cron:          cron.New(),
		logger:        logger,
	}
}

// StatusURL is the status webhook endpoint registered with the carrier.
func (j *WebhookRegistrationJob) StatusURL() string {
	return j.publicBaseURL + "/webhooks/makesend/status"
}

// ParcelSizeURL is the parcel-size webhook endpoint registered with the
// carrier.
func (j *WebhookRegistrationJob) ParcelSizeURL() string {
	return j.publicBaseURL + "/webhooks/makesend/parcel-size"
}

// Register pushes both webhook URLs to the carrier concurrently. An error
// covers whichever registration failed; the other still went through.
func (j *WebhookRegistrationJob) Register(ctx context.Context) error {
	if j.publicBaseURL == "" {
		j.logger.Ctx(ctx).Warn("No public base URL configured, skipping webhook registration")
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return j.client.RegisterStatusWebhook(ctx, j.StatusURL())
	})
	g.Go(func() error {
		return j.client.RegisterParcelSizeWebhook(ctx, j.ParcelSizeURL())
	})
	if err := g.Wait(); err != nil {
		return err
	}

	j.logger.Ctx(ctx).Info("Registered carrier webhooks",
		zap.String("status_url", j.StatusURL()),
		zap.String("parcel_size_url", j.ParcelSizeURL()),
	)
	return nil
}

// Start registers immediately and then re-registers on the configured
// schedule. Failures are logged and retried on the next tick, never fatal.
func (j *WebhookRegistrationJob) Start(ctx context.Context) error {
	if err := j.Register(ctx); err != nil {
		j.logger.Ctx(ctx).Error("Initial webhook registration failed", zap.Error(err))
	}

	_, err := j.cron.AddFunc(j.schedule, func() {
		if err := j.Register(context.Background()); err != nil {
			j.logger.Error("Scheduled webhook registration failed", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Ctx(ctx).Info("Webhook registration job started", zap.String("schedule", j.schedule))
	return nil
}

// Stop stops the schedule.
func (j *WebhookRegistrationJob) Stop() {
	j.cron.Stop()
	j.logger.Info("Webhook registration job stopped")
}
