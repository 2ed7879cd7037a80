package crm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"gitlab.com/peopleclay/api/push-activity-service/internal/apperrors"
	"gitlab.com/peopleclay/api/push-activity-service/internal/config"
	"gitlab.com/peopleclay/api/push-activity-service/pkg/logger"
)

// JetStreamPublisher publishes push events to a NATS JetStream subject so
// downstream CRM consumers pick them up asynchronously with at-least-once
// delivery.
type JetStreamPublisher struct {
	nc      *nats.Conn
	js      nats.JetStreamContext
	subject string
}

// NewJetStreamPublisher connects to NATS and ensures the activity stream
// exists.
func NewJetStreamPublisher(cfg config.CRMConfig) (*JetStreamPublisher, error) {
	nc, err := nats.Connect(cfg.NATSURL,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Log.Warn("NATS disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Log.Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ErrorHandler(func(nc *nats.Conn, s *nats.Subscription, err error) {
			logger.Log.Error("NATS error", zap.Error(err))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	// Ensure the stream exists before the first publish
	stream, err := js.StreamInfo(cfg.Stream)
	if err != nil && !errors.Is(err, nats.ErrStreamNotFound) {
		nc.Close()
		return nil, fmt.Errorf("failed to get stream info for '%s': %w", cfg.Stream, err)
	}
	if stream == nil {
		_, err = js.AddStream(&nats.StreamConfig{
			Name:      cfg.Stream,
			Subjects:  []string{cfg.Subject},
			Storage:   nats.FileStorage,
			Retention: nats.LimitsPolicy,
		})
		if err != nil {
			nc.Close()
			return nil, fmt.Errorf("failed to add stream '%s': %w", cfg.Stream, err)
		}
		logger.Log.Info("Created stream",
			zap.String("name", cfg.Stream),
			zap.String("subject", cfg.Subject))
	}

	return &JetStreamPublisher{nc: nc, js: js, subject: cfg.Subject}, nil
}

// PublishPushedCompanies publishes the event and waits for the stream ack.
func (p *JetStreamPublisher) PublishPushedCompanies(ctx context.Context, event PushEvent) error {
	loggerCtx := logger.FromContext(ctx)

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: encoding push event: %w", apperrors.ErrPublish, err)
	}

	ack, err := p.js.Publish(p.subject, payload, nats.Context(ctx))
	if err != nil {
		loggerCtx.Error("JetStream publish failed",
			zap.String("campaign_id", event.CampaignID),
			zap.String("subject", p.subject),
			zap.Error(err))
		return fmt.Errorf("%w: %w", apperrors.ErrPublish, err)
	}

	loggerCtx.Info("Push event published to JetStream",
		zap.String("campaign_id", event.CampaignID),
		zap.String("stream", ack.Stream),
		zap.Uint64("sequence", ack.Sequence),
		zap.Int("companies", event.Count))
	return nil
}

// Close drains the NATS connection.
func (p *JetStreamPublisher) Close(ctx context.Context) error {
	if p.nc == nil || p.nc.IsClosed() {
		return nil
	}
	if err := p.nc.Drain(); err != nil {
		logger.FromContext(ctx).Warn("Failed to drain NATS connection", zap.Error(err))
		p.nc.Close()
	}
	return nil
}

var _ Publisher = (*JetStreamPublisher)(nil)
