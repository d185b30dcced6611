package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/ledgerdesk/backoffice/internal/config"
	"github.com/ledgerdesk/backoffice/internal/domain"
	"github.com/ledgerdesk/backoffice/internal/events"
)

// Publisher forwards encoded events to an external pub/sub channel.
type Publisher interface {
	Enabled() bool
	Publish(ctx context.Context, channel string, payload []byte) error
}

// NotificationService logs domain events and fans them out to Redis.
type NotificationService struct {
	dispatcher events.Dispatcher
	publisher  Publisher
	logger     *zap.Logger
	prefix     string
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, publisher Publisher, logger *zap.Logger, cfg config.RedisConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		publisher:  publisher,
		logger:     logger,
		prefix:     cfg.ChannelPrefix,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventTicketsResolved, n.handleTicketsResolved)
	for _, scope := range domain.ReportScopes() {
		n.dispatcher.Subscribe(events.ReportStateChanged(scope), n.handleReportState)
	}
}

// Channel is the pub/sub channel an event type is forwarded to.
func (n *NotificationService) Channel(eventType events.EventType) string {
	if n.prefix == "" {
		return string(eventType)
	}
	return n.prefix + ":" + string(eventType)
}

func (n *NotificationService) handleTicketCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("TicketCreated", zap.String("subject", event.Subject), zap.Any("payload", event.Payload))
	return n.forward(ctx, event)
}

func (n *NotificationService) handleTicketsResolved(ctx context.Context, event events.Event) error {
	n.logger.Info("TicketsResolved", zap.String("subject", event.Subject), zap.Any("payload", event.Payload))
	return n.forward(ctx, event)
}

func (n *NotificationService) handleReportState(ctx context.Context, event events.Event) error {
	if payload, ok := event.Payload.(events.ReportStatePayload); ok {
		n.logger.Debug("ReportStateChanged",
			zap.String("scope", string(payload.Scope)),
			zap.String("status", string(payload.State.Status)),
			zap.Float64("progress", payload.State.Progress))
	}
	return n.forward(ctx, event)
}

// forward publishes event as JSON. Publish failures are logged, not returned,
// so a Redis outage never fails the operation that emitted the event.
func (n *NotificationService) forward(ctx context.Context, event events.Event) error {
	if n.publisher == nil || !n.publisher.Enabled() {
		return nil
	}
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err := n.publisher.Publish(ctx, n.Channel(event.Type), body); err != nil {
		n.logger.Warn("event fan-out failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
	return nil
}
