package notifier

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Tobak95/Royal-Shades-Autos-Backend/internal/event"
	pkgkafka "github.com/Tobak95/Royal-Shades-Autos-Backend/pkg/kafka"
)

// ConsumerGroupID identifies the notifier's Kafka consumer group.
const ConsumerGroupID = "account-notifier"

// ConsumerHandler routes account events to the configured sender.
type ConsumerHandler struct {
	sender Sender
	logger *slog.Logger
}

func NewConsumerHandler(sender Sender, logger *slog.Logger) *ConsumerHandler {
	return &ConsumerHandler{
		sender: sender,
		logger: logger,
	}
}

// Handle renders and delivers the email for a single account event.
func (h *ConsumerHandler) Handle(ctx context.Context, evt *pkgkafka.Event) error {
	switch evt.EventType {
	case event.TopicVerificationRequested:
		return h.handleVerificationRequested(ctx, evt)
	case event.TopicPasswordResetRequested:
		return h.handlePasswordResetRequested(ctx, evt)
	case event.TopicAccountVerified:
		return h.handleAccountVerified(ctx, evt)
	default:
		h.logger.WarnContext(ctx, "unknown event type received",
			slog.String("event_type", evt.EventType),
			slog.String("event_id", evt.EventID),
		)
		return nil
	}
}

func (h *ConsumerHandler) handleVerificationRequested(ctx context.Context, evt *pkgkafka.Event) error {
	var data event.VerificationRequestedData
	if err := evt.UnmarshalData(&data); err != nil {
		return fmt.Errorf("decode verification_requested payload: %w", err)
	}

	email := &Email{
		To:      data.Email,
		Subject: subjectWelcome,
		HTML:    renderWelcome(data.FullName, data.URL),
	}
	if err := h.sender.Send(ctx, email); err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}

	h.logger.InfoContext(ctx, "verification email delivered",
		slog.String("account_id", data.AccountID),
		slog.String("sender", h.sender.Name()),
	)
	return nil
}

func (h *ConsumerHandler) handlePasswordResetRequested(ctx context.Context, evt *pkgkafka.Event) error {
	var data event.PasswordResetRequestedData
	if err := evt.UnmarshalData(&data); err != nil {
		return fmt.Errorf("decode password_reset_requested payload: %w", err)
	}

	email := &Email{
		To:      data.Email,
		Subject: subjectReset,
		HTML:    renderReset(data.FullName, data.URL),
	}
	if err := h.sender.Send(ctx, email); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}

	h.logger.InfoContext(ctx, "password reset email delivered",
		slog.String("account_id", data.AccountID),
		slog.String("sender", h.sender.Name()),
	)
	return nil
}

// handleAccountVerified currently only records the event; no email goes out
// on successful verification.
func (h *ConsumerHandler) handleAccountVerified(ctx context.Context, evt *pkgkafka.Event) error {
	var data event.AccountVerifiedData
	if err := evt.UnmarshalData(&data); err != nil {
		return fmt.Errorf("decode account.verified payload: %w", err)
	}

	h.logger.InfoContext(ctx, "account verified",
		slog.String("account_id", data.AccountID),
	)
	return nil
}

// NewConsumers builds one consumer per subscribed topic.
func NewConsumers(brokers []string, handler *ConsumerHandler, logger *slog.Logger) []*pkgkafka.Consumer {
	topics := []string{
		event.TopicVerificationRequested,
		event.TopicPasswordResetRequested,
		event.TopicAccountVerified,
	}

	consumers := make([]*pkgkafka.Consumer, 0, len(topics))
	for _, topic := range topics {
		cfg := pkgkafka.ConsumerConfig{
			Brokers:  brokers,
			GroupID:  ConsumerGroupID,
			Topic:    topic,
			MinBytes: 1,
			MaxBytes: 10e6,
		}
		consumers = append(consumers, pkgkafka.NewConsumer(cfg, handler.Handle, logger))
	}
	return consumers
}
