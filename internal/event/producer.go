package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Tobak95/Royal-Shades-Autos-Backend/internal/domain"
	pkgkafka "github.com/Tobak95/Royal-Shades-Autos-Backend/pkg/kafka"
)

// Kafka topics for account domain events.
const (
	TopicVerificationRequested  = "autos.account.verification_requested"
	TopicPasswordResetRequested = "autos.account.password_reset_requested"
	TopicAccountVerified        = "autos.account.verified"
)

const AggregateTypeAccount = "account"

// Source identifier stamped on every event from this service.
const SourceAccountService = "account-service"

// VerificationRequestedData is the payload for a verification_requested
// event. URL is the full client link containing the raw token.
type VerificationRequestedData struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	URL       string `json:"url"`
}

// PasswordResetRequestedData is the payload for a password_reset_requested event.
type PasswordResetRequestedData struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	URL       string `json:"url"`
}

// AccountVerifiedData is the payload for an account.verified event.
type AccountVerifiedData struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
}

// Producer publishes account domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishVerificationRequested announces that an account needs its email
// verified; the notifier turns this into a verification email.
func (p *Producer) PublishVerificationRequested(ctx context.Context, account *domain.Account, url string) error {
	data := VerificationRequestedData{
		AccountID: account.ID,
		Email:     account.Email,
		FullName:  account.FullName,
		URL:       url,
	}
	return p.publish(ctx, TopicVerificationRequested, account.ID, data)
}

// PublishPasswordResetRequested announces a pending password reset.
func (p *Producer) PublishPasswordResetRequested(ctx context.Context, account *domain.Account, url string) error {
	data := PasswordResetRequestedData{
		AccountID: account.ID,
		Email:     account.Email,
		FullName:  account.FullName,
		URL:       url,
	}
	return p.publish(ctx, TopicPasswordResetRequested, account.ID, data)
}

// PublishAccountVerified announces that an account completed verification.
func (p *Producer) PublishAccountVerified(ctx context.Context, account *domain.Account) error {
	data := AccountVerifiedData{
		AccountID: account.ID,
		Email:     account.Email,
		FullName:  account.FullName,
	}
	return p.publish(ctx, TopicAccountVerified, account.ID, data)
}

func (p *Producer) publish(ctx context.Context, topic, accountID string, data any) error {
	event, err := pkgkafka.NewEvent(topic, accountID, AggregateTypeAccount, SourceAccountService, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published account event",
		slog.String("topic", topic),
		slog.String("account_id", accountID),
	)
	return nil
}
