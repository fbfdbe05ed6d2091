package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Kapil218/fullstack-devops/internal/identity/domain"
	pkgkafka "github.com/Kapil218/fullstack-devops/pkg/kafka"
)

// Kafka topic constants for identity domain events.
const (
	TopicAccountRegistered = "identity.account.registered"
	TopicAccountLoggedIn   = "identity.account.logged_in"
	TopicSessionRevoked    = "identity.session.revoked"
)

// Aggregate type constant.
const AggregateTypeAccount = "account"

// Source identifier for events originating from the identity service.
const SourceIdentityService = "identity-service"

// AccountRegisteredData is the payload for an account.registered event.
type AccountRegisteredData struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// AccountLoggedInData is the payload for an account.logged_in event.
type AccountLoggedInData struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// SessionRevokedData is the payload for a session.revoked event.
type SessionRevokedData struct {
	AccountID string `json:"account_id"`
	Reason    string `json:"reason"`
}

// Producer publishes identity domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the identity service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishAccountRegistered publishes an account.registered event.
func (p *Producer) PublishAccountRegistered(ctx context.Context, account *domain.Account) error {
	data := AccountRegisteredData{
		ID:       account.ID,
		Username: account.Username,
		Email:    account.Email,
	}

	event, err := pkgkafka.NewEvent(TopicAccountRegistered, account.ID, AggregateTypeAccount, SourceIdentityService, data)
	if err != nil {
		return fmt.Errorf("create account.registered event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicAccountRegistered, event); err != nil {
		return fmt.Errorf("publish account.registered event: %w", err)
	}

	p.logger.DebugContext(ctx, "published account.registered event",
		slog.String("account_id", account.ID),
	)

	return nil
}

// PublishAccountLoggedIn publishes an account.logged_in event.
func (p *Producer) PublishAccountLoggedIn(ctx context.Context, account *domain.Account) error {
	data := AccountLoggedInData{
		ID:       account.ID,
		Username: account.Username,
	}

	event, err := pkgkafka.NewEvent(TopicAccountLoggedIn, account.ID, AggregateTypeAccount, SourceIdentityService, data)
	if err != nil {
		return fmt.Errorf("create account.logged_in event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicAccountLoggedIn, event); err != nil {
		return fmt.Errorf("publish account.logged_in event: %w", err)
	}

	p.logger.DebugContext(ctx, "published account.logged_in event",
		slog.String("account_id", account.ID),
	)

	return nil
}

// PublishSessionRevoked publishes a session.revoked event.
func (p *Producer) PublishSessionRevoked(ctx context.Context, accountID, reason string) error {
	data := SessionRevokedData{
		AccountID: accountID,
		Reason:    reason,
	}

	event, err := pkgkafka.NewEvent(TopicSessionRevoked, accountID, AggregateTypeAccount, SourceIdentityService, data)
	if err != nil {
		return fmt.Errorf("create session.revoked event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicSessionRevoked, event); err != nil {
		return fmt.Errorf("publish session.revoked event: %w", err)
	}

	p.logger.DebugContext(ctx, "published session.revoked event",
		slog.String("account_id", accountID),
		slog.String("reason", reason),
	)

	return nil
}
