package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Kapil218/fullstack-devops/internal/todo/domain"
	pkgkafka "github.com/Kapil218/fullstack-devops/pkg/kafka"
)

// Kafka topic constants for todo domain events.
const (
	TopicTodoCreated   = "todo.item.created"
	TopicTodoCompleted = "todo.item.completed"
	TopicTodoDeleted   = "todo.item.deleted"
)

// Aggregate type constant.
const AggregateTypeTodo = "todo"

// Source identifier for events originating from the todo service.
const SourceTodoService = "todo-service"

// TodoCreatedData is the payload for a todo.item.created event.
type TodoCreatedData struct {
	ID        string `json:"id"`
	AccountID string `json:"account_id"`
	Title     string `json:"title"`
}

// TodoCompletedData is the payload for a todo.item.completed event.
type TodoCompletedData struct {
	ID        string `json:"id"`
	AccountID string `json:"account_id"`
}

// TodoDeletedData is the payload for a todo.item.deleted event.
type TodoDeletedData struct {
	ID        string `json:"id"`
	AccountID string `json:"account_id"`
}

// Producer publishes todo domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the todo service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishTodoCreated publishes a todo.item.created event.
func (p *Producer) PublishTodoCreated(ctx context.Context, todo *domain.Todo) error {
	data := TodoCreatedData{
		ID:        todo.ID,
		AccountID: todo.AccountID,
		Title:     todo.Title,
	}

	event, err := pkgkafka.NewEvent(TopicTodoCreated, todo.ID, AggregateTypeTodo, SourceTodoService, data)
	if err != nil {
		return fmt.Errorf("create todo.item.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicTodoCreated, event); err != nil {
		return fmt.Errorf("publish todo.item.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published todo.item.created event",
		slog.String("todo_id", todo.ID),
	)

	return nil
}

// PublishTodoCompleted publishes a todo.item.completed event.
func (p *Producer) PublishTodoCompleted(ctx context.Context, todo *domain.Todo) error {
	data := TodoCompletedData{
		ID:        todo.ID,
		AccountID: todo.AccountID,
	}

	event, err := pkgkafka.NewEvent(TopicTodoCompleted, todo.ID, AggregateTypeTodo, SourceTodoService, data)
	if err != nil {
		return fmt.Errorf("create todo.item.completed event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicTodoCompleted, event); err != nil {
		return fmt.Errorf("publish todo.item.completed event: %w", err)
	}

	p.logger.DebugContext(ctx, "published todo.item.completed event",
		slog.String("todo_id", todo.ID),
	)

	return nil
}

// PublishTodoDeleted publishes a todo.item.deleted event.
func (p *Producer) PublishTodoDeleted(ctx context.Context, todo *domain.Todo) error {
	data := TodoDeletedData{
		ID:        todo.ID,
		AccountID: todo.AccountID,
	}

	event, err := pkgkafka.NewEvent(TopicTodoDeleted, todo.ID, AggregateTypeTodo, SourceTodoService, data)
	if err != nil {
		return fmt.Errorf("create todo.item.deleted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicTodoDeleted, event); err != nil {
		return fmt.Errorf("publish todo.item.deleted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published todo.item.deleted event",
		slog.String("todo_id", todo.ID),
	)

	return nil
}
