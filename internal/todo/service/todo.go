// Package service implements the business logic of the todo service.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Kapil218/fullstack-devops/internal/todo/domain"
	"github.com/Kapil218/fullstack-devops/internal/todo/repository"
	apperrors "github.com/Kapil218/fullstack-devops/pkg/errors"
)

const maxTitleLength = 500

// EventPublisher publishes todo domain events. Implemented by event.Producer;
// a failure to publish never fails the triggering request.
type EventPublisher interface {
	PublishTodoCreated(ctx context.Context, todo *domain.Todo) error
	PublishTodoCompleted(ctx context.Context, todo *domain.Todo) error
	PublishTodoDeleted(ctx context.Context, todo *domain.Todo) error
}

// TodoService implements the business logic for todo operations. The account
// ID on every method comes from the verified request identity; it is never
// read from client input.
type TodoService struct {
	todos  repository.TodoRepository
	events EventPublisher
	logger *slog.Logger
}

// NewTodoService creates a new todo service.
func NewTodoService(todos repository.TodoRepository, events EventPublisher, logger *slog.Logger) *TodoService {
	return &TodoService{
		todos:  todos,
		events: events,
		logger: logger,
	}
}

// UpdateInput holds the patchable fields of a todo. Nil fields are left
// unchanged.
type UpdateInput struct {
	Title     *string
	Completed *bool
}

// Create adds a new todo for the account.
func (s *TodoService) Create(ctx context.Context, accountID, title string) (*domain.Todo, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperrors.InvalidInput("title is required")
	}
	if len(title) > maxTitleLength {
		return nil, apperrors.InvalidInput(fmt.Sprintf("title must be at most %d characters", maxTitleLength))
	}

	now := time.Now().UTC()
	todo := &domain.Todo{
		ID:        uuid.New().String(),
		AccountID: accountID,
		Title:     title,
		Completed: false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.todos.Create(ctx, todo); err != nil {
		return nil, err
	}

	if err := s.events.PublishTodoCreated(ctx, todo); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish todo.item.created event",
			slog.String("todo_id", todo.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "todo created",
		slog.String("todo_id", todo.ID),
	)

	return todo, nil
}

// List returns all todos owned by the account.
func (s *TodoService) List(ctx context.Context, accountID string) ([]domain.Todo, error) {
	return s.todos.List(ctx, accountID)
}

// Get returns a single todo owned by the account.
func (s *TodoService) Get(ctx context.Context, accountID, id string) (*domain.Todo, error) {
	return s.todos.GetByID(ctx, accountID, id)
}

// Update applies a partial update to a todo owned by the account.
func (s *TodoService) Update(ctx context.Context, accountID, id string, input UpdateInput) (*domain.Todo, error) {
	if input.Title == nil && input.Completed == nil {
		return nil, apperrors.InvalidInput("nothing to update")
	}

	todo, err := s.todos.GetByID(ctx, accountID, id)
	if err != nil {
		return nil, err
	}

	wasCompleted := todo.Completed

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, apperrors.InvalidInput("title must not be empty")
		}
		if len(title) > maxTitleLength {
			return nil, apperrors.InvalidInput(fmt.Sprintf("title must be at most %d characters", maxTitleLength))
		}
		todo.Title = title
	}
	if input.Completed != nil {
		todo.Completed = *input.Completed
	}
	todo.UpdatedAt = time.Now().UTC()

	if err := s.todos.Update(ctx, todo); err != nil {
		return nil, err
	}

	if !wasCompleted && todo.Completed {
		if err := s.events.PublishTodoCompleted(ctx, todo); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish todo.item.completed event",
				slog.String("todo_id", todo.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	return todo, nil
}

// Delete removes a todo owned by the account.
func (s *TodoService) Delete(ctx context.Context, accountID, id string) error {
	todo, err := s.todos.GetByID(ctx, accountID, id)
	if err != nil {
		return err
	}

	if err := s.todos.Delete(ctx, accountID, id); err != nil {
		return err
	}

	if err := s.events.PublishTodoDeleted(ctx, todo); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish todo.item.deleted event",
			slog.String("todo_id", todo.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "todo deleted",
		slog.String("todo_id", todo.ID),
	)

	return nil
}
