package repository

import (
	"context"

	"github.com/Kapil218/fullstack-devops/internal/todo/domain"
)

// TodoRepository defines the interface for todo persistence operations.
// Every method is scoped to an account ID: a todo owned by a different
// account is indistinguishable from one that does not exist.
type TodoRepository interface {
	// Create inserts a new todo for the given account.
	Create(ctx context.Context, todo *domain.Todo) error

	// List returns all todos owned by the account, newest first.
	List(ctx context.Context, accountID string) ([]domain.Todo, error)

	// GetByID retrieves a todo by ID, restricted to the given account.
	// A todo owned by another account returns a not-found error.
	GetByID(ctx context.Context, accountID, id string) (*domain.Todo, error)

	// Update persists the todo's title and completed flag, restricted to
	// the given account. A non-owned todo returns a not-found error.
	Update(ctx context.Context, todo *domain.Todo) error

	// Delete removes a todo, restricted to the given account. A non-owned
	// todo returns a not-found error.
	Delete(ctx context.Context, accountID, id string) error
}
