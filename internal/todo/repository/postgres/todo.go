package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Kapil218/fullstack-devops/internal/todo/domain"
	"github.com/Kapil218/fullstack-devops/pkg/database"
	apperrors "github.com/Kapil218/fullstack-devops/pkg/errors"
)

// TodoRepository implements repository.TodoRepository using PostgreSQL.
// Every query carries an account_id predicate; there is no code path that
// reads or writes a row across account boundaries.
type TodoRepository struct {
	db database.DBTX
}

// NewTodoRepository creates a new PostgreSQL-backed todo repository.
func NewTodoRepository(db database.DBTX) *TodoRepository {
	return &TodoRepository{db: db}
}

const todoColumns = `id, account_id, title, completed, created_at, updated_at`

// Create inserts a new todo.
func (r *TodoRepository) Create(ctx context.Context, t *domain.Todo) error {
	query := `
		INSERT INTO todos (id, account_id, title, completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, query,
		t.ID,
		t.AccountID,
		t.Title,
		t.Completed,
		t.CreatedAt,
		t.UpdatedAt,
	)
	if err != nil {
		return apperrors.Storage(fmt.Errorf("insert todo: %w", err))
	}

	return nil
}

// List returns all todos owned by the account, newest first.
func (r *TodoRepository) List(ctx context.Context, accountID string) ([]domain.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE account_id = $1 ORDER BY created_at DESC, id`

	rows, err := r.db.Query(ctx, query, accountID)
	if err != nil {
		return nil, apperrors.Storage(fmt.Errorf("list todos: %w", err))
	}
	defer rows.Close()

	todos := make([]domain.Todo, 0)
	for rows.Next() {
		var t domain.Todo
		if err := rows.Scan(&t.ID, &t.AccountID, &t.Title, &t.Completed, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, apperrors.Storage(fmt.Errorf("scan todo: %w", err))
		}
		todos = append(todos, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage(fmt.Errorf("iterate todos: %w", err))
	}

	return todos, nil
}

// GetByID retrieves a todo by ID within the account's scope. A row owned by
// another account is reported as not found.
func (r *TodoRepository) GetByID(ctx context.Context, accountID, id string) (*domain.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = $1 AND account_id = $2`

	var t domain.Todo
	err := r.db.QueryRow(ctx, query, id, accountID).Scan(
		&t.ID,
		&t.AccountID,
		&t.Title,
		&t.Completed,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("todo", id)
		}
		return nil, apperrors.Storage(fmt.Errorf("get todo: %w", err))
	}

	return &t, nil
}

// Update persists the todo's title and completed flag within the account's scope.
func (r *TodoRepository) Update(ctx context.Context, t *domain.Todo) error {
	query := `
		UPDATE todos
		SET title = $1, completed = $2, updated_at = $3
		WHERE id = $4 AND account_id = $5`

	ct, err := r.db.Exec(ctx, query, t.Title, t.Completed, time.Now().UTC(), t.ID, t.AccountID)
	if err != nil {
		return apperrors.Storage(fmt.Errorf("update todo: %w", err))
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("todo", t.ID)
	}

	return nil
}

// Delete removes a todo within the account's scope.
func (r *TodoRepository) Delete(ctx context.Context, accountID, id string) error {
	query := `DELETE FROM todos WHERE id = $1 AND account_id = $2`

	ct, err := r.db.Exec(ctx, query, id, accountID)
	if err != nil {
		return apperrors.Storage(fmt.Errorf("delete todo: %w", err))
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("todo", id)
	}

	return nil
}
