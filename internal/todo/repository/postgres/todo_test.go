package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kapil218/fullstack-devops/internal/todo/domain"
	"github.com/Kapil218/fullstack-devops/pkg/database"
	apperrors "github.com/Kapil218/fullstack-devops/pkg/errors"
)

func newTodoTestFixture(t *testing.T) (*TodoRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewTodoRepository(mock)
	return repo, mock
}

func sampleTodo() *domain.Todo {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Todo{
		ID:        "todo-1234",
		AccountID: "acct-1234",
		Title:     "write release notes",
		Completed: false,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func todoColumnNames() []string {
	return []string{"id", "account_id", "title", "completed", "created_at", "updated_at"}
}

func todoRow(t *domain.Todo) *pgxmock.Rows {
	return pgxmock.NewRows(todoColumnNames()).AddRow(
		t.ID, t.AccountID, t.Title, t.Completed, t.CreatedAt, t.UpdatedAt,
	)
}

func TestTodoRepository_Create_Success(t *testing.T) {
	repo, mock := newTodoTestFixture(t)
	defer mock.Close()

	td := sampleTodo()

	mock.ExpectExec("INSERT INTO todos").
		WithArgs(td.ID, td.AccountID, td.Title, td.Completed, td.CreatedAt, td.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), td)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTodoRepository_Create_StorageError(t *testing.T) {
	repo, mock := newTodoTestFixture(t)
	defer mock.Close()

	td := sampleTodo()

	mock.ExpectExec("INSERT INTO todos").
		WithArgs(td.ID, td.AccountID, td.Title, td.Completed, td.CreatedAt, td.UpdatedAt).
		WillReturnError(errors.New("connection refused"))

	err := repo.Create(context.Background(), td)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrStorage)
}

func TestTodoRepository_List_ScopedToAccount(t *testing.T) {
	repo, mock := newTodoTestFixture(t)
	defer mock.Close()

	td := sampleTodo()

	mock.ExpectQuery("SELECT (.+) FROM todos WHERE account_id").
		WithArgs(td.AccountID).
		WillReturnRows(todoRow(td))

	todos, err := repo.List(context.Background(), td.AccountID)

	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, td.ID, todos[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTodoRepository_List_Empty(t *testing.T) {
	repo, mock := newTodoTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT (.+) FROM todos WHERE account_id").
		WithArgs("acct-other").
		WillReturnRows(pgxmock.NewRows(todoColumnNames()))

	todos, err := repo.List(context.Background(), "acct-other")

	require.NoError(t, err)
	assert.NotNil(t, todos)
	assert.Empty(t, todos)
}

func TestTodoRepository_GetByID_Success(t *testing.T) {
	repo, mock := newTodoTestFixture(t)
	defer mock.Close()

	td := sampleTodo()

	mock.ExpectQuery("SELECT (.+) FROM todos WHERE id").
		WithArgs(td.ID, td.AccountID).
		WillReturnRows(todoRow(td))

	got, err := repo.GetByID(context.Background(), td.AccountID, td.ID)

	require.NoError(t, err)
	assert.Equal(t, td.Title, got.Title)
}

func TestTodoRepository_GetByID_OtherAccountNotFound(t *testing.T) {
	repo, mock := newTodoTestFixture(t)
	defer mock.Close()

	td := sampleTodo()

	// The ownership predicate means a foreign row scans as zero rows.
	mock.ExpectQuery("SELECT (.+) FROM todos WHERE id").
		WithArgs(td.ID, "acct-intruder").
		WillReturnRows(pgxmock.NewRows(todoColumnNames()))

	got, err := repo.GetByID(context.Background(), "acct-intruder", td.ID)

	require.Error(t, err)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestTodoRepository_Update_Success(t *testing.T) {
	repo, mock := newTodoTestFixture(t)
	defer mock.Close()

	td := sampleTodo()
	td.Completed = true

	mock.ExpectExec("UPDATE todos").
		WithArgs(td.Title, td.Completed, pgxmock.AnyArg(), td.ID, td.AccountID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.Update(context.Background(), td)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTodoRepository_Update_OtherAccountNotFound(t *testing.T) {
	repo, mock := newTodoTestFixture(t)
	defer mock.Close()

	td := sampleTodo()
	td.AccountID = "acct-intruder"

	mock.ExpectExec("UPDATE todos").
		WithArgs(td.Title, td.Completed, pgxmock.AnyArg(), td.ID, td.AccountID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), td)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestTodoRepository_Delete_Success(t *testing.T) {
	repo, mock := newTodoTestFixture(t)
	defer mock.Close()

	td := sampleTodo()

	mock.ExpectExec("DELETE FROM todos").
		WithArgs(td.ID, td.AccountID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := repo.Delete(context.Background(), td.AccountID, td.ID)

	require.NoError(t, err)
}

func TestTodoRepository_Delete_OtherAccountNotFound(t *testing.T) {
	repo, mock := newTodoTestFixture(t)
	defer mock.Close()

	td := sampleTodo()

	mock.ExpectExec("DELETE FROM todos").
		WithArgs(td.ID, "acct-intruder").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), "acct-intruder", td.ID)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
