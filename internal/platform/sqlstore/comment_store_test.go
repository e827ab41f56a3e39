package sqlstore_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/sqlstore"
	"github.com/phrazzld/tasks-api/internal/store"
	"github.com/phrazzld/tasks-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type commentFixture struct {
	db       *sql.DB
	tasks    *sqlstore.SQLTaskStore
	comments *sqlstore.SQLCommentStore
	task     *domain.Task
}

func newCommentFixture(t *testing.T) commentFixture {
	t.Helper()
	db := testdb.NewSQLite(t)
	f := commentFixture{
		db:       db,
		tasks:    sqlstore.NewSQLTaskStore(db, nil),
		comments: sqlstore.NewSQLCommentStore(db, nil),
		task:     mustTask(t, "Parent", ""),
	}
	require.NoError(t, f.tasks.Create(context.Background(), f.task))
	return f
}

func mustComment(t *testing.T, taskID int64, body string) *domain.Comment {
	t.Helper()
	c, err := domain.NewComment(taskID, body, domain.Optional[string]{})
	require.NoError(t, err)
	return c
}

func TestSQLCommentStore_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	f := newCommentFixture(t)

	c, err := domain.NewComment(f.task.ID, "First comment", domain.Some("tester"))
	require.NoError(t, err)
	require.NoError(t, f.comments.Create(ctx, c))
	assert.Positive(t, c.ID)

	got, err := f.comments.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, f.task.ID, got.TaskID)
	assert.Equal(t, "First comment", got.Body)
	assert.Equal(t, "tester", got.Author)
	assert.WithinDuration(t, c.CreatedAt, got.CreatedAt, time.Millisecond)
	assert.Equal(t, got.CreatedAt, got.UpdatedAt)

	anon := mustComment(t, f.task.ID, "no author")
	require.NoError(t, f.comments.Create(ctx, anon))
	got, err = f.comments.GetByID(ctx, anon.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCommentAuthor, got.Author)
}

func TestSQLCommentStore_CreateForMissingTask(t *testing.T) {
	ctx := context.Background()
	f := newCommentFixture(t)

	err := f.comments.Create(ctx, mustComment(t, 404, "orphan"))
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	list, err := f.comments.ListByTask(ctx, 404)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSQLCommentStore_GetByIDNotFound(t *testing.T) {
	f := newCommentFixture(t)

	_, err := f.comments.GetByID(context.Background(), 7)
	assert.ErrorIs(t, err, store.ErrCommentNotFound)
}

func TestSQLCommentStore_ListByTaskOldestFirst(t *testing.T) {
	ctx := context.Background()
	f := newCommentFixture(t)

	other := mustTask(t, "Other", "")
	require.NoError(t, f.tasks.Create(ctx, other))
	require.NoError(t, f.comments.Create(ctx, mustComment(t, other.ID, "elsewhere")))

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, body := range []string{"one", "two", "three"} {
		c := mustComment(t, f.task.ID, body)
		c.CreatedAt = base.Add(time.Duration(i) * time.Second)
		c.UpdatedAt = c.CreatedAt
		require.NoError(t, f.comments.Create(ctx, c))
	}

	list, err := f.comments.ListByTask(ctx, f.task.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "one", list[0].Body)
	assert.Equal(t, "two", list[1].Body)
	assert.Equal(t, "three", list[2].Body)
	for _, c := range list {
		assert.Equal(t, f.task.ID, c.TaskID)
	}
}

func TestSQLCommentStore_UpdateAllowsEmptyValues(t *testing.T) {
	ctx := context.Background()
	f := newCommentFixture(t)

	c := mustComment(t, f.task.ID, "before")
	require.NoError(t, f.comments.Create(ctx, c))

	later := c.CreatedAt.Add(time.Minute)
	require.NoError(t, c.Apply(domain.CommentUpdate{
		Body:   domain.Some(""),
		Author: domain.Some(""),
	}, later))
	require.NoError(t, f.comments.Update(ctx, c))

	got, err := f.comments.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Body)
	assert.Empty(t, got.Author)
	assert.WithinDuration(t, later, got.UpdatedAt, time.Millisecond)
	assert.WithinDuration(t, c.CreatedAt, got.CreatedAt, time.Millisecond)

	ghost := mustComment(t, f.task.ID, "ghost")
	ghost.ID = 999
	assert.ErrorIs(t, f.comments.Update(ctx, ghost), store.ErrCommentNotFound)
}

func TestSQLCommentStore_Delete(t *testing.T) {
	ctx := context.Background()
	f := newCommentFixture(t)

	c := mustComment(t, f.task.ID, "bye")
	require.NoError(t, f.comments.Create(ctx, c))

	require.NoError(t, f.comments.Delete(ctx, c.ID))
	assert.ErrorIs(t, f.comments.Delete(ctx, c.ID), store.ErrCommentNotFound)
}

func TestSQLCommentStore_DeleteByTask(t *testing.T) {
	ctx := context.Background()
	f := newCommentFixture(t)

	for _, body := range []string{"a", "b"} {
		require.NoError(t, f.comments.Create(ctx, mustComment(t, f.task.ID, body)))
	}

	n, err := f.comments.DeleteByTask(ctx, f.task.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = f.comments.DeleteByTask(ctx, f.task.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSchemaCascadeRemovesComments(t *testing.T) {
	ctx := context.Background()
	f := newCommentFixture(t)

	c := mustComment(t, f.task.ID, "cascaded")
	require.NoError(t, f.comments.Create(ctx, c))

	// Deleting the task directly relies on ON DELETE CASCADE.
	require.NoError(t, f.tasks.Delete(ctx, f.task.ID))

	_, err := f.comments.GetByID(ctx, c.ID)
	assert.ErrorIs(t, err, store.ErrCommentNotFound)
}
