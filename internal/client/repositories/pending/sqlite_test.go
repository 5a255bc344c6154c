package pending

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quiltchat/quilt/internal/client/models"
	"github.com/quiltchat/quilt/internal/common"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE pending_messages (
  correlation_id TEXT PRIMARY KEY,
  conversation_id TEXT NOT NULL,
  content TEXT NOT NULL,
  state TEXT NOT NULL DEFAULT 'pending',
  error TEXT,
  created_at INTEGER NOT NULL
);`)
	require.NoError(t, err)
	return db
}

func queued(correlationID, conversationID string, at time.Time) *models.PendingMessage {
	return &models.PendingMessage{
		CorrelationID:  correlationID,
		ConversationID: conversationID,
		Content:        "hello",
		State:          models.PendingStatePending,
		CreatedAt:      at,
	}
}

func TestEnqueueAndGet(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	want := queued("corr-1", "c1", time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, r.Enqueue(ctx, want))

	got, err := r.Get(ctx, "corr-1")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestGet_NotFound(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	_, err := r.Get(context.Background(), "absent")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestListByConversation_OldestFirst(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	base := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, r.Enqueue(ctx, queued("corr-2", "c1", base.Add(time.Minute))))
	require.NoError(t, r.Enqueue(ctx, queued("corr-1", "c1", base)))
	require.NoError(t, r.Enqueue(ctx, queued("corr-3", "c2", base)))

	list, err := r.ListByConversation(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "corr-1", list[0].CorrelationID)
	assert.Equal(t, "corr-2", list[1].CorrelationID)
}

func TestHead_SkipsResolvedEntries(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	base := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, r.Enqueue(ctx, queued("corr-1", "c1", base)))
	require.NoError(t, r.Enqueue(ctx, queued("corr-2", "c1", base.Add(time.Minute))))

	require.NoError(t, r.MarkConfirmed(ctx, "corr-1"))

	head, err := r.Head(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "corr-2", head.CorrelationID)
}

func TestHead_EmptyQueueReturnsNotFound(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	_, err := r.Head(context.Background(), "c1")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestMarkFailed_RecordsError(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Enqueue(ctx, queued("corr-1", "c1", time.Now().UTC())))
	require.NoError(t, r.MarkFailed(ctx, "corr-1", "request timed out"))

	got, err := r.Get(ctx, "corr-1")
	require.NoError(t, err)
	assert.Equal(t, models.PendingStateFailed, got.State)
	require.NotNil(t, got.Error)
	assert.Equal(t, "request timed out", *got.Error)
}

func TestMarkConfirmed_MissingRowReturnsNotFound(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	err := r.MarkConfirmed(context.Background(), "absent")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestMark_ResolvedEntriesStayResolved(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Enqueue(ctx, queued("corr-1", "c1", time.Now().UTC())))
	require.NoError(t, r.MarkFailed(ctx, "corr-1", "boom"))

	err := r.MarkConfirmed(ctx, "corr-1")
	require.ErrorIs(t, err, common.ErrNotFound)

	got, err := r.Get(ctx, "corr-1")
	require.NoError(t, err)
	assert.Equal(t, models.PendingStateFailed, got.State)
}

func TestDeleteAndDeleteByConversation(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	base := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, r.Enqueue(ctx, queued("corr-1", "c1", base)))
	require.NoError(t, r.Enqueue(ctx, queued("corr-2", "c1", base)))
	require.NoError(t, r.Enqueue(ctx, queued("corr-3", "c2", base)))

	require.NoError(t, r.Delete(ctx, "corr-1"))
	_, err := r.Get(ctx, "corr-1")
	require.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, r.DeleteByConversation(ctx, "c1"))
	list, err := r.ListByConversation(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, list)

	kept, err := r.ListByConversation(ctx, "c2")
	require.NoError(t, err)
	assert.Len(t, kept, 1)
}
