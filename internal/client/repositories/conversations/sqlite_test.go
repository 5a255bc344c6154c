package conversations

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
CREATE TABLE conversations (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  user_id TEXT NOT NULL,
  project_id TEXT,
  pinned INTEGER NOT NULL DEFAULT 0,
  generating INTEGER NOT NULL DEFAULT 0,
  cost_usd REAL,
  is_public INTEGER NOT NULL DEFAULT 0,
  created_at INTEGER NOT NULL,
  updated_at INTEGER NOT NULL
);`)
	require.NoError(t, err)
	return db
}

func sampleConversation(id string) *models.Conversation {
	cost := 0.42
	project := "p1"
	return &models.Conversation{
		ID:        id,
		Title:     "Trip planning",
		UserID:    "u1",
		ProjectID: &project,
		Pinned:    false,
		CostUSD:   &cost,
		CreatedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC),
	}
}

func TestUpsert_InsertThenGet(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	want := sampleConversation("c1")
	require.NoError(t, r.Upsert(ctx, want))

	got, err := r.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestUpsert_SecondWriteOverwrites(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	c := sampleConversation("c1")
	require.NoError(t, r.Upsert(ctx, c))

	c.Title = "Renamed"
	c.ProjectID = nil
	c.Pinned = true
	require.NoError(t, r.Upsert(ctx, c))

	got, err := r.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	assert.Nil(t, got.ProjectID)
	assert.True(t, got.Pinned)
}

func TestUpsert_SameRecordTwiceIsIdempotent(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	want := sampleConversation("c1")
	require.NoError(t, r.Upsert(ctx, want))
	require.NoError(t, r.Upsert(ctx, want))

	got, err := r.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	list, err := r.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestGetByID_NotFound(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	_, err := r.GetByID(context.Background(), "absent")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestListByUser_PinnedFirstThenRecency(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	old := sampleConversation("old")
	old.UpdatedAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := sampleConversation("recent")
	recent.UpdatedAt = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	pinned := sampleConversation("pinned")
	pinned.Pinned = true
	pinned.UpdatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	other := sampleConversation("other-user")
	other.UserID = "u2"

	for _, c := range []*models.Conversation{old, recent, pinned, other} {
		require.NoError(t, r.Upsert(ctx, c))
	}

	list, err := r.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "pinned", list[0].ID)
	assert.Equal(t, "recent", list[1].ID)
	assert.Equal(t, "old", list[2].ID)
}

func TestListByProject_FiltersOnProject(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	inProject := sampleConversation("c1")
	detached := sampleConversation("c2")
	detached.ProjectID = nil
	require.NoError(t, r.Upsert(ctx, inProject))
	require.NoError(t, r.Upsert(ctx, detached))

	list, err := r.ListByProject(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "c1", list[0].ID)
}

func TestIDsByUser(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Upsert(ctx, sampleConversation("c1")))
	require.NoError(t, r.Upsert(ctx, sampleConversation("c2")))

	ids, err := r.IDsByUser(ctx, "u1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"c1", "c2"}, ids)
}

func TestSetPinned_UpdatesFlag(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Upsert(ctx, sampleConversation("c1")))
	require.NoError(t, r.SetPinned(ctx, "c1", true))

	got, err := r.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, got.Pinned)
}

func TestSetPinned_MissingRowReturnsNotFound(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	err := r.SetPinned(context.Background(), "absent", true)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestSetGenerating_UpdatesFlag(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Upsert(ctx, sampleConversation("c1")))
	require.NoError(t, r.SetGenerating(ctx, "c1", true))

	got, err := r.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, got.Generating)
}

func TestDeleteByID(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Upsert(ctx, sampleConversation("c1")))
	require.NoError(t, r.DeleteByID(ctx, "c1"))

	_, err := r.GetByID(ctx, "c1")
	require.ErrorIs(t, err, common.ErrNotFound)

	// deleting again is a no-op
	require.NoError(t, r.DeleteByID(ctx, "c1"))
}
