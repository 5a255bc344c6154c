package conversations

import (
	"context"
	"database/sql"
	"errors"

	"github.com/quiltchat/quilt/internal/client/models"
	"github.com/quiltchat/quilt/internal/common"
	"github.com/quiltchat/quilt/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Upsert(ctx context.Context, c *models.Conversation) error {
	query := `INSERT INTO conversations (id, title, user_id, project_id, pinned, generating, cost_usd, is_public, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET title = excluded.title,
				user_id = excluded.user_id,
				project_id = excluded.project_id,
				pinned = excluded.pinned,
				generating = excluded.generating,
				cost_usd = excluded.cost_usd,
				is_public = excluded.is_public,
				created_at = excluded.created_at,
				updated_at = excluded.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.Title, c.UserID, dbx.NullString(c.ProjectID), c.Pinned, c.Generating,
		dbx.NullFloat(c.CostUSD), c.IsPublic, dbx.Micros(c.CreatedAt), dbx.Micros(c.UpdatedAt))
	if err != nil {
		return common.WrapStore("upserting conversation", err)
	}
	return nil
}

const selectColumns = `id, title, user_id, project_id, pinned, generating, cost_usd, is_public, created_at, updated_at`

func scanConversation(row interface{ Scan(...any) error }) (*models.Conversation, error) {
	c := &models.Conversation{}
	var projectID sql.NullString
	var costUSD sql.NullFloat64
	var createdAt, updatedAt int64
	err := row.Scan(&c.ID, &c.Title, &c.UserID, &projectID, &c.Pinned, &c.Generating,
		&costUSD, &c.IsPublic, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	c.ProjectID = dbx.StringPtr(projectID)
	c.CostUSD = dbx.FloatPtr(costUSD)
	c.CreatedAt = dbx.TimeFromMicros(createdAt)
	c.UpdatedAt = dbx.TimeFromMicros(updatedAt)
	return c, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Conversation, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM conversations WHERE id = ?`, id)
	c, err := scanConversation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, common.WrapStore("getting conversation", err)
	}
	return c, nil
}

func (r *SQLiteRepository) list(ctx context.Context, query string, args ...any) ([]*models.Conversation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, common.WrapStore("listing conversations", err)
	}
	defer rows.Close()

	var result []*models.Conversation
	for rows.Next() {
		c, err := scanConversation(rows)
		if err != nil {
			return nil, common.WrapStore("scanning conversation", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, common.WrapStore("iterating conversations", err)
	}
	return result, nil
}

// ListByUser returns conversations owned by userID, pinned first, most
// recently updated first within each group.
func (r *SQLiteRepository) ListByUser(ctx context.Context, userID string) ([]*models.Conversation, error) {
	return r.list(ctx, `SELECT `+selectColumns+` FROM conversations WHERE user_id = ? ORDER BY pinned DESC, updated_at DESC`, userID)
}

func (r *SQLiteRepository) ListByProject(ctx context.Context, projectID string) ([]*models.Conversation, error) {
	return r.list(ctx, `SELECT `+selectColumns+` FROM conversations WHERE project_id = ? ORDER BY updated_at DESC`, projectID)
}

func (r *SQLiteRepository) IDsByUser(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM conversations WHERE user_id = ?`, userID)
	if err != nil {
		return nil, common.WrapStore("listing conversation ids", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, common.WrapStore("scanning conversation id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, common.WrapStore("iterating conversation ids", err)
	}
	return ids, nil
}

func (r *SQLiteRepository) SetPinned(ctx context.Context, id string, pinned bool) error {
	return r.setFlag(ctx, `UPDATE conversations SET pinned = ? WHERE id = ?`, pinned, id)
}

func (r *SQLiteRepository) SetGenerating(ctx context.Context, id string, generating bool) error {
	return r.setFlag(ctx, `UPDATE conversations SET generating = ? WHERE id = ?`, generating, id)
}

func (r *SQLiteRepository) setFlag(ctx context.Context, query string, value bool, id string) error {
	res, err := r.db.ExecContext(ctx, query, value, id)
	if err != nil {
		return common.WrapStore("updating conversation flag", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return common.WrapStore("getting rows affected", err)
	}
	if ra == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM conversations WHERE id = ?`, id)
	if err != nil {
		return common.WrapStore("deleting conversation", err)
	}
	return nil
}
