package assistants

import (
	"context"
	"database/sql"
	"errors"

	"github.com/quiltchat/quilt/internal/client/models"
	"github.com/quiltchat/quilt/internal/common"
	"github.com/quiltchat/quilt/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Upsert(ctx context.Context, a *models.Assistant) error {
	query := `INSERT INTO assistants (id, name, description, system_prompt, is_default, default_model_id, default_web_search_mode, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET name = excluded.name,
				description = excluded.description,
				system_prompt = excluded.system_prompt,
				is_default = excluded.is_default,
				default_model_id = excluded.default_model_id,
				default_web_search_mode = excluded.default_web_search_mode,
				created_at = excluded.created_at,
				updated_at = excluded.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.Name, dbx.NullString(a.Description), a.SystemPrompt, a.IsDefault,
		dbx.NullString(a.DefaultModelID), dbx.NullString(a.DefaultWebSearchMode),
		dbx.Micros(a.CreatedAt), dbx.Micros(a.UpdatedAt))
	if err != nil {
		return common.WrapStore("upserting assistant", err)
	}
	return nil
}

func scanAssistant(row interface{ Scan(...any) error }) (*models.Assistant, error) {
	a := &models.Assistant{}
	var description, defaultModelID, defaultWebSearchMode sql.NullString
	var createdAt, updatedAt int64
	err := row.Scan(&a.ID, &a.Name, &description, &a.SystemPrompt, &a.IsDefault,
		&defaultModelID, &defaultWebSearchMode, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	a.Description = dbx.StringPtr(description)
	a.DefaultModelID = dbx.StringPtr(defaultModelID)
	a.DefaultWebSearchMode = dbx.StringPtr(defaultWebSearchMode)
	a.CreatedAt = dbx.TimeFromMicros(createdAt)
	a.UpdatedAt = dbx.TimeFromMicros(updatedAt)
	return a, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Assistant, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, system_prompt, is_default, default_model_id, default_web_search_mode, created_at, updated_at
		 FROM assistants WHERE id = ?`, id)
	a, err := scanAssistant(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, common.WrapStore("getting assistant", err)
	}
	return a, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]*models.Assistant, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, system_prompt, is_default, default_model_id, default_web_search_mode, created_at, updated_at
		 FROM assistants ORDER BY is_default DESC, name`)
	if err != nil {
		return nil, common.WrapStore("listing assistants", err)
	}
	defer rows.Close()

	var result []*models.Assistant
	for rows.Next() {
		a, err := scanAssistant(rows)
		if err != nil {
			return nil, common.WrapStore("scanning assistant", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, common.WrapStore("iterating assistants", err)
	}
	return result, nil
}

func (r *SQLiteRepository) IDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM assistants`)
	if err != nil {
		return nil, common.WrapStore("listing assistant ids", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, common.WrapStore("scanning assistant id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, common.WrapStore("iterating assistant ids", err)
	}
	return ids, nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM assistants WHERE id = ?`, id)
	if err != nil {
		return common.WrapStore("deleting assistant", err)
	}
	return nil
}
