package settings

import (
	"context"
	"database/sql"
	"errors"

	"github.com/quiltchat/quilt/internal/client/dto"
	"github.com/quiltchat/quilt/internal/client/models"
	"github.com/quiltchat/quilt/internal/common"
	"github.com/quiltchat/quilt/internal/dbx"
)

// SQLiteRepository stores the settings record as its wire JSON plus indexed
// id/user columns. Settings are a singleton per user and change rarely, so a
// payload column beats two dozen scalar columns here.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Upsert(ctx context.Context, s *models.UserSettings) error {
	payload, err := dto.EncodeUserSettings(s)
	if err != nil {
		return common.WrapStore("encoding settings", err)
	}

	query := `INSERT INTO user_settings (id, user_id, payload, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(user_id) DO UPDATE SET id = excluded.id,
				payload = excluded.payload,
				created_at = excluded.created_at,
				updated_at = excluded.updated_at
	`
	_, err = r.db.ExecContext(ctx, query,
		s.ID, s.UserID, string(payload), dbx.Micros(s.CreatedAt), dbx.Micros(s.UpdatedAt))
	if err != nil {
		return common.WrapStore("upserting settings", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByUser(ctx context.Context, userID string) (*models.UserSettings, error) {
	var payload string
	err := r.db.QueryRowContext(ctx, `SELECT payload FROM user_settings WHERE user_id = ?`, userID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, common.WrapStore("getting settings", err)
	}

	s, err := dto.DecodeUserSettings([]byte(payload))
	if err != nil {
		return nil, common.WrapStore("decoding settings", err)
	}
	return s, nil
}

func (r *SQLiteRepository) DeleteByUser(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM user_settings WHERE user_id = ?`, userID)
	if err != nil {
		return common.WrapStore("deleting settings", err)
	}
	return nil
}
