package pending

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

func (r *SQLiteRepository) Enqueue(ctx context.Context, m *models.PendingMessage) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pending_messages (correlation_id, conversation_id, content, state, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, m.CorrelationID, m.ConversationID, m.Content, string(m.State), dbx.NullString(m.Error), dbx.Micros(m.CreatedAt))
	if err != nil {
		return common.WrapStore("enqueueing pending message", err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, correlationID string) (*models.PendingMessage, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT correlation_id, conversation_id, content, state, error, created_at
		FROM pending_messages WHERE correlation_id = ?
	`, correlationID)
	return scanPending(row)
}

func (r *SQLiteRepository) ListByConversation(ctx context.Context, conversationID string) ([]*models.PendingMessage, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT correlation_id, conversation_id, content, state, error, created_at
		FROM pending_messages WHERE conversation_id = ? ORDER BY created_at, rowid
	`, conversationID)
	if err != nil {
		return nil, common.WrapStore("listing pending messages", err)
	}
	defer rows.Close()

	var result []*models.PendingMessage
	for rows.Next() {
		m, err := scanPending(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, common.WrapStore("iterating pending messages", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Head(ctx context.Context, conversationID string) (*models.PendingMessage, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT correlation_id, conversation_id, content, state, error, created_at
		FROM pending_messages
		WHERE conversation_id = ? AND state = ?
		ORDER BY created_at, rowid LIMIT 1
	`, conversationID, string(models.PendingStatePending))
	return scanPending(row)
}

func (r *SQLiteRepository) MarkConfirmed(ctx context.Context, correlationID string) error {
	return r.setState(ctx, correlationID, models.PendingStateConfirmed, nil)
}

func (r *SQLiteRepository) MarkFailed(ctx context.Context, correlationID string, errMsg string) error {
	return r.setState(ctx, correlationID, models.PendingStateFailed, &errMsg)
}

func (r *SQLiteRepository) setState(ctx context.Context, correlationID string, state models.PendingState, errMsg *string) error {
	// resolved entries stay resolved; only pending rows may transition
	res, err := r.db.ExecContext(ctx, `
		UPDATE pending_messages SET state = ?, error = ? WHERE correlation_id = ? AND state = ?
	`, string(state), dbx.NullString(errMsg), correlationID, string(models.PendingStatePending))
	if err != nil {
		return common.WrapStore("updating pending message state", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return common.WrapStore("updating pending message state", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, correlationID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM pending_messages WHERE correlation_id = ?`, correlationID)
	if err != nil {
		return common.WrapStore("deleting pending message", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteByConversation(ctx context.Context, conversationID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM pending_messages WHERE conversation_id = ?`, conversationID)
	if err != nil {
		return common.WrapStore("deleting pending messages", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPending(row rowScanner) (*models.PendingMessage, error) {
	var m models.PendingMessage
	var state string
	var errMsg sql.NullString
	var createdAt int64

	err := row.Scan(&m.CorrelationID, &m.ConversationID, &m.Content, &state, &errMsg, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, common.WrapStore("scanning pending message", err)
	}

	m.State = models.PendingState(state)
	m.Error = dbx.StringPtr(errMsg)
	m.CreatedAt = dbx.TimeFromMicros(createdAt)
	return &m, nil
}
