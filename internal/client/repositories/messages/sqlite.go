package messages

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/quiltchat/quilt/internal/client/models"
	"github.com/quiltchat/quilt/internal/common"
	"github.com/quiltchat/quilt/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
// Multi-statement operations (upsert with attachments, cascade deletes) are
// only atomic when the repository is bound to a transaction; the store layer
// takes care of that.
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Upsert(ctx context.Context, m *models.Message) error {
	var followUps sql.NullString
	if m.FollowUpSuggestions != nil {
		b, err := json.Marshal(m.FollowUpSuggestions)
		if err != nil {
			return common.WrapStore("marshaling follow-up suggestions", err)
		}
		followUps = sql.NullString{String: string(b), Valid: true}
	}

	query := `INSERT INTO messages (id, conversation_id, role, content, content_html, model_id, reasoning, starred, created_at, updated_at, follow_up_suggestions)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET conversation_id = excluded.conversation_id,
				role = excluded.role,
				content = excluded.content,
				content_html = excluded.content_html,
				model_id = excluded.model_id,
				reasoning = excluded.reasoning,
				starred = excluded.starred,
				created_at = excluded.created_at,
				updated_at = excluded.updated_at,
				follow_up_suggestions = excluded.follow_up_suggestions
	`
	_, err := r.db.ExecContext(ctx, query,
		m.ID, m.ConversationID, string(m.Role), m.Content,
		dbx.NullString(m.ContentHTML), dbx.NullString(m.ModelID), dbx.NullString(m.Reasoning),
		m.Starred, dbx.Micros(m.CreatedAt), dbx.NullMicros(m.UpdatedAt), followUps)
	if err != nil {
		return common.WrapStore("upserting message", err)
	}

	// replace, not merge: attachment rows always mirror the latest record
	if _, err := r.db.ExecContext(ctx, `DELETE FROM images WHERE message_id = ?`, m.ID); err != nil {
		return common.WrapStore("clearing images", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE message_id = ?`, m.ID); err != nil {
		return common.WrapStore("clearing documents", err)
	}
	for _, img := range m.Images {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO images (id, message_id, url, storage_id, file_name) VALUES (?, ?, ?, ?, ?)`,
			img.ID, m.ID, img.URL, img.StorageID, dbx.NullString(img.FileName))
		if err != nil {
			return common.WrapStore("inserting image", err)
		}
	}
	for _, doc := range m.Documents {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO documents (id, message_id, url, storage_id, file_name, file_type) VALUES (?, ?, ?, ?, ?, ?)`,
			doc.ID, m.ID, doc.URL, doc.StorageID, dbx.NullString(doc.FileName), doc.FileType)
		if err != nil {
			return common.WrapStore("inserting document", err)
		}
	}
	return nil
}

const selectColumns = `id, conversation_id, role, content, content_html, model_id, reasoning, starred, created_at, updated_at, follow_up_suggestions`

func scanMessage(row interface{ Scan(...any) error }) (*models.Message, error) {
	m := &models.Message{}
	var role string
	var contentHTML, modelID, reasoning, followUps sql.NullString
	var createdAt int64
	var updatedAt sql.NullInt64
	err := row.Scan(&m.ID, &m.ConversationID, &role, &m.Content, &contentHTML, &modelID,
		&reasoning, &m.Starred, &createdAt, &updatedAt, &followUps)
	if err != nil {
		return nil, err
	}
	m.Role = models.Role(role)
	m.ContentHTML = dbx.StringPtr(contentHTML)
	m.ModelID = dbx.StringPtr(modelID)
	m.Reasoning = dbx.StringPtr(reasoning)
	m.CreatedAt = dbx.TimeFromMicros(createdAt)
	m.UpdatedAt = dbx.TimePtr(updatedAt)
	if followUps.Valid {
		if err := json.Unmarshal([]byte(followUps.String), &m.FollowUpSuggestions); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Message, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM messages WHERE id = ?`, id)
	m, err := scanMessage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, common.WrapStore("getting message", err)
	}
	if err := r.loadAttachments(ctx, []*models.Message{m}); err != nil {
		return nil, err
	}
	return m, nil
}

// ListByConversation returns messages in insertion order (rowid order, which
// sqlite preserves across upserts).
func (r *SQLiteRepository) ListByConversation(ctx context.Context, conversationID string) ([]*models.Message, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM messages WHERE conversation_id = ? ORDER BY rowid`, conversationID)
	if err != nil {
		return nil, common.WrapStore("listing messages", err)
	}
	defer rows.Close()

	var result []*models.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, common.WrapStore("scanning message", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, common.WrapStore("iterating messages", err)
	}
	if err := r.loadAttachments(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) loadAttachments(ctx context.Context, msgs []*models.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	byID := make(map[string]*models.Message, len(msgs))
	for _, m := range msgs {
		byID[m.ID] = m
	}

	imgRows, err := r.db.QueryContext(ctx,
		`SELECT i.id, i.message_id, i.url, i.storage_id, i.file_name
		 FROM images i JOIN messages m ON m.id = i.message_id
		 WHERE m.conversation_id = (SELECT conversation_id FROM messages WHERE id = ?)
		 ORDER BY i.rowid`, msgs[0].ID)
	if err != nil {
		return common.WrapStore("listing images", err)
	}
	defer imgRows.Close()
	for imgRows.Next() {
		var img models.Image
		var fileName sql.NullString
		if err := imgRows.Scan(&img.ID, &img.MessageID, &img.URL, &img.StorageID, &fileName); err != nil {
			return common.WrapStore("scanning image", err)
		}
		img.FileName = dbx.StringPtr(fileName)
		if m, ok := byID[img.MessageID]; ok {
			m.Images = append(m.Images, img)
		}
	}
	if err := imgRows.Err(); err != nil {
		return common.WrapStore("iterating images", err)
	}

	docRows, err := r.db.QueryContext(ctx,
		`SELECT d.id, d.message_id, d.url, d.storage_id, d.file_name, d.file_type
		 FROM documents d JOIN messages m ON m.id = d.message_id
		 WHERE m.conversation_id = (SELECT conversation_id FROM messages WHERE id = ?)
		 ORDER BY d.rowid`, msgs[0].ID)
	if err != nil {
		return common.WrapStore("listing documents", err)
	}
	defer docRows.Close()
	for docRows.Next() {
		var doc models.Document
		var fileName sql.NullString
		if err := docRows.Scan(&doc.ID, &doc.MessageID, &doc.URL, &doc.StorageID, &fileName, &doc.FileType); err != nil {
			return common.WrapStore("scanning document", err)
		}
		doc.FileName = dbx.StringPtr(fileName)
		if m, ok := byID[doc.MessageID]; ok {
			m.Documents = append(m.Documents, doc)
		}
	}
	if err := docRows.Err(); err != nil {
		return common.WrapStore("iterating documents", err)
	}
	return nil
}

func (r *SQLiteRepository) IDsByConversation(ctx context.Context, conversationID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM messages WHERE conversation_id = ?`, conversationID)
	if err != nil {
		return nil, common.WrapStore("listing message ids", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, common.WrapStore("scanning message id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, common.WrapStore("iterating message ids", err)
	}
	return ids, nil
}

func (r *SQLiteRepository) SetStarred(ctx context.Context, id string, starred bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE messages SET starred = ? WHERE id = ?`, starred, id)
	if err != nil {
		return common.WrapStore("updating starred flag", err)
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

func (r *SQLiteRepository) DeleteCascadeByID(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM images WHERE message_id = ?`, id); err != nil {
		return common.WrapStore("deleting images", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE message_id = ?`, id); err != nil {
		return common.WrapStore("deleting documents", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE id = ?`, id); err != nil {
		return common.WrapStore("deleting message", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteCascadeByConversation(ctx context.Context, conversationID string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM images WHERE message_id IN (SELECT id FROM messages WHERE conversation_id = ?)`, conversationID); err != nil {
		return common.WrapStore("deleting images", err)
	}
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM documents WHERE message_id IN (SELECT id FROM messages WHERE conversation_id = ?)`, conversationID); err != nil {
		return common.WrapStore("deleting documents", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE conversation_id = ?`, conversationID); err != nil {
		return common.WrapStore("deleting messages", err)
	}
	return nil
}
