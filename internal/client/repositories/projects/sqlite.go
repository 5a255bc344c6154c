package projects

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
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Upsert(ctx context.Context, p *models.Project) error {
	query := `INSERT INTO projects (id, name, description, system_prompt, color, role, is_shared, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET name = excluded.name,
				description = excluded.description,
				system_prompt = excluded.system_prompt,
				color = excluded.color,
				role = excluded.role,
				is_shared = excluded.is_shared,
				created_at = excluded.created_at,
				updated_at = excluded.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.Name, dbx.NullString(p.Description), dbx.NullString(p.SystemPrompt),
		dbx.NullString(p.Color), p.Role, p.IsShared, dbx.Micros(p.CreatedAt), dbx.Micros(p.UpdatedAt))
	if err != nil {
		return common.WrapStore("upserting project", err)
	}
	return nil
}

func scanProject(row interface{ Scan(...any) error }) (*models.Project, error) {
	p := &models.Project{}
	var description, systemPrompt, color sql.NullString
	var createdAt, updatedAt int64
	err := row.Scan(&p.ID, &p.Name, &description, &systemPrompt, &color, &p.Role, &p.IsShared, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	p.Description = dbx.StringPtr(description)
	p.SystemPrompt = dbx.StringPtr(systemPrompt)
	p.Color = dbx.StringPtr(color)
	p.CreatedAt = dbx.TimeFromMicros(createdAt)
	p.UpdatedAt = dbx.TimeFromMicros(updatedAt)
	return p, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, system_prompt, color, role, is_shared, created_at, updated_at FROM projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, common.WrapStore("getting project", err)
	}
	return p, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]*models.Project, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, system_prompt, color, role, is_shared, created_at, updated_at FROM projects ORDER BY name`)
	if err != nil {
		return nil, common.WrapStore("listing projects", err)
	}
	defer rows.Close()

	var result []*models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, common.WrapStore("scanning project", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, common.WrapStore("iterating projects", err)
	}
	return result, nil
}

func (r *SQLiteRepository) IDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM projects`)
	if err != nil {
		return nil, common.WrapStore("listing project ids", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, common.WrapStore("scanning project id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, common.WrapStore("iterating project ids", err)
	}
	return ids, nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return common.WrapStore("deleting project", err)
	}
	return nil
}

func (r *SQLiteRepository) UpsertMember(ctx context.Context, m *models.ProjectMember) error {
	query := `INSERT INTO project_members (id, project_id, user_id, role, user_name, user_email, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET project_id = excluded.project_id,
				user_id = excluded.user_id,
				role = excluded.role,
				user_name = excluded.user_name,
				user_email = excluded.user_email,
				created_at = excluded.created_at
	`
	_, err := r.db.ExecContext(ctx, query,
		m.ID, dbx.NullString(m.ProjectID), m.UserID, m.Role,
		dbx.NullString(m.User.Name), dbx.NullString(m.User.Email), dbx.NullMicros(m.CreatedAt))
	if err != nil {
		return common.WrapStore("upserting project member", err)
	}
	return nil
}

func (r *SQLiteRepository) ListMembers(ctx context.Context, projectID string) ([]*models.ProjectMember, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, project_id, user_id, role, user_name, user_email, created_at FROM project_members WHERE project_id = ? ORDER BY rowid`, projectID)
	if err != nil {
		return nil, common.WrapStore("listing project members", err)
	}
	defer rows.Close()

	var result []*models.ProjectMember
	for rows.Next() {
		m := &models.ProjectMember{}
		var pid, userName, userEmail sql.NullString
		var createdAt sql.NullInt64
		if err := rows.Scan(&m.ID, &pid, &m.UserID, &m.Role, &userName, &userEmail, &createdAt); err != nil {
			return nil, common.WrapStore("scanning project member", err)
		}
		m.ProjectID = dbx.StringPtr(pid)
		m.User = models.UserSummary{ID: m.UserID, Name: dbx.StringPtr(userName), Email: dbx.StringPtr(userEmail)}
		m.CreatedAt = dbx.TimePtr(createdAt)
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, common.WrapStore("iterating project members", err)
	}
	return result, nil
}

func (r *SQLiteRepository) DeleteMembersByProject(ctx context.Context, projectID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM project_members WHERE project_id = ?`, projectID)
	if err != nil {
		return common.WrapStore("deleting project members", err)
	}
	return nil
}

func (r *SQLiteRepository) UpsertFile(ctx context.Context, f *models.ProjectFile) error {
	var metadata sql.NullString
	if f.Metadata != nil {
		b, err := json.Marshal(f.Metadata)
		if err != nil {
			return common.WrapStore("marshaling file metadata", err)
		}
		metadata = sql.NullString{String: string(b), Valid: true}
	}

	query := `INSERT INTO project_files (id, project_id, storage_id, file_name, file_type, content, metadata, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET project_id = excluded.project_id,
				storage_id = excluded.storage_id,
				file_name = excluded.file_name,
				file_type = excluded.file_type,
				content = excluded.content,
				metadata = excluded.metadata,
				created_at = excluded.created_at
	`
	_, err := r.db.ExecContext(ctx, query,
		f.ID, f.ProjectID, f.StorageID, f.FileName, f.FileType,
		dbx.NullString(f.Content), metadata, dbx.Micros(f.CreatedAt))
	if err != nil {
		return common.WrapStore("upserting project file", err)
	}
	return nil
}

func (r *SQLiteRepository) ListFiles(ctx context.Context, projectID string) ([]*models.ProjectFile, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, project_id, storage_id, file_name, file_type, content, metadata, created_at FROM project_files WHERE project_id = ? ORDER BY file_name`, projectID)
	if err != nil {
		return nil, common.WrapStore("listing project files", err)
	}
	defer rows.Close()

	var result []*models.ProjectFile
	for rows.Next() {
		f := &models.ProjectFile{}
		var content, metadata sql.NullString
		var createdAt int64
		if err := rows.Scan(&f.ID, &f.ProjectID, &f.StorageID, &f.FileName, &f.FileType, &content, &metadata, &createdAt); err != nil {
			return nil, common.WrapStore("scanning project file", err)
		}
		f.Content = dbx.StringPtr(content)
		f.CreatedAt = dbx.TimeFromMicros(createdAt)
		if metadata.Valid {
			var v models.Value
			if err := json.Unmarshal([]byte(metadata.String), &v); err != nil {
				return nil, common.WrapStore("unmarshaling file metadata", err)
			}
			f.Metadata = &v
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, common.WrapStore("iterating project files", err)
	}
	return result, nil
}

func (r *SQLiteRepository) DeleteFileByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM project_files WHERE id = ?`, id)
	if err != nil {
		return common.WrapStore("deleting project file", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteFilesByProject(ctx context.Context, projectID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM project_files WHERE project_id = ?`, projectID)
	if err != nil {
		return common.WrapStore("deleting project files", err)
	}
	return nil
}
