// Package store opens the local cache database and exposes the entity
// repositories plus the multi-table operations (cascade deletes, list
// replacement) that have to run inside one transaction.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/quiltchat/quilt/internal/client/models"
	"github.com/quiltchat/quilt/internal/client/repositories/assistants"
	"github.com/quiltchat/quilt/internal/client/repositories/conversations"
	"github.com/quiltchat/quilt/internal/client/repositories/messages"
	"github.com/quiltchat/quilt/internal/client/repositories/pending"
	"github.com/quiltchat/quilt/internal/client/repositories/projects"
	"github.com/quiltchat/quilt/internal/client/repositories/session"
	"github.com/quiltchat/quilt/internal/client/repositories/settings"
	"github.com/quiltchat/quilt/internal/client/store/migrations"
	"github.com/quiltchat/quilt/internal/common"
	"github.com/quiltchat/quilt/internal/dbx"
)

type Store struct {
	db *sql.DB

	Conversations conversations.Repository
	Messages      messages.Repository
	Projects      projects.Repository
	Assistants    assistants.Repository
	Settings      settings.Repository
	Session       session.Repository
	Pending       pending.Repository
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return goose.UpContext(ctx, db, ".")
}

// Open opens (creating if needed) the cache database at dsn and brings the
// schema up to date.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, common.WrapStore("opening database", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, common.WrapStore("running migrations", err)
	}
	return New(db), nil
}

// New wires repositories over an already opened database. Tests use it to
// inject an in-memory handle.
func New(db *sql.DB) *Store {
	return &Store{
		db:            db,
		Conversations: conversations.NewSQLiteRepository(db),
		Messages:      messages.NewSQLiteRepository(db),
		Projects:      projects.NewSQLiteRepository(db),
		Assistants:    assistants.NewSQLiteRepository(db),
		Settings:      settings.NewSQLiteRepository(db),
		Session:       session.NewSQLiteRepository(db),
		Pending:       pending.NewSQLiteRepository(db),
	}
}

func (s *Store) Close() error {
	return s.db.Close()
}

// txRepos is the repository set bound to one transaction.
type txRepos struct {
	Conversations conversations.Repository
	Messages      messages.Repository
	Projects      projects.Repository
	Assistants    assistants.Repository
	Pending       pending.Repository
}

func (s *Store) withTx(ctx context.Context, fn func(ctx context.Context, r *txRepos) error) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, &txRepos{
			Conversations: conversations.NewSQLiteRepository(tx),
			Messages:      messages.NewSQLiteRepository(tx),
			Projects:      projects.NewSQLiteRepository(tx),
			Assistants:    assistants.NewSQLiteRepository(tx),
			Pending:       pending.NewSQLiteRepository(tx),
		})
	})
}

// DeleteConversationCascade removes a conversation together with its
// messages, their attachments and any queued sends, atomically.
func (s *Store) DeleteConversationCascade(ctx context.Context, id string) error {
	return s.withTx(ctx, func(ctx context.Context, r *txRepos) error {
		if err := r.Messages.DeleteCascadeByConversation(ctx, id); err != nil {
			return err
		}
		if err := r.Pending.DeleteByConversation(ctx, id); err != nil {
			return err
		}
		return r.Conversations.DeleteByID(ctx, id)
	})
}

// DeleteMessageCascade removes one message and its attachments atomically.
func (s *Store) DeleteMessageCascade(ctx context.Context, id string) error {
	return s.withTx(ctx, func(ctx context.Context, r *txRepos) error {
		return r.Messages.DeleteCascadeByID(ctx, id)
	})
}

// DeleteProjectCascade removes a project with its members, files, and every
// conversation attached to it (including their messages), atomically.
func (s *Store) DeleteProjectCascade(ctx context.Context, id string) error {
	return s.withTx(ctx, func(ctx context.Context, r *txRepos) error {
		convs, err := r.Conversations.ListByProject(ctx, id)
		if err != nil {
			return err
		}
		for _, c := range convs {
			if err := r.Messages.DeleteCascadeByConversation(ctx, c.ID); err != nil {
				return err
			}
			if err := r.Pending.DeleteByConversation(ctx, c.ID); err != nil {
				return err
			}
			if err := r.Conversations.DeleteByID(ctx, c.ID); err != nil {
				return err
			}
		}
		if err := r.Projects.DeleteMembersByProject(ctx, id); err != nil {
			return err
		}
		if err := r.Projects.DeleteFilesByProject(ctx, id); err != nil {
			return err
		}
		return r.Projects.DeleteByID(ctx, id)
	})
}

// ReplaceConversations makes the local conversation set for userID match
// list exactly: every listed record is upserted and any local conversation
// missing from the list is cascade-deleted.
func (s *Store) ReplaceConversations(ctx context.Context, userID string, list []*models.Conversation) error {
	return s.withTx(ctx, func(ctx context.Context, r *txRepos) error {
		keep := make(map[string]bool, len(list))
		for _, c := range list {
			if err := r.Conversations.Upsert(ctx, c); err != nil {
				return err
			}
			keep[c.ID] = true
		}

		local, err := r.Conversations.IDsByUser(ctx, userID)
		if err != nil {
			return err
		}
		for _, id := range local {
			if keep[id] {
				continue
			}
			if err := r.Messages.DeleteCascadeByConversation(ctx, id); err != nil {
				return err
			}
			if err := r.Pending.DeleteByConversation(ctx, id); err != nil {
				return err
			}
			if err := r.Conversations.DeleteByID(ctx, id); err != nil {
				return err
			}
		}
		return nil
	})
}

// ReplaceMessages makes the local message set of a conversation match list
// exactly, attachments included.
func (s *Store) ReplaceMessages(ctx context.Context, conversationID string, list []*models.Message) error {
	return s.withTx(ctx, func(ctx context.Context, r *txRepos) error {
		keep := make(map[string]bool, len(list))
		for _, m := range list {
			if err := r.Messages.Upsert(ctx, m); err != nil {
				return err
			}
			keep[m.ID] = true
		}

		local, err := r.Messages.IDsByConversation(ctx, conversationID)
		if err != nil {
			return err
		}
		for _, id := range local {
			if !keep[id] {
				if err := r.Messages.DeleteCascadeByID(ctx, id); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// UpsertMessagesPage writes one page of messages without touching records
// outside the page. Paginated fetches never see the full set, so they must
// not delete.
func (s *Store) UpsertMessagesPage(ctx context.Context, list []*models.Message) error {
	return s.withTx(ctx, func(ctx context.Context, r *txRepos) error {
		for _, m := range list {
			if err := r.Messages.Upsert(ctx, m); err != nil {
				return err
			}
		}
		return nil
	})
}

// ReplaceProjects makes the local project set match list exactly. Removed
// projects take their members, files and conversations with them.
func (s *Store) ReplaceProjects(ctx context.Context, list []*models.Project) error {
	return s.withTx(ctx, func(ctx context.Context, r *txRepos) error {
		keep := make(map[string]bool, len(list))
		for _, p := range list {
			if err := r.Projects.Upsert(ctx, p); err != nil {
				return err
			}
			keep[p.ID] = true
		}

		local, err := r.Projects.IDs(ctx)
		if err != nil {
			return err
		}
		for _, id := range local {
			if keep[id] {
				continue
			}
			convs, err := r.Conversations.ListByProject(ctx, id)
			if err != nil {
				return err
			}
			for _, c := range convs {
				if err := r.Messages.DeleteCascadeByConversation(ctx, c.ID); err != nil {
					return err
				}
				if err := r.Pending.DeleteByConversation(ctx, c.ID); err != nil {
					return err
				}
				if err := r.Conversations.DeleteByID(ctx, c.ID); err != nil {
					return err
				}
			}
			if err := r.Projects.DeleteMembersByProject(ctx, id); err != nil {
				return err
			}
			if err := r.Projects.DeleteFilesByProject(ctx, id); err != nil {
				return err
			}
			if err := r.Projects.DeleteByID(ctx, id); err != nil {
				return err
			}
		}
		return nil
	})
}

// ReplaceProjectMembers rewrites the member list of one project.
func (s *Store) ReplaceProjectMembers(ctx context.Context, projectID string, members []*models.ProjectMember) error {
	return s.withTx(ctx, func(ctx context.Context, r *txRepos) error {
		if err := r.Projects.DeleteMembersByProject(ctx, projectID); err != nil {
			return err
		}
		for _, m := range members {
			if err := r.Projects.UpsertMember(ctx, m); err != nil {
				return err
			}
		}
		return nil
	})
}

// ReplaceProjectFiles rewrites the file list of one project.
func (s *Store) ReplaceProjectFiles(ctx context.Context, projectID string, files []*models.ProjectFile) error {
	return s.withTx(ctx, func(ctx context.Context, r *txRepos) error {
		if err := r.Projects.DeleteFilesByProject(ctx, projectID); err != nil {
			return err
		}
		for _, f := range files {
			if err := r.Projects.UpsertFile(ctx, f); err != nil {
				return err
			}
		}
		return nil
	})
}

// ReplaceAssistants makes the local assistant set match list exactly.
func (s *Store) ReplaceAssistants(ctx context.Context, list []*models.Assistant) error {
	return s.withTx(ctx, func(ctx context.Context, r *txRepos) error {
		keep := make(map[string]bool, len(list))
		for _, a := range list {
			if err := r.Assistants.Upsert(ctx, a); err != nil {
				return err
			}
			keep[a.ID] = true
		}

		local, err := r.Assistants.IDs(ctx)
		if err != nil {
			return err
		}
		for _, id := range local {
			if !keep[id] {
				if err := r.Assistants.DeleteByID(ctx, id); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
