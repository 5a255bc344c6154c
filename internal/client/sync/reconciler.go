// Package sync reconciles server responses into the local cache. Commits are
// serialized per scope, full-slice responses replace the cached set while
// paginated ones only upsert, and stale fetches (scope invalidated while the
// request was in flight) are dropped without error.
package sync

import (
	"context"
	"errors"
	stdsync "sync"

	"github.com/quiltchat/quilt/internal/client/models"
	"github.com/quiltchat/quilt/internal/client/store"
	"github.com/quiltchat/quilt/internal/common"
	"github.com/quiltchat/quilt/internal/logging"
)

// Scope keys. One gate and one commit lock exist per scope value.
func ConversationsScope(userID string) string        { return "conversations/" + userID }
func MessagesScope(conversationID string) string     { return "messages/" + conversationID }
func ConversationScope(conversationID string) string { return "conversation/" + conversationID }
func SettingsScope(userID string) string             { return "settings/" + userID }

const (
	ProjectsScope   = "projects"
	AssistantsScope = "assistants"
)

type Reconciler struct {
	store *store.Store
	log   logging.Logger

	locks *keyedMutex

	mu    stdsync.Mutex
	gates map[string]*gate
}

func NewReconciler(st *store.Store, log logging.Logger) *Reconciler {
	return &Reconciler{
		store: st,
		log:   log.With("component", "sync"),
		locks: newKeyedMutex(),
		gates: make(map[string]*gate),
	}
}

func (r *Reconciler) gateFor(scope string) *gate {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.gates[scope]
	if !ok {
		g = &gate{}
		r.gates[scope] = g
	}
	return g
}

// Begin captures the current generation of a scope. Call it before the fetch
// whose result will be committed under the returned token.
func (r *Reconciler) Begin(scope string) Token {
	return r.gateFor(scope).current()
}

// Invalidate marks every outstanding token of the scope stale. Local writes
// call it so that an older in-flight fetch cannot clobber them.
func (r *Reconciler) Invalidate(scope string) {
	r.gateFor(scope).bump()
}

// commit runs fn while holding the scope's commit lock, unless the context
// was cancelled or the token went stale. A stale token is not an error; the
// fetched data is simply out of date.
func (r *Reconciler) commit(ctx context.Context, tok Token, scope string, fn func() error) error {
	r.locks.Lock(scope)
	defer r.locks.Unlock(scope)

	if err := ctx.Err(); err != nil {
		return err
	}
	if !tok.Valid() {
		r.log.Info(ctx, "skipping stale commit", "scope", scope)
		return nil
	}
	return fn()
}

// ReplaceConversations commits a full-slice conversations response: the
// cached set for the user ends up matching list exactly.
func (r *Reconciler) ReplaceConversations(ctx context.Context, tok Token, userID string, list []*models.Conversation) error {
	return r.commit(ctx, tok, ConversationsScope(userID), func() error {
		return r.store.ReplaceConversations(ctx, userID, list)
	})
}

// UpsertConversationsPage commits one page of conversations. Nothing outside
// the page is touched.
func (r *Reconciler) UpsertConversationsPage(ctx context.Context, tok Token, userID string, list []*models.Conversation) error {
	return r.commit(ctx, tok, ConversationsScope(userID), func() error {
		for _, c := range list {
			if err := r.store.Conversations.Upsert(ctx, c); err != nil {
				return err
			}
		}
		return nil
	})
}

// UpsertConversation commits a single refreshed conversation record.
func (r *Reconciler) UpsertConversation(ctx context.Context, tok Token, c *models.Conversation) error {
	return r.commit(ctx, tok, ConversationScope(c.ID), func() error {
		return r.store.Conversations.Upsert(ctx, c)
	})
}

// ReplaceMessages commits a full message slice for one conversation and
// resolves any pending sends the slice confirms.
func (r *Reconciler) ReplaceMessages(ctx context.Context, tok Token, conversationID string, list []*models.Message) error {
	return r.commit(ctx, tok, MessagesScope(conversationID), func() error {
		if err := r.store.ReplaceMessages(ctx, conversationID, list); err != nil {
			return err
		}
		return r.resolvePending(ctx, list)
	})
}

// UpsertMessagesPage commits one page of messages without deleting anything.
func (r *Reconciler) UpsertMessagesPage(ctx context.Context, tok Token, conversationID string, list []*models.Message) error {
	return r.commit(ctx, tok, MessagesScope(conversationID), func() error {
		if err := r.store.UpsertMessagesPage(ctx, list); err != nil {
			return err
		}
		return r.resolvePending(ctx, list)
	})
}

// resolvePending confirms queued sends that the server has acknowledged by
// echoing their correlation id. Unknown or already resolved ids are ignored;
// any other store failure is surfaced to the caller.
func (r *Reconciler) resolvePending(ctx context.Context, list []*models.Message) error {
	for _, m := range list {
		if m.ClientID == nil {
			continue
		}
		err := r.store.Pending.MarkConfirmed(ctx, *m.ClientID)
		switch {
		case err == nil:
			r.log.Info(ctx, "pending send confirmed", "correlation_id", *m.ClientID)
		case errors.Is(err, common.ErrNotFound):
			// Not queued here, or already resolved.
		default:
			r.log.Error(ctx, "confirming pending send", "correlation_id", *m.ClientID, "error", err)
			return err
		}
	}
	return nil
}

// ReplaceProjects commits a full project slice.
func (r *Reconciler) ReplaceProjects(ctx context.Context, tok Token, list []*models.Project) error {
	return r.commit(ctx, tok, ProjectsScope, func() error {
		return r.store.ReplaceProjects(ctx, list)
	})
}

// ReplaceProjectMembers commits the member list of one project.
func (r *Reconciler) ReplaceProjectMembers(ctx context.Context, tok Token, projectID string, members []*models.ProjectMember) error {
	return r.commit(ctx, tok, ProjectsScope, func() error {
		return r.store.ReplaceProjectMembers(ctx, projectID, members)
	})
}

// ReplaceProjectFiles commits the file list of one project.
func (r *Reconciler) ReplaceProjectFiles(ctx context.Context, tok Token, projectID string, files []*models.ProjectFile) error {
	return r.commit(ctx, tok, ProjectsScope, func() error {
		return r.store.ReplaceProjectFiles(ctx, projectID, files)
	})
}

// ReplaceAssistants commits a full assistant slice.
func (r *Reconciler) ReplaceAssistants(ctx context.Context, tok Token, list []*models.Assistant) error {
	return r.commit(ctx, tok, AssistantsScope, func() error {
		return r.store.ReplaceAssistants(ctx, list)
	})
}

// UpsertSettings commits the user's refreshed settings record.
func (r *Reconciler) UpsertSettings(ctx context.Context, tok Token, s *models.UserSettings) error {
	return r.commit(ctx, tok, SettingsScope(s.UserID), func() error {
		return r.store.Settings.Upsert(ctx, s)
	})
}
