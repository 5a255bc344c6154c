// Package models defines client-side data models cached locally and synced
// with the Quilt backend. All identifiers are server-issued opaque strings;
// the client never mints entity ids (only correlation ids for pending sends).
package models

import "time"

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ValidRole reports whether s is one of the known message roles.
func ValidRole(s string) bool {
	switch Role(s) {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}

// Conversation is a chat thread owned by a user, optionally attached to a
// project. Deleting a conversation cascades to its messages.
type Conversation struct {
	ID        string
	Title     string
	UserID    string
	ProjectID *string

	Pinned bool
	// Generating is true while the server is streaming a response into this
	// conversation. It is server-confirmed state; the client only sets it as
	// a short-lived overlay around a pending send.
	Generating bool
	CostUSD    *float64
	IsPublic   bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Image is a picture attached to a message, stored remotely.
type Image struct {
	ID        string
	MessageID string
	URL       string
	StorageID string
	FileName  *string
}

// Document is a file attached to a message, stored remotely.
type Document struct {
	ID        string
	MessageID string
	URL       string
	StorageID string
	FileName  *string
	FileType  string
}

// Message is a single turn in a conversation. Attachments are owned by the
// message and deleted with it.
type Message struct {
	ID             string
	ConversationID string
	Role           Role
	Content        string
	ContentHTML    *string
	ModelID        *string
	Reasoning      *string
	Starred        bool

	CreatedAt time.Time
	UpdatedAt *time.Time

	FollowUpSuggestions []string
	Images              []Image
	Documents           []Document

	// ClientID echoes the correlation id of the pending send that produced
	// this message, when the server returns one. Never persisted.
	ClientID *string
}

// ProjectRole values the server may assign to the current user.
const (
	ProjectRoleOwner  = "owner"
	ProjectRoleEditor = "editor"
	ProjectRoleViewer = "viewer"
)

// Project groups conversations and shared files under a common system prompt.
type Project struct {
	ID           string
	Name         string
	Description  *string
	SystemPrompt *string
	Color        *string
	// Role is the current user's membership role; "owner" when the server
	// omits it.
	Role     string
	IsShared bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserSummary is the embedded user record carried by project members.
type UserSummary struct {
	ID    string
	Name  *string
	Email *string
}

// ProjectMember links a user to a project with a role.
type ProjectMember struct {
	ID        string
	ProjectID *string
	UserID    string
	Role      string
	User      UserSummary
	CreatedAt *time.Time
}

// ProjectFile is a file uploaded to a project, with optional extracted text.
type ProjectFile struct {
	ID        string
	ProjectID string
	StorageID string
	FileName  string
	FileType  string
	Content   *string
	CreatedAt time.Time
	// Metadata is provider-specific storage metadata of unknown shape.
	Metadata *Value
}

// Assistant is a saved persona: a system prompt plus model defaults. The
// server enforces at most one default assistant per account; the client must
// not assume local uniqueness.
type Assistant struct {
	ID                   string
	Name                 string
	Description          *string
	SystemPrompt         string
	IsDefault            bool
	DefaultModelID       *string
	DefaultWebSearchMode *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserSettings is the singleton-per-user preferences record. Every boolean
// toggle defaults to true and every counter to zero when the server sends a
// partial payload.
type UserSettings struct {
	ID     string
	UserID string

	PrivacyMode               bool
	ContextMemoryEnabled      bool
	PersistentMemoryEnabled   bool
	YoutubeTranscriptsEnabled bool
	WebScrapingEnabled        bool
	MCPEnabled                bool
	FollowUpQuestionsEnabled  bool

	FreeMessagesUsed  int
	DailyMessagesUsed int

	// LastMessageDate is a plain date string; the server owns its format and
	// the client treats it as opaque.
	LastMessageDate *string

	KarakeepURL     *string
	KarakeepAPIKey  *string
	Theme           *string
	TitleModelID    *string
	FollowUpModelID *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
