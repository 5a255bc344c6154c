package projects

import (
	"context"

	"github.com/quiltchat/quilt/internal/client/models"
)

type Repository interface {
	Upsert(ctx context.Context, p *models.Project) error
	GetByID(ctx context.Context, id string) (*models.Project, error)
	List(ctx context.Context) ([]*models.Project, error)
	IDs(ctx context.Context) ([]string, error)
	DeleteByID(ctx context.Context, id string) error

	UpsertMember(ctx context.Context, m *models.ProjectMember) error
	ListMembers(ctx context.Context, projectID string) ([]*models.ProjectMember, error)
	DeleteMembersByProject(ctx context.Context, projectID string) error

	UpsertFile(ctx context.Context, f *models.ProjectFile) error
	ListFiles(ctx context.Context, projectID string) ([]*models.ProjectFile, error)
	DeleteFileByID(ctx context.Context, id string) error
	DeleteFilesByProject(ctx context.Context, projectID string) error
}
