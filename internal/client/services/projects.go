package services

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/quiltchat/quilt/internal/client/api"
	"github.com/quiltchat/quilt/internal/client/models"
	"github.com/quiltchat/quilt/internal/client/store"
	"github.com/quiltchat/quilt/internal/client/sync"
	"github.com/quiltchat/quilt/internal/common"
	"github.com/quiltchat/quilt/internal/logging"
)

type ProjectService interface {
	List(ctx context.Context) ([]*models.Project, error)
	Get(ctx context.Context, id string) (*models.Project, error)
	Create(ctx context.Context, p *models.Project) (*models.Project, error)
	Update(ctx context.Context, p *models.Project) (*models.Project, error)
	Delete(ctx context.Context, id string) error
	Members(ctx context.Context, projectID string) ([]*models.ProjectMember, error)
	Files(ctx context.Context, projectID string) ([]*models.ProjectFile, error)
	// Refresh re-fetches a project's members and files in one go.
	Refresh(ctx context.Context, projectID string) error
}

type projectService struct {
	client api.Client
	store  *store.Store
	rec    *sync.Reconciler
	log    logging.Logger
}

func NewProjectService(client api.Client, st *store.Store, rec *sync.Reconciler, log logging.Logger) ProjectService {
	return &projectService{
		client: client,
		store:  st,
		rec:    rec,
		log:    log.With("service", "projects"),
	}
}

func (s *projectService) List(ctx context.Context) ([]*models.Project, error) {
	tok := s.rec.Begin(sync.ProjectsScope)
	list, skipped, err := s.client.ListProjects(ctx)
	switch {
	case err == nil:
		logSkipped(ctx, s.log, "project", skipped)
		if err := s.rec.ReplaceProjects(ctx, tok, list); err != nil {
			return nil, err
		}
	case retryableRequest(err):
		s.log.Warn(ctx, "serving cached projects", "error", err)
	default:
		return nil, err
	}

	return s.store.Projects.List(ctx)
}

func (s *projectService) Get(ctx context.Context, id string) (*models.Project, error) {
	p, err := s.client.GetProject(ctx, id)
	switch {
	case err == nil:
		if err := s.store.Projects.Upsert(ctx, p); err != nil {
			return nil, err
		}
	case retryableRequest(err):
		s.log.Warn(ctx, "serving cached project", "id", id, "error", err)
	default:
		return nil, err
	}

	return s.store.Projects.GetByID(ctx, id)
}

func (s *projectService) Create(ctx context.Context, p *models.Project) (*models.Project, error) {
	created, err := s.client.CreateProject(ctx, p)
	if err != nil {
		return nil, err
	}
	if err := s.store.Projects.Upsert(ctx, created); err != nil {
		return nil, err
	}
	return created, nil
}

func (s *projectService) Update(ctx context.Context, p *models.Project) (*models.Project, error) {
	updated, err := s.client.UpdateProject(ctx, p)
	if err != nil {
		return nil, err
	}
	if err := s.store.Projects.Upsert(ctx, updated); err != nil {
		return nil, err
	}
	s.rec.Invalidate(sync.ProjectsScope)
	return updated, nil
}

func (s *projectService) Delete(ctx context.Context, id string) error {
	if err := s.client.DeleteProject(ctx, id); err != nil && !errors.Is(err, common.ErrNotFound) {
		return err
	}
	if err := s.store.DeleteProjectCascade(ctx, id); err != nil {
		return err
	}
	s.rec.Invalidate(sync.ProjectsScope)
	return nil
}

func (s *projectService) Members(ctx context.Context, projectID string) ([]*models.ProjectMember, error) {
	tok := s.rec.Begin(sync.ProjectsScope)
	members, skipped, err := s.client.ListProjectMembers(ctx, projectID)
	switch {
	case err == nil:
		logSkipped(ctx, s.log, "project member", skipped)
		if err := s.rec.ReplaceProjectMembers(ctx, tok, projectID, members); err != nil {
			return nil, err
		}
	case retryableRequest(err):
		s.log.Warn(ctx, "serving cached project members", "project_id", projectID, "error", err)
	default:
		return nil, err
	}

	return s.store.Projects.ListMembers(ctx, projectID)
}

func (s *projectService) Files(ctx context.Context, projectID string) ([]*models.ProjectFile, error) {
	tok := s.rec.Begin(sync.ProjectsScope)
	files, skipped, err := s.client.ListProjectFiles(ctx, projectID)
	switch {
	case err == nil:
		logSkipped(ctx, s.log, "project file", skipped)
		if err := s.rec.ReplaceProjectFiles(ctx, tok, projectID, files); err != nil {
			return nil, err
		}
	case retryableRequest(err):
		s.log.Warn(ctx, "serving cached project files", "project_id", projectID, "error", err)
	default:
		return nil, err
	}

	return s.store.Projects.ListFiles(ctx, projectID)
}

// Refresh pulls members and files concurrently; each side commits on its own.
func (s *projectService) Refresh(ctx context.Context, projectID string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := s.Members(ctx, projectID)
		return err
	})
	g.Go(func() error {
		_, err := s.Files(ctx, projectID)
		return err
	})
	return g.Wait()
}
