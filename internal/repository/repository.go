package repository

import (
	"context"

	"github.com/omniinfra/platform/internal/domain"
)

// UserRepository persists accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
}

// ProjectRepository persists project records. Updates replace the stored
// record wholesale; the checklist actions rely on last-write-wins.
type ProjectRepository interface {
	CreateProject(ctx context.Context, project *domain.Project) error
	GetProjectByID(ctx context.Context, projectID string) (*domain.Project, error)
	ListProjectsByUser(ctx context.Context, userID string) ([]domain.Project, error)
	UpdateProject(ctx context.Context, project *domain.Project) error
}

// ActivityRepository stores the recent-activity feed.
type ActivityRepository interface {
	InsertActivity(ctx context.Context, entry *domain.ActivityEntry) error
	ListRecentActivity(ctx context.Context, userID string, limit int) ([]domain.ActivityEntry, error)
}
