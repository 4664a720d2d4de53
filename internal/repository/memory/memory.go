package memory

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/omniinfra/platform/internal/domain"
	"github.com/omniinfra/platform/internal/repository"
)

// Store keeps all state in process memory. It backs demo mode, where the
// API serves a populated workspace without a database.
type Store struct {
	mu         sync.RWMutex
	users      map[string]*domain.User
	projects   map[string]*domain.Project
	activities []domain.ActivityEntry
}

var (
	_ repository.UserRepository     = (*Store)(nil)
	_ repository.ProjectRepository  = (*Store)(nil)
	_ repository.ActivityRepository = (*Store)(nil)
)

// New returns an empty store.
func New() *Store {
	return &Store{
		users:    make(map[string]*domain.User),
		projects: make(map[string]*domain.Project),
	}
}

// NewSeeded returns a store populated with the demo workspace: one user,
// six projects in various stages of setup, and a recent activity trail.
func NewSeeded() *Store {
	s := New()
	s.users[demoUser.ID] = cloneUser(&demoUser)
	for i := range demoProjects {
		p := demoProjects[i]
		s.projects[p.ID] = cloneProject(&p)
	}
	s.activities = append(s.activities, demoActivities...)
	return s
}

// DemoUserID is the account every demo-mode session acts as.
const DemoUserID = "user-1"

func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = cloneUser(user)
	return nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneUser(u), nil
}

func (s *Store) CreateProject(ctx context.Context, project *domain.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[project.ID] = cloneProject(project)
	return nil
}

func (s *Store) GetProjectByID(ctx context.Context, projectID string) (*domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[projectID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneProject(p), nil
}

func (s *Store) ListProjectsByUser(ctx context.Context, userID string) ([]domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var projects []domain.Project
	for _, p := range s.projects {
		if p.UserID == userID {
			projects = append(projects, *cloneProject(p))
		}
	}
	sortProjects(projects)
	return projects, nil
}

func (s *Store) UpdateProject(ctx context.Context, project *domain.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[project.ID]; !ok {
		return repository.ErrNotFound
	}
	s.projects[project.ID] = cloneProject(project)
	return nil
}

func (s *Store) InsertActivity(ctx context.Context, entry *domain.ActivityEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activities = append(s.activities, *entry)
	return nil
}

func (s *Store) ListRecentActivity(ctx context.Context, userID string, limit int) ([]domain.ActivityEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var entries []domain.ActivityEntry
	for _, e := range s.activities {
		if e.UserID == "" || e.UserID == userID {
			entries = append(entries, e)
		}
	}
	sortActivity(entries)
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func sortProjects(projects []domain.Project) {
	sort.Slice(projects, func(i, j int) bool {
		return projects[i].CreatedAt.Before(projects[j].CreatedAt)
	})
}

func sortActivity(entries []domain.ActivityEntry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].At.After(entries[j].At)
	})
}

func cloneUser(u *domain.User) *domain.User {
	out := *u
	out.PasswordHash = append([]byte(nil), u.PasswordHash...)
	return &out
}

func cloneProject(p *domain.Project) *domain.Project {
	out := *p
	if p.GithubRepo != nil {
		repo := *p.GithubRepo
		out.GithubRepo = &repo
	}
	if p.LastAnalysisResult != nil {
		out.LastAnalysisResult = append(json.RawMessage(nil), p.LastAnalysisResult...)
	}
	if p.Envs != nil {
		out.Envs = make(map[string]domain.EnvSet, len(p.Envs))
		for app, set := range p.Envs {
			values := make(map[string]string, len(set.Values))
			for k, v := range set.Values {
				values[k] = v
			}
			out.Envs[app] = domain.EnvSet{Values: values, UpdatedAt: set.UpdatedAt}
		}
	}
	if p.Domains != nil {
		out.Domains = make(map[string]string, len(p.Domains))
		for k, v := range p.Domains {
			out.Domains[k] = v
		}
	}
	if p.LastDeployAt != nil {
		t := *p.LastDeployAt
		out.LastDeployAt = &t
	}
	return &out
}

func ts(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return t
}

func tsPtr(value string) *time.Time {
	t := ts(value)
	return &t
}
