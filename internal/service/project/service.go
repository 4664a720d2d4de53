package project

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/omniinfra/platform/internal/domain"
	"github.com/omniinfra/platform/internal/repository"
	"github.com/omniinfra/platform/internal/service/analyzer"
	"github.com/omniinfra/platform/pkg/crypto"
)

// ActivityStream is the hub topic the activity feed broadcasts on.
const ActivityStream = "activity"

// defaultRepoFullName is attached when a connect request carries no
// repository of its own.
const defaultRepoFullName = "company/omniinfra-backend"

// pullRequestURL is returned by CI/CD setup.
const pullRequestURL = "https://github.com/company/omniinfra-backend/pull/42"

// Notifier publishes payloads to live stream subscribers.
type Notifier interface {
	Broadcast(stream string, payload []byte)
}

// Service orchestrates project setup: repository connection, analysis,
// environment and infrastructure configuration, CI/CD and deploys.
type Service struct {
	projects   repository.ProjectRepository
	activities repository.ActivityRepository
	analyzer   analyzer.Analyzer
	notifier   Notifier
	logger     *slog.Logger
	envSecret  string
	now        func() time.Time
}

// New returns a project service.
func New(projects repository.ProjectRepository, activities repository.ActivityRepository, an analyzer.Analyzer, notifier Notifier, logger *slog.Logger, envSecret string) Service {
	return Service{
		projects:   projects,
		activities: activities,
		analyzer:   an,
		notifier:   notifier,
		logger:     logger,
		envSecret:  envSecret,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

var (
	errInvalidProjectName = errors.New("project name is required")
	// ErrNoAnalyzedApps is returned when a step needs the application
	// list but the project has never been analyzed.
	ErrNoAnalyzedApps = errors.New("project has no analyzed applications")
)

// Create registers a new project for a user.
func (s Service) Create(ctx context.Context, userID, name, description string) (*domain.Project, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errInvalidProjectName
	}
	now := s.now()
	project := &domain.Project{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		CreatedAt:   now,
		UpdatedAt:   now,
		UserID:      userID,
	}
	if err := s.projects.CreateProject(ctx, project); err != nil {
		return nil, err
	}
	s.logger.Info("project created", "project_id", project.ID, "user_id", userID)
	return project, nil
}

// Get returns one project.
func (s Service) Get(ctx context.Context, projectID string) (*domain.Project, error) {
	return s.projects.GetProjectByID(ctx, projectID)
}

// List returns the user's projects, oldest first.
func (s Service) List(ctx context.Context, userID string) ([]domain.Project, error) {
	return s.projects.ListProjectsByUser(ctx, userID)
}

// ConnectRepo attaches a GitHub repository to the project. A nil or
// empty repo falls back to the stock backend repository.
func (s Service) ConnectRepo(ctx context.Context, projectID string, repo *domain.GithubRepo) (*domain.Project, error) {
	project, err := s.projects.GetProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if repo == nil || strings.TrimSpace(repo.FullName) == "" {
		repo = &domain.GithubRepo{FullName: defaultRepoFullName}
	}
	project.GithubRepo = repo
	project.UpdatedAt = s.now()
	if err := s.projects.UpdateProject(ctx, project); err != nil {
		return nil, err
	}
	s.recordActivity(ctx, project.UserID, fmt.Sprintf("Connected GitHub repository to %s", project.Name))
	return project, nil
}

// Analyze runs repository analysis and stores the full report on the
// project, replacing any previous result wholesale.
func (s Service) Analyze(ctx context.Context, projectID string) (*domain.Project, error) {
	project, err := s.projects.GetProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	var repo domain.GithubRepo
	if project.GithubRepo != nil {
		repo = *project.GithubRepo
	}
	report, err := s.analyzer.Analyze(ctx, repo)
	if err != nil {
		return nil, err
	}
	project.LastAnalysisResult = report
	project.UpdatedAt = s.now()
	if err := s.projects.UpdateProject(ctx, project); err != nil {
		return nil, err
	}
	s.recordActivity(ctx, project.UserID, fmt.Sprintf("Analyzed %s - detected comprehensive infrastructure analysis", project.Name))
	return project, nil
}

// ConfigureEnvironments writes a production env set for every analyzed
// application. Values are encrypted before they reach the store.
func (s Service) ConfigureEnvironments(ctx context.Context, projectID string) (*domain.Project, error) {
	project, err := s.projects.GetProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	apps := project.AnalysisApps()
	if len(apps) == 0 {
		return nil, ErrNoAnalyzedApps
	}
	now := s.now()
	project.Envs = make(map[string]domain.EnvSet, len(apps))
	for _, app := range apps {
		name := app.Name
		if name == "" {
			name = "app"
		}
		port := "3000"
		if name == "backend" {
			port = "5000"
		}
		values, err := s.encryptValues(map[string]string{
			"NODE_ENV":     "production",
			"PORT":         port,
			"DATABASE_URL": "postgres://prod-db.omniinfra.co/app",
		})
		if err != nil {
			return nil, err
		}
		project.Envs[name] = domain.EnvSet{Values: values, UpdatedAt: now}
	}
	project.UpdatedAt = now
	if err := s.projects.UpdateProject(ctx, project); err != nil {
		return nil, err
	}
	s.recordActivity(ctx, project.UserID, fmt.Sprintf("Added environment variables to %s", project.Name))
	return project, nil
}

// ConfigureInfrastructure provisions a server id and one domain per
// analyzed application. The frontend app maps to the "app" subdomain.
func (s Service) ConfigureInfrastructure(ctx context.Context, projectID string) (*domain.Project, error) {
	project, err := s.projects.GetProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	apps := project.AnalysisApps()
	if len(apps) == 0 {
		return nil, ErrNoAnalyzedApps
	}
	slug := strings.Join(strings.Fields(strings.ToLower(project.Name)), "-")
	project.ServerID = fmt.Sprintf("srv-%s-1", slug)
	project.Domains = make(map[string]string, len(apps))
	for _, app := range apps {
		name := app.Name
		if name == "" {
			name = "app"
		}
		subdomain := name
		if name == "frontend" {
			subdomain = "app"
		}
		project.Domains[name] = subdomain + ".omniinfra.co"
	}
	project.UpdatedAt = s.now()
	if err := s.projects.UpdateProject(ctx, project); err != nil {
		return nil, err
	}
	s.recordActivity(ctx, project.UserID, fmt.Sprintf("Configured domains and server for %s", project.Name))
	return project, nil
}

// SetupCICD marks the CI/CD pipeline configured and returns the URL of
// the pull request that carries the workflow files.
func (s Service) SetupCICD(ctx context.Context, projectID string) (*domain.Project, string, error) {
	project, err := s.projects.GetProjectByID(ctx, projectID)
	if err != nil {
		return nil, "", err
	}
	project.CICDSetup = true
	project.UpdatedAt = s.now()
	if err := s.projects.UpdateProject(ctx, project); err != nil {
		return nil, "", err
	}
	s.recordActivity(ctx, project.UserID, fmt.Sprintf("CI/CD pipeline configured for %s", project.Name))
	return project, pullRequestURL, nil
}

// Deploy stamps the project as deployed.
func (s Service) Deploy(ctx context.Context, projectID string) (*domain.Project, error) {
	project, err := s.projects.GetProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	project.LastDeployAt = &now
	project.UpdatedAt = now
	if err := s.projects.UpdateProject(ctx, project); err != nil {
		return nil, err
	}
	s.recordActivity(ctx, project.UserID, fmt.Sprintf("Successfully deployed %s to production", project.Name))
	return project, nil
}

// RecentActivity returns the newest activity entries for the feed.
func (s Service) RecentActivity(ctx context.Context, userID string, limit int) ([]domain.ActivityEntry, error) {
	return s.activities.ListRecentActivity(ctx, userID, limit)
}

// DecryptEnvs resolves a project's env sets back to plaintext values
// for API responses.
func (s Service) DecryptEnvs(project *domain.Project) (map[string]domain.EnvSet, error) {
	if project.Envs == nil {
		return nil, nil
	}
	out := make(map[string]domain.EnvSet, len(project.Envs))
	for app, set := range project.Envs {
		values := make(map[string]string, len(set.Values))
		for key, stored := range set.Values {
			raw, err := base64.StdEncoding.DecodeString(stored)
			if err != nil {
				// seed data and legacy rows hold plaintext
				values[key] = stored
				continue
			}
			plain, err := crypto.DecryptToString(s.envSecret, raw)
			if err != nil {
				values[key] = stored
				continue
			}
			values[key] = plain
		}
		out[app] = domain.EnvSet{Values: values, UpdatedAt: set.UpdatedAt}
	}
	return out, nil
}

func (s Service) encryptValues(values map[string]string) (map[string]string, error) {
	out := make(map[string]string, len(values))
	for key, value := range values {
		ciphertext, err := crypto.EncryptString(s.envSecret, value)
		if err != nil {
			return nil, err
		}
		out[key] = base64.StdEncoding.EncodeToString(ciphertext)
	}
	return out, nil
}

func (s Service) recordActivity(ctx context.Context, userID, text string) {
	entry := &domain.ActivityEntry{
		ID:     uuid.NewString(),
		UserID: userID,
		Text:   text,
		At:     s.now(),
	}
	if err := s.activities.InsertActivity(ctx, entry); err != nil {
		s.logger.Warn("activity insert failed", "error", err)
		return
	}
	if s.notifier != nil {
		payload, err := json.Marshal(entry)
		if err == nil {
			s.notifier.Broadcast(ActivityStream, payload)
		}
	}
}
