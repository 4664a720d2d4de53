package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/omniinfra/platform/internal/domain"
	"github.com/omniinfra/platform/internal/repository"
)

// Repository implements persistence interfaces on PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// New constructs a Repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ensure Repository satisfies interfaces.
var (
	_ repository.UserRepository     = (*Repository)(nil)
	_ repository.ProjectRepository  = (*Repository)(nil)
	_ repository.ActivityRepository = (*Repository)(nil)
)

// CreateUser inserts a user.
func (r *Repository) CreateUser(ctx context.Context, user *domain.User) error {
	const query = `INSERT INTO users (id, username, password_hash, created_at)
		VALUES ($1, $2, $3, $4)`
	_, err := r.pool.Exec(ctx, query, user.ID, user.Username, user.PasswordHash, user.CreatedAt)
	return err
}

// GetUserByUsername fetches a user by login name.
func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	const query = `SELECT id, username, password_hash, created_at FROM users WHERE username = $1`
	row := r.pool.QueryRow(ctx, query, username)
	var u domain.User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetUserByID retrieves a user by identifier.
func (r *Repository) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `SELECT id, username, password_hash, created_at FROM users WHERE id = $1`
	row := r.pool.QueryRow(ctx, query, id)
	var u domain.User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

const projectColumns = `id, name, description, github_repo, last_analysis_result, envs,
	domains, server_id, ci_cd_setup, last_deploy_at, created_at, updated_at, user_id`

// CreateProject inserts a project row.
func (r *Repository) CreateProject(ctx context.Context, project *domain.Project) error {
	const query = `INSERT INTO projects (` + projectColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	githubRepo, envs, domains, err := marshalProjectJSON(project)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, query,
		project.ID, project.Name, nullString(project.Description),
		githubRepo, rawOrNil(project.LastAnalysisResult), envs, domains,
		nullString(project.ServerID), project.CICDSetup, project.LastDeployAt,
		project.CreatedAt, project.UpdatedAt, nullString(project.UserID))
	return err
}

// UpdateProject replaces a project's mutable state wholesale.
func (r *Repository) UpdateProject(ctx context.Context, project *domain.Project) error {
	const query = `UPDATE projects SET name = $2, description = $3, github_repo = $4,
		last_analysis_result = $5, envs = $6, domains = $7, server_id = $8,
		ci_cd_setup = $9, last_deploy_at = $10, updated_at = $11
		WHERE id = $1`
	githubRepo, envs, domains, err := marshalProjectJSON(project)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, query,
		project.ID, project.Name, nullString(project.Description),
		githubRepo, rawOrNil(project.LastAnalysisResult), envs, domains,
		nullString(project.ServerID), project.CICDSetup, project.LastDeployAt,
		project.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// GetProjectByID returns one project.
func (r *Repository) GetProjectByID(ctx context.Context, projectID string) (*domain.Project, error) {
	const query = `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	row := r.pool.QueryRow(ctx, query, projectID)
	project, err := scanProject(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return project, nil
}

// ListProjectsByUser returns the user's projects, oldest first.
func (r *Repository) ListProjectsByUser(ctx context.Context, userID string) ([]domain.Project, error) {
	const query = `SELECT ` + projectColumns + ` FROM projects WHERE user_id = $1 ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var projects []domain.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *project)
	}
	return projects, rows.Err()
}

// InsertActivity appends an activity entry.
func (r *Repository) InsertActivity(ctx context.Context, entry *domain.ActivityEntry) error {
	const query = `INSERT INTO activities (id, user_id, text, created_at)
		VALUES ($1, $2, $3, $4)`
	_, err := r.pool.Exec(ctx, query, entry.ID, nullString(entry.UserID), entry.Text, entry.At)
	return err
}

// ListRecentActivity returns the newest entries first.
func (r *Repository) ListRecentActivity(ctx context.Context, userID string, limit int) ([]domain.ActivityEntry, error) {
	const query = `SELECT id, COALESCE(user_id, ''), text, created_at FROM activities
		WHERE user_id IS NULL OR user_id = $1
		ORDER BY created_at DESC LIMIT $2`
	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []domain.ActivityEntry
	for rows.Next() {
		var entry domain.ActivityEntry
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Text, &entry.At); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var (
		project     domain.Project
		description *string
		githubRepo  []byte
		analysis    []byte
		envs        []byte
		domains     []byte
		serverID    *string
		userID      *string
	)
	if err := row.Scan(&project.ID, &project.Name, &description, &githubRepo,
		&analysis, &envs, &domains, &serverID, &project.CICDSetup,
		&project.LastDeployAt, &project.CreatedAt, &project.UpdatedAt, &userID); err != nil {
		return nil, err
	}
	if description != nil {
		project.Description = *description
	}
	if serverID != nil {
		project.ServerID = *serverID
	}
	if userID != nil {
		project.UserID = *userID
	}
	if len(githubRepo) > 0 {
		var repo domain.GithubRepo
		if err := json.Unmarshal(githubRepo, &repo); err != nil {
			return nil, err
		}
		project.GithubRepo = &repo
	}
	if len(analysis) > 0 {
		project.LastAnalysisResult = json.RawMessage(analysis)
	}
	if len(envs) > 0 {
		if err := json.Unmarshal(envs, &project.Envs); err != nil {
			return nil, err
		}
	}
	if len(domains) > 0 {
		if err := json.Unmarshal(domains, &project.Domains); err != nil {
			return nil, err
		}
	}
	return &project, nil
}

func marshalProjectJSON(project *domain.Project) (githubRepo, envs, domains []byte, err error) {
	if project.GithubRepo != nil {
		githubRepo, err = json.Marshal(project.GithubRepo)
		if err != nil {
			return nil, nil, nil, err
		}
	}
	if project.Envs != nil {
		envs, err = json.Marshal(project.Envs)
		if err != nil {
			return nil, nil, nil, err
		}
	}
	if project.Domains != nil {
		domains, err = json.Marshal(project.Domains)
		if err != nil {
			return nil, nil, nil, err
		}
	}
	return githubRepo, envs, domains, nil
}

func rawOrNil(raw json.RawMessage) []byte {
	if len(raw) == 0 {
		return nil
	}
	return raw
}

func nullString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
