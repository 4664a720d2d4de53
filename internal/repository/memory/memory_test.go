package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/omniinfra/platform/internal/domain"
	"github.com/omniinfra/platform/internal/repository"
)

func TestSeededStoreContents(t *testing.T) {
	s := NewSeeded()
	ctx := context.Background()

	user, err := s.GetUserByID(ctx, DemoUserID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if user.Username != "alex" {
		t.Errorf("username = %q, want alex", user.Username)
	}

	projects, err := s.ListProjectsByUser(ctx, DemoUserID)
	if err != nil {
		t.Fatalf("ListProjectsByUser: %v", err)
	}
	if len(projects) != 6 {
		t.Fatalf("got %d projects, want 6", len(projects))
	}
	if projects[0].ID != "proj-1" || projects[5].ID != "proj-6" {
		t.Errorf("project order: first %s last %s", projects[0].ID, projects[5].ID)
	}

	analytics, err := s.GetProjectByID(ctx, "proj-2")
	if err != nil {
		t.Fatalf("GetProjectByID: %v", err)
	}
	if !analytics.CICDSetup || analytics.LastDeployAt == nil {
		t.Error("Analytics Service should be fully set up")
	}
	apps := analytics.AnalysisApps()
	if len(apps) != 2 || apps[0].Name != "api" || apps[1].Name != "worker" {
		t.Errorf("analysis apps = %v", apps)
	}
}

func TestGetProjectNotFound(t *testing.T) {
	s := New()
	_, err := s.GetProjectByID(context.Background(), "missing")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateProjectMissing(t *testing.T) {
	s := New()
	err := s.UpdateProject(context.Background(), &domain.Project{ID: "nope"})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateProjectIsolation(t *testing.T) {
	s := NewSeeded()
	ctx := context.Background()

	project, err := s.GetProjectByID(ctx, "proj-1")
	if err != nil {
		t.Fatal(err)
	}
	project.GithubRepo = &domain.GithubRepo{FullName: "company/omniinfra-backend"}
	if err := s.UpdateProject(ctx, project); err != nil {
		t.Fatal(err)
	}

	// mutating the caller's copy must not leak into the store
	project.GithubRepo.FullName = "mutated/elsewhere"
	stored, err := s.GetProjectByID(ctx, "proj-1")
	if err != nil {
		t.Fatal(err)
	}
	if stored.GithubRepo.FullName != "company/omniinfra-backend" {
		t.Errorf("stored repo = %q", stored.GithubRepo.FullName)
	}
}

func TestRecentActivityOrderAndLimit(t *testing.T) {
	s := NewSeeded()
	ctx := context.Background()

	entry := &domain.ActivityEntry{
		ID:     "act-new",
		UserID: DemoUserID,
		Text:   "Connected GitHub repository to OmniInfra Backend",
		At:     time.Date(2024, 12, 11, 9, 0, 0, 0, time.UTC),
	}
	if err := s.InsertActivity(ctx, entry); err != nil {
		t.Fatal(err)
	}

	entries, err := s.ListRecentActivity(ctx, DemoUserID, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 5 {
		t.Fatalf("got %d entries, want 5", len(entries))
	}
	if entries[0].ID != "act-new" {
		t.Errorf("newest entry = %s, want act-new", entries[0].ID)
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].At.After(entries[i-1].At) {
			t.Errorf("entries out of order at %d", i)
		}
	}
}

func TestGetUserByUsername(t *testing.T) {
	s := NewSeeded()
	if _, err := s.GetUserByUsername(context.Background(), "alex"); err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	_, err := s.GetUserByUsername(context.Background(), "nobody")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
