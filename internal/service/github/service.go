// Package github lists the repositories a user can connect. The shipped
// implementation returns a fixed catalog; a real GitHub API client can
// replace it behind the same interface.
package github

import (
	"context"
	"math/rand"
	"time"

	"github.com/omniinfra/platform/internal/domain"
)

// RepoLister exposes the user's connectable repositories.
type RepoLister interface {
	ListRepos(ctx context.Context) ([]domain.RepoDescriptor, error)
}

// Static serves a canned repository catalog after a simulated network
// delay.
type Static struct {
	minDelay time.Duration
	maxDelay time.Duration
}

// NewStatic constructs a Static lister.
func NewStatic(minDelay, maxDelay time.Duration) Static {
	return Static{minDelay: minDelay, maxDelay: maxDelay}
}

// ListRepos returns the catalog.
func (s Static) ListRepos(ctx context.Context) ([]domain.RepoDescriptor, error) {
	if s.maxDelay > 0 {
		delay := s.minDelay
		if s.maxDelay > s.minDelay {
			delay += time.Duration(rand.Int63n(int64(s.maxDelay - s.minDelay)))
		}
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	return append([]domain.RepoDescriptor(nil), catalog...), nil
}

var catalog = []domain.RepoDescriptor{
	{
		ID:              101,
		Name:            "omniinfra-backend",
		FullName:        "company/omniinfra-backend",
		Description:     "Backend API service for OmniInfra platform",
		Private:         false,
		HTMLURL:         "https://github.com/company/omniinfra-backend",
		Language:        "TypeScript",
		StargazersCount: 42,
		UpdatedAt:       "2024-12-15T10:30:00Z",
	},
	{
		ID:              102,
		Name:            "analytics",
		FullName:        "company/analytics",
		Description:     "Real-time analytics and data processing pipeline",
		Private:         true,
		HTMLURL:         "https://github.com/company/analytics",
		Language:        "Python",
		StargazersCount: 15,
		UpdatedAt:       "2024-12-14T14:20:00Z",
	},
	{
		ID:              103,
		Name:            "ecommerce",
		FullName:        "company/ecommerce",
		Description:     "Full-stack e-commerce platform with React and Node.js",
		Private:         false,
		HTMLURL:         "https://github.com/company/ecommerce",
		Language:        "JavaScript",
		StargazersCount: 87,
		UpdatedAt:       "2024-12-13T16:45:00Z",
	},
	{
		ID:              104,
		Name:            "marketing-site",
		FullName:        "company/marketing-site",
		Description:     "Marketing website with CMS integration",
		Private:         false,
		HTMLURL:         "https://github.com/company/marketing-site",
		Language:        "TypeScript",
		StargazersCount: 23,
		UpdatedAt:       "2024-12-12T11:30:00Z",
	},
	{
		ID:              105,
		Name:            "mobile-gateway",
		FullName:        "company/mobile-gateway",
		Description:     "API gateway for mobile applications",
		Private:         true,
		HTMLURL:         "https://github.com/company/mobile-gateway",
		Language:        "Go",
		StargazersCount: 34,
		UpdatedAt:       "2024-12-11T09:15:00Z",
	},
	{
		ID:              106,
		Name:            "data-pipeline",
		FullName:        "company/data-pipeline",
		Description:     "ETL data processing pipeline",
		Private:         true,
		HTMLURL:         "https://github.com/company/data-pipeline",
		Language:        "Python",
		StargazersCount: 19,
		UpdatedAt:       "2024-12-10T13:20:00Z",
	},
	{
		ID:              107,
		Name:            "auth-service",
		FullName:        "company/auth-service",
		Description:     "Centralized authentication and authorization service",
		Private:         false,
		HTMLURL:         "https://github.com/company/auth-service",
		Language:        "TypeScript",
		StargazersCount: 56,
		UpdatedAt:       "2024-12-09T15:10:00Z",
	},
	{
		ID:              108,
		Name:            "notification-service",
		FullName:        "company/notification-service",
		Description:     "Multi-channel notification system",
		Private:         true,
		HTMLURL:         "https://github.com/company/notification-service",
		Language:        "JavaScript",
		StargazersCount: 12,
		UpdatedAt:       "2024-12-08T12:00:00Z",
	},
}
