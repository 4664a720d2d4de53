package memory

import (
	"encoding/json"

	"github.com/omniinfra/platform/internal/domain"
)

var demoUser = domain.User{
	ID:        DemoUserID,
	Username:  "alex",
	CreatedAt: ts("2024-11-01T09:00:00Z"),
}

var demoProjects = []domain.Project{
	{
		ID:        "proj-1",
		Name:      "OmniInfra Backend",
		CreatedAt: ts("2024-12-01T09:00:00Z"),
		UpdatedAt: ts("2024-12-01T09:00:00Z"),
		UserID:    DemoUserID,
	},
	{
		ID:         "proj-2",
		Name:       "Analytics Service",
		GithubRepo: &domain.GithubRepo{FullName: "company/analytics"},
		LastAnalysisResult: json.RawMessage(
			`{"apps":[{"name":"api"},{"name":"worker"}],"isMonorepo":true}`),
		Envs: map[string]domain.EnvSet{
			"api": {
				Values:    map[string]string{"DATABASE_URL": "postgres://...", "API_KEY": "sk-..."},
				UpdatedAt: ts("2024-12-10T10:00:00Z"),
			},
			"worker": {
				Values:    map[string]string{"REDIS_URL": "redis://..."},
				UpdatedAt: ts("2024-12-10T10:00:00Z"),
			},
		},
		Domains:      map[string]string{"api": "api.omniinfra.co", "worker": "worker.omniinfra.co"},
		ServerID:     "srv-analytics-1",
		CICDSetup:    true,
		LastDeployAt: tsPtr("2024-12-10T15:30:00Z"),
		CreatedAt:    ts("2024-12-02T09:00:00Z"),
		UpdatedAt:    ts("2024-12-10T15:30:00Z"),
		UserID:       DemoUserID,
	},
	{
		ID:         "proj-3",
		Name:       "E-commerce Platform",
		GithubRepo: &domain.GithubRepo{FullName: "company/ecommerce"},
		LastAnalysisResult: json.RawMessage(
			`{"apps":[{"name":"frontend"},{"name":"backend"},{"name":"admin"}],"isMonorepo":true}`),
		Envs: map[string]domain.EnvSet{
			"frontend": {
				Values:    map[string]string{"API_URL": "https://api.example.com"},
				UpdatedAt: ts("2024-12-09T14:20:00Z"),
			},
			"backend": {
				Values:    map[string]string{"DATABASE_URL": "postgres://...", "STRIPE_KEY": "sk_..."},
				UpdatedAt: ts("2024-12-09T14:20:00Z"),
			},
		},
		Domains: map[string]string{
			"frontend": "shop.omniinfra.co",
			"backend":  "api.shop.omniinfra.co",
			"admin":    "admin.shop.omniinfra.co",
		},
		ServerID:     "srv-ecommerce-1",
		CICDSetup:    true,
		LastDeployAt: tsPtr("2024-12-09T16:45:00Z"),
		CreatedAt:    ts("2024-12-03T09:00:00Z"),
		UpdatedAt:    ts("2024-12-09T16:45:00Z"),
		UserID:       DemoUserID,
	},
	{
		ID:         "proj-4",
		Name:       "Marketing Website",
		GithubRepo: &domain.GithubRepo{FullName: "company/marketing-site"},
		LastAnalysisResult: json.RawMessage(
			`{"apps":[{"name":"website"}],"isMonorepo":false}`),
		Envs: map[string]domain.EnvSet{
			"website": {
				Values:    map[string]string{"CMS_API": "https://cms.example.com"},
				UpdatedAt: ts("2024-12-08T11:30:00Z"),
			},
		},
		Domains:      map[string]string{"website": "marketing.omniinfra.co"},
		ServerID:     "srv-marketing-1",
		CICDSetup:    true,
		LastDeployAt: tsPtr("2024-12-08T12:15:00Z"),
		CreatedAt:    ts("2024-12-04T09:00:00Z"),
		UpdatedAt:    ts("2024-12-08T12:15:00Z"),
		UserID:       DemoUserID,
	},
	{
		ID:         "proj-5",
		Name:       "Mobile API Gateway",
		GithubRepo: &domain.GithubRepo{FullName: "company/mobile-gateway"},
		LastAnalysisResult: json.RawMessage(
			`{"apps":[{"name":"gateway"}],"isMonorepo":false}`),
		CreatedAt: ts("2024-12-05T09:00:00Z"),
		UpdatedAt: ts("2024-12-05T09:00:00Z"),
		UserID:    DemoUserID,
	},
	{
		ID:        "proj-6",
		Name:      "Data Processing Pipeline",
		CreatedAt: ts("2024-12-06T09:00:00Z"),
		UpdatedAt: ts("2024-12-06T09:00:00Z"),
		UserID:    DemoUserID,
	},
}

var demoActivities = []domain.ActivityEntry{
	{ID: "act-1", UserID: DemoUserID, Text: "Deployed Analytics Service to production", At: ts("2024-12-10T15:30:00Z")},
	{ID: "act-2", UserID: DemoUserID, Text: "CI/CD pipeline configured for Analytics Service", At: ts("2024-12-10T14:15:00Z")},
	{ID: "act-3", UserID: DemoUserID, Text: "Domain configured for Analytics Service", At: ts("2024-12-10T13:45:00Z")},
	{ID: "act-4", UserID: DemoUserID, Text: "Environment variables added to Analytics Service", At: ts("2024-12-10T12:20:00Z")},
	{ID: "act-5", UserID: DemoUserID, Text: "Analytics Service project analyzed", At: ts("2024-12-10T11:10:00Z")},
}
