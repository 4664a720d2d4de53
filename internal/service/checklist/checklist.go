// Package checklist derives a project's setup-completion state. The six
// steps are evaluated independently from the project record; there is no
// state machine and nothing un-completes a step.
package checklist

import (
	"math"

	"github.com/omniinfra/platform/internal/domain"
)

// Checklist step identifiers, in display order.
const (
	StepConnectRepo     = "connect-repo"
	StepAnalyze         = "analyze"
	StepEnvironments    = "configure-environments"
	StepDomainAndServer = "configure-domain-and-server"
	StepCICD            = "setup-cicd"
	StepDeploy          = "deploy"
)

// Item is one checklist entry.
type Item struct {
	ID             string `json:"id"`
	Label          string `json:"label"`
	Completed      bool   `json:"completed"`
	RequiredAction string `json:"requiredAction"`
}

// Evaluate returns the six checklist items for a project in fixed order.
func Evaluate(p *domain.Project) []Item {
	apps := p.AnalysisApps()

	hasAllEnvs := len(apps) > 0
	for _, app := range apps {
		env, ok := p.Envs[app.Name]
		if !ok || len(env.Values) == 0 {
			hasAllEnvs = false
			break
		}
	}
	hasAllDomains := len(apps) > 0
	for _, app := range apps {
		if p.Domains[app.Name] == "" {
			hasAllDomains = false
			break
		}
	}

	return []Item{
		{
			ID:             StepConnectRepo,
			Label:          "Connect GitHub",
			Completed:      p.GithubRepo != nil && p.GithubRepo.FullName != "",
			RequiredAction: "Connect Repository",
		},
		{
			ID:             StepAnalyze,
			Label:          "Analyze Project",
			Completed:      len(apps) > 0,
			RequiredAction: "Run Analysis",
		},
		{
			ID:             StepEnvironments,
			Label:          "Add Environment Variables",
			Completed:      hasAllEnvs,
			RequiredAction: "Configure Envs",
		},
		{
			ID:             StepDomainAndServer,
			Label:          "Domain & Server Setup",
			Completed:      p.ServerID != "" && hasAllDomains,
			RequiredAction: "Setup Infrastructure",
		},
		{
			ID:             StepCICD,
			Label:          "Set up CI/CD Pipeline",
			Completed:      p.CICDSetup,
			RequiredAction: "Configure CI/CD",
		},
		{
			ID:             StepDeploy,
			Label:          "Deploy to Production",
			Completed:      p.LastDeployAt != nil,
			RequiredAction: "Deploy Now",
		},
	}
}

// Progress reports overall completion as a whole percentage, rounded to
// the nearest integer.
func Progress(items []Item) int {
	if len(items) == 0 {
		return 0
	}
	completed := 0
	for _, item := range items {
		if item.Completed {
			completed++
		}
	}
	return int(math.Round(float64(completed) / float64(len(items)) * 100))
}

// Enabled reports whether a step's action may be triggered: each action
// waits for its logical prerequisite, enforced here at the presentation
// boundary rather than inside the completion predicates.
func Enabled(items []Item, id string) bool {
	done := make(map[string]bool, len(items))
	for _, item := range items {
		done[item.ID] = item.Completed
	}
	switch id {
	case StepConnectRepo:
		return true
	case StepAnalyze:
		return done[StepConnectRepo]
	case StepEnvironments, StepDomainAndServer, StepCICD:
		return done[StepAnalyze]
	case StepDeploy:
		return done[StepCICD]
	}
	return false
}
