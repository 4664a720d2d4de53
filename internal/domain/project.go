package domain

import (
	"encoding/json"
	"time"
)

// EnvSet holds one application's environment variables plus update stamp.
// Values are stored encrypted; the project service owns the cipher.
type EnvSet struct {
	Values    map[string]string `json:"values"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// AppInfo describes one application discovered by analysis.
type AppInfo struct {
	Name string `json:"name"`
	Path string `json:"path,omitempty"`
}

// Project describes one deployable unit a user manages through the
// setup checklist.
type Project struct {
	ID                 string            `json:"id"`
	Name               string            `json:"name"`
	Description        string            `json:"description,omitempty"`
	GithubRepo         *GithubRepo       `json:"githubRepo,omitempty"`
	LastAnalysisResult json.RawMessage   `json:"lastAnalysisResult,omitempty"`
	Envs               map[string]EnvSet `json:"envs,omitempty"`
	Domains            map[string]string `json:"domains,omitempty"`
	ServerID           string            `json:"serverId,omitempty"`
	CICDSetup          bool              `json:"ciCdSetup"`
	LastDeployAt       *time.Time        `json:"lastDeployAt,omitempty"`
	CreatedAt          time.Time         `json:"createdAt"`
	UpdatedAt          time.Time         `json:"updatedAt"`
	UserID             string            `json:"userId,omitempty"`
}

// AnalysisApps decodes the application list out of the stored analysis
// report. The report is otherwise opaque JSON; the app list is the only
// part the rest of the system depends on.
func (p *Project) AnalysisApps() []AppInfo {
	if len(p.LastAnalysisResult) == 0 {
		return nil
	}
	var report struct {
		Apps []AppInfo `json:"apps"`
	}
	if err := json.Unmarshal(p.LastAnalysisResult, &report); err != nil {
		return nil
	}
	return report.Apps
}
