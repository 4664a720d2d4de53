package domain

// GithubRepo identifies the source repository connected to a project.
type GithubRepo struct {
	FullName string `json:"full_name"`
	URL      string `json:"url,omitempty"`
}

// RepoDescriptor is one entry of the user's repository listing.
type RepoDescriptor struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	FullName        string `json:"full_name"`
	Description     string `json:"description"`
	Private         bool   `json:"private"`
	HTMLURL         string `json:"html_url"`
	Language        string `json:"language"`
	StargazersCount int    `json:"stargazers_count"`
	UpdatedAt       string `json:"updated_at"`
}
