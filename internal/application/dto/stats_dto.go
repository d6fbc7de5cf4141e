package dto

// StatsResponse represents repository metadata in API responses
type StatsResponse struct {
	FullName      string `json:"full_name"`
	Description   string `json:"description"`
	DefaultBranch string `json:"default_branch"`
	Stars         int    `json:"stars"`
	Forks         int    `json:"forks"`
	Watchers      int    `json:"watchers"`
	OpenIssues    int    `json:"open_issues"`
	Contributors  int    `json:"contributors"`
	Releases      int    `json:"releases"`
}

// ReadmeResponse represents a repository readme in API responses
type ReadmeResponse struct {
	Name    string `json:"name"`
	Content string `json:"content"`
	HTMLURL string `json:"html_url"`
}
