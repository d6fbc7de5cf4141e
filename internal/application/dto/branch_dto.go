package dto

// MergeStatusResponse represents one branch's merge status against a target
type MergeStatusResponse struct {
	Target        string  `json:"target"`
	IsMerged      bool    `json:"is_merged"`
	CommitsAhead  int     `json:"commits_ahead"`
	CommitsBehind int     `json:"commits_behind"`
	LastMergeDate *string `json:"last_merge_date"`
}

// BranchResponse represents a reconciled branch in API responses
type BranchResponse struct {
	Name         string                `json:"name"`
	Category     string                `json:"category"`
	LastUpdated  string                `json:"last_updated"`
	Author       string                `json:"author"`
	AuthorAvatar string                `json:"author_avatar"`
	Statuses     []MergeStatusResponse `json:"statuses"`
}

// ReconcileResponse represents the full reconciliation result
type ReconcileResponse struct {
	Repository string            `json:"repository"`
	Targets    []string          `json:"targets"`
	Branches   []*BranchResponse `json:"branches"`
}

// DeleteBranchResponse represents the outcome of a single branch deletion
type DeleteBranchResponse struct {
	Name    string `json:"name"`
	Deleted bool   `json:"deleted"`
	Error   string `json:"error,omitempty"`
}

// BulkDeleteRequest represents a bulk branch deletion request
type BulkDeleteRequest struct {
	Branches []string `json:"branches" binding:"required,min=1"`
}

// BulkDeleteResponse represents per-name outcomes of a bulk deletion
type BulkDeleteResponse struct {
	Results []DeleteBranchResponse `json:"results"`
	Deleted int                    `json:"deleted"`
	Failed  int                    `json:"failed"`
}
