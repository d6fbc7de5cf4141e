package dto

// RecentEntryResponse represents a recent repository entry in API responses
type RecentEntryResponse struct {
	ID         string   `json:"id"`
	Owner      string   `json:"owner"`
	Name       string   `json:"name"`
	FullName   string   `json:"full_name"`
	Targets    []string `json:"targets"`
	LastOpened string   `json:"last_opened"`
}

// RecentListResponse represents the recent repositories list
type RecentListResponse struct {
	Entries []*RecentEntryResponse `json:"entries"`
}

// RecordRecentRequest represents a request to record a repository as opened
type RecordRecentRequest struct {
	Owner   string   `json:"owner" binding:"required"`
	Name    string   `json:"name" binding:"required"`
	Targets []string `json:"targets"`
}
