package model

import "time"

// ScrapeJob is the queue payload handed to the combine-files batch tool.
// It carries a full copy of the target's selection rules so the consumer
// does not need this service's config to act on it.
type ScrapeJob struct {
	JobID          string    `json:"job_id"`
	Target         string    `json:"target"`
	RepoURL        string    `json:"repo_url"`
	FileExtensions []string  `json:"file_extensions"`
	IncludeFolders []string  `json:"include_folders"`
	ExcludeFolders []string  `json:"exclude_folders"`
	RequestedAt    time.Time `json:"requested_at"`
}
