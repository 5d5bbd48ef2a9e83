package transfer

import "github.com/foster034/pal-content-api/internal/models"

type ScheduledPostCreation struct {
	FranchiseID     string          `json:"franchise_id"`
	Title           string          `json:"title"`
	Body            string          `json:"body"`
	Platform        string          `json:"platform"`
	PostType        string          `json:"post_type"`
	Hashtags        []string        `json:"hashtags"`
	Mentions        []string        `json:"mentions"`
	Metadata        models.Metadata `json:"metadata"`
	SourceContentID int64           `json:"source_content_id"`
	SourceMediaID   int64           `json:"source_media_id"`
	ScheduledAt     string          `json:"scheduled_at"`
}

type PublishedPostCreation struct {
	FranchiseID     string          `json:"franchise_id"`
	Title           string          `json:"title"`
	Body            string          `json:"body"`
	Platform        string          `json:"platform"`
	PostType        string          `json:"post_type"`
	Hashtags        []string        `json:"hashtags"`
	Mentions        []string        `json:"mentions"`
	Metadata        models.Metadata `json:"metadata"`
	SourceContentID int64           `json:"source_content_id"`
	SourceMediaID   int64           `json:"source_media_id"`
	PublishedAt     string          `json:"published_at"`
	PlatformPostID  string          `json:"platform_post_id"`
	PlatformURL     string          `json:"platform_url"`
}

type PublishedPostUpdate struct {
	Title       *string         `json:"title"`
	Body        *string         `json:"body"`
	Hashtags    []string        `json:"hashtags"`
	Mentions    []string        `json:"mentions"`
	Metadata    models.Metadata `json:"metadata"`
	PlatformURL *string         `json:"platform_url"`
}

// BackfillReport summarizes one run of the franchise-id repair.
type BackfillReport struct {
	ScheduledExamined int `json:"scheduled_examined"`
	PublishedExamined int `json:"published_examined"`
	Repaired          int `json:"repaired"`
	Unresolved        int `json:"unresolved"`
}
