package models

import (
	"database/sql"
	"time"
)

const (
	PostStatusScheduled = "scheduled"
	PostStatusPublished = "published"
	PostStatusArchived  = "archived"
)

// ScheduledPost is a content item waiting for its hand-off to the listing
// provider. "Scheduled" is a status value, not a timer; nothing fires
// automatically when scheduled_at passes.
type ScheduledPost struct {
	ID              int64          `db:"id" json:"id"`
	FranchiseID     sql.NullString `db:"franchise_id" json:"franchise_id"`
	Title           string         `db:"title" json:"title"`
	Body            string         `db:"body" json:"body"`
	Platform        string         `db:"platform" json:"platform"`
	PostType        string         `db:"post_type" json:"post_type"`
	Hashtags        []string       `db:"hashtags" json:"hashtags"`
	Mentions        []string       `db:"mentions" json:"mentions"`
	Metadata        Metadata       `db:"metadata" json:"metadata"`
	SourceContentID sql.NullInt64  `db:"source_content_id" json:"source_content_id"`
	SourceMediaID   sql.NullInt64  `db:"source_media_id" json:"source_media_id"`
	ScheduledAt     time.Time      `db:"scheduled_at" json:"scheduled_at"`
	Status          string         `db:"status" json:"status"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`
}

// PublishedPost records a hand-off the operator confirmed on the provider side.
type PublishedPost struct {
	ID              int64          `db:"id" json:"id"`
	FranchiseID     sql.NullString `db:"franchise_id" json:"franchise_id"`
	Title           string         `db:"title" json:"title"`
	Body            string         `db:"body" json:"body"`
	Platform        string         `db:"platform" json:"platform"`
	PostType        string         `db:"post_type" json:"post_type"`
	Hashtags        []string       `db:"hashtags" json:"hashtags"`
	Mentions        []string       `db:"mentions" json:"mentions"`
	Metadata        Metadata       `db:"metadata" json:"metadata"`
	SourceContentID sql.NullInt64  `db:"source_content_id" json:"source_content_id"`
	SourceMediaID   sql.NullInt64  `db:"source_media_id" json:"source_media_id"`
	PublishedAt     time.Time      `db:"published_at" json:"published_at"`
	PlatformPostID  string         `db:"platform_post_id" json:"platform_post_id"`
	PlatformURL     string         `db:"platform_url" json:"platform_url"`
	Status          string         `db:"status" json:"status"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`
}

// FranchisePhoto is the media collaborator's reference row. The core never
// stores photo bytes; it only resolves franchise ownership through this link.
type FranchisePhoto struct {
	ID          int64     `db:"id"`
	FranchiseID string    `db:"franchise_id"`
	PhotoURL    string    `db:"photo_url"`
	CreatedAt   time.Time `db:"created_at"`
}

// GeneratedContent is the AI text collaborator's reference row.
type GeneratedContent struct {
	ID          int64     `db:"id"`
	FranchiseID string    `db:"franchise_id"`
	ContentType string    `db:"content_type"`
	CreatedAt   time.Time `db:"created_at"`
}
