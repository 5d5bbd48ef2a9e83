package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/foster034/pal-content-api/internal/models"
	"github.com/foster034/pal-content-api/internal/repository"
	"github.com/foster034/pal-content-api/internal/transfer"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	defaultListLimit = 50

	timeLayoutFallback = "2006-01-02T15:04"
)

// PublishService advances content items through
// scheduled -> published -> archived with franchise scoping. Publishing here
// records the outcome of a hand-off the operator performed through the post
// composer deep link; it does not call the provider's posting API.
type PublishService interface {
	Schedule(ctx context.Context, pc *transfer.ScheduledPostCreation) (*models.ScheduledPost, error)
	Publish(ctx context.Context, pc *transfer.PublishedPostCreation) (*models.PublishedPost, error)
	ListScheduled(ctx context.Context, franchiseID string, limit int, includeArchived bool) ([]*models.ScheduledPost, error)
	ListPublished(ctx context.Context, franchiseID string, limit int, includeArchived bool) ([]*models.PublishedPost, error)
	ArchiveScheduled(ctx context.Context, id int64) error
	ArchivePublished(ctx context.Context, id int64) error
	UpdatePublished(ctx context.Context, id int64, upd *transfer.PublishedPostUpdate) (*models.PublishedPost, error)
}

type publishService struct {
	sp       repository.ScheduledPostRepository
	pp       repository.PublishedPostRepository
	settings SettingsService
}

func NewPublishService(sp repository.ScheduledPostRepository, pp repository.PublishedPostRepository, settings SettingsService) PublishService {
	return &publishService{sp: sp, pp: pp, settings: settings}
}

func parsePostTime(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err == nil {
		return t, nil
	}
	return time.Parse(timeLayoutFallback, value)
}

func (s *publishService) Schedule(ctx context.Context, pc *transfer.ScheduledPostCreation) (*models.ScheduledPost, error) {
	switch {
	case pc.FranchiseID == "":
		return nil, NewValidationError("franchise_id")
	case pc.Title == "":
		return nil, NewValidationError("title")
	case pc.Body == "":
		return nil, NewValidationError("body")
	case pc.Platform == "":
		return nil, NewValidationError("platform")
	case pc.ScheduledAt == "":
		return nil, NewValidationError("scheduled_at")
	}

	scheduledAt, err := parsePostTime(pc.ScheduledAt)
	if err != nil {
		slog.Info(err.Error())
		return nil, NewValidationError("scheduled_at")
	}

	post := &models.ScheduledPost{
		FranchiseID:     sql.NullString{String: pc.FranchiseID, Valid: true},
		Title:           pc.Title,
		Body:            pc.Body,
		Platform:        pc.Platform,
		PostType:        pc.PostType,
		Hashtags:        pc.Hashtags,
		Mentions:        pc.Mentions,
		Metadata:        pc.Metadata,
		SourceContentID: nullInt64(pc.SourceContentID),
		SourceMediaID:   nullInt64(pc.SourceMediaID),
		ScheduledAt:     scheduledAt,
		Status:          models.PostStatusScheduled,
	}

	id, err := s.sp.Create(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("error creating scheduled post: %w", err)
	}

	post.ID = id
	return post, nil
}

func (s *publishService) Publish(ctx context.Context, pc *transfer.PublishedPostCreation) (*models.PublishedPost, error) {
	switch {
	case pc.FranchiseID == "":
		return nil, NewValidationError("franchise_id")
	case pc.Title == "":
		return nil, NewValidationError("title")
	case pc.Body == "":
		return nil, NewValidationError("body")
	case pc.Platform == "":
		return nil, NewValidationError("platform")
	case pc.PublishedAt == "":
		return nil, NewValidationError("published_at")
	}

	publishedAt, err := parsePostTime(pc.PublishedAt)
	if err != nil {
		slog.Info(err.Error())
		return nil, NewValidationError("published_at")
	}

	platformPostID := pc.PlatformPostID
	if platformPostID == "" {
		// Manual hand-offs carry no provider-issued id; record an internal
		// reference so the row stays addressable.
		ref, err := gonanoid.New()
		if err != nil {
			return nil, err
		}
		platformPostID = "manual_" + ref
	}

	post := &models.PublishedPost{
		FranchiseID:     sql.NullString{String: pc.FranchiseID, Valid: true},
		Title:           pc.Title,
		Body:            pc.Body,
		Platform:        pc.Platform,
		PostType:        pc.PostType,
		Hashtags:        pc.Hashtags,
		Mentions:        pc.Mentions,
		Metadata:        pc.Metadata,
		SourceContentID: nullInt64(pc.SourceContentID),
		SourceMediaID:   nullInt64(pc.SourceMediaID),
		PublishedAt:     publishedAt,
		PlatformPostID:  platformPostID,
		PlatformURL:     pc.PlatformURL,
		Status:          models.PostStatusPublished,
	}

	id, err := s.pp.Create(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("error creating published post: %w", err)
	}

	post.ID = id
	return post, nil
}

func (s *publishService) ListScheduled(ctx context.Context, franchiseID string, limit int, includeArchived bool) ([]*models.ScheduledPost, error) {
	if franchiseID == "" {
		return nil, NewValidationError("franchise_id")
	}
	if limit <= 0 {
		limit = s.settings.GetInt(ctx, SettingDefaultListLimit, defaultListLimit)
	}
	return s.sp.List(ctx, franchiseID, limit, includeArchived)
}

func (s *publishService) ListPublished(ctx context.Context, franchiseID string, limit int, includeArchived bool) ([]*models.PublishedPost, error) {
	if franchiseID == "" {
		return nil, NewValidationError("franchise_id")
	}
	if limit <= 0 {
		limit = s.settings.GetInt(ctx, SettingDefaultListLimit, defaultListLimit)
	}
	return s.pp.List(ctx, franchiseID, limit, includeArchived)
}

// ArchiveScheduled cancels a scheduled item. Archiving an already-archived
// item is a no-op success.
func (s *publishService) ArchiveScheduled(ctx context.Context, id int64) error {
	post, err := s.sp.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if post == nil {
		return repository.ErrNotFound
	}
	return s.sp.Archive(ctx, id)
}

func (s *publishService) ArchivePublished(ctx context.Context, id int64) error {
	post, err := s.pp.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if post == nil {
		return repository.ErrNotFound
	}
	return s.pp.Archive(ctx, id)
}

// UpdatePublished edits a still-published item. Archived is terminal, so the
// conditional write misses and the caller gets not-found.
func (s *publishService) UpdatePublished(ctx context.Context, id int64, upd *transfer.PublishedPostUpdate) (*models.PublishedPost, error) {
	post, err := s.pp.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, repository.ErrNotFound
	}

	if upd.Title != nil {
		post.Title = *upd.Title
	}
	if upd.Body != nil {
		post.Body = *upd.Body
	}
	if upd.Hashtags != nil {
		post.Hashtags = upd.Hashtags
	}
	if upd.Mentions != nil {
		post.Mentions = upd.Mentions
	}
	if upd.Metadata != nil {
		post.Metadata = upd.Metadata
	}
	if upd.PlatformURL != nil {
		post.PlatformURL = *upd.PlatformURL
	}

	if err := s.pp.Update(ctx, post); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return post, nil
}

func nullInt64(v int64) sql.NullInt64 {
	if v == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: v, Valid: true}
}
