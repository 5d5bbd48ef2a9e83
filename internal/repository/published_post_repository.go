package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/foster034/pal-content-api/internal/models"
	"github.com/lib/pq"
)

type PublishedPostRepository interface {
	Create(ctx context.Context, post *models.PublishedPost) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.PublishedPost, error)
	List(ctx context.Context, franchiseID string, limit int, includeArchived bool) ([]*models.PublishedPost, error)
	Update(ctx context.Context, post *models.PublishedPost) error
	Archive(ctx context.Context, id int64) error
	ListMissingFranchise(ctx context.Context) ([]*models.PublishedPost, error)
	SetFranchiseID(ctx context.Context, id int64, franchiseID string) error
}

type publishedPostRepository struct {
	db *sql.DB
}

func NewPublishedPostRepository(db *sql.DB) PublishedPostRepository {
	return &publishedPostRepository{db: db}
}

const publishedPostColumns = `id, franchise_id, title, body, platform, post_type,
	hashtags, mentions, metadata, source_content_id, source_media_id,
	published_at, platform_post_id, platform_url, status, created_at, updated_at`

func scanPublishedPost(row interface{ Scan(...interface{}) error }) (*models.PublishedPost, error) {
	var p models.PublishedPost
	err := row.Scan(&p.ID, &p.FranchiseID, &p.Title, &p.Body, &p.Platform, &p.PostType,
		pq.Array(&p.Hashtags), pq.Array(&p.Mentions), &p.Metadata,
		&p.SourceContentID, &p.SourceMediaID, &p.PublishedAt, &p.PlatformPostID,
		&p.PlatformURL, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *publishedPostRepository) Create(ctx context.Context, post *models.PublishedPost) (int64, error) {
	query := `
		INSERT INTO published_posts (
			franchise_id, title, body, platform, post_type,
			hashtags, mentions, metadata, source_content_id, source_media_id,
			published_at, platform_post_id, platform_url, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		post.FranchiseID, post.Title, post.Body, post.Platform, post.PostType,
		pq.Array(post.Hashtags), pq.Array(post.Mentions), post.Metadata,
		post.SourceContentID, post.SourceMediaID, post.PublishedAt,
		post.PlatformPostID, post.PlatformURL, models.PostStatusPublished,
	).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *publishedPostRepository) GetByID(ctx context.Context, id int64) (*models.PublishedPost, error) {
	query := `SELECT ` + publishedPostColumns + ` FROM published_posts WHERE id = $1`
	post, err := scanPublishedPost(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return post, nil
}

// List returns the franchise's published items most-recent-first, excluding
// archived rows unless asked for.
func (r *publishedPostRepository) List(ctx context.Context, franchiseID string, limit int, includeArchived bool) ([]*models.PublishedPost, error) {
	query := `SELECT ` + publishedPostColumns + ` FROM published_posts WHERE franchise_id = $1`
	if !includeArchived {
		query += ` AND status <> '` + models.PostStatusArchived + `'`
	}
	query += ` ORDER BY published_at DESC LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, franchiseID, limit)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*models.PublishedPost
	for rows.Next() {
		post, err := scanPublishedPost(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// Update edits mutable fields of a still-published row. Archived rows are
// terminal and never match.
func (r *publishedPostRepository) Update(ctx context.Context, post *models.PublishedPost) error {
	query := `
		UPDATE published_posts
		SET title = $2,
			body = $3,
			hashtags = $4,
			mentions = $5,
			metadata = $6,
			platform_url = $7,
			updated_at = $8
		WHERE id = $1 AND status = $9
	`
	result, err := r.db.ExecContext(ctx, query, post.ID, post.Title, post.Body,
		pq.Array(post.Hashtags), pq.Array(post.Mentions), post.Metadata,
		post.PlatformURL, time.Now(), models.PostStatusPublished)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *publishedPostRepository) Archive(ctx context.Context, id int64) error {
	query := `
		UPDATE published_posts
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status <> $1
	`
	_, err := r.db.ExecContext(ctx, query, models.PostStatusArchived, time.Now(), id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *publishedPostRepository) ListMissingFranchise(ctx context.Context) ([]*models.PublishedPost, error) {
	query := `SELECT ` + publishedPostColumns + ` FROM published_posts WHERE franchise_id IS NULL`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*models.PublishedPost
	for rows.Next() {
		post, err := scanPublishedPost(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func (r *publishedPostRepository) SetFranchiseID(ctx context.Context, id int64, franchiseID string) error {
	query := `UPDATE published_posts SET franchise_id = $2, updated_at = $3 WHERE id = $1 AND franchise_id IS NULL`
	_, err := r.db.ExecContext(ctx, query, id, franchiseID, time.Now())
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
