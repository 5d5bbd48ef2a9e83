package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/foster034/pal-content-api/internal/models"
	"github.com/lib/pq"
)

type ScheduledPostRepository interface {
	Create(ctx context.Context, post *models.ScheduledPost) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.ScheduledPost, error)
	List(ctx context.Context, franchiseID string, limit int, includeArchived bool) ([]*models.ScheduledPost, error)
	Archive(ctx context.Context, id int64) error
	ListMissingFranchise(ctx context.Context) ([]*models.ScheduledPost, error)
	SetFranchiseID(ctx context.Context, id int64, franchiseID string) error
}

type scheduledPostRepository struct {
	db *sql.DB
}

func NewScheduledPostRepository(db *sql.DB) ScheduledPostRepository {
	return &scheduledPostRepository{db: db}
}

const scheduledPostColumns = `id, franchise_id, title, body, platform, post_type,
	hashtags, mentions, metadata, source_content_id, source_media_id,
	scheduled_at, status, created_at, updated_at`

func scanScheduledPost(row interface{ Scan(...interface{}) error }) (*models.ScheduledPost, error) {
	var p models.ScheduledPost
	err := row.Scan(&p.ID, &p.FranchiseID, &p.Title, &p.Body, &p.Platform, &p.PostType,
		pq.Array(&p.Hashtags), pq.Array(&p.Mentions), &p.Metadata,
		&p.SourceContentID, &p.SourceMediaID, &p.ScheduledAt, &p.Status,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *scheduledPostRepository) Create(ctx context.Context, post *models.ScheduledPost) (int64, error) {
	query := `
		INSERT INTO scheduled_posts (
			franchise_id, title, body, platform, post_type,
			hashtags, mentions, metadata, source_content_id, source_media_id,
			scheduled_at, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		post.FranchiseID, post.Title, post.Body, post.Platform, post.PostType,
		pq.Array(post.Hashtags), pq.Array(post.Mentions), post.Metadata,
		post.SourceContentID, post.SourceMediaID, post.ScheduledAt,
		models.PostStatusScheduled,
	).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *scheduledPostRepository) GetByID(ctx context.Context, id int64) (*models.ScheduledPost, error) {
	query := `SELECT ` + scheduledPostColumns + ` FROM scheduled_posts WHERE id = $1`
	post, err := scanScheduledPost(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return post, nil
}

// List returns the franchise's scheduled items soonest-first, excluding
// archived rows unless asked for.
func (r *scheduledPostRepository) List(ctx context.Context, franchiseID string, limit int, includeArchived bool) ([]*models.ScheduledPost, error) {
	query := `SELECT ` + scheduledPostColumns + ` FROM scheduled_posts WHERE franchise_id = $1`
	if !includeArchived {
		query += ` AND status <> '` + models.PostStatusArchived + `'`
	}
	query += ` ORDER BY scheduled_at ASC LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, franchiseID, limit)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*models.ScheduledPost
	for rows.Next() {
		post, err := scanScheduledPost(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// Archive is idempotent: an already-archived row matches zero rows and that is
// treated as success.
func (r *scheduledPostRepository) Archive(ctx context.Context, id int64) error {
	query := `
		UPDATE scheduled_posts
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

func (r *scheduledPostRepository) ListMissingFranchise(ctx context.Context) ([]*models.ScheduledPost, error) {
	query := `SELECT ` + scheduledPostColumns + ` FROM scheduled_posts WHERE franchise_id IS NULL`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*models.ScheduledPost
	for rows.Next() {
		post, err := scanScheduledPost(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// SetFranchiseID only fills a missing owner; it never overwrites one.
func (r *scheduledPostRepository) SetFranchiseID(ctx context.Context, id int64, franchiseID string) error {
	query := `UPDATE scheduled_posts SET franchise_id = $2, updated_at = $3 WHERE id = $1 AND franchise_id IS NULL`
	_, err := r.db.ExecContext(ctx, query, id, franchiseID, time.Now())
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
