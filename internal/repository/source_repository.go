package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/foster034/pal-content-api/internal/models"
)

// PhotoRepository and ContentRepository read the collaborator tables that the
// tenant backfill repair resolves ownership through. The core never writes
// these tables.

type PhotoRepository interface {
	GetByID(ctx context.Context, id int64) (*models.FranchisePhoto, error)
}

type photoRepository struct {
	db *sql.DB
}

func NewPhotoRepository(db *sql.DB) PhotoRepository {
	return &photoRepository{db: db}
}

func (r *photoRepository) GetByID(ctx context.Context, id int64) (*models.FranchisePhoto, error) {
	query := `SELECT id, franchise_id, photo_url, created_at FROM franchise_photos WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)

	var p models.FranchisePhoto
	err := row.Scan(&p.ID, &p.FranchiseID, &p.PhotoURL, &p.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &p, nil
}

type ContentRepository interface {
	GetByID(ctx context.Context, id int64) (*models.GeneratedContent, error)
}

type contentRepository struct {
	db *sql.DB
}

func NewContentRepository(db *sql.DB) ContentRepository {
	return &contentRepository{db: db}
}

func (r *contentRepository) GetByID(ctx context.Context, id int64) (*models.GeneratedContent, error) {
	query := `SELECT id, franchise_id, content_type, created_at FROM generated_content WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)

	var c models.GeneratedContent
	err := row.Scan(&c.ID, &c.FranchiseID, &c.ContentType, &c.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &c, nil
}
