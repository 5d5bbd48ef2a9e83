package service

import (
	"context"
	"sync"
	"time"

	"github.com/foster034/pal-content-api/internal/models"
	"github.com/foster034/pal-content-api/internal/repository"
)

// fakeCredentialRepo keeps full row history like the real table: upserts
// deactivate the previous active row instead of replacing it.
type fakeCredentialRepo struct {
	mu               sync.Mutex
	rows             []*models.GBPCredential
	nextID           int64
	conflictOnUpdate bool
}

func newFakeCredentialRepo() *fakeCredentialRepo {
	return &fakeCredentialRepo{nextID: 1}
}

func (f *fakeCredentialRepo) Upsert(ctx context.Context, cred *models.GBPCredential) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, row := range f.rows {
		if row.FranchiseID == cred.FranchiseID {
			row.Active = false
		}
	}

	stored := *cred
	stored.ID = f.nextID
	stored.Active = true
	stored.CreatedAt = time.Now()
	f.nextID++
	f.rows = append(f.rows, &stored)
	return stored.ID, nil
}

func (f *fakeCredentialRepo) GetActive(ctx context.Context, franchiseID string) (*models.GBPCredential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, row := range f.rows {
		if row.FranchiseID == franchiseID && row.Active {
			copied := *row
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeCredentialRepo) Deactivate(ctx context.Context, franchiseID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, row := range f.rows {
		if row.FranchiseID == franchiseID {
			row.Active = false
		}
	}
	return nil
}

func (f *fakeCredentialRepo) SetSelectedLocation(ctx context.Context, franchiseID, location string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, row := range f.rows {
		if row.FranchiseID == franchiseID && row.Active {
			row.SelectedLocation.String = location
			row.SelectedLocation.Valid = true
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeCredentialRepo) UpdateToken(ctx context.Context, franchiseID, oldAccessToken string, cred *models.GBPCredential) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.conflictOnUpdate {
		return repository.ErrConflict
	}

	for _, row := range f.rows {
		if row.FranchiseID == franchiseID && row.Active && row.AccessToken == oldAccessToken {
			row.AccessToken = cred.AccessToken
			if cred.RefreshToken != "" {
				row.RefreshToken = cred.RefreshToken
			}
			row.ExpiresAt = cred.ExpiresAt
			row.LastRefreshedAt.Time = time.Now()
			row.LastRefreshedAt.Valid = true
			return nil
		}
	}
	return repository.ErrConflict
}

func (f *fakeCredentialRepo) ListExpiring(ctx context.Context, before time.Time) ([]*models.GBPCredential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*models.GBPCredential
	for _, row := range f.rows {
		if row.Active && row.RefreshToken != "" && row.ExpiresAt.Before(before) {
			copied := *row
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeCredentialRepo) activeCount(franchiseID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, row := range f.rows {
		if row.FranchiseID == franchiseID && row.Active {
			n++
		}
	}
	return n
}

type fakeScheduledPostRepo struct {
	rows   map[int64]*models.ScheduledPost
	nextID int64
}

func newFakeScheduledPostRepo() *fakeScheduledPostRepo {
	return &fakeScheduledPostRepo{rows: make(map[int64]*models.ScheduledPost), nextID: 1}
}

func (f *fakeScheduledPostRepo) Create(ctx context.Context, post *models.ScheduledPost) (int64, error) {
	stored := *post
	stored.ID = f.nextID
	f.nextID++
	f.rows[stored.ID] = &stored
	return stored.ID, nil
}

func (f *fakeScheduledPostRepo) GetByID(ctx context.Context, id int64) (*models.ScheduledPost, error) {
	post, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	copied := *post
	return &copied, nil
}

func (f *fakeScheduledPostRepo) List(ctx context.Context, franchiseID string, limit int, includeArchived bool) ([]*models.ScheduledPost, error) {
	var out []*models.ScheduledPost
	for _, post := range f.rows {
		if !post.FranchiseID.Valid || post.FranchiseID.String != franchiseID {
			continue
		}
		if !includeArchived && post.Status == models.PostStatusArchived {
			continue
		}
		copied := *post
		out = append(out, &copied)
	}
	// scheduled_at ascending
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].ScheduledAt.Before(out[i].ScheduledAt) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeScheduledPostRepo) Archive(ctx context.Context, id int64) error {
	if post, ok := f.rows[id]; ok && post.Status != models.PostStatusArchived {
		post.Status = models.PostStatusArchived
	}
	return nil
}

func (f *fakeScheduledPostRepo) ListMissingFranchise(ctx context.Context) ([]*models.ScheduledPost, error) {
	var out []*models.ScheduledPost
	for _, post := range f.rows {
		if !post.FranchiseID.Valid {
			copied := *post
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeScheduledPostRepo) SetFranchiseID(ctx context.Context, id int64, franchiseID string) error {
	if post, ok := f.rows[id]; ok && !post.FranchiseID.Valid {
		post.FranchiseID.String = franchiseID
		post.FranchiseID.Valid = true
	}
	return nil
}

type fakePublishedPostRepo struct {
	rows   map[int64]*models.PublishedPost
	nextID int64
}

func newFakePublishedPostRepo() *fakePublishedPostRepo {
	return &fakePublishedPostRepo{rows: make(map[int64]*models.PublishedPost), nextID: 1}
}

func (f *fakePublishedPostRepo) Create(ctx context.Context, post *models.PublishedPost) (int64, error) {
	stored := *post
	stored.ID = f.nextID
	f.nextID++
	f.rows[stored.ID] = &stored
	return stored.ID, nil
}

func (f *fakePublishedPostRepo) GetByID(ctx context.Context, id int64) (*models.PublishedPost, error) {
	post, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	copied := *post
	return &copied, nil
}

func (f *fakePublishedPostRepo) List(ctx context.Context, franchiseID string, limit int, includeArchived bool) ([]*models.PublishedPost, error) {
	var out []*models.PublishedPost
	for _, post := range f.rows {
		if !post.FranchiseID.Valid || post.FranchiseID.String != franchiseID {
			continue
		}
		if !includeArchived && post.Status == models.PostStatusArchived {
			continue
		}
		copied := *post
		out = append(out, &copied)
	}
	// published_at descending
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].PublishedAt.After(out[i].PublishedAt) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakePublishedPostRepo) Update(ctx context.Context, post *models.PublishedPost) error {
	existing, ok := f.rows[post.ID]
	if !ok || existing.Status != models.PostStatusPublished {
		return repository.ErrNotFound
	}
	copied := *post
	f.rows[post.ID] = &copied
	return nil
}

func (f *fakePublishedPostRepo) Archive(ctx context.Context, id int64) error {
	if post, ok := f.rows[id]; ok && post.Status != models.PostStatusArchived {
		post.Status = models.PostStatusArchived
	}
	return nil
}

func (f *fakePublishedPostRepo) ListMissingFranchise(ctx context.Context) ([]*models.PublishedPost, error) {
	var out []*models.PublishedPost
	for _, post := range f.rows {
		if !post.FranchiseID.Valid {
			copied := *post
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakePublishedPostRepo) SetFranchiseID(ctx context.Context, id int64, franchiseID string) error {
	if post, ok := f.rows[id]; ok && !post.FranchiseID.Valid {
		post.FranchiseID.String = franchiseID
		post.FranchiseID.Valid = true
	}
	return nil
}

type fakePhotoRepo struct {
	rows map[int64]*models.FranchisePhoto
}

func (f *fakePhotoRepo) GetByID(ctx context.Context, id int64) (*models.FranchisePhoto, error) {
	photo, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	return photo, nil
}

type fakeContentRepo struct {
	rows map[int64]*models.GeneratedContent
}

func (f *fakeContentRepo) GetByID(ctx context.Context, id int64) (*models.GeneratedContent, error) {
	content, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	return content, nil
}

// fakeSettings always falls back to defaults.
type fakeSettings struct{}

func (fakeSettings) GetInt(ctx context.Context, key string, fallback int) int { return fallback }
func (fakeSettings) Set(ctx context.Context, key, value string) error         { return nil }
