package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/foster034/pal-content-api/internal/models"
	"github.com/redis/go-redis/v9"
)

// settingsCacheTTL bounds staleness for settings reads. The database stays the
// source of truth; the cache only absorbs hot-path reads and expires on its
// own, so multiple process instances converge within the TTL.
const settingsCacheTTL = 30 * time.Second

const settingsCachePrefix = "settings:"

type SettingsRepository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

type settingsRepository struct {
	db    *sql.DB
	cache *redis.Client
}

func NewSettingsRepository(db *sql.DB, cache *redis.Client) SettingsRepository {
	return &settingsRepository{db: db, cache: cache}
}

func (r *settingsRepository) Get(ctx context.Context, key string) (string, bool, error) {
	if r.cache != nil {
		cached, err := r.cache.Get(ctx, settingsCachePrefix+key).Result()
		if err == nil {
			return cached, true, nil
		}
		if err != redis.Nil {
			slog.Info(err.Error())
		}
	}

	query := `SELECT value FROM app_settings WHERE key = $1`
	var s models.Setting
	err := r.db.QueryRowContext(ctx, query, key).Scan(&s.Value)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		slog.Info(err.Error())
		return "", false, err
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, settingsCachePrefix+key, s.Value, settingsCacheTTL).Err(); err != nil {
			slog.Info(err.Error())
		}
	}

	return s.Value, true, nil
}

func (r *settingsRepository) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO app_settings (key, value, updated_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = CURRENT_TIMESTAMP
	`
	if _, err := r.db.ExecContext(ctx, query, key, value); err != nil {
		slog.Info(err.Error())
		return err
	}

	if r.cache != nil {
		if err := r.cache.Del(ctx, settingsCachePrefix+key).Err(); err != nil {
			slog.Info(err.Error())
		}
	}
	return nil
}
