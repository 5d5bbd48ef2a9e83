package service

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/foster034/pal-content-api/internal/repository"
)

// Setting keys read on hot paths. Values live in the store; the repository's
// short-TTL cache keeps reads cheap without becoming a source of truth.
const (
	SettingRefreshMarginMinutes = "gbp.refresh_margin_minutes"
	SettingDefaultListLimit     = "posts.default_list_limit"
)

type SettingsService interface {
	GetInt(ctx context.Context, key string, fallback int) int
	Set(ctx context.Context, key, value string) error
}

type settingsService struct {
	sr repository.SettingsRepository
}

func NewSettingsService(sr repository.SettingsRepository) SettingsService {
	return &settingsService{sr: sr}
}

func (s *settingsService) GetInt(ctx context.Context, key string, fallback int) int {
	value, ok, err := s.sr.Get(ctx, key)
	if err != nil || !ok {
		return fallback
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		slog.Info("setting is not an integer", "key", key, "value", value)
		return fallback
	}
	return n
}

func (s *settingsService) Set(ctx context.Context, key, value string) error {
	return s.sr.Set(ctx, key, value)
}
