package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	config "github.com/foster034/pal-content-api/configs"
	"github.com/foster034/pal-content-api/internal/models"
	"github.com/foster034/pal-content-api/internal/repository"
	"github.com/foster034/pal-content-api/pkg/utils"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// defaultRefreshMarginMinutes keeps a token from expiring mid-call when the
// settings table carries no override.
const defaultRefreshMarginMinutes = 5

// TokenService decides when a stored access token is stale and swaps the
// refresh token for a new one.
type TokenService interface {
	EnsureFreshToken(ctx context.Context, cred *models.GBPCredential) (*models.GBPCredential, error)
}

type tokenService struct {
	cfg      config.Config
	cr       repository.CredentialRepository
	settings SettingsService
	endpoint oauth2.Endpoint
}

func NewTokenService(cfg config.Config, cr repository.CredentialRepository, settings SettingsService) TokenService {
	return &tokenService{
		cfg:      cfg,
		cr:       cr,
		settings: settings,
		endpoint: google.Endpoint,
	}
}

func (s *tokenService) EnsureFreshToken(ctx context.Context, cred *models.GBPCredential) (*models.GBPCredential, error) {
	margin := time.Duration(s.settings.GetInt(ctx, SettingRefreshMarginMinutes, defaultRefreshMarginMinutes)) * time.Minute

	if time.Now().Before(cred.ExpiresAt.Add(-margin)) {
		return cred, nil
	}

	if cred.RefreshToken == "" {
		if err := s.cr.Deactivate(ctx, cred.FranchiseID); err != nil {
			return nil, err
		}
		return nil, ErrReauthorizationRequired
	}

	refreshToken, err := utils.Decrypt(cred.RefreshToken, []byte(s.cfg.SecretKey))
	if err != nil {
		return nil, err
	}

	conf := &oauth2.Config{
		ClientID:     s.cfg.GoogleClientID,
		ClientSecret: s.cfg.GoogleClientSecret,
		Endpoint:     s.endpoint,
	}

	token, err := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		return nil, s.handleRefreshFailure(ctx, cred, err)
	}

	encryptedAccess, err := utils.Encrypt([]byte(token.AccessToken), []byte(s.cfg.SecretKey))
	if err != nil {
		return nil, err
	}

	encryptedRefresh := ""
	if token.RefreshToken != "" && token.RefreshToken != refreshToken {
		encryptedRefresh, err = utils.Encrypt([]byte(token.RefreshToken), []byte(s.cfg.SecretKey))
		if err != nil {
			return nil, err
		}
	}

	updated := &models.GBPCredential{
		AccessToken:  encryptedAccess,
		RefreshToken: encryptedRefresh,
		ExpiresAt:    token.Expiry,
	}

	err = s.cr.UpdateToken(ctx, cred.FranchiseID, cred.AccessToken, updated)
	if errors.Is(err, repository.ErrConflict) {
		// A concurrent refresh won the conditional write; its token is the
		// live one, so hand that back instead of failing.
		winner, gerr := s.cr.GetActive(ctx, cred.FranchiseID)
		if gerr != nil {
			return nil, gerr
		}
		if winner == nil {
			return nil, ErrReauthorizationRequired
		}
		return winner, nil
	}
	if err != nil {
		return nil, err
	}

	cred.AccessToken = encryptedAccess
	if encryptedRefresh != "" {
		cred.RefreshToken = encryptedRefresh
	}
	cred.ExpiresAt = token.Expiry
	cred.LastRefreshedAt.Time = time.Now()
	cred.LastRefreshedAt.Valid = true
	return cred, nil
}

// handleRefreshFailure maps a refresh error onto the taxonomy. Provider
// rejections of the refresh token itself (400/401, invalid_grant) are
// permanent: the credential is deactivated and the franchise must reconnect.
// Everything else — timeouts, network errors, rate limits, 5xx — is transient
// and the stored credential is left unchanged.
func (s *tokenService) handleRefreshFailure(ctx context.Context, cred *models.GBPCredential, err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		code := retrieveErr.Response.StatusCode
		if code == http.StatusBadRequest || code == http.StatusUnauthorized {
			slog.Info("refresh token rejected, deactivating credential",
				"franchise_id", cred.FranchiseID, "status", code)
			if derr := s.cr.Deactivate(ctx, cred.FranchiseID); derr != nil {
				return derr
			}
			return ErrReauthorizationRequired
		}
	}

	slog.Info("transient token refresh failure", "franchise_id", cred.FranchiseID, "err", err.Error())
	return fmt.Errorf("%w: %v", ErrRefreshTransient, err)
}
