package job

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/foster034/pal-content-api/internal/models"
	"github.com/foster034/pal-content-api/internal/repository"
	"github.com/foster034/pal-content-api/internal/service"
)

// TokenRefreshJob proactively refreshes credentials whose access token expires
// soon, so interactive calls rarely pay the refresh round trip. Transient
// failures are left for the next sweep.
type TokenRefreshJob struct {
	cr repository.CredentialRepository
	ts service.TokenService
}

func NewTokenRefreshJob(cr repository.CredentialRepository, ts service.TokenService) *TokenRefreshJob {
	return &TokenRefreshJob{
		cr: cr,
		ts: ts,
	}
}

func (j *TokenRefreshJob) RefreshTokens() {
	ctx := context.Background()

	creds, err := j.cr.ListExpiring(ctx, time.Now().Add(30*time.Minute))
	if err != nil {
		slog.Info(err.Error())
		return
	}

	var wg sync.WaitGroup

	concurrencyLimit := 10
	semaphore := make(chan struct{}, concurrencyLimit)

	for _, cred := range creds {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(cred *models.GBPCredential) {
			defer wg.Done()
			defer func() { <-semaphore }()

			_, err := j.ts.EnsureFreshToken(ctx, cred)
			switch {
			case err == nil:
			case errors.Is(err, service.ErrRefreshTransient):
				slog.Info("refresh deferred to next sweep", "franchise_id", cred.FranchiseID)
			case errors.Is(err, service.ErrReauthorizationRequired):
				slog.Info("credential deactivated, reconnect needed", "franchise_id", cred.FranchiseID)
			default:
				slog.Info("token refresh failed", "franchise_id", cred.FranchiseID, "err", err.Error())
			}
		}(cred)
	}

	wg.Wait()
}
