package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/foster034/pal-content-api/internal/models"
	"github.com/foster034/pal-content-api/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func tokenEndpoint(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}

func newTestTokenService(repo *fakeCredentialRepo, tokenURL string) *tokenService {
	return &tokenService{
		cfg:      testConfig(),
		cr:       repo,
		settings: fakeSettings{},
		endpoint: oauth2.Endpoint{TokenURL: tokenURL},
	}
}

func storedCredential(t *testing.T, repo *fakeCredentialRepo, franchiseID string, expiresAt time.Time) *models.GBPCredential {
	t.Helper()

	encAccess, err := utils.Encrypt([]byte("old-access"), []byte(testSecretKey))
	require.NoError(t, err)
	encRefresh, err := utils.Encrypt([]byte("refresh-token"), []byte(testSecretKey))
	require.NoError(t, err)

	_, err = repo.Upsert(context.Background(), &models.GBPCredential{
		FranchiseID:  franchiseID,
		AccessToken:  encAccess,
		RefreshToken: encRefresh,
		ExpiresAt:    expiresAt,
	})
	require.NoError(t, err)

	cred, err := repo.GetActive(context.Background(), franchiseID)
	require.NoError(t, err)
	return cred
}

func TestEnsureFreshTokenStillValid(t *testing.T) {
	repo := newFakeCredentialRepo()
	cred := storedCredential(t, repo, "fr-1", time.Now().Add(time.Hour))
	s := newTestTokenService(repo, "http://invalid.test/token")

	got, err := s.EnsureFreshToken(context.Background(), cred)
	require.NoError(t, err)
	assert.Equal(t, cred.AccessToken, got.AccessToken, "credential returned unchanged")
}

func TestEnsureFreshTokenRefreshes(t *testing.T) {
	srv := tokenEndpoint(t, http.StatusOK, `{
		"access_token": "new-access",
		"token_type": "Bearer",
		"expires_in": 3600
	}`)
	defer srv.Close()

	repo := newFakeCredentialRepo()
	cred := storedCredential(t, repo, "fr-1", time.Now().Add(time.Minute))
	s := newTestTokenService(repo, srv.URL)

	got, err := s.EnsureFreshToken(context.Background(), cred)
	require.NoError(t, err)

	access, err := utils.Decrypt(got.AccessToken, []byte(testSecretKey))
	require.NoError(t, err)
	assert.Equal(t, "new-access", access)
	assert.True(t, got.ExpiresAt.After(time.Now().Add(30*time.Minute)))

	stored, err := repo.GetActive(context.Background(), "fr-1")
	require.NoError(t, err)
	assert.Equal(t, got.AccessToken, stored.AccessToken)
	assert.True(t, stored.LastRefreshedAt.Valid)
}

func TestEnsureFreshTokenPermanentFailure(t *testing.T) {
	srv := tokenEndpoint(t, http.StatusBadRequest, `{"error":"invalid_grant"}`)
	defer srv.Close()

	repo := newFakeCredentialRepo()
	cred := storedCredential(t, repo, "fr-1", time.Now().Add(time.Minute))
	s := newTestTokenService(repo, srv.URL)

	_, err := s.EnsureFreshToken(context.Background(), cred)
	assert.ErrorIs(t, err, ErrReauthorizationRequired)
	assert.Equal(t, 0, repo.activeCount("fr-1"), "credential deactivated")
}

func TestEnsureFreshTokenTransientFailure(t *testing.T) {
	srv := tokenEndpoint(t, http.StatusServiceUnavailable, `{"error":"temporarily_unavailable"}`)
	defer srv.Close()

	repo := newFakeCredentialRepo()
	cred := storedCredential(t, repo, "fr-1", time.Now().Add(time.Minute))
	s := newTestTokenService(repo, srv.URL)

	_, err := s.EnsureFreshToken(context.Background(), cred)
	assert.ErrorIs(t, err, ErrRefreshTransient)

	stored, err := repo.GetActive(context.Background(), "fr-1")
	require.NoError(t, err)
	assert.Equal(t, cred.AccessToken, stored.AccessToken, "credential left unchanged")
	assert.Equal(t, 1, repo.activeCount("fr-1"))
}

func TestEnsureFreshTokenNetworkFailureIsTransient(t *testing.T) {
	repo := newFakeCredentialRepo()
	cred := storedCredential(t, repo, "fr-1", time.Now().Add(time.Minute))
	// unroutable endpoint: the refresh round trip fails before any response
	s := newTestTokenService(repo, "http://127.0.0.1:1/token")

	_, err := s.EnsureFreshToken(context.Background(), cred)
	assert.ErrorIs(t, err, ErrRefreshTransient)
	assert.Equal(t, 1, repo.activeCount("fr-1"))
}

func TestEnsureFreshTokenMissingRefreshToken(t *testing.T) {
	repo := newFakeCredentialRepo()
	encAccess, err := utils.Encrypt([]byte("old-access"), []byte(testSecretKey))
	require.NoError(t, err)
	_, err = repo.Upsert(context.Background(), &models.GBPCredential{
		FranchiseID: "fr-1",
		AccessToken: encAccess,
		ExpiresAt:   time.Now().Add(-time.Minute),
	})
	require.NoError(t, err)
	cred, err := repo.GetActive(context.Background(), "fr-1")
	require.NoError(t, err)

	s := newTestTokenService(repo, "http://invalid.test/token")

	_, err = s.EnsureFreshToken(context.Background(), cred)
	assert.ErrorIs(t, err, ErrReauthorizationRequired)
	assert.Equal(t, 0, repo.activeCount("fr-1"))
}

func TestEnsureFreshTokenLostRace(t *testing.T) {
	srv := tokenEndpoint(t, http.StatusOK, `{
		"access_token": "new-access",
		"token_type": "Bearer",
		"expires_in": 3600
	}`)
	defer srv.Close()

	repo := newFakeCredentialRepo()
	cred := storedCredential(t, repo, "fr-1", time.Now().Add(time.Minute))
	repo.conflictOnUpdate = true
	s := newTestTokenService(repo, srv.URL)

	got, err := s.EnsureFreshToken(context.Background(), cred)
	require.NoError(t, err)
	assert.Equal(t, cred.AccessToken, got.AccessToken, "winner's row is handed back")
}
