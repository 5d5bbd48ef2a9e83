package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	config "github.com/foster034/pal-content-api/configs"
	"github.com/foster034/pal-content-api/internal/models"
	"github.com/foster034/pal-content-api/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

const testSecretKey = "0123456789abcdef0123456789abcdef"

type fakeDirectory struct {
	locations models.LocationList
}

func (f fakeDirectory) ListLocations(ctx context.Context, client *http.Client) (models.LocationList, error) {
	return f.locations, nil
}

func testConfig() config.Config {
	return config.Config{
		GoogleClientID:     "client-id",
		GoogleClientSecret: "client-secret",
		GoogleRedirectURI:  "http://localhost:3000/gbp/callback",
		SecretKey:          testSecretKey,
		FrontendURL:        "http://localhost:5173",
	}
}

// fakeProvider serves the token and userinfo endpoints the callback hits.
func fakeProvider(t *testing.T, rejectExchange bool) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		if rejectExchange {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"access_token": "at-123",
			"refresh_token": "rt-456",
			"token_type": "Bearer",
			"expires_in": 3600
		}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"g-1","email":"owner@example.com","name":"Owner"}`))
	})
	return httptest.NewServer(mux)
}

func newTestAuthService(repo *fakeCredentialRepo, provider *httptest.Server) *gbpAuthService {
	return &gbpAuthService{
		cfg:       testConfig(),
		cr:        repo,
		directory: fakeDirectory{locations: models.LocationList{{Name: "accounts/1/locations/42", Title: "Downtown"}}},
		endpoint: oauth2.Endpoint{
			AuthURL:  provider.URL + "/auth",
			TokenURL: provider.URL + "/token",
		},
		userInfoURL: provider.URL + "/userinfo",
	}
}

func TestGetAuthURLCarriesState(t *testing.T) {
	provider := fakeProvider(t, false)
	defer provider.Close()
	s := newTestAuthService(newFakeCredentialRepo(), provider)

	authURL, err := s.GetAuthURL("fr-1")
	require.NoError(t, err)
	assert.Contains(t, authURL, "access_type=offline")
	assert.Contains(t, authURL, "prompt=consent")
	assert.Contains(t, authURL, "state=")
}

func TestGetAuthURLRequiresFranchise(t *testing.T) {
	provider := fakeProvider(t, false)
	defer provider.Close()
	s := newTestAuthService(newFakeCredentialRepo(), provider)

	_, err := s.GetAuthURL("")
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestCallbackStateMismatch(t *testing.T) {
	provider := fakeProvider(t, false)
	defer provider.Close()
	s := newTestAuthService(newFakeCredentialRepo(), provider)

	_, err := s.Callback(context.Background(), "code", "garbage-state")
	assert.ErrorIs(t, err, ErrStateMismatch)
}

func TestCallbackExchangeFailed(t *testing.T) {
	provider := fakeProvider(t, true)
	defer provider.Close()
	repo := newFakeCredentialRepo()
	s := newTestAuthService(repo, provider)

	state, err := utils.GenerateStateToken(testSecretKey, "fr-1", time.Minute)
	require.NoError(t, err)

	_, err = s.Callback(context.Background(), "bad-code", state)
	assert.ErrorIs(t, err, ErrExchangeFailed)
	assert.Empty(t, repo.rows)
}

func TestCallbackConnects(t *testing.T) {
	provider := fakeProvider(t, false)
	defer provider.Close()
	repo := newFakeCredentialRepo()
	s := newTestAuthService(repo, provider)

	state, err := utils.GenerateStateToken(testSecretKey, "fr-1", time.Minute)
	require.NoError(t, err)

	cred, err := s.Callback(context.Background(), "code", state)
	require.NoError(t, err)
	assert.Equal(t, "fr-1", cred.FranchiseID)
	assert.Equal(t, "owner@example.com", cred.GoogleEmail)
	require.Len(t, cred.Locations, 1)

	// tokens are stored encrypted
	access, err := utils.Decrypt(cred.AccessToken, []byte(testSecretKey))
	require.NoError(t, err)
	assert.Equal(t, "at-123", access)
	refresh, err := utils.Decrypt(cred.RefreshToken, []byte(testSecretKey))
	require.NoError(t, err)
	assert.Equal(t, "rt-456", refresh)

	assert.Equal(t, 1, repo.activeCount("fr-1"))
}

func TestReconnectLeavesSingleActiveRow(t *testing.T) {
	provider := fakeProvider(t, false)
	defer provider.Close()
	repo := newFakeCredentialRepo()
	s := newTestAuthService(repo, provider)

	for i := 0; i < 3; i++ {
		state, err := utils.GenerateStateToken(testSecretKey, "fr-1", time.Minute)
		require.NoError(t, err)
		_, err = s.Callback(context.Background(), "code", state)
		require.NoError(t, err)
	}

	assert.Equal(t, 1, repo.activeCount("fr-1"))
	assert.Len(t, repo.rows, 3, "history rows are kept")
}

func TestConcurrentCallbacksLeaveSingleActiveRow(t *testing.T) {
	provider := fakeProvider(t, false)
	defer provider.Close()
	repo := newFakeCredentialRepo()
	s := newTestAuthService(repo, provider)

	const connects = 16
	var wg sync.WaitGroup
	for i := 0; i < connects; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			state, err := utils.GenerateStateToken(testSecretKey, "fr-1", time.Minute)
			if err != nil {
				t.Error(err)
				return
			}
			if _, err := s.Callback(context.Background(), "code", state); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, repo.activeCount("fr-1"))
	assert.Len(t, repo.rows, connects, "every connect leaves a history row")
}

func TestDisconnectIdempotent(t *testing.T) {
	provider := fakeProvider(t, false)
	defer provider.Close()
	repo := newFakeCredentialRepo()
	s := newTestAuthService(repo, provider)

	state, err := utils.GenerateStateToken(testSecretKey, "fr-1", time.Minute)
	require.NoError(t, err)
	_, err = s.Callback(context.Background(), "code", state)
	require.NoError(t, err)

	require.NoError(t, s.Disconnect(context.Background(), "fr-1"))
	require.NoError(t, s.Disconnect(context.Background(), "fr-1"))
	assert.Equal(t, 0, repo.activeCount("fr-1"))
}
