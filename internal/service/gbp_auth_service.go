package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	config "github.com/foster034/pal-content-api/configs"
	"github.com/foster034/pal-content-api/internal/models"
	"github.com/foster034/pal-content-api/internal/repository"
	"github.com/foster034/pal-content-api/internal/transfer"
	"github.com/foster034/pal-content-api/pkg/utils"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v1/userinfo"

	// stateTokenTTL bounds how long an authorize redirect stays valid.
	stateTokenTTL = 15 * time.Minute
)

var gbpScopes = []string{
	"https://www.googleapis.com/auth/business.manage",
	"https://www.googleapis.com/auth/userinfo.email",
	"https://www.googleapis.com/auth/userinfo.profile",
}

// GBPAuthService drives the connect lifecycle:
// Disconnected -> Authorizing -> Exchanging -> Connected -> Disconnected.
type GBPAuthService interface {
	GetAuthURL(franchiseID string) (string, error)
	Callback(ctx context.Context, code, state string) (*models.GBPCredential, error)
	Disconnect(ctx context.Context, franchiseID string) error
}

type gbpAuthService struct {
	cfg         config.Config
	cr          repository.CredentialRepository
	directory   LocationDirectory
	endpoint    oauth2.Endpoint
	userInfoURL string
}

func NewGBPAuthService(cfg config.Config, cr repository.CredentialRepository, directory LocationDirectory) GBPAuthService {
	return &gbpAuthService{
		cfg:         cfg,
		cr:          cr,
		directory:   directory,
		endpoint:    google.Endpoint,
		userInfoURL: googleUserInfoURL,
	}
}

func (s *gbpAuthService) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     s.cfg.GoogleClientID,
		ClientSecret: s.cfg.GoogleClientSecret,
		RedirectURL:  s.cfg.GoogleRedirectURI,
		Scopes:       gbpScopes,
		Endpoint:     s.endpoint,
	}
}

func (s *gbpAuthService) GetAuthURL(franchiseID string) (string, error) {
	if franchiseID == "" {
		return "", NewValidationError("franchise_id")
	}

	state, err := utils.GenerateStateToken(s.cfg.SecretKey, franchiseID, stateTokenTTL)
	if err != nil {
		return "", err
	}

	// prompt=consent forces Google to reissue a refresh token on reconnect.
	return s.oauthConfig().AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	), nil
}

func (s *gbpAuthService) Callback(ctx context.Context, code, state string) (*models.GBPCredential, error) {
	claims, err := utils.ParseStateToken(s.cfg.SecretKey, state)
	if err != nil {
		return nil, ErrStateMismatch
	}

	if code == "" {
		return nil, ErrExchangeFailed
	}

	conf := s.oauthConfig()
	token, err := conf.Exchange(ctx, code)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}

	client := conf.Client(ctx, token)

	userInfo, err := s.fetchUserInfo(client)
	if err != nil {
		return nil, err
	}

	locations, err := s.directory.ListLocations(ctx, client)
	if err != nil {
		return nil, err
	}

	encryptedAccess, err := utils.Encrypt([]byte(token.AccessToken), []byte(s.cfg.SecretKey))
	if err != nil {
		return nil, err
	}

	encryptedRefresh := ""
	if token.RefreshToken != "" {
		encryptedRefresh, err = utils.Encrypt([]byte(token.RefreshToken), []byte(s.cfg.SecretKey))
		if err != nil {
			return nil, err
		}
	}

	cred := &models.GBPCredential{
		FranchiseID:     claims.FranchiseID,
		AccessToken:     encryptedAccess,
		RefreshToken:    encryptedRefresh,
		TokenType:       token.TokenType,
		ExpiresAt:       token.Expiry,
		GoogleAccountID: userInfo.ID,
		GoogleEmail:     userInfo.Email,
		Locations:       locations,
		Active:          true,
	}

	id, err := s.cr.Upsert(ctx, cred)
	if errors.Is(err, repository.ErrConflict) {
		// A simultaneous connect for the same franchise committed first;
		// run the upsert once more so this token set replaces it.
		id, err = s.cr.Upsert(ctx, cred)
	}
	if err != nil {
		return nil, err
	}

	cred.ID = id
	return cred, nil
}

// Disconnect deactivates the active credential. Disconnecting an
// already-disconnected franchise is a no-op success.
func (s *gbpAuthService) Disconnect(ctx context.Context, franchiseID string) error {
	if franchiseID == "" {
		return NewValidationError("franchise_id")
	}
	return s.cr.Deactivate(ctx, franchiseID)
}

func (s *gbpAuthService) fetchUserInfo(client *http.Client) (*transfer.GoogleUserInfo, error) {
	response, err := client.Get(s.userInfoURL)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("error fetching user info: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected user info status: %d", response.StatusCode)
	}

	var userInfo transfer.GoogleUserInfo
	if err := json.NewDecoder(response.Body).Decode(&userInfo); err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("error decoding user info: %w", err)
	}

	return &userInfo, nil
}
