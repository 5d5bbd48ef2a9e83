package transfer

import (
	"github.com/foster034/pal-content-api/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

// StateClaims rides the OAuth state parameter through the provider redirect,
// so the callback can be correlated to a franchise without a server-side
// pending-request table.
type StateClaims struct {
	FranchiseID string `json:"franchise_id"`
	jwt.RegisteredClaims
}

type GoogleUserInfo struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// ConnectionStatus is the read-only summary derived from the active credential.
type ConnectionStatus struct {
	Connected        bool                `json:"connected"`
	AccountEmail     string              `json:"account_email,omitempty"`
	Locations        models.LocationList `json:"locations,omitempty"`
	SelectedLocation string              `json:"selected_location,omitempty"`
	LastConnectedAt  string              `json:"last_connected_at,omitempty"`
}
