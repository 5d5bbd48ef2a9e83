package models

import (
	"database/sql"
	"time"
)

// GBPCredential is one franchise's connection to Google Business Profile.
// At most one row per franchise has active = true; disconnecting flips the
// flag instead of deleting, so connection history is preserved.
type GBPCredential struct {
	ID               int64          `db:"id" json:"id"`
	FranchiseID      string         `db:"franchise_id" json:"franchise_id"`
	AccessToken      string         `db:"access_token" json:"-"`
	RefreshToken     string         `db:"refresh_token" json:"-"`
	TokenType        string         `db:"token_type" json:"token_type"`
	ExpiresAt        time.Time      `db:"expires_at" json:"expires_at"`
	GoogleAccountID  string         `db:"google_account_id" json:"google_account_id"`
	GoogleEmail      string         `db:"google_email" json:"google_email"`
	Locations        LocationList   `db:"locations" json:"locations"`
	SelectedLocation sql.NullString `db:"selected_location" json:"selected_location"`
	Active           bool           `db:"active" json:"active"`
	LastRefreshedAt  sql.NullTime   `db:"last_refreshed_at" json:"last_refreshed_at"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
}

// GBPLocation is one manageable listing returned by the provider. Name is the
// composite identifier "accounts/{accountId}/locations/{locationId}".
type GBPLocation struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}
