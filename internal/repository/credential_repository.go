package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/foster034/pal-content-api/internal/models"
	"github.com/lib/pq"
)

// isConflictErr reports whether a postgres error means a concurrent writer got
// there first: 23505 is the partial active-credential index firing, 40001 is a
// serialization abort of the upsert transaction. Both are retried the same way.
func isConflictErr(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505" || pqErr.Code == "40001"
	}
	return false
}

// CredentialRepository persists GBP connections. The gbp_credentials table
// carries a partial unique index on (franchise_id) WHERE active, so even a
// race that slips past the transactional upsert cannot commit two active rows.
type CredentialRepository interface {
	Upsert(ctx context.Context, cred *models.GBPCredential) (int64, error)
	GetActive(ctx context.Context, franchiseID string) (*models.GBPCredential, error)
	Deactivate(ctx context.Context, franchiseID string) error
	SetSelectedLocation(ctx context.Context, franchiseID, location string) error
	UpdateToken(ctx context.Context, franchiseID, oldAccessToken string, cred *models.GBPCredential) error
	ListExpiring(ctx context.Context, before time.Time) ([]*models.GBPCredential, error)
}

type credentialRepository struct {
	db *sql.DB
}

func NewCredentialRepository(db *sql.DB) CredentialRepository {
	return &credentialRepository{db: db}
}

const credentialColumns = `id, franchise_id, access_token, refresh_token, token_type,
	expires_at, google_account_id, google_email, locations, selected_location,
	active, last_refreshed_at, created_at`

// Upsert deactivates any current active row and inserts the new one as a
// single transaction, so a racing reconnect for the same franchise can never
// leave two active rows.
func (r *credentialRepository) Upsert(ctx context.Context, cred *models.GBPCredential) (int64, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	defer tx.Rollback()

	deactivateQuery := `
		UPDATE gbp_credentials
		SET active = false
		WHERE franchise_id = $1 AND active = true
	`
	if _, err = tx.ExecContext(ctx, deactivateQuery, cred.FranchiseID); err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	insertQuery := `
		INSERT INTO gbp_credentials (
			franchise_id,
			access_token,
			refresh_token,
			token_type,
			expires_at,
			google_account_id,
			google_email,
			locations,
			selected_location,
			active
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, true)
		RETURNING id
	`

	var id int64
	err = tx.QueryRowContext(ctx, insertQuery,
		cred.FranchiseID,
		cred.AccessToken,
		cred.RefreshToken,
		cred.TokenType,
		cred.ExpiresAt,
		cred.GoogleAccountID,
		cred.GoogleEmail,
		cred.Locations,
		cred.SelectedLocation,
	).Scan(&id)
	if err != nil {
		if isConflictErr(err) {
			return 0, ErrConflict
		}
		slog.Info(err.Error())
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		if isConflictErr(err) {
			return 0, ErrConflict
		}
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *credentialRepository) GetActive(ctx context.Context, franchiseID string) (*models.GBPCredential, error) {
	query := `SELECT ` + credentialColumns + ` FROM gbp_credentials WHERE franchise_id = $1 AND active = true`
	row := r.db.QueryRowContext(ctx, query, franchiseID)

	var c models.GBPCredential
	err := row.Scan(&c.ID, &c.FranchiseID, &c.AccessToken, &c.RefreshToken, &c.TokenType,
		&c.ExpiresAt, &c.GoogleAccountID, &c.GoogleEmail, &c.Locations, &c.SelectedLocation,
		&c.Active, &c.LastRefreshedAt, &c.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &c, nil
}

// Deactivate is a no-op when nothing is active; disconnect is idempotent.
func (r *credentialRepository) Deactivate(ctx context.Context, franchiseID string) error {
	query := `UPDATE gbp_credentials SET active = false WHERE franchise_id = $1 AND active = true`
	_, err := r.db.ExecContext(ctx, query, franchiseID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *credentialRepository) SetSelectedLocation(ctx context.Context, franchiseID, location string) error {
	query := `UPDATE gbp_credentials SET selected_location = $2 WHERE franchise_id = $1 AND active = true`
	result, err := r.db.ExecContext(ctx, query, franchiseID, location)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateToken is the refresh write path. It is conditioned on the access token
// the caller read, so of two concurrent refreshes only one mutates the row;
// the loser gets ErrConflict and re-reads the winner's token.
func (r *credentialRepository) UpdateToken(ctx context.Context, franchiseID, oldAccessToken string, cred *models.GBPCredential) error {
	query := `
		UPDATE gbp_credentials
		SET
			access_token = $3,
			refresh_token = COALESCE(NULLIF($4, ''), refresh_token),
			expires_at = $5,
			last_refreshed_at = CURRENT_TIMESTAMP
		WHERE franchise_id = $1 AND active = true AND access_token = $2
	`
	result, err := r.db.ExecContext(ctx, query, franchiseID, oldAccessToken,
		cred.AccessToken, cred.RefreshToken, cred.ExpiresAt)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	if affected == 0 {
		return ErrConflict
	}
	return nil
}

func (r *credentialRepository) ListExpiring(ctx context.Context, before time.Time) ([]*models.GBPCredential, error) {
	query := `
		SELECT ` + credentialColumns + `
		FROM gbp_credentials
		WHERE active = true AND refresh_token <> '' AND expires_at < $1
	`
	rows, err := r.db.QueryContext(ctx, query, before)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var creds []*models.GBPCredential
	for rows.Next() {
		var c models.GBPCredential
		err := rows.Scan(&c.ID, &c.FranchiseID, &c.AccessToken, &c.RefreshToken, &c.TokenType,
			&c.ExpiresAt, &c.GoogleAccountID, &c.GoogleEmail, &c.Locations, &c.SelectedLocation,
			&c.Active, &c.LastRefreshedAt, &c.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		creds = append(creds, &c)
	}

	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return creds, nil
}
