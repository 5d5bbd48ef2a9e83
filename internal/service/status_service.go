package service

import (
	"context"
	"time"

	"github.com/foster034/pal-content-api/internal/repository"
	"github.com/foster034/pal-content-api/internal/transfer"
)

// StatusService derives a read-only connection summary from the active
// credential. It never mutates state.
type StatusService interface {
	GetStatus(ctx context.Context, franchiseID string) (*transfer.ConnectionStatus, error)
}

type statusService struct {
	cr repository.CredentialRepository
}

func NewStatusService(cr repository.CredentialRepository) StatusService {
	return &statusService{cr: cr}
}

func (s *statusService) GetStatus(ctx context.Context, franchiseID string) (*transfer.ConnectionStatus, error) {
	if franchiseID == "" {
		return nil, NewValidationError("franchise_id")
	}

	cred, err := s.cr.GetActive(ctx, franchiseID)
	if err != nil {
		return nil, err
	}
	if cred == nil {
		return &transfer.ConnectionStatus{Connected: false}, nil
	}

	lastConnected := cred.CreatedAt
	if cred.LastRefreshedAt.Valid {
		lastConnected = cred.LastRefreshedAt.Time
	}

	status := &transfer.ConnectionStatus{
		Connected:       true,
		AccountEmail:    cred.GoogleEmail,
		Locations:       cred.Locations,
		LastConnectedAt: lastConnected.Format(time.RFC3339),
	}
	if cred.SelectedLocation.Valid {
		status.SelectedLocation = cred.SelectedLocation.String
	}

	return status, nil
}
