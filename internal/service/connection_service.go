package service

import (
	"context"
	"errors"

	"github.com/foster034/pal-content-api/internal/models"
	"github.com/foster034/pal-content-api/internal/repository"
)

// ConnectionService covers the operations a connected franchise performs
// against its credential: picking a default listing and resolving the post
// composer deep link.
type ConnectionService interface {
	SelectLocation(ctx context.Context, franchiseID, location string) (*models.GBPCredential, error)
	PostURL(ctx context.Context, franchiseID string) (url string, locationID string, err error)
}

type connectionService struct {
	cr repository.CredentialRepository
}

func NewConnectionService(cr repository.CredentialRepository) ConnectionService {
	return &connectionService{cr: cr}
}

func (s *connectionService) SelectLocation(ctx context.Context, franchiseID, location string) (*models.GBPCredential, error) {
	if franchiseID == "" {
		return nil, NewValidationError("franchise_id")
	}
	if err := ValidateLocationName(location); err != nil {
		return nil, err
	}

	cred, err := s.cr.GetActive(ctx, franchiseID)
	if err != nil {
		return nil, err
	}
	if cred == nil {
		return nil, ErrNotConnected
	}
	if !cred.Locations.Contains(location) {
		return nil, ErrUnknownLocation
	}

	err = s.cr.SetSelectedLocation(ctx, franchiseID, location)
	if errors.Is(err, repository.ErrNotFound) {
		// Disconnected between the read and the write.
		return nil, ErrNotConnected
	}
	if err != nil {
		return nil, err
	}

	cred.SelectedLocation.String = location
	cred.SelectedLocation.Valid = true
	return cred, nil
}

func (s *connectionService) PostURL(ctx context.Context, franchiseID string) (string, string, error) {
	if franchiseID == "" {
		return "", "", NewValidationError("franchise_id")
	}

	cred, err := s.cr.GetActive(ctx, franchiseID)
	if err != nil {
		return "", "", err
	}
	if cred == nil {
		return "", "", ErrNotConnected
	}
	if !cred.SelectedLocation.Valid || cred.SelectedLocation.String == "" {
		return "", "", ErrNoSelectedLocation
	}

	locationID, err := ExtractLocationID(cred.SelectedLocation.String)
	if err != nil {
		return "", "", err
	}

	return BuildPostURL(locationID), locationID, nil
}
