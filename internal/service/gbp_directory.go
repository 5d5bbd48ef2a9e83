package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/foster034/pal-content-api/internal/models"
	"google.golang.org/api/mybusinessaccountmanagement/v1"
	"google.golang.org/api/mybusinessbusinessinformation/v1"
	"google.golang.org/api/option"
)

// LocationDirectory lists the listings the connected Google account can manage.
type LocationDirectory interface {
	ListLocations(ctx context.Context, client *http.Client) (models.LocationList, error)
}

type gbpDirectory struct{}

func NewGBPDirectory() LocationDirectory {
	return gbpDirectory{}
}

func (gbpDirectory) ListLocations(ctx context.Context, client *http.Client) (models.LocationList, error) {
	accountSvc, err := mybusinessaccountmanagement.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("error creating account management service: %w", err)
	}

	accountsResp, err := accountSvc.Accounts.List().PageSize(20).Do()
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("error listing accounts: %w", err)
	}

	infoSvc, err := mybusinessbusinessinformation.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("error creating business information service: %w", err)
	}

	var locations models.LocationList
	for _, account := range accountsResp.Accounts {
		locResp, err := infoSvc.Accounts.Locations.List(account.Name).
			ReadMask("name,title").
			PageSize(100).
			Do()
		if err != nil {
			slog.Info(err.Error())
			return nil, fmt.Errorf("error listing locations for %s: %w", account.Name, err)
		}

		for _, loc := range locResp.Locations {
			// Location names come back as locations/{id}; the composite
			// identifier prefixes the owning account.
			locations = append(locations, models.GBPLocation{
				Name:  fmt.Sprintf("%s/%s", account.Name, loc.Name),
				Title: loc.Title,
			})
		}
	}

	return locations, nil
}
