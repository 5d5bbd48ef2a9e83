package service

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/foster034/pal-content-api/internal/repository"
	"github.com/foster034/pal-content-api/internal/transfer"
)

// RepairService is the explicit administrative repair path for content rows
// that lost their franchise id. Ownership is resolved through the media or
// generated-content collaborator the row references; rows that already carry
// an owner are never touched.
type RepairService interface {
	BackfillFranchiseIDs(ctx context.Context) (*transfer.BackfillReport, error)
}

type repairService struct {
	sp repository.ScheduledPostRepository
	pp repository.PublishedPostRepository
	ph repository.PhotoRepository
	gc repository.ContentRepository
}

func NewRepairService(
	sp repository.ScheduledPostRepository,
	pp repository.PublishedPostRepository,
	ph repository.PhotoRepository,
	gc repository.ContentRepository) RepairService {
	return &repairService{
		sp: sp,
		pp: pp,
		ph: ph,
		gc: gc,
	}
}

func (s *repairService) BackfillFranchiseIDs(ctx context.Context) (*transfer.BackfillReport, error) {
	report := &transfer.BackfillReport{}

	scheduled, err := s.sp.ListMissingFranchise(ctx)
	if err != nil {
		return nil, err
	}
	report.ScheduledExamined = len(scheduled)

	for _, post := range scheduled {
		franchiseID, err := s.resolveFranchise(ctx, post.SourceMediaID, post.SourceContentID)
		if err != nil {
			return report, err
		}
		if franchiseID == "" {
			report.Unresolved++
			continue
		}
		if err := s.sp.SetFranchiseID(ctx, post.ID, franchiseID); err != nil {
			return report, err
		}
		report.Repaired++
	}

	published, err := s.pp.ListMissingFranchise(ctx)
	if err != nil {
		return report, err
	}
	report.PublishedExamined = len(published)

	for _, post := range published {
		franchiseID, err := s.resolveFranchise(ctx, post.SourceMediaID, post.SourceContentID)
		if err != nil {
			return report, err
		}
		if franchiseID == "" {
			report.Unresolved++
			continue
		}
		if err := s.pp.SetFranchiseID(ctx, post.ID, franchiseID); err != nil {
			return report, err
		}
		report.Repaired++
	}

	slog.Info("franchise id backfill finished",
		"repaired", report.Repaired, "unresolved", report.Unresolved)
	return report, nil
}

func (s *repairService) resolveFranchise(ctx context.Context, mediaID, contentID sql.NullInt64) (string, error) {
	if mediaID.Valid {
		photo, err := s.ph.GetByID(ctx, mediaID.Int64)
		if err != nil {
			return "", err
		}
		if photo != nil && photo.FranchiseID != "" {
			return photo.FranchiseID, nil
		}
	}

	if contentID.Valid {
		content, err := s.gc.GetByID(ctx, contentID.Int64)
		if err != nil {
			return "", err
		}
		if content != nil && content.FranchiseID != "" {
			return content.FranchiseID, nil
		}
	}

	return "", nil
}
