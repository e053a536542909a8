package asset

import (
	"context"
	"fmt"

	"golang.org/x/exp/slog"
)

type Servicer interface {
	List(ctx context.Context) ([]Asset, error)
	Find(ctx context.Context, assetID int) (*Asset, error)
	Create(ctx context.Context, a *Asset) (int, error)
	Update(ctx context.Context, a *Asset) error
	RefreshAggregate(ctx context.Context, assetID int) error
}

// Service implements asset business logic. Assets are visible to every
// authenticated engineer; there is no per-owner scoping.
type Service struct {
	repo Repository
	log  *slog.Logger
}

func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With("component", "asset_service"),
	}
}

func (s *Service) List(ctx context.Context) ([]Asset, error) {
	assets, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	return assets, nil
}

func (s *Service) Find(ctx context.Context, assetID int) (*Asset, error) {
	return s.repo.Get(ctx, assetID)
}

func (s *Service) Create(ctx context.Context, a *Asset) (int, error) {
	if a.InspectionFrequencyMonths == 0 {
		a.InspectionFrequencyMonths = DefaultFrequencyMonths
	}
	if err := a.Validate(); err != nil {
		return 0, err
	}

	id, err := s.repo.Create(ctx, a)
	if err != nil {
		return 0, fmt.Errorf("create asset: %w", err)
	}

	s.log.Info("asset created", "asset_id", id, "reference", a.Reference)
	return id, nil
}

func (s *Service) Update(ctx context.Context, a *Asset) error {
	stored, err := s.repo.Get(ctx, a.ID)
	if err != nil {
		return err
	}
	if a.Reference == "" {
		a.Reference = stored.Reference
	}
	if a.InspectionFrequencyMonths == 0 {
		a.InspectionFrequencyMonths = stored.InspectionFrequencyMonths
	}
	if err := a.Validate(); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return fmt.Errorf("update asset: %w", err)
	}

	// A frequency change shifts next_inspection_due, which is derived.
	if a.InspectionFrequencyMonths != stored.InspectionFrequencyMonths {
		if err := s.repo.RefreshAggregate(ctx, a.ID); err != nil {
			s.log.Warn("failed to refresh aggregate after frequency change",
				"asset_id", a.ID, "error", err)
		}
	}
	return nil
}

func (s *Service) RefreshAggregate(ctx context.Context, assetID int) error {
	if err := s.repo.RefreshAggregate(ctx, assetID); err != nil {
		return fmt.Errorf("refresh aggregate: %w", err)
	}
	return nil
}
