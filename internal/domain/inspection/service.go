package inspection

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/exp/slog"
)

// Servicer is the plain CRUD surface for inspection records. Mutations made
// here go through the same aggregate maintenance as the sync path, but do not
// participate in optimistic concurrency: sync_version is owned by the sync
// conflict path.
type Servicer interface {
	List(ctx context.Context, engineerID int) ([]Record, error)
	Find(ctx context.Context, engineerID, recordID int) (*Record, error)
	Create(ctx context.Context, rec *Record) (int, error)
	Update(ctx context.Context, engineerID int, rec *Record) error
	Delete(ctx context.Context, engineerID, recordID int) error
}

// Service implements the business logic for inspection CRUD.
type Service struct {
	repo Repository
	log  *slog.Logger
}

func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With("component", "inspection_service"),
	}
}

func (s *Service) List(ctx context.Context, engineerID int) ([]Record, error) {
	records, err := s.repo.List(ctx, engineerID)
	if err != nil {
		return nil, fmt.Errorf("list inspections: %w", err)
	}
	return records, nil
}

func (s *Service) Find(ctx context.Context, engineerID, recordID int) (*Record, error) {
	rec, err := s.repo.Get(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if rec.EngineerID != engineerID {
		return nil, ErrNotFound
	}
	return rec, nil
}

func (s *Service) Create(ctx context.Context, rec *Record) (int, error) {
	if rec.Status == "" {
		rec.Status = StatusNotStarted
	}
	if err := rec.Validate(); err != nil {
		return 0, err
	}

	exists, err := s.repo.AssetExists(ctx, rec.AssetID)
	if err != nil {
		return 0, fmt.Errorf("check asset: %w", err)
	}
	if !exists {
		return 0, ErrAssetNotFound
	}

	rec.Recompute()
	rec.SyncVersion = 1

	id, err := s.repo.Create(ctx, rec)
	if err != nil {
		return 0, fmt.Errorf("create inspection: %w", err)
	}

	s.log.Info("inspection created", "inspection_id", id, "asset_id", rec.AssetID)
	return id, nil
}

func (s *Service) Update(ctx context.Context, engineerID int, rec *Record) error {
	stored, err := s.repo.Get(ctx, rec.ID)
	if err != nil {
		return err
	}
	if stored.EngineerID != engineerID {
		return ErrNotFound
	}

	if rec.Status != "" && rec.Status != stored.Status {
		if !stored.Status.CanTransitionTo(rec.Status) {
			return ErrStatusLocked
		}
	} else {
		rec.Status = stored.Status
	}

	rec.AssetID = stored.AssetID
	rec.EngineerID = stored.EngineerID
	rec.ClientID = stored.ClientID
	rec.SyncVersion = stored.SyncVersion
	if rec.DateOfInspection.IsZero() {
		rec.DateOfInspection = stored.DateOfInspection
	}
	if err := rec.Validate(); err != nil {
		return err
	}
	rec.Recompute()
	rec.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, rec); err != nil {
		return fmt.Errorf("update inspection: %w", err)
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, engineerID, recordID int) error {
	stored, err := s.repo.Get(ctx, recordID)
	if err != nil {
		return err
	}
	if stored.EngineerID != engineerID {
		return ErrNotFound
	}

	if err := s.repo.Delete(ctx, recordID); err != nil {
		return fmt.Errorf("delete inspection: %w", err)
	}

	s.log.Info("inspection deleted", "inspection_id", recordID, "asset_id", stored.AssetID)
	return nil
}
