package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"fieldsync/internal/app/server/api/http/middleware/auth"
	"fieldsync/internal/domain/asset"
	"fieldsync/internal/domain/inspection"
)

// Servicer is the sync core: push/pull reconciliation for offline devices.
type Servicer interface {
	// PushBatch applies an ordered list of device mutations, one result per
	// operation in input order. Item failures never abort sibling items.
	PushBatch(ctx context.Context, req PushRequest) (*PushResponse, error)

	// PullChanges computes the incremental change set since the device's
	// cursor, or the full visible set when no cursor is given.
	PullChanges(ctx context.Context, req PullRequest) (*PullResponse, error)

	// CreateInspection is the idempotent create shortcut: at most one server
	// record ever exists per client id, no matter how often it is retried.
	CreateInspection(ctx context.Context, req CreateInspectionRequest) (*CreateResult, error)

	// CreateInspectionsBatch applies CreateInspection per element with
	// per-item failure isolation and summary counts.
	CreateInspectionsBatch(ctx context.Context, reqs []CreateInspectionRequest) (*BatchCreateResponse, error)

	// Status reports the engineer's last recorded pull cursor.
	Status(ctx context.Context) (*StatusResponse, error)
}

// Service implements the sync core against a Repository whose write methods
// are atomic conditional units (see Repository). All concurrency control is
// optimistic: the client id unique constraint and the sync_version check.
type Service struct {
	repo    Repository
	cursors CursorStore
	log     *slog.Logger
}

// NewService creates the sync service. cursors may be nil, in which case
// pull cursors are simply not recorded server-side.
func NewService(repo Repository, cursors CursorStore, log *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		cursors: cursors,
		log:     log.With("component", "sync_service"),
	}
}

// PushBatch is the batch/item processor. Operations are independent units of
// work: each is dispatched on its (type, entity) tag, and any failure is
// captured as an error result for that item alone. The batch as a whole is
// not transactional; items already applied stay applied.
func (s *Service) PushBatch(ctx context.Context, req PushRequest) (*PushResponse, error) {
	engineerID, ok := auth.GetEngineerID(ctx)
	if !ok {
		return nil, ErrNotAuthenticated
	}

	results := make([]ItemResult, len(req.Changes))
	for i, op := range req.Changes {
		results[i] = s.processOperation(ctx, engineerID, op)
	}

	return &PushResponse{
		Results:  results,
		Summary:  summarize(results),
		SyncedAt: time.Now().UTC(),
	}, nil
}

// processOperation dispatches one operation. The (type, entity) pairs form a
// closed set; anything outside it is a validation error, not a panic.
func (s *Service) processOperation(ctx context.Context, engineerID int, op Operation) ItemResult {
	var (
		result ItemResult
		err    error
	)

	switch {
	case op.Type == OpCreate && op.Entity == EntityInspection:
		result, err = s.createFromOperation(ctx, engineerID, op)
	case op.Type == OpUpdate && op.Entity == EntityInspection:
		result, err = s.updateInspection(ctx, engineerID, op)
	case op.Type == OpDelete && op.Entity == EntityInspection:
		result, err = s.deleteInspection(ctx, engineerID, op)
	case op.Entity == EntityAsset:
		err = fmt.Errorf("%w: assets are read-only for devices", ErrUnsupportedOp)
	default:
		err = fmt.Errorf("%w: %s %s", ErrUnsupportedOp, op.Type, op.Entity)
	}

	if err != nil {
		s.log.Warn("sync operation failed",
			"type", op.Type, "entity", op.Entity, "engineer_id", engineerID, "error", err)
		return ItemResult{
			ClientID: op.ClientID,
			ID:       op.ID,
			Status:   ItemError,
			Error:    err.Error(),
		}
	}
	return result
}

// CreateInspection is the idempotency resolver entry point.
func (s *Service) CreateInspection(ctx context.Context, req CreateInspectionRequest) (*CreateResult, error) {
	engineerID, ok := auth.GetEngineerID(ctx)
	if !ok {
		return nil, ErrNotAuthenticated
	}
	return s.createInspection(ctx, engineerID, req)
}

func (s *Service) CreateInspectionsBatch(ctx context.Context, reqs []CreateInspectionRequest) (*BatchCreateResponse, error) {
	engineerID, ok := auth.GetEngineerID(ctx)
	if !ok {
		return nil, ErrNotAuthenticated
	}

	resp := &BatchCreateResponse{
		Results: make([]ItemResult, len(reqs)),
	}
	resp.Summary.Total = len(reqs)

	for i, req := range reqs {
		clientID := req.ClientID
		res, err := s.createInspection(ctx, engineerID, req)
		if err != nil {
			resp.Summary.Failed++
			resp.Results[i] = ItemResult{
				ClientID: &clientID,
				Status:   ItemError,
				Error:    err.Error(),
			}
			continue
		}

		serverID := res.ServerID
		version := res.SyncVersion
		resp.Results[i] = ItemResult{
			ClientID:      &clientID,
			ID:            &serverID,
			Status:        res.Status,
			ServerVersion: &version,
		}
		switch res.Status {
		case ItemCreated:
			resp.Summary.Created++
		case ItemAlreadySynced:
			resp.Summary.AlreadySynced++
		}
	}

	return resp, nil
}

// createInspection maps a client id to at most one server record. The
// pre-check is advisory only; the unique constraint on client_id is what
// actually closes the check-then-insert race, and a constraint violation is
// converted back into already_synced rather than surfaced.
func (s *Service) createInspection(ctx context.Context, engineerID int, req CreateInspectionRequest) (*CreateResult, error) {
	if req.ClientID == uuid.Nil {
		return nil, ErrMissingClientID
	}

	existing, err := s.repo.GetInspectionByClientID(ctx, req.ClientID)
	if err == nil {
		return &CreateResult{
			Status:      ItemAlreadySynced,
			ServerID:    existing.ID,
			ClientID:    req.ClientID,
			SyncVersion: existing.SyncVersion,
		}, nil
	}
	if !errors.Is(err, inspection.ErrNotFound) {
		return nil, fmt.Errorf("lookup client id: %w", err)
	}

	exists, err := s.repo.AssetExists(ctx, req.AssetID)
	if err != nil {
		return nil, fmt.Errorf("check asset: %w", err)
	}
	if !exists {
		return nil, inspection.ErrAssetNotFound
	}

	now := time.Now().UTC()
	clientID := req.ClientID
	status := req.Status
	if status == "" {
		status = inspection.StatusComplete
	}

	rec := &inspection.Record{
		ClientID:         &clientID,
		AssetID:          req.AssetID,
		EngineerID:       engineerID,
		DateOfInspection: req.DateOfInspection,
		ConditionGrade:   req.ConditionGrade,
		DefectSeverity:   req.DefectSeverity,
		Notes:            req.Notes,
		Status:           status,
		SyncVersion:      1,
		LastSyncedAt:     &now,
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	rec.Recompute()

	id, err := s.repo.CreateInspection(ctx, rec)
	if errors.Is(err, inspection.ErrDuplicateClient) {
		// Lost the race to a concurrent request with the same client id.
		// The winner's record is the one true record for this token.
		winner, lookupErr := s.repo.GetInspectionByClientID(ctx, req.ClientID)
		if lookupErr != nil {
			return nil, fmt.Errorf("lookup after duplicate: %w", lookupErr)
		}
		return &CreateResult{
			Status:      ItemAlreadySynced,
			ServerID:    winner.ID,
			ClientID:    req.ClientID,
			SyncVersion: winner.SyncVersion,
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("create inspection: %w", err)
	}

	s.log.Info("inspection synced",
		"inspection_id", id, "client_id", req.ClientID, "asset_id", req.AssetID)

	return &CreateResult{
		Status:      ItemCreated,
		ServerID:    id,
		ClientID:    req.ClientID,
		SyncVersion: 1,
	}, nil
}

func (s *Service) createFromOperation(ctx context.Context, engineerID int, op Operation) (ItemResult, error) {
	if op.ClientID == nil {
		return ItemResult{}, ErrMissingClientID
	}
	if op.Data.AssetID == nil {
		return ItemResult{}, inspection.ErrMissingAsset
	}

	req := CreateInspectionRequest{
		ClientID:       *op.ClientID,
		AssetID:        *op.Data.AssetID,
		DefectSeverity: op.Data.DefectSeverity,
		LocalTimestamp: op.LocalTimestamp,
	}
	if op.Data.DateOfInspection != nil {
		req.DateOfInspection = *op.Data.DateOfInspection
	}
	if op.Data.ConditionGrade != nil {
		req.ConditionGrade = *op.Data.ConditionGrade
	}
	if op.Data.Notes != nil {
		req.Notes = *op.Data.Notes
	}
	if op.Data.Status != nil {
		req.Status = *op.Data.Status
	}

	res, err := s.createInspection(ctx, engineerID, req)
	if err != nil {
		return ItemResult{}, err
	}

	serverID := res.ServerID
	version := res.SyncVersion
	return ItemResult{
		ClientID:      op.ClientID,
		ID:            &serverID,
		Status:        res.Status,
		ServerVersion: &version,
	}, nil
}

// updateInspection is the conflict resolver accept/reject path for updates.
// The decision is made on sync_version alone: if the stored version has moved
// past what the client last observed, the server wins and the full current
// record is returned so the client can overwrite its local cache. The write
// itself is a conditional statement keyed on the version we loaded, retried
// on interleaving writers until the decision is terminal.
func (s *Service) updateInspection(ctx context.Context, engineerID int, op Operation) (ItemResult, error) {
	if op.ID == nil {
		return ItemResult{}, ErrMissingID
	}
	if op.SyncVersion == nil {
		return ItemResult{}, ErrMissingVersion
	}

	for {
		stored, err := s.repo.GetInspection(ctx, *op.ID)
		if err != nil {
			return ItemResult{}, err
		}
		if stored.EngineerID != engineerID {
			return ItemResult{}, inspection.ErrNotFound
		}

		if stored.SyncVersion > *op.SyncVersion {
			return s.serverWins(op, stored), nil
		}

		updated := applyChange(*stored, op.Data)
		if err := updated.Validate(); err != nil {
			return ItemResult{}, err
		}
		updated.Recompute()
		now := time.Now().UTC()
		updated.SyncVersion = stored.SyncVersion + 1
		updated.LastSyncedAt = &now

		err = s.repo.UpdateInspectionVersioned(ctx, &updated, stored.SyncVersion)
		if errors.Is(err, inspection.ErrVersionConflict) {
			// Another request moved the version between load and write.
			// Re-read and re-decide; the next pass resolves to conflict
			// unless the client's observed version still covers it.
			continue
		}
		if err != nil {
			return ItemResult{}, fmt.Errorf("update inspection: %w", err)
		}

		version := updated.SyncVersion
		return ItemResult{
			ClientID:      op.ClientID,
			ID:            op.ID,
			Status:        ItemUpdated,
			ServerVersion: &version,
		}, nil
	}
}

// deleteInspection applies the same version check as updates. A stale delete
// loses to the server state; an accepted delete removes the record, leaves a
// tombstone for pull snapshots and refreshes the asset aggregate.
func (s *Service) deleteInspection(ctx context.Context, engineerID int, op Operation) (ItemResult, error) {
	if op.ID == nil {
		return ItemResult{}, ErrMissingID
	}
	if op.SyncVersion == nil {
		return ItemResult{}, ErrMissingVersion
	}

	for {
		stored, err := s.repo.GetInspection(ctx, *op.ID)
		if err != nil {
			return ItemResult{}, err
		}
		if stored.EngineerID != engineerID {
			return ItemResult{}, inspection.ErrNotFound
		}

		if stored.SyncVersion > *op.SyncVersion {
			return s.serverWins(op, stored), nil
		}

		err = s.repo.DeleteInspectionVersioned(ctx, stored.ID, stored.SyncVersion)
		if errors.Is(err, inspection.ErrVersionConflict) {
			continue
		}
		if errors.Is(err, inspection.ErrNotFound) {
			// Deleted by a concurrent request; the intended outcome holds.
			return ItemResult{ClientID: op.ClientID, ID: op.ID, Status: ItemDeleted}, nil
		}
		if err != nil {
			return ItemResult{}, fmt.Errorf("delete inspection: %w", err)
		}

		return ItemResult{ClientID: op.ClientID, ID: op.ID, Status: ItemDeleted}, nil
	}
}

func (s *Service) serverWins(op Operation, stored *inspection.Record) ItemResult {
	version := stored.SyncVersion
	return ItemResult{
		ClientID:      op.ClientID,
		ID:            op.ID,
		Status:        ItemConflict,
		Resolution:    ResolutionServerWins,
		ServerVersion: &version,
		ServerRecord:  stored,
	}
}

// applyChange folds an update payload onto a stored record. Asset and
// engineer references are fixed at creation and not movable through sync.
func applyChange(stored inspection.Record, change InspectionChange) inspection.Record {
	if change.DateOfInspection != nil {
		stored.DateOfInspection = *change.DateOfInspection
	}
	if change.ConditionGrade != nil {
		stored.ConditionGrade = *change.ConditionGrade
	}
	if change.DefectSeverity != nil {
		stored.DefectSeverity = change.DefectSeverity
	} else if change.ClearSeverity {
		stored.DefectSeverity = nil
	}
	if change.Notes != nil {
		stored.Notes = *change.Notes
	}
	if change.Status != nil {
		stored.Status = *change.Status
	}
	return stored
}

// PullChanges is the pull snapshot builder. Without a cursor the full
// visible set lands in created; with a cursor, records updated after it land
// in updated and tombstoned ids in deleted. Assets are globally visible,
// inspections are scoped to the requesting engineer.
func (s *Service) PullChanges(ctx context.Context, req PullRequest) (*PullResponse, error) {
	engineerID, ok := auth.GetEngineerID(ctx)
	if !ok {
		return nil, ErrNotAuthenticated
	}

	entities := req.Entities
	if len(entities) == 0 {
		entities = []Entity{EntityAsset, EntityInspection}
	}

	syncedAt := time.Now().UTC()
	resp := &PullResponse{SyncedAt: syncedAt}

	for _, entity := range entities {
		switch entity {
		case EntityAsset:
			if resp.Changes.Assets != nil {
				continue
			}
			bucket, err := s.pullAssets(ctx, req.LastSyncAt)
			if err != nil {
				return nil, err
			}
			resp.Changes.Assets = bucket
		case EntityInspection:
			if resp.Changes.Inspections != nil {
				continue
			}
			bucket, err := s.pullInspections(ctx, engineerID, req.LastSyncAt)
			if err != nil {
				return nil, err
			}
			resp.Changes.Inspections = bucket
		default:
			return nil, fmt.Errorf("%w: pull %s", ErrUnsupportedOp, entity)
		}
	}

	s.recordCursor(ctx, engineerID, syncedAt)
	return resp, nil
}

func (s *Service) pullAssets(ctx context.Context, since *time.Time) (*AssetBucket, error) {
	bucket := &AssetBucket{
		Created: []asset.Asset{},
		Updated: []asset.Asset{},
		Deleted: []int{},
	}

	if since == nil {
		assets, err := s.repo.ListAssets(ctx)
		if err != nil {
			return nil, fmt.Errorf("pull assets: %w", err)
		}
		bucket.Created = assets
		return bucket, nil
	}

	assets, err := s.repo.ListAssetsUpdatedSince(ctx, *since)
	if err != nil {
		return nil, fmt.Errorf("pull assets: %w", err)
	}
	bucket.Updated = assets
	return bucket, nil
}

func (s *Service) pullInspections(ctx context.Context, engineerID int, since *time.Time) (*InspectionBucket, error) {
	bucket := &InspectionBucket{
		Created: []inspection.Record{},
		Updated: []inspection.Record{},
		Deleted: []int{},
	}

	if since == nil {
		records, err := s.repo.ListInspections(ctx, engineerID)
		if err != nil {
			return nil, fmt.Errorf("pull inspections: %w", err)
		}
		bucket.Created = records
		return bucket, nil
	}

	records, err := s.repo.ListInspectionsUpdatedSince(ctx, engineerID, *since)
	if err != nil {
		return nil, fmt.Errorf("pull inspections: %w", err)
	}
	bucket.Updated = records

	deleted, err := s.repo.ListInspectionTombstonesSince(ctx, engineerID, *since)
	if err != nil {
		return nil, fmt.Errorf("pull tombstones: %w", err)
	}
	bucket.Deleted = deleted
	return bucket, nil
}

// recordCursor is best effort: the client owns its cursor, the server copy
// only feeds the status endpoint.
func (s *Service) recordCursor(ctx context.Context, engineerID int, at time.Time) {
	if s.cursors == nil {
		return
	}
	if err := s.cursors.SetCursor(ctx, engineerID, at); err != nil {
		s.log.Warn("failed to record pull cursor", "engineer_id", engineerID, "error", err)
	}
}

// Status reports the engineer's last recorded pull cursor, if the cursor
// store is configured and holds one.
func (s *Service) Status(ctx context.Context) (*StatusResponse, error) {
	engineerID, ok := auth.GetEngineerID(ctx)
	if !ok {
		return nil, ErrNotAuthenticated
	}

	resp := &StatusResponse{ServerTime: time.Now().UTC()}
	if s.cursors == nil {
		return resp, nil
	}

	cursor, err := s.cursors.GetCursor(ctx, engineerID)
	if err != nil {
		s.log.Warn("failed to read pull cursor", "engineer_id", engineerID, "error", err)
		return resp, nil
	}
	resp.LastPullAt = cursor
	return resp, nil
}
