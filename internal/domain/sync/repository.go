package sync

import (
	"context"
	"time"

	"github.com/google/uuid"

	"fieldsync/internal/domain/asset"
	"fieldsync/internal/domain/inspection"
)

// Repository is the storage surface of the sync core. The write methods are
// the atomic units the concurrency model relies on:
//
//   - CreateInspection must enforce client id uniqueness with a storage-level
//     unique constraint and report a duplicate as
//     inspection.ErrDuplicateClient, so a lost race between pre-check and
//     insert still resolves to already_synced.
//   - UpdateInspectionVersioned and DeleteInspectionVersioned must apply the
//     version check and the write as a single conditional statement
//     (sync_version = expected), reporting inspection.ErrVersionConflict when
//     the row moved on.
//   - Every write must refresh the owning asset's aggregate inside the same
//     transaction.
type Repository interface {
	GetInspection(ctx context.Context, id int) (*inspection.Record, error)
	GetInspectionByClientID(ctx context.Context, clientID uuid.UUID) (*inspection.Record, error)
	AssetExists(ctx context.Context, assetID int) (bool, error)

	CreateInspection(ctx context.Context, rec *inspection.Record) (int, error)
	UpdateInspectionVersioned(ctx context.Context, rec *inspection.Record, expectedVersion int) error
	DeleteInspectionVersioned(ctx context.Context, id, expectedVersion int) error

	ListAssets(ctx context.Context) ([]asset.Asset, error)
	ListAssetsUpdatedSince(ctx context.Context, since time.Time) ([]asset.Asset, error)
	ListInspections(ctx context.Context, engineerID int) ([]inspection.Record, error)
	ListInspectionsUpdatedSince(ctx context.Context, engineerID int, since time.Time) ([]inspection.Record, error)
	ListInspectionTombstonesSince(ctx context.Context, engineerID int, since time.Time) ([]int, error)
}

// CursorStore keeps per-engineer pull cursors in a shared, TTL-expiring
// store so every server instance observes the same sync state.
type CursorStore interface {
	SetCursor(ctx context.Context, engineerID int, at time.Time) error
	GetCursor(ctx context.Context, engineerID int) (*time.Time, error)
}
