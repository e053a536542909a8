package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/exp/slog"

	"fieldsync/internal/domain/asset"
	"fieldsync/internal/domain/inspection"
)

// SyncRepository backs the sync core. Its write methods are the atomic
// conditional units the optimistic concurrency model relies on: the unique
// index on client_id closes the idempotent-create race, and versioned writes
// are single statements guarded by sync_version.
type SyncRepository struct {
	pool dbtx
	db   *Storage
	log  *slog.Logger
}

func NewSyncRepository(db *Storage, log *slog.Logger) *SyncRepository {
	return &SyncRepository{
		pool: db.Pool(),
		db:   db,
		log:  log.With("component", "sync_repository"),
	}
}

func (r *SyncRepository) GetInspection(ctx context.Context, id int) (*inspection.Record, error) {
	query := `SELECT ` + inspectionColumns + ` FROM inspections WHERE id = $1`

	rec, err := scanInspection(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, inspection.ErrNotFound
		}
		return nil, fmt.Errorf("get inspection: %w", err)
	}
	return rec, nil
}

func (r *SyncRepository) GetInspectionByClientID(ctx context.Context, clientID uuid.UUID) (*inspection.Record, error) {
	query := `SELECT ` + inspectionColumns + ` FROM inspections WHERE client_id = $1`

	rec, err := scanInspection(r.pool.QueryRow(ctx, query, clientID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, inspection.ErrNotFound
		}
		return nil, fmt.Errorf("get inspection by client id: %w", err)
	}
	return rec, nil
}

func (r *SyncRepository) AssetExists(ctx context.Context, assetID int) (bool, error) {
	return assetExists(ctx, r.pool, assetID)
}

func (r *SyncRepository) CreateInspection(ctx context.Context, rec *inspection.Record) (int, error) {
	return createInspectionTx(ctx, r.db, r.log, rec)
}

// UpdateInspectionVersioned applies the accepted update as one conditional
// statement: the row is written only if sync_version still equals
// expectedVersion, which closes the load-then-write race window. The asset
// aggregate refresh commits with the update.
func (r *SyncRepository) UpdateInspectionVersioned(ctx context.Context, rec *inspection.Record, expectedVersion int) error {
	tx, err := r.db.Pool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const query = `
		UPDATE inspections SET
			date_of_inspection = $1, condition_grade = $2, defect_severity = $3,
			risk_score = $4, notes = $5, status = $6, sync_version = $7,
			last_synced_at = $8, updated_at = NOW()
		WHERE id = $9 AND sync_version = $10`

	tag, err := tx.Exec(ctx, query,
		rec.DateOfInspection, rec.ConditionGrade, rec.DefectSeverity,
		rec.RiskScore, rec.Notes, rec.Status, rec.SyncVersion,
		rec.LastSyncedAt, rec.ID, expectedVersion)
	if err != nil {
		r.log.Error("failed to update inspection", "inspection_id", rec.ID, "error", err)
		return fmt.Errorf("update inspection: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM inspections WHERE id = $1)`, rec.ID).Scan(&exists); err != nil {
			return fmt.Errorf("check inspection: %w", err)
		}
		if exists {
			return inspection.ErrVersionConflict
		}
		return inspection.ErrNotFound
	}

	if err := refreshAssetAggregate(ctx, tx, rec.AssetID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// DeleteInspectionVersioned removes the record if its version still matches,
// writes a tombstone for pull snapshots and refreshes the asset aggregate.
func (r *SyncRepository) DeleteInspectionVersioned(ctx context.Context, id, expectedVersion int) error {
	tx, err := r.db.Pool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := deleteInspectionTx(ctx, tx, id, &expectedVersion); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *SyncRepository) ListAssets(ctx context.Context) ([]asset.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()

	return scanAssets(rows)
}

func (r *SyncRepository) ListAssetsUpdatedSince(ctx context.Context, since time.Time) ([]asset.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE updated_at > $1 ORDER BY id`

	rows, err := r.pool.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("list assets updated since: %w", err)
	}
	defer rows.Close()

	return scanAssets(rows)
}

func (r *SyncRepository) ListInspections(ctx context.Context, engineerID int) ([]inspection.Record, error) {
	query := `SELECT ` + inspectionColumns + `
		FROM inspections WHERE engineer_id = $1 ORDER BY id`

	rows, err := r.pool.Query(ctx, query, engineerID)
	if err != nil {
		return nil, fmt.Errorf("list inspections: %w", err)
	}
	defer rows.Close()

	return scanInspections(rows)
}

func (r *SyncRepository) ListInspectionsUpdatedSince(ctx context.Context, engineerID int, since time.Time) ([]inspection.Record, error) {
	query := `SELECT ` + inspectionColumns + `
		FROM inspections WHERE engineer_id = $1 AND updated_at > $2 ORDER BY id`

	rows, err := r.pool.Query(ctx, query, engineerID, since)
	if err != nil {
		return nil, fmt.Errorf("list inspections updated since: %w", err)
	}
	defer rows.Close()

	return scanInspections(rows)
}

func (r *SyncRepository) ListInspectionTombstonesSince(ctx context.Context, engineerID int, since time.Time) ([]int, error) {
	const query = `
		SELECT inspection_id FROM sync_tombstones
		WHERE engineer_id = $1 AND deleted_at > $2
		ORDER BY inspection_id`

	rows, err := r.pool.Query(ctx, query, engineerID, since)
	if err != nil {
		return nil, fmt.Errorf("list tombstones: %w", err)
	}
	defer rows.Close()

	ids := make([]int, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan tombstone: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tombstones: %w", err)
	}
	return ids, nil
}
