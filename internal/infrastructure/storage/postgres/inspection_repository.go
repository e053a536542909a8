package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/exp/slog"

	"fieldsync/internal/domain/inspection"
)

const inspectionColumns = `
	id, client_id, asset_id, engineer_id, date_of_inspection, condition_grade,
	defect_severity, risk_score, notes, status, sync_version, last_synced_at,
	created_at, updated_at`

// InspectionRepository is the plain CRUD store for inspections. Every write
// refreshes the owning asset's aggregate in the same transaction.
type InspectionRepository struct {
	pool dbtx
	db   *Storage
	log  *slog.Logger
}

func NewInspectionRepository(db *Storage, log *slog.Logger) *InspectionRepository {
	return &InspectionRepository{
		pool: db.Pool(),
		db:   db,
		log:  log.With("component", "inspection_repository"),
	}
}

func (r *InspectionRepository) List(ctx context.Context, engineerID int) ([]inspection.Record, error) {
	query := `SELECT ` + inspectionColumns + `
		FROM inspections
		WHERE engineer_id = $1
		ORDER BY date_of_inspection DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, engineerID)
	if err != nil {
		r.log.Error("failed to list inspections", "engineer_id", engineerID, "error", err)
		return nil, fmt.Errorf("list inspections: %w", err)
	}
	defer rows.Close()

	return scanInspections(rows)
}

func (r *InspectionRepository) Get(ctx context.Context, id int) (*inspection.Record, error) {
	query := `SELECT ` + inspectionColumns + ` FROM inspections WHERE id = $1`

	rec, err := scanInspection(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, inspection.ErrNotFound
		}
		r.log.Error("failed to get inspection", "inspection_id", id, "error", err)
		return nil, fmt.Errorf("get inspection: %w", err)
	}
	return rec, nil
}

func (r *InspectionRepository) GetByClientID(ctx context.Context, clientID uuid.UUID) (*inspection.Record, error) {
	query := `SELECT ` + inspectionColumns + ` FROM inspections WHERE client_id = $1`

	rec, err := scanInspection(r.pool.QueryRow(ctx, query, clientID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, inspection.ErrNotFound
		}
		r.log.Error("failed to get inspection by client id", "client_id", clientID, "error", err)
		return nil, fmt.Errorf("get inspection by client id: %w", err)
	}
	return rec, nil
}

func (r *InspectionRepository) Create(ctx context.Context, rec *inspection.Record) (int, error) {
	return createInspectionTx(ctx, r.db, r.log, rec)
}

func (r *InspectionRepository) Update(ctx context.Context, rec *inspection.Record) error {
	tx, err := r.db.Pool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const query = `
		UPDATE inspections SET
			date_of_inspection = $1, condition_grade = $2, defect_severity = $3,
			risk_score = $4, notes = $5, status = $6, updated_at = NOW()
		WHERE id = $7`

	tag, err := tx.Exec(ctx, query,
		rec.DateOfInspection, rec.ConditionGrade, rec.DefectSeverity,
		rec.RiskScore, rec.Notes, rec.Status, rec.ID)
	if err != nil {
		r.log.Error("failed to update inspection", "inspection_id", rec.ID, "error", err)
		return fmt.Errorf("update inspection: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return inspection.ErrNotFound
	}

	if err := refreshAssetAggregate(ctx, tx, rec.AssetID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *InspectionRepository) Delete(ctx context.Context, id int) error {
	tx, err := r.db.Pool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := deleteInspectionTx(ctx, tx, id, nil); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *InspectionRepository) AssetExists(ctx context.Context, assetID int) (bool, error) {
	return assetExists(ctx, r.pool, assetID)
}

// createInspectionTx inserts a record and refreshes the asset aggregate in
// one transaction. A duplicate client id surfaces as ErrDuplicateClient so
// callers can fold the race back into already_synced.
func createInspectionTx(ctx context.Context, db *Storage, log *slog.Logger, rec *inspection.Record) (int, error) {
	tx, err := db.Pool().Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const query = `
		INSERT INTO inspections (
			client_id, asset_id, engineer_id, date_of_inspection, condition_grade,
			defect_severity, risk_score, notes, status, sync_version, last_synced_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`

	err = tx.QueryRow(ctx, query,
		rec.ClientID, rec.AssetID, rec.EngineerID, rec.DateOfInspection,
		rec.ConditionGrade, rec.DefectSeverity, rec.RiskScore, rec.Notes,
		rec.Status, rec.SyncVersion, rec.LastSyncedAt,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "inspections_client_id_key") {
			return 0, inspection.ErrDuplicateClient
		}
		log.Error("failed to create inspection",
			"asset_id", rec.AssetID, "engineer_id", rec.EngineerID, "error", err)
		return 0, fmt.Errorf("create inspection: %w", err)
	}

	if err := refreshAssetAggregate(ctx, tx, rec.AssetID); err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return rec.ID, nil
}

// deleteInspectionTx removes a record, writes its tombstone and refreshes
// the asset aggregate, all within the caller's transaction. expectedVersion
// nil skips the optimistic check (plain CRUD deletes).
func deleteInspectionTx(ctx context.Context, tx pgx.Tx, id int, expectedVersion *int) error {
	const query = `
		DELETE FROM inspections
		WHERE id = $1 AND ($2::int IS NULL OR sync_version = $2)
		RETURNING asset_id, engineer_id, client_id`

	var (
		assetID    int
		engineerID int
		clientID   *uuid.UUID
	)
	err := tx.QueryRow(ctx, query, id, expectedVersion).Scan(&assetID, &engineerID, &clientID)
	if errors.Is(err, pgx.ErrNoRows) {
		// Row gone or version moved; let the caller distinguish.
		var exists bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM inspections WHERE id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("check inspection: %w", err)
		}
		if exists {
			return inspection.ErrVersionConflict
		}
		return inspection.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete inspection: %w", err)
	}

	const tombstone = `
		INSERT INTO sync_tombstones (inspection_id, engineer_id, client_id)
		VALUES ($1, $2, $3)`
	if _, err := tx.Exec(ctx, tombstone, id, engineerID, clientID); err != nil {
		return fmt.Errorf("write tombstone: %w", err)
	}

	return refreshAssetAggregate(ctx, tx, assetID)
}

func assetExists(ctx context.Context, db dbtx, assetID int) (bool, error) {
	var exists bool
	err := db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM assets WHERE id = $1)`, assetID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check asset: %w", err)
	}
	return exists, nil
}

func scanInspection(row pgx.Row) (*inspection.Record, error) {
	var rec inspection.Record
	err := row.Scan(
		&rec.ID, &rec.ClientID, &rec.AssetID, &rec.EngineerID, &rec.DateOfInspection,
		&rec.ConditionGrade, &rec.DefectSeverity, &rec.RiskScore, &rec.Notes,
		&rec.Status, &rec.SyncVersion, &rec.LastSyncedAt, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func scanInspections(rows pgx.Rows) ([]inspection.Record, error) {
	records := make([]inspection.Record, 0)
	for rows.Next() {
		rec, err := scanInspection(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inspection: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inspections: %w", err)
	}
	return records, nil
}
