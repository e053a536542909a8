package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"golang.org/x/exp/slog"

	"fieldsync/internal/domain/asset"
)

const assetColumns = `
	id, reference, name, asset_type, location, inspection_frequency_months,
	last_inspection_id, last_inspection_date, last_condition_grade,
	last_risk_score, last_inspector_name, inspection_count,
	next_inspection_due, created_at, updated_at`

type AssetRepository struct {
	pool dbtx
	log  *slog.Logger
}

func NewAssetRepository(db *Storage, log *slog.Logger) *AssetRepository {
	return &AssetRepository{
		pool: db.Pool(),
		log:  log.With("component", "asset_repository"),
	}
}

func (r *AssetRepository) List(ctx context.Context) ([]asset.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets ORDER BY reference`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.log.Error("failed to list assets", "error", err)
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()

	return scanAssets(rows)
}

func (r *AssetRepository) Get(ctx context.Context, id int) (*asset.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE id = $1`

	a, err := scanAsset(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, asset.ErrNotFound
		}
		r.log.Error("failed to get asset", "asset_id", id, "error", err)
		return nil, fmt.Errorf("get asset: %w", err)
	}
	return a, nil
}

func (r *AssetRepository) Create(ctx context.Context, a *asset.Asset) (int, error) {
	const query = `
		INSERT INTO assets (reference, name, asset_type, location, inspection_frequency_months)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		a.Reference, a.Name, a.AssetType, a.Location, a.InspectionFrequencyMonths,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "assets_reference_key") {
			return 0, asset.ErrDuplicateRef
		}
		r.log.Error("failed to create asset", "reference", a.Reference, "error", err)
		return 0, fmt.Errorf("create asset: %w", err)
	}
	return a.ID, nil
}

func (r *AssetRepository) Update(ctx context.Context, a *asset.Asset) error {
	const query = `
		UPDATE assets SET
			reference = $1, name = $2, asset_type = $3, location = $4,
			inspection_frequency_months = $5, updated_at = NOW()
		WHERE id = $6`

	tag, err := r.pool.Exec(ctx, query,
		a.Reference, a.Name, a.AssetType, a.Location,
		a.InspectionFrequencyMonths, a.ID)
	if err != nil {
		r.log.Error("failed to update asset", "asset_id", a.ID, "error", err)
		return fmt.Errorf("update asset: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return asset.ErrNotFound
	}
	return nil
}

func (r *AssetRepository) RefreshAggregate(ctx context.Context, assetID int) error {
	return refreshAssetAggregate(ctx, r.pool, assetID)
}

func scanAsset(row pgx.Row) (*asset.Asset, error) {
	var a asset.Asset
	err := row.Scan(
		&a.ID, &a.Reference, &a.Name, &a.AssetType, &a.Location,
		&a.InspectionFrequencyMonths, &a.LastInspectionID, &a.LastInspectionDate,
		&a.LastConditionGrade, &a.LastRiskScore, &a.LastInspectorName,
		&a.InspectionCount, &a.NextInspectionDue, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func scanAssets(rows pgx.Rows) ([]asset.Asset, error) {
	assets := make([]asset.Asset, 0)
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		assets = append(assets, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assets: %w", err)
	}
	return assets, nil
}
