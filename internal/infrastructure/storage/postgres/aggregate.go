package postgres

import (
	"context"
	"fmt"
	"time"

	"fieldsync/internal/domain/asset"
	"fieldsync/internal/domain/inspection"
)

// aggregateRow is one inspection of an asset's history as seen by the
// snapshot computation.
type aggregateRow struct {
	ID             int
	Date           time.Time
	ConditionGrade int
	RiskScore      *int
	InspectorName  string
	Status         inspection.Status
}

// assetSnapshot is the denormalized last-inspection state written back onto
// the asset row.
type assetSnapshot struct {
	LastInspectionID   *int
	LastInspectionDate *time.Time
	LastConditionGrade *int
	LastRiskScore      *int
	LastInspectorName  *string
	InspectionCount    int
	NextInspectionDue  *time.Time
}

// computeAssetSnapshot derives the snapshot from the asset's full inspection
// history. The snapshot reflects the most recent complete/submitted
// inspection by inspection date, not by write time; ids break date ties.
// When no inspection qualifies the snapshot clears to null. InspectionCount
// covers all statuses, qualifying or not.
func computeAssetSnapshot(history []aggregateRow, frequencyMonths int) assetSnapshot {
	snap := assetSnapshot{InspectionCount: len(history)}

	var latest *aggregateRow
	for i := range history {
		row := &history[i]
		if !row.Status.Qualifying() {
			continue
		}
		if latest == nil || row.Date.After(latest.Date) ||
			(row.Date.Equal(latest.Date) && row.ID > latest.ID) {
			latest = row
		}
	}
	if latest == nil {
		return snap
	}

	due := asset.NextDue(latest.Date, frequencyMonths)
	snap.LastInspectionID = &latest.ID
	snap.LastInspectionDate = &latest.Date
	snap.LastConditionGrade = &latest.ConditionGrade
	snap.LastRiskScore = latest.RiskScore
	snap.LastInspectorName = &latest.InspectorName
	snap.NextInspectionDue = &due
	return snap
}

// refreshAssetAggregate recomputes the asset's denormalized last-inspection
// snapshot. It is called by the inspection and sync repositories inside the
// same transaction as the triggering write, so the aggregate can never be
// stale by more than that one write.
func refreshAssetAggregate(ctx context.Context, db dbtx, assetID int) error {
	const historyQuery = `
		SELECT i.id, i.date_of_inspection, i.condition_grade, i.risk_score, e.name, i.status
		FROM inspections i
		JOIN engineers e ON e.id = i.engineer_id
		WHERE i.asset_id = $1`

	rows, err := db.Query(ctx, historyQuery, assetID)
	if err != nil {
		return fmt.Errorf("load inspection history: %w", err)
	}
	defer rows.Close()

	var history []aggregateRow
	for rows.Next() {
		var row aggregateRow
		if err := rows.Scan(&row.ID, &row.Date, &row.ConditionGrade,
			&row.RiskScore, &row.InspectorName, &row.Status); err != nil {
			return fmt.Errorf("scan inspection history: %w", err)
		}
		history = append(history, row)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("read inspection history: %w", err)
	}

	var frequency int
	if err := db.QueryRow(ctx,
		`SELECT inspection_frequency_months FROM assets WHERE id = $1`, assetID,
	).Scan(&frequency); err != nil {
		return fmt.Errorf("load asset frequency: %w", err)
	}

	snap := computeAssetSnapshot(history, frequency)

	const updateQuery = `
		UPDATE assets SET
			last_inspection_id   = $2,
			last_inspection_date = $3,
			last_condition_grade = $4,
			last_risk_score      = $5,
			last_inspector_name  = $6,
			inspection_count     = $7,
			next_inspection_due  = $8,
			updated_at           = NOW()
		WHERE id = $1`

	if _, err := db.Exec(ctx, updateQuery, assetID,
		snap.LastInspectionID, snap.LastInspectionDate, snap.LastConditionGrade,
		snap.LastRiskScore, snap.LastInspectorName, snap.InspectionCount,
		snap.NextInspectionDue); err != nil {
		return fmt.Errorf("update asset aggregate: %w", err)
	}
	return nil
}
