package asset

import (
	"context"
)

// Repository persists assets and maintains their denormalized aggregates.
type Repository interface {
	List(ctx context.Context) ([]Asset, error)
	Get(ctx context.Context, id int) (*Asset, error)
	Create(ctx context.Context, a *Asset) (int, error)
	Update(ctx context.Context, a *Asset) error

	// RefreshAggregate recomputes the asset's last-inspection snapshot from
	// the most recent complete/submitted inspection by inspection date, and
	// the total inspection count across all statuses. Sync and inspection
	// repositories run the same recomputation inside their own write
	// transactions; this entry point exists for repair and backfill.
	RefreshAggregate(ctx context.Context, assetID int) error
}
