package inspection

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists inspection records. Implementations must refresh the
// owning asset's denormalized aggregate within the same transaction as any
// write, so the aggregate is never stale by more than the write producing it.
type Repository interface {
	List(ctx context.Context, engineerID int) ([]Record, error)
	Get(ctx context.Context, id int) (*Record, error)
	GetByClientID(ctx context.Context, clientID uuid.UUID) (*Record, error)
	Create(ctx context.Context, rec *Record) (int, error)
	Update(ctx context.Context, rec *Record) error
	Delete(ctx context.Context, id int) error

	AssetExists(ctx context.Context, assetID int) (bool, error)
}
