package sync

import (
	"time"

	"github.com/google/uuid"

	"fieldsync/internal/domain/asset"
	"fieldsync/internal/domain/inspection"
)

// PushRequest carries an ordered list of device-side mutations.
type PushRequest struct {
	Changes []Operation `json:"changes"`
}

// PushResponse returns one result per pushed operation, in input order,
// plus summary counts over the whole batch.
type PushResponse struct {
	Results  []ItemResult `json:"results"`
	Summary  Summary      `json:"summary"`
	SyncedAt time.Time    `json:"synced_at"`
}

// PullRequest asks for everything changed since the device's cursor.
// A nil cursor means a first-time (full) download.
type PullRequest struct {
	LastSyncAt *time.Time `json:"last_sync_at,omitempty"`
	Entities   []Entity   `json:"entities"`
}

// AssetBucket holds asset changes for one pull. Assets are globally visible
// and never deleted through the sync path, so the deleted bucket stays empty.
type AssetBucket struct {
	Created []asset.Asset `json:"created"`
	Updated []asset.Asset `json:"updated"`
	Deleted []int         `json:"deleted"`
}

// InspectionBucket holds inspection changes for one pull, scoped to the
// requesting engineer's own records. Deleted carries tombstoned server ids.
type InspectionBucket struct {
	Created []inspection.Record `json:"created"`
	Updated []inspection.Record `json:"updated"`
	Deleted []int               `json:"deleted"`
}

// PullChanges is the per-entity change set. One closed field per entity kind.
type PullChanges struct {
	Assets      *AssetBucket      `json:"asset,omitempty"`
	Inspections *InspectionBucket `json:"inspection,omitempty"`
}

// PullResponse returns the change set plus the timestamp the client must
// persist as its next cursor.
type PullResponse struct {
	SyncedAt time.Time   `json:"synced_at"`
	Changes  PullChanges `json:"changes"`
}

// CreateInspectionRequest is the single idempotent create shortcut: a full
// inspection payload keyed by the device-generated client id.
type CreateInspectionRequest struct {
	ClientID         uuid.UUID         `json:"client_id"`
	AssetID          int               `json:"asset_id"`
	DateOfInspection time.Time         `json:"date_of_inspection"`
	ConditionGrade   int               `json:"condition_grade"`
	DefectSeverity   *int              `json:"defect_severity,omitempty"`
	Notes            string            `json:"notes,omitempty"`
	Status           inspection.Status `json:"status,omitempty"`
	LocalTimestamp   time.Time         `json:"local_timestamp,omitempty"`
}

// CreateResult reports the idempotent create outcome. ServerID and
// SyncVersion describe the one record owned by the client id, whether this
// request created it or an earlier one did.
type CreateResult struct {
	Status      ItemStatus `json:"status"`
	ServerID    int        `json:"server_id"`
	ClientID    uuid.UUID  `json:"client_id"`
	SyncVersion int        `json:"sync_version"`
}

// BatchCreateResponse wraps the batch shortcut results with summary counts.
type BatchCreateResponse struct {
	Summary Summary      `json:"summary"`
	Results []ItemResult `json:"results"`
}

// StatusResponse reports the engineer's last recorded pull cursor.
type StatusResponse struct {
	LastPullAt *time.Time `json:"last_pull_at,omitempty"`
	ServerTime time.Time  `json:"server_time"`
}
