package sync

import (
	"time"

	"github.com/google/uuid"

	"fieldsync/internal/domain/inspection"
)

// OpType is the kind of mutation a device pushes.
type OpType string

const (
	OpCreate OpType = "create"
	OpUpdate OpType = "update"
	OpDelete OpType = "delete"
)

// Entity names a synchronizable record kind. Assets flow downstream only;
// the push path accepts inspection mutations.
type Entity string

const (
	EntityInspection Entity = "inspection"
	EntityAsset      Entity = "asset"
)

// ItemStatus is the terminal outcome of a single pushed operation.
// Conflict is a defined outcome, not an error: the server state won and is
// returned to the caller to overwrite its local cache.
type ItemStatus string

const (
	ItemCreated       ItemStatus = "created"
	ItemAlreadySynced ItemStatus = "already_synced"
	ItemUpdated       ItemStatus = "updated"
	ItemDeleted       ItemStatus = "deleted"
	ItemConflict      ItemStatus = "conflict"
	ItemError         ItemStatus = "error"
)

// Resolution names the conflict policy applied. The only policy implemented
// is server_wins, decided on sync_version. The operation's local timestamp is
// carried on the wire but deliberately ignored for conflict decisions.
type Resolution string

const ResolutionServerWins Resolution = "server_wins"

// InspectionChange is the typed payload of a pushed inspection operation.
// For updates every field is optional; nil means "leave unchanged".
// ClearSeverity drops an existing severity, which also drops the risk score.
type InspectionChange struct {
	AssetID          *int               `json:"asset_id,omitempty"`
	DateOfInspection *time.Time         `json:"date_of_inspection,omitempty"`
	ConditionGrade   *int               `json:"condition_grade,omitempty"`
	DefectSeverity   *int               `json:"defect_severity,omitempty"`
	ClearSeverity    bool               `json:"clear_severity,omitempty"`
	Notes            *string            `json:"notes,omitempty"`
	Status           *inspection.Status `json:"status,omitempty"`
}

// Operation is one element of a push batch. The (Type, Entity) pair is a
// closed tag; the batch processor dispatches on it exhaustively and rejects
// every pair outside the supported set.
type Operation struct {
	Type           OpType           `json:"type" enum:"create,update,delete"`
	Entity         Entity           `json:"entity" enum:"inspection,asset"`
	ClientID       *uuid.UUID       `json:"client_id,omitempty"`
	ID             *int             `json:"id,omitempty"`
	Data           InspectionChange `json:"data"`
	LocalTimestamp time.Time        `json:"local_timestamp"`
	SyncVersion    *int             `json:"sync_version,omitempty"`
}

// ItemResult is the per-operation outcome. Push responses contain exactly one
// result per input operation, in input order, regardless of item failures.
type ItemResult struct {
	ClientID      *uuid.UUID         `json:"client_id,omitempty"`
	ID            *int               `json:"id,omitempty"`
	Status        ItemStatus         `json:"status"`
	ServerVersion *int               `json:"server_version,omitempty"`
	Resolution    Resolution         `json:"resolution,omitempty"`
	ServerRecord  *inspection.Record `json:"server_record,omitempty"`
	Error         string             `json:"error,omitempty"`
}

// Summary aggregates per-item outcomes for push and batch-create responses.
// Batch create only ever fills Created, AlreadySynced, Failed and Total.
type Summary struct {
	Created       int `json:"created"`
	AlreadySynced int `json:"already_synced"`
	Updated       int `json:"updated"`
	Deleted       int `json:"deleted"`
	Conflicts     int `json:"conflicts"`
	Failed        int `json:"failed"`
	Total         int `json:"total"`
}

// summarize tallies item results into summary counts.
func summarize(results []ItemResult) Summary {
	summary := Summary{Total: len(results)}
	for _, res := range results {
		switch res.Status {
		case ItemCreated:
			summary.Created++
		case ItemAlreadySynced:
			summary.AlreadySynced++
		case ItemUpdated:
			summary.Updated++
		case ItemDeleted:
			summary.Deleted++
		case ItemConflict:
			summary.Conflicts++
		case ItemError:
			summary.Failed++
		}
	}
	return summary
}
