package inspection

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle state of an inspection record.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusComplete   Status = "complete"
	StatusSubmitted  Status = "submitted"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusComplete, StatusSubmitted:
		return true
	}
	return false
}

// Qualifying reports whether a record in this status counts toward the
// asset's last-inspection aggregate.
func (s Status) Qualifying() bool {
	return s == StatusComplete || s == StatusSubmitted
}

// CanTransitionTo checks whether the lifecycle allows moving to target.
// The lifecycle moves forward only: not_started -> in_progress -> complete -> submitted.
// A complete record can be reopened to in_progress before submission.
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusNotStarted:
		return target == StatusInProgress
	case StatusInProgress:
		return target == StatusComplete
	case StatusComplete:
		return target == StatusSubmitted || target == StatusInProgress
	case StatusSubmitted:
		return false
	}
	return false
}

// Record is the unit of synchronization: one inspection of one asset by
// one engineer. ClientID is the device-generated idempotency token; it is
// nil for records created purely server-side and immutable once set.
type Record struct {
	ID               int        `json:"id"`
	ClientID         *uuid.UUID `json:"client_id,omitempty"`
	AssetID          int        `json:"asset_id"`
	EngineerID       int        `json:"engineer_id"`
	DateOfInspection time.Time  `json:"date_of_inspection"`
	ConditionGrade   int        `json:"condition_grade"`
	DefectSeverity   *int       `json:"defect_severity,omitempty"`
	RiskScore        *int       `json:"risk_score,omitempty"`
	Notes            string     `json:"notes,omitempty"`
	Status           Status     `json:"status"`
	SyncVersion      int        `json:"sync_version"`
	LastSyncedAt     *time.Time `json:"last_synced_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// ComputeRiskScore derives the priority score as conditionGrade x defectSeverity.
// Severity is optional; without it there is no score.
func ComputeRiskScore(grade int, severity *int) *int {
	if severity == nil {
		return nil
	}
	score := grade * *severity
	return &score
}

// Recompute refreshes the derived risk score from the current grade and severity.
func (r *Record) Recompute() {
	r.RiskScore = ComputeRiskScore(r.ConditionGrade, r.DefectSeverity)
}

const (
	GradeMin = 1
	GradeMax = 5
)

// Validate checks field bounds and required references before any write.
func (r *Record) Validate() error {
	if r.AssetID <= 0 {
		return ErrMissingAsset
	}
	if r.EngineerID <= 0 {
		return ErrMissingEngineer
	}
	if r.ConditionGrade < GradeMin || r.ConditionGrade > GradeMax {
		return ErrInvalidGrade
	}
	if r.DefectSeverity != nil && (*r.DefectSeverity < GradeMin || *r.DefectSeverity > GradeMax) {
		return ErrInvalidSeverity
	}
	if r.DateOfInspection.IsZero() {
		return ErrMissingDate
	}
	if r.Status != "" && !r.Status.IsValid() {
		return ErrInvalidStatus
	}
	return nil
}
