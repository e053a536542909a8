package asset

import (
	"time"
)

// DefaultFrequencyMonths is the inspection interval applied when an asset
// has no explicit frequency configured.
const DefaultFrequencyMonths = 12

// Asset is an inspectable piece of infrastructure. The Last* fields plus
// InspectionCount and NextInspectionDue form the denormalized aggregate:
// a snapshot of the most recent complete/submitted inspection by inspection
// date. They are owned by the aggregate updater and never written elsewhere.
type Asset struct {
	ID                        int        `json:"id"`
	Reference                 string     `json:"reference"`
	Name                      string     `json:"name"`
	AssetType                 string     `json:"asset_type,omitempty"`
	Location                  string     `json:"location,omitempty"`
	InspectionFrequencyMonths int        `json:"inspection_frequency_months"`
	LastInspectionID          *int       `json:"last_inspection_id,omitempty"`
	LastInspectionDate        *time.Time `json:"last_inspection_date,omitempty"`
	LastConditionGrade        *int       `json:"last_condition_grade,omitempty"`
	LastRiskScore             *int       `json:"last_risk_score,omitempty"`
	LastInspectorName         *string    `json:"last_inspector_name,omitempty"`
	InspectionCount           int        `json:"inspection_count"`
	NextInspectionDue         *time.Time `json:"next_inspection_due,omitempty"`
	CreatedAt                 time.Time  `json:"created_at"`
	UpdatedAt                 time.Time  `json:"updated_at"`
}

// NextDue computes when the next inspection falls due after the given one.
func NextDue(lastInspection time.Time, frequencyMonths int) time.Time {
	if frequencyMonths <= 0 {
		frequencyMonths = DefaultFrequencyMonths
	}
	return lastInspection.AddDate(0, frequencyMonths, 0)
}

// Overdue reports whether the asset's next inspection is past due at now.
// Assets with no qualifying inspection are never overdue, only unstarted.
func (a *Asset) Overdue(now time.Time) bool {
	return a.NextInspectionDue != nil && a.NextInspectionDue.Before(now)
}

func (a *Asset) Validate() error {
	if a.Reference == "" {
		return ErrMissingReference
	}
	if a.Name == "" {
		return ErrMissingName
	}
	if a.InspectionFrequencyMonths < 0 {
		return ErrInvalidFrequency
	}
	return nil
}
