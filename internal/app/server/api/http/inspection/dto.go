package inspection

import (
	"time"

	"github.com/google/uuid"

	"fieldsync/internal/domain/inspection"
)

type listOutput struct {
	Body []inspection.Record
}

type findInput struct {
	ID int `path:"id"`
}

type findOutput struct {
	Body inspection.Record
}

type createInput struct {
	Body CreateRequest
}

type CreateRequest struct {
	ClientID         *uuid.UUID `json:"client_id,omitempty"`
	AssetID          int        `json:"asset_id" minimum:"1"`
	DateOfInspection time.Time  `json:"date_of_inspection"`
	ConditionGrade   int        `json:"condition_grade" minimum:"1" maximum:"5"`
	DefectSeverity   *int       `json:"defect_severity,omitempty" minimum:"1" maximum:"5"`
	Notes            string     `json:"notes,omitempty"`
	Status           string     `json:"status,omitempty" enum:"not_started,in_progress,complete,submitted"`
}

type updateInput struct {
	ID   int `path:"id"`
	Body UpdateRequest
}

type UpdateRequest struct {
	DateOfInspection time.Time `json:"date_of_inspection"`
	ConditionGrade   int       `json:"condition_grade" minimum:"1" maximum:"5"`
	DefectSeverity   *int      `json:"defect_severity,omitempty" minimum:"1" maximum:"5"`
	Notes            string    `json:"notes,omitempty"`
	Status           string    `json:"status,omitempty" enum:"not_started,in_progress,complete,submitted"`
}

type deleteInput struct {
	ID int `path:"id"`
}

type mutateOutput struct {
	Body MutateResponse
}

type MutateResponse struct {
	ID     int    `json:"inspection_id,omitempty"`
	Status string `json:"status"`
}
