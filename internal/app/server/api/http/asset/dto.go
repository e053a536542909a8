package asset

import (
	"fieldsync/internal/domain/asset"
)

type listOutput struct {
	Body []asset.Asset
}

type findInput struct {
	ID int `path:"id"`
}

type findOutput struct {
	Body asset.Asset
}

type createInput struct {
	Body CreateRequest
}

type CreateRequest struct {
	Reference                 string `json:"reference" minLength:"1" maxLength:"64"`
	Name                      string `json:"name" minLength:"1" maxLength:"200"`
	AssetType                 string `json:"asset_type,omitempty" maxLength:"100"`
	Location                  string `json:"location,omitempty" maxLength:"200"`
	InspectionFrequencyMonths int    `json:"inspection_frequency_months,omitempty" minimum:"0"`
}

type updateInput struct {
	ID   int `path:"id"`
	Body UpdateRequest
}

type UpdateRequest struct {
	Name                      string `json:"name" minLength:"1" maxLength:"200"`
	AssetType                 string `json:"asset_type,omitempty" maxLength:"100"`
	Location                  string `json:"location,omitempty" maxLength:"200"`
	InspectionFrequencyMonths int    `json:"inspection_frequency_months,omitempty" minimum:"0"`
}

type mutateOutput struct {
	Body MutateResponse
}

type MutateResponse struct {
	ID     int    `json:"asset_id,omitempty"`
	Status string `json:"status"`
}
