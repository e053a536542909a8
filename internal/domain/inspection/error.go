package inspection

import (
	"errors"
)

var (
	ErrNotFound        = errors.New("inspection not found")
	ErrAssetNotFound   = errors.New("referenced asset not found")
	ErrMissingAsset    = errors.New("asset reference is required")
	ErrMissingEngineer = errors.New("engineer reference is required")
	ErrMissingDate     = errors.New("date of inspection is required")
	ErrInvalidGrade    = errors.New("condition grade must be between 1 and 5")
	ErrInvalidSeverity = errors.New("defect severity must be between 1 and 5")
	ErrInvalidStatus   = errors.New("invalid inspection status")
	ErrStatusLocked    = errors.New("status transition not allowed")
	ErrDuplicateClient = errors.New("client id already synced")
	ErrVersionConflict = errors.New("inspection version conflict")
)
