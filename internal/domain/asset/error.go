package asset

import (
	"errors"
)

var (
	ErrNotFound         = errors.New("asset not found")
	ErrMissingReference = errors.New("asset reference is required")
	ErrMissingName      = errors.New("asset name is required")
	ErrInvalidFrequency = errors.New("inspection frequency must not be negative")
	ErrDuplicateRef     = errors.New("asset reference already exists")
)
