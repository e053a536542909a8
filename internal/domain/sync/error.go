package sync

import (
	"errors"
)

var (
	ErrNotAuthenticated = errors.New("user not authenticated")
	ErrMissingClientID  = errors.New("client id is required for create operations")
	ErrMissingID        = errors.New("record id is required for update and delete operations")
	ErrMissingVersion   = errors.New("sync version is required for update and delete operations")
	ErrUnsupportedOp    = errors.New("unsupported operation for entity")
	ErrNoEntities       = errors.New("at least one entity kind is required")
)
