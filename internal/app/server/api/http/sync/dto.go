package sync

import (
	"fieldsync/internal/domain/sync"
)

// Request/response wrappers for the push endpoint.
type pushInput struct {
	Body sync.PushRequest
}

type pushOutput struct {
	Body sync.PushResponse
}

// Request/response wrappers for the pull endpoint.
type pullInput struct {
	Body sync.PullRequest
}

type pullOutput struct {
	Body sync.PullResponse
}

// Request/response wrappers for the idempotent create shortcut.
type createInspectionInput struct {
	Body sync.CreateInspectionRequest
}

type createInspectionOutput struct {
	Body sync.CreateResult
}

// Request/response wrappers for the batch create shortcut.
type batchCreateInput struct {
	Body []sync.CreateInspectionRequest
}

type batchCreateOutput struct {
	Body sync.BatchCreateResponse
}

// Request/response wrappers for the status endpoint.
type statusInput struct{}

type statusOutput struct {
	Body sync.StatusResponse
}
