package sync

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) pushOp() huma.Operation {
	return huma.Operation{
		OperationID: "sync-push",
		Method:      http.MethodPost,
		Path:        "/api/sync/push",
		Summary:     "Push device changes",
		Description: "Applies an ordered batch of device mutations and returns one result per operation, in input order.",
		Tags:        []string{"sync"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) pullOp() huma.Operation {
	return huma.Operation{
		OperationID: "sync-pull",
		Method:      http.MethodPost,
		Path:        "/api/sync/pull",
		Summary:     "Pull changes since cursor",
		Description: "Returns everything changed since the device's last sync cursor, or the full visible set on first sync.",
		Tags:        []string{"sync"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) createInspectionOp() huma.Operation {
	return huma.Operation{
		OperationID: "sync-create-inspection",
		Method:      http.MethodPost,
		Path:        "/api/sync/inspection",
		Summary:     "Idempotent inspection create",
		Description: "Creates at most one inspection per client id; retries return the existing record.",
		Tags:        []string{"sync"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) batchCreateOp() huma.Operation {
	return huma.Operation{
		OperationID: "sync-create-inspections-batch",
		Method:      http.MethodPost,
		Path:        "/api/sync/inspections/batch",
		Summary:     "Batch idempotent inspection create",
		Description: "Applies the idempotent create per element with per-item failure isolation and summary counts.",
		Tags:        []string{"sync"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) statusOp() huma.Operation {
	return huma.Operation{
		OperationID: "sync-status",
		Method:      http.MethodGet,
		Path:        "/api/sync/status",
		Summary:     "Sync status",
		Description: "Reports the engineer's last recorded pull cursor.",
		Tags:        []string{"sync"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}
