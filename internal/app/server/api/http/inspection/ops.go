package inspection

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "inspections-list",
		Method:      http.MethodGet,
		Path:        "/api/inspections",
		Summary:     "List the authenticated engineer's inspections",
		Tags:        []string{"inspections"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) createOp() huma.Operation {
	return huma.Operation{
		OperationID: "inspections-create",
		Method:      http.MethodPost,
		Path:        "/api/inspections",
		Summary:     "Create an inspection record",
		Description: "Direct server-side create. Offline devices should use the sync endpoints instead so creates stay idempotent.",
		Tags:        []string{"inspections"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) findOp() huma.Operation {
	return huma.Operation{
		OperationID: "inspections-find",
		Method:      http.MethodGet,
		Path:        "/api/inspections/{id}",
		Summary:     "Get a single inspection",
		Tags:        []string{"inspections"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) updateOp() huma.Operation {
	return huma.Operation{
		OperationID: "inspections-update",
		Method:      http.MethodPut,
		Path:        "/api/inspections/{id}",
		Summary:     "Update an inspection",
		Tags:        []string{"inspections"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) deleteOp() huma.Operation {
	return huma.Operation{
		OperationID: "inspections-delete",
		Method:      http.MethodDelete,
		Path:        "/api/inspections/{id}",
		Summary:     "Delete an inspection",
		Tags:        []string{"inspections"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}
