package asset

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "assets-list",
		Method:      http.MethodGet,
		Path:        "/api/assets",
		Summary:     "List all assets with their last-inspection summaries",
		Tags:        []string{"assets"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) createOp() huma.Operation {
	return huma.Operation{
		OperationID: "assets-create",
		Method:      http.MethodPost,
		Path:        "/api/assets",
		Summary:     "Register a new asset",
		Tags:        []string{"assets"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) findOp() huma.Operation {
	return huma.Operation{
		OperationID: "assets-find",
		Method:      http.MethodGet,
		Path:        "/api/assets/{id}",
		Summary:     "Get a single asset",
		Tags:        []string{"assets"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) updateOp() huma.Operation {
	return huma.Operation{
		OperationID: "assets-update",
		Method:      http.MethodPut,
		Path:        "/api/assets/{id}",
		Summary:     "Update asset details",
		Description: "Changing the inspection frequency recomputes the asset's next due date.",
		Tags:        []string{"assets"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}
