package engineer

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) registerOp() huma.Operation {
	return huma.Operation{
		OperationID: "engineer-register",
		Method:      http.MethodPost,
		Path:        "/api/engineer/register",
		Summary:     "Register a new engineer account",
		Tags:        []string{"engineers"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) loginOp() huma.Operation {
	return huma.Operation{
		OperationID: "engineer-login",
		Method:      http.MethodPost,
		Path:        "/api/engineer/login",
		Summary:     "Authenticate an engineer and issue a session token",
		Tags:        []string{"engineers"},
		Middlewares: h.middleware,
	}
}
