package sync

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"fieldsync/internal/domain/inspection"
	"fieldsync/internal/domain/sync"
)

// Handler is the sync gateway: it marshals push/pull requests into domain
// operations and results back. Per-item failures live inside the response
// body; only authentication and malformed requests fail at the HTTP level.
type Handler struct {
	service    sync.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service sync.Servicer, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.pushOp(), h.push)
	huma.Register(api, h.pullOp(), h.pull)
	huma.Register(api, h.createInspectionOp(), h.createInspection)
	huma.Register(api, h.batchCreateOp(), h.batchCreate)
	huma.Register(api, h.statusOp(), h.status)
}

func (h *Handler) push(ctx context.Context, input *pushInput) (*pushOutput, error) {
	response, err := h.service.PushBatch(ctx, input.Body)
	if err != nil {
		return nil, h.mapError(err)
	}
	return &pushOutput{Body: *response}, nil
}

func (h *Handler) pull(ctx context.Context, input *pullInput) (*pullOutput, error) {
	response, err := h.service.PullChanges(ctx, input.Body)
	if err != nil {
		return nil, h.mapError(err)
	}
	return &pullOutput{Body: *response}, nil
}

func (h *Handler) createInspection(ctx context.Context, input *createInspectionInput) (*createInspectionOutput, error) {
	result, err := h.service.CreateInspection(ctx, input.Body)
	if err != nil {
		return nil, h.mapError(err)
	}
	return &createInspectionOutput{Body: *result}, nil
}

func (h *Handler) batchCreate(ctx context.Context, input *batchCreateInput) (*batchCreateOutput, error) {
	response, err := h.service.CreateInspectionsBatch(ctx, input.Body)
	if err != nil {
		return nil, h.mapError(err)
	}
	return &batchCreateOutput{Body: *response}, nil
}

func (h *Handler) status(ctx context.Context, _ *statusInput) (*statusOutput, error) {
	response, err := h.service.Status(ctx)
	if err != nil {
		return nil, h.mapError(err)
	}
	return &statusOutput{Body: *response}, nil
}

func (h *Handler) mapError(err error) error {
	switch {
	case errors.Is(err, sync.ErrNotAuthenticated):
		return huma.Error401Unauthorized("authentication required")
	case errors.Is(err, sync.ErrMissingClientID),
		errors.Is(err, sync.ErrUnsupportedOp),
		errors.Is(err, inspection.ErrInvalidGrade),
		errors.Is(err, inspection.ErrInvalidSeverity),
		errors.Is(err, inspection.ErrInvalidStatus),
		errors.Is(err, inspection.ErrMissingAsset),
		errors.Is(err, inspection.ErrMissingDate):
		return huma.Error422UnprocessableEntity(err.Error())
	case errors.Is(err, inspection.ErrAssetNotFound),
		errors.Is(err, inspection.ErrNotFound):
		return huma.Error404NotFound(err.Error())
	default:
		h.log.Error("sync request failed", "error", err)
		return huma.Error500InternalServerError("internal error")
	}
}
