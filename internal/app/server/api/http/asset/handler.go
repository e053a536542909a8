package asset

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"fieldsync/internal/app/server/api/http/middleware/auth"
	"fieldsync/internal/domain/asset"
)

type Handler struct {
	service    asset.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service asset.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.listOp(), h.list)
	huma.Register(api, h.createOp(), h.create)
	huma.Register(api, h.findOp(), h.find)
	huma.Register(api, h.updateOp(), h.update)
}

func (h *Handler) list(ctx context.Context, _ *struct{}) (*listOutput, error) {
	if _, ok := auth.GetEngineerID(ctx); !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	assets, err := h.service.List(ctx)
	if err != nil {
		h.log.Error("failed to list assets", "error", err)
		return nil, huma.Error500InternalServerError("Internal error")
	}

	return &listOutput{Body: assets}, nil
}

func (h *Handler) find(ctx context.Context, input *findInput) (*findOutput, error) {
	if _, ok := auth.GetEngineerID(ctx); !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	a, err := h.service.Find(ctx, input.ID)
	if err != nil {
		if errors.Is(err, asset.ErrNotFound) {
			return nil, huma.Error404NotFound("Asset not found")
		}
		h.log.Error("failed to find asset", "asset_id", input.ID, "error", err)
		return nil, huma.Error500InternalServerError("Internal error")
	}

	return &findOutput{Body: *a}, nil
}

func (h *Handler) create(ctx context.Context, input *createInput) (*mutateOutput, error) {
	if _, ok := auth.GetEngineerID(ctx); !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	a := &asset.Asset{
		Reference:                 input.Body.Reference,
		Name:                      input.Body.Name,
		AssetType:                 input.Body.AssetType,
		Location:                  input.Body.Location,
		InspectionFrequencyMonths: input.Body.InspectionFrequencyMonths,
	}

	id, err := h.service.Create(ctx, a)
	if err != nil {
		switch {
		case errors.Is(err, asset.ErrDuplicateRef):
			return nil, huma.Error409Conflict("Asset reference already exists")
		case errors.Is(err, asset.ErrMissingReference),
			errors.Is(err, asset.ErrMissingName),
			errors.Is(err, asset.ErrInvalidFrequency):
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}
		h.log.Error("failed to create asset", "reference", input.Body.Reference, "error", err)
		return nil, huma.Error500InternalServerError("Internal error")
	}

	return &mutateOutput{
		Body: MutateResponse{ID: id, Status: "Ok"},
	}, nil
}

func (h *Handler) update(ctx context.Context, input *updateInput) (*mutateOutput, error) {
	if _, ok := auth.GetEngineerID(ctx); !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	a := &asset.Asset{
		ID:                        input.ID,
		Name:                      input.Body.Name,
		AssetType:                 input.Body.AssetType,
		Location:                  input.Body.Location,
		InspectionFrequencyMonths: input.Body.InspectionFrequencyMonths,
	}

	if err := h.service.Update(ctx, a); err != nil {
		switch {
		case errors.Is(err, asset.ErrNotFound):
			return nil, huma.Error404NotFound("Asset not found")
		case errors.Is(err, asset.ErrMissingName),
			errors.Is(err, asset.ErrInvalidFrequency):
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}
		h.log.Error("failed to update asset", "asset_id", input.ID, "error", err)
		return nil, huma.Error500InternalServerError("Internal error")
	}

	return &mutateOutput{
		Body: MutateResponse{ID: input.ID, Status: "Ok"},
	}, nil
}
