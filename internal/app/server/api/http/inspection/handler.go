package inspection

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"fieldsync/internal/app/server/api/http/middleware/auth"
	"fieldsync/internal/domain/inspection"
)

type Handler struct {
	service    inspection.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service inspection.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
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
	huma.Register(api, h.deleteOp(), h.delete)
}

func (h *Handler) list(ctx context.Context, _ *struct{}) (*listOutput, error) {
	engineerID, ok := auth.GetEngineerID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	records, err := h.service.List(ctx, engineerID)
	if err != nil {
		h.log.Error("failed to list inspections", "engineer_id", engineerID, "error", err)
		return nil, huma.Error500InternalServerError("Internal error")
	}

	return &listOutput{Body: records}, nil
}

func (h *Handler) find(ctx context.Context, input *findInput) (*findOutput, error) {
	engineerID, ok := auth.GetEngineerID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	rec, err := h.service.Find(ctx, engineerID, input.ID)
	if err != nil {
		if errors.Is(err, inspection.ErrNotFound) {
			return nil, huma.Error404NotFound("Inspection not found")
		}
		h.log.Error("failed to find inspection", "inspection_id", input.ID, "error", err)
		return nil, huma.Error500InternalServerError("Internal error")
	}

	return &findOutput{Body: *rec}, nil
}

func (h *Handler) create(ctx context.Context, input *createInput) (*mutateOutput, error) {
	engineerID, ok := auth.GetEngineerID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	rec := &inspection.Record{
		ClientID:         input.Body.ClientID,
		AssetID:          input.Body.AssetID,
		EngineerID:       engineerID,
		DateOfInspection: input.Body.DateOfInspection,
		ConditionGrade:   input.Body.ConditionGrade,
		DefectSeverity:   input.Body.DefectSeverity,
		Notes:            input.Body.Notes,
		Status:           inspection.Status(input.Body.Status),
	}

	id, err := h.service.Create(ctx, rec)
	if err != nil {
		return nil, h.mapError(err, "create inspection")
	}

	return &mutateOutput{
		Body: MutateResponse{ID: id, Status: "Ok"},
	}, nil
}

func (h *Handler) update(ctx context.Context, input *updateInput) (*mutateOutput, error) {
	engineerID, ok := auth.GetEngineerID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	rec := &inspection.Record{
		ID:               input.ID,
		DateOfInspection: input.Body.DateOfInspection,
		ConditionGrade:   input.Body.ConditionGrade,
		DefectSeverity:   input.Body.DefectSeverity,
		Notes:            input.Body.Notes,
		Status:           inspection.Status(input.Body.Status),
	}

	if err := h.service.Update(ctx, engineerID, rec); err != nil {
		return nil, h.mapError(err, "update inspection")
	}

	return &mutateOutput{
		Body: MutateResponse{ID: input.ID, Status: "Ok"},
	}, nil
}

func (h *Handler) delete(ctx context.Context, input *deleteInput) (*mutateOutput, error) {
	engineerID, ok := auth.GetEngineerID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	if err := h.service.Delete(ctx, engineerID, input.ID); err != nil {
		return nil, h.mapError(err, "delete inspection")
	}

	return &mutateOutput{
		Body: MutateResponse{Status: "Ok"},
	}, nil
}

func (h *Handler) mapError(err error, op string) error {
	switch {
	case errors.Is(err, inspection.ErrNotFound):
		return huma.Error404NotFound("Inspection not found")
	case errors.Is(err, inspection.ErrAssetNotFound):
		return huma.Error404NotFound("Referenced asset not found")
	case errors.Is(err, inspection.ErrDuplicateClient):
		return huma.Error409Conflict("Client id already synced")
	case errors.Is(err, inspection.ErrStatusLocked):
		return huma.Error409Conflict(err.Error())
	case errors.Is(err, inspection.ErrMissingAsset),
		errors.Is(err, inspection.ErrMissingEngineer),
		errors.Is(err, inspection.ErrMissingDate),
		errors.Is(err, inspection.ErrInvalidGrade),
		errors.Is(err, inspection.ErrInvalidSeverity),
		errors.Is(err, inspection.ErrInvalidStatus):
		return huma.Error422UnprocessableEntity(err.Error())
	}
	h.log.Error("inspection request failed", "op", op, "error", err)
	return huma.Error500InternalServerError("Internal error")
}
