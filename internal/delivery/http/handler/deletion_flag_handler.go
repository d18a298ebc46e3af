package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/location-microservice/internal/pkg/errors"
	"github.com/location-microservice/internal/pkg/validator"
	"github.com/location-microservice/internal/usecase"
	"github.com/location-microservice/internal/usecase/dto"
)

// DeletionFlagHandler serves the public flag-submission endpoint and the
// admin review workflow.
type DeletionFlagHandler struct {
	flags *usecase.DeletionFlagUseCase
}

func NewDeletionFlagHandler(flags *usecase.DeletionFlagUseCase) *DeletionFlagHandler {
	return &DeletionFlagHandler{flags: flags}
}

// Submit handles POST /api/offices/flag-deletion.
func (h *DeletionFlagHandler) Submit(c *fiber.Ctx) error {
	var req dto.FlagSubmissionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.ErrBadRequest.WithMessage("malformed request body")
	}
	if err := validator.Validate(req); err != nil {
		return apperrors.ErrBadRequest.WithMessage(err.Error())
	}

	resp, err := h.flags.Submit(c.Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// List handles GET /api/admin/offices/deletion-flags.
func (h *DeletionFlagHandler) List(c *fiber.Ctx) error {
	req := dto.DeletionFlagListRequest{Status: c.Query("status")}
	if raw := c.Query("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			req.Limit = limit
		}
	}

	flags, err := h.flags.List(c.Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(flags)
}

// Decide handles POST /api/admin/offices/deletion-flags/{flagId}/decision.
func (h *DeletionFlagHandler) Decide(c *fiber.Ctx) error {
	flagID, err := strconv.ParseInt(c.Params("flagId"), 10, 64)
	if err != nil || flagID <= 0 {
		return apperrors.ErrBadRequest.WithMessage("flagId must be a positive integer")
	}

	var req dto.FlagDecisionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.ErrBadRequest.WithMessage("malformed request body")
	}
	if err := validator.Validate(req); err != nil {
		return apperrors.ErrBadRequest.WithMessage(err.Error())
	}

	resp, err := h.flags.Decide(c.Context(), flagID, req.Decision)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
