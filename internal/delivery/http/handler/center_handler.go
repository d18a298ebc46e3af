package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/location-microservice/internal/pkg/errors"
	"github.com/location-microservice/internal/usecase"
	"github.com/location-microservice/internal/usecase/dto"
)

// CenterHandler serves the public center listing and per-center office
// listing.
type CenterHandler struct {
	centers *usecase.CenterUseCase
	offices *usecase.OfficeUseCase
}

func NewCenterHandler(centers *usecase.CenterUseCase, offices *usecase.OfficeUseCase) *CenterHandler {
	return &CenterHandler{centers: centers, offices: offices}
}

// List handles GET /api/centers.
func (h *CenterHandler) List(c *fiber.Ctx) error {
	req := dto.CenterListRequest{
		Tier:       c.Query("tier"),
		ActiveOnly: c.Query("activeOnly", "true") != "false",
	}

	centers, err := h.centers.List(c.Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(centers)
}

// ListOffices handles GET /api/centers/{id}/offices.
func (h *CenterHandler) ListOffices(c *fiber.Ctx) error {
	centerID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || centerID <= 0 {
		return apperrors.ErrBadRequest.WithMessage("centerId must be a positive integer")
	}

	req := dto.OfficeListRequest{
		CenterID:           centerID,
		HighConfidenceOnly: c.Query("highConfidenceOnly") == "true",
		Search:             c.Query("search"),
	}

	if raw := c.Query("radiusKm"); raw != "" {
		radiusKm, err := strconv.ParseFloat(raw, 64)
		if err != nil || radiusKm <= 0 {
			return apperrors.ErrBadRequest.WithMessage("radiusKm must be a positive number")
		}
		req.RadiusKm = radiusKm
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return apperrors.ErrBadRequest.WithMessage("limit must be a positive integer")
		}
		if limit > 5000 {
			limit = 5000
		}
		req.Limit = limit
	}

	resp, err := h.offices.List(c.Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
