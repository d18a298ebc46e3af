package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	apperrors "github.com/location-microservice/internal/pkg/errors"
	"github.com/location-microservice/internal/pkg/validator"
	"github.com/location-microservice/internal/usecase"
	"github.com/location-microservice/internal/usecase/dto"
)

// maxCSVUploadBytes bounds a single multipart CSV upload.
const maxCSVUploadBytes = 5 * 1024 * 1024

// AdminHandler serves the bearer-token-gated CSV upload, refresh trigger,
// and status endpoints.
type AdminHandler struct {
	centers   *usecase.CenterUseCase
	companies *usecase.CompanyUseCase
	refresh   *usecase.RefreshUseCase
	status    *usecase.StatusUseCase
}

func NewAdminHandler(
	centers *usecase.CenterUseCase,
	companies *usecase.CompanyUseCase,
	refresh *usecase.RefreshUseCase,
	status *usecase.StatusUseCase,
) *AdminHandler {
	return &AdminHandler{centers: centers, companies: companies, refresh: refresh, status: status}
}

// UploadCentersCSV handles POST /api/admin/centers/upload-csv.
func (h *AdminHandler) UploadCentersCSV(c *fiber.Ctx) error {
	file, err := openCSVUpload(c)
	if err != nil {
		return err
	}
	defer file.Close()

	syncToken := uuid.NewString()
	resp, err := h.centers.UploadCSV(c.Context(), file, syncToken)
	if err != nil {
		if len(resp.Issues) > 0 {
			return c.Status(fiber.StatusBadRequest).JSON(resp)
		}
		return err
	}
	return c.JSON(resp)
}

// UploadCompaniesCSV handles POST /api/admin/companies/upload-csv.
func (h *AdminHandler) UploadCompaniesCSV(c *fiber.Ctx) error {
	file, err := openCSVUpload(c)
	if err != nil {
		return err
	}
	defer file.Close()

	resp, err := h.companies.UploadCSV(c.Context(), file)
	if err != nil {
		if len(resp.Issues) > 0 {
			return c.Status(fiber.StatusBadRequest).JSON(resp)
		}
		return err
	}
	return c.JSON(resp)
}

func openCSVUpload(c *fiber.Ctx) (interface {
	Read(p []byte) (n int, err error)
	Close() error
}, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, apperrors.ErrBadRequest.WithMessage("multipart field \"file\" is required")
	}
	if fh.Size > maxCSVUploadBytes {
		return nil, apperrors.ErrPayloadTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return nil, apperrors.ErrBadRequest.WithMessage("could not read uploaded file")
	}
	return f, nil
}

// RefreshCenter handles POST /api/admin/refresh-center/{id}.
func (h *AdminHandler) RefreshCenter(c *fiber.Ctx) error {
	centerID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || centerID <= 0 {
		return apperrors.ErrBadRequest.WithMessage("id must be a positive integer")
	}

	var req dto.RefreshCenterRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.ErrBadRequest.WithMessage("malformed request body")
		}
		if err := validator.Validate(req); err != nil {
			return apperrors.ErrBadRequest.WithMessage(err.Error())
		}
	}

	resp, err := h.refresh.RefreshCenter(c.Context(), centerID, req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// RefreshBatch handles POST /api/admin/refresh-batch.
func (h *AdminHandler) RefreshBatch(c *fiber.Ctx) error {
	resp, err := h.refresh.RunBatch(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// RefreshAll handles POST /api/admin/refresh-all.
func (h *AdminHandler) RefreshAll(c *fiber.Ctx) error {
	var req dto.RefreshAllRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.ErrBadRequest.WithMessage("malformed request body")
		}
		if err := validator.Validate(req); err != nil {
			return apperrors.ErrBadRequest.WithMessage(err.Error())
		}
	}

	resp, err := h.refresh.RunAll(c.Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Status handles GET /api/admin/status.
func (h *AdminHandler) Status(c *fiber.Ctx) error {
	req := dto.StatusRequest{IncludeCounts: c.Query("includeCounts") == "true"}
	resp, err := h.status.Get(c.Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
