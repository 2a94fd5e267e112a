package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/qaydhub/qayd-api/internal/application/dto"
	"github.com/qaydhub/qayd-api/internal/application/report"
	"github.com/qaydhub/qayd-api/internal/domain"
)

// ReportsHandler serves report generation and retrieval (protected).
type ReportsHandler struct {
	generator *report.Generator
	queries   *report.Queries
}

// NewReportsHandler builds the handler.
func NewReportsHandler(generator *report.Generator, queries *report.Queries) *ReportsHandler {
	return &ReportsHandler{generator: generator, queries: queries}
}

type generateRequest struct {
	ReportID string `json:"reportId"`
}

// Generate godoc
// @Summary      Run the analysis pipeline for a report
// @Tags         reports
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Success      200  {object}  dto.ReportDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/reports/generate [post]
func (h *ReportsHandler) Generate(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "user_id required"})
	}
	var in generateRequest
	// Empty body means "latest report"; only a malformed body is rejected.
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
		}
	}

	out, err := h.generator.Generate(c.Context(), userID, in.ReportID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoReportContext):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "NO_REPORT_CONTEXT", Message: "No report context. Data files missing."})
		case errors.Is(err, domain.ErrQuotaExceeded):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FREE_LIMIT_REACHED", Message: "Free limit reached. Upgrade to continue."})
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "report not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// List godoc
// @Summary      List the user's reports
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ReportDTO
// @Router       /api/reports [get]
func (h *ReportsHandler) List(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "user_id required"})
	}
	out, err := h.queries.List(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"reports": out})
}

// GetByID godoc
// @Summary      Get one report
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Report ID"
// @Success      200  {object}  dto.ReportDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reports/{id} [get]
func (h *ReportsHandler) GetByID(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "user_id required"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id required"})
	}
	out, err := h.queries.Get(c.Context(), userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "report not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
