package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/qaydhub/qayd-api/internal/application/dto"
	"github.com/qaydhub/qayd-api/internal/application/report"
	"github.com/qaydhub/qayd-api/internal/domain"
)

// CompareHandler serves week-over-week comparison and insights (premium).
type CompareHandler struct {
	comparator *report.Comparator
	insights   *report.InsightService
}

// NewCompareHandler builds the handler.
func NewCompareHandler(comparator *report.Comparator, insights *report.InsightService) *CompareHandler {
	return &CompareHandler{comparator: comparator, insights: insights}
}

// Compare godoc
// @Summary      Compare a snapshot with a previous one
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        current   query  string  true   "Current snapshot ID"
// @Param        previous  query  string  false  "Previous snapshot ID or 'auto'"  default(auto)
// @Success      200  {object}  dto.CompareResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reports/compare [get]
func (h *CompareHandler) Compare(c *fiber.Ctx) error {
	userID, currentID, previousRef, ok := comparisonParams(c)
	if !ok {
		return nil
	}
	out, err := h.comparator.Compare(c.Context(), userID, currentID, previousRef)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "snapshot not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Insights godoc
// @Summary      Rule-based weekly insights
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        current   query  string  true   "Current snapshot ID"
// @Param        previous  query  string  false  "Previous snapshot ID or 'auto'"  default(auto)
// @Success      200  {object}  dto.InsightsResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reports/insights [get]
func (h *CompareHandler) Insights(c *fiber.Ctx) error {
	userID, currentID, previousRef, ok := comparisonParams(c)
	if !ok {
		return nil
	}
	out, err := h.insights.Insights(c.Context(), userID, currentID, previousRef)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "snapshot not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// comparisonParams validates the shared query contract of the comparison
// endpoints. When ok is false the error response has already been written.
func comparisonParams(c *fiber.Ctx) (userID, currentID, previousRef string, ok bool) {
	userID = GetUserID(c)
	if userID == "" {
		_ = c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "user_id required"})
		return "", "", "", false
	}
	currentID = c.Query("current")
	if currentID == "" {
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_CURRENT", Message: "current is required"})
		return "", "", "", false
	}
	previousRef = c.Query("previous", report.PreviousAuto)
	return userID, currentID, previousRef, true
}
