package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/qaydhub/qayd-api/internal/application/dto"
	"github.com/qaydhub/qayd-api/internal/application/report"
	"github.com/qaydhub/qayd-api/internal/domain"
)

// SnapshotsHandler serves weekly snapshot creation and history (premium).
type SnapshotsHandler struct {
	weekly  *report.WeeklyService
	queries *report.SnapshotQueries
}

// NewSnapshotsHandler builds the handler.
func NewSnapshotsHandler(weekly *report.WeeklyService, queries *report.SnapshotQueries) *SnapshotsHandler {
	return &SnapshotsHandler{weekly: weekly, queries: queries}
}

// GenerateWeekly godoc
// @Summary      Create or return the current week's snapshot
// @Tags         snapshots
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SnapshotDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/snapshots/weekly [post]
func (h *SnapshotsHandler) GenerateWeekly(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "user_id required"})
	}
	out, err := h.weekly.Generate(c.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrNoReportContext) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "NO_REPORT_CONTEXT", Message: "No report context. Data files missing."})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"snapshot": out})
}

// List godoc
// @Summary      List weekly snapshots, newest first
// @Tags         snapshots
// @Security     Bearer
// @Produce      json
// @Param        range  query  string  false  "Only 'weekly' is supported"  default(weekly)
// @Param        limit  query  int     false  "Max rows"  default(12)
// @Success      200  {array}  dto.SnapshotDTO
// @Router       /api/snapshots [get]
func (h *SnapshotsHandler) List(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "user_id required"})
	}
	if r := c.Query("range", "weekly"); r != "weekly" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "UNSUPPORTED_RANGE", Message: "unsupported range"})
	}
	out, err := h.queries.List(c.Context(), userID, c.QueryInt("limit", 12))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"snapshots": out})
}

// GetByID godoc
// @Summary      Get one snapshot
// @Tags         snapshots
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Snapshot ID"
// @Success      200  {object}  dto.SnapshotDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/snapshots/{id} [get]
func (h *SnapshotsHandler) GetByID(c *fiber.Ctx) error {
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
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "snapshot not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"snapshot": out})
}
