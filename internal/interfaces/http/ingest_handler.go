package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/qaydhub/qayd-api/internal/application/dto"
	"github.com/qaydhub/qayd-api/internal/application/ingest"
)

// IngestHandler accepts parsed product and order batches (protected).
type IngestHandler struct {
	uc *ingest.UseCase
}

// NewIngestHandler builds the handler.
func NewIngestHandler(uc *ingest.UseCase) *IngestHandler {
	return &IngestHandler{uc: uc}
}

// Ingest godoc
// @Summary      Ingest a batch of parsed products and orders
// @Tags         ingest
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.IngestRequest  true  "Parsed rows"
// @Success      201   {object}  dto.IngestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/ingest/orders [post]
func (h *IngestHandler) Ingest(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "user_id required"})
	}
	var in dto.IngestRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	if len(in.Products) == 0 && len(in.Orders) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "EMPTY_BATCH", Message: "no rows to ingest"})
	}

	out, err := h.uc.Ingest(c.Context(), userID, in)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
