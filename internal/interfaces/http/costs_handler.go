package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/qaydhub/qayd-api/internal/application/costs"
	"github.com/qaydhub/qayd-api/internal/application/dto"
	"github.com/qaydhub/qayd-api/internal/domain"
)

// CostsHandler serves the cost ledger endpoints (protected).
type CostsHandler struct {
	uc *costs.UseCase
}

// NewCostsHandler builds the handler.
func NewCostsHandler(uc *costs.UseCase) *CostsHandler {
	return &CostsHandler{uc: uc}
}

// List godoc
// @Summary      Costs page: product identities with costs and computed figures
// @Tags         costs
// @Security     Bearer
// @Produce      json
// @Param        q  query  string  false  "Filter by SKU or name substring"
// @Success      200  {object}  dto.CostListResponse
// @Router       /api/costs [get]
func (h *CostsHandler) List(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "user_id required"})
	}
	out, err := h.uc.List(c.Context(), userID, c.Query("q"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Upsert godoc
// @Summary      Store costs for a product identity
// @Tags         costs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpsertCostsRequest  true  "Identity key and cost components"
// @Success      200   {object}  dto.UpsertCostsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/costs/upsert [post]
func (h *CostsHandler) Upsert(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "user_id required"})
	}
	var in dto.UpsertCostsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	out, err := h.uc.UpsertByIdentity(c.Context(), userID, in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "identityKey is required"})
		case errors.Is(err, domain.ErrIdentityNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "IDENTITY_NOT_FOUND", Message: "no product matches this identity"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
