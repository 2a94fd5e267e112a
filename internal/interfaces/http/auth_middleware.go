package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/qaydhub/qayd-api/internal/application/dto"
	"github.com/qaydhub/qayd-api/internal/domain/entity"
	"github.com/qaydhub/qayd-api/pkg/jwt"
)

// Locals keys set by the auth middleware.
const (
	LocalUserID = "user_id"
	LocalPlan   = "plan"
)

// AuthMiddleware validates the Bearer token and stores UserID and Plan in
// c.Locals for the handlers.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header required"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "expected format: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "empty token"})
		}
		userID, plan, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "invalid or expired token"})
		}
		c.Locals(LocalUserID, userID)
		c.Locals(LocalPlan, plan)
		return c.Next()
	}
}

// RequirePremium gates an endpoint to paid plans. Must run after
// AuthMiddleware.
func RequirePremium() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetUserID(c) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "user_id missing from token"})
		}
		if GetPlan(c) != entity.PlanPremium {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "PREMIUM_REQUIRED", Message: "this feature requires a premium plan"})
		}
		return c.Next()
	}
}

// GetUserID returns the UserID from the request context (after auth).
func GetUserID(c *fiber.Ctx) string {
	v := c.Locals(LocalUserID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetPlan returns the plan from the request context (after auth).
func GetPlan(c *fiber.Ctx) string {
	v := c.Locals(LocalPlan)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
