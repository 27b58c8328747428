package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/openacad/acadledger-api/internal/ledger"
	"github.com/openacad/acadledger-api/internal/models"
	"github.com/openacad/acadledger-api/internal/utils"
)

// RequireRole guards a route group behind the ledger's role registry. The
// role claim in the token is a hint only; the ledger record is what decides,
// so a revoked principal loses access on the next request.
func RequireRole(ldg ledger.Ledger, roles ...models.Role) fiber.Handler {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal := principalValue(c.Locals("principal"))
		if principal == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		}

		role, err := ldg.QueryRole(c.Context(), principal)
		if err != nil {
			return utils.SendError(c, fiber.StatusBadGateway, "role lookup failed")
		}

		if _, ok := allowed[role]; !ok {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}

		return c.Next()
	}
}

func principalValue(value interface{}) string {
	if principal, ok := value.(string); ok {
		return strings.TrimSpace(principal)
	}
	return ""
}
