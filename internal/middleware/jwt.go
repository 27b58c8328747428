package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/openacad/acadledger-api/internal/utils"
)

// JWTProtected validates bearer tokens and binds the caller's ledger
// principal and role claim into Locals. The principal is the address every
// ledger write is attributed to; downstream handlers never read it from the
// request body.
func JWTProtected(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authorization := c.Get("Authorization")
		if authorization == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "authorization header missing")
		}

		const bearer = "Bearer "
		if !strings.HasPrefix(strings.ToLower(authorization), strings.ToLower(bearer)) {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid authorization header")
		}

		tokenString := strings.TrimSpace(authorization[len(bearer):])
		if tokenString == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token claims")
		}

		principal := extractPrincipalFromClaims(claims)
		if principal == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "token carries no principal")
		}
		c.Locals("principal", principal)

		if role := extractRoleFromClaims(claims); role != "" {
			c.Locals("role", role)
		}

		return c.Next()
	}
}

func extractPrincipalFromClaims(claims jwt.MapClaims) string {
	keys := []string{"sub", "principal", "address"}
	for _, key := range keys {
		if value, ok := claims[key]; ok {
			if principal, ok := value.(string); ok {
				if trimmed := strings.TrimSpace(principal); trimmed != "" {
					return trimmed
				}
			}
		}
	}

	return ""
}

func extractRoleFromClaims(claims jwt.MapClaims) string {
	candidates := []string{"role", "roles"}
	for _, key := range candidates {
		if value, ok := claims[key]; ok {
			if role := normalizeRole(value); role != "" {
				return role
			}
		}
	}
	return ""
}

func normalizeRole(value interface{}) string {
	switch v := value.(type) {
	case string:
		return strings.ToLower(strings.TrimSpace(v))
	case []interface{}:
		for _, item := range v {
			if str, ok := item.(string); ok {
				role := strings.ToLower(strings.TrimSpace(str))
				if role != "" {
					return role
				}
			}
		}
	default:
		return ""
	}
	return ""
}
