package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/openacad/acadledger-api/internal/middleware"
)

const testSecret = "test-secret"

func jwtApp() *fiber.App {
	app := fiber.New()
	app.Get("/me", middleware.JWTProtected(testSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"principal": c.Locals("principal"),
			"role":      c.Locals("role"),
		})
	})

	return app
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)

	return signed
}

func TestJWTProtectedBindsPrincipal(t *testing.T) {
	app := jwtApp()

	token := signToken(t, jwt.MapClaims{
		"sub":  "0xalice",
		"role": "Student",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestJWTProtectedRejectsMissingHeader(t *testing.T) {
	app := jwtApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/me", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestJWTProtectedRejectsBadSignature(t *testing.T) {
	app := jwtApp()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "0xalice"})
	signed, err := token.SignedString([]byte("other-secret"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestJWTProtectedRejectsTokenWithoutPrincipal(t *testing.T) {
	app := jwtApp()

	token := signToken(t, jwt.MapClaims{"role": "student"})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
