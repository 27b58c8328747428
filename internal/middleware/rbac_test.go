package middleware_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/openacad/acadledger-api/internal/ledger"
	"github.com/openacad/acadledger-api/internal/middleware"
	"github.com/openacad/acadledger-api/internal/models"
)

func setupStore(t *testing.T) *ledger.Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	store := ledger.NewStore(db, zerolog.New(io.Discard))
	require.NoError(t, store.Migrate())

	return store
}

func rbacApp(t *testing.T, store *ledger.Store, roles ...models.Role) *fiber.App {
	t.Helper()

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if principal := c.Get("X-Principal"); principal != "" {
			c.Locals("principal", principal)
		}
		return c.Next()
	})
	app.Get("/guarded", middleware.RequireRole(store, roles...), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	return app
}

func TestRequireRoleAllowsLedgerRole(t *testing.T) {
	store := setupStore(t)
	require.NoError(t, store.RecordRole(context.Background(), "0xprof", models.RoleProfessor))

	app := rbacApp(t, store, models.RoleProfessor, models.RoleAdmin)

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("X-Principal", "0xprof")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRoleRejectsMissingPrincipal(t *testing.T) {
	app := rbacApp(t, setupStore(t), models.RoleAdmin)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/guarded", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRoleRejectsWrongRole(t *testing.T) {
	store := setupStore(t)
	require.NoError(t, store.RecordRole(context.Background(), "0xalice", models.RoleStudent))

	app := rbacApp(t, store, models.RoleAdmin)

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("X-Principal", "0xalice")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRequireRoleRejectsUnregisteredPrincipal(t *testing.T) {
	app := rbacApp(t, setupStore(t), models.RoleStudent)

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("X-Principal", "0xnobody")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}
