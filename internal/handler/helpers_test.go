package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/openacad/acadledger-api/internal/events"
	"github.com/openacad/acadledger-api/internal/handler"
	"github.com/openacad/acadledger-api/internal/ledger"
	"github.com/openacad/acadledger-api/internal/metadata"
	"github.com/openacad/acadledger-api/internal/service"
	"github.com/openacad/acadledger-api/pkg/cas"
)

// httpTester is the part of *fiber.App the tests drive requests through.
type httpTester interface {
	Test(req *http.Request, msTimeout ...int) (*http.Response, error)
}

// fakeArtifactStore computes the artifact's real CID locally instead of
// calling a pinning service.
type fakeArtifactStore struct{}

func (fakeArtifactStore) Pin(_ context.Context, _ string, reader io.Reader) (string, error) {
	return cas.ComputeCID(reader)
}

func (fakeArtifactStore) GatewayURL(cid string) string {
	return "https://gateway.test/ipfs/" + cid
}

// testApp wires the full handler surface over sqlite and miniredis. Requests
// authenticate by sending the principal in the X-Principal header, which the
// stub middleware copies into Locals the way the JWT middleware does.
func testApp(t *testing.T) *fiber.App {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	logger := zerolog.Nop()
	store := ledger.NewStore(db, logger)
	require.NoError(t, store.Migrate())

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	meta := metadata.NewStore(client, logger)

	validate := validator.New(validator.WithRequiredStructEnabled())
	artifacts := fakeArtifactStore{}
	publisher := events.NewPublisher(nil, nil, "", logger)

	assignmentSvc := service.NewAssignmentService(store, meta, artifacts, publisher, validate, logger)
	submissionSvc := service.NewSubmissionService(store, artifacts, publisher, logger)
	gradingSvc := service.NewGradingService(store, meta, artifacts, publisher, validate, service.DefaultGradeMax, logger)
	materialSvc := service.NewMaterialService(store, artifacts, validate, logger)
	rosterSvc := service.NewRosterService(store, meta, validate, logger)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if principal := c.Get("X-Principal"); principal != "" {
			c.Locals("principal", principal)
		}

		return c.Next()
	})

	handler.NewAssignmentHandler(assignmentSvc, logger).Register(app.Group("/api/assignments"))
	handler.NewSubmissionHandler(submissionSvc, logger).Register(app.Group("/api/assignments"))
	handler.NewGradingHandler(gradingSvc, logger).Register(app.Group("/api/assignments"))
	handler.NewMaterialHandler(materialSvc, logger).Register(app.Group("/api/materials"))
	handler.NewRosterHandler(rosterSvc, logger).Register(app.Group("/api/admin"))

	return app
}

// multipartRequest builds a POST with form fields plus one file part.
func multipartRequest(t *testing.T, target string, fields map[string]string, filename string, content []byte) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}

	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, target, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return req
}

func jsonRequest(t *testing.T, method, target string, payload any) *http.Request {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)

	return req
}

// decodeData unmarshals the response envelope's data field into out.
func decodeData(t *testing.T, resp *http.Response, out any) {
	t.Helper()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Message string          `json:"message"`
	}

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.True(t, envelope.Success, envelope.Message)
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}
