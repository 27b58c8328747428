package handler_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openacad/acadledger-api/internal/dto"
)

func TestMaterialHandler_CreateAndList(t *testing.T) {
	app := testApp(t)
	moduleID := createModule(t, app)

	req := multipartRequest(t, "/api/materials", map[string]string{
		"module_id": strconv.FormatUint(uint64(moduleID), 10),
		"title":     "Week 1 slides",
	}, "slides.pdf", []byte("%PDF slides"))

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var material dto.MaterialResponse
	decodeData(t, resp, &material)
	require.Equal(t, "Week 1 slides", material.Title)
	require.NotEmpty(t, material.CID)
	require.Contains(t, material.URL, material.CID)

	target := fmt.Sprintf("/api/materials?module_id=%d", moduleID)
	listResp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, listResp.StatusCode)

	var listed []dto.MaterialResponse
	decodeData(t, listResp, &listed)
	require.Len(t, listed, 1)
	require.Equal(t, material.CID, listed[0].CID)
}

func TestMaterialHandler_DuplicateContentRejected(t *testing.T) {
	app := testApp(t)
	moduleID := createModule(t, app)
	moduleField := strconv.FormatUint(uint64(moduleID), 10)
	payload := []byte("identical lecture notes")

	req := multipartRequest(t, "/api/materials", map[string]string{
		"module_id": moduleField,
		"title":     "Original",
	}, "a.pdf", payload)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	req = multipartRequest(t, "/api/materials", map[string]string{
		"module_id": moduleField,
		"title":     "Copy",
	}, "b.pdf", payload)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}
