package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openacad/acadledger-api/internal/dto"
)

func submitAs(t *testing.T, app httpTester, assignmentID string, principal string, content []byte) *http.Response {
	t.Helper()

	req := multipartRequest(t, "/api/assignments/"+assignmentID+"/submit", nil, "answer.pdf", content)
	if principal != "" {
		req.Header.Set("X-Principal", principal)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	return resp
}

func TestSubmissionHandler_SubmitRequiresPrincipal(t *testing.T) {
	app := testApp(t)
	createAssignment(t, app)

	resp := submitAs(t, app, "1", "", []byte("answer"))
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSubmissionHandler_SubmitAndStatus(t *testing.T) {
	app := testApp(t)
	created := createAssignment(t, app)

	resp := submitAs(t, app, "1", "0xalice", []byte("my answer"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var submission dto.SubmissionResponse
	decodeData(t, resp, &submission)
	require.Equal(t, created.Assignment.ID, submission.AssignmentID)
	require.Equal(t, "0xalice", submission.Student)
	require.NotEmpty(t, submission.EncryptedPointer)
	require.False(t, submission.Graded)

	req := httptest.NewRequest(http.MethodGet, "/api/assignments/1/status", nil)
	req.Header.Set("X-Principal", "0xalice")
	statusResp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, statusResp.StatusCode)

	var status dto.SubmissionStatusResponse
	decodeData(t, statusResp, &status)
	require.True(t, status.Submitted)
	require.False(t, status.Graded)
	require.Nil(t, status.Grade)
}

func TestSubmissionHandler_SubmitUnknownAssignment(t *testing.T) {
	app := testApp(t)

	resp := submitAs(t, app, "404", "0xalice", []byte("answer"))
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSubmissionHandler_StatusWithoutSubmission(t *testing.T) {
	app := testApp(t)
	createAssignment(t, app)

	req := httptest.NewRequest(http.MethodGet, "/api/assignments/1/status", nil)
	req.Header.Set("X-Principal", "0xbob")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var status dto.SubmissionStatusResponse
	decodeData(t, resp, &status)
	require.False(t, status.Submitted)
}
