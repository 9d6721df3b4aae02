package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asamblea-eventos/backend/pkg/apperr"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func send(t *testing.T, err error, debug bool) (int, Body) {
	t.Helper()
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	Error(c, err, debug)
	var body Body
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestErrorStatusMapping(t *testing.T) {
	cases := []struct {
		code   apperr.Code
		status int
	}{
		{apperr.CodeNotFound, http.StatusNotFound},
		{apperr.CodeNotAvailable, http.StatusNotFound},
		{apperr.CodeDuplicate, http.StatusBadRequest},
		{apperr.CodeInvalidInput, http.StatusBadRequest},
		{apperr.CodeConflict, http.StatusConflict},
	}
	for _, tc := range cases {
		status, body := send(t, apperr.New(tc.code, "msg "+string(tc.code)), false)
		assert.Equal(t, tc.status, status, tc.code)
		assert.False(t, body.Success)
		assert.Equal(t, "msg "+string(tc.code), body.Error)
	}
}

func TestErrorHidesInternalDetails(t *testing.T) {
	err := apperr.Internal(errors.New("dial tcp: refused"), "failed to load event")

	status, body := send(t, err, false)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "internal server error", body.Error)
	assert.Empty(t, body.Details)

	_, body = send(t, err, true)
	assert.Contains(t, body.Details, "dial tcp: refused")
}
