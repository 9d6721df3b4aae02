package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/asamblea-eventos/backend/config"
	"github.com/asamblea-eventos/backend/internal/auth"
	"github.com/asamblea-eventos/backend/internal/models"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpireHours = 1
	cfg.Server.CORSAllowedOrigins = "*"
	cfg.Report.OrgName = "FEDECOVERA"
	return cfg
}

func TestRouterProtectsBackOffice(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	cfg := testConfig()
	r := newRouter(deps{cfg: cfg, pool: mock, logger: zap.NewNop()})

	cases := []struct{ method, path string }{
		{http.MethodGet, "/eventos"},
		{http.MethodPost, "/asistencia/masiva"},
		{http.MethodGet, "/asistencia/evento/1"},
		{http.MethodGet, "/reportes/asistencia/1/pdf"},
		{http.MethodGet, "/catalogos/puestos"},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, tc.path)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	token, err := auth.NewJWTService(cfg.JWT.Secret, 1).Generate(&models.User{ID: 5, Username: "op", Role: models.RoleOperator})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/eventos", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/reportes/asistencia/1/pdf/archivar", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	assert.NoError(t, mock.ExpectationsWereMet())
}
