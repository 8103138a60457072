package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"astroline/config"
	"astroline/internal/content"
)

func newTestHandler(t *testing.T) (*Handler, *content.Library, string) {
	t.Helper()

	dir := t.TempDir()
	library, err := content.NewLibrary(dir, zap.NewNop())
	require.NoError(t, err)

	cfg := &config.Config{AdminToken: "test-admin-token"}
	h := NewHandler(cfg, zap.NewNop(), nil, nil, nil, nil, nil)
	return h, library, dir
}

func TestHealthEndpoint(t *testing.T) {
	h, library, _ := newTestHandler(t)
	router := h.AdminRouter(library)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestAdminAuthRequired(t *testing.T) {
	h, library, _ := newTestHandler(t)
	router := h.AdminRouter(library)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/reload-content", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
}

func TestAdminAuthRejectsWrongToken(t *testing.T) {
	h, library, _ := newTestHandler(t)
	router := h.AdminRouter(library)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
	req.Header.Set("X-Admin-Token", "wrong")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestReloadContentEndpoint(t *testing.T) {
	h, library, dir := newTestHandler(t)
	router := h.AdminRouter(library)

	intros := `["Обновлённый зачин для знака %s."]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "horoscope_intros.json"), []byte(intros), 0644))

	req := httptest.NewRequest(http.MethodPost, "/api/admin/reload-content", nil)
	req.Header.Set("X-Admin-Token", "test-admin-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)

	assert.Equal(t, []string{"Обновлённый зачин для знака %s."}, library.Pools().Intros)
}

func TestReloadContentFailure(t *testing.T) {
	h, library, dir := newTestHandler(t)
	router := h.AdminRouter(library)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "horoscope_themes.json"), []byte(`{}`), 0644))

	req := httptest.NewRequest(http.MethodPost, "/api/admin/reload-content", nil)
	req.Header.Set("X-Admin-Token", "test-admin-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
