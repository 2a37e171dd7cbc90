package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/vaultflow/internal/core/activity"
	"github.com/colonyops/vaultflow/internal/core/config"
	"github.com/colonyops/vaultflow/internal/core/eventbus"
	"github.com/colonyops/vaultflow/internal/core/transition"
	"github.com/colonyops/vaultflow/internal/core/vault"
	"github.com/colonyops/vaultflow/internal/stores"
	"github.com/colonyops/vaultflow/internal/vaultflow"
)

func newTestServer(t *testing.T) (*Server, *config.Config) {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.VaultPath = t.TempDir()

	logger := zerolog.Nop()
	store := stores.NewFSStore(cfg.VaultPath, cfg.DocumentGlob, logger)
	auditLog := stores.NewAuditLog(cfg.LogsDir(), logger)
	bus := eventbus.New()
	engine := transition.NewEngine(cfg.VaultPath, store, auditLog, bus, cfg.Actor, logger)

	vaultSvc := vaultflow.NewVaultService(store, engine, auditLog, &cfg, logger)
	require.NoError(t, vaultSvc.InitVault(context.Background()))

	app := vaultflow.NewApp(vaultSvc, activity.NewService(store, logger), &cfg, bus)
	return NewServer(app, logger), &cfg
}

func writeVaultItem(t *testing.T, cfg *config.Config, cat vault.Category, name, content string) string {
	t.Helper()
	path := filepath.Join(cat.Dir(cfg.VaultPath), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func postAction(t *testing.T, h http.Handler, endpoint, path string) actionResponse {
	t.Helper()

	form := url.Values{"filepath": {path}}
	req := httptest.NewRequest(http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp actionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestAPICounts(t *testing.T) {
	srv, cfg := newTestServer(t)
	writeVaultItem(t, cfg, vault.CategoryNeedsAction, "a.md", "x")
	writeVaultItem(t, cfg, vault.CategoryNeedsAction, "b.md", "x")
	writeVaultItem(t, cfg, vault.CategoryApproved, "c.md", "x")

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/counts", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var counts map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &counts))
	assert.Equal(t, 2, counts["needs_action"])
	assert.Equal(t, 1, counts["approved"])
	assert.Equal(t, 0, counts["rejected"])
}

func TestApproveEndpoint(t *testing.T) {
	srv, cfg := newTestServer(t)
	path := writeVaultItem(t, cfg, vault.CategoryPendingApproval, "plan.md", "email from bob")

	resp := postAction(t, srv.Handler(), "/approve_file", path)
	assert.True(t, resp.Success)
	assert.Empty(t, resp.Error)

	moved := filepath.Join(vault.CategoryApproved.Dir(cfg.VaultPath), "plan.md")
	_, err := os.Stat(moved)
	assert.NoError(t, err)
}

func TestActionMissingFilepath(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postAction(t, srv.Handler(), "/reject_file", "")
	assert.False(t, resp.Success)
	assert.Equal(t, "No valid file path provided", resp.Error)
}

func TestActionMissingFile(t *testing.T) {
	srv, cfg := newTestServer(t)

	missing := filepath.Join(vault.CategoryPendingApproval.Dir(cfg.VaultPath), "gone.md")
	resp := postAction(t, srv.Handler(), "/approve_file", missing)
	assert.False(t, resp.Success)
	assert.Equal(t, "File does not exist", resp.Error)
}

func TestActionOutsideVault(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postAction(t, srv.Handler(), "/approve_file", "/etc/passwd")
	assert.False(t, resp.Success)
	assert.Equal(t, "No valid file path provided", resp.Error)
}

func TestSendForApprovalEndpoint(t *testing.T) {
	srv, cfg := newTestServer(t)
	path := writeVaultItem(t, cfg, vault.CategorySocialDraft, "post.md", "draft")

	resp := postAction(t, srv.Handler(), "/send_for_approval", path)
	assert.True(t, resp.Success)

	queued := filepath.Join(vault.CategoryPendingSocial.Dir(cfg.VaultPath), "post.md")
	_, err := os.Stat(queued)
	assert.NoError(t, err)
}

func TestAPILogsAfterAction(t *testing.T) {
	srv, cfg := newTestServer(t)
	path := writeVaultItem(t, cfg, vault.CategoryPendingApproval, "plan.md", "x")
	postAction(t, srv.Handler(), "/approve_file", path)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/logs", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var records []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "approve", records[0]["action"])
	assert.Equal(t, "plan.md", records[0]["filename"])
}

func TestDashboardPage(t *testing.T) {
	srv, cfg := newTestServer(t)
	writeVaultItem(t, cfg, vault.CategoryNeedsAction, "a.md", "x")

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Needs Action")
}

func TestViewPage(t *testing.T) {
	srv, cfg := newTestServer(t)
	path := writeVaultItem(t, cfg, vault.CategoryNeedsAction, "note.md", "# Heading\n\nbody text")

	rec := httptest.NewRecorder()
	target := "/view?filepath=" + url.QueryEscape(path)
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "body text")
}

func TestViewPageMissingFile(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/view", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
