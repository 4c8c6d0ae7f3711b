package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mdc-notebook-be/internal/bootstrap"
	"mdc-notebook-be/internal/config"
	"mdc-notebook-be/internal/entity"
	"mdc-notebook-be/internal/pkg/logger"
	"mdc-notebook-be/internal/pkg/serverutils"
	"mdc-notebook-be/internal/repository/contract"
	"mdc-notebook-be/internal/repository/specification"
	"mdc-notebook-be/internal/repository/unitofwork"
	"mdc-notebook-be/pkg/databricks"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const indexHTML = "<!doctype html><div id=app></div>"

type stubWorkspace struct {
	objects []databricks.WorkspaceObject
	run     *databricks.Run
}

func (s *stubWorkspace) ListWorkspaceObjects(ctx context.Context, folderPath string) ([]databricks.WorkspaceObject, error) {
	return s.objects, nil
}

func (s *stubWorkspace) SubmitRun(ctx context.Context, req databricks.SubmitRunRequest) (int64, error) {
	return 31, nil
}

func (s *stubWorkspace) GetRun(ctx context.Context, runID int64) (*databricks.Run, error) {
	return s.run, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dist := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dist, "index.html"), []byte(indexHTML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dist, "app.js"), []byte("console.log(1)"), 0o644))

	return &config.Config{
		App: config.AppConfig{
			Port:               "0",
			Environment:        "test",
			CorsAllowedOrigins: "*",
			FrontendDistPath:   dist,
		},
		Auth: config.AuthConfig{JWTSecret: "test-secret", BcryptCost: 4},
		Databricks: config.DatabricksConfig{
			Instance:     "https://example.cloud.databricks.com",
			Token:        "dapi",
			ClusterID:    "cluster-1",
			NotebookPath: "/Shared/MDC",
		},
	}
}

// newTestApp wires the real controllers. The store is never reached by the
// requests issued here.
func newTestApp(t *testing.T, cfg *config.Config, ws *stubWorkspace) *fiber.App {
	t.Helper()
	container := bootstrap.NewContainerWith(unitofwork.NewRepositoryFactory(nil), ws, cfg, logger.NewNop())
	return New(cfg, container).GetApp()
}

func do(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, string) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(raw)
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, testConfig(t), &stubWorkspace{})

	resp, body := do(t, app, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Hello testing", body)
}

func TestFrontendFallback(t *testing.T) {
	app := newTestApp(t, testConfig(t), &stubWorkspace{})

	tests := []struct {
		name     string
		method   string
		path     string
		want     int
		wantBody string
	}{
		{"client route", http.MethodGet, "/settings/profile", http.StatusOK, indexHTML},
		{"static asset", http.MethodGet, "/app.js", http.StatusOK, "console.log(1)"},
		{"missing asset", http.MethodGet, "/missing.js", http.StatusNotFound, ""},
		{"api prefix", http.MethodGet, "/auth/unknown", http.StatusNotFound, ""},
		{"api prefix nested", http.MethodGet, "/run-status/1/extra", http.StatusNotFound, ""},
		{"non GET", http.MethodPost, "/settings/profile", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, app, tt.method, tt.path, "")
			assert.Equal(t, tt.want, resp.StatusCode)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, body)
			}
		})
	}
}

func TestRunEndpoints(t *testing.T) {
	ws := &stubWorkspace{
		objects: []databricks.WorkspaceObject{
			{Path: "/Shared/MDC/Sales_Import", ObjectType: databricks.ObjectTypeNotebook},
			{Path: "/Shared/MDC/old", ObjectType: databricks.ObjectTypeDirectory},
		},
		run: &databricks.Run{RunID: 31, State: &databricks.RunState{LifeCycleState: "QUEUED"}},
	}
	app := newTestApp(t, testConfig(t), ws)

	t.Run("run notebook", func(t *testing.T) {
		resp, body := do(t, app, http.MethodPost, "/run-notebook", `{"fileName":"s.csv","source":"sales"}`)
		require.Equal(t, http.StatusOK, resp.StatusCode, body)

		var out serverutils.BaseResponse[map[string]interface{}]
		require.NoError(t, json.Unmarshal([]byte(body), &out))
		assert.True(t, out.Success)
		assert.EqualValues(t, 31, out.Data["run_id"])
		assert.Equal(t, "/Shared/MDC/Sales_Import", out.Data["notebook_name"])
	})

	t.Run("unknown source", func(t *testing.T) {
		resp, body := do(t, app, http.MethodPost, "/run-notebook", `{"source":"payroll"}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, body, "No notebook found matching source: payroll")
	})

	t.Run("list notebooks", func(t *testing.T) {
		resp, body := do(t, app, http.MethodGet, "/list-notebooks", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var out serverutils.BaseResponse[struct {
			Folder    string                       `json:"folder"`
			Notebooks []databricks.WorkspaceObject `json:"notebooks"`
		}]
		require.NoError(t, json.Unmarshal([]byte(body), &out))
		assert.Equal(t, "/Shared/MDC", out.Data.Folder)
		assert.Len(t, out.Data.Notebooks, 1)
	})

	t.Run("run status", func(t *testing.T) {
		resp, body := do(t, app, http.MethodGet, "/run-status/31", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var out serverutils.BaseResponse[map[string]interface{}]
		require.NoError(t, json.Unmarshal([]byte(body), &out))
		assert.Equal(t, "queued", out.Data["status"])
		assert.EqualValues(t, 20, out.Data["progress"])
		assert.Equal(t, "N/A", out.Data["result"])
	})

	t.Run("non numeric run id", func(t *testing.T) {
		resp, _ := do(t, app, http.MethodGet, "/run-status/abc", "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestRunEndpoints_MissingConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Databricks = config.DatabricksConfig{}
	app := newTestApp(t, cfg, &stubWorkspace{})

	resp, body := do(t, app, http.MethodPost, "/run-notebook", `{"source":"sales"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "Missing required parameters or environment variables")

	resp, _ = do(t, app, http.MethodGet, "/list-notebooks", "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	resp, _ = do(t, app, http.MethodGet, "/run-status/7", "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestRequestValidation(t *testing.T) {
	app := newTestApp(t, testConfig(t), &stubWorkspace{})

	resp, body := do(t, app, http.MethodPost, "/auth/register", `{"username":"ab","email":"bad","password":"1"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "VALIDATION_ERROR")

	resp, body = do(t, app, http.MethodPost, "/auth/register",
		`{"username":"ana","email":"ana@example.com","password":"`+strings.Repeat("x", 80)+`"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "password must be at most 72 characters")

	resp, _ = do(t, app, http.MethodGet, "/users/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, app, http.MethodPost, "/users/change-password", `{"currentPassword":"a","newPassword":"bbbbbb"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = do(t, app, http.MethodPost, "/auth/logout", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// emptyStore answers every list query with no rows.
type emptyStore struct{ unitofwork.UnitOfWork }

func (emptyStore) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork { return emptyStore{} }
func (emptyStore) UserRepository() contract.UserRepository                 { return emptyUsers{} }
func (emptyStore) NotebookRepository() contract.NotebookRepository         { return emptyNotebooks{} }
func (emptyStore) OrganizationRepository() contract.OrganizationRepository { return emptyOrganizations{} }

type emptyUsers struct{ contract.UserRepository }

func (emptyUsers) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	return nil, nil
}

type emptyNotebooks struct{ contract.NotebookRepository }

func (emptyNotebooks) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Notebook, error) {
	return nil, nil
}

type emptyOrganizations struct{ contract.OrganizationRepository }

func (emptyOrganizations) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Organization, error) {
	return nil, nil
}

func TestListEndpoints_EmptyStore(t *testing.T) {
	cfg := testConfig(t)
	container := bootstrap.NewContainerWith(emptyStore{}, &stubWorkspace{}, cfg, logger.NewNop())
	app := New(cfg, container).GetApp()

	for _, path := range []string{"/users", "/organizations", "/notebooks"} {
		t.Run(path, func(t *testing.T) {
			resp, body := do(t, app, http.MethodGet, path, "")
			require.Equal(t, http.StatusOK, resp.StatusCode, body)

			var out map[string]json.RawMessage
			require.NoError(t, json.Unmarshal([]byte(body), &out))
			require.Contains(t, out, "data")
			assert.JSONEq(t, "[]", string(out["data"]))
		})
	}
}
