package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/jrsteele09/go-session-client/internal/config"
	"github.com/jrsteele09/go-session-client/server"
	"github.com/jrsteele09/go-session-client/token/jwt"
	refreshrepofake "github.com/jrsteele09/go-session-client/token/refresh/repofake"
	"github.com/jrsteele09/go-session-client/users"
	fakeuserrepo "github.com/jrsteele09/go-session-client/users/repofake"
	"github.com/stretchr/testify/require"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "Admin1234"
)

type testBackend struct {
	t    *testing.T
	srv  *httptest.Server
	repo users.Repo
}

func newTestBackend(t *testing.T) *testBackend {
	return newBackendWith(t, server.Repos{
		Users:         fakeuserrepo.NewFakeUserRepo(),
		RefreshTokens: refreshrepofake.NewFakeRefreshTokenRepo(),
	})
}

func newBackendWith(t *testing.T, repos server.Repos) *testBackend {
	t.Setenv("ENV", "TEST")
	t.Setenv("BACKEND_JWT_SECRET", "test-secret")
	t.Setenv("BACKEND_ADMIN_EMAIL", adminEmail)
	t.Setenv("BACKEND_ADMIN_PASSWORD", adminPassword)
	t.Setenv("BACKEND_ALLOWED_ORIGINS", "http://localhost:3000")
	cfg, err := config.Load("")
	require.NoError(t, err)

	s, err := server.New(cfg, repos)
	require.NoError(t, err)

	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)
	return &testBackend{t: t, srv: srv, repo: repos.Users}
}

func (b *testBackend) do(method, path, token string, body any) (*http.Response, map[string]any) {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(b.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, b.srv.URL+path, reader)
	require.NoError(b.t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(b.t, err)
	defer resp.Body.Close()

	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func (b *testBackend) login(email, password string) map[string]any {
	resp, out := b.do(http.MethodPost, server.RouteUsersAuthenticate, "", map[string]string{"email": email, "password": password})
	require.Equal(b.t, http.StatusOK, resp.StatusCode, out)
	return out
}

func (b *testBackend) signup(name, email string, role users.RoleType) int64 {
	resp, out := b.do(http.MethodPost, server.RouteUsers, "", map[string]any{
		"name": name, "email": email, "password": "Secret123", "is_active": true, "role": role,
	})
	require.Equal(b.t, http.StatusCreated, resp.StatusCode, out)
	return int64(out["id"].(float64))
}

func TestAuthenticate_ReturnsTokenAndMillisecondExpiry(t *testing.T) {
	b := newTestBackend(t)
	out := b.login(adminEmail, adminPassword)

	user := out["user"].(map[string]any)
	require.Equal(t, adminEmail, user["email"])
	require.Equal(t, "admin", user["role"])
	require.NotEmpty(t, out["refresh_token"])

	token := out["token"].(string)
	exp, err := jwt.ExpiryFromToken(token)
	require.NoError(t, err)
	require.Equal(t, exp, int64(out["expires_at"].(float64)))
	require.Greater(t, exp, int64(1e12))
}

func TestAuthenticate_Rejections(t *testing.T) {
	b := newTestBackend(t)
	id := b.signup("Inactive", "off@example.com", users.RoleUser)
	u, err := b.repo.GetByID(id)
	require.NoError(t, err)
	off := *u
	off.IsActive = false
	require.NoError(t, b.repo.Update(&off))

	cases := map[string]map[string]string{
		"wrong password": {"email": adminEmail, "password": "nope"},
		"unknown email":  {"email": "who@example.com", "password": adminPassword},
		"inactive":       {"email": "off@example.com", "password": "Secret123"},
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			resp, out := b.do(http.MethodPost, server.RouteUsersAuthenticate, "", body)
			require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			require.Equal(t, "Incorrect email or password", out["detail"])
		})
	}
}

func TestCreateUser(t *testing.T) {
	b := newTestBackend(t)
	resp, out := b.do(http.MethodPost, server.RouteUsers, "", map[string]any{
		"name": "B", "email": "b@example.com", "password": "Secret123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, "user", out["role"])
	require.Equal(t, true, out["is_active"])
	require.NotContains(t, out, "PasswordHash")

	resp, out = b.do(http.MethodPost, server.RouteUsers, "", map[string]any{
		"name": "B", "email": "B@example.com", "password": "Secret123",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "User with this email already exists", out["detail"])

	resp, _ = b.do(http.MethodPost, server.RouteUsers, "", map[string]any{
		"name": "C", "email": "c@example.com", "password": "weak",
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = b.do(http.MethodPost, server.RouteUsers, "", map[string]any{
		"name": "C", "email": "c@example.com", "password": "Secret123", "role": "root",
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestUsersRoutes_RequireBearer(t *testing.T) {
	b := newTestBackend(t)
	resp, out := b.do(http.MethodGet, server.RouteUsers, "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "Not authenticated", out["detail"])

	resp, _ = b.do(http.MethodGet, server.RouteUsers, "garbage", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUsersRoutes_AdminOnly(t *testing.T) {
	b := newTestBackend(t)
	id := b.signup("U", "u@example.com", users.RoleUser)
	userToken := b.login("u@example.com", "Secret123")["token"].(string)

	resp, _ := b.do(http.MethodGet, server.RouteUsers, userToken, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, out := b.do(http.MethodGet, "/api/v1/users/"+strconv.FormatInt(id, 10), userToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "u@example.com", out["email"])

	resp, _ = b.do(http.MethodGet, "/api/v1/users/1", userToken, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAdminUserManagement(t *testing.T) {
	b := newTestBackend(t)
	id := b.signup("T", "t@example.com", users.RoleUser)
	b.signup("U", "u@example.com", users.RoleUser)
	adminToken := b.login(adminEmail, adminPassword)["token"].(string)
	path := "/api/v1/users/" + strconv.FormatInt(id, 10)

	resp, out := b.do(http.MethodPatch, path+"/role?role=tenant", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "tenant", out["role"])

	resp, _ = b.do(http.MethodPatch, path+"/role?role=root", adminToken, nil)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	list := b.list("/api/v1/users/role/tenant", adminToken)
	require.Len(t, list, 1)
	require.Equal(t, "t@example.com", list[0]["email"])

	require.Len(t, b.list("/api/v1/users/?skip=1&limit=1", adminToken), 1)
	require.Len(t, b.list("/api/v1/users/", adminToken), 3)

	resp, _ = b.do(http.MethodGet, "/api/v1/users/?limit=1000", adminToken, nil)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = b.do(http.MethodDelete, path, adminToken, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, out = b.do(http.MethodDelete, path, adminToken, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "User not found", out["detail"])
}

func (b *testBackend) list(path, token string) []map[string]any {
	req, err := http.NewRequest(http.MethodGet, b.srv.URL+path, nil)
	require.NoError(b.t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(b.t, err)
	defer resp.Body.Close()
	require.Equal(b.t, http.StatusOK, resp.StatusCode)

	var out []map[string]any
	require.NoError(b.t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestRefresh_RotatesToken(t *testing.T) {
	b := newTestBackend(t)
	first := b.login(adminEmail, adminPassword)
	rt := first["refresh_token"].(string)

	resp, out := b.do(http.MethodPost, server.RouteAuthRefresh, "", map[string]string{"refresh_token": rt})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, out["token"])
	require.NotEqual(t, rt, out["refresh_token"])

	resp, _ = b.do(http.MethodPost, server.RouteAuthRefresh, "", map[string]string{"refresh_token": rt})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCors_Preflight(t *testing.T) {
	b := newTestBackend(t)
	req, err := http.NewRequest(http.MethodOptions, b.srv.URL+server.RouteUsersAuthenticate, nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
	require.Contains(t, resp.Header.Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestMetricsEndpoint(t *testing.T) {
	b := newTestBackend(t)
	resp, err := http.Get(b.srv.URL + server.RouteMetrics)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
