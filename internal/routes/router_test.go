package routes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"freight_routes/internal/auth"
	"freight_routes/internal/config"
	"freight_routes/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router *gin.Engine
	db     *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	cfg := config.Config{Version: "test"}
	issuer := auth.NewIssuer("test-secret", time.Minute, 24*time.Hour)

	seed := func(email, role string) {
		hash, err := auth.HashPassword("password123")
		require.NoError(t, err)
		require.NoError(t, db.Create(&models.User{
			Email:        email,
			FullName:     "Test " + role,
			PasswordHash: hash,
			Role:         role,
			IsActive:     true,
		}).Error)
	}
	seed("admin@test.local", models.RoleAdmin)
	seed("dispatcher@test.local", models.RoleDispatcher)
	seed("viewer@test.local", models.RoleViewer)

	return &testServer{router: SetupRouter(cfg, db, issuer), db: db}
}

func (s *testServer) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	if body == "" {
		body = "{}"
	}
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) login(t *testing.T, email string) (accessToken, refreshToken string) {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/auth/login", "",
		fmt.Sprintf(`{"email":%q,"password":"password123"}`, email))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := parseBody(t, rec)
	return body["access_token"].(string), body["refresh_token"].(string)
}

func parseBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	body := parseBody(t, rec)
	errObj, ok := body["error"].(map[string]interface{})
	require.True(t, ok, "expected error envelope, got %s", rec.Body.String())
	return errObj["code"].(string)
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := parseBody(t, rec)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "test", body["version"])
}

func TestRouteLifecycleScenario(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.login(t, "dispatcher@test.local")

	// Dispatcher creates a draft route with two stops.
	rec := s.do(t, http.MethodPost, "/routes", token, `{
		"title": "Milk run",
		"stops": [
			{"seq": 1, "type": "origin", "address": "A"},
			{"seq": 2, "type": "destination", "address": "B"}
		]
	}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := parseBody(t, rec)
	assert.Equal(t, "draft", created["status"])
	assert.True(t, strings.HasPrefix(created["route_number"].(string), "RT-"))
	assert.Len(t, created["stops"].([]interface{}), 2)
	routeID := created["id"].(string)

	// Cancel it.
	rec = s.do(t, http.MethodPost, "/routes/"+routeID+"/cancel", token, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "cancelled", parseBody(t, rec)["status"])

	// Any further edit is a business rule violation.
	rec = s.do(t, http.MethodPatch, "/routes/"+routeID, token, `{"title":"x"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Equal(t, "BUSINESS_RULE_ERROR", errorCode(t, rec))

	// So is replacing its stops.
	rec = s.do(t, http.MethodPut, "/routes/"+routeID+"/stops", token, `{
		"stops": [
			{"seq": 1, "type": "origin", "address": "C"},
			{"seq": 2, "type": "destination", "address": "D"}
		]
	}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "BUSINESS_RULE_ERROR", errorCode(t, rec))
}

func TestRouteAccessControl(t *testing.T) {
	s := newTestServer(t)
	viewerToken, _ := s.login(t, "viewer@test.local")

	// No credentials at all.
	rec := s.do(t, http.MethodGet, "/routes", "", "")
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "AUTHORIZATION_ERROR", errorCode(t, rec))

	// Garbage token.
	rec = s.do(t, http.MethodGet, "/routes", "not-a-token", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "AUTHENTICATION_ERROR", errorCode(t, rec))

	// Viewers can read.
	rec = s.do(t, http.MethodGet, "/routes", viewerToken, "")
	require.Equal(t, http.StatusOK, rec.Code)

	// But not write.
	rec = s.do(t, http.MethodPost, "/routes", viewerToken, `{
		"title": "Denied",
		"stops": [
			{"seq": 1, "type": "origin", "address": "A"},
			{"seq": 2, "type": "destination", "address": "B"}
		]
	}`)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "AUTHORIZATION_ERROR", errorCode(t, rec))
}

func TestUserManagementScenario(t *testing.T) {
	s := newTestServer(t)
	adminToken, _ := s.login(t, "admin@test.local")
	dispatcherToken, _ := s.login(t, "dispatcher@test.local")

	// Admin creates a dispatcher; the account must change its password.
	rec := s.do(t, http.MethodPost, "/users", adminToken,
		`{"email":"fresh@test.local","full_name":"Fresh","password":"initial-pass","role":"dispatcher"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := parseBody(t, rec)
	assert.Equal(t, true, created["must_change_password"])

	// Same email again conflicts.
	rec = s.do(t, http.MethodPost, "/users", adminToken,
		`{"email":"fresh@test.local","full_name":"Fresh","password":"initial-pass","role":"dispatcher"}`)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CONFLICT", errorCode(t, rec))

	// Dispatchers cannot manage users.
	rec = s.do(t, http.MethodGet, "/users", dispatcherToken, "")
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAuthSessionScenario(t *testing.T) {
	s := newTestServer(t)
	accessToken, refreshToken := s.login(t, "viewer@test.local")

	// Access token works against /auth/me.
	rec := s.do(t, http.MethodGet, "/auth/me", accessToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "viewer@test.local", parseBody(t, rec)["email"])

	// Refresh returns a fresh access token without rotating.
	rec = s.do(t, http.MethodPost, "/auth/refresh", "",
		fmt.Sprintf(`{"refresh_token":%q}`, refreshToken))
	require.Equal(t, http.StatusOK, rec.Code)
	newAccess := parseBody(t, rec)["access_token"].(string)
	rec = s.do(t, http.MethodGet, "/auth/me", newAccess, "")
	require.Equal(t, http.StatusOK, rec.Code)

	// Logout, then refresh fails.
	rec = s.do(t, http.MethodPost, "/auth/logout", "",
		fmt.Sprintf(`{"refresh_token":%q}`, refreshToken))
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodPost, "/auth/refresh", "",
		fmt.Sprintf(`{"refresh_token":%q}`, refreshToken))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "AUTHENTICATION_ERROR", errorCode(t, rec))
}

func TestChangePassword(t *testing.T) {
	s := newTestServer(t)
	accessToken, _ := s.login(t, "viewer@test.local")

	// Wrong current password.
	rec := s.do(t, http.MethodPost, "/auth/change-password", accessToken,
		`{"current_password":"wrong","new_password":"brand-new-pass"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Correct current password.
	rec = s.do(t, http.MethodPost, "/auth/change-password", accessToken,
		`{"current_password":"password123","new_password":"brand-new-pass"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, false, parseBody(t, rec)["must_change_password"])

	// Old password no longer logs in.
	rec = s.do(t, http.MethodPost, "/auth/login", "",
		`{"email":"viewer@test.local","password":"password123"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/auth/login", "",
		`{"email":"viewer@test.local","password":"brand-new-pass"}`)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestValidationErrorEnvelope(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.login(t, "dispatcher@test.local")

	rec := s.do(t, http.MethodPost, "/routes", token, `{
		"title": "Short",
		"stops": [{"seq": 1, "type": "origin", "address": "A"}]
	}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, rec))
}

func TestRouteListFiltersOverHTTP(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.login(t, "dispatcher@test.local")

	for _, title := range []string{"North haul", "South haul"} {
		rec := s.do(t, http.MethodPost, "/routes", token, fmt.Sprintf(`{
			"title": %q,
			"stops": [
				{"seq": 1, "type": "origin", "address": "A"},
				{"seq": 2, "type": "destination", "address": "B"}
			]
		}`, title))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := s.do(t, http.MethodGet, "/routes?q=north", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := parseBody(t, rec)
	assert.EqualValues(t, 1, body["total"])

	rec = s.do(t, http.MethodGet, "/routes?status=draft&limit=1", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	body = parseBody(t, rec)
	assert.EqualValues(t, 2, body["total"])
	assert.Len(t, body["items"].([]interface{}), 1)
}
