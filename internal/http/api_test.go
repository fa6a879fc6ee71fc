package http

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"leadgen-api/internal/auth"
	"leadgen-api/internal/metrics"
	"leadgen-api/internal/repository/sqlite"
	"leadgen-api/internal/service"
)

type stubGenerator struct {
	calls int
	reply string
	err   error
}

func (g *stubGenerator) Generate(context.Context, string, string) (string, error) {
	g.calls++
	return g.reply, g.err
}

type testServer struct {
	router *gin.Engine
	db     *sql.DB
	codec  *auth.TokenCodec
	gen    *stubGenerator
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, sqlite.Migrate(context.Background(), db))

	userRepo := sqlite.NewUserRepository(db)
	leadRepo := sqlite.NewLeadRepository(db)
	templateRepo := sqlite.NewTemplateRepository(db)

	codec, err := auth.NewTokenCodec("http-test-secret", time.Hour)
	require.NoError(t, err)
	users, err := service.NewUserService(userRepo, auth.NewBcryptHasher(bcrypt.MinCost), codec)
	require.NoError(t, err)

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	logger, _ := test.NewNullLogger()
	gen := &stubGenerator{reply: "draft"}

	handler := NewHandler(Deps{
		Users:     users,
		Leads:     service.NewLeadService(leadRepo),
		Contacts:  service.NewContactService(sqlite.NewContactRepository(db), leadRepo),
		Templates: service.NewTemplateService(templateRepo),
		Research: service.NewResearchService(service.ResearchDeps{
			Generator: gen,
			Leads:     leadRepo,
			Templates: templateRepo,
			Metrics:   m,
			Logger:    logger,
		}),
		Resolver:    auth.NewResolver(codec, userRepo),
		Metrics:     m,
		Gatherer:    registry,
		Logger:      logger,
		CORSOrigins: []string{"*"},
	})

	router := gin.New()
	handler.RegisterRoutes(router)
	return &testServer{router: router, db: db, codec: codec, gen: gen}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) register(t *testing.T, email string) (string, map[string]any) {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"email": email, "password": "password123", "name": "Tester",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Token string         `json:"token"`
		User  map[string]any `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Token, resp.User
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func requireReason(t *testing.T, rec *httptest.ResponseRecorder, status int, reason string) {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
	body := decode[map[string]string](t, rec)
	assert.Equal(t, reason, body["reason"])
	assert.NotEmpty(t, body["error"])
}

func TestAuthFlow(t *testing.T) {
	srv := newTestServer(t)

	token, user := srv.register(t, "alice@example.com")
	assert.Equal(t, "alice@example.com", user["email"])
	assert.NotContains(t, user, "password_hash")

	rec := srv.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "alice@example.com", "password": "password123"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[map[string]any](t, rec)
	assert.Equal(t, user["id"], me["id"])

	rec = srv.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"email": "alice@example.com", "password": "x", "name": "Again",
	})
	requireReason(t, rec, http.StatusBadRequest, "duplicate_email")

	wrong := srv.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "alice@example.com", "password": "bad"})
	unknown := srv.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "ghost@example.com", "password": "bad"})
	requireReason(t, wrong, http.StatusUnauthorized, "invalid_credentials")
	requireReason(t, unknown, http.StatusUnauthorized, "invalid_credentials")
	assert.Equal(t, wrong.Body.String(), unknown.Body.String())

	rec = srv.do(t, http.MethodPost, "/api/auth/register", "", gin.H{"email": "not-an-email", "password": "x", "name": "A"})
	requireReason(t, rec, http.StatusBadRequest, "validation_error")
}

func TestAuthFailureReasons(t *testing.T) {
	srv := newTestServer(t)
	_, user := srv.register(t, "alice@example.com")
	userID := user["id"].(string)

	rec := srv.do(t, http.MethodGet, "/api/leads", "", nil)
	requireReason(t, rec, http.StatusUnauthorized, "missing_credential")

	rec = srv.do(t, http.MethodGet, "/api/leads", "garbage", nil)
	requireReason(t, rec, http.StatusUnauthorized, "invalid_token")

	other, err := auth.NewTokenCodec("another-secret", time.Hour)
	require.NoError(t, err)
	forged, err := other.Issue(userID)
	require.NoError(t, err)
	rec = srv.do(t, http.MethodGet, "/api/leads", forged, nil)
	requireReason(t, rec, http.StatusUnauthorized, "invalid_token")

	expired, err := srv.codec.WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) }).Issue(userID)
	require.NoError(t, err)
	rec = srv.do(t, http.MethodGet, "/api/leads", expired, nil)
	requireReason(t, rec, http.StatusUnauthorized, "token_expired")

	orphan, err := srv.codec.Issue("deleted-user")
	require.NoError(t, err)
	rec = srv.do(t, http.MethodGet, "/api/auth/me", orphan, nil)
	requireReason(t, rec, http.StatusUnauthorized, "user_not_found")
}

func TestStorageFailureHidesCause(t *testing.T) {
	srv := newTestServer(t)
	token, _ := srv.register(t, "alice@example.com")
	require.NoError(t, srv.db.Close())

	for _, rec := range []*httptest.ResponseRecorder{
		srv.do(t, http.MethodGet, "/api/auth/me", token, nil),
		srv.do(t, http.MethodPost, "/api/auth/register", "", gin.H{"email": "bob@example.com", "password": "password123", "name": "Bob"}),
	} {
		requireReason(t, rec, http.StatusInternalServerError, "upstream_failure")
		assert.NotContains(t, rec.Body.String(), "sql:")
		assert.NotContains(t, rec.Body.String(), "database is closed")
	}
}

func TestLoginFailuresCountedByReason(t *testing.T) {
	srv := newTestServer(t)
	srv.register(t, "alice@example.com")

	rec := srv.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "alice@example.com", "password": "bad"})
	requireReason(t, rec, http.StatusUnauthorized, "invalid_credentials")

	require.NoError(t, srv.db.Close())
	rec = srv.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "alice@example.com", "password": "password123"})
	requireReason(t, rec, http.StatusInternalServerError, "upstream_failure")

	rec = srv.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `leadgen_auth_failures_total{reason="invalid_credentials"} 1`)
	assert.Contains(t, rec.Body.String(), `leadgen_auth_failures_total{reason="upstream_failure"} 1`)
}

func TestLeadEndpoints(t *testing.T) {
	srv := newTestServer(t)
	alice, _ := srv.register(t, "alice@example.com")
	bob, _ := srv.register(t, "bob@example.com")

	rec := srv.do(t, http.MethodPost, "/api/leads", alice, gin.H{"company_name": "Acme", "status": "won"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	lead := decode[map[string]any](t, rec)
	leadID := lead["id"].(string)
	assert.Equal(t, "won", lead["status"])

	rec = srv.do(t, http.MethodPost, "/api/leads", alice, gin.H{"company_name": "Bad", "status": "archived"})
	requireReason(t, rec, http.StatusBadRequest, "validation_error")

	rec = srv.do(t, http.MethodGet, "/api/leads/"+leadID, bob, nil)
	requireReason(t, rec, http.StatusNotFound, "not_found")

	rec = srv.do(t, http.MethodPut, "/api/leads/"+leadID, bob, gin.H{"notes": "stolen"})
	requireReason(t, rec, http.StatusNotFound, "not_found")

	rec = srv.do(t, http.MethodDelete, "/api/leads/"+leadID, bob, nil)
	requireReason(t, rec, http.StatusNotFound, "not_found")

	rec = srv.do(t, http.MethodPut, "/api/leads/"+leadID, alice, gin.H{"notes": "signed"})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[map[string]any](t, rec)
	assert.Equal(t, "signed", updated["notes"])
	assert.Equal(t, "Acme", updated["company_name"])

	rec = srv.do(t, http.MethodGet, "/api/leads/stats/summary", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[map[string]int](t, rec)
	assert.Equal(t, map[string]int{
		"total": 1, "new": 0, "contacted": 0, "qualified": 0, "proposal": 0, "won": 1, "lost": 0,
	}, stats)

	rec = srv.do(t, http.MethodGet, "/api/leads?status=won", bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]map[string]any](t, rec))

	rec = srv.do(t, http.MethodPost, "/api/leads/seed", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	seed := decode[map[string]any](t, rec)
	assert.EqualValues(t, 13, seed["created"])
	assert.EqualValues(t, 13, seed["total_examples"])

	rec = srv.do(t, http.MethodDelete, "/api/leads/"+leadID, alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestContactEndpointsHideOwner(t *testing.T) {
	srv := newTestServer(t)
	alice, _ := srv.register(t, "alice@example.com")
	bob, _ := srv.register(t, "bob@example.com")

	rec := srv.do(t, http.MethodPost, "/api/leads", alice, gin.H{"company_name": "Acme"})
	require.Equal(t, http.StatusOK, rec.Code)
	leadID := decode[map[string]any](t, rec)["id"].(string)

	rec = srv.do(t, http.MethodPost, "/api/contacts", bob, gin.H{"lead_id": leadID, "name": "Mallory"})
	requireReason(t, rec, http.StatusNotFound, "not_found")

	rec = srv.do(t, http.MethodPost, "/api/contacts", alice, gin.H{"lead_id": leadID, "name": "Dana"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	contact := decode[map[string]any](t, rec)
	assert.NotContains(t, contact, "user_id")
	assert.Equal(t, leadID, contact["lead_id"])

	rec = srv.do(t, http.MethodGet, "/api/contacts?lead_id="+leadID, alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)
}

func TestTemplateEndpoints(t *testing.T) {
	srv := newTestServer(t)
	alice, _ := srv.register(t, "alice@example.com")

	rec := srv.do(t, http.MethodPost, "/api/templates", alice, gin.H{"name": "Intro", "subject": "Hi", "body": "Hello"})
	require.Equal(t, http.StatusOK, rec.Code)
	tpl := decode[map[string]any](t, rec)
	assert.Equal(t, "outreach", tpl["category"])

	rec = srv.do(t, http.MethodPost, "/api/templates", alice, gin.H{"name": "Intro"})
	requireReason(t, rec, http.StatusBadRequest, "validation_error")

	rec = srv.do(t, http.MethodGet, "/api/templates?category=outreach", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)
}

func TestAIEndpoints(t *testing.T) {
	srv := newTestServer(t)
	alice, _ := srv.register(t, "alice@example.com")
	bob, _ := srv.register(t, "bob@example.com")

	rec := srv.do(t, http.MethodPost, "/api/leads", alice, gin.H{"company_name": "Acme"})
	require.Equal(t, http.StatusOK, rec.Code)
	leadID := decode[map[string]any](t, rec)["id"].(string)

	rec = srv.do(t, http.MethodPost, "/api/ai/generate-email?lead_id="+leadID, bob, nil)
	requireReason(t, rec, http.StatusNotFound, "not_found")
	assert.Zero(t, srv.gen.calls)

	rec = srv.do(t, http.MethodPost, "/api/ai/generate-email?lead_id="+leadID, alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]string{"email": "draft", "lead_id": leadID}, decode[map[string]string](t, rec))

	srv.gen.err = errors.New("completions returned 503: overloaded")
	rec = srv.do(t, http.MethodPost, "/api/ai/research", alice, gin.H{"company_name": "Acme"})
	requireReason(t, rec, http.StatusInternalServerError, "upstream_failure")
	assert.Contains(t, rec.Body.String(), "AI research failed: completions returned 503: overloaded")

	rec = srv.do(t, http.MethodGet, "/api/ai/archive", alice, nil)
	requireReason(t, rec, http.StatusInternalServerError, "upstream_failure")
}

func TestOperationalEndpoints(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decode[map[string]string](t, rec)["status"])
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))

	req := httptest.NewRequest(http.MethodOptions, "/api/leads", nil)
	req.Header.Set("Origin", "https://app.example.com")
	preflight := httptest.NewRecorder()
	srv.router.ServeHTTP(preflight, req)
	assert.Equal(t, http.StatusNoContent, preflight.Code)
	assert.Equal(t, "*", preflight.Header().Get("Access-Control-Allow-Origin"))

	rec = srv.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "leadgen_http_requests_total"))
}

func TestCORSAllowList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(corsMiddleware([]string{"https://app.example.com"}))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	for origin, want := range map[string]string{
		"https://app.example.com":  "https://app.example.com",
		"https://evil.example.com": "",
	} {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Origin", origin)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Header().Get("Access-Control-Allow-Origin"), origin)
	}
}
