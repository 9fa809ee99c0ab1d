package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Dan9191/club-service/internal/auth"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newGateRouter(t *testing.T, tokens *auth.TokenManager, called *bool) *mux.Router {
	t.Helper()
	r := mux.NewRouter()
	r.Use(RequestID)
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(AuthMiddleware(tokens, testLogger()))
	admin.HandleFunc("/events", func(w http.ResponseWriter, r *http.Request) {
		*called = true
		username, ok := AdminFromContext(r.Context())
		if !ok {
			t.Error("admin username missing from context")
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(username))
	}).Methods(http.MethodPost)
	return r
}

func newTokens(t *testing.T, now time.Time) *auth.TokenManager {
	t.Helper()
	m, err := auth.NewTokenManager("test-secret-for-unit-tests", auth.DefaultTokenTTL)
	require.NoError(t, err)
	return m.WithClock(func() time.Time { return now })
}

func assertJSONError(t *testing.T, w *httptest.ResponseRecorder, expected string) {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, expected, body["error"])
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	called := false
	r := newGateRouter(t, newTokens(t, time.Now()), &called)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/events", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assertJSONError(t, w, "Token missing")
	assert.False(t, called, "handler must not run without a token")
}

func TestAuthMiddleware_InvalidTokens(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tokens := newTokens(t, now)
	valid, err := tokens.Issue("alice")
	require.NoError(t, err)

	other, err := auth.NewTokenManager("a-different-secret", auth.DefaultTokenTTL)
	require.NoError(t, err)
	forged, err := other.WithClock(func() time.Time { return now }).Issue("alice")
	require.NoError(t, err)

	cases := map[string]string{
		"wrong scheme":  "Basic " + valid,
		"no token":      "Bearer ",
		"scheme only":   "Bearer",
		"garbage":       "Bearer not.a.jwt",
		"wrong key":     "Bearer " + forged,
		"trailing data": "Bearer " + valid + "x",
	}

	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			called := false
			r := newGateRouter(t, tokens, &called)

			req := httptest.NewRequest(http.MethodPost, "/admin/events", nil)
			req.Header.Set("Authorization", header)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assertJSONError(t, w, "Invalid token")
			assert.False(t, called)
		})
	}
}

func TestAuthMiddleware_Expired(t *testing.T) {
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	token, err := newTokens(t, issued).Issue("alice")
	require.NoError(t, err)

	called := false
	r := newGateRouter(t, newTokens(t, issued.Add(7*time.Hour)), &called)

	req := httptest.NewRequest(http.MethodPost, "/admin/events", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assertJSONError(t, w, "Invalid token")
	assert.False(t, called)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	tokens := newTokens(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	token, err := tokens.Issue("alice")
	require.NoError(t, err)

	called := false
	r := newGateRouter(t, tokens, &called)

	req := httptest.NewRequest(http.MethodPost, "/admin/events", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, called)
	assert.Equal(t, "alice", w.Body.String())
}

func TestAdminFromContext_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := AdminFromContext(req.Context())
	assert.False(t, ok)
}
