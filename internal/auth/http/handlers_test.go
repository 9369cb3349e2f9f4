package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sulaymani-library/go-library-backend/internal/auth/identitytoolkit"
)

func setupAuthRouter(t *testing.T, provider http.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	srv := httptest.NewServer(provider)
	t.Cleanup(srv.Close)

	router := gin.New()
	h := New(identitytoolkit.NewWithBaseURL("test-key", srv.URL))
	h.Register(router.Group("/auth"))
	return router
}

func postJSON(router *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestSignInProxy(t *testing.T) {
	router := setupAuthRouter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts:signInWithPassword", r.URL.Path)
		_ = json.NewEncoder(w).Encode(identitytoolkit.Session{IDToken: "tok", LocalID: "uid"})
	})

	w := postJSON(router, "/auth/signin", gin.H{"email": "user@example.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"tok"`)
}

func TestSignInInvalidCredentials(t *testing.T) {
	router := setupAuthRouter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(gin.H{"error": gin.H{"message": "INVALID_LOGIN_CREDENTIALS"}})
	})

	w := postJSON(router, "/auth/signin", gin.H{"email": "user@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), string(identitytoolkit.ErrInvalidCredentials))
}

func TestSignUpWeakPassword(t *testing.T) {
	router := setupAuthRouter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(gin.H{"error": gin.H{"message": "WEAK_PASSWORD : Password should be at least 6 characters"}})
	})

	w := postJSON(router, "/auth/signup", gin.H{"email": "new@example.com", "password": "123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), string(identitytoolkit.ErrWeakPassword))
}

func TestMissingCredentials(t *testing.T) {
	router := setupAuthRouter(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("provider must not be called for incomplete credentials")
	})

	w := postJSON(router, "/auth/signin", gin.H{"email": "  ", "password": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRateLimitAfterBurst(t *testing.T) {
	router := setupAuthRouter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(gin.H{"error": gin.H{"message": "INVALID_LOGIN_CREDENTIALS"}})
	})

	payload := gin.H{"email": "user@example.com", "password": "wrong"}
	for i := 0; i < 5; i++ {
		w := postJSON(router, "/auth/signin", payload)
		require.Equal(t, http.StatusUnauthorized, w.Code, "attempt %d within burst", i+1)
	}

	w := postJSON(router, "/auth/signin", payload)
	assert.Equal(t, http.StatusTooManyRequests, w.Code, "sixth rapid attempt is throttled")
	assert.Contains(t, w.Body.String(), string(identitytoolkit.ErrTooManyRequests))
}
