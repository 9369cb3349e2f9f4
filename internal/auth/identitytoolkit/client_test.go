package identitytoolkit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubProvider(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewWithBaseURL("test-key", srv.URL)
}

func writeProviderError(w http.ResponseWriter, status int, code string) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]interface{}{"message": code},
	})
}

func TestSignInSuccess(t *testing.T) {
	client := stubProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts:signInWithPassword", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "user@example.com", body["email"])
		assert.Equal(t, true, body["returnSecureToken"])

		_ = json.NewEncoder(w).Encode(Session{
			IDToken: "token-123",
			LocalID: "uid-1",
			Email:   "user@example.com",
		})
	})

	session, err := client.SignIn(context.Background(), "user@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "token-123", session.IDToken)
	assert.Equal(t, "uid-1", session.LocalID)
}

func TestSignUpRoutesToSignUpEndpoint(t *testing.T) {
	client := stubProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts:signUp", r.URL.Path)
		_ = json.NewEncoder(w).Encode(Session{IDToken: "t", LocalID: "u"})
	})

	_, err := client.SignUp(context.Background(), "new@example.com", "secret123")
	require.NoError(t, err)
}

func TestProviderErrorClassification(t *testing.T) {
	cases := []struct {
		code string
		want ErrClass
	}{
		{"INVALID_LOGIN_CREDENTIALS", ErrInvalidCredentials},
		{"EMAIL_EXISTS", ErrEmailInUse},
		{"WEAK_PASSWORD : Password should be at least 6 characters", ErrWeakPassword},
		{"EMAIL_NOT_FOUND", ErrUserNotFound},
		{"INVALID_PASSWORD", ErrUserNotFound},
		{"TOO_MANY_ATTEMPTS_TRY_LATER", ErrTooManyRequests},
		{"OPERATION_NOT_ALLOWED", ErrMethodDisabled},
		{"SOMETHING_NEW", ErrNetwork},
	}

	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			client := stubProvider(t, func(w http.ResponseWriter, r *http.Request) {
				writeProviderError(w, http.StatusBadRequest, tc.code)
			})

			_, err := client.SignIn(context.Background(), "user@example.com", "pw")
			require.Error(t, err)
			assert.Equal(t, tc.want, ClassOf(err))

			var ae *AuthError
			require.ErrorAs(t, err, &ae)
			assert.Equal(t, tc.code, ae.Code, "raw provider code preserved for logs")
		})
	}
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()
	client := NewWithBaseURL("test-key", srv.URL)

	_, err := client.SignIn(context.Background(), "user@example.com", "pw")
	require.Error(t, err)
	assert.Equal(t, ErrNetwork, ClassOf(err))
}

func TestMalformedErrorBody(t *testing.T) {
	client := stubProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, "not json")
	})

	_, err := client.SignIn(context.Background(), "user@example.com", "pw")
	require.Error(t, err)
	assert.Equal(t, ErrNetwork, ClassOf(err))
}
