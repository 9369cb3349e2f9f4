// Package identitytoolkit is a thin client for the Identity Platform
// email/password REST endpoints, used to proxy sign-up and sign-in for
// clients that cannot talk to the provider directly.
package identitytoolkit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://identitytoolkit.googleapis.com/v1"

// ErrClass is the user-facing classification of a provider failure.
type ErrClass string

const (
	ErrInvalidCredentials ErrClass = "invalid_credentials"
	ErrEmailInUse         ErrClass = "email_in_use"
	ErrWeakPassword       ErrClass = "weak_password"
	ErrUserNotFound       ErrClass = "user_not_found"
	ErrTooManyRequests    ErrClass = "too_many_requests"
	ErrMethodDisabled     ErrClass = "method_disabled"
	ErrNetwork            ErrClass = "network"
)

// AuthError carries the provider's raw code plus its classification.
type AuthError struct {
	Class ErrClass
	Code  string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("identity provider: %s (%s)", e.Code, e.Class)
}

// Session is the provider's answer to a successful sign-in or sign-up.
type Session struct {
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName,omitempty"`
}

// Client talks to the Identity Toolkit REST API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func New(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// NewWithBaseURL is used by tests to point the client at a stub server.
func NewWithBaseURL(apiKey, baseURL string) *Client {
	c := New(apiKey)
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

// SignUp creates an email/password account.
func (c *Client) SignUp(ctx context.Context, email, password string) (*Session, error) {
	return c.call(ctx, "accounts:signUp", email, password)
}

// SignIn exchanges email/password credentials for a session.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	return c.call(ctx, "accounts:signInWithPassword", email, password)
}

func (c *Client) call(ctx context.Context, endpoint, email, password string) (*Session, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	reqURL := fmt.Sprintf("%s/%s?key=%s", c.baseURL, endpoint, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &AuthError{Class: ErrNetwork, Code: "NETWORK_ERROR"}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var body struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return nil, &AuthError{Class: ErrNetwork, Code: fmt.Sprintf("STATUS_%d", resp.StatusCode)}
		}
		return nil, &AuthError{Class: classify(body.Error.Message), Code: body.Error.Message}
	}

	var session Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &session, nil
}

// classify maps the provider's error codes onto the user-facing classes.
// Newer API versions fold several credential failures into
// INVALID_LOGIN_CREDENTIALS.
func classify(code string) ErrClass {
	// Codes may carry a trailing detail, e.g. "WEAK_PASSWORD : ...".
	if i := strings.IndexAny(code, " :"); i > 0 {
		code = code[:i]
	}
	switch code {
	case "INVALID_LOGIN_CREDENTIALS", "INVALID_CREDENTIAL":
		return ErrInvalidCredentials
	case "EMAIL_EXISTS":
		return ErrEmailInUse
	case "WEAK_PASSWORD":
		return ErrWeakPassword
	case "EMAIL_NOT_FOUND", "INVALID_PASSWORD":
		return ErrUserNotFound
	case "TOO_MANY_ATTEMPTS_TRY_LATER":
		return ErrTooManyRequests
	case "OPERATION_NOT_ALLOWED":
		return ErrMethodDisabled
	default:
		return ErrNetwork
	}
}

// ClassOf returns the classification of err, or ErrNetwork when err is
// not an AuthError.
func ClassOf(err error) ErrClass {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae.Class
	}
	return ErrNetwork
}
