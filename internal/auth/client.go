// Package auth talks to the managed authentication and document-store
// service. The storefront treats "authenticated" as a boolean gate: it
// decides whether the profile mirrors to the remote document store or stays
// in the local store.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Session identifies an authenticated user.
type Session struct {
	UserID string `json:"user_id"`
	Token  string `json:"token"`
	Email  string `json:"email"`
}

// Client is the port for the auth/document-store collaborator.
type Client interface {
	SignIn(ctx context.Context, email, password string) (Session, error)
	SignUp(ctx context.Context, email, password string) (Session, error)
	ResetPassword(ctx context.Context, email string) error
	Verify(ctx context.Context, token string) (Session, error)

	// ReadDocument and WriteDocument access the per-user profile document.
	ReadDocument(ctx context.Context, userID string, out any) (bool, error)
	WriteDocument(ctx context.Context, userID string, value any) error
}

// Error is a failure reported by the auth service, carrying the service's
// error code so it can be mapped to a user-facing message.
type Error struct {
	Code string
}

func (e *Error) Error() string {
	return fmt.Sprintf("auth: %s", e.Code)
}

// userMessages maps service error codes to the small set of messages shown
// in the UI. Unknown codes collapse to a generic message.
var userMessages = map[string]string{
	"INVALID_PASSWORD":  "Incorrect email or password.",
	"EMAIL_NOT_FOUND":   "No account exists for this email.",
	"EMAIL_EXISTS":      "An account with this email already exists.",
	"WEAK_PASSWORD":     "Password must be at least 6 characters.",
	"INVALID_ID_TOKEN":  "Your session has expired. Please sign in again.",
	"TOO_MANY_ATTEMPTS": "Too many attempts. Please try again later.",
	"USER_DISABLED":     "This account has been disabled.",
}

// UserMessage returns the toast text for an auth failure.
func UserMessage(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		if msg, ok := userMessages[ae.Code]; ok {
			return msg
		}
	}
	return "Something went wrong. Please try again."
}

// HTTPClient implements Client against the managed service's REST API.
type HTTPClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewHTTPClient(baseURL, apiKey string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	LocalID string `json:"localId"`
	IDToken string `json:"idToken"`
	Email   string `json:"email"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *HTTPClient) SignIn(ctx context.Context, email, password string) (Session, error) {
	return c.credentialCall(ctx, "/accounts:signInWithPassword", email, password)
}

func (c *HTTPClient) SignUp(ctx context.Context, email, password string) (Session, error) {
	return c.credentialCall(ctx, "/accounts:signUp", email, password)
}

func (c *HTTPClient) ResetPassword(ctx context.Context, email string) error {
	body := map[string]string{"requestType": "PASSWORD_RESET", "email": email}
	return c.post(ctx, "/accounts:sendOobCode", body, nil)
}

func (c *HTTPClient) Verify(ctx context.Context, token string) (Session, error) {
	var res struct {
		Users []sessionResponse `json:"users"`
	}
	if err := c.post(ctx, "/accounts:lookup", map[string]string{"idToken": token}, &res); err != nil {
		return Session{}, err
	}
	if len(res.Users) == 0 {
		return Session{}, &Error{Code: "INVALID_ID_TOKEN"}
	}
	return Session{UserID: res.Users[0].LocalID, Token: token, Email: res.Users[0].Email}, nil
}

func (c *HTTPClient) ReadDocument(ctx context.Context, userID string, out any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.documentURL(userID), nil)
	if err != nil {
		return false, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("auth: read document for %s: %w", userID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("auth: read document for %s: unexpected status %d", userID, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, fmt.Errorf("auth: decode document for %s: %w", userID, err)
	}
	return true, nil
}

func (c *HTTPClient) WriteDocument(ctx context.Context, userID string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("auth: marshal document for %s: %w", userID, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.documentURL(userID), bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("auth: write document for %s: %w", userID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("auth: write document for %s: unexpected status %d", userID, resp.StatusCode)
	}
	return nil
}

func (c *HTTPClient) credentialCall(ctx context.Context, path, email, password string) (Session, error) {
	var res sessionResponse
	if err := c.post(ctx, path, credentialsRequest{Email: email, Password: password}, &res); err != nil {
		return Session{}, err
	}
	return Session{UserID: res.LocalID, Token: res.IDToken, Email: res.Email}, nil
}

func (c *HTTPClient) post(ctx context.Context, path string, body, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}

	u := c.baseURL + path
	if c.apiKey != "" {
		u += "?key=" + url.QueryEscape(c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("auth: call %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var er errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&er)
		if er.Error.Message != "" {
			return &Error{Code: er.Error.Message}
		}
		return fmt.Errorf("auth: call %s: unexpected status %d", path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *HTTPClient) documentURL(userID string) string {
	return fmt.Sprintf("%s/documents/profiles/%s", c.baseURL, url.PathEscape(userID))
}
