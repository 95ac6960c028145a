// Package identity wraps the external identity provider's REST API
// (sign-in and sign-up with email/password). Responses are decoded into
// explicit structs at this boundary; nothing loosely typed leaves the
// package.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"vfcarvalho/meu-treino/internal/config"
)

// Default request timeout against the provider.
const defaultTimeout = 30 * time.Second

// Credentials is what a successful sign-in (or sign-up) returns.
type Credentials struct {
	Email        string
	UserID       string
	IDToken      string
	RefreshToken string
}

// AuthError means the provider rejected the request (wrong password,
// duplicate email, weak password, ...). Message is the provider's own
// error code, shown verbatim to the user.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return "identity provider: " + e.Message
}

// Client calls the identity provider's REST endpoints.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient builds a client from the identity section of the config.
func NewClient(cfg config.IdentityConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Wire formats of the provider API.

type authRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type authResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// SignIn exchanges email/password for tokens. A provider rejection comes
// back as *AuthError; network or timeout failures come back wrapped, so
// callers can tell the two apart.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Credentials, error) {
	return c.post(ctx, "accounts:signInWithPassword", email, password)
}

// SignUp creates a new account with the provider. Success only signals
// account creation; the caller still has to sign in.
func (c *Client) SignUp(ctx context.Context, email, password string) (*Credentials, error) {
	return c.post(ctx, "accounts:signUp", email, password)
}

func (c *Client) post(ctx context.Context, endpoint, email, password string) (*Credentials, error) {
	body, err := json.Marshal(authRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	})
	if err != nil {
		return nil, fmt.Errorf("identity: encode request: %w", err)
	}

	url := fmt.Sprintf("%s/%s?key=%s", c.baseURL, endpoint, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("identity: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeProviderError(resp)
	}

	var ar authResponse
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		return nil, fmt.Errorf("identity: decode response: %w", err)
	}

	creds := &Credentials{
		Email:        ar.Email,
		UserID:       ar.LocalID,
		IDToken:      ar.IDToken,
		RefreshToken: ar.RefreshToken,
	}
	if creds.Email == "" {
		creds.Email = email
	}
	return creds, nil
}

// decodeProviderError extracts error.message from a non-2xx body,
// falling back to "unknown" when the body carries no message.
func decodeProviderError(resp *http.Response) error {
	var er errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil || er.Error.Message == "" {
		return &AuthError{Message: "unknown"}
	}
	return &AuthError{Message: er.Error.Message}
}
