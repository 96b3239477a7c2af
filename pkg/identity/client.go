// Package identity wraps the hosted identity provider's REST surface
// (signup, password-grant token, whoami). The provider owns user records and
// credentials; this client never stores or hashes anything locally.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type User struct {
	ID          string
	Email       string
	DisplayName string
}

type Token struct {
	AccessToken string
	TokenType   string
}

// ProviderError surfaces the provider's own status and message so auth flows
// can pass them through to the caller verbatim.
type ProviderError struct {
	Status  int
	Message string
}

func (e *ProviderError) Error() string {
	return e.Message
}

type IClient interface {
	SignUp(ctx context.Context, email, password, displayName string) error
	PasswordGrant(ctx context.Context, email, password string) (*Token, error)
	WhoAmI(ctx context.Context, accessToken string) (*User, error)
}

type Client struct {
	baseURL    string
	anonKey    string
	serviceKey string
	httpClient *http.Client
}

func NewClient(baseURL, anonKey, serviceKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		anonKey:    anonKey,
		serviceKey: serviceKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type signUpRequest struct {
	Email    string                 `json:"email"`
	Password string                 `json:"password"`
	Data     map[string]interface{} `json:"data,omitempty"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type userResponse struct {
	ID           string                 `json:"id"`
	Email        string                 `json:"email"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
}

func (c *Client) SignUp(ctx context.Context, email, password, displayName string) error {
	body := signUpRequest{Email: email, Password: password}
	if displayName != "" {
		body.Data = map[string]interface{}{"display_name": displayName}
	}

	resBody, status, err := c.post(ctx, "/auth/v1/signup", body)
	if err != nil {
		return err
	}
	if status >= 300 {
		return &ProviderError{Status: status, Message: providerMessage(resBody, "signup failed")}
	}
	return nil
}

func (c *Client) PasswordGrant(ctx context.Context, email, password string) (*Token, error) {
	body := map[string]string{"email": email, "password": password}

	resBody, status, err := c.post(ctx, "/auth/v1/token?grant_type=password", body)
	if err != nil {
		return nil, err
	}
	if status >= 300 {
		return nil, &ProviderError{Status: status, Message: providerMessage(resBody, "invalid credentials")}
	}

	var tok tokenResponse
	if err := json.Unmarshal(resBody, &tok); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}
	if tok.AccessToken == "" {
		return nil, &ProviderError{Status: status, Message: "provider returned no access token"}
	}
	if tok.TokenType == "" {
		tok.TokenType = "bearer"
	}
	return &Token{AccessToken: tok.AccessToken, TokenType: tok.TokenType}, nil
}

func (c *Client) WhoAmI(ctx context.Context, accessToken string) (*User, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("whoami request failed: %w", err)
	}
	defer resp.Body.Close()

	resBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, &ProviderError{Status: resp.StatusCode, Message: providerMessage(resBody, "token rejected")}
	}

	var user userResponse
	if err := json.Unmarshal(resBody, &user); err != nil {
		return nil, fmt.Errorf("failed to decode user response: %w", err)
	}
	// A user without a stable id or email is unusable for session state.
	if user.ID == "" || user.Email == "" {
		return nil, &ProviderError{Status: resp.StatusCode, Message: "provider user record missing id or email"}
	}

	return &User{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: displayNameFrom(user.UserMetadata),
	}, nil
}

func (c *Client) post(ctx context.Context, path string, body interface{}) ([]byte, int, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.anonKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	resBody, _ := io.ReadAll(resp.Body)
	return resBody, resp.StatusCode, nil
}

// providerMessage digs the human-readable message out of the provider's error
// body, which is not consistent across endpoints.
func providerMessage(body []byte, fallback string) string {
	var parsed map[string]interface{}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return fallback
	}
	for _, key := range []string{"msg", "message", "error_description", "error"} {
		if v, ok := parsed[key].(string); ok && v != "" {
			return v
		}
	}
	return fallback
}

func displayNameFrom(meta map[string]interface{}) string {
	for _, key := range []string{"display_name", "full_name", "name"} {
		if v, ok := meta[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
