// Package identity is the client for the external identity provider, a
// GoTrue-compatible HTTP API that owns account creation and password
// verification. The core never stores credentials locally.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/zhandos-t/ridelink/internal/domain/models"
	"github.com/zhandos-t/ridelink/pkg/logger"
)

var (
	ErrInvalidCredentials = errors.New("identity provider rejected credentials")
	ErrProviderFailure    = errors.New("identity provider request failed")
)

type Client struct {
	baseURL    string
	serviceKey string
	http       *http.Client
}

func New(baseURL, serviceKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		serviceKey: serviceKey,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type providerError struct {
	Message     string `json:"msg"`
	Description string `json:"error_description"`
}

func (e providerError) text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Description
}

// CreateUser registers an email/password account with the provider and
// returns the stable account id.
func (c *Client) CreateUser(ctx context.Context, email, password string) (string, error) {
	ctx = logger.WithAction(ctx, "identity_create_user")

	body := map[string]any{
		"email":         email,
		"password":      password,
		"email_confirm": true,
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := c.post(ctx, "/admin/users", body, &result); err != nil {
		return "", err
	}
	if result.ID == "" {
		return "", logger.WrapError(ctx, fmt.Errorf("%w: empty account id", ErrProviderFailure))
	}

	return result.ID, nil
}

// SignInWithPassword verifies credentials with the provider and returns the
// token pair plus the stable account id.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*models.TokenPair, string, error) {
	ctx = logger.WithAction(ctx, "identity_sign_in")

	body := map[string]any{
		"email":    email,
		"password": password,
	}

	var result struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		User         struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	if err := c.post(ctx, "/token?grant_type=password", body, &result); err != nil {
		return nil, "", err
	}

	tokens := &models.TokenPair{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	}
	return tokens, result.User.ID, nil
}

func (c *Client) post(ctx context.Context, path string, body, dst any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return logger.WrapError(ctx, fmt.Errorf("%w: encode request: %v", ErrProviderFailure, err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return logger.WrapError(ctx, fmt.Errorf("%w: build request: %v", ErrProviderFailure, err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return logger.WrapError(ctx, fmt.Errorf("%w: %v", ErrProviderFailure, err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
			return logger.WrapError(ctx, fmt.Errorf("%w: decode response: %v", ErrProviderFailure, err))
		}
		return nil

	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusBadRequest:
		var pErr providerError
		_ = json.NewDecoder(resp.Body).Decode(&pErr)
		if msg := pErr.text(); msg != "" {
			return logger.WrapError(ctx, fmt.Errorf("%w: %s", ErrInvalidCredentials, msg))
		}
		return logger.WrapError(ctx, ErrInvalidCredentials)

	default:
		var pErr providerError
		_ = json.NewDecoder(resp.Body).Decode(&pErr)
		if msg := pErr.text(); msg != "" {
			return logger.WrapError(ctx, fmt.Errorf("%w: %s", ErrProviderFailure, msg))
		}
		return logger.WrapError(ctx, fmt.Errorf("%w: unexpected status %d", ErrProviderFailure, resp.StatusCode))
	}
}
