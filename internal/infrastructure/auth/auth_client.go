package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"modelstash.io/cli/internal/core/domain"
)

// AuthClient talks to the Modelstash auth endpoints. It deliberately uses a
// plain HTTP client: auth calls must never recurse into the authenticated
// request pipeline.
type AuthClient struct {
	apiEndpoint string
	httpClient  *http.Client
}

// NewAuthClient creates an auth client for the given API endpoint.
func NewAuthClient(apiEndpoint string) *AuthClient {
	return &AuthClient{
		apiEndpoint: apiEndpoint,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Refresh exchanges a refresh token for a rotated token pair.
func (c *AuthClient) Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	body := map[string]string{
		"refreshToken": refreshToken,
	}
	return c.postForTokens(ctx, "/auth/refresh", body)
}

// Login exchanges user credentials for an initial token pair.
func (c *AuthClient) Login(ctx context.Context, email, password string) (domain.TokenPair, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}
	return c.postForTokens(ctx, "/auth/login", body)
}

func (c *AuthClient) postForTokens(ctx context.Context, path string, body map[string]string) (domain.TokenPair, error) {
	requestBody, err := json.Marshal(body)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.apiEndpoint + path
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(requestBody))
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "modelstash-cli/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return domain.TokenPair{}, fmt.Errorf("auth request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var pair domain.TokenPair
	if err := json.NewDecoder(resp.Body).Decode(&pair); err != nil {
		return domain.TokenPair{}, fmt.Errorf("failed to decode response: %w", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		return domain.TokenPair{}, fmt.Errorf("auth response missing tokens")
	}

	return pair, nil
}
