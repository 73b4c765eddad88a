package authsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// Session is an authenticated handle on the service. It carries the token
// pair from login and transparently refreshes the access token shortly
// before it expires. Safe for concurrent use.
type Session struct {
	client *Client

	mu           sync.Mutex
	accessToken  string
	refreshToken string
	expiresAt    time.Time
}

func newSession(c *Client, tokens *TokenResponse) *Session {
	return &Session{
		client:       c,
		accessToken:  tokens.AccessToken,
		refreshToken: tokens.RefreshToken,
		// Refresh 30 seconds early so in-flight requests don't race expiry.
		expiresAt: time.Now().Add(time.Duration(tokens.ExpiresIn)*time.Second - 30*time.Second),
	}
}

// AccessToken returns the current access token.
func (s *Session) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken
}

// RefreshToken returns the refresh token from login.
func (s *Session) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshToken
}

// Logout revokes the session's refresh token.
func (s *Session) Logout(ctx context.Context) error {
	return s.client.Logout(ctx, s.RefreshToken())
}

// Me returns the identity behind the session.
func (s *Session) Me(ctx context.Context) (*UserResponse, error) {
	return s.getUser(ctx, "/v1/profile")
}

// UpdateMe applies a partial update to the session's own profile.
func (s *Session) UpdateMe(ctx context.Context, req UpdateUserRequest) (*UserResponse, error) {
	return s.updateUser(ctx, "/v1/profile", req)
}

// ListUsers enumerates all identities. Admin only.
func (s *Session) ListUsers(ctx context.Context) (*UserListResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/users", nil, nil)
	if err != nil {
		return nil, err
	}

	var list UserListResponse
	if err := decodeJSON(resp, &list, http.StatusOK); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetUser fetches an identity by id. Admin or the identity itself.
func (s *Session) GetUser(ctx context.Context, userID string) (*UserResponse, error) {
	return s.getUser(ctx, "/v1/users/"+url.PathEscape(userID))
}

// UpdateUser applies a partial update to an identity. Admin or the identity
// itself.
func (s *Session) UpdateUser(ctx context.Context, userID string, req UpdateUserRequest) (*UserResponse, error) {
	return s.updateUser(ctx, "/v1/users/"+url.PathEscape(userID), req)
}

// DeleteUser removes an identity. Admin or the identity itself.
func (s *Session) DeleteUser(ctx context.Context, userID string) error {
	resp, err := s.doAuthRequest(ctx, http.MethodDelete, "/v1/users/"+url.PathEscape(userID), nil, nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

func (s *Session) getUser(ctx context.Context, path string) (*UserResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	var user UserResponse
	if err := decodeJSON(resp, &user, http.StatusOK); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Session) updateUser(ctx context.Context, path string, req UpdateUserRequest) (*UserResponse, error) {
	encoded, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}

	resp, err := s.doAuthRequest(ctx, http.MethodPatch, path, bytes.NewReader(encoded), map[string]string{
		"Content-Type": "application/json",
	})
	if err != nil {
		return nil, err
	}

	var user UserResponse
	if err := decodeJSON(resp, &user, http.StatusOK); err != nil {
		return nil, err
	}
	return &user, nil
}

// getValidToken returns a live access token, refreshing it when the current
// one is at or past its expiry margin.
func (s *Session) getValidToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if time.Now().Before(s.expiresAt) {
		return s.accessToken, nil
	}

	tokens, err := s.client.Refresh(ctx, s.refreshToken)
	if err != nil {
		return "", fmt.Errorf("failed to refresh access token: %w", err)
	}

	s.accessToken = tokens.AccessToken
	s.expiresAt = time.Now().Add(time.Duration(tokens.ExpiresIn)*time.Second - 30*time.Second)
	return s.accessToken, nil
}

// doAuthRequest performs an authenticated request, refreshing the access
// token first when needed.
func (s *Session) doAuthRequest(
	ctx context.Context,
	method, path string,
	body io.Reader,
	headers map[string]string,
) (*http.Response, error) {
	token, err := s.getValidToken(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, s.client.url(path), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := s.client.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	return resp, nil
}
