package domain

import "time"

// TokenPair is what a successful login returns: the short-lived access token
// presented per request and the longer-lived refresh token used solely to
// mint new access tokens.
type TokenPair struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	TokenType    string        `json:"token_type,omitempty"` // "Bearer"
	ExpiresIn    time.Duration `json:"expires_in"`           // access token lifetime
}

// RevokedToken records a refresh token revoked before its natural expiry.
// Rows persist until the token would have expired anyway; housekeeping then
// removes them so the set never grows without bound.
type RevokedToken struct {
	JTI       string // the refresh token's jti claim
	ExpiresAt time.Time
	RevokedAt time.Time
}
