//
// Copyright (C) 2025 garmin-mcp-poke authors.  All rights reserved.
//
// garmin-mcp-poke is licensed under the Apache License Version 2.0.
//
//

package garmin

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"
)

// OAuth1Token is the long-lived token obtained from the Garmin SSO ticket
// exchange. It is only used to mint OAuth2 access tokens.
type OAuth1Token struct {
	Token    string `json:"oauth_token"`
	Secret   string `json:"oauth_token_secret"`
	MFAToken string `json:"mfa_token,omitempty"`
	Domain   string `json:"domain,omitempty"`
}

// OAuth2Token is the short-lived bearer token sent on every API request.
type OAuth2Token struct {
	Scope                 string `json:"scope"`
	JTI                   string `json:"jti"`
	TokenType             string `json:"token_type"`
	AccessToken           string `json:"access_token"`
	RefreshToken          string `json:"refresh_token"`
	ExpiresIn             int64  `json:"expires_in"`
	ExpiresAt             int64  `json:"expires_at"`
	RefreshTokenExpiresIn int64  `json:"refresh_token_expires_in,omitempty"`
	RefreshTokenExpiresAt int64  `json:"refresh_token_expires_at,omitempty"`
}

// Expired reports whether the access token has passed its expiry time.
func (t *OAuth2Token) Expired() bool {
	return t.ExpiresAt <= time.Now().Unix()
}

// ExpiresWithin reports whether the access token expires inside the window.
// Used to refresh proactively instead of racing the expiry on a request.
func (t *OAuth2Token) ExpiresWithin(window time.Duration) bool {
	return t.ExpiresAt <= time.Now().Add(window).Unix()
}

// Authorization returns the value for the Authorization request header.
func (t *OAuth2Token) Authorization() string {
	return t.TokenType + " " + t.AccessToken
}

// TokenStore is the serialized token pair persisted between runs and
// accepted through the GARMINTOKENS_BASE64 environment variable.
type TokenStore struct {
	OAuth1 *OAuth1Token `json:"oauth1_token"`
	OAuth2 *OAuth2Token `json:"oauth2_token"`
}

// DecodeTokenStore parses a base64-encoded JSON token store.
func DecodeTokenStore(blob string) (*TokenStore, error) {
	data, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return nil, fmt.Errorf("token store is not valid base64: %w", err)
	}
	var store TokenStore
	if err := json.Unmarshal(data, &store); err != nil {
		return nil, fmt.Errorf("token store is not valid JSON: %w", err)
	}
	if store.OAuth1 == nil || store.OAuth1.Token == "" {
		return nil, fmt.Errorf("token store is missing the oauth1 token")
	}
	if store.OAuth2 == nil || store.OAuth2.AccessToken == "" {
		return nil, fmt.Errorf("token store is missing the oauth2 token")
	}
	return &store, nil
}

// Encode serializes the token store back to the base64 form, suitable for
// re-exporting refreshed tokens.
func (s *TokenStore) Encode() (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
