//
// Copyright (C) 2025 garmin-mcp-poke authors.  All rights reserved.
//
// garmin-mcp-poke is licensed under the Apache License Version 2.0.
//
//

package garmin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/theol0403/garmin-mcp-poke/log"
)

const (
	ssoBaseURL   = "https://sso.garmin.com/sso"
	ssoEmbedURL  = ssoBaseURL + "/embed"
	ssoSigninURL = ssoBaseURL + "/signin"

	exchangePath     = "/oauth-service/oauth/exchange/user/2.0"
	preauthorizePath = "/oauth-service/oauth/preauthorized"

	// Refresh the access token slightly before it actually expires.
	refreshWindow = 5 * time.Minute
)

var (
	csrfRe   = regexp.MustCompile(`name="_csrf"\s+value="(.+?)"`)
	ticketRe = regexp.MustCompile(`embed\?ticket=([^"]+)"`)
	titleRe  = regexp.MustCompile(`<title>(.+?)</title>`)
)

// login performs the Garmin SSO credential flow and returns a full token
// store. MFA-protected accounts cannot complete this flow headlessly; they
// must supply a pre-generated token store instead.
func (c *Client) login(ctx context.Context, email, password string) (*TokenStore, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	sso := &http.Client{Jar: jar, Timeout: c.httpClient.Timeout}

	embedParams := url.Values{
		"id":          {"gauth-widget"},
		"embedWidget": {"true"},
		"gauthHost":   {ssoBaseURL},
	}
	if _, err := c.ssoGet(ctx, sso, ssoEmbedURL+"?"+embedParams.Encode()); err != nil {
		return nil, fmt.Errorf("sso embed: %w", err)
	}

	signinParams := url.Values{
		"id":                              {"gauth-widget"},
		"embedWidget":                     {"true"},
		"gauthHost":                       {ssoEmbedURL},
		"service":                         {ssoEmbedURL},
		"source":                          {ssoEmbedURL},
		"redirectAfterAccountLoginUrl":    {ssoEmbedURL},
		"redirectAfterAccountCreationUrl": {ssoEmbedURL},
	}
	signinURL := ssoSigninURL + "?" + signinParams.Encode()
	page, err := c.ssoGet(ctx, sso, signinURL)
	if err != nil {
		return nil, fmt.Errorf("sso signin page: %w", err)
	}
	csrf := firstMatch(csrfRe, page)
	if csrf == "" {
		return nil, fmt.Errorf("could not locate CSRF token on the sign-in page")
	}

	form := url.Values{
		"username": {email},
		"password": {password},
		"embed":    {"true"},
		"_csrf":    {csrf},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, signinURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Referer", signinURL)
	req.Header.Set("User-Agent", browserUserAgent)
	resp, err := sso.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sso signin: %w", err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, err
	}
	page = string(body)

	if title := firstMatch(titleRe, page); strings.Contains(title, "MFA") {
		return nil, fmt.Errorf("account requires MFA, which is not supported for " +
			"credential login; generate a token store and set GARMINTOKENS_BASE64 instead")
	}
	ticket := firstMatch(ticketRe, page)
	if ticket == "" {
		return nil, fmt.Errorf("login failed: no service ticket returned " +
			"(check GARMIN_EMAIL and GARMIN_PASSWORD)")
	}
	log.Debugf("Garmin SSO login succeeded, exchanging ticket")

	oauth1, err := c.ticketToOAuth1(ctx, ticket)
	if err != nil {
		return nil, err
	}
	oauth2, err := c.exchange(ctx, oauth1)
	if err != nil {
		return nil, err
	}
	return &TokenStore{OAuth1: oauth1, OAuth2: oauth2}, nil
}

func (c *Client) ssoGet(ctx context.Context, sso *http.Client, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", browserUserAgent)
	resp, err := sso.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}
	return string(body), nil
}

// ticketToOAuth1 trades the SSO service ticket for a long-lived OAuth1 token.
func (c *Client) ticketToOAuth1(ctx context.Context, ticket string) (*OAuth1Token, error) {
	consumer, err := c.consumer()
	if err != nil {
		return nil, err
	}
	params := url.Values{
		"ticket":             {ticket},
		"login-url":          {ssoEmbedURL},
		"accepts-mfa-tokens": {"true"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+preauthorizePath+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", mobileUserAgent)
	if err := signOAuth1(req, consumer, nil); err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("oauth1 preauthorize: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("oauth1 preauthorize: status %d: %s", resp.StatusCode, body)
	}
	values, err := url.ParseQuery(string(body))
	if err != nil {
		return nil, fmt.Errorf("oauth1 preauthorize: malformed response: %w", err)
	}
	token := &OAuth1Token{
		Token:  values.Get("oauth_token"),
		Secret: values.Get("oauth_token_secret"),
	}
	if token.Token == "" || token.Secret == "" {
		return nil, fmt.Errorf("oauth1 preauthorize: response missing token pair")
	}
	return token, nil
}

// exchange mints a fresh OAuth2 bearer token from the OAuth1 token.
func (c *Client) exchange(ctx context.Context, oauth1 *OAuth1Token) (*OAuth2Token, error) {
	consumer, err := c.consumer()
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+exchangePath, strings.NewReader(""))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", mobileUserAgent)
	if err := signOAuth1(req, consumer, oauth1); err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("oauth2 exchange: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("oauth2 exchange: status %d: %s "+
			"(the stored tokens may have expired; regenerate them)", resp.StatusCode, body)
	}
	var token OAuth2Token
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, fmt.Errorf("oauth2 exchange: malformed response: %w", err)
	}
	now := time.Now().Unix()
	token.ExpiresAt = now + token.ExpiresIn
	if token.RefreshTokenExpiresIn > 0 {
		token.RefreshTokenExpiresAt = now + token.RefreshTokenExpiresIn
	}
	return &token, nil
}

// ensureFresh refreshes the OAuth2 token when it is close to expiry.
// Safe for concurrent callers.
func (c *Client) ensureFresh(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tokens.OAuth2 != nil && !c.tokens.OAuth2.ExpiresWithin(refreshWindow) {
		return nil
	}
	log.Debug("Garmin access token near expiry, refreshing")
	token, err := c.exchange(ctx, c.tokens.OAuth1)
	if err != nil {
		return fmt.Errorf("refresh access token: %w", err)
	}
	c.tokens.OAuth2 = token
	return nil
}

func (c *Client) consumer() (*oauthConsumer, error) {
	c.consumerOnce.Do(func() {
		c.oauthConsumer, c.consumerErr = fetchConsumer(c.httpClient)
	})
	return c.oauthConsumer, c.consumerErr
}

func firstMatch(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}
