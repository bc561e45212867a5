//
// Copyright (C) 2025 garmin-mcp-poke authors.  All rights reserved.
//
// garmin-mcp-poke is licensed under the Apache License Version 2.0.
//
//

package garmin

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"
)

// consumerURL serves the public OAuth consumer credentials used by the
// Garmin Connect mobile clients.
const consumerURL = "https://thegarth.s3.amazonaws.com/oauth_consumer.json"

// oauthConsumer holds the consumer key/secret pair for OAuth1 signing.
type oauthConsumer struct {
	Key    string `json:"consumer_key"`
	Secret string `json:"consumer_secret"`
}

// fetchConsumer downloads the OAuth consumer credentials. Called once per
// client and cached; only needed for the OAuth1 -> OAuth2 exchange.
func fetchConsumer(client *http.Client) (*oauthConsumer, error) {
	resp, err := client.Get(consumerURL)
	if err != nil {
		return nil, fmt.Errorf("fetch oauth consumer: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch oauth consumer: status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch oauth consumer: %w", err)
	}
	var consumer oauthConsumer
	if err := json.Unmarshal(body, &consumer); err != nil {
		return nil, fmt.Errorf("parse oauth consumer: %w", err)
	}
	if consumer.Key == "" || consumer.Secret == "" {
		return nil, fmt.Errorf("oauth consumer document is incomplete")
	}
	return &consumer, nil
}

// signOAuth1 adds an OAuth1 HMAC-SHA1 Authorization header to req.
// Only the token-exchange endpoints need OAuth1; everything else uses the
// OAuth2 bearer token.
func signOAuth1(req *http.Request, consumer *oauthConsumer, token *OAuth1Token) error {
	nonce, err := randomNonce()
	if err != nil {
		return err
	}
	oauthParams := map[string]string{
		"oauth_consumer_key":     consumer.Key,
		"oauth_nonce":            nonce,
		"oauth_signature_method": "HMAC-SHA1",
		"oauth_timestamp":        fmt.Sprintf("%d", time.Now().Unix()),
		"oauth_version":          "1.0",
	}
	if token != nil && token.Token != "" {
		oauthParams["oauth_token"] = token.Token
	}

	// Signature base string covers both the oauth_* params and the query.
	all := map[string]string{}
	for k, v := range oauthParams {
		all[k] = v
	}
	for k, vs := range req.URL.Query() {
		if len(vs) > 0 {
			all[k] = vs[0]
		}
	}
	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, percentEncode(k)+"="+percentEncode(all[k]))
	}
	baseURL := req.URL.Scheme + "://" + req.URL.Host + req.URL.Path
	base := strings.Join([]string{
		req.Method,
		percentEncode(baseURL),
		percentEncode(strings.Join(pairs, "&")),
	}, "&")

	signingKey := percentEncode(consumer.Secret) + "&"
	if token != nil {
		signingKey += percentEncode(token.Secret)
	}
	mac := hmac.New(sha1.New, []byte(signingKey))
	mac.Write([]byte(base))
	oauthParams["oauth_signature"] = base64.StdEncoding.EncodeToString(mac.Sum(nil))

	hdrKeys := make([]string, 0, len(oauthParams))
	for k := range oauthParams {
		hdrKeys = append(hdrKeys, k)
	}
	sort.Strings(hdrKeys)
	hdrPairs := make([]string, 0, len(hdrKeys))
	for _, k := range hdrKeys {
		hdrPairs = append(hdrPairs, fmt.Sprintf("%s=%q", percentEncode(k), percentEncode(oauthParams[k])))
	}
	req.Header.Set("Authorization", "OAuth "+strings.Join(hdrPairs, ", "))
	return nil
}

func randomNonce() (string, error) {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	return hex.EncodeToString(buf[:]), nil
}

// percentEncode implements RFC 3986 encoding as required by the OAuth1
// signature base string. url.QueryEscape is close but encodes spaces as
// '+' and leaves '~' untouched differently.
func percentEncode(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') ||
			(c >= '0' && c <= '9') || c == '-' || c == '.' || c == '_' || c == '~' {
			b.WriteByte(c)
		} else {
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}
