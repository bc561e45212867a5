//
// Copyright (C) 2025 garmin-mcp-poke authors.  All rights reserved.
//
// garmin-mcp-poke is licensed under the Apache License Version 2.0.
//
//

package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/theol0403/garmin-mcp-poke/internal/garmin"
)

func testClient() *garmin.Client {
	store := &garmin.TokenStore{
		OAuth1: &garmin.OAuth1Token{Token: "t", Secret: "s"},
		OAuth2: &garmin.OAuth2Token{
			TokenType:   "Bearer",
			AccessToken: "access",
			ExpiresAt:   time.Now().Add(time.Hour).Unix(),
		},
	}
	return garmin.NewWithTokens(store, "http://127.0.0.1:0", nil)
}

func TestNewRegistersWithoutPanic(t *testing.T) {
	s := New(testClient(), Options{Host: "127.0.0.1", Port: 8080})
	require.NotNil(t, s)
}

func TestHandlerHealthz(t *testing.T) {
	s := New(testClient(), Options{Host: "127.0.0.1", Port: 0})
	srv := httptest.NewServer(Handler(s))
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := gjson.ParseBytes(body)
	assert.Equal(t, "ok", out.Get("status").String())
	assert.Equal(t, "Garmin MCP Server", out.Get("server").String())
	assert.Equal(t, Version, out.Get("version").String())
}

func TestHandlerHealthzRejectsPost(t *testing.T) {
	s := New(testClient(), Options{Host: "127.0.0.1", Port: 0})
	srv := httptest.NewServer(Handler(s))
	t.Cleanup(srv.Close)

	resp, err := http.Post(srv.URL+"/healthz", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
