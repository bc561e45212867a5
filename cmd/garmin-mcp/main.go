//
// Copyright (C) 2025 garmin-mcp-poke authors.  All rights reserved.
//
// garmin-mcp-poke is licensed under the Apache License Version 2.0.
//
//

// Package main runs the Garmin Connect MCP server.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/theol0403/garmin-mcp-poke/internal/garmin"
	"github.com/theol0403/garmin-mcp-poke/log"
	"github.com/theol0403/garmin-mcp-poke/server"
)

var cfg struct {
	Host     string `help:"Address to bind the HTTP server to" env:"HOST" default:"0.0.0.0"`
	Port     int    `help:"Port to listen on" env:"PORT" default:"8000"`
	LogLevel string `help:"Log level (debug, info, warn, error)" env:"LOG_LEVEL" default:"info"`

	Tokens   string `help:"Base64-encoded Garmin OAuth token store" env:"GARMINTOKENS_BASE64" default:""`
	Email    string `help:"Garmin Connect account email" env:"GARMIN_EMAIL" default:""`
	Password string `help:"Garmin Connect account password" env:"GARMIN_PASSWORD" default:""`
}

func main() {
	// A local .env is optional; environment variables win either way.
	_ = godotenv.Load()
	kong.Parse(&cfg)
	log.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := garmin.Dial(ctx, garmin.Config{
		TokenStoreBase64: cfg.Tokens,
		Email:            cfg.Email,
		Password:         cfg.Password,
	})
	if err != nil {
		log.Errorf("Garmin authentication failed: %v", err)
		os.Exit(1)
	}
	log.Info("Authenticated with Garmin Connect")

	opts := server.Options{Host: cfg.Host, Port: cfg.Port}
	s := server.New(client, opts)
	if err := server.Serve(ctx, s, opts); err != nil {
		log.Errorf("Server error: %v", err)
		os.Exit(1)
	}
}
