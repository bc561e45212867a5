//
// Copyright (C) 2025 garmin-mcp-poke authors.  All rights reserved.
//
// garmin-mcp-poke is licensed under the Apache License Version 2.0.
//
//

// Package server wires the Garmin toolsets into an MCP server and
// serves it over streamable HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	mcp "trpc.group/trpc-go/trpc-mcp-go"

	"github.com/theol0403/garmin-mcp-poke/internal/garmin"
	"github.com/theol0403/garmin-mcp-poke/log"
	"github.com/theol0403/garmin-mcp-poke/tool/activity"
	"github.com/theol0403/garmin-mcp-poke/tool/bodydata"
	"github.com/theol0403/garmin-mcp-poke/tool/challenge"
	"github.com/theol0403/garmin-mcp-poke/tool/device"
	"github.com/theol0403/garmin-mcp-poke/tool/gear"
	"github.com/theol0403/garmin-mcp-poke/tool/health"
	"github.com/theol0403/garmin-mcp-poke/tool/training"
	"github.com/theol0403/garmin-mcp-poke/tool/userprofile"
	"github.com/theol0403/garmin-mcp-poke/tool/weight"
	"github.com/theol0403/garmin-mcp-poke/tool/womenshealth"
	"github.com/theol0403/garmin-mcp-poke/tool/workout"
)

const (
	serverName = "Garmin MCP Server"
	// Version is the server version reported during MCP initialization.
	Version = "1.0.0"

	mcpPath         = "/mcp"
	shutdownTimeout = 10 * time.Second
)

// Options configures the HTTP server.
type Options struct {
	Host string
	Port int
}

// registrar is implemented by every toolset package.
type registrar interface {
	Register(s *mcp.Server)
}

func toolsets(client *garmin.Client) []registrar {
	return []registrar{
		activity.NewToolSet(client),
		health.NewToolSet(client),
		training.NewToolSet(client),
		challenge.NewToolSet(client),
		workout.NewToolSet(client),
		device.NewToolSet(client),
		gear.NewToolSet(client),
		weight.NewToolSet(client),
		userprofile.NewToolSet(client),
		bodydata.NewToolSet(client),
		womenshealth.NewToolSet(client),
	}
}

// New builds an MCP server with every Garmin toolset and workout
// template resource registered.
func New(client *garmin.Client, opts Options) *mcp.Server {
	s := mcp.NewServer(
		serverName,
		Version,
		mcp.WithServerAddress(fmt.Sprintf("%s:%d", opts.Host, opts.Port)),
		mcp.WithServerPath(mcpPath),
	)
	for _, ts := range toolsets(client) {
		ts.Register(s)
	}
	return s
}

// Handler returns the full HTTP handler: the MCP endpoint plus a health
// check, with CORS applied.
func Handler(s *mcp.Server) http.Handler {
	r := mux.NewRouter()
	r.PathPrefix(mcpPath).Handler(s.HTTPHandler())
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":"ok","server":%q,"version":%q}`, serverName, Version)
	}).Methods(http.MethodGet)

	return cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowedHeaders: []string{"*"},
	}).Handler(r)
}

// Serve runs the HTTP server until ctx is canceled, then drains
// in-flight requests.
func Serve(ctx context.Context, s *mcp.Server, opts Options) error {
	addr := fmt.Sprintf("%s:%d", opts.Host, opts.Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: Handler(s),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Garmin MCP server listening on http://%s%s", addr, mcpPath)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info("Shutting down Garmin MCP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}
