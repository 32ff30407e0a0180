// Package server wires the SonarQube client and the MCP tool surface
// together. It is the composition root: concrete dependencies are created
// here and injected into the tools, and nothing else lives here.
package server

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"sonarqube-mcp/internal/config"
	"sonarqube-mcp/internal/sonar"
	"sonarqube-mcp/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New resolves credentials, creates the client session, and returns an MCP
// server with every tool registered. Client creation verifies connectivity
// and authentication against the SonarQube server; a failure here must stop
// the hosting process, since every tool depends on the session.
func New(ctx context.Context, cfg *config.Config) (*server.MCPServer, *sonar.Client, error) {
	creds, err := sonar.ResolveCredentials(cfg.Token, cfg.Username, cfg.Password, cfg.Organization)
	if err != nil {
		return nil, nil, err
	}

	client, err := sonar.NewClient(ctx, cfg.URL, creds,
		sonar.WithTimeout(time.Duration(cfg.RequestTimeout)*time.Second))
	if err != nil {
		return nil, nil, fmt.Errorf("sonarqube session: %w", err)
	}

	s := server.NewMCPServer(
		"sonarqube-mcp",
		Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	tools.RegisterAll(s, client)

	return s, client, nil
}
