package cli

import (
	"fmt"
	"log"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"sonarqube-mcp/internal/config"
	"sonarqube-mcp/internal/server"
)

var (
	serveTransport string
	serveAddr      string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Serve connects to the configured SonarQube server, verifies the
credentials, and starts the MCP server on the chosen transport.

Transports:
  stdio            JSON-RPC over stdin/stdout (default; for MCP hosts)
  sse              Server-Sent Events over HTTP
  streamable-http  Streamable HTTP

Startup fails if the SonarQube server is unreachable or rejects the
credentials: every tool depends on the session, so the process must not
come up half-broken.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveTransport, "transport", "",
		"transport: stdio, sse, or streamable-http (overrides config)")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "",
		"listen address for HTTP transports (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveTransport != "" {
		cfg.Transport = serveTransport
	}
	if serveAddr != "" {
		cfg.HTTPAddr = serveAddr
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Logs go to stderr: on the stdio transport, stdout carries the
	// protocol stream.
	log.SetOutput(cmd.ErrOrStderr())

	s, client, err := server.New(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	if cfg.Verbose {
		if org := client.Organization(); org != "" {
			log.Printf("connected to %s (organization %s)", cfg.URL, org)
		} else {
			log.Printf("connected to %s", cfg.URL)
		}
	}

	switch cfg.Transport {
	case config.TransportStdio:
		return mcpserver.ServeStdio(s)
	case config.TransportSSE:
		log.Printf("serving MCP over SSE on %s", cfg.HTTPAddr)
		return mcpserver.NewSSEServer(s).Start(cfg.HTTPAddr)
	case config.TransportStreamableHTTP:
		log.Printf("serving MCP over streamable HTTP on %s", cfg.HTTPAddr)
		return mcpserver.NewStreamableHTTPServer(s).Start(cfg.HTTPAddr)
	default:
		return fmt.Errorf("unknown transport: %s", cfg.Transport)
	}
}
