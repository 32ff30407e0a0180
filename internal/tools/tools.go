// Package tools exposes every SonarQube capability as an MCP tool. Each tool
// validates its own input shape and forwards verbatim to the client in
// internal/sonar; the protocol framing itself lives in mcp-go.
package tools

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"sonarqube-mcp/internal/sonar"
)

// RegisterAll registers the full tool surface on the MCP server.
func RegisterAll(s *server.MCPServer, c *sonar.Client) {
	RegisterIssueTools(s, c)
	RegisterRuleTools(s, c)
	RegisterHotspotTools(s, c)
	RegisterMetricTools(s, c)
	RegisterProjectTools(s, c)
	RegisterPermissionTools(s, c)
	RegisterQualityProfileTools(s, c)
	RegisterSourceTools(s, c)
}

// forward converts a client call outcome into a tool result. Client errors
// surface as tool-level failures carrying the taxonomy kind, never as
// protocol faults.
func forward(raw json.RawMessage, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(raw)), nil
}

// pagination reads the shared page/page_size arguments with their defaults.
// Bounds are enforced by the client before any network call.
func pagination(req mcp.CallToolRequest) (page, pageSize int) {
	return req.GetInt("page", 1), req.GetInt("page_size", sonar.MaxPageSize)
}

// optionalBool reads a tristate boolean argument: absent stays nil so the
// filter is omitted from the request.
func optionalBool(req mcp.CallToolRequest, key string) (*bool, error) {
	v, ok := req.GetArguments()[key]
	if !ok || v == nil {
		return nil, nil
	}
	b, ok := v.(bool)
	if !ok {
		return nil, fmt.Errorf("%s must be a boolean", key)
	}
	return &b, nil
}

// optionalInt reads an optional integer argument; absent stays nil.
func optionalInt(req mcp.CallToolRequest, key string) (*int, error) {
	v, ok := req.GetArguments()[key]
	if !ok || v == nil {
		return nil, nil
	}
	f, ok := v.(float64)
	if !ok {
		return nil, fmt.Errorf("%s must be a number", key)
	}
	n := int(f)
	return &n, nil
}

// withPagination appends the shared page/page_size properties to a tool
// definition.
func withPagination(opts []mcp.ToolOption) []mcp.ToolOption {
	return append(opts,
		mcp.WithNumber("page",
			mcp.Description("Page number for pagination (positive integer)."),
			mcp.DefaultNumber(1),
			mcp.Min(1)),
		mcp.WithNumber("page_size",
			mcp.Description("Number of results per page (positive integer, max 20)."),
			mcp.DefaultNumber(sonar.MaxPageSize),
			mcp.Min(1),
			mcp.Max(sonar.MaxPageSize)),
	)
}
