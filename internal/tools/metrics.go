package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"sonarqube-mcp/internal/sonar"
)

// RegisterMetricTools registers the metric discovery tools.
func RegisterMetricTools(s *server.MCPServer, c *sonar.Client) {
	s.AddTool(
		mcp.NewTool("get_metrics_type",
			mcp.WithDescription("Retrieve all available metric types in SonarQube.")),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return forward(c.MetricTypes(ctx))
		},
	)

	s.AddTool(
		mcp.NewTool("get_metrics", withPagination([]mcp.ToolOption{
			mcp.WithDescription("Retrieve all available metrics in SonarQube with pagination."),
		})...),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			page, pageSize := pagination(req)
			return forward(c.Metrics(ctx, page, pageSize))
		},
	)
}
