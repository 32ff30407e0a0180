package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"sonarqube-mcp/internal/sonar"
)

// RegisterHotspotTools registers the security hotspot tools.
func RegisterHotspotTools(s *server.MCPServer, c *sonar.Client) {
	s.AddTool(getProjectHotspotsTool(), handleGetProjectHotspots(c))
	s.AddTool(getHotspotDetailTool(), handleGetHotspotDetail(c))
}

func getProjectHotspotsTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Retrieve security hotspots in a SonarQube project."),
		mcp.WithString("project_key",
			mcp.Required(),
			mcp.Description("Key of the project (e.g. 'my_project').")),
		mcp.WithString("file_paths",
			mcp.Description("Comma-separated file paths to filter hotspots.")),
		mcp.WithBoolean("only_mine",
			mcp.Description("If true, return only the user's assigned hotspots.")),
		mcp.WithString("resolution",
			mcp.Description("Filter by resolution: FIXED, SAFE, ACKNOWLEDGED.")),
		mcp.WithString("status",
			mcp.Description("Filter by status: TO_REVIEW, REVIEWED.")),
	}
	return mcp.NewTool("get_project_hotspots", withPagination(opts)...)
}

func handleGetProjectHotspots(c *sonar.Client) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectKey, err := req.RequireString("project_key")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		onlyMine, err := optionalBool(req, "only_mine")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		page, pageSize := pagination(req)
		return forward(c.ProjectHotspots(ctx, sonar.HotspotFilter{
			ProjectKey: projectKey,
			FilePaths:  req.GetString("file_paths", ""),
			OnlyMine:   onlyMine,
			Resolution: req.GetString("resolution", ""),
			Status:     req.GetString("status", ""),
			Page:       page,
			PageSize:   pageSize,
		}))
	}
}

func getHotspotDetailTool() mcp.Tool {
	return mcp.NewTool("get_hotspot_detail",
		mcp.WithDescription("Retrieve details of a specific SonarQube security hotspot."),
		mcp.WithString("hotspot_key",
			mcp.Required(),
			mcp.Description("Key of the hotspot.")),
	)
}

func handleGetHotspotDetail(c *sonar.Client) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		hotspotKey, err := req.RequireString("hotspot_key")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return forward(c.HotspotDetails(ctx, hotspotKey))
	}
}
