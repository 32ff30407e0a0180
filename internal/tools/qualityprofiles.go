package tools

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"sonarqube-mcp/internal/sonar"
)

// RegisterQualityProfileTools registers the quality profile tools.
func RegisterQualityProfileTools(s *server.MCPServer, c *sonar.Client) {
	s.AddTool(
		profileProjectTool("add_quality_profile_project",
			"Associate a quality profile with a project in SonarQube."),
		handleProfileProject(c.AddQualityProfileProject),
	)
	s.AddTool(
		profileProjectTool("remove_quality_profile_project",
			"Remove a quality profile association from a project in SonarQube."),
		handleProfileProject(c.RemoveQualityProfileProject),
	)
	s.AddTool(getQualityProfilesTool(), handleGetQualityProfiles(c))
}

func profileProjectTool(name, description string) mcp.Tool {
	return mcp.NewTool(name,
		mcp.WithDescription(description),
		mcp.WithString("language",
			mcp.Required(),
			mcp.Description("Programming language of the profile (e.g. 'java', 'py').")),
		mcp.WithString("project_key",
			mcp.Required(),
			mcp.Description("Key of the project (e.g. 'my_project').")),
		mcp.WithString("quality_profile",
			mcp.Required(),
			mcp.Description("Name of the quality profile (e.g. 'Sonar way').")),
	)
}

func handleProfileProject(call func(ctx context.Context, language, projectKey, qualityProfile string) (json.RawMessage, error)) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		language, err := req.RequireString("language")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		projectKey, err := req.RequireString("project_key")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		qualityProfile, err := req.RequireString("quality_profile")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return forward(call(ctx, language, projectKey, qualityProfile))
	}
}

func getQualityProfilesTool() mcp.Tool {
	return mcp.NewTool("get_quality_profiles",
		mcp.WithDescription("Retrieve SonarQube quality profiles."),
		mcp.WithBoolean("defaults",
			mcp.Description("If true, return default profiles only."),
			mcp.DefaultBool(false)),
		mcp.WithString("language",
			mcp.Description("Filter by programming language (e.g. 'java', 'py').")),
		mcp.WithString("project_key",
			mcp.Description("Filter by project key.")),
	)
}

func handleGetQualityProfiles(c *sonar.Client) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return forward(c.QualityProfiles(ctx,
			req.GetBool("defaults", false),
			req.GetString("language", ""),
			req.GetString("project_key", "")))
	}
}
