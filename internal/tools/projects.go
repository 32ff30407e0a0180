package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"sonarqube-mcp/internal/sonar"
)

// RegisterProjectTools registers the project management and search tools.
func RegisterProjectTools(s *server.MCPServer, c *sonar.Client) {
	s.AddTool(createProjectTool(), handleCreateProject(c))
	s.AddTool(getProjectsTool(), handleGetProjects(c))
	s.AddTool(getUserProjectsTool(), handleGetUserProjects(c))
	s.AddTool(getUserScannableProjectsTool(), handleGetUserScannableProjects(c))
	s.AddTool(getProjectAnalysesTool(), handleGetProjectAnalyses(c))
}

func createProjectTool() mcp.Tool {
	return mcp.NewTool("create_project",
		mcp.WithDescription("Create a new SonarQube project."),
		mcp.WithString("project_name",
			mcp.Required(),
			mcp.Description("Name of the project (max 500 characters).")),
		mcp.WithString("project_key",
			mcp.Required(),
			mcp.Description("Unique key identifier for the project (max 400 characters).")),
		mcp.WithString("main_branch",
			mcp.Description("Name of the main branch."),
			mcp.DefaultString("main")),
		mcp.WithString("new_code_definition_type",
			mcp.Description("Type of new code definition: PREVIOUS_VERSION, NUMBER_OF_DAYS, REFERENCE_BRANCH.")),
		mcp.WithString("new_code_definition_value",
			mcp.Description("Value for the new code definition (number 1-90 for NUMBER_OF_DAYS).")),
	)
}

func handleCreateProject(c *sonar.Client) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := req.RequireString("project_name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		key, err := req.RequireString("project_key")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return forward(c.CreateProject(ctx, sonar.CreateProjectParams{
			Name:                   name,
			Key:                    key,
			MainBranch:             req.GetString("main_branch", "main"),
			NewCodeDefinitionType:  req.GetString("new_code_definition_type", ""),
			NewCodeDefinitionValue: req.GetString("new_code_definition_value", ""),
		}))
	}
}

func getProjectsTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Search for SonarQube projects with optional name or key filtering."),
		mcp.WithString("projects",
			mcp.Description("Comma-separated list of project keys (e.g. 'proj1,proj2').")),
		mcp.WithString("search",
			mcp.Description("Partial project name or key to filter results.")),
		mcp.WithString("analyzed_before",
			mcp.Description("Filter projects with last analysis before this date (YYYY-MM-DD or YYYY-MM-DDThh:mm:ssZ).")),
	}
	return mcp.NewTool("get_projects", withPagination(opts)...)
}

func handleGetProjects(c *sonar.Client) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		page, pageSize := pagination(req)
		return forward(c.SearchProjects(ctx, sonar.ProjectFilter{
			Projects:       req.GetString("projects", ""),
			Search:         req.GetString("search", ""),
			AnalyzedBefore: req.GetString("analyzed_before", ""),
			Page:           page,
			PageSize:       pageSize,
		}))
	}
}

func getUserProjectsTool() mcp.Tool {
	return mcp.NewTool("get_user_projects", withPagination([]mcp.ToolOption{
		mcp.WithDescription("List projects accessible to the authenticated user."),
	})...)
}

func handleGetUserProjects(c *sonar.Client) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		page, pageSize := pagination(req)
		return forward(c.UserProjects(ctx, page, pageSize))
	}
}

func getUserScannableProjectsTool() mcp.Tool {
	return mcp.NewTool("get_user_scannable_projects",
		mcp.WithDescription("List projects the authenticated user can scan."),
		mcp.WithString("search",
			mcp.Description("Partial project name or key to filter results.")),
	)
}

func handleGetUserScannableProjects(c *sonar.Client) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return forward(c.ScannableProjects(ctx, req.GetString("search", "")))
	}
}

func getProjectAnalysesTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("List analyses for a SonarQube project with optional filters."),
		mcp.WithString("project_key",
			mcp.Required(),
			mcp.Description("Key of the project (e.g. 'my_project').")),
		mcp.WithString("category",
			mcp.Description("Event category filter: VERSION, OTHER, QUALITY_PROFILE, QUALITY_GATE, DEFINITION_CHANGE, ISSUE_DETECTION, SQ_UPGRADE.")),
	}
	return mcp.NewTool("get_project_analyses", withPagination(opts)...)
}

func handleGetProjectAnalyses(c *sonar.Client) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectKey, err := req.RequireString("project_key")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		page, pageSize := pagination(req)
		return forward(c.ProjectAnalyses(ctx, projectKey, req.GetString("category", ""), page, pageSize))
	}
}
