package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"sonarqube-mcp/internal/sonar"
)

// RegisterIssueTools registers the issue search tools.
func RegisterIssueTools(s *server.MCPServer, c *sonar.Client) {
	s.AddTool(getIssuesTool(), handleGetIssues(c))
	s.AddTool(getIssuesAuthorsTool(), handleGetIssuesAuthors(c))
}

func getIssuesTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Search for issues in SonarQube projects with detailed filters."),
		mcp.WithString("additional_fields",
			mcp.Description("Comma-separated fields to include: _all, comments, languages, rules, ruleDescriptionContextKey, transitions, actions, users.")),
		mcp.WithBoolean("assigned",
			mcp.Description("True for assigned issues, false for unassigned.")),
		mcp.WithString("assignees",
			mcp.Description("Comma-separated assignee logins (e.g. 'user1,__me__').")),
		mcp.WithString("authors",
			mcp.Description("Comma-separated SCM author accounts.")),
		mcp.WithString("components",
			mcp.Description("Comma-separated component keys: project, module, directory (project_key:dir) or file (project_key:path).")),
		mcp.WithString("issue_statuses",
			mcp.Description("Comma-separated statuses: OPEN, CONFIRMED, FALSE_POSITIVE, ACCEPTED, FIXED.")),
		mcp.WithString("issues",
			mcp.Description("Comma-separated issue keys.")),
		mcp.WithString("resolutions",
			mcp.Description("Comma-separated resolutions: FALSE-POSITIVE, WONTFIX, FIXED, REMOVED.")),
		mcp.WithBoolean("resolved",
			mcp.Description("True for resolved issues, false for unresolved.")),
		mcp.WithString("scopes",
			mcp.Description("Comma-separated scopes: MAIN, TEST.")),
		mcp.WithString("severities",
			mcp.Description("Comma-separated severities: INFO, MINOR, MAJOR, CRITICAL, BLOCKER.")),
		mcp.WithString("tags",
			mcp.Description("Comma-separated tags (e.g. 'security,bug').")),
		mcp.WithString("types",
			mcp.Description("Comma-separated types: CODE_SMELL, BUG, VULNERABILITY.")),
	}
	return mcp.NewTool("get_issues", withPagination(opts)...)
}

func handleGetIssues(c *sonar.Client) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		assigned, err := optionalBool(req, "assigned")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		resolved, err := optionalBool(req, "resolved")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		page, pageSize := pagination(req)
		return forward(c.SearchIssues(ctx, sonar.IssueFilter{
			AdditionalFields: req.GetString("additional_fields", ""),
			Assigned:         assigned,
			Assignees:        req.GetString("assignees", ""),
			Authors:          req.GetString("authors", ""),
			Components:       req.GetString("components", ""),
			IssueStatuses:    req.GetString("issue_statuses", ""),
			Issues:           req.GetString("issues", ""),
			Resolutions:      req.GetString("resolutions", ""),
			Resolved:         resolved,
			Scopes:           req.GetString("scopes", ""),
			Severities:       req.GetString("severities", ""),
			Tags:             req.GetString("tags", ""),
			Types:            req.GetString("types", ""),
			Page:             page,
			PageSize:         pageSize,
		}))
	}
}

func getIssuesAuthorsTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Retrieve SCM authors of issues for a SonarQube project."),
		mcp.WithString("project_key",
			mcp.Description("Project key to filter authors (e.g. 'my_project').")),
	}
	return mcp.NewTool("get_issues_authors", withPagination(opts)...)
}

func handleGetIssuesAuthors(c *sonar.Client) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		page, pageSize := pagination(req)
		return forward(c.IssueAuthors(ctx, req.GetString("project_key", ""), page, pageSize))
	}
}
