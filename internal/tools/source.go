package tools

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"sonarqube-mcp/internal/sonar"
)

// RegisterSourceTools registers the source code tools, including the
// composite per-file issue report.
func RegisterSourceTools(s *server.MCPServer, c *sonar.Client) {
	s.AddTool(getSourceTool(), handleGetSource(c))
	s.AddTool(getSCMInfoTool(), handleGetSCMInfo(c))
	s.AddTool(getSourceRawTool(), handleGetSourceRaw(c))
	s.AddTool(getSourceIssueSnippetsTool(), handleGetSourceIssueSnippets(c))
	s.AddTool(getFileIssuesInformationTool(), handleGetFileIssuesInformation(c))
}

func fileArgs() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("project_key",
			mcp.Required(),
			mcp.Description("Key of the project (e.g. 'my_project').")),
		mcp.WithString("file_path",
			mcp.Required(),
			mcp.Description("Path to the file within the project (e.g. 'src/main.java').")),
	}
}

// requireFileKey resolves the project_key/file_path pair into a component key.
func requireFileKey(req mcp.CallToolRequest) (string, *mcp.CallToolResult) {
	projectKey, err := req.RequireString("project_key")
	if err != nil {
		return "", mcp.NewToolResultError(err.Error())
	}
	filePath, err := req.RequireString("file_path")
	if err != nil {
		return "", mcp.NewToolResultError(err.Error())
	}
	return sonar.ComponentKey(projectKey, filePath), nil
}

func getSourceTool() mcp.Tool {
	opts := append(fileArgs(),
		mcp.WithDescription("Retrieve source code for a file in a SonarQube project."),
		mcp.WithNumber("start",
			mcp.Description("Starting line number."),
			mcp.Min(1)),
		mcp.WithNumber("end",
			mcp.Description("Ending line number (>= start)."),
			mcp.Min(1)),
	)
	return mcp.NewTool("get_source", opts...)
}

func handleGetSource(c *sonar.Client) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		fileKey, errResult := requireFileKey(req)
		if errResult != nil {
			return errResult, nil
		}
		start, err := optionalInt(req, "start")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		end, err := optionalInt(req, "end")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return forward(c.SourceLines(ctx, fileKey, start, end))
	}
}

func getSCMInfoTool() mcp.Tool {
	opts := append(fileArgs(),
		mcp.WithDescription("Retrieve SCM information for a file in a SonarQube project."),
		mcp.WithNumber("start",
			mcp.Description("Starting line number."),
			mcp.Min(1)),
		mcp.WithNumber("end",
			mcp.Description("Ending line number (>= start)."),
			mcp.Min(1)),
		mcp.WithBoolean("commits_by_line",
			mcp.Description("If true, include commits per line; if false, group by commit."),
			mcp.DefaultBool(false)),
	)
	return mcp.NewTool("get_scm_info", opts...)
}

func handleGetSCMInfo(c *sonar.Client) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		fileKey, errResult := requireFileKey(req)
		if errResult != nil {
			return errResult, nil
		}
		start, err := optionalInt(req, "start")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		end, err := optionalInt(req, "end")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return forward(c.SCMInfo(ctx, fileKey, start, end, req.GetBool("commits_by_line", false)))
	}
}

func getSourceRawTool() mcp.Tool {
	opts := append(fileArgs(),
		mcp.WithDescription("Retrieve raw source code as plain text for a file in a SonarQube project."),
	)
	return mcp.NewTool("get_source_raw", opts...)
}

func handleGetSourceRaw(c *sonar.Client) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		fileKey, errResult := requireFileKey(req)
		if errResult != nil {
			return errResult, nil
		}
		src, err := c.RawSource(ctx, fileKey)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(src), nil
	}
}

func getSourceIssueSnippetsTool() mcp.Tool {
	return mcp.NewTool("get_source_issue_snippets",
		mcp.WithDescription("Retrieve code snippets for a specific SonarQube issue."),
		mcp.WithString("issue_key",
			mcp.Required(),
			mcp.Description("Key of the issue.")),
	)
}

func handleGetSourceIssueSnippets(c *sonar.Client) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		issueKey, err := req.RequireString("issue_key")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return forward(c.IssueSnippets(ctx, issueKey))
	}
}

func getFileIssuesInformationTool() mcp.Tool {
	opts := append(fileArgs(),
		mcp.WithDescription("Retrieve issues, rule details, source code snippets, and full file source for a specific file in a SonarQube project."),
		mcp.WithBoolean("include_source",
			mcp.Description("Whether to include raw source code."),
			mcp.DefaultBool(true)),
	)
	return mcp.NewTool("get_file_issues_information", withPagination(opts)...)
}

func handleGetFileIssuesInformation(c *sonar.Client) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectKey, err := req.RequireString("project_key")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		filePath, err := req.RequireString("file_path")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		page, pageSize := pagination(req)
		report, err := c.FileIssues(ctx, sonar.FileIssuesParams{
			ProjectKey:    projectKey,
			FilePath:      filePath,
			IncludeSource: req.GetBool("include_source", true),
			Page:          page,
			PageSize:      pageSize,
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		body, err := json.Marshal(report)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(string(body)), nil
	}
}
