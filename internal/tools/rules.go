package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"sonarqube-mcp/internal/sonar"
)

// RegisterRuleTools registers the rule search and detail tools.
func RegisterRuleTools(s *server.MCPServer, c *sonar.Client) {
	s.AddTool(getRulesTool(), handleGetRules(c))
	s.AddTool(getRuleDetailsTool(), handleGetRuleDetails(c))
}

func getRulesTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Retrieve SonarQube rules with optional filters."),
		mcp.WithString("severities",
			mcp.Description("Comma-separated severities: INFO, MINOR, MAJOR, CRITICAL, BLOCKER.")),
		mcp.WithString("statuses",
			mcp.Description("Comma-separated statuses: BETA, DEPRECATED, READY, REMOVED.")),
		mcp.WithString("languages",
			mcp.Description("Comma-separated languages (e.g. 'java,js').")),
		mcp.WithString("types",
			mcp.Description("Comma-separated types: CODE_SMELL, BUG, VULNERABILITY, SECURITY_HOTSPOT.")),
	}
	return mcp.NewTool("get_rules", withPagination(opts)...)
}

func handleGetRules(c *sonar.Client) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		page, pageSize := pagination(req)
		return forward(c.SearchRules(ctx, sonar.RuleFilter{
			Severities: req.GetString("severities", ""),
			Statuses:   req.GetString("statuses", ""),
			Languages:  req.GetString("languages", ""),
			Types:      req.GetString("types", ""),
			Page:       page,
			PageSize:   pageSize,
		}))
	}
}

func getRuleDetailsTool() mcp.Tool {
	return mcp.NewTool("get_rule_details",
		mcp.WithDescription("Retrieve details of a specific SonarQube rule."),
		mcp.WithString("rule_key",
			mcp.Required(),
			mcp.Description("Key of the rule.")),
		mcp.WithBoolean("actives",
			mcp.Description("If true, include active quality profiles."),
			mcp.DefaultBool(false)),
	)
}

func handleGetRuleDetails(c *sonar.Client) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ruleKey, err := req.RequireString("rule_key")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return forward(c.RuleDetails(ctx, ruleKey, req.GetBool("actives", false)))
	}
}
