package tools

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"sonarqube-mcp/internal/sonar"
)

// RegisterPermissionTools registers the user and group permission tools.
func RegisterPermissionTools(s *server.MCPServer, c *sonar.Client) {
	s.AddTool(
		grantTool("add_group_permission",
			"Assign a permission to a group for a specific project or globally.",
			"group_name", "Name of the group to receive the permission."),
		handleGroupGrant(c.AddGroupPermission),
	)
	s.AddTool(
		grantTool("remove_group_permission",
			"Remove a permission from a group for a specific project or globally.",
			"group_name", "Name of the group to remove the permission from."),
		handleGroupGrant(c.RemoveGroupPermission),
	)
	s.AddTool(permissionListTool("get_group_permission",
		"List group permissions for a specific project or globally."),
		handlePermissionList(c.GroupPermissions))

	s.AddTool(
		grantTool("add_user_permission",
			"Assign a permission to a user for a specific project or globally.",
			"username", "Name of the user to receive the permission."),
		handleUserGrant(c.AddUserPermission),
	)
	s.AddTool(
		grantTool("remove_user_permission",
			"Remove a permission from a user for a specific project or globally.",
			"username", "Name of the user to remove the permission from."),
		handleUserGrant(c.RemoveUserPermission),
	)
	s.AddTool(permissionListTool("get_user_permission",
		"List user permissions for a specific project or globally."),
		handlePermissionList(c.UserPermissions))
}

// grantTool builds the shared definition for the four grant/revoke tools,
// which differ only in the subject argument.
func grantTool(name, description, subjectKey, subjectDescription string) mcp.Tool {
	return mcp.NewTool(name,
		mcp.WithDescription(description),
		mcp.WithString(subjectKey,
			mcp.Required(),
			mcp.Description(subjectDescription)),
		mcp.WithString("permission",
			mcp.Required(),
			mcp.Description("Permission to grant or revoke (global: admin, gateadmin, profileadmin, provisioning, scan, applicationcreator, portfoliocreator; project: admin, codeviewer, issueadmin, securityhotspotadmin, scan, user).")),
		mcp.WithString("project_key",
			mcp.Description("Project key for a project-level permission; omit for global.")),
	)
}

func permissionListTool(name, description string) mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(description),
		mcp.WithString("project_key",
			mcp.Description("Project key to fetch permissions for; omit for global permissions.")),
	}
	return mcp.NewTool(name, withPagination(opts)...)
}

type grantFunc func(ctx context.Context, subject, permission, projectKey string) (json.RawMessage, error)

func handleGrant(subjectKey string, call grantFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		subject, err := req.RequireString(subjectKey)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		permission, err := req.RequireString("permission")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return forward(call(ctx, subject, permission, req.GetString("project_key", "")))
	}
}

func handleGroupGrant(call grantFunc) server.ToolHandlerFunc {
	return handleGrant("group_name", call)
}

func handleUserGrant(call grantFunc) server.ToolHandlerFunc {
	return handleGrant("username", call)
}

func handlePermissionList(call func(ctx context.Context, projectKey string, page, pageSize int) (json.RawMessage, error)) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		page, pageSize := pagination(req)
		return forward(call(ctx, req.GetString("project_key", ""), page, pageSize))
	}
}
