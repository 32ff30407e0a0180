package sonar

import (
	"context"
	"encoding/json"
	"net/url"
)

// permissionParams builds the shared parameter set for the permission
// endpoints. An empty projectKey means the permission is global.
func permissionParams(permission, projectKey string) url.Values {
	params := url.Values{}
	params.Set("permission", permission)
	if projectKey != "" {
		params.Set("projectKey", projectKey)
	}
	return params
}

// AddGroupPermission grants a permission to a group, project-scoped when
// projectKey is set and global otherwise.
func (c *Client) AddGroupPermission(ctx context.Context, groupName, permission, projectKey string) (json.RawMessage, error) {
	if groupName == "" || permission == "" {
		return nil, errValidation("group name and permission are required")
	}

	params := permissionParams(permission, projectKey)
	params.Set("groupName", groupName)

	return c.post(ctx, "api/permissions/add_group", params)
}

// RemoveGroupPermission revokes a permission from a group.
func (c *Client) RemoveGroupPermission(ctx context.Context, groupName, permission, projectKey string) (json.RawMessage, error) {
	if groupName == "" || permission == "" {
		return nil, errValidation("group name and permission are required")
	}

	params := permissionParams(permission, projectKey)
	params.Set("groupName", groupName)

	return c.post(ctx, "api/permissions/remove_group", params)
}

// GroupPermissions lists group permissions for a project, or the global ones
// when projectKey is empty.
func (c *Client) GroupPermissions(ctx context.Context, projectKey string, page, pageSize int) (json.RawMessage, error) {
	if err := checkPage(page, pageSize); err != nil {
		return nil, err
	}

	params := url.Values{}
	setPage(params, page, pageSize)
	if projectKey != "" {
		params.Set("projectKey", projectKey)
	}

	return c.get(ctx, "api/permissions/groups", params)
}

// AddUserPermission grants a permission to a user.
func (c *Client) AddUserPermission(ctx context.Context, username, permission, projectKey string) (json.RawMessage, error) {
	if username == "" || permission == "" {
		return nil, errValidation("username and permission are required")
	}

	params := permissionParams(permission, projectKey)
	params.Set("login", username)

	return c.post(ctx, "api/permissions/add_user", params)
}

// RemoveUserPermission revokes a permission from a user.
func (c *Client) RemoveUserPermission(ctx context.Context, username, permission, projectKey string) (json.RawMessage, error) {
	if username == "" || permission == "" {
		return nil, errValidation("username and permission are required")
	}

	params := permissionParams(permission, projectKey)
	params.Set("login", username)

	return c.post(ctx, "api/permissions/remove_user", params)
}

// UserPermissions lists user permissions for a project, or the global ones
// when projectKey is empty.
func (c *Client) UserPermissions(ctx context.Context, projectKey string, page, pageSize int) (json.RawMessage, error) {
	if err := checkPage(page, pageSize); err != nil {
		return nil, err
	}

	params := url.Values{}
	setPage(params, page, pageSize)
	if projectKey != "" {
		params.Set("projectKey", projectKey)
	}

	return c.get(ctx, "api/permissions/users", params)
}
