package sonar

import (
	"context"
	"encoding/json"
	"net/url"
)

// CreateProjectParams describes a project to provision.
type CreateProjectParams struct {
	Name       string
	Key        string
	MainBranch string
	// NewCodeDefinitionType is PREVIOUS_VERSION, NUMBER_OF_DAYS or
	// REFERENCE_BRANCH; Value carries the day count for NUMBER_OF_DAYS.
	NewCodeDefinitionType  string
	NewCodeDefinitionValue string
}

// CreateProject provisions a new project.
func (c *Client) CreateProject(ctx context.Context, p CreateProjectParams) (json.RawMessage, error) {
	if p.Name == "" || p.Key == "" {
		return nil, errValidation("project name and key are required")
	}

	params := url.Values{}
	params.Set("name", p.Name)
	params.Set("project", p.Key)
	if p.MainBranch != "" {
		params.Set("mainBranch", p.MainBranch)
	}
	if p.NewCodeDefinitionType != "" {
		params.Set("newCodeDefinitionType", p.NewCodeDefinitionType)
	}
	if p.NewCodeDefinitionValue != "" {
		params.Set("newCodeDefinitionValue", p.NewCodeDefinitionValue)
	}

	return c.post(ctx, "api/projects/create", params)
}

// ProjectFilter narrows a project search.
type ProjectFilter struct {
	Projects       string
	Search         string
	AnalyzedBefore string
	Page           int
	PageSize       int
}

// SearchProjects returns a page of projects visible to the session.
func (c *Client) SearchProjects(ctx context.Context, f ProjectFilter) (json.RawMessage, error) {
	if err := checkPage(f.Page, f.PageSize); err != nil {
		return nil, err
	}

	params := url.Values{}
	setPage(params, f.Page, f.PageSize)
	setList(params, "projects", f.Projects)
	if f.Search != "" {
		params.Set("q", f.Search)
	}
	if f.AnalyzedBefore != "" {
		params.Set("analyzedBefore", f.AnalyzedBefore)
	}

	return c.get(ctx, "api/projects/search", params)
}

// UserProjects returns a page of projects the authenticated user can
// administer.
func (c *Client) UserProjects(ctx context.Context, page, pageSize int) (json.RawMessage, error) {
	if err := checkPage(page, pageSize); err != nil {
		return nil, err
	}

	params := url.Values{}
	setPage(params, page, pageSize)

	return c.get(ctx, "api/projects/search", params)
}

// ScannableProjects lists the projects the authenticated user may analyze.
func (c *Client) ScannableProjects(ctx context.Context, search string) (json.RawMessage, error) {
	params := url.Values{}
	if search != "" {
		params.Set("q", search)
	}

	return c.get(ctx, "api/projects/search_my_scannable_projects", params)
}

// ProjectAnalyses returns a page of analyses for one project, optionally
// filtered by event category.
func (c *Client) ProjectAnalyses(ctx context.Context, projectKey, category string, page, pageSize int) (json.RawMessage, error) {
	if projectKey == "" {
		return nil, errValidation("project key is required")
	}
	if err := checkPage(page, pageSize); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("project", projectKey)
	setPage(params, page, pageSize)
	if category != "" {
		params.Set("category", category)
	}

	return c.get(ctx, "api/project_analyses/search", params)
}
