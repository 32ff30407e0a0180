package sonar

import (
	"context"
	"encoding/json"
	"net/url"
)

// IssueFilter narrows an issue search. Comma-separated list filters accept
// extra whitespace and empty tokens; empty filters are omitted from the
// request entirely.
type IssueFilter struct {
	AdditionalFields string
	Assigned         *bool
	Assignees        string
	Authors          string
	Components       string
	IssueStatuses    string
	Issues           string
	Resolutions      string
	Resolved         *bool
	Scopes           string
	Severities       string
	Tags             string
	Types            string
	Page             int
	PageSize         int
}

// SearchIssues returns a page of issues matching the filter, passed through
// verbatim from the server.
func (c *Client) SearchIssues(ctx context.Context, f IssueFilter) (json.RawMessage, error) {
	if err := checkPage(f.Page, f.PageSize); err != nil {
		return nil, err
	}

	params := url.Values{}
	setPage(params, f.Page, f.PageSize)
	setList(params, "additionalFields", f.AdditionalFields)
	setList(params, "assignees", f.Assignees)
	setList(params, "author", f.Authors)
	setList(params, "components", f.Components)
	setList(params, "issueStatuses", f.IssueStatuses)
	setList(params, "issues", f.Issues)
	setList(params, "resolutions", f.Resolutions)
	setList(params, "scopes", f.Scopes)
	setList(params, "severities", f.Severities)
	setList(params, "tags", f.Tags)
	setList(params, "types", f.Types)
	setBool(params, "assigned", f.Assigned)
	setBool(params, "resolved", f.Resolved)

	return c.get(ctx, "api/issues/search", params)
}

// IssueAuthors lists the SCM accounts that authored issues, optionally scoped
// to one project.
func (c *Client) IssueAuthors(ctx context.Context, projectKey string, page, pageSize int) (json.RawMessage, error) {
	if err := checkPage(page, pageSize); err != nil {
		return nil, err
	}

	params := url.Values{}
	setPage(params, page, pageSize)
	if projectKey != "" {
		params.Set("project", projectKey)
	}

	return c.get(ctx, "api/issues/authors", params)
}
