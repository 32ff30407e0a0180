package sonar

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
)

// ComponentKey forms the server's identifier for a file within a project.
func ComponentKey(projectKey, filePath string) string {
	return projectKey + ":" + filePath
}

// SourceLines returns the source of a file with line numbers, optionally
// limited to the [from, to] range.
func (c *Client) SourceLines(ctx context.Context, fileKey string, from, to *int) (json.RawMessage, error) {
	if fileKey == "" {
		return nil, errValidation("file key is required")
	}
	if err := checkLineRange(from, to); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("key", fileKey)
	setInt(params, "from", from)
	setInt(params, "to", to)

	return c.get(ctx, "api/sources/show", params)
}

// SCMInfo returns per-line SCM details (author, date, revision) for a file.
func (c *Client) SCMInfo(ctx context.Context, fileKey string, from, to *int, commitsByLine bool) (json.RawMessage, error) {
	if fileKey == "" {
		return nil, errValidation("file key is required")
	}
	if err := checkLineRange(from, to); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("key", fileKey)
	setInt(params, "from", from)
	setInt(params, "to", to)
	params.Set("commits_by_line", strconv.FormatBool(commitsByLine))

	return c.get(ctx, "api/sources/scm", params)
}

// RawSource returns the full source of a file as plain text.
func (c *Client) RawSource(ctx context.Context, fileKey string) (string, error) {
	if fileKey == "" {
		return "", errValidation("file key is required")
	}

	params := url.Values{}
	params.Set("key", fileKey)

	body, err := c.get(ctx, "api/sources/raw", params)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// IssueSnippets returns the code snippets the server keeps around an issue's
// locations.
func (c *Client) IssueSnippets(ctx context.Context, issueKey string) (json.RawMessage, error) {
	if issueKey == "" {
		return nil, errValidation("issue key is required")
	}

	params := url.Values{}
	params.Set("issueKey", issueKey)

	return c.get(ctx, "api/sources/issue_snippets", params)
}

func checkLineRange(from, to *int) error {
	if from != nil && *from < 1 {
		return errValidation("start line must be >= 1, got %d", *from)
	}
	if to != nil && *to < 1 {
		return errValidation("end line must be >= 1, got %d", *to)
	}
	if from != nil && to != nil && *to < *from {
		return errValidation("end line %d is before start line %d", *to, *from)
	}
	return nil
}
