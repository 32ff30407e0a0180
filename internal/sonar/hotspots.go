package sonar

import (
	"context"
	"encoding/json"
	"net/url"
)

// HotspotFilter narrows a security hotspot search within one project.
type HotspotFilter struct {
	ProjectKey string
	FilePaths  string
	OnlyMine   *bool
	Resolution string
	Status     string
	Page       int
	PageSize   int
}

// ProjectHotspots returns a page of security hotspots for a project.
func (c *Client) ProjectHotspots(ctx context.Context, f HotspotFilter) (json.RawMessage, error) {
	if f.ProjectKey == "" {
		return nil, errValidation("project key is required")
	}
	if err := checkPage(f.Page, f.PageSize); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("projectKey", f.ProjectKey)
	setPage(params, f.Page, f.PageSize)
	setList(params, "files", f.FilePaths)
	setBool(params, "onlyMine", f.OnlyMine)
	if f.Resolution != "" {
		params.Set("resolution", f.Resolution)
	}
	if f.Status != "" {
		params.Set("status", f.Status)
	}

	return c.get(ctx, "api/hotspots/search", params)
}

// HotspotDetails returns the full record of one security hotspot.
func (c *Client) HotspotDetails(ctx context.Context, hotspotKey string) (json.RawMessage, error) {
	if hotspotKey == "" {
		return nil, errValidation("hotspot key is required")
	}

	params := url.Values{}
	params.Set("hotspot", hotspotKey)

	return c.get(ctx, "api/hotspots/show", params)
}
