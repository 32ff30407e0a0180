package sonar

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
)

func qualityProfileParams(language, projectKey, qualityProfile string) url.Values {
	params := url.Values{}
	params.Set("language", language)
	params.Set("project", projectKey)
	params.Set("qualityProfile", qualityProfile)
	return params
}

// AddQualityProfileProject associates a quality profile with a project.
func (c *Client) AddQualityProfileProject(ctx context.Context, language, projectKey, qualityProfile string) (json.RawMessage, error) {
	if language == "" || projectKey == "" || qualityProfile == "" {
		return nil, errValidation("language, project key and quality profile are required")
	}

	return c.post(ctx, "api/qualityprofiles/add_project",
		qualityProfileParams(language, projectKey, qualityProfile))
}

// RemoveQualityProfileProject removes a quality profile association from a
// project.
func (c *Client) RemoveQualityProfileProject(ctx context.Context, language, projectKey, qualityProfile string) (json.RawMessage, error) {
	if language == "" || projectKey == "" || qualityProfile == "" {
		return nil, errValidation("language, project key and quality profile are required")
	}

	return c.post(ctx, "api/qualityprofiles/remove_project",
		qualityProfileParams(language, projectKey, qualityProfile))
}

// QualityProfiles searches quality profiles, optionally restricted to
// defaults, one language, or one project.
func (c *Client) QualityProfiles(ctx context.Context, defaults bool, language, projectKey string) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("defaults", strconv.FormatBool(defaults))
	if language != "" {
		params.Set("language", language)
	}
	if projectKey != "" {
		params.Set("project", projectKey)
	}

	return c.get(ctx, "api/qualityprofiles/search", params)
}
