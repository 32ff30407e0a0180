package sonar

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
)

// RuleFilter narrows a rule search.
type RuleFilter struct {
	Severities string
	Statuses   string
	Languages  string
	Types      string
	Page       int
	PageSize   int
}

// SearchRules returns a page of rules matching the filter.
func (c *Client) SearchRules(ctx context.Context, f RuleFilter) (json.RawMessage, error) {
	if err := checkPage(f.Page, f.PageSize); err != nil {
		return nil, err
	}

	params := url.Values{}
	setPage(params, f.Page, f.PageSize)
	setList(params, "severities", f.Severities)
	setList(params, "statuses", f.Statuses)
	setList(params, "languages", f.Languages)
	setList(params, "types", f.Types)

	return c.get(ctx, "api/rules/search", params)
}

// RuleDetails returns the full definition of one rule. When actives is true
// the response also lists the quality profiles the rule is active in.
func (c *Client) RuleDetails(ctx context.Context, ruleKey string, actives bool) (json.RawMessage, error) {
	if ruleKey == "" {
		return nil, errValidation("rule key is required")
	}

	params := url.Values{}
	params.Set("key", ruleKey)
	params.Set("actives", strconv.FormatBool(actives))

	return c.get(ctx, "api/rules/show", params)
}
