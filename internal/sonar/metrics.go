package sonar

import (
	"context"
	"encoding/json"
	"net/url"
)

// MetricTypes lists the metric value types the server supports.
func (c *Client) MetricTypes(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "api/metrics/types", nil)
}

// Metrics returns a page of metric definitions.
func (c *Client) Metrics(ctx context.Context, page, pageSize int) (json.RawMessage, error) {
	if err := checkPage(page, pageSize); err != nil {
		return nil, err
	}

	params := url.Values{}
	setPage(params, page, pageSize)

	return c.get(ctx, "api/metrics/search", params)
}
