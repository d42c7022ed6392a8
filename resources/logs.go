package resources

import (
	"context"

	"github.com/NexoraTechHQ/nexora-sub000/gateway"
)

func (c *Client) ListVisitorLogs(ctx context.Context, opts ListOptions) ([]VisitorLog, error) {
	var page listPage[VisitorLog]
	if err := c.gw.Get(ctx, "/v1/visitor-logs", &page, gateway.WithQuery(opts.query())); err != nil {
		return nil, err
	}
	return page.Items, nil
}

func (c *Client) ListAccessLogs(ctx context.Context, opts ListOptions) ([]AccessLog, error) {
	var page listPage[AccessLog]
	if err := c.gw.Get(ctx, "/v1/access-logs", &page, gateway.WithQuery(opts.query())); err != nil {
		return nil, err
	}
	return page.Items, nil
}
