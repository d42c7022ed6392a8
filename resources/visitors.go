package resources

import (
	"context"
	"net/http"

	"github.com/NexoraTechHQ/nexora-sub000/gateway"
)

func (c *Client) ListVisitors(ctx context.Context, opts ListOptions) ([]Visitor, error) {
	var page listPage[Visitor]
	if err := c.gw.Get(ctx, "/v1/visitors", &page, gateway.WithQuery(opts.query())); err != nil {
		return nil, err
	}
	return page.Items, nil
}

func (c *Client) GetVisitor(ctx context.Context, id string) (*Visitor, error) {
	var visitor Visitor
	if err := c.gw.Get(ctx, "/v1/visitors/"+id, &visitor); err != nil {
		return nil, err
	}
	return &visitor, nil
}

func (c *Client) CreateVisitor(ctx context.Context, visitor Visitor) (*Visitor, error) {
	var created Visitor
	if err := c.gw.Post(ctx, "/v1/visitors", visitor, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateVisitor(ctx context.Context, visitor Visitor) (*Visitor, error) {
	var updated Visitor
	if err := c.gw.Put(ctx, "/v1/visitors/"+visitor.ID, visitor, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteVisitor(ctx context.Context, id string) error {
	return c.gw.Delete(ctx, "/v1/visitors/"+id)
}

// CheckInVisitor marks a visitor as on site.
func (c *Client) CheckInVisitor(ctx context.Context, id string) (*Visitor, error) {
	var updated Visitor
	if err := c.gw.Do(ctx, http.MethodPost, "/v1/visitors/"+id+"/check-in", nil, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// CheckOutVisitor marks a visitor as having left.
func (c *Client) CheckOutVisitor(ctx context.Context, id string) (*Visitor, error) {
	var updated Visitor
	if err := c.gw.Do(ctx, http.MethodPost, "/v1/visitors/"+id+"/check-out", nil, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
