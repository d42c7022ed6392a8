package resources

import (
	"context"

	"github.com/NexoraTechHQ/nexora-sub000/gateway"
)

// ListUsers returns the console user directory. User records are managed
// server side; the session subsystem never edits them.
func (c *Client) ListUsers(ctx context.Context, opts ListOptions) ([]User, error) {
	var page listPage[User]
	if err := c.gw.Get(ctx, "/v1/users", &page, gateway.WithQuery(opts.query())); err != nil {
		return nil, err
	}
	return page.Items, nil
}

func (c *Client) GetUser(ctx context.Context, id string) (*User, error) {
	var user User
	if err := c.gw.Get(ctx, "/v1/users/"+id, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
