package resources

import (
	"net/url"
	"strconv"

	"github.com/NexoraTechHQ/nexora-sub000/gateway"
	"github.com/pkg/errors"
)

// Client groups the typed CRUD surfaces of the visitor management API.
// Every call goes through the gateway so authentication handling stays
// uniform; nothing here holds session state.
type Client struct {
	gw *gateway.Gateway
}

func NewClient(gw *gateway.Gateway) (*Client, error) {
	if gw == nil {
		return nil, errors.New("[resources.NewClient] gateway is required")
	}
	return &Client{gw: gw}, nil
}

// ListOptions is the offset/limit pagination shared by the list endpoints.
type ListOptions struct {
	Offset int
	Limit  int
}

func (o ListOptions) query() url.Values {
	q := url.Values{}
	if o.Offset > 0 {
		q.Set("offset", strconv.Itoa(o.Offset))
	}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	return q
}
