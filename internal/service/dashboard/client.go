package dashboard

import (
	"context"
	"fmt"

	"github.com/janisto/campus-admin/internal/platform/apiclient"
)

// Client implements Service against the REST API.
type Client struct {
	api *apiclient.Client
}

// NewClient creates a dashboard client on top of the shared transport.
func NewClient(api *apiclient.Client) *Client {
	return &Client{api: api}
}

func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	var out Stats
	if err := c.api.Get(ctx, "/dashboard/stats", nil, &out); err != nil {
		return nil, fmt.Errorf("fetching dashboard stats: %w", err)
	}
	return &out, nil
}

// Compile-time interface check
var _ Service = (*Client)(nil)
