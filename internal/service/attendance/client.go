package attendance

import (
	"context"
	"fmt"
	"net/url"

	"github.com/janisto/campus-admin/internal/platform/apiclient"
	"github.com/janisto/campus-admin/internal/platform/validate"
)

// Client implements Service against the REST API.
type Client struct {
	api *apiclient.Client
}

// NewClient creates an attendance client on top of the shared transport.
func NewClient(api *apiclient.Client) *Client {
	return &Client{api: api}
}

func (c *Client) List(ctx context.Context, f Filter) ([]Record, error) {
	var out []Record
	if err := c.api.Get(ctx, "/attendance", f.Values(), &out); err != nil {
		return nil, fmt.Errorf("listing attendance: %w", err)
	}
	return out, nil
}

func (c *Client) Mark(ctx context.Context, entries []Entry) ([]Record, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyRoster
	}
	in := MarkInput{Records: entries}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	var out []Record
	if err := c.api.Post(ctx, "/attendance", in, &out); err != nil {
		return nil, fmt.Errorf("marking attendance: %w", err)
	}
	return out, nil
}

func (c *Client) Report(ctx context.Context, studentID string) (*Report, error) {
	var out Report
	if err := c.api.Get(ctx, "/attendance/report/"+url.PathEscape(studentID), nil, &out); err != nil {
		return nil, fmt.Errorf("fetching attendance report: %w", err)
	}
	return &out, nil
}

// Compile-time interface check
var _ Service = (*Client)(nil)
