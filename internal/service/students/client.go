package students

import (
	"context"
	"fmt"
	"net/url"

	"github.com/janisto/campus-admin/internal/platform/apiclient"
	"github.com/janisto/campus-admin/internal/platform/pagination"
	"github.com/janisto/campus-admin/internal/platform/validate"
)

// Client implements Service against the REST API.
type Client struct {
	api *apiclient.Client
}

// NewClient creates a students client on top of the shared transport.
func NewClient(api *apiclient.Client) *Client {
	return &Client{api: api}
}

func (c *Client) List(ctx context.Context, params pagination.Params) (*ListResult, error) {
	var out ListResult
	if err := c.api.Get(ctx, "/students", params.Values(), &out); err != nil {
		return nil, fmt.Errorf("listing students: %w", err)
	}
	return &out, nil
}

func (c *Client) Get(ctx context.Context, id string) (*Student, error) {
	var out Student
	if err := c.api.Get(ctx, "/students/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, fmt.Errorf("fetching student: %w", err)
	}
	return &out, nil
}

func (c *Client) Create(ctx context.Context, in Input) (*Student, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	var out Student
	if err := c.api.Post(ctx, "/students", in, &out); err != nil {
		return nil, fmt.Errorf("creating student: %w", err)
	}
	return &out, nil
}

func (c *Client) Update(ctx context.Context, id string, in Input) (*Student, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	var out Student
	if err := c.api.Put(ctx, "/students/"+url.PathEscape(id), in, &out); err != nil {
		return nil, fmt.Errorf("updating student: %w", err)
	}
	return &out, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	if err := c.api.Delete(ctx, "/students/"+url.PathEscape(id), nil); err != nil {
		return fmt.Errorf("deleting student: %w", err)
	}
	return nil
}

// Compile-time interface check
var _ Service = (*Client)(nil)
