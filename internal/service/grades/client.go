package grades

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

// NewClient creates a grades client on top of the shared transport.
func NewClient(api *apiclient.Client) *Client {
	return &Client{api: api}
}

func (c *Client) Add(ctx context.Context, in Input) (*Grade, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	var out Grade
	if err := c.api.Post(ctx, "/grades", in, &out); err != nil {
		return nil, fmt.Errorf("adding grade: %w", err)
	}
	return &out, nil
}

func (c *Client) Update(ctx context.Context, id string, in Input) (*Grade, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	var out Grade
	if err := c.api.Put(ctx, "/grades/"+url.PathEscape(id), in, &out); err != nil {
		return nil, fmt.Errorf("updating grade: %w", err)
	}
	return &out, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	if err := c.api.Delete(ctx, "/grades/"+url.PathEscape(id), nil); err != nil {
		return fmt.Errorf("deleting grade: %w", err)
	}
	return nil
}

func (c *Client) ForStudent(ctx context.Context, studentID string) ([]Grade, error) {
	var out []Grade
	if err := c.api.Get(ctx, "/grades/student/"+url.PathEscape(studentID), nil, &out); err != nil {
		return nil, fmt.Errorf("listing student grades: %w", err)
	}
	return out, nil
}

func (c *Client) ForCourse(ctx context.Context, courseID string) ([]Grade, error) {
	var out []Grade
	if err := c.api.Get(ctx, "/grades/course/"+url.PathEscape(courseID), nil, &out); err != nil {
		return nil, fmt.Errorf("listing course grades: %w", err)
	}
	return out, nil
}

func (c *Client) ReportCard(ctx context.Context, studentID string) (*ReportCard, error) {
	var out ReportCard
	if err := c.api.Get(ctx, "/grades/report-card/"+url.PathEscape(studentID), nil, &out); err != nil {
		return nil, fmt.Errorf("fetching report card: %w", err)
	}
	return &out, nil
}

// Compile-time interface check
var _ Service = (*Client)(nil)
