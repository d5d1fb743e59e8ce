package courses

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

// NewClient creates a courses client on top of the shared transport.
func NewClient(api *apiclient.Client) *Client {
	return &Client{api: api}
}

func (c *Client) List(ctx context.Context) ([]Course, error) {
	var out []Course
	if err := c.api.Get(ctx, "/courses", nil, &out); err != nil {
		return nil, fmt.Errorf("listing courses: %w", err)
	}
	return out, nil
}

func (c *Client) Get(ctx context.Context, id string) (*Course, error) {
	var out Course
	if err := c.api.Get(ctx, coursePath(id), nil, &out); err != nil {
		return nil, fmt.Errorf("fetching course: %w", err)
	}
	return &out, nil
}

func (c *Client) Create(ctx context.Context, in Input) (*Course, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	var out Course
	if err := c.api.Post(ctx, "/courses", in, &out); err != nil {
		return nil, fmt.Errorf("creating course: %w", err)
	}
	return &out, nil
}

func (c *Client) Update(ctx context.Context, id string, in Input) (*Course, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	var out Course
	if err := c.api.Put(ctx, coursePath(id), in, &out); err != nil {
		return nil, fmt.Errorf("updating course: %w", err)
	}
	return &out, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	if err := c.api.Delete(ctx, coursePath(id), nil); err != nil {
		return fmt.Errorf("deleting course: %w", err)
	}
	return nil
}

func (c *Client) Enroll(ctx context.Context, courseID, studentID string) (*Course, error) {
	return c.enrollment(ctx, "enroll", courseID, studentID)
}

func (c *Client) Unenroll(ctx context.Context, courseID, studentID string) (*Course, error) {
	return c.enrollment(ctx, "unenroll", courseID, studentID)
}

func (c *Client) enrollment(ctx context.Context, action, courseID, studentID string) (*Course, error) {
	in := EnrollmentInput{StudentID: studentID}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	var out Course
	if err := c.api.Post(ctx, coursePath(courseID)+"/"+action, in, &out); err != nil {
		return nil, fmt.Errorf("%s student: %w", action, err)
	}
	return &out, nil
}

func coursePath(id string) string {
	return "/courses/" + url.PathEscape(id)
}

// Compile-time interface check
var _ Service = (*Client)(nil)
