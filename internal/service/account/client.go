package account

import (
	"context"
	"fmt"
	"strings"

	"github.com/janisto/campus-admin/internal/platform/apiclient"
	"github.com/janisto/campus-admin/internal/platform/validate"
)

// DefaultAuthPath is where the auth endpoints live under the API base URL.
const DefaultAuthPath = "/auth"

// Client implements Service against the REST API.
type Client struct {
	api      *apiclient.Client
	authPath string
}

// Option configures a Client.
type Option func(*Client)

// WithAuthPath mounts the login, register and profile endpoints under path.
func WithAuthPath(path string) Option {
	return func(c *Client) {
		c.authPath = "/" + strings.Trim(path, "/")
		if c.authPath == "/" {
			c.authPath = ""
		}
	}
}

// NewClient creates an account client on top of the shared transport.
func NewClient(api *apiclient.Client, opts ...Option) *Client {
	c := &Client{api: api, authPath: DefaultAuthPath}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Login(ctx context.Context, creds Credentials) (*AuthResult, error) {
	if err := validate.Struct(creds); err != nil {
		return nil, err
	}
	var out AuthResult
	if err := c.api.Post(ctx, c.authPath+"/login", creds, &out); err != nil {
		return nil, fmt.Errorf("logging in: %w", err)
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, reg Registration) (*AuthResult, error) {
	if err := validate.Struct(reg); err != nil {
		return nil, err
	}
	var out AuthResult
	if err := c.api.Post(ctx, c.authPath+"/register", reg, &out); err != nil {
		return nil, fmt.Errorf("registering: %w", err)
	}
	return &out, nil
}

func (c *Client) Profile(ctx context.Context) (*User, error) {
	var out User
	if err := c.api.Get(ctx, c.authPath+"/profile", nil, &out); err != nil {
		return nil, fmt.Errorf("fetching profile: %w", err)
	}
	return &out, nil
}

// Compile-time interface check
var _ Service = (*Client)(nil)
