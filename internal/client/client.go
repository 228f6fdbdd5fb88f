// Package client establishes and owns one connection to an MCP server: it
// selects the transport for a parsed target, runs the initialize handshake
// once, and relays server-pushed notifications onto an internal queue.
package client

import (
	"context"
	"fmt"

	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"

	"mcptool/internal/output"
	"mcptool/internal/target"
)

// Client is an open connection to an MCP server plus the state captured at
// connect time. The handshake result is read-only for the connection's
// lifetime; commands are sent exclusively by the owner of the Client.
type Client struct {
	conn    mcpclient.MCPClient
	relay   *Relay
	init    *mcp.InitializeResult
	out     *output.Output
	oauth   *OAuthConfig
	version string
}

// Config holds everything needed to connect.
type Config struct {
	Target  target.Target
	Output  *output.Output
	OAuth   *OAuthConfig
	Version string
}

// Connect opens a connection to the target, registers the notification
// relay, and performs the initialize handshake. The handshake result is
// cached and never re-executed for the life of the Client.
func Connect(ctx context.Context, cfg Config) (*Client, error) {
	c := &Client{
		relay:   NewRelay(),
		out:     cfg.Output,
		oauth:   cfg.OAuth,
		version: cfg.Version,
	}

	conn, err := c.newTransportClient(cfg.Target)
	if err != nil {
		return nil, err
	}
	c.conn = conn

	if err := c.withAuthorization(ctx, "start transport", func() error {
		return conn.Start(ctx)
	}); err != nil {
		conn.Close()
		return nil, err
	}

	conn.OnNotification(c.relay.Handle)

	if err := c.withAuthorization(ctx, "initialize", func() error {
		return c.initialize(ctx)
	}); err != nil {
		conn.Close()
		return nil, err
	}

	return c, nil
}

func (c *Client) newTransportClient(t target.Target) (*mcpclient.Client, error) {
	switch t.Kind {
	case target.KindStdio:
		return mcpclient.NewClient(transport.NewStdio(t.Command, nil, t.Args...)), nil

	case target.KindSSE:
		conn, err := mcpclient.NewSSEMCPClient(t.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to create SSE client: %w", err)
		}
		return conn, nil

	case target.KindStreamableHTTP:
		if c.oauth != nil && c.oauth.Enabled {
			if err := c.oauth.Validate(); err != nil {
				return nil, fmt.Errorf("invalid OAuth configuration: %w", err)
			}
			conn, err := mcpclient.NewOAuthStreamableHttpClient(t.URL, mcpclient.OAuthConfig{
				ClientID:     c.oauth.ClientID,
				ClientSecret: c.oauth.ClientSecret,
				RedirectURI:  c.oauth.RedirectURL,
				Scopes:       c.oauth.Scopes,
				TokenStore:   mcpclient.NewMemoryTokenStore(),
				PKCEEnabled:  c.oauth.UsePKCE,
			})
			if err != nil {
				return nil, fmt.Errorf("failed to create OAuth client: %w", err)
			}
			return conn, nil
		}
		conn, err := mcpclient.NewStreamableHttpClient(t.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to create streamable HTTP client: %w", err)
		}
		return conn, nil

	default:
		return nil, fmt.Errorf("unsupported target %q", t)
	}
}

// initialize performs the MCP handshake and caches the result.
func (c *Client) initialize(ctx context.Context) error {
	req := mcp.InitializeRequest{}
	req.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	req.Params.ClientInfo = mcp.Implementation{
		Name:    "mcptool",
		Version: c.version,
	}
	req.Params.Capabilities = mcp.ClientCapabilities{}

	result, err := c.conn.Initialize(ctx, req)
	if err != nil {
		return fmt.Errorf("initialize failed: %w", err)
	}
	c.init = result
	return nil
}

// withAuthorization runs fn, and when the server demands OAuth authorization,
// drives the authorization flow once and retries.
func (c *Client) withAuthorization(ctx context.Context, operation string, fn func() error) error {
	err := fn()
	if err == nil {
		return nil
	}

	if mcpclient.IsOAuthAuthorizationRequiredError(err) {
		c.out.Note("OAuth authorization required for %s", operation)
		if authErr := c.authorize(ctx, err); authErr != nil {
			return fmt.Errorf("OAuth authorization failed: %w", authErr)
		}
		if retryErr := fn(); retryErr != nil {
			return fmt.Errorf("%s failed after authorization: %w", operation, retryErr)
		}
		return nil
	}

	return fmt.Errorf("%s failed: %w", operation, err)
}

// Conn exposes the protocol connection for command dispatch.
func (c *Client) Conn() mcpclient.MCPClient {
	return c.conn
}

// Init returns the handshake result captured at connect time.
func (c *Client) Init() *mcp.InitializeResult {
	return c.init
}

// Notifications returns the relay carrying server-pushed events.
func (c *Client) Notifications() *Relay {
	return c.relay
}

// Close tears the connection down and drops any queued notifications.
func (c *Client) Close() error {
	c.relay.Close()
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
