package client

import (
	"fmt"
	"net/url"
)

// OAuthConfig configures OAuth 2.1 authentication for protected MCP servers.
type OAuthConfig struct {
	// Enabled indicates whether OAuth authentication should be used.
	Enabled bool

	// ClientID is the OAuth client identifier. When empty, dynamic client
	// registration is attempted during the authorization flow.
	ClientID string

	// ClientSecret is the OAuth client secret (optional for public clients).
	ClientSecret string

	// Scopes are the OAuth scopes to request.
	Scopes []string

	// RedirectURL is the callback URL for the authorization flow.
	RedirectURL string

	// UsePKCE enables Proof Key for Code Exchange.
	UsePKCE bool
}

// DefaultOAuthConfig returns the defaults used when OAuth is enabled without
// further configuration.
func DefaultOAuthConfig() *OAuthConfig {
	return &OAuthConfig{
		Scopes:      []string{"mcp:tools", "mcp:resources"},
		RedirectURL: "http://localhost:8765/callback",
		UsePKCE:     true,
	}
}

// Validate checks the configuration. HTTP redirect URIs are only accepted for
// loopback hosts; everything else must be HTTPS.
func (c *OAuthConfig) Validate() error {
	if !c.Enabled {
		return nil
	}

	if c.RedirectURL == "" {
		return fmt.Errorf("OAuth redirect URL is required")
	}

	parsed, err := url.Parse(c.RedirectURL)
	if err != nil {
		return fmt.Errorf("invalid OAuth redirect URL: %w", err)
	}

	switch parsed.Scheme {
	case "http":
		host := parsed.Hostname()
		if host != "localhost" && host != "127.0.0.1" && host != "::1" {
			return fmt.Errorf("http redirect URIs are only allowed for localhost/127.0.0.1/[::1], use https for other hosts")
		}
	case "https":
	default:
		return fmt.Errorf("redirect URI scheme must be http (localhost only) or https, got: %s", parsed.Scheme)
	}

	if len(c.Scopes) == 0 {
		c.Scopes = []string{"mcp:tools", "mcp:resources"}
	}

	return nil
}
