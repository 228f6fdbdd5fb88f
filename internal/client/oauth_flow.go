package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os/exec"
	"runtime"
	"time"

	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
)

// authorizationTimeout bounds how long we wait for the operator to complete
// the browser-side authorization.
const authorizationTimeout = 5 * time.Minute

// authorize drives the browser-based OAuth authorization flow using the
// handler embedded in the authorization-required error.
func (c *Client) authorize(ctx context.Context, authErr error) error {
	handler := mcpclient.GetOAuthHandler(authErr)
	if handler == nil {
		return fmt.Errorf("no OAuth handler available in error")
	}
	return c.runAuthorizationFlow(ctx, handler)
}

func (c *Client) runAuthorizationFlow(ctx context.Context, handler *transport.OAuthHandler) error {
	// Register dynamically when no client ID was configured.
	if handler.GetClientID() == "" {
		c.out.Note("No client ID configured, attempting dynamic client registration")
		if err := handler.RegisterClient(ctx, "mcptool"); err != nil {
			return fmt.Errorf("client registration failed: %w", err)
		}
		c.out.TraceSuccess("Client registered with ID: %s", handler.GetClientID())
	}

	codeVerifier, err := mcpclient.GenerateCodeVerifier()
	if err != nil {
		return fmt.Errorf("failed to generate code verifier: %w", err)
	}
	codeChallenge := mcpclient.GenerateCodeChallenge(codeVerifier)

	state, err := mcpclient.GenerateState()
	if err != nil {
		return fmt.Errorf("failed to generate state: %w", err)
	}

	authURL, err := handler.GetAuthorizationURL(ctx, state, codeChallenge)
	if err != nil {
		return fmt.Errorf("failed to get authorization URL: %w", err)
	}

	redirect, err := url.Parse(c.oauth.RedirectURL)
	if err != nil {
		return fmt.Errorf("invalid redirect URI: %w", err)
	}

	callbackChan := make(chan map[string]string, 1)
	errChan := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc(redirect.Path, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		params := make(map[string]string)
		for key, values := range r.URL.Query() {
			if len(values) > 0 {
				params[key] = values[0]
			}
		}

		if params["error"] != "" {
			errChan <- fmt.Errorf("authorization error: %s - %s", params["error"], params["error_description"])
			http.Error(w, "Authorization failed", http.StatusBadRequest)
			return
		}

		callbackChan <- params
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><h1>Authorization successful</h1><p>You can close this window.</p></body></html>`))
	})

	server := &http.Server{
		Addr:         redirect.Host,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("callback server error: %w", err)
		}
	}()
	defer func() { _ = server.Shutdown(context.Background()) }()

	c.out.Text("Opening browser for authorization: %s", authURL)
	if err := openBrowser(authURL); err != nil {
		c.out.Warning("Could not open browser automatically: %v", err)
		c.out.Text("Open this URL in your browser: %s", authURL)
	}

	var params map[string]string
	select {
	case params = <-callbackChan:
	case err := <-errChan:
		return err
	case <-time.After(authorizationTimeout):
		return fmt.Errorf("authorization timeout")
	case <-ctx.Done():
		return ctx.Err()
	}

	if params["state"] != state {
		return fmt.Errorf("state mismatch (CSRF protection)")
	}
	code := params["code"]
	if code == "" {
		return fmt.Errorf("no authorization code received")
	}

	if err := handler.ProcessAuthorizationResponse(ctx, code, state, codeVerifier); err != nil {
		return fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	c.out.TraceSuccess("Access token obtained")
	return nil
}

// openBrowser opens the URL in the platform's default browser.
func openBrowser(urlStr string) error {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme for browser: %s", parsed.Scheme)
	}

	switch runtime.GOOS {
	case "linux":
		return exec.Command("xdg-open", urlStr).Start()
	case "darwin":
		return exec.Command("open", urlStr).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", urlStr).Start()
	default:
		return fmt.Errorf("unsupported platform")
	}
}
