// Package cmd defines the mcptool command line: one-shot protocol commands,
// the interactive connect session, and self-update.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"mcptool/internal/client"
	"mcptool/internal/output"
	"mcptool/internal/target"
)

var (
	version string

	jsonOut bool
	noColor bool
	timeout time.Duration

	// OAuth flags
	oauthEnabled      bool
	oauthClientID     string
	oauthClientSecret string
	oauthScopes       []string
	oauthRedirectURL  string
	oauthUsePKCE      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mcptool",
	Short: "Command-line MCP client",
	Long: `mcptool is a command-line client for MCP (Model Context Protocol) servers.

Every command takes a target as its first argument:
  http://host/path or https://host/path   streamable HTTP transport
  http(s)://host/sse                      SSE transport
  stdio://command args...                 spawn a local server over stdio
  command args...                         shorthand for stdio

One-shot commands connect, run a single protocol operation, and exit.
The 'connect' command opens an interactive session where protocol commands
can be issued repeatedly while server notifications are displayed as they
arrive between prompts.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// SetVersion sets the version for the application
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Emit machine-readable JSON instead of formatted output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", time.Minute, "Timeout for one-shot commands and notification listening")

	rootCmd.PersistentFlags().BoolVar(&oauthEnabled, "oauth", false, "Enable OAuth authentication for protected MCP servers")
	rootCmd.PersistentFlags().StringVar(&oauthClientID, "oauth-client-id", "", "OAuth client ID (uses Dynamic Client Registration if not provided)")
	rootCmd.PersistentFlags().StringVar(&oauthClientSecret, "oauth-client-secret", "", "OAuth client secret (optional)")
	rootCmd.PersistentFlags().StringSliceVar(&oauthScopes, "oauth-scopes", nil, "OAuth scopes to request")
	rootCmd.PersistentFlags().StringVar(&oauthRedirectURL, "oauth-redirect-url", "http://localhost:8765/callback", "OAuth redirect URL for the authorization callback")
	rootCmd.PersistentFlags().BoolVar(&oauthUsePKCE, "oauth-pkce", true, "Use PKCE (Proof Key for Code Exchange) for the OAuth flow")

	rootCmd.AddCommand(
		newConnectCmd(),
		newInitCmd(),
		newPingCmd(),
		newToolsCmd(),
		newResourcesCmd(),
		newTemplatesCmd(),
		newPromptsCmd(),
		newCallCmd(),
		newReadCmd(),
		newSubscribeCmd(),
		newUnsubscribeCmd(),
		newPromptCmd(),
		newCompleteCmd(),
		newSetLevelCmd(),
		newSelfUpdateCmd(),
	)
}

func newOutput() *output.Output {
	return output.New(!noColor, jsonOut)
}

// setupSignalHandler sets up graceful shutdown on interrupt signals
func setupSignalHandler(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()
}

// buildOAuthConfig creates an OAuth configuration from CLI flags
func buildOAuthConfig(cmd *cobra.Command, out *output.Output) *client.OAuthConfig {
	if !oauthEnabled {
		return nil
	}

	if oauthClientSecret != "" && cmd.Flags().Changed("oauth-client-secret") {
		out.Warning("Client secret passed via CLI flag is visible in process listings")
		out.Note("Consider using an environment variable instead: export OAUTH_CLIENT_SECRET=\"...\"")
	}

	cfg := client.DefaultOAuthConfig()
	cfg.Enabled = true
	cfg.ClientID = oauthClientID
	cfg.ClientSecret = oauthClientSecret
	cfg.RedirectURL = oauthRedirectURL
	cfg.UsePKCE = oauthUsePKCE
	if len(oauthScopes) > 0 {
		cfg.Scopes = oauthScopes
	}

	if oauthClientID == "" {
		out.Note("OAuth enabled, will attempt Dynamic Client Registration")
	} else {
		out.Note("OAuth enabled with client ID: %s", oauthClientID)
	}

	return cfg
}

// connect parses the target and establishes an initialized connection.
func connect(ctx context.Context, cmd *cobra.Command, targetArg string, out *output.Output) (*client.Client, error) {
	t, err := target.Parse(targetArg)
	if err != nil {
		return nil, err
	}

	c, err := client.Connect(ctx, client.Config{
		Target:  t,
		Output:  out,
		OAuth:   buildOAuthConfig(cmd, out),
		Version: version,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", targetArg, err)
	}
	return c, nil
}

// withConnection runs fn against a connection that lives for one command.
// The command timeout bounds the whole run, connect included.
func withConnection(cmd *cobra.Command, targetArg string, fn func(ctx context.Context, c *client.Client, out *output.Output) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()
	setupSignalHandler(cancel)

	out := newOutput()
	c, err := connect(ctx, cmd, targetArg, out)
	if err != nil {
		return err
	}
	defer c.Close()

	return fn(ctx, c, out)
}
