package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"mcptool/internal/client"
	"mcptool/internal/ops"
	"mcptool/internal/output"
	"mcptool/internal/repl"
)

func newPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping <target>",
		Short: "Check that an MCP server is responsive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConnection(cmd, args[0], func(ctx context.Context, c *client.Client, out *output.Output) error {
				return ops.Ping(ctx, c.Conn(), out)
			})
		},
	}
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init <target>",
		Short: "Connect and show the server's initialization result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConnection(cmd, args[0], func(_ context.Context, c *client.Client, out *output.Output) error {
				ops.ShowInit(out, c.Init())
				return nil
			})
		},
	}
}

func newToolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools <target>",
		Short: "List the server's tools",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConnection(cmd, args[0], func(ctx context.Context, c *client.Client, out *output.Output) error {
				return ops.ListTools(ctx, c.Conn(), out)
			})
		},
	}
}

func newResourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resources <target>",
		Short: "List the server's resources",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConnection(cmd, args[0], func(ctx context.Context, c *client.Client, out *output.Output) error {
				return ops.ListResources(ctx, c.Conn(), out)
			})
		},
	}
}

func newTemplatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates <target>",
		Short: "List the server's resource templates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConnection(cmd, args[0], func(ctx context.Context, c *client.Client, out *output.Output) error {
				return ops.ListResourceTemplates(ctx, c.Conn(), out)
			})
		},
	}
}

func newPromptsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prompts <target>",
		Short: "List the server's prompts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConnection(cmd, args[0], func(ctx context.Context, c *client.Client, out *output.Output) error {
				return ops.ListPrompts(ctx, c.Conn(), out)
			})
		},
	}
}

func newReadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read <target> <uri>",
		Short: "Read a resource by URI",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConnection(cmd, args[0], func(ctx context.Context, c *client.Client, out *output.Output) error {
				return ops.ReadResource(ctx, c.Conn(), out, args[1])
			})
		},
	}
}

func newSubscribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "subscribe <target> <uri>",
		Short: "Subscribe to a resource and print notifications until the timeout",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConnection(cmd, args[0], func(ctx context.Context, c *client.Client, out *output.Output) error {
				if err := ops.Subscribe(ctx, c.Conn(), out, args[1]); err != nil {
					return err
				}
				out.Text("Listening for notifications (timeout %s, Ctrl-C to stop)", timeout)
				return listenForNotifications(ctx, c, out)
			})
		},
	}
}

func newUnsubscribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unsubscribe <target> <uri>",
		Short: "Remove a resource subscription",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConnection(cmd, args[0], func(ctx context.Context, c *client.Client, out *output.Output) error {
				return ops.Unsubscribe(ctx, c.Conn(), out, args[1])
			})
		},
	}
}

func newPromptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prompt <target> <name> [key=value ...]",
		Short: "Get a prompt with the given arguments",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConnection(cmd, args[0], func(ctx context.Context, c *client.Client, out *output.Output) error {
				return ops.GetPrompt(ctx, c.Conn(), out, args[1], args[2:])
			})
		},
	}
}

func newCompleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete <target> <resource://uri | prompt://name> <argument>",
		Short: "Request completion values for a prompt or resource argument",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConnection(cmd, args[0], func(ctx context.Context, c *client.Client, out *output.Output) error {
				return ops.Complete(ctx, c.Conn(), out, args[1], args[2])
			})
		},
	}
}

func newSetLevelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-level <target> <level>",
		Short: "Set the server's logging level",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConnection(cmd, args[0], func(ctx context.Context, c *client.Client, out *output.Output) error {
				return ops.SetLevel(ctx, c.Conn(), out, args[1])
			})
		},
	}
}

// listenForNotifications drains the relay until the context ends. Reaching
// the timeout is a normal exit, not an error.
func listenForNotifications(ctx context.Context, c *client.Client, out *output.Output) error {
	relay := c.Notifications()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-relay.Ready():
			if n, ok := relay.Next(); ok {
				repl.RenderNotification(out, n)
			}
		}
	}
}
