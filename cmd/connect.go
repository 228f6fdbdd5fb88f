package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"mcptool/internal/repl"
)

func newConnectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "connect <target>",
		Short: "Open an interactive session with an MCP server",
		Long: `Open an interactive session with an MCP server.

Protocol commands can be issued repeatedly at the prompt while server
notifications are displayed as they arrive between prompts. Type 'help'
at the prompt for the command list; 'quit', Ctrl-C, or Ctrl-D ends the
session. The --timeout flag does not apply to the session itself.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			setupSignalHandler(cancel)

			out := newOutput()
			c, err := connect(ctx, cmd, args[0], out)
			if err != nil {
				return err
			}
			defer c.Close()

			return repl.NewSession(c, out).Run(ctx)
		},
	}
}
