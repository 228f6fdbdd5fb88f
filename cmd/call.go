package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"mcptool/internal/client"
	"mcptool/internal/ops"
	"mcptool/internal/output"
	"mcptool/internal/toolargs"
)

func newCallCmd() *cobra.Command {
	var (
		inline      []string
		interactive bool
		jsonArgs    bool
	)

	cmd := &cobra.Command{
		Use:   "call <target> <tool>",
		Short: "Call a tool on an MCP server",
		Long: `Call a tool on an MCP server.

Arguments come from exactly one source:
  --arg key=value    inline arguments, repeatable
  --interactive      prompt for each parameter declared by the tool's schema
  --json             read one JSON argument object from standard input`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sel := toolargs.Selection{
				Inline:      inline,
				Interactive: interactive,
				JSON:        jsonArgs,
			}
			// Fail mode selection before connecting.
			if _, err := sel.Mode(); err != nil {
				return err
			}
			return withConnection(cmd, args[0], func(ctx context.Context, c *client.Client, out *output.Output) error {
				return ops.CallTool(ctx, c.Conn(), out, args[1], sel, os.Stdin)
			})
		},
	}

	cmd.Flags().StringArrayVar(&inline, "arg", nil, "Tool argument as key=value (repeatable)")
	cmd.Flags().BoolVar(&interactive, "interactive", false, "Prompt for each parameter declared by the tool")
	cmd.Flags().BoolVar(&jsonArgs, "json", false, "Read a JSON argument object from standard input")

	return cmd
}
