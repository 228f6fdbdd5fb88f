package repl

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/spf13/pflag"

	"mcptool/internal/ops"
	"mcptool/internal/output"
	"mcptool/internal/toolargs"
)

// invalidCommandError marks a parse-stage failure: unknown command, missing
// arguments, or bad flags. The session renders these with a help hint;
// dispatch failures get no hint because the command itself was well-formed.
type invalidCommandError string

func (e invalidCommandError) Error() string { return string(e) }

type command struct {
	minArgs int
	usage   string
	help    string
	run     func(ctx context.Context, conn mcpclient.MCPClient, out *output.Output, args []string) error
}

const callUsage = "call <tool> [--arg key=value ...] [--interactive] [--json]"

var commands = map[string]command{
	"ping": {
		usage: "ping",
		help:  "Check that the server is responsive",
		run: func(ctx context.Context, conn mcpclient.MCPClient, out *output.Output, _ []string) error {
			return ops.Ping(ctx, conn, out)
		},
	},
	"tools": {
		usage: "tools",
		help:  "List available tools",
		run: func(ctx context.Context, conn mcpclient.MCPClient, out *output.Output, _ []string) error {
			return ops.ListTools(ctx, conn, out)
		},
	},
	"resources": {
		usage: "resources",
		help:  "List available resources",
		run: func(ctx context.Context, conn mcpclient.MCPClient, out *output.Output, _ []string) error {
			return ops.ListResources(ctx, conn, out)
		},
	},
	"templates": {
		usage: "templates",
		help:  "List available resource templates",
		run: func(ctx context.Context, conn mcpclient.MCPClient, out *output.Output, _ []string) error {
			return ops.ListResourceTemplates(ctx, conn, out)
		},
	},
	"prompts": {
		usage: "prompts",
		help:  "List available prompts",
		run: func(ctx context.Context, conn mcpclient.MCPClient, out *output.Output, _ []string) error {
			return ops.ListPrompts(ctx, conn, out)
		},
	},
	"call": {
		minArgs: 1,
		usage:   callUsage,
		help:    "Call a tool with arguments from one source",
		run:     runCall,
	},
	"read": {
		minArgs: 1,
		usage:   "read <uri>",
		help:    "Read a resource by URI",
		run: func(ctx context.Context, conn mcpclient.MCPClient, out *output.Output, args []string) error {
			return ops.ReadResource(ctx, conn, out, args[0])
		},
	},
	"subscribe": {
		minArgs: 1,
		usage:   "subscribe <uri>",
		help:    "Subscribe to updates for a resource",
		run: func(ctx context.Context, conn mcpclient.MCPClient, out *output.Output, args []string) error {
			return ops.Subscribe(ctx, conn, out, args[0])
		},
	},
	"unsubscribe": {
		minArgs: 1,
		usage:   "unsubscribe <uri>",
		help:    "Remove a resource subscription",
		run: func(ctx context.Context, conn mcpclient.MCPClient, out *output.Output, args []string) error {
			return ops.Unsubscribe(ctx, conn, out, args[0])
		},
	},
	"prompt": {
		minArgs: 1,
		usage:   "prompt <name> [key=value ...]",
		help:    "Get a prompt with the given arguments",
		run: func(ctx context.Context, conn mcpclient.MCPClient, out *output.Output, args []string) error {
			return ops.GetPrompt(ctx, conn, out, args[0], args[1:])
		},
	},
	"complete": {
		minArgs: 2,
		usage:   "complete <resource://uri | prompt://name> <argument>",
		help:    "Request completion values for an argument",
		run: func(ctx context.Context, conn mcpclient.MCPClient, out *output.Output, args []string) error {
			return ops.Complete(ctx, conn, out, args[0], args[1])
		},
	},
	"set-level": {
		minArgs: 1,
		usage:   "set-level <level>",
		help:    "Set the server's logging level",
		run: func(ctx context.Context, conn mcpclient.MCPClient, out *output.Output, args []string) error {
			return ops.SetLevel(ctx, conn, out, args[0])
		},
	},
}

func runCall(ctx context.Context, conn mcpclient.MCPClient, out *output.Output, args []string) error {
	fs := pflag.NewFlagSet("call", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	inline := fs.StringArray("arg", nil, "tool argument as key=value")
	interactive := fs.Bool("interactive", false, "prompt for each parameter")
	jsonArgs := fs.Bool("json", false, "read a JSON argument object from stdin")
	if err := fs.Parse(args); err != nil {
		return invalidCommandError(err.Error())
	}
	if fs.NArg() != 1 {
		return invalidCommandError("usage: " + callUsage)
	}

	sel := toolargs.Selection{
		Inline:      *inline,
		Interactive: *interactive,
		JSON:        *jsonArgs,
	}
	return ops.CallTool(ctx, conn, out, fs.Arg(0), sel, os.Stdin)
}

// dispatch parses one input line's fields and runs the matching command.
func dispatch(ctx context.Context, conn mcpclient.MCPClient, out *output.Output, fields []string) error {
	name := fields[0]
	cmd, ok := commands[name]
	if !ok {
		return invalidCommandError(fmt.Sprintf("unknown command %q", name))
	}
	if len(fields)-1 < cmd.minArgs {
		return invalidCommandError("usage: " + cmd.usage)
	}
	return cmd.run(ctx, conn, out, fields[1:])
}

// commandNames returns the protocol command names in sorted order.
func commandNames() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func printHelp(out *output.Output) {
	out.H1("Available commands:")
	for _, name := range commandNames() {
		cmd := commands[name]
		out.Text("  %-60s %s", cmd.usage, cmd.help)
	}
	out.Text("  %-60s %s", "init", "Show the initialization result from connect")
	out.Text("  %-60s %s", "help", "Show this help")
	out.Text("  %-60s %s", "quit, exit", "End the session")
	out.Text("")
	out.Text("Tool argument modes for 'call' (exactly one):")
	out.Text("  --arg key=value     inline arguments, repeatable")
	out.Text("  --interactive       prompt for each declared parameter")
	out.Text("  --json              read a JSON object from standard input")
}
