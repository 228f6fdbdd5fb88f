// Package ops dispatches parsed commands to MCP protocol operations and
// renders their results. Every call is timed for display; timing is advisory
// and no timeout is imposed here. Errors propagate unchanged to the caller,
// which decides whether they end the session (they never do in the REPL).
package ops

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"mcptool/internal/output"
	"mcptool/internal/toolargs"
)

// Ping checks that the server is responsive.
func Ping(ctx context.Context, conn mcpclient.MCPClient, out *output.Output) error {
	out.Text("Pinging")
	_, err := timed(out, "response", func() (struct{}, error) {
		return struct{}{}, conn.Ping(ctx)
	})
	if err != nil {
		return err
	}
	out.TraceSuccess("Pong")
	return nil
}

// ListTools lists the server's tools.
func ListTools(ctx context.Context, conn mcpclient.MCPClient, out *output.Output) error {
	out.Text("Listing tools")
	result, err := timed(out, "response", func() (*mcp.ListToolsResult, error) {
		return conn.ListTools(ctx, mcp.ListToolsRequest{})
	})
	if err != nil {
		return err
	}
	renderTools(out, result)
	return nil
}

// ListResources lists the server's resources.
func ListResources(ctx context.Context, conn mcpclient.MCPClient, out *output.Output) error {
	out.Text("Listing resources")
	result, err := timed(out, "response", func() (*mcp.ListResourcesResult, error) {
		return conn.ListResources(ctx, mcp.ListResourcesRequest{})
	})
	if err != nil {
		return err
	}
	renderResources(out, result)
	return nil
}

// ListResourceTemplates lists the server's resource templates.
func ListResourceTemplates(ctx context.Context, conn mcpclient.MCPClient, out *output.Output) error {
	out.Text("Listing resource templates")
	result, err := timed(out, "response", func() (*mcp.ListResourceTemplatesResult, error) {
		return conn.ListResourceTemplates(ctx, mcp.ListResourceTemplatesRequest{})
	})
	if err != nil {
		return err
	}
	renderResourceTemplates(out, result)
	return nil
}

// ListPrompts lists the server's prompts.
func ListPrompts(ctx context.Context, conn mcpclient.MCPClient, out *output.Output) error {
	out.Text("Listing prompts")
	result, err := timed(out, "response", func() (*mcp.ListPromptsResult, error) {
		return conn.ListPrompts(ctx, mcp.ListPromptsRequest{})
	})
	if err != nil {
		return err
	}
	renderPrompts(out, result)
	return nil
}

// CallTool invokes a tool. The argument mode is validated before any network
// or terminal I/O; the tool's schema is fetched to locate the tool and to
// drive interactive prompting.
func CallTool(ctx context.Context, conn mcpclient.MCPClient, out *output.Output, name string, sel toolargs.Selection, stdin io.Reader) error {
	if _, err := sel.Mode(); err != nil {
		return err
	}

	out.Text("Calling tool: %s", name)

	tools, err := timed(out, "fetching tools", func() (*mcp.ListToolsResult, error) {
		return conn.ListTools(ctx, mcp.ListToolsRequest{})
	})
	if err != nil {
		return err
	}

	var tool *mcp.Tool
	for i := range tools.Tools {
		if tools.Tools[i].Name == name {
			tool = &tools.Tools[i]
			break
		}
	}
	if tool == nil {
		return fmt.Errorf("tool %q not found", name)
	}

	args, err := toolargs.Resolve(sel, tool, stdin, out)
	if err != nil {
		return err
	}

	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	req.Params.Meta = &mcp.Meta{ProgressToken: uuid.NewString()}

	result, err := timed(out, "response", func() (*mcp.CallToolResult, error) {
		return conn.CallTool(ctx, req)
	})
	if err != nil {
		return err
	}
	renderToolResult(out, result)
	return nil
}

// ReadResource reads one resource by URI.
func ReadResource(ctx context.Context, conn mcpclient.MCPClient, out *output.Output, uri string) error {
	out.Text("Reading resource: %s", uri)

	req := mcp.ReadResourceRequest{}
	req.Params.URI = uri

	result, err := timed(out, "response", func() (*mcp.ReadResourceResult, error) {
		return conn.ReadResource(ctx, req)
	})
	if err != nil {
		return err
	}
	renderResourceContents(out, result)
	return nil
}

// Subscribe subscribes to updates for a resource.
func Subscribe(ctx context.Context, conn mcpclient.MCPClient, out *output.Output, uri string) error {
	out.Text("Subscribing to resource: %s", uri)

	req := mcp.SubscribeRequest{}
	req.Params.URI = uri

	if _, err := timed(out, "response", func() (struct{}, error) {
		return struct{}{}, conn.Subscribe(ctx, req)
	}); err != nil {
		return err
	}
	out.TraceSuccess("Subscribed to resource: %s", uri)
	return nil
}

// Unsubscribe removes a resource subscription.
func Unsubscribe(ctx context.Context, conn mcpclient.MCPClient, out *output.Output, uri string) error {
	out.Text("Unsubscribing from resource: %s", uri)

	req := mcp.UnsubscribeRequest{}
	req.Params.URI = uri

	if _, err := timed(out, "response", func() (struct{}, error) {
		return struct{}{}, conn.Unsubscribe(ctx, req)
	}); err != nil {
		return err
	}
	out.TraceSuccess("Unsubscribed from resource: %s", uri)
	return nil
}

// GetPrompt fetches a prompt, with arguments given as key=value pairs.
func GetPrompt(ctx context.Context, conn mcpclient.MCPClient, out *output.Output, name string, pairs []string) error {
	out.Text("Getting prompt: %s", name)

	args, err := toolargs.ParseKeyValue(pairs)
	if err != nil {
		return err
	}
	strArgs := make(map[string]string, len(args))
	for k, v := range args {
		strArgs[k] = fmt.Sprintf("%v", v)
	}

	req := mcp.GetPromptRequest{}
	req.Params.Name = name
	req.Params.Arguments = strArgs

	result, err := timed(out, "response", func() (*mcp.GetPromptResult, error) {
		return conn.GetPrompt(ctx, req)
	})
	if err != nil {
		return err
	}
	renderPromptResult(out, result)
	return nil
}

// Complete requests completion values for a prompt or resource argument.
func Complete(ctx context.Context, conn mcpclient.MCPClient, out *output.Output, reference, argument string) error {
	ref, err := ParseReference(reference)
	if err != nil {
		return err
	}

	out.Text("Getting completions for: %s/%s", reference, argument)

	req := mcp.CompleteRequest{}
	req.Params.Ref = ref
	req.Params.Argument.Name = argument
	req.Params.Argument.Value = ""

	result, err := timed(out, "response", func() (*mcp.CompleteResult, error) {
		return conn.Complete(ctx, req)
	})
	if err != nil {
		return err
	}
	renderCompletions(out, result)
	return nil
}

// ParseReference turns a resource:// or prompt:// reference string into the
// protocol reference value for completion requests.
func ParseReference(reference string) (interface{}, error) {
	switch {
	case strings.HasPrefix(reference, "resource://"):
		return mcp.ResourceReference{
			Type: "ref/resource",
			URI:  reference,
		}, nil
	case strings.HasPrefix(reference, "prompt://"):
		return mcp.PromptReference{
			Type: "ref/prompt",
			Name: strings.TrimPrefix(reference, "prompt://"),
		}, nil
	default:
		return nil, fmt.Errorf("invalid reference format: %q. Expected resource:// or prompt:// prefix", reference)
	}
}

// loggingLevels is the RFC 5424 level set accepted by logging/setLevel.
var loggingLevels = map[string]mcp.LoggingLevel{
	"debug":     mcp.LoggingLevelDebug,
	"info":      mcp.LoggingLevelInfo,
	"notice":    mcp.LoggingLevelNotice,
	"warning":   mcp.LoggingLevelWarning,
	"error":     mcp.LoggingLevelError,
	"critical":  mcp.LoggingLevelCritical,
	"alert":     mcp.LoggingLevelAlert,
	"emergency": mcp.LoggingLevelEmergency,
}

// SetLevel sets the server's logging level. The level string is validated
// locally before dispatch.
func SetLevel(ctx context.Context, conn mcpclient.MCPClient, out *output.Output, level string) error {
	parsed, ok := loggingLevels[strings.ToLower(level)]
	if !ok {
		return fmt.Errorf("invalid logging level: %s. Valid levels are: debug, info, notice, warning, error, critical, alert, emergency", level)
	}

	out.Text("Setting logging level to: %s", level)

	req := mcp.SetLevelRequest{}
	req.Params.Level = parsed

	if _, err := timed(out, "response", func() (struct{}, error) {
		return struct{}{}, conn.SetLevel(ctx, req)
	}); err != nil {
		return err
	}
	out.TraceSuccess("Set logging level to: %s", level)
	return nil
}
