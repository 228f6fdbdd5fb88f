package ops

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/mcptest"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcptool/internal/output"
	"mcptool/internal/toolargs"
)

// startTestServer runs an in-process MCP server with one echo tool and
// returns an initialized client for it.
func startTestServer(t *testing.T) (context.Context, mcpclient.MCPClient) {
	t.Helper()

	srv, err := mcptest.NewServer(t, server.ServerTool{
		Tool: mcp.NewTool("echo",
			mcp.WithDescription("Echo the input text"),
			mcp.WithString("text", mcp.Required(), mcp.Description("text to echo")),
		),
		Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText(req.GetString("text", "")), nil
		},
	})
	require.NoError(t, err)
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	conn := srv.Client()
	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{Name: "mcptool-test", Version: "0.0.0"}
	_, err = conn.Initialize(ctx, initReq)
	require.NoError(t, err)

	return ctx, conn
}

func testOutput() (*output.Output, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return output.NewWithWriter(false, false, buf), buf
}

func TestPing(t *testing.T) {
	ctx, conn := startTestServer(t)
	out, buf := testOutput()

	require.NoError(t, Ping(ctx, conn, out))

	assert.Contains(t, buf.String(), "Pong")
}

func TestListTools(t *testing.T) {
	ctx, conn := startTestServer(t)
	out, buf := testOutput()

	require.NoError(t, ListTools(ctx, conn, out))

	assert.Contains(t, buf.String(), "echo")
	assert.Contains(t, buf.String(), "Echo the input text")
}

func TestListToolsJSONMode(t *testing.T) {
	ctx, conn := startTestServer(t)
	buf := &bytes.Buffer{}
	out := output.NewWithWriter(false, true, buf)

	require.NoError(t, ListTools(ctx, conn, out))

	var result mcp.ListToolsResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	require.Len(t, result.Tools, 1)
	assert.Equal(t, "echo", result.Tools[0].Name)
}

func TestCallToolJSONModeOutputParseable(t *testing.T) {
	ctx, conn := startTestServer(t)
	buf := &bytes.Buffer{}
	out := output.NewWithWriter(false, true, buf)

	sel := toolargs.Selection{Inline: []string{"text=hi"}}
	require.NoError(t, CallTool(ctx, conn, out, "echo", sel, strings.NewReader("")))

	// No banner or timing lines may precede the document.
	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	require.Contains(t, result, "content")
}

func TestCallToolInlineArgs(t *testing.T) {
	ctx, conn := startTestServer(t)
	out, buf := testOutput()

	sel := toolargs.Selection{Inline: []string{"text=hello there"}}
	require.NoError(t, CallTool(ctx, conn, out, "echo", sel, strings.NewReader("")))

	assert.Contains(t, buf.String(), "hello there")
}

func TestCallToolJSONArgs(t *testing.T) {
	ctx, conn := startTestServer(t)
	out, buf := testOutput()

	sel := toolargs.Selection{JSON: true}
	require.NoError(t, CallTool(ctx, conn, out, "echo", sel, strings.NewReader(`{"text": "from stdin"}`)))

	assert.Contains(t, buf.String(), "from stdin")
}

func TestCallToolInteractiveArgs(t *testing.T) {
	ctx, conn := startTestServer(t)
	out, buf := testOutput()

	sel := toolargs.Selection{Interactive: true}
	require.NoError(t, CallTool(ctx, conn, out, "echo", sel, strings.NewReader("typed in\n")))

	assert.Contains(t, buf.String(), "text (text to echo) [required]: ")
	assert.Contains(t, buf.String(), "typed in")
}

func TestCallToolValidatesModeBeforeAnyIO(t *testing.T) {
	out, _ := testOutput()

	// A nil connection proves no request is attempted when the mode
	// selection is invalid.
	err := CallTool(context.Background(), nil, out, "echo", toolargs.Selection{}, strings.NewReader(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must specify one of")

	err = CallTool(context.Background(), nil, out, "echo", toolargs.Selection{Interactive: true, JSON: true}, strings.NewReader(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot combine")
}

func TestCallToolUnknownTool(t *testing.T) {
	ctx, conn := startTestServer(t)
	out, _ := testOutput()

	sel := toolargs.Selection{Inline: []string{"text=x"}}
	err := CallTool(ctx, conn, out, "missing", sel, strings.NewReader(""))

	require.Error(t, err)
	assert.Contains(t, err.Error(), `tool "missing" not found`)
}

func TestParseReference(t *testing.T) {
	ref, err := ParseReference("resource://files/report.txt")
	require.NoError(t, err)
	assert.Equal(t, mcp.ResourceReference{Type: "ref/resource", URI: "resource://files/report.txt"}, ref)

	ref, err = ParseReference("prompt://greeting")
	require.NoError(t, err)
	assert.Equal(t, mcp.PromptReference{Type: "ref/prompt", Name: "greeting"}, ref)

	_, err = ParseReference("files/report.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid reference format")
}

func TestSetLevelRejectsUnknownLevel(t *testing.T) {
	out, _ := testOutput()

	// Validation happens before dispatch, so no connection is needed.
	err := SetLevel(context.Background(), nil, out, "loud")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid logging level: loud")
	assert.Contains(t, err.Error(), "debug, info, notice, warning, error, critical, alert, emergency")
}
