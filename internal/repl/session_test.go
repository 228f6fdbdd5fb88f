package repl

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/chzyer/readline"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcptool/internal/client"
	"mcptool/internal/output"
)

type sessionHarness struct {
	session  *Session
	buf      *bytes.Buffer
	relay    *client.Relay
	executed [][]string
	execErr  error
	initRuns int
}

func newSessionHarness() *sessionHarness {
	h := &sessionHarness{
		buf:   &bytes.Buffer{},
		relay: client.NewRelay(),
	}
	h.session = &Session{
		out:           output.NewWithWriter(false, false, h.buf),
		notifications: h.relay,
		exec: func(_ context.Context, fields []string) error {
			h.executed = append(h.executed, fields)
			return h.execErr
		},
		showInit: func() { h.initRuns++ },
	}
	return h
}

func (h *sessionHarness) run(t *testing.T, lines []string, final error) {
	t.Helper()
	err := h.session.run(context.Background(), scriptedRead(lines, final))
	require.NoError(t, err)
}

func TestSessionQuit(t *testing.T) {
	h := newSessionHarness()
	h.run(t, []string{"quit"}, io.EOF)

	assert.Contains(t, h.buf.String(), "Goodbye!")
	assert.Empty(t, h.executed)
}

func TestSessionExitAlias(t *testing.T) {
	h := newSessionHarness()
	h.run(t, []string{"exit"}, io.EOF)

	assert.Contains(t, h.buf.String(), "Goodbye!")
	assert.Empty(t, h.executed)
}

func TestSessionDispatchesCommands(t *testing.T) {
	h := newSessionHarness()
	h.run(t, []string{"tools", "read file:///a.txt", "quit"}, io.EOF)

	require.Len(t, h.executed, 2)
	assert.Equal(t, []string{"tools"}, h.executed[0])
	assert.Equal(t, []string{"read", "file:///a.txt"}, h.executed[1])
}

func TestSessionInterruptEndsSession(t *testing.T) {
	h := newSessionHarness()
	h.run(t, nil, readline.ErrInterrupt)

	assert.Contains(t, h.buf.String(), "CTRL-C")
}

func TestSessionEOFEndsSession(t *testing.T) {
	h := newSessionHarness()
	h.run(t, nil, io.EOF)

	assert.Contains(t, h.buf.String(), "CTRL-D")
}

func TestSessionReadErrorEndsSession(t *testing.T) {
	h := newSessionHarness()
	h.run(t, nil, errors.New("terminal gone"))

	assert.Contains(t, h.buf.String(), "Input error: terminal gone")
}

func TestSessionInvalidCommandGetsHelpHint(t *testing.T) {
	h := newSessionHarness()
	h.execErr = invalidCommandError(`unknown command "bogus"`)
	h.run(t, []string{"bogus", "quit"}, io.EOF)

	got := h.buf.String()
	assert.Contains(t, got, `Invalid command: unknown command "bogus"`)
	assert.Contains(t, got, "Type 'help' for available commands.")
}

func TestSessionCommandFailureIsNotFatal(t *testing.T) {
	h := newSessionHarness()
	h.execErr = errors.New("boom")
	h.run(t, []string{"ping", "ping", "quit"}, io.EOF)

	assert.Len(t, h.executed, 2)
	assert.Contains(t, h.buf.String(), "Command failed: boom")
	assert.NotContains(t, h.buf.String(), "Invalid command")
}

func TestSessionHelp(t *testing.T) {
	h := newSessionHarness()
	h.run(t, []string{"help", "quit"}, io.EOF)

	got := h.buf.String()
	assert.Contains(t, got, "Available commands:")
	assert.Contains(t, got, "set-level <level>")
	assert.Empty(t, h.executed)
}

func TestSessionInitShowsCachedHandshake(t *testing.T) {
	h := newSessionHarness()
	h.run(t, []string{"init", "quit"}, io.EOF)

	assert.Equal(t, 1, h.initRuns)
	assert.Contains(t, h.buf.String(), "not re-initializing")
	assert.Empty(t, h.executed)
}

func TestSessionRendersNotificationsBetweenLines(t *testing.T) {
	h := newSessionHarness()
	h.session.exec = func(_ context.Context, fields []string) error {
		n := mcp.JSONRPCNotification{}
		n.Method = "notifications/resources/updated"
		n.Params.AdditionalFields = map[string]interface{}{"uri": "file:///a.txt"}
		h.relay.Handle(n)
		return nil
	}

	lines := []string{"ping", "quit"}
	i := 0
	read := func() (string, error) {
		if i == 1 {
			// Let the loop drain the relay before the next line arrives,
			// so arrival order is deterministic.
			for h.relay.Len() > 0 {
				time.Sleep(time.Millisecond)
			}
		}
		if i < len(lines) {
			line := lines[i]
			i++
			return line, nil
		}
		return "", io.EOF
	}

	require.NoError(t, h.session.run(context.Background(), read))

	got := h.buf.String()
	assert.Contains(t, got, "[NOTIFICATION] Resource updated: file:///a.txt")
	assert.Less(t, strings.Index(got, "[NOTIFICATION]"), strings.Index(got, "Goodbye!"))
}

func TestSessionNotificationOrderPreserved(t *testing.T) {
	h := newSessionHarness()
	h.session.exec = func(_ context.Context, fields []string) error {
		for _, uri := range []string{"file:///1", "file:///2", "file:///3"} {
			n := mcp.JSONRPCNotification{}
			n.Method = "notifications/resources/updated"
			n.Params.AdditionalFields = map[string]interface{}{"uri": uri}
			h.relay.Handle(n)
		}
		return nil
	}

	lines := []string{"ping", "quit"}
	i := 0
	read := func() (string, error) {
		if i == 1 {
			for h.relay.Len() > 0 {
				time.Sleep(time.Millisecond)
			}
		}
		if i < len(lines) {
			line := lines[i]
			i++
			return line, nil
		}
		return "", io.EOF
	}

	require.NoError(t, h.session.run(context.Background(), read))

	got := h.buf.String()
	first := strings.Index(got, "file:///1")
	second := strings.Index(got, "file:///2")
	third := strings.Index(got, "file:///3")
	require.NotEqual(t, -1, first)
	require.NotEqual(t, -1, second)
	require.NotEqual(t, -1, third)
	assert.Less(t, first, second)
	assert.Less(t, second, third)
}

func TestSessionContextCancellation(t *testing.T) {
	h := newSessionHarness()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	block := make(chan struct{})
	t.Cleanup(func() { close(block) })
	read := func() (string, error) {
		<-block
		return "", io.EOF
	}

	err := h.session.run(ctx, read)
	require.NoError(t, err)
	assert.Contains(t, h.buf.String(), "Interrupted")
}
