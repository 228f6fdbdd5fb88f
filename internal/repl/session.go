// Package repl runs the interactive session: a single loop that multiplexes
// blocking prompt input, server-pushed notifications, and command dispatch.
// One event is handled per iteration, so notifications appear between prompt
// reads in arrival order and never interleave with a command's own output.
package repl

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/mark3labs/mcp-go/mcp"

	"mcptool/internal/client"
	"mcptool/internal/ops"
	"mcptool/internal/output"
)

// Session is one interactive session over an established connection.
type Session struct {
	out           *output.Output
	notifications *client.Relay
	init          *mcp.InitializeResult
	exec          func(ctx context.Context, fields []string) error
	showInit      func()
}

// NewSession wires a session to an established client connection.
func NewSession(c *client.Client, out *output.Output) *Session {
	return &Session{
		out:           out,
		notifications: c.Notifications(),
		init:          c.Init(),
		exec: func(ctx context.Context, fields []string) error {
			return dispatch(ctx, c.Conn(), out, fields)
		},
		showInit: func() { ops.ShowInit(out, c.Init()) },
	}
}

// Run starts the prompt and blocks until the session ends. Quit, Ctrl-C,
// Ctrl-D, and read failures all end the session; command failures do not.
func (s *Session) Run(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "mcp> ",
		HistoryFile:     filepath.Join(os.TempDir(), ".mcptool_history"),
		AutoComplete:    completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize prompt: %w", err)
	}
	defer rl.Close()

	s.welcome()
	return s.run(ctx, rl.Readline)
}

// run is the session loop, split from Run so tests can drive it with a
// scripted read function instead of a terminal.
func (s *Session) run(ctx context.Context, read func() (string, error)) error {
	lines := make(chan lineEvent, 1)
	pace := make(chan struct{}, 1)
	done := make(chan struct{})
	defer close(done)

	source := &lineSource{read: read, lines: lines, pace: pace, done: done}
	go source.run()

	for {
		select {
		case <-ctx.Done():
			// Signal-driven cancellation ends the session as cleanly as
			// quit or Ctrl-D does.
			s.out.Text("Interrupted")
			return nil
		case <-s.notifications.Ready():
			if n, ok := s.notifications.Next(); ok {
				RenderNotification(s.out, n)
			}
		case ev := <-lines:
			if s.handle(ctx, ev, pace) {
				return nil
			}
		}
	}
}

// handle processes one line event and reports whether the session is over.
// Every text event that keeps the session alive releases exactly one pacing
// token, which is what lets the source read the next line.
func (s *Session) handle(ctx context.Context, ev lineEvent, pace chan<- struct{}) (stop bool) {
	switch ev.kind {
	case eventInterrupt:
		s.out.Text("CTRL-C")
		return true
	case eventEOF:
		s.out.Text("CTRL-D")
		return true
	case eventError:
		s.out.TraceError("Input error: %v", ev.err)
		return true
	}

	switch ev.text {
	case "quit", "exit":
		s.out.Text("Goodbye!")
		return true
	case "help":
		printHelp(s.out)
	case "init":
		s.out.Note("Showing initialization result from the initial connection (not re-initializing)")
		s.showInit()
	default:
		if err := s.exec(ctx, strings.Fields(ev.text)); err != nil {
			var inv invalidCommandError
			if errors.As(err, &inv) {
				s.out.TraceError("Invalid command: %v", err)
				s.out.Text("Type 'help' for available commands.")
			} else {
				s.out.TraceError("Command failed: %v", err)
			}
		}
	}

	pace <- struct{}{}
	return false
}

func (s *Session) welcome() {
	s.out.H1("mcptool interactive session")
	if s.init != nil {
		s.out.Text("Connected to %s v%s (protocol %s)",
			s.init.ServerInfo.Name, s.init.ServerInfo.Version, s.init.ProtocolVersion)
	}
	s.out.Text("Type 'help' for available commands, 'quit' to exit.")
	s.out.Text("")
}

func completer() *readline.PrefixCompleter {
	items := []readline.PrefixCompleterInterface{
		readline.PcItem("help"),
		readline.PcItem("init"),
		readline.PcItem("quit"),
		readline.PcItem("exit"),
	}
	for _, name := range commandNames() {
		items = append(items, readline.PcItem(name))
	}
	return readline.NewPrefixCompleter(items...)
}
