package repl

import (
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// eventKind classifies what the line source produced.
type eventKind int

const (
	// eventText carries one non-empty input line.
	eventText eventKind = iota
	// eventInterrupt reports Ctrl-C at the prompt.
	eventInterrupt
	// eventEOF reports Ctrl-D or closed input.
	eventEOF
	// eventError reports any other read failure.
	eventError
)

type lineEvent struct {
	kind eventKind
	text string
	err  error
}

// lineSource reads prompt input on its own goroutine, since the underlying
// read blocks. Text events are paced: after emitting one, the source waits
// for a token before reading again, so the prompt never races a command that
// is itself reading from the terminal. Terminal events (interrupt, EOF, read
// error) end the source.
type lineSource struct {
	read  func() (string, error)
	lines chan<- lineEvent
	pace  <-chan struct{}
	done  <-chan struct{}
}

func (s *lineSource) run() {
	for {
		line, err := s.read()
		if err != nil {
			s.emit(terminalEvent(err))
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if !s.emit(lineEvent{kind: eventText, text: line}) {
			return
		}
		select {
		case <-s.pace:
		case <-s.done:
			return
		}
	}
}

// emit delivers one event unless the session is tearing down.
func (s *lineSource) emit(ev lineEvent) bool {
	select {
	case s.lines <- ev:
		return true
	case <-s.done:
		return false
	}
}

func terminalEvent(err error) lineEvent {
	switch {
	case err == readline.ErrInterrupt:
		return lineEvent{kind: eventInterrupt}
	case err == io.EOF:
		return lineEvent{kind: eventEOF}
	default:
		return lineEvent{kind: eventError, err: err}
	}
}
