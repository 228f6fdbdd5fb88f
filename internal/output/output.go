// Package output renders mcptool's terminal output: plain text, headings,
// notes, success/error traces, advisory timings, and a machine-readable JSON
// mode that replaces formatted rendering with pretty-printed JSON documents.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// ANSI color codes used when color output is enabled.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorDim    = "\033[2m"
	colorBold   = "\033[1m"
)

// Output writes formatted output to a single writer. All methods are safe for
// concurrent use; the session loop and one-shot commands share one instance.
type Output struct {
	mu       sync.Mutex
	writer   io.Writer
	useColor bool
	jsonMode bool
}

// New creates an Output writing to stdout.
func New(useColor, jsonMode bool) *Output {
	return NewWithWriter(useColor, jsonMode, os.Stdout)
}

// NewWithWriter creates an Output writing to the given writer.
func NewWithWriter(useColor, jsonMode bool, w io.Writer) *Output {
	return &Output{
		writer:   w,
		useColor: useColor,
		jsonMode: jsonMode,
	}
}

// SetWriter changes the destination writer.
func (o *Output) SetWriter(w io.Writer) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.writer = w
}

// JSONMode reports whether machine-readable output was requested.
func (o *Output) JSONMode() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.jsonMode
}

func (o *Output) colorize(code, s string) string {
	if !o.useColor {
		return s
	}
	return code + s + colorReset
}

func (o *Output) println(s string) {
	fmt.Fprintln(o.writer, s)
}

// Text prints a plain line. Suppressed in JSON mode, like every other
// formatted method, so machine-readable output carries only JSON documents.
func (o *Output) Text(format string, args ...interface{}) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.jsonMode {
		return
	}
	o.println(fmt.Sprintf(format, args...))
}

// H1 prints a heading line.
func (o *Output) H1(format string, args ...interface{}) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.jsonMode {
		return
	}
	o.println(o.colorize(colorBold, fmt.Sprintf(format, args...)))
}

// Note prints an informational notice.
func (o *Output) Note(format string, args ...interface{}) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.jsonMode {
		return
	}
	o.println(o.colorize(colorCyan, "• ") + fmt.Sprintf(format, args...))
}

// TraceSuccess prints a success trace line.
func (o *Output) TraceSuccess(format string, args ...interface{}) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.jsonMode {
		return
	}
	o.println(o.colorize(colorGreen, "✓ ") + fmt.Sprintf(format, args...))
}

// TraceError prints an error trace line. Non-fatal failures are rendered
// through this and the session continues.
func (o *Output) TraceError(format string, args ...interface{}) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.jsonMode {
		return
	}
	o.println(o.colorize(colorRed, "✗ ") + fmt.Sprintf(format, args...))
}

// Warning prints a warning line.
func (o *Output) Warning(format string, args ...interface{}) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.jsonMode {
		return
	}
	o.println(o.colorize(colorYellow, "! ") + fmt.Sprintf(format, args...))
}

// Timing prints how long an operation took. Advisory only.
func (o *Output) Timing(label string, d time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.jsonMode {
		return
	}
	o.println(o.colorize(colorDim, fmt.Sprintf("   %s (%s)", label, d.Round(time.Millisecond))))
}

// Prompt prints without a trailing newline, for interactive input prompts.
func (o *Output) Prompt(format string, args ...interface{}) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.jsonMode {
		return
	}
	fmt.Fprint(o.writer, fmt.Sprintf(format, args...))
}

// JSON pretty-prints a value as a JSON document.
func (o *Output) JSON(v interface{}) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.println(PrettyJSON(v))
}

// PrettyJSON renders a value as indented JSON, falling back to %+v when the
// value cannot be marshaled.
func PrettyJSON(v interface{}) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(b)
}
