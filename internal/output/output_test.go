package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextWritesLine(t *testing.T) {
	buf := &bytes.Buffer{}
	out := NewWithWriter(false, false, buf)

	out.Text("hello %s", "world")

	assert.Equal(t, "hello world\n", buf.String())
}

func TestColorCodes(t *testing.T) {
	tests := []struct {
		name       string
		useColor   bool
		write      func(*Output)
		wantPrefix string
		wantMsg    string
		wantANSI   bool
	}{
		{
			name:       "success trace with color",
			useColor:   true,
			write:      func(o *Output) { o.TraceSuccess("done") },
			wantPrefix: "✓ ",
			wantMsg:    "done",
			wantANSI:   true,
		},
		{
			name:       "success trace without color",
			useColor:   false,
			write:      func(o *Output) { o.TraceSuccess("done") },
			wantPrefix: "✓ ",
			wantMsg:    "done",
			wantANSI:   false,
		},
		{
			name:       "error trace without color",
			useColor:   false,
			write:      func(o *Output) { o.TraceError("failed") },
			wantPrefix: "✗ ",
			wantMsg:    "failed",
			wantANSI:   false,
		},
		{
			name:       "note without color",
			useColor:   false,
			write:      func(o *Output) { o.Note("fyi") },
			wantPrefix: "• ",
			wantMsg:    "fyi",
			wantANSI:   false,
		},
		{
			name:       "warning without color",
			useColor:   false,
			write:      func(o *Output) { o.Warning("careful") },
			wantPrefix: "! ",
			wantMsg:    "careful",
			wantANSI:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			out := NewWithWriter(tt.useColor, false, buf)

			tt.write(out)

			// The color reset sits between prefix and message, so they
			// are asserted separately.
			got := buf.String()
			assert.Contains(t, got, tt.wantPrefix)
			assert.Contains(t, got, tt.wantMsg)
			assert.Equal(t, tt.wantANSI, strings.Contains(got, "\033["))
		})
	}
}

func TestFormattedOutputSuppressedInJSONMode(t *testing.T) {
	buf := &bytes.Buffer{}
	out := NewWithWriter(false, true, buf)

	out.Text("Listing tools")
	out.H1("Server: x")
	out.Note("fyi")
	out.TraceSuccess("done")
	out.TraceError("failed")
	out.Warning("careful")
	out.Prompt("city: ")

	require.Empty(t, buf.String())

	// Only JSON documents reach the writer.
	out.JSON(map[string]interface{}{"ok": true})
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, true, decoded["ok"])
}

func TestTimingSuppressedInJSONMode(t *testing.T) {
	buf := &bytes.Buffer{}
	out := NewWithWriter(false, true, buf)

	out.Timing("response", 1234)

	assert.Empty(t, buf.String())
}

func TestTimingFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	out := NewWithWriter(false, false, buf)

	out.Timing("response", 12_000_000)

	assert.Contains(t, buf.String(), "response (12ms)")
}

func TestPromptHasNoNewline(t *testing.T) {
	buf := &bytes.Buffer{}
	out := NewWithWriter(false, false, buf)

	out.Prompt("city: ")

	assert.Equal(t, "city: ", buf.String())
}

func TestJSONOutputIsParseable(t *testing.T) {
	buf := &bytes.Buffer{}
	out := NewWithWriter(false, true, buf)

	out.JSON(map[string]interface{}{"name": "echo", "count": 2})

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "echo", decoded["name"])
}

func TestPrettyJSONFallback(t *testing.T) {
	got := PrettyJSON(make(chan int))

	assert.NotEmpty(t, got)
}
