// Package toolargs resolves tool call arguments from exactly one of three
// mutually exclusive sources: inline key=value pairs, interactive
// per-parameter prompting against the tool's schema, or a JSON document read
// from standard input.
package toolargs

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"mcptool/internal/output"
)

// Mode identifies the argument source chosen for one tool invocation.
type Mode int

const (
	// ModeInline takes arguments from key=value pairs on the command line.
	ModeInline Mode = iota + 1
	// ModeInteractive prompts the operator for each schema parameter.
	ModeInteractive
	// ModeJSON reads one JSON object from standard input.
	ModeJSON
)

// Selection captures the caller's argument-mode flags before validation.
type Selection struct {
	Inline      []string
	Interactive bool
	JSON        bool
}

// Mode validates that exactly one source was selected and returns it. This
// check runs before any terminal or network I/O.
func (s Selection) Mode() (Mode, error) {
	count := 0
	if len(s.Inline) > 0 {
		count++
	}
	if s.Interactive {
		count++
	}
	if s.JSON {
		count++
	}
	switch {
	case count == 0:
		return 0, errors.New("must specify one of: --interactive, --json, or --arg key=value arguments")
	case count > 1:
		return 0, errors.New("cannot combine --interactive, --json, and --arg modes")
	}
	if len(s.Inline) > 0 {
		return ModeInline, nil
	}
	if s.Interactive {
		return ModeInteractive, nil
	}
	return ModeJSON, nil
}

// Resolve produces the argument map from the selected source. On failure the
// result is always nil; no partially resolved set escapes.
func Resolve(sel Selection, tool *mcp.Tool, stdin io.Reader, out *output.Output) (map[string]interface{}, error) {
	mode, err := sel.Mode()
	if err != nil {
		return nil, err
	}

	switch mode {
	case ModeInline:
		return ParseKeyValue(sel.Inline)
	case ModeInteractive:
		return PromptArguments(tool, stdin, out)
	default:
		return ParseJSONDocument(stdin)
	}
}

// ParseKeyValue parses key=value pairs into an argument map. A later pair
// overwrites an earlier one with the same key; values stay opaque strings.
func ParseKeyValue(pairs []string) (map[string]interface{}, error) {
	args := make(map[string]interface{}, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid argument %q: expected key=value", pair)
		}
		args[key] = value
	}
	return args, nil
}

// ParseJSONDocument reads one JSON document and requires it to be an object.
// Arrays, scalars, and malformed input all fail with a format error.
func ParseJSONDocument(r io.Reader) (map[string]interface{}, error) {
	dec := json.NewDecoder(r)
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("invalid JSON arguments: %w", err)
	}
	obj, ok := v.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("JSON arguments must be an object, got %s", jsonKind(v))
	}
	return obj, nil
}

func jsonKind(v interface{}) string {
	switch v.(type) {
	case []interface{}:
		return "array"
	case string:
		return "string"
	case float64, json.Number:
		return "number"
	case bool:
		return "boolean"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// PromptArguments walks the tool's declared parameters and prompts for each.
// Blank input re-prompts for required parameters and omits optional ones.
func PromptArguments(tool *mcp.Tool, in io.Reader, out *output.Output) (map[string]interface{}, error) {
	params := SchemaParams(tool)
	if len(params) == 0 {
		out.Text("Tool %q declares no parameters.", tool.Name)
		return map[string]interface{}{}, nil
	}

	scanner := bufio.NewScanner(in)
	args := make(map[string]interface{}, len(params))
	for _, p := range params {
		value, err := promptOne(p, scanner, out)
		if err != nil {
			return nil, err
		}
		if value != "" {
			args[p.Name] = value
		}
	}
	return args, nil
}

func promptOne(p Param, scanner *bufio.Scanner, out *output.Output) (string, error) {
	label := p.Name
	if p.Description != "" {
		label += " (" + p.Description + ")"
	}
	if p.Required {
		label += " [required]"
	}

	for {
		out.Prompt("%s: ", label)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", fmt.Errorf("reading parameter %q: %w", p.Name, err)
			}
			if p.Required {
				return "", fmt.Errorf("input ended while reading required parameter %q", p.Name)
			}
			return "", nil
		}
		value := strings.TrimSpace(scanner.Text())
		if value == "" && p.Required {
			out.TraceError("Parameter %q is required", p.Name)
			continue
		}
		return value, nil
	}
}
