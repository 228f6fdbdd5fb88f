// Package target parses MCP endpoint targets into the transport mcptool
// should use to reach them.
package target

import (
	"fmt"
	"net/url"
	"strings"
)

// Kind selects the transport used to reach an endpoint.
type Kind int

const (
	// KindStreamableHTTP is the streamable HTTP transport.
	KindStreamableHTTP Kind = iota + 1
	// KindSSE is the HTTP + server-sent-events transport.
	KindSSE
	// KindStdio launches a subprocess and speaks over its stdin/stdout.
	KindStdio
)

// Target is a parsed endpoint specification.
type Target struct {
	Kind Kind

	// URL is set for HTTP-based transports.
	URL string

	// Command and Args are set for stdio targets.
	Command string
	Args    []string

	raw string
}

// Parse interprets a target string.
//
//	http(s)://host/path      streamable HTTP
//	http(s)://host/path/sse  SSE
//	stdio://cmd args...      stdio subprocess
//	cmd args...              stdio subprocess
func Parse(s string) (Target, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Target{}, fmt.Errorf("empty target")
	}

	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		u, err := url.Parse(s)
		if err != nil {
			return Target{}, fmt.Errorf("invalid target URL %q: %w", s, err)
		}
		if u.Host == "" {
			return Target{}, fmt.Errorf("target URL %q has no host", s)
		}
		kind := KindStreamableHTTP
		if strings.HasSuffix(strings.TrimSuffix(u.Path, "/"), "/sse") {
			kind = KindSSE
		}
		return Target{Kind: kind, URL: s, raw: s}, nil
	}

	if rest, ok := strings.CutPrefix(s, "stdio://"); ok {
		return parseCommand(rest, s)
	}

	if strings.Contains(s, "://") {
		scheme := s[:strings.Index(s, "://")]
		return Target{}, fmt.Errorf("unsupported target scheme %q (use http://, https://, or stdio://)", scheme)
	}

	return parseCommand(s, s)
}

func parseCommand(cmdline, raw string) (Target, error) {
	fields := strings.Fields(cmdline)
	if len(fields) == 0 {
		return Target{}, fmt.Errorf("stdio target %q has no command", raw)
	}
	return Target{
		Kind:    KindStdio,
		Command: fields[0],
		Args:    fields[1:],
		raw:     raw,
	}, nil
}

// String returns the original target string.
func (t Target) String() string {
	return t.raw
}
