package context7

import (
	"testing"

	"github.com/pdi-dev/pdi/internal/errs"
)

func TestClassifyMCPMessage(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		want errs.FetchCategory
	}{
		{"auth keyword", "Unauthorized: invalid API key", errs.FetchAuth},
		{"rate limit keyword", "Rate limit exceeded, slow down", errs.FetchRateLimit},
		{"not found keyword", "Library not found", errs.FetchNotFound},
		{"network keyword", "network error while contacting upstream", errs.FetchNetwork},
		{"timeout keyword", "request timeout", errs.FetchNetwork},
		{"unrecognized prose", "something odd happened", errs.FetchUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyMCPMessage(tt.msg); got != tt.want {
				t.Errorf("classifyMCPMessage(%q) = %s, want %s", tt.msg, got, tt.want)
			}
		})
	}
}

func TestNewMCPClientDefaults(t *testing.T) {
	c := NewMCPClient()
	if c.Command != "npx" {
		t.Errorf("Command = %q", c.Command)
	}
	if len(c.Args) != 2 || c.Args[0] != "-y" || c.Args[1] != "@upstash/context7-mcp" {
		t.Errorf("Args = %v", c.Args)
	}
}

func TestMCPCloseWithoutSession(t *testing.T) {
	c := NewMCPClient()
	if err := c.Close(); err != nil {
		t.Errorf("Close() on unconnected client = %v", err)
	}
}
