package context7

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/pdi-dev/pdi/internal/errs"
	"github.com/pdi-dev/pdi/internal/logging"
)

const (
	// mcpCallTimeout is the hard wall-clock limit per MCP call. The
	// context deadline propagates to the stdio transport, which kills
	// the child process when it fires.
	mcpCallTimeout = 30 * time.Second

	// Tool names exposed by the Context7 MCP server.
	toolResolveLibraryID = "resolve-library-id"
	toolGetLibraryDocs   = "get-library-docs"
)

// MCPClient is the subprocess fallback transport: it spawns the
// Context7 MCP server over stdio and calls its tools. The child process
// handle is owned by the underlying mcp-go client and torn down by
// Close.
type MCPClient struct {
	// Command and Args are exported so tests can substitute a stub
	// server binary.
	Command string
	Args    []string

	mu      sync.Mutex
	session *client.Client
}

// NewMCPClient returns the fallback transport using npx to run the
// published Context7 MCP server.
func NewMCPClient() *MCPClient {
	return &MCPClient{
		Command: "npx",
		Args:    []string{"-y", "@upstash/context7-mcp"},
	}
}

// connect lazily spawns and initializes the MCP session.
func (c *MCPClient) connect(ctx context.Context) (*client.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != nil {
		return c.session, nil
	}

	logging.Debug("starting MCP subprocess")
	session, err := client.NewStdioMCPClient(c.Command, nil, c.Args...)
	if err != nil {
		return nil, c.wrap(err, "is Node.js installed and npx on PATH?")
	}

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{Name: "pdi", Version: "1"}
	if _, err := session.Initialize(ctx, initReq); err != nil {
		_ = session.Close()
		return nil, c.wrap(err, "the Context7 MCP server failed to start; try `npx -y @upstash/context7-mcp` manually")
	}

	c.session = session
	return session, nil
}

// QueryDocs calls get-library-docs and returns the concatenated text
// content.
func (c *MCPClient) QueryDocs(ctx context.Context, libraryID, topic string) (string, error) {
	if err := ValidateLibraryID(libraryID); err != nil {
		return "", &errs.FetchError{Category: errs.FetchNotFound, Source: errs.SourceMCP, Err: err}
	}

	args := map[string]any{
		"context7CompatibleLibraryID": libraryID,
		"tokens":                      docTokens,
	}
	if topic != "" {
		args["topic"] = topic
	}
	text, err := c.callTool(ctx, toolGetLibraryDocs, args)
	if err != nil {
		return "", err
	}
	return text, nil
}

// ResolveLibrary calls resolve-library-id and extracts the first
// library ID from its textual answer.
func (c *MCPClient) ResolveLibrary(ctx context.Context, name string) (string, error) {
	text, err := c.callTool(ctx, toolResolveLibraryID, map[string]any{"libraryName": name})
	if err != nil {
		return "", err
	}

	for _, field := range strings.Fields(text) {
		if ValidateLibraryID(field) == nil {
			return field, nil
		}
	}
	return "", &errs.FetchError{
		Category: errs.FetchNotFound,
		Source:   errs.SourceMCP,
		Hint:     "check the library name, or pass an explicit /org/project ID",
		Err:      fmt.Errorf("no library ID found for %q", name),
	}
}

// callTool performs one MCP tool call under the wall-clock timeout.
func (c *MCPClient) callTool(ctx context.Context, tool string, args map[string]any) (string, error) {
	session, err := c.connect(ctx)
	if err != nil {
		return "", err
	}

	callCtx, cancel := context.WithTimeout(ctx, mcpCallTimeout)
	defer cancel()

	req := mcp.CallToolRequest{}
	req.Params.Name = tool
	req.Params.Arguments = args

	res, err := session.CallTool(callCtx, req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", c.wrap(err, "the MCP subprocess timed out and was terminated; retry, or configure an API key for the HTTP transport")
		}
		return "", c.wrap(err, "retry, or configure an API key for the HTTP transport")
	}

	var b strings.Builder
	for _, content := range res.Content {
		if tc, ok := mcp.AsTextContent(content); ok {
			b.WriteString(tc.Text)
		}
	}
	text := b.String()

	if res.IsError {
		return "", &errs.FetchError{
			Category: classifyMCPMessage(text),
			Source:   errs.SourceMCP,
			Hint:     "retry, or configure an API key for the HTTP transport",
			Err:      fmt.Errorf("%s: %s", tool, strings.TrimSpace(text)),
		}
	}
	return text, nil
}

// Close tears down the MCP session and its child process.
func (c *MCPClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	err := c.session.Close()
	c.session = nil
	return err
}

// classifyMCPMessage maps tool-error text onto the fetch taxonomy. The
// MCP server reports failures as prose, so this is best-effort keyword
// matching; anything unrecognized stays "unknown".
func classifyMCPMessage(msg string) errs.FetchCategory {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "unauthorized") || strings.Contains(lower, "api key"):
		return errs.FetchAuth
	case strings.Contains(lower, "rate limit"):
		return errs.FetchRateLimit
	case strings.Contains(lower, "not found"):
		return errs.FetchNotFound
	case strings.Contains(lower, "network") || strings.Contains(lower, "timeout"):
		return errs.FetchNetwork
	default:
		return errs.FetchUnknown
	}
}

func (c *MCPClient) wrap(err error, hint string) *errs.FetchError {
	return &errs.FetchError{Category: errs.FetchNetwork, Source: errs.SourceMCP, Hint: hint, Err: err}
}
