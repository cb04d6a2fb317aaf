// Package mcpserver exposes auspex analyses as MCP tools over stdio.
package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server and registers the auspex analysis tools.
type Server struct {
	server *mcp.Server
}

// NewServer creates an MCP server with both analysis tools registered.
func NewServer(version string) *Server {
	if version == "" {
		version = "dev"
	}
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "auspex",
			Version: version,
		},
		nil,
	)

	s := &Server{server: server}
	s.registerTools()
	return s
}

// Run starts the MCP server over stdio transport.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name: "analyze_safety",
		Description: "Detect risky coding patterns in Python source: hardcoded credentials, " +
			"unsafe deserialization, SQL string concatenation, unsafe file path handling, " +
			"debug output, and broad exception suppression. Returns findings with line " +
			"numbers, code metrics, and remediation guidance.",
	}, handleAnalyzeSafety)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "analyze_complexity",
		Description: "Measure cyclomatic complexity of Python source. Returns per-function " +
			"metrics, severity-classified hotspots, decision-point clusters, and " +
			"refactoring recommendations.",
	}, handleAnalyzeComplexity)
}
