package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/autodiagram/internal/diagrams"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes repository analysis and diagram tools.
type Server struct {
	gen      *diagrams.Generator
	exporter *diagrams.Exporter
	logger   *slog.Logger
	mcp      *server.MCPServer
}

// NewServer creates a new MCP server. gen may be nil, in which case
// generate_class_diagram reports that no provider is configured.
func NewServer(gen *diagrams.Generator, exporter *diagrams.Exporter, logger *slog.Logger) *Server {
	if exporter == nil {
		exporter = diagrams.NewExporter("")
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		gen:      gen,
		exporter: exporter,
		logger:   logger,
	}

	s.mcp = server.NewMCPServer(
		"autodiagram",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(detectFrameworkTool, s.handleDetectFramework)
	s.mcp.AddTool(summarizeStructureTool, s.handleSummarizeStructure)
	s.mcp.AddTool(generateClassDiagramTool, s.handleGenerateClassDiagram)
	s.mcp.AddTool(getDiagramTool, s.handleGetDiagram)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
