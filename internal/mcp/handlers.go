package mcp

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/autodiagram/internal/analysis"
	"github.com/ziadkadry99/autodiagram/internal/diagrams"
)

// handleDetectFramework reports the framework and languages implied by a path list.
func (s *Server) handleDetectFramework(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	paths := request.GetStringSlice("paths", nil)
	if len(paths) == 0 {
		return mcp.NewToolResultError("missing required parameter: paths"), nil
	}

	langs := analysis.DetectLanguages(paths)
	framework := analysis.DetectFramework(paths, langs)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Framework: %s\n", framework)
	if len(langs) > 0 {
		fmt.Fprintf(&sb, "Languages: %s\n", strings.Join(langs, ", "))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleSummarizeStructure returns the directory summary used in architecture prompts.
func (s *Server) handleSummarizeStructure(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	paths := request.GetStringSlice("paths", nil)
	if len(paths) == 0 {
		return mcp.NewToolResultError("missing required parameter: paths"), nil
	}
	return mcp.NewToolResultText(analysis.SummarizeStructure(paths)), nil
}

// handleGenerateClassDiagram asks the provider for a class diagram of one file.
func (s *Server) handleGenerateClassDiagram(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: path"), nil
	}
	content, err := request.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: content"), nil
	}
	if s.gen == nil {
		return mcp.NewToolResultError("No LLM provider configured. Set provider credentials and restart `autodiagram serve`."), nil
	}

	gen := s.gen.Fork(diagrams.WithLanguages(analysis.DetectLanguages([]string{path})))
	result := gen.GenerateClassDiagram(ctx, path, content)
	if !result.Success {
		return mcp.NewToolResultError(fmt.Sprintf("diagram generation failed: %s", result.Error)), nil
	}
	s.logger.Debug("class diagram generated", "path", path)
	return mcp.NewToolResultText(diagrams.RenderMarkdown(result)), nil
}

// handleGetDiagram reads an exported diagram document.
func (s *Server) handleGetDiagram(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sourcePath, err := request.RequireString("source_path")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: source_path"), nil
	}

	content, err := os.ReadFile(s.exporter.PathFor(sourcePath))
	if err != nil {
		if os.IsNotExist(err) {
			return mcp.NewToolResultError(fmt.Sprintf(
				"No diagram found for %q. Run `autodiagram generate` to generate diagrams.",
				sourcePath,
			)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to read diagram: %v", err)), nil
	}

	return mcp.NewToolResultText(string(content)), nil
}
