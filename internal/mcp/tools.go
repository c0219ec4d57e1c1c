package mcp

import "github.com/mark3labs/mcp-go/mcp"

// detectFrameworkTool defines the detect_framework MCP tool.
var detectFrameworkTool = mcp.NewTool("detect_framework",
	mcp.WithDescription("Detect the application framework and programming languages of a repository from its file paths."),
	mcp.WithArray("paths",
		mcp.Required(),
		mcp.Description("Repository-relative file paths"),
		mcp.WithStringItems(),
	),
)

// summarizeStructureTool defines the summarize_structure MCP tool.
var summarizeStructureTool = mcp.NewTool("summarize_structure",
	mcp.WithDescription("Summarize a repository's layout as directories with a sample of their files."),
	mcp.WithArray("paths",
		mcp.Required(),
		mcp.Description("Repository-relative file paths"),
		mcp.WithStringItems(),
	),
)

// generateClassDiagramTool defines the generate_class_diagram MCP tool.
var generateClassDiagramTool = mcp.NewTool("generate_class_diagram",
	mcp.WithDescription("Generate a Mermaid class diagram with a short description for one source file."),
	mcp.WithString("path",
		mcp.Required(),
		mcp.Description("Path of the file relative to the repository root"),
	),
	mcp.WithString("content",
		mcp.Required(),
		mcp.Description("Full text of the file"),
	),
)

// getDiagramTool defines the get_diagram MCP tool.
var getDiagramTool = mcp.NewTool("get_diagram",
	mcp.WithDescription("Get a previously exported diagram document by source path or diagram tag."),
	mcp.WithString("source_path",
		mcp.Required(),
		mcp.Description("Source file path or tag such as architecture_overview"),
	),
)
