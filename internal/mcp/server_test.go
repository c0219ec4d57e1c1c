package mcp

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/autodiagram/internal/diagrams"
	"github.com/ziadkadry99/autodiagram/internal/llm/llmtest"
)

const classReply = "```mermaid\nclassDiagram\n  class A\n```\nA is a class."

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", result.Content[0])
	return text.Text
}

func request(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		tool     mcp.Tool
		wantName string
		required []string
	}{
		{detectFrameworkTool, "detect_framework", []string{"paths"}},
		{summarizeStructureTool, "summarize_structure", []string{"paths"}},
		{generateClassDiagramTool, "generate_class_diagram", []string{"path", "content"}},
		{getDiagramTool, "get_diagram", []string{"source_path"}},
	}
	for _, tt := range tests {
		t.Run(tt.wantName, func(t *testing.T) {
			assert.Equal(t, tt.wantName, tt.tool.Name)
			assert.NotEmpty(t, tt.tool.Description)
			assert.ElementsMatch(t, tt.required, tt.tool.InputSchema.Required)
		})
	}
}

func TestNewServer(t *testing.T) {
	srv := NewServer(nil, nil, nil)
	require.NotNil(t, srv.mcp)
	assert.Equal(t, diagrams.DefaultOutputDir, srv.exporter.Dir())
}

func TestHandleDetectFramework(t *testing.T) {
	srv := NewServer(nil, nil, nil)
	ctx := context.Background()

	t.Run("laravel", func(t *testing.T) {
		result, err := srv.handleDetectFramework(ctx, request(map[string]any{
			"paths": []any{"artisan", "composer.json", "app/User.php"},
		}))
		require.NoError(t, err)
		require.False(t, result.IsError)
		text := resultText(t, result)
		assert.Contains(t, text, "Framework: Laravel")
		assert.Contains(t, text, "Languages: PHP")
	})

	t.Run("missing paths", func(t *testing.T) {
		result, err := srv.handleDetectFramework(ctx, request(map[string]any{}))
		require.NoError(t, err)
		assert.True(t, result.IsError)
	})
}

func TestHandleSummarizeStructure(t *testing.T) {
	srv := NewServer(nil, nil, nil)
	result, err := srv.handleSummarizeStructure(context.Background(), request(map[string]any{
		"paths": []any{"main.py", "app/models.py"},
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)
	text := resultText(t, result)
	assert.Contains(t, text, "app")
	assert.Contains(t, text, "models.py")
}

func TestHandleGenerateClassDiagram(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		p := llmtest.New(classReply)
		srv := NewServer(diagrams.NewGenerator(p), nil, nil)
		result, err := srv.handleGenerateClassDiagram(ctx, request(map[string]any{
			"path":    "a.py",
			"content": "class A: pass",
		}))
		require.NoError(t, err)
		require.False(t, result.IsError)
		text := resultText(t, result)
		assert.Contains(t, text, "classDiagram")
		assert.Contains(t, text, "A is a class.")
		assert.Equal(t, 1, p.CallCount())
		assert.Contains(t, p.LastUserTurn(), "class A: pass")
	})

	t.Run("provider failure", func(t *testing.T) {
		srv := NewServer(diagrams.NewGenerator(llmtest.Failing(errors.New("boom"))), nil, nil)
		result, err := srv.handleGenerateClassDiagram(ctx, request(map[string]any{
			"path":    "a.py",
			"content": "x",
		}))
		require.NoError(t, err)
		assert.True(t, result.IsError)
		assert.Contains(t, resultText(t, result), "boom")
	})

	t.Run("no provider", func(t *testing.T) {
		srv := NewServer(nil, nil, nil)
		result, err := srv.handleGenerateClassDiagram(ctx, request(map[string]any{
			"path":    "a.py",
			"content": "x",
		}))
		require.NoError(t, err)
		assert.True(t, result.IsError)
	})

	t.Run("missing content", func(t *testing.T) {
		srv := NewServer(diagrams.NewGenerator(llmtest.New(classReply)), nil, nil)
		result, err := srv.handleGenerateClassDiagram(ctx, request(map[string]any{"path": "a.py"}))
		require.NoError(t, err)
		assert.True(t, result.IsError)
	})
}

func TestHandleGetDiagram(t *testing.T) {
	exporter := diagrams.NewExporter(t.TempDir())
	_, err := exporter.Save(diagrams.Result{
		SourcePath:  "app/models.py",
		DiagramCode: "classDiagram\n  class User",
		Description: "User model.",
		Success:     true,
	})
	require.NoError(t, err)

	srv := NewServer(nil, exporter, nil)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		result, err := srv.handleGetDiagram(ctx, request(map[string]any{"source_path": "app/models.py"}))
		require.NoError(t, err)
		require.False(t, result.IsError)
		assert.Contains(t, resultText(t, result), "class User")
	})

	t.Run("not found", func(t *testing.T) {
		result, err := srv.handleGetDiagram(ctx, request(map[string]any{"source_path": "missing.py"}))
		require.NoError(t, err)
		assert.True(t, result.IsError)
		assert.Contains(t, resultText(t, result), "autodiagram generate")
	})

	t.Run("missing argument", func(t *testing.T) {
		result, err := srv.handleGetDiagram(ctx, request(map[string]any{}))
		require.NoError(t, err)
		assert.True(t, result.IsError)
	})

	_, statErr := os.Stat(exporter.PathFor("app/models.py"))
	assert.NoError(t, statErr)
}
