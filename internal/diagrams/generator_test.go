package diagrams

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/autodiagram/internal/llm"
	"github.com/ziadkadry99/autodiagram/internal/llm/llmtest"
)

const classReply = "```mermaid\nclassDiagram\n  class A\n```\nA is a class."

func TestGenerateClassDiagram(t *testing.T) {
	p := llmtest.New(classReply)
	g := NewGenerator(p, WithLanguages([]string{"Python"}), WithMaxTokens(512), WithTemperature(0.2))

	res := g.GenerateClassDiagram(context.Background(), "a.py", "class A: pass")
	assert.Equal(t, Result{
		DiagramCode: "classDiagram\n  class A",
		Description: "A is a class.",
		SourcePath:  "a.py",
		Success:     true,
	}, res)

	calls := p.Calls()
	require.Len(t, calls, 1)
	assert.Len(t, calls[0].Messages, 2)
	assert.Equal(t, 512, calls[0].MaxTokens)
	require.NotNil(t, calls[0].Temperature)
	assert.Equal(t, 0.2, *calls[0].Temperature)
	assert.Equal(t, 1, g.Usage().Requests)
}

// silentProvider returns neither a reply nor an error.
type silentProvider struct{}

func (silentProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	return nil, nil
}

func (silentProvider) Name() string { return "silent" }

func TestGenerateEmptyResponseIsFailure(t *testing.T) {
	g := NewGenerator(silentProvider{})
	ctx := context.Background()

	res := g.GenerateClassDiagram(ctx, "a.py", "class A: pass")
	assert.False(t, res.Success)
	assert.Equal(t, "a.py", res.SourcePath)
	assert.Contains(t, res.Error, "empty response")

	_, err := g.GenerateDocumentation(ctx, Result{SourcePath: "a.py", DiagramCode: "classDiagram", Success: true})
	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.ErrorIs(t, err, errEmptyResponse)
	assert.Zero(t, g.Usage().Requests)
}

func TestGenerateFailuresBecomeResults(t *testing.T) {
	g := NewGenerator(llmtest.Failing(errors.New("rate limited")))
	ctx := context.Background()

	results := []Result{
		g.GenerateClassDiagram(ctx, "a.py", "x"),
		g.GenerateRepositoryStructure(ctx, []string{"a.py"}),
		g.GenerateMultiFileDiagram(ctx, []SourceFile{{Path: "a.py"}, {Path: "b.py"}}),
		g.GenerateHighLevelArchitecture(ctx, "Django", ""),
		g.GenerateTechnicalArchitecture(ctx, "Django", []string{"a.py"}, ""),
	}
	wantTags := []string{"a.py", TagRepositoryStructure, TagMultiFile, TagArchitectureOverview, TagTechnicalArchitecture}

	for i, res := range results {
		assert.False(t, res.Success)
		assert.Empty(t, res.DiagramCode)
		assert.Empty(t, res.Description)
		assert.Contains(t, res.Error, "rate limited")
		assert.Equal(t, wantTags[i], res.SourcePath)
	}
	assert.Zero(t, g.Usage().Requests)
}

func TestGenerateFixedDescriptions(t *testing.T) {
	g := NewGenerator(llmtest.New("```mermaid\ngraph TD\n```\nignored text"))
	ctx := context.Background()

	assert.Equal(t, "Repository structure diagram", g.GenerateRepositoryStructure(ctx, []string{"a.py"}).Description)
	assert.Equal(t, "High-level architecture of the Django application",
		g.GenerateHighLevelArchitecture(ctx, "Django", "").Description)
	assert.Equal(t, "Detailed technical architecture of Laravel Core Components",
		g.GenerateTechnicalArchitecture(ctx, "Laravel", nil, "").Description)
	assert.Equal(t, "ignored text", g.GenerateMultiFileDiagram(ctx, nil).Description)
}

func TestGenerateFallbackKeepsRawReply(t *testing.T) {
	g := NewGenerator(llmtest.New("graph TD\n  A-->B"))
	res := g.GenerateClassDiagram(context.Background(), "a.py", "")
	assert.True(t, res.Success)
	assert.Equal(t, "graph TD\n  A-->B", res.DiagramCode)
	assert.Equal(t, DefaultDescription, res.Description)
}

func TestGenerateDocumentation(t *testing.T) {
	p := llmtest.New("## Overview\n\nA talks to B.")
	g := NewGenerator(p)

	doc, err := g.GenerateDocumentation(context.Background(), Result{DiagramCode: "graph TD\nA-->B", Success: true})
	require.NoError(t, err)
	assert.Equal(t, "## Overview\n\nA talks to B.", doc)
	assert.Contains(t, p.LastUserTurn(), "```mermaid\ngraph TD\nA-->B\n```")

	_, err = NewGenerator(llmtest.Failing(errors.New("boom"))).GenerateDocumentation(context.Background(), Result{})
	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, "documentation", genErr.Op)
}

func TestGeneratorConcurrentUse(t *testing.T) {
	g := NewGenerator(llmtest.New(classReply))
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g.GenerateClassDiagram(context.Background(), "a.py", strings.Repeat("x", 10))
		}()
	}
	wg.Wait()
	assert.Equal(t, 8, g.Usage().Requests)
}

func TestForkHasOwnUsage(t *testing.T) {
	base := NewGenerator(llmtest.New(classReply), WithLanguages([]string{"Go"}))
	fork := base.Fork(WithLanguages([]string{"Rust"}))
	fork.GenerateClassDiagram(context.Background(), "a.rs", "")

	assert.Equal(t, []string{"Go"}, base.Languages())
	assert.Equal(t, []string{"Rust"}, fork.Languages())
	assert.Zero(t, base.Usage().Requests)
	assert.Equal(t, 1, fork.Usage().Requests)
}
