package diagrams

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/autodiagram/internal/llm/llmtest"
	"github.com/ziadkadry99/autodiagram/internal/source"
)

func djangoSnapshot(t *testing.T) *source.Snapshot {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"manage.py":      "import django\n",
		"blog/models.py": "class Post: pass\n",
		"README.md":      "# blog\n",
	}
	for rel, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	snap, err := (&source.Fetcher{}).Open(dir)
	require.NoError(t, err)
	return snap
}

func TestEndToEndClassDiagram(t *testing.T) {
	g := NewGenerator(llmtest.New("```mermaid\nclassDiagram\nclass A\n```\nThis shows class A."))
	res := g.GenerateClassDiagram(context.Background(), "f.py", "...")
	assert.Equal(t, Result{
		DiagramCode: "classDiagram\nclass A",
		Description: "This shows class A.",
		SourcePath:  "f.py",
		Success:     true,
	}, res)
	assert.Empty(t, res.Error)
}

func TestRunProducesEveryDiagram(t *testing.T) {
	snap := djangoSnapshot(t)
	p := llmtest.New(classReply)
	out := t.TempDir()

	report, err := Run(context.Background(), NewGenerator(p), snap, RunOptions{
		Technical: true,
		Export:    NewExporter(out),
	})
	require.NoError(t, err)

	assert.Equal(t, "Django", report.Framework)
	var tags []string
	for _, r := range report.Results {
		assert.True(t, r.Success, r.SourcePath)
		tags = append(tags, r.SourcePath)
	}
	assert.Equal(t, []string{
		"blog/models.py", "manage.py",
		TagRepositoryStructure, TagMultiFile, TagArchitectureOverview, TagTechnicalArchitecture,
	}, tags)

	assert.Len(t, report.Documentation, 2)
	assert.Contains(t, report.Documentation, TagArchitectureOverview)
	assert.Contains(t, report.Documentation, TagTechnicalArchitecture)

	// six diagrams plus two documentation requests
	assert.Equal(t, 8, p.CallCount())
	assert.Equal(t, 8, report.Usage.Requests)

	for _, name := range []string{"blog_models_py.md", "architecture_overview.md", "technical_architecture_docs.md", "technical_architecture_docs.html"} {
		assert.FileExists(t, filepath.Join(out, name))
	}
	assert.Len(t, report.Files, 8)

	_, ok := report.Find(TagArchitectureOverview)
	assert.True(t, ok)
}

func TestRunCollectsFailures(t *testing.T) {
	snap := djangoSnapshot(t)
	report, err := Run(context.Background(), NewGenerator(llmtest.Failing(errors.New("quota exceeded"))), snap, RunOptions{
		Extensions: []string{".py"},
	})
	require.NoError(t, err)

	assert.Len(t, report.Results, 5)
	assert.Len(t, report.Failed(), 5)
	assert.Empty(t, report.Documentation)
	assert.Empty(t, report.DocumentationErrors)
}

func TestRunSkipsFileDiagrams(t *testing.T) {
	snap := djangoSnapshot(t)
	p := llmtest.New(classReply)
	report, err := Run(context.Background(), NewGenerator(p), snap, RunOptions{SkipFileDiagrams: true})
	require.NoError(t, err)

	assert.Len(t, report.Results, 2)
	assert.Equal(t, 3, p.CallCount())
}

func TestRunStopsWhenCancelled(t *testing.T) {
	snap := djangoSnapshot(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := Run(ctx, NewGenerator(llmtest.New(classReply)), snap, RunOptions{})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, report.Results)
}
