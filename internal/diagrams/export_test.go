package diagrams

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeName(t *testing.T) {
	assert.Equal(t, "src_app_main_py", SafeName("src/app/main.py"))
	assert.Equal(t, "win_path_go", SafeName(`win\path.go`))
	assert.Equal(t, TagArchitectureOverview, SafeName(TagArchitectureOverview))
}

func TestExporterSaveSuccess(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	e := NewExporter(dir)

	path, err := e.Save(succeeded("src/app/main.py", "classDiagram\n  class A", "A is a class."))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "src_app_main_py.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# Diagram: src/app/main.py\n\n"+
		"## Description\n\nA is a class.\n\n"+
		"## Diagram\n\n```mermaid\nclassDiagram\n  class A\n```\n", string(data))
}

func TestExporterSaveFailureOverwrites(t *testing.T) {
	e := NewExporter(t.TempDir())
	_, err := e.Save(succeeded("a.py", "graph TD", "old"))
	require.NoError(t, err)

	path, err := e.Save(Result{SourcePath: "a.py", Error: "timeout"})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# Diagram: a.py\n\n## Error\n\ntimeout\n", string(data))
}

func TestExporterDefaultDir(t *testing.T) {
	assert.Equal(t, DefaultOutputDir, NewExporter("").Dir())
}

func TestSaveDocumentation(t *testing.T) {
	dir := t.TempDir()
	e := NewExporter(dir)

	path, err := e.SaveDocumentation(TagArchitectureOverview, "## Overview\n\n**Web** talks to **DB**.\n")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "architecture_overview_docs.md"), path)

	html, err := os.ReadFile(filepath.Join(dir, "architecture_overview_docs.html"))
	require.NoError(t, err)
	assert.Contains(t, string(html), `<h2 id="overview">Overview</h2>`)
	assert.Contains(t, string(html), "<strong>Web</strong>")
	assert.Contains(t, string(html), "<title>architecture_overview</title>")
}

func TestWriteIndex(t *testing.T) {
	dir := t.TempDir()
	e := NewExporter(dir)
	report := &RunReport{
		Framework: "Django",
		Results: []Result{
			{SourcePath: "blog/models.py", DiagramCode: "classDiagram", Success: true},
			{SourcePath: TagArchitectureOverview, DiagramCode: "graph TD", Success: true},
			{SourcePath: TagMultiFile, Error: "boom"},
		},
		Documentation: map[string]string{TagArchitectureOverview: "# Overview"},
	}

	path, err := e.WriteIndex(report)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "index.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	md := string(data)
	assert.Contains(t, md, "Framework: Django")
	assert.Contains(t, md, "[blog/models.py](blog_models_py.md) | ok")
	assert.Contains(t, md, "[html](architecture_overview_docs.html)")
	assert.Contains(t, md, "| failed |")

	html, err := os.ReadFile(filepath.Join(dir, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(html), "<table>")
}
