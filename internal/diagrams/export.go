package diagrams

import (
	"bytes"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// DefaultOutputDir is where diagrams are written when no directory is configured.
const DefaultOutputDir = "docs/diagrams"

// Exporter writes diagram results as Markdown files.
type Exporter struct {
	dir string
	md  goldmark.Markdown
}

// NewExporter returns an exporter writing into outputDir, or
// DefaultOutputDir when outputDir is empty.
func NewExporter(outputDir string) *Exporter {
	if outputDir == "" {
		outputDir = DefaultOutputDir
	}
	return &Exporter{
		dir: outputDir,
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				highlighting.NewHighlighting(
					highlighting.WithStyle("github"),
				),
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(
				gmhtml.WithUnsafe(),
			),
		),
	}
}

// Dir returns the output directory.
func (e *Exporter) Dir() string { return e.dir }

var safeNameReplacer = strings.NewReplacer("/", "_", "\\", "_", ".", "_")

// SafeName converts a source path or tag into a flat file stem.
func SafeName(sourcePath string) string {
	return safeNameReplacer.Replace(sourcePath)
}

// PathFor returns the Markdown file Save writes for sourcePath.
func (e *Exporter) PathFor(sourcePath string) string {
	return filepath.Join(e.dir, SafeName(sourcePath)+".md")
}

// RenderMarkdown returns the Markdown document Save writes for result.
func RenderMarkdown(result Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Diagram: %s\n\n", result.SourcePath)
	if result.Success {
		fmt.Fprintf(&b, "## Description\n\n%s\n\n", result.Description)
		fmt.Fprintf(&b, "## Diagram\n\n```mermaid\n%s\n```\n", result.DiagramCode)
	} else {
		fmt.Fprintf(&b, "## Error\n\n%s\n", result.Error)
	}
	return b.String()
}

// Save writes result to <dir>/<safe name>.md, replacing any existing file,
// and returns the written path.
func (e *Exporter) Save(result Result) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output dir: %w", err)
	}
	path := e.PathFor(result.SourcePath)
	if err := os.WriteFile(path, []byte(RenderMarkdown(result)), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// SaveDocumentation writes generated prose for sourcePath as
// <safe name>_docs.md plus a standalone HTML rendering, and returns the
// Markdown path.
func (e *Exporter) SaveDocumentation(sourcePath, markdown string) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output dir: %w", err)
	}
	stem := filepath.Join(e.dir, SafeName(sourcePath)+"_docs")

	mdPath := stem + ".md"
	if err := os.WriteFile(mdPath, []byte(markdown), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", mdPath, err)
	}

	var body bytes.Buffer
	if err := e.md.Convert([]byte(markdown), &body); err != nil {
		return "", fmt.Errorf("rendering %s: %w", mdPath, err)
	}
	page := fmt.Sprintf(htmlPage, html.EscapeString(sourcePath), body.String())
	if err := os.WriteFile(stem+".html", []byte(page), 0o644); err != nil {
		return "", fmt.Errorf("writing %s.html: %w", stem, err)
	}
	return mdPath, nil
}

const htmlPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
<script type="module">
import mermaid from "https://cdn.jsdelivr.net/npm/mermaid@11/dist/mermaid.esm.min.mjs";
mermaid.initialize({ startOnLoad: false });
document.querySelectorAll("code.language-mermaid").forEach((el) => {
  const div = document.createElement("div");
  div.className = "mermaid";
  div.textContent = el.textContent;
  (el.closest("pre") || el).replaceWith(div);
});
await mermaid.run();
</script>
</head>
<body>
%s
</body>
</html>
`

// WriteIndex writes index.md and index.html listing every result of
// report with links to the exported files, and returns the Markdown path.
func (e *Exporter) WriteIndex(report *RunReport) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output dir: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Diagrams\n\nFramework: %s\n\n", report.Framework)
	b.WriteString("| Source | Status | Documentation |\n|---|---|---|\n")
	for _, res := range report.Results {
		status := "ok"
		if !res.Success {
			status = "failed"
		}
		docs := ""
		if _, ok := report.Documentation[res.SourcePath]; ok {
			docs = fmt.Sprintf("[html](%s_docs.html)", SafeName(res.SourcePath))
		}
		fmt.Fprintf(&b, "| [%s](%s.md) | %s | %s |\n", res.SourcePath, SafeName(res.SourcePath), status, docs)
	}
	markdown := b.String()

	mdPath := filepath.Join(e.dir, "index.md")
	if err := os.WriteFile(mdPath, []byte(markdown), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", mdPath, err)
	}

	var body bytes.Buffer
	if err := e.md.Convert([]byte(markdown), &body); err != nil {
		return "", fmt.Errorf("rendering %s: %w", mdPath, err)
	}
	page := fmt.Sprintf(htmlPage, "Diagrams", body.String())
	if err := os.WriteFile(filepath.Join(e.dir, "index.html"), []byte(page), 0o644); err != nil {
		return "", fmt.Errorf("writing index.html: %w", err)
	}
	return mdPath, nil
}
