package diagrams

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/autodiagram/internal/llm"
)

func TestTruncateContent(t *testing.T) {
	long := strings.Repeat("a", MaxFileChars+500)
	got := TruncateContent(long)
	assert.Equal(t, strings.Repeat("a", MaxFileChars)+TruncationMarker, got)

	exact := strings.Repeat("b", MaxFileChars)
	assert.Equal(t, exact, TruncateContent(exact))

	multibyte := strings.Repeat("é", MaxFileChars+1)
	assert.Equal(t, strings.Repeat("é", MaxFileChars)+TruncationMarker, TruncateContent(multibyte))
}

func TestClassDiagramPromptTruncates(t *testing.T) {
	long := strings.Repeat("x", 20000)
	msgs := ClassDiagramPrompt([]string{"Python"}, "big.py", long)
	require.Len(t, msgs, 2)
	assert.Equal(t, llm.RoleSystem, msgs[0].Role)
	assert.Equal(t, llm.RoleUser, msgs[1].Role)

	user := msgs[1].Content
	assert.Contains(t, user, strings.Repeat("x", MaxFileChars)+TruncationMarker)
	assert.NotContains(t, user, strings.Repeat("x", MaxFileChars+1))
	assert.Contains(t, user, "File: big.py")
	assert.Contains(t, msgs[0].Content, "Python")
}

func TestSystemPromptsForbidNotesAndBraces(t *testing.T) {
	for name, msgs := range map[string][]llm.Message{
		"class":     ClassDiagramPrompt(nil, "a.go", "package a"),
		"structure": StructurePrompt(nil, "root/"),
		"high":      HighLevelPrompt("Django", "root/"),
		"technical": TechnicalPrompt("Django", "", "root/"),
	} {
		sys := msgs[0].Content
		assert.Contains(t, sys, "note", name)
		assert.Contains(t, sys, "curly-brace", name)
	}
	assert.Contains(t, ClassDiagramPrompt(nil, "a.go", "")[0].Content, "<<abstract>>")
}

func TestMultiFileExcerpts(t *testing.T) {
	var files []SourceFile
	for i := 0; i < 12; i++ {
		files = append(files, SourceFile{Path: fmt.Sprintf("f%d.py", i), Content: strings.Repeat("y", 1500)})
	}
	got := MultiFileExcerpts(files)

	assert.Equal(t, MaxMultiFiles, strings.Count(got, "File: "))
	assert.Contains(t, got, "File: f9.py")
	assert.NotContains(t, got, "File: f10.py")
	assert.NotContains(t, got, strings.Repeat("y", MaxMultiFileChars+1))

	two := MultiFileExcerpts([]SourceFile{{Path: "a.py", Content: "A"}, {Path: "b.py", Content: "B"}})
	assert.Equal(t, "File: a.py\nA\n---\n\nFile: b.py\nB\n---", two)
}

func TestFrameworkSpecificPrompts(t *testing.T) {
	assert.Contains(t, HighLevelPrompt("Laravel", "")[0].Content, "**Laravel**")
	assert.Contains(t, TechnicalPrompt("Django", "", "")[0].Content, "Models")
	assert.Contains(t, TechnicalPrompt("React", "", "")[0].Content, "Component Tree")

	user := TechnicalPrompt("Django", "File: blog/models.py", "\nblog/")[1].Content
	assert.Contains(t, user, "Key Files & Classes found:\nFile: blog/models.py")
	assert.Contains(t, user, "Repository Structure:\n\nblog/")
}

func TestDocumentationPromptEmbedsDiagram(t *testing.T) {
	msgs := DocumentationPrompt("graph TD\nA-->B")
	assert.Contains(t, msgs[1].Content, "```mermaid\ngraph TD\nA-->B\n```")
	assert.Contains(t, msgs[0].Content, "Markdown")
}
