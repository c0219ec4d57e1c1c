package diagrams

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractDiagramCode(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"fenced", "Here:\n```mermaid\nclassDiagram\n  class A\n```\nA is a class.", "classDiagram\n  class A"},
		{"first fence wins", "```mermaid\ngraph TD\n```\n```mermaid\ngraph LR\n```", "graph TD"},
		{"same line", "```mermaid graph TD; A-->B```", "graph TD; A-->B"},
		{"no fence falls back", "  just prose  \n", "just prose"},
		{"other language fence", "```python\nx = 1\n```", "```python\nx = 1\n```"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractDiagramCode(tt.raw))
		})
	}
}

func TestExtractDescription(t *testing.T) {
	assert.Equal(t, "A is a class.", ExtractDescription("```mermaid\nclassDiagram\n```\n  A is a class.\n"))
	assert.Equal(t, "", ExtractDescription("```mermaid\nclassDiagram\n```"))
	assert.Equal(t, "tail", ExtractDescription("a```b```c```d```tail"))
	assert.Equal(t, DefaultDescription, ExtractDescription("no fences here"))
	assert.Equal(t, DefaultDescription, ExtractDescription("one ``` only"))
}

func TestHasMermaidFence(t *testing.T) {
	assert.True(t, HasMermaidFence("```mermaid\ngraph TD\n```"))
	assert.False(t, HasMermaidFence("graph TD"))
}
