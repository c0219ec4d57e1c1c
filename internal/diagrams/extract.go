package diagrams

import (
	"regexp"
	"strings"
)

// DefaultDescription is returned when a reply has no text after its code fence.
const DefaultDescription = "No description provided"

var mermaidFence = regexp.MustCompile("(?s)```mermaid\\s*(.*?)\\s*```")

// ExtractDiagramCode returns the body of the first ```mermaid fence in raw.
// Without a fence the whole trimmed reply is returned.
func ExtractDiagramCode(raw string) string {
	if m := mermaidFence.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(raw)
}

// ExtractDescription returns the trimmed text after the last ``` marker, or
// DefaultDescription when the reply has fewer than two markers.
func ExtractDescription(raw string) string {
	parts := strings.Split(raw, "```")
	if len(parts) > 2 {
		return strings.TrimSpace(parts[len(parts)-1])
	}
	return DefaultDescription
}

// HasMermaidFence reports whether raw contains a ```mermaid block.
func HasMermaidFence(raw string) bool {
	return mermaidFence.MatchString(raw)
}
