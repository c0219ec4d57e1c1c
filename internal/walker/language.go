package walker

import (
	"path/filepath"
	"strings"
)

// sourceLanguages lists the programming languages whose files can be
// diagrammed, with the extensions that identify them.
var sourceLanguages = []struct {
	name string
	exts []string
}{
	{"Python", []string{".py", ".pyi"}},
	{"Go", []string{".go"}},
	{"JavaScript", []string{".js", ".jsx", ".mjs", ".cjs"}},
	{"TypeScript", []string{".ts", ".tsx", ".mts"}},
	{"Java", []string{".java"}},
	{"Kotlin", []string{".kt", ".kts"}},
	{"C#", []string{".cs"}},
	{"C++", []string{".cpp", ".cc", ".cxx", ".hpp", ".hxx"}},
	{"C", []string{".c", ".h"}},
	{"Rust", []string{".rs"}},
	{"Ruby", []string{".rb"}},
	{"PHP", []string{".php"}},
	{"Swift", []string{".swift"}},
	{"Scala", []string{".scala"}},
	{"Dart", []string{".dart"}},
	{"Elixir", []string{".ex", ".exs"}},
	{"Vue", []string{".vue"}},
	{"Svelte", []string{".svelte"}},
}

// supportFiles are recognized but never count as a repository language.
var supportFiles = map[string]string{
	".md":   "Markdown",
	".json": "JSON",
	".yaml": "YAML",
	".yml":  "YAML",
	".toml": "TOML",
	".html": "HTML",
	".css":  "CSS",
}

// namedFiles are build files identified by their exact name.
var namedFiles = map[string]string{
	"Dockerfile": "Dockerfile",
	"Makefile":   "Makefile",
}

var extensionToLanguage = func() map[string]string {
	m := make(map[string]string)
	for _, l := range sourceLanguages {
		for _, ext := range l.exts {
			m[ext] = l.name
		}
	}
	return m
}()

// IsProgrammingLanguage reports whether lang is one of the diagrammable
// source languages.
func IsProgrammingLanguage(lang string) bool {
	for _, l := range sourceLanguages {
		if l.name == lang {
			return true
		}
	}
	return false
}

// DetectLanguage names the language of filename from its exact name or its
// extension, or returns "unknown".
func DetectLanguage(filename string) string {
	base := filepath.Base(filename)
	if lang, ok := namedFiles[base]; ok {
		return lang
	}

	ext := strings.ToLower(filepath.Ext(base))
	if lang, ok := extensionToLanguage[ext]; ok {
		return lang
	}
	if kind, ok := supportFiles[ext]; ok {
		return kind
	}
	return "unknown"
}
