// Package analysis derives prompt context from a repository's file list:
// the dominant framework, the language mix, and a bounded directory summary.
package analysis

import "strings"

// Framework tags returned by DetectFramework.
const (
	FrameworkLaravel = "Laravel"
	FrameworkNextJS  = "Next.js"
	FrameworkAngular = "Angular"
	FrameworkReact   = "React"
	FrameworkVue     = "Vue.js"
	FrameworkDjango  = "Django"
	FrameworkFlask   = "Flask/FastAPI"
)

// DetectFramework classifies the project's primary framework from marker
// files. Rules are evaluated in order and the first match wins. Markers are
// compared case-insensitively against whole paths, so only root-level
// markers count. When nothing matches the result is "Generic " followed by
// the first language, or "Generic Code" without languages.
func DetectFramework(filePaths []string, languages []string) string {
	files := make(map[string]bool, len(filePaths))
	for _, p := range filePaths {
		files[strings.ToLower(p)] = true
	}
	has := func(names ...string) bool {
		for _, n := range names {
			if files[n] {
				return true
			}
		}
		return false
	}

	if has("artisan") && has("composer.json") {
		return FrameworkLaravel
	}

	if has("package.json") {
		switch {
		case has("next.config.js", "next.config.ts"):
			return FrameworkNextJS
		case has("angular.json"):
			return FrameworkAngular
		case hasSuffix(files, ".jsx", ".tsx"):
			return FrameworkReact
		case has("vue.config.js"):
			return FrameworkVue
		}
	}

	if has("manage.py") {
		return FrameworkDjango
	}
	if has("app.py", "wsgi.py") {
		return FrameworkFlask
	}

	if len(languages) > 0 {
		return "Generic " + languages[0]
	}
	return "Generic Code"
}

func hasSuffix(files map[string]bool, suffixes ...string) bool {
	for f := range files {
		for _, s := range suffixes {
			if strings.HasSuffix(f, s) {
				return true
			}
		}
	}
	return false
}

// FrameworkFamily groups framework tags by the kind of technical diagram they call for.
type FrameworkFamily int

const (
	FamilyGeneric FrameworkFamily = iota
	// FamilyServer frameworks are described through models and controllers.
	FamilyServer
	// FamilyUI frameworks are described through their component tree.
	FamilyUI
)

// FamilyOf maps a framework tag to its family.
func FamilyOf(framework string) FrameworkFamily {
	switch framework {
	case FrameworkLaravel, FrameworkDjango, FrameworkFlask, "Spring":
		return FamilyServer
	case FrameworkReact, FrameworkVue, FrameworkAngular, FrameworkNextJS:
		return FamilyUI
	default:
		return FamilyGeneric
	}
}
