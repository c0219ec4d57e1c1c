package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/ziadkadry99/autodiagram/internal/llm"
)

// projectMarkers maps marker files to a human-readable project type and
// the extensions worth diagramming per file.
var projectMarkers = []struct {
	Marker     string
	Name       string
	Extensions string
}{
	{"artisan", "Laravel", ".php"},
	{"manage.py", "Django", ".py"},
	{"angular.json", "Angular", ".ts"},
	{"next.config.js", "Next.js", ".ts,.tsx,.js"},
	{"go.mod", "Go", ".go"},
	{"package.json", "Node.js/TypeScript", ".ts,.tsx,.js"},
	{"requirements.txt", "Python", ".py"},
	{"pyproject.toml", "Python", ".py"},
	{"pom.xml", "Java", ".java"},
	{"build.gradle", "Java/Kotlin", ".java,.kt"},
	{"Gemfile", "Ruby", ".rb"},
	{"composer.json", "PHP", ".php"},
	{"*.csproj", ".NET", ".cs"},
}

// detectProjectType checks dir for well-known project markers.
func detectProjectType(dir string) (name, extensions string) {
	for _, m := range projectMarkers {
		matches, _ := filepath.Glob(filepath.Join(dir, m.Marker))
		if len(matches) > 0 {
			return m.Name, m.Extensions
		}
	}
	return "", ".py"
}

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .autodiagram.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to autodiagram! Let's configure your project.")
	fmt.Println()

	projType, defaultExts := detectProjectType(".")
	if projType != "" {
		fmt.Printf("Detected project type: %s\n\n", projType)
	}

	// 1. Provider selection.
	providerPrompt := promptui.Select{
		Label: "Select LLM provider",
		Items: []string{string(ProviderGoogle), string(ProviderOpenAI), string(ProviderClaude)},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	provider := ProviderType(providerStr)

	// 2. Model.
	modelPrompt := promptui.Prompt{
		Label:   "Model",
		Default: llm.DefaultModel(llm.Vendor(provider)),
	}
	model, err := modelPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}

	// 3. Output directory.
	outputPrompt := promptui.Prompt{
		Label:   "Output directory for generated diagrams",
		Default: "docs/diagrams",
	}
	outputDir, err := outputPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("output dir: %w", err)
	}

	// 4. Extensions for per-file class diagrams.
	extPrompt := promptui.Prompt{
		Label:   "File extensions for class diagrams (comma-separated)",
		Default: defaultExts,
	}
	extStr, err := extPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("extensions: %w", err)
	}

	// 5. Extra exclude patterns.
	excludePrompt := promptui.Prompt{
		Label:   "Extra exclude patterns (comma-separated, leave blank for defaults)",
		Default: "",
	}
	excludeStr, err := excludePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("exclude patterns: %w", err)
	}

	cfg := DefaultConfig()
	cfg.Provider = provider
	cfg.Model = strings.TrimSpace(model)
	cfg.OutputDir = outputDir
	cfg.Extensions = normalizeExtensions(splitAndTrim(extStr))
	cfg.Exclude = append(cfg.Exclude, splitAndTrim(excludeStr)...)

	if provider == ProviderGoogle {
		fmt.Println("\nNote: Google accepts GOOGLE_API_KEY or service-account credentials (GOOGLE_APPLICATION_CREDENTIALS).")
	} else if envVar := APIKeyEnvVar(provider); os.Getenv(envVar) == "" {
		fmt.Printf("\nNote: Set %s in your environment before running autodiagram generate.\n", envVar)
	}

	if err := cfg.Save(DefaultConfigFile); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", DefaultConfigFile)
	return cfg, nil
}

// normalizeExtensions lower-cases extensions and ensures a leading dot.
func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(e)
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}

// splitAndTrim splits a comma-separated string and drops empty entries.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
