package diagrams

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ziadkadry99/autodiagram/internal/analysis"
	"github.com/ziadkadry99/autodiagram/internal/llm"
)

// errEmptyResponse reports a provider that returned neither a reply nor an error.
var errEmptyResponse = errors.New("provider returned an empty response")

// Generator turns source code and repository summaries into Mermaid
// diagrams through a single LLM provider. It is safe for concurrent use.
type Generator struct {
	provider    llm.Provider
	model       string
	temperature *float64
	maxTokens   int
	languages   []string
	logger      *slog.Logger

	mu    sync.Mutex
	usage llm.Usage
}

// Option configures a Generator.
type Option func(*Generator)

// WithModel overrides the provider's default model.
func WithModel(model string) Option {
	return func(g *Generator) { g.model = model }
}

// WithTemperature sets the sampling temperature on every request.
func WithTemperature(t float64) Option {
	return func(g *Generator) { g.temperature = &t }
}

// WithMaxTokens caps the length of each reply.
func WithMaxTokens(n int) Option {
	return func(g *Generator) { g.maxTokens = n }
}

// WithLanguages sets the repository languages interpolated into class and
// structure prompts.
func WithLanguages(langs []string) Option {
	return func(g *Generator) { g.languages = append([]string(nil), langs...) }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// NewGenerator creates a Generator backed by provider.
func NewGenerator(provider llm.Provider, opts ...Option) *Generator {
	g := &Generator{provider: provider, logger: slog.Default()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Languages returns the languages the generator was configured with.
func (g *Generator) Languages() []string {
	return append([]string(nil), g.languages...)
}

// Usage returns the token usage accumulated so far.
func (g *Generator) Usage() llm.Usage {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.usage
}

func (g *Generator) complete(ctx context.Context, op string, messages []llm.Message) (string, error) {
	resp, err := g.provider.Complete(ctx, llm.CompletionRequest{
		Model:       g.model,
		Messages:    messages,
		MaxTokens:   g.maxTokens,
		Temperature: g.temperature,
	})
	if err != nil {
		g.logger.Warn("diagram request failed", "op", op, "provider", g.provider.Name(), "error", err)
		return "", &GenerationError{Op: op, Err: err}
	}
	if resp == nil {
		g.logger.Warn("diagram request returned nothing", "op", op, "provider", g.provider.Name())
		return "", &GenerationError{Op: op, Err: errEmptyResponse}
	}

	g.mu.Lock()
	g.usage.Add(resp)
	g.mu.Unlock()

	g.logger.Debug("diagram request completed", "op", op,
		"input_tokens", resp.InputTokens, "output_tokens", resp.OutputTokens)
	return resp.Content, nil
}

func (g *Generator) extractCode(op, sourcePath, raw string) string {
	if !HasMermaidFence(raw) {
		g.logger.Warn("reply has no mermaid fence, using raw text as diagram", "op", op, "source", sourcePath)
	}
	return ExtractDiagramCode(raw)
}

// GenerateClassDiagram asks for a class diagram of one file. Content longer
// than MaxFileChars is truncated.
func (g *Generator) GenerateClassDiagram(ctx context.Context, path, content string) Result {
	const op = "class diagram"
	raw, err := g.complete(ctx, op, ClassDiagramPrompt(g.languages, path, content))
	if err != nil {
		return failed(path, err)
	}
	return succeeded(path, g.extractCode(op, path, raw), ExtractDescription(raw))
}

// GenerateRepositoryStructure asks for a directory/module graph of the repository.
func (g *Generator) GenerateRepositoryStructure(ctx context.Context, filePaths []string) Result {
	const op = "repository structure"
	raw, err := g.complete(ctx, op, StructurePrompt(g.languages, analysis.SummarizeStructure(filePaths)))
	if err != nil {
		return failed(TagRepositoryStructure, err)
	}
	return succeeded(TagRepositoryStructure, g.extractCode(op, TagRepositoryStructure, raw), "Repository structure diagram")
}

// GenerateMultiFileDiagram asks for one class diagram relating several files.
// Only the first MaxMultiFiles files are sent.
func (g *Generator) GenerateMultiFileDiagram(ctx context.Context, files []SourceFile) Result {
	const op = "multi-file diagram"
	raw, err := g.complete(ctx, op, MultiFilePrompt(g.languages, files))
	if err != nil {
		return failed(TagMultiFile, err)
	}
	return succeeded(TagMultiFile, g.extractCode(op, TagMultiFile, raw), ExtractDescription(raw))
}

// GenerateHighLevelArchitecture asks for a non-technical overview of the system.
func (g *Generator) GenerateHighLevelArchitecture(ctx context.Context, framework, structureSummary string) Result {
	const op = "high-level architecture"
	raw, err := g.complete(ctx, op, HighLevelPrompt(framework, structureSummary))
	if err != nil {
		return failed(TagArchitectureOverview, err)
	}
	return succeeded(TagArchitectureOverview, g.extractCode(op, TagArchitectureOverview, raw),
		fmt.Sprintf("High-level architecture of the %s application", framework))
}

// GenerateTechnicalArchitecture asks for a developer-facing diagram built
// from key file excerpts and the repository structure.
func (g *Generator) GenerateTechnicalArchitecture(ctx context.Context, framework string, filePaths []string, keyFileContents string) Result {
	const op = "technical architecture"
	summary := analysis.SummarizeStructure(filePaths)
	raw, err := g.complete(ctx, op, TechnicalPrompt(framework, keyFileContents, summary))
	if err != nil {
		return failed(TagTechnicalArchitecture, err)
	}
	return succeeded(TagTechnicalArchitecture, g.extractCode(op, TagTechnicalArchitecture, raw),
		fmt.Sprintf("Detailed technical architecture of %s Core Components", framework))
}

// GenerateDocumentation asks for Markdown prose explaining result's diagram.
func (g *Generator) GenerateDocumentation(ctx context.Context, result Result) (string, error) {
	return g.complete(ctx, "documentation", DocumentationPrompt(result.DiagramCode))
}

// Fork returns a generator sharing g's provider and settings, with opts
// applied on top and its own usage counter.
func (g *Generator) Fork(opts ...Option) *Generator {
	f := &Generator{
		provider:    g.provider,
		model:       g.model,
		temperature: g.temperature,
		maxTokens:   g.maxTokens,
		languages:   g.languages,
		logger:      g.logger,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}
