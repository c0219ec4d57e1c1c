package diagrams

import (
	"github.com/ziadkadry99/autodiagram/internal/analysis"
	"github.com/ziadkadry99/autodiagram/internal/llm"
	"github.com/ziadkadry99/autodiagram/internal/source"
)

// EstimatedReplyTokens is the assumed size of one diagram reply when
// estimating cost ahead of a run.
const EstimatedReplyTokens = 600

// Estimate is the projected size of a Run, computed from the prompts it
// would send without contacting a provider.
type Estimate struct {
	Requests     int
	InputTokens  int
	OutputTokens int
	// Breakdown maps an operation to its estimated input tokens.
	Breakdown map[string]int
}

// Cost returns the estimated cost in USD for model.
func (e Estimate) Cost(model string) float64 {
	return llm.EstimateCost(model, e.InputTokens, e.OutputTokens)
}

// EstimateRun builds every prompt Run would send for snap and opts and
// totals their token estimates. Documentation prompts are counted with an
// empty diagram since the diagram is not known yet.
func EstimateRun(snap *source.Snapshot, opts RunOptions) Estimate {
	est := Estimate{Breakdown: make(map[string]int)}
	add := func(op string, msgs []llm.Message) {
		n := llm.EstimateConversationTokens(msgs)
		est.Requests++
		est.InputTokens += n
		est.OutputTokens += EstimatedReplyTokens
		est.Breakdown[op] += n
	}

	paths := snap.Paths()
	langs := snap.Languages
	framework := analysis.DetectFramework(paths, langs)
	summary := analysis.SummarizeStructure(paths)

	var code []SourceFile
	if !opts.SkipFileDiagrams {
		code = snap.SourceFiles(opts.Extensions)
	}
	for _, f := range code {
		add("class diagram", ClassDiagramPrompt(langs, f.Path, f.Content))
	}
	add("repository structure", StructurePrompt(langs, summary))
	if len(code) > 1 {
		add("multi-file diagram", MultiFilePrompt(langs, code))
	}
	add("high-level architecture", HighLevelPrompt(framework, summary))
	add("documentation", DocumentationPrompt(""))
	if opts.Technical {
		add("technical architecture", TechnicalPrompt(framework, snap.KeyFileContents(framework), summary))
		add("documentation", DocumentationPrompt(""))
	}
	return est
}
