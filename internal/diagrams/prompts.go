package diagrams

import (
	"fmt"
	"strings"

	"github.com/ziadkadry99/autodiagram/internal/analysis"
	"github.com/ziadkadry99/autodiagram/internal/llm"
	"github.com/ziadkadry99/autodiagram/internal/source"
)

const (
	// MaxFileChars is the longest single-file excerpt sent for a class diagram.
	MaxFileChars = 15000
	// TruncationMarker is appended to excerpts cut at MaxFileChars.
	TruncationMarker = "\n\n... (truncated)"
	// MaxMultiFiles bounds how many files a multi-file diagram considers.
	MaxMultiFiles = 10
	// MaxMultiFileChars bounds each excerpt in a multi-file diagram.
	MaxMultiFileChars = 1000
)

const mermaidRules = `CRITICAL RULES FOR MERMAID SYNTAX:
1. Use ONLY standard Mermaid syntax that passes the Mermaid parser.
2. NEVER use note statements. They cause parsing errors.
3. NEVER use curly-brace modifiers such as {abstract} or {static}.
4. Mark abstract classes with <<abstract>> above the class name.
5. Mark static members with <<static>>.`

const classSystemPrompt = `You are an expert software architect and code analyzer. Your task is to analyze code files and create clear, accurate Mermaid diagrams.
The code you are analyzing is written in the following programming languages: %s.

` + mermaidRules + `

Guidelines:
1. Identify all classes, interfaces, structs, functions and their relationships.
2. Show inheritance, composition and important dependencies.
3. Use valid Mermaid classDiagram syntax only.
4. Do NOT add notes for individual methods or attributes.
5. Add a short plain-text description after the ` + "```mermaid```" + ` block.

Return ONLY valid Mermaid classDiagram code in ` + "```mermaid```" + ` blocks, followed by a plain text description.`

const structureSystemPrompt = `You are an expert in repository structure analysis. Create a Mermaid graph showing the file and module organization.
The code you are analyzing is written in the following programming languages: %s.

Guidelines:
1. Create a tree or graph showing directories and key files.
2. Group related files together.
3. Show important dependencies between modules.
4. Keep it clean and readable.

` + mermaidRules + `

Return ONLY the Mermaid diagram code wrapped in ` + "```mermaid```" + ` blocks.`

const documentationSystemPrompt = `You are an expert Technical Writer and Software Architect.
Your task is to analyze a raw Mermaid diagram definition and generate comprehensive, human-readable documentation.

Guidelines for Analysis:
1. Executive Summary: start with a high-level overview of what the system represents.
2. Component Breakdown: explain the purpose of the key classes, modules or nodes in the diagram.
3. Relationships & Logic: for a class diagram explain the inheritance hierarchy, dependencies and composition; for a graph or tree explain the folder structure or data flow.
4. Design Patterns: identify any visible design patterns (Factory, Singleton, Observer, MVC).

Formatting Rules:
1. Output strictly in Markdown.
2. Use clear headings (##, ###) and bullet points.
3. **Bold** key class and component names.
4. Do NOT output the Mermaid code again; only output the text description.
5. Leave a blank line between paragraphs.

Return the Markdown documentation explaining the provided diagram.`

const highLevelSystemPrompt = `You are a CTO explaining a software architecture to a non-technical CEO.
Your goal is to create a high-level System Architecture Diagram using Mermaid.

Context: The application is built using **%s**.

Guidelines for the Diagram:
1. Abstraction Level: high. Do NOT show specific class names or file names.
2. Nodes: represent logical modules such as "User", "Web Interface", "Authentication Service", "Payment Database".
3. Flow: show how data flows from the User to the Frontend, the Backend and the Database.
4. Labels: use plain English on arrows ("Submits Form", "Fetches Data").

CRITICAL MERMAID RULES:
1. Use ` + "`graph TD`" + ` or ` + "`graph LR`" + `.
2. Use subgraphs to group areas (` + "`subgraph \"Frontend\"`" + `).
3. Do NOT use classDiagram syntax.
4. Do NOT use note statements or curly-brace modifiers.
5. Use simple shapes: ` + "`([User])`" + ` for people, ` + "`[(Database)]`" + ` for storage.

Return ONLY the Mermaid code wrapped in ` + "```mermaid```" + ` blocks.`

const technicalSystemPrompt = `You are a Lead Software Architect conducting a code review.
Your goal is to create a detailed Technical Architecture Diagram using Mermaid.

Context: The application is built using **%s**.

Guidelines:
1. Focus: strict implementation details (classes, interfaces, database tables).
2. Syntax: use classDiagram or erDiagram.
3. Detail Level: show key methods, attributes and relationships (inheritance <|--, composition *--, aggregation o--).

FRAMEWORK SPECIFIC RULES:
%s

` + mermaidRules + `
6. Group related classes using namespace where possible.

Return ONLY the Mermaid code wrapped in ` + "```mermaid```" + ` blocks.`

const (
	serverGuidance  = "- This is a server-side MVC framework: focus on Models (entities) and Controllers. Show the data model relationships."
	uiGuidance      = "- This is a UI framework: focus on the Component Tree. Show which components manage state or call APIs."
	genericGuidance = `- Laravel/Django/Spring: focus on Models (entities) and Controllers. Show the data model relationships.
- React/Vue/Angular: focus on the Component Tree. Show which components manage state or call APIs.
- Microservices: show the API contracts and data schemas.`
)

func languageList(languages []string) string {
	if len(languages) == 0 {
		return "unknown"
	}
	return strings.Join(languages, ", ")
}

func frameworkGuidance(framework string) string {
	switch analysis.FamilyOf(framework) {
	case analysis.FamilyServer:
		return serverGuidance
	case analysis.FamilyUI:
		return uiGuidance
	default:
		return genericGuidance
	}
}

// TruncateContent cuts content to MaxFileChars characters and appends
// TruncationMarker. Shorter content is returned unchanged.
func TruncateContent(content string) string {
	r := []rune(content)
	if len(r) <= MaxFileChars {
		return content
	}
	return string(r[:MaxFileChars]) + TruncationMarker
}

func excerpt(content string, limit int) string {
	r := []rune(content)
	if len(r) <= limit {
		return content
	}
	return string(r[:limit])
}

func conversation(system, user string) []llm.Message {
	return []llm.Message{
		{Role: llm.RoleSystem, Content: system},
		{Role: llm.RoleUser, Content: user},
	}
}

// ClassDiagramPrompt builds the conversation for a single-file class diagram.
func ClassDiagramPrompt(languages []string, path, content string) []llm.Message {
	user := fmt.Sprintf("Analyze this code file and create a Mermaid class diagram.\n\n"+
		"File: %s\n\nCode:\n```\n%s\n```\n\n"+
		"IMPORTANT:\n"+
		"- Use ONLY valid Mermaid classDiagram syntax\n"+
		"- Do NOT include any note statements\n"+
		"- Show classes, attributes, methods, and relationships\n"+
		"- Keep it clean and parseable\n\n"+
		"Generate a comprehensive class diagram showing all classes, their relationships, and key methods.",
		path, TruncateContent(content))
	return conversation(fmt.Sprintf(classSystemPrompt, languageList(languages)), user)
}

// StructurePrompt builds the conversation for the repository structure diagram.
func StructurePrompt(languages []string, summary string) []llm.Message {
	user := "Create a Mermaid graph diagram showing the structure of this repository.\n\n" +
		"Repository structure:\n" + summary + "\n\n" +
		"Create a clear, hierarchical diagram showing directories and their key files."
	return conversation(fmt.Sprintf(structureSystemPrompt, languageList(languages)), user)
}

// MultiFileExcerpts renders the first MaxMultiFiles files, each cut to
// MaxMultiFileChars, as "File: <path>\n<excerpt>\n---" blocks.
func MultiFileExcerpts(files []SourceFile) string {
	n := min(len(files), MaxMultiFiles)
	blocks := make([]string, 0, n)
	for _, f := range files[:n] {
		blocks = append(blocks, fmt.Sprintf("File: %s\n%s\n---", f.Path, excerpt(f.Content, MaxMultiFileChars)))
	}
	return strings.Join(blocks, "\n\n")
}

// MultiFilePrompt builds the conversation for the cross-file class diagram.
func MultiFilePrompt(languages []string, files []SourceFile) []llm.Message {
	user := "Analyze these multiple code files and create a unified Mermaid class diagram showing how they relate to each other.\n\n" +
		"Focus on:\n- Cross-file relationships\n- Imports and dependencies\n- Inheritance across files\n- Key interactions\n\n" +
		"Files:\n" + MultiFileExcerpts(files) + "\n\n" +
		"Create a comprehensive diagram showing the architecture."
	return conversation(fmt.Sprintf(classSystemPrompt, languageList(languages)), user)
}

// HighLevelPrompt builds the conversation for the non-technical architecture overview.
func HighLevelPrompt(framework, summary string) []llm.Message {
	user := fmt.Sprintf("Create a high-level architecture diagram for this %s project.\n\n"+
		"Based on this file structure, infer the major modules:\n%s\n\n"+
		"Show the \"Big Picture\" view.", framework, summary)
	return conversation(fmt.Sprintf(highLevelSystemPrompt, framework), user)
}

// TechnicalPrompt builds the conversation for the developer-facing architecture diagram.
func TechnicalPrompt(framework, keyFileContents, summary string) []llm.Message {
	user := fmt.Sprintf("Create a technical class diagram for this %s project.\n\n"+
		"Key Files & Classes found:\n%s\n\n"+
		"Repository Structure:\n%s\n\n"+
		"Generate a detailed diagram showing the core logic and data relationships.",
		framework, keyFileContents, summary)
	return conversation(fmt.Sprintf(technicalSystemPrompt, framework, frameworkGuidance(framework)), user)
}

// DocumentationPrompt builds the conversation that explains a diagram in prose.
func DocumentationPrompt(diagramCode string) []llm.Message {
	user := "Here is a Mermaid diagram definition:\n\n```mermaid\n" + diagramCode + "\n```\n\n" +
		"Generate comprehensive documentation explaining the architecture shown in this diagram."
	return conversation(documentationSystemPrompt, user)
}

// SourceFile is a path and its text content.
type SourceFile = source.File
