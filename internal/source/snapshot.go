package source

import (
	"os"
	"path"
	"sort"
	"strings"

	"github.com/ziadkadry99/autodiagram/internal/analysis"
	"github.com/ziadkadry99/autodiagram/internal/walker"
)

const (
	// MaxKeyFiles bounds how many files KeyFileContents includes.
	MaxKeyFiles = 15
	// MaxKeyFileChars bounds each key file excerpt.
	MaxKeyFileChars = 2000
)

// File is a repository path with its decoded text content.
type File struct {
	Path    string
	Content string
}

// Snapshot is a filtered, loaded view of a repository working tree.
type Snapshot struct {
	Dir       string
	Files     []walker.FileInfo
	Languages []string

	contents map[string]string
	cleanup  func() error
}

// Close releases the snapshot. Cloned snapshots remove their checkout.
func (s *Snapshot) Close() error {
	if s == nil || s.cleanup == nil {
		return nil
	}
	fn := s.cleanup
	s.cleanup = nil
	return fn()
}

// Paths returns every file path in lexical order.
func (s *Snapshot) Paths() []string {
	out := make([]string, len(s.Files))
	for i, f := range s.Files {
		out[i] = f.RelPath
	}
	return out
}

// Content returns the loaded text for relPath.
func (s *Snapshot) Content(relPath string) (string, bool) {
	c, ok := s.contents[relPath]
	return c, ok
}

// SourceFiles returns the files whose extension is in extensions. An empty
// list selects every programming-language file.
func (s *Snapshot) SourceFiles(extensions []string) []File {
	var out []File
	for _, f := range s.Files {
		if len(extensions) > 0 {
			if !walker.HasExtension(f.RelPath, extensions) {
				continue
			}
		} else if !walker.IsProgrammingLanguage(f.Language) {
			continue
		}
		out = append(out, File{Path: f.RelPath, Content: s.contents[f.RelPath]})
	}
	return out
}

// KeyFileContents selects the files that best describe the framework's core
// components and renders them as one prompt excerpt. Server frameworks
// prefer models and controllers, UI frameworks prefer components; otherwise
// non-test source files are ranked by size.
func (s *Snapshot) KeyFileContents(framework string) string {
	family := analysis.FamilyOf(framework)

	type candidate struct {
		file  walker.FileInfo
		score int
	}
	var cands []candidate
	for _, f := range s.Files {
		if f.IsTest || !walker.IsProgrammingLanguage(f.Language) {
			continue
		}
		if sc := keyScore(family, f.RelPath); sc > 0 {
			cands = append(cands, candidate{file: f, score: sc})
		}
	}
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].score != cands[j].score {
			return cands[i].score > cands[j].score
		}
		if cands[i].file.Size != cands[j].file.Size {
			return cands[i].file.Size > cands[j].file.Size
		}
		return cands[i].file.RelPath < cands[j].file.RelPath
	})

	var b strings.Builder
	for i, c := range cands {
		if i == MaxKeyFiles {
			break
		}
		content := []rune(s.contents[c.file.RelPath])
		if len(content) > MaxKeyFileChars {
			content = content[:MaxKeyFileChars]
		}
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString("File: " + c.file.RelPath + "\n" + string(content) + "\n---")
	}
	return b.String()
}

var (
	serverMarkers = []string{"model", "controller", "entity", "entities", "views", "routes", "urls", "schema", "service"}
	uiMarkers     = []string{"component", "components", "pages", "app", "views", "store", "hooks", "layouts"}
)

func keyScore(family analysis.FrameworkFamily, relPath string) int {
	lower := strings.ToLower(relPath)
	segments := strings.Split(lower, "/")
	stem := strings.TrimSuffix(path.Base(lower), path.Ext(lower))

	var markers []string
	switch family {
	case analysis.FamilyServer:
		markers = serverMarkers
	case analysis.FamilyUI:
		markers = uiMarkers
	default:
		return 1
	}

	score := 1
	for _, m := range markers {
		if strings.Contains(stem, m) {
			score += 2
		}
		for _, seg := range segments[:len(segments)-1] {
			if seg == m || seg == m+"s" {
				score += 3
			}
		}
	}
	return score
}

func newSnapshot(dir string, files []walker.FileInfo) (*Snapshot, error) {
	snap := &Snapshot{
		Dir:      dir,
		Files:    files,
		contents: make(map[string]string, len(files)),
	}
	paths := make([]string, 0, len(files))
	for _, f := range files {
		text, err := walker.ReadText(f)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		snap.contents[f.RelPath] = text
		paths = append(paths, f.RelPath)
	}
	snap.Languages = analysis.DetectLanguages(paths)
	return snap, nil
}
