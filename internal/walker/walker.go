package walker

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DefaultMaxFileSize is the maximum file size to load (1 MB).
const DefaultMaxFileSize int64 = 1 << 20

// FileInfo describes one repository file that passed filtering.
type FileInfo struct {
	Path     string // Absolute path on disk.
	RelPath  string // Slash-separated path relative to the root directory.
	Size     int64
	Language string
	IsTest   bool
}

// WalkerConfig controls the behaviour of Walk.
type WalkerConfig struct {
	RootDir     string
	Include     []string // Glob patterns; only matching files are kept. Empty keeps all.
	Exclude     []string // Glob patterns; matching files are dropped.
	MaxFileSize int64    // 0 selects DefaultMaxFileSize.
}

// Walk traverses config.RootDir and returns every text file that passes the
// include/exclude patterns, the root .gitignore, and the size limit.
// Results are in lexical path order.
func Walk(config WalkerConfig) ([]FileInfo, error) {
	root, err := filepath.Abs(config.RootDir)
	if err != nil {
		return nil, fmt.Errorf("walker: resolve root: %w", err)
	}

	maxSize := config.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}

	ignore := loadGitignore(filepath.Join(root, ".gitignore"))

	var files []FileInfo
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			return nil
		}
		if d.IsDir() {
			if path != root && shouldExcludeDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if matchesGitignore(rel, ignore) || !MatchesInclude(rel, config.Include) || MatchesExclude(rel, config.Exclude) {
			return nil
		}

		info, err := d.Info()
		if err != nil || info.Size() > maxSize || isBinary(path) {
			return nil
		}

		files = append(files, FileInfo{
			Path:     path,
			RelPath:  rel,
			Size:     info.Size(),
			Language: DetectLanguage(d.Name()),
			IsTest:   isTestFile(d.Name(), rel),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walker: traversal: %w", err)
	}
	return files, nil
}

// ReadText returns the file content decoded as UTF-8, with invalid
// sequences dropped.
func ReadText(f FileInfo) (string, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return "", fmt.Errorf("walker: read %s: %w", f.RelPath, err)
	}
	return strings.ToValidUTF8(string(data), ""), nil
}

// isBinary reports whether the first 512 bytes contain a NUL byte.
func isBinary(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return true
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return true
	}
	for _, b := range buf[:n] {
		if b == 0 {
			return true
		}
	}
	return false
}

func isTestFile(name, relPath string) bool {
	lower := strings.ToLower(name)
	if strings.HasSuffix(lower, "_test.go") || strings.HasPrefix(lower, "test_") || strings.HasSuffix(lower, "_test.py") {
		return true
	}
	for _, suffix := range []string{".test.js", ".test.ts", ".test.tsx", ".spec.js", ".spec.ts", ".spec.tsx"} {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	rel := strings.ToLower(relPath)
	return strings.Contains(rel, "/test/") || strings.Contains(rel, "/tests/") ||
		strings.HasPrefix(rel, "test/") || strings.HasPrefix(rel, "tests/")
}

// loadGitignore returns the non-empty, non-comment lines of a .gitignore file.
func loadGitignore(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var patterns []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns
}

// matchesGitignore is a reduced gitignore matcher: slash-free patterns match
// any path component, others match the whole path.
func matchesGitignore(relPath string, patterns []string) bool {
	parts := strings.Split(relPath, "/")
	for _, pattern := range patterns {
		pattern = strings.TrimPrefix(strings.TrimSuffix(pattern, "/"), "/")
		if strings.Contains(pattern, "/") {
			if ok, _ := filepath.Match(pattern, relPath); ok {
				return true
			}
			if MatchesExclude(relPath, []string{pattern, pattern + "/**"}) {
				return true
			}
			continue
		}
		for _, part := range parts {
			if ok, _ := filepath.Match(pattern, part); ok {
				return true
			}
		}
	}
	return false
}
