package analysis

import (
	"fmt"
	"sort"
	"strings"
)

const (
	// RootGroup collects paths that have no directory component.
	RootGroup = "root"
	// MaxFilesPerGroup bounds how many filenames are listed per directory.
	MaxFilesPerGroup = 10
)

// GroupByDirectory maps each directory (all but the last path segment) to
// the filenames directly inside it. Paths without a separator go under RootGroup.
func GroupByDirectory(filePaths []string) map[string][]string {
	groups := make(map[string][]string)
	for _, p := range filePaths {
		idx := strings.LastIndex(p, "/")
		if idx < 0 {
			groups[RootGroup] = append(groups[RootGroup], p)
			continue
		}
		groups[p[:idx]] = append(groups[p[:idx]], p[idx+1:])
	}
	return groups
}

// SummarizeStructure renders a bounded directory listing for prompts.
// Directories appear in lexical order, each followed by at most
// MaxFilesPerGroup sorted filenames and a count of the rest. The output is a
// pure function of the input set.
func SummarizeStructure(filePaths []string) string {
	groups := GroupByDirectory(filePaths)

	dirs := make([]string, 0, len(groups))
	for d := range groups {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)

	var lines []string
	for _, dir := range dirs {
		files := append([]string(nil), groups[dir]...)
		sort.Strings(files)

		lines = append(lines, "\n"+dir+"/")
		for _, f := range files[:min(len(files), MaxFilesPerGroup)] {
			lines = append(lines, "  - "+f)
		}
		if extra := len(files) - MaxFilesPerGroup; extra > 0 {
			lines = append(lines, fmt.Sprintf("  ... (%d more files)", extra))
		}
	}
	return strings.Join(lines, "\n")
}
