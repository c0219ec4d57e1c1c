package analysis

import (
	"sort"

	"github.com/ziadkadry99/autodiagram/internal/walker"
)

// DetectLanguages ranks the programming languages found in filePaths by file
// count, most common first. Ties are broken by name. Markup and data files
// are ignored.
func DetectLanguages(filePaths []string) []string {
	counts := make(map[string]int)
	for _, p := range filePaths {
		lang := walker.DetectLanguage(p)
		if walker.IsProgrammingLanguage(lang) {
			counts[lang]++
		}
	}

	langs := make([]string, 0, len(counts))
	for l := range counts {
		langs = append(langs, l)
	}
	sort.Slice(langs, func(i, j int) bool {
		if counts[langs[i]] != counts[langs[j]] {
			return counts[langs[i]] > counts[langs[j]]
		}
		return langs[i] < langs[j]
	})
	return langs
}
