// Package source materialises a repository on local disk and exposes its
// text files to the diagram pipeline.
package source

import (
	"fmt"
	"net/url"
	"strings"
)

// ParseRepoURL extracts the owner and repository name from a GitHub URL.
// It accepts https URLs, scheme-less "github.com/o/r" and scp-style
// "git@github.com:o/r.git" forms.
func ParseRepoURL(raw string) (owner, name string, err error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", "", fmt.Errorf("empty repository url")
	}

	var p string
	switch {
	case strings.HasPrefix(s, "git@"):
		idx := strings.Index(s, ":")
		if idx < 0 {
			return "", "", fmt.Errorf("invalid repository url %q", raw)
		}
		p = s[idx+1:]
	case strings.Contains(s, "://"):
		u, perr := url.Parse(s)
		if perr != nil {
			return "", "", fmt.Errorf("invalid repository url %q: %w", raw, perr)
		}
		p = u.Path
	default:
		if idx := strings.Index(s, "/"); idx >= 0 && strings.Contains(s[:idx], ".") {
			s = s[idx+1:]
		}
		p = s
	}

	p = strings.Trim(p, "/")
	p = strings.TrimSuffix(p, ".git")
	parts := strings.Split(p, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository url %q: expected owner/name", raw)
	}
	return parts[0], parts[1], nil
}

// CloneURL returns the https clone URL for a repository reference. URLs that
// already carry a scheme are returned unchanged.
func CloneURL(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "file://") {
		return s, nil
	}
	owner, name, err := ParseRepoURL(s)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("https://github.com/%s/%s.git", owner, name), nil
}
