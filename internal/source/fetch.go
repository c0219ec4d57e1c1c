package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	git "github.com/go-git/go-git/v5"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"

	"github.com/ziadkadry99/autodiagram/internal/walker"
)

// Fetcher clones remote repositories and opens them as snapshots.
type Fetcher struct {
	// Include and Exclude are glob filters applied after cloning.
	Include     []string
	Exclude     []string
	MaxFileSize int64
	// TempDir is the parent for checkouts. Empty uses os.TempDir.
	TempDir string
	Logger  *slog.Logger
}

// Fetch shallow-clones repoURL and returns a loaded snapshot. When token is
// set it is sent as a GitHub access token. The caller must Close the snapshot.
func (f *Fetcher) Fetch(ctx context.Context, repoURL, token string) (*Snapshot, error) {
	cloneURL, err := CloneURL(repoURL)
	if err != nil {
		return nil, err
	}

	dir, err := os.MkdirTemp(f.TempDir, "autodiagram-clone-*")
	if err != nil {
		return nil, fmt.Errorf("creating clone dir: %w", err)
	}
	cleanup := func() error { return os.RemoveAll(dir) }

	opts := &git.CloneOptions{
		URL:          cloneURL,
		Depth:        1,
		SingleBranch: true,
	}
	if token != "" {
		opts.Auth = &githttp.BasicAuth{Username: "x-access-token", Password: token}
	}

	f.logger().Info("cloning repository", "url", cloneURL)
	if _, err := git.PlainCloneContext(ctx, dir, false, opts); err != nil {
		_ = cleanup()
		return nil, fmt.Errorf("cloning %s: %w", cloneURL, err)
	}

	snap, err := f.open(dir)
	if err != nil {
		_ = cleanup()
		return nil, err
	}
	snap.cleanup = cleanup
	return snap, nil
}

// Open loads an existing directory with the fetcher's filters. Closing the
// snapshot leaves the directory in place.
func (f *Fetcher) Open(dir string) (*Snapshot, error) {
	return f.open(dir)
}

func (f *Fetcher) open(dir string) (*Snapshot, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", dir, err)
	}
	files, err := walker.Walk(walker.WalkerConfig{
		RootDir:     abs,
		Include:     f.Include,
		Exclude:     f.Exclude,
		MaxFileSize: f.MaxFileSize,
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", abs, err)
	}
	snap, err := newSnapshot(abs, files)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", abs, err)
	}
	f.logger().Debug("snapshot loaded", "dir", abs, "files", len(snap.Files), "languages", snap.Languages)
	return snap, nil
}

func (f *Fetcher) logger() *slog.Logger {
	if f.Logger != nil {
		return f.Logger
	}
	return slog.Default()
}
