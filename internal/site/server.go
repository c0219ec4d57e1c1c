// Package site serves an exported diagram directory over HTTP for local viewing.
package site

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handler returns a router serving the files under dir. The root serves
// index.html when one exists and a listing otherwise.
func Handler(dir string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.NoCache)
	r.Handle("/*", http.FileServer(http.Dir(dir)))
	return r
}

// Serve serves dir on port until ctx ends. When open is set the default
// browser is pointed at the site.
func Serve(ctx context.Context, dir string, port int, open bool, logger *slog.Logger) error {
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("diagram directory: %w", err)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           Handler(dir),
		ReadHeaderTimeout: 10 * time.Second,
	}
	url := fmt.Sprintf("http://localhost:%d", port)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if open {
		go openBrowser(url)
	}
	logger.Info("serving diagrams", "dir", dir, "url", url)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// openBrowser opens the given URL in the default browser.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	_ = cmd.Start()
}
