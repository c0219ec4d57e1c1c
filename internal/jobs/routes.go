package jobs

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the job API on the given router.
func RegisterRoutes(r chi.Router, runner *Runner, store *Store) {
	r.Post("/api/start-generation", handleStart(runner))
	r.Route("/api/jobs", func(r chi.Router) {
		r.Get("/", handleList(store))
		r.Get("/{jobID}", handleGet(store))
		r.Delete("/{jobID}", handleCancel(runner))
		r.Get("/{jobID}/events", handleEvents(runner, store))
	})
}

func handleStart(runner *Runner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if missing := req.MissingFields(); len(missing) > 0 {
			writeError(w, http.StatusBadRequest, "missing required fields: "+strings.Join(missing, ", "))
			return
		}

		job, err := runner.Submit(r.Context(), req)
		switch {
		case errors.Is(err, ErrQueueFull), errors.Is(err, ErrShuttingDown):
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		case err != nil:
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		writeJSON(w, http.StatusAccepted, map[string]string{
			"message": "Diagram generation started",
			"job_id":  job.JobID,
			"run_id":  job.ID,
			"status":  string(StatusProcessing),
		})
	}
}

func handleGet(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		job, err := store.Latest(r.Context(), chi.URLParam(r, "jobID"))
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "job not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, job)
	}
}

func handleList(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
				return
			}
			limit = n
		}

		jobs, err := store.List(r.Context(), limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, jobs)
	}
}

func handleCancel(runner *Runner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		job, err := runner.Cancel(r.Context(), chi.URLParam(r, "jobID"))
		switch {
		case errors.Is(err, ErrNotFound):
			writeError(w, http.StatusNotFound, "job not found")
		case errors.Is(err, ErrNotCancellable):
			writeError(w, http.StatusConflict, "job already "+string(job.Status))
		case err != nil:
			writeError(w, http.StatusInternalServerError, err.Error())
		default:
			writeJSON(w, http.StatusAccepted, map[string]string{
				"job_id": job.JobID,
				"run_id": job.ID,
				"status": "cancelling",
			})
		}
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
