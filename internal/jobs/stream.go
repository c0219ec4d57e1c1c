package jobs

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

const streamWriteTimeout = 10 * time.Second

// handleEvents streams status events of the latest run of a job over a
// WebSocket, starting with its current state. Later runs of the same job ID
// are not followed. The stream closes after a terminal status or when the
// client goes away.
func handleEvents(runner *Runner, store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID := chi.URLParam(r, "jobID")

		// Subscribe before reading the current state so no transition is missed.
		events, unsubscribe := runner.Events().Subscribe(jobID)
		defer unsubscribe()

		job, err := store.Latest(r.Context(), jobID)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "job not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Warn("job events: websocket upgrade", "job_id", jobID, "error", err)
			return
		}
		defer conn.Close()

		send := func(ev Event) bool {
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
			return conn.WriteJSON(ev) == nil
		}

		if !send(eventFor(job, job.Status, job.Error)) || job.Status.Terminal() {
			closeStream(conn)
			return
		}

		// Drain client frames so a close is noticed.
		gone := make(chan struct{})
		go func() {
			defer close(gone)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case <-gone:
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				if ev.RunID != job.ID {
					continue
				}
				if !send(ev) {
					return
				}
				if ev.Status.Terminal() {
					closeStream(conn)
					return
				}
			}
		}
	}
}

func closeStream(conn *websocket.Conn) {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
}
